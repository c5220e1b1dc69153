package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/myvocab-backend/internal/transport/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Health *HealthHandler
	Lookup *LookupHandler
	Vocab  *VocabHandler
}

// NewRouter registers every route. lookupLimit wraps the routes that may
// reach the dictionary API.
func NewRouter(h Handlers, lookupLimit middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /api/lookup", lookupLimit(http.HandlerFunc(h.Lookup.Lookup)))
	mux.HandleFunc("GET /api/units", h.Lookup.SearchUnits)
	mux.HandleFunc("GET /api/units/{id}", h.Lookup.GetUnit)

	user := middleware.RequireUser
	mux.Handle("POST /api/vocab", user(http.HandlerFunc(h.Vocab.Add)))
	mux.Handle("POST /api/vocab/{unitId}/reviews", user(http.HandlerFunc(h.Vocab.Review)))
	mux.Handle("GET /api/vocab/due", user(http.HandlerFunc(h.Vocab.Due)))
	mux.Handle("GET /api/vocab/due/count", user(http.HandlerFunc(h.Vocab.DueCount)))
	mux.Handle("GET /api/vocab/summary", user(http.HandlerFunc(h.Vocab.Summary)))
	mux.Handle("POST /api/vocab/progress", user(http.HandlerFunc(h.Vocab.RecordProgress)))
	mux.Handle("GET /api/vocab/progress", user(http.HandlerFunc(h.Vocab.Progress)))

	return mux
}
