package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/service/lookup"
)

// lookupService defines the minimal interface needed by LookupHandler.
type lookupService interface {
	Lookup(ctx context.Context, word string) (*lookup.Outcome, error)
	SearchUnits(ctx context.Context, query string, limit int) ([]domain.UnitSummary, error)
	GetUnitDetail(ctx context.Context, unitID uuid.UUID) (*domain.UnitDetail, error)
}

// LookupHandler serves word lookup and the learning unit library.
type LookupHandler struct {
	svc lookupService
	log *slog.Logger
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(svc lookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{svc: svc, log: logger.With("handler", "lookup")}
}

// Lookup handles POST /api/lookup. A newly stored learning unit answers 201.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.Lookup(r.Context(), req.Word)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toLookupResponse(out))
}

// SearchUnits handles GET /api/units?q=&limit=.
func (h *LookupHandler) SearchUnits(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	units, err := h.svc.SearchUnits(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]unitResponse, 0, len(units))
	for _, u := range units {
		resp = append(resp, toUnitResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUnit handles GET /api/units/{id}.
func (h *LookupHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}

	detail, err := h.svc.GetUnitDetail(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUnitDetailResponse(detail))
}
