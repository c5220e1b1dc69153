package middleware

import (
	"net/http"

	"github.com/heartmarshall/myvocab-backend/internal/metrics"
)

// Metrics records request count, latency and in-flight requests per route.
// Requests that match no route are labelled "unmatched" to keep the label
// set bounded.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := metrics.HTTPRequestStarted()
			sw := wrapStatus(w)

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			done(r.Method, route, sw.status)
		})
	}
}
