package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/pkg/ctxutil"
)

// UserIDHeader is set by the upstream gateway after authenticating the caller.
const UserIDHeader = "X-User-Id"

// UserIdentity stores the user id from UserIDHeader in the context. Requests
// without the header pass through anonymously; a malformed id is rejected.
func UserIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				writeError(w, http.StatusBadRequest, "invalid "+UserIDHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), id)))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
