package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/pkg/ctxutil"
)

// OwnerHeader carries the owner ID set by the gateway in front of the API.
const OwnerHeader = "X-Owner-Id"

// Owner returns middleware that puts the owner ID from OwnerHeader into the
// request context. Requests without a valid owner are rejected.
func Owner() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(OwnerHeader))
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
				return
			}
			owner, err := uuid.Parse(raw)
			if err != nil || owner == uuid.Nil {
				writeError(w, http.StatusBadRequest, "invalid "+OwnerHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxutil.WithOwnerID(r.Context(), owner)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
