package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/novamart/novamart-api/internal/domain/user"
)

// RoleAny admits any authenticated account regardless of role.
const RoleAny user.Role = "any"

// Middleware returns a guard that verifies the bearer token and checks the
// caller's role against the allowed set before passing the request on.
func (m *Manager) Middleware(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	_, any := allowed[RoleAny]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := m.VerifyToken(raw)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}
			if !any {
				if _, ok := allowed[claims.Role]; !ok {
					forbidden(w)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusUnauthorized, msg)
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "insufficient role")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
