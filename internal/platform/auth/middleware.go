package auth

import (
	"net/http"
	"strings"

	"github.com/loomhaven/api/internal/platform/httpx"
)

// OptionalMiddleware attaches an identity to the context when a valid bearer
// token is present, and passes the request through untouched otherwise.
func OptionalMiddleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if id, err := tm.VerifyAccess(raw); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMiddleware rejects requests that do not carry a valid access token.
func RequireMiddleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.Unauthorized(w, r, "authentication required")
				return
			}
			id, err := tm.VerifyAccess(raw)
			if err != nil {
				httpx.Unauthorized(w, r, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireStaffMiddleware additionally requires the staff flag on the identity.
func RequireStaffMiddleware(tm *TokenManager) func(http.Handler) http.Handler {
	require := RequireMiddleware(tm)
	return func(next http.Handler) http.Handler {
		return require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !id.Staff {
				httpx.Forbidden(w, r, "staff access required")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
