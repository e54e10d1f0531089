package chi

import (
	"net/http"
	"strings"

	"github.com/opendash/searchd/internal/domain/auth"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Key maps one API key to the principal it authenticates.
type Key struct {
	Key         string
	UserID      string
	Permissions []string
}

// AuthMiddleware returns a middleware that resolves Bearer tokens to caller
// principals and installs them into the request context. With an empty key list
// authentication is disabled: every request runs as an anonymous principal
// holding defaultPermissions.
func AuthMiddleware(keys []Key, defaultPermissions []string) func(http.Handler) http.Handler {
	principals := make(map[string]auth.Principal, len(keys))
	for _, k := range keys {
		if k.Key != "" {
			principals[k.Key] = auth.New(k.UserID, k.Permissions)
		}
	}
	anonymous := auth.New(auth.Anonymous().UserID(), defaultPermissions)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			// Auth disabled — pass everything through as the anonymous principal
			if len(principals) == 0 {
				ctx := auth.ContextWithPrincipal(r.Context(), anonymous)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := header[len(bearerPrefix):]
			principal, ok := principals[token]
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
