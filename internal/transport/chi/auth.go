package chi

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/docqa/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Authenticator validates tenant credentials and returns the tenant identity.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// ContextWithIdentity stores the authenticated tenant identity in the context.
func ContextWithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated tenant identity, or "" when
// the request was not authenticated.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// BasicAuthMiddleware returns a middleware that validates HTTP basic
// credentials against the user store. The authenticated email becomes the
// tenant identity for the request.
func BasicAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			email, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="docqa"`)
				writeError(w, http.StatusUnauthorized, CodeInvalidCredentials, "missing credentials")
				return
			}

			identity, err := auth.Authenticate(r.Context(), email, password)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="docqa"`)
				writeError(w, http.StatusUnauthorized, CodeInvalidCredentials,
					safeDomainMessage(domain.ErrInvalidCredentials))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}
