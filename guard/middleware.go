package guard

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goSession/session"
)

// IdentitySource yields the current identity for a request. Adapt the flow
// controller with its IdentitySource method.
type IdentitySource interface {
	CurrentIdentity(ctx context.Context) (*session.Identity, error)
}

type identityContextKey struct{}

// IdentityFromContext returns the identity attached by [Middleware].
func IdentityFromContext(ctx context.Context) (*session.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*session.Identity)
	return identity, ok
}

// Middleware translates guard decisions into HTTP navigation: denied
// requests are redirected to the decision's target, allowed requests carry
// the identity in the request context. requiredRoles may be empty for
// authentication-only protection.
func Middleware(g *Guard, source IdentitySource, requiredRoles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g == nil || source == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := source.CurrentIdentity(r.Context())
			if err != nil {
				identity = nil
			}

			if d := g.CanEnter(identity); !d.Allow {
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}
			if d := g.CanEnterWithRole(r.Context(), identity, requiredRoles); !d.Allow {
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
