package guard

import (
	"context"

	"github.com/MrEthical07/goSession/rbac"
	"github.com/MrEthical07/goSession/session"
)

const (
	// DefaultLoginRedirect is where unauthenticated traffic is sent.
	DefaultLoginRedirect = "/auth/login"
	// DefaultUnauthorizedRedirect is where authenticated but
	// under-privileged traffic is sent.
	DefaultUnauthorizedRedirect = "/unauthorized"
)

// Decision is the outcome of a guard check: either allow, or deny with the
// redirect target the caller should navigate to. The guard only decides —
// performing the navigation belongs to the routing layer.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision {
	return Decision{Allow: true}
}

func deny(redirect string) Decision {
	return Decision{Redirect: redirect}
}

// Guard evaluates navigation boundaries against the current identity and
// the role resolver. It holds no mutable state and never writes to the
// session store.
type Guard struct {
	resolver             *rbac.Resolver
	loginRedirect        string
	unauthorizedRedirect string
}

// Options overrides the deny redirect targets. Empty fields keep the
// defaults.
type Options struct {
	LoginRedirect        string
	UnauthorizedRedirect string
}

// New creates a [Guard] over the given resolver. resolver may be nil only
// when [Guard.CanEnterWithRole] is never used with a non-empty requirement;
// role checks without a resolver deny fail-closed.
func New(resolver *rbac.Resolver, opts Options) *Guard {
	login := opts.LoginRedirect
	if login == "" {
		login = DefaultLoginRedirect
	}
	unauthorized := opts.UnauthorizedRedirect
	if unauthorized == "" {
		unauthorized = DefaultUnauthorizedRedirect
	}

	return &Guard{
		resolver:             resolver,
		loginRedirect:        login,
		unauthorizedRedirect: unauthorized,
	}
}

// CanEnter allows iff an identity is present; otherwise it denies toward
// the login redirect.
func (g *Guard) CanEnter(identity *session.Identity) Decision {
	if identity == nil || identity.ID == "" {
		return deny(g.loginRedirect)
	}
	return allow()
}

// CanEnterWithRole allows unconditionally when requiredRoles is empty (no
// requirement declared). Otherwise it allows iff the identity holds at
// least one of the required role names (OR semantics). Resolution failures
// deny toward the unauthorized redirect — never allow.
func (g *Guard) CanEnterWithRole(ctx context.Context, identity *session.Identity, requiredRoles []string) Decision {
	if len(requiredRoles) == 0 {
		return allow()
	}
	if g.resolver == nil {
		return deny(g.unauthorizedRedirect)
	}

	held, outcome := g.resolver.RolesFor(ctx, identity)
	if outcome == rbac.OutcomeDegraded {
		return deny(g.unauthorizedRedirect)
	}
	for _, name := range requiredRoles {
		if held.Has(name) {
			return allow()
		}
	}
	return deny(g.unauthorizedRedirect)
}
