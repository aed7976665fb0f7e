package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrEthical07/goSession/rbac"
	"github.com/MrEthical07/goSession/session"
)

type stubAggregation struct {
	result rbac.AggregatedRoles
	err    error
}

func (s *stubAggregation) GetRoles(_ context.Context, _ string) (rbac.AggregatedRoles, error) {
	return s.result, s.err
}

type failingUserRoleStore struct{}

func (failingUserRoleStore) ListForUser(_ context.Context, _ string) ([]rbac.UserRole, error) {
	return nil, errors.New("store down")
}

func (failingUserRoleStore) Assign(_ context.Context, _, _ string) (rbac.UserRole, error) {
	return rbac.UserRole{}, errors.New("store down")
}

func (failingUserRoleStore) Remove(_ context.Context, _, _ string) error {
	return errors.New("store down")
}

type emptyRoleStore struct{}

func (emptyRoleStore) GetByID(_ context.Context, _ string) (*rbac.Role, error) {
	return nil, rbac.ErrRoleNotFound
}

func (emptyRoleStore) GetByName(_ context.Context, _ string) (*rbac.Role, error) {
	return nil, rbac.ErrRoleNotFound
}

func resolverWithRoles(names ...string) *rbac.Resolver {
	return rbac.NewResolver(&stubAggregation{
		result: rbac.AggregatedRoles{Names: names, Resolved: true},
	}, nil, nil)
}

func degradedResolver() *rbac.Resolver {
	return rbac.NewResolver(&stubAggregation{err: errors.New("rpc down")}, failingUserRoleStore{}, emptyRoleStore{})
}

func TestCanEnterRequiresIdentity(t *testing.T) {
	g := New(nil, Options{})

	if d := g.CanEnter(nil); d.Allow || d.Redirect != DefaultLoginRedirect {
		t.Fatalf("expected deny toward login, got %+v", d)
	}
	if d := g.CanEnter(&session.Identity{ID: "u1"}); !d.Allow {
		t.Fatalf("expected allow for present identity, got %+v", d)
	}
}

func TestCanEnterWithRoleEmptyRequirementAlwaysAllows(t *testing.T) {
	g := New(nil, Options{})

	if d := g.CanEnterWithRole(context.Background(), nil, nil); !d.Allow {
		t.Fatalf("expected unconditional allow, got %+v", d)
	}
	if d := g.CanEnterWithRole(context.Background(), &session.Identity{ID: "u1"}, []string{}); !d.Allow {
		t.Fatalf("expected unconditional allow, got %+v", d)
	}
}

func TestCanEnterWithRoleOrSemantics(t *testing.T) {
	g := New(resolverWithRoles("customer"), Options{})
	identity := &session.Identity{ID: "u1"}

	d := g.CanEnterWithRole(context.Background(), identity, []string{"admin", "customer"})
	if !d.Allow {
		t.Fatalf("expected allow when any required role is held, got %+v", d)
	}

	d = g.CanEnterWithRole(context.Background(), identity, []string{"admin"})
	if d.Allow || d.Redirect != DefaultUnauthorizedRedirect {
		t.Fatalf("expected deny toward unauthorized, got %+v", d)
	}
}

func TestCanEnterWithRoleAbsentIdentityDeniesUnauthorized(t *testing.T) {
	g := New(resolverWithRoles(), Options{})

	d := g.CanEnterWithRole(context.Background(), nil, []string{"admin"})
	if d.Allow || d.Redirect != DefaultUnauthorizedRedirect {
		t.Fatalf("role-gated path must redirect to unauthorized, got %+v", d)
	}
}

func TestCanEnterWithRoleFailsClosedOnDegradedResolution(t *testing.T) {
	g := New(degradedResolver(), Options{})

	d := g.CanEnterWithRole(context.Background(), &session.Identity{ID: "u1"}, []string{"admin"})
	if d.Allow || d.Redirect != DefaultUnauthorizedRedirect {
		t.Fatalf("expected fail-closed deny, got %+v", d)
	}
}

func TestCanEnterWithRoleNilResolverDenies(t *testing.T) {
	g := New(nil, Options{})

	d := g.CanEnterWithRole(context.Background(), &session.Identity{ID: "u1"}, []string{"admin"})
	if d.Allow {
		t.Fatal("expected deny without a resolver")
	}
}

func TestOptionsOverrideRedirects(t *testing.T) {
	g := New(nil, Options{LoginRedirect: "/signin", UnauthorizedRedirect: "/denied"})

	if d := g.CanEnter(nil); d.Redirect != "/signin" {
		t.Fatalf("expected custom login redirect, got %q", d.Redirect)
	}
	if d := g.CanEnterWithRole(context.Background(), &session.Identity{ID: "u1"}, []string{"admin"}); d.Redirect != "/denied" {
		t.Fatalf("expected custom unauthorized redirect, got %q", d.Redirect)
	}
}

type stubIdentitySource struct {
	identity *session.Identity
	err      error
}

func (s *stubIdentitySource) CurrentIdentity(_ context.Context) (*session.Identity, error) {
	return s.identity, s.err
}

func TestMiddlewareRedirectsAnonymousToLogin(t *testing.T) {
	g := New(nil, Options{})
	handler := Middleware(g, &stubIdentitySource{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run for anonymous request")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != DefaultLoginRedirect {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}

func TestMiddlewarePassesIdentityThroughContext(t *testing.T) {
	g := New(resolverWithRoles("admin"), Options{})
	source := &stubIdentitySource{identity: &session.Identity{ID: "u1"}}

	var seen *session.Identity
	handler := Middleware(g, source, []string{"admin"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.ID != "u1" {
		t.Fatalf("expected identity in context, got %+v", seen)
	}
}

func TestMiddlewareRedirectsMissingRoleToUnauthorized(t *testing.T) {
	g := New(resolverWithRoles("customer"), Options{})
	source := &stubIdentitySource{identity: &session.Identity{ID: "u1"}}

	handler := Middleware(g, source, []string{"admin"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != DefaultUnauthorizedRedirect {
		t.Fatalf("expected redirect to unauthorized, got %q", loc)
	}
}
