package goSession

import (
	"errors"
	"time"

	"github.com/MrEthical07/goSession/guard"
	"github.com/MrEthical07/goSession/rbac"
	"github.com/MrEthical07/goSession/session"
)

// Builder assembles a [Controller]. Collaborators are supplied through
// WithX methods; Build validates the assembly and returns an immutable
// controller. A Builder is single-use.
type Builder struct {
	cfg Config

	backend      IdentityBackend
	profileStore ProfileStore
	aggregation  RoleAggregation
	roleStore    RoleStore
	userRoles    UserRoleStore
	sessionStore *session.Store
	auditSink    AuditSink
	now          func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		cfg: defaultConfig(),
		now: time.Now,
	}
}

// WithConfig describes the with config operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cloneConfig(cfg)
	return b
}

// WithIdentityBackend describes the with identity backend operation and its observable behavior.
//
// WithIdentityBackend does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityBackend(backend IdentityBackend) *Builder {
	b.backend = backend
	return b
}

// WithProfileStore describes the with profile store operation and its observable behavior.
//
// WithProfileStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithProfileStore(store ProfileStore) *Builder {
	b.profileStore = store
	return b
}

// WithRoleAggregation describes the with role aggregation operation and its observable behavior.
//
// WithRoleAggregation does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRoleAggregation(aggregation RoleAggregation) *Builder {
	b.aggregation = aggregation
	return b
}

// WithRoleStores describes the with role stores operation and its observable behavior.
//
// WithRoleStores does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRoleStores(roles RoleStore, userRoles UserRoleStore) *Builder {
	b.roleStore = roles
	b.userRoles = userRoles
	return b
}

// WithSessionStore describes the with session store operation and its observable behavior.
//
// WithSessionStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSessionStore(store *session.Store) *Builder {
	b.sessionStore = store
	return b
}

// WithAuditSink describes the with audit sink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.cfg.Audit.Enabled = true
	}
	return b
}

// WithMetricsEnabled describes the with metrics enabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.cfg.Metrics.Enabled = enabled
	return b
}

// WithClock overrides the controller's time source. Intended for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("goSession: Build called twice on the same Builder")
	}
	if b.backend == nil {
		return nil, errors.New("goSession: an IdentityBackend is required")
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	b.built = true

	store := b.sessionStore
	if store == nil {
		store = session.NewStore()
	}

	resolver := rbac.NewResolver(b.aggregation, b.userRoles, b.roleStore)

	c := &Controller{
		cfg:       b.cfg,
		backend:   b.backend,
		profiles:  newProfileSyncer(b.profileStore, b.now),
		sessions:  store,
		resolver:  resolver,
		roles:     b.roleStore,
		userRoles: b.userRoles,
		metrics:   NewMetrics(b.cfg.Metrics),
		audit:     newAuditDispatcher(b.cfg.Audit, b.auditSink),
		now:       b.now,
	}
	c.guard = guard.New(resolver, guard.Options{
		LoginRedirect:        b.cfg.Guard.LoginRedirect,
		UnauthorizedRedirect: b.cfg.Guard.UnauthorizedRedirect,
	})

	return c, nil
}
