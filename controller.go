package goSession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/guard"
	"github.com/MrEthical07/goSession/rbac"
	"github.com/MrEthical07/goSession/session"
)

// Controller is the session lifecycle coordinator. It owns the observable
// session store, drives the credential flows through the identity backend,
// keeps the profile record in sync, and exposes role resolution and route
// guarding built on top of the current identity.
//
// Controller instances are immutable after Build; all mutable state lives
// in the session store and the cached identity, both guarded internally.
// Flows are serialized: a second flow started while one is in progress
// waits for the first to finish.
type Controller struct {
	cfg Config

	backend   IdentityBackend
	profiles  *profileSyncer
	sessions  *session.Store
	resolver  *rbac.Resolver
	guard     *guard.Guard
	roles     RoleStore
	userRoles UserRoleStore

	metrics *Metrics
	audit   *auditDispatcher
	now     func() time.Time

	// flowMu serializes sign-up, sign-in, sign-out and restore so their
	// store writes never interleave.
	flowMu sync.Mutex

	// idMu guards the cached verified identity.
	idMu     sync.Mutex
	identity *Identity

	stopListen func()
}

// Sessions returns the observable session store. Callers subscribe to it
// for state changes; only the controller writes to it.
func (c *Controller) Sessions() *session.Store {
	return c.sessions
}

// Resolver returns the role resolver bound to this controller's stores.
func (c *Controller) Resolver() *rbac.Resolver {
	return c.resolver
}

// Guard returns the route guard configured with this controller's
// redirect targets.
func (c *Controller) Guard() *guard.Guard {
	return c.guard
}

// CurrentIdentity describes the current identity operation and its observable behavior.
//
// CurrentIdentity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) CurrentIdentity() *Identity {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	return c.identity
}

// IdentitySource describes the identity source operation and its observable behavior.
//
// IdentitySource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
// The returned source adapts the controller for [guard.Middleware]; it reads
// the in-memory identity and never returns an error.
func (c *Controller) IdentitySource() guard.IdentitySource {
	return controllerIdentitySource{c: c}
}

type controllerIdentitySource struct{ c *Controller }

func (s controllerIdentitySource) CurrentIdentity(_ context.Context) (*session.Identity, error) {
	return s.c.CurrentIdentity(), nil
}

// IsAuthenticated describes the is authenticated operation and its observable behavior.
//
// IsAuthenticated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) IsAuthenticated() bool {
	return c.CurrentIdentity() != nil
}

// MetricsSnapshot describes the metrics snapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// AuditDropped describes the audit dropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) AuditDropped() uint64 {
	return c.audit.Dropped()
}

// ClearError describes the clear error operation and its observable behavior.
//
// ClearError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) ClearError() {
	c.sessions.SetError("")
}

func (c *Controller) setIdentity(id *Identity) {
	c.idMu.Lock()
	c.identity = id
	c.idMu.Unlock()
}

// runFlow executes fn under the flow lock with the store's loading
// discipline: the previous error is cleared, loading is raised for the
// whole flow, a failure is recorded as the store's last error and
// returned, and loading is lowered on every path.
func (c *Controller) runFlow(fn func() error) error {
	c.flowMu.Lock()
	defer c.flowMu.Unlock()

	c.sessions.SetError("")
	c.sessions.SetLoading(true)
	defer c.sessions.SetLoading(false)

	if err := fn(); err != nil {
		c.sessions.SetError(err.Error())
		return err
	}
	return nil
}

// RestoreSession describes the restore session operation and its observable behavior.
//
// RestoreSession accepts a context used for cancellation and timeouts where applicable.
// RestoreSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) RestoreSession(ctx context.Context) error {
	return c.runFlow(func() error {
		identity, err := c.backend.CurrentIdentity(ctx)
		if err != nil || identity == nil {
			// Absent or unreadable session restores to a clean
			// signed-out state. Restore never raises.
			c.setIdentity(nil)
			c.sessions.Set(nil)
			c.metrics.Inc(MetricRestoreEmpty)
			c.emitAudit(ctx, auditEventRestoreSession, "", err == nil, err)
			return nil
		}

		c.setIdentity(identity)
		c.loadProfileLocked(ctx, identity)
		c.metrics.Inc(MetricRestoreSuccess)
		c.emitAudit(ctx, auditEventRestoreSession, identity.ID, true, nil)
		return nil
	})
}

// SignUp describes the sign up operation and its observable behavior.
//
// SignUp accepts a context used for cancellation and timeouts where applicable.
// SignUp may return an error when input validation, dependency calls, or security checks fail.
// SignUp does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) SignUp(ctx context.Context, email, password string, metadata map[string]string) error {
	return c.runFlow(func() error {
		outcome, err := c.backend.SignUp(ctx, email, password, metadata)
		if err != nil {
			c.metrics.Inc(MetricSignUpFailure)
			c.emitAudit(ctx, auditEventSignUpFailure, "", false, err)
			return fmt.Errorf("%w: %v", ErrBackendRejected, err)
		}

		if outcome.Identity == nil || !outcome.SessionActive {
			// Confirmation pending: the backend accepted the account
			// but established no session. Local state stays signed out.
			c.metrics.Inc(MetricSignUpPending)
			c.emitAudit(ctx, auditEventSignUpSuccess, "", true, nil)
			return nil
		}

		c.setIdentity(outcome.Identity)
		c.loadProfileLocked(ctx, outcome.Identity)
		c.metrics.Inc(MetricSignUpSuccess)
		c.emitAudit(ctx, auditEventSignUpSuccess, outcome.Identity.ID, true, nil)
		return nil
	})
}

// SignIn describes the sign in operation and its observable behavior.
//
// SignIn accepts a context used for cancellation and timeouts where applicable.
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	return c.runFlow(func() error {
		outcome, err := c.backend.SignInWithPassword(ctx, email, password)
		if err != nil {
			c.metrics.Inc(MetricSignInFailure)
			c.emitAudit(ctx, auditEventSignInFailure, "", false, err)
			return fmt.Errorf("%w: %v", ErrBackendRejected, err)
		}
		if outcome.Identity == nil {
			c.metrics.Inc(MetricSignInFailure)
			c.emitAudit(ctx, auditEventSignInFailure, "", false, ErrNotAuthenticated)
			return fmt.Errorf("%w: backend returned no identity", ErrBackendRejected)
		}
		if !outcome.SessionActive {
			// An identity without a live session (e.g. a confirmation step
			// still pending) must not be treated as signed in.
			c.metrics.Inc(MetricSignInFailure)
			c.emitAudit(ctx, auditEventSignInFailure, outcome.Identity.ID, false, ErrNotAuthenticated)
			return fmt.Errorf("%w: no active session for %s", ErrBackendRejected, outcome.Identity.ID)
		}

		c.setIdentity(outcome.Identity)
		c.loadProfileLocked(ctx, outcome.Identity)
		c.metrics.Inc(MetricSignInSuccess)
		c.emitAudit(ctx, auditEventSignInSuccess, outcome.Identity.ID, true, nil)
		return nil
	})
}

// SignOut describes the sign out operation and its observable behavior.
//
// SignOut accepts a context used for cancellation and timeouts where applicable.
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// SignOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) SignOut(ctx context.Context) error {
	return c.runFlow(func() error {
		current := c.CurrentIdentity()
		userID := ""
		if current != nil {
			userID = current.ID
		}

		if err := c.backend.SignOut(ctx); err != nil {
			// Local state is left untouched when the backend refuses
			// the sign-out: the session may still be live server-side.
			c.metrics.Inc(MetricSignOutFailure)
			c.emitAudit(ctx, auditEventSignOutFailure, userID, false, err)
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}

		c.setIdentity(nil)
		c.sessions.Set(nil)
		c.metrics.Inc(MetricSignOutSuccess)
		c.emitAudit(ctx, auditEventSignOutSuccess, userID, true, nil)
		return nil
	})
}

// LoadProfile describes the load profile operation and its observable behavior.
//
// LoadProfile accepts a context used for cancellation and timeouts where applicable.
// LoadProfile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) LoadProfile(ctx context.Context) {
	c.flowMu.Lock()
	defer c.flowMu.Unlock()
	c.loadProfileLocked(ctx, c.CurrentIdentity())
}

// loadProfileLocked refreshes the stored profile for identity. It never
// raises: a failed load degrades to a nil profile while the session
// stays authenticated.
func (c *Controller) loadProfileLocked(ctx context.Context, identity *Identity) {
	if identity == nil {
		c.sessions.Set(nil)
		return
	}

	profile, synthesized, err := c.profiles.Load(ctx, identity)
	if err != nil {
		c.sessions.Set(nil)
		return
	}

	if synthesized {
		c.metrics.Inc(MetricProfileSynthesized)
	} else {
		c.metrics.Inc(MetricProfileLoaded)
	}
	c.sessions.Set(profile)
}

// UpdateProfile describes the update profile operation and its observable behavior.
//
// UpdateProfile accepts a context used for cancellation and timeouts where applicable.
// UpdateProfile may return an error when input validation, dependency calls, or security checks fail.
// UpdateProfile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) UpdateProfile(ctx context.Context, patch ProfilePatch) error {
	return c.runFlow(func() error {
		identity := c.CurrentIdentity()
		if identity == nil {
			c.metrics.Inc(MetricProfileUpdateFailure)
			return ErrNotAuthenticated
		}

		updated, err := c.profiles.Update(ctx, identity, patch)
		if err != nil {
			c.metrics.Inc(MetricProfileUpdateFailure)
			c.emitAudit(ctx, auditEventProfileUpdate, identity.ID, false, err)
			return err
		}

		c.sessions.Set(updated)
		c.metrics.Inc(MetricProfileUpdateSuccess)
		c.emitAudit(ctx, auditEventProfileUpdate, identity.ID, true, nil)
		return nil
	})
}

func (c *Controller) emitAudit(ctx context.Context, eventType, userID string, success bool, cause error) {
	if c.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: c.now(),
		EventType: eventType,
		UserID:    userID,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	c.audit.Emit(ctx, event)
}
