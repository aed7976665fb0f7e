package goSession

import (
	"context"
	"time"

	"github.com/MrEthical07/goSession/rbac"
	"github.com/MrEthical07/goSession/session"
)

// Identity is the backend-verified principal behind a session.
//
//	See [session.Identity].
type Identity = session.Identity

// Profile is the application-level user record derived from an [Identity].
//
//	See [session.Profile].
type Profile = session.Profile

// SessionState is the observable content of the session store.
//
//	See [session.State].
type SessionState = session.State

// Role is a named capability assignable to a profile.
//
//	See [rbac.Role].
type Role = rbac.Role

// UserRole links a profile to a [Role].
//
//	See [rbac.UserRole].
type UserRole = rbac.UserRole

// AggregatedRoles is the tagged result of the server-side role aggregation.
//
//	See [rbac.AggregatedRoles].
type AggregatedRoles = rbac.AggregatedRoles

// RoleAggregation is the server-side role aggregation capability.
type RoleAggregation = rbac.Aggregation

// UserRoleStore persists the user↔role relation.
type UserRoleStore = rbac.UserRoleStore

// RoleStore resolves roles by id and by name.
type RoleStore = rbac.RoleStore

// SessionEvent identifies the kind of backend session change delivered to
// [IdentityBackend.OnSessionChange] listeners.
type SessionEvent string

const (
	// SessionSignedIn is an exported constant or variable used by the session engine.
	SessionSignedIn SessionEvent = "SIGNED_IN"
	// SessionSignedOut is an exported constant or variable used by the session engine.
	SessionSignedOut SessionEvent = "SIGNED_OUT"
	// SessionTokenRefreshed is an exported constant or variable used by the session engine.
	SessionTokenRefreshed SessionEvent = "TOKEN_REFRESHED"
)

// AuthOutcome is returned by [IdentityBackend.SignUp] and
// [IdentityBackend.SignInWithPassword]. Identity is nil when the backend
// produced no verified principal; SessionActive reports whether the backend
// also established an active session (sign-up with email confirmation
// pending returns an identity without an active session).
type AuthOutcome struct {
	Identity      *Identity
	SessionActive bool
}

// IdentityBackend is the opaque external capability providing credential
// exchange, token storage/refresh, and the current verified identity. The
// session layer consumes an externally-verified session and never inspects
// credentials or token signatures itself.
//
// CurrentIdentity reads locally cached/refreshed token state only — it must
// not prompt or perform an interactive exchange. It returns (nil, nil) when
// no session is present.
//
// OnSessionChange registers a listener for background token refresh and
// expiry, invoked asynchronously at most once per underlying change; it
// returns a function that detaches the listener.
type IdentityBackend interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (AuthOutcome, error)
	SignInWithPassword(ctx context.Context, email, password string) (AuthOutcome, error)
	SignOut(ctx context.Context) error
	CurrentIdentity(ctx context.Context) (*Identity, error)
	OnSessionChange(fn func(event SessionEvent, identity *Identity)) (unsubscribe func())
}

// ProfilePatch is a partial profile write. Nil pointer fields are left
// untouched; Metadata replaces the stored metadata when non-nil. UpdatedAt
// is stamped by the profile syncer before the write reaches the store.
type ProfilePatch struct {
	DisplayName *string
	AvatarURL   *string
	Metadata    map[string]string
	UpdatedAt   time.Time
}

// ProfileStore is the queryable profile record store. GetByID returns
// [ErrProfileNotFound] when no record exists for the id — implementations
// must distinguish this normal outcome from transport failures, which wrap
// [ErrBackendUnavailable].
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Upsert(ctx context.Context, id string, patch ProfilePatch) (*Profile, error)
	List(ctx context.Context, limit, offset int) ([]Profile, error)
}
