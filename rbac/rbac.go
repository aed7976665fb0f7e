package rbac

import (
	"context"
	"errors"
	"time"
)

// ErrRoleNotFound is returned by [RoleStore] implementations when no role
// matches the requested id or name.
var ErrRoleNotFound = errors.New("role not found")

// Role is a named capability assignable to a profile. Role names — never
// ids — are the unit of authorization checks, so name uniqueness must be
// enforced by the role store.
type Role struct {
	ID          string
	Name        string
	Description string
}

// UserRole links a profile to a [Role] (many-to-many).
type UserRole struct {
	UserID     string
	RoleID     string
	AssignedAt time.Time
}

// AggregatedRoles is the tagged result of the server-side aggregation call.
// Resolved reports whether the aggregation produced an answer at all: a
// resolved empty list is a terminal result, while an unresolved result sends
// the resolver down the fallback join.
type AggregatedRoles struct {
	Names    []string
	Resolved bool
}

// Aggregation is the server-side capability that returns role names for a
// user in a single round trip. Implementations return an unresolved
// [AggregatedRoles] (or an error) when the capability is absent or
// misconfigured; the resolver then falls back to the client-side join.
type Aggregation interface {
	GetRoles(ctx context.Context, userID string) (AggregatedRoles, error)
}

// UserRoleStore persists the user↔role relation.
type UserRoleStore interface {
	ListForUser(ctx context.Context, userID string) ([]UserRole, error)
	Assign(ctx context.Context, userID, roleID string) (UserRole, error)
	Remove(ctx context.Context, userID, roleID string) error
}

// RoleStore resolves roles by id and by name.
type RoleStore interface {
	GetByID(ctx context.Context, roleID string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
}

// Set is an unordered collection of role names.
type Set map[string]struct{}

// Has reports whether name is in the set. Case-sensitive, exact match.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set contents as a slice, in unspecified order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	return out
}

func setOf(names []string) Set {
	out := make(Set, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		out[name] = struct{}{}
	}
	return out
}
