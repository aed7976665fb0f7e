package rbac

import (
	"context"

	"github.com/MrEthical07/goSession/session"
)

// Outcome tags which resolution path produced a role set.
type Outcome uint8

const (
	// OutcomeUnauthenticated means no identity was supplied; the empty set
	// is returned without touching either path.
	OutcomeUnauthenticated Outcome = iota
	// OutcomeFastPath means the server-side aggregation answered.
	OutcomeFastPath
	// OutcomeFallback means the aggregation was unavailable and the
	// client-side join produced the set.
	OutcomeFallback
	// OutcomeDegraded means both paths failed; the empty set is returned
	// so downstream checks fail closed.
	OutcomeDegraded
)

// Resolver determines the role names held by an identity using a two-tier
// lookup: a server-side aggregation first, then a client-orchestrated join
// over [UserRoleStore] and [RoleStore] when the aggregation raises, errors,
// or returns an unresolved result.
//
// The fallback trades one extra round trip for availability: it computes the
// same join, just client-side, so a missing or misconfigured aggregation
// degrades correctness gracefully instead of failing hard. The two tiers are
// strictly sequential — the resolver never issues speculative parallel
// lookups.
//
// Resolver never reports errors to callers. Every internal failure degrades
// to the empty set, which makes role-gated checks deny by default.
type Resolver struct {
	aggregation Aggregation
	userRoles   UserRoleStore
	roles       RoleStore
}

// NewResolver creates a [Resolver]. aggregation may be nil, in which case
// every lookup takes the fallback join. userRoles and roles may be nil only
// when aggregation is the sole supported path; lookups degrade to the empty
// set when no usable path remains.
func NewResolver(aggregation Aggregation, userRoles UserRoleStore, roles RoleStore) *Resolver {
	return &Resolver{
		aggregation: aggregation,
		userRoles:   userRoles,
		roles:       roles,
	}
}

// RolesFor returns the set of role names held by identity and the path that
// produced it. A nil identity yields the empty set immediately.
func (r *Resolver) RolesFor(ctx context.Context, identity *session.Identity) (Set, Outcome) {
	if identity == nil || identity.ID == "" {
		return Set{}, OutcomeUnauthenticated
	}

	if r.aggregation != nil {
		agg, err := r.aggregation.GetRoles(ctx, identity.ID)
		if err == nil && agg.Resolved {
			return setOf(agg.Names), OutcomeFastPath
		}
	}

	set, ok := r.joinRoles(ctx, identity.ID)
	if !ok {
		return Set{}, OutcomeDegraded
	}
	return set, OutcomeFallback
}

// HasRole reports whether identity holds the role with the given name.
// Case-sensitive, exact match. Resolution failures report false.
func (r *Resolver) HasRole(ctx context.Context, identity *session.Identity, name string) bool {
	set, _ := r.RolesFor(ctx, identity)
	return set.Has(name)
}

// joinRoles performs the client-side join: list the user's role relations,
// then resolve each relation to a role name. Relations whose role lookup
// fails or is absent are filtered out rather than failing the set.
func (r *Resolver) joinRoles(ctx context.Context, userID string) (Set, bool) {
	if r.userRoles == nil || r.roles == nil {
		return nil, false
	}

	relations, err := r.userRoles.ListForUser(ctx, userID)
	if err != nil {
		return nil, false
	}

	set := make(Set, len(relations))
	for _, rel := range relations {
		role, err := r.roles.GetByID(ctx, rel.RoleID)
		if err != nil || role == nil || role.Name == "" {
			continue
		}
		set[role.Name] = struct{}{}
	}
	return set, true
}
