// Package rbac resolves which named roles an identity holds.
//
// # Two-tier resolution
//
// The [Resolver] prefers a server-side aggregation (one round trip, join
// computed by the backend) and falls back to a client-orchestrated join over
// [UserRoleStore] and [RoleStore] when the aggregation raises, errors, or
// returns an unresolved result. A resolved empty list is terminal — only an
// unavailable aggregation triggers the fallback.
//
// # Fail-closed contract
//
// The resolver never surfaces errors. Unauthenticated identities and
// internal failures both degrade to the empty role set, so every role-gated
// check downstream denies by default.
//
// # What this package must NOT do
//
//   - Import goSession or guard (no upward imports).
//   - Cache role sets across invocations; freshness policy belongs to the
//     aggregation implementation.
//   - Mutate session state.
package rbac
