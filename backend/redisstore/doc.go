// Package redisstore provides Redis-backed implementations of the goSession
// profile and role store contracts: [Store] satisfies goSession.ProfileStore,
// goSession.RoleStore, and goSession.UserRoleStore, and [Aggregation] serves
// the server-side role fast path with a single Lua round trip.
//
// Profiles and roles are stored as JSON blobs under a configurable key
// prefix; the user↔role relation is a Redis hash keyed by role ID with the
// assignment time as the value. All transport failures wrap
// goSession.ErrBackendUnavailable so callers can distinguish outages from
// not-found outcomes.
//
// # What this package must NOT do
//
//   - Cache reads — every lookup hits Redis.
//   - Interpret role semantics; it persists and joins, nothing more.
package redisstore
