// Package guard makes allow/deny decisions at navigation and authorization
// boundaries.
//
// # Decision, not navigation
//
// Guards are pure: they read the current identity and consult the role
// resolver, and produce a [Decision] (allow, or deny plus redirect target).
// The act of navigating belongs to the caller; [Middleware] is a thin
// net/http adapter that performs the redirect for HTTP routes.
//
// # Fail-closed contract
//
// A role check that cannot be completed confidently — missing resolver,
// degraded resolution — denies. An empty role requirement is the only
// unconditional allow.
//
// # What this package must NOT do
//
//   - Mutate session state.
//   - Import goSession (no upward imports).
//   - Issue backend calls beyond the single resolver lookup per check.
package guard
