// Package goSession tracks the authenticated identity of a process, restores
// it across restarts, resolves the roles that identity holds, and exposes
// boolean authorization decisions to route-guarding logic.
//
// The package layers session lifecycle and RBAC semantics on top of an
// opaque, externally-verified [IdentityBackend]: it never issues or
// cryptographically verifies tokens. Flow orchestration lives in
// [Controller], configured once through [Builder.Build] and immutable
// afterwards; Controller methods are safe for concurrent use.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Controller], [Builder],
// [Config], the collaborator contracts ([IdentityBackend], [ProfileStore],
// [RoleAggregation], [UserRoleStore], [RoleStore]), and value types. The
// observable state cell lives in session/, role resolution in rbac/, and
// boundary decisions in guard/; reference collaborator implementations live
// under backend/.
//
// # What this package must NOT do
//
//   - Verify credentials or token signatures (the IdentityBackend's job).
//   - Let UI code write session state; only flows mutate the store.
//   - Import any sub-package that re-imports goSession (no import cycles).
//
// # State contract
//
// Exactly one session store exists per Controller. isLoading is true only
// strictly while a flow is in flight; the last flow error is cleared at the
// start of every new flow attempt before any backend call. Flows are
// serialized per Controller, so the last flow to settle wins the store
// content.
package goSession
