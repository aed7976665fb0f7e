// Package session provides the observable session state cell shared by the
// flow controller, guards, and UI code.
//
// # Single source of truth
//
// Exactly one [Store] exists per controller. It holds the current [State]
// (profile, loading flag, last flow error) and broadcasts every change to
// subscribers in write order. The store is a state cell, not a policy layer:
// it validates nothing and talks to no backend.
//
// # Architecture boundaries
//
// This package owns [Store], [State], [Identity], and [Profile]. It does NOT
// run authentication flows, resolve roles, or make authorization decisions —
// those responsibilities belong to the Controller and the rbac and guard
// packages.
//
// # What this package must NOT do
//
//   - Import goSession, rbac, or guard (no upward imports).
//   - Perform I/O of any kind.
//   - Mutate state on behalf of readers; only the flow controller writes.
package session
