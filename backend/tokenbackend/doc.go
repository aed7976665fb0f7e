// Package tokenbackend provides a goSession.IdentityBackend over an
// externally-verified JWT access/refresh token pair.
//
// The backend never verifies token signatures: tokens reach it from an
// issuer or API gateway that has already authenticated the exchange, so
// [Backend] only reads the standard claims (sub, email, exp) and the
// user_metadata claim to materialize the identity. Credential exchange and
// revocation are delegated to an [Exchanger]; token storage, expiry checks,
// and session-change fan-out happen locally.
//
// # Architecture boundaries
//
//   - Upward: implements goSession.IdentityBackend; never imports the
//     controller.
//   - Downward: talks only to the injected [Exchanger].
//
// # What this package must NOT do
//
//   - Verify or mint token signatures.
//   - Persist tokens; the pair lives in process memory only.
package tokenbackend
