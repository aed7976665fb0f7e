package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricRestoreSuccess, Name: "gosession_restore_success_total", Help: "Session restores that recovered an identity."},
	{ID: goSession.MetricRestoreEmpty, Name: "gosession_restore_empty_total", Help: "Session restores that found no stored session."},
	{ID: goSession.MetricSignUpSuccess, Name: "gosession_signup_success_total", Help: "Sign-ups that established an active session."},
	{ID: goSession.MetricSignUpPending, Name: "gosession_signup_pending_total", Help: "Sign-ups accepted with confirmation pending."},
	{ID: goSession.MetricSignUpFailure, Name: "gosession_signup_failure_total", Help: "Failed sign-up attempts."},
	{ID: goSession.MetricSignInSuccess, Name: "gosession_signin_success_total", Help: "Successful sign-in attempts."},
	{ID: goSession.MetricSignInFailure, Name: "gosession_signin_failure_total", Help: "Failed sign-in attempts."},
	{ID: goSession.MetricSignOutSuccess, Name: "gosession_signout_success_total", Help: "Successful sign-out operations."},
	{ID: goSession.MetricSignOutFailure, Name: "gosession_signout_failure_total", Help: "Sign-out operations refused by the backend."},
	{ID: goSession.MetricProfileLoaded, Name: "gosession_profile_loaded_total", Help: "Profile loads served from the profile store."},
	{ID: goSession.MetricProfileSynthesized, Name: "gosession_profile_synthesized_total", Help: "Profile loads synthesized from identity fields."},
	{ID: goSession.MetricProfileUpdateSuccess, Name: "gosession_profile_update_success_total", Help: "Successful profile updates."},
	{ID: goSession.MetricProfileUpdateFailure, Name: "gosession_profile_update_failure_total", Help: "Failed profile updates."},
	{ID: goSession.MetricRoleFastPath, Name: "gosession_role_fast_path_total", Help: "Role resolutions answered by the server-side aggregation."},
	{ID: goSession.MetricRoleFallbackUsed, Name: "gosession_role_fallback_total", Help: "Role resolutions served by the client-side join."},
	{ID: goSession.MetricRoleResolutionDegraded, Name: "gosession_role_degraded_total", Help: "Role resolutions where both paths failed."},
	{ID: goSession.MetricRoleGranted, Name: "gosession_role_granted_total", Help: "Role grant operations."},
	{ID: goSession.MetricRoleRevoked, Name: "gosession_role_revoked_total", Help: "Role revoke operations."},
}
