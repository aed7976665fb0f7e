package goSession

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goSession/rbac"
)

// RolesForCurrent describes the roles for current operation and its observable behavior.
//
// RolesForCurrent accepts a context used for cancellation and timeouts where applicable.
// RolesForCurrent does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) RolesForCurrent(ctx context.Context) (rbac.Set, rbac.Outcome) {
	identity := c.CurrentIdentity()
	held, outcome := c.resolver.RolesFor(ctx, identity)

	switch outcome {
	case rbac.OutcomeFastPath:
		c.metrics.Inc(MetricRoleFastPath)
	case rbac.OutcomeFallback:
		c.metrics.Inc(MetricRoleFallbackUsed)
		c.emitAudit(ctx, auditEventRoleFallbackUsed, userIDOf(identity), true, nil)
	case rbac.OutcomeDegraded:
		c.metrics.Inc(MetricRoleResolutionDegraded)
		c.emitAudit(ctx, auditEventRoleDegraded, userIDOf(identity), false, nil)
	}

	return held, outcome
}

// HasRole describes the has role operation and its observable behavior.
//
// HasRole accepts a context used for cancellation and timeouts where applicable.
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) HasRole(ctx context.Context, name string) bool {
	held, _ := c.RolesForCurrent(ctx)
	return held.Has(name)
}

// requireAdmin resolves the caller's roles and fails closed unless the
// configured admin role is held.
func (c *Controller) requireAdmin(ctx context.Context) error {
	identity := c.CurrentIdentity()
	if identity == nil {
		return ErrNotAuthenticated
	}
	held, outcome := c.RolesForCurrent(ctx)
	if outcome == rbac.OutcomeDegraded {
		return fmt.Errorf("%w: role resolution degraded", ErrPermissionDenied)
	}
	if !held.Has(c.cfg.Roles.AdminRole) {
		return ErrPermissionDenied
	}
	return nil
}

// AssignRole describes the assign role operation and its observable behavior.
//
// AssignRole accepts a context used for cancellation and timeouts where applicable.
// AssignRole may return an error when input validation, dependency calls, or security checks fail.
// AssignRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) AssignRole(ctx context.Context, userID, roleName string) error {
	if err := c.requireAdmin(ctx); err != nil {
		return err
	}
	if c.roles == nil || c.userRoles == nil {
		return ErrControllerNotReady
	}

	role, err := c.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, rbac.ErrRoleNotFound) {
			return fmt.Errorf("%w: %q", ErrRoleNotFound, roleName)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if _, err := c.userRoles.Assign(ctx, userID, role.ID); err != nil {
		c.emitAudit(ctx, auditEventRoleGranted, userID, false, err)
		return fmt.Errorf("%w: %v", ErrBackendRejected, err)
	}

	c.metrics.Inc(MetricRoleGranted)
	c.emitAudit(ctx, auditEventRoleGranted, userID, true, nil)
	return nil
}

// RemoveRole describes the remove role operation and its observable behavior.
//
// RemoveRole accepts a context used for cancellation and timeouts where applicable.
// RemoveRole may return an error when input validation, dependency calls, or security checks fail.
// RemoveRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) RemoveRole(ctx context.Context, userID, roleName string) error {
	if err := c.requireAdmin(ctx); err != nil {
		return err
	}
	if c.roles == nil || c.userRoles == nil {
		return ErrControllerNotReady
	}

	role, err := c.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, rbac.ErrRoleNotFound) {
			return fmt.Errorf("%w: %q", ErrRoleNotFound, roleName)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := c.userRoles.Remove(ctx, userID, role.ID); err != nil {
		c.emitAudit(ctx, auditEventRoleRevoked, userID, false, err)
		return fmt.Errorf("%w: %v", ErrBackendRejected, err)
	}

	c.metrics.Inc(MetricRoleRevoked)
	c.emitAudit(ctx, auditEventRoleRevoked, userID, true, nil)
	return nil
}

// ListProfiles describes the list profiles operation and its observable behavior.
//
// ListProfiles accepts a context used for cancellation and timeouts where applicable.
// ListProfiles may return an error when input validation, dependency calls, or security checks fail.
// ListProfiles does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) ListProfiles(ctx context.Context, limit, offset int) ([]Profile, error) {
	if err := c.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if c.profiles == nil || c.profiles.store == nil {
		return nil, ErrControllerNotReady
	}

	list, err := c.profiles.store.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return list, nil
}

func userIDOf(identity *Identity) string {
	if identity == nil {
		return ""
	}
	return identity.ID
}
