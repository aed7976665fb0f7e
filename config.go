package goSession

import (
	"errors"
	"strings"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Guard   GuardConfig
	Roles   RolesConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig defines a public type used by goSession APIs.
//
// GuardConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardConfig struct {
	LoginRedirect        string `env:"GOSESSION_LOGIN_REDIRECT"`
	UnauthorizedRedirect string `env:"GOSESSION_UNAUTHORIZED_REDIRECT"`
}

/*
====================================
ROLES CONFIG
====================================
*/

// RolesConfig defines a public type used by goSession APIs.
//
// RolesConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RolesConfig struct {
	// AdminRole is the role name required for role-management and
	// profile-listing operations.
	AdminRole string `env:"GOSESSION_ADMIN_ROLE"`
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool `env:"GOSESSION_AUDIT_ENABLED"`
	BufferSize int  `env:"GOSESSION_AUDIT_BUFFER"`
	DropIfFull bool `env:"GOSESSION_AUDIT_DROP_IF_FULL"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool `env:"GOSESSION_METRICS_ENABLED"`
}

func defaultConfig() Config {
	return Config{
		Guard: GuardConfig{
			LoginRedirect:        "/auth/login",
			UnauthorizedRedirect: "/unauthorized",
		},
		Roles: RolesConfig{
			AdminRole: "admin",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig returns the configuration applied by [New] before any
// builder overrides.
func DefaultConfig() Config {
	return defaultConfig()
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Guard.LoginRedirect, "/") {
		return errors.New("Guard LoginRedirect must be an absolute path")
	}
	if !strings.HasPrefix(c.Guard.UnauthorizedRedirect, "/") {
		return errors.New("Guard UnauthorizedRedirect must be an absolute path")
	}
	if c.Roles.AdminRole == "" {
		return errors.New("Roles AdminRole must not be empty")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}
