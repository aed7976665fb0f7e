package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/rbac"
)

var (
	// ErrNotAuthenticated is an exported constant or variable used by the session engine.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrBackendUnavailable is an exported constant or variable used by the session engine.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrBackendRejected is an exported constant or variable used by the session engine.
	ErrBackendRejected = errors.New("backend rejected request")
	// ErrProfileNotFound is an exported constant or variable used by the session engine.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrPermissionDenied is an exported constant or variable used by the session engine.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrControllerNotReady is an exported constant or variable used by the session engine.
	ErrControllerNotReady = errors.New("controller not initialized")

	// ErrRoleNotFound is an exported constant or variable used by the session engine.
	ErrRoleNotFound = rbac.ErrRoleNotFound
)
