package goSession

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint8

const (
	// MetricRestoreSuccess is an exported constant or variable used by the session engine.
	MetricRestoreSuccess MetricID = iota
	// MetricRestoreEmpty is an exported constant or variable used by the session engine.
	MetricRestoreEmpty
	// MetricSignUpSuccess is an exported constant or variable used by the session engine.
	MetricSignUpSuccess
	// MetricSignUpPending is an exported constant or variable used by the session engine.
	MetricSignUpPending
	// MetricSignUpFailure is an exported constant or variable used by the session engine.
	MetricSignUpFailure
	// MetricSignInSuccess is an exported constant or variable used by the session engine.
	MetricSignInSuccess
	// MetricSignInFailure is an exported constant or variable used by the session engine.
	MetricSignInFailure
	// MetricSignOutSuccess is an exported constant or variable used by the session engine.
	MetricSignOutSuccess
	// MetricSignOutFailure is an exported constant or variable used by the session engine.
	MetricSignOutFailure
	// MetricProfileLoaded is an exported constant or variable used by the session engine.
	MetricProfileLoaded
	// MetricProfileSynthesized is an exported constant or variable used by the session engine.
	MetricProfileSynthesized
	// MetricProfileUpdateSuccess is an exported constant or variable used by the session engine.
	MetricProfileUpdateSuccess
	// MetricProfileUpdateFailure is an exported constant or variable used by the session engine.
	MetricProfileUpdateFailure
	// MetricRoleFastPath is an exported constant or variable used by the session engine.
	MetricRoleFastPath
	// MetricRoleFallbackUsed is an exported constant or variable used by the session engine.
	MetricRoleFallbackUsed
	// MetricRoleResolutionDegraded is an exported constant or variable used by the session engine.
	MetricRoleResolutionDegraded
	// MetricRoleGranted is an exported constant or variable used by the session engine.
	MetricRoleGranted
	// MetricRoleRevoked is an exported constant or variable used by the session engine.
	MetricRoleRevoked

	metricIDCount
)

// Metrics holds atomic counters for session flows and role resolution.
// When disabled, all operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig].
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := m.counters[id].Load(); v > 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}
