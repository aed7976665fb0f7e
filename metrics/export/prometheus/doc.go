// Package prometheus provides Prometheus collectors for goSession metrics.
//
// [NewPrometheusExporter] accepts a [goSession.Controller] and exposes an
// [net/http.Handler] that renders all goSession counters in Prometheus text
// exposition format. Counter names are prefixed gosession_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate controller state.
package prometheus
