// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Session validation metrics
	IncSessionCacheHit()
	IncSessionCacheMiss()
	IncSessionValidated(outcome string) // outcome: "valid", "invalid", "none"

	// Auth workflow metrics
	IncWorkflowStarted(operation string)           // operation: "sign_up" or "login"
	IncWorkflowCompleted(operation, status string) // status: "success", "domain_failure", "timeout", "error"
	ObserveWorkflowDuration(operation string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
