package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSessionCacheHit is a no-op.
func (n *NoopRecorder) IncSessionCacheHit() {}

// IncSessionCacheMiss is a no-op.
func (n *NoopRecorder) IncSessionCacheMiss() {}

// IncSessionValidated is a no-op.
func (n *NoopRecorder) IncSessionValidated(outcome string) {}

// IncWorkflowStarted is a no-op.
func (n *NoopRecorder) IncWorkflowStarted(operation string) {}

// IncWorkflowCompleted is a no-op.
func (n *NoopRecorder) IncWorkflowCompleted(operation, status string) {}

// ObserveWorkflowDuration is a no-op.
func (n *NoopRecorder) ObserveWorkflowDuration(operation string, duration time.Duration) {}
