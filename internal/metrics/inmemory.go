package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SessionCacheHits   uint64
	SessionCacheMisses uint64
	SessionsValidated  map[string]uint64
	WorkflowsStarted   map[string]uint64
	WorkflowsCompleted map[string]uint64 // keyed "operation/status"
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                 sync.Mutex
	sessionCacheHits   uint64
	sessionCacheMisses uint64
	sessionsValidated  map[string]uint64
	workflowsStarted   map[string]uint64
	workflowsCompleted map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		sessionsValidated:  make(map[string]uint64),
		workflowsStarted:   make(map[string]uint64),
		workflowsCompleted: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		SessionCacheHits:   m.sessionCacheHits,
		SessionCacheMisses: m.sessionCacheMisses,
		SessionsValidated:  make(map[string]uint64, len(m.sessionsValidated)),
		WorkflowsStarted:   make(map[string]uint64, len(m.workflowsStarted)),
		WorkflowsCompleted: make(map[string]uint64, len(m.workflowsCompleted)),
	}
	for k, v := range m.sessionsValidated {
		snap.SessionsValidated[k] = v
	}
	for k, v := range m.workflowsStarted {
		snap.WorkflowsStarted[k] = v
	}
	for k, v := range m.workflowsCompleted {
		snap.WorkflowsCompleted[k] = v
	}
	return snap
}

// IncSessionCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncSessionCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionCacheHits++
}

// IncSessionCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncSessionCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionCacheMisses++
}

// IncSessionValidated counts a validation outcome.
func (m *InMemoryRecorder) IncSessionValidated(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsValidated[outcome]++
}

// IncWorkflowStarted counts a workflow start.
func (m *InMemoryRecorder) IncWorkflowStarted(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workflowsStarted[operation]++
}

// IncWorkflowCompleted counts a workflow completion by status.
func (m *InMemoryRecorder) IncWorkflowCompleted(operation, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workflowsCompleted[operation+"/"+status]++
}

// ObserveWorkflowDuration is recorded only as a completion count here.
func (m *InMemoryRecorder) ObserveWorkflowDuration(operation string, duration time.Duration) {}
