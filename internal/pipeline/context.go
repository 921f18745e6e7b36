package pipeline

import "time"

// PhaseContext carries data across phases of a single pipeline run. Stages
// read what earlier phases produced and write what later phases need.
type PhaseContext struct {
	data map[string]interface{}
}

// NewPhaseContext creates an empty context for a pipeline run.
func NewPhaseContext() *PhaseContext {
	return &PhaseContext{data: make(map[string]interface{})}
}

// Get returns the value stored under key, if any.
func (c *PhaseContext) Get(key string) (interface{}, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (c *PhaseContext) Set(key string, value interface{}) {
	c.data[key] = value
}

// Len returns the number of stored entries.
func (c *PhaseContext) Len() int {
	return len(c.data)
}

// Clone returns a shallow copy. Stages that fork work get their own view
// without racing on the shared map.
func (c *PhaseContext) Clone() *PhaseContext {
	clone := NewPhaseContext()
	for k, v := range c.data {
		clone.data[k] = v
	}
	return clone
}

// PhaseResult records the outcome of one phase of a pipeline run.
type PhaseResult struct {
	Phase    Phase
	Success  bool
	Err      error
	Duration time.Duration
}

// Succeeded reports a successful phase outcome.
func Succeeded(phase Phase, duration time.Duration) PhaseResult {
	return PhaseResult{Phase: phase, Success: true, Duration: duration}
}

// Failed reports a failed phase outcome.
func Failed(phase Phase, err error, duration time.Duration) PhaseResult {
	return PhaseResult{Phase: phase, Success: false, Err: err, Duration: duration}
}
