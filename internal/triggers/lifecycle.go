package triggers

import (
	"sync"

	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/state"
)

// Lifecycle tracks an execution state machine per registered trigger and
// enforces the consecutive-failure budget. On a budget breach the trigger
// is suspended and deactivated; Resume puts it back in rotation.
type Lifecycle struct {
	mu          sync.Mutex
	states      map[string]state.TriggerState
	maxFailures uint64
	logger      logging.Logger
}

// NewLifecycle creates a tracker with the given failure budget.
func NewLifecycle(maxFailures uint64) *Lifecycle {
	return &Lifecycle{
		states:      make(map[string]state.TriggerState),
		maxFailures: maxFailures,
		logger:      logging.GetGlobalLogger().WithFields(logging.String("component", "lifecycle")),
	}
}

// Track starts following a trigger. Active triggers start in the active
// state, others inactive. Tracking an already-tracked id is a no-op.
func (l *Lifecycle) Track(t Trigger) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.states[t.ID()]; ok {
		return
	}
	if t.IsActive() {
		l.states[t.ID()] = state.NewActive()
	} else {
		l.states[t.ID()] = state.NewInactive()
	}
}

// Forget stops following a trigger.
func (l *Lifecycle) Forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.states, id)
}

// StateOf returns the current state snapshot for a tracked trigger.
func (l *Lifecycle) StateOf(id string) (state.TriggerState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.states[id]
	return s, ok
}

// Execute runs fn for a fired trigger under the state machine: the state
// moves to executing, then to success or failed depending on fn's result.
// A failure past the budget suspends and deactivates the trigger and
// returns the breach error.
func (l *Lifecycle) Execute(t Trigger, fn func() error) error {
	id := t.ID()

	l.mu.Lock()
	s, ok := l.states[id]
	if !ok {
		s = state.NewActive()
	}
	// Completed executions settle in Success or Failed; re-arm first.
	if s.Current() == state.Success || s.Current() == state.Failed {
		rearmed, err := s.TransitionTo(state.Active)
		if err != nil {
			l.mu.Unlock()
			return err
		}
		s = rearmed
	}
	s, err := s.StartExecution()
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.states[id] = s
	l.mu.Unlock()

	execErr := fn()

	l.mu.Lock()
	defer l.mu.Unlock()

	// The trigger may have been forgotten while fn ran; writing the
	// snapshot back would resurrect the deleted entry.
	if _, tracked := l.states[id]; !tracked {
		return execErr
	}

	if execErr == nil {
		done, err := s.RecordExecutionSuccess()
		if err != nil {
			return err
		}
		l.states[id] = done
		return nil
	}

	failed, err := s.RecordExecutionFailure(execErr.Error(), l.maxFailures)
	if err == nil {
		l.states[id] = failed
		return execErr
	}

	// Budget breached: the returned snapshot keeps its counters. Suspend
	// and pull the trigger out of rotation.
	suspended, suspendErr := failed.Suspend(err.Error())
	if suspendErr != nil {
		return suspendErr
	}
	l.states[id] = suspended
	if a, ok := t.(Activatable); ok {
		a.Deactivate()
	}
	l.logger.Warn("trigger suspended after exceeding failure budget",
		logging.String("trigger_id", id),
		logging.Uint64("failures", suspended.FailureCount()),
	)
	return err
}

// Resume reactivates a suspended trigger and clears nothing: failure
// counters persist until the next successful execution.
func (l *Lifecycle) Resume(t Trigger) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.states[t.ID()]
	if !ok {
		return notFoundError(t.ID())
	}
	resumed, err := s.Resume()
	if err != nil {
		return err
	}
	l.states[t.ID()] = resumed
	if a, ok := t.(Activatable); ok {
		a.Activate()
	}
	return nil
}
