package state

import (
	"fmt"
	"time"
)

// TriggerState is an immutable snapshot of a trigger's lifecycle. Transition
// methods return a new snapshot; the receiver is never modified.
type TriggerState struct {
	current        StateType
	previous       *StateType
	enteredAt      time.Time
	reason         string
	executionCount uint64
	failureCount   uint64
	lastExecutedAt *time.Time
	metadata       map[string]string
}

// New creates a state snapshot in the given initial state with zeroed
// counters.
func New(initial StateType) TriggerState {
	return TriggerState{
		current:   initial,
		enteredAt: time.Now(),
	}
}

// NewActive creates a snapshot in the Active state.
func NewActive() TriggerState {
	return New(Active)
}

// NewInactive creates a snapshot in the Inactive state.
func NewInactive() TriggerState {
	return New(Inactive)
}

// Current returns the current lifecycle state.
func (s TriggerState) Current() StateType {
	return s.current
}

// Previous returns the prior state and whether one exists.
func (s TriggerState) Previous() (StateType, bool) {
	if s.previous == nil {
		return Inactive, false
	}
	return *s.previous, true
}

// EnteredAt returns when the current state was entered.
func (s TriggerState) EnteredAt() time.Time {
	return s.enteredAt
}

// Reason returns the free-text reason recorded with the last transition.
func (s TriggerState) Reason() string {
	return s.reason
}

// ExecutionCount returns the total number of recorded executions.
func (s TriggerState) ExecutionCount() uint64 {
	return s.executionCount
}

// FailureCount returns the number of consecutive failures since the last
// success.
func (s TriggerState) FailureCount() uint64 {
	return s.failureCount
}

// LastExecutedAt returns when an execution last completed, if ever.
func (s TriggerState) LastExecutedAt() (time.Time, bool) {
	if s.lastExecutedAt == nil {
		return time.Time{}, false
	}
	return *s.lastExecutedAt, true
}

// Metadata returns a copy of the state metadata.
func (s TriggerState) Metadata() map[string]string {
	if s.metadata == nil {
		return nil
	}
	out := make(map[string]string, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// WithMetadata returns a snapshot with the given metadata entry added.
func (s TriggerState) WithMetadata(key, value string) TriggerState {
	next := s
	next.metadata = make(map[string]string, len(s.metadata)+1)
	for k, v := range s.metadata {
		next.metadata[k] = v
	}
	next.metadata[key] = value
	return next
}

// StateAge returns how long the current state has been held.
func (s TriggerState) StateAge() time.Duration {
	return time.Since(s.enteredAt)
}

// TransitionTo moves to the target state if the lifecycle graph permits it.
// Counters carry over unchanged.
func (s TriggerState) TransitionTo(target StateType) (TriggerState, error) {
	return s.TransitionToWithReason(target, "")
}

// TransitionToWithReason is TransitionTo with a recorded free-text reason.
func (s TriggerState) TransitionToWithReason(target StateType, reason string) (TriggerState, error) {
	if !s.current.CanTransitionTo(target) {
		return s, &InvalidTransitionError{From: s.current, To: target}
	}

	prev := s.current
	next := s
	next.previous = &prev
	next.current = target
	next.enteredAt = time.Now()
	next.reason = reason
	return next, nil
}

// StartExecution moves Active -> Executing.
func (s TriggerState) StartExecution() (TriggerState, error) {
	if !s.current.AllowsExecution() {
		return s, &InvalidTransitionError{
			From:   s.current,
			To:     Executing,
			Reason: "execution may only start from the active state",
		}
	}
	return s.TransitionTo(Executing)
}

// RecordExecutionSuccess completes an in-flight execution successfully:
// the execution count increments, consecutive failures reset to zero, and
// the state moves to Success.
func (s TriggerState) RecordExecutionSuccess() (TriggerState, error) {
	if s.current != Executing {
		return s, &InvalidTransitionError{
			From:   s.current,
			To:     Success,
			Reason: "no execution in flight",
		}
	}

	next, err := s.TransitionTo(Success)
	if err != nil {
		return s, err
	}

	now := time.Now()
	next.executionCount++
	next.failureCount = 0
	next.lastExecutedAt = &now
	return next, nil
}

// RecordExecutionFailure completes an in-flight execution as failed. Both
// counters increment. When the new failure count stays within maxFailures
// the state moves to Failed. When it breaches the ceiling the returned
// snapshot keeps its counters but does not advance past Executing, and a
// MaxFailuresExceededError is returned so the caller can choose to suspend
// or archive.
func (s TriggerState) RecordExecutionFailure(message string, maxFailures uint64) (TriggerState, error) {
	if s.current != Executing {
		return s, &InvalidTransitionError{
			From:   s.current,
			To:     Failed,
			Reason: "no execution in flight",
		}
	}

	now := time.Now()
	counted := s
	counted.executionCount++
	counted.failureCount++
	counted.lastExecutedAt = &now

	if counted.failureCount > maxFailures {
		return counted, &MaxFailuresExceededError{
			CurrentFailures: counted.failureCount,
			MaxAllowed:      maxFailures,
		}
	}

	next, err := counted.TransitionToWithReason(Failed, message)
	if err != nil {
		return s, err
	}
	return next, nil
}

// Suspend pauses the trigger with a reason.
func (s TriggerState) Suspend(reason string) (TriggerState, error) {
	return s.TransitionToWithReason(Suspended, reason)
}

// Resume moves Suspended -> Active.
func (s TriggerState) Resume() (TriggerState, error) {
	if s.current != Suspended {
		return s, &InvalidTransitionError{
			From:   s.current,
			To:     Active,
			Reason: "only suspended triggers can resume",
		}
	}
	return s.TransitionTo(Active)
}

// Archive moves any non-terminal state to Archived.
func (s TriggerState) Archive(reason string) (TriggerState, error) {
	return s.TransitionToWithReason(Archived, reason)
}

// Validate re-checks the snapshot invariants: failures never exceed
// executions, a last-execution time implies at least one execution, and any
// recorded previous state reached the current one over a legal edge.
func (s TriggerState) Validate() error {
	if s.failureCount > s.executionCount {
		return &ValidationFailedError{
			State: s.current,
			Reason: fmt.Sprintf("failure count %d exceeds execution count %d",
				s.failureCount, s.executionCount),
		}
	}
	if s.lastExecutedAt != nil && s.executionCount == 0 {
		return &ValidationFailedError{
			State:  s.current,
			Reason: "last execution recorded with zero executions",
		}
	}
	if s.previous != nil && !s.previous.CanTransitionTo(s.current) {
		return &ValidationFailedError{
			State:  s.current,
			Reason: fmt.Sprintf("recorded edge %s -> %s is not legal", *s.previous, s.current),
		}
	}
	return nil
}

// String summarizes the snapshot for logs.
func (s TriggerState) String() string {
	return fmt.Sprintf("%s (executions=%d failures=%d)",
		s.current, s.executionCount, s.failureCount)
}
