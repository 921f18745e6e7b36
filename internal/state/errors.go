package state

import (
	"fmt"

	"trigger-engine/internal/common/errors"
)

// InvalidTransitionError reports a transition the lifecycle graph forbids.
type InvalidTransitionError struct {
	From   StateType
	To     StateType
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// AsAppError converts the transition error into the structured form.
func (e *InvalidTransitionError) AsAppError() *errors.AppError {
	return &errors.AppError{
		Code:     "trigger.state.invalid_transition",
		Kind:     errors.KindValidation,
		Severity: errors.SeverityMedium,
		Message:  e.Error(),
		Cause:    e,
	}
}

// MaxFailuresExceededError reports that consecutive failures breached the
// configured ceiling. The caller decides the follow-up: suspend, archive or
// alert.
type MaxFailuresExceededError struct {
	CurrentFailures uint64
	MaxAllowed      uint64
}

func (e *MaxFailuresExceededError) Error() string {
	return fmt.Sprintf("maximum failures exceeded: %d > %d", e.CurrentFailures, e.MaxAllowed)
}

// AsAppError converts the breach into the structured form.
func (e *MaxFailuresExceededError) AsAppError() *errors.AppError {
	return &errors.AppError{
		Code:     "trigger.state.max_failures_exceeded",
		Kind:     errors.KindInternal,
		Severity: errors.SeverityHigh,
		Message:  e.Error(),
		Cause:    e,
	}
}

// ValidationFailedError reports that a state snapshot violates its own
// invariants.
type ValidationFailedError struct {
	State  StateType
	Reason string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("state %s failed validation: %s", e.State, e.Reason)
}
