// Package state implements the trigger lifecycle state machine. States are
// immutable values; every transition returns a new TriggerState rather than
// mutating in place, so the current state can be shared read-only and handed
// off across goroutines safely.
package state

import "trigger-engine/internal/common/errors"

// StateType identifies a trigger lifecycle state.
type StateType int

const (
	// Inactive means the trigger is registered but not eligible to fire.
	Inactive StateType = iota
	// Active means the trigger is eligible to fire.
	Active
	// Executing means an execution is in flight.
	Executing
	// Success means the last execution completed successfully.
	Success
	// Failed means the last execution failed but the trigger may retry.
	Failed
	// Suspended means the trigger is paused pending operator action.
	Suspended
	// Archived is terminal; archived triggers never leave this state.
	Archived
)

// allowedTransitions is the directed edge set of the lifecycle graph.
// Self-transitions are always permitted and are not listed.
var allowedTransitions = map[StateType][]StateType{
	Inactive:  {Active, Archived},
	Active:    {Executing, Suspended, Inactive, Archived},
	Executing: {Success, Failed, Suspended},
	Success:   {Active, Suspended, Archived},
	Failed:    {Active, Suspended, Archived},
	Suspended: {Active, Inactive, Archived},
	Archived:  {},
}

// String returns the canonical state name.
func (s StateType) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Executing:
		return "executing"
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Suspended:
		return "suspended"
	case Archived:
		return "archived"
	default:
		return "unknown"
	}
}

// ParseStateType converts a state name to its StateType.
func ParseStateType(name string) (StateType, error) {
	switch name {
	case "inactive":
		return Inactive, nil
	case "active":
		return Active, nil
	case "executing":
		return Executing, nil
	case "success":
		return Success, nil
	case "failed":
		return Failed, nil
	case "suspended":
		return Suspended, nil
	case "archived":
		return Archived, nil
	default:
		return Inactive, errors.InvalidValue("state_type", name, "unknown state name")
	}
}

// AllStateTypes returns every lifecycle state.
func AllStateTypes() []StateType {
	return []StateType{Inactive, Active, Executing, Success, Failed, Suspended, Archived}
}

// CanTransitionTo reports whether the lifecycle graph permits moving from s
// to target. Self-transitions are always allowed.
func (s StateType) CanTransitionTo(target StateType) bool {
	if s == target {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing edges.
func (s StateType) IsTerminal() bool {
	return s == Archived
}

// AllowsExecution reports whether an execution may start from this state.
func (s StateType) AllowsExecution() bool {
	return s == Active
}
