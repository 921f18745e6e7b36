// Package pipeline defines the boundary contracts between the trigger core
// and the surrounding execution pipeline: the 6F lifecycle phases and the
// narrow ports for storage, topic delivery, tracing and external bridges.
// Concrete implementations live outside this repository; the trigger engine
// consumes them through these interfaces only.
package pipeline

import "trigger-engine/internal/common/errors"

// Phase identifies a stage of the 6F lifecycle flow.
type Phase int

const (
	// Feed ingests data from external sources.
	Feed Phase = iota
	// Filter validates and gates inbound data; trigger evaluation runs here.
	Filter
	// Format transforms and normalizes data.
	Format
	// Function executes the core business logic.
	Function
	// Forward routes and delivers output.
	Forward
	// Feedback records observability and audit trail.
	Feedback
)

// PhaseCount is the number of phases in the lifecycle.
const PhaseCount = 6

// AllPhases returns the phases in execution order.
func AllPhases() []Phase {
	return []Phase{Feed, Filter, Format, Function, Forward, Feedback}
}

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Feed:
		return "feed"
	case Filter:
		return "filter"
	case Format:
		return "format"
	case Function:
		return "function"
	case Forward:
		return "forward"
	case Feedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// ParsePhase converts a phase name to its Phase.
func ParsePhase(name string) (Phase, error) {
	for _, p := range AllPhases() {
		if p.String() == name {
			return p, nil
		}
	}
	return Feed, errors.InvalidValue("phase", name, "unknown phase name")
}

// Order returns the 1-based execution position of the phase.
func (p Phase) Order() int {
	return int(p) + 1
}

// Next returns the following phase and whether one exists.
func (p Phase) Next() (Phase, bool) {
	if p >= Feedback {
		return p, false
	}
	return p + 1, true
}

// Previous returns the preceding phase and whether one exists.
func (p Phase) Previous() (Phase, bool) {
	if p <= Feed {
		return p, false
	}
	return p - 1, true
}
