package triggers

import (
	"sort"
	"sync/atomic"

	"trigger-engine/internal/common/errors"
	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/conditions"
)

// Trigger is a registered automation unit: identity, name, a flat list of
// evaluable conditions and an active flag.
type Trigger interface {
	ID() string
	Name() string
	IsActive() bool
	// Evaluate reports whether the trigger should fire for the context.
	// Inactive triggers evaluate to false without consulting conditions.
	Evaluate(ctx conditions.Context) (bool, error)
	Conditions() []conditions.TriggerCondition
}

type trigger struct {
	id         TriggerID
	name       TriggerName
	conditions []conditions.TriggerCondition
	active     atomic.Bool
	logger     logging.Logger
}

// NewTrigger creates a trigger from compiled conditions. Conditions are
// sorted by ascending priority once at construction; the order is stable
// for equal priorities. At least one condition is required.
func NewTrigger(id TriggerID, name TriggerName, conds []conditions.TriggerCondition, active bool) (Trigger, error) {
	if id.IsNil() {
		return nil, errors.InvalidValue("trigger_id", id.String(), "nil UUID is not a valid identity")
	}
	if len(conds) == 0 {
		return nil, errors.InvalidValue("conditions", "", "trigger requires at least one condition")
	}

	sorted := make([]conditions.TriggerCondition, len(conds))
	copy(sorted, conds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	t := &trigger{
		id:         id,
		name:       name,
		conditions: sorted,
		logger:     logging.GetGlobalLogger().WithFields(logging.String("trigger", name.String())),
	}
	t.active.Store(active)
	return t, nil
}

// FromConfig builds a trigger from a validated config, compiling its
// condition definition with the given options.
func FromConfig(id TriggerID, config TriggerConfig, opts ...conditions.CompileOption) (Trigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	compiled, err := conditions.Compile(config.Condition, opts...)
	if err != nil {
		return nil, err
	}

	return NewTrigger(id, config.Name, []conditions.TriggerCondition{compiled}, config.Enabled)
}

func (t *trigger) ID() string {
	return t.id.String()
}

func (t *trigger) Name() string {
	return t.name.String()
}

func (t *trigger) IsActive() bool {
	return t.active.Load()
}

// Activate marks the trigger eligible for evaluation.
func (t *trigger) Activate() {
	t.active.Store(true)
}

// Deactivate stops the trigger from firing without unregistering it.
func (t *trigger) Deactivate() {
	t.active.Store(false)
}

// Evaluate runs the condition list in priority order. The trigger fires
// only when every condition matches; the first non-match or error stops
// evaluation.
func (t *trigger) Evaluate(ctx conditions.Context) (bool, error) {
	if !t.active.Load() {
		return false, nil
	}

	for _, cond := range t.conditions {
		matched, err := cond.Matches(ctx)
		if err != nil {
			t.logger.Warn("condition evaluation failed",
				logging.String("condition", cond.Description()),
				logging.Err(err),
			)
			return false, err
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}

func (t *trigger) Conditions() []conditions.TriggerCondition {
	out := make([]conditions.TriggerCondition, len(t.conditions))
	copy(out, t.conditions)
	return out
}

// Activatable is implemented by triggers whose active flag can be toggled
// in place.
type Activatable interface {
	Activate()
	Deactivate()
}
