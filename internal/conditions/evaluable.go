package conditions

import (
	"fmt"

	"trigger-engine/internal/common/errors"
)

// TriggerCondition is a runtime-evaluable condition. Instances are held by a
// trigger in a flat list and evaluated in ascending priority order; the
// trigger fires only when every condition matches.
type TriggerCondition interface {
	// Matches reports whether the condition holds for the given context.
	Matches(ctx Context) (bool, error)
	// Description returns a human-readable summary for diagnostics.
	Description() string
	// Priority orders evaluation; lower evaluates first.
	Priority() uint32
}

// ExpressionEvaluator evaluates boolean expression text against a field
// environment. The concrete implementation lives outside this package.
type ExpressionEvaluator interface {
	EvaluateBool(expression string, env map[string]interface{}) (bool, error)
}

// StaticCondition always returns a fixed result. Used for Always/Never
// definitions and as a test fixture.
type StaticCondition struct {
	result   bool
	priority uint32
}

// NewStaticCondition builds a fixed-result condition.
func NewStaticCondition(result bool, priority uint32) *StaticCondition {
	return &StaticCondition{result: result, priority: priority}
}

func (s *StaticCondition) Matches(Context) (bool, error) {
	return s.result, nil
}

func (s *StaticCondition) Description() string {
	if s.result {
		return "Always"
	}
	return "Never"
}

func (s *StaticCondition) Priority() uint32 {
	return s.priority
}

// TimerCondition matches when the interval since the trigger's last firing
// has elapsed. A trigger that has never fired is immediately due.
type TimerCondition struct {
	expr     TimerExpression
	priority uint32
}

// NewTimerCondition builds a timer condition from an interval string.
func NewTimerCondition(durationStr string, priority uint32) (*TimerCondition, error) {
	expr, err := NewTimerExpression(durationStr)
	if err != nil {
		return nil, err
	}
	return &TimerCondition{expr: expr, priority: priority}, nil
}

func (t *TimerCondition) Matches(ctx Context) (bool, error) {
	lastFired, ok := ctx.LastFired()
	if !ok {
		return true, nil
	}
	return ctx.Now().Sub(lastFired) >= t.expr.Duration(), nil
}

func (t *TimerCondition) Description() string {
	return fmt.Sprintf("Timer(%s)", t.expr)
}

func (t *TimerCondition) Priority() uint32 {
	return t.priority
}

// EventCondition matches when the context's event type satisfies the
// pattern.
type EventCondition struct {
	pattern  EventPattern
	priority uint32
}

// NewEventCondition builds an event condition from a literal or wildcard
// pattern.
func NewEventCondition(pattern string, priority uint32) (*EventCondition, error) {
	p, err := NewEventPattern(pattern)
	if err != nil {
		return nil, err
	}
	return &EventCondition{pattern: p, priority: priority}, nil
}

// NewEventRegexCondition builds an event condition from a regular
// expression.
func NewEventRegexCondition(pattern string, priority uint32) (*EventCondition, error) {
	p, err := NewEventRegexPattern(pattern)
	if err != nil {
		return nil, err
	}
	return &EventCondition{pattern: p, priority: priority}, nil
}

func (e *EventCondition) Matches(ctx Context) (bool, error) {
	eventType := ctx.EventType()
	if eventType == "" {
		return false, nil
	}
	return e.pattern.Matches(eventType), nil
}

func (e *EventCondition) Description() string {
	return fmt.Sprintf("Event(%s)", e.pattern)
}

func (e *EventCondition) Priority() uint32 {
	return e.priority
}

// ExpressionCondition matches when its boolean expression evaluates true
// against the context's field environment.
type ExpressionCondition struct {
	expr      LogicalExpression
	evaluator ExpressionEvaluator
	priority  uint32
}

// NewExpressionCondition builds an expression condition. The evaluator must
// not be nil.
func NewExpressionCondition(text string, evaluator ExpressionEvaluator, priority uint32) (*ExpressionCondition, error) {
	expr, err := NewLogicalExpression(text)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, errors.InvalidValue("expression_evaluator", "", "evaluator must not be nil")
	}
	return &ExpressionCondition{expr: expr, evaluator: evaluator, priority: priority}, nil
}

func (e *ExpressionCondition) Matches(ctx Context) (bool, error) {
	result, err := e.evaluator.EvaluateBool(e.expr.String(), ctx.Env())
	if err != nil {
		return false, errors.InternalError("trigger.condition.expression_failed",
			fmt.Sprintf("expression %q failed to evaluate", e.expr), err)
	}
	return result, nil
}

func (e *ExpressionCondition) Description() string {
	return fmt.Sprintf("Expression(%s)", e.expr)
}

func (e *ExpressionCondition) Priority() uint32 {
	return e.priority
}

// CompositeCondition evaluates a composite definition node against a
// context, applying AND/OR/NOT recursively over its compiled children.
type CompositeCondition struct {
	operator CompositeOperator
	left     TriggerCondition
	right    TriggerCondition
	desc     string
	priority uint32
}

func (c *CompositeCondition) Matches(ctx Context) (bool, error) {
	switch c.operator {
	case OpAnd:
		leftOK, err := c.left.Matches(ctx)
		if err != nil || !leftOK {
			return false, err
		}
		return c.right.Matches(ctx)
	case OpOr:
		leftOK, err := c.left.Matches(ctx)
		if err != nil {
			return false, err
		}
		if leftOK {
			return true, nil
		}
		return c.right.Matches(ctx)
	case OpNot:
		childOK, err := c.left.Matches(ctx)
		if err != nil {
			return false, err
		}
		return !childOK, nil
	default:
		return false, errors.InternalError("trigger.condition.invalid_operator",
			fmt.Sprintf("unknown composite operator %q", c.operator), nil)
	}
}

func (c *CompositeCondition) Description() string {
	return c.desc
}

func (c *CompositeCondition) Priority() uint32 {
	return c.priority
}
