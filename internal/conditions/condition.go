package conditions

import (
	"fmt"

	"trigger-engine/internal/common/errors"
)

// ConditionKind tags the variant of a Condition node.
type ConditionKind string

const (
	KindAlways     ConditionKind = "always"
	KindNever      ConditionKind = "never"
	KindTimer      ConditionKind = "timer"
	KindEvent      ConditionKind = "event"
	KindExpression ConditionKind = "expression"
	KindComposite  ConditionKind = "composite"
)

// CompositeOperator combines condition definitions.
type CompositeOperator string

const (
	OpAnd CompositeOperator = "AND"
	OpOr  CompositeOperator = "OR"
	OpNot CompositeOperator = "NOT"
)

// Condition is a node in a condition definition tree. Leaves carry exactly
// one of the primitive values; composite nodes carry an operator and
// children. NOT is unary: only Left is set.
type Condition struct {
	Kind       ConditionKind
	Timer      TimerExpression
	Event      EventPattern
	Expression LogicalExpression
	Operator   CompositeOperator
	Left       *Condition
	Right      *Condition
}

// Always returns a condition that always holds.
func Always() *Condition {
	return &Condition{Kind: KindAlways}
}

// Never returns a condition that never holds.
func Never() *Condition {
	return &Condition{Kind: KindNever}
}

// Timer builds a timer leaf from an interval string such as "5s" or "2h".
func Timer(durationStr string) (*Condition, error) {
	expr, err := NewTimerExpression(durationStr)
	if err != nil {
		return nil, err
	}
	return &Condition{Kind: KindTimer, Timer: expr}, nil
}

// Event builds an event leaf from a literal or wildcard pattern.
func Event(pattern string) (*Condition, error) {
	p, err := NewEventPattern(pattern)
	if err != nil {
		return nil, err
	}
	return &Condition{Kind: KindEvent, Event: p}, nil
}

// EventRegex builds an event leaf from a regular expression pattern.
func EventRegex(pattern string) (*Condition, error) {
	p, err := NewEventRegexPattern(pattern)
	if err != nil {
		return nil, err
	}
	return &Condition{Kind: KindEvent, Event: p}, nil
}

// Expression builds an expression leaf from boolean expression text.
func Expression(text string) (*Condition, error) {
	expr, err := NewLogicalExpression(text)
	if err != nil {
		return nil, err
	}
	return &Condition{Kind: KindExpression, Expression: expr}, nil
}

// And combines two conditions conjunctively.
func (c *Condition) And(other *Condition) *Condition {
	return &Condition{Kind: KindComposite, Operator: OpAnd, Left: c, Right: other}
}

// Or combines two conditions disjunctively.
func (c *Condition) Or(other *Condition) *Condition {
	return &Condition{Kind: KindComposite, Operator: OpOr, Left: c, Right: other}
}

// Not negates a condition. The result is a unary composite with no right
// child.
func (c *Condition) Not() *Condition {
	return &Condition{Kind: KindComposite, Operator: OpNot, Left: c}
}

// Validate recursively checks every node. Composite validation is
// depth-first and fails on the first invalid child, left before right.
func (c *Condition) Validate() error {
	if c == nil {
		return errors.InvalidValue("condition", "", "condition must not be nil")
	}

	switch c.Kind {
	case KindAlways, KindNever:
		return nil
	case KindTimer:
		if c.Timer.raw == "" {
			return errors.EmptyValue("timer_expression")
		}
		return nil
	case KindEvent:
		if c.Event.raw == "" {
			return errors.EmptyValue("event_pattern")
		}
		return nil
	case KindExpression:
		if c.Expression.raw == "" {
			return errors.EmptyValue("logical_expression")
		}
		return nil
	case KindComposite:
		return c.validateComposite()
	default:
		return errors.InvalidValue("condition", string(c.Kind), "unknown condition kind")
	}
}

func (c *Condition) validateComposite() error {
	switch c.Operator {
	case OpNot:
		if c.Left == nil {
			return errors.InvalidValue("condition", "NOT", "negation requires a child condition")
		}
		if c.Right != nil {
			return errors.InvalidValue("condition", "NOT", "negation takes exactly one child")
		}
		return c.Left.Validate()
	case OpAnd, OpOr:
		if c.Left == nil || c.Right == nil {
			return errors.InvalidValue("condition", string(c.Operator),
				"binary composite requires two child conditions")
		}
		if err := c.Left.Validate(); err != nil {
			return err
		}
		return c.Right.Validate()
	default:
		return errors.InvalidValue("condition", string(c.Operator), "unknown composite operator")
	}
}

// String renders the tree with fully parenthesized infix notation, e.g.
// "(Timer(5s) AND Event(user.created))". NOT renders prefix: "NOT <child>".
func (c *Condition) String() string {
	if c == nil {
		return "<nil>"
	}

	switch c.Kind {
	case KindAlways:
		return "Always"
	case KindNever:
		return "Never"
	case KindTimer:
		return fmt.Sprintf("Timer(%s)", c.Timer)
	case KindEvent:
		return fmt.Sprintf("Event(%s)", c.Event)
	case KindExpression:
		return fmt.Sprintf("Expression(%s)", c.Expression)
	case KindComposite:
		if c.Operator == OpNot {
			return fmt.Sprintf("NOT %s", c.Left)
		}
		return fmt.Sprintf("(%s %s %s)", c.Left, c.Operator, c.Right)
	default:
		return "<invalid>"
	}
}
