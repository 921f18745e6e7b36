package conditions

import (
	"fmt"

	"trigger-engine/internal/common/errors"
)

// CompileOption adjusts compilation of a definition tree.
type CompileOption func(*compileOptions)

type compileOptions struct {
	priority  uint32
	evaluator ExpressionEvaluator
}

// WithPriority assigns the evaluation priority of the compiled condition.
func WithPriority(priority uint32) CompileOption {
	return func(o *compileOptions) { o.priority = priority }
}

// WithEvaluator supplies the expression evaluator used by expression leaves.
func WithEvaluator(evaluator ExpressionEvaluator) CompileOption {
	return func(o *compileOptions) { o.evaluator = evaluator }
}

// Compile turns a validated condition definition tree into a single
// evaluable TriggerCondition. The tree is validated first; compilation of an
// expression leaf without an evaluator is an error.
func Compile(def *Condition, opts ...CompileOption) (TriggerCondition, error) {
	options := compileOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return compileNode(def, &options)
}

func compileNode(def *Condition, options *compileOptions) (TriggerCondition, error) {
	switch def.Kind {
	case KindAlways:
		return NewStaticCondition(true, options.priority), nil
	case KindNever:
		return NewStaticCondition(false, options.priority), nil
	case KindTimer:
		return &TimerCondition{expr: def.Timer, priority: options.priority}, nil
	case KindEvent:
		return &EventCondition{pattern: def.Event, priority: options.priority}, nil
	case KindExpression:
		if options.evaluator == nil {
			return nil, errors.InvalidValue("condition", def.String(),
				"expression conditions require an evaluator")
		}
		return &ExpressionCondition{
			expr:      def.Expression,
			evaluator: options.evaluator,
			priority:  options.priority,
		}, nil
	case KindComposite:
		return compileComposite(def, options)
	default:
		return nil, errors.InvalidValue("condition", string(def.Kind), "unknown condition kind")
	}
}

func compileComposite(def *Condition, options *compileOptions) (TriggerCondition, error) {
	left, err := compileNode(def.Left, options)
	if err != nil {
		return nil, err
	}

	composite := &CompositeCondition{
		operator: def.Operator,
		left:     left,
		desc:     def.String(),
		priority: options.priority,
	}

	if def.Operator != OpNot {
		right, err := compileNode(def.Right, options)
		if err != nil {
			return nil, err
		}
		composite.right = right
	}

	return composite, nil
}

// MustCompile is Compile for statically known definitions; it panics on
// error.
func MustCompile(def *Condition, opts ...CompileOption) TriggerCondition {
	cond, err := Compile(def, opts...)
	if err != nil {
		panic(fmt.Sprintf("conditions: compile failed: %v", err))
	}
	return cond
}
