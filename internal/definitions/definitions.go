// Package definitions loads trigger definitions from YAML files and turns
// them into validated trigger configs. A definitions file looks like:
//
//	triggers:
//	  - name: signup_watch
//	    description: fires on user signups
//	    enabled: true
//	    priority: 10
//	    timeout_seconds: 60
//	    condition:
//	      and:
//	        - event: "user.*"
//	        - expression: "plan != \"free\""
//
// Condition nodes carry exactly one of: always, never, timer, event,
// event_regex, expression, and, or, not. The and/or forms take a list of
// two or more child nodes and fold left.
package definitions

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"trigger-engine/internal/common/errors"
	"trigger-engine/internal/conditions"
	"trigger-engine/internal/triggers"
)

var validate = validator.New()

// File is the root of a trigger definitions document.
type File struct {
	Triggers []Definition `yaml:"triggers" json:"triggers" validate:"dive"`
}

// Definition is one declared trigger.
type Definition struct {
	Name           string            `yaml:"name" json:"name" validate:"required"`
	Description    string            `yaml:"description" json:"description,omitempty"`
	Enabled        *bool             `yaml:"enabled" json:"enabled,omitempty"`
	Seed           string            `yaml:"seed" json:"seed,omitempty"`
	Priority       uint32            `yaml:"priority" json:"priority,omitempty"`
	TimeoutSeconds uint64            `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
	MaxExecutions  uint64            `yaml:"max_executions" json:"max_executions,omitempty"`
	Metadata       map[string]string `yaml:"metadata" json:"metadata,omitempty"`
	Condition      *ConditionNode    `yaml:"condition" json:"condition" validate:"required"`
}

// ConditionNode is the YAML form of a condition tree node.
type ConditionNode struct {
	Always     bool             `yaml:"always" json:"always,omitempty"`
	Never      bool             `yaml:"never" json:"never,omitempty"`
	Timer      string           `yaml:"timer" json:"timer,omitempty"`
	Event      string           `yaml:"event" json:"event,omitempty"`
	EventRegex string           `yaml:"event_regex" json:"event_regex,omitempty"`
	Expression string           `yaml:"expression" json:"expression,omitempty"`
	And        []*ConditionNode `yaml:"and" json:"and,omitempty"`
	Or         []*ConditionNode `yaml:"or" json:"or,omitempty"`
	Not        *ConditionNode   `yaml:"not" json:"not,omitempty"`
}

// Load reads and parses a definitions file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ExternalError("trigger.definitions.read_failed",
			fmt.Sprintf("cannot read definitions file %s", path), err)
	}
	return Parse(data)
}

// Parse parses definitions document bytes.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.InvalidInputError("trigger.definitions.parse_failed",
			"definitions document is not valid YAML").WithCause(err)
	}

	if err := validate.Struct(&file); err != nil {
		return nil, errors.InvalidInputError("trigger.definitions.invalid",
			"definitions document failed validation").WithCause(err)
	}

	return &file, nil
}

// BuildConfig converts a definition into a validated trigger config.
func (d Definition) BuildConfig() (triggers.TriggerConfig, error) {
	name, err := triggers.NewTriggerName(d.Name)
	if err != nil {
		return triggers.TriggerConfig{}, err
	}

	condition, err := d.Condition.Build()
	if err != nil {
		return triggers.TriggerConfig{}, err
	}

	config := triggers.NewTriggerConfig(name, condition).
		WithDescription(d.Description)

	if d.Enabled != nil {
		config = config.WithEnabled(*d.Enabled)
	}
	if d.TimeoutSeconds > 0 {
		config = config.WithTimeout(d.TimeoutSeconds)
	}
	if d.MaxExecutions > 0 {
		config = config.WithMaxExecutions(d.MaxExecutions)
	}
	for k, v := range d.Metadata {
		config = config.WithMetadata(k, v)
	}

	if err := config.Validate(); err != nil {
		return triggers.TriggerConfig{}, err
	}
	return config, nil
}

// ID derives the trigger identity: deterministic from the seed when one is
// declared, otherwise deterministic from the name so reloading a file keeps
// identities stable.
func (d Definition) ID() (triggers.TriggerID, error) {
	seed := d.Seed
	if seed == "" {
		seed = d.Name
	}
	return triggers.NewTriggerIDFromSeed(seed)
}

// Build converts a YAML condition node into a definition tree.
func (n *ConditionNode) Build() (*conditions.Condition, error) {
	if n == nil {
		return nil, errors.InvalidValue("condition", "", "condition must not be empty")
	}

	if err := n.checkSingleForm(); err != nil {
		return nil, err
	}

	switch {
	case n.Always:
		return conditions.Always(), nil
	case n.Never:
		return conditions.Never(), nil
	case n.Timer != "":
		return conditions.Timer(n.Timer)
	case n.Event != "":
		return conditions.Event(n.Event)
	case n.EventRegex != "":
		return conditions.EventRegex(n.EventRegex)
	case n.Expression != "":
		return conditions.Expression(n.Expression)
	case len(n.And) > 0:
		return n.fold(n.And, conditions.OpAnd)
	case len(n.Or) > 0:
		return n.fold(n.Or, conditions.OpOr)
	case n.Not != nil:
		child, err := n.Not.Build()
		if err != nil {
			return nil, err
		}
		return child.Not(), nil
	default:
		return nil, errors.InvalidValue("condition", "",
			"condition node declares no form (always, never, timer, event, event_regex, expression, and, or, not)")
	}
}

// checkSingleForm rejects nodes that declare more than one condition form.
func (n *ConditionNode) checkSingleForm() error {
	forms := 0
	if n.Always {
		forms++
	}
	if n.Never {
		forms++
	}
	if n.Timer != "" {
		forms++
	}
	if n.Event != "" {
		forms++
	}
	if n.EventRegex != "" {
		forms++
	}
	if n.Expression != "" {
		forms++
	}
	if len(n.And) > 0 {
		forms++
	}
	if len(n.Or) > 0 {
		forms++
	}
	if n.Not != nil {
		forms++
	}
	if forms > 1 {
		return errors.InvalidValue("condition", "",
			"condition node must declare exactly one form")
	}
	return nil
}

func (n *ConditionNode) fold(children []*ConditionNode, op conditions.CompositeOperator) (*conditions.Condition, error) {
	if len(children) < 2 {
		return nil, errors.InvalidValue("condition", string(op),
			"composite form requires at least two child conditions")
	}

	acc, err := children[0].Build()
	if err != nil {
		return nil, err
	}
	for _, child := range children[1:] {
		next, err := child.Build()
		if err != nil {
			return nil, err
		}
		if op == conditions.OpAnd {
			acc = acc.And(next)
		} else {
			acc = acc.Or(next)
		}
	}
	return acc, nil
}
