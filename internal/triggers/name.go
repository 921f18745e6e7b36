package triggers

import (
	"regexp"
	"strings"

	"trigger-engine/internal/common/errors"
)

// MaxNameLength bounds trigger name length.
const MaxNameLength = 64

var nameCharset = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedNames may not be used as trigger names, case-insensitively. The
// list covers system, pipeline-phase, module, temporal and event keywords
// plus common language reserved words.
var reservedNames = map[string]struct{}{
	"system": {}, "admin": {}, "root": {}, "default": {}, "config": {},
	"trigger": {}, "condition": {}, "pipeline": {}, "engine": {},
	"feed": {}, "filter": {}, "format": {}, "function": {}, "forward": {}, "feedback": {},
	"store": {}, "cast": {}, "run": {}, "watch": {}, "bridge": {}, "core": {},
	"null": {}, "undefined": {}, "true": {}, "false": {}, "if": {}, "else": {},
	"for": {}, "while": {}, "return": {}, "class": {}, "struct": {},
	"timer": {}, "schedule": {}, "cron": {}, "interval": {}, "delay": {},
	"event": {}, "emit": {}, "publish": {}, "subscribe": {}, "topic": {},
}

// TriggerName is a validated human-readable trigger identifier: 1-64
// characters, first character a letter or underscore, remainder letters,
// digits, hyphens or underscores, and not a reserved word.
type TriggerName struct {
	value string
}

// NewTriggerName validates and wraps a name string.
func NewTriggerName(name string) (TriggerName, error) {
	if name == "" {
		return TriggerName{}, errors.EmptyValue("trigger_name")
	}
	if len(name) > MaxNameLength {
		return TriggerName{}, errors.TooLong("trigger_name", len(name), MaxNameLength)
	}
	if !nameCharset.MatchString(name) {
		return TriggerName{}, errors.InvalidValue("trigger_name", name,
			"name may only contain letters, numbers, hyphens and underscores")
	}

	first := name[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return TriggerName{}, errors.InvalidValue("trigger_name", name,
			"name must start with a letter or underscore")
	}

	if _, ok := reservedNames[strings.ToLower(name)]; ok {
		return TriggerName{}, errors.InvalidValue("trigger_name", name,
			"name is reserved and cannot be used")
	}

	return TriggerName{value: name}, nil
}

// String returns the name text.
func (n TriggerName) String() string {
	return n.value
}

// Equal reports value equality.
func (n TriggerName) Equal(other TriggerName) bool {
	return n.value == other.value
}

// MatchesPattern reports whether the name matches a glob pattern with at
// most one '*' (prefix, suffix or exact). Patterns with multiple wildcards
// never match.
func (n TriggerName) MatchesPattern(pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return n.value == pattern
	}

	parts := strings.Split(pattern, "*")
	if len(parts) != 2 {
		return false
	}

	prefix, suffix := parts[0], parts[1]
	switch {
	case prefix == "" && suffix == "":
		return true
	case prefix == "":
		return strings.HasSuffix(n.value, suffix)
	case suffix == "":
		return strings.HasPrefix(n.value, prefix)
	default:
		return strings.HasPrefix(n.value, prefix) && strings.HasSuffix(n.value, suffix)
	}
}

// Normalized returns the lowercase form with hyphens folded to underscores.
func (n TriggerName) Normalized() string {
	return strings.ReplaceAll(strings.ToLower(n.value), "-", "_")
}

// IsSnakeCase reports whether the name uses only lowercase and underscores.
func (n TriggerName) IsSnakeCase() bool {
	return !strings.ContainsAny(n.value, "-") && n.value == strings.ToLower(n.value)
}

// IsKebabCase reports whether the name uses only lowercase and hyphens.
func (n TriggerName) IsKebabCase() bool {
	return !strings.ContainsAny(n.value, "_") && n.value == strings.ToLower(n.value)
}

// ToSnakeCase converts the name to snake_case; the result is revalidated.
func (n TriggerName) ToSnakeCase() (TriggerName, error) {
	return NewTriggerName(strings.ReplaceAll(strings.ToLower(n.value), "-", "_"))
}

// ToKebabCase converts the name to kebab-case; the result is revalidated.
func (n TriggerName) ToKebabCase() (TriggerName, error) {
	return NewTriggerName(strings.ReplaceAll(strings.ToLower(n.value), "_", "-"))
}
