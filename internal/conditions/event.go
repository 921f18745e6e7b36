package conditions

import (
	"regexp"
	"strings"

	"trigger-engine/internal/common/errors"
)

// MaxEventPatternLength bounds the pattern string length.
const MaxEventPatternLength = 255

// EventPattern matches event type strings. A pattern is either a literal,
// a glob with a single '*' acting as prefix or suffix wildcard, or a
// compiled regular expression.
type EventPattern struct {
	raw   string
	regex *regexp.Regexp
}

// NewEventPattern creates a literal or wildcard pattern. At most one '*'
// is permitted.
func NewEventPattern(raw string) (EventPattern, error) {
	if raw == "" {
		return EventPattern{}, errors.EmptyValue("event_pattern")
	}
	if len(raw) > MaxEventPatternLength {
		return EventPattern{}, errors.TooLong("event_pattern", len(raw), MaxEventPatternLength)
	}
	if strings.Count(raw, "*") > 1 {
		return EventPattern{}, errors.InvalidValue("event_pattern", raw,
			"at most one wildcard is allowed")
	}
	if i := strings.Index(raw, "*"); i > 0 && i < len(raw)-1 {
		return EventPattern{}, errors.InvalidValue("event_pattern", raw,
			"wildcard must be the first or last character")
	}
	return EventPattern{raw: raw}, nil
}

// NewEventRegexPattern creates a pattern backed by a regular expression.
func NewEventRegexPattern(raw string) (EventPattern, error) {
	if raw == "" {
		return EventPattern{}, errors.EmptyValue("event_pattern")
	}
	if len(raw) > MaxEventPatternLength {
		return EventPattern{}, errors.TooLong("event_pattern", len(raw), MaxEventPatternLength)
	}

	regex, err := regexp.Compile(raw)
	if err != nil {
		return EventPattern{}, errors.InvalidValue("event_pattern", raw, "invalid regular expression")
	}
	return EventPattern{raw: raw, regex: regex}, nil
}

// Matches reports whether the given event type satisfies the pattern.
func (p EventPattern) Matches(eventType string) bool {
	if p.regex != nil {
		return p.regex.MatchString(eventType)
	}

	switch {
	case p.raw == "*":
		return true
	case strings.HasSuffix(p.raw, "*"):
		return strings.HasPrefix(eventType, strings.TrimSuffix(p.raw, "*"))
	case strings.HasPrefix(p.raw, "*"):
		return strings.HasSuffix(eventType, strings.TrimPrefix(p.raw, "*"))
	default:
		return p.raw == eventType
	}
}

// IsRegex reports whether the pattern is regex-backed.
func (p EventPattern) IsRegex() bool {
	return p.regex != nil
}

// String returns the original pattern text.
func (p EventPattern) String() string {
	return p.raw
}
