package conditions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPatternExactMatch(t *testing.T) {
	p, err := NewEventPattern("user.created")
	require.NoError(t, err)

	assert.True(t, p.Matches("user.created"))
	assert.False(t, p.Matches("user.updated"))
	assert.False(t, p.Matches("user.created.v2"))
}

func TestEventPatternPrefixWildcard(t *testing.T) {
	p, err := NewEventPattern("user.*")
	require.NoError(t, err)

	assert.True(t, p.Matches("user.created"))
	assert.True(t, p.Matches("user.deleted"))
	assert.False(t, p.Matches("order.created"))
}

func TestEventPatternSuffixWildcard(t *testing.T) {
	p, err := NewEventPattern("*.created")
	require.NoError(t, err)

	assert.True(t, p.Matches("user.created"))
	assert.True(t, p.Matches("order.created"))
	assert.False(t, p.Matches("user.deleted"))
}

func TestEventPatternMatchAll(t *testing.T) {
	p, err := NewEventPattern("*")
	require.NoError(t, err)

	assert.True(t, p.Matches("anything.at.all"))
	assert.True(t, p.Matches(""))
}

func TestEventPatternRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"two wildcards", "user.*.*"},
		{"interior wildcard", "user.*created"},
		{"too long", strings.Repeat("a", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventPattern(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestEventRegexPattern(t *testing.T) {
	p, err := NewEventRegexPattern(`user\.(created|updated)`)
	require.NoError(t, err)
	assert.True(t, p.IsRegex())

	assert.True(t, p.Matches("user.created"))
	assert.True(t, p.Matches("user.updated"))
	assert.False(t, p.Matches("user.deleted"))
}

func TestEventRegexPatternInvalid(t *testing.T) {
	_, err := NewEventRegexPattern("user.[created")
	assert.Error(t, err)
}

func TestEventConditionNoEventType(t *testing.T) {
	cond, err := NewEventCondition("user.*", 0)
	require.NoError(t, err)

	matched, err := cond.Matches(NewTickContext(testClock()))
	require.NoError(t, err)
	assert.False(t, matched, "tick contexts carry no event and never match")
}

func TestEventConditionDescription(t *testing.T) {
	cond, err := NewEventCondition("user.*", 3)
	require.NoError(t, err)
	assert.Equal(t, "Event(user.*)", cond.Description())
	assert.Equal(t, uint32(3), cond.Priority())
}
