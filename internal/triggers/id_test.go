package triggers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTriggerIDUnique(t *testing.T) {
	a := NewTriggerID()
	b := NewTriggerID()

	assert.False(t, a.IsNil())
	assert.False(t, a.Equal(b))
}

func TestTriggerIDFromSeedDeterministic(t *testing.T) {
	a, err := NewTriggerIDFromSeed("user_signup_trigger")
	require.NoError(t, err)
	b, err := NewTriggerIDFromSeed("user_signup_trigger")
	require.NoError(t, err)
	c, err := NewTriggerIDFromSeed("other_trigger")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.IsNil())

	_, err = NewTriggerIDFromSeed("")
	assert.Error(t, err)
}

func TestParseTriggerID(t *testing.T) {
	original := NewTriggerID()

	parsed, err := ParseTriggerID(original.String())
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestParseTriggerIDRejected(t *testing.T) {
	tests := []string{
		"",
		"not-a-uuid",
		"00000000-0000-0000-0000-000000000000",
	}

	for _, input := range tests {
		_, err := ParseTriggerID(input)
		assert.Error(t, err, "input %q", input)
	}
}
