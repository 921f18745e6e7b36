package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"value > 10", "value > 10"},
		{"a = b", "a == b"},
		{"a != b", "a != b"},
		{"a >= 1 AND b <= 2", "a >= 1 && b <= 2"},
		{"done OR failed", "done || failed"},
		{"NOT done", "! done"},
		{"ANDROID = 1", "ANDROID == 1"},
		// string literals are opaque to the rewrites
		{`name = "NOT ready"`, `name == "NOT ready"`},
		{`status = 'OR' AND ok`, `status == 'OR' && ok`},
		{`tag = "a=b"`, `tag == "a=b"`},
		{`msg = "it\"s AND" OR done`, `msg == "it\"s AND" || done`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "input %q", tt.input)
	}
}

func TestEvaluateBool(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		expr string
		env  map[string]interface{}
		want bool
	}{
		{"value > 10", map[string]interface{}{"value": 42}, true},
		{"value > 10", map[string]interface{}{"value": 3}, false},
		{"status = \"active\"", map[string]interface{}{"status": "active"}, true},
		{"count >= 3 AND count <= 5", map[string]interface{}{"count": 4}, true},
		{"a OR b", map[string]interface{}{"a": false, "b": true}, true},
		{"NOT done", map[string]interface{}{"done": false}, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.EvaluateBool(tt.expr, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateBoolRejectsNonBoolean(t *testing.T) {
	e := NewEvaluator()

	_, err := e.EvaluateBool("value + 1", map[string]interface{}{"value": 1})
	assert.Error(t, err)
}

func TestEvaluateCompileError(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Evaluate("value >", map[string]interface{}{"value": 1})
	assert.Error(t, err)
}

func TestEvaluateUsesCache(t *testing.T) {
	e := NewEvaluator()

	env := map[string]interface{}{"value": 42}
	for i := 0; i < 3; i++ {
		got, err := e.EvaluateBool("value > 10", env)
		require.NoError(t, err)
		assert.True(t, got)
	}

	assert.Equal(t, 1, e.cache.ItemCount())

	e.ClearCache()
	assert.Equal(t, 0, e.cache.ItemCount())
}

func TestEvaluateRateLimited(t *testing.T) {
	e := NewEvaluator(WithRateLimit(1, 1))

	env := map[string]interface{}{"value": 1}
	_, err := e.EvaluateBool("value > 0", env)
	require.NoError(t, err)

	_, err = e.EvaluateBool("value > 0", env)
	assert.Error(t, err, "second immediate evaluation exceeds the burst")
}
