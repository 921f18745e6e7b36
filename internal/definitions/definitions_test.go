package definitions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trigger-engine/internal/conditions"
)

const sampleDocument = `
triggers:
  - name: signup_watch
    description: fires on paid user signups
    priority: 10
    timeout_seconds: 60
    max_executions: 100
    metadata:
      owner: growth
    condition:
      and:
        - event: "user.*"
        - expression: 'plan != "free"'
  - name: heartbeat_check
    enabled: false
    seed: heartbeat-v1
    condition:
      timer: 5m
`

func TestParseSampleDocument(t *testing.T) {
	file, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, file.Triggers, 2)

	first := file.Triggers[0]
	assert.Equal(t, "signup_watch", first.Name)
	assert.Equal(t, uint32(10), first.Priority)
	assert.Equal(t, "growth", first.Metadata["owner"])

	config, err := first.BuildConfig()
	require.NoError(t, err)
	assert.True(t, config.Enabled)
	assert.Equal(t, uint64(60), config.TimeoutSeconds)
	assert.Equal(t, uint64(100), config.MaxExecutions)
	assert.Equal(t, `(Event(user.*) AND Expression(plan != "free"))`, config.Condition.String())

	second, err := file.Triggers[1].BuildConfig()
	require.NoError(t, err)
	assert.False(t, second.Enabled)
	assert.Equal(t, "Timer(5m)", second.Condition.String())
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0644))

	file, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, file.Triggers, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDeterministicIdentity(t *testing.T) {
	file, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	a, err := file.Triggers[0].ID()
	require.NoError(t, err)
	b, err := file.Triggers[0].ID()
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "identity is stable across reloads")

	seeded, err := file.Triggers[1].ID()
	require.NoError(t, err)
	assert.False(t, a.Equal(seeded))
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", ":\n  - ["},
		{"missing name", "triggers:\n  - condition:\n      always: true\n"},
		{"missing condition", "triggers:\n  - name: ok_watch\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestConditionNodeForms(t *testing.T) {
	or := &ConditionNode{Or: []*ConditionNode{
		{Event: "user.created"},
		{Event: "user.updated"},
		{Event: "user.deleted"},
	}}
	cond, err := or.Build()
	require.NoError(t, err)
	assert.Equal(t, "((Event(user.created) OR Event(user.updated)) OR Event(user.deleted))", cond.String())

	not := &ConditionNode{Not: &ConditionNode{Event: "order.*"}}
	cond, err = not.Build()
	require.NoError(t, err)
	assert.Equal(t, "NOT Event(order.*)", cond.String())

	regex := &ConditionNode{EventRegex: `user\.(created|updated)`}
	cond, err = regex.Build()
	require.NoError(t, err)
	assert.Equal(t, conditions.KindEvent, cond.Kind)
}

func TestConditionNodeRejected(t *testing.T) {
	tests := []struct {
		name string
		node *ConditionNode
	}{
		{"empty node", &ConditionNode{}},
		{"two forms", &ConditionNode{Timer: "5s", Event: "user.*"}},
		{"single-child and", &ConditionNode{And: []*ConditionNode{{Always: true}}}},
		{"bad timer", &ConditionNode{Timer: "0s"}},
		{"bad regex", &ConditionNode{EventRegex: "user.[bad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.node.Build()
			assert.Error(t, err)
		})
	}
}
