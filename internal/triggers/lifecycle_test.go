package triggers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trigger-engine/internal/conditions"
	"trigger-engine/internal/state"
)

func TestLifecycleTracksSuccessAndFailure(t *testing.T) {
	lc := NewLifecycle(3)
	trig := newTestTrigger(t, true, conditions.NewStaticCondition(true, 0))
	lc.Track(trig)

	s, ok := lc.StateOf(trig.ID())
	require.True(t, ok)
	assert.Equal(t, state.Active, s.Current())

	require.NoError(t, lc.Execute(trig, func() error { return nil }))
	s, _ = lc.StateOf(trig.ID())
	assert.Equal(t, state.Success, s.Current())
	assert.Equal(t, uint64(1), s.ExecutionCount())

	execErr := errors.New("delivery refused")
	err := lc.Execute(trig, func() error { return execErr })
	assert.ErrorIs(t, err, execErr)
	s, _ = lc.StateOf(trig.ID())
	assert.Equal(t, state.Failed, s.Current())
	assert.Equal(t, uint64(1), s.FailureCount())
}

func TestLifecycleSuspendsOnBudgetBreach(t *testing.T) {
	lc := NewLifecycle(2)
	trig := newTestTrigger(t, true, conditions.NewStaticCondition(true, 0))
	lc.Track(trig)

	boom := errors.New("downstream unavailable")
	for i := 0; i < 2; i++ {
		err := lc.Execute(trig, func() error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	// third consecutive failure breaches the budget of two
	err := lc.Execute(trig, func() error { return boom })
	var breach *state.MaxFailuresExceededError
	require.ErrorAs(t, err, &breach)
	assert.Equal(t, uint64(3), breach.CurrentFailures)
	assert.Equal(t, uint64(2), breach.MaxAllowed)

	s, _ := lc.StateOf(trig.ID())
	assert.Equal(t, state.Suspended, s.Current())
	assert.False(t, trig.IsActive())

	// suspended triggers refuse new executions
	err = lc.Execute(trig, func() error { return nil })
	assert.Error(t, err)
}

func TestLifecycleResume(t *testing.T) {
	lc := NewLifecycle(0)
	trig := newTestTrigger(t, true, conditions.NewStaticCondition(true, 0))
	lc.Track(trig)

	err := lc.Execute(trig, func() error { return errors.New("boom") })
	var breach *state.MaxFailuresExceededError
	require.ErrorAs(t, err, &breach)

	require.NoError(t, lc.Resume(trig))
	s, _ := lc.StateOf(trig.ID())
	assert.Equal(t, state.Active, s.Current())
	assert.True(t, trig.IsActive())

	// failure counters persist until the next success
	assert.Equal(t, uint64(1), s.FailureCount())
	require.NoError(t, lc.Execute(trig, func() error { return nil }))
	s, _ = lc.StateOf(trig.ID())
	assert.Zero(t, s.FailureCount())
}

func TestLifecycleResumeUntracked(t *testing.T) {
	lc := NewLifecycle(3)
	trig := newTestTrigger(t, true, conditions.NewStaticCondition(true, 0))
	assert.Error(t, lc.Resume(trig))
}

func TestLifecycleForgetDuringExecutionStaysForgotten(t *testing.T) {
	lc := NewLifecycle(3)
	trig := newTestTrigger(t, true, conditions.NewStaticCondition(true, 0))
	lc.Track(trig)

	require.NoError(t, lc.Execute(trig, func() error {
		lc.Forget(trig.ID())
		return nil
	}))

	_, ok := lc.StateOf(trig.ID())
	assert.False(t, ok, "completed execution must not resurrect a forgotten trigger")

	err := lc.Execute(trig, func() error { return errors.New("boom") })
	assert.Error(t, err)
	s, ok := lc.StateOf(trig.ID())
	require.True(t, ok)
	assert.Equal(t, uint64(1), s.FailureCount(), "re-executing starts from fresh counters")
}

func TestLifecycleForget(t *testing.T) {
	lc := NewLifecycle(3)
	trig := newTestTrigger(t, true, conditions.NewStaticCondition(true, 0))
	lc.Track(trig)
	lc.Forget(trig.ID())

	_, ok := lc.StateOf(trig.ID())
	assert.False(t, ok)
}
