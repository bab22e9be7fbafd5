package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vform/pkg/lifecycle"
)

func fireAll(t *testing.T, m *lifecycle.Machine, events ...lifecycle.Event) {
	t.Helper()
	for _, ev := range events {
		_, err := m.Fire(ev)
		require.NoError(t, err, "event %s", ev)
	}
}

func TestMachine(t *testing.T) {
	t.Parallel()

	t.Run("starts idle", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		assert.Equal(t, lifecycle.Idle, m.Current())
		assert.False(t, m.Current().Loading())
	})

	t.Run("rejected attempt returns to idle", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Reject)
		assert.Equal(t, lifecycle.Rejected, m.Current())
		fireAll(t, m, lifecycle.Settle)
		assert.Equal(t, lifecycle.Idle, m.Current())
	})

	t.Run("successful attempt", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Dispatch)
		assert.True(t, m.Current().Loading())
		fireAll(t, m, lifecycle.Resolve)
		assert.False(t, m.Current().Loading())
		fireAll(t, m, lifecycle.Complete)
		assert.Equal(t, lifecycle.Idle, m.Current())
	})

	t.Run("failed attempt", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Dispatch, lifecycle.Fail, lifecycle.Complete)
		assert.Equal(t, lifecycle.Idle, m.Current())
	})

	t.Run("redirected accepts a new attempt", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Dispatch, lifecycle.Resolve, lifecycle.Redirect)
		assert.Equal(t, lifecycle.Redirected, m.Current())
		assert.True(t, m.CanFire(lifecycle.Validate))
		assert.False(t, m.CanFire(lifecycle.Complete))
	})

	t.Run("abort from validating", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Abort)
		assert.Equal(t, lifecycle.Idle, m.Current())
	})

	t.Run("rejects validate while submitting", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Dispatch)

		assert.False(t, m.CanFire(lifecycle.Validate))
		state, err := m.Fire(lifecycle.Validate)
		require.Error(t, err)
		assert.True(t, lifecycle.IsNoTransition(err))
		assert.Equal(t, lifecycle.Submitting, state)
		assert.Equal(t, lifecycle.Submitting, m.Current())
		assert.Contains(t, err.Error(), "no transition from state 'submitting' for event 'validate'")
	})

	t.Run("reset returns to initial state", func(t *testing.T) {
		t.Parallel()
		m := lifecycle.New()
		fireAll(t, m, lifecycle.Validate, lifecycle.Dispatch)
		m.Reset()
		assert.Equal(t, lifecycle.Idle, m.Current())
	})
}

func TestListeners(t *testing.T) {
	type step struct {
		from, to lifecycle.State
		event    lifecycle.Event
	}
	var steps []step
	m := lifecycle.New(lifecycle.WithListener(func(from, to lifecycle.State, event lifecycle.Event) {
		steps = append(steps, step{from, to, event})
	}))

	fireAll(t, m, lifecycle.Validate, lifecycle.Reject, lifecycle.Settle)
	_, _ = m.Fire(lifecycle.Complete)

	assert.Equal(t, []step{
		{lifecycle.Idle, lifecycle.Validating, lifecycle.Validate},
		{lifecycle.Validating, lifecycle.Rejected, lifecycle.Reject},
		{lifecycle.Rejected, lifecycle.Idle, lifecycle.Settle},
	}, steps, "failed fire is not reported")
}

func TestNewMachine(t *testing.T) {
	t.Run("rejects incomplete transitions", func(t *testing.T) {
		_, err := lifecycle.NewMachine(lifecycle.Idle, []lifecycle.Transition{{From: lifecycle.Idle, Event: lifecycle.Validate}})
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	})

	t.Run("rejects empty initial state", func(t *testing.T) {
		_, err := lifecycle.NewMachine("", lifecycle.Transitions())
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	})

	t.Run("custom table", func(t *testing.T) {
		m, err := lifecycle.NewMachine("a", []lifecycle.Transition{{From: "a", To: "b", Event: "go"}})
		require.NoError(t, err)
		to, err := m.Fire("go")
		require.NoError(t, err)
		assert.Equal(t, lifecycle.State("b"), to)
	})
}
