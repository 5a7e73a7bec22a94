package dining

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChopstick(t *testing.T) {
	c := NewChopstick()
	require.False(t, c.InUse())

	c.Take()
	require.True(t, c.InUse())

	taken := make(chan struct{})
	go func() {
		c.Take()
		close(taken)
	}()
	select {
	case <-taken:
		t.Fatal("took a chopstick that is in use")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, c.Drop())
	select {
	case <-taken:
	case <-time.After(time.Second):
		t.Fatal("waiting diner did not get the chopstick")
	}
	require.NoError(t, c.Drop())
	require.False(t, c.InUse())
}

func TestChopstick_drop_unheld(t *testing.T) {
	c := NewChopstick()
	require.ErrorIs(t, c.Drop(), ErrNotHeld)
	require.ErrorIs(t, c.Drop(), ErrNotHeld)
	require.False(t, c.InUse())

	c.Take()
	require.NoError(t, c.Drop())
	require.ErrorIs(t, c.Drop(), ErrNotHeld)
}

func TestChopstick_take_context(t *testing.T) {
	c := NewChopstick()
	c.Take()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, c.TakeContext(ctx), context.DeadlineExceeded)
	require.True(t, c.InUse())
}
