package dining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// seatedDiners seats one philosopher per name at a table whose chopsticks
// are all taken, so a served philosopher stays at the table waiting for
// them. Thinking takes an hour, so nobody asks the waiter on their own.
func seatedDiners(t *testing.T, w WaiterRef, names ...string) []PhilosopherRef {
	opt := testOptions(t)
	opt.MaxThink = time.Hour

	table := NewTable(len(names))
	for seat := range names {
		table.RightChopstickAt(seat).Take()
	}

	var ps []PhilosopherRef
	for seat, name := range names {
		p := NewPhilosopher(name, opt)
		t.Cleanup(p.Stop)
		require.NoError(t, p.Dine(t.Context(), table, seat, w))
		ps = append(ps, p)
	}
	return ps
}

func TestWaiter_capacity_and_order(t *testing.T) {
	w := NewWaiter(2, testOptions(t))
	t.Cleanup(w.Stop)
	ps := seatedDiners(t, w, "a", "b", "c", "d")

	for _, p := range ps {
		require.NoError(t, w.RequestToEat(t.Context(), p))
	}
	eating, err := w.Eating(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, eating)

	waiting, err := w.Waiting(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, waiting)

	// repeated requests change nothing
	require.NoError(t, w.RequestToEat(t.Context(), ps[0]))
	require.NoError(t, w.RequestToEat(t.Context(), ps[2]))
	waiting, err = w.Waiting(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, waiting)

	// a seat frees up for the longest waiting diner
	require.NoError(t, w.DoneEating(t.Context(), ps[1]))
	eating, err = w.Eating(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, eating)
	waiting, err = w.Waiting(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"d"}, waiting)
}

func TestWaiter_unlimited(t *testing.T) {
	w := NewWaiter(0, testOptions(t))
	t.Cleanup(w.Stop)

	for _, p := range seatedDiners(t, w, "a", "b", "c") {
		require.NoError(t, w.RequestToEat(t.Context(), p))
	}
	eating, err := w.Eating(t.Context())
	require.NoError(t, err)
	require.Equal(t, 3, eating)

	waiting, err := w.Waiting(t.Context())
	require.NoError(t, err)
	require.Empty(t, waiting)
}

func TestWaiter_failed_meal_frees_the_seat(t *testing.T) {
	opt := testOptions(t)
	w := NewWaiter(1, opt)
	t.Cleanup(w.Stop)

	// never seated, so every meal fails with ErrNotSeated
	var ps []PhilosopherRef
	for _, name := range []string{"a", "b", "c"} {
		p := NewPhilosopher(name, opt)
		t.Cleanup(p.Stop)
		ps = append(ps, p)
	}
	for _, p := range ps {
		require.NoError(t, w.Later().RequestToEat(p))
	}

	require.Eventually(t, func() bool {
		eating, err := w.Eating(t.Context())
		if err != nil || eating != 0 {
			return false
		}
		waiting, err := w.Waiting(t.Context())
		return err == nil && len(waiting) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestWaiter_done_without_request(t *testing.T) {
	opt := testOptions(t)
	w := NewWaiter(1, opt)
	t.Cleanup(w.Stop)
	p := NewPhilosopher("a", opt)
	t.Cleanup(p.Stop)

	require.NoError(t, w.DoneEating(t.Context(), p))
	eating, err := w.Eating(t.Context())
	require.NoError(t, err)
	require.Zero(t, eating)
}
