package dining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/actr-go/ports/kv"
)

func everyoneAte(t *testing.T, meals func() (map[string]int, error), names []string, atLeast int) func() bool {
	return func() bool {
		counts, err := meals()
		if err != nil {
			t.Logf("meals: %v", err)
			return false
		}
		for _, n := range names {
			if counts[n] < atLeast {
				return false
			}
		}
		return true
	}
}

func TestDinner(t *testing.T) {
	rec := newMealRecorder(DefaultNames)
	opt := testOptions(t)
	opt.Metrics = rec
	store := kv.NewMemStore()

	d, err := Start(Config{Options: opt, Capacity: 4, Store: store})
	require.NoError(t, err)
	t.Cleanup(d.Stop)

	meals := func() (map[string]int, error) { return d.Meals(t.Context()) }
	require.Eventually(t, everyoneAte(t, meals, DefaultNames, 100), 30*time.Second, 20*time.Millisecond)

	d.Stop()
	maxEating, violations := rec.result()
	require.Empty(t, violations)
	require.LessOrEqual(t, maxEating, 4)
	require.Positive(t, maxEating)

	tallies, err := d.Tallies(t.Context())
	require.NoError(t, err)
	require.Len(t, tallies, len(DefaultNames))
	for _, tally := range tallies {
		require.GreaterOrEqual(t, tally.Meals, 100, tally.Diner)
	}
}

func TestDinner_meal_limit(t *testing.T) {
	names := []string{"a", "b", "c"}
	opt := testOptions(t)
	opt.Meals = 5

	d, err := Start(Config{Options: opt, Names: names})
	require.NoError(t, err)
	t.Cleanup(d.Stop)

	meals := func() (map[string]int, error) { return d.Meals(t.Context()) }
	require.Eventually(t, everyoneAte(t, meals, names, 5), 10*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	counts, err := d.Meals(t.Context())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 5, "b": 5, "c": 5}, counts)
}

func TestDinner_config(t *testing.T) {
	_, err := Start(Config{Names: []string{"solo"}})
	require.ErrorIs(t, err, ErrTooFewDiners)

	_, err = Start(Config{Names: []string{"a", "b", "a"}})
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = StartBaseline(Config{Names: []string{"solo"}})
	require.ErrorIs(t, err, ErrTooFewDiners)
}

func TestBaselineDinner(t *testing.T) {
	rec := newMealRecorder(DefaultNames)
	opt := testOptions(t)
	opt.Metrics = rec

	d, err := StartBaseline(Config{Options: opt})
	require.NoError(t, err)
	t.Cleanup(d.Stop)

	meals := func() (map[string]int, error) { return d.Meals(t.Context()) }
	require.Eventually(t, everyoneAte(t, meals, DefaultNames, 20), 30*time.Second, 20*time.Millisecond)

	d.Stop()
	_, violations := rec.result()
	require.Empty(t, violations)

	tallies, err := d.Tallies(t.Context())
	require.NoError(t, err)
	require.Len(t, tallies, len(DefaultNames))
}
