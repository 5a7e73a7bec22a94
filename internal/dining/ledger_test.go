package dining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/actr-go/ports/kv"
)

func TestLedger(t *testing.T) {
	store := kv.NewMemStore()
	l := NewLedger(store, testOptions(t))
	t.Cleanup(l.Stop)

	for range 3 {
		require.NoError(t, l.Record(t.Context(), "b"))
	}
	require.NoError(t, l.Later().Record("a"))

	require.Eventually(t, func() bool {
		counts, err := l.Counts(t.Context())
		return err == nil && counts["a"] == 1
	}, time.Second, 5*time.Millisecond)

	counts, err := l.Counts(t.Context())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1, "b": 3}, counts)

	tallies, err := LoadTallies(t.Context(), store)
	require.NoError(t, err)
	require.Len(t, tallies, 2)
	require.Equal(t, "a", tallies[0].Diner)
	require.Equal(t, 1, tallies[0].Meals)
	require.Equal(t, "b", tallies[1].Diner)
	require.Equal(t, 3, tallies[1].Meals)
	require.False(t, tallies[1].UpdatedAt.IsZero())

	tally, err := kv.Get[Tally](t.Context(), store, TallyKey("b"))
	require.NoError(t, err)
	require.Equal(t, 3, tally.Meals)
}

func TestLoadTallies_ignores_other_keys(t *testing.T) {
	store := kv.NewMemStore()
	require.NoError(t, kv.Put(t.Context(), store, "other", Tally{Diner: "x"}))

	tallies, err := LoadTallies(t.Context(), store)
	require.NoError(t, err)
	require.Empty(t, tallies)
}

func TestLedger_zero_value_is_disabled(t *testing.T) {
	var l LedgerRef
	require.False(t, l.valid())

	require.NoError(t, l.Record(t.Context(), "a"))
	require.NoError(t, l.Later().Record("a"))

	counts, err := l.Counts(t.Context())
	require.NoError(t, err)
	require.Empty(t, counts)

	require.NotPanics(t, l.Stop)
}
