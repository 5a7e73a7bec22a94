package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/actr-go/internal/dining"
	"github.com/codewandler/actr-go/ports/kv"
)

func newTestStore(t *testing.T) *KvStore {
	if testing.Short() {
		t.Skip("needs docker")
	}
	store, err := NewKvStore(t.Context(), KvConfig{Connect: NewTestContainer(t)})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestKvStore(t *testing.T) {
	type fruit struct {
		Name  string
		Count int
	}
	store := newTestStore(t)

	require.NoError(t, kv.Put(t.Context(), store, "fruit.apple", fruit{Name: "apple", Count: 10}))
	require.NoError(t, kv.Put(t.Context(), store, "fruit.pear", fruit{Name: "pear", Count: 2}))
	require.NoError(t, kv.Put(t.Context(), store, "veg.leek", fruit{Name: "leek"}))

	v, err := kv.Get[fruit](t.Context(), store, "fruit.apple")
	require.NoError(t, err)
	require.Equal(t, fruit{Name: "apple", Count: 10}, v)

	keys, err := store.Keys(t.Context(), "fruit.")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"fruit.apple", "fruit.pear"}, keys)

	require.NoError(t, store.Delete(t.Context(), "fruit.apple"))
	_, err = store.Get(t.Context(), "fruit.apple")
	require.ErrorIs(t, err, kv.ErrNotFound)

	keys, err = store.Keys(t.Context(), "fruit.")
	require.NoError(t, err)
	require.Equal(t, []string{"fruit.pear"}, keys)
}

func TestKvStore_dinner_tallies(t *testing.T) {
	store := newTestStore(t)

	opt := dining.Options{Context: t.Context(), MaxThink: time.Millisecond, MaxEat: time.Millisecond, Meals: 3}
	d, err := dining.Start(dining.Config{Options: opt, Names: []string{"a", "b", "c"}, Store: store})
	require.NoError(t, err)
	t.Cleanup(d.Stop)

	require.Eventually(t, func() bool {
		tallies, err := dining.LoadTallies(t.Context(), store)
		if err != nil || len(tallies) != 3 {
			return false
		}
		for _, tally := range tallies {
			if tally.Meals != 3 {
				return false
			}
		}
		return true
	}, 10*time.Second, 50*time.Millisecond)
}
