package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Memory(t *testing.T) {
	type tally struct {
		Diner string
		Meals int
	}
	s := NewMemStore()

	_, err := Get[tally](t.Context(), s, "tally/plato")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Put(t.Context(), s, "tally/plato", tally{Diner: "plato", Meals: 3}))
	require.NoError(t, Put(t.Context(), s, "tally/kant", tally{Diner: "kant", Meals: 5}))
	require.NoError(t, Put(t.Context(), s, "other", tally{}))

	loaded, err := Get[tally](t.Context(), s, "tally/plato")
	require.NoError(t, err)
	require.Equal(t, tally{Diner: "plato", Meals: 3}, loaded)

	keys, err := s.Keys(t.Context(), "tally/")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"tally/plato", "tally/kant"}, keys)

	require.NoError(t, s.Delete(t.Context(), "tally/plato"))
	_, err = Get[tally](t.Context(), s, "tally/plato")
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_Memory_decode_error(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Put(t.Context(), "bad", Entry{Data: []byte("{")}))
	_, err := Get[map[string]int](t.Context(), s, "bad")
	require.ErrorContains(t, err, "decode bad")
}
