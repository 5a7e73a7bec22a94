package ds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddRemove(t *testing.T) {
	s := NewSet[string]()
	require.True(t, s.IsEmpty())

	require.True(t, s.Add("hello"))
	require.False(t, s.Add("hello"))
	require.False(t, s.IsEmpty())
	require.Equal(t, 1, s.Len())

	require.True(t, s.Remove("hello"))
	require.False(t, s.Remove("hello"))
	require.True(t, s.IsEmpty())
}

func TestSet_Order(t *testing.T) {
	s := NewSet("c", "a", "b", "a")
	require.Equal(t, []string{"c", "a", "b"}, s.Values())

	s.Remove("a")
	s.Add("a")
	require.Equal(t, []string{"c", "b", "a"}, s.Values())
	require.Equal(t, "[c b a]", s.String())
}

func TestSet_ValuesIsCopy(t *testing.T) {
	s := NewSet(1, 2, 3)
	v := s.Values()
	v[0] = 42
	require.True(t, s.Contains(1))
	require.False(t, s.Contains(42))
}
