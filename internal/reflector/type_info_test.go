package reflector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct{}

func TestTypeInfoFor(t *testing.T) {
	ti := TypeInfoFor[sample]()
	require.Equal(t, "github.com/codewandler/actr-go/internal/reflector.sample", ti.Name)
	require.Equal(t, "reflector.sample", ti.Short)

	require.Equal(t, ti, TypeInfoFor[*sample]())
	require.Equal(t, ti, TypeInfoOf(&sample{}))
}

func TestTypeInfo_unnamed(t *testing.T) {
	require.Equal(t, "[]int", TypeInfoFor[[]int]().Short)
	require.Equal(t, "int", TypeInfoFor[int]().Short)
	require.Equal(t, TypeInfo{}, TypeInfoOf(nil))
}
