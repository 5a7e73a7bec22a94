package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopTimer(t *testing.T) {
	timer := NopTimer()
	assert.NotNil(t, timer)
	assert.NotPanics(t, timer.ObserveDuration)
	assert.Equal(t, timer, NopTimer())
}
