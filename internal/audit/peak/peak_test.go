package peak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocate(t *testing.T) {
	t.Run("negative peak", func(t *testing.T) {
		res := Locate([]float64{0.1, -0.9, 0.3}, 0.5)
		assert.True(t, res.Found)
		assert.Equal(t, 1, res.Index)
		assert.InDelta(t, 0.9, res.Amplitude, 1e-12)
	})

	t.Run("ties resolve to lowest index", func(t *testing.T) {
		res := Locate([]float64{0, 0.8, -0.8, 0.8}, 0.5)
		assert.True(t, res.Found)
		assert.Equal(t, 1, res.Index)
	})

	t.Run("threshold is strict", func(t *testing.T) {
		res := Locate([]float64{0.5, -0.5}, 0.5)
		assert.False(t, res.Found)
		assert.InDelta(t, 0.5, res.Amplitude, 1e-12)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Result{}, Locate(nil, 0.5))
	})
}

func TestIsolated(t *testing.T) {
	samples := make([]float64, 100)
	samples[50] = 0.8
	samples[52] = 0.7

	assert.True(t, Isolated(samples, 0.5, 50, 2))
	assert.False(t, Isolated(samples, 0.5, 50, 1))

	samples[90] = -0.6
	assert.False(t, Isolated(samples, 0.5, 50, 5))
	assert.True(t, Isolated(samples, 0.6, 50, 5))
}
