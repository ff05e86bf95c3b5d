package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal(t *testing.T) {
	signal := Signal{Samples: make([]float64, 24000), SampleRate: 48000}

	assert.False(t, signal.IsEmpty())
	assert.InDelta(t, 0.5, signal.Duration(), 1e-12)
	assert.InDelta(t, 0.05, signal.Time(2400), 1e-12)

	assert.True(t, Signal{}.IsEmpty())
	assert.Zero(t, Signal{}.Duration())
}

func TestLatencyJSON(t *testing.T) {
	data, err := json.Marshal([]Latency{{Time: 0.05, Delay: -0.01}, {Time: 0.15, Delay: math.NaN()}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[0.05,-0.01],[0.15,null]]`, string(data))

	var decoded []Latency
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.True(t, decoded[0].IsValid())
	assert.InDelta(t, -0.01, decoded[0].Delay, 1e-12)
	assert.False(t, decoded[1].IsValid())
	assert.InDelta(t, 0.15, decoded[1].Time, 1e-12)

	require.Error(t, json.Unmarshal([]byte(`[{"time":1}]`), &decoded))
}

func TestDropout(t *testing.T) {
	d := Dropout{Start: 0.5, End: 0.7}

	assert.InDelta(t, 0.2, d.Duration(), 1e-12)
	assert.True(t, d.Intersects(0.6, 0.8))
	assert.True(t, d.Intersects(0.4, 0.51))
	assert.False(t, d.Intersects(0.7, 0.8))
	assert.False(t, d.Intersects(0.4, 0.5))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `[0.5,0.7]`, string(data))

	var decoded Dropout
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded)
}
