package output

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/audiosync"
	"github.com/farcloser/audiosync/internal/integration/ffprobe"
	"github.com/farcloser/audiosync/internal/types"
)

func TestResultToMap(t *testing.T) {
	result := &audiosync.Result{
		Latencies: []types.Latency{
			{Time: 0.05, Delay: 0.0005},
			{Time: 0.15, Delay: math.NaN()},
			{Time: 0.25, Delay: -0.002},
		},
		Dropouts: []types.Dropout{{Start: 0.5, End: 1.0}},
	}

	meta := ResultToMap(result, 0.001)

	summary, ok := meta["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, summary["latency_count"])
	assert.Equal(t, 2, summary["measured"])
	assert.Equal(t, 1, summary["unmeasurable"])
	assert.Equal(t, 1, summary["dropout_count"])
	assert.InDelta(t, 0.5, summary["dropout_seconds"], 1e-12)
	assert.InDelta(t, -0.002, summary["max_abs_latency"], 1e-12)
	assert.Equal(t, false, summary["in_sync"])

	percentiles, ok := meta["percentiles"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.0005, percentiles["p0"], 1e-12)
	assert.InDelta(t, 0.002, percentiles["p100"], 1e-12)

	// NaN never reaches the formatters.
	_, err := json.Marshal(meta)
	require.NoError(t, err)
}

func TestResultToMap_NoMeasurement(t *testing.T) {
	result := &audiosync.Result{
		Latencies: []types.Latency{{Time: 0.05, Delay: math.NaN()}},
		Dropouts:  []types.Dropout{},
	}

	meta := ResultToMap(result, 0.001)

	stats, ok := meta["stats"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, stats["max"])
	assert.Nil(t, stats["mean"])

	_, err := json.Marshal(meta)
	require.NoError(t, err)
}

func TestInSync(t *testing.T) {
	clean := &audiosync.Result{Latencies: []types.Latency{{Time: 0.05, Delay: 0.0002}}}
	assert.True(t, InSync(clean, 0.001))
	assert.False(t, InSync(clean, 0.0001))

	dropped := &audiosync.Result{Dropouts: []types.Dropout{{Start: 0, End: 0.1}}}
	assert.False(t, InSync(dropped, 0.001))

	assert.True(t, InSync(&audiosync.Result{}, 0.001))
}

func TestSignalToMap(t *testing.T) {
	signal := types.Signal{Samples: make([]float64, 96000), SampleRate: 48000}

	meta := SignalToMap(signal, nil)
	assert.Equal(t, 48000, meta["sample_rate"])
	assert.Equal(t, 96000, meta["samples"])
	assert.InDelta(t, 2.0, meta["duration_sec"], 1e-12)
	assert.NotContains(t, meta, "codec")

	probe := &ffprobe.Result{
		Streams: []ffprobe.Stream{
			{Index: 0, CodecType: "video"},
			{Index: 1, CodecType: "audio", CodecName: "flac", Channels: 2, ChannelLayout: "stereo"},
		},
		Format: ffprobe.Format{FormatName: "matroska,webm", NbStreams: 2},
	}

	meta = SignalToMap(signal, probe)
	assert.Equal(t, "flac", meta["codec"])
	assert.Equal(t, 2, meta["channels"])
	assert.Equal(t, "matroska,webm", meta["container"])
}
