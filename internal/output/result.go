// Package output provides shared result serialization for the formatted summaries.
package output

import (
	"fmt"
	"math"

	"github.com/farcloser/audiosync"
	"github.com/farcloser/audiosync/internal/integration/ffprobe"
	"github.com/farcloser/audiosync/internal/report"
	"github.com/farcloser/audiosync/internal/types"
)

// ResultToMap converts an analysis result into the canonical map structure
// used by the console, json and markdown formatters. NaN values become nil.
func ResultToMap(result *audiosync.Result, threshold float64) map[string]any {
	stats := report.ComputeStats(result.Latencies)

	var dropoutSeconds float64

	dropouts := make([]any, 0, len(result.Dropouts))
	for _, d := range result.Dropouts {
		dropoutSeconds += d.Duration()

		dropouts = append(dropouts, map[string]any{
			"start_sec": d.Start,
			"end_sec":   d.End,
		})
	}

	percentiles := make(map[string]any)
	for _, p := range report.Percentiles(result.Latencies, report.DefaultPercentiles) {
		percentiles[fmt.Sprintf("p%g", p.Percentile)] = number(p.Value)
	}

	return map[string]any{
		"summary": map[string]any{
			"latency_count":   len(result.Latencies),
			"measured":        stats.Count,
			"unmeasurable":    len(result.Latencies) - stats.Count,
			"dropout_count":   len(result.Dropouts),
			"dropout_seconds": dropoutSeconds,
			"max_abs_latency": number(result.MaxAbsLatency()),
			"threshold":       threshold,
			"in_sync":         InSync(result, threshold),
		},
		"stats": map[string]any{
			"max":  number(stats.Max),
			"min":  number(stats.Min),
			"mean": number(stats.Mean),
		},
		"percentiles": percentiles,
		"dropouts":    dropouts,
	}
}

// InSync reports whether no dropout was found and every measured latency stays
// below threshold in magnitude.
func InSync(result *audiosync.Result, threshold float64) bool {
	if result.HasDropouts() {
		return false
	}

	worst := result.MaxAbsLatency()

	return math.IsNaN(worst) || math.Abs(worst) < threshold
}

// SignalToMap describes a decoded recording, with the container details when probed.
func SignalToMap(signal types.Signal, probe *ffprobe.Result) map[string]any {
	meta := map[string]any{
		"sample_rate":  signal.SampleRate,
		"samples":      len(signal.Samples),
		"duration_sec": signal.Duration(),
	}

	if probe == nil {
		return meta
	}

	meta["container"] = probe.Format.FormatName
	meta["container_duration_sec"] = probe.DurationSeconds()
	meta["streams"] = probe.Format.NbStreams

	if stream := probe.FirstAudio(); stream != nil {
		meta["codec"] = stream.CodecName
		meta["channels"] = stream.Channels
		meta["channel_layout"] = stream.ChannelLayout
	}

	return meta
}

func number(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return v
}
