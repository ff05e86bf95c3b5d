// Package latency pairs each reference pulse with the matching pulse of the actual recording.
package latency

import (
	"log/slog"
	"math"
	"sync"

	"github.com/farcloser/audiosync/internal/audit/peak"
	"github.com/farcloser/audiosync/internal/audit/window"
)

// DetectionRange is the fraction of a period searched on each side of the reference pulse.
// Beyond it the search region would reach the neighbouring pulse.
const DetectionRange = 0.45

// Status classifies the outcome of a single window.
type Status int

const (
	StatusNoReference Status = iota // reference pulse not detected; window is not reported
	StatusMeasured                  // both pulses found
	StatusMissing                   // actual pulse not found; dropout candidate
	StatusAmbiguous                 // two candidate pulses in the search region
)

func (s Status) String() string {
	switch s {
	case StatusNoReference:
		return "no-reference"
	case StatusMeasured:
		return "measured"
	case StatusMissing:
		return "missing"
	case StatusAmbiguous:
		return "ambiguous"
	}

	return "unknown"
}

// Config drives the resolver. All durations are in samples.
type Config struct {
	SampleRate   int
	WindowSize   int     // one period
	Margin       int     // search half-width around the reference pulse
	PulseSamples int     // spread of a single pulse
	Threshold    float64 // peak detection threshold
	Workers      int     // <= 1 means sequential
}

// NewConfig derives sample-domain settings from durations in seconds.
func NewConfig(sampleRate int, period, pulseDuration, threshold float64) Config {
	rate := float64(sampleRate)

	return Config{
		SampleRate:   sampleRate,
		WindowSize:   max(int(math.Round(period*rate)), 1),
		Margin:       int(math.Floor(DetectionRange * period * rate)),
		PulseSamples: max(int(math.Ceil(pulseDuration*rate)), 1),
		Threshold:    threshold,
	}
}

// Outcome is the result for one reference window. Indices are absolute sample positions.
type Outcome struct {
	Window    window.Window
	Status    Status
	RefIndex  int
	ActIndex  int
	SearchLo  int
	SearchHi  int
	Amplitude float64
}

// RefTime is the reference pulse position in seconds.
func (o Outcome) RefTime(sampleRate int) float64 {
	return float64(o.RefIndex) / float64(sampleRate)
}

// Delay is the actual pulse position minus the reference pulse position, in seconds.
// It is NaN unless the outcome is StatusMeasured.
func (o Outcome) Delay(sampleRate int) float64 {
	if o.Status != StatusMeasured {
		return math.NaN()
	}

	return float64(o.ActIndex-o.RefIndex) / float64(sampleRate)
}

// Resolve produces one outcome per reference window, in window order.
func Resolve(ref, act []float64, cfg Config) []Outcome {
	segments := window.New(len(ref), cfg.WindowSize)
	outcomes := make([]Outcome, segments.Count())

	if cfg.Workers <= 1 {
		for win := range segments.All() {
			outcomes[win.Index] = resolveWindow(ref, act, win, cfg)
		}

		return outcomes
	}

	sem := make(chan struct{}, cfg.Workers)

	var waitGroup sync.WaitGroup

	for win := range segments.All() {
		waitGroup.Add(1)

		go func(win window.Window) {
			defer waitGroup.Done()

			sem <- struct{}{}

			defer func() { <-sem }()

			outcomes[win.Index] = resolveWindow(ref, act, win, cfg)
		}(win)
	}

	waitGroup.Wait()

	return outcomes
}

func resolveWindow(ref, act []float64, win window.Window, cfg Config) Outcome {
	out := Outcome{Window: win}

	refPeak := peak.Locate(ref[win.Start:win.End], cfg.Threshold)
	if !refPeak.Found {
		return out
	}

	out.RefIndex = win.Start + refPeak.Index

	// Search region is bounded by what the actual recording holds.
	out.SearchLo = min(max(out.RefIndex-cfg.Margin, 0), len(act))
	out.SearchHi = min(out.RefIndex+cfg.Margin+1, len(act))

	region := act[out.SearchLo:out.SearchHi]

	actPeak := peak.Locate(region, cfg.Threshold)
	out.Amplitude = actPeak.Amplitude

	switch {
	case !actPeak.Found:
		out.Status = StatusMissing
	case !peak.Isolated(region, cfg.Threshold, actPeak.Index, cfg.PulseSamples):
		out.Status = StatusAmbiguous
		out.ActIndex = out.SearchLo + actPeak.Index
	default:
		out.Status = StatusMeasured
		out.ActIndex = out.SearchLo + actPeak.Index
	}

	if out.Status != StatusMeasured {
		slog.Debug("latency.Resolve", "window", win.Index, "status", out.Status, "amplitude", out.Amplitude)
	}

	return out
}
