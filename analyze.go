package audiosync

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/farcloser/audiosync/internal/audit/dropout"
	"github.com/farcloser/audiosync/internal/audit/latency"
	"github.com/farcloser/audiosync/internal/types"
)

/*
Usage:

ref, _ := decode.File(ctx, "ref.wav", 0)
act, _ := decode.File(ctx, "act.wav", 0)

result, err := audiosync.AnalyzeAudios(ref, act, audiosync.DefaultProperties())
for _, l := range result.Latencies {
    fmt.Printf("%.4f %+.6f\n", l.Time, l.Delay)
}

// Spread window processing over 8 goroutines
opts := audiosync.DefaultOptions()
opts.Workers = 8
result, err = audiosync.Analyze(ref, act, opts)

Missing pulses:

A reference window whose actual pulse cannot be found is a dropout candidate.
Consecutive candidates become one dropout interval, reported without latency entries.
A single isolated candidate is reported both as a NaN latency and as a one-window
dropout. A search region holding two candidate pulses yields a NaN latency only.
Dropouts in the reference are invisible; swap the inputs to look for them.
*/

// Result holds latencies, ordered by reference time, and dropouts, ascending and disjoint.
type Result struct {
	Latencies []types.Latency `json:"latencies"`
	Dropouts  []types.Dropout `json:"dropouts"`
}

// HasDropouts reports whether any dropout was found.
func (r *Result) HasDropouts() bool {
	return len(r.Dropouts) > 0
}

// MaxAbsLatency returns the latency of largest magnitude, keeping its sign.
// It returns NaN when no numeric latency exists.
func (r *Result) MaxAbsLatency() float64 {
	worst := math.NaN()

	for _, l := range r.Latencies {
		if !l.IsValid() {
			continue
		}

		if math.IsNaN(worst) || math.Abs(l.Delay) > math.Abs(worst) {
			worst = l.Delay
		}
	}

	return worst
}

// AnalyzeAudios measures the latency of actual relative to reference and the dropouts of actual.
// The zero Properties value selects DefaultProperties.
func AnalyzeAudios(reference, actual types.Signal, props Properties) (*Result, error) {
	return Analyze(reference, actual, Options{Properties: props})
}

// Analyze is AnalyzeAudios with explicit Options.
func Analyze(reference, actual types.Signal, opts Options) (*Result, error) {
	props := opts.Properties
	if props == (Properties{}) {
		props = DefaultProperties()
	}

	if err := props.Validate(); err != nil {
		return nil, err
	}

	if err := checkSignals(reference, actual); err != nil {
		return nil, err
	}

	rate := reference.SampleRate

	cfg := latency.NewConfig(rate, props.Period, props.PulseDuration, props.DetectionThreshold)
	cfg.Workers = opts.Workers

	outcomes := latency.Resolve(reference.Samples, actual.Samples, cfg)

	flags := make([]bool, len(outcomes))
	for n, out := range outcomes {
		flags[n] = out.Status == latency.StatusMissing
	}

	runs := dropout.Merge(flags, func(n int) (float64, float64) {
		win := outcomes[n].Window

		return reference.Time(win.Start), reference.Time(win.End)
	})

	// Windows belonging to a run longer than one window are reported as dropouts only.
	silenced := make([]bool, len(outcomes))
	intervals := make([]types.Dropout, 0, len(runs))

	for _, run := range runs {
		intervals = append(intervals, run.Interval())

		if run.Windows() > 1 {
			for n := run.First; n <= run.Last; n++ {
				silenced[n] = true
			}
		}
	}

	result := &Result{
		Latencies: make([]types.Latency, 0, len(outcomes)),
	}

	half := cfg.WindowSize / 2

	for n, out := range outcomes {
		if out.Status == latency.StatusNoReference || silenced[n] {
			continue
		}

		result.Latencies = append(result.Latencies, types.Latency{
			Time:  out.RefTime(rate),
			Delay: out.Delay(rate),
		})

		if out.Status == latency.StatusMeasured && props.ScanSilence() {
			lo := max(out.ActIndex-half, 0)
			hi := min(out.ActIndex-half+cfg.WindowSize, len(actual.Samples))

			intervals = append(intervals, dropout.ScanSilence(
				actual.Samples[lo:hi], lo, rate, props.SilenceThreshold, props.MinSilenceDuration,
			)...)
		}
	}

	result.Dropouts = dropout.Collapse(intervals, dropout.NoGap)
	if result.Dropouts == nil {
		result.Dropouts = []types.Dropout{}
	}

	slog.Debug("audiosync.Analyze",
		"windows", len(outcomes),
		"latencies", len(result.Latencies),
		"dropouts", len(result.Dropouts),
	)

	return result, nil
}

func checkSignals(reference, actual types.Signal) error {
	if reference.SampleRate <= 0 || actual.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive (reference: %d, actual: %d)",
			ErrInvalidInput, reference.SampleRate, actual.SampleRate)
	}

	if reference.SampleRate != actual.SampleRate {
		return fmt.Errorf("%w: sample rates differ (reference: %d, actual: %d)",
			ErrInvalidInput, reference.SampleRate, actual.SampleRate)
	}

	if reference.IsEmpty() {
		return fmt.Errorf("%w: reference signal is empty", ErrInvalidInput)
	}

	if actual.IsEmpty() {
		return fmt.Errorf("%w: actual signal is empty", ErrInvalidInput)
	}

	return nil
}
