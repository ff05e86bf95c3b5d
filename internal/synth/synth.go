// Package synth generates the crafted periodic-pulse test waveform.
package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/farcloser/audiosync"
	"github.com/farcloser/audiosync/internal/types"
)

var errInvalidConfig = errors.New("invalid generator configuration")

// Span is a half-open time range in seconds.
type Span struct {
	Start float64
	End   float64
}

// Config describes the waveform. Durations are in seconds, frequencies in Hz.
type Config struct {
	SampleRate      int
	Duration        float64
	Period          float64
	PulseDuration   float64
	PulseAmplitude  float64
	PulseFrequency  float64
	FillerAmplitude float64
	FillerFrequency float64

	// Delay shifts every pulse by that many seconds (may be negative).
	Delay float64

	// Silences are zeroed after generation.
	Silences []Span
}

// DefaultConfig is one minute of the standard 100ms waveform at 48kHz.
func DefaultConfig() Config {
	props := audiosync.DefaultProperties()

	return Config{
		SampleRate:      audiosync.GenerationRate,
		Duration:        60,
		Period:          props.Period,
		PulseDuration:   props.PulseDuration,
		PulseAmplitude:  audiosync.PulseAmplitude,
		PulseFrequency:  2000,
		FillerAmplitude: audiosync.FillerAmplitude,
		FillerFrequency: 440,
	}
}

// PulseCenter is the nominal time of pulse k, before Delay is applied.
func (c Config) PulseCenter(k int) float64 {
	return (float64(k) + 0.5) * c.Period
}

// Generate renders the waveform. Each pulse is a Hann-windowed cosine burst whose
// single largest sample sits at the pulse center.
func Generate(cfg Config) (types.Signal, error) {
	if cfg.SampleRate <= 0 || cfg.Duration < 0 || cfg.Period <= 0 || cfg.PulseDuration <= 0 {
		return types.Signal{}, fmt.Errorf("%w: %+v", errInvalidConfig, cfg)
	}

	if cfg.PulseDuration >= cfg.Period {
		return types.Signal{}, fmt.Errorf("%w: pulse duration %v must be shorter than period %v",
			errInvalidConfig, cfg.PulseDuration, cfg.Period)
	}

	rate := float64(cfg.SampleRate)
	length := int(math.Round(cfg.Duration * rate))
	samples := make([]float64, length)

	for i := range samples {
		t := float64(i) / rate
		samples[i] = cfg.FillerAmplitude * math.Sin(2*math.Pi*cfg.FillerFrequency*t)
	}

	halfWidth := int(cfg.PulseDuration * rate / 2)
	firstK := int(math.Floor(-cfg.Delay/cfg.Period)) - 1
	lastK := int(math.Ceil((cfg.Duration-cfg.Delay)/cfg.Period)) + 1

	for k := firstK; k <= lastK; k++ {
		center := int(math.Round((cfg.PulseCenter(k) + cfg.Delay) * rate))

		for offset := -halfWidth; offset <= halfWidth; offset++ {
			idx := center + offset
			if idx < 0 || idx >= length {
				continue
			}

			dt := float64(offset) / rate
			envelope := 0.5 * (1 + math.Cos(2*math.Pi*dt/cfg.PulseDuration))
			samples[idx] = cfg.PulseAmplitude * envelope * math.Cos(2*math.Pi*cfg.PulseFrequency*dt)
		}
	}

	for _, span := range cfg.Silences {
		lo := min(max(int(math.Round(span.Start*rate)), 0), length)
		hi := min(max(int(math.Round(span.End*rate)), lo), length)
		clear(samples[lo:hi])
	}

	return types.Signal{Samples: samples, SampleRate: cfg.SampleRate}, nil
}
