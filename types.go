package audiosync

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Crafted test waveform, as produced by the generator.
const (
	PulseAmplitude  = 0.8   // peak amplitude of the marker sine burst
	FillerAmplitude = 0.1   // amplitude of the tone between bursts
	GenerationRate  = 48000 // Hz
)

// ErrInvalidInput is returned for signals or properties that cannot be analyzed.
var ErrInvalidInput = errors.New("invalid input")

// Properties describe the known structure of the test waveform.
type Properties struct {
	// Period is the distance between two marker pulses, in seconds (default: 0.1).
	Period float64 `validate:"gt=0"`

	// PulseDuration is the length of a marker pulse, in seconds (default: 0.002).
	// It must be shorter than Period.
	PulseDuration float64 `validate:"gt=0,ltfield=Period"`

	// DetectionThreshold is the normalized amplitude a peak must exceed to count as a pulse
	// (default: 0.5). Filler and noise must stay below it.
	DetectionThreshold float64 `validate:"gt=0,lt=1"`

	// SilenceThreshold enables the short dropout scan inside measured windows: samples
	// below it are silence. Zero disables the scan (default).
	SilenceThreshold float64 `validate:"gte=0,lt=1"`

	// MinSilenceDuration is the shortest silence, in seconds, reported by the short dropout scan.
	MinSilenceDuration float64 `validate:"gte=0"`
}

// DefaultProperties matches the standard 100ms crafted waveform.
func DefaultProperties() Properties {
	return Properties{
		Period:             0.1,
		PulseDuration:      0.002,
		DetectionThreshold: 0.5,
	}
}

// DetectionRange is the largest absolute latency, in seconds, that can be measured.
func (p Properties) DetectionRange() float64 {
	return 0.45 * p.Period
}

// ScanSilence reports whether the short dropout scan is enabled.
func (p Properties) ScanSilence() bool {
	return p.SilenceThreshold > 0
}

//nolint:gochecknoglobals // validator caches struct metadata; safe for concurrent use
var validate = validator.New()

// Validate checks the properties, wrapping every failure in ErrInvalidInput.
func (p Properties) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]

			return fmt.Errorf("%w: %s fails %q (got %v)", ErrInvalidInput, first.Field(), first.Tag(), first.Value())
		}

		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return nil
}

// Options configures a run of Analyze.
type Options struct {
	Properties Properties

	// Workers spreads per-window peak detection over that many goroutines.
	// Zero or one runs sequentially. Results do not depend on it.
	Workers int
}

// DefaultOptions returns sequential analysis with DefaultProperties.
func DefaultOptions() Options {
	return Options{Properties: DefaultProperties()}
}
