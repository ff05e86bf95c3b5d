package types

import (
	"encoding/json"
	"math"
)

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// PCMFormat describes a raw, interleaved, little-endian PCM stream.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// Signal is a decoded mono recording. Samples are normalized to [-1, 1].
type Signal struct {
	Samples    []float64
	SampleRate int
}

// IsEmpty reports whether the signal holds no samples.
func (s Signal) IsEmpty() bool {
	return len(s.Samples) == 0
}

// Time converts a sample index into seconds from the start of the recording.
func (s Signal) Time(index int) float64 {
	return float64(index) / float64(s.SampleRate)
}

// Duration is the length of the recording in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}

	return s.Time(len(s.Samples))
}

/*
Latency Interpretation

Time is the position of the reference pulse, in seconds from the start of the reference.
Delay is the position of the actual pulse minus the position of the reference pulse.

| Delay      | Meaning                                               |
|------------|-------------------------------------------------------|
| > 0        | Actual plays behind the reference                     |
| < 0        | Actual plays ahead of the reference                   |
| 0          | In sync (to the sample)                               |
| NaN        | Reference pulse present, actual pulse not resolvable  |

A NaN entry is not an error: it marks an isolated window where the actual pulse was
missing, or a search region holding two candidate pulses.
*/

// Latency is a single measurement, one per reference pulse.
type Latency struct {
	Time  float64
	Delay float64
}

// IsValid reports whether Delay holds a number.
func (l Latency) IsValid() bool {
	return !math.IsNaN(l.Delay)
}

// MarshalJSON renders the measurement as [time, delay], with null for a NaN delay.
func (l Latency) MarshalJSON() ([]byte, error) {
	if math.IsNaN(l.Delay) {
		return json.Marshal([]any{l.Time, nil})
	}

	return json.Marshal([]float64{l.Time, l.Delay})
}

// UnmarshalJSON accepts the [time, delay] form produced by MarshalJSON.
func (l *Latency) UnmarshalJSON(data []byte) error {
	var pair [2]*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}

	*l = Latency{Delay: math.NaN()}

	if pair[0] != nil {
		l.Time = *pair[0]
	}

	if pair[1] != nil {
		l.Delay = *pair[1]
	}

	return nil
}

// Dropout is a half-open interval, in seconds, where the actual signal lost the pulse
// while the reference kept it.
type Dropout struct {
	Start float64
	End   float64
}

// Duration of the dropout in seconds.
func (d Dropout) Duration() float64 {
	return d.End - d.Start
}

// Intersects reports whether the dropout overlaps the half-open range [start, end).
func (d Dropout) Intersects(start, end float64) bool {
	return !(d.End <= start || d.Start >= end)
}

// MarshalJSON renders the interval as [start, end].
func (d Dropout) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{d.Start, d.End})
}

// UnmarshalJSON accepts the [start, end] form produced by MarshalJSON.
func (d *Dropout) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}

	d.Start, d.End = pair[0], pair[1]

	return nil
}
