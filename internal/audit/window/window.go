// Package window splits a recording into fixed-size analysis windows anchored at sample 0.
package window

import "iter"

// Window is the half-open sample range [Start, End) of window Index.
type Window struct {
	Index int
	Start int
	End   int
}

// Len is the number of samples covered by the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Center is the nominal center of the window, in samples. For a truncated last window
// it is still derived from the nominal size.
func (w Window) Center(size int) int {
	return w.Start + size/2
}

// Segmenter describes the windows covering a recording of a given length.
type Segmenter struct {
	length int
	size   int
}

// New returns a Segmenter over length samples with windows of size samples.
// A non-positive size yields no windows.
func New(length, size int) Segmenter {
	return Segmenter{length: max(length, 0), size: size}
}

// Size is the nominal window size in samples.
func (s Segmenter) Size() int {
	return s.size
}

// Count is the number of windows, including a trailing partial one.
func (s Segmenter) Count() int {
	if s.size <= 0 || s.length == 0 {
		return 0
	}

	return (s.length + s.size - 1) / s.size
}

// At returns window n. The caller guarantees 0 <= n < Count().
func (s Segmenter) At(n int) Window {
	start := n * s.size

	return Window{
		Index: n,
		Start: start,
		End:   min(start+s.size, s.length),
	}
}

// All yields every window in order. The sequence can be ranged over any number of times.
func (s Segmenter) All() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		for n := range s.Count() {
			if !yield(s.At(n)) {
				return
			}
		}
	}
}
