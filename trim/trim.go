package trim

import "fmt"

// Range is a [start, end] trim interval in milliseconds over a recording of
// known length. Both endpoints stay inside [0, max] and start never exceeds
// end: a write that would cross the other endpoint drags it along.
type Range struct {
	start int64
	end   int64
	max   int64
}

// New returns a range spanning the whole recording, [0, maxMillis].
func New(maxMillis int64) *Range {
	if maxMillis < 0 {
		maxMillis = 0
	}
	return &Range{start: 0, end: maxMillis, max: maxMillis}
}

func (r *Range) clamp(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	if ms > r.max {
		return r.max
	}
	return ms
}

// SetStart moves the start endpoint. It reports whether the end endpoint had
// to follow; the configurator uses that to update the other slider with
// change notifications suppressed.
func (r *Range) SetStart(ms int64) bool {
	r.start = r.clamp(ms)
	if r.start > r.end {
		r.end = r.start
		return true
	}
	return false
}

// SetEnd moves the end endpoint. It reports whether the start endpoint had
// to follow.
func (r *Range) SetEnd(ms int64) bool {
	r.end = r.clamp(ms)
	if r.end < r.start {
		r.start = r.end
		return true
	}
	return false
}

func (r *Range) Start() int64 {
	return r.start
}

func (r *Range) End() int64 {
	return r.end
}

func (r *Range) Max() int64 {
	return r.max
}

// StartSeconds returns the start endpoint in seconds.
func (r *Range) StartSeconds() float64 {
	return float64(r.start) / 1000
}

// EndSeconds returns the end endpoint in seconds.
func (r *Range) EndSeconds() float64 {
	return float64(r.end) / 1000
}

// Seconds returns the interval length in seconds.
func (r *Range) Seconds() float64 {
	return float64(r.end-r.start) / 1000
}

// Label renders the interval the way the configurator displays it.
func (r *Range) Label() string {
	return fmt.Sprintf("[%.3f, %.3f] s", r.StartSeconds(), r.EndSeconds())
}
