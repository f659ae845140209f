package mediatime

import "fmt"

// TimeRange is a half-open span [Start, Start+Duration). A negative duration
// is normalized to zero by the constructors; code that builds ranges by hand
// must keep Duration non-negative.
type TimeRange struct {
	Start    Time
	Duration Time
}

// NewRange builds a range from start and duration, flooring a negative
// duration at zero.
func NewRange(start, duration Time) TimeRange {
	if duration.Cmp(Zero) < 0 {
		duration = Time{Value: 0, Scale: duration.Scale}
	}
	return TimeRange{Start: start, Duration: duration}
}

// RangeFromTimes builds the range spanning a..b regardless of order.
func RangeFromTimes(a, b Time) TimeRange {
	if b.Cmp(a) < 0 {
		a, b = b, a
	}
	return TimeRange{Start: a, Duration: b.Sub(a)}
}

func (r TimeRange) End() Time { return r.Start.Add(r.Duration) }

func (r TimeRange) IsEmpty() bool { return r.Duration.Cmp(Zero) <= 0 }

func (r TimeRange) Equal(o TimeRange) bool {
	return r.Start.Equal(o.Start) && r.Duration.Equal(o.Duration)
}

// ContainsTime reports whether t lies in [Start, End]. The end is inclusive
// because a progress marker parked at the very end of the selection is still
// inside it.
func (r TimeRange) ContainsTime(t Time) bool {
	return t.Cmp(r.Start) >= 0 && t.Cmp(r.End()) <= 0
}

// ContainsRange reports whether o lies entirely within r.
func (r TimeRange) ContainsRange(o TimeRange) bool {
	return o.Start.Cmp(r.Start) >= 0 && o.End().Cmp(r.End()) <= 0
}

// Clamped returns r constrained to lie inside outer, shrinking it when it
// overhangs either edge.
func (r TimeRange) Clamped(outer TimeRange) TimeRange {
	start := r.Start.Clamp(outer.Start, outer.End())
	end := r.End().Clamp(outer.Start, outer.End())
	return RangeFromTimes(start, end)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s..%s]", r.Start, r.End())
}
