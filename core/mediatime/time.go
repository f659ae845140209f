package mediatime

import (
	"fmt"
	"math"
)

// DefaultScale is the timescale used when converting from seconds. 600 is
// divisible by the common frame rates (24, 25, 30, 60) so frame boundaries
// land on exact values.
const DefaultScale = 600

// Time is a rational media time: Value/Scale seconds. Comparisons
// cross-multiply instead of converting to float, so repeated arithmetic
// never accumulates rounding error.
type Time struct {
	Value int64
	Scale int32
}

// Zero is the zero time at the default scale.
var Zero = Time{Value: 0, Scale: DefaultScale}

// FromSeconds converts a float second count to a Time at DefaultScale.
func FromSeconds(s float64) Time {
	return Time{Value: int64(math.Round(s * DefaultScale)), Scale: DefaultScale}
}

// Seconds returns the time as float seconds. Only for display and window
// math; ordering decisions must go through Cmp.
func (t Time) Seconds() float64 {
	if t.Scale == 0 {
		return 0
	}
	return float64(t.Value) / float64(t.Scale)
}

func (t Time) IsZero() bool { return t.Value == 0 }

// Cmp returns -1, 0 or +1 comparing t against u exactly.
func (t Time) Cmp(u Time) int {
	ts, us := t.Scale, u.Scale
	if ts == 0 {
		ts = DefaultScale
	}
	if us == 0 {
		us = DefaultScale
	}
	a := t.Value * int64(us)
	b := u.Value * int64(ts)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t Time) Equal(u Time) bool { return t.Cmp(u) == 0 }
func (t Time) Less(u Time) bool  { return t.Cmp(u) < 0 }

// rescaled returns t converted to the given scale, rounding to nearest.
func (t Time) rescaled(scale int32) Time {
	if t.Scale == scale {
		return t
	}
	if t.Scale == 0 {
		return Time{Value: 0, Scale: scale}
	}
	num := t.Value * int64(scale)
	den := int64(t.Scale)
	half := den / 2
	if num >= 0 {
		num += half
	} else {
		num -= half
	}
	return Time{Value: num / den, Scale: scale}
}

// commonScale picks the larger of the two scales so precision is kept.
func commonScale(t, u Time) int32 {
	ts, us := t.Scale, u.Scale
	if ts == 0 {
		ts = DefaultScale
	}
	if us == 0 {
		us = DefaultScale
	}
	if ts >= us {
		return ts
	}
	return us
}

func (t Time) Add(u Time) Time {
	s := commonScale(t, u)
	return Time{Value: t.rescaled(s).Value + u.rescaled(s).Value, Scale: s}
}

func (t Time) Sub(u Time) Time {
	s := commonScale(t, u)
	return Time{Value: t.rescaled(s).Value - u.rescaled(s).Value, Scale: s}
}

// MulFloat scales the time by a float factor. Used for zoom-window math
// where exactness is not required.
func (t Time) MulFloat(f float64) Time {
	return Time{Value: int64(math.Round(float64(t.Value) * f)), Scale: t.Scale}
}

func Min(t, u Time) Time {
	if t.Cmp(u) <= 0 {
		return t
	}
	return u
}

func Max(t, u Time) Time {
	if t.Cmp(u) >= 0 {
		return t
	}
	return u
}

// Clamp bounds t into [lo, hi]. lo must not exceed hi.
func (t Time) Clamp(lo, hi Time) Time {
	if t.Cmp(lo) < 0 {
		return lo
	}
	if t.Cmp(hi) > 0 {
		return hi
	}
	return t
}

// String formats the time as a mm:ss.mmm timecode. Negative times keep the
// sign in front.
func (t Time) String() string {
	s := t.Seconds()
	sign := ""
	if s < 0 {
		sign = "-"
		s = -s
	}
	mins := int(s) / 60
	secs := s - float64(mins*60)
	return fmt.Sprintf("%s%02d:%06.3f", sign, mins, secs)
}
