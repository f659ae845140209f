package mapper

import (
	"math"

	"github.com/ingyamilmolinar/trimline/core/mediatime"
)

// Mapper converts between media time and a horizontal pixel offset inside
// the viewport. It is a pure value: build one per layout pass from the
// current visible range and viewport geometry.
//
// The usable track spans [Inset, ViewportW-Inset]; Visible.Start maps to
// Inset and Visible.End maps to ViewportW-Inset.
type Mapper struct {
	Visible   mediatime.TimeRange
	ViewportW float64
	Inset     float64
	// PixelScale is the device pixel ratio used for snapping. Zero means 1
	// (snap to whole logical pixels).
	PixelScale float64
}

// ratio is pixels per second, 0 for a degenerate visible range or a track
// with no usable width.
func (m Mapper) ratio() float64 {
	secs := m.Visible.Duration.Seconds()
	track := m.ViewportW - 2*m.Inset
	if secs <= 0 || track <= 0 {
		return 0
	}
	return track / secs
}

// TimeForLocation maps a viewport x offset to a media time. Undefined when
// the visible range has zero duration; callers must guard (ratio 0 would
// divide by zero, so the visible start is returned).
func (m Mapper) TimeForLocation(x float64) mediatime.Time {
	r := m.ratio()
	if r == 0 {
		return m.Visible.Start
	}
	return m.Visible.Start.Add(mediatime.FromSeconds((x - m.Inset) / r))
}

// LocationForTime maps a media time to a viewport x offset, snapped to the
// nearest device-pixel boundary so handles don't jitter between frames.
// Degenerates to Inset for every input when the visible range is empty.
func (m Mapper) LocationForTime(t mediatime.Time) float64 {
	r := m.ratio()
	if r == 0 {
		return m.Inset
	}
	x := m.Inset + t.Sub(m.Visible.Start).Seconds()*r
	return m.snap(x)
}

func (m Mapper) snap(x float64) float64 {
	scale := m.PixelScale
	if scale <= 0 {
		scale = 1
	}
	return math.Round(x*scale) / scale
}
