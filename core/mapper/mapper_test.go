package mapper

import (
	"math"
	"testing"

	"github.com/ingyamilmolinar/trimline/core/mediatime"
)

func TestRoundTripWithinOnePixel(t *testing.T) {
	m := Mapper{
		Visible:   mediatime.NewRange(mediatime.Zero, mediatime.FromSeconds(10)),
		ViewportW: 300,
		Inset:     16,
	}
	for x := 16.0; x <= 284; x += 7 {
		got := m.LocationForTime(m.TimeForLocation(x))
		if math.Abs(got-x) > 1 {
			t.Fatalf("round trip x=%f got %f", x, got)
		}
	}
}

func TestEndpointsMapToTrackEdges(t *testing.T) {
	m := Mapper{
		Visible:   mediatime.NewRange(mediatime.FromSeconds(2), mediatime.FromSeconds(6)),
		ViewportW: 300,
		Inset:     16,
	}
	if got := m.LocationForTime(mediatime.FromSeconds(2)); got != 16 {
		t.Fatalf("start maps to %f want 16", got)
	}
	if got := m.LocationForTime(mediatime.FromSeconds(8)); got != 284 {
		t.Fatalf("end maps to %f want 284", got)
	}
	mid := m.TimeForLocation(150)
	if math.Abs(mid.Seconds()-5) > 0.05 {
		t.Fatalf("center time=%s want ~5s", mid)
	}
}

func TestZeroDurationDegeneratesToInset(t *testing.T) {
	m := Mapper{
		Visible:   mediatime.NewRange(mediatime.Zero, mediatime.Zero),
		ViewportW: 300,
		Inset:     16,
	}
	for _, s := range []float64{-5, 0, 3, 1000} {
		if got := m.LocationForTime(mediatime.FromSeconds(s)); got != 16 {
			t.Fatalf("t=%fs maps to %f want inset", s, got)
		}
	}
}

func TestZeroWidthViewportDegeneratesToInset(t *testing.T) {
	m := Mapper{
		Visible:   mediatime.NewRange(mediatime.Zero, mediatime.FromSeconds(10)),
		ViewportW: 0,
		Inset:     16,
	}
	// A viewport narrower than its insets has no usable track; the mapping
	// must collapse to the inset, never invert.
	if got := m.LocationForTime(mediatime.FromSeconds(5)); got != 16 {
		t.Fatalf("t=5s maps to %f want inset", got)
	}
	if got := m.TimeForLocation(100); !got.Equal(m.Visible.Start) {
		t.Fatalf("x=100 maps to %s want visible start", got)
	}
	m.ViewportW = 32
	if got := m.LocationForTime(mediatime.FromSeconds(5)); got != 16 {
		t.Fatalf("t=5s maps to %f want inset at zero-width track", got)
	}
}

func TestPixelSnapHonorsScale(t *testing.T) {
	m := Mapper{
		Visible:    mediatime.NewRange(mediatime.Zero, mediatime.FromSeconds(3)),
		ViewportW:  100,
		Inset:      0,
		PixelScale: 2,
	}
	// 1s over a 3s/100px track is 33.33px, which snaps to 33.5 at 2x.
	got := m.LocationForTime(mediatime.FromSeconds(1))
	if got != 33.5 {
		t.Fatalf("snapped=%f want 33.5", got)
	}
	m.PixelScale = 1
	if got := m.LocationForTime(mediatime.FromSeconds(1)); got != 33 {
		t.Fatalf("snapped=%f want 33", got)
	}
}
