package zoom

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/ingyamilmolinar/trimline/core/feedback"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

func newTestEngine(pulses *[]feedback.Kind) (*Engine, *time.Time) {
	now := time.Unix(0, 0)
	sink := feedback.Func(func(k feedback.Kind) {
		if pulses != nil {
			*pulses = append(*pulses, k)
		}
	})
	e := NewEngine(sink, game_log.New(os.Stderr, game_log.LevelNone))
	e.now = func() time.Time { return now }
	return e, &now
}

func tenSecondAsset() mediatime.TimeRange {
	return mediatime.NewRange(mediatime.Zero, mediatime.FromSeconds(10))
}

func TestDwellEntersZoomAfterDelay(t *testing.T) {
	var pulses []feedback.Kind
	e, now := newTestEngine(&pulses)

	fc := FireContext{Asset: tenSecondAsset(), Edge: mediatime.FromSeconds(3), EdgeFraction: 0.3, Trimming: true}
	e.Arm()
	*now = now.Add(499 * time.Millisecond)
	if e.Tick(fc) {
		t.Fatalf("zoom entered before dwell elapsed")
	}
	*now = now.Add(2 * time.Millisecond)
	if !e.Tick(fc) {
		t.Fatalf("zoom did not enter after dwell elapsed")
	}
	if !e.Active() {
		t.Fatalf("expected active zoom")
	}
	if got := e.ZoomedRange().Duration; !got.Equal(mediatime.FromSeconds(2)) {
		t.Fatalf("zoom duration=%s want 2s", got)
	}
	if len(pulses) != 1 || pulses[0] != feedback.Impact {
		t.Fatalf("pulses=%v want one impact", pulses)
	}
}

func TestShortAssetHalvesWindow(t *testing.T) {
	e, now := newTestEngine(nil)
	asset := mediatime.NewRange(mediatime.Zero, mediatime.FromSeconds(3))
	e.Arm()
	*now = now.Add(time.Second)
	e.Tick(FireContext{Asset: asset, Edge: mediatime.FromSeconds(1), EdgeFraction: 0.5, Trimming: true})
	if got := e.ZoomedRange().Duration; !got.Equal(mediatime.FromSeconds(1.5)) {
		t.Fatalf("zoom duration=%s want 1.5s", got)
	}
}

func TestWindowKeepsEdgeFraction(t *testing.T) {
	e, now := newTestEngine(nil)
	edge := mediatime.FromSeconds(4)
	e.Arm()
	*now = now.Add(time.Second)
	e.Tick(FireContext{Asset: tenSecondAsset(), Edge: edge, EdgeFraction: 0.25, Trimming: true})
	z := e.ZoomedRange()
	frac := edge.Sub(z.Start).Seconds() / z.Duration.Seconds()
	if math.Abs(frac-0.25) > 1e-6 {
		t.Fatalf("edge fraction in window=%f want 0.25", frac)
	}
}

func TestRearmPushesDeadline(t *testing.T) {
	e, now := newTestEngine(nil)
	fc := FireContext{Asset: tenSecondAsset(), Edge: mediatime.FromSeconds(1), EdgeFraction: 0.1, Trimming: true}
	e.Arm()
	*now = now.Add(400 * time.Millisecond)
	e.Arm() // a move re-arms
	*now = now.Add(400 * time.Millisecond)
	if e.Tick(fc) {
		t.Fatalf("zoom entered despite re-arm")
	}
	*now = now.Add(101 * time.Millisecond)
	if !e.Tick(fc) {
		t.Fatalf("zoom did not enter after full dwell from re-arm")
	}
}

func TestStaleFireAfterDragEndIgnored(t *testing.T) {
	e, now := newTestEngine(nil)
	e.Arm()
	*now = now.Add(time.Second)
	// Drag ended before the tick was processed; Trimming is already false.
	if e.Tick(FireContext{Asset: tenSecondAsset(), Trimming: false}) {
		t.Fatalf("zoom entered after drag ended")
	}
	if e.Active() {
		t.Fatalf("expected inactive zoom")
	}
	if !e.deadline.IsZero() {
		t.Fatalf("deadline not consumed by stale fire")
	}
}

func TestExitClearsStateAndNotifies(t *testing.T) {
	e, now := newTestEngine(nil)
	var changes []bool
	e.OnZoomChanged = func(a bool) { changes = append(changes, a) }
	e.Arm()
	*now = now.Add(time.Second)
	e.Tick(FireContext{Asset: tenSecondAsset(), Edge: mediatime.FromSeconds(2), EdgeFraction: 0.2, Trimming: true})
	e.Exit()
	if e.Active() {
		t.Fatalf("still active after exit")
	}
	if e.Visible(tenSecondAsset()) != tenSecondAsset() {
		t.Fatalf("visible range not restored to asset")
	}
	if len(changes) != 2 || changes[0] != true || changes[1] != false {
		t.Fatalf("changes=%v want [true false]", changes)
	}
}

func TestArmIgnoredWhileZoomed(t *testing.T) {
	e, now := newTestEngine(nil)
	fc := FireContext{Asset: tenSecondAsset(), Edge: mediatime.FromSeconds(2), EdgeFraction: 0.2, Trimming: true}
	e.Arm()
	*now = now.Add(time.Second)
	e.Tick(fc)
	e.Arm()
	if !e.deadline.IsZero() {
		t.Fatalf("arm while zoomed set a deadline")
	}
}
