package engine

import (
	"image"
	"math"
	"os"
	"testing"
	"time"

	"github.com/ingyamilmolinar/trimline/core/feedback"
	"github.com/ingyamilmolinar/trimline/core/interaction"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	"github.com/ingyamilmolinar/trimline/core/thumbs"
	"github.com/ingyamilmolinar/trimline/internal/haptics"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

type countingGenerator struct {
	batches int
}

func (g *countingGenerator) Generate(times []mediatime.Time, size image.Point) <-chan thumbs.Result {
	g.batches++
	ch := make(chan thumbs.Result, len(times))
	for i := range times {
		ch <- thumbs.Result{Index: i, Image: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	}
	close(ch)
	return ch
}

type harness struct {
	engine *Engine
	gen    *countingGenerator
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{gen: &countingGenerator{}, now: time.Unix(0, 0)}
	h.engine = New(Config{EdgeInset: 16, AspectRatio: 1.5}, h.gen, nil,
		game_log.New(os.Stderr, game_log.LevelNone))
	h.engine.SetClock(func() time.Time { return h.now })
	h.engine.AttachAsset(mediatime.FromSeconds(10))
	h.engine.SetMinimumDuration(mediatime.FromSeconds(1))
	h.engine.Tick(300, 48)
	return h
}

func (h *harness) pointer(el interaction.Element, k interaction.Kind, secs float64) {
	x := h.engine.Mapper().LocationForTime(mediatime.FromSeconds(secs))
	h.engine.HandlePointer(interaction.Event{Element: el, Kind: k, X: x})
}

func TestDwellZoomEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.pointer(interaction.ElementLeading, interaction.Begin, 0)
	h.pointer(interaction.ElementLeading, interaction.Move, 3)

	h.now = h.now.Add(499 * time.Millisecond)
	h.engine.Tick(300, 48)
	if h.engine.IsZoomedIn() {
		t.Fatalf("zoomed before dwell elapsed")
	}

	h.now = h.now.Add(2 * time.Millisecond)
	h.engine.Tick(300, 48)
	if !h.engine.IsZoomedIn() {
		t.Fatalf("no zoom after dwell pause")
	}
	if got := h.engine.ZoomedRange().Duration; !got.Equal(mediatime.FromSeconds(2)) {
		t.Fatalf("zoom window=%s want 2s", got)
	}
	if !h.engine.VisibleRange().Equal(h.engine.ZoomedRange()) {
		t.Fatalf("visible range did not follow zoom")
	}

	// Drag end exits zoom within the same event-processing step.
	h.pointer(interaction.ElementLeading, interaction.End, 3)
	if h.engine.IsZoomedIn() {
		t.Fatalf("still zoomed after drag end")
	}
	if !h.engine.VisibleRange().Equal(h.engine.AssetRange()) {
		t.Fatalf("visible range not restored to asset")
	}
}

func TestZoomedWindowKeepsDraggedEdgeOnScreen(t *testing.T) {
	h := newHarness(t)
	h.pointer(interaction.ElementLeading, interaction.Begin, 0)
	h.pointer(interaction.ElementLeading, interaction.Move, 4)
	edgeX := h.engine.Mapper().LocationForTime(h.engine.SelectedRange().Start)

	h.now = h.now.Add(time.Second)
	h.engine.Tick(300, 48)
	if !h.engine.IsZoomedIn() {
		t.Fatalf("no zoom")
	}
	zoomedX := h.engine.Mapper().LocationForTime(h.engine.SelectedRange().Start)
	if math.Abs(zoomedX-edgeX) > 1.5 {
		t.Fatalf("edge moved on zoom entry: %f -> %f", edgeX, zoomedX)
	}
}

func TestZoomEntryRegeneratesThumbnails(t *testing.T) {
	h := newHarness(t)
	if h.gen.batches != 1 {
		t.Fatalf("batches=%d want 1 after initial tick", h.gen.batches)
	}
	h.engine.Tick(300, 48)
	if h.gen.batches != 1 {
		t.Fatalf("batches=%d, stable layout must not regenerate", h.gen.batches)
	}
	h.pointer(interaction.ElementLeading, interaction.Begin, 0)
	h.pointer(interaction.ElementLeading, interaction.Move, 3)
	h.now = h.now.Add(time.Second)
	h.engine.Tick(300, 48)
	if h.gen.batches != 2 {
		t.Fatalf("batches=%d want 2 after zoom changed the window", h.gen.batches)
	}
	if len(h.engine.Placements()) == 0 {
		t.Fatalf("no placements after refresh")
	}
}

func TestPlaybackProgressDroppedWhileScrubbing(t *testing.T) {
	h := newHarness(t)
	h.engine.SetProgress(mediatime.FromSeconds(1), false)
	h.pointer(interaction.ElementProgress, interaction.Begin, 1)
	h.pointer(interaction.ElementProgress, interaction.Move, 4)
	h.engine.SetProgress(mediatime.FromSeconds(8), false)
	if math.Abs(h.engine.Progress().Seconds()-4) > 0.05 {
		t.Fatalf("progress=%s, playback overrode active scrub", h.engine.Progress())
	}
	h.pointer(interaction.ElementProgress, interaction.End, 4)
	h.engine.SetProgress(mediatime.FromSeconds(8), false)
	if !h.engine.Progress().Equal(mediatime.FromSeconds(8)) {
		t.Fatalf("progress=%s want playback value after scrub ends", h.engine.Progress())
	}
}

func TestAttachAssetCancelsActiveDrag(t *testing.T) {
	h := newHarness(t)
	var ends []Snapshot
	h.engine.OnEndTrim = func(s Snapshot) { ends = append(ends, s) }
	h.pointer(interaction.ElementLeading, interaction.Begin, 0)
	h.pointer(interaction.ElementLeading, interaction.Move, 3)
	h.now = h.now.Add(time.Second)
	h.engine.Tick(300, 48)

	h.engine.AttachAsset(mediatime.FromSeconds(6))
	if h.engine.TrimmingState() != interaction.TrimNone {
		t.Fatalf("trimming survived re-attachment")
	}
	if h.engine.IsZoomedIn() {
		t.Fatalf("zoom survived re-attachment")
	}
	if len(ends) != 1 {
		t.Fatalf("EndTrim fired %d times, want 1", len(ends))
	}
	want := mediatime.NewRange(mediatime.Zero, mediatime.FromSeconds(6))
	if !h.engine.SelectedRange().Equal(want) {
		t.Fatalf("selected=%s want %s", h.engine.SelectedRange(), want)
	}
}

func TestEventsCarrySnapshots(t *testing.T) {
	h := newHarness(t)
	var got []Snapshot
	h.engine.OnRangeChanged = func(s Snapshot) { got = append(got, s) }
	h.engine.SetSelectedRange(mediatime.NewRange(mediatime.FromSeconds(2), mediatime.FromSeconds(5)))
	if len(got) != 1 {
		t.Fatalf("RangeChanged fired %d times, want 1", len(got))
	}
	want := mediatime.NewRange(mediatime.FromSeconds(2), mediatime.FromSeconds(5))
	if !got[0].SelectedRange.Equal(want) {
		t.Fatalf("snapshot range=%s want %s", got[0].SelectedRange, want)
	}
	if !got[0].AssetRange.Equal(h.engine.AssetRange()) {
		t.Fatalf("snapshot asset range mismatch")
	}
}

func TestGesturePulsesReachTheSink(t *testing.T) {
	sink := haptics.NewCountingSink()
	e := New(Config{EdgeInset: 16, AspectRatio: 1.5}, &countingGenerator{}, sink,
		game_log.New(os.Stderr, game_log.LevelNone))
	now := time.Unix(0, 0)
	e.SetClock(func() time.Time { return now })
	e.AttachAsset(mediatime.FromSeconds(10))
	e.SetMinimumDuration(mediatime.FromSeconds(1))
	e.Tick(300, 48)

	x := func(secs float64) float64 {
		return e.Mapper().LocationForTime(mediatime.FromSeconds(secs))
	}
	e.HandlePointer(interaction.Event{Element: interaction.ElementLeading, Kind: interaction.Begin, X: x(0)})
	e.HandlePointer(interaction.Event{Element: interaction.ElementLeading, Kind: interaction.Move, X: x(3)})
	if got := sink.Counts[feedback.Selection]; got != 1 {
		t.Fatalf("selection pulses=%d want 1 for an in-bounds move", got)
	}
	if got := sink.Counts[feedback.Impact]; got != 0 {
		t.Fatalf("impact pulses=%d want 0 before any clamp or zoom", got)
	}

	now = now.Add(time.Second)
	e.Tick(300, 48)
	if !e.IsZoomedIn() {
		t.Fatalf("no zoom after dwell")
	}
	if got := sink.Counts[feedback.Impact]; got != 1 {
		t.Fatalf("impact pulses=%d want 1 for zoom entry", got)
	}
}

func TestSelectedTimeFollowsGesture(t *testing.T) {
	h := newHarness(t)
	h.engine.SetProgress(mediatime.FromSeconds(5), false)
	if !h.engine.SelectedTime().Equal(mediatime.FromSeconds(5)) {
		t.Fatalf("selected time=%s want progress", h.engine.SelectedTime())
	}
	h.pointer(interaction.ElementTrailing, interaction.Begin, 10)
	h.pointer(interaction.ElementTrailing, interaction.Move, 7)
	if math.Abs(h.engine.SelectedTime().Seconds()-7) > 0.05 {
		t.Fatalf("selected time=%s want dragged edge ~7s", h.engine.SelectedTime())
	}
}
