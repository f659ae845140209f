// Package engine ties the trim control's parts together behind one facade:
// the time-range model, the pointer state machine, the dwell-zoom engine and
// the thumbnail scheduler. Everything mutates on the single goroutine that
// calls HandlePointer and Tick (the host's update loop); the only concurrent
// producers are the thumbnail generator's worker goroutines, reconciled in
// Tick through the scheduler's generation check.
package engine

import (
	"time"

	"github.com/ingyamilmolinar/trimline/core/feedback"
	"github.com/ingyamilmolinar/trimline/core/interaction"
	"github.com/ingyamilmolinar/trimline/core/mapper"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	"github.com/ingyamilmolinar/trimline/core/model"
	"github.com/ingyamilmolinar/trimline/core/thumbs"
	"github.com/ingyamilmolinar/trimline/core/zoom"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// Snapshot is the engine state attached to every emitted event.
type Snapshot struct {
	TrimmingState interaction.TrimmingState
	IsScrubbing   bool
	IsZoomedIn    bool
	ZoomedRange   mediatime.TimeRange
	VisibleRange  mediatime.TimeRange
	AssetRange    mediatime.TimeRange
	SelectedRange mediatime.TimeRange
	Progress      mediatime.Time
}

// Config is the engine's geometry and behavior knobs.
type Config struct {
	// EdgeInset is the horizontal gap between the viewport edge and the
	// usable track, in logical pixels.
	EdgeInset float64
	// PixelScale is the device pixel ratio, for snapping and thumbnail
	// oversampling. Zero means 1.
	PixelScale float64
	// AspectRatio is the asset's display aspect (width/height) for
	// thumbnail tiles. Zero means square.
	AspectRatio float64
	// Dwell is how long a drag must pause before zoom engages. Zero keeps
	// the default.
	Dwell time.Duration
}

// Engine is the interaction and scheduling core of the trim control.
type Engine struct {
	cfg    Config
	model  *model.TrimModel
	mach   *interaction.Machine
	zoom   *zoom.Engine
	thumbs *thumbs.Scheduler
	logger *game_log.Logger

	viewportW float64
	viewportH float64

	// Emitted events, each carrying the state after the change.
	OnBeginTrim       func(Snapshot)
	OnRangeChanged    func(Snapshot)
	OnEndTrim         func(Snapshot)
	OnBeginScrub      func(Snapshot)
	OnProgressChanged func(Snapshot)
	OnEndScrub        func(Snapshot)
}

func New(cfg Config, gen thumbs.Generator, sink feedback.Sink, logger *game_log.Logger) *Engine {
	if sink == nil {
		sink = feedback.Nop
	}
	e := &Engine{cfg: cfg, logger: logger}
	e.model = model.NewTrimModel(logger)
	e.zoom = zoom.NewEngine(sink, logger)
	e.zoom.SetDwell(cfg.Dwell)
	e.mach = interaction.NewMachine(e.model, e.zoom, sink, logger)
	e.thumbs = thumbs.NewScheduler(gen, logger)

	e.model.OnRangeChanged = func(mediatime.TimeRange) { e.emit(&e.OnRangeChanged) }
	e.model.OnProgressChanged = func(mediatime.Time) { e.emit(&e.OnProgressChanged) }
	e.mach.OnBeginTrim = func() { e.emit(&e.OnBeginTrim) }
	e.mach.OnEndTrim = func() { e.emit(&e.OnEndTrim) }
	e.mach.OnBeginScrub = func() { e.emit(&e.OnBeginScrub) }
	e.mach.OnEndScrub = func() { e.emit(&e.OnEndScrub) }
	return e
}

func (e *Engine) emit(cb *func(Snapshot)) {
	if *cb != nil {
		(*cb)(e.State())
	}
}

/* ─── read-only state ─── */

func (e *Engine) State() Snapshot {
	return Snapshot{
		TrimmingState: e.mach.TrimmingState(),
		IsScrubbing:   e.mach.IsScrubbing(),
		IsZoomedIn:    e.zoom.Active(),
		ZoomedRange:   e.zoom.ZoomedRange(),
		VisibleRange:  e.VisibleRange(),
		AssetRange:    e.model.AssetRange(),
		SelectedRange: e.model.SelectedRange(),
		Progress:      e.model.Progress(),
	}
}

func (e *Engine) TrimmingState() interaction.TrimmingState { return e.mach.TrimmingState() }
func (e *Engine) IsScrubbing() bool                        { return e.mach.IsScrubbing() }
func (e *Engine) IsZoomedIn() bool                         { return e.zoom.Active() }
func (e *Engine) ZoomedRange() mediatime.TimeRange         { return e.zoom.ZoomedRange() }
func (e *Engine) AssetRange() mediatime.TimeRange          { return e.model.AssetRange() }
func (e *Engine) SelectedRange() mediatime.TimeRange       { return e.model.SelectedRange() }
func (e *Engine) Progress() mediatime.Time                 { return e.model.Progress() }

// VisibleRange is the window the viewport currently maps: the zoomed window
// while zoom is active, the full asset otherwise.
func (e *Engine) VisibleRange() mediatime.TimeRange {
	return e.zoom.Visible(e.model.AssetRange())
}

// SelectedTime is the time under the active gesture: the dragged edge while
// trimming, otherwise the progress marker.
func (e *Engine) SelectedTime() mediatime.Time {
	if e.mach.TrimmingState() != interaction.TrimNone {
		return e.mach.DraggedEdge()
	}
	return e.model.Progress()
}

/* ─── mutators ─── */

// AttachAsset resets the control for a new asset. An in-flight gesture is
// cancelled first, exactly as if the pointer had been cancelled, and zoom
// clears before the model resets.
func (e *Engine) AttachAsset(duration mediatime.Time) {
	e.mach.CancelActive()
	e.zoom.Exit()
	e.model.AttachAsset(duration)
}

func (e *Engine) SetMinimumDuration(d mediatime.Time) { e.model.SetMinimumDuration(d) }

// SetSelectedRange is the programmatic mutator; the range is normalized
// against the asset bounds and minimum duration before it lands.
func (e *Engine) SetSelectedRange(r mediatime.TimeRange) { e.model.SetSelectedRange(r) }

// SetProgress is the playback-driven progress path. While the user is
// scrubbing, the scrub owns progress and playback updates are dropped; both
// paths run on the same goroutine, so this rule is the whole arbitration.
// The animated flag is for the renderer and passes through untouched.
func (e *Engine) SetProgress(t mediatime.Time, animated bool) {
	_ = animated
	if e.mach.IsScrubbing() {
		return
	}
	e.model.SetProgress(t)
}

/* ─── event pump ─── */

// HandlePointer feeds one normalized pointer event through the state
// machine, mapped against the current visible window and viewport.
func (e *Engine) HandlePointer(ev interaction.Event) {
	e.mach.Handle(ev, e.Mapper())
}

// Mapper returns the time↔pixel mapper for the current layout pass.
func (e *Engine) Mapper() mapper.Mapper {
	return mapper.Mapper{
		Visible:    e.VisibleRange(),
		ViewportW:  e.viewportW,
		Inset:      e.cfg.EdgeInset,
		PixelScale: e.cfg.PixelScale,
	}
}

// Tick runs one pass of the serialized event context: the zoom dwell check,
// the thumbnail refresh for the current visible window, and collection of
// completed thumbnails. Call once per host update with the viewport size in
// logical pixels.
func (e *Engine) Tick(viewportW, viewportH float64) {
	e.viewportW = viewportW
	e.viewportH = viewportH

	e.zoom.Tick(e.fireContext())

	e.thumbs.Refresh(thumbs.Layout{
		Visible:    e.VisibleRange(),
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		Aspect:     e.cfg.AspectRatio,
		PixelScale: e.cfg.PixelScale,
	})
	e.thumbs.Collect()
}

// fireContext samples the drag state the zoom engine needs if the dwell
// elapses this tick.
func (e *Engine) fireContext() zoom.FireContext {
	fc := zoom.FireContext{
		Asset:    e.model.AssetRange(),
		Trimming: e.mach.TrimmingState() != interaction.TrimNone,
	}
	if !fc.Trimming {
		return fc
	}
	fc.Edge = e.mach.DraggedEdge()
	track := e.viewportW - 2*e.cfg.EdgeInset
	if track > 0 {
		fc.EdgeFraction = (e.Mapper().LocationForTime(fc.Edge) - e.cfg.EdgeInset) / track
	}
	return fc
}

// Placements is the tile draw list for the external renderer.
func (e *Engine) Placements() []thumbs.Placement {
	return e.thumbs.Placements()
}

// SetClock injects one clock into every time-driven part. Tests use it to
// step the dwell timer and the thumbnail fades without real waiting.
func (e *Engine) SetClock(now func() time.Time) {
	e.zoom.SetNow(now)
	e.thumbs.SetNow(now)
}
