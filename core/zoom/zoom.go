package zoom

import (
	"time"

	"github.com/ingyamilmolinar/trimline/core/feedback"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

const (
	// DefaultDwell is how long a drag must pause before zoom engages.
	DefaultDwell = 500 * time.Millisecond
	// maxWindowSeconds caps the zoomed window span.
	maxWindowSeconds = 2.0
)

// Engine decides when the timeline zooms into a narrow window around the
// edge being dragged, and computes that window. The dwell timer is a plain
// deadline checked from the host's tick, not a wall-clock timer object, so
// tests drive it with a fake clock.
type Engine struct {
	dwell    time.Duration
	deadline time.Time // zero when disarmed
	active   bool
	zoomed   mediatime.TimeRange

	now    func() time.Time
	sink   feedback.Sink
	logger *game_log.Logger

	// OnZoomChanged fires on every entry and exit.
	OnZoomChanged func(active bool)
}

func NewEngine(sink feedback.Sink, logger *game_log.Logger) *Engine {
	if sink == nil {
		sink = feedback.Nop
	}
	return &Engine{
		dwell:  DefaultDwell,
		now:    time.Now,
		sink:   sink,
		logger: logger,
	}
}

// SetDwell overrides the dwell delay. Non-positive values keep the default.
func (e *Engine) SetDwell(d time.Duration) {
	if d > 0 {
		e.dwell = d
	}
}

// SetNow injects a clock. Tests drive the dwell deadline with it.
func (e *Engine) SetNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

func (e *Engine) Active() bool { return e.active }

func (e *Engine) ZoomedRange() mediatime.TimeRange { return e.zoomed }

// Visible returns the range the viewport currently maps: the zoomed window
// while active, the full asset otherwise.
func (e *Engine) Visible(asset mediatime.TimeRange) mediatime.TimeRange {
	if e.active {
		return e.zoomed
	}
	return asset
}

// Arm (re)starts the dwell countdown. Called on every move event while an
// edge is being dragged; a move both cancels the previous countdown and
// starts the next one. No-op once zoom is active.
func (e *Engine) Arm() {
	if e.active {
		return
	}
	e.deadline = e.now().Add(e.dwell)
}

// Disarm cancels a pending countdown without touching zoom state.
func (e *Engine) Disarm() {
	e.deadline = time.Time{}
}

// Exit leaves zoom and cancels any pending countdown. Called on drag
// end/cancel and on asset re-attachment.
func (e *Engine) Exit() {
	e.Disarm()
	if !e.active {
		return
	}
	e.active = false
	e.zoomed = mediatime.TimeRange{}
	e.logger.Debugf("[ZOOM] exited")
	if e.OnZoomChanged != nil {
		e.OnZoomChanged(false)
	}
}

// FireContext is the drag state the engine samples when the dwell elapses.
type FireContext struct {
	Asset mediatime.TimeRange
	// Edge is the time of the edge under drag.
	Edge mediatime.Time
	// EdgeFraction is the edge's current fractional position along the
	// usable track, 0 at the left inset and 1 at the right.
	EdgeFraction float64
	// Trimming guards against a countdown that outlived its drag: a dwell
	// fire queued behind a drag-end must not enter zoom.
	Trimming bool
}

// Tick checks the dwell deadline and enters zoom when it has elapsed.
// Returns true on the tick that entered zoom.
func (e *Engine) Tick(fc FireContext) bool {
	if e.deadline.IsZero() || e.active {
		return false
	}
	if e.now().Before(e.deadline) {
		return false
	}
	e.deadline = time.Time{}
	if !fc.Trimming {
		return false
	}
	e.zoomed = window(fc)
	e.active = true
	e.logger.Debugf("[ZOOM] entered, window=%s", e.zoomed)
	e.sink.Pulse(feedback.Impact)
	if e.OnZoomChanged != nil {
		e.OnZoomChanged(true)
	}
	return true
}

// window computes the zoomed range: a span of min(2s, asset/2) anchored so
// the dragged edge keeps its on-screen position. The window may overhang
// the asset bounds; the thumbnail scheduler discards negative sample times
// and the mapper is indifferent.
func window(fc FireContext) mediatime.TimeRange {
	dur := mediatime.Min(
		mediatime.FromSeconds(maxWindowSeconds),
		fc.Asset.Duration.MulFloat(0.5),
	)
	frac := fc.EdgeFraction
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	start := fc.Edge.Sub(dur.MulFloat(frac))
	return mediatime.NewRange(start, dur)
}
