package thumbs

import (
	"image"
	"math"
	"time"

	"github.com/ingyamilmolinar/trimline/core/mediatime"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

const (
	// edgeMargin is the vertical margin above and below the tile strip.
	edgeMargin = 4.0
	// padBefore / padAfter extend the tile strip past the visible edges so
	// horizontal motion during zoom doesn't expose bare track.
	padBefore = 3
	padAfter  = 6
	// fadeDuration is the cross-fade length for arriving images and for
	// retiring tiles.
	fadeDuration = 200 * time.Millisecond
	// retireDelay keeps the previous generation rendered after a refresh,
	// hiding pop-in while the new batch loads.
	retireDelay = 250 * time.Millisecond
)

// Result is one completed thumbnail from a batch. Index refers to the
// request's times slice. A failed generation carries a nil Image; the tile
// stays an empty placeholder, no retry is attempted.
type Result struct {
	Index int
	Image image.Image
	Err   error
}

// Generator produces thumbnails asynchronously. The returned channel yields
// exactly one Result per requested time, in any order, then closes. It must
// tolerate a new call before earlier batches complete; superseded results
// are discarded by generation id, never cancelled.
type Generator interface {
	Generate(times []mediatime.Time, size image.Point) <-chan Result
}

// GeneratorFunc adapts a function to a Generator.
type GeneratorFunc func(times []mediatime.Time, size image.Point) <-chan Result

func (f GeneratorFunc) Generate(times []mediatime.Time, size image.Point) <-chan Result {
	return f(times, size)
}

// Tile is one thumbnail slot in the strip.
type Tile struct {
	ID         int64
	Time       mediatime.Time
	Generation uint64
	Image      image.Image // nil until a result arrives
	fadeStart  time.Time   // when the image began fading in
}

// Layout is the viewport state a tile set was generated for. A refresh is a
// no-op while the layout is unchanged.
type Layout struct {
	Visible    mediatime.TimeRange
	ViewportW  float64
	ViewportH  float64
	Aspect     float64
	PixelScale float64
}

// Placement is one tile's frame for the external renderer. Alpha covers
// both fade-in of fresh images and fade-out of retiring tiles.
type Placement struct {
	ID    int64
	Frame image.Rectangle
	Image image.Image // nil while pending
	Alpha float64
}

// batch pairs a result stream with the generation that requested it.
type batch struct {
	gen uint64
	ch  <-chan Result
}

// Scheduler owns the thumbnail tile bookkeeping: it derives the tile set
// from the visible window, issues batch requests, reconciles asynchronous
// completions by generation id, and cross-fades tile turnover. All methods
// run on the host's single event goroutine; the only data crossing from
// the generator's goroutines are the completed Results, whose image
// payloads are immutable once produced.
type Scheduler struct {
	generator Generator
	logger    *game_log.Logger
	now       func() time.Time
	pending   []batch

	gen      uint64
	layout   Layout
	hasSet   bool
	tiles    []*Tile
	retiring []*Tile
	retireAt time.Time
	tileW    float64
	tileH    float64
	// retireW/retireH are the retiring generation's tile geometry; a refresh
	// may change the tile size and must not resize old tiles mid-fade.
	retireW  float64
	retireH  float64
	nextID   int64
}

func NewScheduler(g Generator, logger *game_log.Logger) *Scheduler {
	return &Scheduler{
		generator: g,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Scheduler) Generation() uint64 { return s.gen }

// SetNow injects a clock; fades and retirement follow it in tests.
func (s *Scheduler) SetNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Tiles returns the current generation's tiles, oldest first.
func (s *Scheduler) Tiles() []*Tile { return s.tiles }

// Refresh regenerates the tile set when the visible range or viewport
// geometry actually changed since the last generation. Call once per layout
// pass; unchanged layouts return immediately.
func (s *Scheduler) Refresh(l Layout) {
	if s.hasSet && l == s.layout {
		return
	}
	if l.ViewportW <= 0 || l.ViewportH <= 2*edgeMargin || l.Visible.IsEmpty() {
		return
	}
	aspect := l.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	s.layout = l
	s.hasSet = true

	// Previous generation keeps rendering, inert and at its own tile size,
	// until the fixed delay runs out. A refresh before then drops the older
	// of the two.
	if len(s.tiles) > 0 {
		s.retiring = s.tiles
		s.retireAt = s.now().Add(retireDelay)
		s.retireW, s.retireH = s.tileW, s.tileH
	}

	s.tileH = l.ViewportH - 2*edgeMargin
	s.tileW = s.tileH * aspect
	count := int(math.Ceil(l.ViewportW / s.tileW))

	s.gen++
	spacing := l.Visible.Duration.MulFloat(1.0 / float64(count))
	tiles := make([]*Tile, 0, count+padBefore+padAfter)
	times := make([]mediatime.Time, 0, count+padBefore+padAfter)
	for i := -padBefore; i < count+padAfter; i++ {
		t := l.Visible.Start.Add(spacing.MulFloat(float64(i)))
		if t.Cmp(mediatime.Zero) < 0 {
			continue
		}
		s.nextID++
		tiles = append(tiles, &Tile{ID: s.nextID, Time: t, Generation: s.gen})
		times = append(times, t)
	}
	s.tiles = tiles

	scale := l.PixelScale
	if scale <= 0 {
		scale = 1
	}
	px := image.Pt(int(math.Round(s.tileW*scale)), int(math.Round(s.tileH*scale)))
	s.logger.Debugf("[THUMBS] generation %d: %d tiles, %dx%d px", s.gen, len(tiles), px.X, px.Y)

	s.pending = append(s.pending, batch{gen: s.gen, ch: s.generator.Generate(times, px)})
}

// Collect drains completed thumbnails into the tile set without blocking.
// Results from a superseded generation are dropped; that staleness check is
// the whole cancellation mechanism. Stale batches still drain so a slow
// generator is never blocked on an abandoned channel.
func (s *Scheduler) Collect() {
	kept := s.pending[:0]
	for _, b := range s.pending {
		open := true
		for open {
			select {
			case r, ok := <-b.ch:
				if !ok {
					open = false
					break
				}
				s.apply(b.gen, r)
			default:
				kept = append(kept, b)
				open = false
			}
		}
	}
	s.pending = kept
}

func (s *Scheduler) apply(gen uint64, r Result) {
	if gen != s.gen {
		s.logger.Debugf("[THUMBS] dropped stale result (gen %d, current %d)", gen, s.gen)
		return
	}
	if r.Index < 0 || r.Index >= len(s.tiles) {
		return
	}
	if r.Err != nil || r.Image == nil {
		// Tile stays an empty placeholder.
		return
	}
	tile := s.tiles[r.Index]
	tile.Image = r.Image
	tile.fadeStart = s.now()
}

// Placements returns the ordered draw list for the renderer: retiring tiles
// first (under the fresh ones), then the current generation. Frames derive
// from each tile's time under the current layout, so retired tiles slide
// with the window rather than popping.
func (s *Scheduler) Placements() []Placement {
	now := s.now()
	s.pruneRetired(now)

	out := make([]Placement, 0, len(s.retiring)+len(s.tiles))
	for _, t := range s.retiring {
		out = append(out, s.place(t, s.retiringAlpha(now), s.retireW, s.retireH))
	}
	for _, t := range s.tiles {
		out = append(out, s.place(t, s.fadeInAlpha(t, now), s.tileW, s.tileH))
	}
	return out
}

func (s *Scheduler) place(t *Tile, alpha, w, h float64) Placement {
	dur := s.layout.Visible.Duration.Seconds()
	var x float64
	if dur > 0 {
		x = t.Time.Sub(s.layout.Visible.Start).Seconds() / dur * s.layout.ViewportW
	}
	return Placement{
		ID:    t.ID,
		Frame: image.Rect(int(math.Round(x)), int(edgeMargin), int(math.Round(x+w)), int(edgeMargin+h)),
		Image: t.Image,
		Alpha: alpha,
	}
}

func (s *Scheduler) fadeInAlpha(t *Tile, now time.Time) float64 {
	if t.Image == nil {
		return 0
	}
	el := now.Sub(t.fadeStart)
	if el >= fadeDuration {
		return 1
	}
	if el < 0 {
		return 0
	}
	return float64(el) / float64(fadeDuration)
}

func (s *Scheduler) retiringAlpha(now time.Time) float64 {
	if now.Before(s.retireAt) {
		return 1
	}
	el := now.Sub(s.retireAt)
	if el >= fadeDuration {
		return 0
	}
	return 1 - float64(el)/float64(fadeDuration)
}

func (s *Scheduler) pruneRetired(now time.Time) {
	if len(s.retiring) == 0 {
		return
	}
	if now.Sub(s.retireAt) >= fadeDuration {
		s.retiring = nil
	}
}
