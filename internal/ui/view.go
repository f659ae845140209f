package ui

import (
	"fmt"
	"image"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ingyamilmolinar/trimline/core/engine"
	"github.com/ingyamilmolinar/trimline/core/interaction"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

const (
	stripH = 64 // timeline strip height in px
	knobW  = 14 // progress knob hit width
)

// writeClipboard is swappable so tests don't touch the system clipboard.
var writeClipboard = clipboard.WriteAll

// TrimView is the desktop renderer and gesture host for the trim engine: it
// resolves raw mouse state into the engine's normalized pointer events and
// draws the thumbnail strip, trim handles and progress marker. It satisfies
// ebiten.Game.
type TrimView struct {
	engine  *engine.Engine
	logger  *game_log.Logger
	handleW float64
	inset   float64

	winW, winH int

	/* gesture state */
	dragging bool
	active   interaction.Element
	leftPrev bool
	lastX    int

	/* key state */
	copyPrev  bool
	spacePrev bool

	/* playback simulation */
	playing bool

	/* draw caches */
	tileImgs map[int64]*ebiten.Image

	// PreUpdate, when set, runs at the start of every Update on the game
	// goroutine. Hosts use it to forward work from other goroutines (for
	// example config reloads) into the engine's single event context.
	PreUpdate func()
}

func NewTrimView(e *engine.Engine, handleW, inset float64, logger *game_log.Logger) *TrimView {
	return &TrimView{
		engine:   e,
		logger:   logger,
		handleW:  handleW,
		inset:    inset,
		tileImgs: map[int64]*ebiten.Image{},
	}
}

func (v *TrimView) stripTop() int { return (v.winH - stripH) / 2 }

// hitTest resolves a press location to an interactive element. Handles win
// over the progress knob, and both win over a bare timeline tap, matching
// the gesture priority the engine expects from its host.
func (v *TrimView) hitTest(x, y int) (interaction.Element, bool) {
	top := v.stripTop()
	if y < top-6 || y > top+stripH+6 {
		return 0, false
	}
	mp := v.engine.Mapper()
	leadX := mp.LocationForTime(v.engine.SelectedRange().Start)
	trailX := mp.LocationForTime(v.engine.SelectedRange().End())
	fx := float64(x)

	switch {
	case fx >= leadX-v.handleW && fx <= leadX:
		return interaction.ElementLeading, true
	case fx >= trailX && fx <= trailX+v.handleW:
		return interaction.ElementTrailing, true
	}
	progX := mp.LocationForTime(v.engine.Progress())
	if fx >= progX-knobW/2 && fx <= progX+knobW/2 {
		return interaction.ElementProgress, true
	}
	if fx >= v.inset && fx <= float64(v.winW)-v.inset {
		return interaction.ElementTimeline, true
	}
	return 0, false
}

func (v *TrimView) Update() error {
	if v.PreUpdate != nil {
		v.PreUpdate()
	}
	v.engine.Tick(float64(v.winW), stripH)

	x, y := cursorPosition()
	pressed := isMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && !v.leftPrev:
		if el, ok := v.hitTest(x, y); ok {
			v.dragging = true
			v.active = el
			v.lastX = x
			v.engine.HandlePointer(interaction.Event{Element: el, Kind: interaction.Begin, X: float64(x)})
		}
	case pressed && v.dragging:
		// Move only on actual motion; a held-still pointer must let the
		// dwell timer run out.
		if x != v.lastX {
			v.lastX = x
			v.engine.HandlePointer(interaction.Event{Element: v.active, Kind: interaction.Move, X: float64(x)})
		}
	case !pressed && v.dragging:
		v.dragging = false
		v.engine.HandlePointer(interaction.Event{Element: v.active, Kind: interaction.End, X: float64(x)})
	}
	v.leftPrev = pressed

	v.handleCopyKey()
	v.handlePlayKey()
	v.advancePlayback()
	v.pruneTileCache()
	return nil
}

func (v *TrimView) handlePlayKey() {
	down := isKeyPressed(ebiten.KeySpace)
	if down && !v.spacePrev {
		v.playing = !v.playing
	}
	v.spacePrev = down
}

// advancePlayback simulates the external playback collaborator: it pushes
// progress through SetProgress, which the engine drops while the user owns
// the playhead with a scrub.
func (v *TrimView) advancePlayback() {
	if !v.playing {
		return
	}
	sel := v.engine.SelectedRange()
	next := v.engine.Progress().Add(mediatime.FromSeconds(1.0 / float64(ebiten.TPS())))
	if next.Cmp(sel.End()) > 0 {
		next = sel.Start
	}
	v.engine.SetProgress(next, false)
}

// handleCopyKey copies the selected range as a timecode pair on C.
func (v *TrimView) handleCopyKey() {
	down := isKeyPressed(ebiten.KeyC)
	if down && !v.copyPrev {
		sel := v.engine.SelectedRange()
		text := fmt.Sprintf("%s - %s", sel.Start, sel.End())
		if err := writeClipboard(text); err != nil {
			v.logger.Warnf("[VIEW] clipboard write failed: %v", err)
		} else {
			v.logger.Infof("[VIEW] copied %q", text)
		}
	}
	v.copyPrev = down
}

// pruneTileCache drops converted images for tiles that left the placement
// list, so the cache tracks the scheduler's working set.
func (v *TrimView) pruneTileCache() {
	placements := v.engine.Placements()
	if len(v.tileImgs) <= 2*len(placements) {
		return
	}
	live := map[int64]bool{}
	for _, p := range placements {
		live[p.ID] = true
	}
	for id, img := range v.tileImgs {
		if !live[id] {
			img.Deallocate()
			delete(v.tileImgs, id)
		}
	}
}

func (v *TrimView) Draw(dst *ebiten.Image) {
	dst.Fill(colBackground)
	top := v.stripTop()

	// track
	drawRect(dst, image.Rect(0, top, v.winW, top+stripH), colTrack, true)

	// thumbnail tiles
	for _, p := range v.engine.Placements() {
		frame := p.Frame.Add(image.Pt(0, top))
		if p.Image == nil {
			drawRect(dst, frame, colTilePend, true)
			continue
		}
		img, ok := v.tileImgs[p.ID]
		if !ok {
			img = ebiten.NewImageFromImage(p.Image)
			v.tileImgs[p.ID] = img
		}
		op := &ebiten.DrawImageOptions{}
		sx := float64(frame.Dx()) / float64(img.Bounds().Dx())
		sy := float64(frame.Dy()) / float64(img.Bounds().Dy())
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(float64(frame.Min.X), float64(frame.Min.Y))
		op.ColorScale.ScaleAlpha(float32(p.Alpha))
		dst.DrawImage(img, op)
	}

	mp := v.engine.Mapper()
	sel := v.engine.SelectedRange()
	leadX := int(mp.LocationForTime(sel.Start))
	trailX := int(mp.LocationForTime(sel.End()))

	// dim the trimmed-away stretches
	drawRect(dst, image.Rect(0, top, leadX, top+stripH), colDimOverlay, true)
	drawRect(dst, image.Rect(trailX, top, v.winW, top+stripH), colDimOverlay, true)

	// selection border and edge handles
	drawRect(dst, image.Rect(leadX, top, trailX, top+stripH), colSelBorder, false)
	v.drawHandle(dst, leadX-int(v.handleW), top, v.engine.TrimmingState() == interaction.TrimLeading)
	v.drawHandle(dst, trailX, top, v.engine.TrimmingState() == interaction.TrimTrailing)

	// progress marker
	progX := int(mp.LocationForTime(v.engine.Progress()))
	drawVLine(dst, progX, top-4, top+stripH+4, colProgress)
	drawRect(dst, image.Rect(progX-3, top-8, progX+3, top-2), colProgressKnob, true)

	if v.engine.IsZoomedIn() {
		drawRect(dst, image.Rect(0, top-2, v.winW, top+stripH+2), colZoomBorder, false)
	}

	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%s - %s  (playhead %s)",
		sel.Start, sel.End(), v.engine.Progress()), 8, 8)
}

func (v *TrimView) drawHandle(dst *ebiten.Image, x, top int, grabbed bool) {
	c := colHandle
	if grabbed {
		c = colHandleGrab
	}
	w := int(v.handleW)
	drawRect(dst, image.Rect(x, top, x+w, top+stripH), c, true)
	drawVLine(dst, x+w/2, top+stripH/2-8, top+stripH/2+8, colChevron)
}

func (v *TrimView) Layout(outsideW, outsideH int) (int, int) {
	v.winW, v.winH = outsideW, outsideH
	return outsideW, outsideH
}
