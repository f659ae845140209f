package interaction

import (
	"github.com/ingyamilmolinar/trimline/core/feedback"
	"github.com/ingyamilmolinar/trimline/core/mapper"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	"github.com/ingyamilmolinar/trimline/core/model"
	"github.com/ingyamilmolinar/trimline/core/zoom"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// Element identifies which interactive part of the control a pointer event
// was resolved to. The host resolves hit-testing and gesture priority
// (handle drags beat timeline taps) before events reach the machine.
type Element int

const (
	ElementLeading Element = iota
	ElementTrailing
	ElementProgress
	// ElementTimeline is a tap on the bare track, treated as a one-shot
	// scrub to the tapped position.
	ElementTimeline
)

// Kind is the normalized pointer phase.
type Kind int

const (
	Begin Kind = iota
	Move
	End
	Cancel
)

// Event is one normalized pointer event: a phase and a viewport x offset.
type Event struct {
	Element Element
	Kind    Kind
	X       float64
}

// State is the machine's gesture state.
type State int

const (
	Idle State = iota
	DraggingLeading
	DraggingTrailing
	Scrubbing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingLeading:
		return "dragging-leading"
	case DraggingTrailing:
		return "dragging-trailing"
	case Scrubbing:
		return "scrubbing"
	default:
		return "unknown"
	}
}

// TrimmingState reports which selection edge, if any, is under active drag.
type TrimmingState int

const (
	TrimNone TrimmingState = iota
	TrimLeading
	TrimTrailing
)

func (t TrimmingState) String() string {
	switch t {
	case TrimLeading:
		return "leading"
	case TrimTrailing:
		return "trailing"
	default:
		return "none"
	}
}

// session is the transient per-gesture state, created on begin and dropped
// on end/cancel.
type session struct {
	// anchor is the offset between the pointer and the handle edge at
	// begin, so the edge doesn't jump under the finger.
	anchor float64
	// clamped tracks whether the last move was bound-limited; the impact
	// pulse fires only on the transition into the clamped state.
	clamped bool
}

// Machine consumes normalized pointer events for the three interactive
// elements and drives the model, applying all clamping. At most one gesture
// is active at a time. All methods must be called from the host's single
// event-processing goroutine.
type Machine struct {
	model  *model.TrimModel
	zoom   *zoom.Engine
	sink   feedback.Sink
	logger *game_log.Logger

	state   State
	session session

	// Gesture lifecycle notifications. Value changes are observed on the
	// model; these mark the begin/end boundaries around them.
	OnBeginTrim  func()
	OnEndTrim    func()
	OnBeginScrub func()
	OnEndScrub   func()
}

func NewMachine(m *model.TrimModel, z *zoom.Engine, sink feedback.Sink, logger *game_log.Logger) *Machine {
	if sink == nil {
		sink = feedback.Nop
	}
	return &Machine{model: m, zoom: z, sink: sink, logger: logger}
}

func (sm *Machine) State() State { return sm.state }

func (sm *Machine) TrimmingState() TrimmingState {
	switch sm.state {
	case DraggingLeading:
		return TrimLeading
	case DraggingTrailing:
		return TrimTrailing
	default:
		return TrimNone
	}
}

func (sm *Machine) IsScrubbing() bool { return sm.state == Scrubbing }

// DraggedEdge returns the time of the edge under drag. Only meaningful
// while TrimmingState is not TrimNone.
func (sm *Machine) DraggedEdge() mediatime.Time {
	if sm.state == DraggingTrailing {
		return sm.model.SelectedRange().End()
	}
	return sm.model.SelectedRange().Start
}

// Handle processes one event against the mapper for the current layout
// pass. Events for elements other than the active gesture's are dropped;
// the host guarantees mutual exclusion between recognizers, this is the
// engine-side backstop.
func (sm *Machine) Handle(ev Event, mp mapper.Mapper) {
	switch ev.Kind {
	case Begin:
		sm.begin(ev, mp)
	case Move:
		sm.move(ev, mp)
	case End, Cancel:
		sm.finish(ev)
	}
}

// CancelActive aborts any in-flight gesture, as if a cancel event arrived.
// Used when the asset is swapped mid-interaction.
func (sm *Machine) CancelActive() {
	if sm.state == Idle {
		return
	}
	sm.finish(Event{Kind: Cancel})
}

func (sm *Machine) begin(ev Event, mp mapper.Mapper) {
	if sm.state != Idle {
		sm.logger.Debugf("[GESTURE] begin for %d dropped, state=%s", ev.Element, sm.state)
		return
	}
	switch ev.Element {
	case ElementLeading:
		sm.state = DraggingLeading
		sm.session = session{anchor: ev.X - mp.LocationForTime(sm.model.SelectedRange().Start)}
		sm.logger.Debugf("[GESTURE] begin leading trim, anchor=%.1f", sm.session.anchor)
		if sm.OnBeginTrim != nil {
			sm.OnBeginTrim()
		}
	case ElementTrailing:
		sm.state = DraggingTrailing
		sm.session = session{anchor: ev.X - mp.LocationForTime(sm.model.SelectedRange().End())}
		sm.logger.Debugf("[GESTURE] begin trailing trim, anchor=%.1f", sm.session.anchor)
		if sm.OnBeginTrim != nil {
			sm.OnBeginTrim()
		}
	case ElementProgress, ElementTimeline:
		sm.state = Scrubbing
		sm.session = session{}
		sm.logger.Debugf("[GESTURE] begin scrub")
		if sm.OnBeginScrub != nil {
			sm.OnBeginScrub()
		}
		// A timeline tap scrubs immediately; a progress-handle grab waits
		// for the first move.
		if ev.Element == ElementTimeline {
			sm.scrub(ev, mp)
		}
	}
}

func (sm *Machine) move(ev Event, mp mapper.Mapper) {
	switch sm.state {
	case DraggingLeading:
		sm.trimLeading(ev, mp)
		sm.zoom.Arm()
	case DraggingTrailing:
		sm.trimTrailing(ev, mp)
		sm.zoom.Arm()
	case Scrubbing:
		sm.scrub(ev, mp)
	}
}

func (sm *Machine) finish(ev Event) {
	switch sm.state {
	case DraggingLeading, DraggingTrailing:
		sm.state = Idle
		sm.session = session{}
		sm.zoom.Exit()
		sm.logger.Debugf("[GESTURE] end trim (%d)", ev.Kind)
		if sm.OnEndTrim != nil {
			sm.OnEndTrim()
		}
	case Scrubbing:
		sm.state = Idle
		sm.session = session{}
		sm.logger.Debugf("[GESTURE] end scrub (%d)", ev.Kind)
		if sm.OnEndScrub != nil {
			sm.OnEndScrub()
		}
	}
}

func (sm *Machine) trimLeading(ev Event, mp mapper.Mapper) {
	sel := sm.model.SelectedRange()
	asset := sm.model.AssetRange()
	candidate := mp.TimeForLocation(ev.X - sm.session.anchor)

	lo := asset.Start
	hi := mediatime.Min(sel.End().Sub(sm.model.EffectiveMinimum()), asset.End())
	sm.applyClamped(candidate, lo, hi, func(t mediatime.Time) {
		sm.model.SetSelectedRangeRaw(mediatime.NewRange(t, sel.End().Sub(t)))
	})
}

func (sm *Machine) trimTrailing(ev Event, mp mapper.Mapper) {
	sel := sm.model.SelectedRange()
	asset := sm.model.AssetRange()
	candidate := mp.TimeForLocation(ev.X - sm.session.anchor)

	lo := mediatime.Max(sel.Start.Add(sm.model.EffectiveMinimum()), asset.Start)
	hi := asset.End()
	sm.applyClamped(candidate, lo, hi, func(t mediatime.Time) {
		sm.model.SetSelectedRangeRaw(mediatime.NewRange(sel.Start, t.Sub(sel.Start)))
	})
}

func (sm *Machine) scrub(ev Event, mp mapper.Mapper) {
	sel := sm.model.SelectedRange()
	candidate := mp.TimeForLocation(ev.X)
	sm.applyClamped(candidate, sel.Start, sel.End(), sm.model.SetProgress)
}

// applyClamped bounds candidate into [lo, hi], fires the impact pulse on
// the transition into the clamped state, the light pulse on an applied
// value change, and hands the winning value to apply. Clamped values always
// win over the raw pointer position.
func (sm *Machine) applyClamped(candidate, lo, hi mediatime.Time, apply func(mediatime.Time)) {
	clamped := candidate.Clamp(lo, hi)
	isClamped := !clamped.Equal(candidate)
	if isClamped && !sm.session.clamped {
		sm.sink.Pulse(feedback.Impact)
	} else if !isClamped {
		sm.sink.Pulse(feedback.Selection)
	}
	sm.session.clamped = isClamped
	apply(clamped)
}
