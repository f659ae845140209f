package model

import (
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// TrimModel is the single source of truth for the trim control: the attached
// asset's full range, the user's selected sub-range, the configured minimum
// selection duration and the progress marker. Setters assume they are called
// from one goroutine (the host's update loop); the interaction machine is
// responsible for clamping gesture input before it reaches the model.
type TrimModel struct {
	asset    mediatime.TimeRange
	selected mediatime.TimeRange
	minimum  mediatime.Time
	progress mediatime.Time

	// Observers fire only on an actual value change.
	OnRangeChanged    func(mediatime.TimeRange)
	OnProgressChanged func(mediatime.Time)

	logger *game_log.Logger
}

func NewTrimModel(logger *game_log.Logger) *TrimModel {
	return &TrimModel{logger: logger}
}

func (m *TrimModel) AssetRange() mediatime.TimeRange    { return m.asset }
func (m *TrimModel) SelectedRange() mediatime.TimeRange { return m.selected }
func (m *TrimModel) MinimumDuration() mediatime.Time    { return m.minimum }
func (m *TrimModel) Progress() mediatime.Time           { return m.progress }

// EffectiveMinimum is the minimum duration actually enforceable: the
// configured minimum, capped at the asset duration so a short asset is still
// fully selectable.
func (m *TrimModel) EffectiveMinimum() mediatime.Time {
	return mediatime.Min(m.minimum, m.asset.Duration)
}

// AttachAsset resets the model for a newly attached asset: the selection
// covers the full asset and progress returns to the asset start. Callers
// must cancel any in-flight gesture and exit zoom before attaching.
func (m *TrimModel) AttachAsset(duration mediatime.Time) {
	if duration.Cmp(mediatime.Zero) < 0 {
		duration = mediatime.Zero
	}
	m.asset = mediatime.NewRange(mediatime.Zero, duration)
	m.selected = m.asset
	m.progress = mediatime.Zero
	m.logger.Debugf("[MODEL] attached asset, duration=%s", duration)
	if m.OnRangeChanged != nil {
		m.OnRangeChanged(m.selected)
	}
	if m.OnProgressChanged != nil {
		m.OnProgressChanged(m.progress)
	}
}

// SetSelectedRange is the programmatic path: the requested range is
// normalized into a valid one (inside the asset, at least the effective
// minimum long) before being stored. The model never holds an invalid range
// and never drops a request without normalizing it.
func (m *TrimModel) SetSelectedRange(r mediatime.TimeRange) {
	m.setSelected(m.Normalize(r))
}

// SetSelectedRangeRaw is the gesture path: the interaction machine has
// already clamped the value, so it is stored as-is.
func (m *TrimModel) SetSelectedRangeRaw(r mediatime.TimeRange) {
	m.setSelected(r)
}

func (m *TrimModel) setSelected(r mediatime.TimeRange) {
	if m.selected.Equal(r) {
		return
	}
	m.selected = r
	if m.OnRangeChanged != nil {
		m.OnRangeChanged(r)
	}
}

// Normalize clamps r into the asset range and then grows it to the
// effective minimum duration, preferring to extend the end and walking the
// start back when the end hits the asset bound.
func (m *TrimModel) Normalize(r mediatime.TimeRange) mediatime.TimeRange {
	r = r.Clamped(m.asset)
	min := m.EffectiveMinimum()
	if r.Duration.Cmp(min) >= 0 {
		return r
	}
	end := r.Start.Add(min)
	start := r.Start
	if end.Cmp(m.asset.End()) > 0 {
		end = m.asset.End()
		start = end.Sub(min)
		start = mediatime.Max(start, m.asset.Start)
	}
	return mediatime.RangeFromTimes(start, end)
}

// SetProgress stores the progress marker. The model does not clamp: the
// host may legitimately show full-asset playback progress outside the
// selection. Scrub gestures clamp in the interaction machine.
func (m *TrimModel) SetProgress(t mediatime.Time) {
	if m.progress.Equal(t) {
		return
	}
	m.progress = t
	if m.OnProgressChanged != nil {
		m.OnProgressChanged(t)
	}
}

// SetMinimumDuration updates the configured minimum and re-normalizes the
// current selection against it.
func (m *TrimModel) SetMinimumDuration(d mediatime.Time) {
	if d.Cmp(mediatime.Zero) < 0 {
		d = mediatime.Zero
	}
	m.minimum = d
	m.setSelected(m.Normalize(m.selected))
}
