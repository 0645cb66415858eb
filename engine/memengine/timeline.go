package memengine

import "github.com/wippyai/otio-bridge/engine"

// DefaultMarkerColor is used when a marker is created without a color.
const DefaultMarkerColor = "RED"

// Timeline owns a stack of tracks.
type Timeline struct {
	base
	tracks          engine.Stack
	globalStartTime *engine.RationalTime
}

func (t *Timeline) Tracks() engine.Stack { return t.tracks }

// SetTracks replaces the track stack; nil detaches it.
func (t *Timeline) SetTracks(tracks engine.Stack) {
	if tracks != nil {
		tracks.Retain()
	}
	old := t.tracks
	t.tracks = tracks
	if old != nil {
		old.Release()
	}
}

func (t *Timeline) GlobalStartTime() (engine.RationalTime, bool) {
	if t.globalStartTime == nil {
		return engine.RationalTime{}, false
	}
	return *t.globalStartTime, true
}

func (t *Timeline) SetGlobalStartTime(start *engine.RationalTime) {
	t.globalStartTime = copyTime(start)
}

func (t *Timeline) Duration() (engine.RationalTime, *engine.Status) {
	if t.tracks == nil {
		return engine.RationalTime{}, engine.Fail(engine.CannotComputeAvailableRange, "timeline has no tracks")
	}
	return t.tracks.Duration()
}

func (t *Timeline) dispose() {
	t.SetTracks(nil)
}

type refBase struct {
	base
	availableRange *engine.TimeRange
}

func (r *refBase) AvailableRange() (engine.TimeRange, bool) {
	if r.availableRange == nil {
		return engine.TimeRange{}, false
	}
	return *r.availableRange, true
}

func (r *refBase) SetAvailableRange(ar *engine.TimeRange) {
	r.availableRange = copyRange(ar)
}

// ExternalReference points at media by URL.
type ExternalReference struct {
	refBase
	targetURL string
}

func (r *ExternalReference) IsMissingReference() bool { return false }

func (r *ExternalReference) TargetURL() string { return r.targetURL }

func (r *ExternalReference) SetTargetURL(url string) { r.targetURL = url }

// MissingReference stands in for unlocatable media.
type MissingReference struct {
	refBase
}

func (r *MissingReference) IsMissingReference() bool { return true }

// Effect is a named effect.
type Effect struct {
	base
	effectName string
	enabled    bool
}

func (f *Effect) EffectName() string { return f.effectName }

func (f *Effect) SetEffectName(name string) { f.effectName = name }

func (f *Effect) Enabled() bool { return f.enabled }

func (f *Effect) SetEnabled(enabled bool) { f.enabled = enabled }

// Marker annotates a range.
type Marker struct {
	base
	color       string
	comment     string
	markedRange engine.TimeRange
}

func (m *Marker) Color() string { return m.color }

func (m *Marker) SetColor(color string) { m.color = color }

func (m *Marker) Comment() string { return m.comment }

func (m *Marker) SetComment(comment string) { m.comment = comment }

func (m *Marker) MarkedRange() engine.TimeRange { return m.markedRange }

func (m *Marker) SetMarkedRange(r engine.TimeRange) { m.markedRange = r }
