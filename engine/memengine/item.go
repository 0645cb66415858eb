package memengine

import (
	"fmt"

	"github.com/wippyai/otio-bridge/engine"
)

type itemBase struct {
	base
	sourceRange *engine.TimeRange
	effects     []engine.Effect
	markers     []engine.Marker
	disabled    bool
}

func (i *itemBase) Parent() engine.Composition { return i.parent() }

func (i *itemBase) Visible() bool { return true }

func (i *itemBase) Overlapping() bool { return false }

func (i *itemBase) Enabled() bool { return !i.disabled }

func (i *itemBase) SetEnabled(enabled bool) { i.disabled = !enabled }

func (i *itemBase) SourceRange() (engine.TimeRange, bool) {
	if i.sourceRange == nil {
		return engine.TimeRange{}, false
	}
	return *i.sourceRange, true
}

func (i *itemBase) SetSourceRange(r *engine.TimeRange) {
	i.sourceRange = copyRange(r)
}

// trimmedRange is the source range if set, otherwise the available range.
func (i *itemBase) trimmedRange() (engine.TimeRange, *engine.Status) {
	if i.sourceRange != nil {
		return *i.sourceRange, nil
	}
	return i.self.(engine.Item).AvailableRange()
}

func (i *itemBase) Duration() (engine.RationalTime, *engine.Status) {
	r, st := i.trimmedRange()
	if !st.OK() {
		return engine.RationalTime{}, st
	}
	return r.Duration, nil
}

func (i *itemBase) Effects() []engine.Effect {
	return append([]engine.Effect(nil), i.effects...)
}

func (i *itemBase) AppendEffect(e engine.Effect) {
	e.Retain()
	i.effects = append(i.effects, e)
}

func (i *itemBase) RemoveEffect(index int) *engine.Status {
	if index < 0 || index >= len(i.effects) {
		return illegalIndex(index, len(i.effects))
	}
	e := i.effects[index]
	i.effects = append(i.effects[:index], i.effects[index+1:]...)
	e.Release()
	return nil
}

func (i *itemBase) Markers() []engine.Marker {
	return append([]engine.Marker(nil), i.markers...)
}

func (i *itemBase) AppendMarker(m engine.Marker) {
	m.Retain()
	i.markers = append(i.markers, m)
}

func (i *itemBase) RemoveMarker(index int) *engine.Status {
	if index < 0 || index >= len(i.markers) {
		return illegalIndex(index, len(i.markers))
	}
	m := i.markers[index]
	i.markers = append(i.markers[:index], i.markers[index+1:]...)
	m.Release()
	return nil
}

func (i *itemBase) disposeItem() {
	effects, markers := i.effects, i.markers
	i.effects, i.markers = nil, nil
	for _, e := range effects {
		e.Release()
	}
	for _, m := range markers {
		m.Release()
	}
}

// Clip is a media-backed item.
type Clip struct {
	itemBase
	media engine.MediaReference
}

func (c *Clip) MediaReference() engine.MediaReference { return c.media }

func (c *Clip) SetMediaReference(ref engine.MediaReference) {
	if ref != nil {
		ref.Retain()
	}
	old := c.media
	c.media = ref
	if old != nil {
		old.Release()
	}
}

func (c *Clip) AvailableRange() (engine.TimeRange, *engine.Status) {
	if c.media == nil {
		return engine.TimeRange{}, engine.Fail(engine.CannotComputeAvailableRange, "clip has no media reference")
	}
	r, ok := c.media.AvailableRange()
	if !ok {
		return engine.TimeRange{}, engine.Fail(engine.CannotComputeAvailableRange, "media reference has no available range")
	}
	return r, nil
}

func (c *Clip) dispose() {
	c.disposeItem()
	if c.media != nil {
		m := c.media
		c.media = nil
		m.Release()
	}
}

// Gap is an item of empty time.
type Gap struct {
	itemBase
}

func (g *Gap) AvailableRange() (engine.TimeRange, *engine.Status) {
	if g.sourceRange == nil {
		return engine.TimeRange{}, engine.Fail(engine.ObjectWithoutDuration, "gap has no source range")
	}
	d := g.sourceRange.Duration
	return engine.TimeRange{Start: engine.RationalTime{Rate: d.Rate}, Duration: d}, nil
}

// Visible is false: a gap holds time but shows nothing.
func (g *Gap) Visible() bool { return false }

func (g *Gap) dispose() { g.disposeItem() }

func illegalIndex(index, size int) *engine.Status {
	return engine.Fail(engine.IllegalIndex, fmt.Sprintf("index %d out of range [0, %d)", index, size))
}
