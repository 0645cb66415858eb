package memengine

import (
	"sort"

	"github.com/wippyai/otio-bridge/engine"
)

// Engine is an in-memory engine. It is not safe for concurrent use.
type Engine struct {
	objects map[uint64]node
	nextID  uint64
}

var _ engine.Engine = (*Engine)(nil)

// New creates an empty engine.
func New() *Engine {
	return &Engine{objects: make(map[uint64]node)}
}

// LiveObjects returns the number of allocated objects not yet deleted,
// including fresh objects nobody has retained.
func (e *Engine) LiveObjects() int {
	return len(e.objects)
}

// Objects returns every live object ordered by allocation.
func (e *Engine) Objects() []engine.Object {
	ids := make([]uint64, 0, len(e.objects))
	for id := range e.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]engine.Object, len(ids))
	for i, id := range ids {
		out[i] = e.objects[id]
	}
	return out
}

func (e *Engine) track(n node, tag engine.TypeTag, name string) {
	e.nextID++
	b := n.core()
	b.eng = e
	b.self = n
	b.id = e.nextID
	b.tag = tag
	b.name = name
	b.meta = dict{}
	e.objects[b.id] = n
}

func (e *Engine) lookup(id uint64) (node, bool) {
	if id == 0 {
		return nil, false
	}
	n, ok := e.objects[id]
	return n, ok
}

// drop deletes a fresh, unowned object.
func drop(n node) {
	if n.RefCount() == 0 {
		n.Retain()
		n.Release()
	}
}

func (e *Engine) NewClip(name string, ref engine.MediaReference, sourceRange *engine.TimeRange) engine.Clip {
	c := &Clip{}
	e.track(c, engine.TagClip, name)
	c.sourceRange = copyRange(sourceRange)
	c.SetMediaReference(ref)
	return c
}

func (e *Engine) NewGap(name string, sourceRange *engine.TimeRange) engine.Gap {
	g := &Gap{}
	e.track(g, engine.TagGap, name)
	g.sourceRange = copyRange(sourceRange)
	return g
}

func (e *Engine) NewTrack(name, kind string) engine.Track {
	t := &Track{kind: kind}
	e.track(t, engine.TagTrack, name)
	t.sequential = true
	return t
}

func (e *Engine) NewStack(name string) engine.Stack {
	s := &Stack{}
	e.track(s, engine.TagStack, name)
	return s
}

func (e *Engine) NewComposition(name string) engine.Composition {
	c := &Composition{}
	e.track(c, engine.TagComposition, name)
	return c
}

func (e *Engine) NewTimeline(name string) engine.Timeline {
	t := &Timeline{}
	e.track(t, engine.TagTimeline, name)
	t.SetTracks(e.NewStack("tracks"))
	return t
}

func (e *Engine) NewExternalReference(targetURL string, availableRange *engine.TimeRange) engine.ExternalReference {
	r := &ExternalReference{targetURL: targetURL}
	e.track(r, engine.TagExternalReference, "")
	r.availableRange = copyRange(availableRange)
	return r
}

func (e *Engine) NewMissingReference() engine.MissingReference {
	r := &MissingReference{}
	e.track(r, engine.TagMissingReference, "")
	return r
}

func (e *Engine) NewEffect(name, effectName string) engine.Effect {
	f := &Effect{effectName: effectName, enabled: true}
	e.track(f, engine.TagEffect, name)
	return f
}

func (e *Engine) NewMarker(name string, markedRange engine.TimeRange, color string) engine.Marker {
	if color == "" {
		color = DefaultMarkerColor
	}
	m := &Marker{markedRange: markedRange, color: color}
	e.track(m, engine.TagMarker, name)
	return m
}

func copyRange(r *engine.TimeRange) *engine.TimeRange {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func copyTime(t *engine.RationalTime) *engine.RationalTime {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
