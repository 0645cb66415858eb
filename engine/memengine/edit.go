package memengine

import (
	"github.com/wippyai/otio-bridge/engine"
)

// Editing here is deliberately narrow: ranges are adjusted in place and
// neighbours are not filled or ripple-shifted.

func (e *Engine) editable(item engine.Item) (*itemBase, engine.Composition, *engine.Status) {
	ib := itemOf(item)
	if ib == nil || ib.eng != e {
		return nil, nil, engine.Fail(engine.NotAnItem, "object is not an item of this engine")
	}
	parent := ib.parent()
	if parent == nil {
		return nil, nil, engine.Fail(engine.NotAChild, "item has no parent")
	}
	return ib, parent, nil
}

func itemOf(item engine.Item) *itemBase {
	switch o := item.(type) {
	case *Clip:
		return &o.itemBase
	case *Gap:
		return &o.itemBase
	case *Track:
		return &o.itemBase
	case *Stack:
		return &o.itemBase
	case *Composition:
		return &o.itemBase
	}
	return nil
}

func (e *Engine) Trim(item engine.Item, deltaIn, deltaOut engine.RationalTime) *engine.Status {
	ib, _, st := e.editable(item)
	if !st.OK() {
		return st
	}
	r, st := ib.trimmedRange()
	if !st.OK() {
		return st
	}

	rate := r.Duration.Rate
	in := rescale(deltaIn, rate).Value
	out := rescale(deltaOut, rate).Value
	next := engine.TimeRange{
		Start:    engine.RationalTime{Value: r.Start.Value + in, Rate: r.Start.Rate},
		Duration: engine.RationalTime{Value: r.Duration.Value - in + out, Rate: rate},
	}
	if next.Duration.Value <= 0 {
		return engine.Fail(engine.InvalidTimeRange, "trim leaves no duration")
	}
	ib.sourceRange = &next
	return nil
}

// Slip moves the source range under a fixed duration, clamped to the
// available range when one is known.
func (e *Engine) Slip(item engine.Item, delta engine.RationalTime) *engine.Status {
	ib, _, st := e.editable(item)
	if !st.OK() {
		return st
	}
	r, st := ib.trimmedRange()
	if !st.OK() {
		return st
	}

	start := r.Start.Value + rescale(delta, r.Start.Rate).Value
	if ib.sourceRange != nil {
		if avail, st := item.AvailableRange(); st.OK() {
			lo := rescale(avail.Start, r.Start.Rate).Value
			hi := lo + rescale(avail.Duration, r.Start.Rate).Value - rescale(r.Duration, r.Start.Rate).Value
			start = max(lo, min(start, hi))
		}
	}
	ib.sourceRange = &engine.TimeRange{
		Start:    engine.RationalTime{Value: start, Rate: r.Start.Rate},
		Duration: r.Duration,
	}
	return nil
}

// Slide moves the item's start by growing or shrinking the previous sibling.
// The first item in a composition does not move.
func (e *Engine) Slide(item engine.Item, delta engine.RationalTime) *engine.Status {
	_, parent, st := e.editable(item)
	if !st.OK() {
		return st
	}
	index, st := parent.IndexOfChild(item)
	if !st.OK() {
		return st
	}
	if index == 0 {
		return nil
	}

	prev, ok := parent.Children()[index-1].(engine.Item)
	if !ok {
		return engine.Fail(engine.NotAnItem, "previous sibling is not an item")
	}
	pb := itemOf(prev)
	r, st := pb.trimmedRange()
	if !st.OK() {
		return st
	}
	d := r.Duration.Value + rescale(delta, r.Duration.Rate).Value
	if d <= 0 {
		return engine.Fail(engine.InvalidTimeRange, "slide removes the previous item")
	}
	pb.sourceRange = &engine.TimeRange{
		Start:    r.Start,
		Duration: engine.RationalTime{Value: d, Rate: r.Duration.Rate},
	}
	return nil
}

func (e *Engine) Insert(engine.Item, engine.Composition, engine.RationalTime) *engine.Status {
	return engine.Fail(engine.NotImplemented, "insert is not supported by the in-memory engine")
}

func (e *Engine) Overwrite(engine.Item, engine.Composition, engine.TimeRange) *engine.Status {
	return engine.Fail(engine.NotImplemented, "overwrite is not supported by the in-memory engine")
}
