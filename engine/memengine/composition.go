package memengine

import (
	"github.com/wippyai/otio-bridge/engine"
)

// child is a composable this engine can hold.
type child interface {
	engine.Item
	core() *base
}

type compBase struct {
	itemBase
	children   []child
	sequential bool
}

func (c *compBase) CompositionKind() string { return c.tag.String() }

func (c *compBase) Children() []engine.Composable {
	out := make([]engine.Composable, len(c.children))
	for i, ch := range c.children {
		out[i] = ch
	}
	return out
}

// accept validates a prospective child without mutating anything.
func (c *compBase) accept(obj engine.Composable) (child, *engine.Status) {
	ch, ok := obj.(child)
	if !ok {
		return nil, engine.Fail(engine.NotAnItem, "child is not an item")
	}
	cb := ch.core()
	if cb.eng != c.eng {
		return nil, engine.Fail(engine.InternalError, "child belongs to another engine")
	}
	if cb.parentID != 0 {
		return nil, engine.Fail(engine.ChildAlreadyParented, "child already has a parent")
	}
	for cur := &c.base; cur != nil; {
		if cur.id == cb.id {
			return nil, engine.Fail(engine.ObjectCycle, "child is an ancestor of the composition")
		}
		n, ok := c.eng.lookup(cur.parentID)
		if !ok {
			break
		}
		cur = n.core()
	}
	return ch, nil
}

func (c *compBase) adopt(ch child) {
	ch.Retain()
	ch.core().parentID = c.id
}

func (c *compBase) orphan(ch child) {
	ch.core().parentID = 0
	ch.Release()
}

func (c *compBase) adjust(index int) int {
	if index < 0 {
		index += len(c.children)
	}
	return index
}

func (c *compBase) AppendChild(obj engine.Composable) *engine.Status {
	ch, st := c.accept(obj)
	if !st.OK() {
		return st
	}
	c.adopt(ch)
	c.children = append(c.children, ch)
	return nil
}

// InsertChild inserts at index. Negative indexes count from the end;
// indexes past the end append.
func (c *compBase) InsertChild(index int, obj engine.Composable) *engine.Status {
	ch, st := c.accept(obj)
	if !st.OK() {
		return st
	}
	index = c.adjust(index)
	if index < 0 {
		index = 0
	}
	c.adopt(ch)
	if index >= len(c.children) {
		c.children = append(c.children, ch)
		return nil
	}
	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = ch
	return nil
}

func (c *compBase) SetChild(index int, obj engine.Composable) *engine.Status {
	index = c.adjust(index)
	if index < 0 || index >= len(c.children) {
		return illegalIndex(index, len(c.children))
	}
	if existing := c.children[index]; obj == engine.Composable(existing) {
		return nil
	}
	ch, st := c.accept(obj)
	if !st.OK() {
		return st
	}
	old := c.children[index]
	c.adopt(ch)
	c.children[index] = ch
	c.orphan(old)
	return nil
}

func (c *compBase) RemoveChild(index int) *engine.Status {
	index = c.adjust(index)
	if index < 0 || index >= len(c.children) {
		return illegalIndex(index, len(c.children))
	}
	old := c.children[index]
	c.children = append(c.children[:index], c.children[index+1:]...)
	c.orphan(old)
	return nil
}

func (c *compBase) ClearChildren() {
	children := c.children
	c.children = nil
	for _, ch := range children {
		c.orphan(ch)
	}
}

func (c *compBase) IndexOfChild(obj engine.Composable) (int, *engine.Status) {
	ch, ok := obj.(child)
	if !ok || ch.core().parentID != c.id {
		return -1, engine.Fail(engine.NotAChildOf, "object is not a child of the composition")
	}
	for i, cur := range c.children {
		if cur == ch {
			return i, nil
		}
	}
	return -1, engine.Fail(engine.InternalError, "parent link without child entry")
}

func (c *compBase) RangeOfChildAtIndex(index int) (engine.TimeRange, *engine.Status) {
	index = c.adjust(index)
	if index < 0 || index >= len(c.children) {
		return engine.TimeRange{}, illegalIndex(index, len(c.children))
	}
	d, st := c.children[index].Duration()
	if !st.OK() {
		return engine.TimeRange{}, st
	}
	start := engine.RationalTime{Rate: d.Rate}
	if c.sequential {
		for _, prev := range c.children[:index] {
			pd, st := prev.Duration()
			if !st.OK() {
				return engine.TimeRange{}, st
			}
			start.Value += rescale(pd, d.Rate).Value
		}
	}
	return engine.TimeRange{Start: start, Duration: d}, nil
}

func (c *compBase) AvailableRange() (engine.TimeRange, *engine.Status) {
	total := engine.RationalTime{Rate: 1}
	for i, ch := range c.children {
		d, st := ch.Duration()
		if !st.OK() {
			return engine.TimeRange{}, st
		}
		if i == 0 {
			total.Rate = d.Rate
		}
		d = rescale(d, total.Rate)
		switch {
		case c.sequential:
			total.Value += d.Value
		case d.Value > total.Value:
			total.Value = d.Value
		}
	}
	return engine.TimeRange{Start: engine.RationalTime{Rate: total.Rate}, Duration: total}, nil
}

func (c *compBase) dispose() {
	c.ClearChildren()
	c.disposeItem()
}

// Track is a sequential composition.
type Track struct {
	compBase
	kind string
}

func (t *Track) Kind() string { return t.kind }

func (t *Track) SetKind(kind string) { t.kind = kind }

// Stack is a layered composition.
type Stack struct {
	compBase
}

// Composition is a plain layered composition.
type Composition struct {
	compBase
}

func rescale(t engine.RationalTime, rate float64) engine.RationalTime {
	if t.Rate == rate || t.Rate <= 0 || rate <= 0 {
		return t
	}
	return engine.RationalTime{Value: t.Value * rate / t.Rate, Rate: rate}
}
