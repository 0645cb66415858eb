package bridge

import (
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// Structural mutators never move a token: the composition retains its
// children inside the engine, independent of any handle.

func (b *Bridge) resolvePair(parent, child Handle) (engine.Composition, engine.Composable, error) {
	comp, err := resolveAs[engine.Composition](b, parent, engine.TagComposition)
	if err != nil {
		return nil, nil, err
	}
	c, err := resolveAs[engine.Composable](b, child, engine.TagComposable)
	if err != nil {
		return nil, nil, err
	}
	return comp, c, nil
}

// orphaned fails unless child has no parent yet. Checked before any
// mutation so a violation leaves both trees untouched.
func orphaned(child Handle, c engine.Composable) error {
	if p := c.Parent(); p != nil {
		return errors.AlreadyParented(errors.PhaseDispatch, uint64(child), p.Name())
	}
	return nil
}

func (b *Bridge) AppendChild(parent, child Handle) error {
	comp, c, err := b.resolvePair(parent, child)
	if err != nil {
		return err
	}
	if err := orphaned(child, c); err != nil {
		return err
	}
	return b.check("append_child", parent, comp.AppendChild(c))
}

func (b *Bridge) InsertChild(parent Handle, index int, child Handle) error {
	comp, c, err := b.resolvePair(parent, child)
	if err != nil {
		return err
	}
	if err := orphaned(child, c); err != nil {
		return err
	}
	return b.check("insert_child", parent, comp.InsertChild(index, c))
}

// SetChild replaces the child at index. Setting a child already at that
// index is a no-op.
func (b *Bridge) SetChild(parent Handle, index int, child Handle) error {
	comp, c, err := b.resolvePair(parent, child)
	if err != nil {
		return err
	}
	if p := c.Parent(); p != nil && p != comp {
		return errors.AlreadyParented(errors.PhaseDispatch, uint64(child), p.Name())
	}
	return b.check("set_child", parent, comp.SetChild(index, c))
}

func (b *Bridge) RemoveChild(parent Handle, index int) error {
	comp, err := resolveAs[engine.Composition](b, parent, engine.TagComposition)
	if err != nil {
		return err
	}
	return b.check("remove_child", parent, comp.RemoveChild(index))
}

func (b *Bridge) ClearChildren(parent Handle) error {
	return set(b, parent, engine.TagComposition, engine.Composition.ClearChildren)
}

func (b *Bridge) ChildrenCount(parent Handle) (int, error) {
	return get(b, parent, engine.TagComposition, func(c engine.Composition) int { return len(c.Children()) })
}

// ChildAt returns a new handle to the child at index.
func (b *Bridge) ChildAt(parent Handle, index int) (Handle, error) {
	comp, err := resolveAs[engine.Composition](b, parent, engine.TagComposition)
	if err != nil {
		return 0, err
	}
	children := comp.Children()
	if index < 0 || index >= len(children) {
		return 0, b.check("child_at_index", parent, outOfRange(index, len(children)))
	}
	return b.share(children[index])
}

func (b *Bridge) IndexOfChild(parent, child Handle) (int, error) {
	comp, c, err := b.resolvePair(parent, child)
	if err != nil {
		return -1, err
	}
	i, st := comp.IndexOfChild(c)
	if err := b.check("index_of_child", parent, st); err != nil {
		return -1, err
	}
	return i, nil
}

func (b *Bridge) RangeOfChildAtIndex(parent Handle, index int) (engine.TimeRange, error) {
	comp, err := resolveAs[engine.Composition](b, parent, engine.TagComposition)
	if err != nil {
		return engine.TimeRange{}, err
	}
	r, st := comp.RangeOfChildAtIndex(index)
	if err := b.check("range_of_child_at_index", parent, st); err != nil {
		return engine.TimeRange{}, err
	}
	return r, nil
}
