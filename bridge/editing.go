package bridge

import (
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// Editing algorithms run inside the engine. The bridge validates handles
// and time values, then forwards.

func validTime(name string, t engine.RationalTime) error {
	if !t.Valid() {
		return errors.InvalidInput(errors.PhaseDispatch, name+" must be finite with a positive rate")
	}
	return nil
}

func (b *Bridge) Trim(item Handle, deltaIn, deltaOut engine.RationalTime) error {
	if err := validTime("delta_in", deltaIn); err != nil {
		return err
	}
	if err := validTime("delta_out", deltaOut); err != nil {
		return err
	}
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	return b.check("trim", item, b.eng.Trim(i, deltaIn, deltaOut))
}

func (b *Bridge) Slip(item Handle, delta engine.RationalTime) error {
	if err := validTime("delta", delta); err != nil {
		return err
	}
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	return b.check("slip", item, b.eng.Slip(i, delta))
}

func (b *Bridge) Slide(item Handle, delta engine.RationalTime) error {
	if err := validTime("delta", delta); err != nil {
		return err
	}
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	return b.check("slide", item, b.eng.Slide(i, delta))
}

func (b *Bridge) Insert(item, into Handle, at engine.RationalTime) error {
	if err := validTime("time", at); err != nil {
		return err
	}
	i, comp, err := b.resolveEdit(item, into)
	if err != nil {
		return err
	}
	return b.check("insert", item, b.eng.Insert(i, comp, at))
}

func (b *Bridge) Overwrite(item, into Handle, r engine.TimeRange) error {
	if err := validRange("range", r); err != nil {
		return err
	}
	i, comp, err := b.resolveEdit(item, into)
	if err != nil {
		return err
	}
	return b.check("overwrite", item, b.eng.Overwrite(i, comp, r))
}

func (b *Bridge) resolveEdit(item, into Handle) (engine.Item, engine.Composition, error) {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return nil, nil, err
	}
	comp, err := resolveAs[engine.Composition](b, into, engine.TagComposition)
	if err != nil {
		return nil, nil, err
	}
	return i, comp, nil
}
