package bridge

import (
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// Each constructor adopts the fresh object, so the returned handle holds
// the only reference to it. Ranges are checked before the engine sees them.

func validRange(name string, r engine.TimeRange) error {
	if !r.Valid() {
		return errors.InvalidInput(errors.PhaseDispatch, name+" must have a positive rate and non-negative duration")
	}
	return nil
}

func validOptRange(name string, r *engine.TimeRange) error {
	if r == nil {
		return nil
	}
	return validRange(name, *r)
}

func (b *Bridge) CreateClip(name string, sourceRange *engine.TimeRange) (Handle, error) {
	if err := validOptRange("source range", sourceRange); err != nil {
		return 0, err
	}
	return b.adopt(b.eng.NewClip(name, nil, sourceRange))
}

func (b *Bridge) CreateGap(name string, sourceRange *engine.TimeRange) (Handle, error) {
	if err := validOptRange("source range", sourceRange); err != nil {
		return 0, err
	}
	return b.adopt(b.eng.NewGap(name, sourceRange))
}

func (b *Bridge) CreateTrack(name, kind string) (Handle, error) {
	return b.adopt(b.eng.NewTrack(name, kind))
}

func (b *Bridge) CreateStack(name string) (Handle, error) {
	return b.adopt(b.eng.NewStack(name))
}

func (b *Bridge) CreateComposition(name string) (Handle, error) {
	return b.adopt(b.eng.NewComposition(name))
}

func (b *Bridge) CreateTimeline(name string) (Handle, error) {
	return b.adopt(b.eng.NewTimeline(name))
}

func (b *Bridge) CreateExternalReference(targetURL string, availableRange *engine.TimeRange) (Handle, error) {
	if err := validOptRange("available range", availableRange); err != nil {
		return 0, err
	}
	return b.adopt(b.eng.NewExternalReference(targetURL, availableRange))
}

func (b *Bridge) CreateMissingReference() (Handle, error) {
	return b.adopt(b.eng.NewMissingReference())
}

func (b *Bridge) CreateEffect(name, effectName string) (Handle, error) {
	return b.adopt(b.eng.NewEffect(name, effectName))
}

func (b *Bridge) CreateMarker(name string, markedRange engine.TimeRange, color string) (Handle, error) {
	if err := validRange("marked range", markedRange); err != nil {
		return 0, err
	}
	return b.adopt(b.eng.NewMarker(name, markedRange, color))
}
