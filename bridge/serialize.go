package bridge

import (
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// ToJSON returns the engine's serialization of the object behind h. The
// document is not interpreted here.
func (b *Bridge) ToJSON(h Handle, indent int) (string, error) {
	obj, err := b.resolve(h, engine.TagSerializableObject)
	if err != nil {
		return "", err
	}
	s, st := b.eng.ToJSON(obj, indent)
	if err := b.check("to_json_string", h, st); err != nil {
		return "", err
	}
	return s, nil
}

// FromJSON decodes a document and returns a handle to its root.
func (b *Bridge) FromJSON(data string) (Handle, error) {
	if data == "" {
		return 0, errors.InvalidInput(errors.PhaseDispatch, "empty JSON document")
	}
	obj, st := b.eng.FromJSON(data)
	if err := b.check("from_json_string", 0, st); err != nil {
		return 0, err
	}
	return b.adopt(obj)
}
