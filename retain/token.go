package retain

import (
	"sync/atomic"

	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

var outstanding atomic.Int64

// Token is one counted reference to an engine object.
// A token is released exactly once.
type Token struct {
	obj      engine.Object
	released bool
}

// Adopt takes ownership of a freshly constructed object. The object must
// have a count of zero; the returned token is its only owner.
func Adopt(obj engine.Object) (*Token, error) {
	if obj == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "cannot adopt nil object")
	}
	if n := obj.RefCount(); n != 0 {
		return nil, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Type(obj.SchemaName()).
			Detail("adopt requires a fresh object, count is %d", n).
			Build()
	}
	return take(obj), nil
}

// Acquire adds a reference to an object that is already owned, such as a
// child held by its composition.
func Acquire(obj engine.Object) (*Token, error) {
	if obj == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "cannot acquire nil object")
	}
	if obj.RefCount() <= 0 {
		return nil, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Type(obj.SchemaName()).
			Detail("acquire requires an owned object, use Adopt for fresh objects").
			Build()
	}
	return take(obj), nil
}

func take(obj engine.Object) *Token {
	obj.Retain()
	outstanding.Add(1)
	return &Token{obj: obj}
}

// Object returns the referenced object, or nil once released.
func (t *Token) Object() engine.Object {
	if t == nil || t.released {
		return nil
	}
	return t.obj
}

// Released reports whether Release has been called.
func (t *Token) Released() bool {
	return t == nil || t.released
}

// RefCount returns the object's current count, or 0 once released.
func (t *Token) RefCount() int {
	if t.Released() {
		return 0
	}
	return t.obj.RefCount()
}

// Release drops the reference. If it was the last one, the engine deletes
// the object and deleted is true.
func (t *Token) Release() (deleted bool, err error) {
	if t == nil {
		return false, errors.InvalidInput(errors.PhaseRelease, "nil token")
	}
	if t.released {
		return false, errors.New(errors.PhaseRelease, errors.KindDoubleRelease).
			Type(t.obj.SchemaName()).
			Detail("token already released").
			Build()
	}
	t.released = true
	outstanding.Add(-1)
	return t.obj.Release(), nil
}

// Get returns the token's object as T.
func Get[T engine.Object](t *Token) (T, bool) {
	var zero T
	obj := t.Object()
	if obj == nil {
		return zero, false
	}
	v, ok := obj.(T)
	return v, ok
}

// Outstanding returns the number of unreleased tokens in the process.
func Outstanding() int64 {
	return outstanding.Load()
}
