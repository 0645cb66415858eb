package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// State is the lifecycle state of a handle.
type State uint8

const (
	StateUnknown State = iota
	StateLive
	StatePendingRelease
	StateFreed
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StatePendingRelease:
		return "pending_release"
	case StateFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// Leak describes a handle the host never deleted.
type Leak struct {
	Schema   string
	Handle   Handle
	RefCount int
}

// State reports where h is in its lifecycle. Never-issued handles and the
// null handle are StateUnknown.
func (b *Bridge) State(h Handle) State {
	e, err := b.table.Lookup(h)
	switch {
	case err == nil:
		return e.Value.(*binding).state
	case errors.KindOf(err) == errors.KindStaleHandle:
		return StateFreed
	default:
		return StateUnknown
	}
}

// Delete releases the handle's token and frees the handle. Deleting a freed
// handle reports a double release.
func (b *Bridge) Delete(h Handle) error {
	return b.release(h, engine.TagSerializableObject)
}

func (b *Bridge) DeleteClip(h Handle) error     { return b.release(h, engine.TagClip) }
func (b *Bridge) DeleteGap(h Handle) error      { return b.release(h, engine.TagGap) }
func (b *Bridge) DeleteTrack(h Handle) error    { return b.release(h, engine.TagTrack) }
func (b *Bridge) DeleteStack(h Handle) error    { return b.release(h, engine.TagStack) }
func (b *Bridge) DeleteTimeline(h Handle) error { return b.release(h, engine.TagTimeline) }
func (b *Bridge) DeleteEffect(h Handle) error   { return b.release(h, engine.TagEffect) }
func (b *Bridge) DeleteMarker(h Handle) error   { return b.release(h, engine.TagMarker) }

func (b *Bridge) DeleteComposition(h Handle) error {
	return b.release(h, engine.TagComposition)
}

func (b *Bridge) DeleteExternalReference(h Handle) error {
	return b.release(h, engine.TagExternalReference)
}

func (b *Bridge) DeleteMissingReference(h Handle) error {
	return b.release(h, engine.TagMissingReference)
}

func (b *Bridge) release(h Handle, want engine.TypeTag) error {
	e, err := b.table.Lookup(h)
	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindStaleHandle:
			return errors.DoubleRelease(errors.PhaseRelease, uint64(h))
		case errors.KindInvalidHandle:
			return errors.InvalidHandle(errors.PhaseRelease, uint64(h))
		}
		return err
	}

	bd := e.Value.(*binding)
	obj := bd.tok.Object()
	if !obj.Tag().IsA(want) {
		return errors.TypeMismatch(errors.PhaseRelease, uint64(h), obj.SchemaName(), want.String())
	}
	schema := obj.SchemaName()

	bd.state = StatePendingRelease
	deleted, err := bd.tok.Release()
	if err != nil {
		panic(errors.Corrupt("handle %d holds a released token", h))
	}
	if _, err := b.table.Invalidate(h); err != nil {
		panic(errors.Corrupt("handle %d vanished during release: %v", h, err))
	}
	bd.state = StateFreed

	b.log.Debug("handle deleted",
		zap.Uint64("handle", uint64(h)),
		zap.String("schema", schema),
		zap.Bool("object_deleted", deleted))
	return nil
}

// Len returns the number of live handles.
func (b *Bridge) Len() int {
	return b.table.Len()
}

// Closed reports whether Close has been called.
func (b *Bridge) Closed() bool {
	return b.table.Closed()
}

// Close tears the bridge down and reports every handle still live. Leaked
// objects keep their tokens; nothing is finalized behind the host's back.
// Subsequent operations fail with a closed error.
func (b *Bridge) Close() []Leak {
	leaked := b.table.Close()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}

	leaks := make([]Leak, 0, len(leaked))
	for _, l := range leaked {
		bd := l.Value.(*binding)
		leak := Leak{
			Handle: l.Handle,
			Schema: engine.TypeTag(l.TypeID).String(),
		}
		if obj := bd.tok.Object(); obj != nil {
			leak.RefCount = obj.RefCount()
		}
		leaks = append(leaks, leak)

		b.log.Warn("handle leaked",
			zap.Uint64("handle", uint64(leak.Handle)),
			zap.String("schema", leak.Schema),
			zap.Int("refcount", leak.RefCount))
	}
	return leaks
}
