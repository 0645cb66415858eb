package resource

import (
	"sync"

	"github.com/wippyai/otio-bridge/errors"
)

// Config tunes a Table.
type Config struct {
	// MaxHandles caps the number of slots. 0 means unlimited.
	MaxHandles int
}

// Table maps opaque handles to registered values.
// It is the single source of truth for whether a handle is still valid.
type Table struct {
	slots     *slots
	observers map[int]Observer
	nextObs   int
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table with default configuration.
func NewTable() *Table {
	return NewTableWithConfig(Config{})
}

// NewTableWithConfig creates an empty table.
func NewTableWithConfig(cfg Config) *Table {
	return &Table{
		slots:     newSlots(cfg.MaxHandles),
		observers: make(map[int]Observer),
	}
}

// Register stores value and returns a fresh, non-zero handle.
func (t *Table) Register(typeID uint32, value any) (Handle, error) {
	if value == nil {
		return 0, errors.InvalidInput(errors.PhaseRegister, "cannot register nil value")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, errors.Closed(errors.PhaseRegister, "handle table")
	}
	h, ok := t.slots.insert(typeID, value)
	t.mu.Unlock()

	if !ok {
		return 0, errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Detail("handle table full").
			Build()
	}

	t.notify(Event{
		Type:   EventRegistered,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})
	return h, nil
}

// Resolve returns the value for a live handle. The null handle, unknown
// handles and invalidated handles all yield (nil, false).
func (t *Table) Resolve(h Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, state := t.slots.classify(h)
	if state != slotLive {
		return nil, false
	}
	return e.value, true
}

// Lookup resolves a handle and explains why it failed.
func (t *Table) Lookup(h Handle) (Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Entry{}, errors.Closed(errors.PhaseResolve, "handle table")
	}

	e, state := t.slots.classify(h)
	switch state {
	case slotLive:
		return Entry{Handle: h, TypeID: e.typeID, Value: e.value}, nil
	case slotStale:
		return Entry{}, errors.StaleHandle(errors.PhaseResolve, uint64(h))
	default:
		return Entry{}, errors.InvalidHandle(errors.PhaseResolve, uint64(h))
	}
}

// Invalidate frees the slot behind h and returns its value.
// Invalidating a handle twice reports a double release.
func (t *Table) Invalidate(h Handle) (any, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, errors.Closed(errors.PhaseRelease, "handle table")
	}

	e, state := t.slots.classify(h)
	switch state {
	case slotStale:
		t.mu.Unlock()
		return nil, errors.DoubleRelease(errors.PhaseRelease, uint64(h))
	case slotUnknown:
		t.mu.Unlock()
		return nil, errors.InvalidHandle(errors.PhaseRelease, uint64(h))
	}

	typeID := e.typeID
	value := t.slots.remove(h)
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventInvalidated,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})
	return value, nil
}

// TypeID returns the type ID a live handle was registered with.
func (t *Table) TypeID(h Handle) (uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, state := t.slots.classify(h)
	if state != slotLive {
		return 0, false
	}
	return e.typeID, true
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slots.live
}

// Each iterates over live handles until fn returns false.
// fn must not call back into the table.
func (t *Table) Each(fn func(Handle, uint32, any) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots.each(fn)
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it.
func (t *Table) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	id := t.nextObs
	t.nextObs++
	t.observers[id] = o
	t.obsMu.Unlock()

	return func() {
		t.obsMu.Lock()
		delete(t.observers, id)
		t.obsMu.Unlock()
	}
}

// Close stops accepting operations and reports every slot still occupied.
// Leaked values are not finalized.
func (t *Table) Close() []Leak {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var leaks []Leak
	t.slots.each(func(h Handle, typeID uint32, value any) bool {
		leaks = append(leaks, Leak{Handle: h, TypeID: typeID, Value: value})
		return true
	})
	t.slots.reset()
	t.mu.Unlock()

	for _, l := range leaks {
		t.notify(Event{
			Type:   EventLeaked,
			Handle: l.Handle,
			TypeID: l.TypeID,
			Value:  l.Value,
		})
	}
	return leaks
}

// Closed reports whether Close has been called.
func (t *Table) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
