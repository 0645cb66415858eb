package resource

// Handle is an opaque reference to a slot in a Table.
// Handle 0 is reserved and always invalid. The low 32 bits hold the slot
// index plus one, the high 32 bits hold the slot generation.
type Handle uint64

// Slot returns the zero-based slot index, or -1 for the null handle.
func (h Handle) Slot() int {
	return int(uint32(h)) - 1
}

// Generation returns the generation the handle was issued at.
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

func makeHandle(slot int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(uint32(slot+1)))
}

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventInvalidated
	EventLeaked
)

func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "registered"
	case EventInvalidated:
		return "invalidated"
	case EventLeaked:
		return "leaked"
	}
	return "unknown"
}

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }

// Entry is a resolved slot.
type Entry struct {
	Value  any
	Handle Handle
	TypeID uint32
}

// Leak describes a slot still occupied when the table was closed.
type Leak struct {
	Value  any
	Handle Handle
	TypeID uint32
}
