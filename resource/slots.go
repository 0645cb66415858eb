package resource

import (
	"math"

	"github.com/wippyai/otio-bridge/errors"
)

// slotState classifies a handle against the slot it points at.
type slotState uint8

const (
	slotLive    slotState = iota // issued at the current generation, occupied
	slotStale                    // issued earlier, since invalidated
	slotUnknown                  // never issued
)

type entry struct {
	value  any
	typeID uint32
	gen    uint32
	valid  bool
}

// slots is the generation-tagged slot storage behind Table.
// It is not synchronized; Table holds the lock.
type slots struct {
	entries  []entry
	freeList []int
	live     int
	max      int
}

func newSlots(max int) *slots {
	return &slots{
		entries:  make([]entry, 0, 64),
		freeList: make([]int, 0, 16),
		max:      max,
	}
}

func (s *slots) insert(typeID uint32, value any) (Handle, bool) {
	if len(s.freeList) > 0 {
		idx := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]

		e := &s.entries[idx]
		if e.valid {
			panic(errors.Corrupt("free list holds occupied slot %d", idx))
		}
		e.gen++
		e.value = value
		e.typeID = typeID
		e.valid = true
		s.live++
		return makeHandle(idx, e.gen), true
	}

	if s.max > 0 && len(s.entries) >= s.max {
		return 0, false
	}
	if len(s.entries) >= math.MaxUint32-1 {
		return 0, false
	}

	s.entries = append(s.entries, entry{
		value:  value,
		typeID: typeID,
		gen:    1,
		valid:  true,
	})
	s.live++
	return makeHandle(len(s.entries)-1, 1), true
}

func (s *slots) classify(h Handle) (*entry, slotState) {
	if h == 0 {
		return nil, slotUnknown
	}
	idx := h.Slot()
	if idx < 0 || idx >= len(s.entries) {
		return nil, slotUnknown
	}
	e := &s.entries[idx]
	gen := h.Generation()
	switch {
	case gen == 0 || gen > e.gen:
		return nil, slotUnknown
	case gen == e.gen && e.valid:
		return e, slotLive
	default:
		return nil, slotStale
	}
}

func (s *slots) remove(h Handle) any {
	e, state := s.classify(h)
	if state != slotLive {
		panic(errors.Corrupt("remove of non-live handle %d", uint64(h)))
	}
	value := e.value
	e.value = nil
	e.typeID = 0
	e.valid = false
	s.live--
	if s.live < 0 {
		panic(errors.Corrupt("live count went negative"))
	}
	// A slot whose generation would wrap is retired so its handles are
	// never reissued.
	if e.gen < math.MaxUint32 {
		s.freeList = append(s.freeList, h.Slot())
	}
	return value
}

func (s *slots) each(fn func(Handle, uint32, any) bool) {
	for i := range s.entries {
		e := &s.entries[i]
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.typeID, e.value) {
				break
			}
		}
	}
}

func (s *slots) reset() {
	s.entries = nil
	s.freeList = nil
	s.live = 0
}
