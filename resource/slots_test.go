package resource

import (
	"math"
	"testing"

	"github.com/wippyai/otio-bridge/errors"
)

func TestHandle_Encoding(t *testing.T) {
	h := makeHandle(3, 7)
	if h.Slot() != 3 {
		t.Fatalf("Slot() = %d, want 3", h.Slot())
	}
	if h.Generation() != 7 {
		t.Fatalf("Generation() = %d, want 7", h.Generation())
	}
	if Handle(0).Slot() != -1 {
		t.Fatal("null handle should have no slot")
	}
}

func TestSlots_ReuseBumpsGeneration(t *testing.T) {
	s := newSlots(0)

	h1, _ := s.insert(1, "a")
	s.remove(h1)
	h2, _ := s.insert(1, "b")

	if h1.Slot() != h2.Slot() {
		t.Fatal("expected slot reuse")
	}
	if h2.Generation() != h1.Generation()+1 {
		t.Fatalf("generation %d -> %d", h1.Generation(), h2.Generation())
	}
	if _, state := s.classify(h1); state != slotStale {
		t.Fatal("old generation should classify stale")
	}
	if _, state := s.classify(h2); state != slotLive {
		t.Fatal("new generation should classify live")
	}
}

func TestSlots_RetireAtMaxGeneration(t *testing.T) {
	s := newSlots(0)

	h, _ := s.insert(1, "a")
	s.entries[h.Slot()].gen = math.MaxUint32
	last := makeHandle(h.Slot(), math.MaxUint32)

	s.remove(last)
	if len(s.freeList) != 0 {
		t.Fatal("slot at max generation must be retired")
	}

	next, _ := s.insert(1, "b")
	if next.Slot() == h.Slot() {
		t.Fatal("retired slot was reused")
	}
}

func TestSlots_CorruptFreeListPanics(t *testing.T) {
	s := newSlots(0)
	h, _ := s.insert(1, "a")
	s.freeList = append(s.freeList, h.Slot())

	defer func() {
		r := recover()
		err, ok := r.(*errors.Error)
		if !ok || err.Kind != errors.KindCorrupt {
			t.Fatalf("expected corrupt panic, got %v", r)
		}
	}()
	s.insert(1, "b")
}

func TestSlots_RemoveNonLivePanics(t *testing.T) {
	s := newSlots(0)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	s.remove(makeHandle(0, 1))
}
