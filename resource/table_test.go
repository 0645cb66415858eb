package resource

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/wippyai/otio-bridge/errors"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnHandleEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	// Register
	h, err := table.Register(1, "test")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Resolve
	val, ok := table.Resolve(h)
	if !ok {
		t.Fatal("Resolve failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	typeID, ok := table.TypeID(h)
	if !ok || typeID != 1 {
		t.Fatalf("TypeID = %d, %v", typeID, ok)
	}

	// Invalidate
	val, err = table.Invalidate(h)
	if err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if _, ok := table.Resolve(h); ok {
		t.Fatal("Expected Resolve to fail after Invalidate")
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Invalidate")
	}
}

func TestTable_RegisterNil(t *testing.T) {
	table := NewTable()

	_, err := table.Register(1, nil)
	if !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Expected invalid input, got %v", err)
	}
}

func TestTable_Sentinel(t *testing.T) {
	table := NewTable()

	if _, ok := table.Resolve(0); ok {
		t.Fatal("Handle 0 should never resolve")
	}
	if _, err := table.Lookup(0); !stderrors.Is(err, errors.ErrInvalidHandle) {
		t.Fatalf("Lookup(0) = %v, want invalid handle", err)
	}
	if _, err := table.Invalidate(0); !stderrors.Is(err, errors.ErrInvalidHandle) {
		t.Fatalf("Invalidate(0) = %v, want invalid handle", err)
	}
	if stderrors.Is(mustErr(table.Lookup(0)), errors.ErrStaleHandle) {
		t.Fatal("sentinel must not be reported stale")
	}
}

func TestTable_LookupClassification(t *testing.T) {
	table := NewTable()

	h, _ := table.Register(1, "a")
	if _, err := table.Lookup(h); err != nil {
		t.Fatalf("Lookup live handle: %v", err)
	}

	if _, err := table.Invalidate(h); err != nil {
		t.Fatal(err)
	}

	_, err := table.Lookup(h)
	if errors.KindOf(err) != errors.KindStaleHandle {
		t.Fatalf("Lookup after Invalidate = %v, want stale", err)
	}

	// Same slot, generation never issued
	future := makeHandle(h.Slot(), h.Generation()+5)
	if errors.KindOf(mustErr(table.Lookup(future))) != errors.KindInvalidHandle {
		t.Fatal("future generation should be invalid, not stale")
	}

	// Slot never allocated
	if errors.KindOf(mustErr(table.Lookup(makeHandle(99, 1)))) != errors.KindInvalidHandle {
		t.Fatal("unallocated slot should be invalid")
	}
}

func TestTable_DoubleInvalidate(t *testing.T) {
	table := NewTable()

	h, _ := table.Register(1, "a")
	if _, err := table.Invalidate(h); err != nil {
		t.Fatal(err)
	}

	_, err := table.Invalidate(h)
	if !stderrors.Is(err, errors.ErrDoubleRelease) {
		t.Fatalf("second Invalidate = %v, want double release", err)
	}

	// Still a double release once the slot has been reused.
	h2, _ := table.Register(1, "b")
	if h2.Slot() != h.Slot() {
		t.Fatalf("expected slot reuse, got %d vs %d", h2.Slot(), h.Slot())
	}
	if _, err := table.Invalidate(h); !stderrors.Is(err, errors.ErrDoubleRelease) {
		t.Fatalf("Invalidate of old generation = %v, want double release", err)
	}
	if v, ok := table.Resolve(h2); !ok || v != "b" {
		t.Fatal("new handle must be unaffected")
	}
}

func TestTable_NoHandleReuse(t *testing.T) {
	table := NewTable()
	seen := make(map[Handle]bool)

	for i := 0; i < 100; i++ {
		h, err := table.Register(1, i)
		if err != nil {
			t.Fatal(err)
		}
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
		if _, err := table.Invalidate(h); err != nil {
			t.Fatal(err)
		}
	}
}

func TestTable_MaxHandles(t *testing.T) {
	table := NewTableWithConfig(Config{MaxHandles: 2})

	h1, _ := table.Register(1, "a")
	if _, err := table.Register(1, "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Register(1, "c"); err == nil {
		t.Fatal("expected table full")
	}

	// Freed slots are usable again
	if _, err := table.Invalidate(h1); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Register(1, "c"); err != nil {
		t.Fatalf("Register after free: %v", err)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	unsubscribe := table.Subscribe(obs)

	h, _ := table.Register(1, "test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventRegistered {
		t.Fatal("Expected EventRegistered")
	}
	if obs.events[0].Handle != h {
		t.Fatal("Wrong handle in event")
	}

	table.Invalidate(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventInvalidated {
		t.Fatal("Expected EventInvalidated")
	}

	// Failed invalidation is not an event
	table.Invalidate(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected no event for double release, got %d", len(obs.events))
	}

	unsubscribe()
	table.Register(1, "other")
	if len(obs.events) != 2 {
		t.Fatal("Expected no events after unsubscribe")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable()
	var count int
	unsubscribe := table.Subscribe(ObserverFunc(func(Event) { count++ }))
	defer unsubscribe()

	table.Register(1, "a")
	if count != 1 {
		t.Fatalf("count = %d", count)
	}
}

func TestTable_CloseReportsLeaks(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h1, _ := table.Register(1, "a")
	h2, _ := table.Register(2, "b")
	table.Invalidate(h1)

	leaks := table.Close()
	if len(leaks) != 1 {
		t.Fatalf("Expected 1 leak, got %d", len(leaks))
	}
	if leaks[0].Handle != h2 || leaks[0].TypeID != 2 || leaks[0].Value != "b" {
		t.Fatalf("unexpected leak %+v", leaks[0])
	}

	last := obs.events[len(obs.events)-1]
	if last.Type != EventLeaked || last.Handle != h2 {
		t.Fatalf("expected leak event, got %+v", last)
	}

	if !table.Closed() {
		t.Fatal("Closed() should be true")
	}
	if _, err := table.Register(1, "c"); !stderrors.Is(err, errors.ErrClosed) {
		t.Fatalf("Register after Close = %v", err)
	}
	if _, err := table.Lookup(h2); !stderrors.Is(err, errors.ErrClosed) {
		t.Fatalf("Lookup after Close = %v", err)
	}
	if leaks := table.Close(); leaks != nil {
		t.Fatal("second Close should report nothing")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()

	table.Register(1, "a")
	table.Register(2, "b")
	table.Register(1, "c")

	count := 0
	table.Each(func(h Handle, typeID uint32, value any) bool {
		count++
		return true
	})
	if count != 3 {
		t.Fatalf("Expected to iterate over 3 items, got %d", count)
	}

	count = 0
	table.Each(func(h Handle, typeID uint32, value any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Expected to iterate over 1 item (early term), got %d", count)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, err := table.Register(1, id)
			if err != nil {
				t.Error(err)
				return
			}
			table.Resolve(h)
			if _, err := table.Invalidate(h); err != nil {
				t.Error(err)
			}
		}(i)
	}

	wg.Wait()
	if table.Len() != 0 {
		t.Fatalf("Len() = %d after concurrent churn", table.Len())
	}
}

func mustErr(_ Entry, err error) error {
	return err
}
