// Package resource provides the handle table between host code and native
// engine objects.
//
// Handles are opaque 64-bit values standing in for native pointers. The
// host never sees an object reference, only a handle it must explicitly
// give back.
//
// # Handle Table
//
// The Table maps handles to registered values:
//
//	table := resource.NewTable()
//
//	// Register a value, get a handle
//	h, err := table.Register(typeID, value)
//
//	// Resolve; (nil, false) for null, unknown or invalidated handles
//	value, ok := table.Resolve(h)
//
//	// Lookup explains the failure: invalid_handle or stale_handle
//	entry, err := table.Lookup(h)
//
//	// Free the slot; a second call reports double_release
//	value, err := table.Invalidate(h)
//
// # Generations
//
// Slots are reused, but every reuse bumps the slot generation and the
// generation is part of the handle, so an old handle can never alias a new
// object. A slot whose generation would wrap is retired.
//
// Handle 0 is reserved and always invalid.
//
// # Observers
//
// Register observers to track handle lifecycle events:
//
//	unsubscribe := table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    switch e.Type {
//	    case resource.EventRegistered:
//	        log.Printf("handle %d registered", e.Handle)
//	    case resource.EventLeaked:
//	        log.Printf("handle %d leaked", e.Handle)
//	    }
//	}))
//
// # Teardown
//
// Values are not finalized automatically. Close reports every slot still
// occupied as a Leak and leaves the values untouched.
package resource
