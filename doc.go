// Package otiobridge exposes an intrusively reference-counted timeline
// engine to foreign host runtimes through opaque, generation-tagged handles.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	otiobridge/          Process-wide bridge: Load, Default, Unload
//	├── bridge/          Typed dispatch surface, lifecycle states, call queue
//	├── resource/        Generation-tagged handle table
//	├── retain/          Retain tokens adopting engine references
//	├── engine/          Engine contract: type tags, objects, status, time values
//	│   └── memengine/   In-memory reference engine
//	├── wasmhost/        wazero host module exporting the bridge to WASM guests
//	├── scenario/        YAML scripted host calls
//	├── errors/          Structured error taxonomy and host status codes
//	└── cmd/otio/        Scenario runner and interactive console
//
// # Quick Start
//
// Load the process-wide bridge once and unload it at shutdown:
//
//	b, err := otiobridge.Load(memengine.New(), otiobridge.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer func() {
//	    for _, leak := range otiobridge.Unload() {
//	        log.Printf("leaked %s handle %d", leak.Schema, leak.Handle)
//	    }
//	}()
//
//	track, _ := b.CreateTrack("V1", "Video")
//	clip, _ := b.CreateClip("A", nil)
//	if err := b.AppendChild(track, clip); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handles
//
// A handle is a uint64 whose low half names a slot and whose high half is
// the slot generation. Handle 0 is never issued. Freed handles stay
// distinguishable from never-issued ones, so use after delete reports
// stale_handle and a second delete reports double_release.
//
// # WASM Guests
//
// wasmhost registers the bridge as the "otio" host module:
//
//	host := wasmhost.New(b, wasmhost.Config{})
//	if _, err := host.Instantiate(ctx, rt); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Errors are *errors.Error values carrying a phase and kind:
//
//	if errors.Is(err, errors.ErrAlreadyParented) {
//	    // the child stays with its first parent
//	}
package otiobridge
