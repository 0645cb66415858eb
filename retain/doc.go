// Package retain adapts the engine's intrusive reference count to owned
// tokens.
//
// A Token stands for exactly one Retain on an engine object and is undone
// by exactly one Release. Deletion is never requested directly: dropping
// the last reference hands control to the engine's own release path.
//
// Freshly constructed objects are taken with Adopt, which insists the
// object has no owner yet, so the adopted token is the only owner between
// construction and hand-off:
//
//	clip := eng.NewClip("A", nil, nil)
//	tok, err := retain.Adopt(clip)
//
// Objects reached through another owner (a composition's child, a clip's
// media reference) are taken with Acquire:
//
//	tok, err := retain.Acquire(track.Children()[0])
//
// Typed views are checked:
//
//	clip, ok := retain.Get[engine.Clip](tok)
package retain
