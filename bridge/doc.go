// Package bridge exposes reference-counted engine objects to a host runtime
// through opaque handles.
//
// # Handles and Tokens
//
// Every handle owns exactly one retain token on its object. Constructors
// adopt the fresh object, so the handle is its only owner:
//
//	b := bridge.New(memengine.New())
//	clip, err := b.CreateClip("A", nil)
//	track, err := b.CreateTrack("V1", "Video")
//
// Accessors that return objects (ChildAt, Parent, MediaReference, EffectAt,
// MarkerAt, TimelineTracks) issue a new handle with its own token. The host
// deletes every handle it receives:
//
//	child, err := b.ChildAt(track, 0)
//	defer b.Delete(child)
//
// A missing optional object is reported as the null handle with no error.
//
// # Resolution
//
// Each operation resolves its handles and checks the dynamic type before
// calling the engine:
//
//	_, err := b.TrackKind(clip)
//	errors.Is(err, errors.ErrTypeMismatch) // true
//
// Failures are never turned into zero values.
//
// # Structure
//
// A composable has at most one parent. AppendChild, InsertChild and
// SetChild refuse a child that already has a parent before touching either
// tree. Structural edges are counted inside the engine; no token moves.
//
// # Lifecycle
//
// Handles move Live → PendingRelease → Freed. Delete releases the token and
// frees the handle. Any later operation on the handle fails with
// stale_handle, and a second Delete fails with double_release. Close reports
// every handle still live as a Leak without releasing it.
//
// # Threading
//
// A Bridge is not safe for concurrent use. Hosts with several threads route
// calls through a Queue:
//
//	q := bridge.NewQueue(b, bridge.QueueConfig{})
//	err := q.Do(ctx, func(b *bridge.Bridge) error {
//	    return b.AppendChild(track, clip)
//	})
package bridge
