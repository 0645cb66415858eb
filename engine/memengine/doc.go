// Package memengine is an in-memory implementation of the engine contract.
//
// It models the object graph closely enough to exercise a bridge:
//
//   - intrusive reference counts, with deletion on the last Release and
//     cascading release of children, media references, effects and markers
//   - parent links stored as object ids resolved through the engine's
//     registry, never as counted pointers
//   - the "at most one parent" rule and cycle detection on every
//     structural mutation
//   - JSON serialization in the OTIO_SCHEMA tagged format
//
// Metadata values other than strings and bools are kept as the raw JSON
// they were decoded from. They show up in HasKey and Keys and are written
// back unchanged, but have no typed accessor.
//
// Editing is simplified: Trim, Slip and Slide adjust source ranges in place
// without filling or rippling neighbours, and Insert and Overwrite report
// NOT_IMPLEMENTED.
//
// An Engine is not safe for concurrent use.
package memengine
