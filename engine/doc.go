// Package engine defines the capability contract of a timeline engine.
//
// The engine owns the data model: composition trees, time-range algebra,
// the JSON schema and the editing algorithms. Callers see objects only
// through the interfaces in this package.
//
// # Type Hierarchy
//
// Every object carries a TypeTag. Tags form a closed hierarchy:
//
//	SerializableObject
//	└── SerializableObjectWithMetadata
//	    ├── Composable
//	    │   └── Item
//	    │       ├── Clip
//	    │       ├── Gap
//	    │       └── Composition
//	    │           ├── Track
//	    │           └── Stack
//	    ├── Timeline
//	    ├── MediaReference
//	    │   ├── ExternalReference
//	    │   └── MissingReference
//	    ├── Effect
//	    └── Marker
//
// Narrowing is checked with IsA before any type assertion:
//
//	if obj.Tag().IsA(engine.TagComposition) {
//	    comp := obj.(engine.Composition)
//	}
//
// # Reference Counting
//
// Counts are intrusive. Factories return objects with a count of zero.
// Containment edges (a composition holding a child, a clip holding its
// media reference) are counted inside the engine. An object is deleted
// by the Release that drops its count to zero.
//
// # Status
//
// Fallible operations return a *Status. nil or an OK outcome means success.
package engine
