package engine

// Factory allocates fresh objects. A fresh object has a reference count of
// zero and belongs to nobody until it is retained.
type Factory interface {
	NewClip(name string, ref MediaReference, sourceRange *TimeRange) Clip
	NewGap(name string, sourceRange *TimeRange) Gap
	NewTrack(name, kind string) Track
	NewStack(name string) Stack
	NewComposition(name string) Composition
	NewTimeline(name string) Timeline
	NewExternalReference(targetURL string, availableRange *TimeRange) ExternalReference
	NewMissingReference() MissingReference
	NewEffect(name, effectName string) Effect
	NewMarker(name string, markedRange TimeRange, color string) Marker
}

// Serializer converts objects to and from the engine's JSON schema.
type Serializer interface {
	ToJSON(obj Object, indent int) (string, *Status)
	// FromJSON returns a fresh root object with a reference count of zero.
	FromJSON(data string) (Object, *Status)
}

// Editor runs the engine's editing algorithms.
type Editor interface {
	Trim(item Item, deltaIn, deltaOut RationalTime) *Status
	Slip(item Item, delta RationalTime) *Status
	Slide(item Item, delta RationalTime) *Status
	Insert(item Item, into Composition, at RationalTime) *Status
	Overwrite(item Item, into Composition, r TimeRange) *Status
}

// Engine is the full capability set the bridge consumes.
type Engine interface {
	Factory
	Serializer
	Editor
}
