package engine

// Object is the root of every engine entity. Its lifetime is governed by an
// intrusive reference count owned by the engine; there is no destructor to
// call. Release deletes the object when the count reaches zero.
type Object interface {
	Tag() TypeTag
	SchemaName() string
	SchemaVersion() int

	Retain()
	// Release drops one reference and reports whether the object was deleted.
	Release() (deleted bool)
	RefCount() int
}

// Dictionary is a view of an object's metadata. Values are typed; a lookup
// with the wrong accessor reports not found.
type Dictionary interface {
	HasKey(key string) bool
	GetString(key string) (string, bool)
	SetString(key, value string)
	GetBool(key string) (bool, bool)
	SetBool(key string, value bool)
	Keys() []string
}

// MetadataObject is an object carrying a name and a metadata dictionary.
type MetadataObject interface {
	Object
	Name() string
	SetName(name string)
	Metadata() Dictionary
}

// Composable is a node that can sit inside a Composition.
type Composable interface {
	MetadataObject
	// Parent returns the containing composition, or nil. The link is weak.
	Parent() Composition
	// Visible reports whether the node shows when its composition renders.
	Visible() bool
	// Overlapping reports whether the node overlaps its neighbours in time.
	Overlapping() bool
}

// Item is a composable with a time extent.
type Item interface {
	Composable
	Enabled() bool
	SetEnabled(enabled bool)
	SourceRange() (TimeRange, bool)
	// SetSourceRange replaces the source range; nil clears it.
	SetSourceRange(r *TimeRange)
	Duration() (RationalTime, *Status)
	AvailableRange() (TimeRange, *Status)

	Effects() []Effect
	AppendEffect(e Effect)
	RemoveEffect(index int) *Status
	Markers() []Marker
	AppendMarker(m Marker)
	RemoveMarker(index int) *Status
}

// Clip is an item backed by a media reference.
type Clip interface {
	Item
	// MediaReference returns the attached reference, or nil.
	MediaReference() MediaReference
	SetMediaReference(ref MediaReference)
}

// Gap is an item holding empty time.
type Gap interface {
	Item
}

// Composition is an item holding an ordered list of children. Structural
// mutators retain the child and set its parent link.
type Composition interface {
	Item
	CompositionKind() string
	Children() []Composable
	AppendChild(child Composable) *Status
	InsertChild(index int, child Composable) *Status
	SetChild(index int, child Composable) *Status
	RemoveChild(index int) *Status
	ClearChildren()
	IndexOfChild(child Composable) (int, *Status)
	RangeOfChildAtIndex(index int) (TimeRange, *Status)
}

// Track is a sequential composition.
type Track interface {
	Composition
	Kind() string
	SetKind(kind string)
}

// Stack is a layered composition.
type Stack interface {
	Composition
}

// Timeline is the top-level object owning a stack of tracks.
type Timeline interface {
	MetadataObject
	Tracks() Stack
	SetTracks(tracks Stack)
	GlobalStartTime() (RationalTime, bool)
	SetGlobalStartTime(t *RationalTime)
	Duration() (RationalTime, *Status)
}

// MediaReference describes where a clip's media lives.
type MediaReference interface {
	MetadataObject
	IsMissingReference() bool
	AvailableRange() (TimeRange, bool)
	SetAvailableRange(r *TimeRange)
}

// ExternalReference points at media by URL.
type ExternalReference interface {
	MediaReference
	TargetURL() string
	SetTargetURL(url string)
}

// MissingReference stands in for media that cannot be located.
type MissingReference interface {
	MediaReference
}

// Effect is a named effect attached to an item.
type Effect interface {
	MetadataObject
	EffectName() string
	SetEffectName(name string)
	Enabled() bool
	SetEnabled(enabled bool)
}

// Marker annotates a range of an item.
type Marker interface {
	MetadataObject
	Color() string
	SetColor(color string)
	Comment() string
	SetComment(comment string)
	MarkedRange() TimeRange
	SetMarkedRange(r TimeRange)
}
