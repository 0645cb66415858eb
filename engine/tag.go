package engine

// TypeTag identifies the dynamic schema type of an engine object.
// Tags form a closed single-inheritance hierarchy; IsA walks it.
type TypeTag uint8

const (
	TagInvalid TypeTag = iota
	TagSerializableObject
	TagSerializableObjectWithMetadata
	TagComposable
	TagItem
	TagComposition
	TagClip
	TagGap
	TagTrack
	TagStack
	TagTimeline
	TagMediaReference
	TagExternalReference
	TagMissingReference
	TagEffect
	TagMarker
	tagCount
)

var tagParents = [tagCount]TypeTag{
	TagSerializableObjectWithMetadata: TagSerializableObject,
	TagComposable:                     TagSerializableObjectWithMetadata,
	TagItem:                           TagComposable,
	TagComposition:                    TagItem,
	TagClip:                           TagItem,
	TagGap:                            TagItem,
	TagTrack:                          TagComposition,
	TagStack:                          TagComposition,
	TagTimeline:                       TagSerializableObjectWithMetadata,
	TagMediaReference:                 TagSerializableObjectWithMetadata,
	TagExternalReference:              TagMediaReference,
	TagMissingReference:               TagMediaReference,
	TagEffect:                         TagSerializableObjectWithMetadata,
	TagMarker:                         TagSerializableObjectWithMetadata,
}

var tagNames = [tagCount]string{
	TagInvalid:                        "Invalid",
	TagSerializableObject:             "SerializableObject",
	TagSerializableObjectWithMetadata: "SerializableObjectWithMetadata",
	TagComposable:                     "Composable",
	TagItem:                           "Item",
	TagComposition:                    "Composition",
	TagClip:                           "Clip",
	TagGap:                            "Gap",
	TagTrack:                          "Track",
	TagStack:                          "Stack",
	TagTimeline:                       "Timeline",
	TagMediaReference:                 "MediaReference",
	TagExternalReference:              "ExternalReference",
	TagMissingReference:               "MissingReference",
	TagEffect:                         "Effect",
	TagMarker:                         "Marker",
}

// String returns the schema name of the tag.
func (t TypeTag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return "Unknown"
}

// Valid reports whether t is a known, non-invalid tag.
func (t TypeTag) Valid() bool {
	return t > TagInvalid && t < tagCount
}

// Parent returns the base type, or TagInvalid at the root.
func (t TypeTag) Parent() TypeTag {
	if !t.Valid() {
		return TagInvalid
	}
	return tagParents[t]
}

// IsA reports whether t is base or derives from it.
func (t TypeTag) IsA(base TypeTag) bool {
	if !t.Valid() || !base.Valid() {
		return false
	}
	for cur := t; cur != TagInvalid; cur = tagParents[cur] {
		if cur == base {
			return true
		}
	}
	return false
}

// TagByName maps a schema name (without version) to its tag.
func TagByName(name string) (TypeTag, bool) {
	for i := TagSerializableObject; i < tagCount; i++ {
		if tagNames[i] == name {
			return i, true
		}
	}
	return TagInvalid, false
}
