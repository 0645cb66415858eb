package memengine

import (
	"fmt"
	"sort"

	"github.com/wippyai/otio-bridge/engine"
)

// Schema versions written by ToJSON.
var schemaVersions = map[engine.TypeTag]int{
	engine.TagClip:              2,
	engine.TagGap:               1,
	engine.TagTrack:             1,
	engine.TagStack:             1,
	engine.TagComposition:       1,
	engine.TagTimeline:          1,
	engine.TagExternalReference: 1,
	engine.TagMissingReference:  1,
	engine.TagEffect:            1,
	engine.TagMarker:            2,
}

// node is implemented by every concrete object.
type node interface {
	engine.MetadataObject
	core() *base
	// dispose releases everything the object holds. Called once, on deletion.
	dispose()
}

// base carries the state shared by every object: identity, the intrusive
// count, the weak parent link, name and metadata.
type base struct {
	eng      *Engine
	self     node
	meta     dict
	name     string
	id       uint64
	parentID uint64
	count    int
	tag      engine.TypeTag
	deleted  bool
}

func (b *base) core() *base { return b }

func (b *base) Tag() engine.TypeTag { return b.tag }

func (b *base) SchemaName() string { return b.tag.String() }

func (b *base) SchemaVersion() int { return schemaVersions[b.tag] }

func (b *base) RefCount() int { return b.count }

func (b *base) Retain() {
	if b.deleted {
		panic(fmt.Sprintf("memengine: retain of deleted %s %d", b.tag, b.id))
	}
	b.count++
}

func (b *base) Release() bool {
	if b.count <= 0 {
		panic(fmt.Sprintf("memengine: release of %s %d with count %d", b.tag, b.id, b.count))
	}
	b.count--
	if b.count > 0 {
		return false
	}
	b.deleted = true
	delete(b.eng.objects, b.id)
	b.self.dispose()
	return true
}

func (b *base) dispose() {}

func (b *base) Name() string { return b.name }

func (b *base) SetName(name string) { b.name = name }

func (b *base) Metadata() engine.Dictionary { return b.meta }

// parent resolves the weak parent link through the registry.
func (b *base) parent() engine.Composition {
	n, ok := b.eng.lookup(b.parentID)
	if !ok {
		return nil
	}
	c, _ := n.(engine.Composition)
	return c
}

// dict holds string and bool metadata values, plus rawValue for anything
// decoded that has no typed accessor.
type dict map[string]any

// rawValue is a decoded metadata value kept as its JSON text so numbers,
// objects and arrays survive a round trip.
type rawValue string

func (d dict) HasKey(key string) bool {
	_, ok := d[key]
	return ok
}

func (d dict) GetString(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

func (d dict) SetString(key, value string) { d[key] = value }

func (d dict) GetBool(key string) (bool, bool) {
	v, ok := d[key].(bool)
	return v, ok
}

func (d dict) SetBool(key string, value bool) { d[key] = value }

func (d dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
