package bridge

import (
	"fmt"
	"strconv"

	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

const tagMeta = engine.TagSerializableObjectWithMetadata

// Serializable objects

func (b *Bridge) SchemaName(h Handle) (string, error) {
	return get(b, h, engine.TagSerializableObject, engine.Object.SchemaName)
}

func (b *Bridge) SchemaVersion(h Handle) (int, error) {
	return get(b, h, engine.TagSerializableObject, engine.Object.SchemaVersion)
}

// ObjectSchema returns the versioned schema tag, such as "Clip.2".
func (b *Bridge) ObjectSchema(h Handle) (string, error) {
	return get(b, h, engine.TagSerializableObject, func(o engine.Object) string {
		return o.SchemaName() + "." + strconv.Itoa(o.SchemaVersion())
	})
}

// Tag returns the dynamic type of the object behind h.
func (b *Bridge) Tag(h Handle) (engine.TypeTag, error) {
	return get(b, h, engine.TagSerializableObject, engine.Object.Tag)
}

// Expect fails with a type mismatch unless h refers to a want.
func (b *Bridge) Expect(h Handle, want engine.TypeTag) error {
	_, err := b.resolve(h, want)
	return err
}

// SameObject reports whether two handles refer to the same object.
func (b *Bridge) SameObject(x, y Handle) (bool, error) {
	ox, err := b.resolve(x, engine.TagSerializableObject)
	if err != nil {
		return false, err
	}
	oy, err := b.resolve(y, engine.TagSerializableObject)
	if err != nil {
		return false, err
	}
	return ox == oy, nil
}

// Metadata-bearing objects

func (b *Bridge) Name(h Handle) (string, error) {
	return get(b, h, tagMeta, engine.MetadataObject.Name)
}

func (b *Bridge) SetName(h Handle, name string) error {
	return set(b, h, tagMeta, func(o engine.MetadataObject) { o.SetName(name) })
}

func (b *Bridge) MetadataHasKey(h Handle, key string) (bool, error) {
	return get(b, h, tagMeta, func(o engine.MetadataObject) bool { return o.Metadata().HasKey(key) })
}

func (b *Bridge) MetadataKeys(h Handle) ([]string, error) {
	return get(b, h, tagMeta, func(o engine.MetadataObject) []string { return o.Metadata().Keys() })
}

func (b *Bridge) MetadataString(h Handle, key string) (string, error) {
	o, err := resolveAs[engine.MetadataObject](b, h, tagMeta)
	if err != nil {
		return "", err
	}
	md := o.Metadata()
	v, ok := md.GetString(key)
	if !ok {
		return "", b.check("metadata_get_string", h, missingKey(md, key, "string"))
	}
	return v, nil
}

func (b *Bridge) SetMetadataString(h Handle, key, value string) error {
	return set(b, h, tagMeta, func(o engine.MetadataObject) { o.Metadata().SetString(key, value) })
}

func (b *Bridge) MetadataBool(h Handle, key string) (bool, error) {
	o, err := resolveAs[engine.MetadataObject](b, h, tagMeta)
	if err != nil {
		return false, err
	}
	md := o.Metadata()
	v, ok := md.GetBool(key)
	if !ok {
		return false, b.check("metadata_get_bool", h, missingKey(md, key, "bool"))
	}
	return v, nil
}

func (b *Bridge) SetMetadataBool(h Handle, key string, value bool) error {
	return set(b, h, tagMeta, func(o engine.MetadataObject) { o.Metadata().SetBool(key, value) })
}

func missingKey(md engine.Dictionary, key, kind string) *engine.Status {
	if md.HasKey(key) {
		return engine.Fail(engine.TypeMismatch, fmt.Sprintf("metadata %q is not a %s", key, kind))
	}
	return engine.Fail(engine.KeyNotFound, fmt.Sprintf("metadata %q not found", key))
}

// Items

// enabler is implemented by items and effects.
type enabler interface {
	engine.Object
	Enabled() bool
	SetEnabled(bool)
}

func (b *Bridge) resolveEnabler(h Handle) (enabler, error) {
	obj, err := b.resolve(h, tagMeta)
	if err != nil {
		return nil, err
	}
	if en, ok := obj.(enabler); ok && (obj.Tag().IsA(engine.TagItem) || obj.Tag() == engine.TagEffect) {
		return en, nil
	}
	return nil, errors.TypeMismatch(errors.PhaseDispatch, uint64(h), obj.SchemaName(), "Item or Effect")
}

func (b *Bridge) Enabled(h Handle) (bool, error) {
	en, err := b.resolveEnabler(h)
	if err != nil {
		return false, err
	}
	return en.Enabled(), nil
}

func (b *Bridge) SetEnabled(h Handle, enabled bool) error {
	en, err := b.resolveEnabler(h)
	if err != nil {
		return err
	}
	en.SetEnabled(enabled)
	return nil
}

// SourceRange returns the item's source range; ok is false when unset.
func (b *Bridge) SourceRange(h Handle) (r engine.TimeRange, ok bool, err error) {
	item, err := resolveAs[engine.Item](b, h, engine.TagItem)
	if err != nil {
		return engine.TimeRange{}, false, err
	}
	r, ok = item.SourceRange()
	return r, ok, nil
}

func (b *Bridge) SetSourceRange(h Handle, r engine.TimeRange) error {
	if err := validRange("source range", r); err != nil {
		return err
	}
	return set(b, h, engine.TagItem, func(i engine.Item) { i.SetSourceRange(&r) })
}

func (b *Bridge) ClearSourceRange(h Handle) error {
	return set(b, h, engine.TagItem, func(i engine.Item) { i.SetSourceRange(nil) })
}

func (b *Bridge) Duration(h Handle) (engine.RationalTime, error) {
	item, err := resolveAs[engine.Item](b, h, engine.TagItem)
	if err != nil {
		return engine.RationalTime{}, err
	}
	d, st := item.Duration()
	return d, b.check("duration", h, st)
}

func (b *Bridge) AvailableRange(h Handle) (engine.TimeRange, error) {
	item, err := resolveAs[engine.Item](b, h, engine.TagItem)
	if err != nil {
		return engine.TimeRange{}, err
	}
	r, st := item.AvailableRange()
	return r, b.check("available_range", h, st)
}

// Visible reports whether the composable shows when rendered. Gaps do not.
func (b *Bridge) Visible(h Handle) (bool, error) {
	return get(b, h, engine.TagComposable, engine.Composable.Visible)
}

func (b *Bridge) Overlapping(h Handle) (bool, error) {
	return get(b, h, engine.TagComposable, engine.Composable.Overlapping)
}

// Parent returns a new handle to the composition containing h, or the null
// handle if it has none.
func (b *Bridge) Parent(h Handle) (Handle, error) {
	c, err := resolveAs[engine.Composable](b, h, engine.TagComposable)
	if err != nil {
		return 0, err
	}
	p := c.Parent()
	if p == nil {
		return 0, nil
	}
	return b.share(p)
}

func (b *Bridge) AddEffect(item, effect Handle) error {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	fx, err := resolveAs[engine.Effect](b, effect, engine.TagEffect)
	if err != nil {
		return err
	}
	i.AppendEffect(fx)
	return nil
}

func (b *Bridge) EffectsCount(item Handle) (int, error) {
	return get(b, item, engine.TagItem, func(i engine.Item) int { return len(i.Effects()) })
}

// EffectAt returns a new handle to the effect at index.
func (b *Bridge) EffectAt(item Handle, index int) (Handle, error) {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return 0, err
	}
	effects := i.Effects()
	if index < 0 || index >= len(effects) {
		return 0, b.check("effect_at", item, outOfRange(index, len(effects)))
	}
	return b.share(effects[index])
}

func (b *Bridge) RemoveEffect(item Handle, index int) error {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	return b.check("remove_effect", item, i.RemoveEffect(index))
}

func (b *Bridge) AddMarker(item, marker Handle) error {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	m, err := resolveAs[engine.Marker](b, marker, engine.TagMarker)
	if err != nil {
		return err
	}
	i.AppendMarker(m)
	return nil
}

func (b *Bridge) MarkersCount(item Handle) (int, error) {
	return get(b, item, engine.TagItem, func(i engine.Item) int { return len(i.Markers()) })
}

// MarkerAt returns a new handle to the marker at index.
func (b *Bridge) MarkerAt(item Handle, index int) (Handle, error) {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return 0, err
	}
	markers := i.Markers()
	if index < 0 || index >= len(markers) {
		return 0, b.check("marker_at", item, outOfRange(index, len(markers)))
	}
	return b.share(markers[index])
}

func (b *Bridge) RemoveMarker(item Handle, index int) error {
	i, err := resolveAs[engine.Item](b, item, engine.TagItem)
	if err != nil {
		return err
	}
	return b.check("remove_marker", item, i.RemoveMarker(index))
}

func outOfRange(index, size int) *engine.Status {
	return engine.Fail(engine.IllegalIndex, fmt.Sprintf("index %d out of range [0, %d)", index, size))
}

// Clips

// MediaReference returns a new handle to the clip's media reference, or the
// null handle if it has none.
func (b *Bridge) MediaReference(clip Handle) (Handle, error) {
	c, err := resolveAs[engine.Clip](b, clip, engine.TagClip)
	if err != nil {
		return 0, err
	}
	ref := c.MediaReference()
	if ref == nil {
		return 0, nil
	}
	return b.share(ref)
}

// SetMediaReference attaches ref to the clip. The null handle detaches the
// current reference. No token moves: the clip holds its own reference.
func (b *Bridge) SetMediaReference(clip, ref Handle) error {
	c, err := resolveAs[engine.Clip](b, clip, engine.TagClip)
	if err != nil {
		return err
	}
	if ref == 0 {
		c.SetMediaReference(nil)
		return nil
	}
	r, err := resolveAs[engine.MediaReference](b, ref, engine.TagMediaReference)
	if err != nil {
		return err
	}
	c.SetMediaReference(r)
	return nil
}

// Compositions and tracks

func (b *Bridge) CompositionKind(h Handle) (string, error) {
	return get(b, h, engine.TagComposition, engine.Composition.CompositionKind)
}

func (b *Bridge) TrackKind(h Handle) (string, error) {
	return get(b, h, engine.TagTrack, engine.Track.Kind)
}

func (b *Bridge) SetTrackKind(h Handle, kind string) error {
	return set(b, h, engine.TagTrack, func(t engine.Track) { t.SetKind(kind) })
}

// Timelines

// TimelineTracks returns a new handle to the timeline's track stack, or the
// null handle if it has none.
func (b *Bridge) TimelineTracks(h Handle) (Handle, error) {
	tl, err := resolveAs[engine.Timeline](b, h, engine.TagTimeline)
	if err != nil {
		return 0, err
	}
	s := tl.Tracks()
	if s == nil {
		return 0, nil
	}
	return b.share(s)
}

// SetTimelineTracks replaces the timeline's stack. The null handle detaches it.
func (b *Bridge) SetTimelineTracks(h, stack Handle) error {
	tl, err := resolveAs[engine.Timeline](b, h, engine.TagTimeline)
	if err != nil {
		return err
	}
	if stack == 0 {
		tl.SetTracks(nil)
		return nil
	}
	s, err := resolveAs[engine.Stack](b, stack, engine.TagStack)
	if err != nil {
		return err
	}
	tl.SetTracks(s)
	return nil
}

func (b *Bridge) TimelineDuration(h Handle) (engine.RationalTime, error) {
	tl, err := resolveAs[engine.Timeline](b, h, engine.TagTimeline)
	if err != nil {
		return engine.RationalTime{}, err
	}
	d, st := tl.Duration()
	return d, b.check("timeline_duration", h, st)
}

// GlobalStartTime returns the timeline's start; ok is false when unset.
func (b *Bridge) GlobalStartTime(h Handle) (t engine.RationalTime, ok bool, err error) {
	tl, err := resolveAs[engine.Timeline](b, h, engine.TagTimeline)
	if err != nil {
		return engine.RationalTime{}, false, err
	}
	t, ok = tl.GlobalStartTime()
	return t, ok, nil
}

// SetGlobalStartTime sets the timeline's start; nil clears it.
func (b *Bridge) SetGlobalStartTime(h Handle, t *engine.RationalTime) error {
	if t != nil && !t.Valid() {
		return errors.InvalidInput(errors.PhaseDispatch, "global start time must be finite with a positive rate")
	}
	return set(b, h, engine.TagTimeline, func(tl engine.Timeline) { tl.SetGlobalStartTime(t) })
}

// Media references

func (b *Bridge) IsMissingReference(h Handle) (bool, error) {
	return get(b, h, engine.TagMediaReference, engine.MediaReference.IsMissingReference)
}

func (b *Bridge) TargetURL(h Handle) (string, error) {
	return get(b, h, engine.TagExternalReference, engine.ExternalReference.TargetURL)
}

func (b *Bridge) SetTargetURL(h Handle, url string) error {
	return set(b, h, engine.TagExternalReference, func(r engine.ExternalReference) { r.SetTargetURL(url) })
}

// MediaAvailableRange returns the reference's available range; ok is false
// when unset.
func (b *Bridge) MediaAvailableRange(h Handle) (r engine.TimeRange, ok bool, err error) {
	ref, err := resolveAs[engine.MediaReference](b, h, engine.TagMediaReference)
	if err != nil {
		return engine.TimeRange{}, false, err
	}
	r, ok = ref.AvailableRange()
	return r, ok, nil
}

// SetMediaAvailableRange sets the reference's available range; nil clears it.
func (b *Bridge) SetMediaAvailableRange(h Handle, r *engine.TimeRange) error {
	if err := validOptRange("available range", r); err != nil {
		return err
	}
	return set(b, h, engine.TagMediaReference, func(ref engine.MediaReference) { ref.SetAvailableRange(r) })
}

// Effects

func (b *Bridge) EffectName(h Handle) (string, error) {
	return get(b, h, engine.TagEffect, engine.Effect.EffectName)
}

func (b *Bridge) SetEffectName(h Handle, name string) error {
	return set(b, h, engine.TagEffect, func(f engine.Effect) { f.SetEffectName(name) })
}

// Markers

func (b *Bridge) MarkerColor(h Handle) (string, error) {
	return get(b, h, engine.TagMarker, engine.Marker.Color)
}

func (b *Bridge) SetMarkerColor(h Handle, color string) error {
	return set(b, h, engine.TagMarker, func(m engine.Marker) { m.SetColor(color) })
}

func (b *Bridge) MarkerComment(h Handle) (string, error) {
	return get(b, h, engine.TagMarker, engine.Marker.Comment)
}

func (b *Bridge) SetMarkerComment(h Handle, comment string) error {
	return set(b, h, engine.TagMarker, func(m engine.Marker) { m.SetComment(comment) })
}

func (b *Bridge) MarkedRange(h Handle) (engine.TimeRange, error) {
	return get(b, h, engine.TagMarker, engine.Marker.MarkedRange)
}

func (b *Bridge) SetMarkedRange(h Handle, r engine.TimeRange) error {
	if err := validRange("marked range", r); err != nil {
		return err
	}
	return set(b, h, engine.TagMarker, func(m engine.Marker) { m.SetMarkedRange(r) })
}
