package wasmhost

import (
	"strconv"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine"
)

type handler func(h *Host, c *call) error

type export struct {
	fn     handler
	sig    string
	params []api.ValueType
	// quiet exports leave the last error untouched.
	quiet bool
}

func (e export) paramNames() []string {
	var names []string
	seen := map[string]int{}
	for _, r := range e.sig {
		for _, n := range sigParams[r] {
			seen[n]++
			if seen[n] > 1 {
				n += strconv.Itoa(seen[n])
			}
			names = append(names, n)
		}
	}
	return names
}

type exports map[string]export

func (t exports) def(name, sig string, fn handler) {
	if _, dup := t[name]; dup {
		panic("wasmhost: duplicate export " + name)
	}
	t[name] = export{fn: fn, sig: sig, params: sigTypes(sig)}
}

func (t exports) defQuiet(name, sig string, fn handler) {
	t.def(name, sig, fn)
	e := t[name]
	e.quiet = true
	t[name] = e
}

// objectTypes drives the per-type create, delete and name exports.
var objectTypes = []struct {
	prefix string
	tag    engine.TypeTag
	del    func(*bridge.Bridge, bridge.Handle) error
}{
	{"clip", engine.TagClip, (*bridge.Bridge).DeleteClip},
	{"gap", engine.TagGap, (*bridge.Bridge).DeleteGap},
	{"track", engine.TagTrack, (*bridge.Bridge).DeleteTrack},
	{"stack", engine.TagStack, (*bridge.Bridge).DeleteStack},
	{"composition", engine.TagComposition, (*bridge.Bridge).DeleteComposition},
	{"timeline", engine.TagTimeline, (*bridge.Bridge).DeleteTimeline},
	{"effect", engine.TagEffect, (*bridge.Bridge).DeleteEffect},
	{"marker", engine.TagMarker, (*bridge.Bridge).DeleteMarker},
	{"external_reference", engine.TagExternalReference, (*bridge.Bridge).DeleteExternalReference},
	{"missing_reference", engine.TagMissingReference, (*bridge.Bridge).DeleteMissingReference},
}

func exportTable() exports {
	t := exports{}

	t.defQuiet("last_error", "S", func(h *Host, c *call) error { return c.putString(h.lastErr) })

	t.def("handle_state", "ho", func(h *Host, c *call) error {
		return c.putU32(uint32(h.b.State(c.handle())))
	})

	// Construction.
	t.def("create_clip", "sRo", createRanged((*bridge.Bridge).CreateClip))
	t.def("create_gap", "sRo", createRanged((*bridge.Bridge).CreateGap))
	t.def("create_external_reference", "sRo", createRanged((*bridge.Bridge).CreateExternalReference))
	t.def("create_track", "sso", createPair((*bridge.Bridge).CreateTrack))
	t.def("create_effect", "sso", createPair((*bridge.Bridge).CreateEffect))
	t.def("create_stack", "so", createNamed((*bridge.Bridge).CreateStack))
	t.def("create_composition", "so", createNamed((*bridge.Bridge).CreateComposition))
	t.def("create_timeline", "so", createNamed((*bridge.Bridge).CreateTimeline))
	t.def("create_missing_reference", "o", func(h *Host, c *call) error {
		ref, err := h.b.CreateMissingReference()
		if err != nil {
			return err
		}
		return h.give(c, ref)
	})
	t.def("create_marker", "srso", func(h *Host, c *call) error {
		name, err := c.str()
		if err != nil {
			return err
		}
		r, err := c.rangeIn()
		if err != nil {
			return err
		}
		color, err := c.str()
		if err != nil {
			return err
		}
		m, err := h.b.CreateMarker(name, r, color)
		if err != nil {
			return err
		}
		return h.give(c, m)
	})

	// Identity and lifecycle.
	t.def("delete_object", "h", unary((*bridge.Bridge).Delete))
	t.def("object_name", "hS", getString((*bridge.Bridge).Name))
	t.def("object_set_name", "hs", setString((*bridge.Bridge).SetName))
	t.def("schema_name", "hS", getString((*bridge.Bridge).SchemaName))
	t.def("schema_version", "ho", getInt((*bridge.Bridge).SchemaVersion))
	t.def("get_object_schema_name", "hS", getString((*bridge.Bridge).ObjectSchema))
	t.def("same_object", "hho", func(h *Host, c *call) error {
		x, y := c.handle(), c.handle()
		same, err := h.b.SameObject(x, y)
		if err != nil {
			return err
		}
		return c.putBool(same)
	})
	for _, ot := range objectTypes {
		t.def("delete_"+ot.prefix, "h", unary(ot.del))
		t.def(ot.prefix+"_name", "hS", expect(ot.tag, getString((*bridge.Bridge).Name)))
		t.def(ot.prefix+"_set_name", "hs", expect(ot.tag, setString((*bridge.Bridge).SetName)))
	}

	// Metadata.
	t.def("metadata_has_key", "hso", func(h *Host, c *call) error {
		obj := c.handle()
		key, err := c.str()
		if err != nil {
			return err
		}
		ok, err := h.b.MetadataHasKey(obj, key)
		if err != nil {
			return err
		}
		return c.putBool(ok)
	})
	t.def("metadata_get_string", "hsS", func(h *Host, c *call) error {
		obj := c.handle()
		key, err := c.str()
		if err != nil {
			return err
		}
		v, err := h.b.MetadataString(obj, key)
		if err != nil {
			return err
		}
		return c.putString(v)
	})
	t.def("metadata_set_string", "hss", func(h *Host, c *call) error {
		obj := c.handle()
		key, err := c.str()
		if err != nil {
			return err
		}
		v, err := c.str()
		if err != nil {
			return err
		}
		return h.b.SetMetadataString(obj, key, v)
	})
	t.def("metadata_get_bool", "hso", func(h *Host, c *call) error {
		obj := c.handle()
		key, err := c.str()
		if err != nil {
			return err
		}
		v, err := h.b.MetadataBool(obj, key)
		if err != nil {
			return err
		}
		return c.putBool(v)
	})
	t.def("metadata_set_bool", "hsi", func(h *Host, c *call) error {
		obj := c.handle()
		key, err := c.str()
		if err != nil {
			return err
		}
		return h.b.SetMetadataBool(obj, key, c.flag())
	})

	// Items.
	t.def("item_enabled", "ho", getBool((*bridge.Bridge).Enabled))
	t.def("item_set_enabled", "hi", setBool((*bridge.Bridge).SetEnabled))
	t.def("item_source_range", "hoo", getOptRange((*bridge.Bridge).SourceRange))
	t.def("item_set_source_range", "hR", func(h *Host, c *call) error {
		item := c.handle()
		r, err := c.optRange()
		if err != nil {
			return err
		}
		if r == nil {
			return h.b.ClearSourceRange(item)
		}
		return h.b.SetSourceRange(item, *r)
	})
	t.def("item_duration", "ho", getTime((*bridge.Bridge).Duration))
	t.def("item_available_range", "ho", getRange((*bridge.Bridge).AvailableRange))
	t.def("composable_parent", "ho", getHandle((*bridge.Bridge).Parent))
	t.def("composable_visible", "ho", getBool((*bridge.Bridge).Visible))
	t.def("composable_overlapping", "ho", getBool((*bridge.Bridge).Overlapping))
	t.def("item_add_effect", "hh", pair((*bridge.Bridge).AddEffect))
	t.def("item_effects_count", "ho", getInt((*bridge.Bridge).EffectsCount))
	t.def("item_effect_at", "hio", getHandleAt((*bridge.Bridge).EffectAt))
	t.def("item_remove_effect", "hi", withIndex((*bridge.Bridge).RemoveEffect))
	t.def("item_add_marker", "hh", pair((*bridge.Bridge).AddMarker))
	t.def("item_markers_count", "ho", getInt((*bridge.Bridge).MarkersCount))
	t.def("item_marker_at", "hio", getHandleAt((*bridge.Bridge).MarkerAt))
	t.def("item_remove_marker", "hi", withIndex((*bridge.Bridge).RemoveMarker))

	// Clips and media references.
	t.def("clip_media_reference", "ho", getHandle((*bridge.Bridge).MediaReference))
	t.def("clip_set_media_reference", "hh", pair((*bridge.Bridge).SetMediaReference))
	t.def("media_reference_is_missing", "ho", getBool((*bridge.Bridge).IsMissingReference))
	t.def("media_reference_available_range", "hoo", getOptRange((*bridge.Bridge).MediaAvailableRange))
	t.def("media_reference_set_available_range", "hR", setOptRange((*bridge.Bridge).SetMediaAvailableRange))
	t.def("external_reference_target_url", "hS", getString((*bridge.Bridge).TargetURL))
	t.def("external_reference_set_target_url", "hs", setString((*bridge.Bridge).SetTargetURL))

	// Compositions.
	t.def("composition_kind", "hS", getString((*bridge.Bridge).CompositionKind))
	t.def("composition_append_child", "hh", pair((*bridge.Bridge).AppendChild))
	t.def("composition_insert_child", "hih", indexedChild((*bridge.Bridge).InsertChild))
	t.def("composition_set_child", "hih", indexedChild((*bridge.Bridge).SetChild))
	t.def("composition_remove_child", "hi", withIndex((*bridge.Bridge).RemoveChild))
	t.def("composition_clear_children", "h", unary((*bridge.Bridge).ClearChildren))
	t.def("composition_children_count", "ho", getInt((*bridge.Bridge).ChildrenCount))
	t.def("composition_child_at", "hio", getHandleAt((*bridge.Bridge).ChildAt))
	t.def("composition_index_of_child", "hho", func(h *Host, c *call) error {
		parent, child := c.handle(), c.handle()
		i, err := h.b.IndexOfChild(parent, child)
		if err != nil {
			return err
		}
		return c.putInt(i)
	})
	t.def("range_of_child_at_index", "hio", func(h *Host, c *call) error {
		parent, index := c.handle(), c.index()
		r, err := h.b.RangeOfChildAtIndex(parent, index)
		if err != nil {
			return err
		}
		return c.putRange(r)
	})
	t.def("track_kind", "hS", getString((*bridge.Bridge).TrackKind))
	t.def("track_set_kind", "hs", setString((*bridge.Bridge).SetTrackKind))

	// Timelines.
	t.def("timeline_tracks", "ho", getHandle((*bridge.Bridge).TimelineTracks))
	t.def("timeline_set_tracks", "hh", pair((*bridge.Bridge).SetTimelineTracks))
	t.def("timeline_duration", "ho", getTime((*bridge.Bridge).TimelineDuration))
	t.def("timeline_global_start_time", "hoo", func(h *Host, c *call) error {
		start, ok, err := h.b.GlobalStartTime(c.handle())
		if err != nil {
			return err
		}
		if err := c.putTime(start); err != nil {
			return err
		}
		return c.putBool(ok)
	})
	t.def("timeline_set_global_start_time", "hT", func(h *Host, c *call) error {
		tl := c.handle()
		start, err := c.optTime()
		if err != nil {
			return err
		}
		return h.b.SetGlobalStartTime(tl, start)
	})

	// Effects and markers.
	t.def("effect_effect_name", "hS", getString((*bridge.Bridge).EffectName))
	t.def("effect_set_effect_name", "hs", setString((*bridge.Bridge).SetEffectName))
	t.def("marker_color", "hS", getString((*bridge.Bridge).MarkerColor))
	t.def("marker_set_color", "hs", setString((*bridge.Bridge).SetMarkerColor))
	t.def("marker_comment", "hS", getString((*bridge.Bridge).MarkerComment))
	t.def("marker_set_comment", "hs", setString((*bridge.Bridge).SetMarkerComment))
	t.def("marker_marked_range", "ho", getRange((*bridge.Bridge).MarkedRange))
	t.def("marker_set_marked_range", "hr", func(h *Host, c *call) error {
		m := c.handle()
		r, err := c.rangeIn()
		if err != nil {
			return err
		}
		return h.b.SetMarkedRange(m, r)
	})

	// Editing.
	t.def("trim", "htt", func(h *Host, c *call) error {
		item := c.handle()
		in, err := c.timeIn()
		if err != nil {
			return err
		}
		out, err := c.timeIn()
		if err != nil {
			return err
		}
		return h.b.Trim(item, in, out)
	})
	t.def("slip", "ht", shift((*bridge.Bridge).Slip))
	t.def("slide", "ht", shift((*bridge.Bridge).Slide))
	t.def("insert", "hht", func(h *Host, c *call) error {
		item, into := c.handle(), c.handle()
		at, err := c.timeIn()
		if err != nil {
			return err
		}
		return h.b.Insert(item, into, at)
	})
	t.def("overwrite", "hhr", func(h *Host, c *call) error {
		item, into := c.handle(), c.handle()
		r, err := c.rangeIn()
		if err != nil {
			return err
		}
		return h.b.Overwrite(item, into, r)
	})

	// Serialization.
	t.def("to_json_string", "hiS", func(h *Host, c *call) error {
		obj, indent := c.handle(), c.index()
		s, err := h.b.ToJSON(obj, indent)
		if err != nil {
			return err
		}
		return c.putString(s)
	})
	t.def("from_json_string", "so", func(h *Host, c *call) error {
		data, err := c.str()
		if err != nil {
			return err
		}
		root, err := h.b.FromJSON(data)
		if err != nil {
			return err
		}
		return h.give(c, root)
	})

	return t
}
