package scenario

import (
	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine"
)

type op func(b *bridge.Bridge, a args) (any, error)

var ops = map[string]op{}

func def(name string, fn op) {
	if _, dup := ops[name]; dup {
		panic("scenario: duplicate op " + name)
	}
	ops[name] = fn
}

func onHandle[R any](fn func(*bridge.Bridge, bridge.Handle) (R, error)) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		return fn(b, h)
	}
}

func onHandleErr(fn func(*bridge.Bridge, bridge.Handle) error) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		return nil, fn(b, h)
	}
}

func onPair(fn func(*bridge.Bridge, bridge.Handle, bridge.Handle) error) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		x, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		y, err := a.handle(1)
		if err != nil {
			return nil, err
		}
		return nil, fn(b, x, y)
	}
}

func onIndex[R any](fn func(*bridge.Bridge, bridge.Handle, int) (R, error)) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		i, err := a.index(1)
		if err != nil {
			return nil, err
		}
		return fn(b, h, i)
	}
}

func onString(fn func(*bridge.Bridge, bridge.Handle, string) error) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		s, err := a.str(1)
		if err != nil {
			return nil, err
		}
		return nil, fn(b, h, s)
	}
}

func onTime(fn func(*bridge.Bridge, bridge.Handle, engine.RationalTime) error) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		t, err := a.timeVal(1)
		if err != nil {
			return nil, err
		}
		return nil, fn(b, h, t)
	}
}

func named(fn func(*bridge.Bridge, string) (bridge.Handle, error)) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		name, err := a.optStr(0, "")
		if err != nil {
			return nil, err
		}
		return fn(b, name)
	}
}

func ranged(fn func(*bridge.Bridge, string, *engine.TimeRange) (bridge.Handle, error)) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		s, err := a.optStr(0, "")
		if err != nil {
			return nil, err
		}
		r, err := a.optRange(1)
		if err != nil {
			return nil, err
		}
		return fn(b, s, r)
	}
}

func indexedChild(fn func(*bridge.Bridge, bridge.Handle, int, bridge.Handle) error) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		parent, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		i, err := a.index(1)
		if err != nil {
			return nil, err
		}
		child, err := a.handle(2)
		if err != nil {
			return nil, err
		}
		return nil, fn(b, parent, i, child)
	}
}

// typed checks the first argument's type before running next.
func typed(tag engine.TypeTag, next op) op {
	return func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		if err := b.Expect(h, tag); err != nil {
			return nil, err
		}
		return next(b, a)
	}
}

var typedObjects = []struct {
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

func init() {
	def("create_clip", ranged((*bridge.Bridge).CreateClip))
	def("create_gap", ranged((*bridge.Bridge).CreateGap))
	def("create_external_reference", ranged((*bridge.Bridge).CreateExternalReference))
	def("create_stack", named((*bridge.Bridge).CreateStack))
	def("create_composition", named((*bridge.Bridge).CreateComposition))
	def("create_timeline", named((*bridge.Bridge).CreateTimeline))
	def("create_missing_reference", func(b *bridge.Bridge, _ args) (any, error) {
		return b.CreateMissingReference()
	})
	def("create_track", func(b *bridge.Bridge, a args) (any, error) {
		name, err := a.optStr(0, "")
		if err != nil {
			return nil, err
		}
		kind, err := a.optStr(1, "Video")
		if err != nil {
			return nil, err
		}
		return b.CreateTrack(name, kind)
	})
	def("create_effect", func(b *bridge.Bridge, a args) (any, error) {
		name, err := a.optStr(0, "")
		if err != nil {
			return nil, err
		}
		effect, err := a.optStr(1, "")
		if err != nil {
			return nil, err
		}
		return b.CreateEffect(name, effect)
	})
	def("create_marker", func(b *bridge.Bridge, a args) (any, error) {
		name, err := a.str(0)
		if err != nil {
			return nil, err
		}
		r, err := a.rangeVal(1)
		if err != nil {
			return nil, err
		}
		color, err := a.optStr(2, "")
		if err != nil {
			return nil, err
		}
		return b.CreateMarker(name, r, color)
	})

	def("delete", onHandleErr((*bridge.Bridge).Delete))
	def("state", onHandle(func(b *bridge.Bridge, h bridge.Handle) (bridge.State, error) {
		return b.State(h), nil
	}))
	def("name", onHandle((*bridge.Bridge).Name))
	def("set_name", onString((*bridge.Bridge).SetName))
	def("schema_name", onHandle((*bridge.Bridge).SchemaName))
	def("schema_version", onHandle((*bridge.Bridge).SchemaVersion))
	def("object_schema_name", onHandle((*bridge.Bridge).ObjectSchema))
	def("same_object", func(b *bridge.Bridge, a args) (any, error) {
		x, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		y, err := a.handle(1)
		if err != nil {
			return nil, err
		}
		return b.SameObject(x, y)
	})
	for _, t := range typedObjects {
		def("delete_"+t.prefix, onHandleErr(t.del))
		def(t.prefix+"_name", typed(t.tag, onHandle((*bridge.Bridge).Name)))
		def(t.prefix+"_set_name", typed(t.tag, onString((*bridge.Bridge).SetName)))
	}

	def("metadata_set_string", func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		key, err := a.str(1)
		if err != nil {
			return nil, err
		}
		v, err := a.str(2)
		if err != nil {
			return nil, err
		}
		return nil, b.SetMetadataString(h, key, v)
	})
	def("metadata_get_string", func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		key, err := a.str(1)
		if err != nil {
			return nil, err
		}
		return b.MetadataString(h, key)
	})
	def("metadata_keys", onHandle((*bridge.Bridge).MetadataKeys))

	def("enabled", onHandle((*bridge.Bridge).Enabled))
	def("set_enabled", func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		v, err := a.flag(1)
		if err != nil {
			return nil, err
		}
		return nil, b.SetEnabled(h, v)
	})
	def("source_range", onHandle(func(b *bridge.Bridge, h bridge.Handle) (any, error) {
		r, ok, err := b.SourceRange(h)
		if err != nil || !ok {
			return nil, err
		}
		return r, nil
	}))
	def("set_source_range", func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		r, err := a.optRange(1)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, b.ClearSourceRange(h)
		}
		return nil, b.SetSourceRange(h, *r)
	})
	def("duration", onHandle((*bridge.Bridge).Duration))
	def("available_range", onHandle((*bridge.Bridge).AvailableRange))
	def("parent", onHandle((*bridge.Bridge).Parent))
	def("visible", onHandle((*bridge.Bridge).Visible))
	def("overlapping", onHandle((*bridge.Bridge).Overlapping))
	def("add_effect", onPair((*bridge.Bridge).AddEffect))
	def("effects_count", onHandle((*bridge.Bridge).EffectsCount))
	def("effect_at", onIndex((*bridge.Bridge).EffectAt))
	def("add_marker", onPair((*bridge.Bridge).AddMarker))
	def("markers_count", onHandle((*bridge.Bridge).MarkersCount))
	def("marker_at", onIndex((*bridge.Bridge).MarkerAt))

	def("media_reference", onHandle((*bridge.Bridge).MediaReference))
	def("set_media_reference", onPair((*bridge.Bridge).SetMediaReference))
	def("is_missing_reference", onHandle((*bridge.Bridge).IsMissingReference))
	def("target_url", onHandle((*bridge.Bridge).TargetURL))

	def("append_child", onPair((*bridge.Bridge).AppendChild))
	def("insert_child", indexedChild((*bridge.Bridge).InsertChild))
	def("set_child", indexedChild((*bridge.Bridge).SetChild))
	def("remove_child", onIndex(func(b *bridge.Bridge, h bridge.Handle, i int) (any, error) {
		return nil, b.RemoveChild(h, i)
	}))
	def("clear_children", onHandleErr((*bridge.Bridge).ClearChildren))
	def("children_count", onHandle((*bridge.Bridge).ChildrenCount))
	def("child_at", onIndex((*bridge.Bridge).ChildAt))
	def("index_of_child", func(b *bridge.Bridge, a args) (any, error) {
		parent, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		child, err := a.handle(1)
		if err != nil {
			return nil, err
		}
		return b.IndexOfChild(parent, child)
	})
	def("range_of_child_at_index", onIndex((*bridge.Bridge).RangeOfChildAtIndex))
	def("composition_kind", onHandle((*bridge.Bridge).CompositionKind))
	def("track_kind", onHandle((*bridge.Bridge).TrackKind))

	def("timeline_tracks", onHandle((*bridge.Bridge).TimelineTracks))
	def("timeline_duration", onHandle((*bridge.Bridge).TimelineDuration))

	def("trim", func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		in, err := a.timeVal(1)
		if err != nil {
			return nil, err
		}
		out, err := a.timeVal(2)
		if err != nil {
			return nil, err
		}
		return nil, b.Trim(h, in, out)
	})
	def("slip", onTime((*bridge.Bridge).Slip))
	def("slide", onTime((*bridge.Bridge).Slide))

	def("insert", func(b *bridge.Bridge, a args) (any, error) {
		item, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		into, err := a.handle(1)
		if err != nil {
			return nil, err
		}
		at, err := a.timeVal(2)
		if err != nil {
			return nil, err
		}
		return nil, b.Insert(item, into, at)
	})
	def("overwrite", func(b *bridge.Bridge, a args) (any, error) {
		item, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		into, err := a.handle(1)
		if err != nil {
			return nil, err
		}
		r, err := a.rangeVal(2)
		if err != nil {
			return nil, err
		}
		return nil, b.Overwrite(item, into, r)
	})

	def("to_json", func(b *bridge.Bridge, a args) (any, error) {
		h, err := a.handle(0)
		if err != nil {
			return nil, err
		}
		indent := 0
		if a.has(1) {
			if indent, err = a.index(1); err != nil {
				return nil, err
			}
		}
		return b.ToJSON(h, indent)
	})
	def("from_json", func(b *bridge.Bridge, a args) (any, error) {
		data, err := a.str(0)
		if err != nil {
			return nil, err
		}
		return b.FromJSON(data)
	})
}
