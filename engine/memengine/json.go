package memengine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/wippyai/otio-bridge/engine"
)

// DefaultMediaKey is the media reference key written for a clip's reference.
const DefaultMediaKey = "DEFAULT_MEDIA"

const schemaKey = "OTIO_SCHEMA"

func (e *Engine) ToJSON(obj engine.Object, indent int) (string, *engine.Status) {
	n, ok := obj.(node)
	if !ok || n.core().eng != e {
		return "", engine.Fail(engine.InternalError, "object belongs to another engine")
	}

	raw, err := encodeNode(n)
	if err != nil {
		return "", engine.Fail(engine.InternalError, err.Error())
	}
	if indent > 0 {
		out := pretty.PrettyOptions([]byte(raw), &pretty.Options{
			Width:  80,
			Indent: strings.Repeat(" ", indent),
		})
		raw = strings.TrimRight(string(out), "\n")
	}
	return raw, nil
}

// encoder accumulates sjson edits, keeping the first error.
type encoder struct {
	err error
	doc string
}

func newEncoder() *encoder { return &encoder{doc: "{}"} }

func (w *encoder) set(path string, v any) {
	if w.err == nil {
		w.doc, w.err = sjson.Set(w.doc, path, v)
	}
}

func (w *encoder) raw(path, raw string) {
	if w.err == nil {
		w.doc, w.err = sjson.SetRaw(w.doc, path, raw)
	}
}

func (w *encoder) result() (string, error) { return w.doc, w.err }

func schemaString(n node) string {
	return n.SchemaName() + "." + strconv.Itoa(n.SchemaVersion())
}

func encodeTime(t engine.RationalTime) string {
	w := newEncoder()
	w.set(schemaKey, "RationalTime.1")
	w.set("rate", t.Rate)
	w.set("value", t.Value)
	s, _ := w.result()
	return s
}

func encodeOptTime(t *engine.RationalTime) string {
	if t == nil {
		return "null"
	}
	return encodeTime(*t)
}

func encodeRange(r *engine.TimeRange) string {
	if r == nil {
		return "null"
	}
	w := newEncoder()
	w.set(schemaKey, "TimeRange.1")
	w.raw("duration", encodeTime(r.Duration))
	w.raw("start_time", encodeTime(r.Start))
	s, _ := w.result()
	return s
}

// escapePath escapes characters sjson treats as path syntax.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func encodeHeader(w *encoder, n node) {
	w.set(schemaKey, schemaString(n))
	w.raw("metadata", "{}")
	d := n.core().meta
	for _, k := range d.Keys() {
		path := "metadata." + escapePath(k)
		if raw, ok := d[k].(rawValue); ok {
			w.raw(path, string(raw))
			continue
		}
		w.set(path, d[k])
	}
	w.set("name", n.Name())
}

func encodeList[T engine.Object](w *encoder, path string, items []T) {
	w.raw(path, "[]")
	for _, it := range items {
		raw, err := encodeNode(any(it).(node))
		if err != nil {
			w.err = err
			return
		}
		w.raw(path+".-1", raw)
	}
}

func encodeItem(w *encoder, i *itemBase) {
	w.raw("source_range", encodeRange(i.sourceRange))
	encodeList(w, "effects", i.effects)
	encodeList(w, "markers", i.markers)
	w.set("enabled", !i.disabled)
}

func encodeNode(n node) (string, error) {
	w := newEncoder()
	encodeHeader(w, n)

	switch o := n.(type) {
	case *Clip:
		encodeItem(w, &o.itemBase)
		w.raw("media_references", "{}")
		if o.media != nil {
			raw, err := encodeNode(o.media.(node))
			if err != nil {
				return "", err
			}
			w.raw("media_references."+DefaultMediaKey, raw)
			w.set("active_media_reference_key", DefaultMediaKey)
		} else {
			w.set("active_media_reference_key", "")
		}
	case *Gap:
		encodeItem(w, &o.itemBase)
	case *Track:
		encodeItem(w, &o.itemBase)
		encodeList(w, "children", o.children)
		w.set("kind", o.kind)
	case *Stack:
		encodeItem(w, &o.itemBase)
		encodeList(w, "children", o.children)
	case *Composition:
		encodeItem(w, &o.itemBase)
		encodeList(w, "children", o.children)
	case *Timeline:
		w.raw("global_start_time", encodeOptTime(o.globalStartTime))
		if o.tracks != nil {
			raw, err := encodeNode(o.tracks.(node))
			if err != nil {
				return "", err
			}
			w.raw("tracks", raw)
		} else {
			w.raw("tracks", "null")
		}
	case *ExternalReference:
		w.raw("available_range", encodeRange(o.availableRange))
		w.set("target_url", o.targetURL)
	case *MissingReference:
		w.raw("available_range", encodeRange(o.availableRange))
	case *Effect:
		w.set("effect_name", o.effectName)
		w.set("enabled", o.enabled)
	case *Marker:
		w.set("color", o.color)
		w.raw("marked_range", encodeRange(&o.markedRange))
		w.set("comment", o.comment)
	default:
		return "", fmt.Errorf("memengine: cannot encode %T", n)
	}
	return w.result()
}

func (e *Engine) FromJSON(data string) (engine.Object, *engine.Status) {
	if !gjson.Valid(data) {
		return nil, engine.Fail(engine.JSONParseError, "invalid JSON document")
	}
	n, st := e.decode(gjson.Parse(data))
	if !st.OK() {
		return nil, st
	}
	return n, nil
}

func parseSchema(v gjson.Result) (engine.TypeTag, int, *engine.Status) {
	s := v.Get(schemaKey).String()
	i := strings.LastIndexByte(s, '.')
	if i <= 0 {
		return engine.TagInvalid, 0, engine.Fail(engine.MalformedSchema, fmt.Sprintf("bad schema tag %q", s))
	}
	version, err := strconv.Atoi(s[i+1:])
	if err != nil || version < 1 {
		return engine.TagInvalid, 0, engine.Fail(engine.MalformedSchema, fmt.Sprintf("bad schema version in %q", s))
	}
	tag, ok := engine.TagByName(s[:i])
	latest, concrete := schemaVersions[tag]
	if !ok || !concrete {
		return engine.TagInvalid, 0, engine.Fail(engine.SchemaNotRegistered, fmt.Sprintf("schema %q not registered", s[:i]))
	}
	if version > latest {
		return engine.TagInvalid, 0, engine.Fail(engine.SchemaVersionUnsupported,
			fmt.Sprintf("%s version %d newer than %d", s[:i], version, latest))
	}
	return tag, version, nil
}

func decodeTime(v gjson.Result) engine.RationalTime {
	return engine.RationalTime{Value: v.Get("value").Float(), Rate: v.Get("rate").Float()}
}

func decodeOptTime(v gjson.Result) *engine.RationalTime {
	if !v.IsObject() {
		return nil
	}
	t := decodeTime(v)
	return &t
}

func decodeRange(v gjson.Result) *engine.TimeRange {
	if !v.IsObject() {
		return nil
	}
	return &engine.TimeRange{
		Start:    decodeTime(v.Get("start_time")),
		Duration: decodeTime(v.Get("duration")),
	}
}

func decodeHeader(n node, v gjson.Result) {
	b := n.core()
	b.name = v.Get("name").String()
	v.Get("metadata").ForEach(func(k, val gjson.Result) bool {
		switch val.Type {
		case gjson.String:
			b.meta[k.String()] = val.String()
		case gjson.True, gjson.False:
			b.meta[k.String()] = val.Bool()
		default:
			b.meta[k.String()] = rawValue(val.Raw)
		}
		return true
	})
}

// decodeAs decodes v and checks its tag derives from want.
func (e *Engine) decodeAs(v gjson.Result, want engine.TypeTag, onWrong engine.Outcome) (node, *engine.Status) {
	n, st := e.decode(v)
	if !st.OK() {
		return nil, st
	}
	if !n.Tag().IsA(want) {
		drop(n)
		return nil, engine.Fail(onWrong, fmt.Sprintf("%s is not a %s", n.Tag(), want))
	}
	return n, nil
}

func (e *Engine) decodeItem(i *itemBase, v gjson.Result) *engine.Status {
	i.sourceRange = decodeRange(v.Get("source_range"))
	if en := v.Get("enabled"); en.Exists() {
		i.disabled = !en.Bool()
	}
	for _, ev := range v.Get("effects").Array() {
		fx, st := e.decodeAs(ev, engine.TagEffect, engine.MalformedSchema)
		if !st.OK() {
			return st
		}
		i.AppendEffect(fx.(engine.Effect))
	}
	for _, mv := range v.Get("markers").Array() {
		m, st := e.decodeAs(mv, engine.TagMarker, engine.MalformedSchema)
		if !st.OK() {
			return st
		}
		i.AppendMarker(m.(engine.Marker))
	}
	return nil
}

func (e *Engine) decodeChildren(c *compBase, v gjson.Result) *engine.Status {
	if st := e.decodeItem(&c.itemBase, v); !st.OK() {
		return st
	}
	for _, cv := range v.Get("children").Array() {
		ch, st := e.decodeAs(cv, engine.TagItem, engine.NotAnItem)
		if !st.OK() {
			return st
		}
		if st := c.AppendChild(ch.(engine.Composable)); !st.OK() {
			drop(ch)
			return st
		}
	}
	return nil
}

func (e *Engine) decodeClip(c *Clip, v gjson.Result, version int) *engine.Status {
	if st := e.decodeItem(&c.itemBase, v); !st.OK() {
		return st
	}

	var ref gjson.Result
	if version == 1 {
		ref = v.Get("media_reference")
	} else {
		refs := v.Get("media_references").Map()
		key := v.Get("active_media_reference_key").String()
		if _, bad := refs[""]; bad {
			return engine.Fail(engine.MediaReferencesContainEmptyKey, "media references contain an empty key")
		}
		if key == "" && len(refs) == 0 {
			return nil
		}
		r, ok := refs[key]
		if !ok {
			return engine.Fail(engine.MediaReferencesDoNotContainActiveKey,
				fmt.Sprintf("media references do not contain %q", key))
		}
		ref = r
	}
	if !ref.IsObject() {
		return nil
	}

	m, st := e.decodeAs(ref, engine.TagMediaReference, engine.MalformedSchema)
	if !st.OK() {
		return st
	}
	c.SetMediaReference(m.(engine.MediaReference))
	return nil
}

func (e *Engine) decode(v gjson.Result) (node, *engine.Status) {
	if !v.IsObject() {
		return nil, engine.Fail(engine.MalformedSchema, "expected a schema object")
	}
	tag, version, st := parseSchema(v)
	if !st.OK() {
		return nil, st
	}

	var n node
	switch tag {
	case engine.TagClip:
		c := &Clip{}
		e.track(c, tag, "")
		n, st = c, e.decodeClip(c, v, version)
	case engine.TagGap:
		g := &Gap{}
		e.track(g, tag, "")
		n, st = g, e.decodeItem(&g.itemBase, v)
	case engine.TagTrack:
		t := &Track{kind: v.Get("kind").String()}
		e.track(t, tag, "")
		t.sequential = true
		n, st = t, e.decodeChildren(&t.compBase, v)
	case engine.TagStack:
		s := &Stack{}
		e.track(s, tag, "")
		n, st = s, e.decodeChildren(&s.compBase, v)
	case engine.TagComposition:
		c := &Composition{}
		e.track(c, tag, "")
		n, st = c, e.decodeChildren(&c.compBase, v)
	case engine.TagTimeline:
		t := &Timeline{globalStartTime: decodeOptTime(v.Get("global_start_time"))}
		e.track(t, tag, "")
		n = t
		if tv := v.Get("tracks"); tv.IsObject() {
			var s node
			if s, st = e.decodeAs(tv, engine.TagStack, engine.MalformedSchema); st.OK() {
				t.SetTracks(s.(engine.Stack))
			}
		}
	case engine.TagExternalReference:
		r := &ExternalReference{targetURL: v.Get("target_url").String()}
		e.track(r, tag, "")
		r.availableRange = decodeRange(v.Get("available_range"))
		n = r
	case engine.TagMissingReference:
		r := &MissingReference{}
		e.track(r, tag, "")
		r.availableRange = decodeRange(v.Get("available_range"))
		n = r
	case engine.TagEffect:
		f := &Effect{effectName: v.Get("effect_name").String(), enabled: true}
		if en := v.Get("enabled"); en.Exists() {
			f.enabled = en.Bool()
		}
		e.track(f, tag, "")
		n = f
	case engine.TagMarker:
		m := &Marker{
			color:   v.Get("color").String(),
			comment: v.Get("comment").String(),
		}
		if r := decodeRange(v.Get("marked_range")); r != nil {
			m.markedRange = *r
		}
		e.track(m, tag, "")
		n = m
	default:
		return nil, engine.Fail(engine.SchemaNotRegistered, tag.String())
	}

	if !st.OK() {
		drop(n)
		return nil, st
	}
	decodeHeader(n, v)
	return n, nil
}
