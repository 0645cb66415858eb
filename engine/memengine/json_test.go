package memengine

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/wippyai/otio-bridge/engine"
)

func buildTimeline(e *Engine) engine.Timeline {
	tl := e.NewTimeline("Show")
	track := e.NewTrack("V1", "Video")
	clip := e.NewClip("A", e.NewExternalReference("file:///a.mov", tr(0, 100, 24)), tr(10, 48, 24))
	clip.Metadata().SetString("reel.name", "A001")
	clip.Metadata().SetBool("hero", true)
	clip.AppendMarker(e.NewMarker("note", *tr(12, 1, 24), "GREEN"))
	clip.AppendEffect(e.NewEffect("fx", "Blur"))
	track.AppendChild(clip)
	track.AppendChild(e.NewGap("gap", tr(0, 24, 24)))
	tl.Tracks().AppendChild(track)
	return tl
}

func TestToJSON_Shape(t *testing.T) {
	e := New()
	tl := buildTimeline(e)

	doc, st := e.ToJSON(tl, 0)
	if !st.OK() {
		t.Fatal(st)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}

	checks := []struct{ path, want string }{
		{"OTIO_SCHEMA", "Timeline.1"},
		{"tracks.OTIO_SCHEMA", "Stack.1"},
		{"tracks.children.0.OTIO_SCHEMA", "Track.1"},
		{"tracks.children.0.kind", "Video"},
		{"tracks.children.0.children.0.name", "A"},
		{"tracks.children.0.children.0.OTIO_SCHEMA", "Clip.2"},
		{"tracks.children.0.children.0.active_media_reference_key", DefaultMediaKey},
		{"tracks.children.0.children.0.media_references.DEFAULT_MEDIA.target_url", "file:///a.mov"},
		{"tracks.children.0.children.0.metadata.reel\\.name", "A001"},
		{"tracks.children.0.children.0.markers.0.color", "GREEN"},
		{"tracks.children.0.children.0.effects.0.effect_name", "Blur"},
		{"tracks.children.0.children.0.source_range.start_time.value", "10"},
		{"tracks.children.0.children.1.OTIO_SCHEMA", "Gap.1"},
	}
	for _, c := range checks {
		if got := gjson.Get(doc, c.path).String(); got != c.want {
			t.Errorf("%s = %q, want %q", c.path, got, c.want)
		}
	}
	if !gjson.Get(doc, "global_start_time").Exists() || gjson.Get(doc, "global_start_time").Type != gjson.Null {
		t.Error("global_start_time should be null")
	}
}

func TestToJSON_Indent(t *testing.T) {
	e := New()
	clip := e.NewClip("A", nil, nil)

	compact, _ := e.ToJSON(clip, 0)
	indented, st := e.ToJSON(clip, 4)
	if !st.OK() {
		t.Fatal(st)
	}
	if strings.Contains(compact, "\n") {
		t.Error("compact output has newlines")
	}
	if !strings.Contains(indented, "\n    \"OTIO_SCHEMA\"") {
		t.Errorf("indented output:\n%s", indented)
	}
	if strings.HasSuffix(indented, "\n") {
		t.Error("trailing newline")
	}
}

func TestRoundTrip(t *testing.T) {
	e := New()
	tl := buildTimeline(e)
	first, _ := e.ToJSON(tl, 0)

	obj, st := e.FromJSON(first)
	if !st.OK() {
		t.Fatal(st)
	}
	if obj.Tag() != engine.TagTimeline || obj.RefCount() != 0 {
		t.Fatalf("decoded %s with count %d", obj.Tag(), obj.RefCount())
	}
	second, _ := e.ToJSON(obj, 0)
	if first != second {
		t.Fatalf("round trip mismatch\n%s\n%s", first, second)
	}

	decoded := obj.(engine.Timeline)
	track := decoded.Tracks().Children()[0].(engine.Track)
	clip := track.Children()[0].(engine.Clip)
	if clip.Parent() != engine.Composition(track) {
		t.Error("decoded parent link missing")
	}
	if v, ok := clip.Metadata().GetString("reel.name"); !ok || v != "A001" {
		t.Errorf("metadata = %q, %v", v, ok)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want engine.Outcome
	}{
		{"not json", "{", engine.JSONParseError},
		{"not object", "[1,2]", engine.MalformedSchema},
		{"no schema", `{"name":"x"}`, engine.MalformedSchema},
		{"bad version", `{"OTIO_SCHEMA":"Clip.x"}`, engine.MalformedSchema},
		{"unknown schema", `{"OTIO_SCHEMA":"Transition.1"}`, engine.SchemaNotRegistered},
		{"abstract schema", `{"OTIO_SCHEMA":"Item.1"}`, engine.SchemaNotRegistered},
		{"future version", `{"OTIO_SCHEMA":"Track.9"}`, engine.SchemaVersionUnsupported},
		{"non item child", `{"OTIO_SCHEMA":"Track.1","children":[{"OTIO_SCHEMA":"Effect.1"}]}`, engine.NotAnItem},
		{"missing active key", `{"OTIO_SCHEMA":"Clip.2","media_references":{"A":{"OTIO_SCHEMA":"MissingReference.1"}},"active_media_reference_key":"B"}`, engine.MediaReferencesDoNotContainActiveKey},
		{"empty key", `{"OTIO_SCHEMA":"Clip.2","media_references":{"":{"OTIO_SCHEMA":"MissingReference.1"}},"active_media_reference_key":""}`, engine.MediaReferencesContainEmptyKey},
		{"bad nested", `{"OTIO_SCHEMA":"Stack.1","children":[{"OTIO_SCHEMA":"Clip.1"},{"OTIO_SCHEMA":"Nope.1"}]}`, engine.SchemaNotRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			obj, st := e.FromJSON(tt.doc)
			if obj != nil {
				t.Fatal("expected no object")
			}
			if st.OK() || st.Outcome != tt.want {
				t.Fatalf("status = %v, want %s", st, tt.want)
			}
			if e.LiveObjects() != 0 {
				t.Fatalf("failed decode leaked %d objects", e.LiveObjects())
			}
		})
	}
}

func TestFromJSON_ClipV1(t *testing.T) {
	e := New()
	obj, st := e.FromJSON(`{"OTIO_SCHEMA":"Clip.1","name":"old","media_reference":{"OTIO_SCHEMA":"ExternalReference.1","target_url":"x.mov"}}`)
	if !st.OK() {
		t.Fatal(st)
	}
	clip := obj.(engine.Clip)
	ref, ok := clip.MediaReference().(engine.ExternalReference)
	if !ok || ref.TargetURL() != "x.mov" {
		t.Fatal("media reference not decoded")
	}
	if clip.SchemaVersion() != 2 {
		t.Fatalf("SchemaVersion() = %d", clip.SchemaVersion())
	}
}

func TestToJSON_ForeignObject(t *testing.T) {
	a, b := New(), New()
	clip := a.NewClip("A", nil, nil)
	if _, st := b.ToJSON(clip, 0); st.Outcome != engine.InternalError {
		t.Fatalf("foreign ToJSON = %v", st)
	}
}

func TestMetadata_UntypedValuesRoundTrip(t *testing.T) {
	e := New()
	doc := `{"OTIO_SCHEMA":"Gap.1","metadata":{"fps":23.976,"nested":{"a":[1,2]},"none":null,"tags":["x","y"],"reel":"A001"},"name":"g"}`
	obj, st := e.FromJSON(doc)
	if !st.OK() {
		t.Fatal(st)
	}

	md := obj.(engine.MetadataObject).Metadata()
	if !md.HasKey("fps") || !md.HasKey("nested") || !md.HasKey("none") {
		t.Fatalf("keys = %v", md.Keys())
	}
	if _, ok := md.GetString("fps"); ok {
		t.Error("number read as string")
	}
	if v, ok := md.GetString("reel"); !ok || v != "A001" {
		t.Errorf("reel = %q, %v", v, ok)
	}

	out, st := e.ToJSON(obj, 0)
	if !st.OK() {
		t.Fatal(st)
	}
	checks := []struct{ path, want string }{
		{"metadata.fps", "23.976"},
		{"metadata.nested", `{"a":[1,2]}`},
		{"metadata.none", "null"},
		{"metadata.tags", `["x","y"]`},
		{"metadata.reel", `"A001"`},
	}
	for _, c := range checks {
		if got := gjson.Get(out, c.path).Raw; got != c.want {
			t.Errorf("%s = %s, want %s", c.path, got, c.want)
		}
	}
}
