package engine

import (
	"math"
	"testing"
)

func TestTypeTag_IsA(t *testing.T) {
	tests := []struct {
		tag  TypeTag
		base TypeTag
		want bool
	}{
		{TagClip, TagClip, true},
		{TagClip, TagItem, true},
		{TagClip, TagComposable, true},
		{TagClip, TagSerializableObject, true},
		{TagTrack, TagComposition, true},
		{TagStack, TagItem, true},
		{TagTrack, TagClip, false},
		{TagClip, TagComposition, false},
		{TagTimeline, TagComposable, false},
		{TagExternalReference, TagMediaReference, true},
		{TagMissingReference, TagExternalReference, false},
		{TagMarker, TagSerializableObjectWithMetadata, true},
		{TagInvalid, TagSerializableObject, false},
		{TagClip, TagInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.base.String(), func(t *testing.T) {
			if got := tt.tag.IsA(tt.base); got != tt.want {
				t.Errorf("%s.IsA(%s) = %v, want %v", tt.tag, tt.base, got, tt.want)
			}
		})
	}
}

func TestTypeTag_Parent(t *testing.T) {
	if TagSerializableObject.Parent() != TagInvalid {
		t.Error("root should have no parent")
	}
	if TagTrack.Parent() != TagComposition {
		t.Errorf("Track parent = %s", TagTrack.Parent())
	}
	if TypeTag(200).Parent() != TagInvalid {
		t.Error("unknown tag should have no parent")
	}
}

func TestTagByName(t *testing.T) {
	for tag := TagSerializableObject; tag < tagCount; tag++ {
		got, ok := TagByName(tag.String())
		if !ok || got != tag {
			t.Errorf("TagByName(%q) = %s, %v", tag.String(), got, ok)
		}
	}
	if _, ok := TagByName("Transition"); ok {
		t.Error("unexpected tag for Transition")
	}
	if _, ok := TagByName("Invalid"); ok {
		t.Error("Invalid must not be looked up by name")
	}
}

func TestStatus(t *testing.T) {
	var nilStatus *Status
	if !nilStatus.OK() {
		t.Error("nil status should be OK")
	}
	st := Fail(IllegalIndex, "index 3 out of range")
	if st.OK() {
		t.Error("failing status reported OK")
	}
	if got := st.Error(); got != "ILLEGAL_INDEX: index 3 out of range" {
		t.Errorf("Error() = %q", got)
	}
	if NotAGap.String() != "NOT_A_GAP" {
		t.Errorf("NotAGap = %q", NotAGap.String())
	}
	if Outcome(250).String() != "UNKNOWN" {
		t.Error("out of range outcome should be UNKNOWN")
	}
}

func TestTimeRange_Valid(t *testing.T) {
	good := TimeRange{Start: RationalTime{0, 24}, Duration: RationalTime{48, 24}}
	if !good.Valid() {
		t.Error("expected valid range")
	}
	bad := TimeRange{Start: RationalTime{0, 0}, Duration: RationalTime{48, 24}}
	if bad.Valid() {
		t.Error("zero rate should be invalid")
	}
	neg := TimeRange{Start: RationalTime{0, 24}, Duration: RationalTime{-1, 24}}
	if neg.Valid() {
		t.Error("negative duration should be invalid")
	}
}

func TestRationalTime_ValidRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		t    RationalTime
	}{
		{"nan value", RationalTime{math.NaN(), 24}},
		{"inf value", RationalTime{math.Inf(1), 24}},
		{"neg inf value", RationalTime{math.Inf(-1), 24}},
		{"nan rate", RationalTime{0, math.NaN()}},
		{"inf rate", RationalTime{0, math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.t.Valid() {
				t.Errorf("%v should be invalid", tt.t)
			}
		})
	}

	r := TimeRange{Start: RationalTime{math.NaN(), 24}, Duration: RationalTime{48, 24}}
	if r.Valid() {
		t.Error("range with NaN start should be invalid")
	}
}
