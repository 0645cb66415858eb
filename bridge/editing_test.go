package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

func at(v, rate float64) engine.RationalTime {
	return engine.RationalTime{Value: v, Rate: rate}
}

func outcome(t *testing.T, err error) string {
	t.Helper()
	var e *errors.Error
	require.True(t, errors.As(err, &e), "not a bridge error: %v", err)
	return e.Outcome
}

func TestTrimAndSlide(t *testing.T) {
	b, _ := newTestBridge(t)

	r1, r2 := rng(10, 48, 24), rng(0, 24, 24)
	track, _ := b.CreateTrack("V1", "Video")
	a, _ := b.CreateClip("a", &r1)
	g, _ := b.CreateGap("g", &r2)
	require.NoError(t, b.AppendChild(track, a))
	require.NoError(t, b.AppendChild(track, g))

	require.NoError(t, b.Trim(a, at(2, 24), at(-2, 24)))
	got, ok, err := b.SourceRange(a)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rng(12, 44, 24), got)

	require.NoError(t, b.Slide(g, at(4, 24)))
	got, _, _ = b.SourceRange(a)
	assert.Equal(t, 48.0, got.Duration.Value, "previous sibling absorbs the slide")

	require.NoError(t, b.Slide(a, at(4, 24)), "first item does not move")
	got, _, _ = b.SourceRange(a)
	assert.Equal(t, 48.0, got.Duration.Value)

	err = b.Trim(a, at(0, 24), at(-48, 24))
	require.ErrorIs(t, err, errors.ErrEngine)
	assert.Equal(t, "INVALID_TIME_RANGE", outcome(t, err))
}

func TestSlip(t *testing.T) {
	b, _ := newTestBridge(t)

	r := rng(10, 20, 24)
	avail := rng(0, 40, 24)
	ref, _ := b.CreateExternalReference("file:///a.mov", &avail)
	clip, _ := b.CreateClip("a", &r)
	require.NoError(t, b.SetMediaReference(clip, ref))

	err := b.Slip(clip, at(5, 24))
	require.ErrorIs(t, err, errors.ErrEngine)
	assert.Equal(t, "NOT_A_CHILD", outcome(t, err))

	track, _ := b.CreateTrack("V1", "Video")
	require.NoError(t, b.AppendChild(track, clip))

	require.NoError(t, b.Slip(clip, at(5, 24)))
	got, _, _ := b.SourceRange(clip)
	assert.Equal(t, rng(15, 20, 24), got)

	require.NoError(t, b.Slip(clip, at(100, 24)))
	got, _, _ = b.SourceRange(clip)
	assert.Equal(t, 20.0, got.Start.Value, "clamped to the available range")
}

func TestEditing_Validation(t *testing.T) {
	b, _ := newTestBridge(t)

	track, _ := b.CreateTrack("V1", "Video")
	clip, _ := b.CreateClip("a", nil)
	tl, _ := b.CreateTimeline("T")

	require.ErrorIs(t, b.Trim(clip, at(1, 0), at(0, 24)), errors.ErrInvalidInput)
	require.ErrorIs(t, b.Slip(clip, at(1, -24)), errors.ErrInvalidInput)
	require.ErrorIs(t, b.Slide(tl, at(1, 24)), errors.ErrTypeMismatch)
	require.ErrorIs(t, b.Overwrite(clip, track, rng(0, -1, 24)), errors.ErrInvalidInput)
	require.ErrorIs(t, b.Insert(clip, tl, at(0, 24)), errors.ErrTypeMismatch)

	err := b.Insert(clip, track, at(0, 24))
	require.ErrorIs(t, err, errors.ErrEngine)
	assert.Equal(t, "NOT_IMPLEMENTED", outcome(t, err))
	err = b.Overwrite(clip, track, rng(0, 24, 24))
	assert.Equal(t, "NOT_IMPLEMENTED", outcome(t, err))

	require.NoError(t, b.Delete(clip))
	require.ErrorIs(t, b.Trim(clip, at(1, 24), at(0, 24)), errors.ErrStaleHandle)
}

func TestEditing_RejectsNonFiniteTimes(t *testing.T) {
	b, _ := newTestBridge(t)

	r := rng(10, 20, 24)
	track, _ := b.CreateTrack("V1", "Video")
	clip, _ := b.CreateClip("a", &r)
	g, _ := b.CreateGap("g", &r)
	require.NoError(t, b.AppendChild(track, clip))
	require.NoError(t, b.AppendChild(track, g))

	for _, bad := range []engine.RationalTime{
		at(math.NaN(), 24),
		at(math.Inf(1), 24),
		at(math.Inf(-1), 24),
		at(1, math.Inf(1)),
	} {
		require.ErrorIs(t, b.Trim(clip, bad, at(0, 24)), errors.ErrInvalidInput, "trim in %v", bad)
		require.ErrorIs(t, b.Trim(clip, at(0, 24), bad), errors.ErrInvalidInput, "trim out %v", bad)
		require.ErrorIs(t, b.Slip(clip, bad), errors.ErrInvalidInput, "slip %v", bad)
		require.ErrorIs(t, b.Slide(g, bad), errors.ErrInvalidInput, "slide %v", bad)
		require.ErrorIs(t, b.Insert(clip, track, bad), errors.ErrInvalidInput, "insert %v", bad)
	}
	require.ErrorIs(t, b.Overwrite(clip, track, rng(math.NaN(), 1, 24)), errors.ErrInvalidInput)

	got, _, _ := b.SourceRange(clip)
	assert.Equal(t, r, got, "source range untouched")
	got, _, _ = b.SourceRange(g)
	assert.Equal(t, r, got)
}

func TestJSONRoundTrip(t *testing.T) {
	b, eng := newTestBridge(t)

	tl, _ := b.CreateTimeline("Show")
	tracks, _ := b.TimelineTracks(tl)
	track, _ := b.CreateTrack("V1", "Video")
	r := rng(0, 24, 24)
	clip, _ := b.CreateClip("A", &r)
	require.NoError(t, b.SetMetadataString(clip, "reel", "A001"))
	require.NoError(t, b.AppendChild(track, clip))
	require.NoError(t, b.AppendChild(tracks, track))

	doc, err := b.ToJSON(tl, 2)
	require.NoError(t, err)
	assert.Contains(t, doc, "\n  ")

	back, err := b.FromJSON(doc)
	require.NoError(t, err)
	schema, _ := b.ObjectSchema(back)
	assert.Equal(t, "Timeline.1", schema)
	d, err := b.TimelineDuration(back)
	require.NoError(t, err)
	assert.Equal(t, at(24, 24), d)

	name, _ := b.Name(back)
	assert.Equal(t, "Show", name)

	_, err = b.FromJSON("")
	require.ErrorIs(t, err, errors.ErrInvalidInput)
	_, err = b.FromJSON("{")
	assert.Equal(t, "JSON_PARSE_ERROR", outcome(t, err))
	_, err = b.FromJSON(`{"OTIO_SCHEMA": "Nope.1"}`)
	assert.Equal(t, "SCHEMA_NOT_REGISTERED", outcome(t, err))

	live := eng.LiveObjects()
	require.NoError(t, b.Delete(back))
	assert.Less(t, eng.LiveObjects(), live)
}
