package retain

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/engine/memengine"
	"github.com/wippyai/otio-bridge/errors"
)

func TestAdopt_OneShot(t *testing.T) {
	eng := memengine.New()
	clip := eng.NewClip("A", nil, nil)
	before := Outstanding()

	tok, err := Adopt(clip)
	if err != nil {
		t.Fatal(err)
	}
	if clip.RefCount() != 1 {
		t.Fatalf("count = %d, want 1", clip.RefCount())
	}
	if Outstanding() != before+1 {
		t.Fatal("outstanding not incremented")
	}

	if _, err := Adopt(clip); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("second adopt = %v", err)
	}

	deleted, err := tok.Release()
	if err != nil || !deleted {
		t.Fatalf("Release() = %v, %v", deleted, err)
	}
	if eng.LiveObjects() != 0 {
		t.Fatal("object survived last release")
	}
	if Outstanding() != before {
		t.Fatal("outstanding not balanced")
	}
}

func TestAcquire_Balanced(t *testing.T) {
	eng := memengine.New()
	track := eng.NewTrack("V1", "Video")
	clip := eng.NewClip("A", nil, nil)
	track.AppendChild(clip)
	owner, _ := Adopt(track)

	if _, err := Acquire(eng.NewClip("fresh", nil, nil)); err == nil {
		t.Fatal("acquire of fresh object should fail")
	}

	pre := clip.RefCount()
	tok, err := Acquire(clip)
	if err != nil {
		t.Fatal(err)
	}
	if clip.RefCount() != pre+1 {
		t.Fatalf("count = %d, want %d", clip.RefCount(), pre+1)
	}
	deleted, _ := tok.Release()
	if deleted {
		t.Fatal("contained object must survive")
	}
	if clip.RefCount() != pre {
		t.Fatalf("count = %d after release, want %d", clip.RefCount(), pre)
	}
	owner.Release()
}

func TestRelease_Twice(t *testing.T) {
	eng := memengine.New()
	tok, _ := Adopt(eng.NewGap("g", nil))

	if _, err := tok.Release(); err != nil {
		t.Fatal(err)
	}
	_, err := tok.Release()
	if !stderrors.Is(err, errors.ErrDoubleRelease) {
		t.Fatalf("second release = %v", err)
	}
	if tok.Object() != nil || tok.RefCount() != 0 || !tok.Released() {
		t.Fatal("released token still exposes its object")
	}
}

func TestNil(t *testing.T) {
	if _, err := Adopt(nil); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Adopt(nil) = %v", err)
	}
	if _, err := Acquire(nil); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Acquire(nil) = %v", err)
	}
	var tok *Token
	if _, err := tok.Release(); err == nil {
		t.Fatal("nil token release should fail")
	}
}

func TestGet(t *testing.T) {
	eng := memengine.New()
	tok, _ := Adopt(eng.NewTrack("V1", "Video"))
	defer tok.Release()

	if _, ok := Get[engine.Composition](tok); !ok {
		t.Fatal("track should view as composition")
	}
	if _, ok := Get[engine.Clip](tok); ok {
		t.Fatal("track must not view as clip")
	}
	track, ok := Get[engine.Track](tok)
	if !ok || track.Kind() != "Video" {
		t.Fatal("typed view lost")
	}
}
