package cascade

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tanema/gween/ease"
)

// --- Props ---

func TestPropsCopyOnWrite(t *testing.T) {
	frames := []float64{1, 2, 3}
	p := Props{}.WithKeyframes(ChannelScale, frames...)
	frames[0] = 99
	if got := p.Keyframes(ChannelScale); got[0] != 1 {
		t.Errorf("keyframes aliased caller slice: %v", got)
	}
	q := p.WithOpacity(0)
	if p.Has(ChannelOpacity) {
		t.Error("With mutated the receiver")
	}
	if !q.Has(ChannelScale) || !q.Has(ChannelOpacity) {
		t.Error("With lost channels")
	}
	if p.WithKeyframes(ChannelScale).Has(ChannelScale) {
		t.Error("empty keyframes should clear the channel")
	}
}

func TestPropsApply(t *testing.T) {
	p := Props{}.WithOpacity(0.5).WithKeyframes(ChannelRotation, 0, 90, 45)
	got := p.Apply(DefaultPresentation)
	want := Presentation{Opacity: 0.5, Scale: 1, Rotation: 45}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply (-want +got):\n%s", diff)
	}
	if !(Props{}).Empty() || p.Empty() {
		t.Error("Empty reports wrong value")
	}
}

func TestParseChannel(t *testing.T) {
	for c := range numChannels {
		got, err := ParseChannel(c.String())
		if err != nil || got != c {
			t.Errorf("ParseChannel(%q) = %v, %v", c.String(), got, err)
		}
	}
	if c, err := ParseChannel("rotation"); err != nil || c != ChannelRotation {
		t.Errorf("rotation alias = %v, %v", c, err)
	}
	if _, err := ParseChannel("color"); err == nil {
		t.Error("expected error for unknown property")
	}
}

func TestWithKeyframesInvalidChannelPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Props{}.With(Channel(42), 1)
}

// --- Track ---

func TestTrackSample(t *testing.T) {
	from := Presentation{Opacity: 0, Scale: 1}
	props := Props{}.WithOpacity(1).WithX(100)
	tr := newTrack("visible", props, Tween(2), ease.Linear, from, 1)

	p, done := tr.sample(0.5)
	if done || p != from {
		t.Errorf("before start: %+v done=%v", p, done)
	}
	p, done = tr.sample(2)
	if done {
		t.Error("done at midpoint")
	}
	assertNear(t, "opacity", p.Opacity, 0.5)
	assertNear(t, "x", p.X, 50)
	if p.Scale != 1 {
		t.Errorf("unanimated scale changed to %v", p.Scale)
	}
	p, done = tr.sample(3)
	if !done || p.Opacity != 1 || p.X != 100 {
		t.Errorf("at end: %+v done=%v", p, done)
	}
}

func TestTrackIsPureInTime(t *testing.T) {
	tr := newTrack("v", Props{}.WithY(10), Tween(1), ease.OutQuad, DefaultPresentation, 0)
	a, _ := tr.sample(0.7)
	_, _ = tr.sample(0.2)
	b, _ := tr.sample(0.7)
	if a != b {
		t.Errorf("sampling the same time twice differs: %+v vs %+v", a, b)
	}
}

func TestTrackKeyframeSegments(t *testing.T) {
	props := Props{}.WithKeyframes(ChannelY, 0, -20, 10, 0)
	tr := newTrack("bounce", props, Tween(3), ease.Linear, DefaultPresentation, 0)
	for _, tc := range []struct{ at, want float64 }{
		{0.5, -10},
		{1, -20},
		{1.5, -5},
		{2, 10},
		{2.5, 5},
	} {
		// Progress is float32 inside gween.
		if p, _ := tr.sample(tc.at); math.Abs(p.Y-tc.want) > 1e-4 {
			t.Errorf("y at %v = %v, want %v", tc.at, p.Y, tc.want)
		}
	}
}

func TestTrackEasedProgress(t *testing.T) {
	tr := newTrack("v", Props{}.WithOpacity(1), Tween(1), ease.InQuad, Presentation{}, 0)
	p, _ := tr.sample(0.5)
	assertNear(t, "opacity", p.Opacity, 0.25)
}
