package cascade

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry("card")
	v := Variant{Props: Props{}.WithOpacity(1).WithY(-10), Transition: Tween(0.2)}
	if err := r.Register("lift", v); err != nil {
		t.Fatal(err)
	}
	got, err := r.Resolve("lift")
	if err != nil {
		t.Fatal(err)
	}
	if y, _ := got.Props.Target(ChannelY); y != -10 {
		t.Errorf("y = %v, want -10", y)
	}
	if got.Transition.Duration() != 0.2 {
		t.Errorf("duration = %v, want 0.2", got.Transition.Duration())
	}
	if !r.Has("lift") || r.Has("drop") {
		t.Error("Has reports wrong membership")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry("card").MustRegister("lift", Variant{})
	err := r.Register("lift", Variant{Props: Props{}.WithScale(2)})
	var dup *DuplicateVariantError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateVariantError", err)
	}
	if dup.Registry != "card" || dup.Name != "lift" {
		t.Errorf("error fields = %+v", dup)
	}
	// The first registration is kept.
	v, _ := r.Resolve("lift")
	if v.Props.Has(ChannelScale) {
		t.Error("duplicate registration replaced the original")
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewRegistry("card")
	_, err := r.Resolve("ghost")
	var uv *UnknownVariantError
	if !errors.As(err, &uv) || uv.Name != "ghost" {
		t.Fatalf("err = %v, want UnknownVariantError", err)
	}
	if !strings.Contains(err.Error(), `"ghost"`) {
		t.Errorf("message %q lacks the variant name", err.Error())
	}
}

func TestRegisterRejects(t *testing.T) {
	r := NewRegistry("card")
	if err := r.Register("", Variant{}); !errors.Is(err, ErrEmptyVariantName) {
		t.Errorf("empty name: %v", err)
	}
	if err := r.Register("slow", Variant{Transition: Tween(-1)}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("negative duration: %v", err)
	}
	if err := r.Register("odd", Variant{Transition: Transition{}.WithEase("zigzag")}); !errors.Is(err, ErrUnknownEasing) {
		t.Errorf("unknown easing: %v", err)
	}
	r.Seal()
	if err := r.Register("late", Variant{}); !errors.Is(err, ErrRegistrySealed) {
		t.Errorf("sealed: %v", err)
	}
	if err := r.SetDefaults(Tween(1)); !errors.Is(err, ErrRegistrySealed) {
		t.Errorf("sealed defaults: %v", err)
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if s, ok := r.(string); !ok || !strings.HasPrefix(s, "cascade: ") {
			t.Errorf("panic = %v", r)
		}
	}()
	NewRegistry("x").MustRegister("a", Variant{}).MustRegister("a", Variant{})
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry("card").
		MustRegister("visible", Variant{}).
		MustRegister("hidden", Variant{}).
		MustRegister("lift", Variant{})
	if diff := cmp.Diff([]string{"hidden", "lift", "visible"}, r.Names()); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	if r.Name() != "card" {
		t.Errorf("Name = %q", r.Name())
	}
}
