package cascade

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	for _, tc := range []struct {
		x, y float64
		want bool
	}{
		{15, 15, true},
		{10, 10, true}, // edge
		{30, 20, true}, // far corner
		{9, 15, false},
		{15, 21, false},
	} {
		if got := r.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRectIntersection(t *testing.T) {
	view := Rect{Width: 100, Height: 100}
	half := Rect{Y: 50, Width: 100, Height: 100}
	if got := view.Intersection(half); got != (Rect{Y: 50, Width: 100, Height: 50}) {
		t.Errorf("Intersection = %+v", got)
	}
	if got := view.Intersection(Rect{X: 200, Width: 10, Height: 10}); !got.Empty() {
		t.Errorf("disjoint intersection = %+v, want empty", got)
	}
	if !view.Intersects(Rect{X: 100, Width: 5, Height: 5}) {
		t.Error("rectangles sharing an edge should intersect")
	}
	if view.Intersects(Rect{X: 101, Width: 5, Height: 5}) {
		t.Error("disjoint rectangles should not intersect")
	}
}

func TestEventKindNames(t *testing.T) {
	for k := EventMount; k <= EventTapEnd; k++ {
		got, err := ParseEventKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseEventKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseEventKind("scroll"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestStatusActive(t *testing.T) {
	active := map[Status]bool{
		StatusIdle: false, StatusPending: true, StatusRunning: true,
		StatusCompleted: false, StatusCancelled: false,
	}
	for s, want := range active {
		if s.Active() != want {
			t.Errorf("%s.Active() = %v, want %v", s, s.Active(), want)
		}
	}
	if StatusRunning.String() != "running" {
		t.Errorf("String = %q", StatusRunning.String())
	}
}
