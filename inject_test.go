package cascade

import "testing"

func TestInjectClickConsumesOneEventPerAdvance(t *testing.T) {
	o := New(Config{})
	n := cardNode("card", Rect{Width: 100, Height: 100})
	mustMount(t, o, n, 0)

	o.InjectMove(50, 50)
	o.InjectClick(50, 50)
	if got := o.PendingInput(); got != 3 {
		t.Fatalf("PendingInput = %d, want 3", got)
	}

	o.Advance(0)
	if n.Target() != "lift" || o.PendingInput() != 2 {
		t.Fatalf("after move: target %q pending %d", n.Target(), o.PendingInput())
	}
	o.Advance(0.5)
	if n.Target() != "press" || n.StartTime() != 0.5 {
		t.Errorf("after press: target %q start %v", n.Target(), n.StartTime())
	}
	o.Advance(1)
	if n.Target() != "lift" || o.PendingInput() != 0 {
		t.Errorf("after release: target %q pending %d", n.Target(), o.PendingInput())
	}
}

func TestInjectMoveKeepsPressHeld(t *testing.T) {
	o := New(Config{})
	n := cardNode("card", Rect{Width: 100, Height: 100})
	mustMount(t, o, n, 0)

	o.InjectPress(50, 50)
	o.InjectMove(500, 500)
	o.Advance(0)
	o.Advance(0.1)
	if !o.pointer.down {
		t.Fatal("move released the pointer")
	}
	// Off the node, but the press captured it.
	if n.Target() != "press" {
		t.Errorf("target while held = %q, want press", n.Target())
	}

	o.InjectRelease(500, 500)
	o.Advance(0.2)
	if n.Target() != "rest" {
		t.Errorf("target after release = %q, want rest", n.Target())
	}
}

func TestInjectMoveAfterDrainUsesPointerState(t *testing.T) {
	o := New(Config{})
	n := cardNode("card", Rect{Width: 100, Height: 100})
	mustMount(t, o, n, 0)

	o.PointerDown(50, 50, 0)
	o.InjectMove(60, 60)
	o.Advance(0.1)
	if !o.pointer.down || n.Target() != "press" {
		t.Errorf("down %v target %q", o.pointer.down, n.Target())
	}
}
