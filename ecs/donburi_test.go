package ecs

import (
	"testing"

	"github.com/phanxgames/cascade"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func fadeNode(id string) *cascade.Node {
	reg := cascade.NewRegistry("fade").
		MustRegister("hidden", cascade.Variant{Props: cascade.Props{}.WithOpacity(0)}).
		MustRegister("visible", cascade.Variant{Props: cascade.Props{}.WithOpacity(1), Transition: cascade.Tween(0.5)})
	n := cascade.NewNode(id, reg)
	n.Initial = "hidden"
	n.Animate = "visible"
	return n
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []cascade.AnimationEvent
	AnimationEventType.Subscribe(world, func(w donburi.World, e cascade.AnimationEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(cascade.AnimationEvent{Type: cascade.AnimationStarted, NodeID: "hero", Variant: "visible", Time: 0.1})
	sink.EmitEvent(cascade.AnimationEvent{Type: cascade.AnimationCompleted, NodeID: "hero", Variant: "visible", Time: 0.6})

	// Events are queued until processed.
	AnimationEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Type != cascade.AnimationStarted || received[0].NodeID != "hero" {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Type != cascade.AnimationCompleted || received[1].Time != 0.6 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink cascade.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_OrchestratorLifecycle(t *testing.T) {
	world := donburi.NewWorld()
	o := cascade.New(cascade.Config{Sink: NewDonburiSink(world)})

	var types []cascade.AnimationEventType
	AnimationEventType.Subscribe(world, func(w donburi.World, e cascade.AnimationEvent) {
		types = append(types, e.Type)
	})

	if err := o.Mount(fadeNode("hero"), 0); err != nil {
		t.Fatal(err)
	}
	o.Advance(0)
	o.Advance(0.5)
	events.ProcessAllEvents(world)

	if len(types) != 2 || types[0] != cascade.AnimationStarted || types[1] != cascade.AnimationCompleted {
		t.Errorf("lifecycle = %v, want [started completed]", types)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	AnimationEventType.Subscribe(world, func(w donburi.World, e cascade.AnimationEvent) {
		count1++
	})
	AnimationEventType.Subscribe(world, func(w donburi.World, e cascade.AnimationEvent) {
		count2++
	})

	sink.EmitEvent(cascade.AnimationEvent{Type: cascade.AnimationCancelled})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestSync(t *testing.T) {
	world := donburi.NewWorld()
	o := cascade.New(cascade.Config{})
	if err := o.Mount(fadeNode("hero"), 0); err != nil {
		t.Fatal(err)
	}
	hero := Spawn(world, "hero")
	orphan := Spawn(world, "missing")

	o.Advance(0)
	o.Advance(0.25)
	if n := Sync(world, o); n != 1 {
		t.Fatalf("Sync updated %d entities, want 1", n)
	}

	got := PresentationComponent.Get(world.Entry(hero))
	if got.Opacity != 0.5 {
		t.Errorf("hero opacity = %v, want 0.5", got.Opacity)
	}
	if p := PresentationComponent.Get(world.Entry(orphan)); *p != cascade.DefaultPresentation {
		t.Errorf("orphan presentation = %+v, want default", *p)
	}
}
