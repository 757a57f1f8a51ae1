// Package ecs provides ECS adapters for cascade.
package ecs

import (
	"github.com/phanxgames/cascade"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// AnimationEventType is the Donburi event type for cascade lifecycle events.
// Subscribe to this in your ECS systems to receive started, completed and
// cancelled notifications.
var AnimationEventType = events.NewEventType[cascade.AnimationEvent]()

// NodeRef links an entity to a cascade node by ID.
type NodeRef struct {
	ID string
}

// NodeComponent holds the NodeRef of an animated entity.
var NodeComponent = donburi.NewComponentType[NodeRef]()

// PresentationComponent receives the node's presentation on every Sync.
var PresentationComponent = donburi.NewComponentType[cascade.Presentation]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Lifecycle events are published to AnimationEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) cascade.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event cascade.AnimationEvent) {
	AnimationEventType.Publish(s.world, event)
}

// Spawn creates an entity bound to nodeID with a default presentation.
func Spawn(world donburi.World, nodeID string) donburi.Entity {
	e := world.Create(NodeComponent, PresentationComponent)
	entry := world.Entry(e)
	NodeComponent.SetValue(entry, NodeRef{ID: nodeID})
	PresentationComponent.SetValue(entry, cascade.DefaultPresentation)
	return e
}

var syncQuery = donburi.NewQuery(filter.Contains(NodeComponent, PresentationComponent))

// Sync copies the presentation of every mounted node into the entities bound
// to it. Entities whose node is not mounted keep their last value. It returns
// the number of entities updated.
func Sync(world donburi.World, o *cascade.Orchestrator) int {
	updated := 0
	syncQuery.Each(world, func(entry *donburi.Entry) {
		ref := NodeComponent.Get(entry)
		p, err := o.Presentation(ref.ID)
		if err != nil {
			return
		}
		PresentationComponent.SetValue(entry, p)
		updated++
	})
	return updated
}
