// Package ecs provides ECS adapters for cascade's animation lifecycle.
//
// The primary adapter is [NewDonburiSink], which bridges cascade lifecycle
// events (started, completed, cancelled) into a [Donburi] world as typed
// events. Subscribe to [AnimationEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	o := cascade.New(cascade.Config{Sink: sink})
//
// Entities created with [Spawn] carry a [NodeRef] and a presentation
// component; call [Sync] once per frame after Advance to copy the animated
// values into the world.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
