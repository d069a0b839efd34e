// Package ecs provides ECS adapters for willowvr's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges willowvr cursor
// and input events into a [Donburi] world as typed events. Subscribe to
// [InteractionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	rt.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
