// Package ecs provides ECS adapters for cardtable's deck events.
//
// The primary adapter is [NewDonburiSink], which bridges deck transitions
// (draw, discard) into a [Donburi] world as typed events. Subscribe to
// [DeckEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	deck.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
