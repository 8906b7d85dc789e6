package ecs

import (
	"github.com/phanxgames/cardtable"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// DeckEventType is the Donburi event type for cardtable deck transitions.
var DeckEventType = events.NewEventType[cardtable.DeckEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Deck events are published to DeckEventType and can be consumed with
// Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) cardtable.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitDeckEvent(event cardtable.DeckEvent) {
	DeckEventType.Publish(s.world, event)
}
