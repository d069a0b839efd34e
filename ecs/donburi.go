package ecs

import (
	"github.com/phanxgames/willowvr"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for willowvr interaction
// events. Subscribe to this in your ECS systems to receive cursor enter,
// cursor leave and input events.
var InteractionEventType = events.NewEventType[willowvr.InteractionEvent]()

// DonburiStore is an EntityStore backed by a Donburi world.
type DonburiStore struct {
	world   donburi.World
	hovered uint32
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world}
}

// EmitEvent implements willowvr.EntityStore.
func (s *DonburiStore) EmitEvent(event willowvr.InteractionEvent) {
	switch event.Type {
	case willowvr.EventCursorEnter:
		s.hovered = event.EntityID
	case willowvr.EventCursorLeave:
		if s.hovered == event.EntityID {
			s.hovered = 0
		}
	}
	InteractionEventType.Publish(s.world, event)
}

// Hovered returns the EntityID of the current cursor target, or 0. It is
// updated as events are emitted, before they are processed.
func (s *DonburiStore) Hovered() uint32 {
	return s.hovered
}
