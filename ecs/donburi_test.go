package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/willowvr"

	"github.com/yohamta/donburi"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
	if store.Hovered() != 0 {
		t.Errorf("Hovered = %d, want 0", store.Hovered())
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []willowvr.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e willowvr.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(willowvr.InteractionEvent{
		Type:     willowvr.EventCursorEnter,
		EntityID: 42,
		Distance: 2.5,
		RayType:  willowvr.RayTypeGaze,
	})
	store.EmitEvent(willowvr.InteractionEvent{
		Type:     willowvr.EventInput,
		EntityID: 42,
		Input:    willowvr.InputEvent{Channel: willowvr.ChannelKeyboard, Type: willowvr.InputKeyDown, Key: "Enter"},
	})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before ProcessEvents", len(received))
	}
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != willowvr.EventCursorEnter || e0.EntityID != 42 || e0.Distance != 2.5 {
		t.Errorf("event 0: %+v", e0)
	}
	e1 := received[1]
	if e1.Type != willowvr.EventInput || e1.Input.Key != "Enter" {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	var store willowvr.EntityStore = NewDonburiStore(donburi.NewWorld())
	_ = store // compile-time interface check
}

func TestDonburiStore_Hovered(t *testing.T) {
	store := NewDonburiStore(donburi.NewWorld())

	store.EmitEvent(willowvr.InteractionEvent{Type: willowvr.EventCursorEnter, EntityID: 7})
	if store.Hovered() != 7 {
		t.Errorf("Hovered = %d, want 7", store.Hovered())
	}
	// A stale leave for another entity does not clear the current target.
	store.EmitEvent(willowvr.InteractionEvent{Type: willowvr.EventCursorLeave, EntityID: 3})
	if store.Hovered() != 7 {
		t.Errorf("Hovered = %d, want 7", store.Hovered())
	}
	store.EmitEvent(willowvr.InteractionEvent{Type: willowvr.EventCursorLeave, EntityID: 7})
	if store.Hovered() != 0 {
		t.Errorf("Hovered = %d, want 0", store.Hovered())
	}
}

func TestDonburiStore_RuntimeBridge(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var types []willowvr.EventType
	InteractionEventType.Subscribe(world, func(w donburi.World, e willowvr.InteractionEvent) {
		types = append(types, e.Type)
	})

	rt := willowvr.NewRuntime(nil, willowvr.RuntimeOptions{})
	rt.SetEntityStore(store)
	target := willowvr.NewShapeNode("target", willowvr.Quad{Width: 1, Height: 1})
	target.Interactable = true
	target.EntityID = 9
	target.SetPosition(0, 0, -2)
	rt.Root().AddChild(target)

	ray := willowvr.Ray{Direction: mgl64.Vec3{0, 0, -1}, Type: willowvr.RayTypeMouse}
	rt.SetRays([]willowvr.Ray{ray}, mgl64.Vec3{}, mgl64.QuatIdent())
	if store.Hovered() != 9 {
		t.Errorf("Hovered = %d, want 9", store.Hovered())
	}
	rt.SetRays(nil, mgl64.Vec3{}, mgl64.QuatIdent())

	InteractionEventType.ProcessEvents(world)
	if len(types) != 2 || types[0] != willowvr.EventCursorEnter || types[1] != willowvr.EventCursorLeave {
		t.Errorf("events = %v, want [CursorEnter CursorLeave]", types)
	}
}
