package willowvr

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// cursorPosition reads the mouse position. Replaced in tests.
var cursorPosition = ebiten.CursorPosition

// --- Ray sources ---

// RaySource produces at most one ray per frame from a device.
type RaySource interface {
	Ray(cam *Camera) (Ray, bool)
}

// MouseRaySource casts a ray from the camera through the mouse cursor. No
// ray is produced while the cursor is outside the camera viewport.
type MouseRaySource struct {
	DrawsCursor bool
}

// Ray implements RaySource.
func (m *MouseRaySource) Ray(cam *Camera) (Ray, bool) {
	if cam == nil {
		return Ray{}, false
	}
	mx, my := cursorPosition()
	sx, sy := float64(mx), float64(my)
	if !cam.Viewport.Contains(sx, sy) {
		return Ray{}, false
	}
	r := cam.ScreenToRay(sx, sy)
	r.Type = RayTypeMouse
	r.DrawsCursor = m.DrawsCursor
	return r, true
}

// GazeRaySource casts a ray straight ahead from the camera.
type GazeRaySource struct {
	DrawsCursor bool
}

// Ray implements RaySource.
func (g *GazeRaySource) Ray(cam *Camera) (Ray, bool) {
	if cam == nil {
		return Ray{}, false
	}
	return Ray{
		Origin:      cam.Position,
		Direction:   cam.Forward(),
		Type:        RayTypeGaze,
		DrawsCursor: g.DrawsCursor,
	}, true
}

// --- Input channels ---

// InputChannel polls a device once per frame and appends its events.
type InputChannel interface {
	Poll(events []InputEvent) []InputEvent
}

// KeyboardChannel reports key presses and releases.
type KeyboardChannel struct {
	keys []ebiten.Key
}

// Poll implements InputChannel.
func (k *KeyboardChannel) Poll(events []InputEvent) []InputEvent {
	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	for _, key := range k.keys {
		events = append(events, InputEvent{Channel: ChannelKeyboard, Type: InputKeyDown, Key: key.String()})
	}
	k.keys = inpututil.AppendJustReleasedKeys(k.keys[:0])
	for _, key := range k.keys {
		events = append(events, InputEvent{Channel: ChannelKeyboard, Type: InputKeyUp, Key: key.String()})
	}
	return events
}

var mouseButtons = [...]struct {
	eb  ebiten.MouseButton
	btn MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// MouseButtonChannel reports mouse button presses and releases.
type MouseButtonChannel struct{}

// Poll implements InputChannel.
func (MouseButtonChannel) Poll(events []InputEvent) []InputEvent {
	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb.eb) {
			events = append(events, InputEvent{Channel: ChannelMouse, Type: InputButtonDown, Button: int(mb.btn)})
		}
		if inpututil.IsMouseButtonJustReleased(mb.eb) {
			events = append(events, InputEvent{Channel: ChannelMouse, Type: InputButtonUp, Button: int(mb.btn)})
		}
	}
	return events
}

// GamepadChannel reports gamepad button presses and releases for every
// connected gamepad.
type GamepadChannel struct {
	ids     []ebiten.GamepadID
	buttons []ebiten.GamepadButton
}

// Poll implements InputChannel.
func (g *GamepadChannel) Poll(events []InputEvent) []InputEvent {
	g.ids = ebiten.AppendGamepadIDs(g.ids[:0])
	for _, id := range g.ids {
		g.buttons = inpututil.AppendJustPressedGamepadButtons(id, g.buttons[:0])
		for _, b := range g.buttons {
			events = append(events, InputEvent{Channel: ChannelGamepad, Type: InputButtonDown, Button: int(b), Gamepad: int(id)})
		}
		g.buttons = inpututil.AppendJustReleasedGamepadButtons(id, g.buttons[:0])
		for _, b := range g.buttons {
			events = append(events, InputEvent{Channel: ChannelGamepad, Type: InputButtonUp, Button: int(b), Gamepad: int(id)})
		}
	}
	return events
}
