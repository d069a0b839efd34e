package willowvr

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// Input channel names.
const (
	ChannelKeyboard = "keyboard"
	ChannelMouse    = "mouse"
	ChannelGamepad  = "gamepad"
)

// Input event types.
const (
	InputKeyDown    = "keydown"
	InputKeyUp      = "keyup"
	InputButtonDown = "buttondown"
	InputButtonUp   = "buttonup"
)

// InputEvent is one event produced by an input channel.
type InputEvent struct {
	Channel string
	Type    string
	// Key is the key name for keyboard events.
	Key string
	// Button is the button index for mouse and gamepad events.
	Button int
	// Gamepad is the gamepad ID for gamepad events.
	Gamepad int
}

// --- Handler registry ---

type cursorHandler struct {
	id uint32
	fn func(CursorContext)
}

type inputHandler struct {
	id uint32
	fn func(InputContext)
}

type handlerRegistry struct {
	cursorEnter []cursorHandler
	cursorLeave []cursorHandler
	input       []inputHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered runtime-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventCursorEnter:
		h.reg.cursorEnter = removeHandler(h.reg.cursorEnter, h.id, func(c cursorHandler) uint32 { return c.id })
	case EventCursorLeave:
		h.reg.cursorLeave = removeHandler(h.reg.cursorLeave, h.id, func(c cursorHandler) uint32 { return c.id })
	case EventInput:
		h.reg.input = removeHandler(h.reg.input, h.id, func(c inputHandler) uint32 { return c.id })
	}
}

func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// OnCursorEnter registers a callback fired when the resolved target changes
// to a node.
func (rt *Runtime) OnCursorEnter(fn func(CursorContext)) CallbackHandle {
	rt.handlers.nextID++
	id := rt.handlers.nextID
	rt.handlers.cursorEnter = append(rt.handlers.cursorEnter, cursorHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &rt.handlers, event: EventCursorEnter}
}

// OnCursorLeave registers a callback fired when the resolved target changes
// away from a node.
func (rt *Runtime) OnCursorLeave(fn func(CursorContext)) CallbackHandle {
	rt.handlers.nextID++
	id := rt.handlers.nextID
	rt.handlers.cursorLeave = append(rt.handlers.cursorLeave, cursorHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &rt.handlers, event: EventCursorLeave}
}

// OnInput registers a callback fired for every queued input event. Target
// is the current cursor target, possibly nil.
func (rt *Runtime) OnInput(fn func(InputContext)) CallbackHandle {
	rt.handlers.nextID++
	id := rt.handlers.nextID
	rt.handlers.input = append(rt.handlers.input, inputHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &rt.handlers, event: EventInput}
}

// --- Dispatch ---

// updateLastHit fires leave/enter when the resolved target changed between
// prev and next.
func (rt *Runtime) updateLastHit(prev, next CursorState) {
	if prev.LastHit == next.LastHit {
		return
	}
	if old := prev.LastHit; old != nil && !old.disposed {
		ctx := CursorContext{Node: old, EntityID: old.EntityID, UserData: old.UserData, RayType: next.RayType}
		if old.OnCursorLeave != nil {
			old.OnCursorLeave(ctx)
		}
		for _, h := range rt.handlers.cursorLeave {
			h.fn(ctx)
		}
		rt.emit(InteractionEvent{Type: EventCursorLeave, EntityID: old.EntityID, RayType: next.RayType})
	}
	if n := next.LastHit; n != nil {
		ctx := CursorContext{
			Node:     n,
			EntityID: n.EntityID,
			UserData: n.UserData,
			Distance: next.IntersectDistance,
			RayType:  next.RayType,
		}
		if n.OnCursorEnter != nil {
			n.OnCursorEnter(ctx)
		}
		for _, h := range rt.handlers.cursorEnter {
			h.fn(ctx)
		}
		rt.emit(InteractionEvent{
			Type:     EventCursorEnter,
			EntityID: n.EntityID,
			Distance: next.IntersectDistance,
			RayType:  next.RayType,
		})
	}
}

// dispatchInput routes evt to runtime-level handlers, then to the cursor
// target's OnInput, bubbling through ancestors until a handler returns true.
func (rt *Runtime) dispatchInput(evt InputEvent) {
	target := rt.cursor.LastHit
	ctx := InputContext{Target: target, Node: target, Event: evt}
	if target != nil {
		ctx.EntityID = target.EntityID
		ctx.UserData = target.UserData
	}
	for _, h := range rt.handlers.input {
		h.fn(ctx)
	}

	var entityID uint32
	if target != nil {
		entityID = target.EntityID
	}
	rt.emit(InteractionEvent{Type: EventInput, EntityID: entityID, Input: evt})

	for n := target; n != nil; n = n.Parent {
		if n.OnInput == nil {
			continue
		}
		ctx.Node = n
		ctx.EntityID = n.EntityID
		ctx.UserData = n.UserData
		if n.OnInput(ctx) {
			return
		}
	}
}
