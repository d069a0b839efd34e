package willowvr

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// recordingRenderer records the state active during each Render call.
type recordingRenderer struct {
	state  RenderState
	seen   []RenderState
	roots  []*Node
	failOn *Node
}

func (r *recordingRenderer) RenderState() RenderState     { return r.state }
func (r *recordingRenderer) SetRenderState(s RenderState) { r.state = s }

func (r *recordingRenderer) Render(root *Node, cam *Camera, target *ebiten.Image) error {
	r.seen = append(r.seen, r.state)
	r.roots = append(r.roots, root)
	if root == r.failOn {
		return errors.New("boom")
	}
	return nil
}

// bogusMount satisfies MountPoint without being a Location or Surface.
type bogusMount struct{}

func (bogusMount) mountPoint() {}

func newTestRuntime() (*Runtime, *LocalExecutor) {
	exec := NewLocalExecutor()
	exec.Register("Panel", func(root *Node, props map[string]any) {
		root.AddChild(NewNode("panel"))
	})
	return NewRuntime(nil, RuntimeOptions{Executor: exec}), exec
}

// --- Mounting ---

func TestNewRuntimeDefaults(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	if rt.Root() == nil {
		t.Fatal("Root should be created")
	}
	if _, ok := rt.Executor().(*LocalExecutor); !ok {
		t.Errorf("Executor = %T, want *LocalExecutor", rt.Executor())
	}
	if rt.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", rt.ScreenshotDir, "screenshots")
	}
}

func TestCreateRootViewInvalidMount(t *testing.T) {
	rt, exec := newTestRuntime()

	tests := []struct {
		name string
		dest MountPoint
	}{
		{"nil", nil},
		{"typed nil surface", (*Surface)(nil)},
		{"typed nil location", (*Location)(nil)},
		{"other", bogusMount{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rt.CreateRootView("Panel", nil, tt.dest)
			if !errors.Is(err, ErrInvalidMountPoint) {
				t.Errorf("err = %v, want ErrInvalidMountPoint", err)
			}
		})
	}
	if exec.RootViews() != 0 {
		t.Errorf("RootViews = %d, want 0", exec.RootViews())
	}
}

func TestCreateRootViewSurface(t *testing.T) {
	rt, exec := newTestRuntime()
	s := NewSurface("menu", 64, 32)

	tag, err := rt.CreateRootView("Panel", nil, s)
	if err != nil {
		t.Fatal(err)
	}
	if tag != 1 || exec.RootViews() != 1 {
		t.Errorf("tag = %d, RootViews = %d, want 1, 1", tag, exec.RootViews())
	}
	if s.Root().FindChild("panel") == nil {
		t.Error("component should mount into the surface sub-scene")
	}
	if len(rt.Surfaces()) != 1 || rt.Surfaces()[0] != s {
		t.Error("surface should be registered")
	}

	// Mounting twice on the same surface registers it once.
	if _, err := rt.CreateRootView("Panel", nil, s); err != nil {
		t.Fatal(err)
	}
	if len(rt.Surfaces()) != 1 {
		t.Errorf("Surfaces = %d, want 1", len(rt.Surfaces()))
	}

	rt.UnregisterSurface(s)
	if len(rt.Surfaces()) != 0 {
		t.Error("UnregisterSurface should remove the surface")
	}
}

func TestCreateRootViewLocation(t *testing.T) {
	rt, _ := newTestRuntime()
	loc := NewLocation(mgl64.Vec3{0, 1, -3}, mgl64.QuatIdent())

	if _, err := rt.CreateRootView("Panel", nil, loc); err != nil {
		t.Fatal(err)
	}
	anchor := rt.Root().FindChild("Panel_anchor")
	if anchor == nil {
		t.Fatal("anchor node not created")
	}
	if anchor.Position != (mgl64.Vec3{0, 1, -3}) {
		t.Errorf("anchor Position = %v, want (0, 1, -3)", anchor.Position)
	}
	if anchor.FindChild("panel") == nil {
		t.Error("component should mount under the anchor")
	}
}

func TestCreateRootViewUnknownComponent(t *testing.T) {
	rt, _ := newTestRuntime()
	_, err := rt.CreateRootView("Missing", nil, NewSurface("s", 1, 1))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInvalidMountPoint) {
		t.Error("unknown component is not an invalid mount point")
	}
}

func TestCreateRootViewAssetRoot(t *testing.T) {
	exec := NewLocalExecutor()
	var got map[string]any
	exec.Register("App", func(root *Node, props map[string]any) { got = props })
	rt := NewRuntime(nil, RuntimeOptions{Executor: exec, AssetRoot: "static_assets/"})

	props := map[string]any{"title": "hello"}
	if _, err := rt.CreateRootView("App", props, NewSurface("s", 1, 1)); err != nil {
		t.Fatal(err)
	}
	if got["assetRoot"] != "static_assets/" || got["title"] != "hello" {
		t.Errorf("props = %v, want title and assetRoot", got)
	}
	if _, ok := props["assetRoot"]; ok {
		t.Error("caller's props map must not be modified")
	}
}

// --- Frame ---

func TestFrameRendersSurfacesWithOffscreenState(t *testing.T) {
	rt, _ := newTestRuntime()
	a, b := NewSurface("a", 8, 8), NewSurface("b", 8, 8)
	rt.RegisterSurface(a)
	rt.RegisterSurface(b)

	main := RenderState{ClearColor: Color{0.2, 0.2, 0.2, 1}, SortObjects: true}
	r := &recordingRenderer{state: main}
	if err := rt.Frame(nil, r); err != nil {
		t.Fatal(err)
	}

	if len(r.roots) != 2 || r.roots[0] != a.Root() || r.roots[1] != b.Root() {
		t.Fatalf("rendered %d roots, want a then b", len(r.roots))
	}
	for i, s := range r.seen {
		if s != offscreenRenderState {
			t.Errorf("render %d state = %+v, want offscreen state", i, s)
		}
	}
	if r.state != main {
		t.Errorf("state after Frame = %+v, want restored %+v", r.state, main)
	}
}

func TestFrameRestoresStateOnError(t *testing.T) {
	rt, _ := newTestRuntime()
	bad, good := NewSurface("bad", 4, 4), NewSurface("good", 4, 4)
	rt.RegisterSurface(bad)
	rt.RegisterSurface(good)

	main := RenderState{SortObjects: true}
	r := &recordingRenderer{state: main, failOn: bad.Root()}
	err := rt.Frame(nil, r)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(r.roots) != 2 {
		t.Errorf("rendered %d surfaces, want 2 (failure does not stop the frame)", len(r.roots))
	}
	if r.state != main {
		t.Errorf("state = %+v, want restored", r.state)
	}
}

func TestFrameSyncsDirtyLocations(t *testing.T) {
	rt, _ := newTestRuntime()
	loc := NewLocation(mgl64.Vec3{0, 0, -2}, mgl64.QuatIdent())
	if _, err := rt.CreateRootView("Panel", nil, loc); err != nil {
		t.Fatal(err)
	}
	anchor := rt.Root().FindChild("Panel_anchor")

	if err := rt.Frame(nil, nil); err != nil {
		t.Fatal(err)
	}
	if loc.IsDirty() {
		t.Error("Frame should clear the dirty flag")
	}

	rot := mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0})
	loc.SetWorldPose(mgl64.Vec3{4, 0, -2}, rot)
	if err := rt.Frame(nil, nil); err != nil {
		t.Fatal(err)
	}
	if anchor.Position != (mgl64.Vec3{4, 0, -2}) || anchor.Rotation != rot {
		t.Errorf("anchor pose = %v %v, want synced", anchor.Position, anchor.Rotation)
	}
	if loc.IsDirty() {
		t.Error("dirty flag should be cleared after sync")
	}

	UpdateWorldTransforms(rt.Root())
	if got := anchor.WorldPosition(); !approxVec3(got, mgl64.Vec3{4, 0, -2}) {
		t.Errorf("anchor world position = %v, want (4, 0, -2)", got)
	}
}

func TestFrameAdvancesExecutor(t *testing.T) {
	rt, exec := newTestRuntime()
	frames := 0
	exec.OnFrame = func(*Camera) { frames++ }
	for i := 0; i < 3; i++ {
		if err := rt.Frame(nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	if frames != 3 {
		t.Errorf("executor frames = %d, want 3", frames)
	}
}

// --- SetRays ---

func TestSetRaysEnterLeave(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	a := interactable("a", fixedRaycaster(1, mgl64.Vec2{}, false))
	b := interactable("b", fixedRaycaster(1, mgl64.Vec2{}, false))
	b.Visible = false
	rt.Root().AddChild(a)
	rt.Root().AddChild(b)

	var log []string
	a.OnCursorEnter = func(ctx CursorContext) { log = append(log, "enter a "+ctx.RayType) }
	a.OnCursorLeave = func(ctx CursorContext) { log = append(log, "leave a") }
	b.OnCursorEnter = func(ctx CursorContext) { log = append(log, "enter b") }
	rt.OnCursorEnter(func(ctx CursorContext) { log = append(log, "rt enter "+ctx.Node.Name) })
	rt.OnCursorLeave(func(ctx CursorContext) { log = append(log, "rt leave "+ctx.Node.Name) })

	ray := Ray{Direction: down, Type: RayTypeGaze}
	rt.SetRays([]Ray{ray}, mgl64.Vec3{}, mgl64.QuatIdent())
	rt.SetRays([]Ray{ray}, mgl64.Vec3{}, mgl64.QuatIdent()) // unchanged target: no events

	a.Visible = false
	b.Visible = true
	rt.SetRays([]Ray{ray}, mgl64.Vec3{}, mgl64.QuatIdent())
	rt.SetRays(nil, mgl64.Vec3{}, mgl64.QuatIdent())

	want := []string{"enter a gaze", "rt enter a", "leave a", "rt leave a", "enter b", "rt enter b", "rt leave b"}
	if !slices.Equal(log, want) {
		t.Errorf("events = %v, want %v", log, want)
	}
	if rt.Cursor().LastHit != nil || rt.IsCursorActive() {
		t.Error("zero rays should clear the target")
	}
}

func TestSetRaysCallbackHandleRemove(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	rt.Root().AddChild(interactable("a", fixedRaycaster(1, mgl64.Vec2{}, false)))

	calls := 0
	h := rt.OnCursorEnter(func(CursorContext) { calls++ })
	h.Remove()
	h.Remove() // second remove is a no-op
	CallbackHandle{}.Remove()

	rt.SetRays([]Ray{{Direction: down}}, mgl64.Vec3{}, mgl64.QuatIdent())
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after Remove", calls)
	}
}

func TestSetRaysReentryPanics(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	a := interactable("a", fixedRaycaster(1, mgl64.Vec2{}, false))
	rt.Root().AddChild(a)
	a.OnCursorEnter = func(CursorContext) {
		rt.SetRays(nil, mgl64.Vec3{}, mgl64.QuatIdent())
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on re-entrant SetRays")
			}
		}()
		rt.SetRays([]Ray{{Direction: down}}, mgl64.Vec3{}, mgl64.QuatIdent())
	}()

	// The guard is released after the panic.
	a.OnCursorEnter = nil
	rt.SetRays(nil, mgl64.Vec3{}, mgl64.QuatIdent())
}

func TestRuntimeCursorAccessors(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	a := interactable("a", fixedRaycaster(2.5, mgl64.Vec2{}, false))
	rt.Root().AddChild(a)

	rt.SetRays([]Ray{{Direction: down, Type: RayTypeMouse}}, mgl64.Vec3{}, mgl64.QuatIdent())
	if !rt.IsCursorActive() || !rt.IsMouseCursorActive() {
		t.Error("cursor should be active from a mouse ray")
	}
	if rt.CursorDepth() != 2.5 {
		t.Errorf("CursorDepth = %v, want 2.5", rt.CursorDepth())
	}
}

// --- Input ---

func TestQueueEventsBubbles(t *testing.T) {
	rt, exec := newTestRuntime()
	parent := NewNode("parent")
	child := interactable("child", fixedRaycaster(1, mgl64.Vec2{}, false))
	parent.AddChild(child)
	rt.Root().AddChild(parent)
	rt.SetRays([]Ray{{Direction: down}}, mgl64.Vec3{}, mgl64.QuatIdent())

	var log []string
	var executorEvents int
	exec.OnEvent = func(InputEvent) { executorEvents++ }
	rt.OnInput(func(ctx InputContext) { log = append(log, "rt "+ctx.Target.Name) })
	child.OnInput = func(ctx InputContext) bool {
		log = append(log, "child "+ctx.Event.Key)
		return ctx.Event.Key == "Enter"
	}
	parent.OnInput = func(ctx InputContext) bool {
		log = append(log, "parent "+ctx.Target.Name)
		return true
	}
	rt.Root().OnInput = func(ctx InputContext) bool {
		log = append(log, "root")
		return false
	}

	rt.QueueEvents([]InputEvent{
		{Channel: ChannelKeyboard, Type: InputKeyDown, Key: "Space"},
		{Channel: ChannelKeyboard, Type: InputKeyDown, Key: "Enter"},
	})

	want := []string{"rt child", "child Space", "parent child", "rt child", "child Enter"}
	if !slices.Equal(log, want) {
		t.Errorf("dispatch = %v, want %v", log, want)
	}
	if executorEvents != 2 {
		t.Errorf("executor events = %d, want 2", executorEvents)
	}
}

func TestQueueEventsWithoutTarget(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	var got []InputContext
	rt.OnInput(func(ctx InputContext) { got = append(got, ctx) })

	rt.QueueEvents([]InputEvent{{Channel: ChannelMouse, Type: InputButtonDown, Button: int(MouseButtonLeft)}})
	if len(got) != 1 || got[0].Target != nil {
		t.Errorf("contexts = %+v, want one with nil target", got)
	}
}

// --- Entity store ---

type recordingStore struct {
	events []InteractionEvent
}

func (s *recordingStore) EmitEvent(evt InteractionEvent) {
	s.events = append(s.events, evt)
}

func TestEntityStoreReceivesEvents(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	store := &recordingStore{}
	rt.SetEntityStore(store)

	a := interactable("a", fixedRaycaster(3, mgl64.Vec2{}, false))
	a.EntityID = 42
	rt.Root().AddChild(a)

	rt.SetRays([]Ray{{Direction: down, Type: RayTypeController}}, mgl64.Vec3{}, mgl64.QuatIdent())
	rt.QueueEvents([]InputEvent{{Channel: ChannelGamepad, Type: InputButtonDown, Button: 0}})
	rt.SetRays(nil, mgl64.Vec3{}, mgl64.QuatIdent())

	if len(store.events) != 3 {
		t.Fatalf("events = %d, want 3", len(store.events))
	}
	enter, input, leave := store.events[0], store.events[1], store.events[2]
	if enter.Type != EventCursorEnter || enter.EntityID != 42 || enter.Distance != 3 || enter.RayType != RayTypeController {
		t.Errorf("enter = %+v", enter)
	}
	if input.Type != EventInput || input.EntityID != 42 || input.Input.Channel != ChannelGamepad {
		t.Errorf("input = %+v", input)
	}
	if leave.Type != EventCursorLeave || leave.EntityID != 42 {
		t.Errorf("leave = %+v", leave)
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		e    EventType
		want string
	}{
		{EventCursorEnter, "CursorEnter"},
		{EventCursorLeave, "CursorLeave"},
		{EventInput, "Input"},
		{EventType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.e, got, tt.want)
		}
	}
}
