package willowvr

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrInvalidMountPoint is returned by CreateRootView for a destination that
// is neither a *Location nor a *Surface.
var ErrInvalidMountPoint = errors.New("willowvr: invalid mount point")

// MountPoint is a CreateRootView destination: a *Location or a *Surface.
type MountPoint interface {
	mountPoint()
}

// EntityStore is the interface for optional ECS integration.
// When set on a Runtime, cursor and input events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	// Distance is the resolved intersection distance (EventCursorEnter).
	Distance float64
	RayType  string
	// Input is the dispatched event (EventInput).
	Input InputEvent
}

// RuntimeOptions configures a Runtime. The zero value is usable.
type RuntimeOptions struct {
	// Executor drives the component tree. Defaults to an empty LocalExecutor.
	Executor Executor
	// AssetRoot is handed to components through the root view props under
	// "assetRoot" when non-empty.
	AssetRoot string
}

// locationNode pairs a location with the anchor node it drives.
type locationNode struct {
	location *Location
	node     *Node
}

// Runtime is the composition root: it owns the main scene root, cursor
// state, registered surfaces and anchored locations, resolves rays into a
// cursor target each input cycle and drives per-frame updates.
//
// A Runtime is not safe for concurrent use; SetRays, QueueEvents and Frame
// must be called from one goroutine.
type Runtime struct {
	root     *Node
	executor Executor
	opts     RuntimeOptions

	cursor    CursorState
	resolving bool

	surfaces      []*Surface
	rootLocations []locationNode

	raySources    []RaySource
	inputChannels []InputChannel
	eventBuf      []InputEvent
	rayBuf        []Ray

	handlers handlerRegistry
	store    EntityStore
	debug    bool

	injectQueue []injectedRays
	testRunner  *TestRunner
	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir   string
	screenshotQueue []string
}

// NewRuntime creates a runtime rendering into root. A nil root creates one.
func NewRuntime(root *Node, opts RuntimeOptions) *Runtime {
	if root == nil {
		root = NewNode("root")
	}
	exec := opts.Executor
	if exec == nil {
		exec = NewLocalExecutor()
	}
	return &Runtime{
		root:          root,
		executor:      exec,
		opts:          opts,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the main scene root.
func (rt *Runtime) Root() *Node {
	return rt.root
}

// Executor returns the runtime's executor.
func (rt *Runtime) Executor() Executor {
	return rt.executor
}

// --- Mounting ---

// CreateRootView mounts the named component at dest and returns its tag.
// A *Surface destination registers the surface for offscreen rendering and
// mounts into its sub-scene; a *Location destination mounts into a new
// anchor node that follows the location. Any other destination fails
// immediately with ErrInvalidMountPoint.
func (rt *Runtime) CreateRootView(name string, props map[string]any, dest MountPoint) (int, error) {
	if rt.opts.AssetRoot != "" {
		merged := make(map[string]any, len(props)+1)
		for k, v := range props {
			merged[k] = v
		}
		merged["assetRoot"] = rt.opts.AssetRoot
		props = merged
	}

	switch d := dest.(type) {
	case *Surface:
		if d == nil {
			break
		}
		rt.RegisterSurface(d)
		return rt.executor.CreateRootView(name, props, d.root)
	case *Location:
		if d == nil {
			break
		}
		node := NewNode(name + "_anchor")
		node.Position = d.WorldPosition()
		node.Rotation = d.WorldRotation()
		rt.root.AddChild(node)
		rt.rootLocations = append(rt.rootLocations, locationNode{location: d, node: node})
		return rt.executor.CreateRootView(name, props, node)
	}
	return 0, fmt.Errorf("create root view %q: %w", name, ErrInvalidMountPoint)
}

// RegisterSurface adds s to the offscreen render list. Registering the same
// surface twice is a no-op.
func (rt *Runtime) RegisterSurface(s *Surface) {
	for _, existing := range rt.surfaces {
		if existing == s {
			return
		}
	}
	rt.surfaces = append(rt.surfaces, s)
}

// UnregisterSurface removes s from the offscreen render list.
func (rt *Runtime) UnregisterSurface(s *Surface) {
	for i, existing := range rt.surfaces {
		if existing == s {
			rt.surfaces = append(rt.surfaces[:i], rt.surfaces[i+1:]...)
			return
		}
	}
}

// Surfaces returns the registered surfaces. The returned slice MUST NOT be mutated.
func (rt *Runtime) Surfaces() []*Surface {
	return rt.surfaces
}

// --- Frame ---

// Frame advances one frame: refreshes world transforms, advances the
// executor and location tweens, renders every registered surface into its
// target with offscreen render state, and copies dirty locations into their
// anchor nodes. Surface render errors are joined and returned once every
// surface has been attempted. A nil renderer skips surface rendering.
func (rt *Runtime) Frame(cam *Camera, r Renderer) error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	var t0 time.Time
	if rt.debug {
		t0 = time.Now()
	}

	UpdateWorldTransforms(rt.root)
	rt.executor.Frame(cam)
	if cam != nil {
		cam.update(dt)
	}
	for _, ln := range rt.rootLocations {
		ln.location.update(dt)
	}

	var errs []error
	if r != nil {
		for _, s := range rt.surfaces {
			if err := renderOffscreen(r, s); err != nil {
				Logger().Warn("surface render failed", "surface", s.Name, "err", err)
				errs = append(errs, fmt.Errorf("render surface %q: %w", s.Name, err))
			}
		}
	}

	for _, ln := range rt.rootLocations {
		if !ln.location.IsDirty() {
			continue
		}
		ln.node.Position = ln.location.WorldPosition()
		ln.node.Rotation = ln.location.WorldRotation()
		ln.node.MarkDirty()
		ln.location.ClearDirty()
	}

	if rt.debug {
		rt.debugLogFrame(time.Since(t0), len(rt.surfaces), len(errs))
	}
	return errors.Join(errs...)
}

// --- Input ---

// QueueEvents dispatches input events to the executor and to the current
// cursor target.
func (rt *Runtime) QueueEvents(events []InputEvent) {
	for _, evt := range events {
		rt.executor.DispatchEvent(evt)
		rt.dispatchInput(evt)
	}
}

// AddRaySource registers a device ray source. Sources are polled in
// registration order by CollectRays.
func (rt *Runtime) AddRaySource(src RaySource) {
	rt.raySources = append(rt.raySources, src)
}

// AddInputChannel registers an input channel polled by PollInput.
func (rt *Runtime) AddInputChannel(ch InputChannel) {
	rt.inputChannels = append(rt.inputChannels, ch)
}

// CollectRays gathers this frame's rays from the registered sources. The
// returned slice is reused by the next call.
func (rt *Runtime) CollectRays(cam *Camera) []Ray {
	rt.rayBuf = rt.rayBuf[:0]
	for _, src := range rt.raySources {
		if r, ok := src.Ray(cam); ok {
			rt.rayBuf = append(rt.rayBuf, r)
		}
	}
	return rt.rayBuf
}

// PollInput gathers this frame's events from the registered channels. The
// returned slice is reused by the next call.
func (rt *Runtime) PollInput() []InputEvent {
	rt.eventBuf = rt.eventBuf[:0]
	for _, ch := range rt.inputChannels {
		rt.eventBuf = ch.Poll(rt.eventBuf)
	}
	return rt.eventBuf
}

// SetRays resolves the cursor target for this input cycle. Only the first
// ray is honored; an empty set clears the target. The camera pose is
// accepted for parity with device input but does not affect resolution.
//
// SetRays panics if called re-entrantly from a cursor callback.
func (rt *Runtime) SetRays(rays []Ray, cameraPosition mgl64.Vec3, cameraRotation mgl64.Quat) {
	if rt.resolving {
		panic("willowvr: SetRays called during ray resolution")
	}
	rt.resolving = true
	defer func() { rt.resolving = false }()

	if len(rays) > 1 {
		Logger().Debug("ignoring extra rays", "count", len(rays)-1)
	}

	var t0 time.Time
	if rt.debug {
		t0 = time.Now()
	}

	prev := rt.cursor
	next, res := ResolveRaysDetailed(rays, rt.root, prev)
	rt.cursor = next

	if rt.debug {
		rt.debugLogResolve(time.Since(t0), res)
	}
	rt.updateLastHit(prev, next)
}

// --- Cursor accessors ---

// Cursor returns the current cursor state.
func (rt *Runtime) Cursor() CursorState {
	return rt.cursor
}

// IsCursorActive reports whether an interactable target is under the cursor.
func (rt *Runtime) IsCursorActive() bool {
	return rt.cursor.IsCursorActive()
}

// CursorDepth returns the logical cursor depth.
func (rt *Runtime) CursorDepth() float64 {
	return rt.cursor.CursorDepth()
}

// IsMouseCursorActive reports whether the last honored ray came from a mouse.
func (rt *Runtime) IsMouseCursorActive() bool {
	return rt.cursor.MouseCursorActive
}

// --- Misc ---

// SetEntityStore sets the optional ECS bridge.
func (rt *Runtime) SetEntityStore(store EntityStore) {
	rt.store = store
}

func (rt *Runtime) emit(evt InteractionEvent) {
	if rt.store != nil {
		rt.store.EmitEvent(evt)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// per-cycle resolution stats are logged to stderr.
func (rt *Runtime) SetDebugMode(enabled bool) {
	rt.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Runtime debug flag so that node
// operations (which lack a Runtime pointer) can check it cheaply.
var globalDebug bool
