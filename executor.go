package willowvr

import "fmt"

// Executor computes the component tree and applies its updates to the scene
// graph. The runtime only drives it; how components are realized is the
// executor's business.
type Executor interface {
	// CreateRootView mounts the named component under root and returns the
	// root view's tag.
	CreateRootView(name string, props map[string]any, root *Node) (int, error)
	// Frame advances the executor by one frame.
	Frame(cam *Camera)
	// DispatchEvent forwards an input event to the component tree.
	DispatchEvent(evt InputEvent)
}

// ComponentFunc builds a component under root from its props.
type ComponentFunc func(root *Node, props map[string]any)

// rootView is one mounted component tree.
type rootView struct {
	tag   int
	name  string
	props map[string]any
	root  *Node
}

// LocalExecutor is an in-process Executor backed by a registry of component
// functions. Components run synchronously on the runtime goroutine.
type LocalExecutor struct {
	components map[string]ComponentFunc
	views      []rootView
	nextTag    int

	// OnFrame, if set, runs once per Frame.
	OnFrame func(cam *Camera)
	// OnEvent, if set, receives every dispatched input event.
	OnEvent func(evt InputEvent)
}

// NewLocalExecutor creates an empty executor.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{components: make(map[string]ComponentFunc)}
}

// Register adds or replaces a component by name.
func (e *LocalExecutor) Register(name string, fn ComponentFunc) {
	e.components[name] = fn
}

// CreateRootView implements Executor.
func (e *LocalExecutor) CreateRootView(name string, props map[string]any, root *Node) (int, error) {
	fn, ok := e.components[name]
	if !ok {
		return 0, fmt.Errorf("create root view: unknown component %q", name)
	}
	e.nextTag++
	tag := e.nextTag
	e.views = append(e.views, rootView{tag: tag, name: name, props: props, root: root})
	fn(root, props)
	return tag, nil
}

// RootViews returns the number of mounted root views.
func (e *LocalExecutor) RootViews() int {
	return len(e.views)
}

// Frame implements Executor.
func (e *LocalExecutor) Frame(cam *Camera) {
	if e.OnFrame != nil {
		e.OnFrame(cam)
	}
}

// DispatchEvent implements Executor.
func (e *LocalExecutor) DispatchEvent(evt InputEvent) {
	if e.OnEvent != nil {
		e.OnEvent(evt)
	}
}
