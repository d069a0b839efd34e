// Package willowvr is a retained-mode 3D interaction runtime for [Ebitengine].
//
// It owns a scene graph of [Node] values, resolves one cursor target per
// input cycle from device rays, and hosts offscreen [Surface] sub-scenes
// that are projected onto quads in the main scene and remain interactive.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	rt := willowvr.NewRuntime(nil, willowvr.RuntimeOptions{})
//	rt.AddRaySource(&willowvr.MouseRaySource{DrawsCursor: true})
//	rt.AddInputChannel(willowvr.MouseButtonChannel{})
//	// ... add nodes ...
//	willowvr.Run(rt, willowvr.RunConfig{
//		Title: "My Scene", Width: 800, Height: 600,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Runtime.Update] and [Runtime.Frame] directly each tick.
//
// # Scene graph
//
// Nodes form a tree rooted at [Runtime.Root]. Geometry is a [HitShape]
// ([Quad], [Box], [Sphere], [MeshShape]) in the node's local space, or a
// custom [Raycastable]. Children inherit their parent's transform; a node
// with Visible=false hides its whole subtree from rendering and hit testing.
//
//	panel := willowvr.NewShapeNode("panel", willowvr.Quad{Width: 2, Height: 1})
//	panel.SetPosition(0, 1.5, -3)
//	panel.Interactable = true
//	rt.Root().AddChild(panel)
//
// # Ray resolution
//
// Each [Runtime.SetRays] call resolves exactly one target. Only the first
// ray is honored. Main-scene hits are scanned nearest first; the first hit
// that is not a near miss becomes the target. A hit on a surface projection
// is remapped into that surface's sub-scene, where the last node visited
// wins and the reported distance stays the distance to the projection.
// [ResolveRays] exposes the same algorithm as a pure function.
//
// # Surfaces
//
// A [Surface] is a pixel-space sub-scene rendered into its own target by
// [Runtime.Frame] and shown on every projection node created with
// [Surface.NewProjectionNode]:
//
//	menu := willowvr.NewSurface("menu", 1000, 600)
//	rt.Root().AddChild(menu.NewProjectionNode("menu_quad", 2, 1.2))
//	rt.CreateRootView("Menu", nil, menu)
//
// # Events
//
// Cursor enter and leave fire on the node and on handlers registered with
// [Runtime.OnCursorEnter] and [Runtime.OnCursorLeave]. Input channel events
// go to [Runtime.OnInput] handlers and then bubble from the target through
// its ancestors' OnInput until one returns true. Set an [EntityStore] to
// forward everything into an ECS (see willowvr/ecs).
//
// # Testing
//
// [Runtime.InjectRays] replaces device rays for one update, and
// [LoadTestScript] sequences injected rays, target expectations and
// screenshots from JSON.
//
// [Ebitengine]: https://ebitengine.org
package willowvr
