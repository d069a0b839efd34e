package willowvr

import "github.com/hajimehoshi/ebiten/v2"

// RenderState is the renderer state saved and restored around each
// offscreen surface render.
type RenderState struct {
	ClearColor    Color
	SortObjects   bool
	LocalClipping bool
}

// offscreenRenderState is applied while rendering surfaces: transparent
// clear, no sorting, clipping on.
var offscreenRenderState = RenderState{
	ClearColor:    Color{0, 0, 0, 0},
	SortObjects:   false,
	LocalClipping: true,
}

// Renderer draws a scene graph through a camera into a target image.
type Renderer interface {
	RenderState() RenderState
	SetRenderState(RenderState)
	Render(root *Node, cam *Camera, target *ebiten.Image) error
}

// renderOffscreen renders one surface with the offscreen state applied and
// the previous state restored afterwards, even if Render fails.
func renderOffscreen(r Renderer, s *Surface) error {
	saved := r.RenderState()
	r.SetRenderState(offscreenRenderState)
	defer r.SetRenderState(saved)

	UpdateWorldTransforms(s.root)
	return r.Render(s.root, s.camera, s.RenderTarget())
}
