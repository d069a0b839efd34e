package willowvr

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// SurfaceRayOffset is the z origin of rays cast into a surface's sub-scene,
// slightly in front of the content plane at z=0.
const SurfaceRayOffset = 0.1

// surfaceRayDirection points into the screen, against the content normal.
var surfaceRayDirection = mgl64.Vec3{0, 0, -1}

// Surface is an offscreen sub-scene rendered into its own target and
// projected onto one or more quads in the main scene. The sub-scene lives in
// pixel space: x grows right, y grows down, content sits on z=0 facing +Z.
//
// A Surface is referenced, not owned, by its projection nodes.
type Surface struct {
	Name string

	root   *Node
	width  int
	height int
	camera *Camera
	target *ebiten.Image
}

// NewSurface creates a surface of the given pixel size with an empty
// sub-scene root and an orthographic camera covering it.
func NewSurface(name string, width, height int) *Surface {
	s := &Surface{
		Name:   name,
		root:   NewNode(name + "_root"),
		width:  width,
		height: height,
	}
	s.camera = newSurfaceCamera(width, height)
	return s
}

func newSurfaceCamera(w, h int) *Camera {
	cam := NewOrthographicCamera(0, float64(w), float64(h), 0, -1000, 1000)
	cam.Viewport = Rect{Width: float64(w), Height: float64(h)}
	return cam
}

// Root returns the sub-scene root.
func (s *Surface) Root() *Node {
	return s.root
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Camera returns the orthographic camera used to render the sub-scene.
func (s *Surface) Camera() *Camera {
	return s.camera
}

// RenderTarget returns the offscreen image the sub-scene is rendered into,
// allocating it on first use.
func (s *Surface) RenderTarget() *ebiten.Image {
	if s.target == nil {
		s.target = ebiten.NewImage(s.width, s.height)
	}
	return s.target
}

// Resize changes the surface's pixel size. The render target is reallocated
// on next use.
func (s *Surface) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.camera = newSurfaceCamera(width, height)
	if s.target != nil {
		s.target.Deallocate()
		s.target = nil
	}
}

// NewProjectionNode creates a main-scene node displaying this surface on a
// quad of worldWidth x worldHeight. Hits on the quad are remapped into the
// sub-scene.
func (s *Surface) NewProjectionNode(name string, worldWidth, worldHeight float64) *Node {
	n := NewShapeNode(name, Quad{Width: worldWidth, Height: worldHeight})
	n.Surface = s
	return n
}

// Dispose releases the render target and disposes the sub-scene.
func (s *Surface) Dispose() {
	if s.target != nil {
		s.target.Deallocate()
		s.target = nil
	}
	s.root.Dispose()
}

// mountPoint marks Surface as a valid CreateRootView destination.
func (s *Surface) mountPoint() {}

// SurfaceRay maps a UV on a projection quad to the secondary ray cast into
// the sub-scene. UV v grows upward while the sub-scene's y grows downward,
// hence the flip.
func SurfaceRay(s *Surface, uv mgl64.Vec2) Ray {
	return Ray{
		Origin: mgl64.Vec3{
			float64(s.width) * uv[0],
			float64(s.height) * (1 - uv[1]),
			SurfaceRayOffset,
		},
		Direction: surfaceRayDirection,
	}
}
