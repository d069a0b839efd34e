package willowvr

import "testing"

func TestNewSurface(t *testing.T) {
	s := NewSurface("menu", 640, 480)
	if s.Width() != 640 || s.Height() != 480 {
		t.Errorf("size = %dx%d, want 640x480", s.Width(), s.Height())
	}
	if s.Root() == nil || s.Root().Name != "menu_root" {
		t.Errorf("Root = %v, want menu_root", s.Root())
	}
	cam := s.Camera()
	if !cam.Orthographic || cam.OrthoRight != 640 || cam.OrthoBottom != 480 || cam.OrthoTop != 0 {
		t.Errorf("camera = %+v, want pixel-space ortho", cam)
	}
	if cam.Viewport != (Rect{Width: 640, Height: 480}) {
		t.Errorf("Viewport = %v", cam.Viewport)
	}
}

func TestSurfaceRenderTarget(t *testing.T) {
	s := NewSurface("menu", 32, 16)
	img := s.RenderTarget()
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("target = %v, want 32x16", b)
	}
	if s.RenderTarget() != img {
		t.Error("RenderTarget should be reused")
	}

	s.Resize(64, 16)
	if s.Width() != 64 || s.Camera().OrthoRight != 64 {
		t.Error("Resize should update size and camera")
	}
	if b := s.RenderTarget().Bounds(); b.Dx() != 64 {
		t.Errorf("resized target = %v, want width 64", b)
	}
}

func TestNewProjectionNode(t *testing.T) {
	s := NewSurface("menu", 100, 50)
	n := s.NewProjectionNode("proj", 2, 1)
	if n.Surface != s {
		t.Error("projection node should reference the surface")
	}
	q, ok := n.HitShape.(Quad)
	if !ok || q.Width != 2 || q.Height != 1 {
		t.Errorf("HitShape = %#v, want 2x1 Quad", n.HitShape)
	}
	if s.Root().NumChildren() != 0 {
		t.Error("projection node must not be part of the sub-scene")
	}
}

func TestSurfaceDispose(t *testing.T) {
	s := NewSurface("menu", 8, 8)
	child := NewNode("child")
	s.Root().AddChild(child)
	s.RenderTarget()

	s.Dispose()
	if !s.Root().IsDisposed() || !child.IsDisposed() {
		t.Error("sub-scene should be disposed")
	}
	if s.target != nil {
		t.Error("render target should be released")
	}
}
