package willowvr

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig configures Run. Zero values pick defaults.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Camera is the viewer. Defaults to a 60° perspective camera at the
	// origin covering the window.
	Camera *Camera
	// Renderer draws surfaces and the main scene. Defaults to a
	// SoftwareRenderer.
	Renderer Renderer
	// ClearColor fills the window before drawing.
	ClearColor Color
	// HideCursor disables the reticle even for rays that draw a cursor.
	HideCursor bool
	// Debug enables debug mode on the runtime.
	Debug bool
	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool
	// UpdateFunc, if set, runs at the start of every tick.
	UpdateFunc func() error
}

// Update runs one input cycle: advances the test runner, resolves injected
// rays (or the registered ray sources' rays) against the scene, then polls
// input channels and dispatches their events to the new target.
func (rt *Runtime) Update(cam *Camera) {
	if rt.testRunner != nil {
		rt.testRunner.step(rt)
	}
	rays, injected := rt.popInjectedRays()
	if !injected {
		rays = rt.CollectRays(cam)
	}
	pos, rot := mgl64.Vec3{}, mgl64.QuatIdent()
	if cam != nil {
		pos, rot = cam.Position, cam.Rotation
	}
	rt.SetRays(rays, pos, rot)
	rt.QueueEvents(rt.PollInput())
}

// Run opens a window and drives rt with an ebiten game loop until the window
// is closed or UpdateFunc returns an error.
func Run(rt *Runtime, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Debug {
		rt.SetDebugMode(true)
	}

	cam := cfg.Camera
	if cam == nil {
		cam = NewPerspectiveCamera(60, Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	}
	r := cfg.Renderer
	if r == nil {
		r = NewSoftwareRenderer(SoftwareRendererOptions{})
	}
	g := &game{rt: rt, cfg: cfg, cam: cam, renderer: r}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return ebiten.RunGame(g)
}

type game struct {
	rt       *Runtime
	cfg      RunConfig
	cam      *Camera
	renderer Renderer
	sceneImg *ebiten.Image
	fps      *fpsOverlay
}

func (g *game) Update() error {
	if g.cfg.UpdateFunc != nil {
		if err := g.cfg.UpdateFunc(); err != nil {
			return err
		}
	}
	g.rt.Update(g.cam)
	// Surface failures are logged by Frame; keep the loop running.
	_ = g.rt.Frame(g.cam, g.renderer)
	if g.fps != nil {
		g.fps.update(1 / float64(ebiten.TPS()))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.ClearColor.toRGBA())

	b := screen.Bounds()
	if g.sceneImg == nil || g.sceneImg.Bounds() != b {
		if g.sceneImg != nil {
			g.sceneImg.Deallocate()
		}
		g.sceneImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	if err := g.renderer.Render(g.rt.root, g.cam, g.sceneImg); err != nil {
		Logger().Warn("main scene render failed", "err", err)
	} else {
		screen.DrawImage(g.sceneImg, nil)
	}

	viewProj := g.cam.ProjectionMatrix().Mul4(g.cam.ViewMatrix())
	g.drawProjections(screen, g.rt.root, viewProj)

	if c := g.rt.cursor; c.DrawsCursor && !g.cfg.HideCursor {
		if x, y, ok := projectToScreen(c.CursorPosition(), viewProj, g.cam.Viewport); ok {
			clr := color.RGBA{160, 160, 160, 200}
			if c.IsCursorActive() {
				clr = color.RGBA{255, 255, 255, 255}
			}
			vector.DrawFilledCircle(screen, float32(x), float32(y), 4, clr, true)
		}
	}

	g.rt.flushScreenshots(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(w, h int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// drawProjections draws every visible surface projection quad with its
// surface's render target mapped onto the quad's projected corners.
func (g *game) drawProjections(screen *ebiten.Image, n *Node, viewProj mgl64.Mat4) {
	if n == nil || !n.Visible {
		return
	}
	if q, ok := n.HitShape.(Quad); ok && n.Surface != nil && n.Surface.target != nil {
		g.drawProjection(screen, n, q, viewProj)
	}
	for _, child := range n.children {
		g.drawProjections(screen, child, viewProj)
	}
}

func (g *game) drawProjection(screen *ebiten.Image, n *Node, q Quad, viewProj mgl64.Mat4) {
	s := n.Surface
	sw, sh := float32(s.width), float32(s.height)
	tris := q.Triangles()
	verts := make([]ebiten.Vertex, 0, 4)
	corners := [4]mgl64.Vec3{tris[0].A, tris[0].B, tris[0].C, tris[1].C}
	uvs := [4]mgl64.Vec2{tris[0].UVA, tris[0].UVB, tris[0].UVC, tris[1].UVC}
	for i, corner := range corners {
		x, y, ok := projectToScreen(n.LocalToWorld(corner), viewProj, g.cam.Viewport)
		if !ok {
			return
		}
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   float32(uvs[i][0]) * sw,
			SrcY:   float32(1-uvs[i][1]) * sh,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	screen.DrawTriangles(verts, []uint16{0, 1, 2, 0, 2, 3}, s.target, nil)
}

// projectToScreen maps a world point to viewport pixels. Returns false for
// points behind the camera.
func projectToScreen(p mgl64.Vec3, viewProj mgl64.Mat4, vp Rect) (float64, float64, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return vp.X + (ndcX+1)/2*vp.Width, vp.Y + (1-ndcY)/2*vp.Height, true
}
