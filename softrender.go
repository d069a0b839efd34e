package willowvr

import (
	"fmt"
	"image"
	"sort"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// SoftwareRendererOptions configures a SoftwareRenderer.
type SoftwareRendererOptions struct {
	// Supersample renders at this multiple of the target size and scales
	// down. Zero or one disables supersampling.
	Supersample int
	// ClearColor is the initial clear color. Zero value clears to opaque black.
	ClearColor Color
}

// SoftwareRenderer is a CPU Renderer built on fauxgl. It draws the
// triangles of every visible node whose HitShape is a Tessellator, flat
// shaded with the node's Color.
//
// With SortObjects set, nodes are drawn far to near with depth testing.
// Without it, nodes are drawn in traversal order with no depth test, which
// is what flat surface content expects.
type SoftwareRenderer struct {
	opts  SoftwareRendererOptions
	state RenderState
	out   *image.RGBA
}

// NewSoftwareRenderer creates a renderer with sorting on and clipping off.
func NewSoftwareRenderer(opts SoftwareRendererOptions) *SoftwareRenderer {
	bg := opts.ClearColor
	if bg == (Color{}) {
		bg = Color{0, 0, 0, 1}
	}
	return &SoftwareRenderer{
		opts:  opts,
		state: RenderState{ClearColor: bg, SortObjects: true},
	}
}

// RenderState implements Renderer.
func (r *SoftwareRenderer) RenderState() RenderState {
	return r.state
}

// SetRenderState implements Renderer.
func (r *SoftwareRenderer) SetRenderState(s RenderState) {
	r.state = s
}

// Render implements Renderer by rasterizing into an RGBA buffer and
// uploading it to target.
func (r *SoftwareRenderer) Render(root *Node, cam *Camera, target *ebiten.Image) error {
	b := target.Bounds()
	img, err := r.Rasterize(root, cam, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	target.WritePixels(img.Pix)
	return nil
}

// drawItem is one node queued for drawing.
type drawItem struct {
	node  *Node
	tris  []Triangle
	depth float64
}

// Rasterize draws the tree rooted at root through cam into a w x h RGBA
// image. The returned image is reused by the next call. World matrices must
// be current.
func (r *SoftwareRenderer) Rasterize(root *Node, cam *Camera, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rasterize: invalid size %dx%d", w, h)
	}
	if cam == nil {
		return nil, fmt.Errorf("rasterize: nil camera")
	}
	ss := max(r.opts.Supersample, 1)

	ctx := fauxgl.NewContext(w*ss, h*ss)
	ctx.ClearColorBufferWith(toFauxColor(r.state.ClearColor))
	ctx.ClearDepthBuffer()
	ctx.Cull = fauxgl.CullNone
	ctx.ReadDepth = r.state.SortObjects
	ctx.WriteDepth = r.state.SortObjects

	view := cam.ViewMatrix()
	viewProj := toFauxMatrix(cam.ProjectionMatrix().Mul4(view))

	items := collectDrawItems(root, view, nil)
	if r.state.SortObjects {
		// Camera looks down -Z: more negative view z is farther away.
		sort.SliceStable(items, func(i, j int) bool { return items[i].depth < items[j].depth })
	}

	for _, it := range items {
		faux := make([]*fauxgl.Triangle, 0, len(it.tris))
		for _, t := range it.tris {
			faux = append(faux, &fauxgl.Triangle{
				V1: fauxgl.Vertex{Position: toFaux(it.node.LocalToWorld(t.A))},
				V2: fauxgl.Vertex{Position: toFaux(it.node.LocalToWorld(t.B))},
				V3: fauxgl.Vertex{Position: toFaux(it.node.LocalToWorld(t.C))},
			})
		}
		ctx.Shader = fauxgl.NewSolidColorShader(viewProj, toFauxColor(it.node.Color))
		ctx.DrawTriangles(faux)
	}

	if r.out == nil || r.out.Bounds().Dx() != w || r.out.Bounds().Dy() != h {
		r.out = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	src := ctx.Image()
	if ss == 1 {
		xdraw.Draw(r.out, r.out.Bounds(), src, image.Point{}, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(r.out, r.out.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
	return r.out, nil
}

// collectDrawItems walks the visible tree in pre-order and queues every
// node with tessellated geometry.
func collectDrawItems(n *Node, view mgl64.Mat4, items []drawItem) []drawItem {
	if n == nil || !n.Visible {
		return items
	}
	if t, ok := n.HitShape.(Tessellator); ok {
		if tris := t.Triangles(); len(tris) > 0 {
			center := mgl64.TransformCoordinate(n.WorldPosition(), view)
			items = append(items, drawItem{node: n, tris: tris, depth: center.Z()})
		}
	}
	for _, child := range n.children {
		items = collectDrawItems(child, view, items)
	}
	return items
}

func toFauxColor(c Color) fauxgl.Color {
	return fauxgl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// toFauxMatrix converts a column-major mgl64 matrix to fauxgl's row fields.
func toFauxMatrix(m mgl64.Mat4) fauxgl.Matrix {
	return fauxgl.Matrix{
		X00: m[0], X01: m[4], X02: m[8], X03: m[12],
		X10: m[1], X11: m[5], X12: m[9], X13: m[13],
		X20: m[2], X21: m[6], X22: m[10], X23: m[14],
		X30: m[3], X31: m[7], X32: m[11], X33: m[15],
	}
}
