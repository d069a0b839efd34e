package willowvr

import (
	"fmt"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"
)

const rayEpsilon = 1e-9

// Tessellator is implemented by shapes that can be drawn as triangles.
type Tessellator interface {
	Triangles() []Triangle
}

// Triangle is a local-space triangle with optional per-vertex UVs.
type Triangle struct {
	A, B, C       mgl64.Vec3
	UVA, UVB, UVC mgl64.Vec2
}

// --- Quad ---

// Quad is a rectangle in the local XY plane, centered on the origin, facing
// +Z. UV (0,0) is the bottom-left corner and (1,1) the top-right.
type Quad struct {
	Width, Height float64
	// HitSlop widens the rectangle by this margin for near-miss detection.
	// Rays crossing the margin report an almost-hit without a UV.
	HitSlop float64
	// DoubleSided accepts rays arriving from behind the quad.
	DoubleSided bool
}

// IntersectRay tests the ray against the quad's plane and bounds.
func (q Quad) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	if math.Abs(dir.Z()) < rayEpsilon {
		return ShapeHit{}, false
	}
	if !q.DoubleSided && dir.Z() > 0 {
		return ShapeHit{}, false
	}
	t := -origin.Z() / dir.Z()
	if t < 0 {
		return ShapeHit{}, false
	}
	p := origin.Add(dir.Mul(t))
	hw, hh := q.Width/2, q.Height/2

	if math.Abs(p.X()) <= hw && math.Abs(p.Y()) <= hh {
		var uv mgl64.Vec2
		if q.Width > 0 {
			uv[0] = (p.X() + hw) / q.Width
		}
		if q.Height > 0 {
			uv[1] = (p.Y() + hh) / q.Height
		}
		return ShapeHit{Point: p, UV: uv, HasUV: true}, true
	}
	if q.HitSlop > 0 && math.Abs(p.X()) <= hw+q.HitSlop && math.Abs(p.Y()) <= hh+q.HitSlop {
		return ShapeHit{Point: p, AlmostHit: true}, true
	}
	return ShapeHit{}, false
}

// Triangles returns the quad as two counter-clockwise triangles.
func (q Quad) Triangles() []Triangle {
	hw, hh := q.Width/2, q.Height/2
	bl := mgl64.Vec3{-hw, -hh, 0}
	br := mgl64.Vec3{hw, -hh, 0}
	tr := mgl64.Vec3{hw, hh, 0}
	tl := mgl64.Vec3{-hw, hh, 0}
	return []Triangle{
		{A: bl, B: br, C: tr, UVA: mgl64.Vec2{0, 0}, UVB: mgl64.Vec2{1, 0}, UVC: mgl64.Vec2{1, 1}},
		{A: bl, B: tr, C: tl, UVA: mgl64.Vec2{0, 0}, UVB: mgl64.Vec2{1, 1}, UVC: mgl64.Vec2{0, 1}},
	}
}

// --- Box ---

// Box is an axis-aligned box in local space.
type Box struct {
	Min, Max mgl64.Vec3
}

// NewBox returns a box of the given size centered on the origin.
func NewBox(w, h, d float64) Box {
	return Box{
		Min: mgl64.Vec3{-w / 2, -h / 2, -d / 2},
		Max: mgl64.Vec3{w / 2, h / 2, d / 2},
	}
}

// IntersectRay uses the slab test. A ray starting inside the box reports
// the exit point.
func (b Box) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < rayEpsilon {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return ShapeHit{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return ShapeHit{}, false
		}
	}
	if tmax < 0 {
		return ShapeHit{}, false
	}
	t := tmin
	if t < 0 {
		t = tmax
	}
	return ShapeHit{Point: origin.Add(dir.Mul(t))}, true
}

// Triangles returns the box's twelve faces.
func (b Box) Triangles() []Triangle {
	lo, hi := b.Min, b.Max
	v := [8]mgl64.Vec3{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
	faces := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}
	tris := make([]Triangle, 0, 12)
	for _, f := range faces {
		tris = append(tris,
			Triangle{A: v[f[0]], B: v[f[1]], C: v[f[2]]},
			Triangle{A: v[f[0]], B: v[f[2]], C: v[f[3]]},
		)
	}
	return tris
}

// --- Sphere ---

// Sphere is a sphere centered on the local origin.
type Sphere struct {
	Radius float64
}

// IntersectRay solves the ray/sphere quadratic. A ray starting inside the
// sphere reports the exit point.
func (s Sphere) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	b := origin.Dot(dir)
	c := origin.Dot(origin) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return ShapeHit{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return ShapeHit{}, false
	}
	return ShapeHit{Point: origin.Add(dir.Mul(t))}, true
}

// --- Mesh ---

// MeshShape is an arbitrary triangle mesh. The nearest triangle hit wins.
type MeshShape struct {
	Tris  []Triangle
	HasUV bool
	// DoubleSided accepts back-facing triangles.
	DoubleSided bool
}

// NewMeshShape converts a fauxgl mesh into a hit shape. UVs are taken from
// the vertex texture coordinates when any are present.
func NewMeshShape(mesh *fauxgl.Mesh) *MeshShape {
	m := &MeshShape{Tris: make([]Triangle, 0, len(mesh.Triangles))}
	for _, t := range mesh.Triangles {
		tri := Triangle{
			A:   fromFaux(t.V1.Position),
			B:   fromFaux(t.V2.Position),
			C:   fromFaux(t.V3.Position),
			UVA: mgl64.Vec2{t.V1.Texture.X, t.V1.Texture.Y},
			UVB: mgl64.Vec2{t.V2.Texture.X, t.V2.Texture.Y},
			UVC: mgl64.Vec2{t.V3.Texture.X, t.V3.Texture.Y},
		}
		if tri.UVA != (mgl64.Vec2{}) || tri.UVB != (mgl64.Vec2{}) || tri.UVC != (mgl64.Vec2{}) {
			m.HasUV = true
		}
		m.Tris = append(m.Tris, tri)
	}
	return m
}

// LoadMeshShape loads an OBJ, STL, PLY or 3DS file through fauxgl.
func LoadMeshShape(path string) (*MeshShape, error) {
	mesh, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", path, err)
	}
	return NewMeshShape(mesh), nil
}

// IntersectRay tests every triangle with Möller–Trumbore and keeps the
// nearest hit.
func (m *MeshShape) IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool) {
	best := math.Inf(1)
	var hit ShapeHit
	found := false
	for i := range m.Tris {
		t, u, v, ok := intersectTriangle(&m.Tris[i], origin, dir, m.DoubleSided)
		if !ok || t >= best {
			continue
		}
		best = t
		found = true
		tri := &m.Tris[i]
		hit = ShapeHit{Point: origin.Add(dir.Mul(t))}
		if m.HasUV {
			w := 1 - u - v
			hit.UV = tri.UVA.Mul(w).Add(tri.UVB.Mul(u)).Add(tri.UVC.Mul(v))
			hit.HasUV = true
		}
	}
	return hit, found
}

// Triangles returns the mesh triangles.
func (m *MeshShape) Triangles() []Triangle {
	return m.Tris
}

// intersectTriangle returns the ray parameter and barycentric (u, v) of the
// hit, weighting B and C respectively.
func intersectTriangle(tri *Triangle, origin, dir mgl64.Vec3, doubleSided bool) (t, u, v float64, ok bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if doubleSided {
		if math.Abs(det) < rayEpsilon {
			return 0, 0, 0, false
		}
	} else if det < rayEpsilon {
		return 0, 0, 0, false
	}
	inv := 1 / det
	s := origin.Sub(tri.A)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func fromFaux(v fauxgl.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func toFaux(v mgl64.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: v[0], Y: v[1], Z: v[2]}
}
