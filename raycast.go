package willowvr

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Raycastable is the raycast capability of a scene node: it appends every
// intersection of ray with its own geometry (not its children's) to hits
// and returns the extended slice.
type Raycastable interface {
	Raycast(ray Ray, hits []Hit) []Hit
}

// HitShape is geometry expressed in a node's local space. IntersectRay
// receives a local-space origin and a normalized local-space direction and
// reports the nearest intersection in front of the origin.
type HitShape interface {
	IntersectRay(origin, dir mgl64.Vec3) (ShapeHit, bool)
}

// ShapeHit is a local-space intersection reported by a HitShape.
type ShapeHit struct {
	Point mgl64.Vec3
	UV    mgl64.Vec2
	HasUV bool
	// AlmostHit marks a near miss within the shape's slop margin.
	AlmostHit bool
}

// Raycast implements Raycastable. A custom Raycaster takes precedence over
// HitShape; hits it appends without a Node are attributed to n. Nodes with
// neither report nothing.
func (n *Node) Raycast(ray Ray, hits []Hit) []Hit {
	if n.Raycaster != nil {
		start := len(hits)
		hits = n.Raycaster.Raycast(ray, hits)
		for i := start; i < len(hits); i++ {
			if hits[i].Node == nil {
				hits[i].Node = n
			}
		}
		return hits
	}
	if n.HitShape == nil {
		return hits
	}

	origin := n.WorldToLocal(ray.Origin)
	dir := mgl64.TransformNormal(ray.Direction, n.invWorldMatrix)
	if dir.Len() < 1e-12 {
		return hits
	}
	sh, ok := n.HitShape.IntersectRay(origin, dir.Normalize())
	if !ok {
		return hits
	}

	// Distances are measured in world space so scaled nodes compare correctly.
	point := n.LocalToWorld(sh.Point)
	return append(hits, Hit{
		Node:        n,
		Distance:    point.Sub(ray.Origin).Len(),
		Point:       point,
		UV:          sh.UV,
		HasUV:       sh.HasUV,
		IsAlmostHit: sh.AlmostHit,
	})
}

// RaycastFunc adapts a function to the Raycastable interface.
type RaycastFunc func(ray Ray, hits []Hit) []Hit

// Raycast calls f(ray, hits).
func (f RaycastFunc) Raycast(ray Ray, hits []Hit) []Hit {
	return f(ray, hits)
}
