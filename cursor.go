package willowvr

import "github.com/go-gl/mathgl/mgl64"

// SurfaceDepth is the cursor depth, in metres, reported whenever the last
// resolution touched a surface. Sub-scene geometry is a flat projection and
// is not positioned relative to the viewer, so the nominal plane depth is
// used instead.
const SurfaceDepth = 4.0

// CursorState is the result of one ray resolution cycle. It is produced by
// ResolveRays and read by interaction dispatch between cycles.
type CursorState struct {
	// LastHit is the resolved target, or nil.
	LastHit *Node
	// LastAlmostHit is the most recent near-miss target, or nil.
	LastAlmostHit *Node
	// IntersectDistance is the distance to the last resolved target. For
	// surface targets this is the distance to the projection quad.
	IntersectDistance float64
	// MouseCursorActive reports whether the honored ray came from a mouse.
	MouseCursorActive bool
	// HitSurface reports whether any main-scene hit of the last cycle landed
	// on a surface, whatever the final target was.
	HitSurface bool

	RayOrigin    mgl64.Vec3
	RayDirection mgl64.Vec3
	RayType      string
	DrawsCursor  bool
}

// IsCursorActive reports whether something interactable is currently
// targeted. Touching a surface always counts as active.
func (c CursorState) IsCursorActive() bool {
	if c.HitSurface {
		return true
	}
	if c.LastHit != nil && c.LastHit.Interactable {
		return true
	}
	return c.LastAlmostHit != nil && c.LastAlmostHit.Interactable
}

// CursorDepth returns the logical cursor depth: SurfaceDepth when a surface
// was touched, otherwise the resolved intersection distance.
func (c CursorState) CursorDepth() float64 {
	if c.HitSurface {
		return SurfaceDepth
	}
	return c.IntersectDistance
}

// CursorPosition returns the world-space point the cursor should be drawn
// at: CursorDepth along the recorded ray.
func (c CursorState) CursorPosition() mgl64.Vec3 {
	return c.RayOrigin.Add(c.RayDirection.Mul(c.CursorDepth()))
}
