package willowvr

import (
	"cmp"
	"slices"
)

// Resolution describes how a cycle arrived at its CursorState.
type Resolution struct {
	// FirstHit is the selected target hit, or nil. For surface targets its
	// Distance is the distance to the projection quad.
	FirstHit *Hit
	// FirstAlmostHit is the first near-miss candidate of the cycle, or nil.
	FirstAlmostHit *Hit
	// Hits is the number of main-scene intersections.
	Hits int
	// SurfaceWalks counts sub-scene walks, EmptySurfaceWalks those that found
	// nothing.
	SurfaceWalks      int
	EmptySurfaceWalks int
	// RayHonored is false when no ray was supplied.
	RayHonored bool
}

// selectRay picks the ray to resolve. Only the first ray of a multi-ray
// input is honored.
func selectRay(rays []Ray) (Ray, bool) {
	if len(rays) == 0 {
		return Ray{}, false
	}
	return rays[0], true
}

// ResolveRays resolves a single target for rays against root and any
// surfaces projected within it, returning the next cursor state. prev is
// not modified.
func ResolveRays(rays []Ray, root *Node, prev CursorState) CursorState {
	next, _ := ResolveRaysDetailed(rays, root, prev)
	return next
}

// ResolveRaysDetailed is ResolveRays plus a description of the cycle.
func ResolveRaysDetailed(rays []Ray, root *Node, prev CursorState) (CursorState, Resolution) {
	var res Resolution
	next := prev

	ray, ok := selectRay(rays)
	if !ok {
		next.LastHit = nil
		next.MouseCursorActive = false
		// No ray, no reticle.
		next.DrawsCursor = false
		return next, res
	}
	res.RayHonored = true

	hits := IntersectScene(root, ray)
	res.Hits = len(hits)
	// Main-scene candidates are scanned nearest first. Sub-scene hits keep
	// traversal order.
	slices.SortStableFunc(hits, func(a, b Hit) int { return cmp.Compare(a.Distance, b.Distance) })

	var firstHit, firstAlmost *Hit
	hitSurface := false
	for i := range hits {
		candidate := hits[i]
		if candidate.HasUV && candidate.Node != nil && candidate.Node.Surface != nil {
			hitSurface = true
			surface := candidate.Node.Surface
			distanceToSurface := candidate.Distance

			subHits := IntersectScene(surface.root, SurfaceRay(surface, candidate.UV))
			res.SurfaceWalks++
			if len(subHits) == 0 {
				res.EmptySurfaceWalks++
				continue
			}
			// Last visited wins, not nearest.
			candidate = subHits[len(subHits)-1]
			candidate.Distance = distanceToSurface
		}

		if candidate.IsAlmostHit {
			if firstAlmost == nil {
				c := candidate
				firstAlmost = &c
			}
			continue
		}
		if firstHit == nil {
			c := candidate
			firstHit = &c
		}
	}

	next.HitSurface = hitSurface
	if firstHit != nil {
		next.LastHit = firstHit.Node
		next.IntersectDistance = firstHit.Distance
	} else {
		next.LastHit = nil
	}
	switch {
	case firstAlmost != nil:
		next.LastAlmostHit = firstAlmost.Node
	case firstHit != nil:
		next.LastAlmostHit = nil
	}

	next.RayOrigin = ray.Origin
	next.RayDirection = ray.Direction
	next.RayType = ray.Type
	next.DrawsCursor = ray.DrawsCursor
	next.MouseCursorActive = ray.Type == RayTypeMouse

	res.FirstHit = firstHit
	res.FirstAlmostHit = firstAlmost
	return next, res
}
