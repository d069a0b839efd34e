package willowvr

// IntersectNode walks the tree rooted at n in pre-order, appending every
// intersection of ray reported by each visited node's Raycast. A node with
// Visible=false is skipped together with its entire subtree. Children are
// visited in stored order. The result is in traversal order, not sorted by
// distance.
//
// World matrices must be current; see UpdateWorldTransforms.
func IntersectNode(n *Node, ray Ray, hits []Hit) []Hit {
	if n == nil || !n.Visible {
		return hits
	}
	hits = n.Raycast(ray, hits)
	for _, child := range n.children {
		hits = IntersectNode(child, ray, hits)
	}
	return hits
}

// IntersectScene refreshes root's world matrices and returns a fresh hit
// list for ray.
func IntersectScene(root *Node, ray Ray) []Hit {
	UpdateWorldTransforms(root)
	return IntersectNode(root, ray, nil)
}
