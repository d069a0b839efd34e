package willowvr

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// computeLocalMatrix computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(Position)
func computeLocalMatrix(n *Node) mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	r := n.Rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// invertMatrix returns the inverse of m, or the identity if m is singular
// (e.g. a zero scale axis).
func invertMatrix(m mgl64.Mat4) mgl64.Mat4 {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return mgl64.Ident4()
	}
	return m.Inv()
}

// updateWorldTransform recomputes a node's world matrix.
// parentRecomputed indicates whether the parent was recomputed this pass,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent mgl64.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = parent.Mul4(computeLocalMatrix(n))
		n.invWorldMatrix = invertMatrix(n.worldMatrix)
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, recompute)
	}
}

// UpdateWorldTransforms refreshes the cached world matrices of root and its
// descendants. Only dirty subtrees are recomputed. If root has a parent,
// the parent's cached world matrix is used as the base.
func UpdateWorldTransforms(root *Node) {
	if root == nil {
		return
	}
	base := mgl64.Ident4()
	if root.Parent != nil {
		base = root.Parent.worldMatrix
	}
	updateWorldTransform(root, base, false)
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = mgl64.Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's local rotation and marks it dirty.
func (n *Node) SetRotation(q mgl64.Quat) {
	n.Rotation = q
	n.transformDirty = true
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(sx, sy, sz float64) {
	n.Scale = mgl64.Vec3{sx, sy, sz}
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next refresh. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// WorldMatrix returns the cached world matrix.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	return n.worldMatrix
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.worldMatrix.Col(3).Vec3()
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, n.invWorldMatrix)
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, n.worldMatrix)
}
