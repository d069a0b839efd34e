package willowvr

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// moveAnim holds active move-to tweens for the camera position.
type moveAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a perspective or orthographic view into a scene. It looks down
// its local -Z axis with +Y up.
type Camera struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat

	// FovY is the vertical field of view in degrees (perspective only).
	FovY float64
	// Near and Far are the clip plane distances.
	Near, Far float64

	// Orthographic selects an orthographic projection using the Ortho* bounds.
	Orthographic bool
	OrthoLeft    float64
	OrthoRight   float64
	OrthoBottom  float64
	OrthoTop     float64

	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	move *moveAnim
}

// NewPerspectiveCamera creates a perspective camera at the origin looking
// down -Z.
func NewPerspectiveCamera(fovY float64, viewport Rect) *Camera {
	return &Camera{
		Rotation: mgl64.QuatIdent(),
		FovY:     fovY,
		Near:     0.1,
		Far:      1000,
		Viewport: viewport,
	}
}

// NewOrthographicCamera creates an orthographic camera with the given
// bounds. A bottom greater than top flips Y so that it grows downward.
func NewOrthographicCamera(left, right, bottom, top, near, far float64) *Camera {
	return &Camera{
		Rotation:     mgl64.QuatIdent(),
		Near:         near,
		Far:          far,
		Orthographic: true,
		OrthoLeft:    left,
		OrthoRight:   right,
		OrthoBottom:  bottom,
		OrthoTop:     top,
	}
}

// LookAt orients the camera toward target with +Y up. A target straight
// above or below uses -Z as up instead. A target at the camera position
// leaves the rotation unchanged.
func (c *Camera) LookAt(target mgl64.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() < 1e-12 {
		return
	}
	up := mgl64.Vec3{0, 1, 0}
	if dir.Normalize().Cross(up).Len() < 1e-9 {
		up = mgl64.Vec3{0, 0, -1}
	}
	view := mgl64.LookAtV(c.Position, target, up)
	c.Rotation = mgl64.Mat4ToQuat(invertMatrix(view)).Normalize()
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.Rotation.Rotate(mgl64.Vec3{0, 0, -1}).Normalize()
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	world := mgl64.Translate3D(c.Position[0], c.Position[1], c.Position[2]).
		Mul4(c.Rotation.Normalize().Mat4())
	return invertMatrix(world)
}

// ProjectionMatrix returns the camera's projection.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	if c.Orthographic {
		return mgl64.Ortho(c.OrthoLeft, c.OrthoRight, c.OrthoBottom, c.OrthoTop, c.Near, c.Far)
	}
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// ScreenToRay converts a screen-space point inside the viewport to a
// world-space ray. Perspective rays start at the camera position;
// orthographic rays start on the near plane.
func (c *Camera) ScreenToRay(sx, sy float64) Ray {
	vp := c.Viewport
	ndcX, ndcY := 0.0, 0.0
	if vp.Width > 0 && vp.Height > 0 {
		ndcX = 2*(sx-vp.X)/vp.Width - 1
		ndcY = 1 - 2*(sy-vp.Y)/vp.Height
	}
	inv := invertMatrix(c.ProjectionMatrix().Mul4(c.ViewMatrix()))
	near := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl64.TransformCoordinate(mgl64.Vec3{ndcX, ndcY, 1}, inv)

	origin := c.Position
	if c.Orthographic {
		origin = near
	}
	return Ray{Origin: origin, Direction: far.Sub(near).Normalize()}
}

// MoveTo animates the camera position to target over duration seconds.
func (c *Camera) MoveTo(target mgl64.Vec3, duration float32, easeFn ease.TweenFunc) {
	m := &moveAnim{}
	for i := 0; i < 3; i++ {
		m.tweens[i] = gween.New(float32(c.Position[i]), float32(target[i]), duration, easeFn)
	}
	c.move = m
}

// Moving reports whether a MoveTo animation is in progress.
func (c *Camera) Moving() bool {
	return c.move != nil
}

// update advances an active MoveTo animation by dt seconds.
func (c *Camera) update(dt float32) {
	if c.move == nil {
		return
	}
	all := true
	for i := 0; i < 3; i++ {
		if c.move.done[i] {
			continue
		}
		v, finished := c.move.tweens[i].Update(dt)
		c.Position[i] = float64(v)
		c.move.done[i] = finished
		if !finished {
			all = false
		}
	}
	if all {
		c.move = nil
	}
}
