package willowvr

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default node color.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned screen rectangle with its origin at the top-left
// and Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Ray source types. Any string is accepted; these are the ones the runtime
// produces itself.
const (
	RayTypeMouse      = "mouse"
	RayTypeGaze       = "gaze"
	RayTypeController = "controller"
)

// Ray is a single input sample: a world-space origin and direction plus the
// kind of device that produced it.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	// Type names the producing device (RayTypeMouse, RayTypeGaze, ...).
	Type string
	// DrawsCursor reports whether a cursor reticle should be drawn for this ray.
	DrawsCursor bool
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is one intersection of a ray with a node's geometry.
type Hit struct {
	Node     *Node
	Distance float64
	// Point is the world-space intersection point.
	Point mgl64.Vec3
	// UV is the surface coordinate of the hit. Only valid when HasUV is set.
	UV    mgl64.Vec2
	HasUV bool
	// IsAlmostHit marks a near miss, reported for cursor affordance only.
	IsAlmostHit bool
}

// IsInteractable reports whether the hit's node accepts interaction.
func (h Hit) IsInteractable() bool {
	return h.Node != nil && h.Node.Interactable
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventCursorEnter EventType = iota // the resolved target changed to this node
	EventCursorLeave                  // the resolved target changed away from this node
	EventInput                        // an input channel event was dispatched
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventCursorEnter:
		return "CursorEnter"
	case EventCursorLeave:
		return "CursorLeave"
	case EventInput:
		return "Input"
	default:
		return "Unknown"
	}
}
