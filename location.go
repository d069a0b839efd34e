package willowvr

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Location is a world-space pose that a root view can be anchored to. The
// runtime copies the pose into the anchor node during Frame whenever the
// location is dirty.
type Location struct {
	worldPosition mgl64.Vec3
	worldRotation mgl64.Quat
	dirty         bool

	tween *locationTween
}

// locationTween animates the three position components together. There is
// no global animation manager; Runtime.Frame advances it.
type locationTween struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// NewLocation creates a location at the given pose. New locations are dirty
// so the first Frame after mounting syncs them.
func NewLocation(position mgl64.Vec3, rotation mgl64.Quat) *Location {
	return &Location{
		worldPosition: position,
		worldRotation: rotation,
		dirty:         true,
	}
}

// WorldPosition returns the location's position.
func (l *Location) WorldPosition() mgl64.Vec3 {
	return l.worldPosition
}

// WorldRotation returns the location's rotation.
func (l *Location) WorldRotation() mgl64.Quat {
	return l.worldRotation
}

// SetWorldPosition moves the location and cancels any position tween.
func (l *Location) SetWorldPosition(p mgl64.Vec3) {
	l.worldPosition = p
	l.tween = nil
	l.dirty = true
}

// SetWorldRotation rotates the location.
func (l *Location) SetWorldRotation(q mgl64.Quat) {
	l.worldRotation = q
	l.dirty = true
}

// SetWorldPose sets position and rotation together.
func (l *Location) SetWorldPose(p mgl64.Vec3, q mgl64.Quat) {
	l.SetWorldPosition(p)
	l.SetWorldRotation(q)
}

// IsDirty reports whether the pose changed since the last ClearDirty.
func (l *Location) IsDirty() bool {
	return l.dirty
}

// ClearDirty marks the pose as synced.
func (l *Location) ClearDirty() {
	l.dirty = false
}

// TweenTo animates the position to target over duration seconds using the
// easing function.
func (l *Location) TweenTo(target mgl64.Vec3, duration float32, fn ease.TweenFunc) {
	t := &locationTween{}
	for i := 0; i < 3; i++ {
		t.tweens[i] = gween.New(float32(l.worldPosition[i]), float32(target[i]), duration, fn)
	}
	l.tween = t
}

// Tweening reports whether a TweenTo animation is in progress.
func (l *Location) Tweening() bool {
	return l.tween != nil
}

// update advances an active tween by dt seconds and marks the location dirty.
func (l *Location) update(dt float32) {
	if l.tween == nil {
		return
	}
	all := true
	for i := 0; i < 3; i++ {
		if l.tween.done[i] {
			continue
		}
		v, finished := l.tween.tweens[i].Update(dt)
		l.worldPosition[i] = float64(v)
		l.tween.done[i] = finished
		if !finished {
			all = false
		}
	}
	l.dirty = true
	if all {
		l.tween = nil
	}
}

// mountPoint marks Location as a valid CreateRootView destination.
func (l *Location) mountPoint() {}
