// Package camera provides the viewer's perspective camera and orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective camera defaults.
const (
	DefaultFOV  = 45.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Perspective is a perspective-projection camera looking at a target.
type Perspective struct {
	FOV    float32 // vertical field of view, degrees
	Near   float32
	Far    float32
	Aspect float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspective creates a camera with the default lens at distance 5 on +Z.
func NewPerspective() *Perspective {
	c := &Perspective{
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Aspect:   1,
		Position: mgl32.Vec3{0, 0, 5},
		Up:       mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// SetAspect updates the aspect ratio and refreshes the projection. Non-positive
// values are ignored.
func (c *Perspective) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.Aspect = aspect
	c.UpdateProjection()
}

// UpdateProjection recomputes the cached projection matrix from the lens fields.
func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Projection returns the cached projection matrix.
func (c *Perspective) Projection() mgl32.Mat4 {
	return c.projection
}

// View returns the view matrix.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// LookAt places the camera at pos looking at target.
func (c *Perspective) LookAt(pos, target mgl32.Vec3) {
	c.Position = pos
	c.Target = target
}
