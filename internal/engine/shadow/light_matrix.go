// Package shadow computes light-space matrices for directional shadow mapping.
package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// DirectionalLightMatrix computes the view-projection used for the depth pass.
// lightDir is the direction towards the light; the orthographic volume
// encloses a sphere of radius around center.
func DirectionalLightMatrix(lightDir, center mgl32.Vec3, radius float32) mgl32.Mat4 {
	dir := lightDir.Normalize()

	// Far enough to keep the whole sphere in front of the near plane.
	lightDistance := radius * 2
	lightPos := center.Add(dir.Mul(lightDistance))

	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(lightPos, center, up)

	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	proj := mgl32.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)
	return proj.Mul4(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
