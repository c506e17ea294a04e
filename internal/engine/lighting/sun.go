// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts azimuth/elevation angles in degrees to a light
// direction. Azimuth is rotation around the Y axis measured from +Z towards
// +X, elevation is the angle above the horizon. The result points towards
// the light and is normalized.
func SunDirection(azimuth, elevation float64) mgl32.Vec3 {
	az := azimuth * math.Pi / 180.0
	el := elevation * math.Pi / 180.0

	x := float32(math.Cos(el) * math.Sin(az))
	y := float32(math.Sin(el))
	z := float32(math.Cos(el) * math.Cos(az))

	return mgl32.Vec3{x, y, z}
}
