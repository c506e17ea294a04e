package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name      string
		azimuth   float64
		elevation float64
		want      mgl32.Vec3
	}{
		{"zenith", 0, 90, mgl32.Vec3{0, 1, 0}},
		{"front horizon", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"right horizon", 90, 0, mgl32.Vec3{1, 0, 0}},
		{"behind at 45", 180, 45, mgl32.Vec3{0, float32(math.Sqrt2 / 2), -float32(math.Sqrt2 / 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			if !got.ApproxEqualThreshold(tt.want, 1e-5) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
			}
			if l := got.Len(); math.Abs(float64(l)-1) > 1e-5 {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}
