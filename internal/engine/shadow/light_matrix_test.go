package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func toClip(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	return v.Vec3().Mul(1 / v.W())
}

func TestDirectionalLightMatrixEnclosesSphere(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl32.Vec3
	}{
		{"oblique", mgl32.Vec3{0.5, 1, 0.3}},
		{"vertical", mgl32.Vec3{0, 1, 0}},
		{"horizontal", mgl32.Vec3{1, 0, 0}},
	}

	radius := float32(2)
	points := []mgl32.Vec3{
		{0, 0, 0}, {radius, 0, 0}, {-radius, 0, 0},
		{0, radius, 0}, {0, -radius, 0}, {0, 0, radius}, {0, 0, -radius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DirectionalLightMatrix(tt.dir, mgl32.Vec3{}, radius)
			for _, p := range points {
				c := toClip(m, p)
				for i := 0; i < 3; i++ {
					if c[i] < -1 || c[i] > 1 {
						t.Errorf("point %v maps outside clip volume: %v", p, c)
						break
					}
				}
			}
		})
	}
}

func TestDirectionalLightMatrixDepthOrder(t *testing.T) {
	dir := mgl32.Vec3{0, 1, 0}
	m := DirectionalLightMatrix(dir, mgl32.Vec3{}, 2)

	nearer := toClip(m, mgl32.Vec3{0, 1, 0})
	farther := toClip(m, mgl32.Vec3{0, -1, 0})
	if nearer.Z() >= farther.Z() {
		t.Errorf("point closer to the light should have smaller depth: %f vs %f", nearer.Z(), farther.Z())
	}
}
