package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl32.Vec3
	valid    bool
}

// EmptyBounds returns a box that contains nothing.
func EmptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool { return !b.valid }

// Expand grows the box to contain p.
func (b *Bounds) Expand(p mgl32.Vec3) {
	if !b.valid {
		b.Min, b.Max = p, p
		b.valid = true
		return
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the box center.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	if !b.valid {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MaxDimension returns the largest extent.
func (b Bounds) MaxDimension() float32 {
	s := b.Size()
	return max(s.X(), s.Y(), s.Z())
}

// ComputeBounds returns the world-space AABB of every mesh vertex under root,
// including root's own local transform.
func ComputeBounds(root *Node) Bounds {
	b := EmptyBounds()
	parent := mgl32.Ident4()
	if root.parent != nil {
		parent = root.parent.World()
	}
	root.Walk(parent, func(node *Node, world mgl32.Mat4) bool {
		for _, m := range node.Meshes {
			for _, p := range m.Positions {
				wp := world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3()
				b.Expand(wp)
			}
		}
		return true
	})
	return b
}
