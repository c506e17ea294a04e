package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CanonicalSize is the largest dimension a normalized model is scaled to.
const CanonicalSize = 2.5

// NormalizeOptions controls Normalize.
type NormalizeOptions struct {
	CanonicalSize float32

	Glow          bool
	GlowColor     mgl32.Vec3
	GlowIntensity float32
}

// Normalization reports what Normalize applied.
type Normalization struct {
	Bounds      Bounds
	Scale       float32
	Translation mgl32.Vec3
	Surfaces    int
}

// Normalize rescales root uniformly so its largest dimension equals
// opts.CanonicalSize and moves its scaled center to the origin of its parent
// space. The scale is applied first and the translation is the negated scaled
// center. It also flags every mesh for shadows and, with Glow set, writes the
// emissive tint into every material.
//
// Root is treated as detached: bounds are measured in root's parent space
// without any ancestor transform.
func Normalize(root *Node, opts NormalizeOptions) Normalization {
	if opts.CanonicalSize <= 0 {
		opts.CanonicalSize = CanonicalSize
	}

	res := Normalization{Scale: 1}
	res.Bounds = measureDetached(root)

	if maxDim := res.Bounds.MaxDimension(); !res.Bounds.IsEmpty() && maxDim > 0 {
		s := opts.CanonicalSize / maxDim
		center := res.Bounds.Center()
		res.Scale = s
		res.Translation = center.Mul(-s)
		applyScaleThenTranslate(root, s, res.Translation)
	}

	res.Surfaces = tintSurfaces(root, opts)
	return res
}

func measureDetached(root *Node) Bounds {
	parent := root.parent
	root.parent = nil
	b := ComputeBounds(root)
	root.parent = parent
	return b
}

// applyScaleThenTranslate left-multiplies root's local transform by T·S.
func applyScaleThenTranslate(root *Node, s float32, t mgl32.Vec3) {
	if root.Matrix != nil {
		m := mgl32.Translate3D(t.X(), t.Y(), t.Z()).Mul4(mgl32.Scale3D(s, s, s)).Mul4(*root.Matrix)
		root.Matrix = &m
		return
	}
	// Uniform scale commutes with the node's rotation, so T·S·(T0·R0·S0)
	// stays expressible as TRS.
	root.Translation = root.Translation.Mul(s).Add(t)
	root.Scale = root.Scale.Mul(s)
}

func tintSurfaces(root *Node, opts NormalizeOptions) int {
	n := 0
	root.Walk(mgl32.Ident4(), func(node *Node, _ mgl32.Mat4) bool {
		for _, m := range node.Meshes {
			m.CastShadow = true
			m.ReceiveShadow = true
			if m.Material == nil {
				m.Material = DefaultMaterial()
			}
			if opts.Glow {
				m.Material.Emissive = opts.GlowColor
				m.Material.EmissiveIntensity = opts.GlowIntensity
			}
			n++
		}
		return true
	})
	return n
}
