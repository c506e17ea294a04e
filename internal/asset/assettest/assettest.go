// Package assettest builds small GLB payloads for tests.
package assettest

import (
	"bytes"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Cube returns a GLB holding one axis-aligned cube with the given center
// and edge length, baked into the vertex positions.
func Cube(tb testing.TB, center [3]float32, edge float32) []byte {
	tb.Helper()
	doc := gltf.NewDocument()
	addCube(doc, center, edge)
	return Encode(tb, doc)
}

// AnimatedCube returns a unit cube whose node translates from the origin to
// (0,1,0) over one second.
func AnimatedCube(tb testing.TB) []byte {
	tb.Helper()
	doc := gltf.NewDocument()
	addCube(doc, [3]float32{}, 1)

	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	values := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {0, 1, 0}})
	doc.Animations = []*gltf.Animation{{
		Name: "bob",
		Samplers: []*gltf.AnimationSampler{{
			Input:         times,
			Output:        values,
			Interpolation: gltf.InterpolationLinear,
		}},
		Channels: []*gltf.AnimationChannel{{
			Sampler: 0,
			Target:  gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation},
		}},
	}}
	return Encode(tb, doc)
}

// Grid returns a flat n×n vertex grid of edge length 4, useful for payloads
// of a realistic size: each vertex costs 12 bytes plus 6 indices per cell.
func Grid(tb testing.TB, n int) []byte {
	tb.Helper()
	doc := gltf.NewDocument()

	positions := make([][3]float32, 0, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			fx := float32(x)/float32(n-1)*4 - 2
			fz := float32(z)/float32(n-1)*4 - 2
			fy := float32(math.Sin(float64(fx))) * 0.25
			positions = append(positions, [3]float32{fx, fy, fz})
		}
	}
	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for z := 0; z < n-1; z++ {
		for x := 0; x < n-1; x++ {
			i := uint32(z*n + x)
			indices = append(indices, i, i+uint32(n), i+1, i+1, i+uint32(n), i+uint32(n)+1)
		}
	}

	addMesh(doc, "grid", positions, indices)
	return Encode(tb, doc)
}

// Empty returns a valid GLB with a node but no geometry.
func Empty(tb testing.TB) []byte {
	tb.Helper()
	doc := gltf.NewDocument()
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "empty"})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return Encode(tb, doc)
}

// Corrupt returns a unit cube GLB after mutate has edited its document.
// Accessor 0 holds the positions and accessor 1 the indices.
func Corrupt(tb testing.TB, mutate func(doc *gltf.Document)) []byte {
	tb.Helper()
	doc := gltf.NewDocument()
	addCube(doc, [3]float32{}, 1)
	mutate(doc)
	return Encode(tb, doc)
}

// Encode serializes doc as GLB.
func Encode(tb testing.TB, doc *gltf.Document) []byte {
	tb.Helper()
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		tb.Fatalf("encode glb: %v", err)
	}
	return buf.Bytes()
}

func addCube(doc *gltf.Document, center [3]float32, edge float32) {
	h := edge / 2
	cx, cy, cz := center[0], center[1], center[2]
	positions := [][3]float32{
		{cx - h, cy - h, cz - h}, {cx + h, cy - h, cz - h},
		{cx + h, cy + h, cz - h}, {cx - h, cy + h, cz - h},
		{cx - h, cy - h, cz + h}, {cx + h, cy - h, cz + h},
		{cx + h, cy + h, cz + h}, {cx - h, cy + h, cz + h},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 6, 2, 3, 7, 6, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	addMesh(doc, "cube", positions, indices)
}

func addMesh(doc *gltf.Document, name string, positions [][3]float32, indices []uint32) {
	pos := modeler.WritePosition(doc, positions)
	idx := modeler.WriteIndices(doc, indices)

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.6, 0.5, 0.4, 1},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   gltf.Index(len(doc.Materials) - 1),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}
