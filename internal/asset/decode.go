package asset

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/glowview/internal/engine/anim"
	"github.com/Faultbox/glowview/internal/engine/scene"
)

// RootName is the name of the wrapper node Decode places above the
// asset's own scene roots.
const RootName = "model"

// Decode parses a GLB (or self-contained glTF JSON) payload into a single
// root node and the asset's animation clips. Malformed payloads fail with
// ErrDecode; Decode never panics.
func Decode(data []byte) (root *scene.Node, clips []*anim.Clip, err error) {
	defer func() {
		if r := recover(); r != nil {
			root, clips, err = nil, nil, fmt.Errorf("%w: malformed asset: %v", ErrDecode, r)
		}
	}()

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c := &converter{
		doc:       doc,
		nodes:     make(map[int]*scene.Node, len(doc.Nodes)),
		materials: make(map[int]*scene.Material, len(doc.Materials)),
	}
	root, err = c.buildScene()
	if err != nil {
		return nil, nil, err
	}
	if st := root.Stats(); st.Meshes == 0 || st.Vertices == 0 {
		return nil, nil, ErrEmpty
	}

	clips, err = c.buildClips()
	if err != nil {
		return nil, nil, err
	}
	return root, clips, nil
}

type converter struct {
	doc       *gltf.Document
	nodes     map[int]*scene.Node
	materials map[int]*scene.Material
}

func (c *converter) buildScene() (*scene.Node, error) {
	root := scene.NewNode(RootName)
	for _, idx := range c.rootIndices() {
		n, err := c.buildNode(idx)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// rootIndices returns the default scene's nodes, or every unparented node
// when the document has no scenes.
func (c *converter) rootIndices() []int {
	doc := c.doc
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, ch := range n.Children {
			child[ch] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (c *converter) buildNode(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d out of range", ErrDecode, idx)
	}
	if _, seen := c.nodes[idx]; seen {
		return nil, fmt.Errorf("%w: node %d referenced twice", ErrDecode, idx)
	}

	src := c.doc.Nodes[idx]
	n := scene.NewNode(src.Name)
	c.nodes[idx] = n
	setTransform(n, src)

	if src.Mesh != nil {
		meshes, err := c.buildMesh(*src.Mesh)
		if err != nil {
			return nil, err
		}
		n.Meshes = meshes
	}

	for _, ch := range src.Children {
		child, err := c.buildNode(ch)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func setTransform(n *scene.Node, src *gltf.Node) {
	if src.Matrix != ([16]float64{}) && src.Matrix != identity64 {
		var m mgl32.Mat4
		for i, v := range src.Matrix {
			m[i] = float32(v)
		}
		n.Matrix = &m
		return
	}

	t := src.Translation
	n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}

	if r := src.Rotation; r != ([4]float64{}) {
		n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	}
	if s := src.Scale; s != ([3]float64{}) {
		n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	}
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func (c *converter) buildMesh(idx int) ([]*scene.Mesh, error) {
	if idx < 0 || idx >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d out of range", ErrDecode, idx)
	}
	src := c.doc.Meshes[idx]

	var out []*scene.Mesh
	for i, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		m, err := c.buildPrimitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
		}
		if m == nil {
			continue
		}
		m.Name = src.Name
		out = append(out, m)
	}
	return out, nil
}

func (c *converter) buildPrimitive(prim *gltf.Primitive) (*scene.Mesh, error) {
	doc := c.doc
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acc, err := c.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: positions: %w", ErrDecode, err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	m := &scene.Mesh{Positions: positions}

	if prim.Indices != nil {
		acc, err := c.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		m.Indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: indices: %w", ErrDecode, err)
		}
		for _, i := range m.Indices {
			if int(i) >= len(positions) {
				return nil, fmt.Errorf("%w: index %d out of range", ErrDecode, i)
			}
		}
	}

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := c.accessor(nIdx)
		if err != nil {
			return nil, err
		}
		m.Normals, err = modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: normals: %w", ErrDecode, err)
		}
	}
	if len(m.Normals) != len(m.Positions) {
		m.Normals = computeNormals(m.Positions, m.Indices)
	}

	if prim.Material != nil {
		m.Material = c.material(*prim.Material)
	} else {
		m.Material = scene.DefaultMaterial()
	}
	return m, nil
}

// accessor returns accessor idx once its data is known to lie inside its
// buffer view and buffer.
func (c *converter) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrDecode, idx)
	}
	acc := c.doc.Accessors[idx]
	if err := c.checkAccessor(acc); err != nil {
		return nil, fmt.Errorf("%w: accessor %d: %w", ErrDecode, idx, err)
	}
	return acc, nil
}

var errOutOfBounds = errors.New("data outside its buffer view")

func (c *converter) checkAccessor(acc *gltf.Accessor) error {
	if acc.Sparse != nil {
		return errors.New("sparse accessors are not supported")
	}
	if acc.BufferView == nil {
		return errors.New("no buffer view")
	}

	v := *acc.BufferView
	if v < 0 || v >= len(c.doc.BufferViews) {
		return fmt.Errorf("buffer view %d out of range", v)
	}
	view := c.doc.BufferViews[v]
	if view.Buffer < 0 || view.Buffer >= len(c.doc.Buffers) {
		return fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	data := c.doc.Buffers[view.Buffer].Data
	if view.ByteOffset < 0 || view.ByteLength < 0 ||
		view.ByteOffset > len(data) || view.ByteLength > len(data)-view.ByteOffset {
		return fmt.Errorf("buffer view %d outside buffer %d", v, view.Buffer)
	}

	size := gltf.SizeOfElement(acc.ComponentType, acc.Type)
	if size <= 0 {
		return errors.New("unknown element type")
	}
	stride := view.ByteStride
	if stride == 0 {
		stride = size
	}
	if stride < size {
		return fmt.Errorf("byte stride %d smaller than element size %d", stride, size)
	}

	if acc.Count < 0 || acc.ByteOffset < 0 || acc.ByteOffset > view.ByteLength {
		return errOutOfBounds
	}
	if acc.Count == 0 {
		return nil
	}
	// The last element ends at ByteOffset + (Count-1)*stride + size.
	avail := view.ByteLength - acc.ByteOffset
	if avail < size || acc.Count-1 > (avail-size)/stride {
		return errOutOfBounds
	}
	return nil
}

// material converts a glTF material once; primitives sharing it share the result.
func (c *converter) material(idx int) *scene.Material {
	if m, ok := c.materials[idx]; ok {
		return m
	}
	m := scene.DefaultMaterial()
	if idx >= 0 && idx < len(c.doc.Materials) {
		src := c.doc.Materials[idx]
		m.Name = src.Name
		if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			f := pbr.BaseColorFactor
			m.BaseColor = mgl32.Vec4{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		}
		e := src.EmissiveFactor
		m.Emissive = mgl32.Vec3{float32(e[0]), float32(e[1]), float32(e[2])}
		if m.Emissive != (mgl32.Vec3{}) {
			m.EmissiveIntensity = 1
		}
	}
	c.materials[idx] = m
	return m
}

// computeNormals produces area-weighted smooth normals.
func computeNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))
	tri := func(a, b, c uint32) {
		pa, pb, pc := mgl32.Vec3(positions[a]), mgl32.Vec3(positions[b]), mgl32.Vec3(positions[c])
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			tri(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := uint32(0); int(i)+2 < len(positions); i += 3 {
			tri(i, i+1, i+2)
		}
	}

	out := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() == 0 {
			out[i] = [3]float32{0, 1, 0}
			continue
		}
		out[i] = n.Normalize()
	}
	return out
}
