// Package scene holds the viewer's scene graph: nodes with TRS transforms,
// meshes and materials, plus bounding-volume and normalization helpers.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material describes the surface parameters the glow shader understands.
type Material struct {
	Name              string
	BaseColor         mgl32.Vec4
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
}

// DefaultMaterial returns an opaque light-grey material with no emission.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		BaseColor: mgl32.Vec4{0.8, 0.8, 0.8, 1},
	}
}

// Mesh is one renderable surface: triangle list geometry plus a material.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Material  *Material

	CastShadow    bool
	ReceiveShadow bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// Node is a transform in the scene graph.
type Node struct {
	Name string

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	// Matrix, when set, replaces the TRS local transform.
	Matrix *mgl32.Mat4

	Meshes   []*Mesh
	Children []*Node

	parent *Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Parent returns the node's parent or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Local returns the local transform matrix.
func (n *Node) Local() mgl32.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// World returns the node's world transform by walking up its parents.
func (n *Node) World() mgl32.Mat4 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// Walk visits n and its descendants depth-first with their world transforms,
// starting from parentWorld. Returning false from fn skips the node's children.
func (n *Node) Walk(parentWorld mgl32.Mat4, fn func(node *Node, world mgl32.Mat4) bool) {
	world := parentWorld.Mul4(n.Local())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}

// Find returns the first node named name in the subtree, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(mgl32.Ident4(), func(node *Node, _ mgl32.Mat4) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// AllMeshes returns every mesh in the subtree.
func (n *Node) AllMeshes() []*Mesh {
	var meshes []*Mesh
	n.Walk(mgl32.Ident4(), func(node *Node, _ mgl32.Mat4) bool {
		meshes = append(meshes, node.Meshes...)
		return true
	})
	return meshes
}

// Stats summarises a subtree.
type Stats struct {
	Nodes    int
	Meshes   int
	Vertices int
}

// Stats counts nodes, meshes and vertices in the subtree.
func (n *Node) Stats() Stats {
	var s Stats
	n.Walk(mgl32.Ident4(), func(node *Node, _ mgl32.Mat4) bool {
		s.Nodes++
		s.Meshes += len(node.Meshes)
		for _, m := range node.Meshes {
			s.Vertices += m.VertexCount()
		}
		return true
	})
	return s
}
