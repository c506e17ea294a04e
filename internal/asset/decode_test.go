package asset

import (
	"errors"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/glowview/internal/asset/assettest"
	"github.com/Faultbox/glowview/internal/engine/anim"
)

func TestDecodeCube(t *testing.T) {
	root, clips, err := Decode(assettest.Cube(t, [3]float32{0, 0, 0}, 2))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.Name != RootName {
		t.Errorf("root name = %q, want %q", root.Name, RootName)
	}
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(root.Children))
	}
	if len(clips) != 0 {
		t.Errorf("clips = %d, want 0", len(clips))
	}

	meshes := root.AllMeshes()
	if len(meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(meshes))
	}
	m := meshes[0]
	if m.VertexCount() != 8 || len(m.Indices) != 36 {
		t.Errorf("geometry = %d vertices / %d indices", m.VertexCount(), len(m.Indices))
	}
	if len(m.Normals) != m.VertexCount() {
		t.Errorf("normals = %d, want one per vertex", len(m.Normals))
	}
	if m.Material == nil || m.Material.BaseColor[0] != 0.6 {
		t.Errorf("material = %+v", m.Material)
	}
}

func TestDecodeAnimation(t *testing.T) {
	root, clips, err := Decode(assettest.AnimatedCube(t))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(clips))
	}
	c := clips[0]
	if c.Name != "bob" || c.Duration != 1 || len(c.Channels) != 1 {
		t.Fatalf("clip = %+v", c)
	}
	ch := c.Channels[0]
	if ch.Path != anim.PathTranslation || ch.Node != root.Children[0] {
		t.Errorf("channel targets %v on %p, want translation on %p", ch.Path, ch.Node, root.Children[0])
	}

	p := anim.NewPlayer(clips)
	p.Update(0.5)
	if y := root.Children[0].Translation.Y(); y < 0.49 || y > 0.51 {
		t.Errorf("translation y at 0.5s = %v, want 0.5", y)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode([]byte{0x67, 0x6c, 0x54, 0x46, 1, 2, 3}); !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestDecodeRejectsMalformedAccessors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document)
	}{
		{"offset past view", func(doc *gltf.Document) {
			doc.Accessors[0].ByteOffset = doc.BufferViews[0].ByteLength + 4096
		}},
		{"offset leaves too little room", func(doc *gltf.Document) {
			doc.Accessors[0].ByteOffset = 12
		}},
		{"huge count", func(doc *gltf.Document) {
			doc.Accessors[0].Count = 1 << 40
		}},
		{"huge index count", func(doc *gltf.Document) {
			doc.Accessors[1].Count = 1 << 40
		}},
		{"negative offset", func(doc *gltf.Document) {
			doc.Accessors[0].ByteOffset = -12
		}},
		{"view past buffer", func(doc *gltf.Document) {
			doc.BufferViews[0].ByteLength += 1 << 20
		}},
		{"missing view", func(doc *gltf.Document) {
			doc.Accessors[0].BufferView = nil
		}},
		{"view index out of range", func(doc *gltf.Document) {
			doc.Accessors[0].BufferView = gltf.Index(len(doc.BufferViews) + 3)
		}},
		{"buffer index out of range", func(doc *gltf.Document) {
			doc.BufferViews[0].Buffer = 7
		}},
		{"stride below element size", func(doc *gltf.Document) {
			doc.BufferViews[0].ByteStride = 4
		}},
		{"sparse", func(doc *gltf.Document) {
			doc.Accessors[0].Sparse = &gltf.Sparse{Count: 1}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, clips, err := Decode(assettest.Corrupt(t, tt.mutate))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("err = %v, want ErrDecode", err)
			}
			if root != nil || clips != nil {
				t.Error("partial result returned with error")
			}
		})
	}
}

func TestDecodeAcceptsUnmodifiedFixture(t *testing.T) {
	if _, _, err := Decode(assettest.Corrupt(t, func(*gltf.Document) {})); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestComputeNormalsFlatTriangle(t *testing.T) {
	n := computeNormals([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}, nil)
	for i, v := range n {
		if v != [3]float32{0, 1, 0} {
			t.Errorf("normal[%d] = %v, want (0,1,0)", i, v)
		}
	}
}
