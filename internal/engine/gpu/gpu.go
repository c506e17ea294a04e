// Package gpu defines the rendering device the viewer draws through and a
// headless implementation. The OpenGL implementation lives in glgpu.
package gpu

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownID is returned when an operation names a resource the device does not hold.
var ErrUnknownID = errors.New("gpu: unknown resource id")

// Resource ids. Zero is never a valid id.
type (
	MeshID    uint32
	ProgramID uint32
	TextureID uint32
	TargetID  uint32
)

// MeshData is geometry ready for upload.
type MeshData struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// DrawItem is one mesh draw.
type DrawItem struct {
	Mesh              MeshID
	Model             mgl32.Mat4
	BaseColor         mgl32.Vec4
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
	CastShadow        bool
	ReceiveShadow     bool
}

// Frame is everything needed to draw and present one frame.
type Frame struct {
	Program ProgramID
	Target  TargetID

	Clear      mgl32.Vec4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Items      []DrawItem

	// LightDir points towards the key light. Shadows cover a sphere of
	// ShadowRadius around ShadowCenter; a zero radius disables the shadow pass.
	LightDir     mgl32.Vec3
	ShadowCenter mgl32.Vec3
	ShadowRadius float32

	// Overlay, when non-zero, is composited over the scene after the draw.
	Overlay TextureID

	// Output size in device pixels of the presented surface.
	OutputWidth  int
	OutputHeight int
}

// Device creates GPU objects and renders frames. Implementations are used
// from a single goroutine.
type Device interface {
	CreateProgram() (ProgramID, error)
	DeleteProgram(id ProgramID) error

	CreateMesh(data MeshData) (MeshID, error)
	DeleteMesh(id MeshID) error

	CreateTexture(width, height int) (TextureID, error)
	UploadTexture(id TextureID, img *image.RGBA) error
	DeleteTexture(id TextureID) error

	CreateRenderTarget(width, height int) (TargetID, error)
	ResizeRenderTarget(id TargetID, width, height int) error
	DeleteRenderTarget(id TargetID) error

	Render(f *Frame) error
}
