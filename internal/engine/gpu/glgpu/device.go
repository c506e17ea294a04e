// Package glgpu implements gpu.Device on OpenGL 4.1 core.
//
// A Device must be created and used on the goroutine that owns the GL
// context.
package glgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/engine/framebuffer"
	"github.com/Faultbox/glowview/internal/engine/gpu"
	"github.com/Faultbox/glowview/internal/engine/shader"
)

type mesh struct {
	vao     uint32
	vbos    [2]uint32
	ebo     uint32
	count   int32
	indexed bool
}

type programSet struct {
	glow    *shader.Program
	depth   *shader.Program
	overlay *shader.Program
}

func (p *programSet) delete() {
	p.glow.Delete()
	p.depth.Delete()
	p.overlay.Delete()
}

// Config holds device configuration.
type Config struct {
	ShadowResolution int32
}

// Device draws frames with OpenGL.
type Device struct {
	log *zap.Logger

	next     uint32
	meshes   map[gpu.MeshID]*mesh
	programs map[gpu.ProgramID]*programSet
	textures map[gpu.TextureID]uint32
	targets  map[gpu.TargetID]*framebuffer.Framebuffer

	shadow  *shadowMap
	quadVAO uint32
	quadVBO uint32
}

var _ gpu.Device = (*Device)(nil)

// New initializes OpenGL and creates a device.
// The GL context must be current.
func New(cfg Config, log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	d := &Device{
		log:      log,
		meshes:   make(map[gpu.MeshID]*mesh),
		programs: make(map[gpu.ProgramID]*programSet),
		textures: make(map[gpu.TextureID]uint32),
		targets:  make(map[gpu.TargetID]*framebuffer.Framebuffer),
	}

	sm, err := newShadowMap(cfg.ShadowResolution)
	if err != nil {
		log.Warn("shadows disabled", zap.Error(err))
	} else {
		d.shadow = sm
	}
	d.createQuad()

	return d, nil
}

// Close releases device-owned objects. Resources created through the
// Device interface are released by their owners.
func (d *Device) Close() {
	if d.shadow != nil {
		d.shadow.destroy()
		d.shadow = nil
	}
	if d.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &d.quadVAO)
		gl.DeleteBuffers(1, &d.quadVBO)
		d.quadVAO, d.quadVBO = 0, 0
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// CreateProgram implements gpu.Device.
func (d *Device) CreateProgram() (gpu.ProgramID, error) {
	glow, err := shader.Build(shader.GlowVertex, shader.GlowFragment)
	if err != nil {
		return 0, fmt.Errorf("glow program: %w", err)
	}
	depth, err := shader.Build(shader.DepthVertex, shader.DepthFragment)
	if err != nil {
		glow.Delete()
		return 0, fmt.Errorf("depth program: %w", err)
	}
	overlay, err := shader.Build(shader.OverlayVertex, shader.OverlayFragment)
	if err != nil {
		glow.Delete()
		depth.Delete()
		return 0, fmt.Errorf("overlay program: %w", err)
	}

	id := gpu.ProgramID(d.id())
	d.programs[id] = &programSet{glow: glow, depth: depth, overlay: overlay}
	return id, nil
}

// DeleteProgram implements gpu.Device.
func (d *Device) DeleteProgram(id gpu.ProgramID) error {
	p, ok := d.programs[id]
	if !ok {
		return fmt.Errorf("program %d: %w", id, gpu.ErrUnknownID)
	}
	p.delete()
	delete(d.programs, id)
	return nil
}

// CreateMesh implements gpu.Device.
func (d *Device) CreateMesh(data gpu.MeshData) (gpu.MeshID, error) {
	if len(data.Positions) == 0 {
		return 0, fmt.Errorf("glgpu: mesh has no vertices")
	}

	normals := data.Normals
	if len(normals) != len(data.Positions) {
		normals = make([][3]float32, len(data.Positions))
		for i := range normals {
			normals[i] = [3]float32{0, 1, 0}
		}
	}

	m := &mesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(2, &m.vbos[0])
	upload := func(vbo uint32, loc uint32, v [][3]float32) {
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(v)*12, unsafe.Pointer(&v[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, 12, 0)
		gl.EnableVertexAttribArray(loc)
	}
	upload(m.vbos[0], 0, data.Positions)
	upload(m.vbos[1], 1, normals)

	if len(data.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, unsafe.Pointer(&data.Indices[0]), gl.STATIC_DRAW)
		m.count = int32(len(data.Indices))
		m.indexed = true
	} else {
		m.count = int32(len(data.Positions))
	}
	gl.BindVertexArray(0)

	id := gpu.MeshID(d.id())
	d.meshes[id] = m
	return id, nil
}

// DeleteMesh implements gpu.Device.
func (d *Device) DeleteMesh(id gpu.MeshID) error {
	m, ok := d.meshes[id]
	if !ok {
		return fmt.Errorf("mesh %d: %w", id, gpu.ErrUnknownID)
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(2, &m.vbos[0])
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	delete(d.meshes, id)
	return nil
}

// CreateTexture implements gpu.Device.
func (d *Device) CreateTexture(width, height int) (gpu.TextureID, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(max(width, 1)), int32(max(height, 1)), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	id := gpu.TextureID(d.id())
	d.textures[id] = tex
	return id, nil
}

// UploadTexture implements gpu.Device.
func (d *Device) UploadTexture(id gpu.TextureID, img *image.RGBA) error {
	tex, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("texture %d: %w", id, gpu.ErrUnknownID)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// DeleteTexture implements gpu.Device.
func (d *Device) DeleteTexture(id gpu.TextureID) error {
	tex, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("texture %d: %w", id, gpu.ErrUnknownID)
	}
	gl.DeleteTextures(1, &tex)
	delete(d.textures, id)
	return nil
}

// CreateRenderTarget implements gpu.Device.
func (d *Device) CreateRenderTarget(width, height int) (gpu.TargetID, error) {
	fb, err := framebuffer.New(width, height)
	if err != nil {
		return 0, err
	}
	id := gpu.TargetID(d.id())
	d.targets[id] = fb
	return id, nil
}

// ResizeRenderTarget implements gpu.Device.
func (d *Device) ResizeRenderTarget(id gpu.TargetID, width, height int) error {
	fb, ok := d.targets[id]
	if !ok {
		return fmt.Errorf("render target %d: %w", id, gpu.ErrUnknownID)
	}
	fb.Resize(width, height)
	return nil
}

// DeleteRenderTarget implements gpu.Device.
func (d *Device) DeleteRenderTarget(id gpu.TargetID) error {
	fb, ok := d.targets[id]
	if !ok {
		return fmt.Errorf("render target %d: %w", id, gpu.ErrUnknownID)
	}
	fb.Destroy()
	delete(d.targets, id)
	return nil
}

// Snapshot returns the current contents of a render target.
func (d *Device) Snapshot(id gpu.TargetID) (*image.RGBA, error) {
	fb, ok := d.targets[id]
	if !ok {
		return nil, fmt.Errorf("render target %d: %w", id, gpu.ErrUnknownID)
	}
	return fb.Snapshot(), nil
}

// createQuad builds the full-screen quad used for the overlay. Texture rows
// are stored top first, so v runs downwards.
func (d *Device) createQuad() {
	vertices := []float32{
		// pos      uv
		-1, -1, 0, 1,
		1, -1, 1, 1,
		-1, 1, 0, 0,
		1, 1, 1, 0,
	}
	gl.GenVertexArrays(1, &d.quadVAO)
	gl.BindVertexArray(d.quadVAO)
	gl.GenBuffers(1, &d.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 16, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 16, 8)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
}
