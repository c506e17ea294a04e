package gpu

import (
	"fmt"
	"image"
	"sync"
)

// Headless is a Device that keeps resource bookkeeping in memory and records
// frames instead of drawing them.
type Headless struct {
	mu sync.Mutex

	next     uint32
	meshes   map[MeshID]MeshData
	programs map[ProgramID]struct{}
	textures map[TextureID]*image.RGBA
	targets  map[TargetID][2]int

	created int
	deleted int
	frames  int
	last    Frame

	// RenderHook, when set, runs at the start of every Render and may fail it.
	RenderHook func(f *Frame) error
}

// NewHeadless creates an empty headless device.
func NewHeadless() *Headless {
	return &Headless{
		meshes:   make(map[MeshID]MeshData),
		programs: make(map[ProgramID]struct{}),
		textures: make(map[TextureID]*image.RGBA),
		targets:  make(map[TargetID][2]int),
	}
}

func (h *Headless) id() uint32 {
	h.next++
	h.created++
	return h.next
}

// CreateProgram implements Device.
func (h *Headless) CreateProgram() (ProgramID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := ProgramID(h.id())
	h.programs[id] = struct{}{}
	return id, nil
}

// DeleteProgram implements Device.
func (h *Headless) DeleteProgram(id ProgramID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.programs[id]; !ok {
		return fmt.Errorf("program %d: %w", id, ErrUnknownID)
	}
	delete(h.programs, id)
	h.deleted++
	return nil
}

// CreateMesh implements Device.
func (h *Headless) CreateMesh(data MeshData) (MeshID, error) {
	if len(data.Positions) == 0 {
		return 0, fmt.Errorf("gpu: mesh has no vertices")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := MeshID(h.id())
	h.meshes[id] = data
	return id, nil
}

// DeleteMesh implements Device.
func (h *Headless) DeleteMesh(id MeshID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.meshes[id]; !ok {
		return fmt.Errorf("mesh %d: %w", id, ErrUnknownID)
	}
	delete(h.meshes, id)
	h.deleted++
	return nil
}

// CreateTexture implements Device.
func (h *Headless) CreateTexture(width, height int) (TextureID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := TextureID(h.id())
	h.textures[id] = image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	return id, nil
}

// UploadTexture implements Device.
func (h *Headless) UploadTexture(id TextureID, img *image.RGBA) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.textures[id]; !ok {
		return fmt.Errorf("texture %d: %w", id, ErrUnknownID)
	}
	h.textures[id] = img
	return nil
}

// DeleteTexture implements Device.
func (h *Headless) DeleteTexture(id TextureID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.textures[id]; !ok {
		return fmt.Errorf("texture %d: %w", id, ErrUnknownID)
	}
	delete(h.textures, id)
	h.deleted++
	return nil
}

// CreateRenderTarget implements Device.
func (h *Headless) CreateRenderTarget(width, height int) (TargetID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := TargetID(h.id())
	h.targets[id] = [2]int{max(width, 1), max(height, 1)}
	return id, nil
}

// ResizeRenderTarget implements Device.
func (h *Headless) ResizeRenderTarget(id TargetID, width, height int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.targets[id]; !ok {
		return fmt.Errorf("render target %d: %w", id, ErrUnknownID)
	}
	h.targets[id] = [2]int{max(width, 1), max(height, 1)}
	return nil
}

// DeleteRenderTarget implements Device.
func (h *Headless) DeleteRenderTarget(id TargetID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.targets[id]; !ok {
		return fmt.Errorf("render target %d: %w", id, ErrUnknownID)
	}
	delete(h.targets, id)
	h.deleted++
	return nil
}

// Render implements Device.
func (h *Headless) Render(f *Frame) error {
	if h.RenderHook != nil {
		if err := h.RenderHook(f); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.programs[f.Program]; !ok {
		return fmt.Errorf("program %d: %w", f.Program, ErrUnknownID)
	}
	if _, ok := h.targets[f.Target]; !ok {
		return fmt.Errorf("render target %d: %w", f.Target, ErrUnknownID)
	}
	for _, it := range f.Items {
		if _, ok := h.meshes[it.Mesh]; !ok {
			return fmt.Errorf("mesh %d: %w", it.Mesh, ErrUnknownID)
		}
	}

	h.frames++
	h.last = *f
	h.last.Items = append([]DrawItem(nil), f.Items...)
	return nil
}

// HeadlessStats is a snapshot of a headless device.
type HeadlessStats struct {
	Meshes   int
	Programs int
	Textures int
	Targets  int
	Created  int
	Deleted  int
	Frames   int
}

// Live returns the number of resources currently held.
func (s HeadlessStats) Live() int {
	return s.Meshes + s.Programs + s.Textures + s.Targets
}

// Stats returns a snapshot of resource and frame counts.
func (h *Headless) Stats() HeadlessStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HeadlessStats{
		Meshes:   len(h.meshes),
		Programs: len(h.programs),
		Textures: len(h.textures),
		Targets:  len(h.targets),
		Created:  h.created,
		Deleted:  h.deleted,
		Frames:   h.frames,
	}
}

// LastFrame returns a copy of the most recent rendered frame.
func (h *Headless) LastFrame() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// TargetSize returns the size of a render target.
func (h *Headless) TargetSize(id TargetID) (width, height int, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.targets[id]
	return s[0], s[1], ok
}

// Texture returns the last image uploaded to a texture.
func (h *Headless) Texture(id TextureID) (*image.RGBA, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	img, ok := h.textures[id]
	return img, ok
}
