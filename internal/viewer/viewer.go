// Package viewer embeds a real-time model viewer into a host container.
//
// A Viewer owns every GPU object it creates through its device and releases
// them on Dispose. Rendering starts immediately with an empty scene; the
// asset loads on a background goroutine and is attached between frames.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/asset"
	"github.com/Faultbox/glowview/internal/engine/anim"
	"github.com/Faultbox/glowview/internal/engine/camera"
	"github.com/Faultbox/glowview/internal/engine/gpu"
	"github.com/Faultbox/glowview/internal/engine/lighting"
	"github.com/Faultbox/glowview/internal/engine/overlay"
	"github.com/Faultbox/glowview/internal/engine/resource"
	"github.com/Faultbox/glowview/internal/engine/scene"
	"github.com/Faultbox/glowview/internal/host"
	"github.com/Faultbox/glowview/internal/logger"
)

// ErrContainerNotFound is returned by New when the page has no container
// with the requested id.
var ErrContainerNotFound = errors.New("viewer: container not found")

// State is the viewer lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Initializing
	Running
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Stats are counters describing a viewer's activity.
type Stats struct {
	State          State
	Frames         uint64
	TickErrors     uint64
	DiscardedLoads uint64
	// Mutations counts scene graph changes: model attachments and detachments.
	Mutations uint64
}

// Scene lighting. The key light sits above and in front of the model.
var lightDir = lighting.SunDirection(59, 60)

// shadowRadius encloses a model normalized to the canonical size.
const shadowRadius = scene.CanonicalSize * 0.9

// maxFrameDelta bounds the clock step after a stall.
const maxFrameDelta = 250 * time.Millisecond

// model is the currently attached asset and the GPU buffers backing it.
type model struct {
	root   *scene.Node
	uri    string
	meshes map[*scene.Mesh]gpu.MeshID
	group  resource.Group
}

// delivery is a finished load waiting for the next tick.
type delivery struct {
	pending *asset.Pending
	result  asset.Result
}

// Viewer renders one model into one container.
type Viewer struct {
	opts      Options
	log       *zap.Logger
	container host.Container
	device    gpu.Device
	res       *resource.Manager
	sched     *Scheduler
	loader    *asset.Loader

	ctx    context.Context
	cancel context.CancelFunc

	state atomic.Int32

	// mu serializes ticks, input and teardown.
	mu       sync.Mutex
	root     *scene.Node
	model    *model
	camera   *camera.Perspective
	controls *camera.OrbitControls
	player   *anim.Player
	overlay  *overlay.Overlay
	viewport Viewport
	pointer  pointer

	program    gpu.ProgramID
	target     gpu.TargetID
	overlayTex gpu.TextureID
	overlayVer uint64

	lastTick time.Time
	elapsed  time.Duration

	// mailbox holds the latest load and its result, if finished.
	mbox struct {
		sync.Mutex
		pending *asset.Pending
		ready   *delivery
	}

	frames         atomic.Uint64
	tickErrors     atomic.Uint64
	discardedLoads atomic.Uint64
	mutations      atomic.Uint64
}

// New creates a viewer rendering assetURI into the page container
// containerID and starts loading the asset. It fails with
// ErrContainerNotFound before allocating anything when the container is
// missing.
func New(page host.Page, containerID, assetURI string, opts ...Option) (*Viewer, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	log := o.Logger
	if log == nil {
		log = logger.Log
	}
	log = log.Named("viewer").With(zap.String("container", containerID))

	c, ok := page.Container(containerID)
	if !ok {
		log.Error("container not found")
		return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, containerID)
	}

	device := o.Device
	if device == nil {
		device = gpu.NewHeadless()
	}

	loader := asset.NewLoader(o.HTTPClient, log)
	loader.Timeout = o.LoadTimeout
	loader.MaxBytes = o.MaxAssetBytes

	ctx, cancel := context.WithCancel(context.Background())
	v := &Viewer{
		opts:      o,
		log:       log,
		container: c,
		device:    device,
		res:       resource.NewManager(log),
		loader:    loader,
		ctx:       ctx,
		cancel:    cancel,
		root:      scene.NewNode("scene"),
		overlay:   overlay.New(o.Language),
	}
	v.sched = NewScheduler(o.FrameInterval, v.Step)
	v.state.Store(int32(Initializing))

	if err := v.init(); err != nil {
		v.state.Store(int32(Disposed))
		cancel()
		if derr := v.res.Dispose(); derr != nil {
			log.Warn("cleanup after failed init", zap.Error(derr))
		}
		log.Error("init failed", zap.Error(err))
		return nil, err
	}

	v.state.Store(int32(Running))
	log.Info("viewer running", zap.String("asset", assetURI))
	v.startLoad(assetURI)
	return v, nil
}

// init acquires GPU objects, the camera and the container subscriptions.
func (v *Viewer) init() error {
	var err error

	v.program, err = v.device.CreateProgram()
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	prog := v.program
	v.res.Track(resource.KindProgram, "glow", func() error { return v.device.DeleteProgram(prog) })

	w, h := v.container.Size()
	v.viewport = Viewport{Width: max(w, 1), Height: max(h, 1), PixelRatio: v.container.PixelRatio()}
	rw, rh := v.viewport.RenderSize()
	v.target, err = v.device.CreateRenderTarget(rw, rh)
	if err != nil {
		return fmt.Errorf("create render target: %w", err)
	}
	target := v.target
	v.res.Track(resource.KindRenderTarget, "output", func() error { return v.device.DeleteRenderTarget(target) })

	v.overlayTex, err = v.device.CreateTexture(rw, rh)
	if err != nil {
		return fmt.Errorf("create overlay texture: %w", err)
	}
	tex := v.overlayTex
	v.res.Track(resource.KindTexture, "overlay", func() error { return v.device.DeleteTexture(tex) })

	v.camera = camera.NewPerspective()
	v.camera.LookAt(mgl32.Vec3{0, 1, 5}, mgl32.Vec3{})
	v.camera.SetAspect(v.viewport.Aspect())

	if v.opts.CameraControls || v.opts.AutoRotate {
		v.controls = camera.NewOrbitControls(v.camera)
		v.controls.AutoRotate = v.opts.AutoRotate
		v.controls.AutoRotateSpeed = v.opts.AutoRotateSpeed
	}

	unsubResize := v.container.OnResize(v.onResize)
	v.res.Track(resource.KindSubscription, "resize", func() error { unsubResize(); return nil })

	if v.opts.CameraControls {
		unsubPointer := v.container.OnPointer(v.onPointer)
		v.res.Track(resource.KindSubscription, "pointer", func() error { unsubPointer(); return nil })
	}
	return nil
}

// Run drives the viewer at the configured frame interval until Dispose is
// called or ctx ends.
func (v *Viewer) Run(ctx context.Context) error {
	return v.sched.Run(ctx)
}

// Step runs exactly one tick at time now. It does nothing unless the viewer
// is running. A failing tick is logged and counted; it never panics.
func (v *Viewer) Step(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.State() != Running {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			v.tickErrors.Add(1)
			v.log.Error("tick panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	if err := v.tick(now); err != nil {
		v.tickErrors.Add(1)
		v.log.Warn("tick failed", zap.Error(err))
	}
}

func (v *Viewer) tick(now time.Time) error {
	v.drainMailbox()

	var dt time.Duration
	if !v.lastTick.IsZero() {
		dt = min(max(now.Sub(v.lastTick), 0), maxFrameDelta)
	}
	v.lastTick = now
	v.elapsed += dt
	secs := dt.Seconds()

	if v.controls != nil {
		v.controls.Update(secs)
	}
	if v.player != nil {
		v.player.Update(float32(secs))
	}

	if err := v.draw(); err != nil {
		return err
	}
	v.container.Present()
	v.frames.Add(1)
	return nil
}

func (v *Viewer) draw() error {
	f := &gpu.Frame{
		Program:    v.program,
		Target:     v.target,
		Clear:      vec4(v.opts.BackgroundColor),
		View:       v.camera.View(),
		Projection: v.camera.Projection(),
		Eye:        v.camera.Position,
		LightDir:   lightDir,
	}
	f.OutputWidth, f.OutputHeight = v.viewport.RenderSize()

	if v.model != nil {
		f.ShadowRadius = shadowRadius
		v.root.Walk(mgl32.Ident4(), func(n *scene.Node, world mgl32.Mat4) bool {
			for _, m := range n.Meshes {
				id, ok := v.model.meshes[m]
				if !ok {
					continue
				}
				mat := m.Material
				if mat == nil {
					mat = scene.DefaultMaterial()
				}
				f.Items = append(f.Items, gpu.DrawItem{
					Mesh:              id,
					Model:             world,
					BaseColor:         mat.BaseColor,
					Emissive:          mat.Emissive,
					EmissiveIntensity: mat.EmissiveIntensity,
					CastShadow:        m.CastShadow,
					ReceiveShadow:     m.ReceiveShadow,
				})
			}
			return true
		})
	}

	if img := v.overlay.Image(f.OutputWidth, f.OutputHeight); img != nil {
		if v.overlay.Version() != v.overlayVer {
			if err := v.device.UploadTexture(v.overlayTex, img); err != nil {
				return fmt.Errorf("upload overlay: %w", err)
			}
			v.overlayVer = v.overlay.Version()
		}
		f.Overlay = v.overlayTex
	}

	return v.device.Render(f)
}

// Reload starts loading uri. When it succeeds the current model is replaced;
// a failure shows the error overlay and keeps the current model. Results of
// earlier loads still in flight are discarded.
func (v *Viewer) Reload(uri string) error {
	if v.State() != Running {
		return fmt.Errorf("viewer: reload on %s viewer", v.State())
	}
	v.startLoad(uri)
	return nil
}

func (v *Viewer) startLoad(uri string) {
	v.mu.Lock()
	if v.model == nil {
		v.overlay.ShowLoading(0)
	}
	v.mu.Unlock()

	p := v.loader.Start(v.ctx, uri)

	v.mbox.Lock()
	if old := v.mbox.pending; old != nil {
		old.Cancel()
	}
	v.mbox.pending = p
	if v.mbox.ready != nil {
		v.discardedLoads.Add(1)
		v.mbox.ready = nil
	}
	v.mbox.Unlock()

	go func() {
		res := <-p.Done()
		v.deliver(p, res)
	}()
}

// deliver runs on the loader's goroutine. It never touches scene state: a
// live result is parked for the next tick, anything else is dropped.
func (v *Viewer) deliver(p *asset.Pending, res asset.Result) {
	v.mbox.Lock()
	defer v.mbox.Unlock()

	if v.State() == Disposed || v.mbox.pending != p {
		v.discardedLoads.Add(1)
		v.log.Debug("load result discarded", zap.String("asset", p.URI), zap.Bool("ok", res.Err == nil))
		return
	}
	v.mbox.ready = &delivery{pending: p, result: res}
}

// drainMailbox applies load progress and any finished load.
// Called with v.mu held at the start of a tick.
func (v *Viewer) drainMailbox() {
	v.mbox.Lock()
	p, d := v.mbox.pending, v.mbox.ready
	if d != nil {
		v.mbox.pending, v.mbox.ready = nil, nil
	}
	v.mbox.Unlock()

	if p == nil {
		return
	}
	if v.overlay.State() == overlay.Loading {
		v.overlay.ShowLoading(p.Progress())
	}
	if d == nil {
		return
	}

	if d.result.Err != nil {
		v.log.Warn("asset load failed", zap.String("asset", p.URI), zap.Error(d.result.Err))
		v.overlay.ShowError(d.result.Err)
		return
	}
	if err := v.attach(d.result.Asset); err != nil {
		v.log.Warn("asset attach failed", zap.String("asset", p.URI), zap.Error(err))
		v.overlay.ShowError(err)
		return
	}
	v.overlay.Hide()
}

// attach normalizes a, uploads its geometry and swaps it in as the only
// model. On error nothing changes.
func (v *Viewer) attach(a *asset.Asset) error {
	norm := scene.Normalize(a.Root, scene.NormalizeOptions{
		CanonicalSize: scene.CanonicalSize,
		Glow:          v.opts.Glow,
		GlowColor:     vec3(v.opts.GlowColor),
		GlowIntensity: float32(v.opts.GlowIntensity),
	})

	m := &model{root: a.Root, uri: a.URI, meshes: make(map[*scene.Mesh]gpu.MeshID)}
	for _, mesh := range a.Root.AllMeshes() {
		id, err := v.device.CreateMesh(gpu.MeshData{
			Positions: mesh.Positions,
			Normals:   mesh.Normals,
			Indices:   mesh.Indices,
		})
		if err != nil {
			if rerr := m.group.Release(); rerr != nil {
				v.log.Warn("release partial upload", zap.Error(rerr))
			}
			return fmt.Errorf("upload mesh %q: %w", mesh.Name, err)
		}
		m.meshes[mesh] = id
		m.group.Add(v.res.Track(resource.KindBuffer, mesh.Name, func() error { return v.device.DeleteMesh(id) }))
	}

	v.detach()

	v.root.Add(a.Root)
	v.model = m
	v.player = anim.NewPlayer(a.Clips)
	v.mutations.Add(1)

	v.log.Info("model attached",
		zap.String("asset", a.URI),
		zap.Float32("scale", norm.Scale),
		zap.Int("surfaces", norm.Surfaces),
		zap.Int("clips", len(a.Clips)),
	)
	return nil
}

// detach removes the current model and releases its buffers.
func (v *Viewer) detach() {
	if v.model == nil {
		return
	}
	v.root.Remove(v.model.root)
	if err := v.model.group.Release(); err != nil {
		v.log.Warn("release model buffers", zap.Error(err))
	}
	v.model = nil
	v.player = nil
	v.mutations.Add(1)
}

// Dispose stops rendering and releases every resource the viewer created.
// It is idempotent and waits for a tick in flight to finish.
func (v *Viewer) Dispose() error {
	if State(v.state.Swap(int32(Disposed))) == Disposed {
		return nil
	}

	v.sched.Stop()
	v.cancel()

	v.mbox.Lock()
	v.mbox.pending, v.mbox.ready = nil, nil
	v.mbox.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.player = nil
	v.model = nil
	err := v.res.Dispose()
	if err != nil {
		v.log.Warn("dispose finished with errors", zap.Error(err))
	}
	v.log.Info("viewer disposed",
		zap.Uint64("frames", v.frames.Load()),
		zap.Int("released", v.res.Released()),
	)
	return err
}

// State returns the lifecycle state.
func (v *Viewer) State() State { return State(v.state.Load()) }

// Stats returns activity counters.
func (v *Viewer) Stats() Stats {
	return Stats{
		State:          v.State(),
		Frames:         v.frames.Load(),
		TickErrors:     v.tickErrors.Load(),
		DiscardedLoads: v.discardedLoads.Load(),
		Mutations:      v.mutations.Load(),
	}
}

// Elapsed returns the clock time accumulated over all ticks.
func (v *Viewer) Elapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.elapsed
}

// Options returns the resolved options.
func (v *Viewer) Options() Options { return v.opts }

// Scene returns the scene root. The attached model is its only child.
// Ticks mutate the tree; read it only between ticks.
func (v *Viewer) Scene() *scene.Node { return v.root }

// Camera returns the viewer's camera.
func (v *Viewer) Camera() *camera.Perspective { return v.camera }

// Controls returns the orbit controls, or nil when neither camera controls
// nor autorotation are enabled. Ticks update them; use them only between
// ticks, on the goroutine that calls Step.
func (v *Viewer) Controls() *camera.OrbitControls { return v.controls }

// Overlay returns the status overlay.
func (v *Viewer) Overlay() *overlay.Overlay { return v.overlay }

// Player returns the animation player of the attached model, if any.
// Ticks advance it and attaching a model replaces it, so read it only
// between ticks.
func (v *Viewer) Player() *anim.Player {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.player
}

// Viewport returns the current viewport.
func (v *Viewer) Viewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

// RenderTarget returns the id of the output render target.
func (v *Viewer) RenderTarget() gpu.TargetID { return v.target }

// Resources returns the viewer's resource manager.
func (v *Viewer) Resources() *resource.Manager { return v.res }
