// Package window handles SDL2 window and OpenGL context creation. A Window is
// also the host page for the desktop viewer: it holds a single container.
package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/engine/input"
	"github.com/Faultbox/glowview/internal/host"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Container  string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	log       *zap.Logger
	sdlWindow *sdl.Window
	glContext sdl.GLContext

	mu      sync.Mutex
	nextID  int
	resize  map[int]func(int, int)
	pointer map[int]func(host.PointerEvent)
}

var (
	_ host.Page      = (*Window)(nil)
	_ host.Container = (*Window)(nil)
)

// New creates a new window with OpenGL context.
func New(cfg Config, log *zap.Logger) (*Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Container == "" {
		cfg.Container = "viewer"
	}
	w := &Window{
		config:  cfg,
		log:     log,
		resize:  make(map[int]func(int, int)),
		pointer: make(map[int]func(host.PointerEvent)),
	}

	// Initialize SDL2
	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			log.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Float64("pixel_ratio", w.PixelRatio()),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Container implements host.Page. The window is its only container.
func (w *Window) Container(id string) (host.Container, bool) {
	if id != w.config.Container {
		return nil, false
	}
	return w, true
}

// ID implements host.Container.
func (w *Window) ID() string { return w.config.Container }

// Size returns the current window size in logical pixels.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// PixelRatio returns drawable pixels per window pixel.
func (w *Window) PixelRatio() float64 {
	lw, _ := w.sdlWindow.GetSize()
	dw, _ := w.sdlWindow.GLGetDrawableSize()
	if lw <= 0 || dw <= 0 {
		return 1
	}
	return float64(dw) / float64(lw)
}

// OnResize implements host.Container.
func (w *Window) OnResize(fn func(int, int)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.resize[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.resize, id)
		w.mu.Unlock()
	}
}

// OnPointer implements host.Container.
func (w *Window) OnPointer(fn func(host.PointerEvent)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.pointer[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.pointer, id)
		w.mu.Unlock()
	}
}

// Present swaps the OpenGL buffers.
func (w *Window) Present() {
	w.sdlWindow.GLSwap()
}

// Dispatch delivers translated events to subscribers. It reports whether
// the user asked to quit.
func (w *Window) Dispatch(events []input.Event) (quit bool) {
	for _, ev := range events {
		switch ev.Type {
		case input.EventQuit:
			quit = true
		case input.EventKeyDown:
			if ev.Key == sdl.SCANCODE_ESCAPE {
				quit = true
			}
		case input.EventWindowResize:
			for _, fn := range w.resizeSubs() {
				fn(ev.Width, ev.Height)
			}
		case input.EventPointer:
			for _, fn := range w.pointerSubs() {
				fn(ev.Pointer)
			}
		}
	}
	return quit
}

func (w *Window) resizeSubs() []func(int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	subs := make([]func(int, int), 0, len(w.resize))
	for _, fn := range w.resize {
		subs = append(subs, fn)
	}
	return subs
}

func (w *Window) pointerSubs() []func(host.PointerEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	subs := make([]func(host.PointerEvent), 0, len(w.pointer))
	for _, fn := range w.pointer {
		subs = append(subs, fn)
	}
	return subs
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
