package viewer

import (
	"math"

	"go.uber.org/zap"
)

// MaxPixelRatio caps the render resolution on dense displays.
const MaxPixelRatio = 2.0

// Viewport is the container size and the render output size derived from it.
type Viewport struct {
	Width, Height int // logical pixels
	PixelRatio    float64
}

// Aspect returns width/height.
func (vp Viewport) Aspect() float32 {
	if vp.Height <= 0 {
		return 1
	}
	return float32(vp.Width) / float32(vp.Height)
}

// EffectiveRatio returns the pixel ratio used for rendering.
func (vp Viewport) EffectiveRatio() float64 {
	if vp.PixelRatio <= 0 {
		return 1
	}
	return math.Min(vp.PixelRatio, MaxPixelRatio)
}

// RenderSize returns the render target size in device pixels.
func (vp Viewport) RenderSize() (width, height int) {
	r := vp.EffectiveRatio()
	return max(int(math.Round(float64(vp.Width)*r)), 1), max(int(math.Round(float64(vp.Height)*r)), 1)
}

// resize applies a container size change. Zero or negative sizes are ignored.
// Called with v.mu held.
func (v *Viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.viewport = Viewport{Width: width, Height: height, PixelRatio: v.container.PixelRatio()}
	v.camera.SetAspect(v.viewport.Aspect())
	// Re-upload the overlay at the new size on the next draw.
	v.overlayVer = 0

	if v.target != 0 {
		rw, rh := v.viewport.RenderSize()
		if err := v.device.ResizeRenderTarget(v.target, rw, rh); err != nil {
			v.log.Warn("resize render target failed", zap.Error(err))
		}
	}
}

func (v *Viewer) onResize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.State() == Disposed {
		return
	}
	v.resize(width, height)
}
