package viewer

import (
	"fmt"
	"image/color"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/engine/gpu"
)

// Default colors.
var (
	Copper = color.RGBA{R: 0xb8, G: 0x73, B: 0x33, A: 0xff}
	Cream  = color.RGBA{R: 0xf5, G: 0xef, B: 0xe0, A: 0xff}
)

// Options is the resolved viewer configuration. It is fixed at construction.
type Options struct {
	AutoRotate      bool
	AutoRotateSpeed float64
	CameraControls  bool
	Glow            bool
	GlowIntensity   float64 // clamped to [0,1]
	GlowColor       color.RGBA
	BackgroundColor color.RGBA

	// Device renders frames. Nil uses a headless device.
	Device gpu.Device
	// Logger receives diagnostics. Nil uses the global logger.
	Logger *zap.Logger
	// FrameInterval is the scheduler's target tick period.
	FrameInterval time.Duration
	// Language selects the overlay messages (BCP 47).
	Language string
	// LoadTimeout bounds the asset load. Zero waits indefinitely.
	LoadTimeout time.Duration
	// MaxAssetBytes rejects larger payloads. Zero means unlimited.
	MaxAssetBytes int64
	// HTTPClient fetches http(s) assets. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		AutoRotate:      true,
		AutoRotateSpeed: 2.0,
		CameraControls:  true,
		Glow:            true,
		GlowIntensity:   0.3,
		GlowColor:       Copper,
		BackgroundColor: Cream,
		FrameInterval:   time.Second / 60,
		Language:        "en",
	}
}

func (o *Options) normalize() {
	o.GlowIntensity = min(max(o.GlowIntensity, 0), 1)
	if o.FrameInterval <= 0 {
		o.FrameInterval = time.Second / 60
	}
	if o.Language == "" {
		o.Language = "en"
	}
	if o.LoadTimeout < 0 {
		o.LoadTimeout = 0
	}
}

// Option adjusts Options before they are resolved.
type Option func(*Options)

// WithOptions replaces every option at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// WithAutoRotate toggles idle rotation.
func WithAutoRotate(on bool) Option {
	return func(o *Options) { o.AutoRotate = on }
}

// WithAutoRotateSpeed sets the idle rotation speed; 2.0 is one turn per 30s.
func WithAutoRotateSpeed(speed float64) Option {
	return func(o *Options) { o.AutoRotateSpeed = speed }
}

// WithCameraControls toggles pointer-driven orbit controls.
func WithCameraControls(on bool) Option {
	return func(o *Options) { o.CameraControls = on }
}

// WithGlow toggles the emissive tint.
func WithGlow(on bool) Option {
	return func(o *Options) { o.Glow = on }
}

// WithGlowIntensity sets the emissive strength.
func WithGlowIntensity(v float64) Option {
	return func(o *Options) { o.GlowIntensity = v }
}

// WithGlowColor sets the emissive tint color.
func WithGlowColor(c color.RGBA) Option {
	return func(o *Options) { o.GlowColor = c }
}

// WithBackgroundColor sets the clear color.
func WithBackgroundColor(c color.RGBA) Option {
	return func(o *Options) { o.BackgroundColor = c }
}

// WithDevice sets the rendering device.
func WithDevice(d gpu.Device) Option {
	return func(o *Options) { o.Device = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithFrameInterval sets the scheduler tick period.
func WithFrameInterval(d time.Duration) Option {
	return func(o *Options) { o.FrameInterval = d }
}

// WithLanguage sets the overlay language.
func WithLanguage(lang string) Option {
	return func(o *Options) { o.Language = lang }
}

// WithLoadTimeout bounds asset loads.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *Options) { o.LoadTimeout = d }
}

// WithMaxAssetBytes rejects assets larger than n bytes. Zero means unlimited.
func WithMaxAssetBytes(n int64) Option {
	return func(o *Options) { o.MaxAssetBytes = n }
}

// WithHTTPClient sets the client used for http(s) assets.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func vec3(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func vec4(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
