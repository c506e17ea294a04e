package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags are the command-line overrides. Register binds them to a flag set;
// only flags the user actually set override the file.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath    string
	Debug         bool
	Width         int
	Height        int
	Fullscreen    bool
	Windowed      bool
	NoAutoRotate  bool
	NoControls    bool
	NoGlow        bool
	GlowIntensity float64
	Language      string
	LoadTimeout   time.Duration
	Watch         bool
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.IntVar(&f.Width, "width", 0, "window width")
	fs.IntVar(&f.Height, "height", 0, "window height")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "run in fullscreen mode")
	fs.BoolVar(&f.Windowed, "windowed", false, "run in windowed mode")
	fs.BoolVar(&f.NoAutoRotate, "no-autorotate", false, "disable idle rotation")
	fs.BoolVar(&f.NoControls, "no-controls", false, "disable orbit camera controls")
	fs.BoolVar(&f.NoGlow, "no-glow", false, "disable the emissive glow")
	fs.Float64Var(&f.GlowIntensity, "glow-intensity", 0, "glow strength between 0 and 1")
	fs.StringVar(&f.Language, "lang", "", "overlay language (en, de, es)")
	fs.DurationVar(&f.LoadTimeout, "load-timeout", 0, "give up loading after this long (0 waits forever)")
	fs.BoolVar(&f.Watch, "watch", false, "reload a local asset when the file changes")
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.NoAutoRotate {
		cfg.Viewer.AutoRotate = false
	}
	if f.NoControls {
		cfg.Viewer.CameraControls = false
	}
	if f.NoGlow {
		cfg.Viewer.Glow = false
	}
	if f.changed("glow-intensity") {
		cfg.Viewer.GlowIntensity = f.GlowIntensity
	}
	if f.Language != "" {
		cfg.Viewer.Language = f.Language
	}
	if f.changed("load-timeout") {
		cfg.Asset.LoadTimeout = f.LoadTimeout
	}
	if f.Watch {
		cfg.Asset.Watch = true
	}
}
