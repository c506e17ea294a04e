// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/glowview/internal/viewer"
)

// Config holds all viewer settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Window  WindowConfig  `yaml:"window"`
	Asset   AssetConfig   `yaml:"asset"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds the declarative viewer options.
type ViewerConfig struct {
	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"`
	CameraControls  bool    `yaml:"camera_controls"`
	Glow            bool    `yaml:"glow"`
	GlowIntensity   float64 `yaml:"glow_intensity"`
	GlowColor       string  `yaml:"glow_color"`
	BackgroundColor string  `yaml:"background_color"`
	Language        string  `yaml:"language"`
	FPS             int     `yaml:"fps"` // scheduler rate in headless mode
}

// WindowConfig holds display settings for the desktop host.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Container  string `yaml:"container"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`

	// ScreenshotDir receives F12 captures. Empty means the working directory.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// AssetConfig holds asset source settings.
type AssetConfig struct {
	URI         string        `yaml:"uri"`
	LoadTimeout time.Duration `yaml:"load_timeout"` // 0 waits indefinitely
	MaxBytes    int64         `yaml:"max_bytes"`    // 0 is unlimited
	Watch       bool          `yaml:"watch"`        // reload local files on change
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	d := viewer.DefaultOptions()
	return &Config{
		Viewer: ViewerConfig{
			AutoRotate:      d.AutoRotate,
			AutoRotateSpeed: d.AutoRotateSpeed,
			CameraControls:  d.CameraControls,
			Glow:            d.Glow,
			GlowIntensity:   d.GlowIntensity,
			GlowColor:       viewer.FormatColor(d.GlowColor),
			BackgroundColor: viewer.FormatColor(d.BackgroundColor),
			Language:        d.Language,
			FPS:             60,
		},
		Window: WindowConfig{
			Title:     "glowview",
			Container: "viewer",
			Width:     1280,
			Height:    720,
			VSync:     true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ViewerOptions resolves the viewer options described by c. Device and
// logger are left for the caller.
func (c *Config) ViewerOptions() (viewer.Options, error) {
	o := viewer.DefaultOptions()
	v := c.Viewer

	glow, err := viewer.ParseColor(v.GlowColor)
	if err != nil {
		return o, fmt.Errorf("viewer.glow_color: %w", err)
	}
	bg, err := viewer.ParseColor(v.BackgroundColor)
	if err != nil {
		return o, fmt.Errorf("viewer.background_color: %w", err)
	}

	o.AutoRotate = v.AutoRotate
	o.AutoRotateSpeed = v.AutoRotateSpeed
	o.CameraControls = v.CameraControls
	o.Glow = v.Glow
	o.GlowIntensity = v.GlowIntensity
	o.GlowColor = glow
	o.BackgroundColor = bg
	if v.Language != "" {
		o.Language = v.Language
	}
	if v.FPS > 0 {
		o.FrameInterval = time.Second / time.Duration(v.FPS)
	}
	o.LoadTimeout = c.Asset.LoadTimeout
	o.MaxAssetBytes = c.Asset.MaxBytes
	return o, nil
}
