package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/Faultbox/glowview/internal/viewer"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test viewer defaults
	if !cfg.Viewer.AutoRotate {
		t.Error("expected auto_rotate to be true by default")
	}
	if cfg.Viewer.AutoRotateSpeed != 2.0 {
		t.Errorf("expected auto rotate speed 2.0, got %f", cfg.Viewer.AutoRotateSpeed)
	}
	if !cfg.Viewer.CameraControls {
		t.Error("expected camera_controls to be true by default")
	}
	if !cfg.Viewer.Glow {
		t.Error("expected glow to be true by default")
	}
	if cfg.Viewer.GlowIntensity != 0.3 {
		t.Errorf("expected glow intensity 0.3, got %f", cfg.Viewer.GlowIntensity)
	}
	if cfg.Viewer.GlowColor != "#b87333" {
		t.Errorf("expected glow color #b87333, got %s", cfg.Viewer.GlowColor)
	}
	if cfg.Viewer.BackgroundColor != "#f5efe0" {
		t.Errorf("expected background color #f5efe0, got %s", cfg.Viewer.BackgroundColor)
	}

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Container != "viewer" {
		t.Errorf("expected container 'viewer', got %s", cfg.Window.Container)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test asset defaults
	if cfg.Asset.LoadTimeout != 0 {
		t.Errorf("expected no load timeout, got %v", cfg.Asset.LoadTimeout)
	}
	if cfg.Asset.Watch {
		t.Error("expected watch to be false by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
viewer:
  auto_rotate: false
  glow_intensity: 0.8
  glow_color: "#00ff00"
  language: "de"
  fps: 30

window:
  width: 1920
  height: 1080
  fullscreen: true

asset:
  uri: "models/lamp.glb"
  load_timeout: 15s
  max_bytes: 1048576
  watch: true

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewer.AutoRotate {
		t.Error("expected auto_rotate to be false")
	}
	// Keys absent from the file keep their defaults.
	if !cfg.Viewer.CameraControls {
		t.Error("expected camera_controls to keep its default")
	}
	if cfg.Viewer.GlowIntensity != 0.8 {
		t.Errorf("expected glow intensity 0.8, got %f", cfg.Viewer.GlowIntensity)
	}
	if cfg.Viewer.Language != "de" {
		t.Errorf("expected language 'de', got %s", cfg.Viewer.Language)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Asset.URI != "models/lamp.glb" {
		t.Errorf("expected uri models/lamp.glb, got %s", cfg.Asset.URI)
	}
	if cfg.Asset.LoadTimeout != 15*time.Second {
		t.Errorf("expected load timeout 15s, got %v", cfg.Asset.LoadTimeout)
	}
	if cfg.Asset.MaxBytes != 1<<20 {
		t.Errorf("expected max bytes 1MiB, got %d", cfg.Asset.MaxBytes)
	}
	if !cfg.Asset.Watch {
		t.Error("expected watch to be true")
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if filepath.Base(dir) != "glowview" {
		t.Errorf("ConfigDir should end in glowview, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "glowview.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find glowview.yaml in current directory")
	}
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := &Flags{}
	f.Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return f
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "windowed flag",
			args: []string{"--windowed"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
		},
		{
			name: "width and height flags",
			args: []string{"--width", "2560", "--height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
		},
		{
			name: "viewer toggles",
			args: []string{"--no-autorotate", "--no-controls", "--no-glow"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.AutoRotate || cfg.Viewer.CameraControls || cfg.Viewer.Glow {
					t.Errorf("expected toggles off, got %+v", cfg.Viewer)
				}
			},
		},
		{
			name: "explicit zero glow intensity",
			args: []string{"--glow-intensity", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.GlowIntensity != 0 {
					t.Errorf("expected glow intensity 0, got %f", cfg.Viewer.GlowIntensity)
				}
			},
		},
		{
			name: "unset glow intensity keeps default",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.GlowIntensity != 0.3 {
					t.Errorf("expected glow intensity 0.3, got %f", cfg.Viewer.GlowIntensity)
				}
			},
		},
		{
			name: "asset flags",
			args: []string{"--load-timeout", "5s", "--watch", "--lang", "es"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Asset.LoadTimeout != 5*time.Second {
					t.Errorf("expected load timeout 5s, got %v", cfg.Asset.LoadTimeout)
				}
				if !cfg.Asset.Watch {
					t.Error("expected watch to be true")
				}
				if cfg.Viewer.Language != "es" {
					t.Errorf("expected language es, got %s", cfg.Viewer.Language)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFlags(t, tt.args...)
			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	f := parseFlags(t, "--config", configPath, "--width", "1920")
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  glow_color: \"orange\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(parseFlags(t, "--config", configPath)); err == nil {
		t.Error("expected error for unparseable glow color")
	}
}

func TestViewerOptions(t *testing.T) {
	cfg := Default()
	cfg.Viewer.GlowColor = "#0f0"
	cfg.Viewer.FPS = 30
	cfg.Asset.LoadTimeout = time.Minute
	cfg.Asset.MaxBytes = 4096

	o, err := cfg.ViewerOptions()
	if err != nil {
		t.Fatalf("ViewerOptions: %v", err)
	}
	if o.GlowColor.R != 0 || o.GlowColor.G != 0xff || o.GlowColor.B != 0 {
		t.Errorf("glow color = %v, want #00ff00", o.GlowColor)
	}
	if o.BackgroundColor != viewer.Cream {
		t.Errorf("background = %v, want cream", o.BackgroundColor)
	}
	if o.FrameInterval != time.Second/30 {
		t.Errorf("frame interval = %v, want %v", o.FrameInterval, time.Second/30)
	}
	if o.LoadTimeout != time.Minute || o.MaxAssetBytes != 4096 {
		t.Errorf("asset limits = %v/%d", o.LoadTimeout, o.MaxAssetBytes)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Asset.URI = "https://example.com/lamp.glb"
	cfg.Asset.LoadTimeout = 30 * time.Second

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Asset != cfg.Asset {
		t.Errorf("asset = %+v, want %+v", loaded.Asset, cfg.Asset)
	}
}
