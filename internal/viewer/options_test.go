package viewer

import (
	"image/color"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if !o.AutoRotate || o.AutoRotateSpeed != 2.0 {
		t.Errorf("autorotate = %v @ %v", o.AutoRotate, o.AutoRotateSpeed)
	}
	if !o.CameraControls || !o.Glow {
		t.Error("controls and glow should default on")
	}
	if o.GlowIntensity != 0.3 {
		t.Errorf("glow intensity = %v", o.GlowIntensity)
	}
	if o.GlowColor != Copper || o.BackgroundColor != Cream {
		t.Errorf("colors = %v / %v", o.GlowColor, o.BackgroundColor)
	}
	if o.FrameInterval != time.Second/60 {
		t.Errorf("frame interval = %v", o.FrameInterval)
	}
	if o.LoadTimeout != 0 {
		t.Errorf("load timeout = %v, want none", o.LoadTimeout)
	}
}

func TestOptionsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want float64
	}{
		{"negative intensity", Options{GlowIntensity: -1}, 0},
		{"large intensity", Options{GlowIntensity: 3}, 1},
		{"in range", Options{GlowIntensity: 0.5}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.in
			o.normalize()
			if o.GlowIntensity != tt.want {
				t.Errorf("intensity = %v, want %v", o.GlowIntensity, tt.want)
			}
			if o.FrameInterval <= 0 || o.Language != "en" {
				t.Errorf("defaults not filled: %+v", o)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#b87333", Copper, false},
		{"f5efe0", Cream, false},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#12345", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("color = %v, want %v", got, tt.want)
			}
		})
	}

	if s := FormatColor(Copper); s != "#b87333" {
		t.Errorf("FormatColor = %q", s)
	}
}

func TestViewportRenderSize(t *testing.T) {
	tests := []struct {
		vp   Viewport
		w, h int
	}{
		{Viewport{Width: 800, Height: 600, PixelRatio: 1}, 800, 600},
		{Viewport{Width: 800, Height: 600, PixelRatio: 1.5}, 1200, 900},
		{Viewport{Width: 800, Height: 600, PixelRatio: 3}, 1600, 1200},
		{Viewport{Width: 800, Height: 600}, 800, 600},
	}

	for _, tt := range tests {
		w, h := tt.vp.RenderSize()
		if w != tt.w || h != tt.h {
			t.Errorf("%+v: render size = %dx%d, want %dx%d", tt.vp, w, h, tt.w, tt.h)
		}
	}
}
