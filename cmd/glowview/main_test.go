package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/glowview/internal/asset/assettest"
	"github.com/Faultbox/glowview/internal/config"
)

func writeModel(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.glb")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunInfo(t *testing.T) {
	path := writeModel(t, assettest.AnimatedCube(t))

	var out bytes.Buffer
	if err := runInfo(context.Background(), path, 0, &out); err != nil {
		t.Fatalf("runInfo: %v", err)
	}

	for _, want := range []string{"Meshes:     1", "Fit scale:  2.5000", "Clip:       bob"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.Asset.URI = writeModel(t, assettest.Cube(t, [3]float32{3, 0, 0}, 2))

	var out bytes.Buffer
	if err := runHeadless(context.Background(), cfg, headlessOptions{enabled: true, frames: 60}, &out); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if !strings.Contains(out.String(), "Overlay:    hidden") {
		t.Errorf("model never shown:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "0 live") {
		t.Errorf("resources leaked:\n%s", out.String())
	}
}

func TestRunHeadlessMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.Asset.URI = filepath.Join(t.TempDir(), "missing.glb")

	var out bytes.Buffer
	if err := runHeadless(context.Background(), cfg, headlessOptions{enabled: true, frames: 30}, &out); err == nil {
		t.Errorf("expected error for missing model, output:\n%s", out.String())
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glowview.yaml")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"config", "init", "--output", path})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	cmd = newRootCmd()
	cmd.SetArgs([]string{"config", "init", "--output", path})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when the file already exists")
	}
}

func TestFrameLoopPacing(t *testing.T) {
	const interval = 10 * time.Millisecond

	tests := []struct {
		name   string
		stopAt int // 0 runs until the deadline
		want   error
	}{
		{"stops when frame declines", 5, nil},
		{"stops on context", 0, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			var stamps []time.Time
			start := time.Now()
			err := frameLoop(ctx, interval, func(now time.Time) bool {
				stamps = append(stamps, now)
				return len(stamps) != tt.stopAt
			})
			elapsed := time.Since(start)

			if err != tt.want {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.stopAt > 0 && len(stamps) != tt.stopAt {
				t.Errorf("frames = %d, want %d", len(stamps), tt.stopAt)
			}
			// A busy loop would run thousands of frames here.
			if limit := int(elapsed/interval) + 1; len(stamps) > limit {
				t.Errorf("%d frames in %v, want at most %d", len(stamps), elapsed, limit)
			}
			if elapsed < time.Duration(len(stamps))*interval {
				t.Errorf("%d frames finished in %v", len(stamps), elapsed)
			}
		})
	}
}
