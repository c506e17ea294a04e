package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/asset"
	"github.com/Faultbox/glowview/internal/assetwatch"
	"github.com/Faultbox/glowview/internal/config"
	"github.com/Faultbox/glowview/internal/engine/gpu/glgpu"
	"github.com/Faultbox/glowview/internal/engine/input"
	"github.com/Faultbox/glowview/internal/engine/screenshot"
	"github.com/Faultbox/glowview/internal/engine/window"
	"github.com/Faultbox/glowview/internal/logger"
	"github.com/Faultbox/glowview/internal/viewer"
)

// runDesktop opens an SDL window and drives the viewer from the main thread,
// which owns the GL context.
func runDesktop(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Named("desktop")

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Container:  cfg.Window.Container,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log)
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := glgpu.New(glgpu.Config{ShadowResolution: 2048}, log)
	if err != nil {
		return err
	}
	defer dev.Close()

	opts, err := cfg.ViewerOptions()
	if err != nil {
		return err
	}
	opts.Device = dev
	opts.Logger = logger.Log

	v, err := viewer.New(win, cfg.Window.Container, cfg.Asset.URI, viewer.WithOptions(opts))
	if err != nil {
		return err
	}
	defer v.Dispose()

	if cfg.Asset.Watch {
		watch(ctx, v, cfg.Asset.URI, log)
	}

	shots := screenshot.New(cfg.Window.ScreenshotDir, "glowview")
	in := input.New()
	err = frameLoop(ctx, opts.FrameInterval, func(now time.Time) bool {
		quit := in.Update()
		if win.Dispatch(in.Events()) || quit {
			return false
		}
		v.Step(now)

		if in.IsKeyPressed(sdl.SCANCODE_F12) {
			capture(dev, v, shots, log)
		}
		if in.IsKeyPressed(sdl.SCANCODE_O) {
			openModel(v, log)
		}
		return true
	})
	if err != nil {
		log.Debug("frame loop interrupted", zap.Error(err))
	}

	st := v.Stats()
	log.Info("session finished",
		zap.Uint64("frames", st.Frames),
		zap.Uint64("tick_errors", st.TickErrors),
	)
	return nil
}

// frameLoop calls frame once per interval on the calling goroutine, which
// keeps SDL and GL calls on the main thread. It returns nil once frame
// reports false and ctx.Err() when ctx is done first.
func frameLoop(ctx context.Context, interval time.Duration, frame func(now time.Time) bool) error {
	var s *viewer.Scheduler
	s = viewer.NewScheduler(interval, func(now time.Time) {
		if !frame(now) {
			s.Stop()
		}
	})
	return s.Run(ctx)
}

// capture saves the last rendered frame.
func capture(dev *glgpu.Device, v *viewer.Viewer, shots *screenshot.Capture, log *zap.Logger) {
	img, err := dev.Snapshot(v.RenderTarget())
	if err != nil {
		log.Warn("snapshot failed", zap.Error(err))
		return
	}
	name, err := shots.Save(img, time.Now())
	if err != nil {
		log.Warn("screenshot failed", zap.Error(err))
		return
	}
	log.Info("screenshot saved", zap.String("file", name))
}

// watch reloads the viewer whenever a local asset file changes.
func watch(ctx context.Context, v *viewer.Viewer, uri string, log *zap.Logger) {
	path, ok := asset.LocalPath(uri)
	if !ok {
		log.Warn("watch ignored for remote asset", zap.String("asset", uri))
		return
	}
	w, err := assetwatch.New(path, log)
	if err != nil {
		log.Warn("cannot watch asset", zap.Error(err))
		return
	}

	go func() {
		defer w.Close()
		err := w.Run(ctx, func(string) {
			if err := v.Reload(uri); err != nil {
				log.Warn("reload failed", zap.Error(err))
			}
		})
		log.Debug("watcher stopped", zap.Error(err))
	}()
}
