package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/glowview/internal/config"
	"github.com/Faultbox/glowview/internal/engine/gpu"
	"github.com/Faultbox/glowview/internal/engine/overlay"
	"github.com/Faultbox/glowview/internal/host"
	"github.com/Faultbox/glowview/internal/logger"
	"github.com/Faultbox/glowview/internal/viewer"
)

type headlessOptions struct {
	enabled bool
	frames  int
}

func (h *headlessOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&h.enabled, "headless", false, "run without a window and print statistics")
	cmd.Flags().IntVar(&h.frames, "frames", 120, "frames to run in headless mode")
}

// runHeadless drives the viewer on its own scheduler against an in-memory
// page and a headless device, then reports what happened.
func runHeadless(ctx context.Context, cfg *config.Config, h headlessOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := cfg.ViewerOptions()
	if err != nil {
		return err
	}
	dev := gpu.NewHeadless()
	opts.Device = dev
	opts.Logger = logger.Log

	page := host.NewMemoryPage()
	c := page.Add(cfg.Window.Container, cfg.Window.Width, cfg.Window.Height, 1)

	v, err := viewer.New(page, cfg.Window.Container, cfg.Asset.URI, viewer.WithOptions(opts))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(max(h.frames, 1))*opts.FrameInterval)
	defer cancel()
	if err := v.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		v.Dispose()
		return err
	}

	st := v.Stats()
	ov := v.Overlay().Snapshot()
	sc := v.Scene().Stats()
	if err := v.Dispose(); err != nil {
		return err
	}
	ds := dev.Stats()

	fmt.Fprintf(out, "Asset:      %s\n", cfg.Asset.URI)
	fmt.Fprintf(out, "Frames:     %d (presented %d, tick errors %d)\n", st.Frames, c.Presented(), st.TickErrors)
	fmt.Fprintf(out, "Overlay:    %s %q\n", ov.State, ov.Text)
	fmt.Fprintf(out, "Scene:      %d nodes, %d meshes, %d vertices\n", sc.Nodes, sc.Meshes, sc.Vertices)
	fmt.Fprintf(out, "GPU:        %d created, %d released, %d live\n", ds.Created, ds.Deleted, ds.Live())
	if ov.State == overlay.Failed {
		return fmt.Errorf("model not shown: %s", v.Overlay().Reason())
	}
	return nil
}
