package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/glowview/internal/asset"
	"github.com/Faultbox/glowview/internal/engine/scene"
	"github.com/Faultbox/glowview/internal/logger"
)

func newInfoCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "info <model.glb|url>",
		Short: "Display model information",
		Long:  "Load a model and print its node and mesh counts, animation clips, bounding box and the scale used to fit it to the view.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInfo(ctx, args[0], timeout, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up loading after this long")
	return cmd
}

func runInfo(ctx context.Context, uri string, timeout time.Duration, out io.Writer) error {
	l := asset.NewLoader(nil, logger.Log)
	l.Timeout = timeout

	a, err := l.Load(ctx, uri, nil)
	if err != nil {
		return err
	}

	st := a.Root.Stats()
	b := scene.ComputeBounds(a.Root)
	size, center := b.Size(), b.Center()
	norm := scene.Normalize(a.Root, scene.NormalizeOptions{})

	fmt.Fprintf(out, "Asset:      %s\n", a.URI)
	fmt.Fprintf(out, "Size:       %.2f KB\n", float64(a.Size)/1024)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Nodes:      %d\n", st.Nodes)
	fmt.Fprintf(out, "Meshes:     %d\n", st.Meshes)
	fmt.Fprintf(out, "Vertices:   %d\n", st.Vertices)
	fmt.Fprintf(out, "Bounds:     %.3f x %.3f x %.3f\n", size.X(), size.Y(), size.Z())
	fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", center.X(), center.Y(), center.Z())
	fmt.Fprintf(out, "Fit scale:  %.4f\n", norm.Scale)
	for _, c := range a.Clips {
		fmt.Fprintf(out, "Clip:       %s (%.2fs, %d channels)\n", c.Name, c.Duration, len(c.Channels))
	}
	return nil
}
