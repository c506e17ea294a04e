// Package main is the entry point for the glowview model viewer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/config"
	"github.com/Faultbox/glowview/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		flags    config.Flags
		headless headlessOptions
	)

	cmd := &cobra.Command{
		Use:   "glowview [model.glb|url]",
		Short: "Real-time 3D model viewer",
		Long: `glowview - real-time 3D model viewer

Loads a binary glTF model from a file or URL, fits it to the view and
renders it with a soft glow, shadows and orbit controls.

Controls:
  Left drag    - Orbit
  Right drag   - Pan
  Scroll       - Zoom
  O            - Open another model
  F12          - Screenshot
  Esc          - Quit`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(&flags)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
				return err
			}
			if len(args) == 1 {
				cfg.Asset.URI = args[0]
			}
			if cfg.Asset.URI == "" && !headless.enabled {
				if cfg.Asset.URI, err = pickModel(); err != nil {
					return fmt.Errorf("file dialog: %w", err)
				}
			}
			if cfg.Asset.URI == "" {
				return fmt.Errorf("no model given: pass a path or URL, or set asset.uri in the config")
			}

			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
				return err
			}
			defer logger.Sync()

			logger.Log.Info("=== glowview ===", zap.String("asset", cfg.Asset.URI))
			logger.Sugar.Debugf("Config: %+v", cfg)

			if headless.enabled {
				err = runHeadless(cmd.Context(), cfg, headless, cmd.OutOrStdout())
			} else {
				err = runDesktop(cmd.Context(), cfg)
			}
			if err != nil {
				logger.Log.Error("viewer error", zap.Error(err))
				return err
			}
			logger.Log.Info("viewer closed normally")
			return nil
		},
	}

	flags.Register(cmd.Flags())
	headless.register(cmd)

	cmd.AddCommand(newInfoCmd(), newConfigCmd())
	return cmd
}

func newConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "", "where to write the file (default: user config dir)")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the default configuration path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
