package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/woby/internal/config"
	"github.com/vango-dev/woby/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌┐ ┬ ┬
  ║║║│ │├┴┐└┬┘
  ╚╩╝└─┘└─┘ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "woby",
		Short: "Tools for the woby child reconciler",
		Long: `woby mounts reactive child values into a DOM tree and keeps them
in sync with the fewest node operations.

The CLI drives the built-in demo scenarios:

  • playground  serve a live view of a scenario over WebSocket
  • snapshot    render scenario steps to files or S3
  • bench       measure reconciliation paths and mutations`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Directory containing woby.json (default: search upwards)")

	load := func() (*config.Config, error) {
		if configDir != "" {
			return config.LoadOrDefault(configDir)
		}
		return config.LoadFromWorkingDir()
	}

	rootCmd.AddCommand(
		playgroundCmd(load),
		snapshotCmd(load),
		benchCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// configLoader returns the effective configuration for a command.
type configLoader func() (*config.Config, error)

// newLogger builds the process logger from cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
