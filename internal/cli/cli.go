// Package cli provides the command-line interface for guidectx.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/bpod/frontend-context-guidelines/internal/config"
	"github.com/bpod/frontend-context-guidelines/internal/logging"
	"github.com/bpod/frontend-context-guidelines/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "guidectx",
		Usage:   "Resolve and compose instruction documents for target files",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringSliceFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Instruction root directory (repeatable, overrides configuration)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Commands: []*cli.Command{
			resolveCommand(),
			composeCommand(),
			listCommand(),
			validateCommand(),
			newCommand(),
			browseCommand(),
			configCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output from the --no-color flag and the
// configured color mode.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return
	}
	if cfg, err := config.Load(); err == nil {
		ui.Configure(cfg.Output.Color)
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()

	verbose := cmd.Bool("verbose")
	if !verbose {
		if cfg, err := config.Load(); err == nil {
			verbose = cfg.Output.Verbose
		}
	}

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if verbose {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}

// effectiveRoots returns the instruction roots to use: the --root flags when
// given, otherwise the configured roots resolved against baseDir.
func effectiveRoots(cmd *cli.Command, cfg *config.Config, baseDir string) []string {
	if roots := cmd.StringSlice("root"); len(roots) > 0 {
		return roots
	}
	return cfg.InstructionRoots(baseDir)
}
