// Package cli provides command definitions for guidectx.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/bpod/frontend-context-guidelines/internal/cache"
	"github.com/bpod/frontend-context-guidelines/internal/config"
	"github.com/bpod/frontend-context-guidelines/internal/logging"
	"github.com/bpod/frontend-context-guidelines/internal/model"
	"github.com/bpod/frontend-context-guidelines/internal/progress"
	"github.com/bpod/frontend-context-guidelines/internal/registry"
	"github.com/bpod/frontend-context-guidelines/internal/ui"
	"github.com/bpod/frontend-context-guidelines/internal/validation"
)

// loadSnapshot loads the registry per the effective configuration and the
// global flags on cmd.
func loadSnapshot(cmd *cli.Command) (*registry.Snapshot, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("determining working directory: %w", err)
	}

	roots := effectiveRoots(cmd, cfg, cwd)

	opts := registry.Options{
		SkipMalformed: cfg.Registry.SkipMalformed,
	}
	if cfg.Cache.Enabled {
		c, err := cache.New("documents", cfg.Cache.Location)
		if err != nil {
			logging.Warn("cache unavailable", logging.Err(err))
		} else {
			c.Prune(cfg.Cache.TTL)
			opts.Cache = c
			defer func() {
				if err := c.Save(); err != nil {
					logging.Warn("failed to save cache", logging.Err(err))
				}
			}()
		}
	}

	snap, err := registry.LoadAll(roots, opts)
	if err != nil {
		return nil, nil, err
	}

	for _, skip := range snap.Report.Skipped {
		fmt.Fprintln(os.Stderr, ui.StatusSkipped(fmt.Sprintf("%s: %v", skip.Path, skip.Reason)))
	}

	return snap, cfg, nil
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "List the instruction documents that apply to a target path",
		UsageText: "guidectx resolve [options] <target-path>",
		Description: `Resolve which instruction documents apply to a target file.

   The target is a project-relative path such as src/components/App.tsx.
   Documents are listed in registry order (lexicographic by path within
   each root, project roots before user roots).

   Examples:
     guidectx resolve src/components/App.tsx
     guidectx resolve --json src/api/client.ts`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("resolve requires exactly 1 argument: <target-path>")
			}
			target := args.Get(0)

			snap, cfg, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			matched := snap.Match(target)

			if cmd.Bool("json") || cfg.Output.Format == "json" {
				return printDocumentsJSON(matched)
			}

			if len(matched) == 0 {
				fmt.Println(ui.StatusWarning(fmt.Sprintf("No instruction documents apply to %s", target)))
				return nil
			}

			fmt.Println(ui.Header(fmt.Sprintf("Documents applying to %s:", target)))
			for _, doc := range matched {
				fmt.Printf("  %s  %s\n", ui.Bold(doc.ID), ui.Dim(doc.DisplayPatterns()))
			}
			fmt.Println()
			fmt.Println(ui.Dim(fmt.Sprintf("%d of %d document(s) apply", len(matched), snap.Len())))
			return nil
		},
	}
}

func composeCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose",
		Usage:     "Compose the applicable instruction documents into one context block",
		UsageText: "guidectx compose [options] <target-path>",
		Description: `Concatenate the bodies of every applicable document, in registry
   order, into a single deterministic context block on stdout.

   Examples:
     guidectx compose src/components/App.tsx
     guidectx compose --watch src/api/client.ts`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and re-compose when documents change",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the composed block to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("compose requires exactly 1 argument: <target-path>")
			}
			target := args.Get(0)

			snap, cfg, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("watch") || cfg.Registry.Watch {
				return composeWatch(ctx, cmd, target)
			}

			return writeComposed(cmd, snap.Compose(target))
		},
	}
}

func writeComposed(cmd *cli.Command, block string) error {
	if out := cmd.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(block), 0o600); err != nil {
			return fmt.Errorf("writing composed context: %w", err)
		}
		fmt.Fprintln(os.Stderr, ui.StatusSuccess(fmt.Sprintf("Wrote composed context to %s", out)))
		return nil
	}
	fmt.Print(block)
	return nil
}

// composeWatch re-emits the composed block whenever the registry reloads.
func composeWatch(ctx context.Context, cmd *cli.Command, target string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	roots := effectiveRoots(cmd, cfg, cwd)
	w, err := registry.NewWatcher(roots, registry.Options{
		SkipMalformed: cfg.Registry.SkipMalformed,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	last := w.Snapshot()
	if err := writeComposed(cmd, last.Compose(target)); err != nil {
		return err
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := w.Snapshot()
			if snap == last {
				continue
			}
			last = snap
			fmt.Fprintln(os.Stderr, ui.Info("Documents changed, recomposing"))
			if err := writeComposed(cmd, snap.Compose(target)); err != nil {
				return err
			}
		}
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all loaded instruction documents",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			snap, cfg, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("json") || cfg.Output.Format == "json" {
				return printDocumentsJSON(snap.Documents)
			}

			if snap.Len() == 0 {
				fmt.Println(ui.StatusWarning("No instruction documents found"))
				for _, root := range snap.Roots {
					fmt.Printf("  searched %s\n", ui.Dim(root))
				}
				return nil
			}

			fmt.Println(ui.Header("Instruction documents:"))
			for _, doc := range snap.Documents {
				patterns := doc.DisplayPatterns()
				if !doc.HasPatterns() {
					patterns = ui.StatusWarning("(no patterns, never applies)")
				}
				fmt.Printf("  %s  %s\n", ui.Bold(doc.ID), ui.Dim(patterns))
				if doc.Description != "" {
					fmt.Printf("    %s\n", doc.Description)
				}
			}
			fmt.Println()
			fmt.Println(ui.Dim(fmt.Sprintf("%d document(s) from %d root(s)", snap.Len(), len(snap.Roots))))
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check every instruction document for errors",
		Description: `Parse every document under the configured roots and report all
   malformed documents and invalid patterns, rather than stopping at the
   first failure. Documents without applyTo patterns produce warnings.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determining working directory: %w", err)
			}
			roots := effectiveRoots(cmd, cfg, cwd)

			total, err := registry.CountDocuments(roots)
			if err != nil {
				return err
			}

			bar := progress.Simple(int64(total), "Validating documents")
			result, err := validation.ValidateDocuments(roots, func(string) {
				_ = bar.Add(1)
			})
			if err != nil {
				return err
			}
			_ = bar.Finish()

			for _, warning := range result.Warnings {
				fmt.Println(ui.StatusWarning(warning))
			}
			for _, verr := range result.Errors {
				fmt.Println(ui.StatusError(verr.Error()))
			}

			if result.HasErrors() {
				fmt.Println()
				fmt.Println(ui.StatusError(result.Summary()))
				return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
			}

			fmt.Println(ui.StatusSuccess(result.Summary()))
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display or initialize the configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Action: func(_ context.Context, _ *cli.Command) error {
					if config.Exists() {
						return fmt.Errorf("configuration already exists at %s", config.FilePath())
					}
					cfg := config.Default()
					if err := cfg.Save(); err != nil {
						return fmt.Errorf("writing configuration: %w", err)
					}
					fmt.Println(ui.StatusSuccess(fmt.Sprintf("Wrote %s", config.FilePath())))
					return nil
				},
			},
		},
		Action: func(_ context.Context, _ *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("rendering configuration: %w", err)
			}

			fmt.Println(ui.Header(fmt.Sprintf("Configuration (%s):", config.FilePath())))
			fmt.Print(string(data))
			return nil
		},
	}
}

// documentJSON is the wire shape for --json output.
type documentJSON struct {
	ID          string   `json:"id"`
	Description string   `json:"description,omitempty"`
	Patterns    []string `json:"patterns"`
	Path        string   `json:"path"`
}

func printDocumentsJSON(docs []model.Document) error {
	out := make([]documentJSON, len(docs))
	for i, doc := range docs {
		patterns := doc.Patterns
		if patterns == nil {
			patterns = []string{}
		}
		out[i] = documentJSON{
			ID:          doc.ID,
			Description: doc.Description,
			Patterns:    patterns,
			Path:        doc.Path,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
