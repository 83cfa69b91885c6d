package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bpod/frontend-context-guidelines/internal/config"
	"github.com/bpod/frontend-context-guidelines/internal/logging"
	"github.com/bpod/frontend-context-guidelines/internal/template"
	"github.com/bpod/frontend-context-guidelines/internal/ui"
	"github.com/bpod/frontend-context-guidelines/internal/util"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Create a new instruction document from a template",
		UsageText: `guidectx new <document-id> [options]
   guidectx new typescript --apply-to "**/*.ts, **/*.tsx"
   guidectx new components --template directory --apply-to "src/components/**"`,
		Description: `Create a new instruction document with scaffolding from built-in or
   custom templates.

   Built-in templates:
     general    Applies to every file in the project
     language   Scoped to one or more file extensions
     directory  Scoped to a directory subtree

   Examples:
     # Project-wide conventions
     guidectx new general --template general --description "Project basics"

     # A language-specific document
     guidectx new typescript --apply-to "**/*.ts, **/*.tsx" --description "TypeScript rules"

     # Use a custom template
     guidectx new my-doc --template-file ./my-template.md --apply-to "src/**"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Value:   "language",
				Usage:   "Template type (general, language, directory)",
			},
			&cli.StringFlag{
				Name:  "template-file",
				Usage: "Path to custom template file",
			},
			&cli.StringFlag{
				Name:    "apply-to",
				Aliases: []string{"a"},
				Usage:   "Comma-separated glob patterns for the applyTo frontmatter",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "One-line description placed in the frontmatter",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Heading used in the document body (defaults to the id)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Preview generated content without creating files",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 {
				return errors.New("document id is required")
			}
			return runNew(cmd, args.Get(0))
		},
	}
}

func runNew(cmd *cli.Command, id string) error {
	logging.Debug("creating new document", slog.String("id", id))

	g, err := template.New()
	if err != nil {
		return err
	}

	var typ template.Type
	if path := cmd.String("template-file"); path != "" {
		typ = "custom"
		if err := g.LoadCustomTemplate(string(typ), path); err != nil {
			return err
		}
	} else {
		typ, err = template.ParseType(cmd.String("template"))
		if err != nil {
			return err
		}
	}

	data := template.Data{
		ID:          id,
		Description: cmd.String("description"),
		ApplyTo:     cmd.String("apply-to"),
		Title:       cmd.String("title"),
	}

	if cmd.Bool("dry-run") {
		content, err := g.Generate(typ, data)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	}

	root, err := newDocumentRoot(cmd)
	if err != nil {
		return err
	}

	path, err := g.CreateDocumentFile(typ, data, root)
	if err != nil {
		return err
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("Created %s", path)))
	return nil
}

// newDocumentRoot picks where to place a new document: the first --root flag
// when given, otherwise the project instructions directory.
func newDocumentRoot(cmd *cli.Command) (string, error) {
	if roots := cmd.StringSlice("root"); len(roots) > 0 {
		return roots[0], nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("loading configuration: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determining working directory: %w", err)
	}

	roots := cfg.InstructionRoots(cwd)
	if len(roots) > 0 {
		return roots[0], nil
	}
	return util.ProjectInstructionsPath(cwd), nil
}
