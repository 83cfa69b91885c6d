package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bpod/frontend-context-guidelines/internal/ui"
	"github.com/bpod/frontend-context-guidelines/internal/ui/tui"
)

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Interactively browse instruction documents",
		Description: `Open a terminal UI listing every loaded document. Documents can be
   filtered, inspected, and probed: the probe view shows which documents
   would apply to a typed target path.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			snap, _, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			if snap.Len() == 0 {
				fmt.Println(ui.StatusWarning("No instruction documents to browse"))
				return nil
			}

			result, err := tui.RunDocList(snap.Documents)
			if err != nil {
				return fmt.Errorf("running browser: %w", err)
			}

			switch result.Action {
			case tui.DocActionView:
				fmt.Println(ui.Header(fmt.Sprintf("# %s", result.Document.ID)))
				fmt.Println()
				fmt.Println(result.Document.Body)
			case tui.DocActionCopy:
				fmt.Println(result.Document.Path)
			case tui.DocActionNone:
			}

			return nil
		},
	}
}
