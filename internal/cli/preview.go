package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/pipeline"
)

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "preview [listing]",
		Short: "Browse a layout interactively in the terminal",
		Long: `Browse a layout interactively in the terminal.

The terminal window acts as the viewport: one column is 8 points wide and
one row 16 points tall. Resizing the window across the flow axis runs a
new layout pass; every resize clamps the offset back onto the content
unless paging is on. Press p to toggle paging.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runPreview(cmd.Context(), opts)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	lst, err := pipeline.Load(opts)
	if err != nil {
		return fmt.Errorf("load listing %s: %w", opts.Input, err)
	}

	// The engine logs through the CLI logger, which would tear the
	// alternate screen; keep its diagnostics out of the preview.
	opts.Logger = nil
	g, err := pipeline.NewGrid(lst, opts)
	if err != nil {
		return err
	}

	vp := opts.Viewport()
	scroller := grid.NewFixedScroller(vp.Size())
	scroller.ScrollTo(vp.Origin())
	g.Attach(grid.Compose(lst, scroller))
	if err := g.Prepare(); err != nil {
		return fmt.Errorf("prepare %s: %w", opts.Strategy, err)
	}
	g.CorrectOffset()

	c.Logger.Debug("starting preview", "strategy", opts.Strategy, "items", g.Len())

	model := NewPreviewModel(g, scroller, lst.Label, opts.Strategy)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if m, ok := final.(PreviewModel); ok && m.Err != nil {
		return m.Err
	}
	return nil
}
