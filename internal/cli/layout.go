package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/pkg/pipeline"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// layoutCommand creates the layout command for computing grid layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [listing]",
		Short: "Compute a grid layout from a listing",
		Long: `Compute a grid layout from a listing.

The layout command reads a listing (JSON, YAML or TOML), runs one layout
pass against the viewport given by --width, --height and the offsets, and
writes the placed frames to <listing>.layout.json. The layout file can be
rendered with 'render' or queried with 'query'.

When the offset lies past the end of the content it is clamped first,
unless --paging is set.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <listing>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	flags.register(cmd)

	return cmd
}

// runLayout loads the listing, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	sw := newStopwatch(loggerFromContext(ctx))

	lst, err := pipeline.Load(opts)
	if err != nil {
		return fmt.Errorf("load listing %s: %w", opts.Input, err)
	}
	sw.lap("loaded listing", "sections", lst.NumberOfSections(), "items", lst.Len())

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, lst, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	sw.lap("computed layout", "strategy", opts.Strategy, "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(opts.Input)
	}
	if err := snapshot.WriteFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	sw.done("wrote layout", "path", outputPath)

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(layout, cacheHit)
	printKeyValue("Strategy", StyleHighlight.Render(layout.Strategy))
	printKeyValue("Content", fmt.Sprintf("%g x %g", layout.Content.Width, layout.Content.Height))
	printKeyValue("Viewport", layout.Viewport.ToGrid().String())
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// layoutPath derives <base>.layout.json from a listing path.
func layoutPath(input string) string {
	return basePath(input) + ".layout.json"
}

// basePath strips the extension and a trailing ".layout" from path.
func basePath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return strings.TrimSuffix(base, ".layout")
}
