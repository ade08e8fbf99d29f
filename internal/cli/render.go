package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/pkg/pipeline"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// formatExt maps each output format to the suffix of its file name.
var formatExt = map[string]string{
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatJSON: ".layout.json",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatFlow: ".flow.svg",
	pipeline.FormatPNG:  ".png",
	pipeline.FormatPDF:  ".pdf",
}

// renderCommand creates the render command. It accepts either a listing,
// which is laid out first, or a layout file written by 'layout'.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr   string
		output       string
		noCache      bool
		refresh      bool
		scale        float64
		labels       bool
		showViewport bool
		detailed     bool
		flags        layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [listing|layout.json]",
		Short: "Render a listing or a computed layout",
		Long: `Render a listing or a computed layout.

Given a listing, render runs the layout pass and renders the result in one
step. Given a layout file produced by 'layout', it renders the stored
frames; layout flags are ignored in that case.

Formats:
  svg   wireframe of sections, items and bands
  json  the layout itself
  dot   Graphviz source of the flow order
  flow  the flow order rendered to SVG with Graphviz
  png   rasterized wireframe (requires rsvg-convert)
  pdf   wireframe as PDF (requires rsvg-convert)

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(formatsStr)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			opts.Labels = opts.Labels || labels
			opts.ShowViewport = opts.ShowViewport || showViewport
			opts.Detailed = opts.Detailed || detailed
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, flow, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw item labels (svg, png, pdf)")
	cmd.Flags().BoolVar(&showViewport, "viewport", false, "outline the viewport (svg, png, pdf)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include frames and bands (dot, flow)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	flags.register(cmd)

	return cmd
}

// runRender renders input, which is either a layout file or a listing.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	sw := newStopwatch(loggerFromContext(ctx))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	var (
		artifacts map[string][]byte
		layout    *snapshot.Layout
		cacheHit  bool
	)
	if l, ok := readLayoutFile(input); ok {
		sw.lap("read layout file", "path", input, "items", l.Len())
		layout = l
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, l, opts)
	} else {
		opts.Input = input
		var result *pipeline.Result
		result, err = runner.Execute(ctx, opts)
		if err == nil {
			layout = result.Layout
			artifacts = result.Artifacts
			cacheHit = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		layout:    layout,
		cacheHit:  cacheHit,
	}); err != nil {
		return err
	}
	sw.done("rendered", "formats", strings.Join(opts.Formats, ","), "cached", cacheHit)
	return nil
}

// readLayoutFile reports whether path holds a layout rather than a
// listing. Only JSON files are considered; a listing fails validation as
// a layout because it carries no version.
func readLayoutFile(path string) (*snapshot.Layout, bool) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, false
	}
	l, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return l, true
}

// artifactWriteParams holds what writeArtifacts needs to name and report
// the files it writes.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	layout    *snapshot.Layout
	cacheHit  bool
}

// writeArtifacts writes one file per format. A single format goes to
// output when it is set; otherwise output (or the input path) is used as
// the base name.
func writeArtifacts(p artifactWriteParams) error {
	paths := artifactPaths(p.formats, p.input, p.output)

	var written []string
	for _, format := range p.formats {
		path := paths[format]
		if samePath(path, p.input) {
			printWarning("Skipped %s: output would overwrite the input", format)
			continue
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(p.layout, p.cacheHit)
	return nil
}

// artifactPaths returns the output path of each format.
func artifactPaths(formats []string, input, output string) map[string]string {
	out := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		out[formats[0]] = output
		return out
	}
	base := output
	if base == "" {
		base = input
	}
	base = basePath(base)
	for _, f := range formats {
		out[f] = base + formatExt[f]
	}
	return out
}

func samePath(a, b string) bool {
	ca, errA := filepath.Abs(a)
	cb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && ca == cb
}
