package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/render"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// RenderFromLayout generates output artifacts in the requested formats.
// Formats render concurrently; the first failure cancels the rest.
func RenderFromLayout(ctx context.Context, l *snapshot.Layout, opts Options) (map[string][]byte, error) {
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, l, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l *snapshot.Layout, format string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return render.RenderSVG(l, svgOptions(opts)...), nil
	case FormatPNG:
		return render.ToPNG(render.RenderSVG(l, svgOptions(opts)...), opts.Scale)
	case FormatPDF:
		return render.ToPDF(render.RenderSVG(l, svgOptions(opts)...))
	case FormatJSON:
		return render.RenderJSON(l)
	case FormatDOT:
		return []byte(render.ToDOT(l, dotOptions(opts))), nil
	case FormatFlow:
		return render.RenderFlowSVG(ctx, render.ToDOT(l, dotOptions(opts)))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func svgOptions(opts Options) []render.SVGOption {
	var out []render.SVGOption
	if opts.Labels {
		out = append(out, render.WithLabels())
	}
	if opts.ShowViewport {
		out = append(out, render.WithViewport())
	}
	return out
}

func dotOptions(opts Options) render.DOTOptions {
	return render.DOTOptions{Detailed: opts.Detailed, Bands: opts.Detailed}
}
