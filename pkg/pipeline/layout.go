package pipeline

import (
	stderrors "errors"
	"fmt"
	"slices"

	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/grid/flow"
	"github.com/speedui/gridkit/pkg/listing"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// =============================================================================
// Grid Construction
// =============================================================================

// NewGrid builds a detached layout for lst: the named strategy sized from
// the listing, the listing as spacing policy, and the listing's bands
// filtered by opts.Kinds. The caller attaches a view and prepares it.
func NewGrid(lst *listing.Listing, opts Options) (*grid.Layout, error) {
	cfg := lst.FlowConfig()
	cfg.Columns = opts.Columns
	cfg.DefaultRows = opts.Rows
	if opts.ItemSize != nil {
		cfg.DefaultSize = *opts.ItemSize
	}
	strategy, err := flow.Build(opts.Strategy, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStrategy, err, "build strategy")
	}

	spacing := opts.Spacing()
	gopts := []grid.Option{
		grid.WithPolicy(lst.Policy(spacing.Insets)),
		grid.WithSpacing(spacing),
		grid.WithPaging(opts.Paging),
	}
	if opts.Logger != nil {
		gopts = append(gopts, grid.WithLogger(opts.Logger))
	}
	if opts.Strict {
		gopts = append(gopts, grid.WithStrict())
	}
	if kinds := filterKinds(lst.SupplementaryKinds(), opts.Kinds); len(kinds) > 0 {
		gopts = append(gopts, grid.WithSupplementary(lst, kinds...))
	}
	if kinds := filterKinds(lst.DecorationKinds(), opts.Kinds); len(kinds) > 0 {
		gopts = append(gopts, grid.WithDecoration(lst, kinds...))
	}
	return grid.New(strategy, gopts...), nil
}

// filterKinds keeps the kinds named in allow; an empty allow list keeps all.
func filterKinds(kinds, allow []string) []string {
	if len(allow) == 0 {
		return kinds
	}
	return slices.DeleteFunc(slices.Clone(kinds), func(k string) bool {
		return !slices.Contains(allow, k)
	})
}

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout runs one prepare pass over lst against the viewport in
// opts and captures the result. When the offset lies past the content it
// is corrected first, as a host would after the pass, and the snapshot
// records the corrected viewport.
func GenerateLayout(lst *listing.Listing, opts Options) (*snapshot.Layout, error) {
	g, err := NewGrid(lst, opts)
	if err != nil {
		return nil, err
	}

	vp := opts.Viewport()
	scroller := grid.NewFixedScroller(vp.Size())
	scroller.ScrollTo(vp.Origin())
	g.Attach(grid.Compose(lst, scroller))

	if err := g.Prepare(); err != nil {
		if stderrors.Is(err, grid.ErrUnimplemented) {
			return nil, errors.Wrap(errors.ErrCodeUnimplemented, err, "prepare %s", opts.Strategy)
		}
		return nil, fmt.Errorf("prepare %s: %w", opts.Strategy, err)
	}
	g.CorrectOffset()

	return snapshot.FromGrid(g, snapshot.Source{
		Strategy: opts.Strategy,
		Viewport: scroller.Bounds(),
		Listing:  lst,
	}), nil
}
