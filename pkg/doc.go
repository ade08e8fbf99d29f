// Package pkg holds the gridkit libraries.
//
// # Overview
//
// gridkit computes the geometry of sectioned, scrollable item grids. The
// pkg directory is organized into three areas:
//
//  1. Engine: [grid] runs layout passes and answers geometry queries;
//     [grid/flow] provides the vertical, horizontal, rows and columns
//     strategies.
//  2. Data: [listing] describes sections and items; [snapshot] is the
//     serializable result of one pass.
//  3. Infrastructure: [pipeline] chains load, layout and render;
//     [render], [cache], [store], [config], [errors] and [observability]
//     support it.
//
// # Data flow
//
//	listing (JSON, YAML, TOML)
//	         ↓
//	    [listing] package (decode + validate)
//	         ↓
//	    [grid] package (prepare pass with a flow strategy)
//	         ↓
//	    [snapshot] package (captured frames)
//	         ↓
//	    [render] package (SVG, JSON, DOT, flow SVG, PNG, PDF)
//
// # Quick Start
//
// Lay out a listing and query it:
//
//	import (
//	    "github.com/speedui/gridkit/pkg/grid"
//	    "github.com/speedui/gridkit/pkg/grid/flow"
//	    "github.com/speedui/gridkit/pkg/listing"
//	)
//
//	lst, _ := listing.Import("photos.yaml")
//	strategy, _ := flow.Build(flow.NameColumns, flow.Config{Columns: 3, Sizer: lst})
//
//	g := grid.New(strategy, lst.Options()...)
//	g.Attach(grid.Compose(lst, grid.NewFixedScroller(grid.Size{Width: 390, Height: 844})))
//	if err := g.Prepare(); err != nil {
//	    return err
//	}
//	visible := g.ElementsIn(grid.Rect{Width: 390, Height: 844})
//
// The [pipeline] package wraps these steps with caching for the CLI and
// the HTTP API.
//
// [grid]: github.com/speedui/gridkit/pkg/grid
// [grid/flow]: github.com/speedui/gridkit/pkg/grid/flow
// [listing]: github.com/speedui/gridkit/pkg/listing
// [snapshot]: github.com/speedui/gridkit/pkg/snapshot
// [pipeline]: github.com/speedui/gridkit/pkg/pipeline
// [render]: github.com/speedui/gridkit/pkg/render
// [cache]: github.com/speedui/gridkit/pkg/cache
// [store]: github.com/speedui/gridkit/pkg/store
// [config]: github.com/speedui/gridkit/pkg/config
// [errors]: github.com/speedui/gridkit/pkg/errors
// [observability]: github.com/speedui/gridkit/pkg/observability
package pkg
