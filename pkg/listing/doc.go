// Package listing models the content a grid lays out: sections of items
// with optional headers, footers and per-section spacing overrides.
//
// A [Listing] is the data source for a [grid.Layout]. It also answers the
// layout's spacing policy, sizes items for the flow strategies, and
// positions header, footer and separator elements around the items the
// engine has placed.
//
// # File Formats
//
// Listings load from JSON, YAML or TOML, chosen by file extension:
//
//	{
//	  "title": "Home",
//	  "sections": [
//	    {"id": "hero", "header": "Featured", "items": [{"id": "a", "width": 120, "height": 80}]},
//	    {"id": "recent", "line_spacing": 8, "items": [{"id": "b"}, {"id": "c"}]}
//	  ]
//	}
//
// Unknown keys are rejected. Section and item ids must be simple
// identifiers (letters, digits, '.', '_', ':' and '-'), since they flow
// into cache keys and rendered output.
//
// # Usage
//
//	lst, err := listing.Import("home.yaml")
//	if err != nil {
//	    return err
//	}
//	st, _ := flow.Build(flow.NameVertical, lst.FlowConfig())
//	layout := grid.New(st, lst.Options()...)
//	layout.Attach(grid.Compose(lst, grid.NewFixedScroller(grid.Size{Width: 375, Height: 667})))
//	err = layout.Prepare()
package listing
