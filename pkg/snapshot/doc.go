// Package snapshot provides the serialized form of a layout pass.
//
// A [Layout] is the wire format shared by the CLI (layout files), the
// pipeline cache, the HTTP API and the Mongo store. It carries
// everything a renderer or a remote client needs, so none of them hold
// a live [grid.Layout].
//
// # Format
//
//	{
//	  "version": 1,
//	  "strategy": "vertical",
//	  "axis": "vertical",
//	  "viewport": {"x": 0, "y": 0, "width": 375, "height": 667},
//	  "content": {"width": 375, "height": 1200},
//	  "sections": [{"id": "hero", "items": 2, "width": 370, "height": 85}],
//	  "items": [{"category": "item", "section": 0, "item": 0, "id": "a", "x": 5, "y": 5, "width": 120, "height": 80}],
//	  "extras": [{"category": "supplementary", "kind": "header", "section": 0, "item": 0, "x": 5, "y": 0, "width": 120, "height": 5}]
//	}
//
// Unmarshal rejects layouts from newer format versions and layouts whose
// items do not match their section counts.
//
// # Usage
//
//	snap := snapshot.FromGrid(layout, snapshot.Source{Strategy: "vertical", Viewport: bounds, Listing: lst})
//	err := snapshot.WriteFile(snap, "home.layout.json")
//
//	stored, _ := snapshot.ReadFile("home.layout.json")
//	visible := stored.Intersecting(grid.Rect{Y: 600, Width: 375, Height: 667})
package snapshot
