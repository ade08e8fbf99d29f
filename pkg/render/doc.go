// Package render turns layout snapshots into artifacts.
//
// # Overview
//
// Every renderer reads a [snapshot.Layout], so artifacts can be produced
// long after the pass that computed them, from a file, a cache entry or
// the API store. This package provides:
//
//   - SVG wireframes of sections, items and bands ([RenderSVG])
//   - The snapshot wire format ([RenderJSON])
//   - Graphviz flow diagrams of placement order ([ToDOT], [RenderFlowSVG])
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Wireframes
//
// A wireframe draws each element's frame and nothing else; item content
// is out of scope. Labels and the viewport overlay are opt-in:
//
//	svg := render.RenderSVG(layout, render.WithLabels(), render.WithViewport())
//
// # Flow Diagrams
//
// [ToDOT] shows the order the strategy placed items in, one cluster per
// section. It is useful when a custom strategy puts items somewhere
// unexpected.
//
//	dot := render.ToDOT(layout, render.DOTOptions{Detailed: true})
//	svg, err := render.RenderFlowSVG(ctx, dot)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [snapshot.Layout]: github.com/speedui/gridkit/pkg/snapshot.Layout
package render
