package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/snapshot"
)

const wireframeCSS = `
    .section { fill: #f6f8fa; stroke: #d0d7de; stroke-dasharray: 4 3; }
    .item { fill: #ffffff; stroke: #24292f; stroke-width: 1; }
    .supplementary { fill: #ddf4ff; stroke: #54aeff; stroke-width: 1; }
    .decoration { fill: #8c959f; stroke: none; }
    .viewport { fill: none; stroke: #cf222e; stroke-width: 2; stroke-dasharray: 8 4; }
    .label { font-family: ui-monospace, monospace; fill: #24292f; text-anchor: middle; dominant-baseline: central; }`

const (
	defaultMargin = 10.0
	labelMinSize  = 6.0
	labelMaxSize  = 14.0
	labelCharW    = 0.6
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels   bool
	viewport bool
	margin   float64
}

// WithLabels draws each element's label, or its index when it has none.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithViewport overlays the viewport the pass ran against.
func WithViewport() SVGOption { return func(r *svgRenderer) { r.viewport = true } }

// WithMargin sets the blank border around the drawing (default 10).
func WithMargin(m float64) SVGOption {
	return func(r *svgRenderer) { r.margin = max(0, m) }
}

// RenderSVG draws l as a wireframe: one dashed box per non-empty section,
// one rectangle per item and per band. Items are drawn in index order and
// bands on top of them.
func RenderSVG(l *snapshot.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{margin: defaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	bounds := l.Bounds()
	if r.viewport {
		bounds = bounds.Union(l.Viewport.ToGrid())
	}
	w := bounds.MaxX() + 2*r.margin
	h := bounds.MaxY() + 2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", wireframeCSS)
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f,%.1f)">`+"\n", r.margin, r.margin)

	for s, rect := range sectionRects(l) {
		if rect.IsEmpty() {
			continue
		}
		fmt.Fprintf(&buf, `    <rect id="section-%d" class="section" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			s, rect.X, rect.Y, rect.Width, rect.Height)
	}
	for _, e := range l.Items {
		renderElement(&buf, e, r.labels)
	}
	for _, e := range l.Extras {
		renderElement(&buf, e, r.labels && e.Category == snapshot.CategorySupplementary)
	}
	if r.viewport {
		v := l.Viewport
		fmt.Fprintf(&buf, `    <rect class="viewport" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			v.X, v.Y, v.Width, v.Height)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// sectionRects returns the rectangle spanned by each section's items.
// Sections without items get an empty rectangle.
func sectionRects(l *snapshot.Layout) []grid.Rect {
	out := make([]grid.Rect, len(l.Sections))
	seen := make([]bool, len(l.Sections))
	for _, e := range l.Items {
		if e.Section < 0 || e.Section >= len(out) {
			continue
		}
		if !seen[e.Section] {
			out[e.Section], seen[e.Section] = e.Frame(), true
			continue
		}
		out[e.Section] = out[e.Section].Union(e.Frame())
	}
	return out
}

func renderElement(buf *bytes.Buffer, e snapshot.Element, label bool) {
	class := e.Category
	if e.Kind != "" {
		class += " " + e.Kind
	}
	fmt.Fprintf(buf, `    <rect id="%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		elementID(e), class, e.X, e.Y, e.Width, e.Height)
	if !label {
		return
	}

	text := e.Label
	if text == "" {
		text = e.Index().String()
	}
	size := labelSize(e.Width, e.Height, len(text))
	if size < labelMinSize {
		return
	}
	fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" font-size="%.1f">%s</text>`+"\n",
		e.X+e.Width/2, e.Y+e.Height/2, size, escape(text))
}

func elementID(e snapshot.Element) string {
	if e.Kind != "" {
		return fmt.Sprintf("%s-%s-%d-%d", e.Category, e.Kind, e.Section, e.Item)
	}
	return fmt.Sprintf("%s-%d-%d", e.Category, e.Section, e.Item)
}

func labelSize(w, h float64, n int) float64 {
	byHeight := h * 0.6
	byWidth := w * 0.9 / (float64(max(1, n)) * labelCharW)
	return math.Min(labelMaxSize, math.Min(byHeight, byWidth))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
