package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/speedui/gridkit/pkg/snapshot"
)

// DOTOptions configures flow diagram generation.
type DOTOptions struct {
	// Detailed adds each item's frame to its node label.
	Detailed bool
	// Bands adds a node per supplementary element, attached to its item.
	Bands bool
}

// ToDOT converts a layout to a Graphviz flow diagram: one cluster per
// section, one node per item, and edges following placement order.
// Consecutive non-empty sections are joined by a dashed edge.
func ToDOT(l *snapshot.Layout, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(l.Axis))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", graphLabel(l))
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.2;\n")

	bySection := make([][]snapshot.Element, len(l.Sections))
	for _, e := range l.Items {
		if e.Section >= 0 && e.Section < len(bySection) {
			bySection[e.Section] = append(bySection[e.Section], e)
		}
	}

	for s, items := range bySection {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", s)
		fmt.Fprintf(&buf, "    label=%q;\n", sectionLabel(l, s))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		if len(items) == 0 {
			fmt.Fprintf(&buf, "    %q [label=\"empty\", style=\"dashed\", fillcolor=lightgrey];\n", emptyNode(s))
		}
		for _, e := range items {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeID(e), nodeLabel(e, opts.Detailed))
		}
		for i := 1; i < len(items); i++ {
			fmt.Fprintf(&buf, "    %q -> %q;\n", nodeID(items[i-1]), nodeID(items[i]))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	prev := ""
	for _, items := range bySection {
		if len(items) == 0 {
			continue
		}
		if prev != "" {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", prev, nodeID(items[0]))
		}
		prev = nodeID(items[len(items)-1])
	}

	if opts.Bands {
		for _, e := range l.Extras {
			if e.Category != snapshot.CategorySupplementary {
				continue
			}
			id := fmt.Sprintf("%s:%s", e.Kind, nodeID(e))
			fmt.Fprintf(&buf, "  %q [label=%q, shape=note, fillcolor=aliceblue];\n", id, e.Kind)
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none];\n", id, nodeID(e))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func graphLabel(l *snapshot.Layout) string {
	if l.Title == "" {
		return l.Strategy
	}
	return l.Title + " (" + l.Strategy + ")"
}

func rankdir(axis string) string {
	if axis == "horizontal" {
		return "TB"
	}
	return "LR"
}

func sectionLabel(l *snapshot.Layout, s int) string {
	if id := l.Sections[s].ID; id != "" {
		return id
	}
	return "section " + strconv.Itoa(s)
}

func nodeID(e snapshot.Element) string { return fmt.Sprintf("%d.%d", e.Section, e.Item) }

func emptyNode(section int) string { return fmt.Sprintf("%d.empty", section) }

func nodeLabel(e snapshot.Element, detailed bool) string {
	label := e.Label
	if label == "" {
		label = e.ID
	}
	if label == "" {
		label = e.Index().String()
	}
	if !detailed {
		return label
	}
	return label + "\n" + e.Frame().String()
}

// RenderFlowSVG renders a DOT graph to SVG using Graphviz.
func RenderFlowSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one
// sized in user units, so the SVG scales like the wireframe does.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
