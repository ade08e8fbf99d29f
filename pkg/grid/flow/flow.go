// Package flow provides the concrete grid strategies.
//
// Every strategy embeds [grid.BaseStrategy] and overrides all three hooks:
//
//   - [Vertical]: items run left to right and wrap into rows; sections stack
//     downward.
//   - [Horizontal]: items run top to bottom and wrap into columns; sections
//     sit side by side.
//   - [FixedRows]: a horizontal strip with a fixed number of rows per
//     section and per-item widths.
//   - [Columns]: a vertical flow with a fixed number of equal-width columns.
//
// Item dimensions come from a [Sizer]; a strategy falls back to its
// DefaultSize when the sizer declines.
package flow

import (
	"math"

	"github.com/speedui/gridkit/pkg/grid"
)

// DefaultItemSize is used when neither the sizer nor the strategy provide
// a size.
var DefaultItemSize = grid.Size{Width: 50, Height: 50}

// Sizer reports the natural size of an item.
type Sizer interface {
	ItemSize(idx grid.Index) (grid.Size, bool)
}

// SizerFunc adapts a function to a Sizer.
type SizerFunc func(idx grid.Index) (grid.Size, bool)

// ItemSize implements Sizer.
func (f SizerFunc) ItemSize(idx grid.Index) (grid.Size, bool) { return f(idx) }

// FixedSize is a Sizer that gives every item the same size.
type FixedSize grid.Size

// ItemSize implements Sizer.
func (s FixedSize) ItemSize(grid.Index) (grid.Size, bool) { return grid.Size(s), true }

func sizeOf(sizer Sizer, fallback grid.Size, idx grid.Index) grid.Size {
	if sizer != nil {
		if sz, ok := sizer.ItemSize(idx); ok {
			return sz
		}
	}
	if fallback.IsZero() {
		return DefaultItemSize
	}
	return fallback
}

func prevItem(env grid.Env, idx grid.Index) grid.Rect {
	r, _ := env.Item(grid.Index{Section: idx.Section, Item: idx.Item - 1})
	return r
}

// trailingY is the bottom edge, including the bottom inset, of every section
// before section.
func trailingY(env grid.Env, section int) float64 {
	var edge float64
	for s := 0; s < section; s++ {
		sz, ok := env.SectionSize(s)
		if !ok || sz.IsZero() {
			continue
		}
		edge = math.Max(edge, sz.Height+env.SectionInset(s).Bottom)
	}
	return edge
}

// trailingX is the right edge, including the right inset, of every section
// before section.
func trailingX(env grid.Env, section int) float64 {
	var edge float64
	for s := 0; s < section; s++ {
		sz, ok := env.SectionSize(s)
		if !ok || sz.IsZero() {
			continue
		}
		edge = math.Max(edge, sz.Width+env.SectionInset(s).Right)
	}
	return edge
}

// verticalContent spans the viewport width and ends at the trailing edge
// of the last section.
func verticalContent(env grid.Env) grid.Size {
	return grid.Size{
		Width:  env.Viewport().Width,
		Height: trailingY(env, env.Sections()),
	}
}

// horizontalContent spans the viewport height and ends at the trailing
// edge of the last section.
func horizontalContent(env grid.Env) grid.Size {
	return grid.Size{
		Width:  trailingX(env, env.Sections()),
		Height: env.Viewport().Height,
	}
}
