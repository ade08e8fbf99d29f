package flow

import (
	"math"

	"github.com/speedui/gridkit/pkg/grid"
)

// RowDelegate configures a FixedRows strategy per section and per item.
// Either method may decline.
type RowDelegate interface {
	// Rows is the number of rows in a section.
	Rows(section int) (int, bool)
	// ItemWidth is the width of an item; its height is the row height.
	ItemWidth(idx grid.Index) (float64, bool)
}

// FixedRows is a horizontal strip with a fixed number of rows per section.
// Row height divides the viewport height (less insets and inter-item gaps)
// evenly. Items fill each column top to bottom; the next column starts one
// line spacing to the right of the widest item placed so far.
type FixedRows struct {
	grid.BaseStrategy

	Delegate    RowDelegate
	DefaultRows int
}

func (f FixedRows) rows(section int) int {
	n := f.DefaultRows
	if f.Delegate != nil {
		if v, ok := f.Delegate.Rows(section); ok {
			n = v
		}
	}
	return max(n, 1)
}

// RowHeight returns the height shared by every item in a section.
func (f FixedRows) RowHeight(env grid.Env, section int) float64 {
	rows := float64(f.rows(section))
	inset := env.SectionInset(section)
	avail := env.Viewport().Height - inset.Vertical() - (rows-1)*env.InterItemSpacing(section)
	return math.Max(0, avail/rows)
}

// ItemSize implements grid.Strategy.
func (f FixedRows) ItemSize(env grid.Env, idx grid.Index) grid.Size {
	h := f.RowHeight(env, idx.Section)
	w := h
	if f.Delegate != nil {
		if v, ok := f.Delegate.ItemWidth(idx); ok {
			w = v
		}
	}
	return grid.Size{Width: w, Height: h}
}

// FirstItemOrigin implements grid.Strategy.
func (f FixedRows) FirstItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	inset := env.SectionInset(idx.Section)
	return grid.Point{X: trailingX(env, idx.Section) + inset.Left, Y: inset.Top}
}

// NextItemOrigin implements grid.Strategy.
func (f FixedRows) NextItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	inset := env.SectionInset(idx.Section)
	row := idx.Item % f.rows(idx.Section)

	if row == 0 {
		sec, _ := env.SectionSize(idx.Section)
		return grid.Point{X: sec.Width + env.LineSpacing(idx.Section), Y: inset.Top}
	}

	top, _ := env.Item(grid.Index{Section: idx.Section, Item: idx.Item - row})
	step := f.RowHeight(env, idx.Section) + env.InterItemSpacing(idx.Section)
	return grid.Point{X: top.X, Y: inset.Top + float64(row)*step}
}

// ContentSize implements grid.ContentSizer.
func (FixedRows) ContentSize(env grid.Env) grid.Size { return horizontalContent(env) }

// Axis implements grid.Directional.
func (FixedRows) Axis() grid.Axis { return grid.AxisHorizontal }

var (
	_ grid.Strategy     = FixedRows{}
	_ grid.ContentSizer = FixedRows{}
	_ grid.Directional  = FixedRows{}
)
