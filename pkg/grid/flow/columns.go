package flow

import (
	"math"

	"github.com/speedui/gridkit/pkg/grid"
)

// Columns is a vertical flow with Count equal-width columns. Item height
// comes from the sizer; items the sizer declines are square.
type Columns struct {
	grid.BaseStrategy

	Count int
	Sizer Sizer
}

func (c Columns) count() int { return max(c.Count, 1) }

// ColumnWidth returns the width shared by every item in a section.
func (c Columns) ColumnWidth(env grid.Env, section int) float64 {
	n := float64(c.count())
	inset := env.SectionInset(section)
	avail := env.Viewport().Width - inset.Horizontal() - (n-1)*env.InterItemSpacing(section)
	return math.Max(0, avail/n)
}

// ItemSize implements grid.Strategy.
func (c Columns) ItemSize(env grid.Env, idx grid.Index) grid.Size {
	w := c.ColumnWidth(env, idx.Section)
	h := w
	if c.Sizer != nil {
		if sz, ok := c.Sizer.ItemSize(idx); ok {
			h = sz.Height
		}
	}
	return grid.Size{Width: w, Height: h}
}

// FirstItemOrigin implements grid.Strategy.
func (c Columns) FirstItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	inset := env.SectionInset(idx.Section)
	return grid.Point{X: inset.Left, Y: trailingY(env, idx.Section) + inset.Top}
}

// NextItemOrigin implements grid.Strategy.
func (c Columns) NextItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	inset := env.SectionInset(idx.Section)
	col := idx.Item % c.count()

	if col == 0 {
		sec, _ := env.SectionSize(idx.Section)
		return grid.Point{X: inset.Left, Y: sec.Height + env.LineSpacing(idx.Section)}
	}

	first, _ := env.Item(grid.Index{Section: idx.Section, Item: idx.Item - col})
	prev := prevItem(env, idx)
	return grid.Point{X: prev.MaxX() + env.InterItemSpacing(idx.Section), Y: first.Y}
}

// ContentSize implements grid.ContentSizer.
func (Columns) ContentSize(env grid.Env) grid.Size { return verticalContent(env) }

// Axis implements grid.Directional.
func (Columns) Axis() grid.Axis { return grid.AxisVertical }

var (
	_ grid.Strategy     = Columns{}
	_ grid.ContentSizer = Columns{}
	_ grid.Directional  = Columns{}
)
