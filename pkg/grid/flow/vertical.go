package flow

import "github.com/speedui/gridkit/pkg/grid"

// Vertical lays items out left to right, wrapping to a new row when the
// next item would cross the section's right inset. A new row starts one
// line spacing below the lowest item placed so far in the section.
type Vertical struct {
	grid.BaseStrategy

	Sizer       Sizer
	DefaultSize grid.Size
}

// ItemSize implements grid.Strategy.
func (v Vertical) ItemSize(_ grid.Env, idx grid.Index) grid.Size {
	return sizeOf(v.Sizer, v.DefaultSize, idx)
}

// FirstItemOrigin implements grid.Strategy.
func (v Vertical) FirstItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	inset := env.SectionInset(idx.Section)
	return grid.Point{X: inset.Left, Y: trailingY(env, idx.Section) + inset.Top}
}

// NextItemOrigin implements grid.Strategy.
func (v Vertical) NextItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	prev := prevItem(env, idx)
	inset := env.SectionInset(idx.Section)

	x := prev.MaxX() + env.InterItemSpacing(idx.Section)
	limit := env.Viewport().Width - inset.Right
	if x+v.ItemSize(env, idx).Width <= limit {
		return grid.Point{X: x, Y: prev.Y}
	}

	sec, _ := env.SectionSize(idx.Section)
	return grid.Point{X: inset.Left, Y: sec.Height + env.LineSpacing(idx.Section)}
}

// ContentSize implements grid.ContentSizer.
func (Vertical) ContentSize(env grid.Env) grid.Size { return verticalContent(env) }

// Axis implements grid.Directional.
func (Vertical) Axis() grid.Axis { return grid.AxisVertical }

var (
	_ grid.Strategy     = Vertical{}
	_ grid.ContentSizer = Vertical{}
	_ grid.Directional  = Vertical{}
)
