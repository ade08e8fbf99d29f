package flow

import "github.com/speedui/gridkit/pkg/grid"

// Horizontal lays items out top to bottom, wrapping to a new column when the
// next item would cross the section's bottom inset. Sections sit side by
// side.
type Horizontal struct {
	grid.BaseStrategy

	Sizer       Sizer
	DefaultSize grid.Size
}

// ItemSize implements grid.Strategy.
func (h Horizontal) ItemSize(_ grid.Env, idx grid.Index) grid.Size {
	return sizeOf(h.Sizer, h.DefaultSize, idx)
}

// FirstItemOrigin implements grid.Strategy.
func (h Horizontal) FirstItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	inset := env.SectionInset(idx.Section)
	return grid.Point{X: trailingX(env, idx.Section) + inset.Left, Y: inset.Top}
}

// NextItemOrigin implements grid.Strategy.
func (h Horizontal) NextItemOrigin(env grid.Env, idx grid.Index) grid.Point {
	prev := prevItem(env, idx)
	inset := env.SectionInset(idx.Section)

	y := prev.MaxY() + env.InterItemSpacing(idx.Section)
	limit := env.Viewport().Height - inset.Bottom
	if y+h.ItemSize(env, idx).Height <= limit {
		return grid.Point{X: prev.X, Y: y}
	}

	sec, _ := env.SectionSize(idx.Section)
	return grid.Point{X: sec.Width + env.LineSpacing(idx.Section), Y: inset.Top}
}

// ContentSize implements grid.ContentSizer.
func (Horizontal) ContentSize(env grid.Env) grid.Size { return horizontalContent(env) }

// Axis implements grid.Directional.
func (Horizontal) Axis() grid.Axis { return grid.AxisHorizontal }

var (
	_ grid.Strategy     = Horizontal{}
	_ grid.ContentSizer = Horizontal{}
	_ grid.Directional  = Horizontal{}
)
