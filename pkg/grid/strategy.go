package grid

import (
	"errors"

	"github.com/charmbracelet/log"
)

// ErrUnimplemented is returned by Prepare in strict mode when a pass reached
// a strategy hook that has no concrete implementation.
var ErrUnimplemented = errors.New("grid: strategy hook not implemented")

// Env gives a strategy read access to the pass in progress. Item and
// SectionSize only report what has been placed earlier in the same pass.
type Env interface {
	// Viewport is the host's visible rectangle; its origin is the scroll offset.
	Viewport() Rect
	Sections() int
	Items(section int) int

	LineSpacing(section int) float64
	InterItemSpacing(section int) float64
	SectionInset(section int) Insets

	// Item returns the rectangle already computed for idx in this pass.
	Item(idx Index) (Rect, bool)
	// SectionSize returns the running (maxX, maxY) of a section.
	SectionSize(section int) (Size, bool)

	// Unimplemented reports that a hook has no concrete implementation.
	Unimplemented(hook string, idx Index)
	Logger() *log.Logger
}

// Strategy computes item geometry. The engine calls FirstItemOrigin for
// item 0 of every section and NextItemOrigin for every other item, then
// ItemSize. Results must be deterministic for a fixed index and data source.
type Strategy interface {
	ItemSize(env Env, idx Index) Size
	FirstItemOrigin(env Env, idx Index) Point
	NextItemOrigin(env Env, idx Index) Point
}

// Directional is implemented by strategies whose flow axis is not vertical.
type Directional interface {
	Axis() Axis
}

// ContentSizer is implemented by strategies that know the total scrollable
// size. The engine otherwise uses the maximum extent over all sections.
type ContentSizer interface {
	ContentSize(env Env) Size
}

// BaseStrategy is the degenerate strategy: every hook reports itself as
// unimplemented and returns zero geometry. Concrete strategies embed it and
// override the hooks they provide.
type BaseStrategy struct{}

// ItemSize implements Strategy.
func (BaseStrategy) ItemSize(env Env, idx Index) Size {
	env.Unimplemented("ItemSize", idx)
	return Size{}
}

// FirstItemOrigin implements Strategy.
func (BaseStrategy) FirstItemOrigin(env Env, idx Index) Point {
	env.Unimplemented("FirstItemOrigin", idx)
	return Point{}
}

// NextItemOrigin implements Strategy.
func (BaseStrategy) NextItemOrigin(env Env, idx Index) Point {
	env.Unimplemented("NextItemOrigin", idx)
	return Point{}
}

var _ Strategy = BaseStrategy{}
