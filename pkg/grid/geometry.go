package grid

import "fmt"

// Point is a location in the scrollable surface's coordinate space.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect builds a Rect from an origin and a size.
func NewRect(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o overlap with a non-empty area.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() &&
		r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Extent returns the far corner of r as a Size, i.e. (MaxX, MaxY).
func (r Rect) Extent() Size { return Size{Width: r.MaxX(), Height: r.MaxY()} }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x, y := min(r.X, o.X), min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: max(r.MaxX(), o.MaxX()) - x, Height: max(r.MaxY(), o.MaxY()) - y}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Insets is four-sided padding.
type Insets struct {
	Top    float64 `json:"top" toml:"top" yaml:"top" bson:"top"`
	Left   float64 `json:"left" toml:"left" yaml:"left" bson:"left"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom" bson:"bottom"`
	Right  float64 `json:"right" toml:"right" yaml:"right" bson:"right"`
}

// UniformInsets returns insets with the same value on every side.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Left: v, Bottom: v, Right: v}
}

// Horizontal returns Left + Right.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical returns Top + Bottom.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// Index addresses one item: the Item-th element of section Section.
type Index struct {
	Section int `json:"section" bson:"section"`
	Item    int `json:"item" bson:"item"`
}

// IndexOf is shorthand for Index{Section: section, Item: item}.
func IndexOf(section, item int) Index { return Index{Section: section, Item: item} }

// Less orders indices by section, then item.
func (i Index) Less(o Index) bool {
	if i.Section != o.Section {
		return i.Section < o.Section
	}
	return i.Item < o.Item
}

func (i Index) String() string { return fmt.Sprintf("[%d,%d]", i.Section, i.Item) }

// Axis is a scroll direction.
type Axis int

const (
	// AxisVertical flows items downward; the cross axis is the width.
	AxisVertical Axis = iota
	// AxisHorizontal flows items rightward; the cross axis is the height.
	AxisHorizontal
)

func (a Axis) String() string {
	if a == AxisHorizontal {
		return "horizontal"
	}
	return "vertical"
}
