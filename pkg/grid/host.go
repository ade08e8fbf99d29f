package grid

import "sync"

// DataSource supplies the authoritative section and item counts. The engine
// asks for them at the start of every pass and never caches them in between.
type DataSource interface {
	NumberOfSections() int
	NumberOfItems(section int) int
}

// Deceleration is the scroll deceleration mode requested from the host.
type Deceleration int

const (
	DecelerationNormal Deceleration = iota
	DecelerationFast
)

func (d Deceleration) String() string {
	if d == DecelerationFast {
		return "fast"
	}
	return "normal"
}

// Scroller is the host's scrollable viewport.
type Scroller interface {
	// Bounds is the visible rectangle: origin is the content offset, size is
	// the viewport size.
	Bounds() Rect
	SetContentOffset(offset Point, animated bool)
	SetDeceleration(d Deceleration)
}

// View is everything the engine needs from its host.
type View interface {
	DataSource
	Scroller
}

// Category distinguishes the kinds of element a query can return.
type Category int

const (
	CategoryItem Category = iota
	CategorySupplementary
	CategoryDecoration
)

func (c Category) String() string {
	switch c {
	case CategorySupplementary:
		return "supplementary"
	case CategoryDecoration:
		return "decoration"
	default:
		return "item"
	}
}

// Attributes is one placed element.
type Attributes struct {
	Category Category
	// Kind names the supplementary or decoration kind; empty for items.
	Kind  string
	Index Index
	Frame Rect
}

// Supplementary looks up supplementary elements (headers, footers) attached
// to an item. frame is the item's cached rectangle.
type Supplementary interface {
	SupplementaryFrame(kind string, idx Index, frame Rect) (Rect, bool)
}

// Decoration looks up decoration elements (separators, badges) attached to
// an item. frame is the item's cached rectangle.
type Decoration interface {
	DecorationFrame(kind string, idx Index, frame Rect) (Rect, bool)
}

// FixedScroller is a Scroller with no backing widget. It records offset
// and deceleration requests so headless callers (CLI, API, tests) can
// drive a Layout.
type FixedScroller struct {
	mu       sync.Mutex
	bounds   Rect
	decel    Deceleration
	animated bool
}

// NewFixedScroller returns a scroller at offset zero with the given
// viewport size.
func NewFixedScroller(size Size) *FixedScroller {
	return &FixedScroller{bounds: Rect{Width: size.Width, Height: size.Height}}
}

// Bounds implements Scroller.
func (s *FixedScroller) Bounds() Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// SetContentOffset implements Scroller.
func (s *FixedScroller) SetContentOffset(offset Point, animated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds.X, s.bounds.Y = offset.X, offset.Y
	s.animated = animated
}

// SetDeceleration implements Scroller.
func (s *FixedScroller) SetDeceleration(d Deceleration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decel = d
}

// Deceleration returns the last requested deceleration mode.
func (s *FixedScroller) Deceleration() Deceleration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decel
}

// Resize changes the viewport size and keeps the offset.
func (s *FixedScroller) Resize(size Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds.Width, s.bounds.Height = size.Width, size.Height
}

// ScrollTo moves the viewport origin without animation.
func (s *FixedScroller) ScrollTo(offset Point) { s.SetContentOffset(offset, false) }

type composed struct {
	DataSource
	Scroller
}

// Compose joins a data source and a scroller into a View.
func Compose(ds DataSource, s Scroller) View { return composed{DataSource: ds, Scroller: s} }
