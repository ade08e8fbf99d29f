package grid

import "sync"

// fakeView is an in-memory host with fixed counts.
type fakeView struct {
	mu       sync.Mutex
	counts   []int
	bounds   Rect
	decel    Deceleration
	offsets  []Point
	animated []bool
}

func newFakeView(width, height float64, counts ...int) *fakeView {
	return &fakeView{counts: counts, bounds: Rect{Width: width, Height: height}}
}

func (v *fakeView) NumberOfSections() int { return len(v.counts) }

func (v *fakeView) NumberOfItems(section int) int { return v.counts[section] }

func (v *fakeView) Bounds() Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bounds
}

func (v *fakeView) SetContentOffset(p Point, animated bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bounds.X, v.bounds.Y = p.X, p.Y
	v.offsets = append(v.offsets, p)
	v.animated = append(v.animated, animated)
}

func (v *fakeView) SetDeceleration(d Deceleration) { v.decel = d }

// rowStrategy places fixed-size items in a single row per section, sections
// stacked downward. It records which hook produced each index.
type rowStrategy struct {
	size    Size
	content Size
	axis    Axis

	first []Index
	next  []Index
}

func (s *rowStrategy) ItemSize(Env, Index) Size { return s.size }

func (s *rowStrategy) FirstItemOrigin(env Env, idx Index) Point {
	s.first = append(s.first, idx)
	inset := env.SectionInset(idx.Section)
	y := inset.Top
	for prev := idx.Section - 1; prev >= 0; prev-- {
		if sz, ok := env.SectionSize(prev); ok && sz.Height > 0 {
			y = sz.Height + env.LineSpacing(idx.Section) + inset.Top
			break
		}
	}
	return Point{X: inset.Left, Y: y}
}

func (s *rowStrategy) NextItemOrigin(env Env, idx Index) Point {
	s.next = append(s.next, idx)
	prev, _ := env.Item(Index{Section: idx.Section, Item: idx.Item - 1})
	return Point{X: prev.MaxX() + env.InterItemSpacing(idx.Section), Y: prev.Y}
}

func (s *rowStrategy) Axis() Axis { return s.axis }

func (s *rowStrategy) ContentSize(env Env) Size {
	if !s.content.IsZero() {
		return s.content
	}
	var out Size
	for sec := 0; sec < env.Sections(); sec++ {
		if sz, ok := env.SectionSize(sec); ok {
			out.Width = max(out.Width, sz.Width)
			out.Height = max(out.Height, sz.Height)
		}
	}
	return out
}
