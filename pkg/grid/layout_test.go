package grid

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func newRowLayout(opts ...Option) (*Layout, *rowStrategy) {
	st := &rowStrategy{size: Size{Width: 10, Height: 10}}
	return New(st, opts...), st
}

func TestPrepareEntryCounts(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   int
	}{
		{name: "no sections", counts: nil, want: 0},
		{name: "single section", counts: []int{4}, want: 4},
		{name: "mixed with empty", counts: []int{3, 0, 2, 5}, want: 10},
		{name: "all empty", counts: []int{0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newRowLayout()
			l.Attach(newFakeView(300, 300, tt.counts...))
			if err := l.Prepare(); err != nil {
				t.Fatalf("Prepare() error: %v", err)
			}

			if got := l.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
			if got := l.Sections(); got != len(tt.counts) {
				t.Errorf("Sections() = %d, want %d", got, len(tt.counts))
			}
			for s, n := range tt.counts {
				for i := 0; i < n; i++ {
					if _, ok := l.ItemAt(IndexOf(s, i)); !ok {
						t.Errorf("ItemAt(%d,%d) missing", s, i)
					}
				}
				if _, ok := l.ItemAt(IndexOf(s, n)); ok {
					t.Errorf("ItemAt(%d,%d) should be absent", s, n)
				}
			}
			if got := len(l.Items()); got != tt.want {
				t.Errorf("len(Items()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPreparePositions(t *testing.T) {
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 3, 0, 2))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	want := map[Index]Rect{
		IndexOf(0, 0): {X: 5, Y: 5, Width: 10, Height: 10},
		IndexOf(0, 1): {X: 20, Y: 5, Width: 10, Height: 10},
		IndexOf(0, 2): {X: 35, Y: 5, Width: 10, Height: 10},
		IndexOf(2, 0): {X: 5, Y: 25, Width: 10, Height: 10},
		IndexOf(2, 1): {X: 20, Y: 25, Width: 10, Height: 10},
	}
	for idx, r := range want {
		got, ok := l.ItemAt(idx)
		if !ok {
			t.Fatalf("ItemAt(%v) missing", idx)
		}
		if got.Frame != r {
			t.Errorf("ItemAt(%v) = %v, want %v", idx, got.Frame, r)
		}
	}

	sizes := []Size{{Width: 45, Height: 15}, {}, {Width: 30, Height: 35}}
	for s, want := range sizes {
		got, ok := l.SectionSize(s)
		if !ok {
			t.Fatalf("SectionSize(%d) missing", s)
		}
		if got != want {
			t.Errorf("SectionSize(%d) = %v, want %v", s, got, want)
		}
	}
}

func TestPrepareIdempotent(t *testing.T) {
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 5, 0, 7, 1))

	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	first := l.Items()
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	second := l.Items()

	if !slices.Equal(first, second) {
		t.Errorf("second pass differs:\n first=%v\nsecond=%v", first, second)
	}
}

func TestEmptySection(t *testing.T) {
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 2, 0))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	got, ok := l.SectionSize(1)
	if !ok {
		t.Fatal("empty section should have a size entry")
	}
	if !got.IsZero() {
		t.Errorf("SectionSize(1) = %v, want zero", got)
	}
	if _, ok := l.ItemAt(IndexOf(1, 0)); ok {
		t.Error("empty section should contribute no items")
	}
	if _, ok := l.SectionSize(2); ok {
		t.Error("SectionSize beyond section count should be absent")
	}
}

func TestDispatch(t *testing.T) {
	l, st := newRowLayout()
	l.Attach(newFakeView(300, 300, 3, 0, 1, 4))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	wantFirst := []Index{IndexOf(0, 0), IndexOf(2, 0), IndexOf(3, 0)}
	if !slices.Equal(st.first, wantFirst) {
		t.Errorf("first-item hook got %v, want %v", st.first, wantFirst)
	}
	for _, idx := range st.next {
		if idx.Item == 0 {
			t.Errorf("non-first hook called for %v", idx)
		}
	}
	if len(st.next) != 5 {
		t.Errorf("non-first hook called %d times, want 5", len(st.next))
	}
}

func TestSectionSizeBoundsItems(t *testing.T) {
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 4, 1, 0, 6))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	for _, a := range l.Items() {
		sz, ok := l.SectionSize(a.Index.Section)
		if !ok {
			t.Fatalf("SectionSize(%d) missing", a.Index.Section)
		}
		if sz.Width < a.Frame.MaxX() || sz.Height < a.Frame.MaxY() {
			t.Errorf("section %d size %v does not bound item %v", a.Index.Section, sz, a.Frame)
		}
	}
}

func TestSpacingPrecedence(t *testing.T) {
	policy := PolicyFuncs{
		Line: func(section int) (float64, bool) {
			if section == 2 {
				return 20, true
			}
			return 0, false
		},
		Inter: func(section int) (float64, bool) {
			if section == 2 {
				return 12, true
			}
			return 0, false
		},
		Inset: func(section int) (Insets, bool) {
			if section == 2 {
				return UniformInsets(1), true
			}
			return Insets{}, false
		},
	}

	l, _ := newRowLayout(WithPolicy(policy), WithSpacing(Spacing{Line: 3, Inter: 4, Insets: UniformInsets(2)}))

	if got := l.LineSpacing(2); got != 20 {
		t.Errorf("LineSpacing(2) = %v, want 20", got)
	}
	if got := l.LineSpacing(5); got != 3 {
		t.Errorf("LineSpacing(5) = %v, want 3", got)
	}
	if got := l.InterItemSpacing(2); got != 12 {
		t.Errorf("InterItemSpacing(2) = %v, want 12", got)
	}
	if got := l.InterItemSpacing(5); got != 4 {
		t.Errorf("InterItemSpacing(5) = %v, want 4", got)
	}
	if got := l.SectionInset(2); got != UniformInsets(1) {
		t.Errorf("SectionInset(2) = %v, want 1s", got)
	}
	if got := l.SectionInset(5); got != UniformInsets(2) {
		t.Errorf("SectionInset(5) = %v, want 2s", got)
	}

	// The resolved spacing reaches the strategy.
	l.Attach(newFakeView(300, 300, 2, 0, 2))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	a, _ := l.ItemAt(IndexOf(0, 1))
	if a.Frame.X != 2+10+4 {
		t.Errorf("section 0 item 1 x = %v, want 16", a.Frame.X)
	}
	b, _ := l.ItemAt(IndexOf(2, 1))
	if b.Frame.X != 1+10+12 {
		t.Errorf("section 2 item 1 x = %v, want 23", b.Frame.X)
	}
}

func TestDefaultPolicyDeclinesEverything(t *testing.T) {
	var p PolicyFuncs
	if _, ok := p.LineSpacing(0); ok {
		t.Error("zero PolicyFuncs should decline line spacing")
	}
	if _, ok := p.InterItemSpacing(0); ok {
		t.Error("zero PolicyFuncs should decline inter-item spacing")
	}
	if _, ok := p.SectionInset(0); ok {
		t.Error("zero PolicyFuncs should decline insets")
	}

	l := New(&rowStrategy{})
	if l.LineSpacing(0) != DefaultSpacing || l.InterItemSpacing(0) != DefaultSpacing {
		t.Error("layout without policy should use the default spacing")
	}
	if l.SectionInset(0) != UniformInsets(DefaultSpacing) {
		t.Error("layout without policy should use the default inset")
	}
}

func TestPrepareDetached(t *testing.T) {
	l, _ := newRowLayout()
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() without view error: %v", err)
	}
	if l.Len() != 0 || l.Sections() != 0 {
		t.Errorf("detached layout should be empty, got %d items %d sections", l.Len(), l.Sections())
	}

	l.Attach(newFakeView(300, 300, 2))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	l.Detach()
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() after detach error: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len() after detached prepare = %d, want 0", l.Len())
	}
	if l.ShouldInvalidate(Rect{Width: 10}) {
		t.Error("detached layout should never ask for invalidation")
	}
	if l.CorrectOffset() {
		t.Error("detached layout should not correct offsets")
	}
}

func TestStaleIndex(t *testing.T) {
	l, _ := newRowLayout()
	v := newFakeView(300, 300, 4)
	l.Attach(v)
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	v.counts = []int{2}
	if _, ok := l.ItemAt(IndexOf(0, 3)); !ok {
		t.Error("cache should not change before the next Prepare")
	}
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if _, ok := l.ItemAt(IndexOf(0, 3)); ok {
		t.Error("stale index should be absent after the data source shrank")
	}
	if _, ok := l.ItemAt(IndexOf(-1, 0)); ok {
		t.Error("negative section should be absent")
	}
}

func TestBaseStrategyDegrades(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	l := New(nil, WithLogger(logger))
	l.Attach(newFakeView(300, 300, 3, 2))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() should not fail in lenient mode: %v", err)
	}

	if l.Len() != 5 {
		t.Errorf("Len() = %d, want 5", l.Len())
	}
	for _, a := range l.Items() {
		if a.Frame != (Rect{}) {
			t.Errorf("item %v = %v, want zero rect", a.Index, a.Frame)
		}
	}

	out := buf.String()
	for _, hook := range []string{"ItemSize", "FirstItemOrigin", "NextItemOrigin"} {
		if !strings.Contains(out, hook) {
			t.Errorf("log output should mention %s:\n%s", hook, out)
		}
	}
}

func TestBaseStrategyStrict(t *testing.T) {
	l := New(nil, WithStrict())
	l.Attach(newFakeView(300, 300, 2))
	err := l.Prepare()
	if !errors.Is(err, ErrUnimplemented) {
		t.Fatalf("Prepare() error = %v, want ErrUnimplemented", err)
	}
	if l.Len() != 0 {
		t.Errorf("failed strict pass should not be published, Len() = %d", l.Len())
	}
}

// partialStrategy implements only ItemSize.
type partialStrategy struct {
	BaseStrategy
}

func (partialStrategy) ItemSize(Env, Index) Size { return Size{Width: 1, Height: 1} }

func TestEmbeddedBaseStrategy(t *testing.T) {
	l := New(partialStrategy{})
	l.Attach(newFakeView(300, 300, 2))
	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	a, _ := l.ItemAt(IndexOf(0, 1))
	if a.Frame != (Rect{Width: 1, Height: 1}) {
		t.Errorf("item = %v, want origin zero with overridden size", a.Frame)
	}

	strict := New(partialStrategy{}, WithStrict())
	strict.Attach(newFakeView(300, 300, 2))
	if err := strict.Prepare(); !errors.Is(err, ErrUnimplemented) {
		t.Errorf("strict Prepare() error = %v, want ErrUnimplemented", err)
	}
}

func TestDeceleration(t *testing.T) {
	l, _ := newRowLayout()
	v := newFakeView(300, 300, 1)
	l.Attach(v)

	if err := l.Prepare(); err != nil {
		t.Fatal(err)
	}
	if v.decel != DecelerationNormal {
		t.Errorf("deceleration = %v, want normal", v.decel)
	}

	l.SetPaging(true)
	if err := l.Prepare(); err != nil {
		t.Fatal(err)
	}
	if v.decel != DecelerationFast {
		t.Errorf("deceleration = %v, want fast", v.decel)
	}
}

type frameProvider struct {
	kinds map[string]bool
}

func (p frameProvider) SupplementaryFrame(kind string, idx Index, frame Rect) (Rect, bool) {
	if !p.kinds[kind] || idx.Item != 0 {
		return Rect{}, false
	}
	return Rect{X: frame.X, Y: frame.Y - 2, Width: frame.Width, Height: 2}, true
}

func (p frameProvider) DecorationFrame(kind string, idx Index, frame Rect) (Rect, bool) {
	if !p.kinds[kind] {
		return Rect{}, false
	}
	return Rect{X: frame.X, Y: frame.MaxY(), Width: frame.Width, Height: 1}, true
}

func TestElementsIn(t *testing.T) {
	p := frameProvider{kinds: map[string]bool{"header": true, "separator": true}}
	l, _ := newRowLayout(
		WithSupplementary(p, "header", "missing"),
		WithDecoration(p, "separator"),
	)
	l.Attach(newFakeView(300, 300, 3, 0, 2))
	if err := l.Prepare(); err != nil {
		t.Fatal(err)
	}

	// Covers items (0,0) and (0,1) only: x in [5,25), y in [5,15).
	got := l.ElementsIn(Rect{X: 0, Y: 0, Width: 21, Height: 12})

	var items, headers, separators int
	seen := map[Index]bool{}
	for _, a := range got {
		switch a.Category {
		case CategoryItem:
			items++
			seen[a.Index] = true
		case CategorySupplementary:
			headers++
			if a.Kind != "header" || a.Index != IndexOf(0, 0) {
				t.Errorf("unexpected supplementary %+v", a)
			}
		case CategoryDecoration:
			separators++
			if a.Kind != "separator" {
				t.Errorf("unexpected decoration %+v", a)
			}
		}
	}

	if items != 2 || !seen[IndexOf(0, 0)] || !seen[IndexOf(0, 1)] {
		t.Errorf("items = %v, want (0,0) and (0,1)", seen)
	}
	if headers != 1 {
		t.Errorf("headers = %d, want 1", headers)
	}
	if separators != 2 {
		t.Errorf("separators = %d, want 2", separators)
	}

	if got := l.ElementsIn(Rect{X: 1000, Y: 1000, Width: 5, Height: 5}); len(got) != 0 {
		t.Errorf("query outside content returned %d elements", len(got))
	}
	if got := len(l.Extras()); got != 2+5 {
		t.Errorf("len(Extras()) = %d, want 7", got)
	}
}

func TestElementsInMatchesBruteForce(t *testing.T) {
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 6, 3, 0, 9))
	if err := l.Prepare(); err != nil {
		t.Fatal(err)
	}

	queries := []Rect{
		{X: 0, Y: 0, Width: 300, Height: 300},
		{X: 18, Y: 4, Width: 4, Height: 40},
		{X: 44, Y: 0, Width: 1, Height: 100},
		{X: 45, Y: 0, Width: 1, Height: 100},
	}
	for _, q := range queries {
		want := map[Index]bool{}
		for _, a := range l.Items() {
			if a.Frame.Intersects(q) {
				want[a.Index] = true
			}
		}
		got := map[Index]bool{}
		for _, a := range l.ElementsIn(q) {
			got[a.Index] = true
		}
		if len(got) != len(want) {
			t.Errorf("query %v: got %d items, want %d", q, len(got), len(want))
		}
		for idx := range want {
			if !got[idx] {
				t.Errorf("query %v: missing %v", q, idx)
			}
		}
	}
}

func TestElementsInEdges(t *testing.T) {
	// Same geometry as TestPreparePositions: section 0 holds items at
	// x=5, 20, 35 (y=5), section 2 holds items at x=5, 20 (y=25), all 10x10.
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 3, 0, 2))
	if err := l.Prepare(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		query Rect
		want  []Index
	}{
		{"everything", Rect{Width: 300, Height: 300}, []Index{
			IndexOf(0, 0), IndexOf(0, 1), IndexOf(0, 2), IndexOf(2, 0), IndexOf(2, 1),
		}},
		{"gap between items touches both edges", Rect{X: 15, Y: 0, Width: 5, Height: 100}, nil},
		{"gap between sections touches both edges", Rect{X: 0, Y: 15, Width: 300, Height: 10}, nil},
		{"overlaps corners of two sections", Rect{X: 14, Y: 14, Width: 2, Height: 12}, []Index{IndexOf(0, 0), IndexOf(2, 0)}},
		{"sub-point overlap", Rect{X: 34.5, Y: 14.5, Width: 1, Height: 1}, []Index{IndexOf(0, 2)}},
		{"empty query", Rect{X: 10, Y: 10}, nil},
		{"past the content", Rect{X: 0, Y: 35, Width: 300, Height: 50}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[Index]bool{}
			for _, a := range l.ElementsIn(tt.query) {
				got[a.Index] = true
			}
			if len(got) != len(tt.want) {
				t.Errorf("ElementsIn(%v) = %v, want %v", tt.query, got, tt.want)
			}
			for _, idx := range tt.want {
				if !got[idx] {
					t.Errorf("ElementsIn(%v) missing %v", tt.query, idx)
				}
			}
		})
	}
}

func TestConcurrentReadersDuringPrepare(t *testing.T) {
	l, _ := newRowLayout()
	l.Attach(newFakeView(300, 300, 50, 50))
	if err := l.Prepare(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n := l.Len(); n != 100 {
					t.Errorf("reader saw partial cache: %d items", n)
					return
				}
				_ = l.ElementsIn(Rect{Width: 100, Height: 100})
			}
		}()
	}
	for j := 0; j < 20; j++ {
		if err := l.Prepare(); err != nil {
			t.Error(err)
		}
	}
	wg.Wait()
}
