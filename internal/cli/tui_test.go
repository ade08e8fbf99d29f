package cli

import (
	"fmt"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/grid/flow"
	"github.com/speedui/gridkit/pkg/listing"
	"github.com/speedui/gridkit/pkg/pipeline"
)

// newTestPreview prepares a single-section listing of n items, each 80x64
// points, in a cols x rows terminal window.
func newTestPreview(t *testing.T, strategy string, n, cols, rows int) PreviewModel {
	t.Helper()
	items := make([]listing.Item, n)
	for i := range items {
		items[i] = listing.Item{ID: fmt.Sprintf("item-%d", i), Width: 80, Height: 64}
	}
	lst := &listing.Listing{Sections: []listing.Section{{ID: "a", Items: items}}}

	opts := pipeline.Options{
		Strategy: strategy,
		Width:    float64(cols) * cellWidth,
		Height:   float64(rows) * cellHeight,
	}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	opts.Logger = nil
	g, err := pipeline.NewGrid(lst, opts)
	if err != nil {
		t.Fatal(err)
	}
	s := grid.NewFixedScroller(opts.Viewport().Size())
	g.Attach(grid.Compose(lst, s))
	if err := g.Prepare(); err != nil {
		t.Fatal(err)
	}
	return NewPreviewModel(g, s, lst.Label, strategy)
}

func TestNewPreviewModelSize(t *testing.T) {
	m := newTestPreview(t, flow.NameVertical, 4, 50, 10)
	if m.Cols != 50 || m.Rows != 10 {
		t.Errorf("size = %dx%d, want 50x10", m.Cols, m.Rows)
	}
	if m.Passes != 0 || m.Corrections != 0 {
		t.Errorf("fresh model counted passes=%d corrections=%d", m.Passes, m.Corrections)
	}
}

func TestPreviewResizeInvalidation(t *testing.T) {
	tests := []struct {
		name       string
		strategy   string
		cols, rows int
		wantPasses int
	}{
		{"vertical width change", flow.NameVertical, 60, 10, 1},
		{"vertical height change", flow.NameVertical, 50, 20, 0},
		{"horizontal height change", flow.NameHorizontal, 50, 20, 1},
		{"horizontal width change", flow.NameHorizontal, 60, 10, 0},
		{"no change", flow.NameVertical, 50, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestPreview(t, tt.strategy, 20, 50, 10)
			m = m.Resize(tt.cols, tt.rows)
			if m.Passes != tt.wantPasses {
				t.Errorf("Passes = %d, want %d", m.Passes, tt.wantPasses)
			}
			if m.Cols != tt.cols || m.Rows != tt.rows {
				t.Errorf("size = %dx%d, want %dx%d", m.Cols, m.Rows, tt.cols, tt.rows)
			}
			b := m.Scroller.Bounds()
			if b.Width != float64(tt.cols)*cellWidth || b.Height != float64(tt.rows)*cellHeight {
				t.Errorf("bounds = %v", b)
			}
			if m.Err != nil {
				t.Errorf("Err = %v", m.Err)
			}
		})
	}
}

func TestPreviewResizeCorrectsOffset(t *testing.T) {
	m := newTestPreview(t, flow.NameVertical, 20, 50, 10)
	m.ScrollBy(math.Inf(1))
	if m.Scroller.Bounds().Y == 0 {
		t.Fatal("content should be taller than the viewport")
	}

	// Growing along the flow axis leaves the offset past the end.
	m = m.Resize(50, 60)
	if m.Passes != 0 {
		t.Errorf("Passes = %d, want 0", m.Passes)
	}
	if m.Corrections != 1 {
		t.Errorf("Corrections = %d, want 1", m.Corrections)
	}
	b := m.Scroller.Bounds()
	if want := grid.MaxOffset(m.Layout.ContentSize().Height, b.Height); b.Y != want {
		t.Errorf("offset y = %g, want %g", b.Y, want)
	}
}

func TestPreviewPagingSkipsCorrection(t *testing.T) {
	m := newTestPreview(t, flow.NameVertical, 20, 50, 10)
	m.ScrollBy(math.Inf(1))
	before := m.Scroller.Bounds().Y

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = next.(PreviewModel)
	if !m.Layout.Paging() {
		t.Fatal("p should enable paging")
	}
	if m.Passes != 1 {
		t.Errorf("Passes = %d, want 1 after toggling paging", m.Passes)
	}

	m = m.Resize(50, 60)
	if m.Corrections != 0 {
		t.Errorf("Corrections = %d, want 0 with paging", m.Corrections)
	}
	if got := m.Scroller.Bounds().Y; got != before {
		t.Errorf("offset y = %g, want %g", got, before)
	}
}

func TestPreviewScrollByClamps(t *testing.T) {
	m := newTestPreview(t, flow.NameVertical, 20, 50, 10)
	maxY := grid.MaxOffset(m.Layout.ContentSize().Height, m.Scroller.Bounds().Height)

	m.ScrollBy(-100)
	if y := m.Scroller.Bounds().Y; y != 0 {
		t.Errorf("scroll before start: y = %g, want 0", y)
	}
	m.ScrollBy(math.Inf(1))
	if y := m.Scroller.Bounds().Y; y != maxY {
		t.Errorf("scroll past end: y = %g, want %g", y, maxY)
	}
	m.ScrollBy(math.Inf(-1))
	if y := m.Scroller.Bounds().Y; y != 0 {
		t.Errorf("scroll home: y = %g, want 0", y)
	}
}

func TestPreviewHorizontalScroll(t *testing.T) {
	m := newTestPreview(t, flow.NameHorizontal, 20, 50, 10)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(PreviewModel)
	b := m.Scroller.Bounds()
	if b.X != cellWidth || b.Y != 0 {
		t.Errorf("offset = %g,%g, want %g,0", b.X, b.Y, cellWidth)
	}
}

func TestPreviewUpdate(t *testing.T) {
	m := newTestPreview(t, flow.NameVertical, 20, 50, 10)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = next.(PreviewModel)
	if y := m.Scroller.Bounds().Y; y != cellHeight {
		t.Errorf("after j: y = %g, want %g", y, cellHeight)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 13})
	m = next.(PreviewModel)
	if m.Cols != 60 || m.Rows != 13-chromeRows {
		t.Errorf("after resize: %dx%d, want 60x%d", m.Cols, m.Rows, 13-chromeRows)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestPreviewView(t *testing.T) {
	m := newTestPreview(t, flow.NameColumns, 6, 50, 10)
	view := m.View()
	for _, want := range []string{"preview", flow.NameColumns, "item-0", "passes 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDrawCanvas(t *testing.T) {
	label := func(a grid.Attributes) string {
		if a.Category == grid.CategoryDecoration {
			return "hidden"
		}
		return a.Kind + "X"
	}
	elems := []grid.Attributes{
		{Category: grid.CategoryItem, Frame: grid.Rect{X: 0, Y: 16, Width: 48, Height: 48}},
		{Category: grid.CategorySupplementary, Kind: "header", Frame: grid.Rect{X: 0, Y: 0, Width: 80, Height: 16}},
		{Category: grid.CategoryDecoration, Kind: "separator", Frame: grid.Rect{X: 0, Y: 64, Width: 80, Height: 1}},
	}
	bounds := grid.Rect{Width: 80, Height: 96}

	lines := drawCanvas(elems, bounds, 10, 6, label)
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}
	if !strings.Contains(lines[0], "headerX") {
		t.Errorf("header row = %q, want label", lines[0])
	}
	if !strings.Contains(lines[1], "┌") || !strings.Contains(lines[1], "┐") {
		t.Errorf("item top row = %q, want box corners", lines[1])
	}
	if !strings.Contains(lines[2], "X") {
		t.Errorf("item label row = %q, want label", lines[2])
	}
	if !strings.Contains(lines[4], "░") {
		t.Errorf("separator row = %q, want decoration fill", lines[4])
	}
	for _, line := range lines {
		if strings.Contains(line, "hidden") {
			t.Errorf("decoration label drawn: %q", line)
		}
	}

	if got := drawCanvas(elems, bounds, 0, 6, label); got != nil {
		t.Errorf("zero columns: got %d lines, want nil", len(got))
	}
}

func TestCellSpan(t *testing.T) {
	tests := []struct {
		frame          grid.Rect
		bounds         grid.Rect
		x0, y0, x1, y1 int
	}{
		{grid.Rect{Width: 8, Height: 16}, grid.Rect{}, 0, 0, 0, 0},
		{grid.Rect{X: 8, Y: 16, Width: 24, Height: 32}, grid.Rect{}, 1, 1, 3, 2},
		{grid.Rect{X: 8, Y: 40, Width: 8, Height: 16}, grid.Rect{Y: 32}, 1, 0, 1, 1},
		{grid.Rect{X: 0, Y: 0, Width: 80, Height: 1}, grid.Rect{}, 0, 0, 9, 0},
	}
	for _, tt := range tests {
		x0, y0, x1, y1 := cellSpan(tt.frame, tt.bounds)
		if x0 != tt.x0 || y0 != tt.y0 || x1 != tt.x1 || y1 != tt.y1 {
			t.Errorf("cellSpan(%v, %v) = %d,%d,%d,%d, want %d,%d,%d,%d",
				tt.frame, tt.bounds, x0, y0, x1, y1, tt.x0, tt.y0, tt.x1, tt.y1)
		}
	}
}
