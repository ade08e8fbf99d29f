package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/speedui/gridkit/pkg/grid"
)

// Terminal cells are mapped onto layout points at a fixed scale.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// chromeRows is the number of terminal rows used by the title, the
	// status line and the key help.
	chromeRows = 3
)

// Preview styles
var (
	previewItemStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	previewBandStyle  = lipgloss.NewStyle().Foreground(colorBlue)
	previewDecorStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// PreviewModel - Interactive layout viewport
// =============================================================================

// PreviewModel is the bubbletea model behind 'gridkit preview'. It hosts a
// live grid.Layout: the terminal window is the viewport, so resizing the
// window goes through invalidation and offset correction exactly as a
// scroll view would.
type PreviewModel struct {
	Layout   *grid.Layout
	Scroller *grid.FixedScroller
	Label    func(grid.Attributes) string
	Strategy string

	Cols int
	Rows int

	// Passes counts the prepare passes triggered by resizes; Corrections
	// counts the offset corrections that followed.
	Passes      int
	Corrections int

	Err error
}

// NewPreviewModel creates a preview over an attached, prepared layout.
func NewPreviewModel(g *grid.Layout, s *grid.FixedScroller, label func(grid.Attributes) string, strategy string) PreviewModel {
	if label == nil {
		label = func(grid.Attributes) string { return "" }
	}
	b := s.Bounds()
	return PreviewModel{
		Layout:   g,
		Scroller: s,
		Label:    label,
		Strategy: strategy,
		Cols:     int(b.Width / cellWidth),
		Rows:     int(b.Height / cellHeight),
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m = m.Resize(msg.Width, msg.Height-chromeRows)
	}
	return m, nil
}

func (m PreviewModel) handleKey(key string) (tea.Model, tea.Cmd) {
	b := m.Scroller.Bounds()
	line, page := cellHeight, b.Height
	if m.Layout.Axis() == grid.AxisHorizontal {
		line, page = cellWidth, b.Width
	}

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k", "left", "h":
		m.ScrollBy(-line)
	case "down", "j", "right", "l":
		m.ScrollBy(line)
	case "pgup", "b":
		m.ScrollBy(-page)
	case "pgdown", " ", "f":
		m.ScrollBy(page)
	case "home", "g":
		m.ScrollBy(math.Inf(-1))
	case "end", "G":
		m.ScrollBy(math.Inf(1))
	case "p":
		m.Layout.SetPaging(!m.Layout.Paging())
		m = m.prepare()
	}
	return m, nil
}

// Resize moves the viewport to a cols x rows window. A pass is run only
// when the cross-axis extent changed; the offset is corrected afterwards
// in either case.
func (m PreviewModel) Resize(cols, rows int) PreviewModel {
	cols, rows = max(1, cols), max(1, rows)
	size := grid.Size{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight}
	next := grid.NewRect(m.Scroller.Bounds().Origin(), size)

	invalidate := m.Layout.ShouldInvalidate(next)
	m.Scroller.Resize(size)
	m.Cols, m.Rows = cols, rows
	if invalidate {
		return m.prepare()
	}
	if m.Layout.CorrectOffset() {
		m.Corrections++
	}
	return m
}

func (m PreviewModel) prepare() PreviewModel {
	m.Err = m.Layout.Prepare()
	m.Passes++
	if m.Layout.CorrectOffset() {
		m.Corrections++
	}
	return m
}

// ScrollBy moves the offset along the flow axis and clamps it to the
// content. Scrolling never goes past the end, paging or not.
func (m PreviewModel) ScrollBy(delta float64) {
	b := m.Scroller.Bounds()
	content := m.Layout.ContentSize()
	offset := b.Origin()
	if m.Layout.Axis() == grid.AxisHorizontal {
		offset.X = clamp(offset.X+delta, 0, grid.MaxOffset(content.Width, b.Width))
	} else {
		offset.Y = clamp(offset.Y+delta, 0, grid.MaxOffset(content.Height, b.Height))
	}
	m.Scroller.ScrollTo(offset)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (m PreviewModel) View() string {
	var b strings.Builder

	bounds := m.Scroller.Bounds()
	elems := m.Layout.ElementsIn(bounds)
	content := m.Layout.ContentSize()

	title := StyleTitle.Render(appName+" preview") + " " + StyleDim.Render(m.Strategy)
	if m.Layout.Paging() {
		title += " " + StyleWarning.Render("paging")
	}
	b.WriteString(title)
	b.WriteString("\n")

	for _, line := range drawCanvas(elems, bounds, m.Cols, m.Rows, m.Label) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.Err != nil {
		b.WriteString(previewErrStyle.Render(m.Err.Error()))
	} else {
		b.WriteString(StyleDim.Render(fmt.Sprintf("offset %g,%g  viewport %gx%g  content %gx%g  visible %d  passes %d  corrected %d",
			bounds.X, bounds.Y, bounds.Width, bounds.Height, content.Width, content.Height,
			len(elems), m.Passes, m.Corrections)))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ scroll  pgup/pgdn page  g/G ends  p paging  q quit"))

	return b.String()
}

// =============================================================================
// Canvas
// =============================================================================

// drawCanvas rasterizes elements onto a cols x rows character grid whose
// origin is the top-left corner of bounds. Items are drawn as boxes with
// their label, supplementary bands as filled bars and decorations as
// shaded strips. Later elements overdraw earlier ones.
func drawCanvas(elems []grid.Attributes, bounds grid.Rect, cols, rows int, label func(grid.Attributes) string) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cells := make([][]rune, rows)
	styles := make([][]*lipgloss.Style, rows)
	for r := range cells {
		cells[r] = []rune(strings.Repeat(" ", cols))
		styles[r] = make([]*lipgloss.Style, cols)
	}

	set := func(x, y int, ch rune, st *lipgloss.Style) {
		if x < 0 || y < 0 || x >= cols || y >= rows {
			return
		}
		cells[y][x] = ch
		styles[y][x] = st
	}

	for _, a := range elems {
		x0, y0, x1, y1 := cellSpan(a.Frame, bounds)
		if x1 < x0 || y1 < y0 {
			continue
		}
		switch a.Category {
		case grid.CategoryItem:
			drawBox(set, x0, y0, x1, y1, &previewItemStyle)
		case grid.CategorySupplementary:
			fill(set, x0, y0, x1, y1, '▒', &previewBandStyle)
		default:
			fill(set, x0, y0, x1, y1, '░', &previewDecorStyle)
		}
		if text := label(a); text != "" && a.Category != grid.CategoryDecoration {
			drawLabel(set, text, x0, y0, x1, y1, a.Category == grid.CategoryItem)
		}
	}

	out := make([]string, rows)
	for r := range cells {
		var line strings.Builder
		for c, ch := range cells[r] {
			if st := styles[r][c]; st != nil {
				line.WriteString(st.Render(string(ch)))
			} else {
				line.WriteRune(ch)
			}
		}
		out[r] = line.String()
	}
	return out
}

// cellSpan returns the inclusive cell range covered by frame relative to
// bounds.
func cellSpan(frame, bounds grid.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor((frame.X - bounds.X) / cellWidth))
	y0 = int(math.Floor((frame.Y - bounds.Y) / cellHeight))
	x1 = int(math.Ceil((frame.MaxX()-bounds.X)/cellWidth)) - 1
	y1 = int(math.Ceil((frame.MaxY()-bounds.Y)/cellHeight)) - 1
	return x0, y0, max(x0, x1), max(y0, y1)
}

type setFunc func(x, y int, ch rune, st *lipgloss.Style)

func drawBox(set setFunc, x0, y0, x1, y1 int, st *lipgloss.Style) {
	if x0 == x1 || y0 == y1 {
		fill(set, x0, y0, x1, y1, '█', st)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		set(x, y0, '─', st)
		set(x, y1, '─', st)
	}
	for y := y0 + 1; y < y1; y++ {
		set(x0, y, '│', st)
		set(x1, y, '│', st)
	}
	set(x0, y0, '┌', st)
	set(x1, y0, '┐', st)
	set(x0, y1, '└', st)
	set(x1, y1, '┘', st)
}

func fill(set setFunc, x0, y0, x1, y1 int, ch rune, st *lipgloss.Style) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			set(x, y, ch, st)
		}
	}
}

// drawLabel writes text on the first inner row of a box (or the first row
// of a bar), truncated to the available width.
func drawLabel(set setFunc, text string, x0, y0, x1, y1 int, boxed bool) {
	row, left, right := y0, x0, x1
	if boxed && y1-y0 >= 2 && x1-x0 >= 2 {
		row, left, right = y0+1, x0+1, x1-1
	}
	runes := []rune(text)
	if n := right - left + 1; len(runes) > n {
		runes = runes[:max(0, n)]
	}
	for i, ch := range runes {
		set(left+i, row, ch, &previewItemStyle)
	}
}
