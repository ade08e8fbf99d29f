package listing

import (
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/grid/flow"
)

// Element kinds attached to items.
const (
	KindHeader    = "header"
	KindFooter    = "footer"
	KindSeparator = "separator"
)

// Defaults for the optional band sizes.
const (
	DefaultHeaderHeight = 24.0
	DefaultFooterHeight = 16.0
	SeparatorThickness  = 1.0
)

// Listing is an ordered set of sections, each holding ordered items.
type Listing struct {
	Title        string    `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	HeaderHeight float64   `json:"header_height,omitempty" yaml:"header_height,omitempty" toml:"header_height,omitempty"`
	FooterHeight float64   `json:"footer_height,omitempty" yaml:"footer_height,omitempty" toml:"footer_height,omitempty"`
	Separators   bool      `json:"separators,omitempty" yaml:"separators,omitempty" toml:"separators,omitempty"`
	Sections     []Section `json:"sections" yaml:"sections" toml:"sections"`
}

// Section groups items. Nil overrides decline, so the layout falls back to
// its defaults.
type Section struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	Header string `json:"header,omitempty" yaml:"header,omitempty" toml:"header,omitempty"`
	Footer string `json:"footer,omitempty" yaml:"footer,omitempty" toml:"footer,omitempty"`
	Items  []Item `json:"items" yaml:"items" toml:"items"`

	Inset            *grid.Insets `json:"inset,omitempty" yaml:"inset,omitempty" toml:"inset,omitempty"`
	LineSpacing      *float64     `json:"line_spacing,omitempty" yaml:"line_spacing,omitempty" toml:"line_spacing,omitempty"`
	InterItemSpacing *float64     `json:"inter_item_spacing,omitempty" yaml:"inter_item_spacing,omitempty" toml:"inter_item_spacing,omitempty"`
	Rows             *int         `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`
}

// Item is one cell. A zero Width and Height means the item has no
// preferred size.
type Item struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

func (l *Listing) section(s int) (*Section, bool) {
	if l == nil || s < 0 || s >= len(l.Sections) {
		return nil, false
	}
	return &l.Sections[s], true
}

// Item returns the item at idx.
func (l *Listing) Item(idx grid.Index) (Item, bool) {
	sec, ok := l.section(idx.Section)
	if !ok || idx.Item < 0 || idx.Item >= len(sec.Items) {
		return Item{}, false
	}
	return sec.Items[idx.Item], true
}

// Len returns the total number of items.
func (l *Listing) Len() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, s := range l.Sections {
		n += len(s.Items)
	}
	return n
}

// NumberOfSections implements grid.DataSource.
func (l *Listing) NumberOfSections() int {
	if l == nil {
		return 0
	}
	return len(l.Sections)
}

// NumberOfItems implements grid.DataSource.
func (l *Listing) NumberOfItems(section int) int {
	sec, ok := l.section(section)
	if !ok {
		return 0
	}
	return len(sec.Items)
}

// LineSpacing implements grid.Policy.
func (l *Listing) LineSpacing(section int) (float64, bool) {
	sec, ok := l.section(section)
	if !ok || sec.LineSpacing == nil {
		return 0, false
	}
	return *sec.LineSpacing, true
}

// InterItemSpacing implements grid.Policy.
func (l *Listing) InterItemSpacing(section int) (float64, bool) {
	sec, ok := l.section(section)
	if !ok || sec.InterItemSpacing == nil {
		return 0, false
	}
	return *sec.InterItemSpacing, true
}

// SectionInset implements grid.Policy. A section with a header or footer
// reserves the band height on top of its inset, starting from the
// engine default when the section sets no inset of its own. Use Policy
// when the layout runs with a different default inset.
func (l *Listing) SectionInset(section int) (grid.Insets, bool) {
	return l.sectionInset(section, grid.UniformInsets(grid.DefaultSpacing))
}

func (l *Listing) sectionInset(section int, base grid.Insets) (grid.Insets, bool) {
	sec, ok := l.section(section)
	if !ok {
		return grid.Insets{}, false
	}
	if sec.Inset == nil && sec.Header == "" && sec.Footer == "" {
		return grid.Insets{}, false
	}

	inset := base
	if sec.Inset != nil {
		inset = *sec.Inset
	}
	if sec.Header != "" {
		inset.Top += l.headerHeight()
	}
	if sec.Footer != "" {
		inset.Bottom += l.footerHeight()
	}
	return inset, true
}

// Policy returns the listing's spacing policy for a layout whose default
// section inset is base. Header and footer bands are added to base for
// sections without an inset of their own.
func (l *Listing) Policy(base grid.Insets) grid.Policy {
	return bandPolicy{l: l, base: base}
}

type bandPolicy struct {
	l    *Listing
	base grid.Insets
}

func (p bandPolicy) LineSpacing(section int) (float64, bool) {
	return p.l.LineSpacing(section)
}

func (p bandPolicy) InterItemSpacing(section int) (float64, bool) {
	return p.l.InterItemSpacing(section)
}

func (p bandPolicy) SectionInset(section int) (grid.Insets, bool) {
	return p.l.sectionInset(section, p.base)
}

// ItemSize implements flow.Sizer.
func (l *Listing) ItemSize(idx grid.Index) (grid.Size, bool) {
	it, ok := l.Item(idx)
	if !ok || (it.Width == 0 && it.Height == 0) {
		return grid.Size{}, false
	}
	return grid.Size{Width: it.Width, Height: it.Height}, true
}

// Rows implements flow.RowDelegate.
func (l *Listing) Rows(section int) (int, bool) {
	sec, ok := l.section(section)
	if !ok || sec.Rows == nil {
		return 0, false
	}
	return *sec.Rows, true
}

// ItemWidth implements flow.RowDelegate.
func (l *Listing) ItemWidth(idx grid.Index) (float64, bool) {
	it, ok := l.Item(idx)
	if !ok || it.Width == 0 {
		return 0, false
	}
	return it.Width, true
}

func (l *Listing) headerHeight() float64 {
	if l.HeaderHeight > 0 {
		return l.HeaderHeight
	}
	return DefaultHeaderHeight
}

func (l *Listing) footerHeight() float64 {
	if l.FooterHeight > 0 {
		return l.FooterHeight
	}
	return DefaultFooterHeight
}

// SupplementaryKinds lists the supplementary kinds this listing produces.
func (l *Listing) SupplementaryKinds() []string {
	var kinds []string
	var header, footer bool
	for _, s := range l.Sections {
		header = header || s.Header != ""
		footer = footer || s.Footer != ""
	}
	if header {
		kinds = append(kinds, KindHeader)
	}
	if footer {
		kinds = append(kinds, KindFooter)
	}
	return kinds
}

// DecorationKinds lists the decoration kinds this listing produces.
func (l *Listing) DecorationKinds() []string {
	if !l.Separators {
		return nil
	}
	return []string{KindSeparator}
}

// SupplementaryFrame implements grid.Supplementary. The header band sits
// directly above the first item of a section and the footer band directly
// below the last.
func (l *Listing) SupplementaryFrame(kind string, idx grid.Index, frame grid.Rect) (grid.Rect, bool) {
	sec, ok := l.section(idx.Section)
	if !ok {
		return grid.Rect{}, false
	}
	switch kind {
	case KindHeader:
		if sec.Header == "" || idx.Item != 0 {
			return grid.Rect{}, false
		}
		h := l.headerHeight()
		return grid.Rect{X: frame.X, Y: frame.Y - h, Width: frame.Width, Height: h}, true
	case KindFooter:
		if sec.Footer == "" || idx.Item != len(sec.Items)-1 {
			return grid.Rect{}, false
		}
		return grid.Rect{X: frame.X, Y: frame.MaxY(), Width: frame.Width, Height: l.footerHeight()}, true
	}
	return grid.Rect{}, false
}

// DecorationFrame implements grid.Decoration. Separators run along the
// bottom edge of every item except the last in its section.
func (l *Listing) DecorationFrame(kind string, idx grid.Index, frame grid.Rect) (grid.Rect, bool) {
	if kind != KindSeparator || !l.Separators {
		return grid.Rect{}, false
	}
	sec, ok := l.section(idx.Section)
	if !ok || idx.Item >= len(sec.Items)-1 {
		return grid.Rect{}, false
	}
	return grid.Rect{X: frame.X, Y: frame.MaxY(), Width: frame.Width, Height: SeparatorThickness}, true
}

// Label returns the display text for an element: the item title (or id)
// for items and the band text for headers and footers.
func (l *Listing) Label(a grid.Attributes) string {
	switch a.Category {
	case grid.CategoryItem:
		it, ok := l.Item(a.Index)
		if !ok {
			return ""
		}
		if it.Title != "" {
			return it.Title
		}
		return it.ID
	case grid.CategorySupplementary:
		sec, ok := l.section(a.Index.Section)
		if !ok {
			return ""
		}
		if a.Kind == KindHeader {
			return sec.Header
		}
		if a.Kind == KindFooter {
			return sec.Footer
		}
	}
	return ""
}

// Options returns the grid options that bind this listing as the layout's
// policy and element providers, assuming the engine's default spacing.
// Layouts built WithSpacing should bind Policy with their inset instead.
func (l *Listing) Options() []grid.Option {
	opts := []grid.Option{grid.WithPolicy(l)}
	if kinds := l.SupplementaryKinds(); len(kinds) > 0 {
		opts = append(opts, grid.WithSupplementary(l, kinds...))
	}
	if kinds := l.DecorationKinds(); len(kinds) > 0 {
		opts = append(opts, grid.WithDecoration(l, kinds...))
	}
	return opts
}

// FlowConfig returns a flow.Config that sizes items from this listing.
func (l *Listing) FlowConfig() flow.Config {
	return flow.Config{Sizer: l, Rows: l}
}

var (
	_ grid.DataSource    = (*Listing)(nil)
	_ grid.Policy        = (*Listing)(nil)
	_ grid.Policy        = bandPolicy{}
	_ grid.Supplementary = (*Listing)(nil)
	_ grid.Decoration    = (*Listing)(nil)
	_ flow.Sizer         = (*Listing)(nil)
	_ flow.RowDelegate   = (*Listing)(nil)
)
