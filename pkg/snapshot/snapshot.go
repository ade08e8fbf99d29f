package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/listing"
)

// Version is the current wire format version.
const Version = 1

// Element categories on the wire.
const (
	CategoryItem          = "item"
	CategorySupplementary = "supplementary"
	CategoryDecoration    = "decoration"
)

// =============================================================================
// Layout - Serialized Pass Result
// =============================================================================

// Layout is the serialized result of one layout pass: every placed item
// and band, the section extents, and the viewport the pass ran against.
//
// Layouts are plain data. They are written to disk by the CLI, cached by
// the pipeline, stored by the API and read back by the renderers, none of
// which need a live engine.
type Layout struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Version   int       `json:"version" bson:"version"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Strategy  string    `json:"strategy" bson:"strategy"`
	Axis      string    `json:"axis" bson:"axis"`
	Paging    bool      `json:"paging,omitempty" bson:"paging,omitempty"`
	Viewport  Rect      `json:"viewport" bson:"viewport"`
	Content   Size      `json:"content" bson:"content"`
	Sections  []Section `json:"sections" bson:"sections"`
	Items     []Element `json:"items" bson:"items"`
	Extras    []Element `json:"extras,omitempty" bson:"extras,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Rect is a serialized rectangle.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Size is a serialized extent.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Section is the bounding extent recorded for one section.
type Section struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	Items  int     `json:"items" bson:"items"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Element is one placed item or band.
type Element struct {
	Category string  `json:"category" bson:"category"`
	Kind     string  `json:"kind,omitempty" bson:"kind,omitempty"`
	Section  int     `json:"section" bson:"section"`
	Item     int     `json:"item" bson:"item"`
	ID       string  `json:"id,omitempty" bson:"id,omitempty"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
}

// Frame returns the element rectangle.
func (e Element) Frame() grid.Rect {
	return grid.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Index returns the item index the element belongs to.
func (e Element) Index() grid.Index { return grid.IndexOf(e.Section, e.Item) }

// IsItem reports whether the element is an item rather than a band.
func (e Element) IsItem() bool { return e.Category == CategoryItem }

// ToGrid converts a serialized rectangle.
func (r Rect) ToGrid() grid.Rect {
	return grid.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rectFrom(r grid.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// =============================================================================
// Conversion
// =============================================================================

// Source describes the pass a snapshot is taken from.
type Source struct {
	Strategy string
	Viewport grid.Rect
	Listing  *listing.Listing
}

// FromGrid captures the current snapshot of g. Items are listed in index
// order; extras follow the item that owns them.
func FromGrid(g *grid.Layout, src Source) *Layout {
	out := &Layout{
		Version:   Version,
		Strategy:  src.Strategy,
		Axis:      g.Axis().String(),
		Paging:    g.Paging(),
		Viewport:  rectFrom(src.Viewport),
		CreatedAt: time.Now().UTC(),
	}
	if src.Listing != nil {
		out.Title = src.Listing.Title
	}

	content := g.ContentSize()
	out.Content = Size{Width: content.Width, Height: content.Height}

	out.Sections = make([]Section, g.Sections())
	for s := range out.Sections {
		sz, _ := g.SectionSize(s)
		sec := Section{Width: sz.Width, Height: sz.Height}
		if src.Listing != nil && s < len(src.Listing.Sections) {
			sec.ID = src.Listing.Sections[s].ID
		}
		out.Sections[s] = sec
	}

	items := g.Items()
	out.Items = make([]Element, 0, len(items))
	for _, a := range items {
		out.Items = append(out.Items, element(a, src.Listing))
		out.Sections[a.Index.Section].Items++
	}
	for _, a := range g.Extras() {
		out.Extras = append(out.Extras, element(a, src.Listing))
	}
	return out
}

func element(a grid.Attributes, lst *listing.Listing) Element {
	e := Element{
		Category: a.Category.String(),
		Kind:     a.Kind,
		Section:  a.Index.Section,
		Item:     a.Index.Item,
		X:        a.Frame.X,
		Y:        a.Frame.Y,
		Width:    a.Frame.Width,
		Height:   a.Frame.Height,
	}
	if lst != nil {
		if it, ok := lst.Item(a.Index); ok {
			e.ID = it.ID
		}
		e.Label = lst.Label(a)
	}
	return e
}

// =============================================================================
// Queries
// =============================================================================

// Len returns the number of items.
func (l *Layout) Len() int { return len(l.Items) }

// ItemAt returns the item at idx.
func (l *Layout) ItemAt(idx grid.Index) (Element, bool) {
	for _, e := range l.Items {
		if e.Section == idx.Section && e.Item == idx.Item {
			return e, true
		}
	}
	return Element{}, false
}

// Intersecting mirrors grid.Layout.ElementsIn over a stored snapshot:
// every item whose frame intersects rect, each followed by its extras.
func (l *Layout) Intersecting(rect grid.Rect) []Element {
	extras := make(map[grid.Index][]Element, len(l.Extras))
	for _, e := range l.Extras {
		extras[e.Index()] = append(extras[e.Index()], e)
	}

	var out []Element
	for _, e := range l.Items {
		if !rect.Intersects(e.Frame()) {
			continue
		}
		out = append(out, e)
		out = append(out, extras[e.Index()]...)
	}
	return out
}

// Elements returns items followed by extras.
func (l *Layout) Elements() []Element {
	out := make([]Element, 0, len(l.Items)+len(l.Extras))
	out = append(out, l.Items...)
	return append(out, l.Extras...)
}

// Bounds returns the rectangle covering the content and every element,
// including bands that hang outside the content size.
func (l *Layout) Bounds() grid.Rect {
	r := grid.Rect{Width: l.Content.Width, Height: l.Content.Height}
	for _, e := range l.Elements() {
		r.Width = max(r.Width, e.X+e.Width)
		r.Height = max(r.Height, e.Y+e.Height)
	}
	return r
}

// Validate checks the structural invariants a reader relies on.
func (l *Layout) Validate() error {
	if l.Version < 1 || l.Version > Version {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported layout version %d", l.Version)
	}
	counts := make([]int, len(l.Sections))
	for _, e := range l.Items {
		if e.Category != CategoryItem {
			return errors.New(errors.ErrCodeInvalidInput, "items: element %d,%d has category %q", e.Section, e.Item, e.Category)
		}
		if e.Section < 0 || e.Section >= len(l.Sections) {
			return errors.New(errors.ErrCodeInvalidInput, "items: element %d,%d references unknown section", e.Section, e.Item)
		}
		if e.Width < 0 || e.Height < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "items: element %d,%d has a negative size", e.Section, e.Item)
		}
		counts[e.Section]++
	}
	for s, sec := range l.Sections {
		if sec.Items != counts[s] {
			return errors.New(errors.ErrCodeInvalidInput, "section %d declares %d items, found %d", s, sec.Items, counts[s])
		}
	}
	for _, e := range l.Extras {
		if e.Category != CategorySupplementary && e.Category != CategoryDecoration {
			return errors.New(errors.ErrCodeInvalidInput, "extras: element %d,%d has category %q", e.Section, e.Item, e.Category)
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes and validates JSON bytes.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l *Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
