package grid

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Option configures a Layout.
type Option func(*Layout)

// WithPolicy sets the spacing/inset policy.
func WithPolicy(p Policy) Option { return func(l *Layout) { l.resolver.policy = p } }

// WithSpacing sets the engine-level defaults used when the policy declines.
func WithSpacing(s Spacing) Option { return func(l *Layout) { l.resolver.defaults = s } }

// WithLogger sets the logger used for diagnostics.
func WithLogger(lg *log.Logger) Option {
	return func(l *Layout) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithPaging enables paging behavior.
func WithPaging(enabled bool) Option { return func(l *Layout) { l.paging = enabled } }

// WithStrict makes Prepare fail with ErrUnimplemented instead of publishing a
// pass that relied on zero geometry from an unimplemented hook.
func WithStrict() Option { return func(l *Layout) { l.strict = true } }

// WithSupplementary registers the supplementary kinds appended to rectangle
// queries and the provider that resolves them.
func WithSupplementary(p Supplementary, kinds ...string) Option {
	return func(l *Layout) {
		l.supplementary = p
		l.supplementaryKinds = slices.Clone(kinds)
	}
}

// WithDecoration registers the decoration kinds appended to rectangle
// queries and the provider that resolves them.
func WithDecoration(p Decoration, kinds ...string) Option {
	return func(l *Layout) {
		l.decoration = p
		l.decorationKinds = slices.Clone(kinds)
	}
}

// Layout is the grid layout engine. It computes one rectangle per item in a
// Prepare pass and answers queries from the published result without
// recomputing.
//
// Prepare calls are serialized. Each completed pass is published as an
// immutable snapshot, so queries may run concurrently with Prepare and never
// observe a partially rebuilt cache.
type Layout struct {
	strategy Strategy
	resolver resolver
	logger   *log.Logger
	strict   bool

	supplementary      Supplementary
	supplementaryKinds []string
	decoration         Decoration
	decorationKinds    []string

	mu        sync.Mutex
	view      View
	paging    bool
	oldBounds Rect

	snap atomic.Pointer[snapshot]
}

// New creates a layout driven by strategy. A nil strategy falls back to
// BaseStrategy, which logs an error for every hook and yields zero geometry.
func New(strategy Strategy, opts ...Option) *Layout {
	if strategy == nil {
		strategy = BaseStrategy{}
	}
	l := &Layout{
		strategy: strategy,
		resolver: resolver{defaults: DefaultSpacingValues()},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.snap.Store(&snapshot{})
	return l
}

// Attach connects the layout to its host view.
func (l *Layout) Attach(v View) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = v
}

// Detach disconnects the host view. The published snapshot is kept until
// the next Prepare.
func (l *Layout) Detach() { l.Attach(nil) }

// SetPaging toggles paging. It takes effect on the next Prepare and
// CorrectOffset.
func (l *Layout) SetPaging(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paging = enabled
}

// Paging reports whether paging is enabled.
func (l *Layout) Paging() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paging
}

// Axis returns the strategy's flow axis.
func (l *Layout) Axis() Axis {
	if d, ok := l.strategy.(Directional); ok {
		return d.Axis()
	}
	return AxisVertical
}

// Strategy returns the geometry strategy.
func (l *Layout) Strategy() Strategy { return l.strategy }

// Logger returns the diagnostics logger.
func (l *Layout) Logger() *log.Logger { return l.logger }

// LineSpacing resolves the line spacing for a section.
func (l *Layout) LineSpacing(section int) float64 { return l.resolver.lineSpacing(section) }

// InterItemSpacing resolves the inter-item spacing for a section.
func (l *Layout) InterItemSpacing(section int) float64 {
	return l.resolver.interItemSpacing(section)
}

// SectionInset resolves the inset for a section.
func (l *Layout) SectionInset(section int) Insets { return l.resolver.sectionInset(section) }

// Prepare recomputes every item rectangle and section size. It first asks the
// host for fast deceleration when paging and normal deceleration otherwise.
//
// Without an attached view the published result is emptied and Prepare
// returns nil. In strict mode a pass that hit an unimplemented hook is
// discarded and the error wraps ErrUnimplemented; otherwise Prepare never
// fails.
func (l *Layout) Prepare() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.view == nil {
		l.snap.Store(&snapshot{})
		return nil
	}

	if l.paging {
		l.view.SetDeceleration(DecelerationFast)
	} else {
		l.view.SetDeceleration(DecelerationNormal)
	}

	p := &pass{layout: l, view: l.view, bounds: l.view.Bounds(), snap: &snapshot{}}
	p.run()

	if p.unimplemented > 0 {
		if l.strict {
			return fmt.Errorf("prepare %d sections: %w", p.sections, ErrUnimplemented)
		}
		l.logger.Warn("layout used zero geometry for unimplemented hooks", "calls", p.unimplemented)
	}

	if cs, ok := l.strategy.(ContentSizer); ok {
		p.snap.content = cs.ContentSize(p)
	} else {
		p.snap.content = p.snap.bounding()
	}

	l.snap.Store(p.snap)
	l.logger.Debug("prepared layout",
		"sections", len(p.snap.sizes),
		"items", p.snap.count,
		"content", fmt.Sprintf("%gx%g", p.snap.content.Width, p.snap.content.Height))
	return nil
}

// ItemAt returns the attributes cached for idx. It reports false for an
// index that was not placed by the last pass.
func (l *Layout) ItemAt(idx Index) (Attributes, bool) {
	r, ok := l.snap.Load().item(idx)
	if !ok {
		return Attributes{}, false
	}
	return Attributes{Category: CategoryItem, Index: idx, Frame: r}, true
}

// ElementsIn returns every cached item whose rectangle intersects rect,
// each followed by its supplementary and decoration elements. The order of
// items is unspecified.
func (l *Layout) ElementsIn(rect Rect) []Attributes {
	s := l.snap.Load()
	var out []Attributes
	for sec, items := range s.items {
		for i, r := range items {
			if !rect.Intersects(r) {
				continue
			}
			idx := Index{Section: sec, Item: i}
			out = append(out, Attributes{Category: CategoryItem, Index: idx, Frame: r})
			out = l.appendExtras(out, idx, r)
		}
	}
	return out
}

func (l *Layout) appendExtras(out []Attributes, idx Index, frame Rect) []Attributes {
	if l.supplementary != nil {
		for _, kind := range l.supplementaryKinds {
			if r, ok := l.supplementary.SupplementaryFrame(kind, idx, frame); ok {
				out = append(out, Attributes{Category: CategorySupplementary, Kind: kind, Index: idx, Frame: r})
			}
		}
	}
	if l.decoration != nil {
		for _, kind := range l.decorationKinds {
			if r, ok := l.decoration.DecorationFrame(kind, idx, frame); ok {
				out = append(out, Attributes{Category: CategoryDecoration, Kind: kind, Index: idx, Frame: r})
			}
		}
	}
	return out
}

// Items returns every cached item in index order.
func (l *Layout) Items() []Attributes {
	s := l.snap.Load()
	out := make([]Attributes, 0, s.count)
	for sec, items := range s.items {
		for i, r := range items {
			out = append(out, Attributes{Category: CategoryItem, Index: Index{Section: sec, Item: i}, Frame: r})
		}
	}
	return out
}

// Extras returns the supplementary and decoration elements of every cached
// item, in index order.
func (l *Layout) Extras() []Attributes {
	var out []Attributes
	for _, a := range l.Items() {
		out = l.appendExtras(out, a.Index, a.Frame)
	}
	return out
}

// SectionSize returns the bounding (maxX, maxY) recorded for a section.
func (l *Layout) SectionSize(section int) (Size, bool) {
	s := l.snap.Load()
	if section < 0 || section >= len(s.sizes) {
		return Size{}, false
	}
	return s.sizes[section], true
}

// Sections returns the number of sections in the last pass.
func (l *Layout) Sections() int { return len(l.snap.Load().sizes) }

// Len returns the number of items in the last pass.
func (l *Layout) Len() int { return l.snap.Load().count }

// ContentSize returns the scrollable content size of the last pass.
func (l *Layout) ContentSize() Size { return l.snap.Load().content }

// snapshot is the immutable result of one pass. items is indexed by section
// then item; sizes holds one entry per section.
type snapshot struct {
	items   [][]Rect
	sizes   []Size
	content Size
	count   int
}

func (s *snapshot) item(idx Index) (Rect, bool) {
	if idx.Section < 0 || idx.Section >= len(s.items) {
		return Rect{}, false
	}
	items := s.items[idx.Section]
	if idx.Item < 0 || idx.Item >= len(items) {
		return Rect{}, false
	}
	return items[idx.Item], true
}

// fold widens the section's bounding size by r, creating the entry on the
// first item.
func (s *snapshot) fold(section int, r Rect) {
	ext := r.Extent()
	if section == len(s.sizes) {
		s.sizes = append(s.sizes, ext)
		return
	}
	cur := &s.sizes[section]
	cur.Width = math.Max(cur.Width, ext.Width)
	cur.Height = math.Max(cur.Height, ext.Height)
}

func (s *snapshot) bounding() Size {
	var out Size
	for _, sz := range s.sizes {
		out.Width = math.Max(out.Width, sz.Width)
		out.Height = math.Max(out.Height, sz.Height)
	}
	return out
}
