package grid

import "github.com/charmbracelet/log"

// pass is one run of the prepare algorithm and the Env handed to strategies.
type pass struct {
	layout *Layout
	view   View
	bounds Rect
	snap   *snapshot

	sections      int
	counts        []int
	unimplemented int
	reported      map[string]bool
}

func (p *pass) run() {
	p.sections = p.view.NumberOfSections()
	if p.sections <= 0 {
		p.sections = 0
		return
	}

	p.counts = make([]int, p.sections)
	p.snap.items = make([][]Rect, p.sections)
	p.snap.sizes = make([]Size, 0, p.sections)

	for s := range p.counts {
		p.counts[s] = max(p.view.NumberOfItems(s), 0)
	}

	st := p.layout.strategy
	for s, n := range p.counts {
		if n == 0 {
			p.snap.sizes = append(p.snap.sizes, Size{})
			continue
		}

		p.snap.items[s] = make([]Rect, 0, n)
		for i := 0; i < n; i++ {
			idx := Index{Section: s, Item: i}

			var origin Point
			if i == 0 {
				origin = st.FirstItemOrigin(p, idx)
			} else {
				origin = st.NextItemOrigin(p, idx)
			}
			r := NewRect(origin, st.ItemSize(p, idx))

			p.snap.items[s] = append(p.snap.items[s], r)
			p.snap.fold(s, r)
			p.snap.count++
		}
	}
}

func (p *pass) Viewport() Rect { return p.bounds }

func (p *pass) Sections() int { return p.sections }

// Items returns the item count read from the data source when the pass began.
func (p *pass) Items(section int) int {
	if section < 0 || section >= len(p.counts) {
		return 0
	}
	return p.counts[section]
}

func (p *pass) LineSpacing(section int) float64 { return p.layout.resolver.lineSpacing(section) }

func (p *pass) InterItemSpacing(section int) float64 {
	return p.layout.resolver.interItemSpacing(section)
}

func (p *pass) SectionInset(section int) Insets { return p.layout.resolver.sectionInset(section) }

func (p *pass) Item(idx Index) (Rect, bool) { return p.snap.item(idx) }

func (p *pass) SectionSize(section int) (Size, bool) {
	if section < 0 || section >= len(p.snap.sizes) {
		return Size{}, false
	}
	return p.snap.sizes[section], true
}

func (p *pass) Unimplemented(hook string, idx Index) {
	p.unimplemented++
	if p.reported == nil {
		p.reported = make(map[string]bool)
	}
	if p.reported[hook] {
		return
	}
	p.reported[hook] = true
	p.layout.logger.Error("strategy hook must be implemented by a concrete strategy",
		"hook", hook, "index", idx.String())
}

func (p *pass) Logger() *log.Logger { return p.layout.logger }

var _ Env = (*pass)(nil)
