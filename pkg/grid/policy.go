package grid

// DefaultSpacing is the engine-level fallback for line spacing, inter-item
// spacing and every side of the section inset.
const DefaultSpacing = 5.0

// Policy supplies per-section spacing and insets. Each method may decline
// by returning ok == false, in which case the engine default applies.
//
// Policies are consulted once per item during a prepare pass and must be
// cheap, side-effect free lookups.
type Policy interface {
	// LineSpacing is the gap between consecutive lines (rows in a vertical
	// flow, columns in a horizontal flow).
	LineSpacing(section int) (float64, bool)
	// InterItemSpacing is the gap between consecutive items within a line.
	InterItemSpacing(section int) (float64, bool)
	// SectionInset is the padding around a section's items.
	SectionInset(section int) (Insets, bool)
}

// PolicyFuncs adapts plain functions to a Policy. A nil function declines.
type PolicyFuncs struct {
	Line  func(section int) (float64, bool)
	Inter func(section int) (float64, bool)
	Inset func(section int) (Insets, bool)
}

// LineSpacing implements Policy.
func (p PolicyFuncs) LineSpacing(section int) (float64, bool) {
	if p.Line == nil {
		return 0, false
	}
	return p.Line(section)
}

// InterItemSpacing implements Policy.
func (p PolicyFuncs) InterItemSpacing(section int) (float64, bool) {
	if p.Inter == nil {
		return 0, false
	}
	return p.Inter(section)
}

// SectionInset implements Policy.
func (p PolicyFuncs) SectionInset(section int) (Insets, bool) {
	if p.Inset == nil {
		return Insets{}, false
	}
	return p.Inset(section)
}

var _ Policy = PolicyFuncs{}

// Spacing holds the engine-level defaults used when the policy declines.
type Spacing struct {
	Line   float64
	Inter  float64
	Insets Insets
}

// DefaultSpacingValues returns the stock defaults.
func DefaultSpacingValues() Spacing {
	return Spacing{
		Line:   DefaultSpacing,
		Inter:  DefaultSpacing,
		Insets: UniformInsets(DefaultSpacing),
	}
}

// resolver applies policy → default precedence.
type resolver struct {
	policy   Policy
	defaults Spacing
}

func (r resolver) lineSpacing(section int) float64 {
	if r.policy != nil {
		if v, ok := r.policy.LineSpacing(section); ok {
			return v
		}
	}
	return r.defaults.Line
}

func (r resolver) interItemSpacing(section int) float64 {
	if r.policy != nil {
		if v, ok := r.policy.InterItemSpacing(section); ok {
			return v
		}
	}
	return r.defaults.Inter
}

func (r resolver) sectionInset(section int) Insets {
	if r.policy != nil {
		if v, ok := r.policy.SectionInset(section); ok {
			return v
		}
	}
	return r.defaults.Insets
}
