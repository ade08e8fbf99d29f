package listing

import (
	"fmt"

	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
)

// Validate checks identifiers, dimensions and overrides. Section ids are
// unique across the listing; item ids are unique within their section.
// Empty sections are allowed.
func (l *Listing) Validate() error {
	if err := errors.ValidateDimension("header_height", l.HeaderHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidListing, err, "listing")
	}
	if err := errors.ValidateDimension("footer_height", l.FooterHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidListing, err, "listing")
	}

	sections := make(map[string]int, len(l.Sections))
	for s, sec := range l.Sections {
		if err := errors.ValidateIdentifier(sec.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidListing, err, "section %d", s)
		}
		if prev, dup := sections[sec.ID]; dup {
			return errors.New(errors.ErrCodeInvalidListing, "section %d: duplicate id %q (first used by section %d)", s, sec.ID, prev)
		}
		sections[sec.ID] = s

		if err := sec.validateOverrides(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidListing, err, "section %s", sec.ID)
		}

		items := make(map[string]bool, len(sec.Items))
		for i, it := range sec.Items {
			if err := errors.ValidateIdentifier(it.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidListing, err, "section %s item %d", sec.ID, i)
			}
			if items[it.ID] {
				return errors.New(errors.ErrCodeInvalidListing, "section %s: duplicate item id %q", sec.ID, it.ID)
			}
			items[it.ID] = true

			if err := errors.ValidateDimension("width", it.Width); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidListing, err, "item %s/%s", sec.ID, it.ID)
			}
			if err := errors.ValidateDimension("height", it.Height); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidListing, err, "item %s/%s", sec.ID, it.ID)
			}
		}
	}
	return nil
}

func (s Section) validateOverrides() error {
	if s.LineSpacing != nil {
		if err := errors.ValidateDimension("line_spacing", *s.LineSpacing); err != nil {
			return err
		}
	}
	if s.InterItemSpacing != nil {
		if err := errors.ValidateDimension("inter_item_spacing", *s.InterItemSpacing); err != nil {
			return err
		}
	}
	if s.Inset != nil {
		if err := validateInsets(*s.Inset); err != nil {
			return err
		}
	}
	if s.Rows != nil && *s.Rows < 1 {
		return fmt.Errorf("rows must be at least 1 (got %d)", *s.Rows)
	}
	return nil
}

func validateInsets(in grid.Insets) error {
	for _, side := range []struct {
		name string
		v    float64
	}{
		{"inset.top", in.Top},
		{"inset.left", in.Left},
		{"inset.bottom", in.Bottom},
		{"inset.right", in.Right},
	} {
		if err := errors.ValidateDimension(side.name, side.v); err != nil {
			return err
		}
	}
	return nil
}
