package flow

import (
	"fmt"

	"github.com/speedui/gridkit/pkg/grid"
)

// Strategy names accepted by Build.
const (
	NameVertical   = "vertical"
	NameHorizontal = "horizontal"
	NameFixedRows  = "rows"
	NameColumns    = "columns"
)

// Names lists the registered strategies in display order.
var Names = []string{NameVertical, NameHorizontal, NameFixedRows, NameColumns}

// Config carries the collaborators a named strategy may need.
type Config struct {
	Sizer       Sizer
	Rows        RowDelegate
	DefaultRows int
	Columns     int
	DefaultSize grid.Size
}

// Build returns the strategy registered under name.
func Build(name string, cfg Config) (grid.Strategy, error) {
	switch name {
	case NameVertical, "":
		return Vertical{Sizer: cfg.Sizer, DefaultSize: cfg.DefaultSize}, nil
	case NameHorizontal:
		return Horizontal{Sizer: cfg.Sizer, DefaultSize: cfg.DefaultSize}, nil
	case NameFixedRows:
		return FixedRows{Delegate: cfg.Rows, DefaultRows: cfg.DefaultRows}, nil
	case NameColumns:
		return Columns{Count: cfg.Columns, Sizer: cfg.Sizer}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (must be one of: vertical, horizontal, rows, columns)", name)
	}
}

// Valid reports whether name is a registered strategy.
func Valid(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
