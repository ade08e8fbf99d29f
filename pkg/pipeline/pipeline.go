// Package pipeline provides the load → layout → render pipeline for gridkit.
//
// This package implements the complete pipeline that the CLI, the HTTP API
// and the terminal preview share. By centralizing this logic, every entry
// point resolves defaults, builds strategies, and keys the cache the same
// way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode and validate a listing (JSON, YAML or TOML)
//  2. Layout: Run one prepare pass and capture a [snapshot.Layout]
//  3. Render: Generate artifacts (SVG, JSON, DOT, flow SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:    "photos.yaml",
//	    Strategy: "columns",
//	    Columns:  3,
//	    Formats:  []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	lst, err := pipeline.Load(opts)
//	layout, err := runner.Layout(ctx, lst, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
//
// [snapshot.Layout]: github.com/speedui/gridkit/pkg/snapshot.Layout
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/speedui/gridkit/pkg/cache"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/grid/flow"
	"github.com/speedui/gridkit/pkg/listing"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Preview
// =============================================================================

const (
	// DefaultStrategy is the strategy used when none is named.
	DefaultStrategy = flow.NameVertical

	// DefaultWidth is the default viewport width.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height.
	DefaultHeight = 600.0

	// DefaultColumns is the column count for the columns strategy.
	DefaultColumns = 3

	// DefaultRows is the row count for the rows strategy when a section
	// does not set its own.
	DefaultRows = 2

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatFlow = "flow"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// AllFormats lists the supported output formats in display order.
var AllFormats = []string{FormatSVG, FormatJSON, FormatDOT, FormatFlow, FormatPNG, FormatPDF}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests and TOML for
// the config file.
type Options struct {
	// Load options
	Input        string `json:"-" toml:"-"`
	Source       []byte `json:"-" toml:"-"`
	SourceFormat string `json:"-" toml:"-"`

	// Layout options
	Strategy    string     `json:"strategy,omitempty" toml:"strategy"`
	Width       float64    `json:"width,omitempty" toml:"width"`
	Height      float64    `json:"height,omitempty" toml:"height"`
	OffsetX     float64    `json:"offset_x,omitempty" toml:"offset_x"`
	OffsetY     float64    `json:"offset_y,omitempty" toml:"offset_y"`
	Paging      bool       `json:"paging,omitempty" toml:"paging"`
	Strict      bool       `json:"strict,omitempty" toml:"strict"`
	LineSpacing *float64   `json:"line_spacing,omitempty" toml:"line_spacing"`
	InterItem   *float64   `json:"inter_item_spacing,omitempty" toml:"inter_item_spacing"`
	Inset       *float64   `json:"inset,omitempty" toml:"inset"`
	Columns     int        `json:"columns,omitempty" toml:"columns"`
	Rows        int        `json:"rows,omitempty" toml:"rows"`
	ItemSize    *grid.Size `json:"item_size,omitempty" toml:"-"`
	Kinds       []string   `json:"kinds,omitempty" toml:"kinds"`

	// Render options
	Formats      []string `json:"formats,omitempty" toml:"formats"`
	Scale        float64  `json:"scale,omitempty" toml:"scale"`
	Labels       bool     `json:"labels,omitempty" toml:"labels"`
	ShowViewport bool     `json:"show_viewport,omitempty" toml:"show_viewport"`
	Detailed     bool     `json:"detailed,omitempty" toml:"detailed"`

	// Refresh skips cache lookups but still stores results.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Listing is the loaded listing.
	Listing *listing.Listing

	// ListingHash is the content hash of the canonical listing JSON.
	ListingHash string

	// Layout is the captured pass.
	Layout *snapshot.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sections   int
	Items      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, AllFormats...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrategy checks that a strategy name is registered.
func ValidateStrategy(name string) error {
	if !flow.Valid(name) {
		return errors.New(errors.ErrCodeInvalidStrategy, "invalid strategy %q (must be one of: vertical, horizontal, rows, columns)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
// Spacing left unset resolves to the engine default.
func (o *Options) SetLayoutDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.LineSpacing == nil {
		o.LineSpacing = ptr(grid.DefaultSpacing)
	}
	if o.InterItem == nil {
		o.InterItem = ptr(grid.DefaultSpacing)
	}
	if o.Inset == nil {
		o.Inset = ptr(grid.DefaultSpacing)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"offset_x", o.OffsetX},
		{"offset_y", o.OffsetY},
		{"line_spacing", *o.LineSpacing},
		{"inter_item_spacing", *o.InterItem},
		{"inset", *o.Inset},
	} {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return err
		}
	}
	if o.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "columns must be at least 1 (got %d)", o.Columns)
	}
	if o.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "rows must be at least 1 (got %d)", o.Rows)
	}
	if o.ItemSize != nil {
		if err := errors.ValidateDimension("item_size.width", o.ItemSize.Width); err != nil {
			return err
		}
		if err := errors.ValidateDimension("item_size.height", o.ItemSize.Height); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative (got %g)", o.Scale)
	}
	return nil
}

// Viewport returns the rectangle the layout pass runs against.
func (o *Options) Viewport() grid.Rect {
	return grid.Rect{X: o.OffsetX, Y: o.OffsetY, Width: o.Width, Height: o.Height}
}

// Spacing returns the engine defaults the options resolve to.
func (o *Options) Spacing() grid.Spacing {
	s := grid.Spacing{Line: grid.DefaultSpacing, Inter: grid.DefaultSpacing, Insets: grid.UniformInsets(grid.DefaultSpacing)}
	if o.LineSpacing != nil {
		s.Line = *o.LineSpacing
	}
	if o.InterItem != nil {
		s.Inter = *o.InterItem
	}
	if o.Inset != nil {
		s.Insets = grid.UniformInsets(*o.Inset)
	}
	return s
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	s := o.Spacing()
	return cache.LayoutKeyOpts{
		Strategy:    o.Strategy,
		Width:       o.Width,
		Height:      o.Height,
		OffsetX:     o.OffsetX,
		OffsetY:     o.OffsetY,
		Paging:      o.Paging,
		Strict:      o.Strict,
		LineSpacing: s.Line,
		InterItem:   s.Inter,
		Insets:      s.Insets,
		Columns:     o.Columns,
		Rows:        o.Rows,
		ItemSize:    o.ItemSize,
		Kinds:       o.Kinds,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Labels = o.Labels
		k.ShowViewport = o.ShowViewport
	case FormatDOT, FormatFlow:
		k.Detailed = o.Detailed
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func ptr[T any](v T) *T { return &v }
