package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/pkg/buildinfo"
	"github.com/speedui/gridkit/pkg/cache"
	"github.com/speedui/gridkit/pkg/config"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gridkit lays out sectioned item grids",
		Long: `gridkit computes the geometry of sectioned, scrollable item grids.

A listing describes sections, items and the bands attached to them. gridkit
runs one layout pass over it with a flow strategy (vertical, horizontal,
rows or columns) and writes the placed frames as JSON, wireframe SVG, a
flow-order diagram, PNG or PDF. The same engine backs an interactive
terminal preview and an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gridkit/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", c.cfg.Cache.Dir)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks the configured backend: Redis when an address is set,
// the file cache otherwise. An unreachable Redis falls back to the file
// cache with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Cache.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.Redis)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", c.cfg.Cache.Redis.Addr)
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "err", err)
	}
	if c.cfg.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(c.cfg.Cache.Dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags mirrors the layout half of pipeline.Options. Only flags the
// user sets override the config file.
type layoutFlags struct {
	strategy    string
	width       float64
	height      float64
	offsetX     float64
	offsetY     float64
	paging      bool
	strict      bool
	lineSpacing float64
	interItem   float64
	inset       float64
	columns     int
	rows        int
	itemSize    string
	kinds       []string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.strategy, "strategy", "s", pipeline.DefaultStrategy, "flow strategy: vertical, horizontal, rows, columns")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "viewport height")
	fs.Float64Var(&f.offsetX, "offset-x", 0, "viewport x offset")
	fs.Float64Var(&f.offsetY, "offset-y", 0, "viewport y offset")
	fs.BoolVar(&f.paging, "paging", false, "enable paging (keeps the offset past the content)")
	fs.BoolVar(&f.strict, "strict", false, "fail when a strategy hook is unimplemented")
	fs.Float64Var(&f.lineSpacing, "line-spacing", grid.DefaultSpacing, "default line spacing")
	fs.Float64Var(&f.interItem, "inter-item-spacing", grid.DefaultSpacing, "default inter-item spacing")
	fs.Float64Var(&f.inset, "inset", grid.DefaultSpacing, "default uniform section inset")
	fs.IntVar(&f.columns, "columns", pipeline.DefaultColumns, "column count (columns strategy)")
	fs.IntVar(&f.rows, "rows", pipeline.DefaultRows, "default row count (rows strategy)")
	fs.StringVar(&f.itemSize, "item-size", "", "default item size as WxH")
	fs.StringSliceVar(&f.kinds, "kinds", nil, "band kinds to lay out (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
}

// apply copies the flags the user set onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("strategy") {
		opts.Strategy = f.strategy
	}
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("offset-x") {
		opts.OffsetX = f.offsetX
	}
	if fs.Changed("offset-y") {
		opts.OffsetY = f.offsetY
	}
	if fs.Changed("paging") {
		opts.Paging = f.paging
	}
	if fs.Changed("strict") {
		opts.Strict = f.strict
	}
	if fs.Changed("line-spacing") {
		opts.LineSpacing = &f.lineSpacing
	}
	if fs.Changed("inter-item-spacing") {
		opts.InterItem = &f.interItem
	}
	if fs.Changed("inset") {
		opts.Inset = &f.inset
	}
	if fs.Changed("columns") {
		opts.Columns = f.columns
	}
	if fs.Changed("rows") {
		opts.Rows = f.rows
	}
	if fs.Changed("kinds") {
		opts.Kinds = f.kinds
	}
	if fs.Changed("item-size") {
		size, err := parseSize(f.itemSize)
		if err != nil {
			return err
		}
		opts.ItemSize = &size
	}
	return nil
}

// layoutOptions starts from the config file's [layout] table and applies
// the flags the user set on cmd.
func (c *CLI) layoutOptions(cmd *cobra.Command, f *layoutFlags) (pipeline.Options, error) {
	opts := c.cfg.Layout
	opts.Kinds = append([]string(nil), opts.Kinds...)
	opts.Formats = append([]string(nil), opts.Formats...)
	if err := f.apply(cmd, &opts); err != nil {
		return opts, err
	}
	opts.Logger = c.Logger
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseFloats parses exactly n comma-separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %q", p)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (grid.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return grid.Rect{}, err
	}
	if v[2] < 0 || v[3] < 0 {
		return grid.Rect{}, errors.New(errors.ErrCodeInvalidInput, "rect size cannot be negative: %q", s)
	}
	return grid.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parseIndex parses "section,item".
func parseIndex(s string) (grid.Index, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return grid.Index{}, errors.New(errors.ErrCodeInvalidInput, "index must be section,item: %q", s)
	}
	var idx [2]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return grid.Index{}, errors.New(errors.ErrCodeInvalidInput, "index must be two non-negative integers: %q", s)
		}
		idx[i] = v
	}
	return grid.IndexOf(idx[0], idx[1]), nil
}

// parseSize parses "WxH".
func parseSize(s string) (grid.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return grid.Size{}, errors.New(errors.ErrCodeInvalidInput, "size must be WxH: %q", s)
	}
	v, err := parseFloats(w+","+h, 2)
	if err != nil {
		return grid.Size{}, err
	}
	return grid.Size{Width: v[0], Height: v[1]}, nil
}
