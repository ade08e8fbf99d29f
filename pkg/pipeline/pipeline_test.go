package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/speedui/gridkit/pkg/cache"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/grid"
	"github.com/speedui/gridkit/pkg/listing"
	"github.com/speedui/gridkit/pkg/snapshot"
)

func testListing() *listing.Listing {
	item := func(id string) listing.Item { return listing.Item{ID: id, Width: 40, Height: 20} }
	return &listing.Listing{
		Title: "demo",
		Sections: []listing.Section{
			{ID: "a", Items: []listing.Item{item("a1"), item("a2"), item("a3")}},
			{ID: "b", Items: []listing.Item{item("b1")}},
		},
	}
}

func testSource(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(testListing())
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg", "png"}, false},
		{[]string{"json", "dot", "flow", "pdf"}, false},
		{nil, false},
		{[]string{"svg", "invalid"}, true},
		{[]string{"SVG"}, true}, // case-sensitive
		{[]string{""}, true},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormats(%v) code = %s", tt.formats, errors.GetCode(err))
		}
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"vertical", false},
		{"horizontal", false},
		{"rows", false},
		{"columns", false},
		{"masonry", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStrategy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Strategy != DefaultStrategy {
		t.Errorf("Strategy should be %s, got %s", DefaultStrategy, opts.Strategy)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport should be %gx%g, got %gx%g", DefaultWidth, DefaultHeight, opts.Width, opts.Height)
	}
	if *opts.LineSpacing != grid.DefaultSpacing || *opts.InterItem != grid.DefaultSpacing || *opts.Inset != grid.DefaultSpacing {
		t.Error("spacing should default to the engine default")
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}

	zero := 0.0
	opts = Options{LineSpacing: &zero}
	opts.SetLayoutDefaults()
	if *opts.LineSpacing != 0 {
		t.Error("an explicit zero spacing must be kept")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}
}

func TestValidateForLayout(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"unknown strategy", Options{Strategy: "masonry"}, errors.ErrCodeInvalidStrategy},
		{"negative width", Options{Width: -10}, errors.ErrCodeInvalidViewport},
		{"negative spacing", Options{LineSpacing: &neg}, errors.ErrCodeInvalidInput},
		{"negative offset", Options{OffsetY: -1}, errors.ErrCodeInvalidInput},
		{"negative columns", Options{Columns: -2}, errors.ErrCodeInvalidInput},
		{"bad item size", Options{ItemSize: &grid.Size{Width: -1}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateForLayout() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForLayout() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{}
	a.SetLayoutDefaults()
	b := a
	b.Width = 414

	k := cache.NewDefaultKeyer()
	if k.LayoutKey("h", a.LayoutKeyOpts()) == k.LayoutKey("h", b.LayoutKeyOpts()) {
		t.Error("a different viewport width should change the layout key")
	}

	c := a
	c.Formats = []string{"png"}
	c.Labels = true
	if k.LayoutKey("h", a.LayoutKeyOpts()) != k.LayoutKey("h", c.LayoutKeyOpts()) {
		t.Error("render options must not change the layout key")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Labels: true, ShowViewport: true, Detailed: true, Scale: 3}

	if got := opts.ArtifactKeyOpts(FormatJSON); got != (cache.ArtifactKeyOpts{Format: FormatJSON}) {
		t.Errorf("json key opts = %+v, want format only", got)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG); !got.Labels || !got.ShowViewport || got.Scale != 0 {
		t.Errorf("svg key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG); got.Scale != 3 {
		t.Errorf("png key opts = %+v, want scale 3", got)
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); !got.Detailed || got.Labels {
		t.Errorf("dot key opts = %+v", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.json")
	if err := os.WriteFile(path, testSource(t), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, opts := range []Options{
		{Input: path},
		{Source: testSource(t)},
		{Source: []byte("title: demo\nsections:\n  - id: a\n    items:\n      - id: a1\n"), SourceFormat: "yaml"},
	} {
		lst, err := Load(opts)
		if err != nil {
			t.Fatalf("Load(%+v) error: %v", opts.Input, err)
		}
		if lst.Title != "demo" {
			t.Errorf("Title = %q", lst.Title)
		}
	}

	if _, err := Load(Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load() without input = %v", err)
	}
	if _, err := Load(Options{Source: []byte("{}"), SourceFormat: "xml"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load() with xml = %v", err)
	}
}

func TestHashListingIgnoresEncoding(t *testing.T) {
	fromJSON, err := Load(Options{Source: []byte(`{"sections":[{"id":"a","items":[{"id":"x","width":10}]}]}`)})
	if err != nil {
		t.Fatal(err)
	}
	fromTOML, err := Load(Options{Source: []byte("[[sections]]\nid = \"a\"\n[[sections.items]]\nid = \"x\"\nwidth = 10.0\n"), SourceFormat: "toml"})
	if err != nil {
		t.Fatal(err)
	}

	h1, _ := HashListing(fromJSON)
	h2, _ := HashListing(fromTOML)
	if h1 != h2 {
		t.Error("the same listing in two encodings should hash equally")
	}
}

func TestGenerateLayout(t *testing.T) {
	opts := Options{Width: 100, Height: 50}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}

	l, err := GenerateLayout(testListing(), opts)
	if err != nil {
		t.Fatalf("GenerateLayout() error: %v", err)
	}

	want := map[grid.Index]grid.Rect{
		grid.IndexOf(0, 0): {X: 5, Y: 5, Width: 40, Height: 20},
		grid.IndexOf(0, 1): {X: 50, Y: 5, Width: 40, Height: 20},
		grid.IndexOf(0, 2): {X: 5, Y: 30, Width: 40, Height: 20},
		grid.IndexOf(1, 0): {X: 5, Y: 60, Width: 40, Height: 20},
	}
	if l.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", l.Len(), len(want))
	}
	for idx, r := range want {
		e, ok := l.ItemAt(idx)
		if !ok || e.Frame() != r {
			t.Errorf("ItemAt(%v) = %v, want %v", idx, e.Frame(), r)
		}
	}
	if l.Content != (snapshot.Size{Width: 100, Height: 85}) {
		t.Errorf("Content = %+v", l.Content)
	}
	if l.Title != "demo" || l.Strategy != "vertical" || l.Sections[1].ID != "b" {
		t.Errorf("metadata = %q %q %+v", l.Title, l.Strategy, l.Sections)
	}
}

func TestNewGridBandsUseEngineInset(t *testing.T) {
	lst := &listing.Listing{Sections: []listing.Section{
		{ID: "plain", Items: []listing.Item{{ID: "p", Width: 40, Height: 20}}},
		{ID: "titled", Header: "Titled", Items: []listing.Item{{ID: "t", Width: 40, Height: 20}}},
	}}
	opts := Options{Width: 200, Height: 100, Inset: ptr(20.0)}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	g, err := NewGrid(lst, opts)
	if err != nil {
		t.Fatal(err)
	}
	s := grid.NewFixedScroller(opts.Viewport().Size())
	g.Attach(grid.Compose(lst, s))
	if err := g.Prepare(); err != nil {
		t.Fatal(err)
	}

	want := []grid.Insets{
		grid.UniformInsets(20),
		{Top: 20 + listing.DefaultHeaderHeight, Left: 20, Bottom: 20, Right: 20},
	}
	for section, w := range want {
		if got := g.SectionInset(section); got != w {
			t.Errorf("SectionInset(%d) = %+v, want %+v", section, got, w)
		}
		a, ok := g.ItemAt(grid.IndexOf(section, 0))
		if !ok || a.Frame.X != 20 {
			t.Errorf("ItemAt(%d, 0).X = %g, want 20", section, a.Frame.X)
		}
	}
}

func TestGenerateLayoutCorrectsOffset(t *testing.T) {
	tests := []struct {
		name   string
		paging bool
		wantY  float64
	}{
		{"clamped to content", false, 35},
		{"paging keeps offset", true, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Width: 100, Height: 50, OffsetY: 200, Paging: tt.paging}
			if err := opts.ValidateForLayout(); err != nil {
				t.Fatal(err)
			}
			l, err := GenerateLayout(testListing(), opts)
			if err != nil {
				t.Fatal(err)
			}
			if l.Viewport.Y != tt.wantY {
				t.Errorf("Viewport.Y = %g, want %g", l.Viewport.Y, tt.wantY)
			}
			if l.Paging != tt.paging {
				t.Errorf("Paging = %v", l.Paging)
			}
		})
	}
}

func TestGenerateLayoutKinds(t *testing.T) {
	lst := testListing()
	lst.Separators = true
	lst.Sections[0].Header = "First"

	opts := Options{Width: 100, Height: 50}
	_ = opts.ValidateForLayout()
	all, err := GenerateLayout(lst, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Kinds = []string{listing.KindHeader}
	headers, err := GenerateLayout(lst, opts)
	if err != nil {
		t.Fatal(err)
	}

	count := func(l *snapshot.Layout, kind string) int {
		n := 0
		for _, e := range l.Extras {
			if e.Kind == kind {
				n++
			}
		}
		return n
	}
	if count(all, listing.KindSeparator) == 0 || count(all, listing.KindHeader) != 1 {
		t.Errorf("all kinds: extras = %+v", all.Extras)
	}
	if count(headers, listing.KindSeparator) != 0 || count(headers, listing.KindHeader) != 1 {
		t.Errorf("header only: extras = %+v", headers.Extras)
	}
}

func TestRunnerExecute(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{
		Source:  testSource(t),
		Width:   100,
		Height:  50,
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	}
	ctx := context.Background()

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Items != 4 || first.Stats.Sections != 2 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !strings.HasPrefix(string(first.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not svg")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if string(second.Artifacts[FormatDOT]) != string(first.Artifacts[FormatDOT]) {
		t.Error("cached artifact differs from the rendered one")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", third.CacheInfo)
	}
}

func TestRunnerRendersOnlyMissingFormats(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	opts := Options{Width: 100, Height: 50}
	layout, err := r.Layout(ctx, testListing(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render(ctx, layout, Options{Formats: []string{FormatJSON}}); err != nil {
		t.Fatal(err)
	}
	out, hit, err := r.RenderWithCacheInfo(ctx, layout, Options{Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("a partially cached render should not report a hit")
	}
	if len(out) != 2 {
		t.Errorf("got %d artifacts, want 2", len(out))
	}
}

func TestDefaultKeyerIsVersioned(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	key := r.Keyer.LayoutKey("h", cache.LayoutKeyOpts{})
	if want := fmt.Sprintf("v%d:layout:", snapshot.Version); !strings.HasPrefix(key, want) {
		t.Errorf("layout key %q should start with %q", key, want)
	}
}

func TestRunnerRejectsBadOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Source: testSource(t), Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() = %v, want invalid format", err)
	}
}

func TestHashLayoutIgnoresIdentity(t *testing.T) {
	opts := Options{Width: 100, Height: 50}
	_ = opts.ValidateForLayout()
	a, _ := GenerateLayout(testListing(), opts)
	b, _ := GenerateLayout(testListing(), opts)
	b.ID = "other"
	b.CreatedAt = b.CreatedAt.Add(1e9)

	ha, _ := HashLayout(a)
	hb, _ := HashLayout(b)
	if ha != hb {
		t.Error("layouts from the same pass should hash equally")
	}
}
