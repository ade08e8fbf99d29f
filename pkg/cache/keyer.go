package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/speedui/gridkit/pkg/grid"
)

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs always produce equal keys.
type Keyer interface {
	// LayoutKey identifies a layout pass over a listing.
	LayoutKey(listingHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change the geometry.
type LayoutKeyOpts struct {
	Strategy    string      `json:"strategy"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	OffsetX     float64     `json:"offset_x,omitempty"`
	OffsetY     float64     `json:"offset_y,omitempty"`
	Paging      bool        `json:"paging,omitempty"`
	Strict      bool        `json:"strict,omitempty"`
	LineSpacing float64     `json:"line_spacing"`
	InterItem   float64     `json:"inter_item"`
	Insets      grid.Insets `json:"insets"`
	Columns     int         `json:"columns,omitempty"`
	Rows        int         `json:"rows,omitempty"`
	ItemSize    *grid.Size  `json:"item_size,omitempty"`
	Kinds       []string    `json:"kinds,omitempty"`
}

// ArtifactKeyOpts are the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Scale        float64 `json:"scale,omitempty"`
	Labels       bool    `json:"labels,omitempty"`
	ShowViewport bool    `json:"show_viewport,omitempty"`
	Detailed     bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(listingHash string, opts LayoutKeyOpts) string {
	return stageKey("layout", listingHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", layoutHash, opts)
}

// stageKey prefixes the stage name to the digest of the input hash and
// the JSON form of opts. Key option structs always marshal.
func stageKey(stage, inputHash string, opts any) string {
	data, _ := json.Marshal(opts)
	return stage + ":" + Hash(append([]byte(inputHash+"\n"), data...))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ Keyer = DefaultKeyer{}
