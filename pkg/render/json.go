package render

import (
	"encoding/json"

	"github.com/speedui/gridkit/pkg/snapshot"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	items   bool
}

// WithCompact writes the document without indentation.
func WithCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithItemsOnly drops supplementary and decoration elements.
func WithItemsOnly() JSONOption { return func(r *jsonRenderer) { r.items = true } }

// RenderJSON writes l in the snapshot wire format without its store id.
func RenderJSON(l *snapshot.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := *l
	out.ID = ""
	if r.items {
		out.Extras = nil
	}
	if r.compact {
		return json.Marshal(&out)
	}
	return json.MarshalIndent(&out, "", "  ")
}
