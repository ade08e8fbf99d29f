package pipeline

import (
	"encoding/json"

	"github.com/speedui/gridkit/pkg/cache"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/listing"
)

// Load decodes and validates the listing named by opts: the raw Source
// bytes when set, the Input file otherwise.
func Load(opts Options) (*listing.Listing, error) {
	if len(opts.Source) > 0 {
		format := listing.Format(opts.SourceFormat)
		if format == "" {
			format = listing.FormatJSON
		}
		if err := errors.ValidateFormat(string(format), formatNames()...); err != nil {
			return nil, err
		}
		return listing.Parse(opts.Source, format)
	}
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "listing input is required")
	}
	return listing.Import(opts.Input)
}

// HashListing returns the content hash used in layout cache keys. It
// hashes the canonical JSON encoding, so the same listing written as
// YAML or TOML shares cache entries.
func HashListing(l *listing.Listing) (string, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode listing")
	}
	return cache.Hash(data), nil
}

func formatNames() []string {
	out := make([]string, len(listing.Formats))
	for i, f := range listing.Formats {
		out[i] = string(f)
	}
	return out
}
