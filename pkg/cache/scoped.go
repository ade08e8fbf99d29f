package cache

// ScopedKeyer prefixes every key of an inner Keyer. The pipeline scopes
// its keys by the snapshot format version, so entries written under an
// older format are never read back.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prepended to every key.
func (k ScopedKeyer) Prefix() string { return k.prefix }

// LayoutKey implements Keyer.
func (k ScopedKeyer) LayoutKey(listingHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(listingHash, opts)
}

// ArtifactKey implements Keyer.
func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

var _ Keyer = ScopedKeyer{}
