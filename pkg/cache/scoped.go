package cache

// ScopedKeyer wraps a Keyer with a prefix so several users or documents
// sets can share one backend without colliding.
//
//	perUser := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "user:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey generates a prefixed key for combined results.
func (k *ScopedKeyer) ResultKey(docHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(docHash, opts)
}

// LayoutKey generates a prefixed key for layouts.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// RelationshipsKey generates a prefixed key for relationship maps.
func (k *ScopedKeyer) RelationshipsKey(docHash string, opts RelationshipsKeyOpts) string {
	return k.prefix + k.inner.RelationshipsKey(docHash, opts)
}
