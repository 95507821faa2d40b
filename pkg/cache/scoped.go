package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments or tenants can share one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RouteKey returns the prefixed inner route key.
func (k *ScopedKeyer) RouteKey(circuitHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(circuitHash, opts)
}

// RenderKey returns the prefixed inner render key.
func (k *ScopedKeyer) RenderKey(couplingHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(couplingHash, opts)
}
