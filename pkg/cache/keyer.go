package cache

// Keyer derives cache keys for pipeline results.
type Keyer interface {
	// RouteKey returns the key of a routed circuit. circuitHash is the hash
	// of the input program.
	RouteKey(circuitHash string, opts RouteKeyOpts) string

	// RenderKey returns the key of a rendered coupling graph.
	RenderKey(couplingHash string, opts RenderKeyOpts) string
}

// RouteKeyOpts are the inputs besides the circuit that determine a routing
// result.
type RouteKeyOpts struct {
	Coupling   string `json:"coupling"`
	Layout     string `json:"layout,omitempty"`
	Strategy   string `json:"strategy"`
	Trials     int    `json:"trials,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	LayerMode  string `json:"layer_mode"`
	Lookahead  int    `json:"lookahead,omitempty"`
	NoAncillas bool   `json:"no_ancillas,omitempty"`
}

// RenderKeyOpts are the inputs besides the coupling graph that determine a
// rendering.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RouteKey returns "route:<hash>".
func (DefaultKeyer) RouteKey(circuitHash string, opts RouteKeyOpts) string {
	return hashKey("route", circuitHash, opts)
}

// RenderKey returns "render:<hash>".
func (DefaultKeyer) RenderKey(couplingHash string, opts RenderKeyOpts) string {
	return hashKey("render", couplingHash, opts)
}
