package router

import (
	"strings"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

// Strategy selects how a path is chosen for a non-adjacent two-qubit gate.
type Strategy string

const (
	// StrategyGreedy always takes the coupling graph's deterministic
	// shortest path from the first qubit of the gate to the second.
	StrategyGreedy Strategy = "greedy"

	// StrategyStochastic samples Trials shortest paths and keeps the one
	// that leaves upcoming gates closest together.
	StrategyStochastic Strategy = "stochastic"
)

// Strategies lists the supported routing strategies.
var Strategies = []Strategy{StrategyGreedy, StrategyStochastic}

// ParseStrategy parses a strategy name. The empty string selects
// StrategyGreedy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyGreedy:
		return StrategyGreedy, nil
	case StrategyStochastic:
		return StrategyStochastic, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown strategy %q (want greedy or stochastic)", s)
}

// Default option values.
const (
	DefaultTrials    = 20
	DefaultLookahead = 1
	MaxTrials        = 1000
)

// AncillaRegister is the register that holds qubits allocated on physical
// qubits the input circuit does not use. If the circuit already declares a
// register of that name, a numeric suffix is added.
const AncillaRegister = "ancilla"

// Options configures a routing run. The zero value routes greedily with
// serial layers.
type Options struct {
	// Strategy picks the path search; empty means StrategyGreedy.
	Strategy Strategy

	// Trials is the number of candidate paths per gate for
	// StrategyStochastic. Zero means DefaultTrials. Ignored by
	// StrategyGreedy.
	Trials int

	// Seed seeds the random source of StrategyStochastic. Equal seeds give
	// equal output.
	Seed uint64

	// LayerMode controls how the circuit is split into layers.
	LayerMode circuit.LayerMode

	// Lookahead is the number of following layers whose gates contribute to
	// the score of a stochastic trial. Negative means none; zero means
	// DefaultLookahead.
	Lookahead int

	// NoAncillas makes a path through an unassigned physical qubit fail
	// with INVALID_LAYOUT instead of allocating an ancilla qubit there.
	NoAncillas bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Strategy:  StrategyGreedy,
		Trials:    DefaultTrials,
		LayerMode: circuit.DefaultLayerMode,
		Lookahead: DefaultLookahead,
	}
}

func (o Options) withDefaults() Options {
	if o.Strategy == "" {
		o.Strategy = StrategyGreedy
	}
	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.LayerMode == "" {
		o.LayerMode = circuit.DefaultLayerMode
	}
	switch {
	case o.Lookahead == 0:
		o.Lookahead = DefaultLookahead
	case o.Lookahead < 0:
		o.Lookahead = 0
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if _, err := circuit.ParseLayerMode(string(o.LayerMode)); err != nil {
		return err
	}
	if o.Trials < 1 || o.Trials > MaxTrials {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "trials must be between 1 and %d, got %d", MaxTrials, o.Trials)
	}
	return nil
}
