// Package pipeline runs the parse → route → emit pipeline shared by the CLI
// and the HTTP server.
//
// # Stages
//
//  1. Parse: read the OpenQASM 2.0 program and build the coupling graph
//  2. Route: insert swaps with [router.Route] and check the result with
//     [router.Verify]
//  3. Emit: write the routed program as QASM, or the full [Report] as JSON
//
// Routing results are cached by content: the key covers the program text,
// the coupling description, the starting layout and every router option.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Circuit:  src,
//	    Coupling: coupling.Spec{Topology: "line", Qubits: 5},
//	})
//	if err != nil {
//	    return err
//	}
//	out, err := res.Output(pipeline.FormatQASM)
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swapmapper/pkg/cache"
	"github.com/matzehuels/swapmapper/pkg/circuit"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/router"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStrategy is the routing strategy when none is configured.
	DefaultStrategy = string(router.StrategyGreedy)

	// DefaultTrials is the number of candidate paths per gate for the
	// stochastic strategy.
	DefaultTrials = router.DefaultTrials

	// DefaultSeed seeds the stochastic strategy when no seed is given.
	DefaultSeed = uint64(42)

	// DefaultLayerMode is the layer decomposition when none is configured.
	DefaultLayerMode = string(circuit.DefaultLayerMode)

	// DefaultLookahead is the number of following layers scored by the
	// stochastic strategy.
	DefaultLookahead = router.DefaultLookahead

	// MaxCircuitBytes bounds the size of an input program.
	MaxCircuitBytes = 4 << 20
)

// Output formats.
const (
	FormatQASM = "qasm"
	FormatJSON = "json"
)

// DefaultFormat is the output format when none is requested.
const DefaultFormat = FormatQASM

// Render formats.
const (
	RenderDOT = "dot"
	RenderSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatQASM: true,
	FormatJSON: true,
}

// ValidRenderFormats is the set of supported coupling render formats.
var ValidRenderFormats = map[string]bool{
	RenderDOT: true,
	RenderSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It doubles as the JSON body of the
// HTTP route endpoint.
type Options struct {
	// Source names the program in logs and reports, e.g. its file name.
	Source string `json:"source,omitempty"`

	// Circuit is the OpenQASM 2.0 program to route.
	Circuit string `json:"circuit"`

	// Coupling describes the device.
	Coupling coupling.Spec `json:"coupling"`

	// Layout is the starting layout keyed by qubit name ("q[0]": 3). Empty
	// means the trivial layout.
	Layout map[string]int `json:"layout,omitempty"`

	// Router options
	Strategy   string `json:"strategy,omitempty"`
	Trials     int    `json:"trials,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	LayerMode  string `json:"layer_mode,omitempty"`
	Lookahead  int    `json:"lookahead,omitempty"`
	NoAncillas bool   `json:"no_ancillas,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: qasm, json)", format)
	}
	return nil
}

// ValidateRenderFormat checks that format is a supported render format.
func ValidateRenderFormat(format string) error {
	if !ValidRenderFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid render format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields, normalizes names and fills
// in defaults. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Circuit) == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "circuit is required")
	}
	if len(o.Circuit) > MaxCircuitBytes {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "circuit too large (%d bytes, max %d)", len(o.Circuit), MaxCircuitBytes)
	}
	if o.Coupling.IsZero() {
		return apperrors.New(apperrors.ErrCodeInvalidCoupling, "coupling is required")
	}

	strategy, err := router.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(strategy)
	mode, err := circuit.ParseLayerMode(o.LayerMode)
	if err != nil {
		return err
	}
	o.LayerMode = string(mode)

	if o.Trials == 0 {
		o.Trials = DefaultTrials
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Lookahead == 0 {
		o.Lookahead = DefaultLookahead
	}
	if err := o.RouterOptions().Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RouterOptions converts the options to router options.
func (o *Options) RouterOptions() router.Options {
	return router.Options{
		Strategy:   router.Strategy(o.Strategy),
		Trials:     o.Trials,
		Seed:       o.Seed,
		LayerMode:  circuit.LayerMode(o.LayerMode),
		Lookahead:  o.Lookahead,
		NoAncillas: o.NoAncillas,
	}
}

// IsStochastic reports whether the stochastic strategy is selected.
func (o *Options) IsStochastic() bool {
	return o.Strategy == string(router.StrategyStochastic)
}

// RouteKeyOpts returns the cache key options of the run. Trials and seed
// only enter the key for the stochastic strategy, which is the only one
// they affect.
func (o *Options) RouteKeyOpts() cache.RouteKeyOpts {
	k := cache.RouteKeyOpts{
		Coupling:   o.Coupling.String(),
		Layout:     layoutKey(o.Layout),
		Strategy:   o.Strategy,
		LayerMode:  o.LayerMode,
		NoAncillas: o.NoAncillas,
	}
	if o.IsStochastic() {
		k.Trials = o.Trials
		k.Seed = o.Seed
		k.Lookahead = o.Lookahead
	}
	return k
}

func layoutKey(m map[string]int) string {
	parts := make([]string, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%s=%d", name, m[name]))
	}
	return strings.Join(parts, ",")
}
