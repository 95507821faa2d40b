package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/swapmapper/pkg/cache"
	"github.com/matzehuels/swapmapper/pkg/circuit"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/layout"
	"github.com/matzehuels/swapmapper/pkg/observability"
	"github.com/matzehuels/swapmapper/pkg/qasm"
	"github.com/matzehuels/swapmapper/pkg/render"
	"github.com/matzehuels/swapmapper/pkg/router"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the DefaultKeyer and a nil logger the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute parses, routes and verifies one program.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])

	// Stage 1: Parse
	parseStart := time.Now()
	c, cg, initial, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	stats := Stats{Qubits: c.NumQubits(), Ops: c.Size(), ParseTime: time.Since(parseStart)}
	logger.Debug("parsed circuit",
		"qubits", stats.Qubits,
		"ops", stats.Ops,
		"device", cg.Size(),
		"duration", stats.ParseTime)

	key := r.Keyer.RouteKey(cache.Hash([]byte(opts.Circuit)), opts.RouteKeyOpts())
	if !opts.Refresh {
		if res, ok := r.cached(ctx, key, cg); ok {
			res.RunID = runID
			res.Stats = stats
			logger.Info("routed circuit (cached)", "swaps", res.Report.Swaps)
			return res, nil
		}
	}

	// Stage 2: Route
	routeStart := time.Now()
	observability.Pipeline().OnRouteStart(ctx, opts.Strategy, c.NumQubits())
	routed, err := r.Route(c, cg, initial, opts)
	stats.RouteTime = time.Since(routeStart)
	swaps := 0
	if routed != nil {
		swaps = routed.SwapCount
	}
	observability.Pipeline().OnRouteComplete(ctx, opts.Strategy, swaps, stats.RouteTime, err)
	if err != nil {
		return nil, err
	}

	rep := newReport(&opts, c, routed)
	if data, err := json.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLRoute); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "route", len(data))
		}
	}

	logger.Info("routed circuit",
		"swaps", routed.SwapCount,
		"layers", routed.Layers,
		"ancillas", len(routed.Ancillas),
		"duration", stats.RouteTime)

	return &Result{
		RunID:         runID,
		Report:        rep,
		Circuit:       routed.Circuit,
		Coupling:      cg,
		InitialLayout: routed.InitialLayout,
		FinalLayout:   routed.FinalLayout,
		Stats:         stats,
	}, nil
}

// Parse reads the program, builds the coupling graph and the starting
// layout (nil for the trivial one).
func (r *Runner) Parse(ctx context.Context, opts Options) (*circuit.Circuit, *coupling.Graph, *layout.Layout, error) {
	observability.Pipeline().OnParseStart(ctx, opts.Source)
	start := time.Now()

	c, err := qasm.Parse(opts.Circuit)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, opts.Source, 0, 0, time.Since(start), err)
		return nil, nil, nil, err
	}
	observability.Pipeline().OnParseComplete(ctx, opts.Source, c.NumQubits(), c.Size(), time.Since(start), nil)

	cg, err := opts.Coupling.Build()
	if err != nil {
		return nil, nil, nil, err
	}

	var initial *layout.Layout
	if len(opts.Layout) > 0 {
		if initial, err = layout.FromStrings(opts.Layout); err != nil {
			return nil, nil, nil, err
		}
	}
	return c, cg, initial, nil
}

// Route routes c and verifies that every two-qubit gate of the output acts
// on adjacent physical qubits.
func (r *Runner) Route(c *circuit.Circuit, cg *coupling.Graph, initial *layout.Layout, opts Options) (*router.Result, error) {
	res, err := router.Route(c, cg, initial, opts.RouterOptions())
	if err != nil {
		return nil, err
	}
	if err := router.Verify(res.Circuit, cg, res.InitialLayout); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "routed circuit failed verification")
	}
	return res, nil
}

// Render draws the coupling graph of res with its final layout and the swap
// counts of the run. Rendered output is cached per coupling and layout.
func (r *Runner) Render(ctx context.Context, res *Result, format string) ([]byte, error) {
	if err := ValidateRenderFormat(format); err != nil {
		return nil, err
	}
	observability.Pipeline().OnRenderStart(ctx, format)
	start := time.Now()

	dot := render.ToDOT(res.Coupling, render.Options{
		Layout: res.FinalLayout,
		Swaps:  render.SwapCounts(res.Report.Steps(), res.Coupling),
	})
	if format == RenderDOT {
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), nil)
		return []byte(dot), nil
	}

	key := r.Keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{Format: format})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), nil)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	svg, err := render.SVG(ctx, dot)
	observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render coupling graph")
	}
	if err := r.Cache.Set(ctx, key, svg, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(svg))
	}
	return svg, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cached(ctx context.Context, key string, cg *coupling.Graph) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "route")
		return nil, false
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		observability.Cache().OnCacheMiss(ctx, "route")
		return nil, false
	}
	res, err := restore(rep, cg)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "route")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "route")
	return res, true
}
