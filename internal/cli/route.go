package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/layout"
	"github.com/matzehuels/swapmapper/pkg/pipeline"
)

// routeFlags are the flags shared by route, layers and inspect.
type routeFlags struct {
	coupling     string // shorthand, e.g. "line:5" or "0-1,1-2"
	couplingFile string // TOML coupling file
	layout       string // "q[0]=2,q[1]=0"
	strategy     string
	trials       int
	seed         uint64
	layerMode    string
	lookahead    int
	noAncillas   bool
	noCache      bool
	refresh      bool
}

func (f *routeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.coupling, "coupling", "c", "", "coupling graph: line:N, ring:N, star:N, grid:RxC or edges like 0-1,1-2")
	fl.StringVar(&f.couplingFile, "coupling-file", "", "TOML file describing the coupling graph")
	fl.StringVarP(&f.layout, "layout", "l", "", "initial layout, e.g. q[0]=2,q[1]=0 (default: trivial)")
	fl.StringVarP(&f.strategy, "strategy", "s", "", "routing strategy: greedy (default), stochastic")
	fl.IntVar(&f.trials, "trials", 0, fmt.Sprintf("candidate paths per gate for the stochastic strategy (default %d)", pipeline.DefaultTrials))
	fl.Uint64Var(&f.seed, "seed", 0, fmt.Sprintf("random seed for the stochastic strategy (default %d)", pipeline.DefaultSeed))
	fl.StringVar(&f.layerMode, "layer-mode", "", "layer decomposition: serial (default), parallel")
	fl.IntVar(&f.lookahead, "lookahead", 0, fmt.Sprintf("layers scored ahead by the stochastic strategy (default %d)", pipeline.DefaultLookahead))
	fl.BoolVar(&f.noAncillas, "no-ancillas", false, "fail instead of allocating ancillas on unused physical qubits")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")
}

// options reads the circuit named by arg and combines it with the flags and
// the config file into pipeline options. Flags win over the config file.
func (f *routeFlags) options(arg string, stdin io.Reader, cfg pipeline.Config) (pipeline.Options, error) {
	src, source, err := readCircuit(arg, stdin)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Source:     source,
		Circuit:    src,
		Strategy:   f.strategy,
		Trials:     f.trials,
		Seed:       f.seed,
		LayerMode:  f.layerMode,
		Lookahead:  f.lookahead,
		NoAncillas: f.noAncillas,
		Refresh:    f.refresh,
	}

	switch {
	case f.coupling != "" && f.couplingFile != "":
		return pipeline.Options{}, apperrors.New(apperrors.ErrCodeInvalidInput, "--coupling and --coupling-file are mutually exclusive")
	case f.coupling != "":
		if opts.Coupling, err = coupling.Parse(f.coupling); err != nil {
			return pipeline.Options{}, err
		}
	case f.couplingFile != "":
		if opts.Coupling, err = readCouplingFile(f.couplingFile); err != nil {
			return pipeline.Options{}, err
		}
	}

	if f.layout != "" {
		l, err := layout.Parse(f.layout)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Layout = l.Strings()
	}

	cfg.Apply(&opts)
	return opts, nil
}

// prepare loads the config file and builds pipeline options for the circuit
// named by arg.
func (f *routeFlags) prepare(c *CLI, cmd *cobra.Command, arg string) (pipeline.Config, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Config{}, pipeline.Options{}, err
	}
	opts, err := f.options(arg, cmd.InOrStdin(), cfg)
	if err != nil {
		return pipeline.Config{}, pipeline.Options{}, err
	}
	return cfg, opts, nil
}

// execute runs the pipeline. The caller closes the returned runner.
func (c *CLI) execute(ctx context.Context, cfg pipeline.Config, opts pipeline.Options, noCache bool) (*pipeline.Runner, *pipeline.Result, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		runner.Close()
		return nil, nil, err
	}
	return runner, res, nil
}

// routeOpts holds the output flags of the route command.
type routeOpts struct {
	routeFlags
	format string // qasm or json
	output string // output file (stdout if empty)
	render string // coupling graph image (.svg or .dot)
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route [file]",
		Short: "Insert swaps so every two-qubit gate acts on coupled qubits",
		Long: `Route an OpenQASM 2.0 circuit onto a coupling graph.

The routed circuit is printed as OpenQASM (default) or as a JSON report with
the initial and final layouts and one trace entry per inserted swap path.
Use "-" to read the circuit from standard input.`,
		Example: `  swapmapper route bell.qasm --coupling line:5
  swapmapper route qft.qasm -c grid:3x3 -s stochastic --trials 50 -f json
  cat circuit.qasm | swapmapper route - -c 0-1,1-2,2-3 -o routed.qasm --render routed.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRoute(cmd, args[0], &opts)
		},
	}

	opts.routeFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format: qasm, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.render, "render", "", "also draw the coupling graph with the final layout (.svg or .dot)")

	return cmd
}

func (c *CLI) runRoute(cmd *cobra.Command, arg string, opts *routeOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	cfg, popts, err := opts.prepare(c, cmd, arg)
	if err != nil {
		return err
	}

	// Status lines are only printed when the routed circuit goes to a file.
	interactive := opts.output != ""
	spin := newSpinner(ctx, os.Stderr, "Routing "+popts.Source+"...")
	if interactive {
		spin.Start()
	}
	defer spin.Stop()

	runner, res, err := c.execute(ctx, cfg, popts, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, err := res.Output(opts.format)
	if err != nil {
		return err
	}
	if interactive {
		err = writeFile(opts.output, data)
	} else {
		_, err = cmd.OutOrStdout().Write(data)
	}
	if err != nil {
		return err
	}

	if opts.render != "" {
		spin.SetMessage("Rendering " + opts.render + "...")
		img, err := runner.Render(ctx, res, renderFormatFor(opts.render))
		if err != nil {
			return err
		}
		if err := writeFile(opts.render, img); err != nil {
			return err
		}
	}

	if interactive {
		spin.StopWithSuccess("Routed " + StyleHighlight.Render(res.Report.Source))
		printStats(res.Report, res.CacheHit)
		printFile(opts.output)
		if opts.render != "" {
			printFile(opts.render)
		}
		if len(res.Report.Trace) > 0 && arg != stdinArg {
			printNextStep("Step through the swaps", fmt.Sprintf("%s inspect %s -c %s", appName, arg, res.Report.Coupling))
		}
	}

	prog.done(fmt.Sprintf("Routed %s with %d swaps", res.Report.Source, res.Report.Swaps))
	return nil
}

// =============================================================================
// Input / Output Helpers
// =============================================================================

// readCircuit returns the program text and its display name.
func readCircuit(arg string, stdin io.Reader) (string, string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(io.LimitReader(stdin, pipeline.MaxCircuitBytes+1))
		if err != nil {
			return "", "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read stdin")
		}
		return string(data), "stdin", nil
	}
	if err := apperrors.ValidatePath(arg); err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(arg)
	if os.IsNotExist(err) {
		return "", "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "circuit file %s", arg)
	}
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read circuit %s", arg)
	}
	return string(data), filepath.Base(arg), nil
}

func readCouplingFile(path string) (coupling.Spec, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return coupling.Spec{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return coupling.Spec{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "coupling file %s", path)
	}
	if err != nil {
		return coupling.Spec{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read coupling file %s", path)
	}
	return coupling.Decode(data)
}

// renderFormatFor picks dot for .dot/.gv files and svg otherwise.
func renderFormatFor(path string) string {
	switch filepath.Ext(path) {
	case ".dot", ".gv":
		return pipeline.RenderDOT
	}
	return pipeline.RenderSVG
}

func writeFile(path string, data []byte) error {
	if err := apperrors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
