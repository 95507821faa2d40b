package pipeline

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/layout"
	"github.com/matzehuels/swapmapper/pkg/qasm"
	"github.com/matzehuels/swapmapper/pkg/router"
)

// Report is the serializable outcome of a run. It is what the cache stores
// and what the json output format prints.
type Report struct {
	Source        string         `json:"source,omitempty"`
	Coupling      string         `json:"coupling"`
	Strategy      string         `json:"strategy"`
	LayerMode     string         `json:"layer_mode"`
	QASM          string         `json:"qasm"`
	InitialLayout map[string]int `json:"initial_layout"`
	FinalLayout   map[string]int `json:"final_layout"`
	Swaps         int            `json:"swaps"`
	Layers        int            `json:"layers"`
	Ancillas      []string       `json:"ancillas,omitempty"`
	DepthBefore   int            `json:"depth_before"`
	DepthAfter    int            `json:"depth_after"`
	OpsBefore     int            `json:"ops_before"`
	OpsAfter      int            `json:"ops_after"`
	Trace         []TraceStep    `json:"trace,omitempty"`
}

// TraceStep is the serialized form of [router.Step].
type TraceStep struct {
	Layer int      `json:"layer"`
	Gate  string   `json:"gate"`
	From  int      `json:"from"`
	To    int      `json:"to"`
	Path  []int    `json:"path"`
	Swaps []string `json:"swaps"`
	Trial int      `json:"trial"`
	Score int      `json:"score"`
}

// Stats contains timing and size information of a run.
type Stats struct {
	Qubits    int
	Ops       int
	ParseTime time.Duration
	RouteTime time.Duration
}

// Result is the outcome of Runner.Execute.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Report holds everything that is cached and serialized.
	Report Report

	// Circuit is the routed circuit.
	Circuit *circuit.Circuit

	// Coupling is the device graph.
	Coupling *coupling.Graph

	// InitialLayout and FinalLayout are the layouts before and after
	// routing, ancillas included.
	InitialLayout *layout.Layout
	FinalLayout   *layout.Layout

	Stats    Stats
	CacheHit bool
}

// Output formats the result. FormatQASM yields the routed program,
// FormatJSON the indented report.
func (r *Result) Output(format string) ([]byte, error) {
	switch format {
	case "", FormatQASM:
		return []byte(r.Report.QASM), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r.Report, "", "  ")
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode report")
		}
		return append(data, '\n'), nil
	}
	return nil, ValidateFormat(format)
}

// Steps converts the trace back to router steps. Gates and swaps are not
// restored; paths, endpoints and scores are.
func (r Report) Steps() []router.Step {
	steps := make([]router.Step, len(r.Trace))
	for i, t := range r.Trace {
		steps[i] = router.Step{Layer: t.Layer, From: t.From, To: t.To, Path: t.Path, Trial: t.Trial, Score: t.Score}
	}
	return steps
}

func newReport(opts *Options, in *circuit.Circuit, res *router.Result) Report {
	rep := Report{
		Source:        opts.Source,
		Coupling:      opts.Coupling.String(),
		Strategy:      opts.Strategy,
		LayerMode:     opts.LayerMode,
		QASM:          qasm.Format(res.Circuit),
		InitialLayout: res.InitialLayout.Strings(),
		FinalLayout:   res.FinalLayout.Strings(),
		Swaps:         res.SwapCount,
		Layers:        res.Layers,
		DepthBefore:   in.Depth(),
		DepthAfter:    res.Circuit.Depth(),
		OpsBefore:     in.Size(),
		OpsAfter:      res.Circuit.Size(),
	}
	for _, q := range res.Ancillas {
		rep.Ancillas = append(rep.Ancillas, q.String())
	}
	for _, st := range res.Trace {
		ts := TraceStep{
			Layer: st.Layer,
			Gate:  st.Gate.String(),
			From:  st.From,
			To:    st.To,
			Path:  st.Path,
			Swaps: make([]string, len(st.Swaps)),
			Trial: st.Trial,
			Score: st.Score,
		}
		for i, sw := range st.Swaps {
			ts.Swaps[i] = sw.String()
		}
		rep.Trace = append(rep.Trace, ts)
	}
	return rep
}

// restore rebuilds a result from a cached report.
func restore(rep Report, cg *coupling.Graph) (*Result, error) {
	c, err := qasm.Parse(rep.QASM)
	if err != nil {
		return nil, err
	}
	initial, err := layout.FromStrings(rep.InitialLayout)
	if err != nil {
		return nil, err
	}
	final, err := layout.FromStrings(rep.FinalLayout)
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:        rep,
		Circuit:       c,
		Coupling:      cg,
		InitialLayout: initial,
		FinalLayout:   final,
		CacheHit:      true,
	}, nil
}
