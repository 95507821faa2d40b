package router

import (
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/layout"
)

// Coupling is the device connectivity the router needs.
// [coupling.Graph] implements it.
//
// [coupling.Graph]: github.com/matzehuels/swapmapper/pkg/coupling
type Coupling interface {
	// IsAdjacent reports whether p and q share an edge in either direction.
	IsAdjacent(p, q int) bool
	// ShortestPath returns an undirected shortest path from p to q,
	// endpoints included.
	ShortestPath(p, q int) ([]int, error)
	// Distance returns the undirected hop count between p and q.
	Distance(p, q int) (int, error)
	// Size returns the number of physical qubits.
	Size() int
	// Contains reports whether p is a physical qubit of the device.
	Contains(p int) bool
}

// RandomPather is implemented by couplings that can sample shortest paths.
// StrategyStochastic uses it when available; otherwise it only compares the
// shortest paths in both directions.
type RandomPather interface {
	RandomShortestPath(p, q int, rng *rand.Rand) ([]int, error)
}

// PhysicalLister is implemented by couplings whose physical qubits are not
// simply 0..Size()-1. The trivial layout assigns them in the listed order.
type PhysicalLister interface {
	PhysicalQubits() []int
}

// Result is the outcome of a routing run.
type Result struct {
	// Circuit is the routed circuit. It declares the input registers plus
	// any ancilla register. Wire w stands for physical qubit
	// InitialLayout.Physical(w).
	Circuit *circuit.Circuit

	// InitialLayout is the starting layout, including ancilla qubits.
	InitialLayout *layout.Layout

	// FinalLayout is where every logical qubit sits after the last layer.
	FinalLayout *layout.Layout

	// SwapCount is the number of inserted swap gates.
	SwapCount int

	// Layers is the number of layers the input was split into.
	Layers int

	// Ancillas lists qubits allocated on physical qubits the input did not
	// use.
	Ancillas []circuit.Qubit

	// Trace records one step per non-adjacent two-qubit gate.
	Trace []Step
}

// Step records how one non-adjacent two-qubit gate was made adjacent.
type Step struct {
	Layer int                 `json:"layer"`
	Gate  circuit.Operation   `json:"-"`
	From  int                 `json:"from"`
	To    int                 `json:"to"`
	Path  []int               `json:"path"`
	Swaps []circuit.Operation `json:"-"`
	Trial int                 `json:"trial"`
	Score int                 `json:"score"`
}

// Route rewrites c so that every two-qubit gate acts on qubits adjacent in
// cg, inserting swap gates where needed.
//
// When initial is nil, the trivial layout is used: the qubits of c's
// registers, in declaration order, go to physical qubits 0, 1, 2, ...
// Otherwise initial must map every qubit of c to a distinct physical qubit of
// cg. initial is never modified.
//
// Layers are processed in order. For each two-qubit gate of a layer whose
// qubits are not adjacent under the current layout, a shortest path is
// chosen and the source qubit is swapped along it until it is next to the
// target; the swaps are appended to the output and applied to the current
// layout. The layer itself is then appended, renamed to the wires of the
// initial layout. In LayerParallel mode the operations of a layer that come
// before a non-adjacent gate are appended ahead of that gate's swaps.
//
// Errors carry a code from pkg/errors: INVALID_INPUT, INVALID_LAYOUT,
// INSUFFICIENT_QUBITS, UNSUPPORTED, UNREACHABLE or INVALID_CONFIG. No partial
// result is returned on error.
func Route(c *circuit.Circuit, cg Coupling, initial *layout.Layout, opts Options) (*Result, error) {
	if c == nil || cg == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "circuit and coupling must not be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	if err := checkSupported(c); err != nil {
		return nil, err
	}
	if c.NumQubits() > cg.Size() {
		return nil, apperrors.New(apperrors.ErrCodeInsufficientQubits,
			"circuit needs %d qubits, device has %d", c.NumQubits(), cg.Size())
	}

	start, err := startLayout(c, cg, initial)
	if err != nil {
		return nil, err
	}

	r := &run{
		opts: opts,
		cg:   cg,
		ref:  start,
		cur:  start.Clone(),
		out:  c.EmptyLike(),
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
	}
	r.ancillaReg = ancillaName(c)

	layers := c.Layers(opts.LayerMode)
	for i, layer := range layers {
		if err := r.routeLayer(layers, i, layer); err != nil {
			return nil, err
		}
	}

	return &Result{
		Circuit:       r.out,
		InitialLayout: r.ref,
		FinalLayout:   r.cur,
		SwapCount:     r.swaps,
		Layers:        len(layers),
		Ancillas:      r.ancillas,
		Trace:         r.trace,
	}, nil
}

// run holds the state of one Route call.
type run struct {
	opts Options
	cg   Coupling
	ref  *layout.Layout // starting layout; defines the output wires
	cur  *layout.Layout
	out  *circuit.Circuit
	rng  *rand.Rand

	ancillaReg string
	ancillas   []circuit.Qubit
	swaps      int
	trace      []Step
}

// routeLayer makes every two-qubit gate of layer adjacent and appends the
// layer to the output. Before a swap chain is inserted, the operations of
// the layer that precede the gate are appended under the current layout, so
// the chain cannot pull apart a gate that was already adjacent. With serial
// layers that prefix is always empty.
func (r *run) routeLayer(layers []*circuit.Circuit, index int, layer *circuit.Circuit) error {
	ops := layer.Ops()
	done := 0 // ops[:done] are in the output
	for i, gate := range ops {
		if !gate.IsTwoQubit() {
			continue
		}
		p0, _ := r.cur.Physical(gate.Qubits[0])
		p1, _ := r.cur.Physical(gate.Qubits[1])
		if r.cg.IsAdjacent(p0, p1) {
			continue
		}

		if err := r.emit(layer, ops[done:i]); err != nil {
			return err
		}
		done = i

		var pending []circuit.Operation
		if r.opts.Strategy == StrategyStochastic {
			pending = upcoming(layers, index, ops[i+1:], r.opts.Lookahead)
		}
		choice, err := r.choosePath(p0, p1, pending)
		if err != nil {
			return err
		}
		swaps, err := r.insertSwaps(choice.path)
		if err != nil {
			return err
		}
		r.trace = append(r.trace, Step{
			Layer: index,
			Gate:  gate,
			From:  p0,
			To:    p1,
			Path:  choice.path,
			Swaps: swaps,
			Trial: choice.trial,
			Score: choice.score,
		})
	}
	return r.emit(layer, ops[done:])
}

// emit appends ops, taken from layer, renamed through the current layout.
func (r *run) emit(layer *circuit.Circuit, ops []circuit.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	sub := layer.EmptyLike()
	for _, op := range ops {
		if err := sub.Apply(op); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, err, "split layer")
		}
	}
	rename, err := r.cur.RenameMap(r.ref)
	if err != nil {
		return err
	}
	return r.out.Compose(sub, rename)
}

// insertSwaps appends one swap per edge of path except the last, then
// applies them to the current layout. It returns the swaps as written to the
// output.
func (r *run) insertSwaps(path []int) ([]circuit.Operation, error) {
	n := len(path) - 2
	if n <= 0 {
		return nil, nil
	}
	// Interior path qubits must hold a logical qubit before swapping.
	for _, p := range path[1 : len(path)-1] {
		if err := r.occupy(p); err != nil {
			return nil, err
		}
	}

	sub := r.out.EmptyLike()
	for j := range n {
		a, _ := r.cur.Logical(path[j])
		b, _ := r.cur.Logical(path[j+1])
		if err := sub.Apply(circuit.Swap(a, b)); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build swap layer")
		}
	}
	rename, err := r.cur.RenameMap(r.ref)
	if err != nil {
		return nil, err
	}
	if err := r.out.Compose(sub, rename); err != nil {
		return nil, err
	}
	emitted := sub.Ops()
	for i, op := range emitted {
		emitted[i] = op.Renamed(rename)
	}

	for j := range n {
		r.cur.Swap(path[j], path[j+1])
	}
	r.swaps += n
	return emitted, nil
}

// occupy allocates an ancilla qubit on physical qubit p if p is empty.
func (r *run) occupy(p int) error {
	if _, ok := r.cur.Logical(p); ok {
		return nil
	}
	if r.opts.NoAncillas {
		return apperrors.New(apperrors.ErrCodeInvalidLayout,
			"path crosses physical qubit %d, which holds no logical qubit", p)
	}
	added, err := r.out.ExtendQuantumRegister(r.ancillaReg, 1)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "allocate ancilla on %d", p)
	}
	q := added[0]
	if err := r.ref.Set(q, p); err != nil {
		return err
	}
	if err := r.cur.Set(q, p); err != nil {
		return err
	}
	r.ancillas = append(r.ancillas, q)
	return nil
}

func startLayout(c *circuit.Circuit, cg Coupling, initial *layout.Layout) (*layout.Layout, error) {
	if initial == nil {
		return layout.Trivial(c.QuantumRegisters(), physicalQubits(cg))
	}
	start := initial.Clone()
	if err := start.Validate(c.Qubits(), cg.Contains); err != nil {
		return nil, err
	}
	return start, nil
}

func physicalQubits(cg Coupling) []int {
	if pl, ok := cg.(PhysicalLister); ok {
		return pl.PhysicalQubits()
	}
	out := make([]int, cg.Size())
	for i := range out {
		out[i] = i
	}
	return out
}

func checkSupported(c *circuit.Circuit) error {
	for _, op := range c.Ops() {
		if len(op.Qubits) > 2 && op.Name != circuit.OpBarrier {
			return apperrors.New(apperrors.ErrCodeUnsupported,
				"%s acts on %d qubits; decompose it into one- and two-qubit gates first", op, len(op.Qubits))
		}
	}
	return nil
}

func ancillaName(c *circuit.Circuit) string {
	name := AncillaRegister
	for i := 1; c.HasQuantumRegister(name) || hasClassical(c, name); i++ {
		name = AncillaRegister + strconv.Itoa(i)
	}
	return name
}

func hasClassical(c *circuit.Circuit, name string) bool {
	for _, r := range c.ClassicalRegisters() {
		if r.Name == name {
			return true
		}
	}
	return false
}
