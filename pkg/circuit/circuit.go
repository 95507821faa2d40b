package circuit

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/swapmapper/pkg/dag"
	"github.com/matzehuels/swapmapper/pkg/dag/transform"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

var (
	// ErrDuplicateRegister is returned when a register name is declared twice.
	ErrDuplicateRegister = errors.New("duplicate register")

	// ErrUnknownRegister is returned when a condition names an undeclared
	// classical register.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrUnknownQubit is returned when an operation or rename map refers to
	// a qubit that is not declared in the circuit.
	ErrUnknownQubit = errors.New("unknown qubit")

	// ErrUnknownClbit is returned when an operation refers to an undeclared
	// classical bit.
	ErrUnknownClbit = errors.New("unknown classical bit")

	// ErrRepeatedArgument is returned when an operation lists the same qubit
	// twice, e.g. "cx q[0], q[0]".
	ErrRepeatedArgument = errors.New("repeated qubit argument")
)

// wireMetaKey labels each dag edge with the wire it follows.
const wireMetaKey = "wire"

// Circuit is a quantum circuit stored as a DAG of operations.
//
// Every operation is a node; for every wire (qubit or classical bit) an edge
// links each operation to the next operation on that wire. Operations can
// only be appended, so insertion order is always a valid topological order.
//
// The zero value is not usable - use New. Circuit is not safe for concurrent
// use.
type Circuit struct {
	qregs  []Register
	cregs  []Register
	qubits map[Qubit]struct{}
	clbits map[Clbit]struct{}

	graph *dag.DAG
	ops   []Operation
	last  map[string]string // wire key -> ID of the last operation on it
}

// New creates an empty circuit with no registers.
func New() *Circuit {
	return &Circuit{
		qubits: make(map[Qubit]struct{}),
		clbits: make(map[Clbit]struct{}),
		graph:  dag.New(nil),
		last:   make(map[string]string),
	}
}

// EmptyLike returns a circuit with the same registers as c and no operations.
func (c *Circuit) EmptyLike() *Circuit {
	out := New()
	for _, r := range c.qregs {
		_ = out.AddQuantumRegister(r.Name, r.Size)
	}
	for _, r := range c.cregs {
		_ = out.AddClassicalRegister(r.Name, r.Size)
	}
	return out
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	out := c.EmptyLike()
	for _, op := range c.ops {
		_ = out.Apply(op)
	}
	return out
}

// MaxQubits bounds the total number of qubits a circuit may declare. No
// coupling graph is larger.
const MaxQubits = 1024

// AddQuantumRegister declares a quantum register of the given size.
func (c *Circuit) AddQuantumRegister(name string, size int) error {
	if err := c.checkRegister(name, size); err != nil {
		return err
	}
	if err := c.checkWidth(name, size); err != nil {
		return err
	}
	c.qregs = append(c.qregs, Register{Name: name, Size: size})
	for i := range size {
		c.qubits[Qubit{Register: name, Index: i}] = struct{}{}
	}
	return nil
}

// ExtendQuantumRegister adds n qubits to the quantum register name, creating
// it if needed, and returns the new qubits.
func (c *Circuit) ExtendQuantumRegister(name string, n int) ([]Qubit, error) {
	i := slices.IndexFunc(c.qregs, func(r Register) bool { return r.Name == name })
	if i < 0 {
		if err := c.AddQuantumRegister(name, n); err != nil {
			return nil, err
		}
		return c.registerQubits(name, 0, n), nil
	}
	start := c.qregs[i].Size
	if err := apperrors.ValidateRegisterSize(name, start+n); err != nil {
		return nil, err
	}
	if err := c.checkWidth(name, n); err != nil {
		return nil, err
	}
	c.qregs[i].Size += n
	added := c.registerQubits(name, start, start+n)
	for _, q := range added {
		c.qubits[q] = struct{}{}
	}
	return added, nil
}

func (c *Circuit) checkWidth(name string, n int) error {
	if n > MaxQubits-len(c.qubits) {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "register %s takes the circuit past %d qubits", name, MaxQubits)
	}
	return nil
}

func (c *Circuit) registerQubits(name string, from, to int) []Qubit {
	out := make([]Qubit, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, Qubit{Register: name, Index: i})
	}
	return out
}

// AddClassicalRegister declares a classical register of the given size.
func (c *Circuit) AddClassicalRegister(name string, size int) error {
	if err := c.checkRegister(name, size); err != nil {
		return err
	}
	c.cregs = append(c.cregs, Register{Name: name, Size: size})
	for i := range size {
		c.clbits[Clbit{Register: name, Index: i}] = struct{}{}
	}
	return nil
}

func (c *Circuit) checkRegister(name string, size int) error {
	if err := apperrors.ValidateRegisterName(name); err != nil {
		return err
	}
	if err := apperrors.ValidateRegisterSize(name, size); err != nil {
		return err
	}
	if c.hasRegister(name) {
		return apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, ErrDuplicateRegister, "register %s", name)
	}
	return nil
}

func (c *Circuit) hasRegister(name string) bool {
	match := func(r Register) bool { return r.Name == name }
	return slices.ContainsFunc(c.qregs, match) || slices.ContainsFunc(c.cregs, match)
}

// QuantumRegisters returns the quantum registers in declaration order.
func (c *Circuit) QuantumRegisters() []Register { return slices.Clone(c.qregs) }

// ClassicalRegisters returns the classical registers in declaration order.
func (c *Circuit) ClassicalRegisters() []Register { return slices.Clone(c.cregs) }

// HasQuantumRegister reports whether a quantum register with that name exists.
func (c *Circuit) HasQuantumRegister(name string) bool {
	return slices.ContainsFunc(c.qregs, func(r Register) bool { return r.Name == name })
}

// Qubits returns all declared qubits, register by register in declaration
// order, indices ascending within a register.
func (c *Circuit) Qubits() []Qubit {
	var out []Qubit
	for _, r := range c.qregs {
		for i := range r.Size {
			out = append(out, Qubit{Register: r.Name, Index: i})
		}
	}
	return out
}

// NumQubits returns the number of declared qubits.
func (c *Circuit) NumQubits() int { return len(c.qubits) }

// HasQubit reports whether q is declared in the circuit.
func (c *Circuit) HasQubit(q Qubit) bool {
	_, ok := c.qubits[q]
	return ok
}

// Apply appends an operation to the end of the circuit.
// Every qubit and classical bit must be declared, qubits must be distinct,
// and a condition must name a declared classical register.
func (c *Circuit) Apply(op Operation) error {
	if err := c.checkOperation(op); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "apply %s", op)
	}

	op = op.clone()
	id := "op" + strconv.Itoa(len(c.ops))
	if err := c.graph.AddNode(dag.Node{ID: id, Meta: dag.Metadata{"name": op.Name}}); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "add node %s", id)
	}
	c.ops = append(c.ops, op)

	for _, wire := range c.wires(op) {
		if prev, ok := c.last[wire]; ok {
			_ = c.graph.AddEdge(dag.Edge{From: prev, To: id, Meta: dag.Metadata{wireMetaKey: wire}})
		}
		c.last[wire] = id
	}
	return nil
}

func (c *Circuit) checkOperation(op Operation) error {
	if op.Name == "" {
		return errors.New("operation name must not be empty")
	}
	seen := make(map[Qubit]bool, len(op.Qubits))
	for _, q := range op.Qubits {
		if !c.HasQubit(q) {
			return fmt.Errorf("%w: %s", ErrUnknownQubit, q)
		}
		if seen[q] {
			return fmt.Errorf("%w: %s", ErrRepeatedArgument, q)
		}
		seen[q] = true
	}
	for _, b := range op.Clbits {
		if _, ok := c.clbits[b]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownClbit, b)
		}
	}
	if op.Condition != nil && !slices.ContainsFunc(c.cregs, func(r Register) bool { return r.Name == op.Condition.Register }) {
		return fmt.Errorf("%w: %s", ErrUnknownRegister, op.Condition.Register)
	}
	return nil
}

// wires lists the wire keys an operation touches. A conditioned operation
// reads every bit of its condition register.
func (c *Circuit) wires(op Operation) []string {
	var keys []string
	for _, q := range op.Qubits {
		keys = append(keys, "q:"+q.String())
	}
	bits := slices.Clone(op.Clbits)
	if op.Condition != nil {
		for _, r := range c.cregs {
			if r.Name != op.Condition.Register {
				continue
			}
			for i := range r.Size {
				b := Clbit{Register: r.Name, Index: i}
				if !slices.Contains(bits, b) {
					bits = append(bits, b)
				}
			}
		}
	}
	for _, b := range bits {
		keys = append(keys, "c:"+b.String())
	}
	return keys
}

// Ops returns a copy of all operations in insertion (topological) order.
func (c *Circuit) Ops() []Operation {
	out := make([]Operation, len(c.ops))
	for i, op := range c.ops {
		out[i] = op.clone()
	}
	return out
}

// Size returns the number of operations.
func (c *Circuit) Size() int { return len(c.ops) }

// TwoQubitOps returns the two-qubit operations in circuit order.
func (c *Circuit) TwoQubitOps() []Operation {
	var out []Operation
	for _, op := range c.ops {
		if op.IsTwoQubit() {
			out = append(out, op.clone())
		}
	}
	return out
}

// CountOps returns the number of operations per operation name.
func (c *Circuit) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, op := range c.ops {
		counts[op.Name]++
	}
	return counts
}

// WireOps returns the operations acting on q, in order.
func (c *Circuit) WireOps(q Qubit) []Operation {
	var out []Operation
	for _, op := range c.ops {
		if slices.Contains(op.Qubits, q) {
			out = append(out, op.clone())
		}
	}
	return out
}

// Depth returns the number of parallel layers. Barriers count as operations.
func (c *Circuit) Depth() int {
	return transform.AssignLayers(c.graph.Clone())
}

// Compose appends every operation of other to c, mapping qubits through
// rename. Qubits absent from rename keep their name. Classical bits are
// never renamed. Every resulting qubit must be declared in c.
func (c *Circuit) Compose(other *Circuit, rename map[Qubit]Qubit) error {
	for _, op := range other.ops {
		mapped := op.Renamed(rename)
		for _, q := range mapped.Qubits {
			if !c.HasQubit(q) {
				return apperrors.Wrap(apperrors.ErrCodeInvalidCircuit,
					fmt.Errorf("%w: %s", ErrUnknownQubit, q), "compose %s", op)
			}
		}
		if err := c.Apply(mapped); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two circuits declare the same registers and have the
// same sequence of operations on every wire. This is equality of the
// operation DAGs: two circuits that differ only in the order of operations
// on disjoint wires are equal.
func (c *Circuit) Equal(other *Circuit) bool {
	if !slices.Equal(c.qregs, other.qregs) || !slices.Equal(c.cregs, other.cregs) {
		return false
	}
	if len(c.ops) != len(other.ops) {
		return false
	}
	a, b := c.wireSequences(), other.wireSequences()
	if len(a) != len(b) {
		return false
	}
	for wire, seqA := range a {
		seqB, ok := b[wire]
		if !ok || len(seqA) != len(seqB) {
			return false
		}
		for i := range seqA {
			if !seqA[i].Equal(seqB[i]) {
				return false
			}
		}
	}
	return true
}

func (c *Circuit) wireSequences() map[string][]Operation {
	seqs := make(map[string][]Operation)
	for _, op := range c.ops {
		wires := c.wires(op)
		if len(wires) == 0 {
			seqs[""] = append(seqs[""], op)
		}
		for _, w := range wires {
			seqs[w] = append(seqs[w], op)
		}
	}
	return seqs
}
