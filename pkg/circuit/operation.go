package circuit

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Names of operations the router treats specially.
const (
	OpSwap    = "swap"
	OpBarrier = "barrier"
	OpMeasure = "measure"
	OpReset   = "reset"
)

// Qubit identifies a logical qubit by register name and index.
type Qubit struct {
	Register string
	Index    int
}

// Q is shorthand for Qubit{Register: reg, Index: i}.
func Q(reg string, i int) Qubit { return Qubit{Register: reg, Index: i} }

// String formats the qubit in OpenQASM notation, e.g. "q[3]".
func (q Qubit) String() string { return fmt.Sprintf("%s[%d]", q.Register, q.Index) }

// Clbit identifies a classical bit by register name and index.
type Clbit struct {
	Register string
	Index    int
}

// String formats the bit in OpenQASM notation, e.g. "c[0]".
func (c Clbit) String() string { return fmt.Sprintf("%s[%d]", c.Register, c.Index) }

// Register is a named, sized block of qubits or classical bits.
type Register struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Condition makes an operation conditional on a classical register value,
// as in OpenQASM's "if (c==1) x q[0];".
type Condition struct {
	Register string
	Value    int
}

// Operation is one node of a circuit: a named gate applied to qubits, with
// optional classical bits, parameters and condition.
type Operation struct {
	Name      string
	Qubits    []Qubit
	Clbits    []Clbit
	Params    []float64
	Condition *Condition
}

// Swap returns a swap operation between two qubits.
func Swap(a, b Qubit) Operation {
	return Operation{Name: OpSwap, Qubits: []Qubit{a, b}}
}

// Gate returns an unparameterized gate on the given qubits.
func Gate(name string, qubits ...Qubit) Operation {
	return Operation{Name: name, Qubits: qubits}
}

// IsTwoQubit reports whether the operation is a two-qubit gate that must act
// on coupled physical qubits. Barriers are excluded: they constrain ordering
// but are not executed on hardware.
func (o Operation) IsTwoQubit() bool {
	return len(o.Qubits) == 2 && o.Name != OpBarrier
}

// IsSwap reports whether the operation is a swap gate.
func (o Operation) IsSwap() bool { return o.Name == OpSwap }

// Renamed returns a copy of the operation with its qubits mapped through
// rename. Qubits missing from rename are kept as they are.
func (o Operation) Renamed(rename map[Qubit]Qubit) Operation {
	out := o.clone()
	for i, q := range out.Qubits {
		if r, ok := rename[q]; ok {
			out.Qubits[i] = r
		}
	}
	return out
}

// Equal reports whether two operations have the same name, arguments,
// parameters and condition.
func (o Operation) Equal(p Operation) bool {
	if o.Name != p.Name ||
		!slices.Equal(o.Qubits, p.Qubits) ||
		!slices.Equal(o.Clbits, p.Clbits) ||
		!slices.Equal(o.Params, p.Params) {
		return false
	}
	switch {
	case o.Condition == nil && p.Condition == nil:
		return true
	case o.Condition == nil || p.Condition == nil:
		return false
	default:
		return *o.Condition == *p.Condition
	}
}

// String formats the operation as an OpenQASM statement without the
// trailing semicolon, e.g. "cx q[0], q[1]" or "rz(0.5) q[2]".
func (o Operation) String() string {
	var sb strings.Builder
	if o.Condition != nil {
		fmt.Fprintf(&sb, "if (%s==%d) ", o.Condition.Register, o.Condition.Value)
	}
	sb.WriteString(o.Name)
	if len(o.Params) > 0 {
		params := make([]string, len(o.Params))
		for i, p := range o.Params {
			params[i] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(params, ", "))
	}
	args := make([]string, len(o.Qubits))
	for i, q := range o.Qubits {
		args[i] = q.String()
	}
	sb.WriteString(" " + strings.Join(args, ", "))
	if o.Name == OpMeasure && len(o.Clbits) > 0 {
		clbits := make([]string, len(o.Clbits))
		for i, c := range o.Clbits {
			clbits[i] = c.String()
		}
		sb.WriteString(" -> " + strings.Join(clbits, ", "))
	}
	return sb.String()
}

func (o Operation) clone() Operation {
	out := Operation{
		Name:   o.Name,
		Qubits: slices.Clone(o.Qubits),
		Clbits: slices.Clone(o.Clbits),
		Params: slices.Clone(o.Params),
	}
	if o.Condition != nil {
		cond := *o.Condition
		out.Condition = &cond
	}
	return out
}

var qubitRegex = regexp.MustCompile(`^\s*([a-z][A-Za-z0-9_]*)\s*\[\s*(\d+)\s*\]\s*$`)

// ParseQubit parses "reg[i]" into a Qubit.
func ParseQubit(s string) (Qubit, error) {
	m := qubitRegex.FindStringSubmatch(s)
	if m == nil {
		return Qubit{}, fmt.Errorf("invalid qubit %q (want reg[index])", s)
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return Qubit{}, fmt.Errorf("invalid qubit index in %q: %w", s, err)
	}
	return Qubit{Register: m[1], Index: idx}, nil
}
