package qasm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

var (
	regRegex    = regexp.MustCompile(`^(qreg|creg)\s+([a-z][A-Za-z0-9_]*)\s*\[\s*(\d+)\s*\]$`)
	ifRegex     = regexp.MustCompile(`^if\s*\(\s*([a-z][A-Za-z0-9_]*)\s*==\s*(\d+)\s*\)\s*(.+)$`)
	gateRegex   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*(.*)$`)
	argRegex    = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*)\s*(?:\[\s*(\d+)\s*\])?$`)
	headerRegex = regexp.MustCompile(`^OPENQASM\s+(\d+(?:\.\d+)?)$`)
)

// statement is one ";"-terminated QASM statement and the line it starts on.
type statement struct {
	text string
	line int
}

// Parse reads an OpenQASM 2.0 program into a circuit.
//
// Supported statements are qreg, creg, gate applications with optional
// parameters, measure, reset, barrier and "if (creg==n)" conditions.
// Register arguments are broadcast as in OpenQASM: "h q;" applies h to every
// qubit of q. Gate and opaque declarations are skipped; applications of the
// declared gates are kept as opaque operations.
func Parse(src string) (*circuit.Circuit, error) {
	stmts, err := split(src)
	if err != nil {
		return nil, err
	}

	p := &parser{c: circuit.New(), qregs: map[string]int{}, cregs: map[string]int{}}
	for _, st := range stmts {
		if err := p.statement(st.text); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "line %d", st.line)
		}
	}
	return p.c, nil
}

// split strips comments and breaks src into statements, dropping gate and
// opaque declarations.
func split(src string) ([]statement, error) {
	var b strings.Builder
	for line := range strings.Lines(src) {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i] + "\n"
		}
		b.WriteString(line)
	}
	text := b.String()

	var stmts []statement
	line := 1
	for len(text) > 0 {
		trimmed := strings.TrimLeft(text, " \t\r\n")
		line += strings.Count(text[:len(text)-len(trimmed)], "\n")
		text = trimmed
		if text == "" {
			break
		}

		if isDecl(text, "gate") {
			end := strings.Index(text, "}")
			if end < 0 {
				return nil, apperrors.New(apperrors.ErrCodeInvalidCircuit, "line %d: unterminated gate declaration", line)
			}
			line += strings.Count(text[:end+1], "\n")
			text = text[end+1:]
			continue
		}

		end := strings.Index(text, ";")
		if end < 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidCircuit, "line %d: missing ';'", line)
		}
		body := strings.Join(strings.Fields(text[:end]), " ")
		if !isDecl(body, "opaque") {
			stmts = append(stmts, statement{text: body, line: line})
		}
		line += strings.Count(text[:end+1], "\n")
		text = text[end+1:]
	}
	return stmts, nil
}

func isDecl(s, keyword string) bool {
	rest, ok := strings.CutPrefix(s, keyword)
	return ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r')
}

type parser struct {
	c     *circuit.Circuit
	qregs map[string]int
	cregs map[string]int
}

func (p *parser) statement(s string) error {
	switch {
	case strings.HasPrefix(s, "OPENQASM"):
		m := headerRegex.FindStringSubmatch(s)
		if m == nil || !strings.HasPrefix(m[1], "2") {
			return apperrors.New(apperrors.ErrCodeInvalidCircuit, "unsupported header %q (want OPENQASM 2.0)", s)
		}
		return nil
	case strings.HasPrefix(s, "include"):
		return nil
	case strings.HasPrefix(s, "qreg") || strings.HasPrefix(s, "creg"):
		return p.register(s)
	}

	var cond *circuit.Condition
	if m := ifRegex.FindStringSubmatch(s); m != nil {
		if _, ok := p.cregs[m[1]]; !ok {
			return apperrors.New(apperrors.ErrCodeInvalidCircuit, "unknown classical register %q", m[1])
		}
		v, _ := strconv.Atoi(m[2])
		cond = &circuit.Condition{Register: m[1], Value: v}
		s = m[3]
	}

	if rest, ok := strings.CutPrefix(s, "measure "); ok {
		return p.measure(rest, cond)
	}
	return p.gate(s, cond)
}

func (p *parser) register(s string) error {
	m := regRegex.FindStringSubmatch(s)
	if m == nil {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "malformed register declaration %q", s)
	}
	size, err := strconv.Atoi(m[3])
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "register %s size", m[2])
	}
	if m[1] == "qreg" {
		if err := p.c.AddQuantumRegister(m[2], size); err != nil {
			return err
		}
		p.qregs[m[2]] = size
		return nil
	}
	if err := p.c.AddClassicalRegister(m[2], size); err != nil {
		return err
	}
	p.cregs[m[2]] = size
	return nil
}

func (p *parser) gate(s string, cond *circuit.Condition) error {
	m := gateRegex.FindStringSubmatch(s)
	if m == nil {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "malformed statement %q", s)
	}
	name := m[1]
	rawParams, rawArgs, ok := splitParams(m[2])
	if !ok {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "unbalanced parentheses in %s", name)
	}
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "%s has no arguments", name)
	}

	var params []float64
	if strings.TrimSpace(rawParams) != "" {
		for _, part := range splitTopLevel(rawParams) {
			v, ok := parseParam(part)
			if !ok {
				return apperrors.New(apperrors.ErrCodeInvalidCircuit, "bad parameter %q in %s", strings.TrimSpace(part), name)
			}
			params = append(params, v)
		}
	}

	args, err := p.args(rawArgs, p.qregs)
	if err != nil {
		return err
	}

	// A barrier spans all its arguments at once.
	if name == circuit.OpBarrier {
		var qubits []circuit.Qubit
		for _, a := range args {
			for _, b := range a {
				qubits = append(qubits, circuit.Qubit(b))
			}
		}
		return p.c.Apply(circuit.Operation{Name: name, Qubits: qubits, Condition: cond})
	}

	n, err := broadcastLen(args)
	if err != nil {
		return err
	}
	for i := range n {
		op := circuit.Operation{Name: name, Params: params, Condition: cond}
		for _, a := range args {
			op.Qubits = append(op.Qubits, circuit.Qubit(pick(a, i)))
		}
		if err := p.c.Apply(op); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) measure(s string, cond *circuit.Condition) error {
	src, dst, ok := strings.Cut(s, "->")
	if !ok {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "measure without '->'")
	}
	qs, err := p.args(src, p.qregs)
	if err != nil {
		return err
	}
	cs, err := p.args(dst, p.cregs)
	if err != nil {
		return err
	}
	if len(qs) != 1 || len(cs) != 1 {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "measure takes one source and one target")
	}
	n, err := broadcastLen([][]bit{qs[0], cs[0]})
	if err != nil {
		return err
	}
	for i := range n {
		op := circuit.Operation{
			Name:      circuit.OpMeasure,
			Qubits:    []circuit.Qubit{circuit.Qubit(pick(qs[0], i))},
			Clbits:    []circuit.Clbit{circuit.Clbit(pick(cs[0], i))},
			Condition: cond,
		}
		if err := p.c.Apply(op); err != nil {
			return err
		}
	}
	return nil
}

// bit is a register element; it converts to both circuit.Qubit and
// circuit.Clbit.
type bit struct {
	Register string
	Index    int
}

// args parses a comma-separated argument list. Each argument expands to one
// bit ("q[2]") or to every bit of a register ("q").
func (p *parser) args(s string, regs map[string]int) ([][]bit, error) {
	var out [][]bit
	for raw := range strings.SplitSeq(s, ",") {
		raw = strings.TrimSpace(raw)
		m := argRegex.FindStringSubmatch(raw)
		if m == nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidCircuit, "malformed argument %q", raw)
		}
		size, ok := regs[m[1]]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidCircuit, "unknown register %q", m[1])
		}
		if m[2] == "" {
			whole := make([]bit, size)
			for i := range size {
				whole[i] = bit{Register: m[1], Index: i}
			}
			out = append(out, whole)
			continue
		}
		idx, _ := strconv.Atoi(m[2])
		if idx >= size {
			return nil, apperrors.New(apperrors.ErrCodeInvalidCircuit, "index %s out of range for %s[%d]", raw, m[1], size)
		}
		out = append(out, []bit{{Register: m[1], Index: idx}})
	}
	return out, nil
}

// broadcastLen returns how many operations a broadcast expands to. Whole
// registers must agree in size; single bits repeat.
func broadcastLen(args [][]bit) (int, error) {
	n := 1
	for _, a := range args {
		if len(a) == 1 {
			continue
		}
		if n != 1 && len(a) != n {
			return 0, apperrors.New(apperrors.ErrCodeInvalidCircuit, "register arguments of different sizes (%d and %d)", n, len(a))
		}
		n = len(a)
	}
	return n, nil
}

func pick(a []bit, i int) bit {
	if len(a) == 1 {
		return a[0]
	}
	return a[i]
}
