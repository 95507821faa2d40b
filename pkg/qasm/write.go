package qasm

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/swapmapper/pkg/circuit"
)

// Header starts every program written by this package.
const Header = "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n"

// Write writes c as an OpenQASM 2.0 program: header, register declarations
// in order, then one statement per operation.
func Write(w io.Writer, c *circuit.Circuit) error {
	var buf bytes.Buffer
	buf.WriteString(Header)
	for _, r := range c.QuantumRegisters() {
		fmt.Fprintf(&buf, "qreg %s[%d];\n", r.Name, r.Size)
	}
	for _, r := range c.ClassicalRegisters() {
		fmt.Fprintf(&buf, "creg %s[%d];\n", r.Name, r.Size)
	}
	for _, op := range c.Ops() {
		buf.WriteString(Statement(op))
		buf.WriteString(";\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Format returns c as an OpenQASM 2.0 program.
func Format(c *circuit.Circuit) string {
	var sb strings.Builder
	_ = Write(&sb, c)
	return sb.String()
}

// Statement formats one operation without the trailing semicolon.
// Parameters that are common fractions of pi are written symbolically.
func Statement(op circuit.Operation) string {
	var sb strings.Builder
	if op.Condition != nil {
		fmt.Fprintf(&sb, "if(%s==%d) ", op.Condition.Register, op.Condition.Value)
	}
	sb.WriteString(op.Name)
	if len(op.Params) > 0 {
		params := make([]string, len(op.Params))
		for i, v := range op.Params {
			params[i] = formatParam(v)
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(params, ","))
	}
	args := make([]string, len(op.Qubits))
	for i, q := range op.Qubits {
		args[i] = q.String()
	}
	sb.WriteString(" " + strings.Join(args, ","))
	if op.Name == circuit.OpMeasure && len(op.Clbits) > 0 {
		sb.WriteString(" -> " + op.Clbits[0].String())
	}
	return sb.String()
}
