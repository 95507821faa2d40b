package qasm

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

const bell = `OPENQASM 2.0;
include "qelib1.inc";
// prepare a Bell pair
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`

func statements(c *circuit.Circuit) []string {
	var out []string
	for _, op := range c.Ops() {
		out = append(out, Statement(op))
	}
	return out
}

func TestParseBell(t *testing.T) {
	c, err := Parse(bell)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.NumQubits() != 2 {
		t.Errorf("NumQubits() = %d, want 2", c.NumQubits())
	}
	want := []string{"h q[0]", "cx q[0],q[1]", "measure q[0] -> c[0]", "measure q[1] -> c[1]"}
	if got := statements(c); !slices.Equal(got, want) {
		t.Errorf("statements = %q, want %q", got, want)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"params", "rz(pi/2) q[0]; u3(0.5, -pi/4, 2*pi) q[1];", []string{"rz(pi/2) q[0]", "u3(0.5,-pi/4,2*pi) q[1]"}},
		{"uppercase builtins", "U(0,0,pi) q[0]; CX q[0],q[1];", []string{"U(0,0,pi) q[0]", "CX q[0],q[1]"}},
		{"broadcast single", "h q;", []string{"h q[0]", "h q[1]", "h q[2]"}},
		{"broadcast pair", "cx q, r;", []string{"cx q[0],r[0]", "cx q[1],r[1]", "cx q[2],r[2]"}},
		{"broadcast mixed", "cx q[0], r;", []string{"cx q[0],r[0]", "cx q[0],r[1]", "cx q[0],r[2]"}},
		{"measure register", "measure q -> c;", []string{"measure q[0] -> c[0]", "measure q[1] -> c[1]", "measure q[2] -> c[2]"}},
		{"barrier", "barrier q[0], r;", []string{"barrier q[0],r[0],r[1],r[2]"}},
		{"reset", "reset q[1];", []string{"reset q[1]"}},
		{"condition", "if (c==3) x q[2];", []string{"if(c==3) x q[2]"}},
		{"multiline", "cx q[0],\n   q[1];", []string{"cx q[0],q[1]"}},
		{"gate declaration", "gate foo a, b { cx a, b; h a; }\nfoo q[0], q[1];", []string{"foo q[0],q[1]"}},
		{"opaque declaration", "opaque magic(x) a;\nmagic(0.1) q[0];", []string{"magic(0.1) q[0]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "OPENQASM 2.0;\nqreg q[3];\nqreg r[3];\ncreg c[3];\n" + tt.body
			c, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := statements(c); !slices.Equal(got, tt.want) {
				t.Errorf("statements = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{"missing semicolon", "qreg q[2];\nh q[0]", "line 2"},
		{"unknown register", "qreg q[2];\nh r[0];", "line 2"},
		{"index out of range", "qreg q[2];\n\nh q[2];", "line 3"},
		{"bad parameter", "qreg q[1];\nrz(theta) q[0];", "line 2"},
		{"duplicate register", "qreg q[1];\nqreg q[2];", "line 2"},
		{"size mismatch", "qreg q[2];\nqreg r[3];\ncx q, r;", "line 3"},
		{"unknown condition register", "qreg q[1];\nif (c==1) x q[0];", "line 2"},
		{"repeated qubit", "qreg q[2];\ncx q[0], q[0];", "line 2"},
		{"qasm 3 header", "OPENQASM 3.0;\nqubit[2] q;", "line 1"},
		{"unterminated gate", "qreg q[1];\ngate g a { h a;", "line 2"},
		{"measure without arrow", "qreg q[1];\ncreg c[1];\nmeasure q[0] c[0];", "line 3"},
		{"oversized register", "OPENQASM 2.0;\nqreg q[2000000000];", "line 2"},
		{"registers past the qubit limit", "qreg a[1000];\nqreg b[1000];", "line 2"},
		{"register size overflow", "qreg q[99999999999999999999];", "line 1"},
		{"unbalanced parameter", "qreg q[1];\nu1((pi/2) q[0];", "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if !apperrors.Is(err, apperrors.ErrCodeInvalidCircuit) {
				t.Fatalf("Parse error = %v, want INVALID_CIRCUIT", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q does not mention %s", err, tt.line)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	src := Header + `qreg q[3];
qreg anc[1];
creg c[3];
h q[0];
rz(pi/4) q[1];
u3(0.25,-pi/2,1e-05) q[2];
cx q[0],anc[0];
barrier q[0],q[1],q[2];
measure q[0] -> c[0];
if(c==1) x q[1];
reset q[2];
`
	c, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Format(c); got != src {
		t.Errorf("Format(Parse(src)) =\n%s\nwant\n%s", got, src)
	}
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.5", 1.5, true},
		{"-0.5", -0.5, true},
		{"3.14e-2", 0.0314, true},
		{"pi", math.Pi, true},
		{"-pi/2", -math.Pi / 2, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"2pi", 2 * math.Pi, true},
		{"-(pi/4)", -math.Pi / 4, true},
		{"(pi+1)/2", (math.Pi + 1) / 2, true},
		{"2*(pi/4)", math.Pi / 2, true},
		{"pi - pi/4", 3 * math.Pi / 4, true},
		{"1 + 2*3", 7, true},
		{"-2^2", -4, true},
		{"--pi", math.Pi, true},
		{"sin(pi/2)", 1, true},
		{"sqrt(4)*pi", 2 * math.Pi, true},
		{"1e-3*pi", 1e-3 * math.Pi, true},
		{"pi/0", 0, false},
		{"(pi", 0, false},
		{"pi)", 0, false},
		{"pi pi", 0, false},
		{"2**pi", 0, false},
		{"ln(0)", 0, false},
		{"theta", 0, false},
		{"cos", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseParam(tt.in)
		if ok != tt.ok || math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("parseParam(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseNestedParams(t *testing.T) {
	src := "qreg q[1];\nu1(-(pi/4)) q[0];\nu3((pi+1)/2,0,0) q[0];\nu1(2*(pi/4)) q[0];\n"
	c, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := [][]float64{{-math.Pi / 4}, {(math.Pi + 1) / 2, 0, 0}, {math.Pi / 2}}
	ops := c.Ops()
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(ops), len(want))
	}
	for i, op := range ops {
		if len(op.Params) != len(want[i]) {
			t.Fatalf("op %d params = %v, want %v", i, op.Params, want[i])
		}
		for j, v := range op.Params {
			if math.Abs(v-want[i][j]) > 1e-12 {
				t.Errorf("op %d param %d = %v, want %v", i, j, v, want[i][j])
			}
		}
	}
}

func TestFormatParam(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.Pi, "pi"},
		{-math.Pi / 4, "-pi/4"},
		{3 * math.Pi / 2, "3*pi/2"},
		{0.125, "0.125"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatParam(tt.in); got != tt.want {
			t.Errorf("formatParam(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
