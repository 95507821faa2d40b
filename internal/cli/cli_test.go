package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/pipeline"
	"github.com/matzehuels/swapmapper/pkg/qasm"
)

const endpoints = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[4];
cx q[0],q[3];
`

const routedEndpoints = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[4];
swap q[0],q[1];
swap q[1],q[2];
cx q[2],q[3];
`

// execute runs the root command with args and returns what it wrote to its
// output stream. The cache lives in a temporary directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRouteStdout(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	out, err := execute(t, "", "route", file, "--coupling", "line:4")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if out != routedEndpoints {
		t.Errorf("output =\n%s\nwant\n%s", out, routedEndpoints)
	}
}

func TestRouteStdin(t *testing.T) {
	out, err := execute(t, endpoints, "route", "-", "-c", "0-1,1-2,2-3", "--no-cache")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if out != routedEndpoints {
		t.Errorf("output =\n%s\nwant\n%s", out, routedEndpoints)
	}
}

func TestRouteJSON(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	out, err := execute(t, "", "route", file, "-c", "line:4", "-f", "json")
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	var rep pipeline.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.Source != "endpoints.qasm" || rep.Coupling != "line:4" {
		t.Errorf("Source=%q Coupling=%q", rep.Source, rep.Coupling)
	}
	if rep.Swaps != 2 || len(rep.Trace) != 1 {
		t.Errorf("Swaps=%d trace=%d, want 2 and 1", rep.Swaps, len(rep.Trace))
	}
	want := map[string]int{"q[0]": 2, "q[1]": 0, "q[2]": 1, "q[3]": 3}
	for k, v := range want {
		if rep.FinalLayout[k] != v {
			t.Errorf("FinalLayout[%s] = %d, want %d", k, rep.FinalLayout[k], v)
		}
	}
}

func TestRouteWithLayout(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	out, err := execute(t, "", "route", file, "-c", "line:4", "--layout", "q[0]=0,q[1]=2,q[2]=3,q[3]=1", "-f", "json")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	var rep pipeline.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Swaps != 0 {
		t.Errorf("Swaps = %d, want 0 for adjacent placement", rep.Swaps)
	}
}

func TestRouteOutputFiles(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "routed.qasm")
	dotPath := filepath.Join(dir, "coupling.dot")

	out, err := execute(t, "", "route", file, "-c", "line:4", "-o", outPath, "--render", dotPath)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if out != "" {
		t.Errorf("nothing should be written to the output stream, got %q", out)
	}

	routed, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(routed) != routedEndpoints {
		t.Errorf("routed file =\n%s", routed)
	}

	dot, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph coupling", `2 [label="2\nq[0]"]`, `label="1"`} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("dot output missing %q:\n%s", want, dot)
		}
	}
}

func TestRouteConfigDefaults(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	cfg := writeTemp(t, "swapmapper.toml", `
[router]
strategy = "stochastic"
trials = 5
seed = 9

[coupling]
topology = "line"
qubits = 4

[cache]
backend = "none"
`)

	out, err := execute(t, "", "--config", cfg, "route", file, "-f", "json")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	var rep pipeline.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Strategy != "stochastic" || rep.Coupling != "line:4" {
		t.Errorf("Strategy=%q Coupling=%q, want config values", rep.Strategy, rep.Coupling)
	}

	// Flags win over the config file.
	out, err = execute(t, "", "--config", cfg, "route", file, "-f", "json", "-s", "greedy", "-c", "ring:4")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Strategy != "greedy" || rep.Coupling != "ring:4" {
		t.Errorf("Strategy=%q Coupling=%q, want flag values", rep.Strategy, rep.Coupling)
	}
}

func TestRouteErrors(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	bad := writeTemp(t, "bad.qasm", "qreg q[2];\ncx q[0], r[1];\n")
	couplingFile := writeTemp(t, "device.toml", "topology = \"line\"\nqubits = 4\n")

	tests := []struct {
		name string
		args []string
		code apperrors.Code
	}{
		{"missing file", []string{"route", filepath.Join(t.TempDir(), "nope.qasm"), "-c", "line:4"}, apperrors.ErrCodeFileNotFound},
		{"no coupling", []string{"route", file}, apperrors.ErrCodeInvalidCoupling},
		{"both coupling flags", []string{"route", file, "-c", "line:4", "--coupling-file", couplingFile}, apperrors.ErrCodeInvalidInput},
		{"bad shorthand", []string{"route", file, "-c", "cube:3"}, apperrors.ErrCodeInvalidCoupling},
		{"bad layout", []string{"route", file, "-c", "line:4", "-l", "q0=1"}, apperrors.ErrCodeInvalidLayout},
		{"unknown strategy", []string{"route", file, "-c", "line:4", "-s", "magic"}, apperrors.ErrCodeInvalidConfig},
		{"unknown format", []string{"route", file, "-c", "line:4", "-f", "yaml"}, apperrors.ErrCodeInvalidConfig},
		{"bad circuit", []string{"route", bad, "-c", "line:4"}, apperrors.ErrCodeInvalidCircuit},
		{"too few qubits", []string{"route", file, "-c", "line:3"}, apperrors.ErrCodeInsufficientQubits},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.toml"), "route", file}, apperrors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRouteCouplingFile(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	device := writeTemp(t, "device.toml", "edges = [[0, 1], [1, 2], [2, 3]]\n")

	out, err := execute(t, "", "route", file, "--coupling-file", device)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if out != routedEndpoints {
		t.Errorf("output =\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	dir := t.TempDir()
	cfg := writeTemp(t, "swapmapper.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	if _, err := execute(t, "", "--config", cfg, "route", file, "-c", "line:4"); err != nil {
		t.Fatalf("route: %v", err)
	}
	if n := countEntries(t, dir); n != 1 {
		t.Fatalf("cache entries after route = %d, want 1", n)
	}

	out, err := execute(t, "", "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	if _, err := execute(t, "", "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n := countEntries(t, dir); n != 0 {
		t.Errorf("cache entries after clear = %d, want 0", n)
	}
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestLayers(t *testing.T) {
	file := writeTemp(t, "layers.qasm", `OPENQASM 2.0;
qreg q[4];
h q[0];
cx q[2],q[3];
cx q[0],q[3];
`)

	out, err := execute(t, "", "layers", file)
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	for _, want := range []string{"Layer", "h q[0]", "cx q[2],q[3]", "cx q[0],q[3]"} {
		if !strings.Contains(out, want) {
			t.Errorf("layers output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "; ") {
		t.Errorf("serial layers should hold one operation each:\n%s", out)
	}
	if strings.Contains(out, "Swaps") {
		t.Errorf("swaps column shown without a coupling graph:\n%s", out)
	}

	out, err = execute(t, "", "layers", file, "--layer-mode", "parallel")
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	if !strings.Contains(out, "cx q[2],q[3]; h q[0]") {
		t.Errorf("parallel layer missing:\n%s", out)
	}

	out, err = execute(t, "", "layers", file, "-c", "line:4", "--no-cache")
	if err != nil {
		t.Fatalf("layers: %v", err)
	}
	if !strings.Contains(out, "Swaps") {
		t.Errorf("swaps column missing:\n%s", out)
	}
}

func TestLayerTable(t *testing.T) {
	c, err := qasm.Parse("qreg q[2];\nh q[0];\ncx q[0],q[1];\n")
	if err != nil {
		t.Fatal(err)
	}
	got := layerTable(c.Layers(circuit.LayerSerial), map[int]int{1: 3})
	for _, want := range []string{"h q[0]", "cx q[0],q[1]", "3"} {
		if !strings.Contains(got, want) {
			t.Errorf("layerTable missing %q:\n%s", want, got)
		}
	}
}

func TestInspectPlain(t *testing.T) {
	file := writeTemp(t, "endpoints.qasm", endpoints)
	out, err := execute(t, "", "inspect", file, "-c", "line:4", "--plain", "--no-cache")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"cx q[0], q[3]", "0 → 1 → 2 → 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestCouplingShow(t *testing.T) {
	out, err := execute(t, "", "coupling", "show", "grid:2x3")
	if err != nil {
		t.Fatalf("coupling show: %v", err)
	}
	for _, want := range []string{"grid:2x3", "Qubits", "6", "Diameter", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("coupling show missing %q:\n%s", want, out)
		}
	}
}

func TestCouplingRenderDOT(t *testing.T) {
	out, err := execute(t, "", "coupling", "render", "line:3", "-f", "dot", "-l", "q[0]=1")
	if err != nil {
		t.Fatalf("coupling render: %v", err)
	}
	for _, want := range []string{"digraph coupling", "0 -> 1;", `1 [label="1\nq[0]"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "", "coupling", "render", "line:3", "-f", "png"); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("png format error = %v, want INVALID_CONFIG", err)
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "swapmapper") {
		t.Error("bash completion does not mention swapmapper")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(out, "swapmapper version ") {
		t.Errorf("version output = %q", out)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--no-cache"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := root.ExecuteContext(ctx); err != nil {
		t.Errorf("serve after cancel: %v", err)
	}
}

func TestTraceModel(t *testing.T) {
	rep := pipeline.Report{
		Source:   "t.qasm",
		Coupling: "line:5",
		Swaps:    3,
		Trace: []pipeline.TraceStep{
			{Layer: 0, Gate: "cx q[0], q[2]", From: 0, To: 2, Path: []int{0, 1, 2}, Swaps: []string{"swap q[0], q[1]"}},
			{Layer: 1, Gate: "cx q[1], q[4]", From: 0, To: 4, Path: []int{0, 1, 2, 3, 4}, Swaps: []string{"swap a", "swap b"}, Trial: 2, Score: 1},
			{Layer: 2, Gate: "cx q[3], q[0]", From: 3, To: 0, Path: []int{3, 2, 1, 0}},
		},
	}
	m := NewTraceModel(rep)

	key := func(s string) tea.Msg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	step := func(m TraceModel, s string) (TraceModel, tea.Cmd) {
		next, cmd := m.Update(key(s))
		return next.(TraceModel), cmd
	}

	m, _ = step(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first step: %d", m.Cursor)
	}
	m, _ = step(m, "down")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.Cursor)
	}
	view := m.View()
	for _, want := range []string{"Routing trace", "cx q[1], q[4]", "swap b", "trial 2", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = step(m, "G")
	m, _ = step(m, "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d past the last step, want 2", m.Cursor)
	}
	m, _ = step(m, "g")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after g, want 0", m.Cursor)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 18})
	m = next.(TraceModel)
	if m.Height != 3 {
		t.Errorf("Height = %d, want the minimum of 3", m.Height)
	}
	m, _ = step(m, "G")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0 when all steps fit", m.Offset)
	}

	if _, cmd := step(m, "q"); cmd == nil {
		t.Error("q should quit")
	}
}

func TestFormatPath(t *testing.T) {
	if got := formatPath([]int{3, 2, 1}); got != "3 → 2 → 1" {
		t.Errorf("formatPath = %q", got)
	}
	if got := formatPath(nil); got != "" {
		t.Errorf("formatPath(nil) = %q", got)
	}
}

func TestRenderFormatFor(t *testing.T) {
	tests := map[string]string{
		"out.dot": pipeline.RenderDOT,
		"out.gv":  pipeline.RenderDOT,
		"out.svg": pipeline.RenderSVG,
		"":        pipeline.RenderSVG,
	}
	for path, want := range tests {
		if got := renderFormatFor(path); got != want {
			t.Errorf("renderFormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}
