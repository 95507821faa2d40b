package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/swapmapper/pkg/coupling"
	"github.com/matzehuels/swapmapper/pkg/layout"
	"github.com/matzehuels/swapmapper/pkg/router"
)

func TestToDOTLayoutLabels(t *testing.T) {
	g, err := coupling.Line(3)
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Parse("q[0]=2, q[1]=0")
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g, Options{Layout: l})
	for _, want := range []string{
		`0 [label="0\nq[1]"];`,
		`1 [label="1", style="filled,dashed", fillcolor=lightgrey];`,
		`2 [label="2\nq[0]"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
}

func TestToDOTSwapAnnotations(t *testing.T) {
	g, err := coupling.Line(4)
	if err != nil {
		t.Fatal(err)
	}
	swaps := map[coupling.Edge]int{{From: 1, To: 2}: 3}

	dot := ToDOT(g, Options{Swaps: swaps})
	if !strings.Contains(dot, `1 -> 2 [label="3", penwidth=4, color=firebrick];`) {
		t.Errorf("DOT missing annotated edge\n%s", dot)
	}
	if !strings.Contains(dot, "  0 -> 1;\n") {
		t.Errorf("unused edge should be plain\n%s", dot)
	}
}

func TestSwapCounts(t *testing.T) {
	g, err := coupling.Line(4)
	if err != nil {
		t.Fatal(err)
	}
	trace := []router.Step{
		{Path: []int{0, 1, 2, 3}},
		{Path: []int{3, 2, 1}},
		{Path: []int{2, 3}},
	}

	got := SwapCounts(trace, g)
	want := map[coupling.Edge]int{{From: 0, To: 1}: 1, {From: 1, To: 2}: 1, {From: 2, To: 3}: 1}
	if len(got) != len(want) {
		t.Fatalf("SwapCounts = %v, want %v", got, want)
	}
	for e, n := range want {
		if got[e] != n {
			t.Errorf("SwapCounts[%s] = %d, want %d", e, got[e], n)
		}
	}

	raw := SwapCounts(trace, nil)
	if raw[coupling.Edge{From: 3, To: 2}] != 1 {
		t.Errorf("SwapCounts without graph = %v, want travel direction 3->2", raw)
	}
}

func TestSVG(t *testing.T) {
	g, err := coupling.Ring(4)
	if err != nil {
		t.Fatal(err)
	}
	svg, err := SVG(context.Background(), ToDOT(g, Options{}))
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got := string(normalizeViewBox(in)); got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox without viewBox changed input: %s", got)
	}
}
