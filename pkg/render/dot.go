package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/swapmapper/pkg/coupling"
	"github.com/matzehuels/swapmapper/pkg/layout"
	"github.com/matzehuels/swapmapper/pkg/router"
)

// Options configures DOT generation.
type Options struct {
	// Layout labels physical qubits with the logical qubit they hold.
	Layout *layout.Layout

	// Swaps annotates edges with swap counts, keyed by edge as declared in
	// the coupling graph. See SwapCounts.
	Swaps map[coupling.Edge]int
}

// ToDOT converts a coupling graph to Graphviz DOT. Edges keep the
// direction they were declared with.
func ToDOT(g *coupling.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph coupling {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, p := range g.PhysicalQubits() {
		fmt.Fprintf(&buf, "  %d [%s];\n", p, strings.Join(nodeAttrs(p, opts.Layout), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d", e.From, e.To)
		if n := opts.Swaps[e]; n > 0 {
			fmt.Fprintf(&buf, " [label=\"%d\", penwidth=%d, color=firebrick]", n, min(1+n, 6))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(p int, l *layout.Layout) []string {
	if l == nil {
		return []string{fmt.Sprintf("label=%q", fmt.Sprint(p))}
	}
	q, ok := l.Logical(p)
	if !ok {
		return []string{
			fmt.Sprintf("label=%q", fmt.Sprint(p)),
			"style=\"filled,dashed\"", "fillcolor=lightgrey",
		}
	}
	return []string{fmt.Sprintf("label=%q", fmt.Sprintf("%d\n%s", p, q))}
}

// SwapCounts counts, per coupling edge, the swaps recorded in a routing
// trace. Swaps are attributed to the edge in its declared direction when g
// is given; pass nil to key by the direction the swap travelled.
func SwapCounts(trace []router.Step, g *coupling.Graph) map[coupling.Edge]int {
	counts := make(map[coupling.Edge]int)
	for _, st := range trace {
		for j := 0; j+2 < len(st.Path); j++ {
			e := coupling.Edge{From: st.Path[j], To: st.Path[j+1]}
			if g != nil && !g.HasEdge(e.From, e.To) {
				e = coupling.Edge{From: e.To, To: e.From}
			}
			counts[e]++
		}
	}
	return counts
}
