// Package render draws coupling graphs with Graphviz.
//
// [ToDOT] produces DOT source in which every physical qubit is a node
// labelled with its index and, when a layout is given, the logical qubit it
// holds. Physical qubits without a logical qubit are drawn dashed and grey.
// Edges can be annotated with how many swaps a routing run placed on them:
//
//	dot := render.ToDOT(cg, render.Options{
//	    Layout: res.FinalLayout,
//	    Swaps:  render.SwapCounts(res.Trace),
//	})
//	svg, err := render.SVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no external binary is needed.
package render
