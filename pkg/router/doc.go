// Package router inserts swap gates so a circuit respects device coupling.
//
// [Route] walks the layers of a circuit in order, keeping a current
// [layout.Layout] from logical to physical qubits. When a two-qubit gate
// acts on qubits that are not adjacent in the [Coupling], the qubit on the
// first operand is swapped along a shortest path until it sits next to the
// second. The swaps and the layer are appended to the output renamed to the
// wires of the starting layout, so wire w of the routed circuit always
// stands for the physical qubit the starting layout gave w.
//
// # Strategies
//
// [StrategyGreedy] is deterministic and ignores Trials and Seed.
// [StrategyStochastic] samples several shortest paths per gate with a seeded
// random source and keeps the one that leaves the remaining gates of the
// layer, plus the next Lookahead layers, closest to adjacent.
//
// # Ancillas
//
// A path may cross a physical qubit that holds no logical qubit. By default
// an ancilla qubit is allocated there, in a register named [AncillaRegister],
// and added to both the routed circuit and the starting layout reported in
// [Result]. With Options.NoAncillas such a path is an INVALID_LAYOUT error.
//
// [layout.Layout]: github.com/matzehuels/swapmapper/pkg/layout
package router
