// Package transform provides graph transformations over [dag.DAG].
//
// # Layer Assignment
//
// [AssignLayers] assigns each node to the row one below its deepest parent.
// For a circuit graph (operations as nodes, wires as edges) the resulting
// rows are the as-soon-as-possible schedule: every row is a maximal set of
// operations that can run together, and row order respects every wire.
// [AssignSerial] instead gives every node its own row in topological order.
//
// [dag.DAG]: github.com/matzehuels/swapmapper/pkg/dag
package transform
