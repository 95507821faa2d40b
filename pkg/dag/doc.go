// Package dag provides a directed acyclic graph that keeps node insertion
// order and supports grouping nodes into rows (layers).
//
// # Overview
//
// swapmapper stores quantum circuits as graphs of operations: every
// operation is a node, and an edge runs from an operation to the next
// operation on each wire it touches. This package holds that structure
// without knowing anything about qubits; [circuit] builds on top of it.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "h0"})
//	g.AddNode(dag.Node{ID: "cx1"})
//	g.AddEdge(dag.Edge{From: "h0", To: "cx1", Meta: dag.Metadata{"wire": "q[0]"}})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.NodesInRow] and [DAG.TopologicalOrder]. Use [DAG.Validate] to verify
// structural integrity.
//
// # Rows
//
// Rows are layer assignments. [transform.AssignLayers] puts every node one
// row below its deepest parent, which yields the as-soon-as-possible
// schedule of a circuit: nodes in the same row never share a wire.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
//
// [circuit]: github.com/matzehuels/swapmapper/pkg/circuit
// [transform.AssignLayers]: github.com/matzehuels/swapmapper/pkg/dag/transform
package dag
