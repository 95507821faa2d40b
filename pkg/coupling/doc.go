// Package coupling describes the connectivity of physical qubits on a device.
//
// A [Graph] holds directed edges between non-negative physical qubit
// indices. Two-qubit gates may only act on qubits joined by an edge; routing
// ignores edge direction, so [Graph.IsAdjacent], [Graph.Distance] and
// [Graph.ShortestPath] all work on the undirected view.
//
// Graphs come from adjacency maps ([FromMap]), edge lists ([FromEdges]),
// standard topologies ([Line], [Ring], [Grid], [Star]), TOML files ([Load])
// or compact command-line descriptions ([Parse]).
package coupling
