// Package pkg provides the core libraries of swapmapper, a router that makes
// quantum circuits executable on devices with limited qubit connectivity.
//
// # Overview
//
// A two-qubit gate can only run on two physical qubits that are connected on
// the device. swapmapper rewrites a circuit so that this holds for every
// gate, inserting swap gates that move logical qubits across the coupling
// graph. The packages are organized in three areas:
//
//  1. Domain model: [circuit], [dag], [coupling], [layout]
//  2. Routing: [router]
//  3. Plumbing: [qasm], [pipeline], [cache], [render], [server],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow of one routing run:
//
//	OpenQASM 2.0 program
//	         ↓
//	    [qasm] package (parse into a circuit DAG)
//	         ↓
//	    [circuit] package (split into layers)
//	         ↓
//	    [router] package (insert swaps along coupling paths)
//	         ↓
//	    OpenQASM / JSON report / coupling graph SVG
//
// [pipeline.Runner] wires these steps together with caching and is what the
// CLI and the HTTP server call.
//
// # Quick Start
//
//	c, _ := qasm.Parse(src)
//	g, _ := coupling.Line(5)
//	res, err := router.Route(c, g, nil, router.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Print(qasm.Format(res.Circuit))
//	fmt.Println(res.SwapCount, res.FinalLayout)
//
// # Main Packages
//
//   - [circuit]: registers, operations and the wire DAG of a circuit
//   - [dag]: generic directed acyclic graph with layering transforms
//   - [coupling]: device coupling graphs, shortest paths, topologies
//   - [layout]: logical to physical qubit assignments
//   - [router]: greedy and stochastic swap insertion
//   - [qasm]: OpenQASM 2.0 reader and writer
//   - [pipeline]: parse, route, cache and render in one call
//   - [cache]: null, file and Redis result caches
//   - [render]: coupling graph DOT and SVG output
//   - [server]: HTTP API over the pipeline
//
// [circuit]: github.com/matzehuels/swapmapper/pkg/circuit
// [dag]: github.com/matzehuels/swapmapper/pkg/dag
// [coupling]: github.com/matzehuels/swapmapper/pkg/coupling
// [layout]: github.com/matzehuels/swapmapper/pkg/layout
// [router]: github.com/matzehuels/swapmapper/pkg/router
// [qasm]: github.com/matzehuels/swapmapper/pkg/qasm
// [pipeline]: github.com/matzehuels/swapmapper/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/swapmapper/pkg/pipeline
// [cache]: github.com/matzehuels/swapmapper/pkg/cache
// [render]: github.com/matzehuels/swapmapper/pkg/render
// [server]: github.com/matzehuels/swapmapper/pkg/server
// [observability]: github.com/matzehuels/swapmapper/pkg/observability
// [errors]: github.com/matzehuels/swapmapper/pkg/errors
// [buildinfo]: github.com/matzehuels/swapmapper/pkg/buildinfo
package pkg
