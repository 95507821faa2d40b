// Package qasm reads and writes the OpenQASM 2.0 subset swapmapper routes.
//
// [Parse] accepts register declarations, gate applications with numeric or
// pi-valued parameters, measure, reset, barrier and classically conditioned
// statements. Gates are not expanded: "ccx a, b, c" stays a single
// three-qubit operation, which the router rejects. [Write] emits the same
// subset with a qelib1.inc header, so routed circuits can be fed to other
// OpenQASM 2.0 tools.
package qasm
