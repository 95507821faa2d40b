// Package circuit models quantum circuits as a DAG of operations over named
// qubit and classical-bit registers.
//
// # Model
//
// A [Circuit] declares quantum and classical registers and holds an
// append-only list of [Operation] values. Internally the operations form a
// [dag.DAG]: each operation is a node and each wire contributes an edge from
// the previous operation on that wire. Conditioned operations depend on every
// bit of their condition register.
//
// # Layers
//
// [Circuit.Layers] splits a circuit into sub-circuits that can be executed one
// after another. [LayerParallel] uses longest-path layering from
// [transform.AssignLayers]; [LayerSerial], the default, yields one operation
// per layer in program order.
// Composing the layers in order with [Circuit.Compose] and a nil rename map
// gives back a circuit [Circuit.Equal] to the original.
//
// # Renaming
//
// [Circuit.Compose] maps the qubits of the appended operations through a
// rename map. Swap routers use this to express a layer written on logical
// qubits on the wires of a reference layout.
//
// [dag.DAG]: github.com/matzehuels/swapmapper/pkg/dag
// [transform.AssignLayers]: github.com/matzehuels/swapmapper/pkg/dag/transform
package circuit
