package circuit_test

import (
	"fmt"

	"github.com/matzehuels/swapmapper/pkg/circuit"
)

func ExampleCircuit_Layers() {
	c := circuit.New()
	_ = c.AddQuantumRegister("q", 3)

	q := func(i int) circuit.Qubit { return circuit.Q("q", i) }
	_ = c.Apply(circuit.Gate("h", q(0)))
	_ = c.Apply(circuit.Gate("cx", q(0), q(1)))
	_ = c.Apply(circuit.Gate("x", q(2)))
	_ = c.Apply(circuit.Gate("cx", q(1), q(2)))

	for i, layer := range c.Layers(circuit.LayerParallel) {
		fmt.Println(i, layer.Ops())
	}
	// Output:
	// 0 [h q[0] x q[2]]
	// 1 [cx q[0], q[1]]
	// 2 [cx q[1], q[2]]
}

func ExampleCircuit_Compose() {
	sub := circuit.New()
	_ = sub.AddQuantumRegister("q", 2)
	_ = sub.Apply(circuit.Gate("cx", circuit.Q("q", 0), circuit.Q("q", 1)))

	out := sub.EmptyLike()
	_ = out.Compose(sub, map[circuit.Qubit]circuit.Qubit{
		circuit.Q("q", 0): circuit.Q("q", 1),
		circuit.Q("q", 1): circuit.Q("q", 0),
	})
	fmt.Println(out.Ops())
	// Output:
	// [cx q[1], q[0]]
}
