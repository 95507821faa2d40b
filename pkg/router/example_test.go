package router_test

import (
	"fmt"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	"github.com/matzehuels/swapmapper/pkg/router"
)

func ExampleRoute() {
	// [0]--[1]--[2]--[3]
	cg, _ := coupling.Line(4)

	c := circuit.New()
	_ = c.AddQuantumRegister("q", 4)
	_ = c.Apply(circuit.Gate("cx", circuit.Q("q", 0), circuit.Q("q", 3)))

	res, err := router.Route(c, cg, nil, router.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, op := range res.Circuit.Ops() {
		fmt.Println(op)
	}
	fmt.Println("swaps:", res.SwapCount)
	fmt.Println("final:", res.FinalLayout)
	// Output:
	// swap q[0], q[1]
	// swap q[1], q[2]
	// cx q[2], q[3]
	// swaps: 2
	// final: q[0]->2 q[1]->0 q[2]->1 q[3]->3
}
