package router

import (
	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
	"github.com/matzehuels/swapmapper/pkg/layout"
)

// Verify checks that every two-qubit gate of a routed circuit acts on
// adjacent physical qubits, reading wire w as physical qubit
// wires.Physical(w). Pass Result.InitialLayout as wires.
func Verify(routed *circuit.Circuit, cg Coupling, wires *layout.Layout) error {
	for _, op := range routed.Ops() {
		if !op.IsTwoQubit() {
			continue
		}
		a, okA := wires.Physical(op.Qubits[0])
		b, okB := wires.Physical(op.Qubits[1])
		if !okA || !okB {
			return apperrors.New(apperrors.ErrCodeInvalidLayout, "%s uses a wire with no physical qubit", op)
		}
		if !cg.IsAdjacent(a, b) {
			return apperrors.New(apperrors.ErrCodeUnreachable,
				"%s acts on physical qubits %d and %d, which are not coupled", op, a, b)
		}
	}
	return nil
}
