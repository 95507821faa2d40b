// Package layout maps logical qubits to physical qubits.
//
// A [Layout] is a bijection between a set of logical qubits and a set of
// physical qubit indices. Routers start from an initial layout, mutate a copy
// with [Layout.Swap] as they insert swaps, and use [Layout.RenameMap] to
// express operations on the wires of the initial layout.
package layout

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

var (
	// ErrUnmappedQubit is returned when a logical qubit has no physical qubit.
	ErrUnmappedQubit = errors.New("logical qubit not mapped")

	// ErrPhysicalInUse is returned when two logical qubits map to the same
	// physical qubit.
	ErrPhysicalInUse = errors.New("physical qubit already assigned")

	// ErrPhysicalOutOfRange is returned when a layout uses a physical qubit
	// that is not on the device.
	ErrPhysicalOutOfRange = errors.New("physical qubit not on device")
)

// Layout is a bijection between logical and physical qubits.
// The zero value is not usable - use New, Trivial or FromMap.
type Layout struct {
	v2p map[circuit.Qubit]int
	p2v map[int]circuit.Qubit
}

// New returns an empty layout.
func New() *Layout {
	return &Layout{
		v2p: make(map[circuit.Qubit]int),
		p2v: make(map[int]circuit.Qubit),
	}
}

// Trivial assigns physical qubits 0, 1, 2, ... to the qubits of regs in
// declaration order. It fails with INSUFFICIENT_QUBITS when regs hold more
// qubits than physical is long.
func Trivial(regs []circuit.Register, physical []int) (*Layout, error) {
	total := 0
	for _, r := range regs {
		total += r.Size
	}
	if total > len(physical) {
		return nil, apperrors.New(apperrors.ErrCodeInsufficientQubits,
			"circuit needs %d qubits, device has %d", total, len(physical))
	}

	l := New()
	next := 0
	for _, r := range regs {
		for i := range r.Size {
			_ = l.Set(circuit.Qubit{Register: r.Name, Index: i}, physical[next])
			next++
		}
	}
	return l, nil
}

// FromMap builds a layout from a logical -> physical map. The map must be
// injective.
func FromMap(m map[circuit.Qubit]int) (*Layout, error) {
	l := New()
	for _, q := range sortedQubits(m) {
		if err := l.Set(q, m[q]); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Set maps q to p. Remapping q releases its previous physical qubit.
// Fails with INVALID_LAYOUT if p is held by another logical qubit.
func (l *Layout) Set(q circuit.Qubit, p int) error {
	if holder, ok := l.p2v[p]; ok && holder != q {
		return apperrors.Wrap(apperrors.ErrCodeInvalidLayout, ErrPhysicalInUse,
			"%s and %s both on physical qubit %d", holder, q, p)
	}
	if old, ok := l.v2p[q]; ok {
		delete(l.p2v, old)
	}
	l.v2p[q] = p
	l.p2v[p] = q
	return nil
}

// Physical returns the physical qubit holding q.
func (l *Layout) Physical(q circuit.Qubit) (int, bool) {
	p, ok := l.v2p[q]
	return p, ok
}

// Logical returns the logical qubit held by physical qubit p.
func (l *Layout) Logical(p int) (circuit.Qubit, bool) {
	q, ok := l.p2v[p]
	return q, ok
}

// Swap exchanges the logical qubits held by physical qubits p1 and p2.
// Either side may be unassigned, in which case the other logical qubit
// simply moves.
func (l *Layout) Swap(p1, p2 int) {
	q1, ok1 := l.p2v[p1]
	q2, ok2 := l.p2v[p2]
	delete(l.p2v, p1)
	delete(l.p2v, p2)
	if ok1 {
		l.v2p[q1] = p2
		l.p2v[p2] = q1
	}
	if ok2 {
		l.v2p[q2] = p1
		l.p2v[p1] = q2
	}
}

// Clone returns an independent copy of the layout.
func (l *Layout) Clone() *Layout {
	return &Layout{v2p: maps.Clone(l.v2p), p2v: maps.Clone(l.p2v)}
}

// Len returns the number of mapped logical qubits.
func (l *Layout) Len() int { return len(l.v2p) }

// Qubits returns the mapped logical qubits sorted by register then index.
func (l *Layout) Qubits() []circuit.Qubit { return sortedQubits(l.v2p) }

// PhysicalQubits returns the occupied physical qubits in ascending order.
func (l *Layout) PhysicalQubits() []int {
	return slices.Sorted(maps.Keys(l.p2v))
}

// Map returns a copy of the logical -> physical assignment.
func (l *Layout) Map() map[circuit.Qubit]int { return maps.Clone(l.v2p) }

// Equal reports whether two layouts hold the same assignment.
func (l *Layout) Equal(other *Layout) bool {
	return maps.Equal(l.v2p, other.v2p)
}

// RenameMap returns, for every logical qubit q of l, the logical qubit that
// ref places on the physical qubit currently holding q:
//
//	rename[q] = ref.Logical(l.Physical(q))
//
// Composing a sub-circuit written on logical qubits with this map expresses it
// on the wires of ref. Fails with INVALID_LAYOUT when ref leaves one of those
// physical qubits empty.
func (l *Layout) RenameMap(ref *Layout) (map[circuit.Qubit]circuit.Qubit, error) {
	rename := make(map[circuit.Qubit]circuit.Qubit, len(l.v2p))
	for q, p := range l.v2p {
		r, ok := ref.p2v[p]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidLayout,
				"physical qubit %d holds %s but is empty in the reference layout", p, q)
		}
		rename[q] = r
	}
	return rename, nil
}

// Validate checks that the layout covers exactly the given logical qubits
// and only uses physical qubits for which onDevice returns true.
func (l *Layout) Validate(qubits []circuit.Qubit, onDevice func(int) bool) error {
	var missing []string
	for _, q := range qubits {
		p, ok := l.v2p[q]
		if !ok {
			missing = append(missing, q.String())
			continue
		}
		if !onDevice(p) {
			return apperrors.Wrap(apperrors.ErrCodeInvalidLayout, ErrPhysicalOutOfRange, "%s -> %d", q, p)
		}
	}
	if len(missing) > 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidLayout, ErrUnmappedQubit, "%s", strings.Join(missing, ", "))
	}
	if len(l.v2p) != len(qubits) {
		declared := make(map[circuit.Qubit]bool, len(qubits))
		for _, q := range qubits {
			declared[q] = true
		}
		for _, q := range l.Qubits() {
			if !declared[q] {
				return apperrors.New(apperrors.ErrCodeInvalidLayout, "layout maps undeclared qubit %s", q)
			}
		}
	}
	return nil
}

// String formats the layout as "q[0]->0 q[1]->2", sorted by logical qubit.
func (l *Layout) String() string {
	parts := make([]string, 0, len(l.v2p))
	for _, q := range l.Qubits() {
		parts = append(parts, fmt.Sprintf("%s->%d", q, l.v2p[q]))
	}
	return strings.Join(parts, " ")
}

func sortedQubits(m map[circuit.Qubit]int) []circuit.Qubit {
	return slices.SortedFunc(maps.Keys(m), func(a, b circuit.Qubit) int {
		if c := strings.Compare(a.Register, b.Register); c != 0 {
			return c
		}
		return a.Index - b.Index
	})
}
