package coupling

import (
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

// Line returns a linear chain 0-1-...-(n-1) with edges i->i+1.
func Line(n int) (*Graph, error) {
	if n < 1 || n > MaxQubits {
		return nil, sizeError("line", n, 1)
	}
	g := New()
	_ = g.AddQubit(0)
	for i := 0; i+1 < n; i++ {
		_ = g.AddEdge(i, i+1)
	}
	return g, nil
}

// Ring returns a cycle of n qubits: a line plus the edge (n-1)->0.
func Ring(n int) (*Graph, error) {
	if n < 3 || n > MaxQubits {
		return nil, sizeError("ring", n, 3)
	}
	g, _ := Line(n)
	_ = g.AddEdge(n-1, 0)
	return g, nil
}

// Grid returns a rows x cols lattice. Qubit r*cols+c has edges to its right
// and lower neighbours.
func Grid(rows, cols int) (*Graph, error) {
	if rows < 1 || cols < 1 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidCoupling, "grid dimensions must be positive, got %dx%d", rows, cols)
	}
	// Checked per side first so rows*cols cannot overflow.
	if rows > MaxQubits || cols > MaxQubits || rows*cols > MaxQubits {
		return nil, apperrors.New(apperrors.ErrCodeInvalidCoupling, "grid %dx%d exceeds %d qubits", rows, cols, MaxQubits)
	}
	g := New()
	_ = g.AddQubit(0)
	for r := range rows {
		for c := range cols {
			p := r*cols + c
			if c+1 < cols {
				_ = g.AddEdge(p, p+1)
			}
			if r+1 < rows {
				_ = g.AddEdge(p, p+cols)
			}
		}
	}
	return g, nil
}

// Star returns a hub qubit 0 with edges 0->i for i in 1..n-1.
func Star(n int) (*Graph, error) {
	if n < 2 || n > MaxQubits {
		return nil, sizeError("star", n, 2)
	}
	g := New()
	for i := 1; i < n; i++ {
		_ = g.AddEdge(0, i)
	}
	return g, nil
}

func sizeError(kind string, n, minimum int) error {
	if n > MaxQubits {
		return apperrors.New(apperrors.ErrCodeInvalidCoupling, "%s of %d qubits exceeds %d", kind, n, MaxQubits)
	}
	return apperrors.New(apperrors.ErrCodeInvalidCoupling, "%s needs at least %d qubits, got %d", kind, minimum, n)
}
