package layout

import (
	"errors"
	"testing"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

var q = func(i int) circuit.Qubit { return circuit.Q("q", i) }

func TestTrivial(t *testing.T) {
	regs := []circuit.Register{{Name: "a", Size: 2}, {Name: "b", Size: 1}}
	l, err := Trivial(regs, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Trivial: %v", err)
	}
	want := map[circuit.Qubit]int{circuit.Q("a", 0): 0, circuit.Q("a", 1): 1, circuit.Q("b", 0): 2}
	for lq, wp := range want {
		if p, ok := l.Physical(lq); !ok || p != wp {
			t.Errorf("Physical(%s) = %d, %v, want %d", lq, p, ok, wp)
		}
	}
	if _, ok := l.Logical(3); ok {
		t.Error("physical 3 should be unassigned")
	}

	_, err = Trivial(regs, []int{0, 1})
	if !apperrors.Is(err, apperrors.ErrCodeInsufficientQubits) {
		t.Errorf("Trivial on small device error = %v, want INSUFFICIENT_QUBITS", err)
	}
}

func TestSet(t *testing.T) {
	l := New()
	_ = l.Set(q(0), 0)
	if err := l.Set(q(1), 0); !errors.Is(err, ErrPhysicalInUse) {
		t.Errorf("Set on occupied qubit error = %v, want ErrPhysicalInUse", err)
	}
	_ = l.Set(q(0), 5)
	if _, ok := l.Logical(0); ok {
		t.Error("remapping q[0] should release physical 0")
	}
	if got, _ := l.Logical(5); got != q(0) {
		t.Errorf("Logical(5) = %v, want q[0]", got)
	}
}

func TestSwap(t *testing.T) {
	l, _ := FromMap(map[circuit.Qubit]int{q(0): 0, q(1): 1, q(2): 2})

	l.Swap(0, 1)
	if p, _ := l.Physical(q(0)); p != 1 {
		t.Errorf("after Swap(0,1) Physical(q[0]) = %d, want 1", p)
	}
	if v, _ := l.Logical(0); v != q(1) {
		t.Errorf("after Swap(0,1) Logical(0) = %v, want q[1]", v)
	}

	l.Swap(2, 7)
	if p, _ := l.Physical(q(2)); p != 7 {
		t.Errorf("swap into empty: Physical(q[2]) = %d, want 7", p)
	}
	if _, ok := l.Logical(2); ok {
		t.Error("swap into empty: physical 2 should be empty")
	}
}

func TestSwapIsInvolution(t *testing.T) {
	l, _ := FromMap(map[circuit.Qubit]int{q(0): 0, q(1): 1, q(2): 2})
	orig := l.Clone()
	l.Swap(0, 2)
	l.Swap(0, 2)
	if !l.Equal(orig) {
		t.Errorf("Swap twice = %s, want %s", l, orig)
	}
}

func TestCloneIndependent(t *testing.T) {
	l, _ := FromMap(map[circuit.Qubit]int{q(0): 0, q(1): 1})
	c := l.Clone()
	c.Swap(0, 1)
	if p, _ := l.Physical(q(0)); p != 0 {
		t.Error("Swap on clone changed original")
	}
}

func TestRenameMap(t *testing.T) {
	ref, _ := FromMap(map[circuit.Qubit]int{q(0): 0, q(1): 1, q(2): 2})

	cur := ref.Clone()
	rename, err := cur.RenameMap(ref)
	if err != nil {
		t.Fatalf("RenameMap: %v", err)
	}
	for _, lq := range []circuit.Qubit{q(0), q(1), q(2)} {
		if rename[lq] != lq {
			t.Errorf("identity rename[%s] = %s", lq, rename[lq])
		}
	}

	// q[1] now sits on physical 0, whose reference wire is q[0].
	cur.Swap(0, 1)
	rename, _ = cur.RenameMap(ref)
	want := map[circuit.Qubit]circuit.Qubit{q(0): q(1), q(1): q(0), q(2): q(2)}
	for k, v := range want {
		if rename[k] != v {
			t.Errorf("rename[%s] = %s, want %s", k, rename[k], v)
		}
	}

	cur.Swap(2, 9)
	if _, err := cur.RenameMap(ref); !apperrors.Is(err, apperrors.ErrCodeInvalidLayout) {
		t.Errorf("RenameMap onto empty reference qubit error = %v, want INVALID_LAYOUT", err)
	}
}

func TestValidate(t *testing.T) {
	declared := []circuit.Qubit{q(0), q(1)}
	onDevice := func(p int) bool { return p >= 0 && p < 3 }

	tests := []struct {
		name    string
		m       map[circuit.Qubit]int
		wantErr error
	}{
		{"ok", map[circuit.Qubit]int{q(0): 2, q(1): 0}, nil},
		{"missing", map[circuit.Qubit]int{q(0): 2}, ErrUnmappedQubit},
		{"off device", map[circuit.Qubit]int{q(0): 2, q(1): 3}, ErrPhysicalOutOfRange},
		{"extra", map[circuit.Qubit]int{q(0): 2, q(1): 0, q(2): 1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := FromMap(tt.m)
			err := l.Validate(declared, onDevice)
			if tt.name == "extra" {
				if !apperrors.Is(err, apperrors.ErrCodeInvalidLayout) {
					t.Errorf("Validate() error = %v, want INVALID_LAYOUT", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidLayout) {
				t.Errorf("Validate() code = %q, want INVALID_LAYOUT", apperrors.GetCode(err))
			}
		})
	}
}

func TestParse(t *testing.T) {
	l, err := Parse("q[0]=2, q[1]=0,q[2]=1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if l.String() != "q[0]->2 q[1]->0 q[2]->1" {
		t.Errorf("String() = %q", l.String())
	}
	round, err := FromStrings(l.Strings())
	if err != nil || !round.Equal(l) {
		t.Errorf("FromStrings(Strings()) = %v, %v", round, err)
	}

	bad := []string{"", "q[0]", "q[0]=x", "Q0=1", "q[0]=-1", "q[0]=1,q[1]=1"}
	for _, s := range bad {
		if _, err := Parse(s); !apperrors.Is(err, apperrors.ErrCodeInvalidLayout) {
			t.Errorf("Parse(%q) error = %v, want INVALID_LAYOUT", s, err)
		}
	}
}
