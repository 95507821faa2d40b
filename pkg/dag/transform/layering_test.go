package transform

import (
	"errors"
	"testing"

	"github.com/matzehuels/swapmapper/pkg/dag"
)

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  map[string]int
		depth int
	}{
		{
			name:  "empty",
			nodes: nil,
			want:  map[string]int{},
		},
		{
			name:  "chain",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
			depth: 3,
		},
		{
			name:  "longest path wins",
			nodes: []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"c", "d"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2, "d": 3},
			depth: 4,
		},
		{
			name:  "independent sources",
			nodes: []string{"a", "b"},
			want:  map[string]int{"a": 0, "b": 0},
			depth: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := dag.New(nil)
			for _, id := range tt.nodes {
				_ = g.AddNode(dag.Node{ID: id})
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(dag.Edge{From: e[0], To: e[1]})
			}

			if depth := AssignLayers(g); depth != tt.depth {
				t.Errorf("AssignLayers() = %d, want %d", depth, tt.depth)
			}

			for id, want := range tt.want {
				n, _ := g.Node(id)
				if n.Row != want {
					t.Errorf("row(%s) = %d, want %d", id, n.Row, want)
				}
			}
			if err := g.ValidateRows(); err != nil {
				t.Errorf("ValidateRows() after AssignLayers: %v", err)
			}
		})
	}
}

func TestAssignLayersResetsStaleRows(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 7})
	_ = g.AddNode(dag.Node{ID: "b", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})

	AssignLayers(g)

	a, _ := g.Node("a")
	b, _ := g.Node("b")
	if a.Row != 0 || b.Row != 1 {
		t.Errorf("rows = %d,%d, want 0,1", a.Row, b.Row)
	}
}

func TestAssignSerial(t *testing.T) {
	// cx q[0],q[1]; h q[2]; x q[0]
	g := dag.New(nil)
	for _, id := range []string{"cx", "h2", "x0"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "cx", To: "x0"})

	n, err := AssignSerial(g)
	if err != nil {
		t.Fatalf("AssignSerial() error: %v", err)
	}
	if n != 3 {
		t.Errorf("AssignSerial() = %d, want 3", n)
	}
	for row, want := range []string{"cx", "h2", "x0"} {
		got := dag.NodeIDs(g.NodesInRow(row))
		if len(got) != 1 || got[0] != want {
			t.Errorf("row %d = %v, want [%s]", row, got, want)
		}
	}
	if err := g.ValidateRows(); err != nil {
		t.Errorf("ValidateRows() after AssignSerial: %v", err)
	}
}

func TestAssignSerialCycle(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	if _, err := AssignSerial(g); !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("AssignSerial() error = %v, want ErrGraphHasCycle", err)
	}
}
