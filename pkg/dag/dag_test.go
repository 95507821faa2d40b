package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		setup   []Node
		node    Node
		wantErr error
	}{
		{name: "valid", node: Node{ID: "a"}},
		{name: "empty ID", node: Node{}, wantErr: ErrInvalidNodeID},
		{name: "duplicate", setup: []Node{{ID: "a"}}, node: Node{ID: "a"}, wantErr: ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, n := range tt.setup {
				if err := g.AddNode(n); err != nil {
					t.Fatalf("setup AddNode: %v", err)
				}
			}
			err := g.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				n, ok := g.Node(tt.node.ID)
				if !ok {
					t.Fatal("node not found after AddNode")
				}
				if n.Meta == nil {
					t.Error("Meta should be initialized")
				}
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{From: "x", To: "b"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: got %v", err)
	}

	// Parallel edges are allowed: one per shared wire
	_ = g.AddEdge(Edge{From: "a", To: "b", Meta: Metadata{"wire": "q[0]"}})
	_ = g.AddEdge(Edge{From: "a", To: "b", Meta: Metadata{"wire": "q[1]"}})
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if g.OutDegree("a") != 2 || g.InDegree("b") != 2 {
		t.Errorf("degrees = %d/%d, want 2/2", g.OutDegree("a"), g.InDegree("b"))
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New(nil)
	ids := []string{"z", "a", "m", "b"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
		t.Errorf("Nodes() = %v, want %v", got, ids)
	}
}

func TestSetRows(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c"})

	g.SetRows(map[string]int{"b": 1, "c": 1})

	if got := NodeIDs(g.NodesInRow(0)); !slices.Equal(got, []string{"a"}) {
		t.Errorf("row 0 = %v, want [a]", got)
	}
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("row 1 = %v, want [b c]", got)
	}
	if g.RowCount() != 2 || g.MaxRow() != 1 {
		t.Errorf("RowCount/MaxRow = %d/%d, want 2/1", g.RowCount(), g.MaxRow())
	}
}

func TestValidate(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := New(nil)
		_ = g.AddNode(Node{ID: "a"})
		_ = g.AddNode(Node{ID: "b"})
		_ = g.AddEdge(Edge{From: "a", To: "b"})
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		g := New(nil)
		_ = g.AddNode(Node{ID: "a"})
		_ = g.AddNode(Node{ID: "b"})
		_ = g.AddEdge(Edge{From: "a", To: "b"})
		_ = g.AddEdge(Edge{From: "b", To: "a"})
		if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
			t.Errorf("Validate() = %v, want %v", err, ErrGraphHasCycle)
		}
		if _, err := g.TopologicalOrder(); !errors.Is(err, ErrGraphHasCycle) {
			t.Errorf("TopologicalOrder() = %v, want %v", err, ErrGraphHasCycle)
		}
	})
}

func TestValidateRows(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 2})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	if err := g.ValidateRows(); err != nil {
		t.Errorf("ValidateRows() = %v", err)
	}

	g.SetRows(map[string]int{"b": 0})
	if err := g.ValidateRows(); !errors.Is(err, ErrEdgeNotDownward) {
		t.Errorf("ValidateRows() = %v, want %v", err, ErrEdgeNotDownward)
	}
}

func TestClone(t *testing.T) {
	g := New(Metadata{"name": "bell"})
	_ = g.AddNode(Node{ID: "a", Meta: Metadata{"op": "h"}})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	c := g.Clone()
	_ = c.AddNode(Node{ID: "c"})
	n, _ := c.Node("a")
	n.Meta["op"] = "x"

	if g.NodeCount() != 2 {
		t.Errorf("original NodeCount() = %d, want 2", g.NodeCount())
	}
	orig, _ := g.Node("a")
	if orig.Meta["op"] != "h" {
		t.Errorf("original meta changed to %v", orig.Meta["op"])
	}
	if c.EdgeCount() != 1 || c.Meta()["name"] != "bell" {
		t.Errorf("clone lost structure: edges=%d meta=%v", c.EdgeCount(), c.Meta())
	}
}

func TestTopologicalOrderStable(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"op0", "op1", "op2", "op3"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "op0", To: "op2"})
	_ = g.AddEdge(Edge{From: "op1", To: "op3"})

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder() error: %v", err)
	}
	want := []string{"op0", "op1", "op2", "op3"}
	if !slices.Equal(order, want) {
		t.Errorf("TopologicalOrder() = %v, want %v", order, want)
	}
}
