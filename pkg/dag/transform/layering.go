package transform

import "github.com/matzehuels/swapmapper/pkg/dag"

// AssignLayers puts every node one row below its deepest parent and returns
// the number of rows used.
//
// Rows are computed by longest path over a Kahn traversal:
//   - Source nodes (no incoming edges) are at row 0
//   - Every edge points to a strictly later row
//   - Rows are as shallow as those two rules allow
//
// For a circuit graph this is the as-soon-as-possible schedule, and the
// returned count is the circuit depth. Existing rows are overwritten. Nodes
// in the same row keep their insertion order (see [dag.DAG.NodesInRow]).
//
// # Cycles
//
// AssignLayers assumes the graph is acyclic. Nodes on a cycle never reach
// zero in-degree and stay at row 0. Check [dag.DAG.Validate] first when the
// input is untrusted.
//
// Runs in O(V + E).
func AssignLayers(g *dag.DAG) int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	pending := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		rows[n.ID] = 0
		if pending[n.ID] = g.InDegree(n.ID); pending[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	depth := 1
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		next := rows[curr] + 1
		for _, child := range g.Children(curr) {
			if next > rows[child] {
				rows[child] = next
				depth = max(depth, next+1)
			}
			if pending[child]--; pending[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
	return depth
}

// AssignSerial puts every node in a row of its own, following
// [dag.DAG.TopologicalOrder], and returns the number of rows. For a graph
// built in program order the rows reproduce that order.
func AssignSerial(g *dag.DAG) (int, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return 0, err
	}
	rows := make(map[string]int, len(order))
	for i, id := range order {
		rows[id] = i
	}
	g.SetRows(rows)
	return len(order), nil
}
