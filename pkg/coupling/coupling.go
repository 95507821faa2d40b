package coupling

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"

	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

var (
	// ErrSelfLoop is returned when an edge connects a physical qubit to itself.
	ErrSelfLoop = errors.New("self-loop edge")

	// ErrNegativeQubit is returned for physical qubit indices below zero.
	ErrNegativeQubit = errors.New("physical qubit must be non-negative")

	// ErrUnknownQubit is returned when a query names a physical qubit that is
	// not part of the graph.
	ErrUnknownQubit = errors.New("unknown physical qubit")
)

// Edge is a directed coupling between two physical qubits. The direction is
// the native direction of two-qubit gates on the hardware; routing ignores it.
type Edge struct {
	From int `json:"from" toml:"from"`
	To   int `json:"to" toml:"to"`
}

// String formats the edge as "from->to".
func (e Edge) String() string { return fmt.Sprintf("%d->%d", e.From, e.To) }

// Graph is the hardware connectivity of a device.
//
// Physical qubits are non-negative integers. Edges are directed, but
// adjacency, distance and shortest paths treat the graph as undirected.
// A Graph is safe for concurrent reads once construction is finished; the
// distance matrix is computed lazily on first use.
type Graph struct {
	qubits map[int]struct{}
	edges  []Edge
	adj    map[int]map[int]struct{} // undirected

	distOnce sync.Once
	dist     map[int]map[int]int
}

// MaxQubits bounds the number of physical qubits in a graph. The distance
// matrix is quadratic in the qubit count.
const MaxQubits = 1024

// New creates an empty coupling graph.
func New() *Graph {
	return &Graph{
		qubits: make(map[int]struct{}),
		adj:    make(map[int]map[int]struct{}),
	}
}

// AddQubit adds an isolated physical qubit. Adding an existing qubit is a
// no-op; adding one beyond [MaxQubits] fails.
func (g *Graph) AddQubit(p int) error {
	if p < 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidCoupling, ErrNegativeQubit, "qubit %d", p)
	}
	if _, ok := g.qubits[p]; !ok {
		if len(g.qubits) >= MaxQubits {
			return apperrors.New(apperrors.ErrCodeInvalidCoupling, "graph exceeds %d qubits", MaxQubits)
		}
		g.qubits[p] = struct{}{}
		g.adj[p] = make(map[int]struct{})
		g.invalidate()
	}
	return nil
}

// AddEdge adds a directed edge, adding both endpoints if needed. Duplicate
// edges are ignored.
func (g *Graph) AddEdge(from, to int) error {
	if from == to {
		return apperrors.Wrap(apperrors.ErrCodeInvalidCoupling, ErrSelfLoop, "edge %d->%d", from, to)
	}
	if err := g.AddQubit(from); err != nil {
		return err
	}
	if err := g.AddQubit(to); err != nil {
		return err
	}
	e := Edge{From: from, To: to}
	if slices.Contains(g.edges, e) {
		return nil
	}
	g.edges = append(g.edges, e)
	g.adj[from][to] = struct{}{}
	g.adj[to][from] = struct{}{}
	g.invalidate()
	return nil
}

func (g *Graph) invalidate() {
	g.distOnce = sync.Once{}
	g.dist = nil
}

// FromMap builds a graph from an adjacency map, e.g. {0: [1, 2]} for a
// three-qubit star centred on 0. Keys with empty lists are isolated qubits.
func FromMap(m map[int][]int) (*Graph, error) {
	g := New()
	for _, from := range slices.Sorted(maps.Keys(m)) {
		if err := g.AddQubit(from); err != nil {
			return nil, err
		}
		for _, to := range m[from] {
			if err := g.AddEdge(from, to); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// FromEdges builds a graph from a list of directed edges.
func FromEdges(edges []Edge) (*Graph, error) {
	g := New()
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Size returns the number of physical qubits.
func (g *Graph) Size() int { return len(g.qubits) }

// Contains reports whether p is a physical qubit of the graph.
func (g *Graph) Contains(p int) bool {
	_, ok := g.qubits[p]
	return ok
}

// PhysicalQubits returns all physical qubits in ascending order.
func (g *Graph) PhysicalQubits() []int {
	return slices.Sorted(maps.Keys(g.qubits))
}

// Edges returns a copy of the directed edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// HasEdge reports whether the directed edge from->to exists.
func (g *Graph) HasEdge(from, to int) bool {
	return slices.Contains(g.edges, Edge{From: from, To: to})
}

// IsAdjacent reports whether p and q are joined by an edge in either
// direction.
func (g *Graph) IsAdjacent(p, q int) bool {
	_, ok := g.adj[p][q]
	return ok
}

// Neighbors returns the undirected neighbours of p in ascending order.
func (g *Graph) Neighbors(p int) []int {
	return slices.Sorted(maps.Keys(g.adj[p]))
}

// Distance returns the undirected hop count between p and q.
// Returns an UNREACHABLE error when no path exists.
func (g *Graph) Distance(p, q int) (int, error) {
	if err := g.check(p, q); err != nil {
		return 0, err
	}
	g.distOnce.Do(g.computeDistances)
	d, ok := g.dist[p][q]
	if !ok {
		return 0, unreachable(p, q)
	}
	return d, nil
}

// computeDistances runs one BFS per qubit.
func (g *Graph) computeDistances() {
	g.dist = make(map[int]map[int]int, len(g.qubits))
	for _, src := range g.PhysicalQubits() {
		row := map[int]int{src: 0}
		queue := []int{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.Neighbors(cur) {
				if _, seen := row[next]; !seen {
					row[next] = row[cur] + 1
					queue = append(queue, next)
				}
			}
		}
		g.dist[src] = row
	}
}

// ShortestPath returns an undirected shortest path from p to q, including
// both endpoints. Among equally short paths the one visiting lower-numbered
// qubits first is returned, so results are deterministic.
func (g *Graph) ShortestPath(p, q int) ([]int, error) {
	if err := g.check(p, q); err != nil {
		return nil, err
	}
	if p == q {
		return []int{p}, nil
	}

	parent := map[int]int{p: p}
	queue := []int{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == q {
			break
		}
		for _, next := range g.Neighbors(cur) {
			if _, seen := parent[next]; !seen {
				parent[next] = cur
				queue = append(queue, next)
			}
		}
	}
	if _, ok := parent[q]; !ok {
		return nil, unreachable(p, q)
	}
	return walkBack(parent, p, q), nil
}

// RandomShortestPath returns a shortest path from p to q chosen uniformly at
// random among all shortest paths, using rng.
func (g *Graph) RandomShortestPath(p, q int, rng *rand.Rand) ([]int, error) {
	d, err := g.Distance(p, q)
	if err != nil {
		return nil, err
	}
	counts := g.pathCounts(q)
	path := []int{p}
	cur := p
	for remaining := d; remaining > 0; remaining-- {
		// Weight each step by the number of shortest paths through it.
		var next []int
		total := 0
		for _, n := range g.Neighbors(cur) {
			if g.dist[n][q] == remaining-1 {
				next = append(next, n)
				total += counts[n]
			}
		}
		pick := rng.IntN(total)
		for _, n := range next {
			if pick < counts[n] {
				cur = n
				break
			}
			pick -= counts[n]
		}
		path = append(path, cur)
	}
	return path, nil
}

// pathCounts returns, for every qubit that can reach q, the number of
// shortest paths from it to q.
func (g *Graph) pathCounts(q int) map[int]int {
	byLevel := make(map[int][]int)
	maxLevel := 0
	for _, n := range g.PhysicalQubits() {
		if d, ok := g.dist[n][q]; ok {
			byLevel[d] = append(byLevel[d], n)
			maxLevel = max(maxLevel, d)
		}
	}
	counts := map[int]int{q: 1}
	for level := 1; level <= maxLevel; level++ {
		for _, n := range byLevel[level] {
			for _, m := range g.Neighbors(n) {
				if d, ok := g.dist[m][q]; ok && d == level-1 {
					counts[n] += counts[m]
				}
			}
		}
	}
	return counts
}

// IsConnected reports whether every physical qubit can reach every other.
func (g *Graph) IsConnected() bool {
	qubits := g.PhysicalQubits()
	if len(qubits) == 0 {
		return true
	}
	g.distOnce.Do(g.computeDistances)
	return len(g.dist[qubits[0]]) == len(qubits)
}

// Diameter returns the largest distance between two physical qubits.
// Returns an UNREACHABLE error if the graph is disconnected.
func (g *Graph) Diameter() (int, error) {
	if !g.IsConnected() {
		return 0, apperrors.New(apperrors.ErrCodeUnreachable, "coupling graph is disconnected")
	}
	diameter := 0
	for _, row := range g.dist {
		for _, d := range row {
			diameter = max(diameter, d)
		}
	}
	return diameter, nil
}

func (g *Graph) check(p, q int) error {
	for _, x := range []int{p, q} {
		if !g.Contains(x) {
			return apperrors.Wrap(apperrors.ErrCodeInvalidCoupling, ErrUnknownQubit, "qubit %d", x)
		}
	}
	return nil
}

func unreachable(p, q int) error {
	return apperrors.New(apperrors.ErrCodeUnreachable, "no path between physical qubits %d and %d", p, q)
}

func walkBack(parent map[int]int, p, q int) []int {
	path := []int{q}
	for cur := q; cur != p; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
