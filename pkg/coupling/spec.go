package coupling

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

// Topology names accepted by [Spec] and [Parse].
const (
	TopologyLine  = "line"
	TopologyRing  = "ring"
	TopologyGrid  = "grid"
	TopologyStar  = "star"
	TopologyEdges = "edges"
)

// Spec describes a coupling graph, either as a named topology or as an
// explicit edge list. It is the [coupling] table of a config file and the
// content of a standalone coupling file:
//
//	topology = "grid"
//	rows = 2
//	cols = 3
//
// or
//
//	edges = [[0, 1], [1, 2], [2, 3]]
type Spec struct {
	Topology string   `toml:"topology" json:"topology,omitempty"`
	Qubits   int      `toml:"qubits" json:"qubits,omitempty"`
	Rows     int      `toml:"rows" json:"rows,omitempty"`
	Cols     int      `toml:"cols" json:"cols,omitempty"`
	Edges    [][2]int `toml:"edges" json:"edges,omitempty"`
}

// IsZero reports whether the spec describes nothing.
func (s Spec) IsZero() bool {
	return s.Topology == "" && s.Qubits == 0 && s.Rows == 0 && s.Cols == 0 && len(s.Edges) == 0
}

// Build constructs the graph described by s. An empty topology with edges
// is treated as an edge list.
func (s Spec) Build() (*Graph, error) {
	topology := strings.ToLower(strings.TrimSpace(s.Topology))
	if topology == "" && len(s.Edges) > 0 {
		topology = TopologyEdges
	}
	switch topology {
	case TopologyLine:
		return Line(s.Qubits)
	case TopologyRing:
		return Ring(s.Qubits)
	case TopologyStar:
		return Star(s.Qubits)
	case TopologyGrid:
		return Grid(s.Rows, s.Cols)
	case TopologyEdges:
		if len(s.Edges) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidCoupling, "edge list is empty")
		}
		edges := make([]Edge, len(s.Edges))
		for i, e := range s.Edges {
			edges[i] = Edge{From: e[0], To: e[1]}
		}
		return FromEdges(edges)
	case "":
		return nil, apperrors.New(apperrors.ErrCodeInvalidCoupling, "coupling topology not set")
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidCoupling, "unknown topology %q", s.Topology)
}

// Decode parses a TOML coupling description.
func Decode(data []byte) (Spec, error) {
	var s Spec
	if err := toml.Unmarshal(data, &s); err != nil {
		return Spec{}, apperrors.Wrap(apperrors.ErrCodeInvalidCoupling, err, "decode coupling")
	}
	return s, nil
}

// Load reads a TOML coupling file and builds the graph.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "coupling file %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read coupling file %s", path)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Build()
}

// Parse reads a compact coupling description as used on the command line:
//
//	line:5      five qubits in a chain
//	ring:6      six qubits in a cycle
//	star:3      hub 0 with leaves 1 and 2
//	grid:2x3    two rows of three
//	0-1,1-2     explicit directed edges
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "empty coupling description")
	}

	kind, arg, found := strings.Cut(s, ":")
	if !found {
		return parseEdgeList(s)
	}
	kind = strings.ToLower(kind)

	switch kind {
	case TopologyLine, TopologyRing, TopologyStar:
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Spec{}, apperrors.Wrap(apperrors.ErrCodeInvalidCoupling, err, "%s size %q", kind, arg)
		}
		return Spec{Topology: kind, Qubits: n}, nil
	case TopologyGrid:
		r, c, ok := strings.Cut(strings.ToLower(arg), "x")
		if !ok {
			return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "grid size %q (want ROWSxCOLS)", arg)
		}
		rows, err1 := strconv.Atoi(r)
		cols, err2 := strconv.Atoi(c)
		if err1 != nil || err2 != nil {
			return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "grid size %q (want ROWSxCOLS)", arg)
		}
		return Spec{Topology: kind, Rows: rows, Cols: cols}, nil
	}
	return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "unknown topology %q", kind)
}

func parseEdgeList(s string) (Spec, error) {
	var edges [][2]int
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		from, to, ok := strings.Cut(item, "-")
		if !ok {
			return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "edge %q (want FROM-TO)", item)
		}
		a, err1 := strconv.Atoi(strings.TrimSpace(from))
		b, err2 := strconv.Atoi(strings.TrimSpace(to))
		if err1 != nil || err2 != nil {
			return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "edge %q (want FROM-TO)", item)
		}
		edges = append(edges, [2]int{a, b})
	}
	if len(edges) == 0 {
		return Spec{}, apperrors.New(apperrors.ErrCodeInvalidCoupling, "no edges in %q", s)
	}
	return Spec{Topology: TopologyEdges, Edges: edges}, nil
}

// String formats the spec in the compact form accepted by [Parse].
func (s Spec) String() string {
	switch strings.ToLower(s.Topology) {
	case TopologyLine, TopologyRing, TopologyStar:
		return fmt.Sprintf("%s:%d", strings.ToLower(s.Topology), s.Qubits)
	case TopologyGrid:
		return fmt.Sprintf("grid:%dx%d", s.Rows, s.Cols)
	}
	parts := make([]string, len(s.Edges))
	for i, e := range s.Edges {
		parts[i] = fmt.Sprintf("%d-%d", e[0], e[1])
	}
	return strings.Join(parts, ",")
}
