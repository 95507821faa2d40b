package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/swapmapper/pkg/dag/transform"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

// LayerMode selects how a circuit is split into layers.
type LayerMode string

const (
	// LayerParallel groups operations by their as-soon-as-possible depth.
	// Operations in one layer act on disjoint wires.
	LayerParallel LayerMode = "parallel"

	// LayerSerial puts every operation in a layer of its own.
	LayerSerial LayerMode = "serial"
)

// DefaultLayerMode is the mode used when none is given.
const DefaultLayerMode = LayerSerial

// LayerModes lists the supported layer modes.
var LayerModes = []LayerMode{LayerParallel, LayerSerial}

// ParseLayerMode parses a layer mode name. The empty string selects
// DefaultLayerMode.
func ParseLayerMode(s string) (LayerMode, error) {
	switch LayerMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultLayerMode, nil
	case LayerParallel:
		return LayerParallel, nil
	case LayerSerial:
		return LayerSerial, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown layer mode %q (want parallel or serial)", s)
}

// Layers partitions the circuit into an ordered sequence of sub-circuits.
// Each layer has the same registers as c. Composing all layers in order
// reproduces c.
//
// In LayerParallel mode, an operation lands in layer k where k is the length
// of the longest chain of operations before it on any of its wires. Within a
// layer, operations keep circuit order.
func (c *Circuit) Layers(mode LayerMode) []*Circuit {
	if len(c.ops) == 0 {
		return nil
	}
	g := c.graph.Clone()
	if mode == LayerSerial {
		if _, err := transform.AssignSerial(g); err != nil {
			panic(fmt.Sprintf("circuit: operation graph is cyclic: %v", err))
		}
	} else {
		transform.AssignLayers(g)
	}

	rows := g.RowIDs()
	layers := make([]*Circuit, 0, len(rows))
	for _, row := range rows {
		layer := c.EmptyLike()
		for _, n := range g.NodesInRow(row) {
			_ = layer.Apply(c.ops[opIndex(n.ID)])
		}
		layers = append(layers, layer)
	}
	return layers
}

func opIndex(id string) int {
	i, err := strconv.Atoi(strings.TrimPrefix(id, "op"))
	if err != nil {
		panic(fmt.Sprintf("circuit: malformed node id %q", id))
	}
	return i
}
