package router

import (
	"github.com/matzehuels/swapmapper/pkg/circuit"
	"github.com/matzehuels/swapmapper/pkg/layout"
)

// pathChoice is a candidate swap path and its score.
type pathChoice struct {
	path  []int
	trial int
	score int
}

// choosePath picks the path along which the qubit on p0 is moved towards p1.
//
// StrategyGreedy returns the coupling's shortest path from p0 to p1.
// StrategyStochastic tries opts.Trials candidates: trial 0 is the greedy
// path, later trials are random shortest paths starting at either end. Each
// candidate is scored by the excess distance it leaves among pending gates;
// the lowest score wins and ties go to the earlier trial.
func (r *run) choosePath(p0, p1 int, pending []circuit.Operation) (pathChoice, error) {
	greedy, err := r.cg.ShortestPath(p0, p1)
	if err != nil {
		return pathChoice{}, err
	}
	if r.opts.Strategy != StrategyStochastic {
		return pathChoice{path: greedy}, nil
	}

	best := pathChoice{path: greedy, score: r.score(greedy, pending)}
	sampler, canSample := r.cg.(RandomPather)
	for trial := 1; trial < r.opts.Trials; trial++ {
		var candidate []int
		switch {
		case canSample && r.rng.IntN(2) == 0:
			candidate, err = sampler.RandomShortestPath(p0, p1, r.rng)
		case canSample:
			candidate, err = sampler.RandomShortestPath(p1, p0, r.rng)
		case trial == 1:
			candidate, err = r.cg.ShortestPath(p1, p0)
		default:
			return best, nil
		}
		if err != nil {
			return pathChoice{}, err
		}
		if s := r.score(candidate, pending); s < best.score {
			best = pathChoice{path: candidate, trial: trial, score: s}
		}
	}
	return best, nil
}

// score applies the swaps of path to a copy of the current layout and sums,
// over the pending gates, how far each pair still is from being adjacent.
func (r *run) score(path []int, pending []circuit.Operation) int {
	trial := r.cur.Clone()
	for j := 0; j+2 < len(path); j++ {
		trial.Swap(path[j], path[j+1])
	}
	return excessDistance(r.cg, trial, pending)
}

// excessDistance sums max(0, d-1) over gates whose qubits are both placed.
// Unreachable pairs add the device size so they always lose.
func excessDistance(cg Coupling, l *layout.Layout, gates []circuit.Operation) int {
	total := 0
	for _, g := range gates {
		a, okA := l.Physical(g.Qubits[0])
		b, okB := l.Physical(g.Qubits[1])
		if !okA || !okB {
			continue
		}
		d, err := cg.Distance(a, b)
		if err != nil {
			total += cg.Size()
			continue
		}
		total += max(0, d-1)
	}
	return total
}

// upcoming lists the two-qubit gates a stochastic trial should keep close:
// those among the rest of the current layer followed by the gates of the
// next lookahead layers. Gates of the layer that were already appended are
// not scored, since later swaps cannot affect them.
func upcoming(layers []*circuit.Circuit, index int, rest []circuit.Operation, lookahead int) []circuit.Operation {
	var pending []circuit.Operation
	for _, op := range rest {
		if op.IsTwoQubit() {
			pending = append(pending, op)
		}
	}
	for i := index + 1; i < len(layers) && i <= index+lookahead; i++ {
		pending = append(pending, layers[i].TwoQubitOps()...)
	}
	return pending
}
