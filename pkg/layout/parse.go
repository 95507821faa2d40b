package layout

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

// Parse reads a layout written as comma-separated "qubit=physical" pairs,
// e.g. "q[0]=2, q[1]=0, q[2]=1".
func Parse(s string) (*Layout, error) {
	m := make(map[string]int)
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, phys, ok := strings.Cut(item, "=")
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidLayout, "layout entry %q (want reg[i]=p)", item)
		}
		p, err := strconv.Atoi(strings.TrimSpace(phys))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "layout entry %q", item)
		}
		m[strings.TrimSpace(name)] = p
	}
	if len(m) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidLayout, "empty layout")
	}
	return FromStrings(m)
}

// FromStrings builds a layout from a map keyed by qubit names such as
// "q[0]", the form used by the [layout] table of a config file and by the
// HTTP API.
func FromStrings(m map[string]int) (*Layout, error) {
	l := New()
	for _, name := range slices.Sorted(maps.Keys(m)) {
		q, err := circuit.ParseQubit(name)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "layout")
		}
		if p := m[name]; p < 0 {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidLayout, ErrPhysicalOutOfRange, "%s -> %d", q, p)
		}
		if err := l.Set(q, m[name]); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Strings returns the layout keyed by qubit name, the inverse of FromStrings.
func (l *Layout) Strings() map[string]int {
	out := make(map[string]int, len(l.v2p))
	for q, p := range l.v2p {
		out[q.String()] = p
	}
	return out
}
