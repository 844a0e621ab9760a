package mesh

import (
	"fmt"
	"slices"
)

// SharedVertices returns the coincident vertex groups. Callers must not modify them.
func (m *Mesh) SharedVertices() []SharedVertex {
	return m.shared.Groups()
}

// SharedVertexLookup returns the render index to group id map, rebuilt lazily
// after any group or position mutation.
func (m *Mesh) SharedVertexLookup() map[int]int {
	return m.shared.Lookup()
}

// SharedVertexIndex returns the group id of a render index.
func (m *Mesh) SharedVertexIndex(index int) (int, error) {
	if err := m.checkIndex(index); err != nil {
		return -1, err
	}
	g, ok := m.shared.GroupOf(index)
	if !ok {
		return -1, fmt.Errorf("%w: %d has no shared vertex group", ErrIndexOutOfRange, index)
	}
	return g, nil
}

// SetSharedVertices replaces the coincident groups. Groups must be disjoint and
// in range; vertices left out become singletons.
func (m *Mesh) SetSharedVertices(groups []SharedVertex) error {
	if groups == nil {
		return fmt.Errorf("%w: nil groups", ErrInvalidArgument)
	}
	cloned := make([]SharedVertex, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			cloned = append(cloned, slices.Clone(g))
		}
	}
	table := NewCoincidenceTable(cloned)
	if err := table.Validate(len(m.positions)); err != nil {
		return err
	}
	table.Complete(len(m.positions))
	m.shared = table
	return nil
}

// RegroupByPosition discards the current groups and regroups by quantized position.
func (m *Mesh) RegroupByPosition() {
	m.shared.SetGroups(GroupByPosition(m.positions, m.resolution))
}

// CoincidentVertices returns every render index that shares a group with any of
// seeds, each once, seeds' groups in seed order.
func (m *Mesh) CoincidentVertices(seeds []int) ([]int, error) {
	return m.AppendCoincidentVertices(nil, seeds)
}

// AppendCoincidentVertices appends the coincident closure of seeds to dst and
// returns the extended slice. Passing a reused dst[:0] avoids allocation on hot
// paths such as interactive dragging.
func (m *Mesh) AppendCoincidentVertices(dst []int, seeds []int) ([]int, error) {
	groups := m.shared.Groups()
	lookup := m.shared.Lookup()
	var visited map[int]struct{}
	if len(seeds) > 1 {
		visited = make(map[int]struct{}, len(seeds))
	}
	for _, s := range seeds {
		if err := m.checkIndex(s); err != nil {
			return dst, err
		}
		g, ok := lookup[s]
		if !ok {
			return dst, fmt.Errorf("%w: %d has no shared vertex group", ErrIndexOutOfRange, s)
		}
		if visited != nil {
			if _, done := visited[g]; done {
				continue
			}
			visited[g] = struct{}{}
		}
		dst = append(dst, groups[g]...)
	}
	return dst, nil
}

// MergeVertices makes every group containing one of indexes a single group.
// Positions are not moved.
func (m *Mesh) MergeVertices(indexes []int) error {
	for _, i := range indexes {
		if err := m.checkIndex(i); err != nil {
			return err
		}
	}
	m.shared.MergeIndexes(indexes)
	return nil
}

// SetCoincident moves exactly indexes into one new group.
func (m *Mesh) SetCoincident(indexes []int) error {
	for _, i := range indexes {
		if err := m.checkIndex(i); err != nil {
			return err
		}
	}
	m.shared.SetCoincident(indexes)
	return nil
}

// AddToGroup moves index into an existing group. Group ids may be renumbered.
func (m *Mesh) AddToGroup(group, index int) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	return m.shared.AddToGroup(group, index)
}
