package mesh

import (
	"fmt"
	"slices"
)

// RemoveVertices deletes render vertices and compacts the index space. Positions,
// attributes, face indexes and shared groups are all shifted by the number of
// removed indexes below them. Fails if a face still references a removed vertex.
func (m *Mesh) RemoveVertices(indexes []int) error {
	sorted := sortedUnique(indexes)
	if len(sorted) == 0 {
		return nil
	}
	for _, i := range sorted {
		if err := m.checkIndex(i); err != nil {
			return err
		}
	}
	for fi, f := range m.faces {
		for _, i := range f.DistinctIndexes() {
			if _, found := slices.BinarySearch(sorted, i); found {
				return fmt.Errorf("%w: face %d still references vertex %d", ErrInvalidOperation, fi, i)
			}
		}
	}

	// Groups are shifted from the pre-removal lookup before anything else moves.
	m.shared.RemoveAndShift(sorted)

	shift := func(i int) int {
		return i - (NearestIndexPriorToValue(sorted, i) + 1)
	}
	for _, f := range m.faces {
		f.remap(shift)
	}

	m.positions = removeSorted(m.positions, sorted)
	m.normals = removeSorted(m.normals, sorted)
	m.tangents = removeSorted(m.tangents, sorted)
	m.colors = removeSorted(m.colors, sorted)
	for ch := range m.uvs {
		m.uvs[ch] = removeSorted(m.uvs[ch], sorted)
	}
	return nil
}

// UnusedVertices returns the ascending indexes no face references.
func (m *Mesh) UnusedVertices() []int {
	used := make([]bool, len(m.positions))
	for _, f := range m.faces {
		for _, i := range f.Indexes() {
			used[i] = true
		}
	}
	var unused []int
	for i, u := range used {
		if !u {
			unused = append(unused, i)
		}
	}
	return unused
}

// RemoveUnusedVertices deletes every vertex no face references and returns the
// removed indexes (in the old index space).
func (m *Mesh) RemoveUnusedVertices() ([]int, error) {
	unused := m.UnusedVertices()
	if err := m.RemoveVertices(unused); err != nil {
		return nil, err
	}
	return unused, nil
}

// DeleteFaces removes faces from the mesh along with vertices left unreferenced.
// Returns the removed vertex indexes in the old index space.
func (m *Mesh) DeleteFaces(faces ...*Face) ([]int, error) {
	drop := make(map[*Face]struct{}, len(faces))
	for _, f := range faces {
		if m.IndexOfFace(f) < 0 {
			return nil, fmt.Errorf("%w: face does not belong to mesh", ErrInvalidArgument)
		}
		drop[f] = struct{}{}
	}
	m.faces = slices.DeleteFunc(m.faces, func(f *Face) bool {
		_, ok := drop[f]
		return ok
	})
	return m.RemoveUnusedVertices()
}
