package winged

import "github.com/Faultbox/meshtopo/pkg/mesh"

// MakeQuad joins two triangle faces that share exactly one common edge into a
// quad of render indexes in winding order. ok is false if either wing is not a
// 3-edge cycle or the faces share zero or several edges.
func MakeQuad(left, right *WingedEdge) (quad [4]int, ok bool) {
	if left == nil || right == nil || left.Count() != 3 || right.Count() != 3 {
		return quad, false
	}

	var all [6]mesh.EdgeLookup
	for i, w := range left.Cycle() {
		all[i] = w.Edge
	}
	for i, w := range right.Cycle() {
		all[3+i] = w.Edge
	}

	var dup [6]bool
	matches := 0
	for i := 0; i < 3; i++ {
		for n := 3; n < 6; n++ {
			if all[i].Equals(all[n]) {
				matches++
				dup[i] = true
				dup[n] = true
			}
		}
	}
	if matches != 1 {
		return quad, false
	}

	edges := make([]mesh.EdgeLookup, 0, 4)
	for i, e := range all {
		if !dup[i] {
			edges = append(edges, e)
		}
	}

	quad = [4]int{edges[0].Local.A, edges[0].Local.B, -1, -1}
	c1, c2 := edges[0].Common.B, -1
	for _, e := range edges[1:] {
		if e.Common.A == c1 {
			quad[2] = e.Local.B
			c2 = e.Common.B
			break
		}
	}
	for _, e := range edges[1:] {
		if c2 >= 0 && e.Common.A == c2 {
			quad[3] = e.Local.B
			break
		}
	}
	if quad[2] < 0 || quad[3] < 0 {
		return quad, false
	}
	return quad, true
}

// SortCommonIndexesByAdjacency orders the common indexes in set into a closed
// loop using the wings' common edges. Only edges with both endpoints in set are
// considered, each once. ok is false unless those edges number exactly len(set)
// and join into a single loop.
func SortCommonIndexesByAdjacency(wings []*WingedEdge, set map[int]struct{}) (loop []int, ok bool) {
	seen := make(map[mesh.Edge]struct{})
	var matches []mesh.Edge
	for _, w := range wings {
		c := w.Edge.Common
		if _, in := set[c.A]; !in {
			continue
		}
		if _, in := set[c.B]; !in {
			continue
		}
		key := c.Normalized()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		matches = append(matches, c)
	}

	if len(matches) == 0 || len(matches) != len(set) {
		return nil, false
	}

	used := make([]bool, len(matches))
	used[0] = true
	start := matches[0].A
	cur := matches[0].B
	loop = append(make([]int, 0, len(matches)), start)

	for placed := 1; placed < len(matches); placed++ {
		next := -1
		for i, e := range matches {
			if !used[i] && e.Contains(cur) {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		used[next] = true
		loop = append(loop, cur)
		cur = matches[next].Other(cur)
	}

	if cur != start {
		return nil, false
	}
	return loop, true
}
