// Package winged builds winged-edge adjacency over a set of mesh faces.
//
// Each wing is one perimeter edge of one face. Wings of a face form a circular
// Next/Previous list; wings of adjacent faces covering the same common edge are
// linked through Opposite. Adjacency is found through coincidence group ids, so
// faces that only touch through duplicated (seam) vertices are still connected.
package winged

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// ErrUnknownIndex is returned when a face references an index that has no
// coincidence group.
var ErrUnknownIndex = errors.New("winged: index has no coincident group")

// CoincidenceSource resolves render indexes to coincidence group ids.
// *mesh.Mesh satisfies it.
type CoincidenceSource interface {
	SharedVertexLookup() map[int]int
}

// WingedEdge is one perimeter edge instance of a face.
type WingedEdge struct {
	// Edge holds the render index pair (Local) and group id pair (Common).
	Edge mesh.EdgeLookup
	Face *mesh.Face

	Next     *WingedEdge
	Previous *WingedEdge
	// Opposite is the wing of the adjacent face covering the same common edge,
	// or nil on a boundary.
	Opposite *WingedEdge
}

// Count returns the number of wings in w's face cycle.
func (w *WingedEdge) Count() int {
	n := 0
	cur := w
	for {
		n++
		cur = cur.Next
		if cur == nil || cur == w {
			return n
		}
	}
}

// Cycle returns the wings of w's face starting at w.
func (w *WingedEdge) Cycle() []*WingedEdge {
	out := make([]*WingedEdge, 0, 4)
	cur := w
	for {
		out = append(out, cur)
		cur = cur.Next
		if cur == nil || cur == w {
			return out
		}
	}
}

// String returns "local/common" for logs.
func (w *WingedEdge) String() string {
	return fmt.Sprintf("%v/%v", w.Edge.Local, w.Edge.Common)
}

// Build creates wings for every perimeter edge of faces. When oneWingPerFace is
// set only the first wing of each face is returned; the others stay reachable
// through Next.
//
// A common edge shared by three or more faces keeps only the first pair linked.
// Later wings on that edge have no Opposite.
func Build(src CoincidenceSource, faces []*mesh.Face, oneWingPerFace bool) ([]*WingedEdge, error) {
	lookup := src.SharedVertexLookup()

	all := make([]*WingedEdge, 0, len(faces)*4)
	var firsts []*WingedEdge
	if oneWingPerFace {
		firsts = make([]*WingedEdge, 0, len(faces))
	}
	opposites := make(map[mesh.Edge]*WingedEdge, len(faces)*4)

	for fi, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("%w: face %d is nil", mesh.ErrInvalidArgument, fi)
		}
		edges := SortEdgesByAdjacency(f)
		if len(edges) == 0 {
			continue
		}

		wings := make([]*WingedEdge, len(edges))
		for i, e := range edges {
			el, err := mesh.NewEdgeLookup(e, lookup)
			if err != nil {
				return nil, fmt.Errorf("%w: face %d edge %v", ErrUnknownIndex, fi, e)
			}
			wings[i] = &WingedEdge{Edge: el, Face: f}
		}

		n := len(wings)
		for i, w := range wings {
			w.Next = wings[(i+1)%n]
			w.Previous = wings[(i+n-1)%n]

			key := w.Edge.Common.Normalized()
			if first, ok := opposites[key]; ok {
				if first.Opposite == nil {
					first.Opposite = w
					w.Opposite = first
				}
			} else {
				opposites[key] = w
			}
		}

		all = append(all, wings...)
		if oneWingPerFace {
			firsts = append(firsts, wings[0])
		}
	}

	if oneWingPerFace {
		return firsts, nil
	}
	return all, nil
}

// SortEdgesByAdjacency returns the perimeter edges of f ordered so each edge
// shares an endpoint with the one before it. Edge direction is kept.
func SortEdgesByAdjacency(f *mesh.Face) []mesh.Edge {
	edges := append([]mesh.Edge(nil), f.Edges()...)
	for i := 1; i < len(edges); i++ {
		want := edges[i-1].B
		pick := -1
		for n := i; n < len(edges); n++ {
			if edges[n].A == want {
				pick = n
				break
			}
			if pick < 0 && edges[n].Contains(want) {
				pick = n
			}
		}
		if pick > i {
			edges[i], edges[pick] = edges[pick], edges[i]
		}
	}
	return edges
}

// Spokes maps each common vertex id to the wings that touch it.
func Spokes(wings []*WingedEdge) map[int][]*WingedEdge {
	spokes := make(map[int][]*WingedEdge)
	for _, w := range wings {
		c := w.Edge.Common
		spokes[c.A] = append(spokes[c.A], w)
		if c.B != c.A {
			spokes[c.B] = append(spokes[c.B], w)
		}
	}
	return spokes
}

// PerimeterEdges returns the wings with no opposite, that is the open boundary
// of the face set.
func PerimeterEdges(wings []*WingedEdge) []*WingedEdge {
	var out []*WingedEdge
	for _, w := range wings {
		if w.Opposite == nil {
			out = append(out, w)
		}
	}
	return out
}
