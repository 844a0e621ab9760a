package editor

import (
	"slices"

	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// Selection holds the selected faces, edges and vertices of a session and caches
// the coincident expansion of the vertices they touch.
type Selection struct {
	faces    []*mesh.Face
	edges    []mesh.Edge
	vertices []int

	expanded      []int
	expandedValid bool
}

// Faces returns the selected faces.
func (s *Selection) Faces() []*mesh.Face { return s.faces }

// Edges returns the selected edges in render indexes.
func (s *Selection) Edges() []mesh.Edge { return s.edges }

// Vertices returns the directly selected render indexes.
func (s *Selection) Vertices() []int { return s.vertices }

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.faces) == 0 && len(s.edges) == 0 && len(s.vertices) == 0
}

// Clear drops the selection and its cache.
func (s *Selection) Clear() {
	s.faces = nil
	s.edges = nil
	s.vertices = nil
	s.invalidate()
}

// invalidate drops the cached expansion. The slice is released rather than
// reused so results handed out earlier stay intact.
func (s *Selection) invalidate() {
	s.expanded = nil
	s.expandedValid = false
}

// seeds returns every render index touched by the selection, each once, in
// selection order.
func (s *Selection) seeds() []int {
	var out []int
	seen := make(map[int]struct{})
	add := func(i int) {
		if _, ok := seen[i]; ok {
			return
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	for _, f := range s.faces {
		for _, i := range f.DistinctIndexes() {
			add(i)
		}
	}
	for _, e := range s.edges {
		add(e.A)
		add(e.B)
	}
	for _, i := range s.vertices {
		add(i)
	}
	return out
}

func (s *Selection) setFaces(faces []*mesh.Face) {
	s.faces = slices.Clone(faces)
	s.invalidate()
}

func (s *Selection) setEdges(edges []mesh.Edge) {
	s.edges = slices.Clone(edges)
	s.invalidate()
}

func (s *Selection) setVertices(indexes []int) {
	s.vertices = slices.Clone(indexes)
	s.invalidate()
}
