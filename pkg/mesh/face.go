// Package mesh provides the editable polygon mesh: faces, coincident vertex
// groups, per-vertex attributes and compilation to submesh index buffers.
package mesh

import (
	"fmt"
	"slices"
)

// Face is one polygon stored as a flat triangle list of render indexes.
type Face struct {
	// SmoothingGroup tags faces whose shared vertex normals are averaged. 0 means hard edges.
	SmoothingGroup int
	// SubmeshIndex selects the index buffer (material slot) the face compiles into.
	SubmeshIndex int
	// TextureGroup projects faces with the same positive id as one UV island. 0 means none.
	TextureGroup int
	// UV is the auto-unwrap transform.
	UV AutoUnwrapSettings
	// ManualUV faces are skipped by automatic projection.
	ManualUV bool

	indexes []int

	// Derived caches; cleared by invalidate.
	distinct      []int
	distinctValid bool
	edges         []Edge
	edgesValid    bool
}

// NewFace creates a face from a triangle list.
func NewFace(indexes []int) (*Face, error) {
	f := &Face{UV: DefaultUnwrapSettings()}
	if err := f.SetIndexes(indexes); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFace is NewFace that panics on invalid input. Intended for literals in
// generators and tests.
func MustFace(indexes ...int) *Face {
	f, err := NewFace(indexes)
	if err != nil {
		panic(err)
	}
	return f
}

// SetIndexes replaces the triangle list. The slice is copied.
func (f *Face) SetIndexes(indexes []int) error {
	if indexes == nil {
		return fmt.Errorf("%w: nil index list", ErrInvalidArgument)
	}
	if len(indexes)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidArgument, len(indexes))
	}
	f.indexes = slices.Clone(indexes)
	f.invalidate()
	return nil
}

// Indexes returns the triangle list. Callers must not modify it.
func (f *Face) Indexes() []int {
	return f.indexes
}

// TriangleCount returns the number of triangles.
func (f *Face) TriangleCount() int {
	return len(f.indexes) / 3
}

// DistinctIndexes returns each referenced index once, in order of first appearance.
func (f *Face) DistinctIndexes() []int {
	if !f.distinctValid {
		seen := make(map[int]struct{}, len(f.indexes))
		f.distinct = make([]int, 0, len(f.indexes))
		for _, i := range f.indexes {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			f.distinct = append(f.distinct, i)
		}
		f.distinctValid = true
	}
	return f.distinct
}

// Edges returns the perimeter edges. Edges shared by two triangles of this face
// (internal diagonals) are excluded. Edges keep triangle winding and are listed in
// the order they were first seen.
func (f *Face) Edges() []Edge {
	if !f.edgesValid {
		f.edges = perimeterEdges(f.indexes, nil)
		f.edgesValid = true
	}
	return f.edges
}

func perimeterEdges(tris []int, dst []Edge) []Edge {
	seen := make(map[Edge]int, len(tris))
	var order []Edge
	for i := 0; i+2 < len(tris); i += 3 {
		for _, e := range [3]Edge{
			{tris[i], tris[i+1]},
			{tris[i+1], tris[i+2]},
			{tris[i+2], tris[i]},
		} {
			key := e.Normalized()
			if _, dup := seen[key]; !dup {
				order = append(order, e)
			}
			seen[key]++
		}
	}
	for _, e := range order {
		if seen[e.Normalized()] == 1 {
			dst = append(dst, e)
		}
	}
	return dst
}

// IsQuad reports whether the face has exactly four perimeter edges.
func (f *Face) IsQuad() bool {
	return len(f.Edges()) == 4
}

// ToQuad returns the four perimeter vertices in loop order.
func (f *Face) ToQuad() ([4]int, error) {
	if !f.IsQuad() {
		return [4]int{}, fmt.Errorf("%w: face has %d perimeter edges, not 4", ErrInvalidOperation, len(f.Edges()))
	}

	edges := f.Edges()
	quad := [4]int{edges[0].A, edges[0].B, -1, -1}
	source := edges[0]
	for i := 2; i < 4; i++ {
		next, nextIndex, ok := f.TryGetNextEdge(source, quad[i-1])
		if !ok {
			return [4]int{}, fmt.Errorf("%w: perimeter is not a closed loop", ErrInvalidOperation)
		}
		quad[i] = nextIndex
		source = next
	}
	return quad, nil
}

// TryGetNextEdge finds the perimeter edge other than source that touches pivot.
// nextIndex is the far endpoint of that edge.
func (f *Face) TryGetNextEdge(source Edge, pivot int) (next Edge, nextIndex int, ok bool) {
	for _, e := range f.Edges() {
		if e.Equals(source) {
			continue
		}
		if e.Contains(pivot) {
			return e, e.Other(pivot), true
		}
	}
	return InvalidEdge, -1, false
}

// Contains reports whether the face references index.
func (f *Face) Contains(index int) bool {
	return slices.Contains(f.indexes, index)
}

// ContainsEdge reports whether e, in either direction, is a perimeter edge of the face.
func (f *Face) ContainsEdge(e Edge) bool {
	for _, p := range f.Edges() {
		if p.Equals(e) {
			return true
		}
	}
	return false
}

// ContainsTriangle reports whether a, b and c form one triangle of the face, in any rotation.
func (f *Face) ContainsTriangle(a, b, c int) bool {
	for i := 0; i+2 < len(f.indexes); i += 3 {
		x, y, z := f.indexes[i], f.indexes[i+1], f.indexes[i+2]
		if (x == a && y == b && z == c) || (y == a && z == b && x == c) || (z == a && x == b && y == c) {
			return true
		}
	}
	return false
}

// SmallestIndex returns the lowest referenced index, or -1 for an empty face.
func (f *Face) SmallestIndex() int {
	if len(f.indexes) == 0 {
		return -1
	}
	return slices.Min(f.indexes)
}

// ShiftIndexes adds offset to every index.
func (f *Face) ShiftIndexes(offset int) {
	for i := range f.indexes {
		f.indexes[i] += offset
	}
	f.invalidate()
}

// ShiftIndexesToZero shifts indexes so the smallest becomes 0.
func (f *Face) ShiftIndexesToZero() {
	if len(f.indexes) == 0 {
		return
	}
	f.ShiftIndexes(-f.SmallestIndex())
}

// Reverse flips the winding order of the face.
func (f *Face) Reverse() {
	slices.Reverse(f.indexes)
	f.invalidate()
}

// Copy returns a deep copy with empty caches.
func (f *Face) Copy() *Face {
	c := &Face{
		SmoothingGroup: f.SmoothingGroup,
		SubmeshIndex:   f.SubmeshIndex,
		TextureGroup:   f.TextureGroup,
		UV:             f.UV,
		ManualUV:       f.ManualUV,
		indexes:        slices.Clone(f.indexes),
	}
	return c
}

// remap rewrites each index through fn. Used when splicing into another index space.
func (f *Face) remap(fn func(int) int) {
	for i, v := range f.indexes {
		f.indexes[i] = fn(v)
	}
	f.invalidate()
}

func (f *Face) invalidate() {
	f.distinctValid = false
	f.edgesValid = false
}

// String returns a short description for logs.
func (f *Face) String() string {
	return fmt.Sprintf("Face{tris=%d submesh=%d smooth=%d texgroup=%d}",
		f.TriangleCount(), f.SubmeshIndex, f.SmoothingGroup, f.TextureGroup)
}
