package mesh

import "fmt"

// Edge connects two vertex indexes. Direction is kept for winding but equality
// through Normalized is undirected.
type Edge struct {
	A, B int
}

// InvalidEdge is returned where no edge exists.
var InvalidEdge = Edge{-1, -1}

// Normalized returns the edge with the smaller index first, for use as a map key.
func (e Edge) Normalized() Edge {
	if e.A > e.B {
		return Edge{e.B, e.A}
	}
	return e
}

// Equals reports whether e and other connect the same indexes in either direction.
func (e Edge) Equals(other Edge) bool {
	return e.Normalized() == other.Normalized()
}

// Contains reports whether index is one of the edge's endpoints.
func (e Edge) Contains(index int) bool {
	return e.A == index || e.B == index
}

// Other returns the endpoint opposite index, or -1 if index is not on the edge.
func (e Edge) Other(index int) int {
	switch index {
	case e.A:
		return e.B
	case e.B:
		return e.A
	default:
		return -1
	}
}

// Valid reports whether both endpoints are non-negative.
func (e Edge) Valid() bool {
	return e.A > -1 && e.B > -1
}

// String returns "[A, B]".
func (e Edge) String() string {
	return fmt.Sprintf("[%d, %d]", e.A, e.B)
}

// EdgeLookup pairs an edge in render indexes (Local) with the same edge in
// coincidence group ids (Common). Faces that only touch through coincident
// vertices have different Local edges but equal Common edges.
type EdgeLookup struct {
	Local  Edge
	Common Edge
}

// NewEdgeLookup resolves local through lookup.
func NewEdgeLookup(local Edge, lookup map[int]int) (EdgeLookup, error) {
	a, ok := lookup[local.A]
	if !ok {
		return EdgeLookup{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, local.A)
	}
	b, ok := lookup[local.B]
	if !ok {
		return EdgeLookup{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, local.B)
	}
	return EdgeLookup{Local: local, Common: Edge{a, b}}, nil
}

// Equals compares common edges, ignoring direction.
func (e EdgeLookup) Equals(other EdgeLookup) bool {
	return e.Common.Equals(other.Common)
}
