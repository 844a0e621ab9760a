package mesh

import (
	"fmt"
	"strings"
)

// MaxSubmeshes bounds the number of index buffers Compile produces. Faces with
// a larger submesh index compile into the last buffer.
const MaxSubmeshes = 1024

// Topology is the primitive type of a compiled index buffer.
type Topology int

const (
	Triangles Topology = iota
	Quads
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology converts a config string to a Topology.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "triangles", "tris", "":
		return Triangles, nil
	case "quads":
		return Quads, nil
	}
	return Triangles, fmt.Errorf("%w: unknown topology %q", ErrInvalidArgument, s)
}

// VertsPerPrimitive returns 3 for triangles and 4 for quads.
func (t Topology) VertsPerPrimitive() int {
	if t == Quads {
		return 4
	}
	return 3
}

// Submesh is one index buffer of a compiled mesh.
type Submesh struct {
	Index    int
	Topology Topology
	Indexes  []int
}

// PrimitiveCount returns the number of triangles or quads in the buffer.
func (s Submesh) PrimitiveCount() int {
	return len(s.Indexes) / s.Topology.VertsPerPrimitive()
}

// Compile groups faces by submesh index and emits one index buffer per submesh.
// See CompileSubmeshes.
func (m *Mesh) Compile(preferred Topology) []Submesh {
	count := 0
	for _, f := range m.faces {
		if f.SubmeshIndex+1 > count {
			count = f.SubmeshIndex + 1
		}
	}
	count = min(count, MaxSubmeshes)
	return CompileSubmeshes(m.faces, count, preferred)
}

// CompileSubmeshes builds submeshCount index buffers from faces. With preferred
// Quads, quad faces emit their 4-vertex loop and other faces their triangles; a
// submesh holding both is emitted as triangles with quads split (a,b,c)(c,d,a).
// Faces with a negative submesh index are clamped to 0.
func CompileSubmeshes(faces []*Face, submeshCount int, preferred Topology) []Submesh {
	if submeshCount < 1 {
		submeshCount = 1
	}
	quads := make([][]int, submeshCount)
	tris := make([][]int, submeshCount)

	for _, f := range faces {
		si := min(max(f.SubmeshIndex, 0), submeshCount-1)
		if preferred == Quads && f.IsQuad() {
			if q, err := f.ToQuad(); err == nil {
				quads[si] = append(quads[si], q[:]...)
				continue
			}
		}
		tris[si] = append(tris[si], f.Indexes()...)
	}

	submeshes := make([]Submesh, submeshCount)
	for i := range submeshes {
		q, t := quads[i], tris[i]
		switch {
		case len(q) > 0 && len(t) > 0:
			submeshes[i] = Submesh{Index: i, Topology: Triangles, Indexes: append(QuadsToTriangles(q), t...)}
		case len(q) > 0:
			submeshes[i] = Submesh{Index: i, Topology: Quads, Indexes: q}
		default:
			if t == nil {
				t = []int{}
			}
			submeshes[i] = Submesh{Index: i, Topology: Triangles, Indexes: t}
		}
	}
	return submeshes
}

// QuadsToTriangles splits a quad index list into triangles.
func QuadsToTriangles(quads []int) []int {
	out := make([]int, 0, len(quads)/4*6)
	for i := 0; i+3 < len(quads); i += 4 {
		a, b, c, d := quads[i], quads[i+1], quads[i+2], quads[i+3]
		out = append(out, a, b, c, c, d, a)
	}
	return out
}
