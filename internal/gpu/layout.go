// Package gpu uploads compiled meshes to OpenGL.
package gpu

import (
	"fmt"

	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// Vertex attribute locations shared by the uploader and its shader.
const (
	LocPosition = 0
	LocNormal   = 1
	LocUV       = 2
)

const floatSize = 4

// Layout describes an interleaved vertex buffer. Offsets and stride are in bytes.
type Layout struct {
	Stride         int32
	PositionOffset uintptr
	NormalOffset   uintptr
	UVOffset       uintptr
}

// DefaultLayout is position (3), normal (3), uv0 (2).
var DefaultLayout = Layout{
	Stride:         8 * floatSize,
	PositionOffset: 0,
	NormalOffset:   3 * floatSize,
	UVOffset:       6 * floatSize,
}

// Interleave packs positions, normals and UV channel 0 into one buffer. Missing
// attributes are written as zeros.
func Interleave(m *mesh.Mesh) ([]float32, Layout) {
	positions := m.Positions()
	normals := m.Normals()
	uvs := m.UVs(0)

	const stride = 8
	out := make([]float32, len(positions)*stride)
	for i, p := range positions {
		v := out[i*stride : (i+1)*stride]
		copy(v[0:3], p[:])
		if normals != nil {
			copy(v[3:6], normals[i][:])
		}
		if uvs != nil {
			copy(v[6:8], uvs[i][:])
		}
	}
	return out, DefaultLayout
}

// DrawIndexes converts a submesh to a uint32 triangle list. Quads are split
// since core profiles have no quad primitive.
func DrawIndexes(s mesh.Submesh) ([]uint32, error) {
	tris := s.Indexes
	if s.Topology == mesh.Quads {
		if len(tris)%4 != 0 {
			return nil, fmt.Errorf("%w: quad submesh %d has %d indexes", mesh.ErrInvalidArgument, s.Index, len(tris))
		}
		tris = mesh.QuadsToTriangles(tris)
	}
	out := make([]uint32, len(tris))
	for i, idx := range tris {
		if idx < 0 {
			return nil, fmt.Errorf("%w: negative index %d in submesh %d", mesh.ErrIndexOutOfRange, idx, s.Index)
		}
		out[i] = uint32(idx)
	}
	return out, nil
}
