package mesh

import (
	"github.com/Faultbox/meshtopo/pkg/math"
)

// FaceNormal returns the unit normal of f from its triangle winding, or the zero
// vector for degenerate faces.
func (m *Mesh) FaceNormal(f *Face) math.Vec3 {
	return math.FaceNormal(m.positions, f.Indexes())
}

// RecalculateNormals rebuilds the normal attribute.
//
// Each vertex gets the area-weighted normal of the triangles that use it. Then,
// within each coincident group, vertices whose faces share a non-zero smoothing
// group are averaged; vertices of different or zero smoothing groups keep hard edges.
func (m *Mesh) RecalculateNormals() {
	n := len(m.positions)
	normals := make([]math.Vec3, n)
	smoothing := make([]int, n)

	for _, f := range m.faces {
		tris := f.Indexes()
		for i := 0; i+2 < len(tris); i += 3 {
			a, b, c := tris[i], tris[i+1], tris[i+2]
			cross := m.positions[b].Sub(m.positions[a]).Cross(m.positions[c].Sub(m.positions[a]))
			normals[a] = normals[a].Add(cross)
			normals[b] = normals[b].Add(cross)
			normals[c] = normals[c].Add(cross)
		}
		for _, i := range f.DistinctIndexes() {
			smoothing[i] = f.SmoothingGroup
		}
	}
	for i := range normals {
		normals[i] = math.Normalize(normals[i])
	}

	buckets := make(map[int][]int)
	for _, group := range m.shared.Groups() {
		if len(group) < 2 {
			continue
		}
		clear(buckets)
		for _, i := range group {
			if sg := smoothing[i]; sg != 0 {
				buckets[sg] = append(buckets[sg], i)
			}
		}
		for _, members := range buckets {
			if len(members) < 2 {
				continue
			}
			var sum math.Vec3
			for _, i := range members {
				sum = sum.Add(normals[i])
			}
			avg := math.Normalize(sum)
			for _, i := range members {
				normals[i] = avg
			}
		}
	}

	m.normals = normals
}
