package uv

import (
	"fmt"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// Channel is the UV channel written by Refresh.
const Channel = 0

// island is one projection unit: a single face, or every face of a texture group.
type island struct {
	faces   []*mesh.Face
	indexes []int
}

// Refresh regenerates UV channel 0 for faces (every face of m when faces is nil).
//
// Faces marked ManualUV are left alone. Faces sharing a positive TextureGroup
// are projected together along the average of their normals, using the settings
// of the first member. Local-space islands are moved so their projected bounds
// start at the origin; world-space islands project m.Transform-ed positions and
// keep their world offset.
func Refresh(m *mesh.Mesh, faces []*mesh.Face) error {
	if faces == nil {
		faces = m.Faces()
	}
	for fi, f := range faces {
		if f == nil {
			return fmt.Errorf("%w: face %d is nil", mesh.ErrInvalidArgument, fi)
		}
		for _, i := range f.Indexes() {
			if i < 0 || i >= m.VertexCount() {
				return fmt.Errorf("%w: face %d references %d", mesh.ErrIndexOutOfRange, fi, i)
			}
		}
	}

	uvs, err := m.EnsureUVs(Channel)
	if err != nil {
		return err
	}

	local := m.Positions()
	var world []math.Vec3
	positionsFor := func(s mesh.AutoUnwrapSettings) []math.Vec3 {
		if !s.WorldSpace {
			return local
		}
		if world == nil {
			world = make([]math.Vec3, len(local))
			for i, p := range local {
				world[i] = m.Transform.Mul4x1(p.Vec4(1)).Vec3()
			}
		}
		return world
	}

	for _, is := range collectIslands(faces) {
		settings := is.faces[0].UV
		positions := positionsFor(settings)

		var normal math.Vec3
		if len(is.faces) == 1 {
			f := is.faces[0]
			normal = ProjectionNormal(positions, f.DistinctIndexes(), f.Indexes())
		} else {
			var sum math.Vec3
			for _, f := range is.faces {
				sum = sum.Add(ProjectionNormal(positions, f.DistinctIndexes(), f.Indexes()))
			}
			normal = math.Normalize(sum)
		}
		if normal.Len() == 0 {
			normal = math.Up
		}

		projected := PlanarProject(positions, is.indexes, normal)
		if !settings.WorldSpace {
			lo := math.NewBounds2D(projected, nil).Min()
			for k := range projected {
				projected[k] = projected[k].Sub(lo)
			}
		}
		ApplySettings(projected, settings)

		for k, i := range is.indexes {
			uvs[i] = projected[k]
		}
	}
	return nil
}

// collectIslands splits faces into projection units in order of first appearance.
func collectIslands(faces []*mesh.Face) []island {
	var islands []island
	groups := make(map[int]int)

	for _, f := range faces {
		if f.ManualUV || len(f.Indexes()) == 0 {
			continue
		}
		if f.TextureGroup <= 0 {
			islands = append(islands, island{
				faces:   []*mesh.Face{f},
				indexes: f.DistinctIndexes(),
			})
			continue
		}
		if at, ok := groups[f.TextureGroup]; ok {
			islands[at].faces = append(islands[at].faces, f)
			continue
		}
		groups[f.TextureGroup] = len(islands)
		islands = append(islands, island{faces: []*mesh.Face{f}})
	}

	for k := range islands {
		if len(islands[k].faces) == 1 && islands[k].indexes != nil {
			continue
		}
		seen := make(map[int]struct{})
		var indexes []int
		for _, f := range islands[k].faces {
			for _, i := range f.DistinctIndexes() {
				if _, dup := seen[i]; dup {
					continue
				}
				seen[i] = struct{}{}
				indexes = append(indexes, i)
			}
		}
		islands[k].indexes = indexes
	}
	return islands
}
