// Package meshio reads and writes meshes as YAML documents for meshtool.
package meshio

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// ErrMalformed is returned for documents that parse as YAML but do not
// describe a valid mesh.
var ErrMalformed = errors.New("meshio: malformed document")

// Document is the on-disk form of a mesh.
type Document struct {
	Positions [][]float32 `yaml:"positions,flow"`
	Faces     []FaceDoc   `yaml:"faces"`
	// Shared lists explicit coincident groups. When absent, vertices are
	// grouped by position.
	Shared    [][]int     `yaml:"shared,omitempty,flow"`
	Normals   [][]float32 `yaml:"normals,omitempty,flow"`
	Colors    [][]float32 `yaml:"colors,omitempty,flow"`
	UV0       [][]float32 `yaml:"uv0,omitempty,flow"`
	Transform []float32   `yaml:"transform,omitempty,flow"` // 16 values, column-major
}

// FaceDoc is one face of a Document.
type FaceDoc struct {
	Indexes        []int  `yaml:"indexes,flow"`
	SmoothingGroup int    `yaml:"smoothing_group,omitempty"`
	Submesh        int    `yaml:"submesh,omitempty"`
	TextureGroup   int    `yaml:"texture_group,omitempty"`
	ManualUV       bool   `yaml:"manual_uv,omitempty"`
	UV             *UVDoc `yaml:"uv,omitempty"`
}

// UVDoc holds per-face unwrap settings. Unset fields take the defaults given to Build.
type UVDoc struct {
	Anchor     string    `yaml:"anchor,omitempty"`
	Fill       string    `yaml:"fill,omitempty"`
	Scale      []float32 `yaml:"scale,omitempty,flow"`
	Offset     []float32 `yaml:"offset,omitempty,flow"`
	Rotation   float32   `yaml:"rotation,omitempty"`
	FlipU      bool      `yaml:"flip_u,omitempty"`
	FlipV      bool      `yaml:"flip_v,omitempty"`
	SwapUV     bool      `yaml:"swap_uv,omitempty"`
	WorldSpace bool      `yaml:"world_space,omitempty"`
}

func vec2(v []float32, what string) (math.Vec2, error) {
	if len(v) != 2 {
		return math.Vec2{}, fmt.Errorf("%w: %s has %d components, want 2", ErrMalformed, what, len(v))
	}
	return math.Vec2{v[0], v[1]}, nil
}

func vec3(v []float32, what string) (math.Vec3, error) {
	if len(v) != 3 {
		return math.Vec3{}, fmt.Errorf("%w: %s has %d components, want 3", ErrMalformed, what, len(v))
	}
	return math.Vec3{v[0], v[1], v[2]}, nil
}

func vec4(v []float32, what string) (math.Vec4, error) {
	if len(v) != 4 {
		return math.Vec4{}, fmt.Errorf("%w: %s has %d components, want 4", ErrMalformed, what, len(v))
	}
	return math.Vec4{v[0], v[1], v[2], v[3]}, nil
}

// settings resolves a face's unwrap settings against defaults.
func (u *UVDoc) settings(defaults mesh.AutoUnwrapSettings) (mesh.AutoUnwrapSettings, error) {
	s := defaults
	if u == nil {
		return s, nil
	}
	var err error
	if u.Anchor != "" {
		if s.Anchor, err = mesh.ParseAnchor(u.Anchor); err != nil {
			return s, err
		}
	}
	if u.Fill != "" {
		if s.Fill, err = mesh.ParseFill(u.Fill); err != nil {
			return s, err
		}
	}
	if u.Scale != nil {
		if s.Scale, err = vec2(u.Scale, "uv.scale"); err != nil {
			return s, err
		}
	}
	if u.Offset != nil {
		if s.Offset, err = vec2(u.Offset, "uv.offset"); err != nil {
			return s, err
		}
	}
	s.Rotation = u.Rotation
	s.FlipU = u.FlipU
	s.FlipV = u.FlipV
	s.SwapUV = u.SwapUV
	s.WorldSpace = u.WorldSpace
	return s, nil
}

// Build converts the document into a mesh. Faces without uv settings get defaults.
func (d *Document) Build(opts mesh.BuildOptions, defaults mesh.AutoUnwrapSettings) (*mesh.Mesh, error) {
	positions := make([]math.Vec3, len(d.Positions))
	for i, p := range d.Positions {
		v, err := vec3(p, fmt.Sprintf("position %d", i))
		if err != nil {
			return nil, err
		}
		positions[i] = v
	}

	faces := make([]*mesh.Face, len(d.Faces))
	for i, fd := range d.Faces {
		if fd.Indexes == nil {
			return nil, fmt.Errorf("%w: face %d has no indexes", ErrMalformed, i)
		}
		if fd.Submesh < 0 || fd.Submesh >= mesh.MaxSubmeshes {
			return nil, fmt.Errorf("%w: face %d submesh %d outside [0, %d)", ErrMalformed, i, fd.Submesh, mesh.MaxSubmeshes)
		}
		f, err := mesh.NewFace(fd.Indexes)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		f.SmoothingGroup = fd.SmoothingGroup
		f.SubmeshIndex = fd.Submesh
		f.TextureGroup = fd.TextureGroup
		f.ManualUV = fd.ManualUV
		if f.UV, err = fd.UV.settings(defaults); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces[i] = f
	}

	m, err := mesh.New(positions, faces, opts)
	if err != nil {
		return nil, err
	}

	if d.Shared != nil {
		groups := make([]mesh.SharedVertex, len(d.Shared))
		for i, g := range d.Shared {
			groups[i] = mesh.SharedVertex(g)
		}
		if err := m.SetSharedVertices(groups); err != nil {
			return nil, err
		}
	}

	if err := d.buildAttributes(m); err != nil {
		return nil, err
	}

	if d.Transform != nil {
		if len(d.Transform) != 16 {
			return nil, fmt.Errorf("%w: transform has %d values, want 16", ErrMalformed, len(d.Transform))
		}
		copy(m.Transform[:], d.Transform)
	}
	return m, nil
}

func (d *Document) buildAttributes(m *mesh.Mesh) error {
	if d.Normals != nil {
		normals := make([]math.Vec3, len(d.Normals))
		for i, n := range d.Normals {
			v, err := vec3(n, fmt.Sprintf("normal %d", i))
			if err != nil {
				return err
			}
			normals[i] = v
		}
		if err := m.SetNormals(normals); err != nil {
			return err
		}
	}
	if d.Colors != nil {
		colors := make([]math.Vec4, len(d.Colors))
		for i, c := range d.Colors {
			v, err := vec4(c, fmt.Sprintf("color %d", i))
			if err != nil {
				return err
			}
			colors[i] = v
		}
		if err := m.SetColors(colors); err != nil {
			return err
		}
	}
	if d.UV0 != nil {
		uvs := make([]math.Vec2, len(d.UV0))
		for i, uv := range d.UV0 {
			v, err := vec2(uv, fmt.Sprintf("uv %d", i))
			if err != nil {
				return err
			}
			uvs[i] = v
		}
		if err := m.SetUVs(0, uvs); err != nil {
			return err
		}
	}
	return nil
}

// FromMesh converts a mesh into a document. Shared groups are written only when
// they differ from grouping by position.
func FromMesh(m *mesh.Mesh) *Document {
	d := &Document{
		Positions: make([][]float32, m.VertexCount()),
		Faces:     make([]FaceDoc, m.FaceCount()),
	}
	for i, p := range m.Positions() {
		d.Positions[i] = []float32{p[0], p[1], p[2]}
	}

	defaults := mesh.DefaultUnwrapSettings()
	for i, f := range m.Faces() {
		fd := FaceDoc{
			Indexes:        append([]int(nil), f.Indexes()...),
			SmoothingGroup: f.SmoothingGroup,
			Submesh:        f.SubmeshIndex,
			TextureGroup:   f.TextureGroup,
			ManualUV:       f.ManualUV,
		}
		if f.UV != defaults {
			s := f.UV
			fd.UV = &UVDoc{
				Anchor:     s.Anchor.String(),
				Fill:       s.Fill.String(),
				Scale:      []float32{s.Scale[0], s.Scale[1]},
				Offset:     []float32{s.Offset[0], s.Offset[1]},
				Rotation:   s.Rotation,
				FlipU:      s.FlipU,
				FlipV:      s.FlipV,
				SwapUV:     s.SwapUV,
				WorldSpace: s.WorldSpace,
			}
		}
		d.Faces[i] = fd
	}

	if !sameGroups(m.SharedVertices(), mesh.GroupByPosition(m.Positions(), m.Resolution())) {
		for _, g := range m.SharedVertices() {
			d.Shared = append(d.Shared, append([]int(nil), g...))
		}
	}

	if n := m.Normals(); n != nil {
		d.Normals = make([][]float32, len(n))
		for i, v := range n {
			d.Normals[i] = []float32{v[0], v[1], v[2]}
		}
	}
	if c := m.Colors(); c != nil {
		d.Colors = make([][]float32, len(c))
		for i, v := range c {
			d.Colors[i] = []float32{v[0], v[1], v[2], v[3]}
		}
	}
	if uv := m.UVs(0); uv != nil {
		d.UV0 = make([][]float32, len(uv))
		for i, v := range uv {
			d.UV0[i] = []float32{v[0], v[1]}
		}
	}
	if m.Transform != mgl32.Ident4() {
		d.Transform = append([]float32(nil), m.Transform[:]...)
	}
	return d
}

// sameGroups compares two partitions by membership.
func sameGroups(a, b []mesh.SharedVertex) bool {
	if len(a) != len(b) {
		return false
	}
	la, lb := mesh.BuildLookup(a), mesh.BuildLookup(b)
	if len(la) != len(lb) {
		return false
	}
	// Map group ids of a onto b; a consistent bijection means equal partitions.
	ab := make(map[int]int, len(a))
	for i, ga := range la {
		gb, ok := lb[i]
		if !ok {
			return false
		}
		if prev, seen := ab[ga]; seen && prev != gb {
			return false
		}
		ab[ga] = gb
	}
	return true
}
