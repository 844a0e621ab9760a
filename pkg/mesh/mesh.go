package mesh

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshtopo/pkg/math"
)

// UVChannels is the number of texture coordinate channels a mesh carries.
const UVChannels = 4

// BuildOptions contains options for mesh construction.
type BuildOptions struct {
	// Resolution is the quantization used to group coincident positions.
	// Zero, negative or non-finite values select DefaultResolution.
	Resolution float32
}

// Mesh owns positions, faces, coincident vertex groups and per-vertex attributes.
//
// Invariants: every face index is in [0, VertexCount()); every attribute array
// is nil or VertexCount() long; every index is in exactly one shared vertex group.
type Mesh struct {
	// Transform maps local positions to world space for world-space UV projection.
	Transform mgl32.Mat4

	positions  []math.Vec3
	faces      []*Face
	shared     *CoincidenceTable
	resolution float32

	normals  []math.Vec3
	tangents []math.Vec4
	colors   []math.Vec4
	uvs      [UVChannels][]math.Vec2
}

// New creates a mesh and groups coincident vertices by position.
func New(positions []math.Vec3, faces []*Face, opts BuildOptions) (*Mesh, error) {
	if positions == nil {
		return nil, fmt.Errorf("%w: nil positions", ErrInvalidArgument)
	}
	resolution := usableResolution(opts.Resolution)

	m := &Mesh{
		Transform:  mgl32.Ident4(),
		positions:  slices.Clone(positions),
		resolution: resolution,
	}
	if err := m.SetFaces(faces); err != nil {
		return nil, err
	}
	m.shared = NewCoincidenceTable(GroupByPosition(m.positions, resolution))
	return m, nil
}

// VertexCount returns the number of render vertices.
func (m *Mesh) VertexCount() int {
	return len(m.positions)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// Resolution returns the position quantization used for grouping.
func (m *Mesh) Resolution() float32 {
	return m.resolution
}

// Positions returns the position array. Use SetPosition or SetPositions to modify it.
func (m *Mesh) Positions() []math.Vec3 {
	return m.positions
}

// Position returns the position at index.
func (m *Mesh) Position(index int) (math.Vec3, error) {
	if err := m.checkIndex(index); err != nil {
		return math.Vec3{}, err
	}
	return m.positions[index], nil
}

// SetPositions replaces all positions. When the vertex count is unchanged the
// shared groups and attributes are kept. Otherwise groups are rebuilt from
// positions and attributes are dropped. Faces must stay in range.
func (m *Mesh) SetPositions(positions []math.Vec3) error {
	if positions == nil {
		return fmt.Errorf("%w: nil positions", ErrInvalidArgument)
	}
	if err := validateFaces(m.faces, len(positions)); err != nil {
		return err
	}
	resized := len(positions) != len(m.positions)
	m.positions = slices.Clone(positions)
	if resized {
		m.clearAttributes()
		m.shared.SetGroups(GroupByPosition(m.positions, m.resolution))
		return nil
	}
	m.shared.Invalidate()
	return nil
}

// SetPosition moves a single render vertex. Coincident vertices are not moved.
func (m *Mesh) SetPosition(index int, p math.Vec3) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.positions[index] = p
	m.shared.Invalidate()
	return nil
}

// TranslateVertices moves indexes and every vertex coincident with them by delta.
func (m *Mesh) TranslateVertices(indexes []int, delta math.Vec3) error {
	all, err := m.CoincidentVertices(indexes)
	if err != nil {
		return err
	}
	for _, i := range all {
		m.positions[i] = m.positions[i].Add(delta)
	}
	m.shared.Invalidate()
	return nil
}

// Faces returns the face list. Use SetFaces to modify it.
func (m *Mesh) Faces() []*Face {
	return m.faces
}

// SetFaces replaces the face list after checking every index is in range.
func (m *Mesh) SetFaces(faces []*Face) error {
	if faces == nil {
		return fmt.Errorf("%w: nil faces", ErrInvalidArgument)
	}
	if err := validateFaces(faces, len(m.positions)); err != nil {
		return err
	}
	m.faces = slices.Clone(faces)
	return nil
}

func validateFaces(faces []*Face, count int) error {
	for fi, f := range faces {
		if f == nil {
			return fmt.Errorf("%w: face %d is nil", ErrInvalidArgument, fi)
		}
		for _, i := range f.Indexes() {
			if i < 0 || i >= count {
				return fmt.Errorf("%w: face %d references %d, vertex count %d", ErrIndexOutOfRange, fi, i, count)
			}
		}
	}
	return nil
}

// IndexOfFace returns the position of f in the face list, or -1.
func (m *Mesh) IndexOfFace(f *Face) int {
	return slices.Index(m.faces, f)
}

// AppendFace adds positions as new vertices and a face indexing them. face
// indexes are relative to positions and are shifted into the mesh index space.
// New vertices get singleton groups and zeroed attributes.
func (m *Mesh) AppendFace(positions []math.Vec3, face *Face) error {
	if face == nil || positions == nil {
		return fmt.Errorf("%w: nil face or positions", ErrInvalidArgument)
	}
	if err := validateFaces([]*Face{face}, len(positions)); err != nil {
		return err
	}

	base := len(m.positions)
	face.ShiftIndexes(base)
	m.positions = append(m.positions, positions...)
	m.growAttributes(len(positions))
	for i := base; i < len(m.positions); i++ {
		m.shared.groups = append(m.shared.groups, SharedVertex{i})
	}
	m.shared.Invalidate()
	m.faces = append(m.faces, face)
	return nil
}

func (m *Mesh) checkIndex(index int) error {
	if index < 0 || index >= len(m.positions) {
		return fmt.Errorf("%w: %d, vertex count %d", ErrIndexOutOfRange, index, len(m.positions))
	}
	return nil
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	c := &Mesh{
		Transform:  m.Transform,
		positions:  slices.Clone(m.positions),
		shared:     m.shared.Copy(),
		resolution: m.resolution,
		normals:    slices.Clone(m.normals),
		tangents:   slices.Clone(m.tangents),
		colors:     slices.Clone(m.colors),
	}
	for ch := range m.uvs {
		c.uvs[ch] = slices.Clone(m.uvs[ch])
	}
	c.faces = make([]*Face, len(m.faces))
	for i, f := range m.faces {
		c.faces[i] = f.Copy()
	}
	return c
}

// Validate checks all mesh invariants.
func (m *Mesh) Validate() error {
	if err := validateFaces(m.faces, len(m.positions)); err != nil {
		return err
	}
	if err := m.checkAttributes(); err != nil {
		return err
	}
	if err := m.shared.Validate(len(m.positions)); err != nil {
		return err
	}
	if n := len(m.shared.Lookup()); n != len(m.positions) {
		return fmt.Errorf("%w: %d of %d vertices grouped", ErrInvalidGroups, n, len(m.positions))
	}
	return nil
}
