package mesh

import (
	"fmt"
	"slices"

	"github.com/Faultbox/meshtopo/pkg/math"
)

func checkLength[T any](name string, attr []T, count int) error {
	if attr != nil && len(attr) != count {
		return fmt.Errorf("%w: %s has %d values, vertex count %d", ErrAttributeLength, name, len(attr), count)
	}
	return nil
}

// Normals returns the normal array, or nil when absent.
func (m *Mesh) Normals() []math.Vec3 { return m.normals }

// Tangents returns the tangent array, or nil when absent.
func (m *Mesh) Tangents() []math.Vec4 { return m.tangents }

// Colors returns the vertex color array, or nil when absent.
func (m *Mesh) Colors() []math.Vec4 { return m.colors }

// UVs returns a texture coordinate channel, or nil when absent or out of range.
func (m *Mesh) UVs(channel int) []math.Vec2 {
	if channel < 0 || channel >= UVChannels {
		return nil
	}
	return m.uvs[channel]
}

// SetNormals replaces the normals. nil removes the attribute.
func (m *Mesh) SetNormals(normals []math.Vec3) error {
	if err := checkLength("normals", normals, len(m.positions)); err != nil {
		return err
	}
	m.normals = slices.Clone(normals)
	return nil
}

// SetTangents replaces the tangents. nil removes the attribute.
func (m *Mesh) SetTangents(tangents []math.Vec4) error {
	if err := checkLength("tangents", tangents, len(m.positions)); err != nil {
		return err
	}
	m.tangents = slices.Clone(tangents)
	return nil
}

// SetColors replaces the vertex colors. nil removes the attribute.
func (m *Mesh) SetColors(colors []math.Vec4) error {
	if err := checkLength("colors", colors, len(m.positions)); err != nil {
		return err
	}
	m.colors = slices.Clone(colors)
	return nil
}

// SetUVs replaces a texture coordinate channel. nil removes the channel.
func (m *Mesh) SetUVs(channel int, uvs []math.Vec2) error {
	if channel < 0 || channel >= UVChannels {
		return fmt.Errorf("%w: uv channel %d", ErrInvalidArgument, channel)
	}
	if err := checkLength(fmt.Sprintf("uv%d", channel), uvs, len(m.positions)); err != nil {
		return err
	}
	m.uvs[channel] = slices.Clone(uvs)
	return nil
}

// EnsureUVs returns channel, allocating a zeroed array if it is absent.
func (m *Mesh) EnsureUVs(channel int) ([]math.Vec2, error) {
	if channel < 0 || channel >= UVChannels {
		return nil, fmt.Errorf("%w: uv channel %d", ErrInvalidArgument, channel)
	}
	if m.uvs[channel] == nil {
		m.uvs[channel] = make([]math.Vec2, len(m.positions))
	}
	return m.uvs[channel], nil
}

func (m *Mesh) checkAttributes() error {
	n := len(m.positions)
	if err := checkLength("normals", m.normals, n); err != nil {
		return err
	}
	if err := checkLength("tangents", m.tangents, n); err != nil {
		return err
	}
	if err := checkLength("colors", m.colors, n); err != nil {
		return err
	}
	for ch, uv := range m.uvs {
		if err := checkLength(fmt.Sprintf("uv%d", ch), uv, n); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) clearAttributes() {
	m.normals = nil
	m.tangents = nil
	m.colors = nil
	m.uvs = [UVChannels][]math.Vec2{}
}

func grow[T any](attr []T, n int) []T {
	if attr == nil {
		return nil
	}
	return append(attr, make([]T, n)...)
}

func (m *Mesh) growAttributes(n int) {
	m.normals = grow(m.normals, n)
	m.tangents = grow(m.tangents, n)
	m.colors = grow(m.colors, n)
	for ch := range m.uvs {
		m.uvs[ch] = grow(m.uvs[ch], n)
	}
}

// removeSorted drops the elements at the positions in sorted (ascending, unique).
func removeSorted[T any](attr []T, sorted []int) []T {
	if attr == nil || len(sorted) == 0 {
		return attr
	}
	out := make([]T, 0, len(attr)-len(sorted))
	next := 0
	for i, v := range attr {
		if next < len(sorted) && sorted[next] == i {
			next++
			continue
		}
		out = append(out, v)
	}
	return out
}

// SanitizeAttributes replaces NaN and infinite components in positions and every
// attribute with zero and returns how many components were replaced. Mutations
// do not check for non-finite values; call this at import or repair time.
func (m *Mesh) SanitizeAttributes() int {
	fixed := 0
	fix := func(v []float32) {
		for i := range v {
			if !math.IsFinite(v[i]) {
				v[i] = 0
				fixed++
			}
		}
	}

	before := fixed
	for i := range m.positions {
		fix(m.positions[i][:])
	}
	if fixed != before {
		m.shared.Invalidate()
	}
	for i := range m.normals {
		fix(m.normals[i][:])
	}
	for i := range m.tangents {
		fix(m.tangents[i][:])
	}
	for i := range m.colors {
		fix(m.colors[i][:])
	}
	for ch := range m.uvs {
		for i := range m.uvs[ch] {
			fix(m.uvs[ch][i][:])
		}
	}
	return fixed
}
