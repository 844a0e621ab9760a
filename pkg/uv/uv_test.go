package uv

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

const delta = 1e-4

func assertVec2(t *testing.T, want, got math.Vec2, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want[0], got[0], delta, msgAndArgs...)
	assert.InDelta(t, want[1], got[1], delta, msgAndArgs...)
}

func assertVec3(t *testing.T, want, got math.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want[0], got[0], delta, msgAndArgs...)
	assert.InDelta(t, want[1], got[1], delta, msgAndArgs...)
	assert.InDelta(t, want[2], got[2], delta, msgAndArgs...)
}

func TestBasisOrthonormal(t *testing.T) {
	dirs := []math.Vec3{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{1, 1, 0}, {0.3, -0.2, 0.9}, {-1, 2, 3},
	}
	for _, d := range dirs {
		n := math.Normalize(d)
		u, v := Basis(d)
		assert.InDelta(t, 1, u.Len(), delta, "|u| for %v", d)
		assert.InDelta(t, 1, v.Len(), delta, "|v| for %v", d)
		assert.InDelta(t, 0, u.Dot(n), delta, "u.n for %v", d)
		assert.InDelta(t, 0, v.Dot(n), delta, "v.n for %v", d)
		assert.InDelta(t, 0, u.Dot(v), delta, "u.v for %v", d)
	}
}

func TestBasisFrontFacing(t *testing.T) {
	u, v := Basis(math.Vec3{0, 0, 1})
	assertVec3(t, math.Vec3{1, 0, 0}, u)
	assertVec3(t, math.Vec3{0, 1, 0}, v)
}

func TestPlanarProjectIndexes(t *testing.T) {
	positions := []math.Vec3{{9, 9, 9}, {1, 2, 0}, {3, 4, 0}}
	got := PlanarProject(positions, []int{2, 1}, math.Vec3{0, 0, 1})
	require.Len(t, got, 2)
	assertVec2(t, math.Vec2{3, 4}, got[0])
	assertVec2(t, math.Vec2{1, 2}, got[1])
}

func TestPlanarProjectRelift(t *testing.T) {
	// Four non-collinear points on the tilted plane y = x + z.
	points := []math.Vec3{
		{0, 0, 0},
		{1, 1, 0},
		{0, 1, 1},
		{2, 3, 1},
	}
	plane := math.FindBestPlane(points, nil)
	n := plane.Normal
	u, v := Basis(n)
	uvs := PlanarProject(points, nil, n)

	depth := n.Dot(points[0])
	for i, p := range points {
		lifted := u.Mul(uvs[i][0]).Add(v.Mul(uvs[i][1])).Add(n.Mul(depth))
		assertVec3(t, p, lifted, "point %d", i)
	}
}

func TestProjectionNormalFollowsWinding(t *testing.T) {
	positions := []math.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	front := mesh.MustFace(0, 1, 2, 1, 3, 2)
	assertVec3(t, math.Vec3{0, 0, 1}, ProjectionNormal(positions, front.DistinctIndexes(), front.Indexes()))

	back := front.Copy()
	back.Reverse()
	assertVec3(t, math.Vec3{0, 0, -1}, ProjectionNormal(positions, back.DistinctIndexes(), back.Indexes()))
}

func unitSquare() []math.Vec2 {
	return []math.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
}

func TestApplySettings(t *testing.T) {
	tests := []struct {
		name     string
		in       []math.Vec2
		settings func(*mesh.AutoUnwrapSettings)
		want     []math.Vec2
	}{
		{
			name:     "defaults are identity",
			in:       []math.Vec2{{2, 3}, {4, 3}},
			settings: func(*mesh.AutoUnwrapSettings) {},
			want:     []math.Vec2{{2, 3}, {4, 3}},
		},
		{
			name: "lower left stretch",
			in:   []math.Vec2{{2, 3}, {4, 3}, {2, 5}, {4, 5}},
			settings: func(s *mesh.AutoUnwrapSettings) {
				s.Anchor = mesh.AnchorLowerLeft
				s.Fill = mesh.FillStretch
			},
			want: unitSquare(),
		},
		{
			name: "middle center fit",
			in:   []math.Vec2{{0, 0}, {2, 0}, {0, 1}, {2, 1}},
			settings: func(s *mesh.AutoUnwrapSettings) {
				s.Anchor = mesh.AnchorMiddleCenter
				s.Fill = mesh.FillFit
			},
			want: []math.Vec2{{0, 0.25}, {1, 0.25}, {0, 0.75}, {1, 0.75}},
		},
		{
			name:     "flip u",
			in:       unitSquare(),
			settings: func(s *mesh.AutoUnwrapSettings) { s.FlipU = true },
			want:     []math.Vec2{{1, 0}, {0, 0}, {1, 1}, {0, 1}},
		},
		{
			name:     "flip v",
			in:       unitSquare(),
			settings: func(s *mesh.AutoUnwrapSettings) { s.FlipV = true },
			want:     []math.Vec2{{0, 1}, {1, 1}, {0, 0}, {1, 0}},
		},
		{
			name:     "swap",
			in:       []math.Vec2{{1, 0}, {3, 2}},
			settings: func(s *mesh.AutoUnwrapSettings) { s.SwapUV = true },
			want:     []math.Vec2{{0, 1}, {2, 3}},
		},
		{
			name:     "scale about center",
			in:       unitSquare(),
			settings: func(s *mesh.AutoUnwrapSettings) { s.Scale = math.Vec2{2, 2} },
			want:     []math.Vec2{{-0.5, -0.5}, {1.5, -0.5}, {-0.5, 1.5}, {1.5, 1.5}},
		},
		{
			name:     "zero scale reads as one",
			in:       unitSquare(),
			settings: func(s *mesh.AutoUnwrapSettings) { s.Scale = math.Vec2{} },
			want:     unitSquare(),
		},
		{
			name:     "rotate 90",
			in:       unitSquare(),
			settings: func(s *mesh.AutoUnwrapSettings) { s.Rotation = 90 },
			want:     []math.Vec2{{1, 0}, {1, 1}, {0, 0}, {0, 1}},
		},
		{
			name:     "offset",
			in:       unitSquare(),
			settings: func(s *mesh.AutoUnwrapSettings) { s.Offset = math.Vec2{0.25, -1} },
			want:     []math.Vec2{{0.25, -1}, {1.25, -1}, {0.25, 0}, {1.25, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mesh.DefaultUnwrapSettings()
			tt.settings(&s)
			uvs := append([]math.Vec2(nil), tt.in...)
			ApplySettings(uvs, s)
			require.Len(t, uvs, len(tt.want))
			for i := range uvs {
				assertVec2(t, tt.want[i], uvs[i], "uv %d", i)
			}
		})
	}
}

func TestApplySettingsEmpty(t *testing.T) {
	ApplySettings(nil, mesh.DefaultUnwrapSettings())
}

func quad(t *testing.T, x0 float32) ([]math.Vec3, *mesh.Face) {
	t.Helper()
	return []math.Vec3{{x0, 0, 0}, {x0 + 2, 0, 0}, {x0, 1, 0}, {x0 + 2, 1, 0}}, mesh.MustFace(0, 1, 2, 1, 3, 2)
}

func TestRefreshLocalSpace(t *testing.T) {
	positions, f := quad(t, 5)
	m, err := mesh.New(positions, []*mesh.Face{f}, mesh.BuildOptions{})
	require.NoError(t, err)

	require.NoError(t, Refresh(m, nil))
	uvs := m.UVs(Channel)
	require.Len(t, uvs, 4)
	assertVec2(t, math.Vec2{0, 0}, uvs[0])
	assertVec2(t, math.Vec2{2, 0}, uvs[1])
	assertVec2(t, math.Vec2{0, 1}, uvs[2])
	assertVec2(t, math.Vec2{2, 1}, uvs[3])
}

func TestRefreshWorldSpace(t *testing.T) {
	positions, f := quad(t, 0)
	f.UV.WorldSpace = true
	m, err := mesh.New(positions, []*mesh.Face{f}, mesh.BuildOptions{})
	require.NoError(t, err)
	m.Transform = mgl32.Translate3D(5, 0, 0)

	require.NoError(t, Refresh(m, nil))
	uvs := m.UVs(Channel)
	assertVec2(t, math.Vec2{5, 0}, uvs[0])
	assertVec2(t, math.Vec2{7, 1}, uvs[3])
}

func TestRefreshSkipsManual(t *testing.T) {
	positions, f := quad(t, 0)
	f.ManualUV = true
	m, err := mesh.New(positions, []*mesh.Face{f}, mesh.BuildOptions{})
	require.NoError(t, err)
	manual := []math.Vec2{{9, 9}, {9, 9}, {9, 9}, {9, 9}}
	require.NoError(t, m.SetUVs(Channel, manual))

	require.NoError(t, Refresh(m, nil))
	assert.Equal(t, manual, m.UVs(Channel))
}

func TestRefreshTextureGroup(t *testing.T) {
	build := func(group int) *mesh.Mesh {
		left, a := quad(t, 0)
		right, b := quad(t, 2)
		b.ShiftIndexes(4)
		a.TextureGroup = group
		b.TextureGroup = group
		m, err := mesh.New(append(left, right...), []*mesh.Face{a, b}, mesh.BuildOptions{})
		require.NoError(t, err)
		require.NoError(t, Refresh(m, nil))
		return m
	}

	t.Run("grouped faces share one island", func(t *testing.T) {
		uvs := build(1).UVs(Channel)
		assertVec2(t, math.Vec2{2, 0}, uvs[4])
		assertVec2(t, math.Vec2{4, 1}, uvs[7])
	})

	t.Run("ungrouped faces are re-based each", func(t *testing.T) {
		uvs := build(0).UVs(Channel)
		assertVec2(t, math.Vec2{0, 0}, uvs[4])
		assertVec2(t, math.Vec2{2, 1}, uvs[7])
	})
}

func TestRefreshSubset(t *testing.T) {
	left, a := quad(t, 0)
	right, b := quad(t, 2)
	b.ShiftIndexes(4)
	m, err := mesh.New(append(left, right...), []*mesh.Face{a, b}, mesh.BuildOptions{})
	require.NoError(t, err)

	require.NoError(t, Refresh(m, []*mesh.Face{b}))
	uvs := m.UVs(Channel)
	assertVec2(t, math.Vec2{0, 0}, uvs[1], "face a should not be touched")
	assertVec2(t, math.Vec2{2, 1}, uvs[7])
}

func TestRefreshRejectsForeignIndexes(t *testing.T) {
	positions, f := quad(t, 0)
	m, err := mesh.New(positions, []*mesh.Face{f}, mesh.BuildOptions{})
	require.NoError(t, err)

	err = Refresh(m, []*mesh.Face{mesh.MustFace(0, 1, 99)})
	assert.ErrorIs(t, err, mesh.ErrIndexOutOfRange)
}
