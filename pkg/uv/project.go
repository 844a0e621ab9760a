// Package uv generates texture coordinates by planar projection.
//
// Faces are projected onto the plane that best fits their vertices, then the
// face's AutoUnwrapSettings are applied: anchor, fill, flip, swap, scale,
// rotation and offset, in that order.
package uv

import (
	"github.com/Faultbox/meshtopo/pkg/math"
)

// Basis returns the orthonormal U and V axes of the projection plane facing
// direction. The tangent hint comes from the dominant axis of direction, so
// nearby directions share a basis and texture orientation stays stable.
// A face facing +Z maps +X to +U and +Y to +V.
func Basis(direction math.Vec3) (u, v math.Vec3) {
	n := math.Normalize(direction)
	if n.Len() == 0 {
		n = math.Up
	}
	tangent := math.TangentHint(math.VectorToProjectionAxis(n))
	u = math.Normalize(tangent.Cross(n))
	v = n.Cross(u)
	return u, v
}

// PlanarProject projects positions (or positions[indexes] when indexes is
// non-nil) onto the plane facing direction. The result has one entry per
// projected point, in input order.
func PlanarProject(positions []math.Vec3, indexes []int, direction math.Vec3) []math.Vec2 {
	u, v := Basis(direction)
	project := func(p math.Vec3) math.Vec2 {
		return math.Vec2{u.Dot(p), v.Dot(p)}
	}

	if indexes == nil {
		out := make([]math.Vec2, len(positions))
		for i, p := range positions {
			out[i] = project(p)
		}
		return out
	}
	out := make([]math.Vec2, len(indexes))
	for k, i := range indexes {
		out[k] = project(positions[i])
	}
	return out
}

// ProjectionNormal returns the direction a face set is projected along: the
// best-fit plane normal of the points, flipped to agree with the winding normal
// of tris.
func ProjectionNormal(positions []math.Vec3, distinct, tris []int) math.Vec3 {
	normal := math.FindBestPlane(positions, distinct).Normal
	if winding := math.FaceNormal(positions, tris); winding.Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}
	return normal
}
