// Package math provides the geometry kernel used by the mesh topology packages.
//
// Vector types are the float32 types from mathgl so that positions and attributes
// can be handed to a renderer without conversion.
package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is a 2D vector (UV coordinates, projected points).
type Vec2 = mgl32.Vec2

// Vec3 is a 3D vector (positions, normals).
type Vec3 = mgl32.Vec3

// Vec4 is a 4-component vector (tangents, colors).
type Vec4 = mgl32.Vec4

// Epsilon is the tolerance used for float comparisons in the kernel.
const Epsilon float32 = 1e-5

var (
	// Up is the world up axis.
	Up = Vec3{0, 1, 0}
	// Forward is the world forward axis.
	Forward = Vec3{0, 0, 1}
	// Right is the world right axis.
	Right = Vec3{1, 0, 0}
)

// Normalize returns a unit vector, or the zero vector when v has no length.
// mgl32's Normalize divides by zero for degenerate input.
func Normalize(v Vec3) Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Normalize2 is Normalize for 2D vectors.
func Normalize2(v Vec2) Vec2 {
	l := v.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Normal returns the unit normal of triangle (a, b, c).
// A zero-magnitude cross product yields the zero vector instead of NaN.
func Normal(a, b, c Vec3) Vec3 {
	cross := b.Sub(a).Cross(c.Sub(a))
	mag := cross.Len()
	if mag < Epsilon*Epsilon || !IsFinite(mag) {
		return Vec3{}
	}
	return cross.Mul(1 / mag)
}

// FaceNormal returns the normalized sum of the cross products of every triangle in
// tris, which are indexes into positions. Larger triangles weigh more.
func FaceNormal(positions []Vec3, tris []int) Vec3 {
	var sum Vec3
	for i := 0; i+2 < len(tris); i += 3 {
		a := positions[tris[i]]
		b := positions[tris[i+1]]
		c := positions[tris[i+2]]
		sum = sum.Add(b.Sub(a).Cross(c.Sub(a)))
	}
	return Normalize(sum)
}

// Average returns the mean of points, or of points[indexes] when indexes is non-nil.
func Average(points []Vec3, indexes []int) Vec3 {
	var sum Vec3
	n := 0
	if indexes == nil {
		for _, p := range points {
			sum = sum.Add(p)
		}
		n = len(points)
	} else {
		for _, i := range indexes {
			sum = sum.Add(points[i])
		}
		n = len(indexes)
	}
	if n == 0 {
		return Vec3{}
	}
	return sum.Mul(1 / float32(n))
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// FiniteOr returns f, or fallback when f is NaN or infinite.
func FiniteOr(f, fallback float32) float32 {
	if IsFinite(f) {
		return f
	}
	return fallback
}

// ApproxEqual compares two vectors component-wise within eps.
func ApproxEqual(a, b Vec3, eps float32) bool {
	return math32.Abs(a[0]-b[0]) <= eps &&
		math32.Abs(a[1]-b[1]) <= eps &&
		math32.Abs(a[2]-b[2]) <= eps
}

// RotateAroundPoint rotates v by degrees counter-clockwise around origin.
func RotateAroundPoint(v, origin Vec2, degrees float32) Vec2 {
	rot := mgl32.Rotate2D(mgl32.DegToRad(degrees))
	return rot.Mul2x1(v.Sub(origin)).Add(origin)
}
