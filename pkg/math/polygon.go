package math

import (
	gomath "math"

	"github.com/chewxy/math32"
)

// PointInPolygon reports whether point lies inside a 2D polygon using even-odd
// crossings. When indexes is nil, polygon is an ordered loop. Otherwise indexes is
// read as a list of edges (pairs), so perimeter edges of a triangulated face can be
// passed directly.
func PointInPolygon(polygon []Vec2, indexes []int, point Vec2) bool {
	inside := false
	cross := func(a, b Vec2) {
		if (a[1] > point[1]) == (b[1] > point[1]) {
			return
		}
		x := a[0] + (point[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
		if point[0] < x {
			inside = !inside
		}
	}

	if indexes == nil {
		n := len(polygon)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			cross(polygon[j], polygon[i])
		}
		return inside
	}

	for i := 0; i+1 < len(indexes); i += 2 {
		cross(polygon[indexes[i]], polygon[indexes[i+1]])
	}
	return inside
}

// Bounds2D is an axis-aligned 2D bounding rectangle.
type Bounds2D struct {
	Center Vec2
	Size   Vec2
}

// NewBounds2D computes the bounds of points, or points[indexes] when indexes is non-nil.
// Empty input yields zero bounds.
func NewBounds2D(points []Vec2, indexes []int) Bounds2D {
	lo := Vec2{gomath.MaxFloat32, gomath.MaxFloat32}
	hi := Vec2{-gomath.MaxFloat32, -gomath.MaxFloat32}
	n := 0

	grow := func(p Vec2) {
		lo[0] = math32.Min(lo[0], p[0])
		lo[1] = math32.Min(lo[1], p[1])
		hi[0] = math32.Max(hi[0], p[0])
		hi[1] = math32.Max(hi[1], p[1])
		n++
	}
	if indexes == nil {
		for _, p := range points {
			grow(p)
		}
	} else {
		for _, i := range indexes {
			grow(points[i])
		}
	}

	if n == 0 {
		return Bounds2D{}
	}
	return Bounds2D{
		Center: lo.Add(hi).Mul(0.5),
		Size:   hi.Sub(lo),
	}
}

// Min returns the lower-left corner.
func (b Bounds2D) Min() Vec2 {
	return b.Center.Sub(b.Size.Mul(0.5))
}

// Max returns the upper-right corner.
func (b Bounds2D) Max() Vec2 {
	return b.Center.Add(b.Size.Mul(0.5))
}

// Contains reports whether p lies inside the bounds (inclusive).
func (b Bounds2D) Contains(p Vec2) bool {
	lo, hi := b.Min(), b.Max()
	return p[0] >= lo[0] && p[0] <= hi[0] && p[1] >= lo[1] && p[1] <= hi[1]
}
