package math

import (
	"github.com/chewxy/math32"
)

// Plane is the set of points p where Normal.Dot(p) + D == 0.
type Plane struct {
	Normal Vec3
	D      float32
}

// NewPlane creates a plane through point with the given normal.
func NewPlane(normal, point Vec3) Plane {
	n := Normalize(normal)
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(point Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Project returns point moved onto the plane along the normal.
func (p Plane) Project(point Vec3) Vec3 {
	return point.Sub(p.Normal.Mul(p.Distance(point)))
}

// FindBestPlane fits a plane through points (or points[indexes] when indexes is
// non-nil) by total least squares.
//
// The normal is solved from the 3x3 covariance of the centered points using the
// equation set whose 2x2 minor has the largest determinant, so the division is
// never taken on a near-singular minor. Collinear or empty input returns a plane
// with the Up normal through the centroid.
func FindBestPlane(points []Vec3, indexes []int) Plane {
	centroid := Average(points, indexes)

	var xx, xy, xz, yy, yz, zz float64
	accumulate := func(p Vec3) {
		r := p.Sub(centroid)
		x, y, z := float64(r[0]), float64(r[1]), float64(r[2])
		xx += x * x
		xy += x * y
		xz += x * z
		yy += y * y
		yz += y * z
		zz += z * z
	}
	if indexes == nil {
		for _, p := range points {
			accumulate(p)
		}
	} else {
		for _, i := range indexes {
			accumulate(points[i])
		}
	}

	detX := yy*zz - yz*yz
	detY := xx*zz - xz*xz
	detZ := xx*yy - xy*xy

	var nx, ny, nz float64
	switch {
	case detX >= detY && detX >= detZ:
		nx, ny, nz = detX, xz*yz-xy*zz, xy*yz-xz*yy
	case detY >= detZ:
		nx, ny, nz = xz*yz-xy*zz, detY, xy*xz-yz*xx
	default:
		nx, ny, nz = xy*yz-xz*yy, xy*xz-yz*xx, detZ
	}

	normal := Normalize(Vec3{float32(nx), float32(ny), float32(nz)})
	if normal.Len() < 0.5 || !IsFinite(normal[0]+normal[1]+normal[2]) {
		normal = Up
	}
	return NewPlane(normal, centroid)
}

// ProjectionAxis names the world axis a direction is closest to.
type ProjectionAxis int

const (
	AxisX ProjectionAxis = iota
	AxisY
	AxisZ
	AxisXNegative
	AxisYNegative
	AxisZNegative
)

// String returns a human-readable axis name.
func (a ProjectionAxis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	case AxisXNegative:
		return "-X"
	case AxisYNegative:
		return "-Y"
	case AxisZNegative:
		return "-Z"
	default:
		return "?"
	}
}

// VectorToProjectionAxis returns the signed world axis with the largest component of dir.
// Ties prefer X, then Y.
func VectorToProjectionAxis(dir Vec3) ProjectionAxis {
	x, y, z := math32.Abs(dir[0]), math32.Abs(dir[1]), math32.Abs(dir[2])
	switch {
	case x >= y && x >= z:
		if dir[0] < 0 {
			return AxisXNegative
		}
		return AxisX
	case y >= z:
		if dir[1] < 0 {
			return AxisYNegative
		}
		return AxisY
	default:
		if dir[2] < 0 {
			return AxisZNegative
		}
		return AxisZ
	}
}

// TangentHint returns the fixed tangent used to build a projection basis for axis.
// The table must not change: existing UV layouts depend on it.
func TangentHint(axis ProjectionAxis) Vec3 {
	switch axis {
	case AxisY, AxisYNegative:
		return Forward
	default:
		return Up
	}
}
