package math

import (
	"github.com/chewxy/math32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalize(dir)}
}

// Point returns the point at distance t along the ray.
func (r Ray) Point(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectTriangle tests the ray against triangle (a, b, c) from both sides.
// Returns the distance along the ray and whether the hit is in front of the origin.
func (r Ray) IntersectTriangle(a, b, c Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < Epsilon {
		return 0, false // Parallel to the triangle plane
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false // Behind the origin
	}
	return t, true
}

// IntersectPlane intersects the ray with plane p.
func (r Ray) IntersectPlane(p Plane) (t float32, hit bool) {
	denom := p.Normal.Dot(r.Direction)
	if math32.Abs(denom) < Epsilon {
		return 0, false
	}
	t = -p.Distance(r.Origin) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
