package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshtopo/pkg/math"
)

const (
	maxPitch    = 1.5
	dragSpeed   = 0.01
	zoomStep    = 0.1
	minDistance = 0.01
	maxDistance = 1e5
)

// orbit is a camera circling a target point.
type orbit struct {
	target   math.Vec3
	distance float32
	yaw      float32 // around +Y, radians
	pitch    float32 // above the XZ plane, radians
	fovY     float32
}

func newOrbit() *orbit {
	return &orbit{
		distance: 5,
		yaw:      0.6,
		pitch:    0.5,
		fovY:     mgl32.DegToRad(45),
	}
}

func (o *orbit) eye() math.Vec3 {
	cp := math32.Cos(o.pitch)
	return o.target.Add(math.Vec3{
		o.distance * cp * math32.Sin(o.yaw),
		o.distance * math32.Sin(o.pitch),
		o.distance * cp * math32.Cos(o.yaw),
	})
}

func (o *orbit) view() mgl32.Mat4 {
	return mgl32.LookAtV(o.eye(), o.target, math.Up)
}

func (o *orbit) projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 || !math.IsFinite(aspect) {
		aspect = 1
	}
	near := max(o.distance*0.01, 0.001)
	return mgl32.Perspective(o.fovY, aspect, near, o.distance*100)
}

// drag turns the camera by a mouse delta in pixels.
func (o *orbit) drag(dx, dy float32) {
	o.yaw -= dx * dragSpeed
	o.pitch = mgl32.Clamp(o.pitch+dy*dragSpeed, -maxPitch, maxPitch)
}

// zoom moves toward the target by wheel steps; negative steps back off.
func (o *orbit) zoom(steps float32) {
	o.distance = mgl32.Clamp(o.distance*math32.Pow(1-zoomStep, steps), minDistance, maxDistance)
}

// fit centers on the bounds of points and backs off until they fill the view.
func (o *orbit) fit(points []math.Vec3) {
	if len(points) == 0 {
		return
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	o.target = lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Len() / 2
	if radius < math.Epsilon || !math.IsFinite(radius) {
		radius = 1
	}
	o.distance = mgl32.Clamp(radius/math32.Sin(o.fovY/2), minDistance, maxDistance)
}

// ray returns the world space ray through window point (x, y), y pointing down.
func (o *orbit) ray(x, y, width, height int) (math.Ray, error) {
	view := o.view()
	proj := o.projection(float32(width) / float32(height))
	wx, wy := float32(x), float32(height-y)

	near, err := mgl32.UnProject(mgl32.Vec3{wx, wy, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return math.Ray{}, err
	}
	far, err := mgl32.UnProject(mgl32.Vec3{wx, wy, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return math.Ray{}, err
	}
	return math.NewRay(near, far.Sub(near)), nil
}

// toModel moves a world space ray into the space of a mesh with transform.
func toModel(r math.Ray, transform mgl32.Mat4) math.Ray {
	inv := transform.Inv()
	origin := inv.Mul4x1(r.Origin.Vec4(1)).Vec3()
	dir := inv.Mul4x1(r.Direction.Vec4(0)).Vec3()
	return math.NewRay(origin, dir)
}

// toWorld returns points moved by transform.
func toWorld(points []math.Vec3, transform mgl32.Mat4) []math.Vec3 {
	out := make([]math.Vec3, len(points))
	for i, p := range points {
		out[i] = transform.Mul4x1(p.Vec4(1)).Vec3()
	}
	return out
}
