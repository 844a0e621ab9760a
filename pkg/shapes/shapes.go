// Package shapes generates primitive meshes. Every face gets its own render
// vertices, so corners shared between faces are coincident rather than shared
// indexes, the layout hard edges and per-face UVs need.
package shapes

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// ErrInvalidSize is returned for non-positive dimensions or subdivisions.
var ErrInvalidSize = errors.New("shapes: invalid size")

// side is one axis-aligned quad: outward normal and in-plane axes with u x v == normal.
type side struct {
	normal, u, v math.Vec3
}

var cubeSides = [6]side{
	{math.Vec3{1, 0, 0}, math.Vec3{0, 0, -1}, math.Vec3{0, 1, 0}},
	{math.Vec3{-1, 0, 0}, math.Vec3{0, 0, 1}, math.Vec3{0, 1, 0}},
	{math.Vec3{0, 1, 0}, math.Vec3{1, 0, 0}, math.Vec3{0, 0, -1}},
	{math.Vec3{0, -1, 0}, math.Vec3{1, 0, 0}, math.Vec3{0, 0, 1}},
	{math.Vec3{0, 0, 1}, math.Vec3{1, 0, 0}, math.Vec3{0, 1, 0}},
	{math.Vec3{0, 0, -1}, math.Vec3{-1, 0, 0}, math.Vec3{0, 1, 0}},
}

// quadIndexes is the triangle list of a quad whose corners are stored
// lower-left, lower-right, upper-left, upper-right.
var quadIndexes = []int{0, 1, 2, 1, 3, 2}

// Cube returns an axis-aligned box centered at the origin with 24 vertices and
// 6 quad faces wound counter-clockwise when seen from outside.
func Cube(size math.Vec3) (*mesh.Mesh, error) {
	if size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return nil, fmt.Errorf("%w: cube %v", ErrInvalidSize, size)
	}
	half := size.Mul(0.5)

	positions := make([]math.Vec3, 0, 24)
	faces := make([]*mesh.Face, 0, 6)
	for _, s := range cubeSides {
		base := len(positions)
		for _, corner := range [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
			p := s.normal.Add(s.u.Mul(corner[0])).Add(s.v.Mul(corner[1]))
			positions = append(positions, math.Vec3{p[0] * half[0], p[1] * half[1], p[2] * half[2]})
		}
		f := mesh.MustFace(quadIndexes...)
		f.ShiftIndexes(base)
		faces = append(faces, f)
	}
	return mesh.New(positions, faces, mesh.BuildOptions{})
}

// Plane returns a width by depth grid in the XZ plane facing +Y, split into
// cols by rows quads.
func Plane(width, depth float32, cols, rows int) (*mesh.Mesh, error) {
	if width <= 0 || depth <= 0 || cols < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: plane %gx%g, %dx%d", ErrInvalidSize, width, depth, cols, rows)
	}
	cw, rd := width/float32(cols), depth/float32(rows)
	x0, z0 := -width/2, depth/2

	positions := make([]math.Vec3, 0, cols*rows*4)
	faces := make([]*mesh.Face, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			base := len(positions)
			x, z := x0+float32(c)*cw, z0-float32(r)*rd
			positions = append(positions,
				math.Vec3{x, 0, z},
				math.Vec3{x + cw, 0, z},
				math.Vec3{x, 0, z - rd},
				math.Vec3{x + cw, 0, z - rd},
			)
			f := mesh.MustFace(quadIndexes...)
			f.ShiftIndexes(base)
			faces = append(faces, f)
		}
	}
	return mesh.New(positions, faces, mesh.BuildOptions{})
}
