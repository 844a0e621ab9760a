package uv

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// anchorTarget is the point of the unit square an anchor aligns to, expressed as
// a fraction of the width and height.
func anchorTarget(a mesh.Anchor) (math.Vec2, bool) {
	switch a {
	case mesh.AnchorUpperLeft:
		return math.Vec2{0, 1}, true
	case mesh.AnchorUpperCenter:
		return math.Vec2{0.5, 1}, true
	case mesh.AnchorUpperRight:
		return math.Vec2{1, 1}, true
	case mesh.AnchorMiddleLeft:
		return math.Vec2{0, 0.5}, true
	case mesh.AnchorMiddleCenter:
		return math.Vec2{0.5, 0.5}, true
	case mesh.AnchorMiddleRight:
		return math.Vec2{1, 0.5}, true
	case mesh.AnchorLowerLeft:
		return math.Vec2{0, 0}, true
	case mesh.AnchorLowerCenter:
		return math.Vec2{0.5, 0}, true
	case mesh.AnchorLowerRight:
		return math.Vec2{1, 0}, true
	}
	return math.Vec2{}, false
}

// ApplySettings transforms projected coordinates in place.
//
// Anchoring moves the matching point of the bounds onto the matching point of
// the unit square. Fill then scales about that point (about the bounds minimum
// when unanchored). Flip, scale and rotation work about the bounds center, and
// the offset is added last.
func ApplySettings(uvs []math.Vec2, s mesh.AutoUnwrapSettings) {
	if len(uvs) == 0 {
		return
	}

	bounds := math.NewBounds2D(uvs, nil)
	pivot := bounds.Min()
	if target, ok := anchorTarget(s.Anchor); ok {
		lo := bounds.Min()
		from := math.Vec2{lo[0] + bounds.Size[0]*target[0], lo[1] + bounds.Size[1]*target[1]}
		delta := target.Sub(from)
		for i := range uvs {
			uvs[i] = uvs[i].Add(delta)
		}
		pivot = target
	}

	switch s.Fill {
	case mesh.FillFit:
		side := math32.Max(bounds.Size[0], bounds.Size[1])
		if side > math.Epsilon {
			scaleAbout(uvs, pivot, math.Vec2{1 / side, 1 / side})
		}
	case mesh.FillStretch:
		k := math.Vec2{1, 1}
		if bounds.Size[0] > math.Epsilon {
			k[0] = 1 / bounds.Size[0]
		}
		if bounds.Size[1] > math.Epsilon {
			k[1] = 1 / bounds.Size[1]
		}
		scaleAbout(uvs, pivot, k)
	}

	if s.FlipU || s.FlipV {
		c := math.NewBounds2D(uvs, nil).Center
		for i := range uvs {
			if s.FlipU {
				uvs[i][0] = 2*c[0] - uvs[i][0]
			}
			if s.FlipV {
				uvs[i][1] = 2*c[1] - uvs[i][1]
			}
		}
	}

	if s.SwapUV {
		for i := range uvs {
			uvs[i][0], uvs[i][1] = uvs[i][1], uvs[i][0]
		}
	}

	if scale := s.EffectiveScale(); scale != (math.Vec2{1, 1}) {
		scaleAbout(uvs, math.NewBounds2D(uvs, nil).Center, scale)
	}

	if s.Rotation != 0 {
		c := math.NewBounds2D(uvs, nil).Center
		for i := range uvs {
			uvs[i] = math.RotateAroundPoint(uvs[i], c, s.Rotation)
		}
	}

	if s.Offset != (math.Vec2{}) {
		for i := range uvs {
			uvs[i] = uvs[i].Add(s.Offset)
		}
	}
}

func scaleAbout(uvs []math.Vec2, pivot, k math.Vec2) {
	for i := range uvs {
		d := uvs[i].Sub(pivot)
		uvs[i] = math.Vec2{pivot[0] + d[0]*k[0], pivot[1] + d[1]*k[1]}
	}
}
