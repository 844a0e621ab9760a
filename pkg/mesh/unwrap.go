package mesh

import (
	"fmt"

	"github.com/Faultbox/meshtopo/pkg/math"
)

// Anchor aligns projected UVs to a point of the unit square.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorUpperLeft
	AnchorUpperCenter
	AnchorUpperRight
	AnchorMiddleLeft
	AnchorMiddleCenter
	AnchorMiddleRight
	AnchorLowerLeft
	AnchorLowerCenter
	AnchorLowerRight
)

var anchorNames = []string{
	"none", "upper_left", "upper_center", "upper_right",
	"middle_left", "middle_center", "middle_right",
	"lower_left", "lower_center", "lower_right",
}

// String returns the snake_case anchor name.
func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
	return anchorNames[a]
}

// ParseAnchor is the inverse of Anchor.String.
func ParseAnchor(s string) (Anchor, error) {
	for i, name := range anchorNames {
		if name == s {
			return Anchor(i), nil
		}
	}
	return AnchorNone, fmt.Errorf("%w: unknown anchor %q", ErrInvalidArgument, s)
}

// Fill controls how projected UVs are scaled into the unit square.
type Fill int

const (
	// FillTile leaves projected coordinates at world scale.
	FillTile Fill = iota
	// FillFit scales uniformly so the larger side spans 1.
	FillFit
	// FillStretch scales each axis to span exactly 1.
	FillStretch
)

// String returns the fill mode name.
func (f Fill) String() string {
	switch f {
	case FillTile:
		return "tile"
	case FillFit:
		return "fit"
	case FillStretch:
		return "stretch"
	default:
		return fmt.Sprintf("Fill(%d)", int(f))
	}
}

// ParseFill is the inverse of Fill.String.
func ParseFill(s string) (Fill, error) {
	switch s {
	case "tile", "":
		return FillTile, nil
	case "fit":
		return FillFit, nil
	case "stretch":
		return FillStretch, nil
	}
	return FillTile, fmt.Errorf("%w: unknown fill %q", ErrInvalidArgument, s)
}

// AutoUnwrapSettings is the per-face transform applied after planar projection.
type AutoUnwrapSettings struct {
	Anchor     Anchor
	Fill       Fill
	Scale      math.Vec2 // Zero components are read as 1
	Offset     math.Vec2
	Rotation   float32 // Degrees, counter-clockwise
	FlipU      bool
	FlipV      bool
	SwapUV     bool
	WorldSpace bool
}

// DefaultUnwrapSettings returns tiled, unanchored, unit-scale settings.
func DefaultUnwrapSettings() AutoUnwrapSettings {
	return AutoUnwrapSettings{
		Anchor: AnchorNone,
		Fill:   FillTile,
		Scale:  math.Vec2{1, 1},
	}
}

// EffectiveScale returns Scale with zero components replaced by 1.
func (s AutoUnwrapSettings) EffectiveScale() math.Vec2 {
	scale := s.Scale
	if scale[0] == 0 {
		scale[0] = 1
	}
	if scale[1] == 0 {
		scale[1] = 1
	}
	return scale
}
