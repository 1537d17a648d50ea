// Package geom turns decoded meshes into per-face data: corner lists,
// per-corner texture coordinates and material slots.
package geom

import (
	"github.com/dyuri/lwsconv/internal/model"
)

// projectionAxes returns the point components used as (u, v) for a planar
// map along axis. Unknown axes fall back to the Z projection.
func projectionAxes(axis model.Axis) (u, v int) {
	switch axis {
	case model.AxisX:
		return 2, 1
	case model.AxisY:
		return 0, 2
	default:
		return 0, 1
	}
}

// PlanarProject maps p onto tex's projection plane. The plane spans
// tex.Size around tex.Center, so a point at the center lands on (0.5, 0.5).
// A zero size component yields an infinite or NaN coordinate.
func PlanarProject(tex *model.Texture, p model.Vec3) model.Vec2 {
	a, b := projectionAxes(tex.Axis)
	return model.Vec2{
		0.5 + (p[a]-tex.Center[a])/tex.Size[a],
		0.5 + (p[b]-tex.Center[b])/tex.Size[b],
	}
}
