package geom

import (
	"fmt"

	"github.com/dyuri/lwsconv/internal/model"
)

// Face is one polygon ready for a mesh builder.
type Face struct {
	Corners  []model.Vec3 // Vertex positions in winding order
	UVs      []model.Vec2 // One per corner, nil when the mesh has no UVs
	Material int          // 0-based slot in Mesh.SurfaceNames
}

// Faces expands mesh polygons into positioned corners. uvs, if not nil,
// must hold one coordinate per corner as returned by BuildUVs.
func Faces(mesh *model.Mesh, uvs [][]model.Vec2) ([]Face, error) {
	if uvs != nil && len(uvs) != len(mesh.Polygons) {
		return nil, fmt.Errorf("uv loops: have %d, want %d", len(uvs), len(mesh.Polygons))
	}

	faces := make([]Face, len(mesh.Polygons))
	for i, poly := range mesh.Polygons {
		f := Face{
			Corners:  make([]model.Vec3, len(poly.Vertices)),
			Material: poly.MaterialIndex(),
		}
		for c, vi := range poly.Vertices {
			if vi < 0 || vi >= len(mesh.Vertices) {
				return nil, fmt.Errorf("polygon %d: vertex %d out of range", i, vi)
			}
			f.Corners[c] = mesh.Vertices[vi]
		}
		if uvs != nil {
			f.UVs = uvs[i]
		}
		faces[i] = f
	}
	return faces, nil
}

// Slice splits a flat sequence into consecutive runs of the given lengths.
func Slice[T any](flat []T, counts []int) ([][]T, error) {
	total := 0
	for _, n := range counts {
		total += n
	}
	if len(flat) < total {
		return nil, fmt.Errorf("have %d values for %d corners", len(flat), total)
	}

	out := make([][]T, len(counts))
	pos := 0
	for i, n := range counts {
		out[i] = flat[pos : pos+n : pos+n]
		pos += n
	}
	return out, nil
}
