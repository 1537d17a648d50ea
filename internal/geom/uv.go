package geom

import (
	"fmt"

	"github.com/dyuri/lwsconv/internal/model"
)

// BuildUVs assigns a texture coordinate to every polygon corner.
//
// Coordinates from uv (may be nil) are applied first, re-sliced by the
// polygons' corner counts. Polygons whose surface has a color texture are
// then overwritten with the planar projection of their vertices. The result
// is nil when neither source applies.
func BuildUVs(mesh *model.Mesh, uv *model.UVData) ([][]model.Vec2, error) {
	var loops [][]model.Vec2

	if uv != nil && len(uv.UVs) > 0 {
		var err error
		loops, err = Slice(uv.UVs, mesh.CornerCounts())
		if err != nil {
			return nil, fmt.Errorf("uv file: %w", err)
		}
		// Planar projection below writes into the loops
		for i, l := range loops {
			loops[i] = append([]model.Vec2(nil), l...)
		}
	}

	for i, poly := range mesh.Polygons {
		surf, ok := mesh.Surface(poly.SurfaceID)
		if !ok || surf.ColorTex == nil {
			continue
		}
		if loops == nil {
			loops = make([][]model.Vec2, len(mesh.Polygons))
		}

		loop := make([]model.Vec2, len(poly.Vertices))
		for c, vi := range poly.Vertices {
			loop[c] = PlanarProject(surf.ColorTex, mesh.Vertices[vi])
		}
		loops[i] = loop
	}

	return loops, nil
}

// MaterialTextures returns the texture path of every material slot in
// surface-name order. A mapping in uv takes precedence over the surface's
// color texture; slots with neither are empty.
func MaterialTextures(mesh *model.Mesh, uv *model.UVData) []string {
	paths := make([]string, len(mesh.SurfaceNames))
	for i, name := range mesh.SurfaceNames {
		if uv != nil {
			if p, ok := uv.MaterialTextures[name]; ok {
				paths[i] = p
				continue
			}
		}
		if surf, ok := mesh.Surfaces[name]; ok && surf.ColorTex != nil {
			paths[i] = surf.ColorTex.Path
		}
	}
	return paths
}
