package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dyuri/lwsconv/pkg/lwsconv"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func sceneToJSON(anim *lwsconv.Animation) map[string]interface{} {
	objects := make([]map[string]interface{}, len(anim.Objects))
	for i := range anim.Objects {
		obj := &anim.Objects[i]
		entry := map[string]interface{}{
			"name":   obj.Name,
			"parent": obj.Parent,
			"pivot":  obj.Pivot,
		}
		if obj.HasFile() {
			entry["file"] = obj.Filepath
		}

		// Keyframes in frame order
		if frames := obj.Frames(); len(frames) > 0 {
			keys := make([]map[string]interface{}, len(frames))
			for j, f := range frames {
				k := obj.Keys[f]
				keys[j] = map[string]interface{}{
					"frame":    f,
					"position": k.Position,
					"rotation": k.Rotation,
					"scale":    k.Scale,
				}
			}
			entry["keys"] = keys
		}
		if frames := obj.AlphaFrames(); len(frames) > 0 {
			alpha := make([]map[string]interface{}, len(frames))
			for j, f := range frames {
				alpha[j] = map[string]interface{}{
					"frame": f,
					"value": obj.Alpha[f],
				}
			}
			entry["alpha"] = alpha
		}

		objects[i] = entry
	}

	return map[string]interface{}{
		"firstFrame":      anim.FirstFrame,
		"lastFrame":       anim.LastFrame,
		"framesPerSecond": anim.FramesPerSecond,
		"objects":         objects,
	}
}

func meshToJSON(obj *lwsconv.Object) map[string]interface{} {
	mesh := obj.Mesh

	surfaces := make([]map[string]interface{}, 0, len(mesh.SurfaceNames))
	for i, name := range mesh.SurfaceNames {
		entry := map[string]interface{}{
			"id":   i + 1,
			"name": name,
		}
		if surf, ok := mesh.Surfaces[name]; ok {
			entry["color"] = colorToHex(surf.Color)
			entry["doubleSided"] = surf.DoubleSided
			entry["additive"] = surf.Additive
			if tex := surf.ColorTex; tex != nil {
				entry["colorTexture"] = map[string]interface{}{
					"path":        tex.Path,
					"sequence":    tex.Sequence,
					"interpolate": tex.Interpolate,
					"axis":        tex.Axis.String(),
					"size":        tex.Size,
					"center":      tex.Center,
				}
			}
		}
		if i < len(obj.Textures) && obj.Textures[i] != "" {
			entry["texture"] = obj.Textures[i]
		}
		surfaces = append(surfaces, entry)
	}

	polygons := make([]map[string]interface{}, len(mesh.Polygons))
	for i, p := range mesh.Polygons {
		entry := map[string]interface{}{
			"vertices": p.Vertices,
			"surface":  p.SurfaceID,
		}
		if obj.Loops != nil && obj.Loops[i] != nil {
			entry["uvs"] = obj.Loops[i]
		}
		polygons[i] = entry
	}

	result := map[string]interface{}{
		"file":     obj.Path,
		"vertices": mesh.Vertices,
		"polygons": polygons,
		"surfaces": surfaces,
	}
	if obj.UVPath != "" {
		result["uvFile"] = obj.UVPath
	}
	return result
}

func uvToJSON(uv *lwsconv.UVData) map[string]interface{} {
	materials := make([]map[string]string, len(uv.MaterialNames))
	for i, name := range uv.MaterialNames {
		materials[i] = map[string]string{
			"name":    name,
			"texture": uv.MaterialTextures[name],
		}
	}
	return map[string]interface{}{
		"materials": materials,
		"uvs":       uv.UVs,
	}
}

func bitmapToJSON(bm *lwsconv.Bitmap) map[string]interface{} {
	result := map[string]interface{}{
		"width":  bm.Width,
		"height": bm.Height,
	}

	// Add palette
	if len(bm.Palette) > 0 {
		palette := make([]string, len(bm.Palette))
		for i, c := range bm.Palette {
			palette[i] = colorToHex(c)
		}
		result["palette"] = palette
		result["colors"] = len(bm.Palette)
	}

	// Pixel indices as numbers, not base64
	pixels := make([]int, len(bm.Pixels))
	for i, p := range bm.Pixels {
		pixels[i] = int(p)
	}
	result["pixels"] = pixels

	return result
}

func colorToHex(c [3]float32) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c[0]), channel(c[1]), channel(c[2]))
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
