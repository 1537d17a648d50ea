package text

import (
	"fmt"
	"io"
	"sort"

	"github.com/dyuri/lwsconv/internal/model"
)

// Writer prints decoded data in a human-readable layout. The output is for
// inspection only and is not a file format.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a new dump writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// printf remembers the first write error so the callers can stay linear
func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// WriteAnimation dumps a scene: frame range, then every object with its
// tracks in frame order.
func (w *Writer) WriteAnimation(anim *model.Animation) error {
	w.printf("Animation:\n")
	w.printf("  First frame: %d\n", anim.FirstFrame)
	w.printf("  Last frame: %d\n", anim.LastFrame)
	w.printf("  Frames per second: %g\n", anim.FramesPerSecond)
	w.printf("  Objects: %d\n", len(anim.Objects))

	for i := range anim.Objects {
		w.writeObject(anim, i)
	}
	return w.err
}

func (w *Writer) writeObject(anim *model.Animation, i int) {
	obj := &anim.Objects[i]

	w.printf("    [%d] %s\n", i+1, obj.Name)
	if obj.HasFile() {
		w.printf("      File: %s\n", obj.Filepath)
	}
	if parent, ok := anim.Parent(i); ok {
		w.printf("      Parent: %d (%s)\n", obj.Parent, parent.Name)
	} else {
		w.printf("      Parent: %d\n", obj.Parent)
	}
	w.printf("      Pivot: %s\n", vec3(obj.Pivot))

	if frames := obj.Frames(); len(frames) > 0 {
		w.printf("      Keyframes:\n")
		for _, f := range frames {
			k := obj.Keys[f]
			w.printf("        %d: pos %s rot %s scale %s\n",
				f, vec3(k.Position), vec3(k.Rotation), vec3(k.Scale))
		}
	}

	if frames := obj.AlphaFrames(); len(frames) > 0 {
		w.printf("      Alpha keyframes:\n")
		for _, f := range frames {
			w.printf("        %d: %g\n", f, obj.Alpha[f])
		}
	}
}

// WriteMesh dumps a mesh summary and its surface table in material order.
func (w *Writer) WriteMesh(mesh *model.Mesh) error {
	w.printf("Mesh:\n")
	w.printf("  Vertices: %d\n", len(mesh.Vertices))
	w.printf("  Polygons: %d\n", len(mesh.Polygons))
	w.printf("  Corners: %d\n", mesh.LoopCount())
	w.printf("  Surfaces: %d\n", len(mesh.SurfaceNames))

	for i, name := range mesh.SurfaceNames {
		surf, ok := mesh.Surfaces[name]
		if !ok {
			w.printf("    [%d] %s (no SURF chunk)\n", i+1, name)
			continue
		}
		w.writeSurface(i+1, surf)
	}

	// Surfaces defined without being listed in SRFS
	var extra []string
	for name := range mesh.Surfaces {
		if !contains(mesh.SurfaceNames, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		w.writeSurface(0, mesh.Surfaces[name])
	}
	return w.err
}

func (w *Writer) writeSurface(id int, surf *model.Surface) {
	if id > 0 {
		w.printf("    [%d] %s\n", id, surf.Name)
	} else {
		w.printf("    [-] %s\n", surf.Name)
	}
	w.printf("      Color: %s\n", vec3(surf.Color))
	w.printf("      Double sided: %t\n", surf.DoubleSided)
	w.printf("      Additive: %t\n", surf.Additive)

	tex := surf.ColorTex
	if tex == nil {
		return
	}
	w.printf("      Color texture: %s\n", tex.Path)
	w.printf("        Sequence: %t\n", tex.Sequence)
	w.printf("        Interpolate: %t\n", tex.Interpolate)
	w.printf("        Axis: %s\n", tex.Axis)
	w.printf("        Size: %s\n", vec3(tex.Size))
	w.printf("        Center: %s\n", vec3(tex.Center))
}

// WriteUV dumps UV data: the material mapping and the coordinate count.
func (w *Writer) WriteUV(uv *model.UVData) error {
	w.printf("UV data:\n")
	w.printf("  Materials: %d\n", len(uv.MaterialNames))
	for _, name := range uv.MaterialNames {
		w.printf("    %s: %s\n", name, uv.MaterialTextures[name])
	}
	w.printf("  Coordinates: %d\n", len(uv.UVs))
	return w.err
}

// WriteBitmap dumps bitmap dimensions and palette usage.
func (w *Writer) WriteBitmap(bm *model.Bitmap) error {
	used := make(map[byte]int)
	for _, idx := range bm.Pixels {
		used[idx]++
	}

	w.printf("Bitmap:\n")
	w.printf("  Size: %dx%d\n", bm.Width, bm.Height)
	w.printf("  Palette: %d colors, %d used\n", len(bm.Palette), len(used))
	return w.err
}

func vec3(v model.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
