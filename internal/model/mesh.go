// Package model holds the format-agnostic results produced by the decoders.
//
// Every value is built once by a single decode call and is not mutated
// afterwards. Callers may share results between goroutines freely.
package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a position, direction or RGB triple.
type Vec3 = mgl32.Vec3

// Vec2 is a texture coordinate.
type Vec2 = mgl32.Vec2

// Mesh is a decoded LWOB object: geometry plus its surface (material) table.
type Mesh struct {
	Vertices     []Vec3              // Vertex positions in file order
	Polygons     []Polygon           // Polygons in file order
	Surfaces     map[string]*Surface // Surface name -> definition
	SurfaceNames []string            // SRFS order, defines material indices
}

// Polygon is one face of a mesh.
type Polygon struct {
	Vertices  []int // Indices into Mesh.Vertices
	SurfaceID int   // 1-based index into Mesh.SurfaceNames
}

// MaterialIndex returns the 0-based material slot of the polygon.
func (p Polygon) MaterialIndex() int {
	return p.SurfaceID - 1
}

// Surface is a named material definition.
type Surface struct {
	Name        string
	Color       Vec3     // Base color, channels in [0,1]
	DoubleSided bool     // Backface culling disabled
	Additive    bool     // Additive color blending
	ColorTex    *Texture // Color texture (CTEX), nil when absent
}

// Axis selects the projection axis of a planar texture.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// Texture is a planar image map attached to a surface.
type Texture struct {
	Path        string // Image path as stored in the file, sequence suffix removed
	Sequence    bool   // Path names the first image of an animated sequence
	Interpolate bool   // Linear filtering requested
	Axis        Axis   // Projection axis
	Size        Vec3   // Projection extent per axis
	Center      Vec3   // Projection center
}

// NewTexture returns a texture with the format defaults: X axis,
// unit size, centered at the origin.
func NewTexture() *Texture {
	return &Texture{
		Axis: AxisX,
		Size: Vec3{1, 1, 1},
	}
}

// NewSurface returns a surface with the format defaults (white, single
// sided, no texture).
func NewSurface(name string) *Surface {
	return &Surface{
		Name:  name,
		Color: Vec3{1, 1, 1},
	}
}

// NewMesh creates an empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		Vertices:     make([]Vec3, 0),
		Polygons:     make([]Polygon, 0),
		Surfaces:     make(map[string]*Surface),
		SurfaceNames: make([]string, 0),
	}
}

// Surface resolves a 1-based surface id through the surface-name order.
func (m *Mesh) Surface(id int) (*Surface, bool) {
	if id < 1 || id > len(m.SurfaceNames) {
		return nil, false
	}
	s, ok := m.Surfaces[m.SurfaceNames[id-1]]
	return s, ok
}

// CornerCounts returns the number of vertices of every polygon, in order.
func (m *Mesh) CornerCounts() []int {
	counts := make([]int, len(m.Polygons))
	for i, p := range m.Polygons {
		counts[i] = len(p.Vertices)
	}
	return counts
}

// LoopCount returns the total number of polygon corners.
func (m *Mesh) LoopCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p.Vertices)
	}
	return n
}
