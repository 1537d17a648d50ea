package model

// Bitmap is an 8-bit indexed-color image.
type Bitmap struct {
	Width   int    // Width in pixels
	Height  int    // Height in pixels
	Palette []Vec3 // RGB entries, channels in [0,1]
	Pixels  []byte // Row-major palette indices, rows in on-disk order
}

// Index returns the palette index of pixel (x, y).
func (b *Bitmap) Index(x, y int) byte {
	return b.Pixels[y*b.Width+x]
}

// Color returns the palette color of pixel (x, y).
func (b *Bitmap) Color(x, y int) Vec3 {
	return b.Palette[b.Index(x, y)]
}

// UVData is a decoded UV file.
type UVData struct {
	MaterialTextures map[string]string // Material name -> texture path
	MaterialNames    []string          // Material names in file order
	UVs              []Vec2            // Flat sequence, polygon then corner order
}

// NewUVData creates empty UV data
func NewUVData() *UVData {
	return &UVData{
		MaterialTextures: make(map[string]string),
		MaterialNames:    make([]string, 0),
		UVs:              make([]Vec2, 0),
	}
}
