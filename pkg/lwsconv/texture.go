package lwsconv

import (
	"image"
	"io"

	"github.com/dyuri/lwsconv/internal/texture"
)

// Texture export formats. XPM is handled by WriteXPM since it needs the
// palette.
const (
	FormatPNG  = texture.FormatPNG
	FormatWebP = texture.FormatWebP
	FormatXPM  = "xpm"
)

// NoAlpha disables color keying.
const NoAlpha = texture.NoAlpha

// Sequence describes the numbered files of an animated texture.
type Sequence = texture.Sequence

// AlphaIndex returns the transparent palette index encoded in a bitmap
// name ("A000_glass.bmp" keys out index 0), or NoAlpha.
func AlphaIndex(name string) int {
	return texture.AlphaIndex(name)
}

// BitmapRGBA resolves an indexed bitmap to RGBA. Pixels using palette
// entry alphaIndex become fully transparent.
func BitmapRGBA(bm *Bitmap, alphaIndex int) *image.NRGBA {
	return texture.RGBA(bm, alphaIndex)
}

// ParseSequence splits a numbered texture name such as "water001.bmp".
func ParseSequence(name string) (Sequence, bool) {
	return texture.ParseSequence(name)
}

// DecodeImage decodes a texture file of any supported kind (8-bit BMP
// with alpha key, other BMP, TGA, PNG, JPEG) named name.
func DecodeImage(r io.Reader, name string) (*image.NRGBA, error) {
	return texture.Load(r, name)
}

// EncodeImage writes img as PNG or WebP.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	return texture.Encode(w, img, format)
}

// ScaleImage resizes img by factor, smoothing when interpolate is set.
func ScaleImage(img *image.NRGBA, factor float64, interpolate bool) *image.NRGBA {
	return texture.Scale(img, factor, interpolate)
}
