package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Export formats for resolved textures.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}

// Scale resizes img by factor. Interpolated textures use Catmull-Rom,
// the others keep hard pixel edges.
func Scale(img *image.NRGBA, factor float64, interpolate bool) *image.NRGBA {
	if factor == 1 || factor <= 0 {
		return img
	}

	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	var scaler draw.Scaler = draw.NearestNeighbor
	if interpolate {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
