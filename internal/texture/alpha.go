// Package texture resolves decoded bitmaps and other texture files into
// RGBA images, and handles the naming rules attached to texture paths.
package texture

import (
	"image"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/dyuri/lwsconv/internal/assets"
	"github.com/dyuri/lwsconv/internal/model"
)

// NoAlpha disables color keying in RGBA.
const NoAlpha = -1

// alphaPrefix marks a bitmap whose palette entry NNN is transparent:
// "A000_glass.bmp" keys out index 0.
var alphaPrefix = regexp.MustCompile(`^[Aa](\d{3})_`)

// AlphaIndex returns the transparent palette index encoded in a bitmap's
// file name, or NoAlpha. Only .bmp files carry the prefix.
func AlphaIndex(name string) int {
	base := assets.BaseName(name)
	if !strings.EqualFold(path.Ext(base), ".bmp") {
		return NoAlpha
	}
	m := alphaPrefix.FindStringSubmatch(base)
	if m == nil {
		return NoAlpha
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil || idx > 255 {
		return NoAlpha
	}
	return idx
}

// RGBA resolves an indexed bitmap into a non-premultiplied RGBA image.
// Pixels using palette entry alphaIndex get alpha 0, all others are opaque.
// Bitmap rows are stored bottom-up, so the last stored row becomes row 0.
func RGBA(bm *model.Bitmap, alphaIndex int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, bm.Width, bm.Height))

	// Resolve the palette once
	lut := make([][4]uint8, len(bm.Palette))
	for i, c := range bm.Palette {
		lut[i] = [4]uint8{channel(c[0]), channel(c[1]), channel(c[2]), 255}
		if i == alphaIndex {
			lut[i][3] = 0
		}
	}

	for y := 0; y < bm.Height; y++ {
		row := bm.Height - 1 - y
		for x := 0; x < bm.Width; x++ {
			o := img.PixOffset(x, row)
			copy(img.Pix[o:o+4], lut[bm.Index(x, y)][:])
		}
	}
	return img
}

func channel(v float32) uint8 {
	return uint8(math32.Round(math32.Max(0, math32.Min(1, v)) * 255))
}
