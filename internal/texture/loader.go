package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/dyuri/lwsconv/internal/assets"
	"github.com/dyuri/lwsconv/internal/binary"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

type decodeFunc func(io.Reader) (image.Image, error)

// decoders by lower-case extension. BMP files go through decodeBitmap
// first so 8-bit files get the alpha key.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".tga":  tga.Decode,
}

// Load decodes the texture file name from r. 8-bit bitmaps are resolved
// with the alpha key encoded in the name; everything else is decoded by
// extension and converted to NRGBA.
func Load(r io.Reader, name string) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", name, err)
	}

	ext := strings.ToLower(path.Ext(assets.BaseName(name)))
	if ext == ".bmp" {
		return decodeBitmap(data, name)
	}

	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("texture: unknown extension: %q", ext)
	}
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

// decodeBitmap resolves indexed bitmaps and falls back to the generic BMP
// decoder for the depths the indexed decoder does not handle.
func decodeBitmap(data []byte, name string) (*image.NRGBA, error) {
	bm, err := binary.DecodeBitmap(data)
	if err == nil {
		return RGBA(bm, AlphaIndex(name)), nil
	}
	if !errors.Is(err, model.ErrUnsupported) {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}

	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.RGBA:
		// Opaque or premultiplied sources convert exactly through draw
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
			}
		}
	}
	return dst
}
