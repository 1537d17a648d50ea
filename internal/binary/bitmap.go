package binary

import (
	"fmt"
	"io"

	"github.com/dyuri/lwsconv/internal/model"
)

const formatBMP = "bmp"

// BMP header layout (BITMAPFILEHEADER + BITMAPINFOHEADER)
const (
	bmpPixelOffset  = 0x0A // uint32, start of pixel data
	bmpInfoSize     = 0x0E // uint32, must be 40
	bmpWidth        = 0x12 // int32
	bmpHeight       = 0x16 // int32
	bmpPlanes       = 0x1A // uint16, must be 1
	bmpBitCount     = 0x1C // uint16, must be 8
	bmpColorsUsed   = 0x2E // uint32, 0 means 1<<bitCount
	bmpPaletteStart = 54
	bmpHeaderSize   = bmpPaletteStart
)

// BitmapReader decodes 8-bit indexed BMP files.
type BitmapReader struct {
	r    io.ReaderAt
	size int64
}

// NewBitmapReader creates a reader over a BMP file of the given size.
func NewBitmapReader(r io.ReaderAt, size int64) *BitmapReader {
	return &BitmapReader{r: r, size: size}
}

// Parse reads the whole file and decodes it.
func (r *BitmapReader) Parse() (*model.Bitmap, error) {
	data, err := readAll(r.r, r.size)
	if err != nil {
		return nil, fmt.Errorf("read bitmap: %w", err)
	}
	return DecodeBitmap(data)
}

// DecodeBitmap decodes an uncompressed 8-bit BMP with a BITMAPINFOHEADER.
//
// Pixel rows are returned exactly as stored: no row stride correction and
// no vertical flip. Files whose width is not a multiple of 4 therefore
// decode with shifted rows; the source assets are all 4-byte aligned.
func DecodeBitmap(data []byte) (*model.Bitmap, error) {
	if len(data) < bmpHeaderSize {
		return nil, model.ErrAt(formatBMP, model.TruncatedInput, 0, "file header").
			Want(fmt.Sprintf("%d bytes", bmpHeaderSize), len(data))
	}

	// Offset 0x00-0x01: "BM" signature
	if string(data[0:2]) != "BM" {
		return nil, model.ErrAt(formatBMP, model.MagicMismatch, 0, "bad signature").
			Want(`"BM"`, fmt.Sprintf("%q", data[0:2]))
	}

	// The header length was checked above, these reads cannot fail
	pixelOffset, _ := le32(data, bmpPixelOffset)
	infoSize, _ := le32(data, bmpInfoSize)
	width32, _ := le32(data, bmpWidth)
	height32, _ := le32(data, bmpHeight)
	planes, _ := le16(data, bmpPlanes)
	bitCount, _ := le16(data, bmpBitCount)
	colorsUsed, _ := le32(data, bmpColorsUsed)

	if infoSize != 40 {
		return nil, model.ErrAt(formatBMP, model.UnsupportedVariant, bmpInfoSize, "info header size").
			Want(40, infoSize)
	}
	if planes != 1 {
		return nil, model.ErrAt(formatBMP, model.UnsupportedVariant, bmpPlanes, "color plane count").
			Want(1, planes)
	}
	if bitCount != 8 {
		return nil, model.ErrAt(formatBMP, model.UnsupportedVariant, bmpBitCount, "bits per pixel").
			Want(8, bitCount)
	}

	width := int(int32(width32))
	height := int(int32(height32))
	if width < 0 {
		return nil, model.ErrAt(formatBMP, model.MalformedField, bmpWidth, "negative width").
			Want(">= 0", width)
	}
	if height < 0 {
		// Top-down bitmaps would need a row flip, which this decoder never does
		return nil, model.ErrAt(formatBMP, model.UnsupportedVariant, bmpHeight, "top-down bitmap").
			Want(">= 0", height)
	}

	colors := int(colorsUsed)
	if colors == 0 {
		colors = 1 << bitCount
	}
	if colors > 1<<bitCount {
		return nil, model.ErrAt(formatBMP, model.MalformedField, bmpColorsUsed, "palette entry count").
			Want(fmt.Sprintf("<= %d", 1<<bitCount), colors)
	}

	// Palette: 4 bytes per entry stored as B, G, R, reserved
	paletteEnd := bmpPaletteStart + colors*4
	if paletteEnd > len(data) {
		return nil, model.ErrAt(formatBMP, model.TruncatedInput, bmpPaletteStart, "palette").
			Want(fmt.Sprintf("%d bytes", colors*4), len(data)-bmpPaletteStart)
	}
	palette := make([]model.Vec3, colors)
	for i := range palette {
		off := bmpPaletteStart + i*4
		palette[i] = model.Vec3{
			float32(data[off+2]) / 255,
			float32(data[off+1]) / 255,
			float32(data[off]) / 255,
		}
	}

	// Pixel data: width*height index bytes, row-major, as stored
	start := int(pixelOffset)
	count := width * height
	if start > len(data) || count > len(data)-start {
		return nil, model.ErrAt(formatBMP, model.TruncatedInput, start, "pixel data").
			Want(fmt.Sprintf("%d bytes", count), max(len(data)-start, 0))
	}
	pixels := make([]byte, count)
	copy(pixels, data[start:start+count])

	for i, idx := range pixels {
		if int(idx) >= colors {
			return nil, model.ErrAt(formatBMP, model.MalformedField, start+i, "pixel index outside palette").
				Want(fmt.Sprintf("< %d", colors), idx)
		}
	}

	return &model.Bitmap{
		Width:   width,
		Height:  height,
		Palette: palette,
		Pixels:  pixels,
	}, nil
}
