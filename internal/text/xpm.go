package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/chewxy/math32"
	"github.com/dyuri/lwsconv/internal/model"
)

// xpmChars are the printable characters usable as XPM pixel codes
// (everything from space to tilde except '"' and '\').
var xpmChars = func() string {
	var b strings.Builder
	for c := byte(' '); c <= '~'; c++ {
		if c == '"' || c == '\\' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}()

// xpmEncoder writes an indexed bitmap as XPM3 source
type xpmEncoder struct {
	cpp   int // chars per pixel
	codes []string
}

// newXPMEncoder picks the pixel codes for a palette of n colors
func newXPMEncoder(n int) *xpmEncoder {
	base := len(xpmChars)
	cpp := 1
	if n > base {
		cpp = 2
	}

	codes := make([]string, n)
	for i := range codes {
		if cpp == 1 {
			codes[i] = xpmChars[i : i+1]
		} else {
			codes[i] = string([]byte{xpmChars[i/base], xpmChars[i%base]})
		}
	}
	return &xpmEncoder{cpp: cpp, codes: codes}
}

// WriteXPM writes bm as an XPM image named name. Palette entry alphaIndex
// is written as transparent (None); pass -1 to keep every color opaque.
func WriteXPM(w io.Writer, name string, bm *model.Bitmap, alphaIndex int) error {
	enc := newXPMEncoder(len(bm.Palette))
	var b strings.Builder

	b.WriteString("/* XPM */\n")
	fmt.Fprintf(&b, "static char *%s[] = {\n", xpmIdentifier(name))

	// Header: "width height ncolors cpp"
	fmt.Fprintf(&b, "\"%d %d %d %d\",\n", bm.Width, bm.Height, len(bm.Palette), enc.cpp)

	// Colors
	for i, c := range bm.Palette {
		if i == alphaIndex {
			fmt.Fprintf(&b, "\"%s c None\",\n", enc.codes[i])
			continue
		}
		fmt.Fprintf(&b, "\"%s c #%02x%02x%02x\",\n", enc.codes[i], channel(c[0]), channel(c[1]), channel(c[2]))
	}

	// Pixels, one quoted string per row, top row first
	for y := bm.Height - 1; y >= 0; y-- {
		b.WriteByte('"')
		for x := 0; x < bm.Width; x++ {
			b.WriteString(enc.codes[bm.Index(x, y)])
		}
		if y == 0 {
			b.WriteString("\"\n")
		} else {
			b.WriteString("\",\n")
		}
	}
	b.WriteString("};\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// channel converts a [0,1] color channel to a byte.
func channel(v float32) byte {
	return byte(math32.Round(math32.Max(0, math32.Min(1, v)) * 255))
}

// xpmIdentifier turns a file name into a C identifier.
func xpmIdentifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
