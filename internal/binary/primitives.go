package binary

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/dyuri/lwsconv/internal/model"
	"golang.org/x/text/encoding/charmap"
)

// readAll loads the whole input. Decoding always works on an in-memory copy.
func readAll(r io.ReaderAt, size int64) ([]byte, error) {
	buf := make([]byte, size)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// be32f reads a big-endian IEEE 754 float at off.
func be32f(b []byte, off int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[off:]))
}

// beVec3 reads three consecutive big-endian floats at off.
func beVec3(b []byte, off int) model.Vec3 {
	return model.Vec3{
		be32f(b, off),
		be32f(b, off+4),
		be32f(b, off+8),
	}
}

// le32 reads a little-endian uint32 at off, or reports false if it does not fit.
func le32(b []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[off:]), true
}

// le16 reads a little-endian uint16 at off, or reports false if it does not fit.
func le16(b []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b[off:]), true
}

// cString decodes the null-terminated string at the start of b.
// n is the string length without the terminator; ok is false when b
// holds no terminator.
//
// Names and paths in these files are single-byte Windows-1252 text
// (plain ASCII in practice).
func cString(b []byte) (s string, n int, ok bool) {
	n = bytes.IndexByte(b, 0)
	if n < 0 {
		return "", 0, false
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b[:n])
	if err != nil {
		// Windows-1252 maps every byte, this is not reachable in practice
		return string(b[:n]), n, true
	}
	return string(decoded), n, true
}
