// Package lwsconv decodes LightWave 5 era game assets: LWOB meshes, LWSC
// scenes, UV files and 8-bit indexed bitmaps.
//
// This package can be used as a library to inspect assets or to feed them
// into a scene builder.
//
// Example usage:
//
//	f, _ := os.Open("truck.lwo")
//	defer f.Close()
//	stat, _ := f.Stat()
//
//	mesh, err := lwsconv.ParseMesh(f, stat.Size())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	lwsconv.WriteMesh(os.Stdout, mesh)
package lwsconv

import (
	"io"

	"github.com/dyuri/lwsconv/internal/binary"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/dyuri/lwsconv/internal/text"
	"github.com/sirupsen/logrus"
)

// Result types.
type (
	Mesh        = model.Mesh
	Polygon     = model.Polygon
	Surface     = model.Surface
	Texture     = model.Texture
	Animation   = model.Animation
	SceneObject = model.SceneObject
	Keyframe    = model.Keyframe
	UVData      = model.UVData
	Bitmap      = model.Bitmap
)

// Option configures a decode.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sends decoder diagnostics (skipped chunks, ignored scene
// lines) to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = l
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ParseMesh reads an LWOB mesh file.
//
// The reader must support ReadAt for random access. The size parameter
// should be the total file size in bytes.
//
// Example:
//
//	f, _ := os.Open("truck.lwo")
//	defer f.Close()
//	stat, _ := f.Stat()
//	mesh, err := ParseMesh(f, stat.Size())
func ParseMesh(r io.ReaderAt, size int64, opts ...Option) (*Mesh, error) {
	o := newOptions(opts)
	return binary.NewMeshReader(r, size, binary.WithLogger(o.log)).Parse()
}

// DecodeMesh decodes an LWOB mesh held in memory.
func DecodeMesh(data []byte, opts ...Option) (*Mesh, error) {
	o := newOptions(opts)
	return binary.DecodeMesh(data, binary.WithLogger(o.log))
}

// ParseBitmap reads an 8-bit indexed BMP file.
func ParseBitmap(r io.ReaderAt, size int64) (*Bitmap, error) {
	return binary.NewBitmapReader(r, size).Parse()
}

// DecodeBitmap decodes an 8-bit indexed BMP held in memory.
func DecodeBitmap(data []byte) (*Bitmap, error) {
	return binary.DecodeBitmap(data)
}

// ParseScene reads an LWSC scene file.
//
// Example:
//
//	f, _ := os.Open("intro.lws")
//	defer f.Close()
//	anim, err := ParseScene(f)
func ParseScene(r io.Reader, opts ...Option) (*Animation, error) {
	o := newOptions(opts)
	return text.NewSceneReader(r, text.WithLogger(o.log)).Read()
}

// ParseUV reads a UV file.
func ParseUV(r io.Reader) (*UVData, error) {
	return text.NewUVReader(r).Read()
}

// WriteAnimation writes a human-readable dump of a scene.
func WriteAnimation(w io.Writer, anim *Animation) error {
	return text.NewWriter(w).WriteAnimation(anim)
}

// WriteMesh writes a human-readable dump of a mesh.
func WriteMesh(w io.Writer, mesh *Mesh) error {
	return text.NewWriter(w).WriteMesh(mesh)
}

// WriteUV writes a human-readable dump of UV data.
func WriteUV(w io.Writer, uv *UVData) error {
	return text.NewWriter(w).WriteUV(uv)
}

// WriteBitmap writes a human-readable bitmap summary.
func WriteBitmap(w io.Writer, bm *Bitmap) error {
	return text.NewWriter(w).WriteBitmap(bm)
}

// WriteXPM writes an indexed bitmap as XPM. Palette entry alphaIndex is
// transparent; pass -1 for none.
func WriteXPM(w io.Writer, name string, bm *Bitmap, alphaIndex int) error {
	return text.WriteXPM(w, name, bm, alphaIndex)
}

// FormatError is returned for every structural decode failure.
type FormatError = model.FormatError

// Kind classifies a FormatError.
type Kind = model.Kind

// Error kinds.
const (
	MagicMismatch      = model.MagicMismatch
	UnsupportedVariant = model.UnsupportedVariant
	TruncatedInput     = model.TruncatedInput
	MalformedField     = model.MalformedField
	MissingContext     = model.MissingContext
)

// Sentinels for errors.Is, matching any FormatError of the same kind.
var (
	ErrMagic       = model.ErrMagic
	ErrUnsupported = model.ErrUnsupported
	ErrTruncated   = model.ErrTruncated
	ErrMalformed   = model.ErrMalformed
	ErrNoContext   = model.ErrNoContext
)
