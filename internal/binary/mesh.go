package binary

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dyuri/lwsconv/internal/logging"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/sirupsen/logrus"
)

const formatLWO = "lwo"

const (
	chunkHeaderSize    = 8 // tag + uint32 size
	subchunkHeaderSize = 6 // tag + uint16 size
	formHeaderSize     = 12
)

// Option configures a mesh decode.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger routes diagnostics (skipped chunks) to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MeshReader decodes LWOB mesh/material files.
type MeshReader struct {
	r    io.ReaderAt
	size int64
	opts []Option
}

// NewMeshReader creates a reader over an LWOB file of the given size.
func NewMeshReader(r io.ReaderAt, size int64, opts ...Option) *MeshReader {
	return &MeshReader{r: r, size: size, opts: opts}
}

// Parse reads the whole file and decodes it.
func (r *MeshReader) Parse() (*model.Mesh, error) {
	data, err := readAll(r.r, r.size)
	if err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}
	return DecodeMesh(data, r.opts...)
}

// chunkHandler decodes the body of one top-level chunk. off is the absolute
// offset of body within the file.
type chunkHandler func(d *decoder, body []byte, off int) error

// chunkHandlers maps top-level chunk tags to their decoders. Tags not listed
// here are skipped by their declared size.
var chunkHandlers = map[string]chunkHandler{
	"PNTS": (*decoder).readPoints,
	"POLS": (*decoder).readPolygons,
	"SRFS": (*decoder).readSurfaceNames,
	"SURF": (*decoder).readSurface,
}

// decoder holds the state of one DecodeMesh call.
type decoder struct {
	data []byte
	mesh *model.Mesh
	log  logrus.FieldLogger

	polyOffsets []int // File offset of every polygon record, for validation errors
}

// DecodeMesh decodes an LWOB file held in memory.
func DecodeMesh(data []byte, opts ...Option) (*model.Mesh, error) {
	o := newOptions(opts)

	if len(data) < formHeaderSize {
		return nil, model.ErrAt(formatLWO, model.TruncatedInput, 0, "FORM header").
			Want(fmt.Sprintf("%d bytes", formHeaderSize), len(data))
	}

	// Offset 0x00: "FORM", 0x04: form size (not checked), 0x08: form type
	if string(data[0:4]) != "FORM" {
		return nil, model.ErrAt(formatLWO, model.MagicMismatch, 0, "bad signature").
			Want(`"FORM"`, fmt.Sprintf("%q", data[0:4]))
	}
	formSize := binary.BigEndian.Uint32(data[4:8])
	if string(data[8:12]) != "LWOB" {
		return nil, model.ErrAt(formatLWO, model.UnsupportedVariant, 8, "form type").
			Want(`"LWOB"`, fmt.Sprintf("%q", data[8:12]))
	}

	d := &decoder{
		data: data,
		mesh: model.NewMesh(),
		log:  o.log,
	}
	d.log.WithFields(logrus.Fields{
		"form_size": formSize,
		"file_size": len(data),
	}).Debug("decoding LWOB")

	// Chunks follow each other without padding, odd sizes included
	for off := formHeaderSize; off < len(data); {
		n, err := d.readChunk(off)
		if err != nil {
			return nil, err
		}
		off += n
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d.mesh, nil
}

// readChunk decodes the chunk starting at off and returns its total length.
func (d *decoder) readChunk(off int) (int, error) {
	if len(d.data)-off < chunkHeaderSize {
		return 0, model.ErrAt(formatLWO, model.TruncatedInput, off, "chunk header").
			Want(fmt.Sprintf("%d bytes", chunkHeaderSize), len(d.data)-off)
	}

	tag := string(d.data[off : off+4])
	size := int(binary.BigEndian.Uint32(d.data[off+4:]))
	body := off + chunkHeaderSize

	if size > len(d.data)-body {
		return 0, model.ErrAt(formatLWO, model.TruncatedInput, off, "chunk %q body", tag).
			Want(fmt.Sprintf("%d bytes", size), len(d.data)-body)
	}

	handler, ok := chunkHandlers[tag]
	if !ok {
		d.log.WithFields(logrus.Fields{
			"kind":   model.UnknownTag.String(),
			"tag":    fmt.Sprintf("%q", tag),
			"offset": off,
			"size":   size,
		}).Debug("skipping chunk")
		return chunkHeaderSize + size, nil
	}

	if err := handler(d, d.data[body:body+size], body); err != nil {
		return 0, err
	}
	return chunkHeaderSize + size, nil
}

// readPoints decodes PNTS: size/12 vertices of three floats each.
func (d *decoder) readPoints(body []byte, off int) error {
	count := len(body) / 12
	verts := make([]model.Vec3, count)
	for i := range verts {
		verts[i] = beVec3(body, i*12)
	}
	d.mesh.Vertices = verts
	return nil
}

// readPolygons decodes POLS: repeated (count, count indices, surface id)
// records of uint16 values until the chunk is used up.
func (d *decoder) readPolygons(body []byte, off int) error {
	words := len(body) / 2
	word := func(i int) int {
		return int(binary.BigEndian.Uint16(body[i*2:]))
	}

	for i := 0; i < words; {
		start := i
		count := word(i)
		i++

		// count indices plus the trailing surface id
		if count+1 > words-i {
			return model.ErrAt(formatLWO, model.TruncatedInput, off+start*2, "polygon record").
				Want(fmt.Sprintf("%d values", count+2), words-start)
		}

		verts := make([]int, count)
		for k := range verts {
			verts[k] = word(i + k)
		}
		i += count

		d.mesh.Polygons = append(d.mesh.Polygons, model.Polygon{
			Vertices:  verts,
			SurfaceID: word(i),
		})
		d.polyOffsets = append(d.polyOffsets, off+start*2)
		i++
	}
	return nil
}

// nameSpan returns the bytes a SRFS/SURF name of length n occupies:
// n+2 for even lengths, n+1 for odd lengths. This is specific to these
// files and must not be replaced by generic chunk padding.
func nameSpan(n int) int {
	if n%2 == 0 {
		return n + 2
	}
	return n + 1
}

// readSurfaceNames decodes SRFS: a list of padded, null-terminated names.
func (d *decoder) readSurfaceNames(body []byte, off int) error {
	for j := 0; j < len(body); {
		name, n, ok := cString(body[j:])
		if !ok {
			return model.ErrAt(formatLWO, model.TruncatedInput, off+j, "surface name missing null terminator")
		}
		if n == 0 {
			return model.ErrAt(formatLWO, model.MalformedField, off+j, "empty surface name")
		}
		d.mesh.SurfaceNames = append(d.mesh.SurfaceNames, name)
		j += nameSpan(n)
	}
	return nil
}

// readSurface decodes SURF: a padded name followed by subchunks.
func (d *decoder) readSurface(body []byte, off int) error {
	name, n, ok := cString(body)
	if !ok {
		return model.ErrAt(formatLWO, model.TruncatedInput, off, "surface name missing null terminator")
	}

	sc := &surfaceContext{
		surface: model.NewSurface(name),
		log:     d.log.WithField("surface", name),
	}

	for j := nameSpan(n); j < len(body); {
		m, err := sc.readSubchunk(body[j:], off+j)
		if err != nil {
			return err
		}
		j += m
	}

	d.mesh.Surfaces[name] = sc.surface
	return nil
}

// validate checks the cross-chunk references once every chunk is read.
func (d *decoder) validate() error {
	verts := len(d.mesh.Vertices)
	surfs := len(d.mesh.SurfaceNames)

	for i, p := range d.mesh.Polygons {
		for _, v := range p.Vertices {
			if v >= verts {
				return model.ErrAt(formatLWO, model.MalformedField, d.polyOffsets[i],
					"polygon %d references missing vertex", i).
					Want(fmt.Sprintf("< %d", verts), v)
			}
		}
		if p.SurfaceID < 1 || p.SurfaceID > surfs {
			return model.ErrAt(formatLWO, model.MalformedField, d.polyOffsets[i],
				"polygon %d references missing surface", i).
				Want(fmt.Sprintf("1..%d", surfs), p.SurfaceID)
		}
	}
	return nil
}
