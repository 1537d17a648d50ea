package binary

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dyuri/lwsconv/internal/model"
	"github.com/sirupsen/logrus"
)

// planarImageMap is the only texture mapping type supported for CTEX.
const planarImageMap = "Planar Image Map"

// sequenceSuffix marks a TIMG path that names an image sequence.
const sequenceSuffix = " (sequence)"

// surfaceContext is the builder state of one SURF chunk. last is the most
// recently defined texture of any channel; texture attribute subchunks
// (TIMG, TFLG, TSIZ, TCTR) apply to it.
type surfaceContext struct {
	surface *model.Surface
	last    *model.Texture
	log     logrus.FieldLogger
}

// subchunkHandler decodes the body of one SURF subchunk. off is the absolute
// offset of body within the file.
type subchunkHandler func(sc *surfaceContext, body []byte, off int) error

var subchunkHandlers = map[string]subchunkHandler{
	"COLR": (*surfaceContext).readColor,
	"FLAG": (*surfaceContext).readFlags,
	"CTEX": (*surfaceContext).readColorTexture,
	"DTEX": (*surfaceContext).readOtherTexture,
	"STEX": (*surfaceContext).readOtherTexture,
	"RTEX": (*surfaceContext).readOtherTexture,
	"TTEX": (*surfaceContext).readOtherTexture,
	"BTEX": (*surfaceContext).readOtherTexture,
	"TIMG": (*surfaceContext).readImage,
	"TFLG": (*surfaceContext).readTextureFlags,
	"TSIZ": (*surfaceContext).readTextureSize,
	"TCTR": (*surfaceContext).readTextureCenter,
}

// readSubchunk decodes the subchunk at the start of b (the rest of the SURF
// body) and returns its total length.
func (sc *surfaceContext) readSubchunk(b []byte, off int) (int, error) {
	if len(b) < subchunkHeaderSize {
		return 0, model.ErrAt(formatLWO, model.TruncatedInput, off, "subchunk header").
			Want(fmt.Sprintf("%d bytes", subchunkHeaderSize), len(b))
	}

	tag := string(b[0:4])
	size := int(binary.BigEndian.Uint16(b[4:6]))
	if size > len(b)-subchunkHeaderSize {
		return 0, model.ErrAt(formatLWO, model.TruncatedInput, off, "subchunk %q body", tag).
			Want(fmt.Sprintf("%d bytes", size), len(b)-subchunkHeaderSize)
	}

	handler, ok := subchunkHandlers[tag]
	if !ok {
		sc.log.WithFields(logrus.Fields{
			"kind":   model.UnknownTag.String(),
			"tag":    fmt.Sprintf("%q", tag),
			"offset": off,
			"size":   size,
		}).Debug("skipping subchunk")
		return subchunkHeaderSize + size, nil
	}

	body := b[subchunkHeaderSize : subchunkHeaderSize+size]
	if err := handler(sc, body, off+subchunkHeaderSize); err != nil {
		return 0, err
	}
	return subchunkHeaderSize + size, nil
}

func wantLength(tag string, want int, body []byte, off int) error {
	if len(body) != want {
		return model.ErrAt(formatLWO, model.MalformedField, off, "%s length", tag).
			Want(want, len(body))
	}
	return nil
}

// currentTexture returns the texture attribute subchunks apply to.
func (sc *surfaceContext) currentTexture(tag string, off int) (*model.Texture, error) {
	if sc.last == nil {
		return nil, model.ErrAt(formatLWO, model.MissingContext, off,
			"%s without a preceding texture subchunk", tag)
	}
	return sc.last, nil
}

// COLR: R, G, B, unused
func (sc *surfaceContext) readColor(body []byte, off int) error {
	if err := wantLength("COLR", 4, body, off); err != nil {
		return err
	}
	sc.surface.Color = model.Vec3{
		float32(body[0]) / 255,
		float32(body[1]) / 255,
		float32(body[2]) / 255,
	}
	return nil
}

// FLAG: bit 8 double sided, bit 9 additive
func (sc *surfaceContext) readFlags(body []byte, off int) error {
	if err := wantLength("FLAG", 2, body, off); err != nil {
		return err
	}
	flags := binary.BigEndian.Uint16(body)
	sc.surface.DoubleSided = flags&(1<<8) != 0
	sc.surface.Additive = flags&(1<<9) != 0
	return nil
}

// CTEX starts the color texture; only planar image maps are supported.
func (sc *surfaceContext) readColorTexture(body []byte, off int) error {
	kind, _, ok := cString(body)
	if !ok {
		return model.ErrAt(formatLWO, model.TruncatedInput, off, "CTEX type missing null terminator")
	}
	if kind != planarImageMap {
		return model.ErrAt(formatLWO, model.UnsupportedVariant, off, "texture mapping type").
			Want(fmt.Sprintf("%q", planarImageMap), fmt.Sprintf("%q", kind))
	}

	tex := model.NewTexture()
	sc.surface.ColorTex = tex
	sc.last = tex
	return nil
}

// DTEX, STEX, RTEX, TTEX, BTEX: channels that are not modeled. They still
// start a new texture so that their attribute subchunks do not leak into
// the color texture.
func (sc *surfaceContext) readOtherTexture(body []byte, off int) error {
	sc.last = model.NewTexture()
	return nil
}

// TIMG: image path, optionally suffixed with " (sequence)"
func (sc *surfaceContext) readImage(body []byte, off int) error {
	tex, err := sc.currentTexture("TIMG", off)
	if err != nil {
		return err
	}

	path, _, ok := cString(body)
	if !ok {
		return model.ErrAt(formatLWO, model.TruncatedInput, off, "TIMG path missing null terminator")
	}

	if strings.HasSuffix(path, sequenceSuffix) {
		tex.Path = strings.TrimSuffix(path, sequenceSuffix)
		tex.Sequence = true
	} else {
		tex.Path = path
		tex.Sequence = false
	}
	return nil
}

// TFLG: bits 0/1/2 select the X/Y/Z axis (lowest set bit wins),
// bit 5 requests interpolation
func (sc *surfaceContext) readTextureFlags(body []byte, off int) error {
	tex, err := sc.currentTexture("TFLG", off)
	if err != nil {
		return err
	}
	if err := wantLength("TFLG", 2, body, off); err != nil {
		return err
	}

	flags := binary.BigEndian.Uint16(body)
	switch {
	case flags&(1<<0) != 0:
		tex.Axis = model.AxisX
	case flags&(1<<1) != 0:
		tex.Axis = model.AxisY
	case flags&(1<<2) != 0:
		tex.Axis = model.AxisZ
	}
	tex.Interpolate = flags&(1<<5) != 0
	return nil
}

// TSIZ: projection size, three floats
func (sc *surfaceContext) readTextureSize(body []byte, off int) error {
	tex, err := sc.currentTexture("TSIZ", off)
	if err != nil {
		return err
	}
	if err := wantLength("TSIZ", 12, body, off); err != nil {
		return err
	}
	tex.Size = beVec3(body, 0)
	return nil
}

// TCTR: projection center, three floats
func (sc *surfaceContext) readTextureCenter(body []byte, off int) error {
	tex, err := sc.currentTexture("TCTR", off)
	if err != nil {
		return err
	}
	if err := wantLength("TCTR", 12, body, off); err != nil {
		return err
	}
	tex.Center = beVec3(body, 0)
	return nil
}
