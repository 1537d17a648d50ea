package lwsconv

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/dyuri/lwsconv/internal/assets"
	"github.com/dyuri/lwsconv/internal/geom"
	"github.com/dyuri/lwsconv/internal/logging"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/dyuri/lwsconv/internal/texture"
	"github.com/sirupsen/logrus"
)

// Asset sources.
type (
	Source     = assets.Source
	DirSource  = assets.DirSource
	DiscSource = assets.DiscSource
)

// Face is a polygon expanded to corner positions, UVs and material slot.
type Face = geom.Face

// ErrNotFound is returned when a referenced file cannot be located.
var ErrNotFound = assets.ErrNotFound

// OpenDisc opens an ISO9660 disc image as a Source.
func OpenDisc(imagePath string) (*DiscSource, error) {
	return assets.OpenDisc(imagePath)
}

// Object is a mesh together with everything needed to build it: UVs per
// corner and the texture of every material slot.
type Object struct {
	Path     string         // Resolved mesh path
	Mesh     *Mesh          // Decoded geometry and surfaces
	UVPath   string         // Resolved UV file, "" when none was applied
	UV       *UVData        // Decoded UV file, nil when none was applied
	Loops    [][]model.Vec2 // Per polygon corner UVs, nil without UVs
	Faces    []Face         // Polygons in file order
	Textures []string       // Texture path per material slot, "" for none
}

// Loader reads assets from a Source, following references the way the
// authoring tool laid them out.
type Loader struct {
	res      *assets.Resolver
	useUV    bool
	log      logrus.FieldLogger
	textures *texture.Cache
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	shared string
	noUV   bool
	log    logrus.FieldLogger
}

// WithSharedDir adds a fallback directory searched after the directory of
// the referencing file.
func WithSharedDir(dir string) LoaderOption {
	return func(c *loaderConfig) {
		c.shared = dir
	}
}

// WithoutUVFiles skips <mesh>.uv files; UVs then come from planar
// projection only.
func WithoutUVFiles() LoaderOption {
	return func(c *loaderConfig) {
		c.noUV = true
	}
}

// WithLoaderLogger sends lookup and decode diagnostics to l.
func WithLoaderLogger(l logrus.FieldLogger) LoaderOption {
	return func(c *loaderConfig) {
		c.log = l
	}
}

// NewLoader creates a loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	cfg := loaderConfig{log: logging.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logging.Discard()
	}

	l := &Loader{
		res:   assets.NewResolver(src, cfg.shared, assets.WithLogger(cfg.log)),
		useUV: !cfg.noUV,
		log:   cfg.log,
	}
	l.textures = texture.NewCache(l.readTexture)
	return l
}

func (l *Loader) read(p string) ([]byte, error) {
	rc, err := l.res.Source().Open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// LoadScene decodes the scene at path.
func (l *Loader) LoadScene(path string) (*Animation, error) {
	rc, err := l.res.Source().Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer rc.Close()

	anim, err := ParseScene(rc, WithLogger(l.log.WithField("file", path)))
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return anim, nil
}

// LoadBitmap decodes the 8-bit bitmap at path.
func (l *Loader) LoadBitmap(path string) (*Bitmap, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("read bitmap: %w", err)
	}
	bm, err := DecodeBitmap(data)
	if err != nil {
		return nil, fmt.Errorf("parse bitmap %s: %w", path, err)
	}
	return bm, nil
}

// LoadObject resolves and loads the mesh of a scene object. Null objects
// have no mesh and return (nil, nil).
func (l *Loader) LoadObject(scenePath string, obj *SceneObject) (*Object, error) {
	if !obj.HasFile() {
		return nil, nil
	}
	p, err := l.res.Resolve(scenePath, obj.Filepath)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", obj.Name, err)
	}
	return l.LoadMesh(p)
}

// LoadMesh decodes the mesh at path, applies its UV file when one exists
// and builds the face list.
func (l *Loader) LoadMesh(path string) (*Object, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}
	mesh, err := DecodeMesh(data, WithLogger(l.log.WithField("file", path)))
	if err != nil {
		return nil, fmt.Errorf("parse mesh %s: %w", path, err)
	}

	obj := &Object{Path: path, Mesh: mesh}
	if l.useUV {
		if err := l.loadUV(obj); err != nil {
			return nil, err
		}
	}

	obj.Loops, err = geom.BuildUVs(mesh, obj.UV)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	obj.Faces, err = geom.Faces(mesh, obj.Loops)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	obj.Textures = geom.MaterialTextures(mesh, obj.UV)
	return obj, nil
}

func (l *Loader) loadUV(obj *Object) error {
	rc, p, err := l.res.Open(obj.Path, assets.UVPath(obj.Path))
	if errors.Is(err, assets.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("uv file: %w", err)
	}
	defer rc.Close()

	uv, err := ParseUV(rc)
	if err != nil {
		return fmt.Errorf("parse uv file %s: %w", p, err)
	}

	l.log.WithFields(logrus.Fields{
		"mesh": obj.Path,
		"uv":   p,
	}).Debug("applying uv file")
	obj.UVPath = p
	obj.UV = uv
	return nil
}

// LoadTexture resolves a texture referenced by the file at from and
// returns it as RGBA. Each resolved path is decoded once per Loader.
func (l *Loader) LoadTexture(from, ref string) (*image.NRGBA, string, error) {
	p, err := l.res.Resolve(from, ref)
	if err != nil {
		return nil, "", err
	}
	img, _, err := l.textures.Get(p)
	return img, p, err
}

func (l *Loader) readTexture(p string) (*image.NRGBA, error) {
	rc, err := l.res.Source().Open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return texture.Load(rc, p)
}

// TextureFrames returns the number of images of a texture: 1 for still
// textures, the count of consecutive numbered files for sequences.
func (l *Loader) TextureFrames(from string, tex *Texture) int {
	if !tex.Sequence {
		return 1
	}
	seq, ok := texture.ParseSequence(assets.BaseName(tex.Path))
	if !ok {
		return 1
	}
	return seq.Count(func(name string) bool {
		_, err := l.res.Resolve(from, name)
		return err == nil
	})
}
