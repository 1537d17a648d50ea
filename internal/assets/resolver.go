package assets

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dyuri/lwsconv/internal/logging"
	"github.com/sirupsen/logrus"
)

// Resolver finds referenced files in a Source.
type Resolver struct {
	src    Source
	shared string // Shared directory, "" to disable the fallback
	log    logrus.FieldLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger routes lookup diagnostics to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a resolver over src. sharedDir is searched after the
// referencing file's directory.
func NewResolver(src Source, sharedDir string, opts ...Option) *Resolver {
	r := &Resolver{
		src:    src,
		shared: ToSlash(sharedDir),
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the underlying source.
func (r *Resolver) Source() Source {
	return r.src
}

// Resolve returns the path of ref as seen from the file at from.
func (r *Resolver) Resolve(from, ref string) (string, error) {
	base := BaseName(ref)
	if base == "." || base == "/" {
		return "", fmt.Errorf("resolve %q: empty file name", ref)
	}

	candidates := []string{path.Join(path.Dir(ToSlash(from)), base)}
	if r.shared != "" {
		candidates = append(candidates, path.Join(r.shared, base))
	}

	for i, c := range candidates {
		if r.src.Exists(c) {
			if i > 0 {
				r.log.WithFields(logrus.Fields{
					"ref":  ref,
					"path": c,
				}).Debug("using shared directory")
			}
			return c, nil
		}
	}
	return "", fmt.Errorf("resolve %q from %s: %w", ref, from, ErrNotFound)
}

// Open resolves ref and opens it. It returns the resolved path along with
// the reader.
func (r *Resolver) Open(from, ref string) (io.ReadCloser, string, error) {
	p, err := r.Resolve(from, ref)
	if err != nil {
		return nil, "", err
	}
	rc, err := r.src.Open(p)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", p, err)
	}
	return rc, p, nil
}

// UVPath returns the UV file name belonging to a mesh: the mesh name with
// its extension replaced by ".uv".
func UVPath(meshPath string) string {
	p := ToSlash(meshPath)
	return strings.TrimSuffix(p, path.Ext(p)) + ".uv"
}

// BaseName returns the last element of p, accepting both separators.
func BaseName(p string) string {
	return path.Base(ToSlash(p))
}

// ToSlash converts Windows separators to slashes.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
