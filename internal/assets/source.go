// Package assets locates the files a scene or mesh refers to.
//
// Reference paths were written on the authoring machine and rarely match
// the layout on disk, so lookup goes by base name: first next to the
// referencing file, then in a shared directory.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
)

// ErrNotFound is returned when a referenced file exists in no location.
var ErrNotFound = errors.New("asset not found")

// Source is a read-only file tree addressed by slash-separated paths.
type Source interface {
	Open(name string) (io.ReadCloser, error)
	Exists(name string) bool
}

// DirSource reads from the local file system below Root. An empty Root
// resolves paths against the working directory.
type DirSource struct {
	Root string
}

func (s DirSource) path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

// Open opens name for reading.
func (s DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.path(name))
}

// Exists reports whether name is a regular file.
func (s DirSource) Exists(name string) bool {
	info, err := os.Stat(s.path(name))
	return err == nil && info.Mode().IsRegular()
}

// DiscSource reads from the file system of an ISO9660 disc image, as the
// game data shipped.
type DiscSource struct {
	disk *disk.Disk
	fs   filesystem.FileSystem
}

// OpenDisc opens the disc image at imagePath read-only.
func OpenDisc(imagePath string) (*DiscSource, error) {
	d, err := diskfs.Open(imagePath, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("open disc image %s: %w", imagePath, err)
	}
	// ISO images carry no partition table, the file system is partition 0
	fsys, err := d.GetFilesystem(0)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("read disc file system: %w", err)
	}
	return &DiscSource{disk: d, fs: fsys}, nil
}

// Close releases the image file.
func (s *DiscSource) Close() error {
	return s.disk.Close()
}

// discPath makes name absolute. Plain ISO9660 names are upper case; the
// lower-case form is kept for images with Rock Ridge or Joliet names.
func discPath(name string) string {
	return path.Clean("/" + name)
}

// Open opens name for reading, retrying with the upper-case ISO9660 name.
func (s *DiscSource) Open(name string) (io.ReadCloser, error) {
	p := discPath(name)
	f, err := s.fs.OpenFile(p, os.O_RDONLY)
	if err == nil {
		return f, nil
	}
	if upper := strings.ToUpper(p); upper != p {
		if f, uerr := s.fs.OpenFile(upper, os.O_RDONLY); uerr == nil {
			return f, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: p, Err: err}
}

// Exists reports whether name can be opened.
func (s *DiscSource) Exists(name string) bool {
	f, err := s.Open(name)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
