package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/a.lws", "LWSC")
	src := DirSource{Root: dir}

	if !src.Exists("scenes/a.lws") {
		t.Error("Exists = false for a present file")
	}
	if src.Exists("scenes") {
		t.Error("Exists = true for a directory")
	}
	if src.Exists("scenes/b.lws") {
		t.Error("Exists = true for a missing file")
	}

	rc, err := src.Open("scenes/a.lws")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "LWSC" {
		t.Errorf("Read %q, want LWSC", data)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scenes/truck.lwo", "local")
	writeFile(t, dir, "scenes/both.lwo", "local")
	writeFile(t, dir, "shared/both.lwo", "shared")
	writeFile(t, dir, "shared/tree.lwo", "shared")

	r := NewResolver(DirSource{Root: dir}, `shared`)

	tests := []struct {
		ref  string
		want string
	}{
		{`Objects\Vehicles\truck.lwo`, "scenes/truck.lwo"},
		{"objects/tree.lwo", "shared/tree.lwo"},
		{"both.lwo", "scenes/both.lwo"},
	}
	for _, tt := range tests {
		got, err := r.Resolve("scenes/main.lws", tt.ref)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}

	if _, err := r.Resolve("scenes/main.lws", `x\rock.lwo`); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := r.Resolve("scenes/main.lws", ""); err == nil {
		t.Error("Resolve accepted an empty reference")
	}
}

func TestResolverOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared/tree.lwo", "shared")

	r := NewResolver(DirSource{Root: dir}, "shared")
	rc, p, err := r.Open("scenes/main.lws", `C:\game\tree.lwo`)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	if p != "shared/tree.lwo" {
		t.Errorf("Path = %q, want shared/tree.lwo", p)
	}

	noShared := NewResolver(DirSource{Root: dir}, "")
	if _, _, err := noShared.Open("scenes/main.lws", "tree.lwo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound without a shared directory", err)
	}
}

func TestUVPath(t *testing.T) {
	tests := []struct {
		mesh string
		want string
	}{
		{"truck.lwo", "truck.uv"},
		{`objects\truck.lwo`, "objects/truck.uv"},
		{"dir.v2/truck", "dir.v2/truck.uv"},
	}
	for _, tt := range tests {
		if got := UVPath(tt.mesh); got != tt.want {
			t.Errorf("UVPath(%q) = %q, want %q", tt.mesh, got, tt.want)
		}
	}
}

func TestDiscPath(t *testing.T) {
	if got := discPath("textures/../A.BMP"); got != "/A.BMP" {
		t.Errorf("discPath = %q, want /A.BMP", got)
	}
	if _, err := OpenDisc(filepath.Join(t.TempDir(), "none.iso")); err == nil {
		t.Error("OpenDisc succeeded for a missing image")
	}
}
