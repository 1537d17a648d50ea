package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyuri/lwsconv/pkg/lwsconv"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// pointMesh is an LWOB file with one vertex, no polygons and one surface.
func pointMesh() []byte {
	var body []byte
	appendChunk := func(tag string, data []byte) {
		hdr := make([]byte, 8)
		copy(hdr, tag)
		binary.BigEndian.PutUint32(hdr[4:], uint32(len(data)))
		body = append(append(body, hdr...), data...)
	}

	pnts := make([]byte, 12)
	binary.BigEndian.PutUint32(pnts[0:], math.Float32bits(1))
	appendChunk("PNTS", pnts)
	appendChunk("SRFS", []byte("Hull\x00\x00"))
	appendChunk("SURF", []byte("Hull\x00\x00"))

	buf := make([]byte, 12)
	copy(buf, "FORM")
	binary.BigEndian.PutUint32(buf[4:], uint32(4+len(body)))
	copy(buf[8:], "LWOB")
	return append(buf, body...)
}

func writeFiles(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	return dir
}

func TestValidateSceneContinuesAfterFailures(t *testing.T) {
	scene := `LWSC
FirstFrame 0
LastFrame 10
LoadObject Objects\missing.lwo
LoadObject Objects\broken.lwo
LoadObject Objects\ship.lwo
ParentObject 7
LoadObject Objects\SHIP.lwo
`
	dir := writeFiles(t, map[string][]byte{
		"main.lws":   []byte(scene),
		"broken.lwo": []byte("FORM"),
		"ship.lwo":   pointMesh(),
	})

	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	loader := lwsconv.NewLoader(lwsconv.DirSource{Root: dir}, lwsconv.WithLoaderLogger(log))

	v := newValidator(loader, log, false)
	v.validateScene("main.lws")

	// missing mesh, truncated mesh, bad parent
	if len(v.errors) != 3 {
		t.Fatalf("Got %d errors, want 3: %v", len(v.errors), v.errors)
	}
	if !strings.Contains(v.errors[0], "asset not found") {
		t.Errorf("errors[0] = %q, want a lookup failure", v.errors[0])
	}
	if !strings.Contains(v.errors[1], "truncated input") {
		t.Errorf("errors[1] = %q, want a truncation", v.errors[1])
	}

	// The scene and ship.lwo decoded; the second placement is not rechecked
	if v.checked != 2 {
		t.Errorf("checked = %d, want 2", v.checked)
	}
	if !v.hasWarnings() {
		t.Error("No warning for a mesh without polygons")
	}
}

func TestValidateSceneParseFailure(t *testing.T) {
	dir := writeFiles(t, map[string][]byte{"bad.lws": []byte("LWS2\n")})
	loader := lwsconv.NewLoader(lwsconv.DirSource{Root: dir})

	v := newValidator(loader, logrus.New(), true)
	v.validateScene("bad.lws")

	if len(v.errors) != 1 || !strings.Contains(v.errors[0], "magic mismatch") {
		t.Errorf("errors = %v, want one magic mismatch", v.errors)
	}
}

func TestColorToHex(t *testing.T) {
	if got := colorToHex([3]float32{1, 0.5, -1}); got != "#ff8000" {
		t.Errorf("colorToHex = %q, want #ff8000", got)
	}
}
