package lwsconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyuri/lwsconv/internal/model"
)

func chunk(tag string, body ...[]byte) []byte {
	data := bytes.Join(body, nil)
	buf := make([]byte, 8, 8+len(data))
	copy(buf, tag)
	binary.BigEndian.PutUint32(buf[4:], uint32(len(data)))
	return append(buf, data...)
}

func subchunk(tag string, body ...[]byte) []byte {
	data := bytes.Join(body, nil)
	buf := make([]byte, 6, 6+len(data))
	copy(buf, tag)
	binary.BigEndian.PutUint16(buf[4:], uint16(len(data)))
	return append(buf, data...)
}

func floats(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func shorts(vals ...uint16) []byte {
	buf := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}

// texturedTriangle is a one-surface mesh mapped with a Z axis planar image.
func texturedTriangle() []byte {
	body := bytes.Join([][]byte{
		chunk("PNTS", floats(0, 0, 0, 1, 0, 0, 0, 1, 0)),
		chunk("POLS", shorts(3, 0, 1, 2, 1)),
		chunk("SRFS", []byte("Body\x00\x00")),
		chunk("SURF", []byte("Body\x00\x00"),
			subchunk("COLR", []byte{255, 255, 255, 0}),
			subchunk("CTEX", []byte("Planar Image Map\x00")),
			subchunk("TIMG", []byte("C:\\art\\A000_body.bmp\x00")),
			subchunk("TFLG", shorts(1<<2)),
			subchunk("TSIZ", floats(1, 1, 1)),
		),
	}, nil)

	buf := make([]byte, 12, 12+len(body))
	copy(buf, "FORM")
	binary.BigEndian.PutUint32(buf[4:], uint32(4+len(body)))
	copy(buf[8:], "LWOB")
	return append(buf, body...)
}

// indexedBMP builds a 1x1 8-bit bitmap using palette entry 0.
func indexedBMP() []byte {
	const offset = 54 + 4*2
	buf := make([]byte, offset+4)
	copy(buf, "BM")
	binary.LittleEndian.PutUint32(buf[2:], uint32(len(buf)))
	binary.LittleEndian.PutUint32(buf[10:], offset)
	binary.LittleEndian.PutUint32(buf[14:], 40)
	binary.LittleEndian.PutUint32(buf[18:], 1)
	binary.LittleEndian.PutUint32(buf[22:], 1)
	binary.LittleEndian.PutUint16(buf[26:], 1)
	binary.LittleEndian.PutUint16(buf[28:], 8)
	binary.LittleEndian.PutUint32(buf[46:], 2)
	copy(buf[54:], []byte{0, 0, 255, 0, 255, 255, 255, 0})
	return buf
}

const testScene = `LWSC
1
FirstFrame 1
LastFrame 30
LoadObject Objects\tri.lwo
AddNullObject Pivot
ParentObject 1
`

const testUV = `2
1
Body
A000_body.bmp
1
0 3
0 0
1 0
0 1
`

func writeTree(t *testing.T, files map[string][]byte) string {
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

func testTree(t *testing.T) string {
	return writeTree(t, map[string][]byte{
		"scenes/main.lws":       []byte(testScene),
		"scenes/tri.lwo":        texturedTriangle(),
		"scenes/tri.uv":         []byte(testUV),
		"shared/A000_body.bmp":  indexedBMP(),
		"shared/water001.bmp":   indexedBMP(),
		"shared/water002.bmp":   indexedBMP(),
		"scenes/broken/bad.lwo": []byte("FORM\x00\x00\x00\x04LWO2"),
		"scenes/badv/tri.lwo":   texturedTriangle(),
		"scenes/badv/tri.uv":    []byte("3\n0\n0\n"),
	})
}

func TestParseMesh(t *testing.T) {
	data := texturedTriangle()
	mesh, err := ParseMesh(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ParseMesh failed: %v", err)
	}

	surf, ok := mesh.Surface(1)
	if !ok {
		t.Fatal("Surface 1 missing")
	}
	if surf.ColorTex == nil || surf.ColorTex.Path != `C:\art\A000_body.bmp` {
		t.Errorf("ColorTex = %+v, want the TIMG path", surf.ColorTex)
	}
	if surf.ColorTex.Axis != model.AxisZ {
		t.Errorf("Axis = %v, want Z", surf.ColorTex.Axis)
	}
}

func TestParseErrorsMatchSentinels(t *testing.T) {
	_, err := DecodeMesh([]byte("FORM\x00\x00\x00\x04LWO2"))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}

	_, err = ParseScene(strings.NewReader("LWSC\nAddNullObject A\nObjectMotion\n9\n1\n"))
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Kind != TruncatedInput {
		t.Errorf("err = %v, want a TruncatedInput FormatError", err)
	}
}

func TestLoaderScene(t *testing.T) {
	dir := testTree(t)
	l := NewLoader(DirSource{Root: dir}, WithSharedDir("shared"))

	anim, err := l.LoadScene("scenes/main.lws")
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if len(anim.Objects) != 2 {
		t.Fatalf("Got %d objects, want 2", len(anim.Objects))
	}

	obj, err := l.LoadObject("scenes/main.lws", &anim.Objects[0])
	if err != nil {
		t.Fatalf("LoadObject failed: %v", err)
	}
	if obj.Path != "scenes/tri.lwo" {
		t.Errorf("Path = %q, want scenes/tri.lwo", obj.Path)
	}
	if obj.UVPath != "scenes/tri.uv" {
		t.Errorf("UVPath = %q, want scenes/tri.uv", obj.UVPath)
	}
	if len(obj.Faces) != 1 || len(obj.Faces[0].UVs) != 3 {
		t.Fatalf("Faces = %+v, want one face with 3 UVs", obj.Faces)
	}

	// The color texture's projection replaces the file coordinates
	if got := obj.Faces[0].UVs[1]; got != (model.Vec2{1.5, 0.5}) {
		t.Errorf("UV = %v, want (1.5, 0.5)", got)
	}
	if obj.Textures[0] != "A000_body.bmp" {
		t.Errorf("Texture = %q, want the uv file mapping", obj.Textures[0])
	}

	null, err := l.LoadObject("scenes/main.lws", &anim.Objects[1])
	if err != nil || null != nil {
		t.Errorf("LoadObject(null) = %v, %v; want nil, nil", null, err)
	}
}

func TestLoaderWithoutUVFiles(t *testing.T) {
	dir := testTree(t)
	l := NewLoader(DirSource{Root: dir}, WithoutUVFiles())

	obj, err := l.LoadMesh("scenes/tri.lwo")
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if obj.UV != nil || obj.UVPath != "" {
		t.Errorf("UV applied with UV files disabled: %s", obj.UVPath)
	}
	if obj.Textures[0] != `C:\art\A000_body.bmp` {
		t.Errorf("Texture = %q, want the surface path", obj.Textures[0])
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := testTree(t)
	l := NewLoader(DirSource{Root: dir})

	if _, err := l.LoadMesh("scenes/broken/bad.lwo"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if _, err := l.LoadMesh("scenes/badv/tri.lwo"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported from the uv file", err)
	}
	obj := model.NewSceneObject("Gone")
	obj.Filepath = `Objects\gone.lwo`
	if _, err := l.LoadObject("scenes/main.lws", &obj); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := l.LoadScene("scenes/none.lws"); err == nil {
		t.Error("LoadScene succeeded for a missing file")
	}
}

func TestLoaderTextures(t *testing.T) {
	dir := testTree(t)
	l := NewLoader(DirSource{Root: dir}, WithSharedDir("shared"))

	img, p, err := l.LoadTexture("scenes/tri.lwo", `C:\art\A000_body.bmp`)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	if p != "shared/A000_body.bmp" {
		t.Errorf("Path = %q, want shared/A000_body.bmp", p)
	}
	if c := img.NRGBAAt(0, 0); c.A != 0 || c.R != 255 {
		t.Errorf("Pixel = %v, want transparent red", c)
	}

	again, _, _ := l.LoadTexture("scenes/tri.lwo", "A000_body.bmp")
	if again != img {
		t.Error("Second LoadTexture decoded again")
	}

	seq := model.NewTexture()
	seq.Path = "water001.bmp"
	seq.Sequence = true
	if n := l.TextureFrames("scenes/tri.lwo", seq); n != 2 {
		t.Errorf("TextureFrames = %d, want 2", n)
	}
	seq.Sequence = false
	if n := l.TextureFrames("scenes/tri.lwo", seq); n != 1 {
		t.Errorf("TextureFrames = %d, want 1 for a still", n)
	}

	bm, err := l.LoadBitmap("shared/water002.bmp")
	if err != nil {
		t.Fatalf("LoadBitmap failed: %v", err)
	}
	if bm.Width != 1 || len(bm.Palette) != 2 {
		t.Errorf("Bitmap = %dx%d with %d colors", bm.Width, bm.Height, len(bm.Palette))
	}
}

func TestDumpWriters(t *testing.T) {
	data := texturedTriangle()
	mesh, err := DecodeMesh(data)
	if err != nil {
		t.Fatalf("DecodeMesh failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteMesh(&buf, mesh); err != nil {
		t.Fatalf("WriteMesh failed: %v", err)
	}
	if !strings.Contains(buf.String(), "[1] Body") {
		t.Errorf("Dump missing surface:\n%s", buf.String())
	}
}
