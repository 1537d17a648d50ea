package text

import (
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/go-gl/mathgl/mgl32"
)

const sampleScene = `LWSC
1

FirstFrame 0
LastFrame 10
FrameStep 1
FramesPerSecond 25.000000

AddNullObject Foo
ObjectMotion (unnamed)
  9
  2
  0.0 1.0 2.0 0.0 180.0 90.0 1.0 1.0 1.0
  0 0 0.0 0.0 0.0
  5.0 1.0 2.0 0.0 0.0 0.0 2.0 2.0 2.0
  10 0 0.0 0.0 0.0
EndBehavior 1
ShadowOptions 7

LoadObject Objects\Vehicles\Truck.lwo
ParentObject 1
PivotPoint 0.5 -1 2
ObjDissolve (envelope)
  1
  2
  0.0
  0 0 0.0 0.0 0.0
  1.0
  8 0 0.0 0.0 0.0
EndBehavior 1

AddLight
LightName Light
ObjectMotion (unnamed)
  9
  1
  9.0 9.0 9.0 9.0 9.0 9.0 9.0 9.0 9.0
  0 0 0.0 0.0 0.0
EndBehavior 1
ParentObject 1
PivotPoint 9 9 9

ShowCamera 1 0
ParentObject 2
`

func readScene(t *testing.T, input string) *model.Animation {
	t.Helper()
	anim, err := NewSceneReader(strings.NewReader(input)).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return anim
}

func TestReadScene(t *testing.T) {
	anim := readScene(t, sampleScene)

	if anim.FirstFrame != 0 || anim.LastFrame != 10 {
		t.Errorf("Frame range = [%d,%d], want [0,10]", anim.FirstFrame, anim.LastFrame)
	}
	if anim.FramesPerSecond != 25 {
		t.Errorf("FramesPerSecond = %g, want 25", anim.FramesPerSecond)
	}
	if len(anim.Objects) != 2 {
		t.Fatalf("Got %d objects, want 2", len(anim.Objects))
	}

	foo := anim.Objects[0]
	if foo.Name != "Foo" {
		t.Errorf("Name = %q, want Foo", foo.Name)
	}
	if foo.HasFile() {
		t.Errorf("Filepath = %q, want none for a null object", foo.Filepath)
	}
	if foo.Parent != -1 {
		t.Errorf("Parent = %d, want -1", foo.Parent)
	}
	if len(foo.Keys) != 2 {
		t.Fatalf("Got %d keyframes, want 2", len(foo.Keys))
	}

	k0, ok := foo.Keys[0]
	if !ok {
		t.Fatal("Keyframe 0 missing")
	}
	if k0.Position != (model.Vec3{0, 1, 2}) {
		t.Errorf("Position = %v, want [0 1 2]", k0.Position)
	}
	if !k0.Rotation.ApproxEqualThreshold(mgl32.Vec3{0, math32.Pi, math32.Pi / 2}, 1e-6) {
		t.Errorf("Rotation = %v, want [0 pi pi/2]", k0.Rotation)
	}
	if k10 := foo.Keys[10]; k10.Scale != (model.Vec3{2, 2, 2}) {
		t.Errorf("Keyframe 10 scale = %v, want [2 2 2]", k10.Scale)
	}

	truck := anim.Objects[1]
	if truck.Name != "Truck" {
		t.Errorf("Name = %q, want Truck", truck.Name)
	}
	if truck.Filepath != `Objects\Vehicles\Truck.lwo` {
		t.Errorf("Filepath = %q, want raw path", truck.Filepath)
	}
	if truck.Parent != 1 {
		t.Errorf("Parent = %d, want 1 (light lines must not leak)", truck.Parent)
	}
	if truck.Pivot != (model.Vec3{0.5, -1, 2}) {
		t.Errorf("Pivot = %v, want [0.5 -1 2]", truck.Pivot)
	}
	if len(truck.Keys) != 0 {
		t.Errorf("Got %d keyframes, want 0 (light motion must not leak)", len(truck.Keys))
	}
	if truck.Alpha[0] != 0 || truck.Alpha[8] != 1 || len(truck.Alpha) != 2 {
		t.Errorf("Alpha = %v, want map[0:0 8:1]", truck.Alpha)
	}

	parent, ok := anim.Parent(1)
	if !ok || parent.Name != "Foo" {
		t.Errorf("Parent(1) = %v, %v; want Foo", parent, ok)
	}
	if _, ok := anim.Parent(0); ok {
		t.Error("Parent(0) resolved, want scene root")
	}
}

func TestDegreesToRadians(t *testing.T) {
	input := `LWSC
AddNullObject Spin
ObjectMotion
  9
  1
  0 0 0 180 -90 360 1 1 1
  3
EndBehavior 1
`
	anim := readScene(t, input)

	rot := anim.Objects[0].Keys[3].Rotation
	want := [3]float32{math32.Pi, -math32.Pi / 2, 2 * math32.Pi}
	for i := range want {
		if math32.Abs(rot[i]-want[i]) > 1e-6 {
			t.Errorf("Rotation[%d] = %g, want %g", i, rot[i], want[i])
		}
	}
}

func TestDuplicateFrameLastWins(t *testing.T) {
	input := `LWSC
AddNullObject Dup
ObjectMotion
  9
  2
  1 1 1 0 0 0 1 1 1
  4 0 0 0 0
  2 2 2 0 0 0 1 1 1
  4 0 0 0 0
EndBehavior 1
`
	anim := readScene(t, input)

	keys := anim.Objects[0].Keys
	if len(keys) != 1 {
		t.Fatalf("Got %d keyframes, want 1", len(keys))
	}
	if keys[4].Position != (model.Vec3{2, 2, 2}) {
		t.Errorf("Position = %v, want the later entry [2 2 2]", keys[4].Position)
	}
}

func TestLinesBeforeFirstObjectIgnored(t *testing.T) {
	input := "LWSC\r\nParentObject 3\r\nPivotPoint 1 2 3\r\nAddNullObject A\r\nFirstFrame 4\r\n"
	anim := readScene(t, input)

	if len(anim.Objects) != 1 || anim.Objects[0].Parent != -1 {
		t.Errorf("Objects = %+v, want one root object", anim.Objects)
	}
	if anim.FirstFrame != 4 {
		t.Errorf("FirstFrame = %d, want 4", anim.FirstFrame)
	}
	if anim.FramesPerSecond != model.DefaultFramesPerSecond {
		t.Errorf("FramesPerSecond = %g, want default", anim.FramesPerSecond)
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Truck.lwo", "Truck"},
		{`Objects\Truck.lwo`, "Truck"},
		{"objects/big.truck.lwo", "big.truck"},
		{"NoExtension", "NoExtension"},
		{"dir/My Object.lwo", "My Object"},
	}

	for _, tt := range tests {
		if got := objectName(tt.path); got != tt.want {
			t.Errorf("objectName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReadSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "\n\n", model.ErrTruncated},
		{"bad magic", "LWS3\nFirstFrame 0\n", model.ErrMagic},
		{"bad first frame", "LWSC\nFirstFrame x\n", model.ErrMalformed},
		{"null object without name", "LWSC\nAddNullObject\n", model.ErrMalformed},
		{
			"missing EndBehavior",
			"LWSC\nAddNullObject A\nObjectMotion\n9\n1\n0 0 0 0 0 0 1 1 1\n0\nShadowOptions 7\n",
			model.ErrTruncated,
		},
		{
			"block cut off",
			"LWSC\nAddNullObject A\nObjectMotion\n9\n2\n0 0 0 0 0 0 1 1 1\n0\n",
			model.ErrTruncated,
		},
		{
			"eight values",
			"LWSC\nAddNullObject A\nObjectMotion\n9\n1\n0 0 0 0 0 1 1 1\n0\nEndBehavior 1\n",
			model.ErrMalformed,
		},
		{
			"bad frame",
			"LWSC\nAddNullObject A\nObjectMotion\n9\n1\n0 0 0 0 0 0 1 1 1\nx\nEndBehavior 1\n",
			model.ErrMalformed,
		},
		{
			"negative frame",
			"LWSC\nAddNullObject A\nObjectMotion\n9\n1\n0 0 0 0 0 0 1 1 1\n-2\nEndBehavior 1\n",
			model.ErrMalformed,
		},
		{
			"alpha missing EndBehavior",
			"LWSC\nAddNullObject A\nObjDissolve (envelope)\n1\n1\n0.5\n0\n",
			model.ErrTruncated,
		},
		{"short pivot", "LWSC\nAddNullObject A\nPivotPoint 1 2\n", model.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, err := NewSceneReader(strings.NewReader(tt.input)).Read()
			if err == nil {
				t.Fatalf("Read succeeded, want %v", tt.want)
			}
			if anim != nil {
				t.Error("Read returned a partial animation")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want kind %v", err, tt.want.(*model.FormatError).Kind)
			}
		})
	}
}

func TestSceneErrorLineNumber(t *testing.T) {
	// Blank lines are dropped but still counted for error positions
	input := "LWSC\n\nAddNullObject A\n\nObjectMotion\n9\n1\n1 2 3\n0\nEndBehavior 1\n"
	_, err := NewSceneReader(strings.NewReader(input)).Read()

	var fe *model.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *model.FormatError", err)
	}
	if fe.Line != 8 {
		t.Errorf("Line = %d, want 8", fe.Line)
	}
	if fe.Expected != "9" || fe.Found != "3" {
		t.Errorf("Expected/Found = %q/%q, want 9/3", fe.Expected, fe.Found)
	}
}
