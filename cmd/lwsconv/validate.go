package main

import (
	"fmt"
	"strings"

	"github.com/dyuri/lwsconv/pkg/lwsconv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// validate command
var validateCmd = &cobra.Command{
	Use:   "validate <scene.lws>",
	Short: "Validate a scene and every file it references",
	Long: `Decode a scene, then resolve and decode the mesh, UV file and
textures of every object. A failing file is reported and the remaining
files are still checked.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Fail on warnings")
}

func runValidate(cmd *cobra.Command, args []string) error {
	scenePath := args[0]
	strict, _ := cmd.Flags().GetBool("strict")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	v := newValidator(a.loader, a.log, strict)
	v.validateScene(scenePath)
	v.printResults()

	if v.hasErrors() || (strict && v.hasWarnings()) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// validator holds validation state
type validator struct {
	loader   *lwsconv.Loader
	log      logrus.FieldLogger
	strict   bool
	errors   []string
	warnings []string
	file     string
	checked  int
}

func newValidator(loader *lwsconv.Loader, log logrus.FieldLogger, strict bool) *validator {
	return &validator{
		loader:   loader,
		log:      log,
		strict:   strict,
		errors:   make([]string, 0),
		warnings: make([]string, 0),
	}
}

func (v *validator) error(msg string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(msg, args...))
}

func (v *validator) warning(msg string, args ...interface{}) {
	v.warnings = append(v.warnings, fmt.Sprintf(msg, args...))
}

func (v *validator) hasErrors() bool {
	return len(v.errors) > 0
}

func (v *validator) hasWarnings() bool {
	return len(v.warnings) > 0
}

func (v *validator) validateScene(path string) {
	v.file = path

	anim, err := v.loader.LoadScene(path)
	if err != nil {
		v.error("%v", err)
		return
	}
	v.checked++

	if anim.LastFrame < anim.FirstFrame {
		v.warning("Frame range %d-%d is empty", anim.FirstFrame, anim.LastFrame)
	}
	if len(anim.Objects) == 0 {
		v.warning("No objects defined")
	}

	meshes := make(map[string]bool)
	for i := range anim.Objects {
		obj := &anim.Objects[i]
		v.validateObject(anim, i)

		if !obj.HasFile() {
			continue
		}
		// Each mesh is checked once, however often it is placed
		if meshes[strings.ToLower(obj.Filepath)] {
			continue
		}
		meshes[strings.ToLower(obj.Filepath)] = true

		// Per-file failures are recorded and the scan goes on
		loaded, err := v.loader.LoadObject(path, obj)
		if err != nil {
			v.error("Object %d (%s): %v", i+1, obj.Name, err)
			continue
		}
		v.checked++
		if loaded.UV != nil {
			v.checked++
		}
		v.validateMesh(loaded)
	}
}

func (v *validator) validateObject(anim *lwsconv.Animation, i int) {
	obj := &anim.Objects[i]

	if obj.Parent != -1 {
		if _, ok := anim.Parent(i); !ok {
			v.error("Object %d (%s): parent %d does not exist", i+1, obj.Name, obj.Parent)
		} else if obj.Parent == i+1 {
			v.error("Object %d (%s): is its own parent", i+1, obj.Name)
		}
	}

	for _, f := range obj.Frames() {
		if f < anim.FirstFrame || f > anim.LastFrame {
			v.warning("Object %d (%s): keyframe %d outside frame range %d-%d",
				i+1, obj.Name, f, anim.FirstFrame, anim.LastFrame)
			break
		}
	}
	for _, f := range obj.AlphaFrames() {
		if a := obj.Alpha[f]; a < 0 || a > 1 {
			v.warning("Object %d (%s): dissolve %g at frame %d outside 0-1", i+1, obj.Name, a, f)
		}
	}
}

func (v *validator) validateMesh(obj *lwsconv.Object) {
	mesh := obj.Mesh

	if len(mesh.Polygons) == 0 {
		v.warning("%s: no polygons", obj.Path)
	}
	for i, name := range mesh.SurfaceNames {
		if _, ok := mesh.Surfaces[name]; !ok {
			v.warning("%s: surface %d (%s) has no SURF chunk", obj.Path, i+1, name)
		}
	}

	if obj.UV != nil {
		for _, name := range obj.UV.MaterialNames {
			if _, ok := mesh.Surfaces[name]; !ok {
				v.warning("%s: material %s not in mesh", obj.UVPath, name)
			}
		}
	}

	for i, ref := range obj.Textures {
		if ref == "" {
			continue
		}
		v.validateTexture(obj, i, ref)
	}
}

func (v *validator) validateTexture(obj *lwsconv.Object, slot int, ref string) {
	img, p, err := v.loader.LoadTexture(obj.Path, ref)
	if err != nil {
		v.warning("%s: material %d texture %s: %v", obj.Path, slot, ref, err)
		return
	}
	v.checked++

	b := img.Bounds()
	if !isPowerOfTwo(b.Dx()) || !isPowerOfTwo(b.Dy()) {
		v.warning("%s: %dx%d is not a power of two", p, b.Dx(), b.Dy())
	}

	surf, ok := obj.Mesh.Surface(slot + 1)
	if ok && surf.ColorTex != nil && surf.ColorTex.Sequence {
		n := v.loader.TextureFrames(obj.Path, surf.ColorTex)
		v.log.WithFields(logrus.Fields{
			"texture": surf.ColorTex.Path,
			"frames":  n,
		}).Debug("texture sequence")
		if n < 2 {
			v.warning("%s: sequence %s has %d frame(s)", obj.Path, surf.ColorTex.Path, n)
		}
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (v *validator) printResults() {
	fmt.Printf("Validating: %s\n", v.file)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Files decoded: %d\n", v.checked)

	if len(v.errors) == 0 && len(v.warnings) == 0 {
		fmt.Println("✓ Valid scene - no issues found")
		return
	}

	// Print errors
	if len(v.errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(v.errors))
		for _, err := range v.errors {
			fmt.Printf("  ✗ %s\n", err)
		}
	}

	// Print warnings
	if len(v.warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(v.warnings))
		for _, warn := range v.warnings {
			fmt.Printf("  ⚠ %s\n", warn)
		}
	}

	// Summary
	fmt.Println()
	if len(v.errors) > 0 {
		fmt.Printf("Validation failed: %d error(s)", len(v.errors))
		if len(v.warnings) > 0 {
			fmt.Printf(", %d warning(s)", len(v.warnings))
		}
		fmt.Println()
	} else if len(v.warnings) > 0 {
		fmt.Printf("Validation passed with %d warning(s)\n", len(v.warnings))
		if v.strict {
			fmt.Println("(use without --strict to ignore warnings)")
		}
	}
}
