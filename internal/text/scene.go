package text

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/sirupsen/logrus"
)

const formatLWS = "lws"

// endBehavior terminates every keyframe block.
const endBehavior = "EndBehavior"

// SceneReader decodes LWSC scene files.
type SceneReader struct {
	r    io.Reader
	opts options
}

// NewSceneReader creates a scene reader
func NewSceneReader(r io.Reader, opts ...Option) *SceneReader {
	return &SceneReader{r: r, opts: newOptions(opts)}
}

// Read reads the whole scene and decodes it.
func (r *SceneReader) Read() (*model.Animation, error) {
	lines, err := readLines(r.r, formatLWS)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	p := &sceneParser{
		lines:   lines,
		anim:    model.NewAnimation(),
		current: -1,
		paused:  true,
		log:     r.opts.log,
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.anim, nil
}

// sceneParser walks the line list once. Keyframe blocks are parsed ahead
// and report how many lines they used; those lines are then skipped.
type sceneParser struct {
	lines   []line
	anim    *model.Animation
	current int  // Index of the open object, -1 before the first one
	paused  bool // Set by lights and cameras until the next object
	log     logrus.FieldLogger
}

func (p *sceneParser) parse() error {
	if len(p.lines) == 0 {
		return model.ErrLine(formatLWS, model.TruncatedInput, 1, "empty file")
	}
	if p.lines[0].text != "LWSC" {
		return model.ErrLine(formatLWS, model.MagicMismatch, p.lines[0].num, "bad signature").
			Want(`"LWSC"`, fmt.Sprintf("%q", p.lines[0].text))
	}

	skip := 0
	for i := 1; i < len(p.lines); i++ {
		if skip > 0 {
			skip--
			continue
		}

		n, err := p.parseLine(i)
		if err != nil {
			return err
		}
		skip = n
	}
	return nil
}

// parseLine interprets line i and returns the number of following lines
// it consumed.
func (p *sceneParser) parseLine(i int) (int, error) {
	l := p.lines[i]
	text := l.text

	switch {
	case strings.HasPrefix(text, "FirstFrame"):
		v, err := intArg(l, 1)
		p.anim.FirstFrame = v
		return 0, err

	case strings.HasPrefix(text, "LastFrame"):
		v, err := intArg(l, 1)
		p.anim.LastFrame = v
		return 0, err

	case strings.HasPrefix(text, "FramesPerSecond"):
		v, err := floatArg(l, 1)
		p.anim.FramesPerSecond = v
		return 0, err

	case strings.HasPrefix(text, "AddNullObject"):
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "AddNullObject without a name")
		}
		p.openObject(model.NewSceneObject(fields[1]))
		return 0, nil

	case strings.HasPrefix(text, "LoadObject"):
		_, path, ok := strings.Cut(text, " ")
		if !ok || path == "" {
			return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "LoadObject without a path")
		}
		obj := model.NewSceneObject(objectName(path))
		obj.Filepath = path
		p.openObject(obj)
		return 0, nil
	}

	if p.paused {
		p.log.WithFields(logrus.Fields{
			"line": l.num,
			"text": text,
		}).Trace("ignoring line outside an object")
		return 0, nil
	}
	obj := &p.anim.Objects[p.current]

	switch {
	case strings.HasPrefix(text, "ParentObject"):
		v, err := intArg(l, 1)
		obj.Parent = v
		return 0, err

	case strings.HasPrefix(text, "PivotPoint"):
		v, err := vec3Arg(l, 1)
		obj.Pivot = v
		return 0, err

	case strings.HasPrefix(text, "ObjectMotion"):
		keys, n, err := parseEnvelope(p.lines, i, transformKey)
		if err != nil {
			return 0, err
		}
		obj.Keys = keys
		return n, nil

	case strings.HasPrefix(text, "ObjDissolve (envelope)"):
		keys, n, err := parseEnvelope(p.lines, i, alphaKey)
		if err != nil {
			return 0, err
		}
		obj.Alpha = keys
		return n, nil

	case strings.HasPrefix(text, "AddLight"), strings.HasPrefix(text, "ShowCamera"):
		// Lights and cameras are not modeled; their property lines share
		// prefixes with object properties and must not reach the last object
		p.paused = true
		return 0, nil
	}

	return 0, nil
}

func (p *sceneParser) openObject(obj model.SceneObject) {
	p.anim.Objects = append(p.anim.Objects, obj)
	p.current = len(p.anim.Objects) - 1
	p.paused = false
}

// objectName returns the file name of path without its extension.
// Both separators are accepted since the scenes were authored on Windows.
func objectName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// parseEnvelope parses a keyframe block triggered at line i:
//
//	<trigger>          line i
//	<channel count>    line i+1, not interpreted
//	<key count N>      line i+2
//	<value line>       N times: value line, then a line starting with the frame
//	<frame line>
//	EndBehavior ...
//
// It returns the keys and the number of lines after i that belong to the
// block, EndBehavior included. Later entries for the same frame replace
// earlier ones.
func parseEnvelope[V any](lines []line, i int, value func(l line) (V, error)) (map[int]V, int, error) {
	trigger := lines[i]
	if i+2 >= len(lines) {
		return nil, 0, model.ErrLine(formatLWS, model.TruncatedInput, trigger.num, "keyframe block header")
	}

	countLine := lines[i+2]
	count, err := strconv.Atoi(strings.TrimSpace(countLine.text))
	if err != nil {
		return nil, 0, model.ErrLine(formatLWS, model.MalformedField, countLine.num, "keyframe count").Wrap(err)
	}
	if count < 0 {
		return nil, 0, model.ErrLine(formatLWS, model.MalformedField, countLine.num, "keyframe count").
			Want(">= 0", count)
	}

	keys := make(map[int]V, count)
	j := i + 3
	for k := 0; k < count; k++ {
		if j+1 >= len(lines) {
			return nil, 0, model.ErrLine(formatLWS, model.TruncatedInput, lastLineNum(lines),
				"keyframe block at line %d ended early", trigger.num).
				Want(fmt.Sprintf("%d entries", count), k)
		}

		v, err := value(lines[j])
		if err != nil {
			return nil, 0, err
		}
		frame, err := frameNumber(lines[j+1])
		if err != nil {
			return nil, 0, err
		}
		keys[frame] = v
		j += 2
	}

	if j >= len(lines) {
		return nil, 0, model.ErrLine(formatLWS, model.TruncatedInput, lastLineNum(lines),
			"keyframe block at line %d not terminated", trigger.num).
			Want(endBehavior, "end of file")
	}
	if !strings.HasPrefix(lines[j].text, endBehavior) {
		return nil, 0, model.ErrLine(formatLWS, model.TruncatedInput, lines[j].num,
			"keyframe block at line %d not terminated", trigger.num).
			Want(endBehavior, fmt.Sprintf("%q", lines[j].text))
	}

	return keys, j - i, nil
}

// transformKey parses "px py pz rx ry rz sx sy sz" with rotations in degrees.
func transformKey(l line) (model.Keyframe, error) {
	fields := strings.Fields(l.text)
	if len(fields) != 9 {
		return model.Keyframe{}, model.ErrLine(formatLWS, model.MalformedField, l.num, "keyframe values").
			Want(9, len(fields))
	}

	var v [9]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return model.Keyframe{}, model.ErrLine(formatLWS, model.MalformedField, l.num, "keyframe value %d", i+1).Wrap(err)
		}
		v[i] = float32(x)
	}

	return model.Keyframe{
		Position: model.Vec3{v[0], v[1], v[2]},
		Rotation: model.Vec3{degToRad(v[3]), degToRad(v[4]), degToRad(v[5])},
		Scale:    model.Vec3{v[6], v[7], v[8]},
	}, nil
}

// alphaKey parses a single dissolve value.
func alphaKey(l line) (float32, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(l.text), 32)
	if err != nil {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "dissolve value").Wrap(err)
	}
	return float32(x), nil
}

// frameNumber reads the frame from the first field of a key's second line.
func frameNumber(l line) (int, error) {
	fields := strings.Fields(l.text)
	if len(fields) == 0 {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "missing frame number")
	}
	frame, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "frame number").Wrap(err)
	}
	if frame < 0 {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "frame number").
			Want(">= 0", frame)
	}
	return frame, nil
}

func degToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

func intArg(l line, n int) (int, error) {
	fields := strings.Fields(l.text)
	if len(fields) <= n {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "missing argument").
			Want(fmt.Sprintf("%d fields", n+1), len(fields))
	}
	v, err := strconv.Atoi(fields[n])
	if err != nil {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "integer argument").Wrap(err)
	}
	return v, nil
}

func floatArg(l line, n int) (float32, error) {
	fields := strings.Fields(l.text)
	if len(fields) <= n {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "missing argument").
			Want(fmt.Sprintf("%d fields", n+1), len(fields))
	}
	v, err := strconv.ParseFloat(fields[n], 32)
	if err != nil {
		return 0, model.ErrLine(formatLWS, model.MalformedField, l.num, "float argument").Wrap(err)
	}
	return float32(v), nil
}

func vec3Arg(l line, n int) (model.Vec3, error) {
	var v model.Vec3
	for k := 0; k < 3; k++ {
		x, err := floatArg(l, n+k)
		if err != nil {
			return model.Vec3{}, err
		}
		v[k] = x
	}
	return v, nil
}
