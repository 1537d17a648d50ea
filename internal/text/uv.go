package text

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dyuri/lwsconv/internal/model"
)

const formatUV = "uv"

// uvVersion is the only supported UV file version.
const uvVersion = 2

// UVReader decodes UV files.
//
// Layout, blank lines ignored:
//
//	2                  version
//	M                  material count
//	<name>             M lines
//	<texture path>     M lines, parallel to the names
//	P                  polygon count
//	<x> <corners>      per polygon, followed by one "u v" line per corner
type UVReader struct {
	r io.Reader
}

// NewUVReader creates a UV file reader
func NewUVReader(r io.Reader) *UVReader {
	return &UVReader{r: r}
}

// Read reads the whole file and decodes it.
func (r *UVReader) Read() (*model.UVData, error) {
	lines, err := readLines(r.r, formatUV)
	if err != nil {
		return nil, fmt.Errorf("read uv file: %w", err)
	}
	return parseUV(lines)
}

func parseUV(lines []line) (*model.UVData, error) {
	at := func(i int, what string) (line, error) {
		if i >= len(lines) {
			return line{}, model.ErrLine(formatUV, model.TruncatedInput, lastLineNum(lines), "missing %s", what)
		}
		return lines[i], nil
	}

	// Version
	l, err := at(0, "version")
	if err != nil {
		return nil, err
	}
	version, err := count(l, "version")
	if err != nil {
		return nil, err
	}
	if version != uvVersion {
		return nil, model.ErrLine(formatUV, model.UnsupportedVariant, l.num, "version").
			Want(uvVersion, version)
	}

	// Materials: M names, then M paths
	l, err = at(1, "material count")
	if err != nil {
		return nil, err
	}
	materials, err := count(l, "material count")
	if err != nil {
		return nil, err
	}

	data := model.NewUVData()
	for i := 0; i < materials; i++ {
		nameLine, err := at(2+i, "material name")
		if err != nil {
			return nil, err
		}
		pathLine, err := at(2+materials+i, "texture path")
		if err != nil {
			return nil, err
		}
		if _, dup := data.MaterialTextures[nameLine.text]; !dup {
			data.MaterialNames = append(data.MaterialNames, nameLine.text)
		}
		data.MaterialTextures[nameLine.text] = pathLine.text
	}

	// Polygons
	j := 2 + 2*materials
	l, err = at(j, "polygon count")
	if err != nil {
		return nil, err
	}
	polygons, err := count(l, "polygon count")
	if err != nil {
		return nil, err
	}
	j++

	for p := 0; p < polygons; p++ {
		header, err := at(j, fmt.Sprintf("header of polygon %d", p))
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(header.text)
		if len(fields) < 2 {
			return nil, model.ErrLine(formatUV, model.MalformedField, header.num, "polygon header").
				Want("2 fields", len(fields))
		}
		corners, err := strconv.Atoi(fields[1])
		if err != nil || corners < 0 {
			return nil, model.ErrLine(formatUV, model.MalformedField, header.num, "corner count").
				Want("non-negative integer", fmt.Sprintf("%q", fields[1]))
		}
		j++

		for c := 0; c < corners; c++ {
			l, err := at(j, fmt.Sprintf("corner %d of polygon %d", c, p))
			if err != nil {
				return nil, err
			}
			uv, err := uvPair(l)
			if err != nil {
				return nil, err
			}
			data.UVs = append(data.UVs, uv)
			j++
		}
	}

	return data, nil
}

// uvPair reads "u v" and flips v: the files use a top-left origin.
func uvPair(l line) (model.Vec2, error) {
	fields := strings.Fields(l.text)
	if len(fields) < 2 {
		return model.Vec2{}, model.ErrLine(formatUV, model.MalformedField, l.num, "uv coordinates").
			Want("2 fields", len(fields))
	}

	var v [2]float32
	for i := 0; i < 2; i++ {
		x, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return model.Vec2{}, model.ErrLine(formatUV, model.MalformedField, l.num, "uv coordinate").Wrap(err)
		}
		v[i] = float32(x)
	}
	return model.Vec2{v[0], 1 - v[1]}, nil
}

// count parses a line holding a single non-negative integer.
func count(l line, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(l.text))
	if err != nil {
		return 0, model.ErrLine(formatUV, model.MalformedField, l.num, "%s", what).Wrap(err)
	}
	if n < 0 {
		return 0, model.ErrLine(formatUV, model.MalformedField, l.num, "%s", what).Want(">= 0", n)
	}
	return n, nil
}
