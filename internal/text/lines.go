package text

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/dyuri/lwsconv/internal/logging"
	"github.com/dyuri/lwsconv/internal/model"
	"github.com/sirupsen/logrus"
)

// maxLineLength bounds a single source line.
const maxLineLength = 1 << 20

// line is one non-empty source line.
type line struct {
	text string
	num  int // 1-based line number in the source, blank lines included
}

// readLines reads every line of r, strips the terminators (LF or CRLF)
// and drops empty lines. Blank lines carry no meaning in either text format.
// format names the file kind in errors.
func readLines(r io.Reader, format string) ([]line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []line
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if text == "" {
			continue
		}
		lines = append(lines, line{text: text, num: num})
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, model.ErrLine(format, model.MalformedField, num+1, "line longer than %d bytes", maxLineLength)
		}
		return nil, err
	}
	return lines, nil
}

// lastLineNum is used for errors raised past the end of the input.
func lastLineNum(lines []line) int {
	if len(lines) == 0 {
		return 1
	}
	return lines[len(lines)-1].num
}

// Option configures a text decode.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger routes diagnostics (ignored scene lines) to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
