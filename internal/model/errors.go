package model

import (
	"fmt"
	"strings"
)

// Kind classifies a decode failure.
type Kind int

const (
	MagicMismatch      Kind = iota + 1 // Wrong file signature
	UnsupportedVariant                 // Header kind, bit depth or mapping type not handled
	TruncatedInput                     // Structure runs past the data, or a terminator is missing
	MalformedField                     // Wrong field count, byte length or value
	MissingContext                     // Texture attribute with no texture defined before it
	UnknownTag                         // Unhandled chunk tag; logged, never returned
)

func (k Kind) String() string {
	switch k {
	case MagicMismatch:
		return "magic mismatch"
	case UnsupportedVariant:
		return "unsupported variant"
	case TruncatedInput:
		return "truncated input"
	case MalformedField:
		return "malformed field"
	case MissingContext:
		return "missing context"
	case UnknownTag:
		return "unknown tag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FormatError is returned by every decoder. A file either decodes completely
// or fails with exactly one FormatError.
type FormatError struct {
	Kind     Kind
	Format   string // "bmp", "lwo", "lws" or "uv"
	Offset   int    // Byte offset, -1 for text formats
	Line     int    // 1-based source line, 0 for binary formats
	Msg      string
	Expected string // Optional
	Found    string // Optional
	Err      error  // Underlying cause (strconv errors and the like)
}

// Sentinels for errors.Is; they match any FormatError of the same Kind.
var (
	ErrMagic       = &FormatError{Kind: MagicMismatch}
	ErrUnsupported = &FormatError{Kind: UnsupportedVariant}
	ErrTruncated   = &FormatError{Kind: TruncatedInput}
	ErrMalformed   = &FormatError{Kind: MalformedField}
	ErrNoContext   = &FormatError{Kind: MissingContext}
)

// ErrAt builds a binary-format error located at a byte offset.
func ErrAt(format string, kind Kind, offset int, msg string, args ...interface{}) *FormatError {
	return &FormatError{
		Kind:   kind,
		Format: format,
		Offset: offset,
		Msg:    fmt.Sprintf(msg, args...),
	}
}

// ErrLine builds a text-format error located at a 1-based line number.
func ErrLine(format string, kind Kind, line int, msg string, args ...interface{}) *FormatError {
	return &FormatError{
		Kind:   kind,
		Format: format,
		Offset: -1,
		Line:   line,
		Msg:    fmt.Sprintf(msg, args...),
	}
}

// Want records the expected and found values.
func (e *FormatError) Want(expected, found interface{}) *FormatError {
	e.Expected = fmt.Sprint(expected)
	e.Found = fmt.Sprint(found)
	return e
}

// Wrap records the underlying cause.
func (e *FormatError) Wrap(err error) *FormatError {
	e.Err = err
	return e
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Format != "" {
		b.WriteString(e.Format)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	switch {
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d", e.Line)
	case e.Offset >= 0 && e.Format != "":
		fmt.Fprintf(&b, " at offset 0x%x", e.Offset)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(&b, " (expected %s, found %s)", e.Expected, e.Found)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is matches errors of the same Kind, so errors.Is(err, ErrTruncated) works
// regardless of where the failure happened.
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
