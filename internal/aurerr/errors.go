package aurerr

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	ErrIO       = errors.New("I/O error")
	ErrFormat   = errors.New("format error")
	ErrParse    = errors.New("parse error")
	ErrPolicy   = errors.New("policy error")
	ErrExternal = errors.New("external tool error")

	// ErrReported marks a command whose per-file failures were already
	// printed. The process exits non-zero without printing it again.
	ErrReported = errors.New("errors reported")
)

// Error carries a marker, human context and an optional cause.
type Error struct {
	Marker error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	cause := describe(e.Err)
	switch {
	case e.Detail == "" && cause == "":
		return e.Marker.Error()
	case e.Detail == "":
		return cause
	case cause == "":
		return e.Detail
	default:
		return e.Detail + ": " + cause
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Wrap tags err with marker and prefixes it with operation and message. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	if marker == nil {
		marker = ErrIO
	}
	return &Error{Marker: marker, Detail: buildDetail(operation, message), Err: err}
}

// New builds a marked error with no underlying cause.
func New(marker error, format string, args ...any) error {
	return &Error{Marker: marker, Detail: fmt.Sprintf(format, args...)}
}

// Kind returns the marker err carries. Bare operating system errors count as
// I/O. Unclassified errors return nil.
func Kind(err error) error {
	for _, marker := range []error{ErrIO, ErrFormat, ErrParse, ErrPolicy, ErrExternal} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return ErrIO
	}
	return nil
}

// Render formats err as the single line written to stderr. It returns an
// empty string for ErrReported.
func Render(err error) string {
	if err == nil || errors.Is(err, ErrReported) {
		return ""
	}
	var label string
	switch Kind(err) {
	case ErrIO:
		label = "(I/O) "
	case ErrParse:
		label = "(Parsing) "
	}
	return "ERROR: " + label + Message(err)
}

// Message returns err's text without a marker label.
func Message(err error) string {
	var marked *Error
	if errors.As(err, &marked) {
		return marked.Error()
	}
	return describe(err)
}

// describe renders operating system errors with their errno so messages stay
// stable across platforms and paths.
func describe(err error) string {
	if err == nil {
		return ""
	}
	var marked *Error
	if errors.As(err, &marked) {
		return err.Error()
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		text := errno.Error()
		if text != "" {
			text = strings.ToUpper(text[:1]) + text[1:]
		}
		return fmt.Sprintf("%s (os error %d)", text, int(errno))
	}
	return err.Error()
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	return strings.Join(parts, ": ")
}
