package partials

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	ErrFormat         = errors.New("partials: unexpected file format")
	ErrMalformedFrame = errors.New("partials: malformed frame data")
	ErrLengthMismatch = errors.New("partials: time axis and trajectory lengths differ")
	ErrEmptyPartial   = errors.New("partials: partial has no frames")
)

// FormatError reports a header line that does not match the expected
// par-text-frame-format layout.
type FormatError struct {
	Line int
	Want string
	Got  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("partials: line %d: expected %s, got %q", e.Line, e.Want, e.Got)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// FrameError reports a frame line that violates the declared header counts
// or the triple layout. Reading stops at the first FrameError.
type FrameError struct {
	Line   int
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("partials: frame at line %d: %s", e.Line, e.Reason)
}

// Unwrap returns ErrMalformedFrame.
func (e *FrameError) Unwrap() error {
	return ErrMalformedFrame
}

func frameErrorf(line int, format string, args ...any) error {
	return &FrameError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
