package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for table specification problems.
var (
	ErrNoColumns      = errors.New("layout: table has no columns")
	ErrWidthMismatch  = errors.New("layout: column width count does not match header count")
	ErrInvalidWidth   = errors.New("layout: column widths must be positive")
	ErrColumnMismatch = errors.New("layout: row length does not match header count")
)

// RenderError wraps an error that occurred during a specific layout
// operation, carrying the operation name for context.
type RenderError struct {
	Op  string // operation name, e.g. "RenderTable"
	Err error  // underlying error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("layout.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("layout.%s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func newRenderError(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}
