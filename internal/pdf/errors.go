package pdf

import (
	"errors"
	"fmt"
)

// Common PDF processing errors
var (
	// ErrOpenDocument is returned when the bytes cannot be opened as a PDF.
	ErrOpenDocument = errors.New("cannot open PDF document")

	// ErrPageText is returned when the text layer of a page cannot be read.
	ErrPageText = errors.New("cannot read page text")

	// ErrRenderPage is returned when a page cannot be rasterized.
	ErrRenderPage = errors.New("cannot render page")
)

// PDFError wraps errors with the operation and page that failed.
type PDFError struct {
	// Op is the operation that failed (e.g., "Open", "Text", "Render").
	Op string

	// Page is the zero-based page index, or -1 when not page specific.
	Page int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PDFError) Error() string {
	if e.Page >= 0 {
		return fmt.Sprintf("pdf: %s page %d: %v", e.Op, e.Page+1, e.Err)
	}
	return fmt.Sprintf("pdf: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PDFError) Unwrap() error {
	return e.Err
}

// NewPDFError creates a PDFError joining a sentinel with the library error.
func NewPDFError(op string, page int, sentinel, cause error) *PDFError {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &PDFError{Op: op, Page: page, Err: err}
}
