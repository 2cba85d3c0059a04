// Package pdf opens in-memory PDF documents with MuPDF and extracts their
// embedded text layer.
//
// Every Document must be closed by the caller; both the Extractor here and
// the OCR runner release their handle on every return path.
package pdf

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// Document is the subset of a MuPDF document used by this service.
// *fitz.Document satisfies it directly.
type Document interface {
	// NumPage returns the number of pages.
	NumPage() int

	// Text returns the plain-text layer of the zero-based page.
	Text(page int) (string, error)

	// ImageDPI renders the zero-based page at the given resolution.
	ImageDPI(page int, dpi float64) (*image.RGBA, error)

	// Close releases the native document handle.
	Close() error
}

// Opener opens a Document from raw PDF bytes.
type Opener func(data []byte) (Document, error)

// Open opens data as a PDF using MuPDF.
func Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, NewPDFError("Open", -1, ErrOpenDocument, err)
	}
	return doc, nil
}
