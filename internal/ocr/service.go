// Package ocr rasterizes PDF pages and runs optical character recognition
// over them.
//
// Three engines are available:
//   - tesseract: local CPU inference through gosseract (default)
//   - vision: Google Cloud Vision document text detection
//   - documentai: a Google Document AI OCR processor
//
// Required Environment Variables for the Google engines:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID: documentai only
//
// The engine is built once per process and shared by every request through
// Shared. Runner drives one document through the engine page by page.
package ocr

import (
	"context"
	"image"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

// Engine names accepted by NewEngine.
const (
	EngineTesseract  = "tesseract"
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
	EngineNone       = "none"
)

const (
	// DefaultLanguage is the OCR language used when none is configured.
	DefaultLanguage = "japan"

	// DefaultDetBoxThreshold drops lines scored below it.
	DefaultDetBoxThreshold = 0.5

	// DefaultDPI is the rasterization resolution; the page is scaled by DPI/72.
	DefaultDPI = 300
)

// Engine recognizes text lines in a rendered page image.
type Engine interface {
	// Name returns the engine identifier (e.g., "tesseract").
	Name() string

	// Recognize returns the lines detected in img, in reading order.
	// A page without text yields an empty slice and no error.
	Recognize(ctx context.Context, img image.Image) ([]models.OCRLine, error)

	// Close releases the engine's native or remote resources.
	Close() error
}

// Options configures engine construction and the page pipeline.
type Options struct {
	// Engine selects the implementation (EngineTesseract, EngineVision, ...).
	Engine string

	// Language is a short language name (e.g., "japan", "en").
	Language string

	// AngleClassification enables rotated-text detection where the engine
	// exposes it as a switch.
	AngleClassification bool

	// UseGPU requests GPU inference. No supported engine offers it.
	UseGPU bool

	// DetBoxThreshold is the minimum line confidence kept (0.0 to 1.0).
	DetBoxThreshold float64

	// DPI is the page rasterization resolution.
	DPI int

	// Google Cloud settings for the vision and documentai engines.
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string
}

// DefaultOptions returns the options the service runs with out of the box.
func DefaultOptions() Options {
	return Options{
		Engine:              EngineTesseract,
		Language:            DefaultLanguage,
		AngleClassification: true,
		UseGPU:              false,
		DetBoxThreshold:     DefaultDetBoxThreshold,
		DPI:                 DefaultDPI,
		GoogleCloudLocation: "us",
	}
}
