package ocr

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/pdf"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

const (
	// UnavailableMessage replaces the results when the engine never initialized.
	UnavailableMessage = "OCR unavailable: initialization failed"

	// ErrorPrefix prefixes the message returned when any page fails.
	ErrorPrefix = "OCR error: "
)

// Runner renders every page of a document and recognizes it with the
// shared engine. Pages are processed sequentially in document order.
type Runner struct {
	engines   *Shared
	open      pdf.Opener
	dpi       float64
	threshold float64
	log       zerolog.Logger
}

// NewRunner creates a Runner. A nil opener defaults to pdf.Open.
func NewRunner(engines *Shared, open pdf.Opener, opts Options, log zerolog.Logger) *Runner {
	if open == nil {
		open = pdf.Open
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Runner{
		engines:   engines,
		open:      open,
		dpi:       float64(dpi),
		threshold: opts.DetBoxThreshold,
		log:       log,
	}
}

// Run returns one PageOCR per page. If the engine is unavailable the
// document is not opened and the outcome carries UnavailableMessage. Any
// page failure discards the pages already recognized and the outcome
// carries a message starting with ErrorPrefix.
func (r *Runner) Run(ctx context.Context, data []byte) (outcome models.OCROutcome) {
	engine, err := r.engines.Engine()
	if err != nil {
		r.log.Warn().Err(err).Msg("OCR skipped")
		return models.OCRFailed(UnavailableMessage)
	}

	defer func() {
		if rec := recover(); rec != nil {
			outcome = r.failed(fmt.Errorf("panic: %v", rec))
		}
	}()

	pages, err := r.recognizeDocument(ctx, engine, data)
	if err != nil {
		return r.failed(err)
	}
	return models.OCRSucceeded(pages)
}

func (r *Runner) recognizeDocument(ctx context.Context, engine Engine, data []byte) ([]models.PageOCR, error) {
	doc, err := r.open(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := doc.Close(); closeErr != nil {
			r.log.Warn().Err(closeErr).Msg("Failed to close PDF document")
		}
	}()

	pageCount := doc.NumPage()
	pages := make([]models.PageOCR, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		page, err := r.recognizePage(ctx, engine, doc, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	r.log.Debug().
		Str("engine", engine.Name()).
		Int("page_count", pageCount).
		Msg("OCR completed")
	return pages, nil
}

func (r *Runner) recognizePage(ctx context.Context, engine Engine, doc pdf.Document, index int) (models.PageOCR, error) {
	img, err := doc.ImageDPI(index, r.dpi)
	if err != nil {
		return models.PageOCR{}, pdf.NewPDFError("Render", index, pdf.ErrRenderPage, err)
	}

	lines, err := engine.Recognize(ctx, img)
	if err != nil {
		return models.PageOCR{}, fmt.Errorf("page %d: %w", index+1, err)
	}

	kept := make([]models.OCRLine, 0, len(lines))
	for _, line := range lines {
		if line.Confidence >= r.threshold {
			kept = append(kept, line)
		}
	}

	r.log.Debug().
		Int("page", index+1).
		Int("lines", len(kept)).
		Int("dropped", len(lines)-len(kept)).
		Msg("Page recognized")
	return models.PageOCR{Page: index + 1, Results: kept}, nil
}

func (r *Runner) failed(err error) models.OCROutcome {
	r.log.Error().Err(err).Msg("OCR error")
	return models.OCRFailed(ErrorPrefix + err.Error())
}
