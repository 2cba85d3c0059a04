package cmd

import (
	"context"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/config"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/handler"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/ocr"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/pdf"
)

// buildHandler wires the extractor, the shared OCR engine and the runner.
// The engine is constructed here, once; a failure leaves OCR unavailable
// for the lifetime of the process but is not returned as an error.
func buildHandler(ctx context.Context, cfg *config.Config) (*handler.Handler, *ocr.Shared) {
	opts := cfg.GetOCROptions()
	ocrLog := logger.WithComponent("ocr")

	engines := ocr.NewShared(func(ctx context.Context) (ocr.Engine, error) {
		return ocr.NewEngine(ctx, opts, ocrLog)
	}, ocrLog)
	_ = engines.Init(ctx)

	extractor := pdf.NewExtractor(pdf.Open, logger.WithComponent("pdf"))
	runner := ocr.NewRunner(engines, pdf.Open, opts, ocrLog)

	return handler.New(extractor, runner, logger.WithComponent("handler")), engines
}
