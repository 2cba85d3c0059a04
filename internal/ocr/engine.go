package ocr

import (
	"context"

	"github.com/rs/zerolog"
)

// NewEngine builds the engine selected by opts.Engine. EngineNone returns
// ErrEngineDisabled so the service runs with OCR unavailable.
func NewEngine(ctx context.Context, opts Options, log zerolog.Logger) (Engine, error) {
	const op = "NewEngine"

	if opts.UseGPU {
		log.Warn().Str("engine", opts.Engine).Msg("GPU acceleration requested but not supported, running on CPU")
	}

	switch opts.Engine {
	case EngineTesseract, "":
		engine, err := NewTesseractEngine(opts, log)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineVision:
		engine, err := NewGoogleVisionEngine(ctx, opts, log)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineDocumentAI:
		engine, err := NewDocumentAIEngine(ctx, opts, log)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineNone:
		return nil, NewOCRError(op, ErrEngineDisabled, "")
	default:
		return nil, NewOCRError(op, ErrUnsupportedEngine, opts.Engine)
	}
}
