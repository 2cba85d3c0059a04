package ocr

import (
	"context"
	"fmt"
	"image"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

// TesseractEngine implements Engine with a single gosseract client.
// The native client is not safe for concurrent use, so recognition calls
// are serialized.
type TesseractEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
	lang   string
	log    zerolog.Logger
}

// NewTesseractEngine verifies the language model is installed and configures
// a client for it.
func NewTesseractEngine(opts Options, log zerolog.Logger) (*TesseractEngine, error) {
	const op = "NewTesseractEngine"

	lang := TesseractLanguage(opts.Language)
	installed, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to list tesseract languages")
	}
	if !slices.Contains(installed, lang) {
		return nil, NewOCRError(op, ErrLanguageUnavailable, fmt.Sprintf("traineddata %q not installed", lang))
	}

	client := gosseract.NewClient()
	if err := configureClient(client, lang, opts); err != nil {
		client.Close()
		return nil, WrapOCRError(op, err, "failed to configure tesseract client")
	}

	log.Info().
		Str("version", client.Version()).
		Str("language", lang).
		Bool("angle_cls", opts.AngleClassification).
		Msg("Tesseract engine ready")

	return &TesseractEngine{client: client, lang: lang, log: log}, nil
}

func configureClient(client *gosseract.Client, lang string, opts Options) error {
	if err := client.SetLanguage(lang); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	// PSM_AUTO_OSD adds orientation and script detection to layout analysis.
	mode := gosseract.PSM_AUTO
	if opts.AngleClassification {
		mode = gosseract.PSM_AUTO_OSD
	}
	if err := client.SetPageSegMode(mode); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if opts.DPI > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(opts.DPI)); err != nil {
			return fmt.Errorf("set dpi: %w", err)
		}
	}
	return nil
}

func (e *TesseractEngine) Name() string { return EngineTesseract }

// Recognize returns one OCRLine per tesseract text line.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]models.OCRLine, error) {
	const op = "Recognize"

	data, err := encodePNG(img)
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return nil, NewOCRError(op, ErrOCRFailed, fmt.Sprintf("set image: %v", err))
	}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, NewOCRError(op, ErrOCRFailed, fmt.Sprintf("text lines: %v", err))
	}
	return linesFromBoxes(boxes), nil
}

// linesFromBoxes converts tesseract boxes; confidences arrive as 0-100.
func linesFromBoxes(boxes []gosseract.BoundingBox) []models.OCRLine {
	lines := make([]models.OCRLine, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, models.OCRLine{
			Coords:     rectPolygon(b.Box),
			Text:       text,
			Confidence: b.Confidence / 100.0,
		})
	}
	return lines
}

// Close releases the native client.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
