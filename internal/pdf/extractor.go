package pdf

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

const (
	// NoTextExtracted is returned when the document has no text layer.
	NoTextExtracted = "No text extracted"

	// TextErrorPrefix prefixes the message returned when extraction fails.
	TextErrorPrefix = "Text extraction error: "
)

// Extractor reads the embedded text layer of a PDF.
type Extractor struct {
	open Opener
	log  zerolog.Logger
}

// NewExtractor creates an Extractor. A nil opener defaults to Open.
func NewExtractor(open Opener, log zerolog.Logger) *Extractor {
	if open == nil {
		open = Open
	}
	return &Extractor{open: open, log: log}
}

// ExtractText concatenates the text of every page in order and trims the
// result. Failures never escape: they are returned as a failed outcome whose
// message starts with TextErrorPrefix.
func (e *Extractor) ExtractText(data []byte) (outcome models.TextOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = e.failed(fmt.Errorf("panic: %v", r))
		}
	}()

	text, err := e.readText(data)
	if err != nil {
		return e.failed(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		e.log.Debug().Msg("Document has no text layer")
		return models.ExtractedText(NoTextExtracted)
	}

	e.log.Debug().Int("text_length", len(text)).Msg("Text extracted")
	return models.ExtractedText(text)
}

func (e *Extractor) readText(data []byte) (string, error) {
	doc, err := e.open(data)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := doc.Close(); closeErr != nil {
			e.log.Warn().Err(closeErr).Msg("Failed to close PDF document")
		}
	}()

	var text strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			return "", NewPDFError("Text", i, ErrPageText, err)
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

func (e *Extractor) failed(err error) models.TextOutcome {
	e.log.Error().Err(err).Msg("Text extraction error")
	return models.TextFailed(TextErrorPrefix + err.Error())
}
