// Package handler implements the request contract of the PDF parsing
// function: validate and decode the base64 payload, run text extraction and
// OCR, and map the outcome to a status code and JSON body.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/logger"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

// Error messages returned to the caller.
const (
	MsgMissingPDF       = "Missing pdf_base64 in input data"
	MsgInvalidBase64    = "Invalid Base64 string"
	FunctionErrorPrefix = "Function error: "
)

var errNotObject = errors.New("request body must be a JSON object")

// TextExtractor extracts the embedded text layer of a PDF.
type TextExtractor interface {
	ExtractText(data []byte) models.TextOutcome
}

// OCRRunner rasterizes and recognizes every page of a PDF.
type OCRRunner interface {
	Run(ctx context.Context, data []byte) models.OCROutcome
}

// Response is a status code with a serialized JSON body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Handler holds no per-request state and is safe for concurrent use when
// its collaborators are.
type Handler struct {
	text TextExtractor
	ocr  OCRRunner
	log  zerolog.Logger
}

// New creates a Handler.
func New(text TextExtractor, ocr OCRRunner, log zerolog.Logger) *Handler {
	return &Handler{text: text, ocr: ocr, log: log}
}

// Handle runs the full request contract over a raw JSON body.
func (h *Handler) Handle(ctx context.Context, body []byte) (resp Response) {
	log := logger.FromContext(ctx, h.log)

	defer func() {
		if r := recover(); r != nil {
			resp = functionError(log, fmt.Errorf("panic: %v", r))
		}
	}()

	value, present, err := pdfField(body)
	if err != nil {
		return functionError(log, err)
	}
	if !present || isFalsy(value) {
		log.Warn().Msg(MsgMissingPDF)
		return errorResponse(http.StatusBadRequest, MsgMissingPDF)
	}
	encoded, ok := value.(string)
	if !ok {
		return functionError(log, fmt.Errorf("pdf_base64 must be a string, got %T", value))
	}

	data, err := DecodeBase64(encoded)
	if err != nil {
		log.Warn().Err(err).Msg(MsgInvalidBase64)
		return errorResponse(http.StatusBadRequest, MsgInvalidBase64)
	}

	log.Info().Int("pdf_bytes", len(data)).Msg("Processing PDF")

	result := models.ParseResponse{
		Status:        models.ResponseStatusSuccess,
		ExtractedText: h.text.ExtractText(data),
		OCRResults:    h.ocr.Run(ctx, data),
	}

	out, err := json.Marshal(result)
	if err != nil {
		return functionError(log, err)
	}

	log.Info().
		Bool("text_failed", result.ExtractedText.Failed()).
		Bool("ocr_failed", result.OCRResults.Failed()).
		Int("pages", len(result.OCRResults.Pages)).
		Msg("PDF processed")
	return Response{StatusCode: http.StatusOK, Body: out}
}

// pdfField parses body as a JSON object and returns its pdf_base64 value.
func pdfField(body []byte) (value any, present bool, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false, err
	}
	if fields == nil {
		return nil, false, errNotObject
	}
	raw, present := fields["pdf_base64"]
	if !present {
		return nil, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// isFalsy treats null, "", false, 0 and empty containers as absent.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// DecodeBase64 decodes standard padded base64, ignoring whitespace such as
// the line breaks of MIME-wrapped input.
func DecodeBase64(s string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(compact)
}

func functionError(log zerolog.Logger, err error) Response {
	log.Error().Err(err).Msg("Function error")
	return errorResponse(http.StatusInternalServerError, FunctionErrorPrefix+err.Error())
}

func errorResponse(status int, message string) Response {
	body, err := json.Marshal(models.ErrorResponse{Error: message})
	if err != nil {
		body = []byte(`{"error":"Function error"}`)
	}
	return Response{StatusCode: status, Body: body}
}
