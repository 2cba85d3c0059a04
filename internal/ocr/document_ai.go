package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

// DocumentAIEngine implements Engine with a Document AI OCR processor.
// Document AI reports text lines directly, each with a layout confidence.
type DocumentAIEngine struct {
	client        *documentai.DocumentProcessorClient
	processorName string
	log           zerolog.Logger
}

// NewDocumentAIEngine creates an engine for the processor named in opts.
func NewDocumentAIEngine(ctx context.Context, opts Options, log zerolog.Logger) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if opts.GoogleCloudProject == "" || opts.DocumentAIProcessorID == "" {
		return nil, NewOCRError(op, ErrEngineUnavailable, "GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID are required")
	}
	location := opts.GoogleCloudLocation
	if location == "" {
		location = "us"
	}

	clientOptions, err := googleClientOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "no credentials found in environment")
	}
	// Set regional endpoint if not us
	if location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", location))
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", opts.GoogleCloudProject, location, opts.DocumentAIProcessorID)
	log.Info().Str("processor", name).Msg("Document AI engine ready")

	return &DocumentAIEngine{client: client, processorName: name, log: log}, nil
}

func (d *DocumentAIEngine) Name() string { return EngineDocumentAI }

// Recognize sends the page image as a raw PNG document.
func (d *DocumentAIEngine) Recognize(ctx context.Context, img image.Image) ([]models.OCRLine, error) {
	const op = "Recognize"

	data, err := encodePNG(img)
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "image/png",
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, NewOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}
	return linesFromDocument(resp.GetDocument()), nil
}

// linesFromDocument resolves each line's text anchor against the document
// text; anchor indices count characters, not bytes. Normalized vertices are
// scaled by the page dimension when absolute vertices are missing.
func linesFromDocument(doc *documentaipb.Document) []models.OCRLine {
	lines := []models.OCRLine{}
	if doc == nil {
		return lines
	}
	text := []rune(doc.Text)
	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			layout := line.GetLayout()
			lineText := strings.TrimSpace(anchorText(text, layout.GetTextAnchor()))
			if lineText == "" {
				continue
			}
			lines = append(lines, models.OCRLine{
				Coords:     documentPolygon(layout.GetBoundingPoly(), page.GetDimension()),
				Text:       lineText,
				Confidence: float64(layout.GetConfidence()),
			})
		}
	}
	return lines
}

func anchorText(text []rune, anchor *documentaipb.Document_TextAnchor) string {
	var out strings.Builder
	for _, segment := range anchor.GetTextSegments() {
		start, end := int(segment.GetStartIndex()), int(segment.GetEndIndex())
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		out.WriteString(string(text[start:end]))
	}
	return out.String()
}

func documentPolygon(poly *documentaipb.BoundingPoly, dim *documentaipb.Document_Page_Dimension) [][2]float64 {
	coords := [][2]float64{}
	if vertices := poly.GetVertices(); len(vertices) > 0 {
		for _, v := range vertices {
			coords = append(coords, [2]float64{float64(v.GetX()), float64(v.GetY())})
		}
		return coords
	}
	width, height := float64(dim.GetWidth()), float64(dim.GetHeight())
	for _, v := range poly.GetNormalizedVertices() {
		coords = append(coords, [2]float64{float64(v.GetX()) * width, float64(v.GetY()) * height})
	}
	return coords
}

// Close closes the underlying Document AI client.
func (d *DocumentAIEngine) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
