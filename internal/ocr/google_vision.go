package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

// GoogleVisionEngine implements Engine using Google Cloud Vision document
// text detection. Paragraphs are split into OCRLines at line-end breaks.
type GoogleVisionEngine struct {
	client       *vision.ImageAnnotatorClient
	languageHint string
	log          zerolog.Logger
}

// NewGoogleVisionEngine creates a new engine with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionEngine(ctx context.Context, opts Options, log zerolog.Logger) (*GoogleVisionEngine, error) {
	const op = "NewGoogleVisionEngine"

	clientOptions, err := googleClientOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "no credentials found in environment")
	}

	client, err := vision.NewImageAnnotatorClient(ctx, clientOptions...)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	log.Info().Str("language_hint", LanguageHint(opts.Language)).Msg("Google Vision engine ready")

	return &GoogleVisionEngine{
		client:       client,
		languageHint: LanguageHint(opts.Language),
		log:          log,
	}, nil
}

// googleClientOptions checks for inline credentials first, then a
// credentials file.
func googleClientOptions() ([]option.ClientOption, error) {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}, nil
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credFile)}, nil
	}
	return nil, ErrMissingCredentials
}

func (g *GoogleVisionEngine) Name() string { return EngineVision }

// Recognize runs DOCUMENT_TEXT_DETECTION on the page image.
func (g *GoogleVisionEngine) Recognize(ctx context.Context, img image.Image) ([]models.OCRLine, error) {
	const op = "Recognize"

	data, err := encodePNG(img)
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: []string{g.languageHint},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, NewOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, NewOCRError(op, ErrOCRFailed, "no response from Vision API")
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		return nil, NewOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", imageResp.Error.GetMessage()))
	}
	return linesFromVision(imageResp.FullTextAnnotation), nil
}

// linesFromVision splits every paragraph into text lines at the breaks Vision
// reports at line ends. A line's polygon is the union of its symbol boxes and
// its confidence is the mean symbol confidence.
func linesFromVision(annotation *visionpb.TextAnnotation) []models.OCRLine {
	lines := []models.OCRLine{}
	if annotation == nil {
		return lines
	}
	for _, page := range annotation.Pages {
		for _, block := range page.Blocks {
			for _, paragraph := range block.Paragraphs {
				lines = appendParagraphLines(lines, paragraph)
			}
		}
	}
	return lines
}

// visionLine accumulates the symbols of one line.
type visionLine struct {
	text    strings.Builder
	box     image.Rectangle
	hasBox  bool
	confSum float64
	symbols int
}

func (l *visionLine) add(symbol *visionpb.Symbol, fallback *visionpb.BoundingPoly) {
	l.text.WriteString(symbol.Text)
	l.confSum += float64(symbol.Confidence)
	l.symbols++

	box, ok := visionRect(symbol.BoundingBox)
	if !ok {
		box, ok = visionRect(fallback)
	}
	if !ok {
		return
	}
	if l.hasBox {
		l.box.Min.X = min(l.box.Min.X, box.Min.X)
		l.box.Min.Y = min(l.box.Min.Y, box.Min.Y)
		l.box.Max.X = max(l.box.Max.X, box.Max.X)
		l.box.Max.Y = max(l.box.Max.Y, box.Max.Y)
	} else {
		l.box, l.hasBox = box, true
	}
}

// flush appends the accumulated line, if it has text, and resets l.
func (l *visionLine) flush(lines []models.OCRLine) []models.OCRLine {
	text := strings.TrimSpace(l.text.String())
	if text != "" {
		coords := [][2]float64{}
		if l.hasBox {
			coords = rectPolygon(l.box)
		}
		lines = append(lines, models.OCRLine{
			Coords:     coords,
			Text:       text,
			Confidence: l.confSum / float64(l.symbols),
		})
	}
	*l = visionLine{}
	return lines
}

func appendParagraphLines(lines []models.OCRLine, paragraph *visionpb.Paragraph) []models.OCRLine {
	var line visionLine
	for _, word := range paragraph.Words {
		for _, symbol := range word.Symbols {
			line.add(symbol, word.BoundingBox)
			if symbol.Property == nil || symbol.Property.DetectedBreak == nil {
				continue
			}
			switch symbol.Property.DetectedBreak.Type {
			case visionpb.TextAnnotation_DetectedBreak_SPACE,
				visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
				line.text.WriteString(" ")
			case visionpb.TextAnnotation_DetectedBreak_HYPHEN:
				line.text.WriteString("-")
				lines = line.flush(lines)
			case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
				visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
				lines = line.flush(lines)
			}
		}
	}
	return line.flush(lines)
}

// visionRect returns the axis-aligned bounds of poly. Vision omits zero
// coordinates, so missing vertices read as 0.
func visionRect(poly *visionpb.BoundingPoly) (image.Rectangle, bool) {
	if poly == nil || len(poly.Vertices) == 0 {
		return image.Rectangle{}, false
	}
	first := poly.Vertices[0]
	r := image.Rect(int(first.GetX()), int(first.GetY()), int(first.GetX()), int(first.GetY()))
	for _, v := range poly.Vertices[1:] {
		x, y := int(v.GetX()), int(v.GetY())
		r.Min.X = min(r.Min.X, x)
		r.Min.Y = min(r.Min.Y, y)
		r.Max.X = max(r.Max.X, x)
		r.Max.Y = max(r.Max.Y, y)
	}
	return r, true
}

// Close closes the underlying Vision client.
func (g *GoogleVisionEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
