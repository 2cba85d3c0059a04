package ocr

import (
	"reflect"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func box(x0, y0, x1, y1 int32) *visionpb.BoundingPoly {
	return &visionpb.BoundingPoly{Vertices: []*visionpb.Vertex{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}
}

func symbol(text string, conf float32, poly *visionpb.BoundingPoly, brk visionpb.TextAnnotation_DetectedBreak_BreakType) *visionpb.Symbol {
	s := &visionpb.Symbol{Text: text, Confidence: conf, BoundingBox: poly}
	if brk != visionpb.TextAnnotation_DetectedBreak_UNKNOWN {
		s.Property = &visionpb.TextAnnotation_TextProperty{
			DetectedBreak: &visionpb.TextAnnotation_DetectedBreak{Type: brk},
		}
	}
	return s
}

func TestLinesFromVision(t *testing.T) {
	const (
		none      = visionpb.TextAnnotation_DetectedBreak_UNKNOWN
		space     = visionpb.TextAnnotation_DetectedBreak_SPACE
		eolSpace  = visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE
		lineBreak = visionpb.TextAnnotation_DetectedBreak_LINE_BREAK
	)

	annotation := &visionpb.TextAnnotation{
		Pages: []*visionpb.Page{{
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{
					{
						// Two lines in one paragraph.
						Words: []*visionpb.Word{
							{Symbols: []*visionpb.Symbol{
								symbol("H", 0.9, box(10, 20, 20, 40), none),
								symbol("i", 0.7, box(20, 22, 26, 40), space),
							}},
							{Symbols: []*visionpb.Symbol{
								symbol("日", 0.8, box(30, 18, 50, 41), none),
								symbol("本", 0.6, box(50, 18, 70, 41), eolSpace),
							}},
							{
								BoundingBox: box(10, 50, 60, 70),
								Symbols: []*visionpb.Symbol{
									symbol("O", 0.5, nil, none),
									symbol("K", 0.5, nil, lineBreak),
								},
							},
						},
					},
					{
						Words: []*visionpb.Word{{Symbols: []*visionpb.Symbol{
							symbol(" ", 0.1, nil, none),
						}}},
					},
				},
			}},
		}},
	}

	lines := linesFromVision(annotation)
	if len(lines) != 2 {
		t.Fatalf("linesFromVision() = %d lines (%+v), want 2", len(lines), lines)
	}

	if lines[0].Text != "Hi 日本" {
		t.Errorf("lines[0].Text = %q, want %q", lines[0].Text, "Hi 日本")
	}
	if got := lines[0].Confidence; got < 0.7499 || got > 0.7501 {
		t.Errorf("lines[0].Confidence = %v, want 0.75", got)
	}
	wantFirst := [][2]float64{{10, 18}, {70, 18}, {70, 41}, {10, 41}}
	if !reflect.DeepEqual(lines[0].Coords, wantFirst) {
		t.Errorf("lines[0].Coords = %v, want %v", lines[0].Coords, wantFirst)
	}

	// Symbols without boxes fall back to the word box.
	if lines[1].Text != "OK" {
		t.Errorf("lines[1].Text = %q, want %q", lines[1].Text, "OK")
	}
	wantSecond := [][2]float64{{10, 50}, {60, 50}, {60, 70}, {10, 70}}
	if !reflect.DeepEqual(lines[1].Coords, wantSecond) {
		t.Errorf("lines[1].Coords = %v, want %v", lines[1].Coords, wantSecond)
	}
}

func TestLinesFromVisionEmpty(t *testing.T) {
	lines := linesFromVision(nil)
	if lines == nil || len(lines) != 0 {
		t.Errorf("linesFromVision(nil) = %#v, want empty slice", lines)
	}
}
