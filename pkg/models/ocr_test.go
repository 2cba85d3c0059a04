package models

import (
	"encoding/json"
	"testing"
)

func TestOCROutcomeMarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		outcome OCROutcome
		want    string
	}{
		{
			name:    "failure renders as string",
			outcome: OCRFailed("OCR error: boom"),
			want:    `"OCR error: boom"`,
		},
		{
			name:    "nil pages render as empty array",
			outcome: OCRSucceeded(nil),
			want:    `[]`,
		},
		{
			name: "page without lines keeps empty results",
			outcome: OCRSucceeded([]PageOCR{
				{Page: 1},
			}),
			want: `[{"page":1,"results":[]}]`,
		},
		{
			name: "lines",
			outcome: OCRSucceeded([]PageOCR{
				{Page: 1, Results: []OCRLine{{
					Coords:     [][2]float64{{1, 2}, {3, 2}, {3, 4}, {1, 4}},
					Text:       "HELLO",
					Confidence: 0.75,
				}}},
			}),
			want: `[{"page":1,"results":[{"coords":[[1,2],[3,2],[3,4],[1,4]],"text":"HELLO","confidence":0.75}]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.outcome)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTextOutcome(t *testing.T) {
	ok := ExtractedText("HELLO")
	if ok.Failed() || ok.String() != "HELLO" {
		t.Errorf("ExtractedText() = %+v", ok)
	}

	failed := TextFailed("Text extraction error: broken")
	if !failed.Failed() {
		t.Errorf("TextFailed().Failed() = false, want true")
	}

	got, err := json.Marshal(ParseResponse{
		Status:        ResponseStatusSuccess,
		ExtractedText: failed,
		OCRResults:    OCRFailed("OCR unavailable: initialization failed"),
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"status":"success","extracted_text":"Text extraction error: broken","ocr_results":"OCR unavailable: initialization failed"}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
