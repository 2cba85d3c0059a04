package models

import "encoding/json"

// OCRLine is a single text line detected on a rendered page.
type OCRLine struct {
	// Coords is the bounding polygon in rendered-pixel coordinates, clockwise
	// from the top-left corner.
	Coords [][2]float64 `json:"coords"`

	// Text is the recognized line content.
	Text string `json:"text"`

	// Confidence is the engine score for the line (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// PageOCR pairs a 1-based page number with the lines detected on that page.
type PageOCR struct {
	Page    int       `json:"page"`
	Results []OCRLine `json:"results"`
}

// MarshalJSON renders an empty page as "results": [] rather than null.
func (p PageOCR) MarshalJSON() ([]byte, error) {
	type page PageOCR
	out := page(p)
	if out.Results == nil {
		out.Results = []OCRLine{}
	}
	return json.Marshal(out)
}

// TextOutcome is the result of embedded text extraction: either the text
// itself or a failure message that is sent in its place.
type TextOutcome struct {
	Text    string
	Failure string
}

// ExtractedText returns a successful TextOutcome.
func ExtractedText(text string) TextOutcome {
	return TextOutcome{Text: text}
}

// TextFailed returns a TextOutcome carrying a failure message.
func TextFailed(message string) TextOutcome {
	return TextOutcome{Failure: message}
}

// Failed reports whether extraction failed.
func (o TextOutcome) Failed() bool { return o.Failure != "" }

// String returns the value sent on the wire.
func (o TextOutcome) String() string {
	if o.Failed() {
		return o.Failure
	}
	return o.Text
}

// MarshalJSON encodes the outcome as a plain JSON string.
func (o TextOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// OCROutcome is the result of the rasterize-then-OCR pipeline: either one
// PageOCR per page in document order, or a failure message.
type OCROutcome struct {
	Pages   []PageOCR
	Failure string
}

// OCRSucceeded returns a successful OCROutcome.
func OCRSucceeded(pages []PageOCR) OCROutcome {
	return OCROutcome{Pages: pages}
}

// OCRFailed returns an OCROutcome carrying a failure message.
func OCRFailed(message string) OCROutcome {
	return OCROutcome{Failure: message}
}

// Failed reports whether the OCR pipeline failed.
func (o OCROutcome) Failed() bool { return o.Failure != "" }

// MarshalJSON encodes a failure as a JSON string and a success as an array.
func (o OCROutcome) MarshalJSON() ([]byte, error) {
	if o.Failed() {
		return json.Marshal(o.Failure)
	}
	if o.Pages == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Pages)
}
