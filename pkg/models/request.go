package models

// ResponseStatusSuccess is the status field of every 200 response.
const ResponseStatusSuccess = "success"

// ParseRequest is the inbound request body.
type ParseRequest struct {
	PDFBase64 string `json:"pdf_base64"`
}

// ParseResponse is the body of a successful (200) response. Either result
// may carry a failure message in place of its payload.
type ParseResponse struct {
	Status        string      `json:"status"`
	ExtractedText TextOutcome `json:"extracted_text"`
	OCRResults    OCROutcome  `json:"ocr_results"`
}

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
