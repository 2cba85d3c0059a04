package handler_test

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/handler"
	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/pkg/models"
)

type staticText string

func (s staticText) ExtractText([]byte) models.TextOutcome {
	return models.ExtractedText(string(s))
}

type staticOCR []models.PageOCR

func (s staticOCR) Run(context.Context, []byte) models.OCROutcome {
	return models.OCRSucceeded(s)
}

func ExampleHandler_Handle() {
	h := handler.New(staticText("Hello"), staticOCR{{Page: 1}}, zerolog.Nop())

	resp := h.Handle(context.Background(), []byte(`{"pdf_base64":"JVBERi0xLjQ="}`))
	fmt.Println(resp.StatusCode)
	fmt.Println(string(resp.Body))

	resp = h.Handle(context.Background(), []byte(`{}`))
	fmt.Println(resp.StatusCode)
	fmt.Println(string(resp.Body))
	// Output:
	// 200
	// {"status":"success","extracted_text":"Hello","ocr_results":[{"page":1,"results":[]}]}
	// 400
	// {"error":"Missing pdf_base64 in input data"}
}
