package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewEngineErrors(t *testing.T) {
	t.Setenv("GOOGLE_CREDENTIALS", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{name: "disabled", opts: Options{Engine: EngineNone}, want: ErrEngineDisabled},
		{name: "unknown", opts: Options{Engine: "paddle"}, want: ErrUnsupportedEngine},
		{name: "vision without credentials", opts: Options{Engine: EngineVision, Language: "japan"}, want: ErrMissingCredentials},
		{name: "documentai without processor", opts: Options{Engine: EngineDocumentAI, GoogleCloudProject: "p"}, want: ErrEngineUnavailable},
		{name: "documentai without credentials", opts: Options{Engine: EngineDocumentAI, GoogleCloudProject: "p", DocumentAIProcessorID: "abc"}, want: ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(context.Background(), tt.opts, zerolog.Nop())
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewEngine() error = %v, want %v", err, tt.want)
			}
			if engine != nil {
				t.Errorf("NewEngine() engine = %v, want nil", engine)
			}
		})
	}
}

func TestOCRErrorWrap(t *testing.T) {
	err := WrapOCRError("Recognize", ErrOCRFailed, "page 1")
	if got, want := err.Error(), "ocr: Recognize failed: page 1: OCR processing failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if again := WrapOCRError("Other", err, ""); again != err {
		t.Errorf("WrapOCRError() rewrapped an OCRError")
	}
	if WrapOCRError("Nil", nil, "") != nil {
		t.Errorf("WrapOCRError(nil) != nil")
	}
}
