package pdf

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yan-linfeng/fn-pdf-parser-with-ocr/internal/pdf/pdftest"
)

func TestOpenAndExtract(t *testing.T) {
	e := NewExtractor(Open, zerolog.Nop())

	t.Run("single page", func(t *testing.T) {
		got := e.ExtractText(pdftest.Build("HELLO"))
		if got.Failed() || got.String() != "HELLO" {
			t.Errorf("ExtractText() = %q, want %q", got.String(), "HELLO")
		}
	})

	t.Run("image only pages", func(t *testing.T) {
		got := e.ExtractText(pdftest.Build("", ""))
		if got.String() != NoTextExtracted {
			t.Errorf("ExtractText() = %q, want %q", got.String(), NoTextExtracted)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := e.ExtractText(nil)
		if !got.Failed() {
			t.Errorf("ExtractText(nil) = %q, want failure", got.String())
		}
	})
}

func TestOpenRender(t *testing.T) {
	doc, err := Open(pdftest.Build("A", "B", "C"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()

	if got := doc.NumPage(); got != 3 {
		t.Fatalf("NumPage() = %d, want 3", got)
	}

	img, err := doc.ImageDPI(0, 300)
	if err != nil {
		t.Fatalf("ImageDPI() error = %v", err)
	}
	// 612x792pt at 300/72 scale.
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 2550 || h != 3300 {
		t.Errorf("ImageDPI() size = %dx%d, want 2550x3300", w, h)
	}
}

func TestOpenInvalid(t *testing.T) {
	_, err := Open(nil)
	if !errors.Is(err, ErrOpenDocument) {
		t.Errorf("Open(nil) error = %v, want ErrOpenDocument", err)
	}
}
