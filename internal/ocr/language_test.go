package ocr

import "testing"

func TestLanguageMapping(t *testing.T) {
	tests := []struct {
		lang          string
		wantTesseract string
		wantHint      string
	}{
		{"japan", "jpn", "ja"},
		{"Japanese", "jpn", "ja"},
		{"en", "eng", "en"},
		{"ch", "chi_sim", "zh"},
		{"korean", "kor", "ko"},
		{"jpn_vert", "jpn_vert", "jpn_vert"},
	}
	for _, tt := range tests {
		if got := TesseractLanguage(tt.lang); got != tt.wantTesseract {
			t.Errorf("TesseractLanguage(%q) = %q, want %q", tt.lang, got, tt.wantTesseract)
		}
		if got := LanguageHint(tt.lang); got != tt.wantHint {
			t.Errorf("LanguageHint(%q) = %q, want %q", tt.lang, got, tt.wantHint)
		}
	}
}
