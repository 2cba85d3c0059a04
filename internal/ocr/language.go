package ocr

import "strings"

// languageCodes maps short language names such as "japan" or "en" to tesseract
// traineddata names and BCP-47 hints for the Google engines.
var languageCodes = map[string]struct{ tesseract, bcp47 string }{
	"japan":       {"jpn", "ja"},
	"japanese":    {"jpn", "ja"},
	"ja":          {"jpn", "ja"},
	"en":          {"eng", "en"},
	"english":     {"eng", "en"},
	"ch":          {"chi_sim", "zh"},
	"chinese":     {"chi_sim", "zh"},
	"chinese_cht": {"chi_tra", "zh-Hant"},
	"korean":      {"kor", "ko"},
	"ko":          {"kor", "ko"},
	"german":      {"deu", "de"},
	"de":          {"deu", "de"},
	"french":      {"fra", "fr"},
	"fr":          {"fra", "fr"},
}

// TesseractLanguage returns the traineddata name for lang. Unknown names
// are passed through so installed custom models can be used directly.
func TesseractLanguage(lang string) string {
	if codes, ok := languageCodes[strings.ToLower(lang)]; ok {
		return codes.tesseract
	}
	return lang
}

// LanguageHint returns the BCP-47 hint for lang, passing unknown names through.
func LanguageHint(lang string) string {
	if codes, ok := languageCodes[strings.ToLower(lang)]; ok {
		return codes.bcp47
	}
	return lang
}
