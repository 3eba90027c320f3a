package wordreference

import "sort"

// Languages holds every language the WordReference API accepts, by code
var Languages = map[string]string{
	"ar": "Arabic",
	"zh": "Chinese",
	"cz": "Czech",
	"en": "English",
	"fr": "French",
	"gr": "Greek",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"es": "Spanish",
	"tr": "Turkish",
}

// IsSupported reports whether code is in the language catalog
func IsSupported(code string) bool {
	_, ok := Languages[code]
	return ok
}

// LanguageCodes returns sorted catalog codes
func LanguageCodes() []string {
	codes := make([]string, 0, len(Languages))
	for code := range Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Pair returns dictionary code used in URLs, e.g. "iten"
func Pair(from string, to string) string {
	return from + to
}
