package domain

// languageNames maps the language codes the remote service hands out to
// human-readable names for status lines.
var languageNames = map[string]string{
	"en": "English",
	"mr": "Marathi",
	"ur": "Urdu",
	"ar": "Arabic",
	"zh": "Mandarin Chinese",
	"id": "Indonesian",
	"vi": "Vietnamese",
	"tr": "Turkish",
	"ru": "Russian",
	"pt": "Portuguese",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"ko": "Korean",
	"ja": "Japanese",
	"hi": "Hindi",
}

// LanguageName returns the display name for a language code, or the
// code itself when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
