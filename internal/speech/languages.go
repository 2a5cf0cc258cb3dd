package speech

import "strings"

// Language is a selectable recognition language.
type Language struct {
	Label string
	Code  string
}

// Languages lists the recognition languages offered by the chat UI.
var Languages = []Language{
	{Label: "English (US)", Code: "en-US"},
	{Label: "English (UK)", Code: "en-GB"},
	{Label: "French", Code: "fr-FR"},
	{Label: "Arabic", Code: "ar-SA"},
	{Label: "Spanish", Code: "es-ES"},
	{Label: "German", Code: "de-DE"},
	{Label: "Italian", Code: "it-IT"},
	{Label: "Portuguese", Code: "pt-PT"},
	{Label: "Yoruba", Code: "yo-NG"},
	{Label: "Igbo", Code: "ig-NG"},
	{Label: "Hausa", Code: "ha-NG"},
}

// LookupLanguage finds a language by code, case-insensitively.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range Languages {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// NextLanguage returns the language after code in Languages, wrapping
// around. Unknown codes start from the first entry.
func NextLanguage(code string) Language {
	for i, l := range Languages {
		if strings.EqualFold(l.Code, code) {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return Languages[0]
}

// ISO639 reduces a BCP-47 tag such as "en-US" to its language subtag.
func ISO639(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
