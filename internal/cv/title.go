package cv

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackTitle derives a display title from a section or field id:
// workExperience, work_experience and work-experience all become
// "Work Experience". An id without any word characters is returned as is,
// or as "Section" when blank.
func FallbackTitle(id string) string {
	words := splitWords(id)
	if len(words) == 0 {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
		return "Section"
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// splitWords breaks an identifier at separators and lower-to-upper case
// transitions.
func splitWords(id string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(id)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}
