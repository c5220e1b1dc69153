package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// stressMarker is the syllable separator the dictionary embeds in headwords
// and stems ("con*tex*tu*al").
const stressMarker = "*"

// DisplayForm strips stress markers, applies Unicode NFC and trims the result.
func DisplayForm(raw string) string {
	s := strings.ReplaceAll(raw, stressMarker, "")
	s = norm.NFC.String(s)
	return strings.TrimSpace(s)
}

// CompareKey is the case-insensitive key used for every equality and lookup
// comparison between user input, stems and semantic records.
func CompareKey(raw string) string {
	return strings.ToLower(DisplayForm(raw))
}

// CaseKey lowercases the display form of raw but keeps an uppercase first
// letter when the input started with one. Capitalization anywhere else in user
// input is not trusted.
func CaseKey(raw string) string {
	d := DisplayForm(raw)
	if d == "" {
		return ""
	}
	lower := strings.ToLower(d)
	if !StartsUpper(d) {
		return lower
	}
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

// StartsUpper reports whether s begins with an ASCII uppercase letter.
func StartsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// StartsLower reports whether s begins with an ASCII lowercase letter.
func StartsLower(s string) bool {
	return s != "" && s[0] >= 'a' && s[0] <= 'z'
}
