// Package textenc prepares text for the PDF's cp1252 core fonts.
// The interchange JSON keeps full UTF-8; only the document renderer routes
// text through here. Losing exotic characters is an accepted degradation.
package textenc

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation maps "smart" punctuation onto plain equivalents.
var punctuation = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"–", "-", // en dash
	"—", "--", // em dash
	"…", "...", // horizontal ellipsis
	" ", " ", // non-breaking space
)

// foldMarks decomposes accented characters and drops the combining marks,
// so "Résumé" degrades to "Resume" instead of "R?sum?".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize maps smart punctuation onto plain equivalents, folds diacritics,
// and substitutes anything the output font still cannot represent. It never
// fails; unrepresentable runes become '?'.
func Normalize(s string) string {
	s = punctuation.Replace(s)
	if ascii(s) {
		return s
	}
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func ascii(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
