package feedback

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// similarity returns 0..1 based on edit distance between normalized
// transliterations.
func similarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	longest := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(na, nb))/float64(longest)
}

// normalize lowercases, drops punctuation and spaces, and folds common
// transliteration variants (doubled vowels, apostrophes for hamza).
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	for _, pair := range [][2]string{{"aa", "a"}, {"ee", "i"}, {"ii", "i"}, {"oo", "u"}, {"uu", "u"}} {
		out = strings.ReplaceAll(out, pair[0], pair[1])
	}
	return out
}
