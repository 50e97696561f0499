package commit

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// stripMarks decomposes to NFKD and removes combining marks, so accented
// and half-width forms compare equal to their plain counterparts.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey aggressively normalizes an identity for document lookup:
// diacritics, width variants, case and punctuation are all erased, leaving
// only lower-cased letters and digits. Foreign-authored documents rarely
// agree on any of those.
func foldKey(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = width.Fold.String(out)

	var b strings.Builder
	for _, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
