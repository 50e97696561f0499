package match

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/byehanchoi-cmyk/io-xl-web/core/utils"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

// LegacyReservedPrefix is the identity prefix legacy-mode filtering keeps.
// Legacy extracts tag their rows "0-xxx"; rows without the prefix are
// header artifacts or free-form notes.
const LegacyReservedPrefix = "0-"

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeKey canonicalizes a raw cell value into a comparable string:
// control characters become spaces, whitespace runs collapse to one space,
// and the result is trimmed. nil converts to the empty string.
func NormalizeKey(v any) string {
	s := utils.ToString(v)
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// KeyPrefix normalizes an identity value and keeps only the part before the
// merge separator, so merged identities still match their first component.
func KeyPrefix(v any) string {
	s := NormalizeKey(v)
	if i := strings.Index(s, models.MergeSeparator); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// ValueAt looks a column up inside a row, tolerating header drift between
// documents: the exact name is tried first, then every row key and the
// target are folded (non-alphanumerics stripped, lower-cased) and the first
// folded match wins. Keys are scanned in sorted order so the lookup is
// deterministic.
func ValueAt(row models.RawRow, column string) string {
	if v, ok := row[column]; ok {
		return utils.ToString(v)
	}
	want := foldName(column)
	if want == "" {
		return ""
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if foldName(k) == want {
			return utils.ToString(row[k])
		}
	}
	return ""
}

// EffectiveValueAt is ValueAt with review fallback: when the primary value
// is blank, the review-suffixed variant of the column is consulted. This
// lets a resumed review session keep matching on reviewer-entered values.
func EffectiveValueAt(row models.RawRow, column string) string {
	v := ValueAt(row, column)
	if NormalizeKey(v) != "" {
		return v
	}
	return ValueAt(row, column+models.ReviewSuffix)
}

// foldName reduces a column name for fuzzy comparison: every rune that is
// not a letter or digit is dropped and the rest is lower-cased. Letters of
// any script survive, so native-script headers compare fine.
func foldName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// MatchesPattern applies one exclusion pattern to s: a pattern wrapped in
// slashes is a full regex, anything else a case-insensitive literal
// substring. Invalid regexes never match.
func MatchesPattern(s, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return false
		}
		return re.MatchString(s)
	}
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(pattern))
}

var placeholderHeader = regexp.MustCompile(`(?i)^(column|field|unnamed)[ _:]*\d+$`)

// IsPlaceholderHeader reports whether a column name looks auto-generated
// ("Column13", "Unnamed: 2", "field_7").
func IsPlaceholderHeader(name string) bool {
	return placeholderHeader.MatchString(strings.TrimSpace(name))
}
