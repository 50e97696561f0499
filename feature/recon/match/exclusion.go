package match

import (
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

// FilterRows removes rows from a dataset based on the identity exclusion
// policy, before any matching happens.
//
// A row is dropped when its normalized identity value is empty, when legacy
// mode is on and the value lacks the reserved prefix, when the leading-alpha
// rule applies, or when any custom pattern matches the upper-cased value.
func FilterRows(rows []models.RawRow, identityColumn string, legacyMode bool, ex models.IdentityExclusion) []models.RawRow {
	out := make([]models.RawRow, 0, len(rows))
	for _, row := range rows {
		v := NormalizeKey(ValueAt(row, identityColumn))
		if v == "" {
			// Empty after normalization never survives, with or without
			// the excludeEmpty rule.
			continue
		}
		if legacyMode && !strings.HasPrefix(v, LegacyReservedPrefix) {
			continue
		}
		if ex.ExcludeLeadingAlpha && isASCIILetter(v[0]) {
			continue
		}
		if matchesAny(strings.ToUpper(v), ex.CustomPatterns) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
