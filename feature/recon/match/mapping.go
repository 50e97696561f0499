package match

import "github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

// EffectiveMappings derives the effective set of columns to compare from
// the user-declared correspondence table and the column exclusion rules.
//
// Identity entries (primary or secondary key) are always retained. Other
// entries survive only if they are comparison targets, are not placeholder
// headers (when that exclusion is on), and match no exclusion pattern.
// Order is preserved.
func EffectiveMappings(mappings []models.MappingEntry, ex models.ColumnExclusion) []models.MappingEntry {
	out := make([]models.MappingEntry, 0, len(mappings))
	for _, m := range mappings {
		if m.IsPrimaryKey || m.IsSecondaryKey {
			out = append(out, m)
			continue
		}
		if !m.IsTarget {
			continue
		}
		if ex.ExcludeUnnamedPlaceholders && IsPlaceholderHeader(m.RefColumn) {
			continue
		}
		if matchesAny(m.RefColumn, ex.Patterns) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if MatchesPattern(s, p) {
			return true
		}
	}
	return false
}
