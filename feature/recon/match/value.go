package match

import (
	"strconv"
	"strings"
)

// IsMatch decides semantic equality between two raw cell values.
//
// Both values are normalized and lower-cased; string equality wins
// immediately. Otherwise comma thousands-separators are stripped and both
// sides must parse as numbers; numeric comparison is exact, with no
// tolerance. "1,000" equals "1000" and "1" equals "1.0", while "A" vs "B"
// stays unequal.
func IsMatch(a, b any) bool {
	// Numeric scalars straight from the parser skip the string round trip.
	// Strings never take this shortcut: textual values that happen to
	// parse ("NaN") must compare as text first.
	if fa, ok := numericScalar(a); ok {
		if fb, ok := numericScalar(b); ok {
			return fa == fb
		}
	}

	sa := strings.ToLower(NormalizeKey(a))
	sb := strings.ToLower(NormalizeKey(b))
	if sa == sb {
		return true
	}

	fa, errA := strconv.ParseFloat(strings.ReplaceAll(sa, ",", ""), 64)
	fb, errB := strconv.ParseFloat(strings.ReplaceAll(sb, ",", ""), 64)
	if errA != nil || errB != nil {
		return false
	}
	return fa == fb
}

// numericScalar accepts only genuinely numeric cell values, never strings.
func numericScalar(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
