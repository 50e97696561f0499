package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "plain", in: "0-001", want: "0-001"},
		{name: "surrounding whitespace", in: "  0-001  ", want: "0-001"},
		{name: "inner runs collapse", in: "PT \t 1001", want: "PT 1001"},
		{name: "control characters", in: "PT\r\n1001", want: "PT 1001"},
		{name: "numeric cell", in: float64(42), want: "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "0-001", KeyPrefix("0-001"))
	assert.Equal(t, "0-001", KeyPrefix("0-001"+models.MergeSeparator+"0-002"))
	assert.Equal(t, "", KeyPrefix("   "))
}

func TestValueAt(t *testing.T) {
	row := models.RawRow{"Tag No.": "PT-1001", "DESC": "Pump"}

	assert.Equal(t, "PT-1001", ValueAt(row, "Tag No."))

	// fuzzy fallback ignores punctuation and case
	assert.Equal(t, "PT-1001", ValueAt(row, "TAGNO"))

	assert.Equal(t, "", ValueAt(row, "missing"))
}

func TestEffectiveValueAt(t *testing.T) {
	row := models.RawRow{
		"DESC":                       "",
		"DESC" + models.ReviewSuffix: "Pump B",
		"Vendor":                     "ACME",
	}

	assert.Equal(t, "Pump B", EffectiveValueAt(row, "DESC"))
	assert.Equal(t, "ACME", EffectiveValueAt(row, "Vendor"))
	assert.Equal(t, "", EffectiveValueAt(row, "missing"))
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		pattern string
		want    bool
	}{
		{name: "substring case-insensitive", value: "Unnamed: 3", pattern: "unnamed", want: true},
		{name: "substring miss", value: "DESC", pattern: "unnamed", want: false},
		{name: "regex anchored", value: "X-900", pattern: "/^X/", want: true},
		{name: "regex miss", value: "AX-900", pattern: "/^X/", want: false},
		{name: "invalid regex never matches", value: "X", pattern: "/[/", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPattern(tt.value, tt.pattern))
		})
	}
}

func TestIsPlaceholderHeader(t *testing.T) {
	assert.True(t, IsPlaceholderHeader("Unnamed: 3"))
	assert.True(t, IsPlaceholderHeader("Column12"))
	assert.True(t, IsPlaceholderHeader("field_7"))
	assert.False(t, IsPlaceholderHeader("DESC"))
	assert.False(t, IsPlaceholderHeader("Column"))
}
