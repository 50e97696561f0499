package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

func TestSummarize(t *testing.T) {
	cfg := testConfig()
	ref := []models.RawRow{
		{"TAG": "0-001", "DESC": "Pump A", "Vendor": "ACME"},
		{"TAG": "0-002", "DESC": "Valve"},
	}
	comp := []models.RawRow{
		{"TAG": "0-001", "DESC": "Pump B", "Vendor": "ACME"},
		{"TAG": "0-003", "DESC": "Filter"},
	}

	rows, err := Run(cfg, ref, comp)
	require.NoError(t, err)

	s := Summarize(rows, cfg)
	assert.Equal(t, 3, s.TotalRows)
	assert.Equal(t, 1, s.BothRows)
	assert.Equal(t, 1, s.OnlyRefRows)
	assert.Equal(t, 1, s.OnlyCompRows)
	assert.Equal(t, 0, s.MergedRows)

	byCol := map[string]ColumnSummary{}
	for _, c := range s.Columns {
		byCol[c.Column] = c
	}

	// identity column counts as fully matched inside Both rows
	assert.Equal(t, 1, byCol["TAG"].Matched)
	assert.Equal(t, 0, byCol["TAG"].Differing)

	assert.Equal(t, 0, byCol["DESC"].Matched)
	assert.Equal(t, 1, byCol["DESC"].Differing)
	assert.Equal(t, 1, byCol["DESC"].OnlyRefWithValue)
	assert.Equal(t, 1, byCol["DESC"].OnlyCompWithValue)

	assert.Equal(t, 1, byCol["Vendor"].Matched)
	assert.Equal(t, 1, byCol["Vendor"].RefWithValue)
	assert.Equal(t, 1, byCol["Vendor"].CompWithValue)
}

func TestSummarizeExcludedColumn(t *testing.T) {
	cfg := testConfig()
	cfg.ColumnExclusion.Patterns = []string{"vendor"}

	rows, err := Run(cfg, []models.RawRow{{"TAG": "0-001"}}, nil)
	require.NoError(t, err)

	s := Summarize(rows, cfg)
	var vendor *ColumnSummary
	for i := range s.Columns {
		if s.Columns[i].Column == "Vendor" {
			vendor = &s.Columns[i]
		}
	}
	require.NotNil(t, vendor)
	assert.True(t, vendor.Excluded)
	assert.Zero(t, vendor.RefWithValue)
}
