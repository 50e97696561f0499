package match

import "github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

// ColumnSummary aggregates match statistics for one configured column.
type ColumnSummary struct {
	// Column is the logical column name (reference side).
	Column string `json:"column"`
	// RefWithValue counts rows carrying a reference-side value.
	RefWithValue int `json:"refWithValue"`
	// CompWithValue counts rows carrying a comparison-side value.
	CompWithValue int `json:"compWithValue"`
	// Matched counts matched rows whose effective values are equal.
	Matched int `json:"matched"`
	// Differing counts matched rows whose effective values differ.
	Differing int `json:"differing"`
	// OnlyRefWithValue counts reference-only rows carrying a value.
	OnlyRefWithValue int `json:"onlyRefWithValue"`
	// OnlyCompWithValue counts comparison-only rows carrying a value.
	OnlyCompWithValue int `json:"onlyCompWithValue"`
	// Excluded marks columns dropped from the comparable set by rule.
	Excluded bool `json:"excluded,omitempty"`
}

// Summary aggregates global and per-column statistics for one generation.
type Summary struct {
	// TotalRows counts unified rows in the generation.
	TotalRows int `json:"totalRows"`
	// BothRows counts rows matched on both sides (merged rows included).
	BothRows int `json:"bothRows"`
	// MergedRows counts rows produced by duplicate-identity merging.
	MergedRows int `json:"mergedRows"`
	// OnlyRefRows counts reference-only rows.
	OnlyRefRows int `json:"onlyRefRows"`
	// OnlyCompRows counts comparison-only rows.
	OnlyCompRows int `json:"onlyCompRows"`
	// SecondaryMatches counts rows matched via the secondary key.
	SecondaryMatches int `json:"secondaryMatches"`
	// Columns holds per-column statistics in configuration order.
	Columns []ColumnSummary `json:"columns"`
}

// Summarize computes per-column and global statistics from a generation.
// Identity and secondary-key columns count as fully matching within rows
// that exist on both sides: their equality was a precondition of the match.
func Summarize(rows []*models.UnifiedRow, cfg *models.Config) *Summary {
	s := &Summary{TotalRows: len(rows)}

	for _, r := range rows {
		switch r.Status {
		case models.StatusBoth:
			s.BothRows++
		case models.StatusBothMerged:
			s.BothRows++
			s.MergedRows++
		case models.StatusOnlyRef:
			s.OnlyRefRows++
		case models.StatusOnlyComp:
			s.OnlyCompRows++
		}
		if r.SecondaryMatch {
			s.SecondaryMatches++
		}
	}

	eff := EffectiveMappings(cfg.Mappings, cfg.ColumnExclusion)
	effective := map[string]bool{}
	for _, e := range eff {
		effective[e.RefColumn] = true
	}

	for _, m := range cfg.Mappings {
		if !m.IsTarget && !m.IsPrimaryKey && !m.IsSecondaryKey {
			continue
		}
		cs := ColumnSummary{Column: m.RefColumn}
		if !effective[m.RefColumn] {
			cs.Excluded = true
			s.Columns = append(s.Columns, cs)
			continue
		}
		isKey := m.IsPrimaryKey || m.IsSecondaryKey

		for _, r := range rows {
			f := r.Field(m.RefColumn)
			if f == nil {
				continue
			}
			ref := f.EffectiveRef()
			comp := f.EffectiveComp()
			if ref != "" {
				cs.RefWithValue++
			}
			if comp != "" {
				cs.CompWithValue++
			}

			switch r.Status {
			case models.StatusBoth, models.StatusBothMerged:
				if isKey {
					cs.Matched++
				} else if f.Diff != nil && *f.Diff {
					cs.Differing++
				} else {
					cs.Matched++
				}
			case models.StatusOnlyRef:
				if ref != "" {
					cs.OnlyRefWithValue++
				}
			case models.StatusOnlyComp:
				if comp != "" {
					cs.OnlyCompWithValue++
				}
			}
		}
		s.Columns = append(s.Columns, cs)
	}

	return s
}
