package match

import (
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

// Run executes the matching algorithm over the two filtered datasets and
// produces a complete new generation of unified rows.
//
// Four principles apply in fixed order, each consuming only rows no earlier
// principle matched:
//  1. identity match on the primary key (merge-separator prefix compared)
//  2. secondary-key fallback, when a secondary key is configured
//  3. every remaining reference row becomes an OnlyRef row
//  4. every remaining comparison row becomes an OnlyComp row
//
// Matching is deterministic: rows are scanned in original order and the
// first not-yet-matched counterpart wins.
func Run(cfg *models.Config, refRows, compRows []models.RawRow) ([]*models.UnifiedRow, error) {
	if len(cfg.Mappings) == 0 {
		return nil, &models.ValidationError{Msg: "no column mappings configured"}
	}
	pm := cfg.PrimaryMapping()
	if pm == nil {
		return nil, &models.ValidationError{Msg: "no identity column selected"}
	}
	sm := cfg.SecondaryMapping()
	eff := EffectiveMappings(cfg.Mappings, cfg.ColumnExclusion)

	refRows = FilterRows(refRows, pm.RefColumn, cfg.LegacyMode, cfg.IdentityExclusion)
	compRows = FilterRows(compRows, pm.CompColumn, cfg.LegacyMode, cfg.IdentityExclusion)

	matchedRef := make([]bool, len(refRows))
	matchedComp := make([]bool, len(compRows))
	out := make([]*models.UnifiedRow, 0, len(refRows)+len(compRows))

	// Principle 1: identity match
	for i, rr := range refRows {
		key := KeyPrefix(EffectiveValueAt(rr, pm.RefColumn))
		if key == "" {
			continue
		}
		for j, cr := range compRows {
			if matchedComp[j] {
				continue
			}
			if KeyPrefix(EffectiveValueAt(cr, pm.CompColumn)) == key {
				matchedRef[i], matchedComp[j] = true, true
				out = append(out, buildBoth(rr, cr, eff, pm, sm, false))
				break
			}
		}
	}

	// Principle 2: secondary-key fallback (no separator splitting)
	if sm != nil {
		for i, rr := range refRows {
			if matchedRef[i] {
				continue
			}
			key := NormalizeKey(EffectiveValueAt(rr, sm.RefColumn))
			if key == "" {
				continue
			}
			for j, cr := range compRows {
				if matchedComp[j] {
					continue
				}
				if NormalizeKey(EffectiveValueAt(cr, sm.CompColumn)) == key {
					matchedRef[i], matchedComp[j] = true, true
					out = append(out, buildBoth(rr, cr, eff, pm, sm, true))
					break
				}
			}
		}
	}

	// Principle 3: reference-only rows
	for i, rr := range refRows {
		if !matchedRef[i] {
			out = append(out, buildSingle(rr, nil, eff, pm, sm))
		}
	}

	// Principle 4: comparison-only rows
	for j, cr := range compRows {
		if !matchedComp[j] {
			out = append(out, buildSingle(nil, cr, eff, pm, sm))
		}
	}

	return out, nil
}

// buildBoth assembles a unified row for a matched pair, computing per-field
// diff flags for every non-identity column.
func buildBoth(rr, cr models.RawRow, eff []models.MappingEntry, pm, sm *models.MappingEntry, secondary bool) *models.UnifiedRow {
	refID := NormalizeKey(EffectiveValueAt(rr, pm.RefColumn))
	compID := NormalizeKey(EffectiveValueAt(cr, pm.CompColumn))

	row := &models.UnifiedRow{
		IntegratedKey:    IntegratedKey(refID, compID),
		Status:           models.StatusBoth,
		StandardIdentity: firstNonEmpty(refID, compID),
		SecondaryMatch:   secondary,
	}
	if sm != nil {
		row.StandardSecondary = firstNonEmpty(
			NormalizeKey(EffectiveValueAt(rr, sm.RefColumn)),
			NormalizeKey(EffectiveValueAt(cr, sm.CompColumn)),
		)
	}

	for _, e := range eff {
		f := &models.Field{
			Base:       e.RefColumn,
			RefValue:   NormalizeKey(ValueAt(rr, e.RefColumn)),
			RefReview:  NormalizeKey(ValueAt(rr, e.RefColumn+models.ReviewSuffix)),
			CompValue:  NormalizeKey(ValueAt(cr, e.CompColumn)),
			CompReview: NormalizeKey(ValueAt(cr, e.CompColumn+models.ReviewSuffix)),
		}
		if !e.IsPrimaryKey && !e.IsSecondaryKey {
			d := !IsMatch(f.EffectiveRef(), f.EffectiveComp())
			f.Diff = &d
		}
		row.Fields = append(row.Fields, f)
	}
	return row
}

// buildSingle assembles a unified row for a row present on one side only.
// Exactly one of rr, cr is non-nil.
func buildSingle(rr, cr models.RawRow, eff []models.MappingEntry, pm, sm *models.MappingEntry) *models.UnifiedRow {
	row := &models.UnifiedRow{}

	if rr != nil {
		refID := NormalizeKey(EffectiveValueAt(rr, pm.RefColumn))
		row.Status = models.StatusOnlyRef
		row.IntegratedKey = IntegratedKey(refID, "")
		row.StandardIdentity = refID
		if sm != nil {
			row.StandardSecondary = NormalizeKey(EffectiveValueAt(rr, sm.RefColumn))
		}
	} else {
		compID := NormalizeKey(EffectiveValueAt(cr, pm.CompColumn))
		row.Status = models.StatusOnlyComp
		row.IntegratedKey = IntegratedKey("", compID)
		row.StandardIdentity = compID
		if sm != nil {
			row.StandardSecondary = NormalizeKey(EffectiveValueAt(cr, sm.CompColumn))
		}
	}

	for _, e := range eff {
		f := &models.Field{Base: e.RefColumn}
		if rr != nil {
			f.RefValue = NormalizeKey(ValueAt(rr, e.RefColumn))
			f.RefReview = NormalizeKey(ValueAt(rr, e.RefColumn+models.ReviewSuffix))
		} else {
			f.CompValue = NormalizeKey(ValueAt(cr, e.CompColumn))
			f.CompReview = NormalizeKey(ValueAt(cr, e.CompColumn+models.ReviewSuffix))
		}
		row.Fields = append(row.Fields, f)
	}
	return row
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
