package commit

import (
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/match"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

	"github.com/xuri/excelize/v2"
)

// rowResolver is one strategy in the row resolution cascade. Strategies
// run in order; the first success wins.
type rowResolver interface {
	name() string
	resolve(row *models.UnifiedRow) (location, bool)
}

// resolution reports where a row was found and which strategy found it.
type resolution struct {
	location
	Strategy string
}

// indexResolver resolves against a prebuilt document index, either on the
// exact or the folded key form.
type indexResolver struct {
	strategy string
	index    *docIndex
	fold     bool
	keyOf    func(*models.UnifiedRow) string
}

func (r *indexResolver) name() string { return r.strategy }

func (r *indexResolver) resolve(row *models.UnifiedRow) (location, bool) {
	key := r.keyOf(row)
	if key == "" {
		return location{}, false
	}
	if r.fold {
		loc, ok := r.index.folded[foldKey(key)]
		return loc, ok
	}
	loc, ok := r.index.exact[match.NormalizeKey(key)]
	return loc, ok
}

// deepScanResolver is the last resort: a linear scan of every cell of every
// non-system sheet for a folded match.
type deepScanResolver struct {
	file  *excelize.File
	keyOf func(*models.UnifiedRow) string
}

func (r *deepScanResolver) name() string { return "deep-scan" }

func (r *deepScanResolver) resolve(row *models.UnifiedRow) (location, bool) {
	key := foldKey(r.keyOf(row))
	if key == "" {
		return location{}, false
	}
	for _, sheet := range r.file.GetSheetList() {
		if isSystemSheet(sheet) {
			continue
		}
		rows, err := r.file.GetRows(sheet)
		if err != nil {
			continue
		}
		// GetRows already bounds each row to its populated cell range.
		for ri, cells := range rows {
			for _, cell := range cells {
				if foldKey(cell) == key {
					return location{Sheet: sheet, Row: ri + 1}, true
				}
			}
		}
	}
	return location{}, false
}

// newResolverChain assembles the cascade for one document side:
// integrated-key exact, integrated-key folded, primary-identity exact,
// primary-identity folded, then the deep scan.
func newResolverChain(f *excelize.File, keyIndex, idIndex *docIndex) []rowResolver {
	integratedKey := func(r *models.UnifiedRow) string { return r.IntegratedKey }
	identity := func(r *models.UnifiedRow) string {
		if r.StandardIdentity != "" {
			return r.StandardIdentity
		}
		return r.IntegratedKey
	}
	return []rowResolver{
		&indexResolver{strategy: "key-exact", index: keyIndex, keyOf: integratedKey},
		&indexResolver{strategy: "key-normalized", index: keyIndex, fold: true, keyOf: integratedKey},
		&indexResolver{strategy: "identity-exact", index: idIndex, keyOf: identity},
		&indexResolver{strategy: "identity-normalized", index: idIndex, fold: true, keyOf: identity},
		&deepScanResolver{file: f, keyOf: integratedKey},
	}
}

// resolveRow runs the cascade. The zero resolution with ok=false means
// every strategy was exhausted.
func resolveRow(chain []rowResolver, row *models.UnifiedRow) (resolution, bool) {
	for _, r := range chain {
		if loc, ok := r.resolve(row); ok {
			return resolution{location: loc, Strategy: r.name()}, true
		}
	}
	return resolution{}, false
}

// resolveColumn locates a header in a sheet's header row: exact name match
// first, then folded-name match, then "either name contains the other".
// Returns the 1-based column index, or 0 when no header resolves.
func resolveColumn(f *excelize.File, sheet string, headerRow int, name string) int {
	rows, err := f.GetRows(sheet)
	if err != nil || headerRow < 1 || headerRow > len(rows) {
		return 0
	}
	headers := rows[headerRow-1]

	for c, h := range headers {
		if strings.TrimSpace(h) == strings.TrimSpace(name) {
			return c + 1
		}
	}
	want := foldKey(name)
	if want == "" {
		return 0
	}
	for c, h := range headers {
		if foldKey(h) == want {
			return c + 1
		}
	}
	for c, h := range headers {
		have := foldKey(h)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return c + 1
		}
	}
	return 0
}
