package commit

import (
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/match"

	"github.com/xuri/excelize/v2"
)

// System sheets this engine owns inside a target document. They are never
// scanned for rows and never indexed.
const (
	AddedItemsSheet   = "Added Items"
	NeedsConfirmSheet = "Needs Confirmation"
)

// headerScanDepth bounds the fallback header search when the configured
// header row doesn't carry the wanted column.
const headerScanDepth = 100

// location addresses one row of one sheet inside a document.
type location struct {
	Sheet string
	Row   int // 1-based
}

// docIndex maps identity values to row locations, both exactly (normalized)
// and aggressively folded. First occurrence wins.
type docIndex struct {
	exact  map[string]location
	folded map[string]location
}

func (ix *docIndex) add(value string, loc location) {
	if k := match.NormalizeKey(value); k != "" {
		if _, ok := ix.exact[k]; !ok {
			ix.exact[k] = loc
		}
	}
	if k := foldKey(value); k != "" {
		if _, ok := ix.folded[k]; !ok {
			ix.folded[k] = loc
		}
	}
}

func isSystemSheet(name string) bool {
	return name == AddedItemsSheet || name == NeedsConfirmSheet
}

// buildIndex scans every non-system sheet of a document for a column whose
// header satisfies headerMatch, and indexes every value beneath it. The
// header is looked for on the configured header row first, then within the
// first hundred rows.
func buildIndex(f *excelize.File, headerRow int, headerMatch func(string) bool) *docIndex {
	ix := &docIndex{
		exact:  map[string]location{},
		folded: map[string]location{},
	}

	for _, sheet := range f.GetSheetList() {
		if isSystemSheet(sheet) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		hr, hc := findHeader(rows, headerRow, headerMatch)
		if hc < 0 {
			continue
		}
		for r := hr + 1; r < len(rows); r++ {
			if hc >= len(rows[r]) {
				continue
			}
			ix.add(rows[r][hc], location{Sheet: sheet, Row: r + 1})
		}
	}
	return ix
}

// findHeader returns the 0-based (row, col) of the first cell satisfying
// headerMatch, preferring the configured header row. (-1, -1) when absent.
func findHeader(rows [][]string, headerRow int, headerMatch func(string) bool) (int, int) {
	if headerRow >= 1 && headerRow <= len(rows) {
		for c, cell := range rows[headerRow-1] {
			if headerMatch(cell) {
				return headerRow - 1, c
			}
		}
	}
	depth := headerScanDepth
	if depth > len(rows) {
		depth = len(rows)
	}
	for r := 0; r < depth; r++ {
		if r == headerRow-1 {
			continue
		}
		for c, cell := range rows[r] {
			if headerMatch(cell) {
				return r, c
			}
		}
	}
	return -1, -1
}

// integratedKeyHeader recognizes the "integrated key" concept column in a
// foreign document, tolerating naming drift.
func integratedKeyHeader(name string) bool {
	switch foldKey(name) {
	case "integratedkey", "integrationkey", "unifiedkey":
		return true
	}
	return false
}

// namedHeader builds a matcher for a specific configured column name.
func namedHeader(want string) func(string) bool {
	folded := foldKey(want)
	return func(name string) bool {
		return folded != "" && foldKey(name) == folded
	}
}
