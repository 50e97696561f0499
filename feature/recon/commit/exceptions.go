package commit

import (
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

	"github.com/xuri/excelize/v2"
)

// ExceptionColumn is one reviewed column of an unresolved row whose value
// differs from the original.
type ExceptionColumn struct {
	// Column is the document-side column name.
	Column string `json:"column"`
	// Value is the reviewed value that could not be applied.
	Value string `json:"value"`
}

// Exception is an unresolved row reduced to what a human needs to confirm:
// the identity, its status, a general remark, and only the columns whose
// reviewed value actually differs. Never the full row.
type Exception struct {
	// Key is the row's integrated key.
	Key string `json:"key"`
	// Status is the row's exists status.
	Status models.ExistsStatus `json:"status"`
	// Remark is the row's general remark, when a remark column exists.
	Remark string `json:"remark,omitempty"`
	// Columns lists the differing reviewed columns.
	Columns []ExceptionColumn `json:"columns,omitempty"`
}

// newException reduces a row and its pending edits to an exception entry.
// Edits whose reviewed value equals the original are left out.
func newException(row *models.UnifiedRow, side Side, edits []edit) Exception {
	ex := Exception{
		Key:    row.IntegratedKey,
		Status: row.Status,
		Remark: rowRemark(row, side),
	}
	for _, ed := range edits {
		if strings.TrimSpace(ed.reviewed) == strings.TrimSpace(ed.original) {
			continue
		}
		ex.Columns = append(ex.Columns, ExceptionColumn{Column: ed.column, Value: ed.reviewed})
	}
	return ex
}

// writeExceptions renders a side's exceptions into the document's
// "needs confirmation" sheet. Column order mirrors the configured
// comparison-column order; columns no exception populated are dropped.
func writeExceptions(f *excelize.File, side Side, cfg *models.Config, exceptions []Exception) error {
	if idx, err := f.GetSheetIndex(NeedsConfirmSheet); err != nil {
		return err
	} else if idx >= 0 {
		// Stale from a previous run
		if err := f.DeleteSheet(NeedsConfirmSheet); err != nil {
			return err
		}
	}
	if _, err := f.NewSheet(NeedsConfirmSheet); err != nil {
		return err
	}

	// Keep only configured columns at least one exception populated.
	populated := map[string]bool{}
	for _, ex := range exceptions {
		for _, c := range ex.Columns {
			if strings.TrimSpace(c.Value) != "" {
				populated[c.Column] = true
			}
		}
	}
	var columns []string
	for _, m := range cfg.Mappings {
		if !m.IsTarget && !m.IsPrimaryKey && !m.IsSecondaryKey {
			continue
		}
		if name := sideName(&m, side); populated[name] {
			columns = append(columns, name)
		}
	}

	headers := append([]string{"Integrated Key", "Status", "Remark"}, columns...)
	if err := setRow(f, NeedsConfirmSheet, 1, headers); err != nil {
		return err
	}

	for i, ex := range exceptions {
		byColumn := map[string]string{}
		for _, c := range ex.Columns {
			byColumn[c.Column] = c.Value
		}
		values := []string{ex.Key, string(ex.Status), ex.Remark}
		for _, name := range columns {
			values = append(values, byColumn[name])
		}
		if err := setRow(f, NeedsConfirmSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}
