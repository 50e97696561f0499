package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

	"github.com/xuri/excelize/v2"
)

// CellRef addresses a cell by 1-based row and column index.
type CellRef struct {
	Row int
	Col int
}

// Table is the materialized form of one sheet: a header list plus one
// RawRow per data row, and any per-cell annotations (comments) found.
type Table struct {
	// Sheet is the resolved sheet name.
	Sheet string
	// HeaderRow is the 1-based row the headers were read from.
	HeaderRow int
	// Headers lists the column names in sheet order. Blank headers are
	// replaced with generated "ColumnN" placeholders.
	Headers []string
	// Rows holds one RawRow per data row below the header.
	Rows []models.RawRow
	// Comments maps cell positions to their comment text.
	Comments map[CellRef]string
}

// Options selects which sheet and header row to materialize.
type Options struct {
	// Sheet is the sheet name. Empty selects by SheetIndex.
	Sheet string
	// SheetIndex is the 0-based sheet index used when Sheet is empty.
	SheetIndex int
	// HeaderRow is the 1-based header row. Zero defaults to 1.
	HeaderRow int
}

// Parse materializes one sheet of an xlsx workbook into a Table.
// Cell values pass through the tagged CellValue variant and leave this
// package as plain scalars only.
func Parse(data []byte, opts Options) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f, opts)
	if err != nil {
		return nil, err
	}

	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < headerRow {
		return nil, &models.ValidationError{Msg: fmt.Sprintf("sheet %s has no header row %d", sheet, headerRow)}
	}

	headers := buildHeaders(rows[headerRow-1])

	table := &Table{
		Sheet:     sheet,
		HeaderRow: headerRow,
		Headers:   headers,
		Comments:  map[CellRef]string{},
	}

	for r := headerRow; r < len(rows); r++ {
		raw := models.RawRow{}
		empty := true
		for c, name := range headers {
			var text string
			if c < len(rows[r]) {
				text = rows[r][c]
			}
			cv := classify(text)
			if cv.Kind == KindEmpty {
				continue
			}
			// Hyperlinks collapse to display text; fetch the target so the
			// variant is complete, then discard it with Scalar().
			if link, target, err := f.GetCellHyperLink(sheet, mustCell(c+1, r+1)); err == nil && link {
				cv = CellValue{Kind: KindHyperlink, Text: cv.Text, Target: target}
			}
			raw[name] = cv.Scalar()
			empty = false
		}
		if !empty {
			table.Rows = append(table.Rows, raw)
		}
	}

	// Per-cell annotations, keyed by (row, col)
	comments, err := f.GetComments(sheet)
	if err == nil {
		for _, cm := range comments {
			col, row, err := excelize.CellNameToCoordinates(cm.Cell)
			if err != nil {
				continue
			}
			table.Comments[CellRef{Row: row, Col: col}] = commentText(cm)
		}
	}

	return table, nil
}

// resolveSheet picks the requested sheet, failing with a ValidationError
// when it doesn't exist.
func resolveSheet(f *excelize.File, opts Options) (string, error) {
	list := f.GetSheetList()
	if len(list) == 0 {
		return "", &models.ValidationError{Msg: "workbook has no sheets"}
	}
	if opts.Sheet == "" {
		if opts.SheetIndex < 0 || opts.SheetIndex >= len(list) {
			return "", &models.ValidationError{Msg: fmt.Sprintf("sheet index %d out of range", opts.SheetIndex)}
		}
		return list[opts.SheetIndex], nil
	}
	for _, name := range list {
		if name == opts.Sheet {
			return name, nil
		}
	}
	return "", &models.ValidationError{Msg: fmt.Sprintf("sheet %q not found", opts.Sheet)}
}

// buildHeaders derives the column names from the header row. Blank headers
// receive generated placeholder names so downstream exclusion rules can
// recognize and drop them.
func buildHeaders(cells []string) []string {
	headers := make([]string, len(cells))
	seen := map[string]int{}
	for i, h := range cells {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column%d", i+1)
		}
		// Duplicate headers get a numeric suffix so RawRow keys stay unique.
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s (%d)", name, n+1)
		} else {
			seen[name] = 1
		}
		headers[i] = name
	}
	return headers
}

func commentText(cm excelize.Comment) string {
	if cm.Text != "" {
		return cm.Text
	}
	var b strings.Builder
	for _, p := range cm.Paragraph {
		b.WriteString(p.Text)
	}
	return b.String()
}

func mustCell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
