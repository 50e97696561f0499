package document

import (
	"strconv"
	"strings"
)

// Kind discriminates the cell value variants a workbook can hand us.
type Kind int

const (
	// KindEmpty is an absent or blank cell.
	KindEmpty Kind = iota
	// KindText is a plain string cell (including rich-text runs, which
	// excelize flattens to their concatenated text).
	KindText
	// KindNumber is a numeric cell or a formula with a numeric result.
	KindNumber
	// KindBool is a boolean cell.
	KindBool
	// KindHyperlink is a cell carrying a hyperlink with display text.
	KindHyperlink
)

// CellValue is the tagged variant produced at the parsing boundary.
// It never leaks past this package: Scalar() collapses it to the plain
// scalar the reconciliation core consumes.
type CellValue struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	// Target is the hyperlink destination, when Kind is KindHyperlink.
	Target string
}

// Scalar returns the plain value (string, float64, bool or nil) for a cell.
// Hyperlinks collapse to their display text.
func (v CellValue) Scalar() any {
	switch v.Kind {
	case KindEmpty:
		return nil
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	default:
		return v.Text
	}
}

// classify turns the raw cell text excelize yields into a typed variant.
func classify(raw string) CellValue {
	if raw == "" {
		return CellValue{Kind: KindEmpty}
	}
	switch raw {
	case "TRUE":
		return CellValue{Kind: KindBool, Bool: true, Text: raw}
	case "FALSE":
		return CellValue{Kind: KindBool, Bool: false, Text: raw}
	}
	// Treat as numeric only when the text round-trips: identifiers with
	// leading zeros ("001") must survive as text.
	trimmed := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if strconv.FormatFloat(f, 'f', -1, 64) == trimmed {
			return CellValue{Kind: KindNumber, Number: f, Text: raw}
		}
	}
	return CellValue{Kind: KindText, Text: raw}
}
