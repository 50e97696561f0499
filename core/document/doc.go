// Package document is the parsing boundary between xlsx workbooks and the
// reconciliation core.
//
// It materializes one sheet into a Table of RawRow mappings (column name to
// scalar value) plus a per-cell comment map. Untyped workbook cells are
// modeled as a tagged variant (CellValue) inside this package only; plain
// scalars are all that cross the boundary.
package document
