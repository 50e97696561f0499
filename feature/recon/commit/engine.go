package commit

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/core/storage"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/review"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Side selects which original document a commit run targets.
type Side string

const (
	// SideRef is the reference document.
	SideRef Side = "ref"
	// SideComp is the comparison document.
	SideComp Side = "comp"
)

// Options tunes one commit run.
type Options struct {
	// HeaderRow is the 1-based header row of the target documents.
	// Zero defaults to 1.
	HeaderRow int
	// HighlightColor is the RGB fill applied to changed cells.
	// Empty defaults to yellow.
	HighlightColor string
	// DryRun performs resolution and reporting without persisting bytes.
	DryRun bool
}

func (o Options) headerRow() int {
	if o.HeaderRow <= 0 {
		return 1
	}
	return o.HeaderRow
}

func (o Options) highlight() string {
	if o.HighlightColor == "" {
		return "FFFF00"
	}
	return o.HighlightColor
}

// Report accumulates the per-side outcome counts of a commit run.
type Report struct {
	// Updated counts cells overwritten with a reviewed value.
	Updated int `json:"updated"`
	// Identical counts cells whose reviewed value already matched.
	Identical int `json:"identical"`
	// Unresolved counts rows the resolution cascade could not locate.
	Unresolved int `json:"unresolved"`
	// Deleted counts rows struck through on a delete marker.
	Deleted int `json:"deleted"`
	// Added counts rows appended to the added-items sheet.
	Added int `json:"added"`
	// Exceptions lists the unresolved rows, reduced to their essentials.
	Exceptions []Exception `json:"exceptions,omitempty"`
}

// Result is one side's commit outcome. A fatal document error leaves
// Report nil; partial success keeps the report alongside a nil error.
type Result struct {
	Report *Report
	Err    error
}

// Engine locates previously-matched rows inside the two original external
// documents and writes back only reviewed, changed cells.
type Engine struct {
	store  storage.Store
	logger *zap.Logger
}

// NewEngine creates a commit engine over the given document store.
func NewEngine(store storage.Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// CommitPair runs the commit independently against both documents. A fatal
// failure on one side never aborts or rolls back the other; the two writes
// are not transactional as a pair.
func (e *Engine) CommitPair(ctx context.Context, refPath, compPath string, rows []*models.UnifiedRow, cfg *models.Config, opts Options) (Result, Result) {
	var ref, comp Result
	ref.Report, ref.Err = e.commitSide(ctx, refPath, SideRef, rows, cfg, opts)
	comp.Report, comp.Err = e.commitSide(ctx, compPath, SideComp, rows, cfg, opts)
	return ref, comp
}

// edit is one reviewer-changed cell pending write-back.
type edit struct {
	base     string
	column   string // document-side column name
	original string
	reviewed string
}

func (e *Engine) commitSide(ctx context.Context, path string, side Side, rows []*models.UnifiedRow, cfg *models.Config, opts Options) (*Report, error) {
	if cfg.PrimaryMapping() == nil {
		return nil, &models.ValidationError{Msg: "no identity column selected"}
	}

	data, err := e.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := e.store.EnsureWritable(ctx, path); err != nil {
		return nil, &DocumentLockError{Path: path, Err: err}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DocumentFormatError{Path: path, Err: err}
	}
	defer f.Close()

	headerRow := opts.headerRow()
	pm := cfg.PrimaryMapping()
	keyIndex := buildIndex(f, headerRow, integratedKeyHeader)
	idIndex := buildIndex(f, headerRow, namedHeader(sideName(pm, side)))
	chain := newResolverChain(f, keyIndex, idIndex)
	st := newStyleSet(f, opts.highlight())

	report := &Report{}

	for _, row := range rows {
		edits := sideEdits(row, side, cfg)
		if len(edits) == 0 && row.Mark == models.MarkNone {
			continue
		}

		if row.Mark == models.MarkAdd {
			if err := appendAddedRow(f, row, side, cfg); err != nil {
				return nil, err
			}
			report.Added++
			continue
		}

		res, ok := resolveRow(chain, row)
		if !ok {
			report.Unresolved++
			report.Exceptions = append(report.Exceptions, newException(row, side, edits))
			continue
		}
		if res.Strategy == "deep-scan" {
			e.logger.Warn("row recovered via deep scan",
				zap.String("side", string(side)),
				zap.String("key", row.IntegratedKey),
				zap.String("sheet", res.Sheet),
				zap.Int("row", res.Row))
		}

		if row.Mark == models.MarkDelete {
			if err := strikeRow(f, st, res.Sheet, res.Row); err != nil {
				return nil, err
			}
			report.Deleted++
			continue
		}

		var dropped []edit
		for _, ed := range edits {
			col := resolveColumn(f, res.Sheet, headerRow, ed.column)
			if col == 0 {
				// Header unresolvable: the edit is not applied but still
				// surfaces in the exceptions report.
				dropped = append(dropped, ed)
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col, res.Row)
			if err != nil {
				return nil, err
			}
			current, err := f.GetCellValue(res.Sheet, cell)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(current) != strings.TrimSpace(ed.reviewed) {
				if err := f.SetCellValue(res.Sheet, cell, ed.reviewed); err != nil {
					return nil, err
				}
				if err := f.SetCellStyle(res.Sheet, cell, cell, st.highlight()); err != nil {
					return nil, err
				}
				report.Updated++
			} else {
				// Reviewed value already present: clear any stale change
				// highlight from an earlier run.
				if err := f.SetCellStyle(res.Sheet, cell, cell, 0); err != nil {
					return nil, err
				}
				report.Identical++
			}
		}
		if len(dropped) > 0 {
			report.Exceptions = append(report.Exceptions, newException(row, side, dropped))
		}
	}

	if len(report.Exceptions) > 0 {
		if err := writeExceptions(f, side, cfg, report.Exceptions); err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		return report, nil
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document %s: %w", path, err)
	}
	if err := e.store.Write(ctx, path, buf.Bytes()); err != nil {
		return nil, err
	}
	return report, nil
}

// sideName returns a mapping's column name on the given document side.
func sideName(m *models.MappingEntry, side Side) string {
	if side == SideRef {
		return m.RefColumn
	}
	return m.CompColumn
}

// sideEdits collects the reviewer-changed columns of a row for one side,
// in effective mapping order.
func sideEdits(row *models.UnifiedRow, side Side, cfg *models.Config) []edit {
	eff := effectiveByBase(cfg)
	var edits []edit
	for _, f := range row.Fields {
		m, ok := eff[f.Base]
		if !ok {
			continue
		}
		var original, reviewed string
		if side == SideRef {
			original, reviewed = f.RefValue, f.RefReview
		} else {
			original, reviewed = f.CompValue, f.CompReview
		}
		if strings.TrimSpace(reviewed) == "" {
			continue
		}
		edits = append(edits, edit{
			base:     f.Base,
			column:   sideName(&m, side),
			original: original,
			reviewed: reviewed,
		})
	}
	return edits
}

func effectiveByBase(cfg *models.Config) map[string]models.MappingEntry {
	out := map[string]models.MappingEntry{}
	for _, m := range cfg.Mappings {
		if m.IsTarget || m.IsPrimaryKey || m.IsSecondaryKey {
			out[m.RefColumn] = m
		}
	}
	return out
}

// rowRemark returns the effective value of the first remark-role column,
// used as the general remark of an exception entry.
func rowRemark(row *models.UnifiedRow, side Side) string {
	for _, f := range row.Fields {
		if !review.IsRemarkName(f.Base) {
			continue
		}
		if side == SideRef {
			return f.EffectiveRef()
		}
		return f.EffectiveComp()
	}
	return ""
}

// styleSet lazily creates the cell styles a run needs on its target file.
type styleSet struct {
	file           *excelize.File
	highlightColor string
	highlightID    int
	strikeID       int
}

func newStyleSet(f *excelize.File, color string) *styleSet {
	return &styleSet{file: f, highlightColor: color, highlightID: -1, strikeID: -1}
}

func (s *styleSet) highlight() int {
	if s.highlightID < 0 {
		id, err := s.file.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.highlightColor}},
		})
		if err != nil {
			return 0
		}
		s.highlightID = id
	}
	return s.highlightID
}

func (s *styleSet) strike() int {
	if s.strikeID < 0 {
		id, err := s.file.NewStyle(&excelize.Style{
			Font: &excelize.Font{Strike: true},
		})
		if err != nil {
			return 0
		}
		s.strikeID = id
	}
	return s.strikeID
}

// strikeRow applies the strike-through style to every populated cell of a
// document row.
func strikeRow(f *excelize.File, st *styleSet, sheet string, row int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if row < 1 || row > len(rows) {
		return nil
	}
	width := len(rows[row-1])
	if width == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, st.strike())
}

// appendAddedRow appends a manually inserted row to the document's
// added-items sheet. Existing rows are never mutated by an add marker.
func appendAddedRow(f *excelize.File, row *models.UnifiedRow, side Side, cfg *models.Config) error {
	headers := []string{"Integrated Key"}
	for _, m := range cfg.Mappings {
		if m.IsTarget || m.IsPrimaryKey || m.IsSecondaryKey {
			headers = append(headers, sideName(&m, side))
		}
	}

	idx, err := f.GetSheetIndex(AddedItemsSheet)
	if err != nil {
		return err
	}
	next := 1
	if idx < 0 {
		if _, err := f.NewSheet(AddedItemsSheet); err != nil {
			return err
		}
		if err := setRow(f, AddedItemsSheet, 1, headers); err != nil {
			return err
		}
		next = 2
	} else {
		rows, err := f.GetRows(AddedItemsSheet)
		if err != nil {
			return err
		}
		next = len(rows) + 1
	}

	values := []string{row.IntegratedKey}
	for _, m := range cfg.Mappings {
		if !m.IsTarget && !m.IsPrimaryKey && !m.IsSecondaryKey {
			continue
		}
		var v string
		if fld := row.Field(m.RefColumn); fld != nil {
			if side == SideRef {
				v = fld.EffectiveRef()
			} else {
				v = fld.EffectiveComp()
			}
		}
		values = append(values, v)
	}
	return setRow(f, AddedItemsSheet, next, values)
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
