package commit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

// memStore is an in-memory document store for engine tests.
type memStore struct {
	files   map[string][]byte
	lockErr error
	writes  int
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (s *memStore) Read(_ context.Context, path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("failed to read document %s", path)
	}
	return data, nil
}

func (s *memStore) Write(_ context.Context, path string, data []byte) error {
	s.files[path] = data
	s.writes++
	return nil
}

func (s *memStore) EnsureWritable(_ context.Context, _ string) error {
	return s.lockErr
}

func buildDoc(t *testing.T, sheet string, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for r, cells := range rows {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func openDoc(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	return f
}

func commitConfig() *models.Config {
	return &models.Config{
		PrimaryKeyColumn: "TAG",
		Mappings: []models.MappingEntry{
			{RefColumn: "TAG", CompColumn: "TAG NO", IsTarget: true, IsPrimaryKey: true},
			{RefColumn: "DESC", CompColumn: "DESC", IsTarget: true},
		},
	}
}

func unifiedRow(key string, fields ...*models.Field) *models.UnifiedRow {
	return &models.UnifiedRow{
		IntegratedKey:    key,
		Status:           models.StatusBoth,
		StandardIdentity: key,
		Fields:           fields,
	}
}

func TestCommitUpdatesReviewedCell(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	rows := []*models.UnifiedRow{
		unifiedRow("0-001",
			&models.Field{Base: "TAG", RefValue: "0-001"},
			&models.Field{Base: "DESC", RefValue: "Pump", RefReview: "Pump B"},
		),
	}

	eng := NewEngine(store, zap.NewNop())
	report, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, rows, commitConfig(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Identical)
	assert.Equal(t, 0, report.Unresolved)

	f := openDoc(t, store.files["ref.xlsx"])
	defer f.Close()
	got, err := f.GetCellValue("List", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Pump B", got)

	// changed cell gets a non-default style
	style, err := f.GetCellStyle("List", "B2")
	require.NoError(t, err)
	assert.NotZero(t, style)
}

func TestCommitIdenticalValueCountsOnly(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	rows := []*models.UnifiedRow{
		unifiedRow("0-001",
			&models.Field{Base: "TAG", RefValue: "0-001"},
			&models.Field{Base: "DESC", RefValue: "Pump", RefReview: "Pump"},
		),
	}

	eng := NewEngine(store, zap.NewNop())
	report, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, rows, commitConfig(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Identical)
}

func TestCommitUnresolvedRowLandsInExceptions(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	rows := []*models.UnifiedRow{
		unifiedRow("0-001",
			&models.Field{Base: "TAG", RefValue: "0-001"},
			&models.Field{Base: "DESC", RefValue: "Pump", RefReview: "Pump B"},
		),
		unifiedRow("0-999",
			&models.Field{Base: "TAG", RefValue: "0-999"},
			&models.Field{Base: "DESC", RefValue: "Broken", RefReview: "Fixed"},
		),
	}

	eng := NewEngine(store, zap.NewNop())
	report, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, rows, commitConfig(), Options{})
	require.NoError(t, err)

	// the unresolved row never aborts the run
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Unresolved)
	require.Len(t, report.Exceptions, 1)
	assert.Equal(t, "0-999", report.Exceptions[0].Key)
	require.Len(t, report.Exceptions[0].Columns, 1)
	assert.Equal(t, "DESC", report.Exceptions[0].Columns[0].Column)
	assert.Equal(t, "Fixed", report.Exceptions[0].Columns[0].Value)

	f := openDoc(t, store.files["ref.xlsx"])
	defer f.Close()
	idx, err := f.GetSheetIndex(NeedsConfirmSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, idx, 0)

	key, err := f.GetCellValue(NeedsConfirmSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "0-999", key)
}

func TestCommitDeleteMark(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	row := unifiedRow("0-001",
		&models.Field{Base: "TAG", RefValue: "0-001"},
		&models.Field{Base: "DESC", RefValue: "Pump"},
	)
	row.Mark = models.MarkDelete

	eng := NewEngine(store, zap.NewNop())
	report, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, []*models.UnifiedRow{row}, commitConfig(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 0, report.Updated)

	// original value survives; only the style changes
	f := openDoc(t, store.files["ref.xlsx"])
	defer f.Close()
	got, err := f.GetCellValue("List", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Pump", got)
}

func TestCommitAddMarkAppendsToAddedItems(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	row := &models.UnifiedRow{
		IntegratedKey:    "NEW-0001",
		Status:           models.StatusOnlyRef,
		StandardIdentity: "NEW-0001",
		Mark:             models.MarkAdd,
		Fields: []*models.Field{
			{Base: "TAG", RefValue: "NEW-0001"},
			{Base: "DESC", RefReview: "New pump"},
		},
	}

	eng := NewEngine(store, zap.NewNop())
	report, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, []*models.UnifiedRow{row}, commitConfig(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	f := openDoc(t, store.files["ref.xlsx"])
	defer f.Close()
	key, err := f.GetCellValue(AddedItemsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "NEW-0001", key)

	// existing rows are untouched
	got, err := f.GetCellValue("List", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Pump", got)
}

func TestCommitDryRunPersistsNothing(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	rows := []*models.UnifiedRow{
		unifiedRow("0-001",
			&models.Field{Base: "TAG", RefValue: "0-001"},
			&models.Field{Base: "DESC", RefValue: "Pump", RefReview: "Pump B"},
		),
	}

	eng := NewEngine(store, zap.NewNop())
	report, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, rows, commitConfig(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, store.writes)
}

func TestCommitLockedDocument(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = buildDoc(t, "List", [][]string{{"TAG"}})
	store.lockErr = errors.New("sharing violation")

	eng := NewEngine(store, zap.NewNop())
	_, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, nil, commitConfig(), Options{})

	var lockErr *DocumentLockError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, "ref.xlsx", lockErr.Path)
}

func TestCommitUnsupportedDocument(t *testing.T) {
	store := newMemStore()
	store.files["ref.xlsx"] = []byte("this is not a workbook")

	eng := NewEngine(store, zap.NewNop())
	_, err := eng.commitSide(context.Background(), "ref.xlsx", SideRef, nil, commitConfig(), Options{})

	var formatErr *DocumentFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestCommitPairSidesAreIndependent(t *testing.T) {
	store := newMemStore()
	// only the comparison document exists
	store.files["comp.xlsx"] = buildDoc(t, "Sheet", [][]string{
		{"TAG NO", "DESC"},
		{"0-001", "Pump"},
	})

	rows := []*models.UnifiedRow{
		unifiedRow("0-001",
			&models.Field{Base: "TAG", RefValue: "0-001", CompValue: "0-001"},
			&models.Field{Base: "DESC", CompValue: "Pump", CompReview: "Pump C"},
		),
	}

	eng := NewEngine(store, zap.NewNop())
	ref, comp := eng.CommitPair(context.Background(), "ref.xlsx", "comp.xlsx", rows, commitConfig(), Options{})

	require.Error(t, ref.Err)
	require.NoError(t, comp.Err)
	assert.Equal(t, 1, comp.Report.Updated)
}
