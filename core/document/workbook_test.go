package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
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

func TestParse(t *testing.T) {
	data := buildWorkbook(t, "Equipment", [][]any{
		{"TAG", "DESC", "Qty", "In Service"},
		{"0-001", "Pump", 2, true},
		{"0-002", "Valve", nil, nil},
		{nil, nil, nil, nil},
	})

	table, err := Parse(data, Options{Sheet: "Equipment"})
	require.NoError(t, err)

	assert.Equal(t, "Equipment", table.Sheet)
	assert.Equal(t, 1, table.HeaderRow)
	assert.Equal(t, []string{"TAG", "DESC", "Qty", "In Service"}, table.Headers)

	// the all-empty row is dropped
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "0-001", table.Rows[0]["TAG"])
	assert.Equal(t, float64(2), table.Rows[0]["Qty"])
	assert.Equal(t, true, table.Rows[0]["In Service"])
	_, ok := table.Rows[1]["Qty"]
	assert.False(t, ok)
}

func TestParseHeaderRowOffset(t *testing.T) {
	data := buildWorkbook(t, "List", [][]any{
		{"project title"},
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	})

	table, err := Parse(data, Options{Sheet: "List", HeaderRow: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "DESC"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Pump", table.Rows[0]["DESC"])
}

func TestParsePlaceholderAndDuplicateHeaders(t *testing.T) {
	data := buildWorkbook(t, "List", [][]any{
		{"TAG", "", "DESC", "DESC"},
		{"0-001", "x", "a", "b"},
	})

	table, err := Parse(data, Options{Sheet: "List"})
	require.NoError(t, err)
	assert.Equal(t, []string{"TAG", "Column2", "DESC", "DESC (2)"}, table.Headers)
	assert.Equal(t, "a", table.Rows[0]["DESC"])
	assert.Equal(t, "b", table.Rows[0]["DESC (2)"])
}

func TestParseMissingSheet(t *testing.T) {
	data := buildWorkbook(t, "List", [][]any{{"TAG"}})

	_, err := Parse(data, Options{Sheet: "Other"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = Parse(data, Options{SheetIndex: 5})
	require.ErrorAs(t, err, &ve)
}

func TestParseNotAWorkbook(t *testing.T) {
	_, err := Parse([]byte("plain text"), Options{})
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{name: "empty", in: "", want: nil},
		{name: "text", in: "Pump", want: "Pump"},
		{name: "number", in: "12.5", want: 12.5},
		{name: "leading zeros stay text", in: "001", want: "001"},
		{name: "bool", in: "TRUE", want: true},
		{name: "numeric-looking with unit", in: "12 kg", want: "12 kg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.in).Scalar())
		})
	}
}
