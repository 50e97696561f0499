package commit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

func resolveFixture(t *testing.T) *excelize.File {
	t.Helper()
	data := buildDoc(t, "List", [][]string{
		{"Integrated Key", "TAG", "DESC"},
		{"0-001", "0-001", "Pump"},
		{"", "0-002", "Valve"},
		{"", "", "stray 0-003 note"},
	})
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	return f
}

func TestResolveRowCascade(t *testing.T) {
	f := resolveFixture(t)
	defer f.Close()

	keyIndex := buildIndex(f, 1, integratedKeyHeader)
	idIndex := buildIndex(f, 1, namedHeader("TAG"))
	chain := newResolverChain(f, keyIndex, idIndex)

	t.Run("integrated key exact", func(t *testing.T) {
		res, ok := resolveRow(chain, &models.UnifiedRow{IntegratedKey: "0-001", StandardIdentity: "0-001"})
		require.True(t, ok)
		assert.Equal(t, "key-exact", res.Strategy)
		assert.Equal(t, 2, res.Row)
	})

	t.Run("identity fallback", func(t *testing.T) {
		res, ok := resolveRow(chain, &models.UnifiedRow{IntegratedKey: "0-002", StandardIdentity: "0-002"})
		require.True(t, ok)
		assert.Equal(t, "identity-exact", res.Strategy)
		assert.Equal(t, 3, res.Row)
	})

	t.Run("folded identity", func(t *testing.T) {
		res, ok := resolveRow(chain, &models.UnifiedRow{IntegratedKey: "0 002", StandardIdentity: "0 002"})
		require.True(t, ok)
		assert.Equal(t, "identity-normalized", res.Strategy)
		assert.Equal(t, 3, res.Row)
	})

	t.Run("deep scan", func(t *testing.T) {
		res, ok := resolveRow(chain, &models.UnifiedRow{IntegratedKey: "stray 0-003 note"})
		require.True(t, ok)
		assert.Equal(t, "deep-scan", res.Strategy)
		assert.Equal(t, 4, res.Row)
	})

	t.Run("exhausted", func(t *testing.T) {
		_, ok := resolveRow(chain, &models.UnifiedRow{IntegratedKey: "0-777"})
		assert.False(t, ok)
	})
}

func TestResolveColumn(t *testing.T) {
	f := resolveFixture(t)
	defer f.Close()

	assert.Equal(t, 2, resolveColumn(f, "List", 1, "TAG"))
	assert.Equal(t, 2, resolveColumn(f, "List", 1, "tag"))
	assert.Equal(t, 3, resolveColumn(f, "List", 1, "DESC."))
	// substring match either way
	assert.Equal(t, 3, resolveColumn(f, "List", 1, "DESCRIPTION"))
	assert.Equal(t, 0, resolveColumn(f, "List", 1, "Vendor"))
	assert.Equal(t, 0, resolveColumn(f, "missing", 1, "TAG"))
}

func TestFindHeaderDepthFallback(t *testing.T) {
	rows := [][]string{
		{"title block"},
		{"revision", "date"},
		{"TAG", "DESC"},
		{"0-001", "Pump"},
	}

	r, c := findHeader(rows, 1, namedHeader("TAG"))
	assert.Equal(t, 2, r)
	assert.Equal(t, 0, c)

	r, c = findHeader(rows, 3, namedHeader("DESC"))
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)

	r, c = findHeader(rows, 1, namedHeader("Vendor"))
	assert.Equal(t, -1, r)
	assert.Equal(t, -1, c)
}

func TestBuildIndexFirstOccurrenceWins(t *testing.T) {
	data := buildDoc(t, "List", [][]string{
		{"TAG"},
		{"0-001"},
		{"0-001"},
	})
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	ix := buildIndex(f, 1, namedHeader("TAG"))
	loc, ok := ix.exact["0-001"]
	require.True(t, ok)
	assert.Equal(t, 2, loc.Row)
}

func TestBuildIndexSkipsSystemSheets(t *testing.T) {
	fx := excelize.NewFile()
	require.NoError(t, fx.SetSheetName("Sheet1", AddedItemsSheet))
	require.NoError(t, fx.SetCellValue(AddedItemsSheet, "A1", "TAG"))
	require.NoError(t, fx.SetCellValue(AddedItemsSheet, "A2", "0-001"))
	buf, err := fx.WriteToBuffer()
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	ix := buildIndex(f, 1, namedHeader("TAG"))
	assert.Empty(t, ix.exact)
}
