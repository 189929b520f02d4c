package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := "Supplier, PO Qty.,GNR Dt.\nAcme,100,01-01-2024\nBeta,50\n"

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Supplier", "PO Qty.", "GNR Dt."}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Acme", "100", "01-01-2024"}, table.Rows[0])
	// Ragged rows pass through untouched.
	assert.Equal(t, []string{"Beta", "50"}, table.Rows[1])
}

func TestReadCSVEmptyStream(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadTableCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("Supplier\nAcme\n"), 0o644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Supplier"}, table.Headers)
	require.Len(t, table.Rows, 1)
}

func TestReadTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Supplier", "PO Qty."}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Acme", 100}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Supplier", "PO Qty."}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme", table.Rows[0][0])
}

func TestReadTableLegacyXLS(t *testing.T) {
	_, err := ReadTable("orders.xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xls")
}

func TestReadTableUnknownExtensionFallsBackToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	require.NoError(t, os.WriteFile(path, []byte("Supplier\nAcme\n"), 0o644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Supplier"}, table.Headers)
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
