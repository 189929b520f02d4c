package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWritePOLevelCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "po_level.csv")
	pos := []otif.POAggregate{
		{
			PONumber:  "PO-1",
			Supplier:  "Acme",
			GNRDate:   time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
			Fulfilled: 1,
			OnTime:    0,
			OTIF:      0,
			Year:      2024,
			MonthNum:  2,
			Month:     "Feb",
		},
	}

	require.NoError(t, WritePOLevelCSV(path, pos))

	records := readAll(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Supplier", "GNR Dt.", "P. O. No.", "PO_Fulfilled", "OnTime", "OTIF", "Year", "MonthNum", "Month"}, records[0])
	assert.Equal(t, []string{"Acme", "03-02-2024", "PO-1", "1", "0", "0", "2024", "2", "Feb"}, records[1])
}

func TestWriteMonthlyCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.csv")
	months := []otif.MonthlySummary{
		{MonthNum: 2, Month: "Feb", AvgOTIF: 0.5, AvgOnTime: 0.75, AvgInFull: 1, TotalOrders: 4},
	}

	require.NoError(t, WriteMonthlyCSV(path, months))

	records := readAll(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2", "Feb", "0.5000", "0.7500", "1.0000", "4"}, records[1])
}

func TestWriteVendorCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.csv")
	vendors := []otif.VendorStats{
		{Supplier: "Acme", TotalOrders: 4, OTIFFailures: 1, OTIFSuccess: 3, OTIFPct: 75, ContributionPct: 80},
	}

	require.NoError(t, WriteVendorCSV(path, vendors))

	records := readAll(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Acme", "4", "1", "3", "75.0", "80.0"}, records[1])
}

func TestWriteCSVEmptyInput(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WritePOLevelCSV(filepath.Join(dir, "po.csv"), nil))
	require.NoError(t, WriteMonthlyCSV(filepath.Join(dir, "monthly.csv"), nil))
	require.NoError(t, WriteVendorCSV(filepath.Join(dir, "vendors.csv"), nil))

	// Headers still written so downstream tools see the schema.
	assert.Len(t, readAll(t, filepath.Join(dir, "po.csv")), 1)
}
