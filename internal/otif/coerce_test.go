package otif

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeaders() []string {
	return []string{
		ColMatType, ColMaterialCode, ColMaterialName, ColUOM,
		ColPODate, ColPONumber, ColSupplier, ColPOQty, ColGNRDate, ColInwardQty,
	}
}

func testRow(matType, code, poDate, poNumber, supplier, poQty, gnrDate, inwardQty string) []string {
	return []string{matType, code, "Some Material", "NOS", poDate, poNumber, supplier, poQty, gnrDate, inwardQty}
}

func TestCoerceParsesDayFirstDates(t *testing.T) {
	table := Table{
		Headers: testHeaders(),
		Rows: [][]string{
			testRow("RM", "M1", "05-02-2024", "PO-1", "Acme", "100", "20/02/2024", "100"),
		},
	}

	lines, dropped, err := Coerce(table)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Zero(t, dropped)

	// 05-02-2024 is February 5th, not May 2nd.
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), lines[0].PODate)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), lines[0].GNRDate)
	assert.Equal(t, 100.0, lines[0].POQty)
	assert.Equal(t, 100.0, lines[0].InwardQty)
}

func TestCoerceDropsUnparseableRows(t *testing.T) {
	table := Table{
		Headers: testHeaders(),
		Rows: [][]string{
			testRow("RM", "M1", "01-01-2024", "PO-1", "Acme", "100", "10-01-2024", "100"),
			testRow("RM", "M2", "not a date", "PO-2", "Acme", "100", "10-01-2024", "100"),
			testRow("RM", "M3", "01-01-2024", "PO-3", "Acme", "", "10-01-2024", "100"),
			testRow("RM", "M4", "01-01-2024", "PO-4", "Acme", "abc", "10-01-2024", "100"),
			testRow("RM", "M5", "01-01-2024", "PO-5", "Acme", "100", "", "100"),
		},
	}

	lines, dropped, err := Coerce(table)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, "PO-1", lines[0].PONumber)
}

func TestCoerceQuantityThousandsSeparator(t *testing.T) {
	table := Table{
		Headers: testHeaders(),
		Rows: [][]string{
			testRow("RM", "M1", "01-01-2024", "PO-1", "Acme", "1,250.5", "10-01-2024", "1,000"),
		},
	}

	lines, _, err := Coerce(table)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1250.5, lines[0].POQty)
	assert.Equal(t, 1000.0, lines[0].InwardQty)
}

func TestCoerceMissingRequiredColumn(t *testing.T) {
	headers := testHeaders()[:8] // drop GNR Dt. and Inward Qty.
	table := Table{Headers: headers}

	_, _, err := Coerce(table)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{ColGNRDate, ColInwardQty}, schemaErr.Missing)
}

func TestCoerceOptionalItemCategory(t *testing.T) {
	headers := append(testHeaders(), ColItemCategory)
	row := append(testRow("PPM", "M1", "01-01-2024", "PO-1", "Acme", "10", "05-01-2024", "10"), "Vial")
	table := Table{Headers: headers, Rows: [][]string{row}}

	lines, _, err := Coerce(table)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Vial", lines[0].ItemCategory)
}

func TestCoerceRaggedRow(t *testing.T) {
	table := Table{
		Headers: testHeaders(),
		Rows: [][]string{
			{"RM", "M1", "Some Material"}, // short row: dates and quantities missing
		},
	}

	lines, dropped, err := Coerce(table)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 1, dropped)
}
