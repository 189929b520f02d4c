// Package otif implements the vendor On-Time-In-Full computation pipeline:
// column normalization, type coercion, category enrichment, lead-time
// resolution and the PO/vendor aggregation that turns raw purchase-order
// line items into OTIF verdicts. The package is pure: it owns no I/O,
// no caching and no global state.
package otif

// Canonical column names used by the processing logic. These mirror the
// headers of the source ERP export (dots and all) so exported CSVs stay
// recognizable to the people who produced the input.
const (
	ColMatType      = "Mat Type"
	ColMaterialCode = "Material Code"
	ColMaterialName = "Material Name"
	ColUOM          = "UOM"
	ColPODate       = "P.O. Dt."
	ColPONumber     = "P. O. No."
	ColSupplier     = "Supplier"
	ColPOQty        = "PO Qty."
	ColGNRDate      = "GNR Dt."
	ColInwardQty    = "Inward Qty."
	ColItemCategory = "Item Category"
)

// RequiredColumns lists the canonical columns that must be present after
// header normalization. Item Category is optional; it is backfilled from
// the reference lookup when absent.
var RequiredColumns = []string{
	ColMatType, ColMaterialCode, ColMaterialName, ColUOM,
	ColPODate, ColPONumber, ColSupplier, ColPOQty, ColGNRDate, ColInwardQty,
}

// Table is a raw tabular snapshot as delivered by the ingestion layer:
// original headers (any casing or punctuation) and untyped string cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the named header, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// cell returns the trimmed cell value at (row, col), tolerating ragged rows.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return trimCell(row[col])
}
