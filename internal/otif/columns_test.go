package otif

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"material code plain", "materialcode", ColMaterialCode},
		{"material code spaced", "Material Code", ColMaterialCode},
		{"material code underscored", "MATERIAL_CODE", ColMaterialCode},
		{"mat code dotted", "Mat. Code", ColMaterialCode},
		{"mat type", "Mat Type", ColMatType},
		{"material type", "Material Type", ColMatType},
		{"po date dotted", "P.O. Dt.", ColPODate},
		{"po date plain", "PO Date", ColPODate},
		{"po number spaced dots", "P. O. No.", ColPONumber},
		{"po bare", "PO", ColPONumber},
		{"gnr date", "GNR Dt.", ColGNRDate},
		{"grn date variant", "GRN Date", ColGNRDate},
		{"po qty", "PO Qty.", ColPOQty},
		{"received qty maps to inward", "Received Qty", ColInwardQty},
		{"supplier name", "Supplier Name", ColSupplier},
		{"item category", "ITEM CATEGORY", ColItemCategory},
		{"uom", "UoM", ColUOM},
		{"nbsp and extra spaces", " Material  Code ", ColMaterialCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeaders([]string{tt.in})
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestNormalizeHeadersPreservesUnknown(t *testing.T) {
	got := NormalizeHeaders([]string{"  Plant   Location ", "Remarks", "Material Code"})

	// Unknown headers keep their cleaned originals; no column is dropped
	// or coerced into a near-miss canonical name.
	assert.Equal(t, []string{"Plant Location", "Remarks", ColMaterialCode}, got)
}

func TestNormalizeHeadersNoFuzzyMatch(t *testing.T) {
	// "Material Codes" (plural) normalizes to an unlisted key and must not
	// be coerced even though it is close to a known synonym.
	got := NormalizeHeaders([]string{"Material Codes"})
	assert.Equal(t, "Material Codes", got[0])
}

func TestNormalizeHeadersLengthAndEmpty(t *testing.T) {
	got := NormalizeHeaders([]string{"", "  ", "Supplier"})
	assert.Len(t, got, 3)
	assert.Equal(t, "", got[0])
	assert.Equal(t, "", got[1])
	assert.Equal(t, ColSupplier, got[2])
}
