package otif

import (
	"strconv"
	"strings"
	"time"
)

// Line is one usable order line after normalization and coercion. PO date,
// GRN date and both quantities are guaranteed present and parsed; rows
// failing that invariant never become Lines.
type Line struct {
	MatType      string    `json:"mat_type"`
	MaterialCode string    `json:"material_code"`
	MaterialName string    `json:"material_name"`
	UOM          string    `json:"uom"`
	PODate       time.Time `json:"po_date"`
	PONumber     string    `json:"po_number"`
	Supplier     string    `json:"supplier"`
	POQty        float64   `json:"po_qty"`
	GNRDate      time.Time `json:"gnr_date"`
	InwardQty    float64   `json:"inward_qty"`
	ItemCategory string    `json:"item_category"`
	LeadTimeDays int       `json:"lead_time_days"`
}

// dayFirstLayouts are tried in order when parsing PO and GRN dates. The
// source exports day-first dates; ISO dates are accepted as well since
// re-exported CSVs tend to carry them.
var dayFirstLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2-1-2006",
	"2/1/2006",
	"02.01.2006",
	"2/1/06",
	"2-1-06",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a day-first date string. ok is false for empty or
// unparseable input; callers treat that as a missing value, not an error.
func ParseDate(s string) (time.Time, bool) {
	s = trimCell(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseQty parses a quantity cell, tolerating thousands separators.
func ParseQty(s string) (float64, bool) {
	s = strings.ReplaceAll(trimCell(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Coerce validates the canonical schema and converts table rows into typed
// lines. A missing required column yields a *SchemaError. Rows whose PO
// date, GRN date, PO quantity or inward quantity fail to parse are dropped;
// the second return value counts them.
func Coerce(t Table) ([]Line, int, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if t.Column(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, 0, &SchemaError{Missing: missing, Found: t.Headers}
	}

	var (
		idxMatType  = t.Column(ColMatType)
		idxMatCode  = t.Column(ColMaterialCode)
		idxMatName  = t.Column(ColMaterialName)
		idxUOM      = t.Column(ColUOM)
		idxPODate   = t.Column(ColPODate)
		idxPONumber = t.Column(ColPONumber)
		idxSupplier = t.Column(ColSupplier)
		idxPOQty    = t.Column(ColPOQty)
		idxGNRDate  = t.Column(ColGNRDate)
		idxInward   = t.Column(ColInwardQty)
		idxItemCat  = t.Column(ColItemCategory)
	)

	lines := make([]Line, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		poDate, okPODate := ParseDate(cell(row, idxPODate))
		gnrDate, okGNRDate := ParseDate(cell(row, idxGNRDate))
		poQty, okPOQty := ParseQty(cell(row, idxPOQty))
		inwardQty, okInward := ParseQty(cell(row, idxInward))
		if !okPODate || !okGNRDate || !okPOQty || !okInward {
			dropped++
			continue
		}

		line := Line{
			MatType:      cell(row, idxMatType),
			MaterialCode: cell(row, idxMatCode),
			MaterialName: cell(row, idxMatName),
			UOM:          cell(row, idxUOM),
			PODate:       poDate,
			PONumber:     cell(row, idxPONumber),
			Supplier:     cell(row, idxSupplier),
			POQty:        poQty,
			GNRDate:      gnrDate,
			InwardQty:    inwardQty,
		}
		if idxItemCat >= 0 {
			line.ItemCategory = cell(row, idxItemCat)
		}
		lines = append(lines, line)
	}

	return lines, dropped, nil
}
