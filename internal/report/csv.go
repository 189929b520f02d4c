// Package report renders pipeline results into the exported artifacts:
// PO-level and monthly CSVs plus the failed-orders PDF. It consumes the
// result tables read-only and owns no computation.
package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

const dateLayout = "02-01-2006"

// WritePOLevelCSV exports one row per PO for the selected year.
func WritePOLevelCSV(path string, pos []otif.POAggregate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Supplier", "GNR Dt.", "P. O. No.", "PO_Fulfilled", "OnTime", "OTIF", "Year", "MonthNum", "Month"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, po := range pos {
		record := []string{
			po.Supplier,
			po.GNRDate.Format(dateLayout),
			po.PONumber,
			fmt.Sprintf("%d", po.Fulfilled),
			fmt.Sprintf("%d", po.OnTime),
			fmt.Sprintf("%d", po.OTIF),
			fmt.Sprintf("%d", po.Year),
			fmt.Sprintf("%d", po.MonthNum),
			po.Month,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteMonthlyCSV exports the monthly OTIF summary.
func WriteMonthlyCSV(path string, months []otif.MonthlySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"MonthNum", "Month", "Avg_OTIF", "Avg_OnTime", "Avg_InFull", "Total_Orders"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range months {
		record := []string{
			fmt.Sprintf("%d", m.MonthNum),
			m.Month,
			fmt.Sprintf("%.4f", m.AvgOTIF),
			fmt.Sprintf("%.4f", m.AvgOnTime),
			fmt.Sprintf("%.4f", m.AvgInFull),
			fmt.Sprintf("%d", m.TotalOrders),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteVendorCSV exports per-vendor OTIF statistics.
func WriteVendorCSV(path string, vendors []otif.VendorStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Supplier", "Total_Orders", "OTIF_Failures", "OTIF_Success", "Vendor_OTIF_pct", "Total_Contribution_pct"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, v := range vendors {
		record := []string{
			v.Supplier,
			fmt.Sprintf("%d", v.TotalOrders),
			fmt.Sprintf("%d", v.OTIFFailures),
			fmt.Sprintf("%d", v.OTIFSuccess),
			fmt.Sprintf("%.1f", v.OTIFPct),
			fmt.Sprintf("%.1f", v.ContributionPct),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}
