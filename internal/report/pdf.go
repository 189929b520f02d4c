package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

// PDF layout constants, all in millimeters on A4 portrait.
const (
	pdfMarginX    = 20.0
	pdfMarginTop  = 20.0
	pdfLineHeight = 8.0
	pdfOrderStep  = 6.0
	pdfFooterMin  = 40.0
	pdfOrderMin   = 25.0
)

// WriteFailedOrdersPDF renders every OTIF-failed order of the selected
// year grouped by vendor, worst vendor first, newest failure first within
// a vendor. Layout follows the original report: a bold vendor header line
// with failure counts and percentages, then one indented line per order.
func WriteFailedOrdersPDF(path string, breaches []otif.POAggregate, vendors []otif.VendorStats, year int) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()
	y := pdfMarginTop

	title := func(cont bool) {
		pdf.SetFont("Helvetica", "B", 16)
		text := fmt.Sprintf("ALL OTIF FAILED ORDERS - %d", year)
		if cont {
			text += " (cont.)"
		}
		pdf.Text(pdfMarginX, y, text)
		y += 12
	}
	title(false)

	byVendor := make(map[string][]otif.POAggregate)
	for _, po := range breaches {
		supplier := po.Supplier
		if supplier == "" {
			supplier = otif.UnknownSupplier
		}
		byVendor[supplier] = append(byVendor[supplier], po)
	}

	vendorIdx := 1
	for _, v := range otif.TopFailingVendors(vendors, 0) {
		orders := byVendor[v.Supplier]

		if y > pageHeight-pdfFooterMin {
			pdf.AddPage()
			y = pdfMarginTop
			title(true)
		}

		pdf.SetFont("Helvetica", "B", 12)
		header := fmt.Sprintf("%d. %s   (Failures: %d)   OTIF: %.1f%%   Contribution: %.1f%%   Total Orders: %d",
			vendorIdx, v.Supplier, v.OTIFFailures, v.OTIFPct, v.ContributionPct, v.TotalOrders)
		pdf.Text(pdfMarginX, y, header)
		y += pdfLineHeight

		pdf.SetFont("Helvetica", "", 10)
		for _, po := range orders {
			pdf.Text(pdfMarginX+6, y, fmt.Sprintf("    %s    %s", po.GNRDate.Format(dateLayout), po.PONumber))
			y += pdfOrderStep
			if y > pageHeight-pdfOrderMin {
				pdf.AddPage()
				y = pdfMarginTop
				pdf.SetFont("Helvetica", "", 10)
			}
		}
		y += 4
		vendorIdx++
	}

	return pdf.OutputFileAndClose(path)
}
