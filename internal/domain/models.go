// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

// UploadedFile represents an uploaded snapshot file for processing
type UploadedFile struct {
	Filename string
	Path     string
	Size     int64
}

// RunReport is the outcome of processing one order snapshot: the selected
// reporting year, its PO-level verdicts and the derived summaries.
type RunReport struct {
	Filename     string                `json:"filename"`
	Year         int                   `json:"year"`
	Years        []int                 `json:"years"`
	TotalOrders  int                   `json:"total_orders"`
	OTIFSuccess  int                   `json:"otif_success"`
	OTIFFailures int                   `json:"otif_failures"`
	OTIFPct      float64               `json:"otif_pct"`
	POLevel      []otif.POAggregate    `json:"po_level"`
	Monthly      []otif.MonthlySummary `json:"monthly"`
	Vendors      []otif.VendorStats    `json:"vendors"`
	TopFailing   []otif.VendorStats    `json:"top_failing"`
	Breaches     []otif.POAggregate    `json:"breaches"`
	DroppedRows  int                   `json:"dropped_rows"`
	Notices      []string              `json:"notices,omitempty"`
	Artifacts    []string              `json:"artifacts,omitempty"`
	ProcessedAt  time.Time             `json:"processed_at"`
}

// NewRunReport derives a run report from a pipeline result.
func NewRunReport(filename string, result *otif.Result) *RunReport {
	report := &RunReport{
		Filename:    filename,
		Year:        result.Year,
		Years:       result.Years,
		TotalOrders: len(result.YearPOs),
		POLevel:     result.YearPOs,
		Monthly:     result.Monthly,
		Vendors:     result.Vendors,
		TopFailing:  result.TopFailing,
		Breaches:    result.Breaches,
		DroppedRows: result.DroppedRows,
		Notices:     result.Notices,
		ProcessedAt: time.Now().UTC(),
	}
	for _, po := range result.YearPOs {
		if po.OTIF == 1 {
			report.OTIFSuccess++
		} else {
			report.OTIFFailures++
		}
	}
	if report.TotalOrders > 0 {
		report.OTIFPct = float64(report.OTIFSuccess) / float64(report.TotalOrders) * 100
	}
	return report
}
