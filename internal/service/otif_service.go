// backend-go/internal/service/otif_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/cache"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/config"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/domain"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/ingest"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/report"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/storage"
)

// maxConcurrentFiles bounds how many uploaded snapshots are processed at
// once; each run holds the whole table in memory.
const maxConcurrentFiles = 4

// OTIFService runs the OTIF pipeline over uploaded snapshots and turns
// results into run reports and exported artifacts.
type OTIFService struct {
	cfg    *config.Config
	cache  cache.ResultCache
	lookup otif.CategoryLookup
	store  storage.ObjectStorage

	mu          sync.RWMutex
	lastReports map[string]*domain.RunReport
}

func NewOTIFService(cfg *config.Config, resultCache cache.ResultCache, lookup otif.CategoryLookup, store storage.ObjectStorage) *OTIFService {
	if resultCache == nil {
		resultCache = cache.NewNoopResultCache()
	}
	return &OTIFService{
		cfg:         cfg,
		cache:       resultCache,
		lookup:      lookup,
		store:       store,
		lastReports: make(map[string]*domain.RunReport),
	}
}

// Options merges the configured pipeline defaults with per-request
// settings. Request overrides win over configured overrides.
func (s *OTIFService) Options(year int, overrides map[string]int, matTypes []string) otif.Options {
	merged := make(map[string]int, len(s.cfg.OTIF.LeadTimeOverrides)+len(overrides))
	for k, v := range s.cfg.OTIF.LeadTimeOverrides {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return otif.Options{
		LeadTimeOverrides: merged,
		UnknownLeadTime:   s.cfg.OTIF.DefaultLeadTime,
		IncludedMatTypes:  matTypes,
		Year:              year,
		CategoryLookup:    s.lookup,
		TopVendors:        s.cfg.OTIF.TopVendors,
	}
}

// ProcessFile runs the pipeline over one snapshot file. Identical content
// processed with identical options is served from the result cache.
func (s *OTIFService) ProcessFile(ctx context.Context, file *domain.UploadedFile, opts otif.Options) (*domain.RunReport, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", file.Path, err)
	}

	key := cache.BuildResultKey(content, opts)
	if cached, ok, err := s.cache.GetReport(ctx, key); err != nil {
		log.Warn().Err(err).Str("filename", file.Filename).Msg("result cache lookup failed")
	} else if ok {
		log.Debug().Str("filename", file.Filename).Msg("run report served from cache")
		s.rememberReport(cached)
		return cached, nil
	}

	table, err := ingest.ReadTable(file.Path)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", file.Filename, err)
	}

	result, err := otif.Run(table, opts)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", file.Filename, err)
	}

	report := domain.NewRunReport(file.Filename, result)
	for _, notice := range report.Notices {
		log.Info().Str("filename", file.Filename).Msg(notice)
	}
	log.Info().
		Str("filename", file.Filename).
		Int("year", report.Year).
		Int("total_orders", report.TotalOrders).
		Int("otif_failures", report.OTIFFailures).
		Int("dropped_rows", report.DroppedRows).
		Msg("snapshot processed")

	if err := s.cache.SetReport(ctx, key, report); err != nil {
		log.Warn().Err(err).Str("filename", file.Filename).Msg("result cache store failed")
	}

	s.rememberReport(report)
	return report, nil
}

func (s *OTIFService) rememberReport(report *domain.RunReport) {
	s.mu.Lock()
	s.lastReports[report.Filename] = report
	s.mu.Unlock()
}

// Report returns the most recent run report for an uploaded snapshot
// filename, if one has been processed this session.
func (s *OTIFService) Report(filename string) (*domain.RunReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.lastReports[filename]
	return report, ok
}

// ReportFilenames lists the snapshots processed this session, sorted.
func (s *OTIFService) ReportFilenames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.lastReports))
	for name := range s.lastReports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProcessFiles processes multiple snapshots concurrently, preserving input
// order in the returned reports. The first failure cancels the rest.
func (s *OTIFService) ProcessFiles(ctx context.Context, files []*domain.UploadedFile, opts otif.Options) ([]*domain.RunReport, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)

	reports := make([]*domain.RunReport, len(files))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			result, err := s.ProcessFile(ctx, file, opts)
			if err != nil {
				return err
			}
			reports[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ExportArtifacts writes the run report's CSV and PDF artifacts to the
// output directory and optionally publishes them to object storage. The
// artifact paths are recorded on the report. The PDF is skipped when the
// year has no breaches, matching the original report's behavior.
func (s *OTIFService) ExportArtifacts(ctx context.Context, rpt *domain.RunReport, outputDir string, withPDF, publish bool) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	poPath := filepath.Join(outputDir, fmt.Sprintf("po_level_%d.csv", rpt.Year))
	if err := report.WritePOLevelCSV(poPath, rpt.POLevel); err != nil {
		return fmt.Errorf("write po-level csv: %w", err)
	}
	rpt.Artifacts = append(rpt.Artifacts, poPath)

	monthlyPath := filepath.Join(outputDir, fmt.Sprintf("monthly_otif_%d.csv", rpt.Year))
	if err := report.WriteMonthlyCSV(monthlyPath, rpt.Monthly); err != nil {
		return fmt.Errorf("write monthly csv: %w", err)
	}
	rpt.Artifacts = append(rpt.Artifacts, monthlyPath)

	vendorPath := filepath.Join(outputDir, fmt.Sprintf("vendor_otif_%d.csv", rpt.Year))
	if err := report.WriteVendorCSV(vendorPath, rpt.Vendors); err != nil {
		return fmt.Errorf("write vendor csv: %w", err)
	}
	rpt.Artifacts = append(rpt.Artifacts, vendorPath)

	if withPDF && len(rpt.Breaches) > 0 {
		pdfPath := filepath.Join(outputDir, fmt.Sprintf("OTIF_failed_orders_%d.pdf", rpt.Year))
		if err := report.WriteFailedOrdersPDF(pdfPath, rpt.Breaches, rpt.Vendors, rpt.Year); err != nil {
			return fmt.Errorf("write failed-orders pdf: %w", err)
		}
		rpt.Artifacts = append(rpt.Artifacts, pdfPath)
	}

	if publish && s.store != nil {
		for _, path := range rpt.Artifacts {
			key := fmt.Sprintf("reports/%d/%s", rpt.Year, filepath.Base(path))
			if err := s.store.UploadFile(ctx, key, path); err != nil {
				return fmt.Errorf("publish artifact %s: %w", path, err)
			}
			log.Info().Str("key", key).Msg("artifact published")
		}

		// The run report itself goes up alongside the artifacts so remote
		// consumers get the summary without re-running the pipeline.
		payload, err := json.Marshal(rpt)
		if err != nil {
			return fmt.Errorf("encode run report: %w", err)
		}
		key := fmt.Sprintf("reports/%d/run_report.json", rpt.Year)
		if err := s.store.UploadObject(ctx, key, payload); err != nil {
			return fmt.Errorf("publish run report: %w", err)
		}
		log.Info().Str("key", key).Msg("run report published")
	}

	return nil
}

// PublishedArtifacts lists the report artifacts present in object storage.
func (s *OTIFService) PublishedArtifacts(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return s.store.ListObjects(ctx, "reports/")
}
