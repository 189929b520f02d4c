// backend-go/internal/api/handlers/otif_handler.go
package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/config"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/domain"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/service"
)

type OTIFHandler struct {
	otifService *service.OTIFService
	uploadDir   string
}

func NewOTIFHandler(otifService *service.OTIFService, uploadDir string) *OTIFHandler {
	return &OTIFHandler{otifService: otifService, uploadDir: uploadDir}
}

// UploadSnapshots accepts one or more order snapshot files (csv/xlsx),
// runs the OTIF pipeline over each and returns the run reports. Optional
// form fields: year, top, mat_types (comma-separated), lead_times
// (TYPE=DAYS pairs, comma-separated).
func (h *OTIFHandler) UploadSnapshots(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	uploadedFiles := make([]*domain.UploadedFile, 0, len(files))
	for _, file := range files {
		filePath := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, filePath); err != nil {
			log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
			continue
		}
		uploadedFiles = append(uploadedFiles, &domain.UploadedFile{
			Filename: file.Filename,
			Path:     filePath,
			Size:     file.Size,
		})
	}

	if len(uploadedFiles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid files to process"})
		return
	}

	opts := h.otifService.Options(
		parseNonNegativeInt(c.PostForm("year")),
		config.ParseLeadTimeOverrides(c.PostForm("lead_times")),
		splitCommaList(c.PostForm("mat_types")),
	)
	if top := parseNonNegativeInt(c.PostForm("top")); top > 0 {
		opts.TopVendors = top
	}

	reports, err := h.otifService.ProcessFiles(c.Request.Context(), uploadedFiles, opts)
	if err != nil {
		status := http.StatusInternalServerError
		var schemaErr *otif.SchemaError
		var unresolvedErr *otif.UnresolvedTypesError
		if errors.As(err, &schemaErr) || errors.As(err, &unresolvedErr) {
			status = http.StatusUnprocessableEntity
		}
		log.Error().Err(err).Msg("failed to process snapshots")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ListReports returns the snapshot filenames processed this session.
func (h *OTIFHandler) ListReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"filenames": h.otifService.ReportFilenames()})
}

// GetReport returns the most recent run report for a snapshot filename.
// The optional view query narrows the response to one table: po_level,
// monthly, vendors, top_failing or breaches.
func (h *OTIFHandler) GetReport(c *gin.Context) {
	filename := c.Param("filename")
	report, ok := h.otifService.Report(filename)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report for " + filename})
		return
	}

	switch view := c.Query("view"); view {
	case "":
		c.JSON(http.StatusOK, report)
	case "po_level":
		c.JSON(http.StatusOK, gin.H{"year": report.Year, "po_level": report.POLevel})
	case "monthly":
		c.JSON(http.StatusOK, gin.H{"year": report.Year, "monthly": report.Monthly})
	case "vendors":
		c.JSON(http.StatusOK, gin.H{"year": report.Year, "vendors": report.Vendors})
	case "top_failing":
		c.JSON(http.StatusOK, gin.H{"year": report.Year, "top_failing": report.TopFailing})
	case "breaches":
		c.JSON(http.StatusOK, gin.H{"year": report.Year, "breaches": report.Breaches})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view " + view})
	}
}

// ListArtifacts lists the report artifacts published to object storage.
func (h *OTIFHandler) ListArtifacts(c *gin.Context) {
	artifacts, err := h.otifService.PublishedArtifacts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list published artifacts")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": artifacts})
}

// GetRules returns the effective lead-time rule set so operators can see
// which material types resolve without an override.
func (h *OTIFHandler) GetRules(c *gin.Context) {
	rules := otif.DefaultRuleSet().WithOverrides(h.otifService.Options(0, nil, nil).LeadTimeOverrides)
	c.JSON(http.StatusOK, gin.H{
		"days":        rules.Days,
		"ppm_buckets": rules.PPMBuckets,
		"ppm_default": rules.PPMDefault,
	})
}

func parseNonNegativeInt(value string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v >= 0 {
		return v
	}
	return 0
}

func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
