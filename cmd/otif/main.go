// backend-go/cmd/otif/main.go
//
// Command-line front end for the OTIF pipeline: process an order snapshot
// and write the PO-level, monthly and vendor artifacts without running
// the API server.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/cache"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/config"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/domain"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/ingest"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/refdata"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/service"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/storage"
	"github.com/andresuchdata/vendor-otif/backend-go/pkg/logger"
)

func newInputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Path to the order snapshot (.csv or .xlsx)",
		Required: true,
	}
}

func main() {
	if err := godotenv.Load(); err == nil {
		logger.Log.Debug().Msg("loaded .env file")
	}

	app := &cli.App{
		Name:  "otif",
		Usage: "Compute vendor On-Time-In-Full performance from an order snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log level (trace, debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "Run the OTIF pipeline and write CSV/PDF artifacts",
				Flags: []cli.Flag{
					newInputFlag(),
					&cli.IntFlag{
						Name:  "year",
						Usage: "Reporting year (default: most recent year in the data)",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Value:   "./data/output",
						Usage:   "Directory for generated artifacts",
					},
					&cli.StringSliceFlag{
						Name:  "lead-time",
						Usage: "Lead-time override as TYPE=DAYS (repeatable)",
					},
					&cli.IntFlag{
						Name:  "default-lead-time",
						Value: 30,
						Usage: "Days assigned to unknown material types (0 blocks instead)",
					},
					&cli.StringSliceFlag{
						Name:  "mat-type",
						Usage: "Restrict to a material type (repeatable)",
					},
					&cli.IntFlag{
						Name:  "top",
						Value: 10,
						Usage: "Number of failing vendors to highlight",
					},
					&cli.BoolFlag{
						Name:  "pdf",
						Value: true,
						Usage: "Write the failed-orders PDF",
					},
					&cli.BoolFlag{
						Name:  "publish",
						Usage: "Publish artifacts to configured object storage",
					},
					&cli.StringFlag{
						Name:  "ref-data",
						Usage: "CSV file extending the material-code to category mapping",
					},
				},
				Action: runReport,
			},
			{
				Name:   "inspect",
				Usage:  "Show detected columns, years and unknown material types without aggregating",
				Flags:  []cli.Flag{newInputFlag()},
				Action: runInspect,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func runReport(c *cli.Context) error {
	lookup, err := refdata.Load(c.String("ref-data"))
	if err != nil {
		return err
	}

	cfg := config.Load()
	cfg.OTIF.DefaultLeadTime = c.Int("default-lead-time")
	cfg.OTIF.TopVendors = c.Int("top")

	var store storage.ObjectStorage
	if c.Bool("publish") {
		if !cfg.Storage.Enabled {
			return fmt.Errorf("--publish requires STORAGE_ENABLED with endpoint and credentials configured")
		}
		s3, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return err
		}
		store = s3
	}

	svc := service.NewOTIFService(cfg, cache.NewNoopResultCache(), lookup, store)
	opts := svc.Options(
		c.Int("year"),
		config.ParseLeadTimeOverrides(strings.Join(c.StringSlice("lead-time"), ",")),
		c.StringSlice("mat-type"),
	)

	inputPath := c.String("input")
	report, err := svc.ProcessFile(c.Context, &domain.UploadedFile{
		Filename: filepath.Base(inputPath),
		Path:     inputPath,
	}, opts)
	if err != nil {
		return err
	}

	if report.TotalOrders == 0 {
		fmt.Println("No purchase orders found for the selected year.")
		return nil
	}

	if err := svc.ExportArtifacts(c.Context, report, c.String("output-dir"), c.Bool("pdf"), c.Bool("publish")); err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(report *domain.RunReport) {
	fmt.Printf("Selected year: %d (available: %v)\n", report.Year, report.Years)
	fmt.Printf("Total orders: %d   OTIF: %.1f%%   failures: %d   dropped rows: %d\n",
		report.TotalOrders, report.OTIFPct, report.OTIFFailures, report.DroppedRows)
	for _, notice := range report.Notices {
		fmt.Println("Notice:", notice)
	}

	if len(report.TopFailing) == 0 {
		fmt.Println("No OTIF failures found in selected year.")
	} else {
		fmt.Println("\nTop vendors by OTIF failures:")
		for i, v := range report.TopFailing {
			fmt.Printf("%2d. %-40s failures=%-4d otif=%5.1f%% contribution=%5.1f%% orders=%d\n",
				i+1, v.Supplier, v.OTIFFailures, v.OTIFPct, v.ContributionPct, v.TotalOrders)
		}
	}

	fmt.Println("\nArtifacts:")
	for _, path := range report.Artifacts {
		fmt.Println("  " + path)
	}
}

func runInspect(c *cli.Context) error {
	inputPath := c.String("input")
	table, err := ingest.ReadTable(inputPath)
	if err != nil {
		return err
	}

	normalized := otif.NormalizeHeaders(table.Headers)
	fmt.Println("Detected columns (original -> canonical):")
	for i, header := range table.Headers {
		marker := ""
		if header != normalized[i] {
			marker = " *"
		}
		fmt.Printf("  %-30s -> %s%s\n", header, normalized[i], marker)
	}

	lines, dropped, err := otif.Coerce(otif.Table{Headers: normalized, Rows: table.Rows})
	if err != nil {
		return err
	}
	fmt.Printf("\nUsable rows: %d (dropped: %d)\n", len(lines), dropped)

	resolver, err := otif.NewResolver(otif.DefaultRuleSet())
	if err != nil {
		return err
	}
	if unknown := resolver.UnknownMatTypes(lines); len(unknown) > 0 {
		fmt.Println("Material types with no lead-time rule:", strings.Join(unknown, ", "))
	} else {
		fmt.Println("All material types have lead-time rules.")
	}

	pos := otif.AggregatePOs(lines)
	fmt.Printf("Distinct purchase orders: %d, years present: %v\n", len(pos), otif.Years(pos))
	return nil
}
