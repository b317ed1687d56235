package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ledgersynth/internal/config"
	"ledgersynth/internal/dataprocessing"
	"ledgersynth/internal/infrastructure"
	"ledgersynth/internal/services"
)

const defaultSalesRows = 1000

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run writes the synthetic sales dataset and prints its revenue analysis
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("gensales", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Int64("seed", cfg.Generator.Seed, "PRNG seed")
	rows := fs.Int("rows", defaultSalesRows, "number of sales records")
	out := fs.String("out", "", "output csv path (defaults to <data_dir>/sales_data.csv)")
	summaryOut := fs.String("summary", "", "also write the sales analysis as JSON to this path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := infrastructure.NewJSONLogger(stderr, cfg.Logging.Level)

	if *out == "" {
		paths, err := cfg.GetPaths()
		if err != nil {
			logger.Error("Failed to initialize paths", slog.String("error", err.Error()))
			return 1
		}
		*out = paths.SalesCSV
	}

	ctx := context.Background()
	svc := services.NewLedgerService(cfg.Generator, nil, logger)

	records, err := svc.GenerateSales(ctx, *seed, *rows, *out)
	if err != nil {
		fmt.Fprintf(stderr, "sales generation failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Dataset '%s' generated successfully: %d rows.\n", *out, len(records))

	summary := svc.SummarizeSales(ctx, records)
	printSalesReport(stdout, summary)

	if *summaryOut != "" {
		if err := svc.WriteSalesSummary(ctx, *summaryOut, summary); err != nil {
			fmt.Fprintf(stderr, "failed to save sales summary: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\nSummary saved to '%s'.\n", *summaryOut)
	}
	return 0
}

func printSalesReport(w io.Writer, s *dataprocessing.SalesSummary) {
	fmt.Fprintf(w, "\nRevenue     %6s %12s %10s\n", "count", "sum", "mean")
	for _, c := range s.RevenueByCategory {
		fmt.Fprintf(w, "  %-9s %6d %12s %10s\n", c.Category, c.Count, c.Sum.StringFixed(2), c.Mean.StringFixed(2))
	}
	fmt.Fprintf(w, "\nPrice outliers (|z| > %.0f): %d\n", dataprocessing.PriceOutlierZ, s.PriceOutliers)
}
