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
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/infrastructure"
	"ledgersynth/internal/services"
	"ledgersynth/internal/validation"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run summarizes a persisted ledger, prints the report and saves it as JSON
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("ledger-eda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "ledger csv (defaults to <data_dir>/bank_transactions.csv)")
	out := fs.String("out", "", "summary json (defaults to <reports_dir>/bank_summary.json); \"-\" disables saving")
	asJSON := fs.Bool("json", false, "print the summary as JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := infrastructure.NewJSONLogger(stderr, cfg.Logging.Level)

	if *in == "" || *out == "" {
		paths, err := cfg.GetPaths()
		if err != nil {
			logger.Error("Failed to initialize paths", slog.String("error", err.Error()))
			return 1
		}
		if *in == "" {
			*in = paths.LedgerCSV
		}
		if *out == "" {
			*out = paths.SummaryJSON
		}
	}

	ctx := context.Background()
	svc := services.NewLedgerService(cfg.Generator, nil, logger)

	if err := validation.NewFileValidator(logger).ValidateLedgerFile(*in); err != nil {
		reportReadError(stderr, err)
		return 1
	}

	rows, err := svc.Load(ctx, *in)
	if err != nil {
		reportReadError(stderr, err)
		return 1
	}

	summary := svc.Summarize(ctx, rows)

	if *asJSON {
		if err := summary.Encode(stdout); err != nil {
			fmt.Fprintf(stderr, "failed to print summary: %v\n", err)
			return 1
		}
	} else {
		printReport(stdout, summary)
	}

	if *out != "-" {
		if err := svc.WriteSummary(ctx, *out, summary); err != nil {
			fmt.Fprintf(stderr, "failed to save summary: %v\n", err)
			return 1
		}
		if !*asJSON {
			fmt.Fprintf(stdout, "\nSummary saved to '%s'.\n", *out)
		}
	}

	return 0
}

func reportReadError(w io.Writer, err error) {
	if apperrors.IsType(err, apperrors.ErrTypeNotFound) {
		fmt.Fprintln(w, "data not found")
		return
	}
	fmt.Fprintf(w, "failed to read ledger: %v\n", err)
}

func printReport(w io.Writer, s *dataprocessing.Summary) {
	fmt.Fprintln(w, "--- Bank ledger EDA ---")
	fmt.Fprintf(w, "Transactions: %d\n", s.TotalTransactions)
	fmt.Fprintf(w, "Customers: %d\n", s.DistinctCustomers)
	fmt.Fprintf(w, "Fraud rate: %.2f%% (%d rows, %s total)\n",
		s.FraudRatePercent, s.FraudTransactions, s.FraudAmountTotal.StringFixed(2))

	fmt.Fprintf(w, "\nAmounts     %10s %10s %10s %10s\n", "mean", "median", "min", "max")
	for _, row := range []struct {
		label string
		stats dataprocessing.AmountStats
	}{
		{"normal", s.NormalAmounts},
		{"fraud", s.FraudAmounts},
	} {
		fmt.Fprintf(w, "  %-9s %10s %10s %10s %10s\n", row.label,
			row.stats.Mean.StringFixed(2), row.stats.Median.StringFixed(2),
			row.stats.Min.StringFixed(2), row.stats.Max.StringFixed(2))
	}

	if len(s.TopFraudLocations) > 0 {
		fmt.Fprintln(w, "\nTop fraud locations:")
		for _, loc := range s.TopFraudLocations {
			fmt.Fprintf(w, "  %-14s %d\n", loc.Location, loc.Frauds)
		}
	}

	if r, ok := s.Correlation.Get("Amount", "IsFraud"); ok {
		fmt.Fprintf(w, "\nCorrelation Amount/IsFraud: %.4f\n", r)
	}

	var peak dataprocessing.HourlyRate
	for _, h := range s.FraudRateByHour {
		if h.Rate > peak.Rate {
			peak = h
		}
	}
	if peak.Frauds > 0 {
		fmt.Fprintf(w, "\nPeak fraud hour: %02d:00 (%.2f%%)\n", peak.Hour, peak.Rate*100)
	}
}
