package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ledgersynth/internal/config"
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/infrastructure"
	"ledgersynth/internal/services"
	"ledgersynth/internal/validation"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run builds the rebalanced lite dataset from an existing ledger csv
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("litecsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "source ledger csv (defaults to <data_dir>/bank_transactions.csv)")
	out := fs.String("out", "", "lite csv (defaults to <data_dir>/bank_transactions_lite.csv)")
	negatives := fs.Int("negatives", cfg.Lite.Negatives, "maximum number of non-fraud rows kept")
	seed := fs.Int64("seed", cfg.Lite.Seed, "sampling and shuffle seed")
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
			*out = paths.LiteCSV
		}
	}

	logger.Info("Building lite dataset",
		slog.String("input_file", *in),
		slog.String("output_file", *out),
		slog.Int("negatives", *negatives),
		slog.Int64("seed", *seed))

	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(*out)); err != nil {
		fmt.Fprintf(stderr, "invalid output location: %v\n", err)
		return 1
	}

	ctx := context.Background()
	svc := services.NewLedgerService(cfg.Generator, nil, logger)

	rows, err := svc.Load(ctx, *in)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			fmt.Fprintln(stderr, "data not found")
		} else {
			fmt.Fprintf(stderr, "failed to read ledger: %v\n", err)
		}
		return 1
	}

	lite, err := svc.BuildLite(ctx, rows, *negatives, *seed)
	if err != nil {
		fmt.Fprintf(stderr, "failed to build lite dataset: %v\n", err)
		return 1
	}

	if err := svc.WriteLite(ctx, lite, *seed, *out); err != nil {
		fmt.Fprintf(stderr, "failed to write lite dataset: %v\n", err)
		return 1
	}

	fraud := 0
	for _, tx := range lite {
		if tx.IsFraud {
			fraud++
		}
	}
	fmt.Fprintf(stdout, "Lite dataset '%s' written: %d rows (%d fraudulent, %d normal) from %d.\n",
		*out, len(lite), fraud, len(lite)-fraud, len(rows))

	return 0
}
