package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ledgersynth/internal/config"
	"ledgersynth/internal/infrastructure"
	"ledgersynth/internal/services"
	"ledgersynth/internal/validation"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run generates one ledger and persists it with its side artifacts.
// It returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("gendata", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Int64("seed", cfg.Generator.Seed, "PRNG seed")
	rows := fs.Int("rows", cfg.Generator.Rows, "number of transactions")
	out := fs.String("out", "", "output csv path (defaults to <data_dir>/bank_transactions.csv)")
	xlsx := fs.Bool("xlsx", cfg.Generator.WriteWorkbook, "also write the Excel workbook")
	manifest := fs.Bool("manifest", cfg.Generator.WriteManifest, "also write the manifest")
	summary := fs.Bool("summary", cfg.Generator.WriteSummary, "also write the EDA summary json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.Generator.WriteWorkbook = *xlsx
	cfg.Generator.WriteManifest = *manifest
	cfg.Generator.WriteSummary = *summary

	logger := infrastructure.NewJSONLogger(stderr, cfg.Logging.Level)

	paths, err := cfg.GetPaths()
	if err != nil {
		logger.Error("Failed to initialize paths", slog.String("error", err.Error()))
		return 1
	}

	if *out == "" {
		if err := paths.EnsureDirectories(); err != nil {
			logger.Error("Failed to create required directories", slog.String("error", err.Error()))
			return 1
		}
	} else if paths, err = siblingPaths(paths, *out); err != nil {
		fmt.Fprintf(stderr, "invalid output location: %v\n", err)
		return 1
	}

	logger.Info("Starting ledger generation",
		slog.Int64("seed", *seed),
		slog.Int("rows", *rows),
		slog.String("output_file", paths.LedgerCSV),
		slog.Bool("manifest", *manifest),
		slog.Bool("xlsx", *xlsx),
		slog.Bool("summary", *summary))

	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(paths.LedgerCSV)); err != nil {
		fmt.Fprintf(stderr, "invalid output location: %v\n", err)
		return 1
	}

	ctx := context.Background()
	svc := services.NewLedgerService(cfg.Generator, nil, logger)

	table, err := svc.Generate(ctx, *seed, *rows)
	if err != nil {
		fmt.Fprintf(stderr, "generation failed: %v\n", err)
		return 1
	}

	result, err := svc.Persist(ctx, table, paths)
	if err != nil {
		fmt.Fprintf(stderr, "persist failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Dataset '%s' generated successfully: %d rows, %d fraudulent.\n",
		result.Artifacts[services.ArtifactLedger], result.Rows, result.FraudRows)
	kinds := make([]string, 0, len(result.Artifacts))
	for kind := range result.Artifacts {
		if kind != services.ArtifactLedger {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(stdout, "  %-9s %s\n", kind, result.Artifacts[kind])
	}
	fmt.Fprintf(stdout, "  digest    %s\n", result.Digest)

	return 0
}

// siblingPaths places every side artifact next to an explicit output csv,
// named after its stem. A relative out is taken from the working directory.
func siblingPaths(base *config.Paths, out string) (*config.Paths, error) {
	abs, err := filepath.Abs(out)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", out, err)
	}

	p := *base
	stem := strings.TrimSuffix(abs, filepath.Ext(abs))

	p.LedgerCSV = abs
	p.ManifestJSON = stem + ".manifest.json"
	p.WorkbookXLSX = stem + ".xlsx"
	p.SummaryJSON = stem + "_summary.json"
	return &p, nil
}
