package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ledgersynth/internal/config"
	"ledgersynth/internal/dataprocessing"
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/exporter"
	"ledgersynth/internal/generator"
	"ledgersynth/internal/infrastructure"
	"ledgersynth/internal/validation"
	"ledgersynth/pkg/contracts/domain"
)

// Artifact kinds reported in PersistResult and the artifacts metric
const (
	ArtifactLedger   = "ledger_csv"
	ArtifactManifest = "manifest"
	ArtifactWorkbook = "workbook"
	ArtifactSummary  = "summary"
	ArtifactLite     = "lite_csv"
	ArtifactSales    = "sales_csv"
)

// PersistOptions selects the artifacts written next to the ledger CSV
type PersistOptions struct {
	Manifest bool
	Workbook bool
	Summary  bool
}

// PersistResult describes one successful Persist call
type PersistResult struct {
	RunID     string            `json:"run_id"`
	Rows      int               `json:"rows"`
	FraudRows int               `json:"fraud_rows"`
	Bytes     int               `json:"bytes"`
	Digest    string            `json:"digest,omitempty"`
	Artifacts map[string]string `json:"artifacts"`
	Duration  time.Duration     `json:"duration"`
}

// LedgerService wraps the pure generator with tracing, metrics, logging and persistence
type LedgerService struct {
	options    PersistOptions
	summarizer *dataprocessing.Summarizer
	workbook   *exporter.WorkbookExporter
	validator  *validation.TransactionValidator
	tracer     trace.Tracer
	metrics    *infrastructure.LedgerMetrics
	logger     *slog.Logger
}

// NewLedgerService creates a ledger service. metrics may be nil.
func NewLedgerService(cfg config.GeneratorConfig, metrics *infrastructure.LedgerMetrics, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "ledger_service")

	return &LedgerService{
		options: PersistOptions{
			Manifest: cfg.WriteManifest,
			Workbook: cfg.WriteWorkbook,
			Summary:  cfg.WriteSummary,
		},
		summarizer: dataprocessing.NewSummarizer(logger, dataprocessing.DefaultSummarizerConfig()),
		workbook:   exporter.NewWorkbookExporter(logger),
		validator:  validation.MustNewTransactionValidator(),
		tracer:     otel.Tracer(infrastructure.ServiceName),
		metrics:    metrics,
		logger:     logger,
	}
}

// Options returns the artifacts Persist writes besides the ledger
func (s *LedgerService) Options() PersistOptions {
	return s.options
}

// Generate produces the ledger for (seed, rows)
func (s *LedgerService) Generate(ctx context.Context, seed int64, rows int) (*generator.Table, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.generate",
		trace.WithAttributes(
			attribute.Int64("ledger.seed", seed),
			attribute.Int("ledger.rows", rows),
		))
	defer span.End()

	start := time.Now()
	table, err := generator.Generate(seed, rows)
	duration := time.Since(start)

	if err != nil {
		infrastructure.RecordGeneration(ctx, s.metrics, rows, nil, duration, err)
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "ledger generation rejected",
			slog.Int64("seed", seed),
			slog.Int("rows", rows),
			slog.String("error", err.Error()))
		return nil, err
	}

	injected := table.InjectedByName()
	infrastructure.RecordGeneration(ctx, s.metrics, table.Len(), injected, duration, nil)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"ledger.fraud_rows": table.FraudCount(),
	})

	s.logger.InfoContext(ctx, "ledger generated",
		slog.Int64("seed", seed),
		slog.Int("rows", table.Len()),
		slog.Int("fraud_rows", table.FraudCount()),
		slog.Int("high_amount", injected[domain.PatternHighAmount.String()]),
		slog.Int("suspect_customer", injected[domain.PatternSuspectCustomer.String()]),
		slog.Int("late_night", injected[domain.PatternLateNight.String()]),
		slog.Duration("duration", duration))

	return table, nil
}

// Persist writes the ledger CSV to paths.LedgerCSV, then the enabled side
// artifacts concurrently. The ledger is complete on disk before any side
// artifact starts; a failing side artifact fails the call.
func (s *LedgerService) Persist(ctx context.Context, table *generator.Table, paths *config.Paths) (*PersistResult, error) {
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))

	ctx, span := s.tracer.Start(ctx, "ledger.persist",
		trace.WithAttributes(attribute.String("ledger.run_id", runID)))
	defer span.End()

	start := time.Now()
	result, err := s.persist(ctx, table, paths, logger)
	if s.metrics != nil {
		status := attribute.String("status", "success")
		if err != nil {
			status = attribute.String("status", "failure")
		}
		s.metrics.PersistDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(status))
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		logger.ErrorContext(ctx, "ledger persistence failed", slog.String("error", err.Error()))
		return nil, err
	}

	result.RunID = runID
	result.Duration = time.Since(start)

	logger.InfoContext(ctx, "ledger persisted",
		slog.Int("rows", result.Rows),
		slog.Int("artifacts", len(result.Artifacts)),
		slog.String("digest", result.Digest),
		slog.Duration("duration", result.Duration))

	return result, nil
}

func (s *LedgerService) persist(ctx context.Context, table *generator.Table, paths *config.Paths, logger *slog.Logger) (*PersistResult, error) {
	if paths == nil {
		return nil, apperrors.NewInvalidArgumentError("persist paths are nil", nil)
	}
	if table == nil {
		return nil, apperrors.NewInvalidArgumentError("persist table is nil", ErrNilTable)
	}
	ledgerWriter := exporter.NewLedgerWriter(paths, logger)

	data, err := ledgerWriter.WriteLedger(paths.LedgerCSV, table)
	if err != nil {
		return nil, err
	}
	infrastructure.RecordArtifact(ctx, s.metrics, ArtifactLedger)

	result := &PersistResult{
		Rows:      table.Len(),
		FraudRows: table.FraudCount(),
		Bytes:     len(data),
		Artifacts: map[string]string{ArtifactLedger: ledgerWriter.ResolvePath(paths.LedgerCSV)},
	}

	var summary *dataprocessing.Summary
	if s.options.Summary || s.options.Workbook {
		summary = s.summarizer.Summarize(ctx, table.Rows())
	}

	// Each goroutine owns its own result slot; merged after Wait
	type written struct{ kind, path, digest string }
	out := make([]written, 3)

	g, gctx := errgroup.WithContext(ctx)

	if s.options.Manifest {
		g.Go(func() error {
			m := exporter.NewManifest(table.Seed(), table.Rows(), data)
			if err := exporter.WriteManifest(paths.ManifestJSON, m); err != nil {
				return err
			}
			infrastructure.RecordArtifact(gctx, s.metrics, ArtifactManifest)
			out[0] = written{ArtifactManifest, paths.ManifestJSON, m.Digest}
			return nil
		})
	}

	if s.options.Workbook {
		g.Go(func() error {
			if err := s.workbook.Export(paths.WorkbookXLSX, table, summary); err != nil {
				return err
			}
			infrastructure.RecordArtifact(gctx, s.metrics, ArtifactWorkbook)
			out[1] = written{kind: ArtifactWorkbook, path: paths.WorkbookXLSX}
			return nil
		})
	}

	if s.options.Summary {
		g.Go(func() error {
			if err := s.summarizer.WriteJSON(gctx, paths.SummaryJSON, summary); err != nil {
				return err
			}
			infrastructure.RecordArtifact(gctx, s.metrics, ArtifactSummary)
			out[2] = written{kind: ArtifactSummary, path: paths.SummaryJSON}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, w := range out {
		if w.kind == "" {
			continue
		}
		result.Artifacts[w.kind] = w.path
		if w.digest != "" {
			result.Digest = w.digest
		}
	}
	if result.Digest == "" {
		result.Digest = exporter.Digest(data)
	}

	return result, nil
}

// Load reads a persisted ledger and validates every row. A missing file is
// a NotFound error; a row outside the schema domains is a Validation error.
func (s *LedgerService) Load(ctx context.Context, path string) ([]domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.load",
		trace.WithAttributes(attribute.String("ledger.path", path)))
	defer span.End()

	rows, err := exporter.ReadLedger(path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "ledger load failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.validator.ValidateRows(rows); err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "ledger rejected",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "ledger loaded",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// Summarize computes the EDA summary of rows
func (s *LedgerService) Summarize(ctx context.Context, rows []domain.Transaction) *dataprocessing.Summary {
	ctx, span := s.tracer.Start(ctx, "ledger.summarize",
		trace.WithAttributes(attribute.Int("ledger.rows", len(rows))))
	defer span.End()

	return s.summarizer.Summarize(ctx, rows)
}

// WriteSummary writes summary as JSON to path
func (s *LedgerService) WriteSummary(ctx context.Context, path string, summary *dataprocessing.Summary) error {
	if err := s.summarizer.WriteJSON(ctx, path, summary); err != nil {
		return err
	}
	infrastructure.RecordArtifact(ctx, s.metrics, ArtifactSummary)
	return nil
}

// BuildLite returns the rebalanced lite dataset of rows
func (s *LedgerService) BuildLite(ctx context.Context, rows []domain.Transaction, negatives int, seed int64) ([]domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.build_lite",
		trace.WithAttributes(
			attribute.Int("ledger.rows", len(rows)),
			attribute.Int("lite.negatives", negatives),
		))
	defer span.End()

	lite, err := dataprocessing.BuildLite(rows, negatives, seed)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "lite dataset built",
		slog.Int("source_rows", len(rows)),
		slog.Int("lite_rows", len(lite)),
		slog.Int("negatives", negatives),
		slog.Int64("seed", seed))
	return lite, nil
}

// EncodeFeatures returns the label-encoded feature matrix of rows
func (s *LedgerService) EncodeFeatures(ctx context.Context, rows []domain.Transaction) (*dataprocessing.FeatureSet, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.encode_features",
		trace.WithAttributes(attribute.Int("ledger.rows", len(rows))))
	defer span.End()

	fs, err := dataprocessing.EncodeFeatures(rows)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "features encoded",
		slog.Int("rows", len(fs.X)),
		slog.Int("columns", len(fs.Columns)))
	return fs, nil
}

// WriteLite persists a lite dataset in the ledger schema at path
func (s *LedgerService) WriteLite(ctx context.Context, lite []domain.Transaction, seed int64, path string) error {
	if _, err := exporter.NewLedgerWriter(nil, s.logger).WriteLedger(path, generator.NewTable(seed, lite)); err != nil {
		s.logger.ErrorContext(ctx, "lite dataset write failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}
	infrastructure.RecordArtifact(ctx, s.metrics, ArtifactLite)
	return nil
}

// GenerateSales writes the synthetic sales dataset for (seed, rows) to path
// and returns the records written
func (s *LedgerService) GenerateSales(ctx context.Context, seed int64, rows int, path string) ([]domain.SalesRecord, error) {
	ctx, span := s.tracer.Start(ctx, "sales.generate",
		trace.WithAttributes(
			attribute.Int64("sales.seed", seed),
			attribute.Int("sales.rows", rows),
		))
	defer span.End()

	records, err := generator.GenerateSales(seed, rows)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	if err := exporter.NewSalesWriter(nil, s.logger).WriteSales(path, records); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	infrastructure.RecordArtifact(ctx, s.metrics, ArtifactSales)

	s.logger.InfoContext(ctx, "sales dataset written",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

// SummarizeSales computes the revenue and price analysis of records
func (s *LedgerService) SummarizeSales(ctx context.Context, records []domain.SalesRecord) *dataprocessing.SalesSummary {
	ctx, span := s.tracer.Start(ctx, "sales.summarize",
		trace.WithAttributes(attribute.Int("sales.rows", len(records))))
	defer span.End()

	return s.summarizer.SummarizeSales(ctx, records)
}

// WriteSalesSummary writes summary as JSON to path
func (s *LedgerService) WriteSalesSummary(ctx context.Context, path string, summary *dataprocessing.SalesSummary) error {
	if err := s.summarizer.WriteSalesJSON(ctx, path, summary); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	return nil
}
