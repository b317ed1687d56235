package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/config"
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/exporter"
	"ledgersynth/internal/shared/testutil"
)

func newTestPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func TestLedgerService_Generate(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	svc := NewLedgerService(config.GeneratorConfig{}, nil, logger)

	table, err := svc.Generate(context.Background(), 42, 500)
	require.NoError(t, err)
	assert.Equal(t, 500, table.Len())
	assert.Greater(t, table.FraudCount(), 0)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "ledger generated")
	assert.True(t, handler.ContainsAttr("component", "ledger_service"))
}

func TestLedgerService_GenerateRejectsRowCount(t *testing.T) {
	tests := []struct {
		name string
		rows int
	}{
		{"zero", 0},
		{"negative", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			svc := NewLedgerService(config.GeneratorConfig{}, nil, logger)

			table, err := svc.Generate(context.Background(), 1, tt.rows)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidArgument))
			testutil.AssertLogContains(t, handler, slog.LevelWarn, "ledger generation rejected")
		})
	}
}

func TestLedgerService_PersistLedgerOnly(t *testing.T) {
	paths := newTestPaths(t)
	svc := NewLedgerService(config.GeneratorConfig{}, nil, nil)
	ctx := context.Background()

	table, err := svc.Generate(ctx, 7, 200)
	require.NoError(t, err)

	result, err := svc.Persist(ctx, table, paths)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 200, result.Rows)
	assert.Equal(t, table.FraudCount(), result.FraudRows)
	assert.Equal(t, map[string]string{ArtifactLedger: paths.LedgerCSV}, result.Artifacts)

	data, err := os.ReadFile(paths.LedgerCSV)
	require.NoError(t, err)
	assert.Equal(t, len(data), result.Bytes)
	assert.Equal(t, exporter.Digest(data), result.Digest)

	assert.NoFileExists(t, paths.ManifestJSON)
	assert.NoFileExists(t, paths.WorkbookXLSX)
	assert.NoFileExists(t, paths.SummaryJSON)
}

func TestLedgerService_PersistAllArtifacts(t *testing.T) {
	paths := newTestPaths(t)
	svc := NewLedgerService(config.GeneratorConfig{
		WriteManifest: true,
		WriteWorkbook: true,
		WriteSummary:  true,
	}, nil, nil)
	ctx := context.Background()

	assert.Equal(t, PersistOptions{Manifest: true, Workbook: true, Summary: true}, svc.Options())

	table, err := svc.Generate(ctx, 42, 300)
	require.NoError(t, err)

	result, err := svc.Persist(ctx, table, paths)
	require.NoError(t, err)

	assert.Len(t, result.Artifacts, 4)
	for kind, path := range result.Artifacts {
		assert.FileExists(t, path, kind)
	}

	raw, err := os.ReadFile(paths.ManifestJSON)
	require.NoError(t, err)
	var manifest exporter.Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))

	data, err := os.ReadFile(paths.LedgerCSV)
	require.NoError(t, err)
	assert.True(t, manifest.Verify(data))
	assert.Equal(t, manifest.Digest, result.Digest)
	assert.Equal(t, int64(42), manifest.Seed)

	raw, err = os.ReadFile(paths.SummaryJSON)
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.EqualValues(t, 300, summary["total_transactions"])
}

func TestLedgerService_PersistFailures(t *testing.T) {
	svc := NewLedgerService(config.GeneratorConfig{}, nil, nil)
	ctx := context.Background()

	table, err := svc.Generate(ctx, 1, 10)
	require.NoError(t, err)

	t.Run("nil paths", func(t *testing.T) {
		_, err := svc.Persist(ctx, table, nil)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidArgument))
	})

	t.Run("nil table", func(t *testing.T) {
		_, err := svc.Persist(ctx, nil, newTestPaths(t))
		assert.ErrorIs(t, err, ErrNilTable)
	})

	t.Run("data dir is a file", func(t *testing.T) {
		base := t.TempDir()
		blocker := filepath.Join(base, "data")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		paths, err := config.NewPaths(config.PathsConfig{BaseDir: base, DataDir: "data"})
		require.NoError(t, err)

		logger, handler := testutil.NewTestLogger(t)
		failing := NewLedgerService(config.GeneratorConfig{}, nil, logger)

		result, err := failing.Persist(ctx, table, paths)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
		testutil.AssertLogContains(t, handler, slog.LevelError, "ledger persistence failed")
	})
}

func TestLedgerService_LoadRoundTrip(t *testing.T) {
	paths := newTestPaths(t)
	svc := NewLedgerService(config.GeneratorConfig{}, nil, nil)
	ctx := context.Background()

	table, err := svc.Generate(ctx, 11, 150)
	require.NoError(t, err)
	_, err = svc.Persist(ctx, table, paths)
	require.NoError(t, err)

	rows, err := svc.Load(ctx, paths.LedgerCSV)
	require.NoError(t, err)
	require.Len(t, rows, 150)
	for i, row := range rows {
		want := table.Row(i)
		assert.Equal(t, want.TransactionID, row.TransactionID)
		assert.True(t, want.Amount.Equal(row.Amount))
		assert.Equal(t, want.IsFraud, row.IsFraud)
	}

	summary := svc.Summarize(ctx, rows)
	assert.Equal(t, 150, summary.TotalTransactions)
	assert.Equal(t, table.FraudCount(), summary.FraudTransactions)

	require.NoError(t, svc.WriteSummary(ctx, paths.SummaryJSON, summary))
	assert.FileExists(t, paths.SummaryJSON)
}

func TestLedgerService_LoadNotFound(t *testing.T) {
	svc := NewLedgerService(config.GeneratorConfig{}, nil, nil)

	_, err := svc.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), "data not found")
}

func TestLedgerService_Lite(t *testing.T) {
	paths := newTestPaths(t)
	svc := NewLedgerService(config.GeneratorConfig{}, nil, nil)
	ctx := context.Background()

	table, err := svc.Generate(ctx, 42, 2000)
	require.NoError(t, err)

	lite, err := svc.BuildLite(ctx, table.Rows(), 100, 42)
	require.NoError(t, err)
	assert.Len(t, lite, table.FraudCount()+100)

	require.NoError(t, svc.WriteLite(ctx, lite, 42, paths.LiteCSV))

	loaded, err := svc.Load(ctx, paths.LiteCSV)
	require.NoError(t, err)
	assert.Len(t, loaded, len(lite))

	_, err = svc.BuildLite(ctx, table.Rows(), -1, 42)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidArgument))
}

func TestLedgerService_GenerateSales(t *testing.T) {
	paths := newTestPaths(t)
	svc := NewLedgerService(config.GeneratorConfig{}, nil, nil)

	records, err := svc.GenerateSales(context.Background(), 42, 250, paths.SalesCSV)
	require.NoError(t, err)
	assert.Len(t, records, 250)
	assert.FileExists(t, paths.SalesCSV)

	summary := svc.SummarizeSales(context.Background(), records)
	assert.Equal(t, 250, summary.Rows)
	assert.NotEmpty(t, summary.RevenueByCategory)

	out := filepath.Join(paths.ReportsDir, "sales_summary.json")
	require.NoError(t, svc.WriteSalesSummary(context.Background(), out, summary))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price_outliers"`)
	assert.Error(t, svc.WriteSalesSummary(context.Background(), out, nil))

	_, err = svc.GenerateSales(context.Background(), 42, 0, paths.SalesCSV)
	assert.Error(t, err)
}

func TestLedgerService_LoadRejectsOutOfDomainRows(t *testing.T) {
	logger, h := testutil.NewTestLogger(t)
	svc := NewLedgerService(config.GeneratorConfig{}, nil, logger)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := "TransactionID,CustomerID,Date,Amount,Category,Location,Source,IsFraud,Hour\n" +
		"TX00000,CUST150,2024-01-01,12.50,Groceries,Paris,POS,0,5\n" +
		"TX00001,CUST999,2024-01-02,8.00,Groceries,Paris,POS,0,6\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := svc.Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "TX00001")
	testutil.AssertLogContains(t, h, slog.LevelWarn, "ledger rejected")
}
