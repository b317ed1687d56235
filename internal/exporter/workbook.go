package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"ledgersynth/internal/dataprocessing"
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/files"
	"ledgersynth/internal/generator"
	"ledgersynth/pkg/contracts/domain"
)

// Workbook sheet names
const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

// WorkbookExporter writes a ledger and its summary as an xlsx workbook
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export atomically writes table to path with a Transactions sheet holding
// every row and a Summary sheet built from summary. A nil summary leaves the
// Summary sheet with the row counts only.
func (we *WorkbookExporter) Export(path string, table *generator.Table, summary *dataprocessing.Summary) error {
	if table == nil {
		return apperrors.NewInvalidArgumentError("ledger table is nil", nil)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return apperrors.NewStorageError("failed to name transactions sheet", err)
	}
	if err := we.writeTransactions(f, table); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return apperrors.NewStorageError("failed to create summary sheet", err)
	}
	if err := writeSummary(f, table, summary); err != nil {
		return err
	}

	if err := files.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	}); err != nil {
		return err
	}

	we.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("rows", table.Len()))
	return nil
}

func (we *WorkbookExporter) writeTransactions(f *excelize.File, table *generator.Table) error {
	sw, err := f.NewStreamWriter(TransactionsSheet)
	if err != nil {
		return apperrors.NewStorageError("failed to open transactions stream", err)
	}

	header := make([]interface{}, len(domain.LedgerColumns))
	for i, name := range domain.LedgerColumns {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return apperrors.NewStorageError("failed to write workbook header", err)
	}

	var writeErr error
	table.Each(func(i int, tx domain.Transaction) bool {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			writeErr = err
			return false
		}

		fraud := 0
		if tx.IsFraud {
			fraud = 1
		}
		row := []interface{}{
			tx.TransactionID,
			tx.CustomerID,
			tx.Date.Format(domain.DateLayout),
			tx.Amount.InexactFloat64(),
			string(tx.Category),
			string(tx.Location),
			string(tx.Source),
			fraud,
			tx.Hour,
		}
		if err := sw.SetRow(cell, row); err != nil {
			writeErr = apperrors.NewStorageError("failed to write workbook row", err).WithContext("row", i+1)
			return false
		}
		return true
	})
	if writeErr != nil {
		return writeErr
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to flush transactions sheet", err)
	}
	return nil
}

func writeSummary(f *excelize.File, table *generator.Table, summary *dataprocessing.Summary) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Seed", table.Seed()},
		{"Transactions", table.Len()},
		{"Fraudulent", table.FraudCount()},
	}

	if summary != nil {
		rows = append(rows,
			[]interface{}{"Fraud rate %", summary.FraudRatePercent},
			[]interface{}{"Fraud amount total", summary.FraudAmountTotal.InexactFloat64()},
			[]interface{}{"Distinct customers", summary.DistinctCustomers},
			[]interface{}{"Normal mean amount", summary.NormalAmounts.Mean.InexactFloat64()},
			[]interface{}{"Fraud mean amount", summary.FraudAmounts.Mean.InexactFloat64()},
		)
		for _, loc := range summary.TopFraudLocations {
			rows = append(rows, []interface{}{"Fraud at " + loc.Location, loc.Frauds})
		}
	}

	names := make([]string, 0)
	injected := table.InjectedByName()
	for name := range injected {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []interface{}{"Injected " + name, injected[name]})
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write summary sheet", err).WithContext("row", i+1)
		}
	}
	return nil
}
