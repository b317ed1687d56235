package exporter

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"

	"ledgersynth/internal/config"
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/files"
	"ledgersynth/internal/generator"
	"ledgersynth/pkg/contracts/domain"
)

// LedgerHeader returns the ledger column names in persisted order
func LedgerHeader() []string {
	return append([]string(nil), domain.LedgerColumns...)
}

// TransactionRecord formats one transaction as a CSV record
func TransactionRecord(tx domain.Transaction) []string {
	fraud := "0"
	if tx.IsFraud {
		fraud = "1"
	}
	return []string{
		tx.TransactionID,
		tx.CustomerID,
		tx.Date.Format(domain.DateLayout),
		tx.Amount.StringFixed(2),
		string(tx.Category),
		string(tx.Location),
		string(tx.Source),
		fraud,
		strconv.Itoa(tx.Hour),
	}
}

// TransactionRecords formats rows as CSV records, without the header
func TransactionRecords(rows []domain.Transaction) [][]string {
	records := make([][]string, len(rows))
	for i, tx := range rows {
		records[i] = TransactionRecord(tx)
	}
	return records
}

// EncodeLedger writes the header and every row to w
func EncodeLedger(w io.Writer, rows []domain.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.LedgerColumns); err != nil {
		return apperrors.NewStorageError("failed to write ledger header", err)
	}
	for i, tx := range rows {
		if err := cw.Write(TransactionRecord(tx)); err != nil {
			return apperrors.NewStorageError("failed to write ledger row", err).WithContext("row", i+1)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush ledger", err)
	}
	return nil
}

// MarshalLedger returns the full CSV encoding of rows
func MarshalLedger(rows []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(64 * (len(rows) + 1))
	if err := EncodeLedger(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LedgerWriter persists generated tables in the ledger CSV schema
type LedgerWriter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewLedgerWriter creates a ledger writer resolving relative paths against paths
func NewLedgerWriter(paths *config.Paths, logger *slog.Logger) *LedgerWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerWriter{
		csv:    NewCSVWriter(paths, logger),
		logger: logger,
	}
}

// WriteLedger atomically replaces path with the CSV encoding of table and
// returns the bytes written, so callers can fingerprint the exact file.
func (lw *LedgerWriter) WriteLedger(path string, table *generator.Table) ([]byte, error) {
	if table == nil {
		return nil, apperrors.NewInvalidArgumentError("ledger table is nil", nil)
	}

	data, err := MarshalLedger(table.Rows())
	if err != nil {
		return nil, err
	}

	fullPath := lw.csv.resolvePath(path)
	if err := files.WriteFileAtomic(fullPath, data); err != nil {
		return nil, err
	}

	lw.logger.Info("Ledger written",
		slog.String("path", fullPath),
		slog.Int("rows", table.Len()),
		slog.Int("fraud_rows", table.FraudCount()),
		slog.Int("bytes", len(data)))

	return data, nil
}

// ResolvePath returns the absolute location WriteLedger would use for path
func (lw *LedgerWriter) ResolvePath(path string) string {
	return lw.csv.resolvePath(path)
}
