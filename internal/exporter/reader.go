package exporter

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/validation"
	"ledgersynth/pkg/contracts/domain"
)

// ReadLedger loads a ledger CSV from path. A missing file is a NotFound error.
func ReadLedger(path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("data").WithContext("path", path)
		}
		return nil, apperrors.NewStorageError("failed to open ledger", err).WithContext("path", path)
	}
	defer file.Close()

	rows, err := DecodeLedger(bufio.NewReader(file))
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return rows, nil
}

// DecodeLedger parses a ledger CSV stream. The header must match the ledger
// columns exactly; any malformed data row fails the whole read.
func DecodeLedger(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewParsingError("ledger is empty", nil)
		}
		return nil, apperrors.NewParsingError("failed to read ledger header", err)
	}
	if err := validation.ValidateLedgerHeader(header); err != nil {
		return nil, err
	}
	reader.FieldsPerRecord = len(domain.LedgerColumns)

	var rows []domain.Transaction
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed ledger row", err).WithContext("row", row)
		}

		tx, err := parseTransaction(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid ledger row %d", row), err).
				WithContext("row", row).
				WithContext("line", line)
		}
		rows = append(rows, tx)
	}

	return rows, nil
}

func parseTransaction(record []string) (domain.Transaction, error) {
	date, err := time.Parse(domain.DateLayout, record[2])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("Date %q: %w", record[2], err)
	}

	amount, err := decimal.NewFromString(record[3])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("Amount %q: %w", record[3], err)
	}

	fraud, err := parseFlag(record[7])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("IsFraud %q: %w", record[7], err)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(record[8]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("Hour %q: %w", record[8], err)
	}

	return domain.Transaction{
		TransactionID: record[0],
		CustomerID:    record[1],
		Date:          date,
		Amount:        amount,
		Category:      domain.Category(record[4]),
		Location:      domain.Location(record[5]),
		Source:        domain.Source(record[6]),
		IsFraud:       fraud,
		Hour:          hour,
	}, nil
}

// parseFlag accepts 0/1 as written by EncodeLedger plus the boolean spellings
// strconv understands.
func parseFlag(s string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}
