package validation

import (
	"fmt"
	"strings"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ValidateLedgerHeader checks that header is exactly the ledger column list, in order.
// A leading UTF-8 byte order mark on the first column is tolerated.
func ValidateLedgerHeader(header []string) error {
	if len(header) > 0 {
		header = append([]string{strings.TrimPrefix(header[0], utf8BOM)}, header[1:]...)
	}

	if len(header) != len(domain.LedgerColumns) {
		return apperrors.NewParsingError(
			fmt.Sprintf("ledger header has %d columns, want %d", len(header), len(domain.LedgerColumns)),
			nil,
		).WithContext("header", header)
	}

	for i, want := range domain.LedgerColumns {
		if got := strings.TrimSpace(header[i]); got != want {
			return apperrors.NewParsingError(
				fmt.Sprintf("ledger header column %d is %q, want %q", i+1, got, want),
				nil,
			).WithContext("column", i+1)
		}
	}

	return nil
}
