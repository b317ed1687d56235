package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/pkg/contracts/domain"
)

// Defaults used by the CLIs and the HTTP API
const (
	DefaultSeed     int64 = 42
	DefaultRowCount       = 5000
)

// Base column parameters
const (
	customerMin  = 100
	customerSpan = 400 // CUST100..CUST499
	calendarDays = 180
	amountScale  = 50.0
	amountFloor  = 5.0
	hoursPerDay  = 24
)

// Epoch is the first calendar day a transaction can fall on
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrInvalidRowCount is the cause of every rejected row count
var ErrInvalidRowCount = errors.New("row count must be positive")

// Table is an immutable generated ledger. Accessors return copies.
type Table struct {
	seed     int64
	rows     []domain.Transaction
	injected map[domain.FraudPattern]int
}

// Generate produces rowCount labeled transactions from seed.
// rowCount <= 0 fails with an invalid argument error before any randomness is drawn.
func Generate(seed int64, rowCount int) (*Table, error) {
	if err := checkRowCount(rowCount); err != nil {
		return nil, err
	}

	rng := newRand(seed)
	rows := synthesize(rng, rowCount)

	injected := make(map[domain.FraudPattern]int, len(passes))
	for _, p := range passes {
		injected[p.Pattern()] = p.Apply(rng, rows)
	}

	return &Table{seed: seed, rows: rows, injected: injected}, nil
}

// NewTable wraps rows read back from storage. Provenance is whatever the rows carry.
func NewTable(seed int64, rows []domain.Transaction) *Table {
	owned := make([]domain.Transaction, len(rows))
	copy(owned, rows)

	injected := make(map[domain.FraudPattern]int, len(passes))
	for _, p := range passes {
		for _, tx := range owned {
			if tx.Patterns.Has(p.Pattern()) {
				injected[p.Pattern()]++
			}
		}
	}
	return &Table{seed: seed, rows: owned, injected: injected}
}

func checkRowCount(rowCount int) error {
	if rowCount > 0 {
		return nil
	}
	return apperrors.NewInvalidArgumentError(
		fmt.Sprintf("row count must be positive, got %d", rowCount),
		ErrInvalidRowCount,
	).WithContext("row_count", rowCount)
}

// synthesize draws the base columns. Each column is drawn for every row
// before the next column starts, so the stream order is column-major.
func synthesize(rng *rand.Rand, n int) []domain.Transaction {
	rows := make([]domain.Transaction, n)

	for i := range rows {
		rows[i].TransactionID = fmt.Sprintf("TX%05d", i)
	}
	for i := range rows {
		rows[i].CustomerID = fmt.Sprintf("CUST%d", customerMin+rng.IntN(customerSpan))
	}
	for i := range rows {
		rows[i].Date = Epoch.AddDate(0, 0, rng.IntN(calendarDays))
	}
	for i := range rows {
		rows[i].Amount = decimal.NewFromFloat(rng.ExpFloat64()*amountScale + amountFloor).Round(2)
	}
	for i := range rows {
		rows[i].Category = domain.Categories[rng.IntN(len(domain.Categories))]
	}
	for i := range rows {
		rows[i].Location = domain.Locations[rng.IntN(len(domain.Locations))]
	}
	for i := range rows {
		rows[i].Source = domain.Sources[weightedIndex(rng, domain.SourceWeights)]
	}
	for i := range rows {
		rows[i].Hour = rng.IntN(hoursPerDay)
	}

	return rows
}

// Seed returns the seed the table was generated from
func (t *Table) Seed() int64 { return t.seed }

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of row i
func (t *Table) Row(i int) domain.Transaction { return t.rows[i] }

// Rows returns a copy of every row in generation order
func (t *Table) Rows() []domain.Transaction {
	out := make([]domain.Transaction, len(t.rows))
	copy(out, t.rows)
	return out
}

// Head returns a copy of at most n leading rows
func (t *Table) Head(n int) []domain.Transaction {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([]domain.Transaction, n)
	copy(out, t.rows[:n])
	return out
}

// Each calls fn for every row in order until fn returns false
func (t *Table) Each(fn func(i int, tx domain.Transaction) bool) {
	for i, tx := range t.rows {
		if !fn(i, tx) {
			return
		}
	}
}

// FraudCount returns the number of rows labeled fraudulent
func (t *Table) FraudCount() int {
	n := 0
	for _, tx := range t.rows {
		if tx.IsFraud {
			n++
		}
	}
	return n
}

// Injected returns how many rows the pass for p selected. Rows selected by
// several passes are counted once per pass.
func (t *Table) Injected(p domain.FraudPattern) int {
	return t.injected[p]
}

// InjectedByName returns Injected for every pattern keyed by pattern name
func (t *Table) InjectedByName() map[string]int {
	out := make(map[string]int, len(t.injected))
	for p, n := range t.injected {
		out[p.String()] = n
	}
	return out
}
