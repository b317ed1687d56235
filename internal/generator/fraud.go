package generator

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"ledgersynth/pkg/contracts/domain"
)

// Injection parameters
const (
	highAmountPercent      = 2
	highAmountMultMin      = 5.0
	highAmountMultSpan     = 5.0 // multiplier in [5, 10)
	suspectCustomerCount   = 5
	suspectCustomerPercent = 30
	lateNightPercent       = 10
)

// lateNightHours are the hours eligible for the late-night pattern
var lateNightHours = map[int]bool{2: true, 3: true, 4: true}

// pass marks a subset of rows as fraudulent. Apply returns the number of
// rows it selected and must only ever set IsFraud, never clear it.
type pass interface {
	Pattern() domain.FraudPattern
	Apply(rng *rand.Rand, rows []domain.Transaction) int
}

// passes run in this order on the generation stream
var passes = []pass{
	highAmountPass{},
	suspectCustomerPass{},
	lateNightPass{},
}

// mark labels rows[i] fraudulent and records the pattern
func mark(rows []domain.Transaction, i int, p domain.FraudPattern) {
	rows[i].IsFraud = true
	rows[i].Patterns |= p
}

// highAmountPass inflates the amount of a small share of all rows
type highAmountPass struct{}

func (highAmountPass) Pattern() domain.FraudPattern { return domain.PatternHighAmount }

func (highAmountPass) Apply(rng *rand.Rand, rows []domain.Transaction) int {
	k := min(ceilPercent(len(rows), highAmountPercent), len(rows))
	selected := sampleWithoutReplacement(rng, indexRange(len(rows)), k)

	for _, i := range selected {
		mult := decimal.NewFromFloat(highAmountMultMin + rng.Float64()*highAmountMultSpan)
		rows[i].Amount = rows[i].Amount.Mul(mult).Round(2)
		mark(rows, i, domain.PatternHighAmount)
	}
	return len(selected)
}

// suspectCustomerPass moves part of the activity of the first customers
// seen in the ledger to the tax haven location
type suspectCustomerPass struct{}

func (suspectCustomerPass) Pattern() domain.FraudPattern { return domain.PatternSuspectCustomer }

func (suspectCustomerPass) Apply(rng *rand.Rand, rows []domain.Transaction) int {
	suspects := make(map[string]bool, suspectCustomerCount)
	for _, id := range SuspectCustomers(rows) {
		suspects[id] = true
	}

	var eligible []int
	for i, tx := range rows {
		if suspects[tx.CustomerID] {
			eligible = append(eligible, i)
		}
	}

	k := roundPercentHalfEven(len(eligible), suspectCustomerPercent)
	selected := sampleWithoutReplacement(rng, eligible, k)

	for _, i := range selected {
		rows[i].Location = domain.TaxHavenLocation
		mark(rows, i, domain.PatternSuspectCustomer)
	}
	return len(selected)
}

// lateNightPass flags part of the transactions made between 2 and 4 AM
type lateNightPass struct{}

func (lateNightPass) Pattern() domain.FraudPattern { return domain.PatternLateNight }

func (lateNightPass) Apply(rng *rand.Rand, rows []domain.Transaction) int {
	var eligible []int
	for i, tx := range rows {
		if lateNightHours[tx.Hour] {
			eligible = append(eligible, i)
		}
	}

	k := roundPercentHalfEven(len(eligible), lateNightPercent)
	selected := sampleWithoutReplacement(rng, eligible, k)

	for _, i := range selected {
		mark(rows, i, domain.PatternLateNight)
	}
	return len(selected)
}

// SuspectCustomers returns the customer ids eligible for the suspect-customer
// pattern of rows, in first-appearance order
func SuspectCustomers(rows []domain.Transaction) []string {
	seen := make(map[string]bool, suspectCustomerCount)
	order := make([]string, 0, suspectCustomerCount)
	for _, tx := range rows {
		if len(order) == suspectCustomerCount {
			break
		}
		if !seen[tx.CustomerID] {
			seen[tx.CustomerID] = true
			order = append(order, tx.CustomerID)
		}
	}
	return order
}
