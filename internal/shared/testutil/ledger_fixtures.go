package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ledgersynth/pkg/contracts/domain"
)

// TransactionOption customises a fixture transaction
type TransactionOption func(*domain.Transaction)

// WithCustomer sets the customer id
func WithCustomer(id string) TransactionOption {
	return func(tx *domain.Transaction) { tx.CustomerID = id }
}

// WithAmount sets the amount from a string such as "12.50"
func WithAmount(amount string) TransactionOption {
	return func(tx *domain.Transaction) { tx.Amount = decimal.RequireFromString(amount) }
}

// WithHour sets the hour of day
func WithHour(hour int) TransactionOption {
	return func(tx *domain.Transaction) { tx.Hour = hour }
}

// WithLocation sets the location
func WithLocation(loc domain.Location) TransactionOption {
	return func(tx *domain.Transaction) { tx.Location = loc }
}

// WithCategory sets the category
func WithCategory(c domain.Category) TransactionOption {
	return func(tx *domain.Transaction) { tx.Category = c }
}

// WithSource sets the source channel
func WithSource(s domain.Source) TransactionOption {
	return func(tx *domain.Transaction) { tx.Source = s }
}

// Fraud marks the transaction fraudulent with the given patterns
func Fraud(patterns domain.FraudPattern) TransactionOption {
	return func(tx *domain.Transaction) {
		tx.IsFraud = true
		tx.Patterns = patterns
	}
}

// NewTransaction builds a valid transaction with sequence index seq
func NewTransaction(seq int, opts ...TransactionOption) domain.Transaction {
	tx := domain.Transaction{
		TransactionID: fmt.Sprintf("TX%05d", seq),
		CustomerID:    "CUST100",
		Date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, seq%180),
		Amount:        decimal.RequireFromString("25.00"),
		Category:      domain.CategoryGroceries,
		Location:      domain.LocationParis,
		Source:        domain.SourcePOS,
		Hour:          12,
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx
}

// SampleTransactions returns a small mixed table: 6 normal rows and 3 frauds,
// one per pattern.
func SampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		NewTransaction(0, WithCustomer("CUST101"), WithAmount("10.00"), WithHour(9)),
		NewTransaction(1, WithCustomer("CUST102"), WithAmount("20.00"), WithHour(10), WithCategory(domain.CategoryTravel)),
		NewTransaction(2, WithCustomer("CUST101"), WithAmount("400.00"), WithHour(11), Fraud(domain.PatternHighAmount)),
		NewTransaction(3, WithCustomer("CUST103"), WithAmount("30.00"), WithHour(3), Fraud(domain.PatternLateNight), WithLocation(domain.LocationTokyo)),
		NewTransaction(4, WithCustomer("CUST104"), WithAmount("40.00"), WithHour(14), WithSource(domain.SourceOnline)),
		NewTransaction(5, WithCustomer("CUST101"), WithAmount("50.00"), WithHour(15), Fraud(domain.PatternSuspectCustomer), WithLocation(domain.TaxHavenLocation)),
		NewTransaction(6, WithCustomer("CUST105"), WithAmount("60.00"), WithHour(16), WithSource(domain.SourceATM)),
		NewTransaction(7, WithCustomer("CUST102"), WithAmount("70.00"), WithHour(3), WithLocation(domain.LocationBerlin)),
		NewTransaction(8, WithCustomer("CUST106"), WithAmount("80.00"), WithHour(20), WithCategory(domain.CategoryHealth)),
	}
}
