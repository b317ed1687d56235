package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the serialized form of Transaction.Date
const DateLayout = "2006-01-02"

// LedgerColumns is the persisted column order of a ledger file
var LedgerColumns = []string{
	"TransactionID",
	"CustomerID",
	"Date",
	"Amount",
	"Category",
	"Location",
	"Source",
	"IsFraud",
	"Hour",
}

// TaxHavenLocation is the sentinel written over Location by the suspect-customer pattern
const TaxHavenLocation Location = "Unknown/Tax Haven"

// Transaction is one row of the synthetic bank ledger.
// Field order matches the persisted column order.
type Transaction struct {
	TransactionID string          `json:"transaction_id" csv:"TransactionID" validate:"required,txid"`
	CustomerID    string          `json:"customer_id" csv:"CustomerID" validate:"required,custid"`
	Date          time.Time       `json:"date" csv:"Date" validate:"required"`
	Amount        decimal.Decimal `json:"amount" csv:"Amount"`
	Category      Category        `json:"category" csv:"Category" validate:"required,category"`
	Location      Location        `json:"location" csv:"Location" validate:"required,location"`
	Source        Source          `json:"source" csv:"Source" validate:"required,source"`
	IsFraud       bool            `json:"is_fraud" csv:"IsFraud"`
	Hour          int             `json:"hour" csv:"Hour" validate:"min=0,max=23"`

	// Patterns records which injection rules marked the row. It is not part
	// of the persisted schema and is zero for rows read back from disk.
	Patterns FraudPattern `json:"-" csv:"-"`
}

// transactionJSON is the wire form of Transaction. Date and Amount use the
// persisted csv forms.
type transactionJSON struct {
	TransactionID string   `json:"transaction_id"`
	CustomerID    string   `json:"customer_id"`
	Date          string   `json:"date"`
	Amount        string   `json:"amount"`
	Category      Category `json:"category"`
	Location      Location `json:"location"`
	Source        Source   `json:"source"`
	IsFraud       bool     `json:"is_fraud"`
	Hour          int      `json:"hour"`
}

// MarshalJSON writes Date as YYYY-MM-DD and Amount with two decimals
func (tx Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		TransactionID: tx.TransactionID,
		CustomerID:    tx.CustomerID,
		Date:          tx.Date.Format(DateLayout),
		Amount:        tx.Amount.StringFixed(2),
		Category:      tx.Category,
		Location:      tx.Location,
		Source:        tx.Source,
		IsFraud:       tx.IsFraud,
		Hour:          tx.Hour,
	})
}

// UnmarshalJSON reads the form written by MarshalJSON
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("date %q: %w", raw.Date, err)
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", raw.Amount, err)
	}

	*tx = Transaction{
		TransactionID: raw.TransactionID,
		CustomerID:    raw.CustomerID,
		Date:          date,
		Amount:        amount,
		Category:      raw.Category,
		Location:      raw.Location,
		Source:        raw.Source,
		IsFraud:       raw.IsFraud,
		Hour:          raw.Hour,
	}
	return nil
}

// Category is the merchant category of a transaction
type Category string

const (
	CategoryGroceries     Category = "Groceries"
	CategoryElectronics   Category = "Electronics"
	CategoryTravel        Category = "Travel"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryRestaurant    Category = "Restaurant"
)

// Categories lists every category in sampling order
var Categories = []Category{
	CategoryGroceries,
	CategoryElectronics,
	CategoryTravel,
	CategoryEntertainment,
	CategoryHealth,
	CategoryRestaurant,
}

// Location is the city a transaction was made in
type Location string

const (
	LocationParis     Location = "Paris"
	LocationLyon      Location = "Lyon"
	LocationMarseille Location = "Marseille"
	LocationLondon    Location = "London"
	LocationNewYork   Location = "New York"
	LocationTokyo     Location = "Tokyo"
	LocationBerlin    Location = "Berlin"
)

// Locations lists every regular location in sampling order (the tax haven sentinel excluded)
var Locations = []Location{
	LocationParis,
	LocationLyon,
	LocationMarseille,
	LocationLondon,
	LocationNewYork,
	LocationTokyo,
	LocationBerlin,
}

// Source is the channel a transaction came through
type Source string

const (
	SourceOnline Source = "Online"
	SourcePOS    Source = "POS"
	SourceATM    Source = "ATM"
)

// Sources lists every source in sampling order, aligned with SourceWeights
var Sources = []Source{SourceOnline, SourcePOS, SourceATM}

// SourceWeights are the sampling probabilities of Sources
var SourceWeights = []float64{0.4, 0.5, 0.1}

// FraudPattern is a bitmask of the injection rules that marked a row
type FraudPattern uint8

const (
	PatternHighAmount FraudPattern = 1 << iota
	PatternSuspectCustomer
	PatternLateNight
)

// Has reports whether p includes every bit of other
func (p FraudPattern) Has(other FraudPattern) bool {
	return other != 0 && p&other == other
}

// String returns the pattern names joined with "+"
func (p FraudPattern) String() string {
	if p == 0 {
		return "none"
	}
	names := ""
	for _, item := range []struct {
		bit  FraudPattern
		name string
	}{
		{PatternHighAmount, "high_amount"},
		{PatternSuspectCustomer, "suspect_customer"},
		{PatternLateNight, "late_night"},
	} {
		if p&item.bit == 0 {
			continue
		}
		if names != "" {
			names += "+"
		}
		names += item.name
	}
	return names
}

// IsKnownCategory reports whether c is one of Categories
func IsKnownCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsKnownLocation reports whether l is one of Locations or the tax haven sentinel
func IsKnownLocation(l Location) bool {
	if l == TaxHavenLocation {
		return true
	}
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// IsKnownSource reports whether s is one of Sources
func IsKnownSource(s Source) bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}
