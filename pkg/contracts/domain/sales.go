package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one row of the synthetic retail sales dataset
type SalesRecord struct {
	Date            time.Time       `json:"date" csv:"Date"`
	Category        string          `json:"category" csv:"Category"`
	Location        string          `json:"location" csv:"Location"`
	Quantity        int             `json:"quantity" csv:"Quantity"`
	Price           decimal.Decimal `json:"price" csv:"Price"`
	Rating          decimal.Decimal `json:"rating" csv:"Rating"`
	DiscountApplied bool            `json:"discount_applied" csv:"Discount_Applied"`
	Revenue         decimal.Decimal `json:"revenue" csv:"Revenue"`
}

// SalesCategories are the product categories of the sales dataset
var SalesCategories = []string{"Electronics", "Clothing", "Home", "Beauty", "Toys"}

// SalesLocations are the store locations of the sales dataset
var SalesLocations = []string{"Paris", "Lyon", "Marseille", "Bordeaux", "Lille"}
