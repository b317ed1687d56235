package generator

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgersynth/pkg/contracts/domain"
)

// Sales column parameters
const (
	salesQuantityMin  = 1
	salesQuantitySpan = 9 // 1..9
	salesPriceMin     = 10.0
	salesPriceSpan    = 490.0 // [10, 500)
	salesRatingMin    = 1.0
	salesRatingSpan   = 4.0 // [1, 5)
	salesDiscountP    = 0.3
)

// SalesEpoch is the first day of the sales calendar
var SalesEpoch = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// GenerateSales produces rowCount retail sales records from seed. Dates are
// drawn with replacement from rowCount consecutive days starting at SalesEpoch.
func GenerateSales(seed int64, rowCount int) ([]domain.SalesRecord, error) {
	if err := checkRowCount(rowCount); err != nil {
		return nil, err
	}

	rng := newRand(seed)
	records := make([]domain.SalesRecord, rowCount)

	for i := range records {
		records[i].Date = SalesEpoch.AddDate(0, 0, rng.IntN(rowCount))
	}
	for i := range records {
		records[i].Category = domain.SalesCategories[rng.IntN(len(domain.SalesCategories))]
	}
	for i := range records {
		records[i].Location = domain.SalesLocations[rng.IntN(len(domain.SalesLocations))]
	}
	for i := range records {
		records[i].Quantity = salesQuantityMin + rng.IntN(salesQuantitySpan)
	}
	for i := range records {
		records[i].Price = decimal.NewFromFloat(salesPriceMin + rng.Float64()*salesPriceSpan).Round(2)
	}
	for i := range records {
		records[i].Rating = decimal.NewFromFloat(salesRatingMin + rng.Float64()*salesRatingSpan).Round(1)
	}
	for i := range records {
		records[i].DiscountApplied = rng.Float64() < salesDiscountP
	}
	for i := range records {
		records[i].Revenue = records[i].Price.Mul(decimal.NewFromInt(int64(records[i].Quantity)))
	}

	return records, nil
}
