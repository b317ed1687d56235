package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"ledgersynth/pkg/contracts/domain"
)

// PriceOutlierZ is the absolute price z-score above which a sale is an outlier
const PriceOutlierZ = 2.0

var salesNumericColumns = []string{"Quantity", "Price", "Rating", "Revenue"}

// SalesSummary is the analysis report of one sales dataset
type SalesSummary struct {
	Rows int `json:"rows"`

	// RevenueByCategory is ordered by category name
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`

	PriceMean     float64 `json:"price_mean"`
	PriceStdDev   float64 `json:"price_std_dev"`
	PriceOutliers int     `json:"price_outliers"`

	Correlation CorrelationMatrix `json:"correlation"`
}

// CategoryRevenue aggregates the revenue of one product category
type CategoryRevenue struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Sum      decimal.Decimal `json:"sum"`
	Mean     decimal.Decimal `json:"mean"`
}

// SummarizeSales computes revenue per category, the price outlier count and
// the correlation of the numeric columns. An empty dataset yields a zero summary.
func (s *Summarizer) SummarizeSales(ctx context.Context, records []domain.SalesRecord) *SalesSummary {
	summary := &SalesSummary{Rows: len(records)}

	byCategory := make(map[string]*CategoryRevenue)
	quantities := make([]float64, len(records))
	prices := make([]float64, len(records))
	ratings := make([]float64, len(records))
	revenues := make([]float64, len(records))

	for i, rec := range records {
		agg, ok := byCategory[rec.Category]
		if !ok {
			agg = &CategoryRevenue{Category: rec.Category}
			byCategory[rec.Category] = agg
		}
		agg.Count++
		agg.Sum = agg.Sum.Add(rec.Revenue)

		quantities[i] = float64(rec.Quantity)
		prices[i] = rec.Price.InexactFloat64()
		ratings[i] = rec.Rating.InexactFloat64()
		revenues[i] = rec.Revenue.InexactFloat64()
	}

	summary.RevenueByCategory = make([]CategoryRevenue, 0, len(byCategory))
	for _, agg := range byCategory {
		agg.Mean = agg.Sum.Div(decimal.NewFromInt(int64(agg.Count))).Round(2)
		summary.RevenueByCategory = append(summary.RevenueByCategory, *agg)
	}
	sort.Slice(summary.RevenueByCategory, func(i, j int) bool {
		return summary.RevenueByCategory[i].Category < summary.RevenueByCategory[j].Category
	})

	m, sd := mean(prices), sampleStdDev(prices)
	if sd > 0 {
		for _, p := range prices {
			if math.Abs(p-m)/sd > PriceOutlierZ {
				summary.PriceOutliers++
			}
		}
	}
	summary.PriceMean = round2(m)
	summary.PriceStdDev = round2(sd)
	summary.Correlation = correlate(salesNumericColumns, [][]float64{quantities, prices, ratings, revenues})

	s.logger.InfoContext(ctx, "sales summarized",
		slog.Int("rows", summary.Rows),
		slog.Int("categories", len(summary.RevenueByCategory)),
		slog.Int("price_outliers", summary.PriceOutliers))

	return summary
}
