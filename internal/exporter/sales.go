package exporter

import (
	"log/slog"
	"strconv"

	"ledgersynth/internal/config"
	"ledgersynth/pkg/contracts/domain"
)

// SalesHeader is the column order of the sales dataset
var SalesHeader = []string{"Date", "Category", "Location", "Quantity", "Price", "Rating", "Discount_Applied", "Revenue"}

// SalesRecord formats one sales row. Booleans use the True/False spelling of
// the analysis notebooks that consume this file.
func SalesRecord(r domain.SalesRecord) []string {
	discount := "False"
	if r.DiscountApplied {
		discount = "True"
	}
	return []string{
		r.Date.Format(domain.DateLayout),
		r.Category,
		r.Location,
		strconv.Itoa(r.Quantity),
		r.Price.StringFixed(2),
		r.Rating.StringFixed(1),
		discount,
		r.Revenue.StringFixed(2),
	}
}

// SalesWriter persists sales datasets
type SalesWriter struct {
	csv *CSVWriter
}

// NewSalesWriter creates a sales writer resolving relative paths against paths
func NewSalesWriter(paths *config.Paths, logger *slog.Logger) *SalesWriter {
	return &SalesWriter{csv: NewCSVWriter(paths, logger)}
}

// WriteSales atomically replaces path with records
func (sw *SalesWriter) WriteSales(path string, records []domain.SalesRecord) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = SalesRecord(r)
	}
	return sw.csv.WriteSimpleCSV(path, SalesHeader, rows)
}
