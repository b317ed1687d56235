package dataprocessing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/files"
	"ledgersynth/pkg/contracts/domain"
)

// hoursPerDay is the length of Summary.FraudRateByHour
const hoursPerDay = 24

var ledgerNumericColumns = []string{"Amount", "IsFraud", "Hour"}

// Summarizer computes exploratory statistics over a ledger
type Summarizer struct {
	logger       *slog.Logger
	topLocations int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopLocations int // Number of fraud locations kept in the ranking
}

// DefaultSummarizerConfig returns the standard configuration
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{TopLocations: 5}
}

// NewSummarizer creates a new ledger summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopLocations <= 0 {
		config.TopLocations = DefaultSummarizerConfig().TopLocations
	}
	return &Summarizer{
		logger:       logger,
		topLocations: config.TopLocations,
	}
}

// Summary is the EDA report of one ledger
type Summary struct {
	GeneratedAt       time.Time       `json:"generated_at"`
	TotalTransactions int             `json:"total_transactions"`
	FraudTransactions int             `json:"fraud_transactions"`
	FraudRatePercent  float64         `json:"fraud_rate_percent"`
	FraudAmountTotal  decimal.Decimal `json:"fraud_amount_total"`
	DistinctCustomers int             `json:"distinct_customers"`

	FraudRateByHour   []HourlyRate    `json:"fraud_rate_by_hour"`
	TopFraudLocations []LocationCount `json:"top_fraud_locations"`

	NormalAmounts AmountStats `json:"normal_amounts"`
	FraudAmounts  AmountStats `json:"fraud_amounts"`

	// Correlation pairs the numeric columns Amount, IsFraud and Hour
	Correlation CorrelationMatrix `json:"correlation"`

	ByCategory    map[string]int `json:"by_category"`
	BySource      map[string]int `json:"by_source"`
	FraudBySource map[string]int `json:"fraud_by_source"`

	// Patterns counts rows per injection rule; empty for ledgers read from disk
	Patterns map[string]int `json:"patterns,omitempty"`
}

// HourlyRate is the share of fraudulent rows at one hour of day
type HourlyRate struct {
	Hour         int     `json:"hour"`
	Transactions int     `json:"transactions"`
	Frauds       int     `json:"frauds"`
	Rate         float64 `json:"rate"`
}

// LocationCount is the number of fraudulent rows at one location
type LocationCount struct {
	Location string `json:"location"`
	Frauds   int    `json:"frauds"`
}

// AmountStats describes one amount population
type AmountStats struct {
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
}

// Summarize computes the EDA summary of rows. An empty ledger yields a zero summary.
func (s *Summarizer) Summarize(ctx context.Context, rows []domain.Transaction) *Summary {
	summary := &Summary{
		GeneratedAt:       time.Now().UTC().Truncate(time.Second),
		TotalTransactions: len(rows),
		FraudRateByHour:   make([]HourlyRate, hoursPerDay),
		ByCategory:        make(map[string]int),
		BySource:          make(map[string]int),
		FraudBySource:     make(map[string]int),
	}
	for h := range summary.FraudRateByHour {
		summary.FraudRateByHour[h].Hour = h
	}

	customers := make(map[string]struct{})
	fraudByLocation := make(map[string]int)
	patterns := make(map[string]int)
	var normal, fraud []decimal.Decimal
	amounts := make([]float64, 0, len(rows))
	frauds := make([]float64, 0, len(rows))
	hours := make([]float64, 0, len(rows))

	for _, tx := range rows {
		customers[tx.CustomerID] = struct{}{}
		amounts = append(amounts, tx.Amount.InexactFloat64())
		hours = append(hours, float64(tx.Hour))
		if tx.IsFraud {
			frauds = append(frauds, 1)
		} else {
			frauds = append(frauds, 0)
		}
		summary.ByCategory[string(tx.Category)]++
		summary.BySource[string(tx.Source)]++

		if tx.Hour >= 0 && tx.Hour < hoursPerDay {
			summary.FraudRateByHour[tx.Hour].Transactions++
		}

		if !tx.IsFraud {
			normal = append(normal, tx.Amount)
			continue
		}

		summary.FraudTransactions++
		fraud = append(fraud, tx.Amount)
		fraudByLocation[string(tx.Location)]++
		summary.FraudBySource[string(tx.Source)]++
		if tx.Hour >= 0 && tx.Hour < hoursPerDay {
			summary.FraudRateByHour[tx.Hour].Frauds++
		}
		for _, p := range []domain.FraudPattern{domain.PatternHighAmount, domain.PatternSuspectCustomer, domain.PatternLateNight} {
			if tx.Patterns.Has(p) {
				patterns[p.String()]++
			}
		}
	}

	summary.DistinctCustomers = len(customers)
	if len(rows) > 0 {
		summary.FraudRatePercent = round2(float64(summary.FraudTransactions) / float64(len(rows)) * 100)
	}
	for h := range summary.FraudRateByHour {
		if hr := &summary.FraudRateByHour[h]; hr.Transactions > 0 {
			hr.Rate = round4(float64(hr.Frauds) / float64(hr.Transactions))
		}
	}

	summary.NormalAmounts = amountStats(normal)
	summary.FraudAmounts = amountStats(fraud)
	summary.FraudAmountTotal = summary.FraudAmounts.Total
	summary.TopFraudLocations = topLocations(fraudByLocation, s.topLocations)
	summary.Correlation = correlate(ledgerNumericColumns, [][]float64{amounts, frauds, hours})
	if len(patterns) > 0 {
		summary.Patterns = patterns
	}

	s.logger.InfoContext(ctx, "ledger summarized",
		slog.Int("rows", summary.TotalTransactions),
		slog.Int("fraud_rows", summary.FraudTransactions),
		slog.Float64("fraud_rate_percent", summary.FraudRatePercent),
		slog.Int("customers", summary.DistinctCustomers))

	return summary
}

// Encode writes summary as indented JSON
func (summary *Summary) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return apperrors.NewStorageError("failed to encode summary", err)
	}
	return nil
}

// WriteJSON atomically writes summary to path
func (s *Summarizer) WriteJSON(ctx context.Context, path string, summary *Summary) error {
	if summary == nil {
		return apperrors.NewInvalidArgumentError("summary is nil", nil)
	}

	if err := files.WriteAtomic(path, summary.Encode); err != nil {
		s.logger.ErrorContext(ctx, "failed to write summary",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.InfoContext(ctx, "summary written", slog.String("path", path))
	return nil
}

// Encode writes summary as indented JSON
func (summary *SalesSummary) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return apperrors.NewStorageError("failed to encode sales summary", err)
	}
	return nil
}

// WriteSalesJSON atomically writes a sales summary to path
func (s *Summarizer) WriteSalesJSON(ctx context.Context, path string, summary *SalesSummary) error {
	if summary == nil {
		return apperrors.NewInvalidArgumentError("sales summary is nil", nil)
	}

	if err := files.WriteAtomic(path, summary.Encode); err != nil {
		s.logger.ErrorContext(ctx, "failed to write sales summary",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.InfoContext(ctx, "sales summary written", slog.String("path", path))
	return nil
}

func amountStats(values []decimal.Decimal) AmountStats {
	if len(values) == 0 {
		return AmountStats{}
	}

	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	total := decimal.Sum(sorted[0], sorted[1:]...)
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
	}

	return AmountStats{
		Count:  len(sorted),
		Total:  total,
		Mean:   total.Div(decimal.NewFromInt(int64(len(sorted)))).Round(2),
		Median: median.Round(2),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// topLocations ranks by fraud count, ties broken by name
func topLocations(counts map[string]int, limit int) []LocationCount {
	ranked := make([]LocationCount, 0, len(counts))
	for loc, n := range counts {
		ranked = append(ranked, LocationCount{Location: loc, Frauds: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frauds != ranked[j].Frauds {
			return ranked[i].Frauds > ranked[j].Frauds
		}
		return ranked[i].Location < ranked[j].Location
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
