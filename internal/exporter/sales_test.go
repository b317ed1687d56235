package exporter

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/generator"
	"ledgersynth/pkg/contracts/domain"
)

func TestSalesRecord(t *testing.T) {
	r := domain.SalesRecord{
		Date:            time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC),
		Category:        "Toys",
		Location:        "Lille",
		Quantity:        3,
		Price:           decimal.RequireFromString("19.9"),
		Rating:          decimal.RequireFromString("4"),
		DiscountApplied: true,
		Revenue:         decimal.RequireFromString("59.7"),
	}

	assert.Equal(t, []string{"2023-03-09", "Toys", "Lille", "3", "19.90", "4.0", "True", "59.70"}, SalesRecord(r))

	r.DiscountApplied = false
	assert.Equal(t, "False", SalesRecord(r)[6])
}

func TestSalesWriter_WriteSales(t *testing.T) {
	_, paths := setupTestEnv(t)

	records, err := generator.GenerateSales(42, 100)
	require.NoError(t, err)

	require.NoError(t, NewSalesWriter(paths, nil).WriteSales(paths.SalesCSV, records))

	file, err := os.Open(paths.SalesCSV)
	require.NoError(t, err)
	defer file.Close()

	all, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 101)
	assert.Equal(t, SalesHeader, all[0])
	assert.Equal(t, SalesRecord(records[0]), all[1])
}
