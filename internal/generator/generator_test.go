package generator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/pkg/contracts/domain"
)

// baseRows re-draws the pre-injection columns for (seed, n). The passes
// consume the stream only after synthesis, so these equal the rows as they
// were before pass 1 ran.
func baseRows(seed int64, n int) []domain.Transaction {
	return synthesize(newRand(seed), n)
}

func mustGenerate(t *testing.T, seed int64, n int) *Table {
	t.Helper()
	table, err := Generate(seed, n)
	require.NoError(t, err)
	require.NotNil(t, table)
	return table
}

func TestGenerateDeterminism(t *testing.T) {
	a := mustGenerate(t, 42, 2000)
	b := mustGenerate(t, 42, 2000)
	assert.Equal(t, a.Rows(), b.Rows())
	assert.Equal(t, a.InjectedByName(), b.InjectedByName())

	c := mustGenerate(t, 43, 2000)
	assert.NotEqual(t, a.Rows(), c.Rows())
}

func TestGenerateRowCount(t *testing.T) {
	for _, n := range []int{1, 2, 7, 49, 50, 51, 1000, 5000} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			table := mustGenerate(t, 7, n)
			assert.Equal(t, n, table.Len())
			assert.Len(t, table.Rows(), n)
			assert.Equal(t, int64(7), table.Seed())
		})
	}
}

func TestGenerateRejectsNonPositiveRowCount(t *testing.T) {
	for _, n := range []int{0, -1, -5000} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			table, err := Generate(42, n)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, ErrInvalidRowCount))
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidArgument))
		})
	}
}

func TestTransactionIDsUniqueAndIncreasing(t *testing.T) {
	table := mustGenerate(t, 42, 3000)

	seen := make(map[string]bool, table.Len())
	prev := -1
	table.Each(func(i int, tx domain.Transaction) bool {
		assert.False(t, seen[tx.TransactionID], "duplicate id %s", tx.TransactionID)
		seen[tx.TransactionID] = true

		require.True(t, strings.HasPrefix(tx.TransactionID, "TX"))
		seq, err := strconv.Atoi(strings.TrimPrefix(tx.TransactionID, "TX"))
		require.NoError(t, err)
		assert.Greater(t, seq, prev)
		prev = seq
		return true
	})

	assert.Equal(t, "TX00000", table.Row(0).TransactionID)
	assert.Equal(t, "TX02999", table.Row(2999).TransactionID)
}

func TestBaseColumnDomains(t *testing.T) {
	table := mustGenerate(t, 11, 5000)
	last := Epoch.AddDate(0, 0, calendarDays-1)

	for _, tx := range table.Rows() {
		num, err := strconv.Atoi(strings.TrimPrefix(tx.CustomerID, "CUST"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, num, 100)
		assert.LessOrEqual(t, num, 499)

		assert.False(t, tx.Date.Before(Epoch), "date %s before epoch", tx.Date)
		assert.False(t, tx.Date.After(last), "date %s after window", tx.Date)

		assert.True(t, domain.IsKnownCategory(tx.Category))
		assert.True(t, domain.IsKnownLocation(tx.Location))
		assert.True(t, domain.IsKnownSource(tx.Source))
		assert.GreaterOrEqual(t, tx.Hour, 0)
		assert.LessOrEqual(t, tx.Hour, 23)

		assert.LessOrEqual(t, tx.Amount.Exponent(), int32(0))
		assert.True(t, tx.Amount.Equal(tx.Amount.Round(2)), "amount %s has more than 2 decimals", tx.Amount)
		assert.True(t, tx.Amount.GreaterThanOrEqual(decimal.NewFromInt(5)))

		if !tx.IsFraud {
			assert.Equal(t, domain.FraudPattern(0), tx.Patterns)
		} else {
			assert.NotEqual(t, domain.FraudPattern(0), tx.Patterns)
		}
	}
}

func TestSourceDistribution(t *testing.T) {
	rows := baseRows(3, 20000)
	counts := map[domain.Source]int{}
	for _, tx := range rows {
		counts[tx.Source]++
	}

	for i, src := range domain.Sources {
		share := float64(counts[src]) / float64(len(rows))
		assert.InDelta(t, domain.SourceWeights[i], share, 0.02, "source %s", src)
	}
}

func TestHighAmountPass(t *testing.T) {
	for _, n := range []int{1, 50, 51, 1234, 5000} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			table := mustGenerate(t, 42, n)
			base := baseRows(42, n)

			want := min(ceilPercent(n, highAmountPercent), n)
			assert.Equal(t, want, table.Injected(domain.PatternHighAmount))

			marked := 0
			for i, tx := range table.Rows() {
				if !tx.Patterns.Has(domain.PatternHighAmount) {
					assert.True(t, tx.Amount.Equal(base[i].Amount), "unselected row %d changed amount", i)
					continue
				}
				marked++
				assert.True(t, tx.IsFraud)

				// U[5,10) multiplier, then rounding to cents
				low := base[i].Amount.Mul(decimal.NewFromInt(5)).Sub(decimal.RequireFromString("0.005"))
				high := base[i].Amount.Mul(decimal.NewFromInt(10)).Add(decimal.RequireFromString("0.005"))
				assert.True(t, tx.Amount.GreaterThanOrEqual(low), "row %d: %s < 5x %s", i, tx.Amount, base[i].Amount)
				assert.True(t, tx.Amount.LessThanOrEqual(high), "row %d: %s > 10x %s", i, tx.Amount, base[i].Amount)
				assert.True(t, tx.Amount.Equal(tx.Amount.Round(2)))
			}
			assert.Equal(t, want, marked)
		})
	}
}

func TestSuspectCustomerPass(t *testing.T) {
	table := mustGenerate(t, 42, 5000)
	base := baseRows(42, 5000)

	suspects := SuspectCustomers(base)
	require.Len(t, suspects, suspectCustomerCount)
	isSuspect := map[string]bool{}
	for _, id := range suspects {
		isSuspect[id] = true
	}

	eligible := 0
	for _, tx := range base {
		if isSuspect[tx.CustomerID] {
			eligible++
		}
	}

	want := roundPercentHalfEven(eligible, suspectCustomerPercent)
	assert.Equal(t, want, table.Injected(domain.PatternSuspectCustomer))

	marked := 0
	for i, tx := range table.Rows() {
		if tx.Patterns.Has(domain.PatternSuspectCustomer) {
			marked++
			assert.True(t, tx.IsFraud)
			assert.True(t, isSuspect[tx.CustomerID], "row %d customer %s is not a suspect", i, tx.CustomerID)
			assert.Equal(t, domain.TaxHavenLocation, tx.Location)
			continue
		}
		assert.NotEqual(t, domain.TaxHavenLocation, tx.Location, "row %d has the sentinel without the pattern", i)
		assert.Equal(t, base[i].Location, tx.Location)
	}
	assert.Equal(t, want, marked)
}

func TestSuspectCustomersInsertionOrder(t *testing.T) {
	rows := []domain.Transaction{
		{CustomerID: "CUST300"}, {CustomerID: "CUST120"}, {CustomerID: "CUST300"},
		{CustomerID: "CUST499"}, {CustomerID: "CUST101"}, {CustomerID: "CUST120"},
		{CustomerID: "CUST250"}, {CustomerID: "CUST111"},
	}
	assert.Equal(t, []string{"CUST300", "CUST120", "CUST499", "CUST101", "CUST250"}, SuspectCustomers(rows))

	assert.Equal(t, []string{"CUST1"}, SuspectCustomers([]domain.Transaction{{CustomerID: "CUST1"}, {CustomerID: "CUST1"}}))
	assert.Empty(t, SuspectCustomers(nil))
}

func TestLateNightPass(t *testing.T) {
	table := mustGenerate(t, 42, 5000)
	base := baseRows(42, 5000)

	eligible := 0
	for _, tx := range base {
		if tx.Hour >= 2 && tx.Hour <= 4 {
			eligible++
		}
	}

	want := roundPercentHalfEven(eligible, lateNightPercent)
	assert.Equal(t, want, table.Injected(domain.PatternLateNight))

	marked := 0
	for _, tx := range table.Rows() {
		if tx.Patterns.Has(domain.PatternLateNight) {
			marked++
			assert.True(t, tx.IsFraud)
			assert.Contains(t, []int{2, 3, 4}, tx.Hour)
		}
	}
	assert.Equal(t, want, marked)
}

func TestPassesNeverClearLabels(t *testing.T) {
	rows := baseRows(5, 3000)
	rng := newRand(99)

	for _, p := range passes {
		before := make([]bool, len(rows))
		for i, tx := range rows {
			before[i] = tx.IsFraud
		}

		p.Apply(rng, rows)

		for i, tx := range rows {
			if before[i] {
				assert.True(t, tx.IsFraud, "pass %s cleared row %d", p.Pattern(), i)
			}
		}
	}
}

func TestPassesOnEmptyEligibleSets(t *testing.T) {
	rows := []domain.Transaction{
		{TransactionID: "TX00000", CustomerID: "CUST100", Hour: 12},
		{TransactionID: "TX00001", CustomerID: "CUST101", Hour: 13},
	}
	rng := newRand(1)

	assert.Equal(t, 0, lateNightPass{}.Apply(rng, rows), "no row in 2..4")
	assert.Equal(t, 0, suspectCustomerPass{}.Apply(rng, rows[:1]), "30% of 1 rounds to 0")
	assert.Equal(t, 0, suspectCustomerPass{}.Apply(rng, nil))
	assert.Equal(t, 0, highAmountPass{}.Apply(rng, nil))
	for _, tx := range rows {
		assert.False(t, tx.IsFraud)
	}
}

func TestSingleRowBoundary(t *testing.T) {
	table := mustGenerate(t, 42, 1)
	require.Equal(t, 1, table.Len())

	tx := table.Row(0)
	assert.Equal(t, "TX00000", tx.TransactionID)
	// ceil(2% of 1) is 1, so the only row is always inflated
	assert.True(t, tx.IsFraud)
	assert.True(t, tx.Patterns.Has(domain.PatternHighAmount))
	assert.Equal(t, 1, table.Injected(domain.PatternHighAmount))
	assert.Equal(t, 0, table.Injected(domain.PatternSuspectCustomer))
	assert.Equal(t, 0, table.Injected(domain.PatternLateNight))
}

func TestEndToEndDefaultRun(t *testing.T) {
	table := mustGenerate(t, DefaultSeed, DefaultRowCount)
	require.Equal(t, 5000, table.Len())

	fraudRate := float64(table.FraudCount()) / float64(table.Len())
	assert.GreaterOrEqual(t, fraudRate, 0.02)
	assert.Equal(t, 100, table.Injected(domain.PatternHighAmount))

	taxHaven := 0
	for _, tx := range table.Rows() {
		if tx.Location == domain.TaxHavenLocation {
			taxHaven++
		}
	}
	assert.Greater(t, taxHaven, 0)

	// fraud count never exceeds the sum of the pass selections
	sum := 0
	for _, n := range table.InjectedByName() {
		sum += n
	}
	assert.LessOrEqual(t, table.FraudCount(), sum)
	assert.GreaterOrEqual(t, table.FraudCount(), table.Injected(domain.PatternHighAmount))
}

func TestTableReturnsCopies(t *testing.T) {
	table := mustGenerate(t, 42, 10)
	original := table.Row(0)

	rows := table.Rows()
	rows[0].CustomerID = "CUST000"
	rows[0].IsFraud = !rows[0].IsFraud

	head := table.Head(3)
	require.Len(t, head, 3)
	head[0].Location = "Nowhere"

	assert.Equal(t, original, table.Row(0))
	assert.Len(t, table.Head(100), 10)
	assert.Len(t, table.Head(-1), 10)
	assert.Empty(t, table.Head(0))
}

func TestNewTableCountsProvenance(t *testing.T) {
	generated := mustGenerate(t, 42, 800)
	rebuilt := NewTable(generated.Seed(), generated.Rows())

	assert.Equal(t, generated.Rows(), rebuilt.Rows())
	assert.Equal(t, generated.FraudCount(), rebuilt.FraudCount())
	for _, p := range []domain.FraudPattern{domain.PatternHighAmount, domain.PatternSuspectCustomer, domain.PatternLateNight} {
		assert.Equal(t, generated.Injected(p), rebuilt.Injected(p), "pattern %s", p)
	}
}

func TestEachStopsEarly(t *testing.T) {
	table := mustGenerate(t, 42, 100)
	visited := 0
	table.Each(func(i int, _ domain.Transaction) bool {
		visited++
		return i < 4
	})
	assert.Equal(t, 5, visited)
}

func ExampleGenerate() {
	table, err := Generate(42, 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(table.Len(), table.Row(0).TransactionID, table.Row(0).IsFraud)
	// Output: 1 TX00000 true
}
