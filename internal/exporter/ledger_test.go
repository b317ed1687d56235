package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/generator"
	"ledgersynth/internal/shared/testutil"
	"ledgersynth/pkg/contracts/domain"
)

func TestTransactionRecord(t *testing.T) {
	tests := []struct {
		name string
		tx   domain.Transaction
		want []string
	}{
		{
			name: "normal row",
			tx:   testutil.NewTransaction(0, testutil.WithAmount("7.5"), testutil.WithHour(0)),
			want: []string{"TX00000", "CUST100", "2024-01-01", "7.50", "Groceries", "Paris", "POS", "0", "0"},
		},
		{
			name: "fraud row with sentinel location",
			tx: testutil.NewTransaction(12345,
				testutil.WithCustomer("CUST499"),
				testutil.WithAmount("1234.5"),
				testutil.WithLocation(domain.TaxHavenLocation),
				testutil.WithSource(domain.SourceATM),
				testutil.WithHour(23),
				testutil.Fraud(domain.PatternSuspectCustomer)),
			want: []string{"TX12345", "CUST499", "2024-04-15", "1234.50", "Groceries", "Unknown/Tax Haven", "ATM", "1", "23"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransactionRecord(tt.tx))
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	rows := testutil.SampleTransactions()[:2]

	var buf bytes.Buffer
	require.NoError(t, EncodeLedger(&buf, rows))

	want := "TransactionID,CustomerID,Date,Amount,Category,Location,Source,IsFraud,Hour\n" +
		"TX00000,CUST101,2024-01-01,10.00,Groceries,Paris,POS,0,9\n" +
		"TX00001,CUST102,2024-01-02,20.00,Travel,Paris,POS,0,10\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeLedger_EmptyWritesHeader(t *testing.T) {
	data, err := MarshalLedger(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(LedgerHeader(), ",")+"\n", string(data))
}

func TestLedgerHeader_IsCopy(t *testing.T) {
	h := LedgerHeader()
	h[0] = "changed"
	assert.Equal(t, "TransactionID", domain.LedgerColumns[0])
}

func TestLedgerWriter_WriteLedger(t *testing.T) {
	_, paths := setupTestEnv(t)
	lw := NewLedgerWriter(paths, nil)

	table, err := generator.Generate(42, 500)
	require.NoError(t, err)

	data, err := lw.WriteLedger(paths.LedgerCSV, table)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(paths.LedgerCSV)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
	assert.False(t, bytes.HasPrefix(onDisk, utf8BOM), "ledger must not carry a BOM")

	lines := strings.Split(strings.TrimSuffix(string(onDisk), "\n"), "\n")
	assert.Len(t, lines, 501)

	// no temp files left behind
	entries, err := os.ReadDir(paths.DataDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedgerWriter_RelativePath(t *testing.T) {
	_, paths := setupTestEnv(t)
	lw := NewLedgerWriter(paths, nil)

	table, err := generator.Generate(1, 3)
	require.NoError(t, err)

	_, err = lw.WriteLedger("custom.csv", table)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(paths.DataDir, "custom.csv"))
	assert.Equal(t, filepath.Join(paths.DataDir, "custom.csv"), lw.ResolvePath("custom.csv"))
}

func TestLedgerWriter_NilTable(t *testing.T) {
	_, paths := setupTestEnv(t)
	_, err := NewLedgerWriter(paths, nil).WriteLedger(paths.LedgerCSV, nil)
	assert.Error(t, err)
	assert.NoFileExists(t, paths.LedgerCSV)
}

func TestLedgerRoundTrip(t *testing.T) {
	_, paths := setupTestEnv(t)

	table, err := generator.Generate(7, 1000)
	require.NoError(t, err)

	_, err = NewLedgerWriter(paths, nil).WriteLedger(paths.LedgerCSV, table)
	require.NoError(t, err)

	loaded, err := ReadLedger(paths.LedgerCSV)
	require.NoError(t, err)
	require.Len(t, loaded, table.Len())

	for i, got := range loaded {
		want := table.Row(i)
		want.Patterns = 0 // provenance is not persisted
		assert.Equal(t, want.TransactionID, got.TransactionID)
		assert.True(t, want.Amount.Equal(got.Amount), "row %d amount", i)
		assert.True(t, want.Date.Equal(got.Date), "row %d date", i)
		got.Amount, got.Date = want.Amount, want.Date
		assert.Equal(t, want, got)
	}
}
