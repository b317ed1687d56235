package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/exporter"
	"ledgersynth/internal/generator"
)

func writeLedger(t *testing.T, dir string, rows int) string {
	t.Helper()
	table, err := generator.Generate(42, rows)
	require.NoError(t, err)
	data, err := exporter.MarshalLedger(table.Rows())
	require.NoError(t, err)

	path := filepath.Join(dir, "bank_transactions.csv")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRun_TextReport(t *testing.T) {
	dir := t.TempDir()
	in := writeLedger(t, dir, 500)
	out := filepath.Join(dir, "reports", "summary.json")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-in", in, "-out", out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	report := stdout.String()
	assert.Contains(t, report, "Transactions: 500")
	assert.Contains(t, report, "Fraud rate:")
	assert.Contains(t, report, "Correlation Amount/IsFraud:")
	assert.Contains(t, report, "Summary saved to")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.EqualValues(t, 500, saved["total_transactions"])
	assert.NotContains(t, saved, "patterns", "provenance is not persisted in the csv")
}

func TestRun_JSONToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeLedger(t, dir, 120)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-in", in, "-out", "-", "-json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var printed map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &printed))
	assert.EqualValues(t, 120, printed["total_transactions"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing saved with -out -")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, dir string) string
		wantStderr string
	}{
		{
			name: "missing ledger",
			setup: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "absent.csv")
			},
			wantStderr: "data not found",
		},
		{
			name: "malformed ledger",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "bad.csv")
				require.NoError(t, os.WriteFile(path, []byte("not,a,ledger\n1,2,3\n"), 0644))
				return path
			},
			wantStderr: "failed to read ledger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := tt.setup(t, dir)
			var stdout, stderr bytes.Buffer

			code := run([]string{"-in", in, "-out", "-"}, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), tt.wantStderr)
			assert.Empty(t, stdout.String())
		})
	}
}
