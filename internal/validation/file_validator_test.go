package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/shared/testutil"
)

const ledgerHeaderLine = "TransactionID,CustomerID,Date,Amount,Category,Location,Source,IsFraud,Hour\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err), "probe file must be removed")
}

func TestFileValidator_ValidateFile(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := writeFile(t, dir, "ok.csv", "x")
		assert.NoError(t, v.ValidateFile(path))
	})

	t.Run("missing file is a not found error", func(t *testing.T) {
		err := v.ValidateFile(filepath.Join(dir, "missing.csv"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
		assert.Contains(t, err.Error(), "data not found")
		assert.True(t, handler.ContainsMessage("File does not exist"))
	})

	t.Run("directory is rejected", func(t *testing.T) {
		err := v.ValidateFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	assert.NoError(t, v.ValidateCSVFile(writeFile(t, dir, "a.csv", "x")))
	assert.NoError(t, v.ValidateCSVFile(writeFile(t, dir, "b.CSV", "x")))

	err := v.ValidateCSVFile(writeFile(t, dir, "c.txt", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a CSV file")
}

func TestFileValidator_ValidateLedgerFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		wantType apperrors.ErrorType
	}{
		{name: "valid header", content: ledgerHeaderLine + "TX00000,CUST100,2024-01-01,10.00,Travel,Paris,POS,0,3\n"},
		{name: "header only", content: ledgerHeaderLine},
		{name: "header with BOM", content: "\ufeff" + ledgerHeaderLine},
		{name: "empty file", content: "", wantType: apperrors.ErrTypeParsing},
		{name: "missing column", content: "TransactionID,CustomerID,Date,Amount,Category,Location,Source,IsFraud\n", wantType: apperrors.ErrTypeParsing},
		{name: "reordered columns", content: strings.Replace(ledgerHeaderLine, "Category,Location", "Location,Category", 1), wantType: apperrors.ErrTypeParsing},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "ledger"+string(rune('a'+i))+".csv", tt.content)
			err := v.ValidateLedgerFile(path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}
