package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Well-known file names
const (
	LedgerFileName   = "bank_transactions.csv"
	LiteFileName     = "bank_transactions_lite.csv"
	SalesFileName    = "sales_data.csv"
	SummaryFileName  = "bank_summary.json"
	WorkbookFileName = "bank_transactions.xlsx"
	ManifestFileName = "bank_transactions.manifest.json"
)

// Paths contains every resolved file system path used by the application
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string

	// Well-known dataset files
	LedgerCSV    string
	LiteCSV      string
	SalesCSV     string
	WorkbookXLSX string
	ManifestJSON string

	// Well-known report files
	SummaryJSON string
}

// NewPaths resolves cfg against its base directory (the working directory when empty)
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", cfg.BaseDir, err)
	}

	resolve := func(dir, fallback string) string {
		if dir == "" {
			dir = fallback
		}
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	dataDir := resolve(cfg.DataDir, "BDD")
	reportsDir := resolve(cfg.ReportsDir, "reports")

	return &Paths{
		BaseDir:    base,
		DataDir:    dataDir,
		ReportsDir: reportsDir,
		LogsDir:    resolve(cfg.LogsDir, "logs"),

		LedgerCSV:    filepath.Join(dataDir, LedgerFileName),
		LiteCSV:      filepath.Join(dataDir, LiteFileName),
		SalesCSV:     filepath.Join(dataDir, SalesFileName),
		WorkbookXLSX: filepath.Join(dataDir, WorkbookFileName),
		ManifestJSON: filepath.Join(dataDir, ManifestFileName),

		SummaryJSON: filepath.Join(reportsDir, SummaryFileName),
	}, nil
}

// GetPaths resolves the configured paths
func (c *Config) GetPaths() (*Paths, error) {
	return NewPaths(c.Paths)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns the path for a file in the data directory
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved layout for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("ledger_csv", p.LedgerCSV),
			slog.Bool("ledger_exists", FileExists(p.LedgerCSV)),
			slog.String("lite_csv", p.LiteCSV),
			slog.String("summary_json", p.SummaryJSON),
		))
}
