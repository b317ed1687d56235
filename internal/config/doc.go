// Package config provides centralized configuration management for ledgersynth.
// It handles loading configuration from multiple sources, validation, and
// resolution of every file system path the generator and its consumers use.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (LEDGER_CONFIG, or ledgersynth.yaml / configs/ledgersynth.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LEDGER_<SECTION>_<FIELD>:
//
//	LEDGER_GENERATOR_SEED=42
//	LEDGER_GENERATOR_ROWS=5000
//	LEDGER_LITE_NEGATIVES=10000
//	LEDGER_SERVER_PORT=8080
//	LEDGER_LOGGING_LEVEL=debug
//	LEDGER_PATHS_BASE_DIR=/srv/ledger
//
// # Path Management
//
// Paths resolves the data, reports and logs directories against a base
// directory and exposes the well-known dataset files:
//
//	paths, err := cfg.GetPaths()
//	ledger := paths.LedgerCSV // <base>/BDD/bank_transactions.csv
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
