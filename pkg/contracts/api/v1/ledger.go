// Package api contains the HTTP contract of the ledger API.
// Version v1 represents the current stable API version.
package api

import (
	"ledgersynth/pkg/contracts/domain"
)

// Query parameter names
const (
	ParamSeed      = "seed"
	ParamRows      = "rows"
	ParamLimit     = "limit"
	ParamNegatives = "negatives"
	ParamFormat    = "format"
)

// Response formats accepted by the format parameter of GET /api/ledger
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DefaultLimit bounds the rows returned by GET /api/ledger when no limit is given
const DefaultLimit = 100

// LedgerQuery selects a generated ledger. Tables are pure functions of
// (Seed, Rows); Limit only truncates the response.
type LedgerQuery struct {
	Seed  int64 `json:"seed" query:"seed"`
	Rows  int   `json:"rows" query:"rows" validate:"min=1"`
	Limit int   `json:"limit" query:"limit" validate:"min=1"`
}

// LiteQuery selects the rebalanced subset of a generated ledger
type LiteQuery struct {
	LedgerQuery
	Negatives int `json:"negatives" query:"negatives" validate:"min=1"`
}

// LedgerResponse is the body of GET /api/ledger
type LedgerResponse struct {
	Seed      int64                `json:"seed"`
	Rows      int                  `json:"rows"`
	FraudRows int                  `json:"fraud_rows"`
	Returned  int                  `json:"returned"`
	Injected  map[string]int       `json:"injected"`
	Data      []domain.Transaction `json:"data"`
}

// LiteResponse is the body of GET /api/ledger/lite
type LiteResponse struct {
	Seed       int64                `json:"seed"`
	SourceRows int                  `json:"source_rows"`
	Negatives  int                  `json:"negatives"`
	Rows       int                  `json:"rows"`
	FraudRows  int                  `json:"fraud_rows"`
	Returned   int                  `json:"returned"`
	Data       []domain.Transaction `json:"data"`
}

// FeaturesResponse is the model-ready encoding of a generated ledger.
// Classes maps each encoded column to its sorted class list; a value's code
// is its index. X and Labels hold the first Returned rows.
type FeaturesResponse struct {
	Seed     int64               `json:"seed"`
	Rows     int                 `json:"rows"`
	Columns  []string            `json:"columns"`
	Classes  map[string][]string `json:"classes"`
	Returned int                 `json:"returned"`
	X        [][]float64         `json:"x"`
	Labels   []int               `json:"labels"`
}
