package services

import "errors"

// Service errors
var (
	ErrNoDataDirectory = errors.New("no data directory configured")
	ErrNilTable        = errors.New("ledger table is nil")
)
