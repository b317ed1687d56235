package exporter

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"golang.org/x/crypto/blake2b"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/files"
	"ledgersynth/pkg/contracts"
	"ledgersynth/pkg/contracts/domain"
)

// DigestAlgorithm names the hash recorded in a Manifest
const DigestAlgorithm = "blake2b-256"

// Manifest describes one persisted ledger file
type Manifest struct {
	FormatVersion   string    `json:"format_version"`
	Generator       string    `json:"generator"`
	Seed            int64     `json:"seed"`
	Rows            int       `json:"rows"`
	FraudRows       int       `json:"fraud_rows"`
	Columns         []string  `json:"columns"`
	Bytes           int       `json:"bytes"`
	DigestAlgorithm string    `json:"digest_algorithm"`
	Digest          string    `json:"digest"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// NewManifest fingerprints csvBytes, the exact encoding of rows
func NewManifest(seed int64, rows []domain.Transaction, csvBytes []byte) *Manifest {
	fraud := 0
	for _, tx := range rows {
		if tx.IsFraud {
			fraud++
		}
	}

	return &Manifest{
		FormatVersion:   contracts.DataFormatVersion,
		Generator:       contracts.GetVersionString(),
		Seed:            seed,
		Rows:            len(rows),
		FraudRows:       fraud,
		Columns:         LedgerHeader(),
		Bytes:           len(csvBytes),
		DigestAlgorithm: DigestAlgorithm,
		Digest:          Digest(csvBytes),
		GeneratedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

// Digest returns the hex blake2b-256 sum of data
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether data matches the recorded digest and size
func (m *Manifest) Verify(data []byte) bool {
	return m.Bytes == len(data) && m.Digest == Digest(data)
}

// Encode writes the manifest as indented JSON
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return apperrors.NewStorageError("failed to encode manifest", err)
	}
	return nil
}

// WriteManifest atomically writes m to path
func WriteManifest(path string, m *Manifest) error {
	return files.WriteAtomic(path, m.Encode)
}
