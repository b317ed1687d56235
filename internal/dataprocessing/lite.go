package dataprocessing

import (
	apperrors "ledgersynth/internal/errors"
	"ledgersynth/internal/generator"
	"ledgersynth/pkg/contracts/domain"
)

// DefaultLiteNegatives is the number of normal rows kept in a lite dataset
const DefaultLiteNegatives = 10000

// BuildLite returns a class-rebalanced subset of rows: every fraudulent row
// plus negatives normal rows sampled without replacement (all of them when
// fewer exist), shuffled together. The result depends only on rows,
// negatives and seed.
func BuildLite(rows []domain.Transaction, negatives int, seed int64) ([]domain.Transaction, error) {
	if negatives < 0 {
		return nil, apperrors.NewInvalidArgumentError("negatives must not be negative", nil).
			WithContext("negatives", negatives)
	}

	var frauds, normals []int
	for i, tx := range rows {
		if tx.IsFraud {
			frauds = append(frauds, i)
		} else {
			normals = append(normals, i)
		}
	}

	rng := generator.NewRand(seed)
	keep := append(frauds, generator.SampleIndices(rng, normals, negatives)...)
	rng.Shuffle(len(keep), func(i, j int) { keep[i], keep[j] = keep[j], keep[i] })

	lite := make([]domain.Transaction, len(keep))
	for i, idx := range keep {
		lite[i] = rows[idx]
	}
	return lite, nil
}
