package generator

import "math/rand/v2"

// streamSalt is the fixed second PCG word; the seed alone selects the stream
const streamSalt = 0x9e3779b97f4a7c15

// newRand returns the deterministic stream for seed
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), streamSalt))
}

// sampleWithoutReplacement picks k distinct elements of pool in draw order.
// pool is not modified. k is clamped to [0, len(pool)].
func sampleWithoutReplacement(rng *rand.Rand, pool []int, k int) []int {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}

	work := make([]int, len(pool))
	copy(work, pool)

	// partial Fisher-Yates: the first k slots end up holding the sample
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}

// weightedIndex draws an index of weights with probability proportional to its weight
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	u := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(weights) - 1
}

// ceilPercent returns ceil(pct% of n) using integer arithmetic
func ceilPercent(n, pct int) int {
	return (n*pct + 99) / 100
}

// roundPercentHalfEven returns pct% of n rounded to the nearest integer, ties to even
func roundPercentHalfEven(n, pct int) int {
	q, r := n*pct/100, n*pct%100
	switch {
	case r > 50:
		q++
	case r == 50 && q%2 == 1:
		q++
	}
	return q
}

// indexRange returns [0, 1, ..., n-1]
func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// NewRand returns the deterministic stream for seed shared by every dataset builder
func NewRand(seed int64) *rand.Rand {
	return newRand(seed)
}

// SampleIndices picks k distinct elements of pool without replacement, k clamped to [0, len(pool)]
func SampleIndices(rng *rand.Rand, pool []int, k int) []int {
	return sampleWithoutReplacement(rng, pool, k)
}
