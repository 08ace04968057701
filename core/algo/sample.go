package algo

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// WeightedSample draws k distinct indices with probability proportional to p,
// returned in draw order. Each index is drawn at most once, so p must hold at
// least k non-zero entries.
func WeightedSample(p []float64, k int, rng *rand.Rand) ([]int, error) {
	if k <= 0 {
		return nil, nil
	}
	nonZero := 0
	for _, v := range p {
		if v < 0 {
			return nil, invalidWeights("negative weight %v", v)
		}
		if v > 0 {
			nonZero++
		}
	}
	if nonZero < k {
		return nil, invalidWeights("%d non-zero weights for %d draws", nonZero, k)
	}

	w := sampleuv.NewWeighted(p, rng)
	drawn := make([]int, 0, k)
	for len(drawn) < k {
		idx, ok := w.Take()
		if !ok {
			break
		}
		drawn = append(drawn, idx)
	}
	return drawn, nil
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
