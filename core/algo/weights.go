package algo

import (
	"math"

	"github.com/huangsam/devpick/schema"
	"gonum.org/v1/gonum/floats"
)

// ScoreFunc turns proposals into raw selection scores aligned with the input.
type ScoreFunc func(proposals []schema.Proposal) ([]float64, error)

// ProfitPerSize scores each proposal by MaxProfit / ParcelSize.
func ProfitPerSize(proposals []schema.Proposal) ([]float64, error) {
	scores := make([]float64, len(proposals))
	for i, p := range proposals {
		scores[i] = p.MaxProfit / p.ParcelSize
	}
	return scores, nil
}

// AssignProbabilities returns the sampling distribution over proposals.
// Scores come from fn, or from ProfitPerSize when fn is nil, and are
// normalized to sum to one.
func AssignProbabilities(proposals []schema.Proposal, fn ScoreFunc) ([]float64, error) {
	if fn == nil {
		fn = ProfitPerSize
	}
	scores, err := fn(proposals)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(proposals) {
		return nil, invalidWeights("got %d weights for %d proposals", len(scores), len(proposals))
	}
	return Normalize(scores)
}

// Normalize validates w and returns a copy scaled to sum to one.
// Negative, NaN or infinite entries and a non-positive sum are rejected.
func Normalize(w []float64) ([]float64, error) {
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidWeights("weight %d is not finite", i)
		}
		if v < 0 {
			return nil, invalidWeights("weight %d is negative (%v)", i, v)
		}
	}
	sum := floats.Sum(w)
	if !(sum > 0) {
		return nil, invalidWeights("weights sum to %v", sum)
	}
	p := make([]float64, len(w))
	copy(p, w)
	floats.Scale(1/sum, p)
	return p, nil
}
