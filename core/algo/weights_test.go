package algo

import (
	"errors"
	"math"
	"testing"

	"github.com/huangsam/devpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposal(id string, netUnits, profit, size float64) schema.Proposal {
	return schema.Proposal{
		Candidate:  schema.Candidate{ParcelID: id, Form: "residential", MaxProfit: profit, MaxProfitFAR: 1},
		ParcelSize: size,
		NetUnits:   netUnits,
	}
}

// TestAssignProbabilitiesDefault tests profit per parcel size weighting.
func TestAssignProbabilitiesDefault(t *testing.T) {
	proposals := []schema.Proposal{
		proposal("a", 1, 100, 10),
		proposal("b", 1, 300, 10),
		proposal("c", 1, 600, 20),
	}
	p, err := AssignProbabilities(proposals, nil)
	require.NoError(t, err)
	require.Len(t, p, 3)

	sum := 0.0
	for _, v := range p {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 1.0/7, p[0], 1e-12)
	assert.InDelta(t, 3.0/7, p[1], 1e-12)
	assert.InDelta(t, p[1], p[2], 1e-12)
}

// TestAssignProbabilitiesCustom tests that custom scores are normalized.
func TestAssignProbabilitiesCustom(t *testing.T) {
	proposals := []schema.Proposal{proposal("a", 1, 1, 1), proposal("b", 1, 1, 1)}
	byUnits := func(_ []schema.Proposal) ([]float64, error) {
		return []float64{2, 6}, nil
	}
	p, err := AssignProbabilities(proposals, byUnits)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, p, 1e-12)

	boom := errors.New("boom")
	_, err = AssignProbabilities(proposals, func([]schema.Proposal) ([]float64, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

// TestAssignProbabilitiesInvalid tests weight validation.
func TestAssignProbabilitiesInvalid(t *testing.T) {
	proposals := []schema.Proposal{proposal("a", 1, 1, 1), proposal("b", 1, 1, 1)}
	tests := []struct {
		name   string
		scores []float64
	}{
		{name: "negative", scores: []float64{-1, 2}},
		{name: "all zero", scores: []float64{0, 0}},
		{name: "nan", scores: []float64{math.NaN(), 1}},
		{name: "infinite", scores: []float64{math.Inf(1), 1}},
		{name: "length mismatch", scores: []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssignProbabilities(proposals, func([]schema.Proposal) ([]float64, error) {
				return tt.scores, nil
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidWeights)
			var iwe *InvalidWeightsError
			assert.ErrorAs(t, err, &iwe)
		})
	}
}

// TestNormalize tests that Normalize does not alias its input.
func TestNormalize(t *testing.T) {
	w := []float64{1, 1, 2}
	p, err := Normalize(w)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.5}, p, 1e-12)
	assert.Equal(t, []float64{1, 1, 2}, w)
}
