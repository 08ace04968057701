package algo

import (
	"testing"

	"github.com/huangsam/devpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeriveCapacity tests filtering and unit derivation.
func TestDeriveCapacity(t *testing.T) {
	parcels := schema.ParcelAttributes{
		"small":   {ParcelSize: 1000, AveUnitSize: 200, CurrentUnits: 1},
		"huge":    {ParcelSize: schema.DefaultMaxParcelSize, AveUnitSize: 800, CurrentUnits: 0},
		"built":   {ParcelSize: 5000, AveUnitSize: 1000, CurrentUnits: 10},
		"halfway": {ParcelSize: 5000, AveUnitSize: 400, CurrentUnits: 0},
	}
	rows := []schema.Candidate{
		{ParcelID: "small", Form: "residential", MaxProfitFAR: 1, ResidentialSqft: 1200},
		{ParcelID: "huge", Form: "residential", MaxProfitFAR: 1, ResidentialSqft: 8000},
		{ParcelID: "built", Form: "residential", MaxProfitFAR: 1, ResidentialSqft: 5000},
		{ParcelID: "halfway", Form: "residential", MaxProfitFAR: 1, ResidentialSqft: 1000},
		{ParcelID: "halfway", Form: "office", MaxProfitFAR: 0, ResidentialSqft: 4000},
		{ParcelID: "missing", Form: "residential", MaxProfitFAR: 1, ResidentialSqft: 4000},
	}

	got, err := DeriveCapacity(rows, parcels, DefaultCapacityOptions())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "small", got[0].ParcelID)
	assert.Equal(t, 400.0, got[0].AveUnitSize, "unit size is clamped to the minimum")
	assert.Equal(t, 3.0, got[0].ResidentialUnits)
	assert.Equal(t, 2.0, got[0].NetUnits)

	assert.Equal(t, "halfway", got[1].ParcelID)
	assert.Equal(t, 2.0, got[1].ResidentialUnits, "2.5 rounds half to even")

	assert.Equal(t, 400.0, parcels["small"].AveUnitSize, "clamp is applied to the caller's map")
}

// TestDeriveCapacityJobSpaces tests the non-residential branch.
func TestDeriveCapacityJobSpaces(t *testing.T) {
	parcels := schema.ParcelAttributes{
		"p": {ParcelSize: 1000, AveUnitSize: 800, CurrentUnits: 1},
	}
	rows := []schema.Candidate{
		{ParcelID: "p", MaxProfitFAR: 1, NonResidentialSqft: 1400, ResidentialSqft: 99999},
	}
	opts := DefaultCapacityOptions()
	opts.Residential = false

	got, err := DeriveCapacity(rows, parcels, opts)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].JobSpaces, "3.5 rounds half to even")
	assert.Equal(t, 3.0, got[0].NetUnits)
}

// TestDeriveCapacityEdges tests empty input, determinism and invalid options.
func TestDeriveCapacityEdges(t *testing.T) {
	got, err := DeriveCapacity(nil, schema.ParcelAttributes{}, DefaultCapacityOptions())
	require.NoError(t, err)
	assert.Empty(t, got)

	parcels := schema.ParcelAttributes{"p": {ParcelSize: 10, AveUnitSize: 500}}
	rows := []schema.Candidate{{ParcelID: "p", MaxProfitFAR: 1, ResidentialSqft: 5000}}
	first, err := DeriveCapacity(rows, parcels, DefaultCapacityOptions())
	require.NoError(t, err)
	second, err := DeriveCapacity(rows, parcels, DefaultCapacityOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = DeriveCapacity(rows, parcels, CapacityOptions{MinUnitSize: 0, BldgSqftPerJob: 400})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

// TestHasDuplicateParcels tests duplicate detection.
func TestHasDuplicateParcels(t *testing.T) {
	assert.False(t, HasDuplicateParcels(nil))
	assert.False(t, HasDuplicateParcels([]schema.Proposal{
		{Candidate: schema.Candidate{ParcelID: "a"}},
		{Candidate: schema.Candidate{ParcelID: "b"}},
	}))
	assert.True(t, HasDuplicateParcels([]schema.Proposal{
		{Candidate: schema.Candidate{ParcelID: "a", Form: "office"}},
		{Candidate: schema.Candidate{ParcelID: "a", Form: "residential"}},
	}))
}
