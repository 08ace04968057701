package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBuilding(t *testing.T) {
	p := Proposal{Candidate: Candidate{ParcelID: "a", Stories: 3.2}, NetUnits: 5}

	b := NewBuilding(p, nil)
	assert.Equal(t, 4.0, b.Stories)
	assert.Nil(t, b.YearBuilt)
	assert.Equal(t, 3.2, p.Stories, "input proposal is not modified")

	year := 2030
	b = NewBuilding(Proposal{Candidate: Candidate{Stories: 2}}, &year)
	assert.Equal(t, 2.0, b.Stories)
	if assert.NotNil(t, b.YearBuilt) {
		assert.Equal(t, 2030, *b.YearBuilt)
	}
	year = 2031
	assert.Equal(t, 2030, *b.YearBuilt, "year is copied")
}

func TestPickResultErr(t *testing.T) {
	var nilResult *PickResult
	assert.ErrorIs(t, nilResult.Err(), ErrNoFeasibleCandidates)
	assert.ErrorIs(t, (&PickResult{NoFeasible: true}).Err(), ErrNoFeasibleCandidates)
	assert.NoError(t, (&PickResult{}).Err())
}

func TestPickResultParcelIDs(t *testing.T) {
	r := &PickResult{Buildings: []Building{
		{Proposal: Proposal{Candidate: Candidate{ParcelID: "b"}}},
		{Proposal: Proposal{Candidate: Candidate{ParcelID: "a"}}},
	}}
	assert.Equal(t, []string{"b", "a"}, r.ParcelIDs())
	assert.Nil(t, (*PickResult)(nil).ParcelIDs())
}
