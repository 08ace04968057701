// Package schema has the models shared by all parts of devpick.
package schema

import (
	"errors"
	"math"
)

// ErrNoFeasibleCandidates reports that nothing could be built this round.
// It is an expected outcome, not a failure of the pick.
var ErrNoFeasibleCandidates = errors.New("no feasible buildings to choose from")

// Candidate is one row of a form's feasibility table: a parcel and the
// best building of that form the pro forma found for it.
type Candidate struct {
	ParcelID           string  `json:"parcel_id"`
	Form               string  `json:"form"`
	MaxProfit          float64 `json:"max_profit"`
	MaxProfitFAR       float64 `json:"max_profit_far"`
	ResidentialSqft    float64 `json:"residential_sqft"`
	NonResidentialSqft float64 `json:"non_residential_sqft"`
	Stories            float64 `json:"stories"`

	// Pass-through pro forma attributes, never used for selection.
	BuildingCost    float64 `json:"building_cost,omitempty"`
	BuildingRevenue float64 `json:"building_revenue,omitempty"`
	BuildingSqft    float64 `json:"building_sqft,omitempty"`
	TotalCost       float64 `json:"total_cost,omitempty"`
}

// FormTable holds the candidates of a single building form.
type FormTable struct {
	Form string
	Rows []Candidate
}

// Parcel holds the per-parcel inputs the developer model needs besides feasibility.
type Parcel struct {
	ParcelSize   float64 `json:"parcel_size"`
	AveUnitSize  float64 `json:"ave_unit_size"`
	CurrentUnits float64 `json:"current_units"`
}

// ParcelAttributes maps parcel IDs to their attributes.
type ParcelAttributes map[string]Parcel

// Proposal is a Candidate with its capacity derived from floor area and
// the parcel's existing units.
type Proposal struct {
	Candidate
	AveUnitSize      float64 `json:"ave_unit_size"`
	ParcelSize       float64 `json:"parcel_size"`
	CurrentUnits     float64 `json:"current_units"`
	ResidentialUnits float64 `json:"residential_units"`
	JobSpaces        float64 `json:"job_spaces"`
	NetUnits         float64 `json:"net_units"`
}

// Building is a winning proposal shaped for the building inventory.
type Building struct {
	Proposal
	YearBuilt *int `json:"year_built,omitempty"`
}

// NewBuilding shapes a winning proposal: stories are rounded up and the year stamped when set.
func NewBuilding(p Proposal, year *int) Building {
	p.Stories = math.Ceil(p.Stories)
	b := Building{Proposal: p}
	if year != nil {
		y := *year
		b.YearBuilt = &y
	}
	return b
}

// PickResult is the outcome of one developer pick.
type PickResult struct {
	Buildings           []Building `json:"buildings"`
	TargetUnits         int        `json:"target_units"`
	NetUnitsBuilt       float64    `json:"net_units_built"`
	CandidateUnits      float64    `json:"candidate_units"`
	CandidateCount      int        `json:"candidate_count"`
	DemandExceedsSupply bool       `json:"demand_exceeds_supply"`
	NoFeasible          bool       `json:"no_feasible"`
	Iterations          int        `json:"iterations"`
	Seed                uint64     `json:"seed"`
}

// Err returns ErrNoFeasibleCandidates when nothing was feasible, nil otherwise.
func (r *PickResult) Err() error {
	if r == nil || r.NoFeasible {
		return ErrNoFeasibleCandidates
	}
	return nil
}

// ParcelIDs returns the parcel keys of all buildings in result order.
func (r *PickResult) ParcelIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.Buildings))
	for i, b := range r.Buildings {
		ids[i] = b.ParcelID
	}
	return ids
}
