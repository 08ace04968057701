// Package core has the orchestration around the selection algorithm: the
// feasibility pool, the developer pick and the entry points used by the CLI.
package core

import (
	"fmt"
	"math/rand/v2"

	"github.com/huangsam/devpick/core/algo"
	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/schema"
	"gonum.org/v1/gonum/floats"
)

// DeveloperOptions controls how a Developer turns the pool into buildings.
type DeveloperOptions struct {
	Forms          []string
	FormsMode      schema.FormsMode
	Capacity       algo.CapacityOptions
	DropAfterBuild bool
	Year           *int
	Score          algo.ScoreFunc // nil = profit per parcel size
}

// DeveloperOptionsFromConfig maps the validated config onto developer options.
func DeveloperOptionsFromConfig(cfg *contract.Config) DeveloperOptions {
	return DeveloperOptions{
		Forms:     cfg.Forms,
		FormsMode: cfg.FormsMode,
		Capacity: algo.CapacityOptions{
			MinUnitSize:    cfg.MinUnitSize,
			MaxParcelSize:  cfg.MaxParcelSize,
			BldgSqftPerJob: cfg.BldgSqftPerJob,
			Residential:    cfg.Residential,
		},
		DropAfterBuild: cfg.DropAfterBuild,
		Year:           cfg.Year,
	}
}

// Developer picks buildings from a feasibility pool.
type Developer struct {
	pool    *FeasibilityPool
	parcels schema.ParcelAttributes
	opts    DeveloperOptions
}

// NewDeveloper creates a developer over the given pool. Average unit sizes in
// parcels are clamped to the minimum unit size on every pick.
func NewDeveloper(pool *FeasibilityPool, parcels schema.ParcelAttributes, opts DeveloperOptions) *Developer {
	return &Developer{pool: pool, parcels: parcels, opts: opts}
}

// Pool returns the pool the developer draws from.
func (d *Developer) Pool() *FeasibilityPool {
	return d.pool
}

// Pick chooses buildings that together supply at least target net units.
// An empty pool is reported through PickResult.NoFeasible, not as an error.
func (d *Developer) Pick(target int, rng *rand.Rand) (*schema.PickResult, error) {
	d.pool.mu.Lock()
	defer d.pool.mu.Unlock()

	result := &schema.PickResult{TargetUnits: max(target, 0)}

	candidates, err := d.candidates(d.pool.tables)
	if err != nil {
		return nil, err
	}
	proposals, err := algo.DeriveCapacity(candidates, d.parcels, d.opts.Capacity)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		result.NoFeasible = true
		contract.LogWarn("Nothing to build", schema.ErrNoFeasibleCandidates)
		return result, nil
	}
	result.CandidateCount = len(proposals)
	result.CandidateUnits = floats.Sum(algo.NetUnits(proposals))

	p, err := algo.AssignProbabilities(proposals, d.opts.Score)
	if err != nil {
		return nil, err
	}

	var indices []int
	if algo.HasDuplicateParcels(proposals) {
		res, err := algo.ResolveMultiParcel(proposals, p, target, rng)
		if err != nil {
			return nil, err
		}
		indices = res.Indices
		result.Iterations = res.Iterations
		result.DemandExceedsSupply = res.DemandExceedsSupply
	} else {
		sel, err := algo.Select(proposals, p, target, rng)
		if err != nil {
			return nil, err
		}
		indices = sel.Indices
		result.Iterations = 1
		result.DemandExceedsSupply = sel.DemandExceedsSupply
	}

	result.Buildings = make([]schema.Building, len(indices))
	for i, idx := range indices {
		result.Buildings[i] = schema.NewBuilding(proposals[idx], d.opts.Year)
		result.NetUnitsBuilt += proposals[idx].NetUnits
	}

	if result.DemandExceedsSupply {
		contract.LogWarn("Demand exceeds supply", fmt.Errorf("target of %d units but only %.0f available, building everything", target, result.CandidateUnits))
	}
	if d.opts.DropAfterBuild {
		d.pool.dropLocked(result.ParcelIDs())
	}
	return result, nil
}

// candidates turns the pool into one table according to the forms mode.
func (d *Developer) candidates(tables []schema.FormTable) ([]schema.Candidate, error) {
	switch d.opts.FormsMode {
	case schema.FormsSingle:
		if len(d.opts.Forms) != 1 {
			return nil, fmt.Errorf("single form mode needs exactly one form, got %d", len(d.opts.Forms))
		}
		return algo.KeepFormWithMaxProfit(tables, d.opts.Forms)
	case schema.FormsCompete:
		return algo.KeepFormWithMaxProfit(tables, d.opts.Forms)
	case schema.FormsAll, "":
		return algo.Flatten(tables), nil
	default:
		return nil, fmt.Errorf("unknown forms mode %q", d.opts.FormsMode)
	}
}
