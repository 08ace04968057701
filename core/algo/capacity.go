package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/devpick/schema"
)

// CapacityOptions controls how floor area becomes net new units.
type CapacityOptions struct {
	MinUnitSize    float64
	MaxParcelSize  float64
	BldgSqftPerJob float64
	Residential    bool
}

// DefaultCapacityOptions returns the residential defaults of the developer model.
func DefaultCapacityOptions() CapacityOptions {
	return CapacityOptions{
		MinUnitSize:    schema.DefaultMinUnitSize,
		MaxParcelSize:  schema.DefaultMaxParcelSize,
		BldgSqftPerJob: schema.DefaultBldgSqftPerJob,
		Residential:    true,
	}
}

// DeriveCapacity computes net new units for every feasible candidate and keeps
// those that add capacity on a parcel smaller than MaxParcelSize.
//
// Average unit sizes below MinUnitSize are raised to MinUnitSize in parcels
// itself, so the caller must not share that map with a concurrent reader.
// Candidates without parcel attributes are dropped.
func DeriveCapacity(rows []schema.Candidate, parcels schema.ParcelAttributes, opts CapacityOptions) ([]schema.Proposal, error) {
	if opts.MinUnitSize <= 0 || opts.BldgSqftPerJob <= 0 {
		return nil, fmt.Errorf("%w: min unit size %v and sqft per job %v must be positive",
			ErrInvalidOptions, opts.MinUnitSize, opts.BldgSqftPerJob)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	for id, p := range parcels {
		if p.AveUnitSize < opts.MinUnitSize {
			p.AveUnitSize = opts.MinUnitSize
			parcels[id] = p
		}
	}

	var result []schema.Proposal
	for _, row := range rows {
		if !(row.MaxProfitFAR > 0) {
			continue
		}
		parcel, ok := parcels[row.ParcelID]
		if !ok || !(parcel.ParcelSize < opts.MaxParcelSize) {
			continue
		}

		p := schema.Proposal{
			Candidate:        row,
			AveUnitSize:      parcel.AveUnitSize,
			ParcelSize:       parcel.ParcelSize,
			CurrentUnits:     parcel.CurrentUnits,
			ResidentialUnits: math.RoundToEven(row.ResidentialSqft / parcel.AveUnitSize),
			JobSpaces:        math.RoundToEven(row.NonResidentialSqft / opts.BldgSqftPerJob),
		}
		if opts.Residential {
			p.NetUnits = p.ResidentialUnits - p.CurrentUnits
		} else {
			p.NetUnits = p.JobSpaces - p.CurrentUnits
		}
		if !(p.NetUnits > 0) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// HasDuplicateParcels reports whether any parcel has more than one proposal.
func HasDuplicateParcels(proposals []schema.Proposal) bool {
	seen := make(map[string]struct{}, len(proposals))
	for _, p := range proposals {
		if _, ok := seen[p.ParcelID]; ok {
			return true
		}
		seen[p.ParcelID] = struct{}{}
	}
	return false
}

// NetUnits returns the net units column of proposals.
func NetUnits(proposals []schema.Proposal) []float64 {
	units := make([]float64, len(proposals))
	for i, p := range proposals {
		units[i] = p.NetUnits
	}
	return units
}
