package algo

import (
	"math/rand/v2"
	"sort"

	"github.com/huangsam/devpick/schema"
	"gonum.org/v1/gonum/floats"
)

// Selection is the outcome of one Select call. Indices point into the
// proposals passed to Select, in draw order.
type Selection struct {
	Indices             []int
	DemandExceedsSupply bool
}

// Select chooses proposals until their net units reach target.
//
// When total supply is below target every proposal is selected in table order
// and DemandExceedsSupply is set. Otherwise min(len(proposals), target) indices
// are drawn without replacement with probability p, and the shortest draw
// prefix whose cumulative net units reach target is returned. The last member
// of that prefix may overshoot target. A negative target is treated as zero.
func Select(proposals []schema.Proposal, p []float64, target int, rng *rand.Rand) (Selection, error) {
	if len(p) != len(proposals) {
		return Selection{}, invalidWeights("got %d weights for %d proposals", len(p), len(proposals))
	}
	target = max(target, 0)

	units := NetUnits(proposals)
	if floats.Sum(units) < float64(target) {
		all := make([]int, len(proposals))
		for i := range all {
			all[i] = i
		}
		return Selection{Indices: all, DemandExceedsSupply: true}, nil
	}
	if target == 0 {
		return Selection{}, nil
	}

	k := min(len(proposals), target)
	drawn, err := WeightedSample(p, k, rng)
	if err != nil {
		return Selection{}, err
	}

	drawnUnits := make([]float64, len(drawn))
	for i, idx := range drawn {
		drawnUnits[i] = units[idx]
	}
	cumulative := floats.CumSum(make([]float64, len(drawnUnits)), drawnUnits)

	// Position of the draw that reaches target; the prefix runs through it.
	reach := sort.SearchFloat64s(cumulative, float64(target))
	stop := min(reach+1, len(drawn))
	return Selection{Indices: drawn[:stop]}, nil
}
