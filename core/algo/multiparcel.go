package algo

import (
	"math"
	"math/rand/v2"

	"github.com/huangsam/devpick/schema"
)

// ResolveState is a step of the multi-parcel resolver.
type ResolveState string

// Resolver states.
const (
	StateSampling  ResolveState = "sampling"
	StateDeduping  ResolveState = "deduping"
	StateConverged ResolveState = "converged"
	StateExhausted ResolveState = "exhausted"
)

// Resolution is the outcome of ResolveMultiParcel. Indices point into the
// original proposals, at most one per parcel, in draw order.
type Resolution struct {
	Indices             []int
	State               ResolveState
	Iterations          int
	DemandExceedsSupply bool
}

// selectBatch draws one resolver batch. Tests replace it to exercise the
// non-termination guard.
var selectBatch = Select

// ResolveMultiParcel selects proposals when a parcel may appear more than once.
// Each round samples the remaining pool, keeps the first drawn proposal per
// parcel and removes every proposal of a decided parcel from the pool. Rounds
// repeat against the residual target until it is met or the pool is empty.
func ResolveMultiParcel(proposals []schema.Proposal, p []float64, target int, rng *rand.Rand) (Resolution, error) {
	if len(p) != len(proposals) {
		return Resolution{}, invalidWeights("got %d weights for %d proposals", len(p), len(proposals))
	}
	res := Resolution{State: StateSampling}
	if target <= 0 {
		res.State = StateConverged
		return res, nil
	}

	pool := make([]int, len(proposals))
	for i := range pool {
		pool[i] = i
	}
	weights := append([]float64(nil), p...)
	decided := make(map[string]struct{})
	var accumulated float64
	residual := target

	for {
		res.State = StateSampling
		res.Iterations++

		batch := make([]schema.Proposal, len(pool))
		for i, idx := range pool {
			batch[i] = proposals[idx]
		}
		sel, err := selectBatch(batch, weights, residual, rng)
		if err != nil {
			return res, err
		}
		res.DemandExceedsSupply = res.DemandExceedsSupply || sel.DemandExceedsSupply

		res.State = StateDeduping
		added := 0
		for _, j := range sel.Indices {
			idx := pool[j]
			id := proposals[idx].ParcelID
			if _, ok := decided[id]; ok {
				continue
			}
			decided[id] = struct{}{}
			res.Indices = append(res.Indices, idx)
			accumulated += proposals[idx].NetUnits
			added++
		}

		if accumulated >= float64(target) {
			res.State = StateConverged
			return res, nil
		}

		var nextPool []int
		var nextWeights []float64
		for i, idx := range pool {
			if _, ok := decided[proposals[idx].ParcelID]; ok {
				continue
			}
			nextPool = append(nextPool, idx)
			nextWeights = append(nextWeights, weights[i])
		}
		if len(nextPool) == 0 {
			res.State = StateExhausted
			return res, nil
		}
		if added == 0 {
			return res, ErrNonTerminatingAllocation
		}

		weights, err = Normalize(nextWeights)
		if err != nil {
			return res, err
		}
		pool = nextPool
		residual = int(math.Ceil(float64(target) - accumulated))
	}
}
