package algo

import (
	"fmt"
	"math"
)

// ComputeUnitsToBuild returns how many units are needed so that numAgents
// fit into the stock at targetVacancy, given numUnits already built.
// The result is truncated and never negative.
func ComputeUnitsToBuild(numAgents int, numUnits, targetVacancy float64) (int, error) {
	if numAgents < 0 {
		return 0, fmt.Errorf("number of agents must be non-negative, got %d", numAgents)
	}
	if numUnits < 0 || math.IsNaN(numUnits) {
		return 0, fmt.Errorf("number of units must be non-negative, got %v", numUnits)
	}
	if !(targetVacancy >= 0 && targetVacancy < 1) {
		return 0, fmt.Errorf("target vacancy must be in [0, 1), got %v", targetVacancy)
	}
	needed := float64(numAgents)/(1-targetVacancy) - numUnits
	return int(math.Max(needed, 0)), nil
}
