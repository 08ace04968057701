package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestComputeUnitsToBuild tests the vacancy based target.
func TestComputeUnitsToBuild(t *testing.T) {
	tests := []struct {
		name     string
		agents   int
		units    float64
		vacancy  float64
		expected int
		wantErr  bool
	}{
		{name: "small shortfall", agents: 30, units: 30, vacancy: 0.1, expected: 3},
		{name: "half vacancy", agents: 100, units: 0, vacancy: 0.5, expected: 200},
		{name: "no vacancy", agents: 50, units: 10, vacancy: 0, expected: 40},
		{name: "surplus", agents: 10, units: 100, vacancy: 0.1, expected: 0},
		{name: "empty", agents: 0, units: 0, vacancy: 0, expected: 0},
		{name: "full vacancy", agents: 10, units: 0, vacancy: 1, wantErr: true},
		{name: "negative vacancy", agents: 10, units: 0, vacancy: -0.1, wantErr: true},
		{name: "negative agents", agents: -1, units: 0, vacancy: 0.1, wantErr: true},
		{name: "negative units", agents: 1, units: -1, vacancy: 0.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeUnitsToBuild(tt.agents, tt.units, tt.vacancy)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
