package schema

import "time"

// RunRecord represents a row from the devpick_runs table.
type RunRecord struct {
	RunID               string
	StartedAt           time.Time
	EndedAt             *time.Time
	DurationMs          *int64
	TargetUnits         int64
	NetUnitsBuilt       float64
	BuildingsBuilt      int64
	DemandExceedsSupply bool
	NoFeasible          bool
	Seed                int64
	ConfigParams        *string
}

// BuildingRecord represents a row from the devpick_buildings table.
type BuildingRecord struct {
	RunID            string
	ParcelID         string
	Form             string
	NetUnits         float64
	ResidentialUnits float64
	JobSpaces        float64
	Stories          float64
	MaxProfit        float64
	YearBuilt        *int64
}

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      string           `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalBuildings int              `json:"total_buildings"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}
