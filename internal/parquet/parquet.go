// Package parquet provides the row types and helpers devpick uses to read
// input tables from and write results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/devpick/schema"
	"github.com/parquet-go/parquet-go"
)

// FeasibilityRow is one (parcel, form) row of a long-format feasibility table.
type FeasibilityRow struct {
	ParcelID           string  `parquet:"parcel_id"`
	Form               string  `parquet:"form"`
	MaxProfit          float64 `parquet:"max_profit"`
	MaxProfitFAR       float64 `parquet:"max_profit_far"`
	ResidentialSqft    float64 `parquet:"residential_sqft"`
	NonResidentialSqft float64 `parquet:"non_residential_sqft"`
	Stories            float64 `parquet:"stories"`

	BuildingCost    *float64 `parquet:"building_cost,optional"`
	BuildingRevenue *float64 `parquet:"building_revenue,optional"`
	BuildingSqft    *float64 `parquet:"building_sqft,optional"`
	TotalCost       *float64 `parquet:"total_cost,optional"`
}

// ParcelRow is one row of the parcel attributes table.
type ParcelRow struct {
	ParcelID     string  `parquet:"parcel_id"`
	ParcelSize   float64 `parquet:"parcel_size"`
	AveUnitSize  float64 `parquet:"ave_unit_size"`
	CurrentUnits float64 `parquet:"current_units"`
}

// PickedBuilding is one row of a pick result.
type PickedBuilding struct {
	Round            int32   `parquet:"round,snappy"`
	Rank             int32   `parquet:"rank,snappy"`
	ParcelID         string  `parquet:"parcel_id,snappy"`
	Form             string  `parquet:"form,snappy"`
	NetUnits         float64 `parquet:"net_units,snappy"`
	ResidentialUnits float64 `parquet:"residential_units,snappy"`
	JobSpaces        float64 `parquet:"job_spaces,snappy"`
	Stories          float64 `parquet:"stories,snappy"`
	MaxProfit        float64 `parquet:"max_profit,snappy"`
	YearBuilt        *int32  `parquet:"year_built,optional,snappy"`
}

// Run represents a single allocation run with metadata.
// This struct maps to the devpick_runs database table.
type Run struct {
	// RunID is the UUID of the run
	RunID string `parquet:"run_id,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// EndedAt is when the run completed (nullable)
	EndedAt *time.Time `parquet:"ended_at,optional,snappy"`

	// DurationMs is the duration of the run in milliseconds (nullable)
	DurationMs *int64 `parquet:"duration_ms,optional,snappy"`

	TargetUnits         int64   `parquet:"target_units,snappy"`
	NetUnitsBuilt       float64 `parquet:"net_units_built,snappy"`
	BuildingsBuilt      int64   `parquet:"buildings_built,snappy"`
	DemandExceedsSupply bool    `parquet:"demand_exceeds_supply,snappy"`
	NoFeasible          bool    `parquet:"no_feasible,snappy"`
	Seed                int64   `parquet:"seed,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunBuilding is a building chosen during a recorded run.
// This struct maps to the devpick_buildings database table.
type RunBuilding struct {
	RunID            string  `parquet:"run_id,snappy"`
	ParcelID         string  `parquet:"parcel_id,snappy"`
	Form             string  `parquet:"form,snappy"`
	NetUnits         float64 `parquet:"net_units,snappy"`
	ResidentialUnits float64 `parquet:"residential_units,snappy"`
	JobSpaces        float64 `parquet:"job_spaces,snappy"`
	Stories          float64 `parquet:"stories,snappy"`
	MaxProfit        float64 `parquet:"max_profit,snappy"`
	YearBuilt        *int64  `parquet:"year_built,optional,snappy"`
}

// writeRows writes rows of any tagged struct type to outputPath.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// readRows reads every row of a Parquet file into T.
func readRows[T any](inputPath string) ([]T, error) {
	rows, err := parquet.ReadFile[T](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", inputPath, err)
	}
	return rows, nil
}

// WritePickedBuildingsParquet writes pick result rows to a Parquet file.
func WritePickedBuildingsParquet(data []PickedBuilding, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunBuildingsParquet writes a slice of RunBuilding structs to a Parquet file.
func WriteRunBuildingsParquet(data []RunBuilding, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteFeasibilityParquet writes feasibility rows, mainly for fixtures and conversions.
func WriteFeasibilityParquet(data []FeasibilityRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteParcelsParquet writes parcel rows, mainly for fixtures and conversions.
func WriteParcelsParquet(data []ParcelRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// ReadFeasibilityParquet reads a long-format feasibility table.
func ReadFeasibilityParquet(inputPath string) ([]FeasibilityRow, error) {
	return readRows[FeasibilityRow](inputPath)
}

// ReadParcelsParquet reads a parcel attributes table.
func ReadParcelsParquet(inputPath string) ([]ParcelRow, error) {
	return readRows[ParcelRow](inputPath)
}

// ConvertBuildings converts the buildings of one round to ranked Parquet rows.
func ConvertBuildings(round int, buildings []schema.Building) []PickedBuilding {
	result := make([]PickedBuilding, len(buildings))
	for i, b := range buildings {
		result[i] = PickedBuilding{
			Round:            int32(round),
			Rank:             int32(i + 1),
			ParcelID:         b.ParcelID,
			Form:             b.Form,
			NetUnits:         b.NetUnits,
			ResidentialUnits: b.ResidentialUnits,
			JobSpaces:        b.JobSpaces,
			Stories:          b.Stories,
			MaxProfit:        b.MaxProfit,
		}
		if b.YearBuilt != nil {
			year := int32(*b.YearBuilt)
			result[i].YearBuilt = &year
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:               record.RunID,
			StartedAt:           record.StartedAt,
			EndedAt:             record.EndedAt,
			DurationMs:          record.DurationMs,
			TargetUnits:         record.TargetUnits,
			NetUnitsBuilt:       record.NetUnitsBuilt,
			BuildingsBuilt:      record.BuildingsBuilt,
			DemandExceedsSupply: record.DemandExceedsSupply,
			NoFeasible:          record.NoFeasible,
			Seed:                record.Seed,
			ConfigParams:        record.ConfigParams,
		}
	}
	return result
}

// ConvertBuildingRecords converts schema.BuildingRecord to RunBuilding for Parquet export.
func ConvertBuildingRecords(records []schema.BuildingRecord) []RunBuilding {
	result := make([]RunBuilding, len(records))
	for i, record := range records {
		result[i] = RunBuilding{
			RunID:            record.RunID,
			ParcelID:         record.ParcelID,
			Form:             record.Form,
			NetUnits:         record.NetUnits,
			ResidentialUnits: record.ResidentialUnits,
			JobSpaces:        record.JobSpaces,
			Stories:          record.Stories,
			MaxProfit:        record.MaxProfit,
			YearBuilt:        record.YearBuilt,
		}
	}
	return result
}
