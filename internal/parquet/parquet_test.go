package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/devpick/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"started_at",
		"ended_at",
		"duration_ms",
		"target_units",
		"net_units_built",
		"buildings_built",
		"demand_exceeds_supply",
		"no_feasible",
		"seed",
		"config_params",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestPickedBuildingStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(PickedBuilding))
	for _, colName := range []string{"round", "rank", "parcel_id", "form", "net_units", "residential_units", "job_spaces", "stories", "max_profit", "year_built"} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestFeasibilityRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feasibility.parquet")
	cost := 1250000.0
	rows := []FeasibilityRow{
		{ParcelID: "10", Form: "residential", MaxProfit: 5000, MaxProfitFAR: 1.5, ResidentialSqft: 4000, Stories: 2.4, BuildingCost: &cost},
		{ParcelID: "11", Form: "office", MaxProfit: 900, MaxProfitFAR: 0.5, NonResidentialSqft: 8000, Stories: 1},
	}
	require.NoError(t, WriteFeasibilityParquet(rows, path))

	got, err := ReadFeasibilityParquet(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10", got[0].ParcelID)
	require.NotNil(t, got[0].BuildingCost)
	assert.Equal(t, cost, *got[0].BuildingCost)
	assert.Nil(t, got[1].BuildingCost)
	assert.Equal(t, 8000.0, got[1].NonResidentialSqft)
}

func TestParcelsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcels.parquet")
	rows := []ParcelRow{{ParcelID: "10", ParcelSize: 5000, AveUnitSize: 900, CurrentUnits: 1}}
	require.NoError(t, WriteParcelsParquet(rows, path))

	got, err := ReadParcelsParquet(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteRunsParquetNullable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.parquet")
	ended := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	duration := int64(1500)
	params := `{"forms":"residential"}`
	records := []schema.RunRecord{
		{RunID: "a", StartedAt: ended.Add(-time.Second), EndedAt: &ended, DurationMs: &duration, TargetUnits: 10, NetUnitsBuilt: 12, BuildingsBuilt: 3, ConfigParams: &params},
		{RunID: "b", StartedAt: ended, NoFeasible: true},
	}
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	got, err := readRows[Run](path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].EndedAt)
	assert.True(t, ended.Equal(*got[0].EndedAt))
	assert.Equal(t, params, *got[0].ConfigParams)
	assert.Nil(t, got[1].EndedAt)
	assert.Nil(t, got[1].DurationMs)
	assert.True(t, got[1].NoFeasible)
}

func TestConvertBuildings(t *testing.T) {
	year := 2030
	buildings := []schema.Building{
		schema.NewBuilding(schema.Proposal{Candidate: schema.Candidate{ParcelID: "p1", Form: "office", Stories: 2.2}, NetUnits: 4}, &year),
		schema.NewBuilding(schema.Proposal{Candidate: schema.Candidate{ParcelID: "p2", Form: "residential"}, NetUnits: 1}, nil),
	}
	rows := ConvertBuildings(2, buildings)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(2), rows[0].Round)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, 3.0, rows[0].Stories)
	require.NotNil(t, rows[0].YearBuilt)
	assert.Equal(t, int32(2030), *rows[0].YearBuilt)
	assert.Equal(t, int32(2), rows[1].Rank)
	assert.Nil(t, rows[1].YearBuilt)

	path := filepath.Join(t.TempDir(), "pick.parquet")
	require.NoError(t, WritePickedBuildingsParquet(rows, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestConvertBuildingRecords(t *testing.T) {
	year := int64(2031)
	rows := ConvertBuildingRecords([]schema.BuildingRecord{{RunID: "r", ParcelID: "p", Form: "office", NetUnits: 3, YearBuilt: &year}})
	require.Len(t, rows, 1)
	assert.Equal(t, "r", rows[0].RunID)
	assert.Equal(t, &year, rows[0].YearBuilt)

	path := filepath.Join(t.TempDir(), "buildings.parquet")
	require.NoError(t, WriteRunBuildingsParquet(rows, path))
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")

	_, err = ReadParcelsParquet(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
