package runstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/internal/parquet"
)

// ExportRuns writes the run history in store to two Parquet files derived
// from outputFile and returns their paths.
func ExportRuns(store contract.RunStore, outputFile string) (runsFile, buildingsFile string, err error) {
	if outputFile == "" {
		return "", "", errors.New("--output-file is required for export command")
	}
	if store == nil {
		return "", "", errors.New("run tracking is disabled. Set --runs-backend to export history")
	}

	status, err := store.GetStatus()
	if err != nil {
		return "", "", fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return "", "", errors.New("no run data found to export")
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve runs: %w", err)
	}
	buildings, err := store.GetAllBuildings()
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve buildings: %w", err)
	}

	base := strings.TrimSuffix(outputFile, ".parquet")
	runsFile = base + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return "", "", fmt.Errorf("failed to write runs: %w", err)
	}
	buildingsFile = base + ".buildings.parquet"
	if err := parquet.WriteRunBuildingsParquet(parquet.ConvertBuildingRecords(buildings), buildingsFile); err != nil {
		return "", "", fmt.Errorf("failed to write buildings: %w", err)
	}
	return runsFile, buildingsFile, nil
}

// ExecuteRunsExport exports the global run store and reports what was written.
func ExecuteRunsExport(outputFile string) error {
	store := Manager.GetRunStore()
	if store != nil {
		status, err := store.GetStatus()
		if err == nil {
			fmt.Printf("Exporting data from %s backend...\n", status.Backend)
			fmt.Printf("Total runs: %d\n", status.TotalRuns)
			fmt.Printf("Total buildings: %d\n", status.TotalBuildings)
		}
	}

	runsFile, buildingsFile, err := ExportRuns(store, outputFile)
	if err != nil {
		return err
	}
	fmt.Printf("Exported runs to: %s\n", runsFile)
	fmt.Printf("Exported buildings to: %s\n", buildingsFile)
	return nil
}
