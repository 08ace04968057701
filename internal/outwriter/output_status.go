package outwriter

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/devpick/schema"
)

// WriteRunStatus prints run history status information as text or JSON.
func WriteRunStatus(w io.Writer, status schema.RunStatus, output schema.OutputMode) error {
	if output == schema.JSONOut {
		return writeJSON(w, status)
	}

	lines := []string{
		fmt.Sprintf("Runs Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines, fmt.Sprintf("Total Runs: %d", status.TotalRuns))
		if status.TotalRuns > 0 {
			lines = append(lines,
				fmt.Sprintf("Last Run ID: %s", status.LastRunID),
				fmt.Sprintf("Last Run: %s", status.LastRunTime.Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Oldest Run: %s", status.OldestRunTime.Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Total Buildings Picked: %d", status.TotalBuildings),
			)
		}
		lines = append(lines, "Table Sizes:")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			lines = append(lines, fmt.Sprintf("  %s: %d rows", table, status.TableSizes[table]))
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
