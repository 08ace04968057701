package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/internal/parquet"
	"github.com/huangsam/devpick/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrParquetNeedsFile is returned when parquet output is asked for without a destination file.
var ErrParquetNeedsFile = errors.New("parquet output requires an output file")

// WritePickResults outputs the pick rounds, dispatching based on the output format configured.
func WritePickResults(results []*schema.PickResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtYear := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONPicks(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPicks(w, results, fmtFloat, fmtYear)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetPicks(results, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePickTable(w, results, cfg, fmtFloat, fmtYear, duration)
		}, "Wrote table")
	}
	return nil
}

// writePickTable generates and writes one human-readable table per round.
func writePickTable(w io.Writer, results []*schema.PickResult, cfg *contract.Config, fmtFloat func(float64) string, fmtYear func(*int) string, duration time.Duration) error {
	idWidth := GetMaxTableIDWidth(cfg)
	for i, result := range results {
		if len(results) > 1 {
			if _, err := fmt.Fprintf(w, "Round %d of %d\n", i+1, len(results)); err != nil {
				return err
			}
		}
		if result.NoFeasible {
			if _, err := fmt.Fprintf(w, "No feasible buildings to choose from [%s]\n", contract.GetColorLabel(result)); err != nil {
				return err
			}
			continue
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Rank", "Parcel", "Form", "Net Units", "Res Units", "Job Spaces", "Stories", "Max Profit", "Year"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		data := make([][]string, 0, len(result.Buildings))
		for rank, b := range result.Buildings {
			data = append(data, []string{
				strconv.Itoa(rank + 1),
				truncateID(b.ParcelID, idWidth),
				b.Form,
				fmtFloat(b.NetUnits),
				fmtFloat(b.ResidentialUnits),
				fmtFloat(b.JobSpaces),
				fmtFloat(b.Stories),
				fmtFloat(b.MaxProfit),
				fmtYear(b.YearBuilt),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Built %d buildings with %s net units for a target of %d [%s]\n",
			len(result.Buildings), fmtFloat(result.NetUnitsBuilt), result.TargetUnits, contract.GetColorLabel(result)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Chose from %d candidates offering %s net units in %d iterations (seed %d)\n",
			result.CandidateCount, fmtFloat(result.CandidateUnits), result.Iterations, result.Seed); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Pick completed in %v over %d rounds. Runs backend: %s\n", duration, len(results), cfg.RunsBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVPicks writes one row per chosen building across all rounds.
func writeCSVPicks(w io.Writer, results []*schema.PickResult, fmtFloat func(float64) string, fmtYear func(*int) string) error {
	header := []string{
		"round",
		"rank",
		"parcel_id",
		"form",
		"net_units",
		"residential_units",
		"job_spaces",
		"stories",
		"max_profit",
		"year_built",
		"outcome",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for round, result := range results {
			label := contract.GetPlainLabel(result)
			for rank, b := range result.Buildings {
				rec := []string{
					strconv.Itoa(round + 1),
					strconv.Itoa(rank + 1),
					b.ParcelID,
					b.Form,
					fmtFloat(b.NetUnits),
					fmtFloat(b.ResidentialUnits),
					fmtFloat(b.JobSpaces),
					fmtFloat(b.Stories),
					fmtFloat(b.MaxProfit),
					fmtYear(b.YearBuilt),
					label,
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// jsonPickRound is a pick result with its round and outcome label added.
type jsonPickRound struct {
	Round   int    `json:"round"`
	Outcome string `json:"outcome"`
	*schema.PickResult
}

// writeJSONPicks writes every round as a JSON array.
func writeJSONPicks(w io.Writer, results []*schema.PickResult) error {
	output := make([]jsonPickRound, len(results))
	for i, r := range results {
		output[i] = jsonPickRound{
			Round:      i + 1,
			Outcome:    contract.GetPlainLabel(r),
			PickResult: r,
		}
	}
	return writeJSON(w, output)
}

// writeParquetPicks writes all rounds into a single Parquet file.
func writeParquetPicks(results []*schema.PickResult, outputFile string) error {
	if outputFile == "" {
		return ErrParquetNeedsFile
	}
	var rows []parquet.PickedBuilding
	for i, r := range results {
		rows = append(rows, parquet.ConvertBuildings(i+1, r.Buildings)...)
	}
	if err := parquet.WritePickedBuildingsParquet(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// WriteTargetUnits outputs the derived number of units to build.
func WriteTargetUnits(units int, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]int{"target_units": units})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"target_units"}, func(cw *csv.Writer) error {
				return cw.Write([]string{strconv.Itoa(units)})
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for target")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Units to build: %d\n", units)
			return err
		}, "Wrote text")
	}
}
