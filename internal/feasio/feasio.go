// Package feasio reads the feasibility table and parcel attributes that feed a pick.
package feasio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/devpick/core/algo"
	"github.com/huangsam/devpick/internal/parquet"
	"github.com/huangsam/devpick/schema"
	"github.com/spf13/cast"
)

// ErrUnsupportedFormat is returned for input files that are neither CSV nor Parquet.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Required input columns.
var (
	feasibilityRequired = []string{
		"parcel_id", "form", "max_profit", "max_profit_far",
		"residential_sqft", "non_residential_sqft", "stories",
	}
	parcelsRequired = []string{"parcel_id", "parcel_size", "ave_unit_size", "current_units"}
)

// ReadFeasibility loads a long-format feasibility file and splits it by form.
// Forms keep the order of their first appearance.
func ReadFeasibility(path string) ([]schema.FormTable, error) {
	var rows []schema.Candidate
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVFile(path, ReadFeasibilityCSV)
	case ".parquet":
		rows, err = readFeasibilityParquet(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading feasibility %s: %w", path, err)
	}
	if err := checkDuplicateOptions(rows); err != nil {
		return nil, fmt.Errorf("reading feasibility %s: %w", path, err)
	}
	return algo.SplitByForm(rows), nil
}

// ReadParcels loads the parcel attributes file keyed by parcel ID.
func ReadParcels(path string) (schema.ParcelAttributes, error) {
	var parcels schema.ParcelAttributes
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parcels, err = readCSVFile(path, ReadParcelsCSV)
	case ".parquet":
		parcels, err = readParcelsParquet(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading parcels %s: %w", path, err)
	}
	return parcels, nil
}

func readCSVFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer func() { _ = f.Close() }()
	return read(f)
}

// ReadFeasibilityCSV parses feasibility rows from CSV with a header line.
// Column order is free; the pass-through cost columns are optional.
func ReadFeasibilityCSV(r io.Reader) ([]schema.Candidate, error) {
	records, cols, err := readRecords(r, feasibilityRequired)
	if err != nil {
		return nil, err
	}

	rows := make([]schema.Candidate, 0, len(records))
	for i, rec := range records {
		line := i + 2
		get := func(name string) string { return rec[cols[name]] }
		num := func(name string) (float64, error) { return parseNumber(get(name), name, line) }

		c := schema.Candidate{ParcelID: strings.TrimSpace(get("parcel_id")), Form: strings.TrimSpace(get("form"))}
		if c.ParcelID == "" || c.Form == "" {
			return nil, fmt.Errorf("line %d: parcel_id and form must not be empty", line)
		}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"max_profit", &c.MaxProfit},
			{"max_profit_far", &c.MaxProfitFAR},
			{"residential_sqft", &c.ResidentialSqft},
			{"non_residential_sqft", &c.NonResidentialSqft},
			{"stories", &c.Stories},
		}
		for _, f := range fields {
			if *f.dst, err = num(f.name); err != nil {
				return nil, err
			}
		}

		optional := []struct {
			name string
			dst  *float64
		}{
			{"building_cost", &c.BuildingCost},
			{"building_revenue", &c.BuildingRevenue},
			{"building_sqft", &c.BuildingSqft},
			{"total_cost", &c.TotalCost},
		}
		for _, f := range optional {
			if _, ok := cols[f.name]; !ok || strings.TrimSpace(get(f.name)) == "" {
				continue
			}
			if *f.dst, err = num(f.name); err != nil {
				return nil, err
			}
		}
		rows = append(rows, c)
	}
	return rows, nil
}

// ReadParcelsCSV parses parcel attributes from CSV with a header line.
func ReadParcelsCSV(r io.Reader) (schema.ParcelAttributes, error) {
	records, cols, err := readRecords(r, parcelsRequired)
	if err != nil {
		return nil, err
	}

	parcels := make(schema.ParcelAttributes, len(records))
	for i, rec := range records {
		line := i + 2
		id := strings.TrimSpace(rec[cols["parcel_id"]])
		if id == "" {
			return nil, fmt.Errorf("line %d: parcel_id must not be empty", line)
		}
		if _, ok := parcels[id]; ok {
			return nil, fmt.Errorf("line %d: duplicate parcel %q", line, id)
		}
		var p schema.Parcel
		for name, dst := range map[string]*float64{
			"parcel_size":   &p.ParcelSize,
			"ave_unit_size": &p.AveUnitSize,
			"current_units": &p.CurrentUnits,
		} {
			if *dst, err = parseNumber(rec[cols[name]], name, line); err != nil {
				return nil, err
			}
		}
		parcels[id] = p
	}
	return parcels, nil
}

// readRecords reads a header plus records and maps column names to positions.
func readRecords(r io.Reader, required []string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("missing header line")
	}
	if err != nil {
		return nil, nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return records, cols, nil
}

func parseNumber(raw, column string, line int) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("line %d: %s is empty", line, column)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: %w", line, column, err)
	}
	return v, nil
}

func readFeasibilityParquet(path string) ([]schema.Candidate, error) {
	raw, err := parquet.ReadFeasibilityParquet(path)
	if err != nil {
		return nil, err
	}
	rows := make([]schema.Candidate, len(raw))
	for i, r := range raw {
		rows[i] = schema.Candidate{
			ParcelID:           r.ParcelID,
			Form:               r.Form,
			MaxProfit:          r.MaxProfit,
			MaxProfitFAR:       r.MaxProfitFAR,
			ResidentialSqft:    r.ResidentialSqft,
			NonResidentialSqft: r.NonResidentialSqft,
			Stories:            r.Stories,
			BuildingCost:       deref(r.BuildingCost),
			BuildingRevenue:    deref(r.BuildingRevenue),
			BuildingSqft:       deref(r.BuildingSqft),
			TotalCost:          deref(r.TotalCost),
		}
		if rows[i].ParcelID == "" || rows[i].Form == "" {
			return nil, fmt.Errorf("row %d: parcel_id and form must not be empty", i)
		}
	}
	return rows, nil
}

func readParcelsParquet(path string) (schema.ParcelAttributes, error) {
	raw, err := parquet.ReadParcelsParquet(path)
	if err != nil {
		return nil, err
	}
	parcels := make(schema.ParcelAttributes, len(raw))
	for i, r := range raw {
		if _, ok := parcels[r.ParcelID]; ok {
			return nil, fmt.Errorf("row %d: duplicate parcel %q", i, r.ParcelID)
		}
		parcels[r.ParcelID] = schema.Parcel{
			ParcelSize:   r.ParcelSize,
			AveUnitSize:  r.AveUnitSize,
			CurrentUnits: r.CurrentUnits,
		}
	}
	return parcels, nil
}

// checkDuplicateOptions rejects a parcel listed twice for the same form.
func checkDuplicateOptions(rows []schema.Candidate) error {
	type key struct{ parcel, form string }
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		k := key{r.ParcelID, r.Form}
		if _, ok := seen[k]; ok {
			return fmt.Errorf("duplicate option for parcel %q and form %q", r.ParcelID, r.Form)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
