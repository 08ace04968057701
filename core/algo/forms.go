// Package algo implements the developer selection algorithm: form competition,
// capacity derivation, probability assignment, weighted selection and
// multi-parcel resolution. It performs no I/O.
package algo

import (
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/devpick/schema"
)

// KeepFormWithMaxProfit reduces per-form tables to one candidate per parcel,
// keeping the form with the greatest MaxProfit. Only the named forms compete
// when forms is non-empty, in the order given; otherwise every table competes
// in slice order. On equal profit the earliest form in that order wins.
// The result is sorted by parcel ID.
func KeepFormWithMaxProfit(tables []schema.FormTable, forms []string) ([]schema.Candidate, error) {
	competing, err := restrictForms(tables, forms)
	if err != nil {
		return nil, err
	}

	best := make(map[string]schema.Candidate)
	for _, table := range competing {
		for _, row := range table.Rows {
			row.Form = table.Form
			current, ok := best[row.ParcelID]
			if !ok || beats(row.MaxProfit, current.MaxProfit) {
				best[row.ParcelID] = row
			}
		}
	}

	result := make([]schema.Candidate, 0, len(best))
	for _, c := range best {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ParcelID < result[j].ParcelID
	})
	return result, nil
}

// beats reports whether profit strictly outranks current. NaN never wins over a number.
func beats(profit, current float64) bool {
	if math.IsNaN(current) {
		return !math.IsNaN(profit)
	}
	return profit > current
}

// restrictForms returns the tables named in forms, in that order.
func restrictForms(tables []schema.FormTable, forms []string) ([]schema.FormTable, error) {
	if len(forms) == 0 {
		return tables, nil
	}
	byName := make(map[string]schema.FormTable, len(tables))
	for _, t := range tables {
		byName[t.Form] = t
	}
	result := make([]schema.FormTable, 0, len(forms))
	for _, name := range forms {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownForm, name)
		}
		result = append(result, t)
	}
	return result, nil
}

// SplitByForm partitions a single-level table by form. Forms keep the order
// of their first appearance and rows keep their relative order.
func SplitByForm(rows []schema.Candidate) []schema.FormTable {
	var tables []schema.FormTable
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.Form]
		if !ok {
			i = len(tables)
			index[row.Form] = i
			tables = append(tables, schema.FormTable{Form: row.Form})
		}
		tables[i].Rows = append(tables[i].Rows, row)
	}
	return tables
}

// Flatten concatenates all form tables into one table, stamping each row with its form.
func Flatten(tables []schema.FormTable) []schema.Candidate {
	var rows []schema.Candidate
	for _, t := range tables {
		for _, row := range t.Rows {
			row.Form = t.Form
			rows = append(rows, row)
		}
	}
	return rows
}
