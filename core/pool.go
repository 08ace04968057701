package core

import (
	"sync"

	"github.com/huangsam/devpick/schema"
)

// FeasibilityPool owns the feasibility tables that successive picks draw from.
// A pick holds the lock for its whole duration so overlapping picks serialize.
type FeasibilityPool struct {
	mu     sync.Mutex
	tables []schema.FormTable
}

// NewFeasibilityPool copies the given tables into a new pool.
func NewFeasibilityPool(tables []schema.FormTable) *FeasibilityPool {
	return &FeasibilityPool{tables: cloneTables(tables)}
}

// Tables returns a copy of the current tables.
func (fp *FeasibilityPool) Tables() []schema.FormTable {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return cloneTables(fp.tables)
}

// Len returns the number of candidate rows across all forms.
func (fp *FeasibilityPool) Len() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	n := 0
	for _, t := range fp.tables {
		n += len(t.Rows)
	}
	return n
}

// Parcels returns the number of distinct parcels still in the pool.
func (fp *FeasibilityPool) Parcels() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	seen := make(map[string]struct{})
	for _, t := range fp.tables {
		for _, row := range t.Rows {
			seen[row.ParcelID] = struct{}{}
		}
	}
	return len(seen)
}

// DropParcels removes every row of the given parcels from all forms and
// returns how many rows were removed.
func (fp *FeasibilityPool) DropParcels(ids []string) int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.dropLocked(ids)
}

func (fp *FeasibilityPool) dropLocked(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	removed := 0
	for i := range fp.tables {
		kept := fp.tables[i].Rows[:0]
		for _, row := range fp.tables[i].Rows {
			if _, ok := drop[row.ParcelID]; ok {
				removed++
				continue
			}
			kept = append(kept, row)
		}
		fp.tables[i].Rows = kept
	}
	return removed
}

func cloneTables(tables []schema.FormTable) []schema.FormTable {
	out := make([]schema.FormTable, len(tables))
	for i, t := range tables {
		out[i] = schema.FormTable{Form: t.Form, Rows: append([]schema.Candidate(nil), t.Rows...)}
	}
	return out
}
