package core

import (
	"sync"
	"testing"

	"github.com/huangsam/devpick/schema"
	"github.com/stretchr/testify/assert"
)

func TestFeasibilityPool(t *testing.T) {
	input := twoForms()
	pool := NewFeasibilityPool(input)
	assert.Equal(t, 6, pool.Len())
	assert.Equal(t, 3, pool.Parcels())

	// The pool owns a copy of its input.
	input[0].Rows[0].ParcelID = "changed"
	assert.Equal(t, "a", pool.Tables()[0].Rows[0].ParcelID)

	assert.Equal(t, 2, pool.DropParcels([]string{"a"}))
	assert.Equal(t, 4, pool.Len())
	assert.Equal(t, 2, pool.Parcels())
	assert.Equal(t, 0, pool.DropParcels([]string{"a"}))
	assert.Equal(t, 0, pool.DropParcels(nil))

	tables := pool.Tables()
	assert.Equal(t, []string{"residential", "office"}, []string{tables[0].Form, tables[1].Form})
	assert.Equal(t, []schema.Candidate{candidate("b", 100), candidate("c", 100)}, tables[0].Rows)
}

func TestFeasibilityPool_ConcurrentDrops(t *testing.T) {
	pool := NewFeasibilityPool(twoForms())
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			pool.DropParcels([]string{id})
			_ = pool.Len()
		}(id)
	}
	wg.Wait()
	assert.Equal(t, 0, pool.Len())
}
