package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	_, ok := getRunID(ctx)
	assert.False(t, ok)

	ctx = withRunID(WithSuppressHeader(ctx), "run-1")
	assert.True(t, shouldSuppressHeader(ctx))
	runID, ok := getRunID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)

	_, ok = getRunID(withRunID(context.Background(), ""))
	assert.False(t, ok)
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(WithSuppressHeader(context.Background()), "run-42")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runID, ok := getRunID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
			assert.True(t, ok, "Goroutine %d: getRunID should return true", id)
			assert.Equal(t, "run-42", runID)
		}(i)
	}
	wg.Wait()
}
