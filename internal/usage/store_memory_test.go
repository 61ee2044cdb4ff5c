package usage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Increment(ctx, "bmi"))
	require.NoError(t, s.IncrementMany(ctx, []string{"roi", "bmi", "cap-rate", "", "roi"}))
	require.NoError(t, s.Increment(ctx, "bmi"))

	top, err := s.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []Count{{CalculatorID: "bmi", Count: 3}, {CalculatorID: "roi", Count: 2}}, top)

	all, err := s.Top(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreTiesBreakByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.IncrementMany(ctx, []string{"roi", "bmi", "cap-rate"}))

	top, err := s.Top(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "bmi", top[0].CalculatorID)
	assert.Equal(t, "cap-rate", top[1].CalculatorID)
	assert.Equal(t, "roi", top[2].CalculatorID)
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Increment(ctx, "bmi")
		}()
	}
	wg.Wait()

	top, err := s.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), top[0].Count)
}
