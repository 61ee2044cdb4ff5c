package usage

import (
	"context"
	"sync"
)

// MemoryStore keeps counts in process. Counts reset on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int64)}
}

func (s *MemoryStore) Increment(_ context.Context, calculatorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[calculatorID]++
	return nil
}

func (s *MemoryStore) IncrementMany(_ context.Context, calculatorIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range calculatorIDs {
		if id != "" {
			s.counts[id]++
		}
	}
	return nil
}

// Top returns the n most used calculators.
func (s *MemoryStore) Top(_ context.Context, n int) ([]Count, error) {
	s.mu.RLock()
	counts := make([]Count, 0, len(s.counts))
	for id, c := range s.counts {
		counts = append(counts, Count{CalculatorID: id, Count: c})
	}
	s.mu.RUnlock()
	return rank(counts, n), nil
}
