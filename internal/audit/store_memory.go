package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps the most recent events in a bounded ring. The oldest
// event is dropped once capacity is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	events   []Event
	head     int
	count    int
	capacity int
	dropped  int64
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryStore{events: make([]Event, capacity), capacity: capacity}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == s.capacity {
		s.dropped++
	} else {
		s.count++
	}
	s.events[s.head] = event
	s.head = (s.head + 1) % s.capacity
	return nil
}

// Recent returns up to n events, oldest first. n <= 0 returns everything held.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > s.count {
		n = s.count
	}
	out := make([]Event, 0, n)
	start := (s.head - n + s.capacity) % s.capacity
	for i := range n {
		out = append(out, s.events[(start+i)%s.capacity])
	}
	return out, nil
}

// ListByCalculator returns held events for one calculator, oldest first.
func (s *MemoryStore) ListByCalculator(ctx context.Context, calculatorID string) ([]Event, error) {
	all, _ := s.Recent(ctx, 0)
	out := make([]Event, 0)
	for _, e := range all {
		if e.CalculatorID == calculatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Dropped reports how many events were evicted.
func (s *MemoryStore) Dropped() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}
