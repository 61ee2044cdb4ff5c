package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"abacus/pkg/platform/circuit"
	"abacus/pkg/platform/sentinel"
)

// Backend is the store interface shared by every usage backend.
type Backend interface {
	Increment(ctx context.Context, calculatorID string) error
	IncrementMany(ctx context.Context, calculatorIDs []string) error
	Top(ctx context.Context, n int) ([]Count, error)
}

// GuardedStore stops calling a remote backend once it keeps failing, so an
// unreachable Redis or Postgres does not add a timeout to every request.
// While the breaker is open calls fail fast with sentinel.ErrUnavailable.
type GuardedStore struct {
	next    Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuardedStore(next Backend, breaker *circuit.Breaker, logger *slog.Logger) *GuardedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedStore{next: next, breaker: breaker, logger: logger}
}

func (g *GuardedStore) Increment(ctx context.Context, calculatorID string) error {
	return g.call(ctx, func() error {
		return g.next.Increment(ctx, calculatorID)
	})
}

func (g *GuardedStore) IncrementMany(ctx context.Context, calculatorIDs []string) error {
	return g.call(ctx, func() error {
		return g.next.IncrementMany(ctx, calculatorIDs)
	})
}

func (g *GuardedStore) Top(ctx context.Context, n int) ([]Count, error) {
	var out []Count
	err := g.call(ctx, func() error {
		var err error
		out, err = g.next.Top(ctx, n)
		return err
	})
	return out, err
}

func (g *GuardedStore) call(ctx context.Context, fn func() error) error {
	if !g.breaker.Allow() {
		return fmt.Errorf("usage store %s: circuit open: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}
	err := fn()
	// Only backend outages trip the breaker; caller errors pass through.
	if err != nil && errors.Is(err, sentinel.ErrUnavailable) {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "usage store circuit opened", "store", g.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "usage store circuit closed", "store", g.breaker.Name())
	}
	return err
}
