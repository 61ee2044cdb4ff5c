package usage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/pkg/platform/circuit"
	"abacus/pkg/platform/sentinel"
)

type downStore struct {
	calls int
	err   error
}

func (d *downStore) Increment(context.Context, string) error {
	d.calls++
	return d.err
}

func (d *downStore) IncrementMany(context.Context, []string) error {
	d.calls++
	return d.err
}

func (d *downStore) Top(context.Context, int) ([]Count, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return []Count{{CalculatorID: "bmi", Count: 1}}, nil
}

func TestGuardedStoreFailsFastWhenOpen(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	backend := &downStore{err: fmt.Errorf("redis: %w: %w", sentinel.ErrUnavailable, errors.New("dial tcp: refused"))}
	breaker := circuit.New("redis", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }))
	store := NewGuardedStore(backend, breaker, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Error(t, store.Increment(ctx, "bmi"))
	assert.Error(t, store.Increment(ctx, "bmi"))
	require.True(t, breaker.IsOpen())

	err := store.IncrementMany(ctx, []string{"bmi", "roi"})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, 2, backend.calls, "open breaker must not reach the backend")

	backend.err = nil
	now = now.Add(time.Minute)
	top, err := store.Top(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, top, 1)
	assert.False(t, breaker.IsOpen())
}

func TestGuardedStoreIgnoresNonOutageErrors(t *testing.T) {
	backend := &downStore{err: errors.New("bad input")}
	breaker := circuit.New("postgres", circuit.WithFailureThreshold(1))
	store := NewGuardedStore(backend, breaker, nil)

	assert.Error(t, store.Increment(context.Background(), "bmi"))
	assert.False(t, breaker.IsOpen())
}
