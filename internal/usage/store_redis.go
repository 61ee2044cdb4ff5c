package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"abacus/pkg/platform/sentinel"
)

var redisUsageDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "abacus_usage_redis_duration_ms",
	Help:    "Latency of redis usage counter updates in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// DefaultRedisKey is the sorted set holding per-calculator counts.
const DefaultRedisKey = "abacus:usage"

// RedisStore keeps counts in a sorted set so every instance shares them.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisStoreOption configures a RedisStore instance.
type RedisStoreOption func(*RedisStore)

// WithRedisKey overrides the sorted set key.
func WithRedisKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, key: DefaultRedisKey}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Increment(ctx context.Context, calculatorID string) error {
	start := time.Now()
	defer func() {
		redisUsageDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()
	if err := s.client.ZIncrBy(ctx, s.key, 1, calculatorID).Err(); err != nil {
		return fmt.Errorf("increment usage: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// IncrementMany applies every increment in one pipeline round trip.
func (s *RedisStore) IncrementMany(ctx context.Context, calculatorIDs []string) error {
	if len(calculatorIDs) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, id := range calculatorIDs {
		if id != "" {
			pipe.ZIncrBy(ctx, s.key, 1, id)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment usage batch: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Top returns the n highest scores. Ties keep redis ordering, then are
// re-ranked by id so results are stable across backends.
func (s *RedisStore) Top(ctx context.Context, n int) ([]Count, error) {
	if n <= 0 {
		return []Count{}, nil
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read usage: %w: %w", sentinel.ErrUnavailable, err)
	}
	counts := make([]Count, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		counts = append(counts, Count{CalculatorID: id, Count: int64(z.Score)})
	}
	return rank(counts, n), nil
}
