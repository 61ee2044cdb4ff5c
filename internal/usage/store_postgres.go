package usage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"abacus/pkg/platform/sentinel"
)

// Schema creates the usage table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS calculator_usage (
	calculator_id TEXT PRIMARY KEY,
	count         BIGINT NOT NULL DEFAULT 0,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists counts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the usage table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create usage schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Increment(ctx context.Context, calculatorID string) error {
	query := `
		INSERT INTO calculator_usage (calculator_id, count)
		VALUES ($1, 1)
		ON CONFLICT (calculator_id) DO UPDATE SET
			count = calculator_usage.count + 1,
			updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, calculatorID); err != nil {
		return fmt.Errorf("increment usage: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// IncrementMany folds a batch into one statement using unnest, so repeated
// ids in the batch add up instead of conflicting.
func (s *PostgresStore) IncrementMany(ctx context.Context, calculatorIDs []string) error {
	ids := make([]string, 0, len(calculatorIDs))
	for _, id := range calculatorIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	query := `
		INSERT INTO calculator_usage (calculator_id, count)
		SELECT id, COUNT(*) FROM unnest($1::text[]) AS id GROUP BY id
		ON CONFLICT (calculator_id) DO UPDATE SET
			count = calculator_usage.count + EXCLUDED.count,
			updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("increment usage batch: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Top(ctx context.Context, n int) ([]Count, error) {
	if n <= 0 {
		return []Count{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT calculator_id, count FROM calculator_usage
		ORDER BY count DESC, calculator_id ASC
		LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("read usage: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	counts := make([]Count, 0, min(n, 64))
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.CalculatorID, &c.Count); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read usage: %w: %w", sentinel.ErrUnavailable, err)
	}
	return counts, nil
}
