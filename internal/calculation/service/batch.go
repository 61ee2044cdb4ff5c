package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"abacus/internal/calculator"
	dErrors "abacus/pkg/domain-errors"
)

// BatchItem is one calculation in a batch request.
type BatchItem struct {
	CalculatorID string
	Inputs       calculator.Inputs
}

// BatchResult holds either a result or an error for the item at Index.
type BatchResult struct {
	Index        int
	CalculatorID string
	Result       *calculator.Result
	Err          error
}

// EvaluateBatch runs items concurrently, bounded by the configured limit.
// Results come back in input order and one failing item never affects the
// others. Only an empty or oversized batch fails as a whole.
func (s *Service) EvaluateBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one item is required")
	}
	if len(items) > s.maxBatchSize {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("batch exceeds the maximum of %d items", s.maxBatchSize))
	}
	s.metrics.ObserveBatchSize(len(items))

	results := make([]BatchResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, item := range items {
		g.Go(func() error {
			results[i] = BatchResult{Index: i, CalculatorID: item.CalculatorID}
			if err := gctx.Err(); err != nil {
				results[i].Err = toDomainError(err)
				return nil
			}
			res, err := s.run(gctx, item.CalculatorID, item.Inputs)
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	s.recordBatchUsage(ctx, results)
	return results, nil
}

func (s *Service) recordBatchUsage(ctx context.Context, results []BatchResult) {
	if s.usage == nil {
		return
	}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			ids = append(ids, r.CalculatorID)
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := s.usage.IncrementMany(ctx, ids); err != nil {
		s.logger.WarnContext(ctx, "failed to record batch usage",
			"calculations", len(ids),
			"error", err,
		)
	}
}
