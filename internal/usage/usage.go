// Package usage counts calculations per calculator so the API can surface the
// most popular ones. Counting is best effort: callers log failures and carry on.
package usage

import (
	"cmp"
	"slices"
)

// Count is the number of successful calculations for one calculator.
type Count struct {
	CalculatorID string `json:"calculator_id"`
	Count        int64  `json:"count"`
}

// rank orders counts by descending count, then ascending id, and keeps n.
func rank(counts []Count, n int) []Count {
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.CalculatorID, b.CalculatorID)
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
