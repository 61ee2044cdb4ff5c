// Package strings provides string list helpers for configuration values.
package strings

import (
	"strings"
)

// SplitList flattens values that may each hold several sep-separated items,
// as happens when a list arrives through a single environment variable. Items
// are trimmed; blanks and repeats are dropped. Order is preserved.
//
// Example:
//
//	SplitList([]string{"k1:9092, k2:9092", "k1:9092", " "}, ",")
//	// Returns: []string{"k1:9092", "k2:9092"}
func SplitList(values []string, sep string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		for _, item := range strings.Split(v, sep) {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" {
				continue
			}
			if _, ok := seen[trimmed]; !ok {
				seen[trimmed] = struct{}{}
				result = append(result, trimmed)
			}
		}
	}

	return result
}
