package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "already split", input: []string{"a", "b"}, expected: []string{"a", "b"}},
		{name: "single joined value", input: []string{"a,b,c"}, expected: []string{"a", "b", "c"}},
		{name: "trims and drops blanks", input: []string{" a , ,b ", "  "}, expected: []string{"a", "b"}},
		{name: "dedupes across values", input: []string{"a,b", "b", "a,c"}, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input, ","))
		})
	}
}
