package calculator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput matches every *ValidationError via errors.Is.
	ErrInvalidInput = errors.New("invalid calculator input")
	// ErrComputationInvariant matches every *InvariantViolation via errors.Is.
	ErrComputationInvariant = errors.New("computation invariant violated")
)

// ValidationError lists every field that failed validation. It is a caller
// error: fixing the inputs and retrying is expected to succeed.
type ValidationError struct {
	CalculatorID string
	Errors       []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("calculator %q: invalid input: %s", e.CalculatorID, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvariantViolation reports a non-finite figure computed from validated
// input. It always indicates a defect in that calculator's formula or a gap in
// its validation. Fallback carries the degraded High-tier analysis.
type InvariantViolation struct {
	CalculatorID string
	Figure       string
	Value        float64
	Fallback     Analysis
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("calculator %q: %s is %v for validated input", e.CalculatorID, e.Figure, e.Value)
}

func (e *InvariantViolation) Is(target error) bool {
	return target == ErrComputationInvariant
}
