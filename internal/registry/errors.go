package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCalculator matches every *UnknownCalculatorError.
	ErrUnknownCalculator = errors.New("unknown calculator")
	// ErrDuplicateRegistration matches every *DuplicateRegistrationError.
	ErrDuplicateRegistration = errors.New("duplicate calculator registration")
	// ErrInvalidDescriptor is returned for nil calculators and malformed ids.
	ErrInvalidDescriptor = errors.New("invalid calculator descriptor")
)

// UnknownCalculatorError is returned by Get for ids that were never registered.
type UnknownCalculatorError struct {
	ID string
}

func (e *UnknownCalculatorError) Error() string {
	return fmt.Sprintf("calculator %q not found", e.ID)
}

func (e *UnknownCalculatorError) Is(target error) bool {
	return target == ErrUnknownCalculator
}

// DuplicateRegistrationError is returned when an id is registered twice. The
// first registration stays in place.
type DuplicateRegistrationError struct {
	ID           string
	ExistingName string
	RejectedName string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("calculator %q already registered by %q, rejected %q", e.ID, e.ExistingName, e.RejectedName)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}
