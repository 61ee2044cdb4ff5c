// Package registry holds the id -> calculator table that the transports
// resolve calculators from.
//
// A Registry is populated once at startup by the catalog bootstrap and read
// concurrently afterwards. Registration is still mutex-guarded so that a late
// Register cannot corrupt the table under concurrent readers.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"abacus/internal/calculator"
)

// Registry maps calculator ids to calculators, preserving registration order.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]calculator.Calculator
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]calculator.Calculator)}
}

// Register adds c under its descriptor id. A second registration under an
// existing id is rejected with *DuplicateRegistrationError.
func (r *Registry) Register(c calculator.Calculator) error {
	if c == nil {
		return fmt.Errorf("register nil calculator: %w", ErrInvalidDescriptor)
	}
	desc := c.Descriptor()
	if !calculator.ValidID(desc.ID) {
		return fmt.Errorf("register %q: id must be a lower-case kebab slug: %w", desc.ID, ErrInvalidDescriptor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[desc.ID]; ok {
		return &DuplicateRegistrationError{
			ID:           desc.ID,
			ExistingName: existing.Descriptor().Name,
			RejectedName: desc.Name,
		}
	}
	r.byID[desc.ID] = c
	r.order = append(r.order, desc.ID)
	return nil
}

// Get returns the calculator registered under id.
func (r *Registry) Get(id string) (calculator.Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, &UnknownCalculatorError{ID: id}
	}
	return c, nil
}

// List returns every calculator in registration order.
func (r *Registry) List() []calculator.Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]calculator.Calculator, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ListCategory returns the calculators in category, in registration order.
func (r *Registry) ListCategory(category string) []calculator.Calculator {
	all := r.List()
	return slices.DeleteFunc(all, func(c calculator.Calculator) bool {
		return c.Descriptor().Category != category
	})
}

// Categories returns the distinct categories in first-registration order.
func (r *Registry) Categories() []string {
	var cats []string
	for _, c := range r.List() {
		cat := c.Descriptor().Category
		if !slices.Contains(cats, cat) {
			cats = append(cats, cat)
		}
	}
	return cats
}

// Len returns the number of registered calculators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
