// Package catalog wires every calculator module into a registry at startup.
package catalog

import (
	"fmt"

	"abacus/internal/calculator"
	"abacus/internal/catalog/business"
	"abacus/internal/catalog/finance"
	"abacus/internal/catalog/health"
	"abacus/internal/catalog/mathcalc"
	"abacus/internal/catalog/realestate"
)

// Module is one group of calculators registered together.
type Module struct {
	Name     string
	Register func(r calculator.Registrar) error
}

// Modules lists the catalog in bootstrap order.
func Modules() []Module {
	return []Module{
		{Name: "finance", Register: finance.Register},
		{Name: "health", Register: health.Register},
		{Name: "business", Register: business.Register},
		{Name: "math", Register: mathcalc.Register},
		{Name: "real-estate", Register: realestate.Register},
	}
}

// Bootstrap registers every module into r. It stops at the first failure;
// a duplicate id means two modules disagree and the process should not start.
func Bootstrap(r calculator.Registrar) error {
	return Load(r, Modules()...)
}

// Load registers the given modules in order.
func Load(r calculator.Registrar, modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return fmt.Errorf("register %s calculators: %w", m.Name, err)
		}
	}
	return nil
}
