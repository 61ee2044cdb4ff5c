package calculator

import (
	"fmt"
	"regexp"
	"slices"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidID reports whether id is a lower-case kebab slug. Restricting ids to
// slugs means two ids can never differ only by case or surrounding spaces.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Definition describes one calculator as a set of pure stage functions over a
// calculator-specific input type T.
type Definition[T any] struct {
	ID          string
	Name        string
	Description string
	Category    string
	// Unit of the headline value, e.g. "USD", "%", "kg/m²".
	Unit   string
	Fields []Field

	// Bind reads and validates inputs. It must read every field through the
	// Binder so all problems are reported together.
	Bind func(b *Binder) T
	// Compute maps validated input to the numeric result. It is only called
	// when Bind reported no errors.
	Compute func(in T) Computation

	// Scale and Advice classify the result. Metric selects the value to
	// classify and defaults to the headline value.
	Scale  Scale
	Advice Advice
	Metric func(in T, c Computation) float64
	// Recommend overrides Advice when the text depends on the inputs.
	Recommend func(in T, c Computation, level RiskLevel) string

	// Warn returns advisory notes for valid input. Optional.
	Warn func(in T) []Warning
}

// Pipeline is the generic orchestrator behind every catalog calculator.
type Pipeline[T any] struct {
	def  Definition[T]
	desc Descriptor
}

var _ Calculator = (*Pipeline[struct{}])(nil)

// New builds a Pipeline from def. A malformed definition is a programming
// error in the calculator module, so New panics rather than returning it.
func New[T any](def Definition[T]) *Pipeline[T] {
	if err := check(def); err != nil {
		panic(fmt.Sprintf("calculator %q: %v", def.ID, err))
	}
	return &Pipeline[T]{
		def: def,
		desc: Descriptor{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Unit:        def.Unit,
			Fields:      slices.Clone(def.Fields),
		},
	}
}

func check[T any](def Definition[T]) error {
	switch {
	case !ValidID(def.ID):
		return fmt.Errorf("id must be a lower-case kebab slug")
	case def.Name == "":
		return fmt.Errorf("name is required")
	case def.Category == "":
		return fmt.Errorf("category is required")
	case def.Bind == nil || def.Compute == nil:
		return fmt.Errorf("bind and compute stages are required")
	case def.Recommend == nil && !def.Advice.complete():
		return fmt.Errorf("advice must cover every risk tier")
	}
	return def.Scale.Validate()
}

// Descriptor returns a copy of the calculator metadata.
func (p *Pipeline[T]) Descriptor() Descriptor {
	d := p.desc
	d.Fields = slices.Clone(p.desc.Fields)
	return d
}

// Scale exposes the tier boundaries, mostly for documentation and tests.
func (p *Pipeline[T]) Scale() Scale {
	return p.def.Scale
}

func (p *Pipeline[T]) bind(in Inputs) (T, ValidationOutcome) {
	b := NewBinder(in)
	v := p.def.Bind(b)
	return v, b.Outcome()
}

// Validate runs the validation stage only.
func (p *Pipeline[T]) Validate(in Inputs) ValidationOutcome {
	_, outcome := p.bind(in)
	return outcome
}

// Calculate runs validation, computation and analysis in order.
func (p *Pipeline[T]) Calculate(in Inputs) (*Result, error) {
	v, outcome := p.bind(in)
	if !outcome.Valid {
		return nil, &ValidationError{CalculatorID: p.desc.ID, Errors: outcome.Errors}
	}

	c := p.def.Compute(v)
	metric := c.Value
	if p.def.Metric != nil {
		metric = p.def.Metric(v, c)
	}
	if err := p.checkFinite(c, metric); err != nil {
		return nil, err
	}

	return &Result{
		CalculatorID: p.desc.ID,
		Value:        c.Value,
		Unit:         p.desc.Unit,
		Breakdown:    slices.Clone(c.Breakdown),
		Analysis:     p.analyze(v, c, metric),
		Warnings:     p.warn(v),
	}, nil
}

// Advise runs the advisory stage for valid inputs.
func (p *Pipeline[T]) Advise(in Inputs) []Warning {
	v, outcome := p.bind(in)
	if !outcome.Valid {
		return nil
	}
	return p.warn(v)
}

func (p *Pipeline[T]) analyze(v T, c Computation, metric float64) Analysis {
	level := p.def.Scale.Classify(metric)
	text := p.def.Advice[level]
	if p.def.Recommend != nil {
		text = p.def.Recommend(v, c, level)
	}
	return Analysis{Recommendation: text, RiskLevel: level}
}

func (p *Pipeline[T]) warn(v T) []Warning {
	if p.def.Warn == nil {
		return nil
	}
	return p.def.Warn(v)
}

func (p *Pipeline[T]) checkFinite(c Computation, metric float64) error {
	violation := func(figure string, value float64) error {
		return &InvariantViolation{
			CalculatorID: p.desc.ID,
			Figure:       figure,
			Value:        value,
			Fallback: Analysis{
				RiskLevel:      RiskHigh,
				Recommendation: "The result could not be computed reliably for these inputs.",
			},
		}
	}
	if !finite(c.Value) {
		return violation("value", c.Value)
	}
	for _, f := range c.Breakdown {
		if !finite(f.Value) {
			return violation(f.Name, f.Value)
		}
	}
	if !finite(metric) {
		return violation("metric", metric)
	}
	return nil
}
