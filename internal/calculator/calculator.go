// Package calculator defines the contract every catalog calculator satisfies
// and the generic pipeline that drives one through its three stages:
//
//	validate inputs -> compute a numeric result -> analyze it into a risk tier
//
// Calculators are built by describing the stages in a Definition and handing it
// to New. The returned Pipeline owns orchestration, so calculator modules only
// supply pure functions.
package calculator

// Calculator is the uniform shape exposed to the registry and the transports.
type Calculator interface {
	// Descriptor returns the immutable metadata for this calculator.
	Descriptor() Descriptor
	// Validate checks raw inputs without computing anything. It never panics
	// on a well-formed Inputs value; problems are reported as field errors.
	Validate(in Inputs) ValidationOutcome
	// Calculate validates, computes and analyzes. Invalid input yields a
	// *ValidationError and no result.
	Calculate(in Inputs) (*Result, error)
	// Advise returns non-blocking warnings for valid inputs and nil otherwise.
	Advise(in Inputs) []Warning
}

// Descriptor is the registered metadata of one calculator. ID is the stable
// registry key and is addressable from URLs.
type Descriptor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field documents one input so UIs can render a form for it.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Unit     string   `json:"unit,omitempty"`
	Required bool     `json:"required"`
	Choices  []string `json:"choices,omitempty"`
}

// RiskLevel is the coarse tier an analysis assigns to a result.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Analysis is the qualitative reading of a computed result.
type Analysis struct {
	Recommendation string    `json:"recommendation"`
	RiskLevel      RiskLevel `json:"risk_level"`
}

// Figure is one named component of a structured result.
type Figure struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Computation is what a calculator's compute stage produces: a headline value
// plus optional supporting figures in a stable order.
type Computation struct {
	Value     float64
	Breakdown []Figure
}

// Warning is an advisory note about an input that does not block computation.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the composed output of a successful Calculate call. It is rebuilt
// on every call and never cached.
type Result struct {
	CalculatorID string    `json:"calculator_id"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit,omitempty"`
	Breakdown    []Figure  `json:"breakdown,omitempty"`
	Analysis     Analysis  `json:"analysis"`
	Warnings     []Warning `json:"warnings,omitempty"`
}
