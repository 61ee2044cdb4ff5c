package audit

import "time"

// EventType names what happened to a calculation request.
type EventType string

const (
	EventCalculationPerformed EventType = "calculation_performed"
	EventCalculationRejected  EventType = "calculation_rejected"
	EventInvariantViolated    EventType = "computation_invariant_violated"
)

// Event is emitted by the calculation service. Keep it transport-agnostic so
// stores and sinks can fan out; inputs are deliberately not recorded.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	CalculatorID string    `json:"calculator_id"`
	RequestID    string    `json:"request_id,omitempty"`
	ClientIP     string    `json:"client_ip,omitempty"`
	RiskLevel    string    `json:"risk_level,omitempty"`
	// Fields lists rejected input names for calculation_rejected.
	Fields []string `json:"fields,omitempty"`
	// Figure names the non-finite value for computation_invariant_violated.
	Figure     string  `json:"figure,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}
