package handler

import (
	"fmt"
	"strings"

	"abacus/internal/calculation/service"
	"abacus/internal/calculator"
	dErrors "abacus/pkg/domain-errors"
)

// maxInputFields bounds the size of one inputs object. No catalog calculator
// takes more than a handful of fields.
const maxInputFields = 64

// CalculateRequest is the HTTP request body for the calculate and validate
// endpoints.
type CalculateRequest struct {
	Inputs calculator.Inputs `json:"inputs"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
// A missing inputs object is treated as empty so the calculator reports every
// required field.
func (r *CalculateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Inputs) > maxInputFields {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("inputs must have at most %d fields", maxInputFields))
	}
	if r.Inputs == nil {
		r.Inputs = calculator.Inputs{}
	}
	return nil
}

// BatchItemRequest is one entry of a batch request.
type BatchItemRequest struct {
	CalculatorID string            `json:"calculator_id"`
	Inputs       calculator.Inputs `json:"inputs"`
}

// BatchRequest is the HTTP request body for POST /calculations/batch.
type BatchRequest struct {
	Items []BatchItemRequest `json:"items"`
}

// Validate checks item shape only. Batch size limits are enforced by the
// service.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items is required")
	}
	for i := range r.Items {
		item := &r.Items[i]
		item.CalculatorID = strings.TrimSpace(item.CalculatorID)
		if item.CalculatorID == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("items[%d].calculator_id is required", i))
		}
		if len(item.Inputs) > maxInputFields {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("items[%d].inputs must have at most %d fields", i, maxInputFields))
		}
		if item.Inputs == nil {
			item.Inputs = calculator.Inputs{}
		}
	}
	return nil
}

// ToItems converts the request into service batch items.
func (r *BatchRequest) ToItems() []service.BatchItem {
	items := make([]service.BatchItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.BatchItem{CalculatorID: item.CalculatorID, Inputs: item.Inputs}
	}
	return items
}
