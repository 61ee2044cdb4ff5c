package handler

import (
	"abacus/internal/calculation/service"
	"abacus/internal/calculator"
	"abacus/pkg/platform/httputil"
)

// CalculatorResponse describes one registered calculator.
type CalculatorResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Unit        string             `json:"unit,omitempty"`
	Fields      []calculator.Field `json:"fields"`
}

// CalculatorListResponse is returned by GET /calculators.
type CalculatorListResponse struct {
	Calculators []*CalculatorResponse `json:"calculators"`
	Count       int                   `json:"count"`
}

// CategoriesResponse is returned by GET /categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ResultResponse is returned by POST /calculators/{id}/calculate.
type ResultResponse struct {
	CalculatorID   string               `json:"calculator_id"`
	Value          float64              `json:"value"`
	Unit           string               `json:"unit,omitempty"`
	Breakdown      []calculator.Figure  `json:"breakdown,omitempty"`
	RiskLevel      string               `json:"risk_level"`
	Recommendation string               `json:"recommendation"`
	Warnings       []calculator.Warning `json:"warnings,omitempty"`
}

// ValidationResponse is returned by POST /calculators/{id}/validate.
type ValidationResponse struct {
	CalculatorID string                  `json:"calculator_id"`
	Valid        bool                    `json:"valid"`
	Errors       []calculator.FieldError `json:"errors"`
	Warnings     []calculator.Warning    `json:"warnings"`
}

// BatchItemResponse is one entry of a batch response; exactly one of Result
// and Error is set.
type BatchItemResponse struct {
	Index        int                     `json:"index"`
	CalculatorID string                  `json:"calculator_id"`
	Result       *ResultResponse         `json:"result,omitempty"`
	Error        *httputil.ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is returned by POST /calculations/batch.
type BatchResponse struct {
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// PopularCalculator pairs a calculator summary with its usage count.
type PopularCalculator struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// PopularResponse is returned by GET /calculators/popular.
type PopularResponse struct {
	Calculators []PopularCalculator `json:"calculators"`
}

func FromDescriptor(d calculator.Descriptor) *CalculatorResponse {
	fields := d.Fields
	if fields == nil {
		fields = []calculator.Field{}
	}
	return &CalculatorResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Unit:        d.Unit,
		Fields:      fields,
	}
}

func FromDescriptors(descs []calculator.Descriptor) *CalculatorListResponse {
	out := make([]*CalculatorResponse, len(descs))
	for i, d := range descs {
		out[i] = FromDescriptor(d)
	}
	return &CalculatorListResponse{Calculators: out, Count: len(out)}
}

func FromResult(r *calculator.Result) *ResultResponse {
	return &ResultResponse{
		CalculatorID:   r.CalculatorID,
		Value:          r.Value,
		Unit:           r.Unit,
		Breakdown:      r.Breakdown,
		RiskLevel:      string(r.Analysis.RiskLevel),
		Recommendation: r.Analysis.Recommendation,
		Warnings:       r.Warnings,
	}
}

func FromValidationReport(r *service.ValidationReport) *ValidationResponse {
	resp := &ValidationResponse{
		CalculatorID: r.CalculatorID,
		Valid:        r.Valid,
		Errors:       r.Errors,
		Warnings:     r.Warnings,
	}
	if resp.Errors == nil {
		resp.Errors = []calculator.FieldError{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []calculator.Warning{}
	}
	return resp
}

func FromBatchResults(results []service.BatchResult) *BatchResponse {
	resp := &BatchResponse{Results: make([]BatchItemResponse, len(results))}
	for i, r := range results {
		item := BatchItemResponse{Index: r.Index, CalculatorID: r.CalculatorID}
		if r.Err != nil {
			_, env := httputil.ToErrorResponse(r.Err)
			item.Error = &env
			resp.Failed++
		} else {
			item.Result = FromResult(r.Result)
			resp.Succeeded++
		}
		resp.Results[i] = item
	}
	return resp
}

func FromPopularity(ps []service.Popularity) *PopularResponse {
	out := make([]PopularCalculator, len(ps))
	for i, p := range ps {
		out[i] = PopularCalculator{
			ID:       p.Descriptor.ID,
			Name:     p.Descriptor.Name,
			Category: p.Descriptor.Category,
			Count:    p.Count,
		}
	}
	return &PopularResponse{Calculators: out}
}
