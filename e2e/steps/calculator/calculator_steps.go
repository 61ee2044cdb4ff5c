package calculator

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers calculator step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &calculatorSteps{tc: tc}

	// Request steps
	ctx.Step(`^I calculate "([^"]*)" with:$`, steps.calculate)
	ctx.Step(`^I validate "([^"]*)" with:$`, steps.validate)
	ctx.Step(`^I list calculators in category "([^"]*)"$`, steps.listCategory)

	// Assertion steps
	ctx.Step(`^the value should be approximately (-?[\d.]+)$`, steps.valueShouldBeApproximately)
	ctx.Step(`^the risk level should be "([^"]*)"$`, steps.riskLevelShouldBe)
	ctx.Step(`^the error should list field "([^"]*)" with message "([^"]*)"$`, steps.errorShouldListField)
	ctx.Step(`^the response should list (\d+) calculators$`, steps.shouldListCount)
}

type calculatorSteps struct {
	tc TestContext
}

// inputsFrom reads a two-column field | value table. Values are sent as text;
// the server parses numbers and booleans.
func inputsFrom(table *godog.Table) (map[string]interface{}, error) {
	inputs := map[string]interface{}{}
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return nil, fmt.Errorf("row %d: want field | value", i)
		}
		if i == 0 && row.Cells[0].Value == "field" {
			continue
		}
		inputs[row.Cells[0].Value] = row.Cells[1].Value
	}
	return inputs, nil
}

func (s *calculatorSteps) calculate(ctx context.Context, id string, table *godog.Table) error {
	inputs, err := inputsFrom(table)
	if err != nil {
		return err
	}
	return s.tc.POST("/calculators/"+id+"/calculate", map[string]interface{}{"inputs": inputs})
}

func (s *calculatorSteps) validate(ctx context.Context, id string, table *godog.Table) error {
	inputs, err := inputsFrom(table)
	if err != nil {
		return err
	}
	return s.tc.POST("/calculators/"+id+"/validate", map[string]interface{}{"inputs": inputs})
}

func (s *calculatorSteps) listCategory(ctx context.Context, category string) error {
	return s.tc.GET("/calculators?category="+category, nil)
}

func (s *calculatorSteps) valueShouldBeApproximately(ctx context.Context, expected string) error {
	want, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("value")
	if err != nil {
		return err
	}
	got, ok := v.(float64)
	if !ok {
		return fmt.Errorf("value is %T, not a number", v)
	}
	if math.Abs(got-want) > 0.01 {
		return fmt.Errorf("expected value ~%v, got %v", want, got)
	}
	return nil
}

func (s *calculatorSteps) riskLevelShouldBe(ctx context.Context, level string) error {
	v, err := s.tc.GetResponseField("risk_level")
	if err != nil {
		return err
	}
	if v != level {
		return fmt.Errorf("expected risk level %q, got %v", level, v)
	}
	return nil
}

func (s *calculatorSteps) errorShouldListField(ctx context.Context, field, message string) error {
	v, err := s.tc.GetResponseField("fields")
	if err != nil {
		return err
	}
	fields, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("fields is %T, not a list", v)
	}
	for _, f := range fields {
		fe, ok := f.(map[string]interface{})
		if ok && fe["field"] == field && fe["message"] == message {
			return nil
		}
	}
	return fmt.Errorf("field error %s: %q not found in %v", field, message, fields)
}

func (s *calculatorSteps) shouldListCount(ctx context.Context, n int) error {
	v, err := s.tc.GetResponseField("count")
	if err != nil {
		return err
	}
	if got, ok := v.(float64); !ok || int(got) != n {
		return fmt.Errorf("expected %d calculators, got %v", n, v)
	}
	return nil
}
