// Package business holds small-business calculators. Margins and returns are
// reported as 0-100 percentages.
package business

import (
	"math"

	"abacus/internal/calculator"
)

const category = "business"

// minPrice is the smallest divisor accepted for prices and investments, so
// ratios against them stay finite.
const minPrice = 0.01

// Calculators returns the business module in registration order.
func Calculators() []calculator.Calculator {
	return []calculator.Calculator{
		ProfitMargin(),
		BreakEven(),
		ROI(),
	}
}

// Register adds every business calculator to r.
func Register(r calculator.Registrar) error {
	return calculator.RegisterAll(r, Calculators()...)
}

type marginInput struct {
	Revenue, Cost float64
}

// ProfitMargin reports net margin. Thin margins are risky, so the scale is
// descending: >=20% Low, >=5% Medium, below that High.
func ProfitMargin() *calculator.Pipeline[marginInput] {
	return calculator.New(calculator.Definition[marginInput]{
		ID:          "profit-margin",
		Name:        "Profit Margin",
		Description: "Net profit as a share of revenue, with markup on cost.",
		Category:    category,
		Unit:        "%",
		Fields: []calculator.Field{
			{Name: "revenue", Label: "Revenue", Unit: "currency", Required: true},
			{Name: "cost", Label: "Total cost", Unit: "currency", Required: true},
		},
		Bind: func(b *calculator.Binder) marginInput {
			return marginInput{
				Revenue: b.Number("revenue", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Cost:    b.Number("cost", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
			}
		},
		Compute: func(in marginInput) calculator.Computation {
			profit := in.Revenue - in.Cost
			margin := calculator.Percent(profit, in.Revenue)
			return calculator.Computation{
				Value: margin,
				Breakdown: []calculator.Figure{
					{Name: "profit", Value: profit},
					{Name: "margin_percent", Value: margin},
					{Name: "markup_percent", Value: calculator.Percent(profit, in.Cost)},
				},
			}
		},
		Scale: calculator.Scale{Lower: 5, Upper: 20, Descending: true},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Healthy margin with room to absorb cost increases.",
			calculator.RiskMedium: "Margin is thin; review pricing and the largest cost lines.",
			calculator.RiskHigh:   "The business is barely profitable or losing money on these figures.",
		},
		Warn: func(in marginInput) []calculator.Warning {
			if in.Cost == 0 {
				return []calculator.Warning{{Field: "cost", Message: "markup is undefined without costs"}}
			}
			return nil
		},
	})
}

type breakEvenInput struct {
	Fixed, Price, Variable, Expected float64
}

// BreakEven computes the units needed to cover fixed costs. The tier compares
// break-even units to expected sales: <50% Low, <90% Medium, else High.
func BreakEven() *calculator.Pipeline[breakEvenInput] {
	return calculator.New(calculator.Definition[breakEvenInput]{
		ID:          "break-even",
		Name:        "Break-Even Point",
		Description: "Units to sell before fixed costs are covered.",
		Category:    category,
		Unit:        "units",
		Fields: []calculator.Field{
			{Name: "fixed_costs", Label: "Fixed costs", Unit: "currency", Required: true},
			{Name: "price", Label: "Price per unit", Unit: "currency", Required: true},
			{Name: "variable_cost", Label: "Variable cost per unit", Unit: "currency", Required: true},
			{Name: "expected_units", Label: "Expected sales", Unit: "units", Required: true},
		},
		Bind: func(b *calculator.Binder) breakEvenInput {
			in := breakEvenInput{
				Fixed:    b.Number("fixed_costs", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Price:    b.Number("price", calculator.GreaterThan(0), calculator.AtLeast(minPrice), calculator.AtMost(calculator.MaxAmount)),
				Variable: b.Number("variable_cost", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Expected: b.Number("expected_units", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
			}
			if b.OK("price", "variable_cost") {
				b.Check("variable_cost", in.Variable < in.Price, "must be less than price")
			}
			return in
		},
		Compute: func(in breakEvenInput) calculator.Computation {
			contribution := in.Price - in.Variable
			units := math.Ceil(in.Fixed / contribution)
			return calculator.Computation{
				Value: units,
				Breakdown: []calculator.Figure{
					{Name: "contribution_margin", Value: contribution},
					{Name: "break_even_units", Value: units},
					{Name: "break_even_revenue", Value: units * in.Price},
					{Name: "margin_of_safety_units", Value: in.Expected - units},
				},
			}
		},
		Metric: func(in breakEvenInput, c calculator.Computation) float64 {
			return calculator.Percent(c.Value, in.Expected)
		},
		Scale: calculator.Scale{Lower: 50, Upper: 90},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Expected sales comfortably clear the break-even point.",
			calculator.RiskMedium: "Expected sales clear break-even with little margin of safety.",
			calculator.RiskHigh:   "Expected sales are at or below break-even; revisit price or fixed costs.",
		},
	})
}

type roiInput struct {
	Initial, Final, Years float64
}

// ROI reports total and annualized return on an investment. The tier uses the
// annualized figure on a descending scale: >=10% Low, >=0% Medium, a loss High.
func ROI() *calculator.Pipeline[roiInput] {
	return calculator.New(calculator.Definition[roiInput]{
		ID:          "roi",
		Name:        "Return on Investment",
		Description: "Total and annualized return between an initial and final value.",
		Category:    category,
		Unit:        "%",
		Fields: []calculator.Field{
			{Name: "initial_investment", Label: "Initial investment", Unit: "currency", Required: true},
			{Name: "final_value", Label: "Final value", Unit: "currency", Required: true},
			{Name: "years", Label: "Holding period", Unit: "years"},
		},
		Bind: func(b *calculator.Binder) roiInput {
			return roiInput{
				Initial: b.Number("initial_investment", calculator.GreaterThan(0), calculator.AtLeast(minPrice), calculator.AtMost(calculator.MaxAmount)),
				Final:   b.Number("final_value", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Years:   b.OptionalNumber("years", 1, calculator.GreaterThan(0), calculator.AtLeast(0.1), calculator.AtMost(100)),
			}
		},
		Compute: func(in roiInput) calculator.Computation {
			total := calculator.Percent(in.Final-in.Initial, in.Initial)
			annualized := (math.Pow(in.Final/in.Initial, 1/in.Years) - 1) * 100
			return calculator.Computation{
				Value: total,
				Breakdown: []calculator.Figure{
					{Name: "gain", Value: in.Final - in.Initial},
					{Name: "roi_percent", Value: total},
					{Name: "annualized_percent", Value: annualized},
				},
			}
		},
		Metric: func(_ roiInput, c calculator.Computation) float64 {
			return c.Breakdown[2].Value
		},
		Scale: calculator.Scale{Lower: 0, Upper: 10, Descending: true},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Strong annual return.",
			calculator.RiskMedium: "Positive but modest annual return; compare against a low-cost index fund.",
			calculator.RiskHigh:   "The investment lost value.",
		},
	})
}
