// Package realestate holds property investment calculators. Rates are annual
// 0-100 percentages.
package realestate

import (
	"math"

	"abacus/internal/calculator"
)

const category = "real-estate"

// Calculators returns the real estate module in registration order.
func Calculators() []calculator.Calculator {
	return []calculator.Calculator{
		CapRate(),
		RentVsBuy(),
		LoanToValue(),
	}
}

// Register adds every real estate calculator to r.
func Register(r calculator.Registrar) error {
	return calculator.RegisterAll(r, Calculators()...)
}

type capRateInput struct {
	Value, Rent, Expenses float64
}

// CapRate is net operating income over property value. A low cap rate means a
// weak yield, so the scale is descending: >=8% Low, >=4% Medium, else High.
func CapRate() *calculator.Pipeline[capRateInput] {
	return calculator.New(calculator.Definition[capRateInput]{
		ID:          "cap-rate",
		Name:        "Capitalization Rate",
		Description: "Net operating income as a percentage of property value.",
		Category:    category,
		Unit:        "%",
		Fields: []calculator.Field{
			{Name: "property_value", Label: "Property value", Unit: "currency", Required: true},
			{Name: "annual_rent", Label: "Annual rental income", Unit: "currency", Required: true},
			{Name: "operating_expenses", Label: "Annual operating expenses", Unit: "currency"},
		},
		Bind: func(b *calculator.Binder) capRateInput {
			return capRateInput{
				Value:    b.Number("property_value", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Rent:     b.Number("annual_rent", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Expenses: b.OptionalNumber("operating_expenses", 0, calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
			}
		},
		Compute: func(in capRateInput) calculator.Computation {
			noi := in.Rent - in.Expenses
			rate := calculator.Percent(noi, in.Value)
			return calculator.Computation{
				Value: rate,
				Breakdown: []calculator.Figure{
					{Name: "net_operating_income", Value: noi},
					{Name: "cap_rate_percent", Value: rate},
				},
			}
		},
		Scale: calculator.Scale{Lower: 4, Upper: 8, Descending: true},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Strong yield for the price.",
			calculator.RiskMedium: "Typical yield; returns depend on appreciation and financing.",
			calculator.RiskHigh:   "Weak yield; the property may not cover its costs from rent alone.",
		},
		Warn: func(in capRateInput) []calculator.Warning {
			if in.Expenses > in.Rent {
				return []calculator.Warning{{Field: "operating_expenses", Message: "expenses exceed rental income"}}
			}
			return nil
		},
	})
}

type ltvInput struct {
	Loan, Value float64
}

// LoanToValue is loan over appraised value: <80% Low, <95% Medium, else High.
func LoanToValue() *calculator.Pipeline[ltvInput] {
	return calculator.New(calculator.Definition[ltvInput]{
		ID:          "loan-to-value",
		Name:        "Loan-to-Value Ratio",
		Description: "Mortgage balance as a percentage of property value.",
		Category:    category,
		Unit:        "%",
		Fields: []calculator.Field{
			{Name: "loan_amount", Label: "Loan amount", Unit: "currency", Required: true},
			{Name: "property_value", Label: "Property value", Unit: "currency", Required: true},
		},
		Bind: func(b *calculator.Binder) ltvInput {
			return ltvInput{
				Loan:  b.Number("loan_amount", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Value: b.Number("property_value", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
			}
		},
		Compute: func(in ltvInput) calculator.Computation {
			ltv := calculator.Percent(in.Loan, in.Value)
			return calculator.Computation{
				Value: ltv,
				Breakdown: []calculator.Figure{
					{Name: "ltv_percent", Value: ltv},
					{Name: "equity", Value: in.Value - in.Loan},
				},
			}
		},
		Scale: calculator.Scale{Lower: 80, Upper: 95},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Enough equity to avoid mortgage insurance with most lenders.",
			calculator.RiskMedium: "Expect mortgage insurance or a higher rate at this ratio.",
			calculator.RiskHigh:   "Very little equity; many lenders will decline or price this heavily.",
		},
		Warn: func(in ltvInput) []calculator.Warning {
			if in.Loan > in.Value {
				return []calculator.Warning{{Field: "loan_amount", Message: "loan exceeds property value (negative equity)"}}
			}
			return nil
		},
	})
}

type rentVsBuyInput struct {
	Rent, Price, Down, MortgageRate         float64
	Years, TermYears                        int
	Appreciation, RentIncrease, Tax, Upkeep float64
}

// remainingBalance is the amortized balance after m payments.
func remainingBalance(principal, monthlyRate, payment float64, m int) float64 {
	if monthlyRate == 0 {
		return math.Max(principal-payment*float64(m), 0)
	}
	g := calculator.Growth(monthlyRate, float64(m))
	return math.Max(principal*(1+g)-payment*g/monthlyRate, 0)
}

// RentVsBuy compares the net cost of renting against buying over a horizon.
// The headline value is buy cost minus rent cost (positive means renting is
// cheaper). The tier is that difference as a percentage of the home price:
// <-5% Low, <5% Medium, else High.
func RentVsBuy() *calculator.Pipeline[rentVsBuyInput] {
	return calculator.New(calculator.Definition[rentVsBuyInput]{
		ID:          "rent-vs-buy",
		Name:        "Rent vs. Buy",
		Description: "Net cost of buying a home compared with renting over the same period.",
		Category:    category,
		Unit:        "currency",
		Fields: []calculator.Field{
			{Name: "monthly_rent", Label: "Monthly rent", Unit: "currency", Required: true},
			{Name: "home_price", Label: "Home price", Unit: "currency", Required: true},
			{Name: "down_payment", Label: "Down payment", Unit: "currency", Required: true},
			{Name: "mortgage_rate", Label: "Mortgage rate", Unit: "%", Required: true},
			{Name: "years", Label: "Horizon", Unit: "years", Required: true},
			{Name: "term_years", Label: "Mortgage term", Unit: "years"},
			{Name: "appreciation_rate", Label: "Home appreciation", Unit: "%"},
			{Name: "rent_increase_rate", Label: "Annual rent increase", Unit: "%"},
			{Name: "property_tax_rate", Label: "Property tax", Unit: "%"},
			{Name: "maintenance_rate", Label: "Maintenance", Unit: "%"},
		},
		Bind: func(b *calculator.Binder) rentVsBuyInput {
			in := rentVsBuyInput{
				Rent:         b.Number("monthly_rent", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Price:        b.Number("home_price", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Down:         b.Number("down_payment", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				MortgageRate: b.Number("mortgage_rate", calculator.Between(0, 30)),
				Years:        b.Integer("years", calculator.Between(1, 50)),
				TermYears:    b.OptionalInteger("term_years", 30, calculator.Between(1, 50)),
				Appreciation: b.OptionalNumber("appreciation_rate", 3, calculator.Between(-20, 20)),
				RentIncrease: b.OptionalNumber("rent_increase_rate", 3, calculator.Between(0, 20)),
				Tax:          b.OptionalNumber("property_tax_rate", 1.2, calculator.Between(0, 10)),
				Upkeep:       b.OptionalNumber("maintenance_rate", 1, calculator.Between(0, 10)),
			}
			if b.OK("home_price", "down_payment") {
				b.Check("down_payment", in.Down < in.Price, "must be less than home price")
			}
			return in
		},
		Compute: func(in rentVsBuyInput) calculator.Computation {
			var rentCost, ownCost float64
			rent := in.Rent
			value := in.Price
			for y := 0; y < in.Years; y++ {
				rentCost += rent * 12
				ownCost += value * (in.Tax + in.Upkeep) / 100
				rent *= 1 + in.RentIncrease/100
				value *= 1 + in.Appreciation/100
			}

			loan := in.Price - in.Down
			termMonths := in.TermYears * 12
			payment := calculator.Payment(loan, in.MortgageRate/100/12, termMonths)
			paidMonths := min(in.Years*12, termMonths)
			balance := remainingBalance(loan, in.MortgageRate/100/12, payment, paidMonths)

			ownCost += in.Down + payment*float64(paidMonths)
			equity := value - balance
			buyCost := ownCost - equity

			return calculator.Computation{
				Value: buyCost - rentCost,
				Breakdown: []calculator.Figure{
					{Name: "total_rent", Value: rentCost},
					{Name: "total_ownership_cost", Value: ownCost},
					{Name: "home_value", Value: value},
					{Name: "remaining_balance", Value: balance},
					{Name: "net_buy_cost", Value: buyCost},
					{Name: "monthly_payment", Value: payment},
				},
			}
		},
		Metric: func(in rentVsBuyInput, c calculator.Computation) float64 {
			return calculator.Percent(c.Value, in.Price)
		},
		Scale: calculator.Scale{Lower: -5, Upper: 5},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Buying comes out clearly ahead over this horizon.",
			calculator.RiskMedium: "Renting and buying cost about the same; flexibility may decide it.",
			calculator.RiskHigh:   "Renting is cheaper over this horizon; buying only wins with a longer stay or faster appreciation.",
		},
		Warn: func(in rentVsBuyInput) []calculator.Warning {
			if in.Down < in.Price*0.2 {
				return []calculator.Warning{{Field: "down_payment", Message: "under 20% down usually adds mortgage insurance"}}
			}
			return nil
		},
	})
}
