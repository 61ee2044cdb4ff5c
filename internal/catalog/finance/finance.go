// Package finance holds the personal-finance calculators. Every rate input is
// an annual percentage on a 0-100 scale; money is in the caller's currency.
package finance

import (
	"math"

	"abacus/internal/calculator"
)

const category = "finance"

// Calculators returns the finance module in registration order.
func Calculators() []calculator.Calculator {
	return []calculator.Calculator{
		SimpleInterest(),
		CompoundInterest(),
		LoanPayment(),
		SavingsGoal(),
	}
}

// Register adds every finance calculator to r.
func Register(r calculator.Registrar) error {
	return calculator.RegisterAll(r, Calculators()...)
}

type simpleInterestInput struct {
	Amount, Rate, Time float64
}

// SimpleInterest computes amount * rate / 100 * time. The tier is driven by
// interest as a percentage of principal: <10% Low, <30% Medium, else High.
func SimpleInterest() *calculator.Pipeline[simpleInterestInput] {
	return calculator.New(calculator.Definition[simpleInterestInput]{
		ID:          "simple-interest",
		Name:        "Simple Interest",
		Description: "Interest accrued on a principal at a flat annual rate.",
		Category:    category,
		Unit:        "currency",
		Fields: []calculator.Field{
			{Name: "amount", Label: "Principal", Unit: "currency", Required: true},
			{Name: "rate", Label: "Annual rate", Unit: "%", Required: true},
			{Name: "time", Label: "Time", Unit: "years", Required: true},
		},
		Bind: func(b *calculator.Binder) simpleInterestInput {
			return simpleInterestInput{
				Amount: b.Number("amount", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Rate:   b.Number("rate", calculator.Between(0, 100)),
				Time:   b.Number("time", calculator.GreaterThan(0), calculator.AtMost(100)),
			}
		},
		Compute: func(in simpleInterestInput) calculator.Computation {
			interest := in.Amount * in.Rate / 100 * in.Time
			return calculator.Computation{
				Value: interest,
				Breakdown: []calculator.Figure{
					{Name: "interest", Value: interest},
					{Name: "total", Value: in.Amount + interest},
				},
			}
		},
		Metric: func(in simpleInterestInput, c calculator.Computation) float64 {
			return calculator.Percent(c.Value, in.Amount)
		},
		Scale: calculator.Scale{Lower: 10, Upper: 30},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Interest cost is modest relative to the principal.",
			calculator.RiskMedium: "Interest is a meaningful share of the principal; compare offers before committing.",
			calculator.RiskHigh:   "Interest approaches a third of the principal or more; shorten the term or negotiate the rate.",
		},
	})
}

type compoundInput struct {
	Principal, Rate, Years float64
	PerYear                int
}

// CompoundInterest computes P(1 + r/n)^(n t). The tier reflects the growth
// multiple of a balance owed: <1.5x Low, <2.5x Medium, else High.
func CompoundInterest() *calculator.Pipeline[compoundInput] {
	return calculator.New(calculator.Definition[compoundInput]{
		ID:          "compound-interest",
		Name:        "Compound Interest",
		Description: "Future value of a balance compounding at a fixed annual rate.",
		Category:    category,
		Unit:        "currency",
		Fields: []calculator.Field{
			{Name: "principal", Label: "Principal", Unit: "currency", Required: true},
			{Name: "rate", Label: "Annual rate", Unit: "%", Required: true},
			{Name: "years", Label: "Years", Unit: "years", Required: true},
			{Name: "compounds_per_year", Label: "Compounding periods per year"},
		},
		Bind: func(b *calculator.Binder) compoundInput {
			return compoundInput{
				Principal: b.Number("principal", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Rate:      b.Number("rate", calculator.Between(0, 100)),
				Years:     b.Number("years", calculator.GreaterThan(0), calculator.AtMost(100)),
				PerYear:   b.OptionalInteger("compounds_per_year", 12, calculator.Between(1, 365)),
			}
		},
		Compute: func(in compoundInput) calculator.Computation {
			n := float64(in.PerYear)
			fv := in.Principal * math.Pow(1+in.Rate/100/n, n*in.Years)
			return calculator.Computation{
				Value: fv,
				Breakdown: []calculator.Figure{
					{Name: "future_value", Value: fv},
					{Name: "interest", Value: fv - in.Principal},
				},
			}
		},
		Metric: func(in compoundInput, c calculator.Computation) float64 {
			return calculator.SafeDiv(c.Value, in.Principal)
		},
		Scale: calculator.Scale{Lower: 1.5, Upper: 2.5},
		Advice: calculator.Advice{
			calculator.RiskLow:    "The balance grows by less than half over the period.",
			calculator.RiskMedium: "The balance grows substantially; if this is debt, prioritise paying it down.",
			calculator.RiskHigh:   "The balance more than doubles and a half; compounding dominates over this horizon.",
		},
	})
}

type loanInput struct {
	Principal, Rate, TermYears, Extra, Income float64
}

// monthlyPayment is the standard amortized payment, P/n at a zero rate.
func monthlyPayment(principal, annualRate float64, months int) float64 {
	return calculator.Payment(principal, annualRate/100/12, months)
}

// payoffMonths returns how many months a payment clears principal in. A
// payment that never covers the interest returns +Inf.
func payoffMonths(principal, annualRate, payment float64) float64 {
	r := annualRate / 100 / 12
	if r == 0 {
		return math.Ceil(calculator.SafeDiv(principal, payment))
	}
	x := r * principal / payment
	if x >= 1 {
		return math.Inf(1)
	}
	return math.Ceil(-math.Log1p(-x) / math.Log1p(r))
}

// LoanPayment amortizes a fixed-rate loan, optionally with an extra monthly
// payment. The tier is total interest as a percentage of principal:
// <25% Low, <60% Medium, else High.
func LoanPayment() *calculator.Pipeline[loanInput] {
	return calculator.New(calculator.Definition[loanInput]{
		ID:          "loan-payment",
		Name:        "Loan Payment",
		Description: "Monthly payment, payoff time and total interest of an amortized loan.",
		Category:    category,
		Unit:        "currency/month",
		Fields: []calculator.Field{
			{Name: "principal", Label: "Loan amount", Unit: "currency", Required: true},
			{Name: "rate", Label: "Annual rate", Unit: "%", Required: true},
			{Name: "term_years", Label: "Term", Unit: "years", Required: true},
			{Name: "extra_payment", Label: "Extra monthly payment", Unit: "currency"},
			{Name: "monthly_income", Label: "Gross monthly income", Unit: "currency"},
		},
		Bind: func(b *calculator.Binder) loanInput {
			in := loanInput{
				Principal: b.Number("principal", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Rate:      b.Number("rate", calculator.Between(0, 100)),
				TermYears: b.Number("term_years", calculator.GreaterThan(0), calculator.AtMost(50)),
				Extra:     b.OptionalNumber("extra_payment", 0, calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Income:    b.OptionalNumber("monthly_income", 0, calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
			}
			if b.OK("principal", "extra_payment") {
				b.Check("extra_payment", in.Extra < in.Principal, "must be less than the loan amount")
			}
			return in
		},
		Compute: func(in loanInput) calculator.Computation {
			months := int(math.Ceil(in.TermYears * 12))
			payment := monthlyPayment(in.Principal, in.Rate, months)
			totalPaid := payment * float64(months)
			payoff := float64(months)
			if in.Extra > 0 {
				payoff = math.Min(payoffMonths(in.Principal, in.Rate, payment+in.Extra), payoff)
				totalPaid = math.Min((payment+in.Extra)*payoff, totalPaid)
			}
			return calculator.Computation{
				Value: payment,
				Breakdown: []calculator.Figure{
					{Name: "monthly_payment", Value: payment},
					{Name: "payoff_months", Value: payoff},
					{Name: "total_paid", Value: totalPaid},
					{Name: "total_interest", Value: math.Max(totalPaid-in.Principal, 0)},
				},
			}
		},
		Metric: func(in loanInput, c calculator.Computation) float64 {
			return calculator.Percent(c.Breakdown[3].Value, in.Principal)
		},
		Scale: calculator.Scale{Lower: 25, Upper: 60},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Total interest is a small share of the loan.",
			calculator.RiskMedium: "Interest adds a significant cost; extra payments shorten the payoff noticeably.",
			calculator.RiskHigh:   "Interest will cost more than half the loan amount; consider a shorter term or a lower rate.",
		},
		Warn: func(in loanInput) []calculator.Warning {
			if in.Income <= 0 {
				return nil
			}
			months := int(math.Ceil(in.TermYears * 12))
			if calculator.Percent(monthlyPayment(in.Principal, in.Rate, months), in.Income) > 36 {
				return []calculator.Warning{{Field: "monthly_income", Message: "payment exceeds 36% of monthly income"}}
			}
			return nil
		},
	})
}

type savingsInput struct {
	Goal, Current, Monthly, Rate, Years float64
}

// SavingsGoal projects a balance with monthly contributions and compares it to
// a goal. Progress toward the goal drives a descending tier: >=100% Low,
// >=75% Medium, below that High.
func SavingsGoal() *calculator.Pipeline[savingsInput] {
	return calculator.New(calculator.Definition[savingsInput]{
		ID:          "savings-goal",
		Name:        "Savings Goal",
		Description: "Projected savings balance against a target amount.",
		Category:    category,
		Unit:        "currency",
		Fields: []calculator.Field{
			{Name: "goal", Label: "Target amount", Unit: "currency", Required: true},
			{Name: "current_savings", Label: "Current savings", Unit: "currency"},
			{Name: "monthly_contribution", Label: "Monthly contribution", Unit: "currency", Required: true},
			{Name: "rate", Label: "Annual return", Unit: "%", Required: true},
			{Name: "years", Label: "Years", Unit: "years", Required: true},
		},
		Bind: func(b *calculator.Binder) savingsInput {
			return savingsInput{
				Goal:    b.Number("goal", calculator.GreaterThan(0), calculator.AtMost(calculator.MaxAmount)),
				Current: b.OptionalNumber("current_savings", 0, calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Monthly: b.Number("monthly_contribution", calculator.AtLeast(0), calculator.AtMost(calculator.MaxAmount)),
				Rate:    b.Number("rate", calculator.Between(0, 50)),
				Years:   b.Number("years", calculator.GreaterThan(0), calculator.AtMost(100)),
			}
		},
		Compute: func(in savingsInput) calculator.Computation {
			months := in.Years * 12
			r := in.Rate / 100 / 12
			growth := calculator.Growth(r, months)
			contributions := in.Monthly * months
			if r > 0 {
				contributions = in.Monthly * growth / r
			}
			balance := in.Current*(1+growth) + contributions
			return calculator.Computation{
				Value: balance,
				Breakdown: []calculator.Figure{
					{Name: "projected_balance", Value: balance},
					{Name: "shortfall", Value: math.Max(in.Goal-balance, 0)},
					{Name: "progress_percent", Value: calculator.Percent(balance, in.Goal)},
				},
			}
		},
		Metric: func(in savingsInput, c calculator.Computation) float64 {
			return calculator.Percent(c.Value, in.Goal)
		},
		Scale: calculator.Scale{Lower: 75, Upper: 100, Descending: true},
		Advice: calculator.Advice{
			calculator.RiskLow:    "You are on track to reach the goal.",
			calculator.RiskMedium: "You will get most of the way; a modest increase in contributions closes the gap.",
			calculator.RiskHigh:   "The plan falls well short; raise contributions or extend the timeline.",
		},
		Warn: func(in savingsInput) []calculator.Warning {
			if in.Current >= in.Goal {
				return []calculator.Warning{{Field: "current_savings", Message: "current savings already meet the goal"}}
			}
			return nil
		},
	})
}
