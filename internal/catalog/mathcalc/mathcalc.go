// Package mathcalc holds general-purpose arithmetic calculators.
package mathcalc

import (
	"math"
	"strconv"

	"abacus/internal/calculator"
)

const category = "math"

// Calculators returns the math module in registration order.
func Calculators() []calculator.Calculator {
	return []calculator.Calculator{
		PercentageChange(),
		BinomialCoefficient(),
	}
}

// Register adds every math calculator to r.
func Register(r calculator.Registrar) error {
	return calculator.RegisterAll(r, Calculators()...)
}

// minBase keeps the percentage change finite for every bounded "to".
const minBase = 1e-6

type changeInput struct {
	From, To float64
}

// PercentageChange reports (to - from) / |from| as a 0-100 percentage. The
// tier classifies the magnitude of the move: <10% Low, <50% Medium, else High.
func PercentageChange() *calculator.Pipeline[changeInput] {
	return calculator.New(calculator.Definition[changeInput]{
		ID:          "percentage-change",
		Name:        "Percentage Change",
		Description: "Relative change between two values.",
		Category:    category,
		Unit:        "%",
		Fields: []calculator.Field{
			{Name: "from", Label: "Original value", Required: true},
			{Name: "to", Label: "New value", Required: true},
		},
		Bind: func(b *calculator.Binder) changeInput {
			in := changeInput{
				From: b.Number("from", calculator.Between(-calculator.MaxAmount, calculator.MaxAmount)),
				To:   b.Number("to", calculator.Between(-calculator.MaxAmount, calculator.MaxAmount)),
			}
			if b.OK("from") {
				switch {
				case in.From == 0:
					b.Fail("from", "must not be 0")
				case math.Abs(in.From) < minBase:
					b.Fail("from", "magnitude must be at least "+strconv.FormatFloat(minBase, 'f', -1, 64))
				}
			}
			return in
		},
		Compute: func(in changeInput) calculator.Computation {
			diff := in.To - in.From
			pct := diff / math.Abs(in.From) * 100
			return calculator.Computation{
				Value: pct,
				Breakdown: []calculator.Figure{
					{Name: "difference", Value: diff},
					{Name: "change_percent", Value: pct},
				},
			}
		},
		Metric: func(_ changeInput, c calculator.Computation) float64 {
			return math.Abs(c.Value)
		},
		Scale: calculator.Scale{Lower: 10, Upper: 50},
		Advice: calculator.Advice{
			calculator.RiskLow:    "A small change.",
			calculator.RiskMedium: "A notable change worth investigating.",
			calculator.RiskHigh:   "A large swing; confirm both values are measured the same way.",
		},
	})
}

type binomialInput struct {
	N, K int
}

// choose computes C(n, k) multiplicatively, which stays finite for n <= 1000.
func choose(n, k int) float64 {
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return math.Round(result)
}

// BinomialCoefficient counts k-element subsets of an n-element set. The tier
// flags search spaces too large to enumerate: <1e6 Low, <1e12 Medium, else High.
func BinomialCoefficient() *calculator.Pipeline[binomialInput] {
	return calculator.New(calculator.Definition[binomialInput]{
		ID:          "binomial-coefficient",
		Name:        "Binomial Coefficient",
		Description: "Number of ways to choose k items from n (n choose k).",
		Category:    category,
		Unit:        "combinations",
		Fields: []calculator.Field{
			{Name: "n", Label: "Set size", Required: true},
			{Name: "k", Label: "Items chosen", Required: true},
		},
		Bind: func(b *calculator.Binder) binomialInput {
			in := binomialInput{
				N: b.Integer("n", calculator.Between(0, 1000)),
				K: b.Integer("k", calculator.AtLeast(0)),
			}
			if b.OK("n", "k") {
				b.Check("k", in.K <= in.N, "must not exceed n")
			}
			return in
		},
		Compute: func(in binomialInput) calculator.Computation {
			c := choose(in.N, in.K)
			return calculator.Computation{
				Value: c,
				Breakdown: []calculator.Figure{
					{Name: "combinations", Value: c},
					{Name: "log10", Value: math.Log10(c)},
				},
			}
		},
		Scale: calculator.Scale{Lower: 1e6, Upper: 1e12},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Small enough to enumerate exhaustively.",
			calculator.RiskMedium: "Enumerable with effort; prefer pruning or sampling.",
			calculator.RiskHigh:   "Far too many combinations to enumerate; use sampling or a closed form.",
		},
	})
}
