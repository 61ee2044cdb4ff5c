package calculator

import "math"

// SafeDiv returns num/den, or 0 when den is zero or the quotient is not finite.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// Percent returns part as a 0-100 percentage of whole, or 0 when whole is zero
// or the percentage does not fit in a float64.
func Percent(part, whole float64) float64 {
	p := SafeDiv(part, whole) * 100
	if !finite(p) {
		return 0
	}
	return p
}

// Payment is the level payment that amortizes principal over n periods at the
// periodic rate r. A zero rate spreads principal evenly. The denominator is
// computed with Expm1/Log1p so rates close to zero do not round it to 0.
func Payment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	return principal * r / -math.Expm1(-float64(n)*math.Log1p(r))
}

// Growth returns (1+r)^n - 1, accurate for rates close to zero.
func Growth(r, n float64) float64 {
	return math.Expm1(n * math.Log1p(r))
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
