package calculator

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// FieldError is a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationOutcome is produced fresh by every Validate call. Valid is true
// iff Errors is empty.
type ValidationOutcome struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// Rule checks a parsed number and returns a message when it is violated.
type Rule func(v float64) (msg string, ok bool)

// MaxAmount caps money and quantity inputs. Catalog formulas are finite for
// every input inside it.
const MaxAmount = 1e12

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GreaterThan requires v > min.
func GreaterThan(min float64) Rule {
	return func(v float64) (string, bool) {
		return "must be greater than " + formatNumber(min), v > min
	}
}

// AtLeast requires v >= min.
func AtLeast(min float64) Rule {
	return func(v float64) (string, bool) {
		return "must be at least " + formatNumber(min), v >= min
	}
}

// LessThan requires v < max.
func LessThan(max float64) Rule {
	return func(v float64) (string, bool) {
		return "must be less than " + formatNumber(max), v < max
	}
}

// AtMost requires v <= max.
func AtMost(max float64) Rule {
	return func(v float64) (string, bool) {
		return "must be at most " + formatNumber(max), v <= max
	}
}

// Between requires min <= v <= max.
func Between(min, max float64) Rule {
	return func(v float64) (string, bool) {
		return "must be between " + formatNumber(min) + " and " + formatNumber(max), v >= min && v <= max
	}
}

// Binder reads typed values out of Inputs and accumulates a field error for
// every missing, mistyped or out-of-range value, in the order fields are
// bound. It never panics, so a calculator's bind function can read every field
// unconditionally and report all problems at once.
type Binder struct {
	in     Inputs
	errs   []FieldError
	failed map[string]bool
}

// NewBinder wraps in for binding.
func NewBinder(in Inputs) *Binder {
	return &Binder{in: in, failed: make(map[string]bool)}
}

// Fail records a field error. Only the first error per field is kept.
func (b *Binder) Fail(field, msg string) {
	if b.failed[field] {
		return
	}
	b.failed[field] = true
	b.errs = append(b.errs, FieldError{Field: field, Message: msg})
}

// Check records msg against field when ok is false. Cross-field rules should
// guard on OK so they only fire once both operands parsed cleanly.
func (b *Binder) Check(field string, ok bool, msg string) {
	if !ok {
		b.Fail(field, msg)
	}
}

// OK reports whether every listed field has bound without error so far.
func (b *Binder) OK(fields ...string) bool {
	for _, f := range fields {
		if b.failed[f] {
			return false
		}
	}
	return true
}

// Number binds a required finite number.
func (b *Binder) Number(field string, rules ...Rule) float64 {
	if !b.in.Has(field) {
		b.Fail(field, "is required")
		return 0
	}
	return b.parseNumber(field, rules)
}

// OptionalNumber binds a finite number, returning def when the field is absent.
func (b *Binder) OptionalNumber(field string, def float64, rules ...Rule) float64 {
	if !b.in.Has(field) {
		return def
	}
	return b.parseNumber(field, rules)
}

func (b *Binder) parseNumber(field string, rules []Rule) float64 {
	v, ok := number(b.in[field])
	if !ok {
		b.Fail(field, "must be a number")
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		b.Fail(field, "must be a finite number")
		return 0
	}
	for _, rule := range rules {
		if msg, ok := rule(v); !ok {
			b.Fail(field, msg)
			return v
		}
	}
	return v
}

// Integer binds a required whole number.
func (b *Binder) Integer(field string, rules ...Rule) int {
	v := b.Number(field)
	if !b.OK(field) {
		return 0
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		b.Fail(field, "must be a whole number")
		return 0
	}
	for _, rule := range rules {
		if msg, ok := rule(v); !ok {
			b.Fail(field, msg)
			break
		}
	}
	return int(v)
}

// OptionalInteger binds a whole number, returning def when the field is absent.
func (b *Binder) OptionalInteger(field string, def int, rules ...Rule) int {
	if !b.in.Has(field) {
		return def
	}
	return b.Integer(field, rules...)
}

// Choice binds a required enumerated string. Matching is case-insensitive and
// the canonical spelling from allowed is returned.
func (b *Binder) Choice(field string, allowed ...string) string {
	if !b.in.Has(field) {
		b.Fail(field, "is required")
		return ""
	}
	return b.parseChoice(field, allowed)
}

// OptionalChoice binds an enumerated string, returning def when absent.
func (b *Binder) OptionalChoice(field, def string, allowed ...string) string {
	if !b.in.Has(field) {
		return def
	}
	return b.parseChoice(field, allowed)
}

func (b *Binder) parseChoice(field string, allowed []string) string {
	s, ok := text(b.in[field])
	if !ok {
		b.Fail(field, "must be a string")
		return ""
	}
	idx := slices.IndexFunc(allowed, func(a string) bool { return strings.EqualFold(a, s) })
	if idx < 0 {
		b.Fail(field, "must be one of "+strings.Join(allowed, ", "))
		return ""
	}
	return allowed[idx]
}

// OptionalBool binds a boolean flag, returning def when absent.
func (b *Binder) OptionalBool(field string, def bool) bool {
	if !b.in.Has(field) {
		return def
	}
	v, ok := boolean(b.in[field])
	if !ok {
		b.Fail(field, "must be true or false")
		return def
	}
	return v
}

// Outcome returns the accumulated validation outcome.
func (b *Binder) Outcome() ValidationOutcome {
	errs := make([]FieldError, len(b.errs))
	copy(errs, b.errs)
	return ValidationOutcome{Valid: len(errs) == 0, Errors: errs}
}
