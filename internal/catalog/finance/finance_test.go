package finance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/calculator"
)

func TestSimpleInterest(t *testing.T) {
	calc := SimpleInterest()

	t.Run("computes amount times rate times time", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{"amount": 10000, "rate": 5, "time": 1})
		require.NoError(t, err)
		assert.Equal(t, 500.0, res.Value)
		assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)
		assert.Equal(t, []calculator.Figure{{Name: "interest", Value: 500}, {Name: "total", Value: 10500}}, res.Breakdown)
	})

	t.Run("rejects a zero amount", func(t *testing.T) {
		_, err := calc.Calculate(calculator.Inputs{"amount": 0, "rate": 5, "time": 1})
		var verr *calculator.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []calculator.FieldError{{Field: "amount", Message: "must be greater than 0"}}, verr.Errors)
	})

	t.Run("rejects an amount that would overflow", func(t *testing.T) {
		_, err := calc.Calculate(calculator.Inputs{"amount": 1e307, "rate": 100, "time": 100})
		var verr *calculator.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []calculator.FieldError{{Field: "amount", Message: "must be at most 1000000000000"}}, verr.Errors)
	})

	tiers := []struct {
		name string
		rate float64
		time float64
		want calculator.RiskLevel
	}{
		{name: "under ten percent of principal", rate: 9.99, time: 1, want: calculator.RiskLow},
		{name: "exactly ten percent", rate: 10, time: 1, want: calculator.RiskMedium},
		{name: "a fifth", rate: 20, time: 1, want: calculator.RiskMedium},
		{name: "half", rate: 10, time: 5, want: calculator.RiskHigh},
	}
	for _, tt := range tiers {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(calculator.Inputs{"amount": 1000, "rate": tt.rate, "time": tt.time})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Analysis.RiskLevel)
			assert.NotEmpty(t, res.Analysis.Recommendation)
		})
	}
}

func TestCompoundInterest(t *testing.T) {
	calc := CompoundInterest()

	res, err := calc.Calculate(calculator.Inputs{"principal": 1000, "rate": 0, "years": 10})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, res.Value)
	assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"principal": 1000, "rate": 10, "years": 1, "compounds_per_year": 1})
	require.NoError(t, err)
	assert.InDelta(t, 1100.0, res.Value, 1e-9)

	res, err = calc.Calculate(calculator.Inputs{"principal": 1000, "rate": 10, "years": 30})
	require.NoError(t, err)
	assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)

	outcome := calc.Validate(calculator.Inputs{"principal": 1000, "rate": 5, "years": 1, "compounds_per_year": 0})
	require.False(t, outcome.Valid)
	assert.Equal(t, "compounds_per_year", outcome.Errors[0].Field)
}

func TestLoanPayment(t *testing.T) {
	calc := LoanPayment()

	t.Run("zero rate divides evenly", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{"principal": 12000, "rate": 0, "term_years": 1})
		require.NoError(t, err)
		assert.Equal(t, 1000.0, res.Value)
		assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)
	})

	t.Run("thirty year mortgage", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{"principal": 200000, "rate": 6, "term_years": 30})
		require.NoError(t, err)
		assert.InDelta(t, 1199.10, res.Value, 0.01)
		assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)
	})

	t.Run("extra payment shortens payoff", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{"principal": 12000, "rate": 0, "term_years": 1, "extra_payment": 1000})
		require.NoError(t, err)
		assert.Equal(t, 6.0, res.Breakdown[1].Value)
		assert.Equal(t, 12000.0, res.Breakdown[2].Value)
	})

	t.Run("extra payment must be below principal", func(t *testing.T) {
		outcome := calc.Validate(calculator.Inputs{"principal": 1000, "rate": 5, "term_years": 1, "extra_payment": 1000})
		require.False(t, outcome.Valid)
		assert.Equal(t, []calculator.FieldError{{Field: "extra_payment", Message: "must be less than the loan amount"}}, outcome.Errors)
	})

	t.Run("cross-field check waits for both operands", func(t *testing.T) {
		outcome := calc.Validate(calculator.Inputs{"principal": "abc", "rate": 5, "term_years": 1, "extra_payment": 5000})
		require.Len(t, outcome.Errors, 1)
		assert.Equal(t, "principal", outcome.Errors[0].Field)
	})

	t.Run("warns on payment above income threshold", func(t *testing.T) {
		warnings := calc.Advise(calculator.Inputs{"principal": 12000, "rate": 0, "term_years": 1, "monthly_income": 2000})
		require.Len(t, warnings, 1)
		assert.Equal(t, "monthly_income", warnings[0].Field)
	})
}

func TestLoanPaymentNearZeroRate(t *testing.T) {
	res, err := LoanPayment().Calculate(calculator.Inputs{"principal": 12000, "rate": 1e-12, "term_years": 1})
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, res.Value, 1e-6)
}

func TestSavingsGoal(t *testing.T) {
	calc := SavingsGoal()

	res, err := calc.Calculate(calculator.Inputs{"goal": 1200, "monthly_contribution": 100, "rate": 0, "years": 1})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, res.Value)
	assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"goal": 1200, "monthly_contribution": 100, "rate": 0, "years": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 600.0, res.Breakdown[1].Value)
	assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)

	warnings := calc.Advise(calculator.Inputs{"goal": 1000, "current_savings": 1500, "monthly_contribution": 0, "rate": 0, "years": 1})
	assert.Len(t, warnings, 1)
}

func TestRegisterAddsEveryCalculatorOnce(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Register(r))
	assert.Equal(t, []string{"simple-interest", "compound-interest", "loan-payment", "savings-goal"}, r.ids)
}

type recorder struct{ ids []string }

func (r *recorder) Register(c calculator.Calculator) error {
	r.ids = append(r.ids, c.Descriptor().ID)
	return nil
}
