package realestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/calculator"
)

func TestCapRate(t *testing.T) {
	calc := CapRate()
	tests := []struct {
		name   string
		inputs calculator.Inputs
		want   float64
		level  calculator.RiskLevel
	}{
		{name: "strong", inputs: calculator.Inputs{"property_value": 100000, "annual_rent": 12000, "operating_expenses": 2000}, want: 10, level: calculator.RiskLow},
		{name: "typical", inputs: calculator.Inputs{"property_value": 200000, "annual_rent": 12000}, want: 6, level: calculator.RiskMedium},
		{name: "weak", inputs: calculator.Inputs{"property_value": 500000, "annual_rent": 12000, "operating_expenses": 2000}, want: 2, level: calculator.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(tt.inputs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Value, 1e-9)
			assert.Equal(t, tt.level, res.Analysis.RiskLevel)
		})
	}

	warnings := calc.Advise(calculator.Inputs{"property_value": 100000, "annual_rent": 1000, "operating_expenses": 2000})
	require.Len(t, warnings, 1)
	assert.Equal(t, "operating_expenses", warnings[0].Field)
}

func TestLoanToValue(t *testing.T) {
	calc := LoanToValue()

	res, err := calc.Calculate(calculator.Inputs{"loan_amount": 240000, "property_value": 300000})
	require.NoError(t, err)
	assert.InDelta(t, 80, res.Value, 1e-9)
	assert.Equal(t, calculator.RiskMedium, res.Analysis.RiskLevel)
	assert.Empty(t, res.Warnings)

	res, err = calc.Calculate(calculator.Inputs{"loan_amount": 330000, "property_value": 300000})
	require.NoError(t, err)
	assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)
	require.Len(t, res.Warnings, 1)

	outcome := calc.Validate(calculator.Inputs{"loan_amount": -1, "property_value": 0})
	assert.Len(t, outcome.Errors, 2)
}

func TestRentVsBuy(t *testing.T) {
	calc := RentVsBuy()

	t.Run("interest-free one year purchase", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{
			"monthly_rent": 1000, "home_price": 120000, "down_payment": 0, "mortgage_rate": 0,
			"years": 1, "term_years": 1, "appreciation_rate": 0, "rent_increase_rate": 0,
			"property_tax_rate": 0, "maintenance_rate": 0,
		})
		require.NoError(t, err)
		assert.InDelta(t, -12000, res.Value, 1e-6)
		assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)
		assert.InDelta(t, 0, res.Breakdown[3].Value, 1e-6)
	})

	t.Run("cheap rent favours renting", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{
			"monthly_rent": 500, "home_price": 400000, "down_payment": 80000, "mortgage_rate": 8,
			"years": 3, "appreciation_rate": 0,
		})
		require.NoError(t, err)
		assert.InDelta(t, 83680.76, res.Value, 0.01)
		assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)
	})

	t.Run("near break-even", func(t *testing.T) {
		res, err := calc.Calculate(calculator.Inputs{
			"monthly_rent": 1000, "home_price": 400000, "down_payment": 80000, "mortgage_rate": 6, "years": 5,
		})
		require.NoError(t, err)
		assert.Equal(t, calculator.RiskMedium, res.Analysis.RiskLevel)
	})

	t.Run("down payment below price", func(t *testing.T) {
		outcome := calc.Validate(calculator.Inputs{
			"monthly_rent": 1000, "home_price": 100000, "down_payment": 100000, "mortgage_rate": 5, "years": 5,
		})
		assert.Equal(t, []calculator.FieldError{{Field: "down_payment", Message: "must be less than home price"}}, outcome.Errors)
	})

	t.Run("small down payment warns", func(t *testing.T) {
		warnings := calc.Advise(calculator.Inputs{
			"monthly_rent": 1000, "home_price": 100000, "down_payment": 5000, "mortgage_rate": 5, "years": 5,
		})
		require.Len(t, warnings, 1)
	})
}
