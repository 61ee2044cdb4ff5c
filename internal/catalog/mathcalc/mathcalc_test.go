package mathcalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/calculator"
)

func TestPercentageChange(t *testing.T) {
	calc := PercentageChange()
	tests := []struct {
		name     string
		from, to float64
		want     float64
		level    calculator.RiskLevel
	}{
		{name: "increase", from: 100, to: 105, want: 5, level: calculator.RiskLow},
		{name: "decrease", from: 200, to: 150, want: -25, level: calculator.RiskMedium},
		{name: "negative base", from: -50, to: -25, want: 50, level: calculator.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(calculator.Inputs{"from": tt.from, "to": tt.to})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Value, 1e-9)
			assert.Equal(t, tt.level, res.Analysis.RiskLevel)
		})
	}

	outcome := calc.Validate(calculator.Inputs{"from": 0, "to": 5})
	assert.Equal(t, []calculator.FieldError{{Field: "from", Message: "must not be 0"}}, outcome.Errors)

	res, err := calc.Calculate(calculator.Inputs{"from": -1e308, "to": 1e308})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestBinomialCoefficient(t *testing.T) {
	calc := BinomialCoefficient()

	res, err := calc.Calculate(calculator.Inputs{"n": 5, "k": 2})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Value)
	assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"n": 52, "k": 5})
	require.NoError(t, err)
	assert.Equal(t, 2598960.0, res.Value)
	assert.Equal(t, calculator.RiskMedium, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"n": 1000, "k": 500})
	require.NoError(t, err)
	assert.False(t, math.IsInf(res.Value, 0))
	assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"n": 0, "k": 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Value)

	outcome := calc.Validate(calculator.Inputs{"n": 3, "k": 4})
	assert.Equal(t, []calculator.FieldError{{Field: "k", Message: "must not exceed n"}}, outcome.Errors)

	outcome = calc.Validate(calculator.Inputs{"n": 3.5, "k": 1})
	assert.Equal(t, []calculator.FieldError{{Field: "n", Message: "must be a whole number"}}, outcome.Errors)
}
