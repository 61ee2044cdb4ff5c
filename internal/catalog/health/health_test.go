package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/calculator"
)

func TestBMI(t *testing.T) {
	calc := BMI()
	tests := []struct {
		name   string
		inputs calculator.Inputs
		want   float64
		level  calculator.RiskLevel
	}{
		{name: "healthy metric", inputs: calculator.Inputs{"weight": 70, "height": 175}, want: 22.857, level: calculator.RiskLow},
		{name: "healthy imperial", inputs: calculator.Inputs{"weight": 150, "height": 65, "units": "Imperial"}, want: 24.959, level: calculator.RiskLow},
		{name: "underweight", inputs: calculator.Inputs{"weight": 50, "height": 180}, want: 15.432, level: calculator.RiskMedium},
		{name: "obese", inputs: calculator.Inputs{"weight": 120, "height": 175}, want: 39.184, level: calculator.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(tt.inputs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Value, 0.001)
			assert.Equal(t, tt.level, res.Analysis.RiskLevel)
			assert.Contains(t, res.Analysis.Recommendation, "BMI of")
		})
	}

	t.Run("units change the height range", func(t *testing.T) {
		outcome := calc.Validate(calculator.Inputs{"weight": 150, "height": 175, "units": "imperial"})
		require.False(t, outcome.Valid)
		assert.Equal(t, calculator.FieldError{Field: "height", Message: "must be between 20 and 108"}, outcome.Errors[0])
	})

	t.Run("boundary of the healthy band is overweight", func(t *testing.T) {
		assert.Equal(t, 0.0, bmiDeviation(25))
		assert.Equal(t, -1.0, bmiDeviation(18.5))
	})
}

func TestBodyFatNavy(t *testing.T) {
	calc := BodyFatNavy()

	res, err := calc.Calculate(calculator.Inputs{"sex": "male", "height": 178, "waist": 85, "neck": 38})
	require.NoError(t, err)
	assert.InDelta(t, 16.436, res.Value, 0.001)
	assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"sex": "male", "height": 178, "waist": 100, "neck": 38})
	require.NoError(t, err)
	assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"sex": "female", "height": 165, "waist": 75, "neck": 33, "hip": 95})
	require.NoError(t, err)
	assert.InDelta(t, 26.917, res.Value, 0.001)
	assert.Equal(t, calculator.RiskMedium, res.Analysis.RiskLevel)

	t.Run("female requires hip", func(t *testing.T) {
		outcome := calc.Validate(calculator.Inputs{"sex": "female", "height": 165, "waist": 75, "neck": 33})
		assert.Equal(t, []calculator.FieldError{{Field: "hip", Message: "is required"}}, outcome.Errors)
	})

	t.Run("waist must exceed neck", func(t *testing.T) {
		outcome := calc.Validate(calculator.Inputs{"sex": "male", "height": 178, "waist": 38, "neck": 40})
		assert.Equal(t, []calculator.FieldError{{Field: "waist", Message: "must be greater than neck"}}, outcome.Errors)
	})

	t.Run("male hip is advisory only", func(t *testing.T) {
		warnings := calc.Advise(calculator.Inputs{"sex": "male", "height": 178, "waist": 85, "neck": 38, "hip": 95})
		require.Len(t, warnings, 1)
		assert.Equal(t, "hip", warnings[0].Field)
	})
}

func TestDailyWaterIntake(t *testing.T) {
	calc := DailyWaterIntake()

	res, err := calc.Calculate(calculator.Inputs{"weight": 70})
	require.NoError(t, err)
	assert.InDelta(t, 2.31, res.Value, 1e-9)
	assert.Equal(t, calculator.RiskLow, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"weight": 70, "activity_minutes": 60, "climate": "hot"})
	require.NoError(t, err)
	assert.InDelta(t, 3.51, res.Value, 1e-9)
	assert.Equal(t, calculator.RiskMedium, res.Analysis.RiskLevel)

	res, err = calc.Calculate(calculator.Inputs{"weight": 100, "activity_minutes": 60, "climate": "hot"})
	require.NoError(t, err)
	assert.Equal(t, calculator.RiskHigh, res.Analysis.RiskLevel)

	outcome := calc.Validate(calculator.Inputs{"weight": 70, "climate": "arctic"})
	assert.Equal(t, []calculator.FieldError{{Field: "climate", Message: "must be one of temperate, hot"}}, outcome.Errors)
}
