package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type loanInput struct {
	Amount, Rate, Time float64
}

func interestDefinition() Definition[loanInput] {
	return Definition[loanInput]{
		ID:       "test-interest",
		Name:     "Test interest",
		Category: "finance",
		Unit:     "USD",
		Bind: func(b *Binder) loanInput {
			return loanInput{
				Amount: b.Number("amount", GreaterThan(0)),
				Rate:   b.Number("rate", AtLeast(0)),
				Time:   b.Number("time", GreaterThan(0)),
			}
		},
		Compute: func(in loanInput) Computation {
			return Computation{Value: in.Amount * in.Rate / 100 * in.Time}
		},
		Scale: Scale{Lower: 1000, Upper: 5000},
		Advice: Advice{
			RiskLow:    "low",
			RiskMedium: "medium",
			RiskHigh:   "high",
		},
		Warn: func(in loanInput) []Warning {
			if in.Rate > 30 {
				return []Warning{{Field: "rate", Message: "unusually high rate"}}
			}
			return nil
		},
	}
}

type PipelineSuite struct {
	suite.Suite
	calc *Pipeline[loanInput]
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.calc = New(interestDefinition())
}

func (s *PipelineSuite) TestCalculateValidInput() {
	res, err := s.calc.Calculate(Inputs{"amount": 10000, "rate": 5, "time": 1})
	s.Require().NoError(err)
	s.Equal(500.0, res.Value)
	s.Equal("test-interest", res.CalculatorID)
	s.Equal("USD", res.Unit)
	s.Equal(RiskLow, res.Analysis.RiskLevel)
	s.Equal("low", res.Analysis.Recommendation)
	s.Empty(res.Warnings)
}

func (s *PipelineSuite) TestCalculateRejectsInvalidInput() {
	res, err := s.calc.Calculate(Inputs{"amount": 0, "rate": 5, "time": 1})
	s.Nil(res)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("test-interest", verr.CalculatorID)
	s.Equal([]FieldError{{Field: "amount", Message: "must be greater than 0"}}, verr.Errors)
}

func (s *PipelineSuite) TestCalculateReportsEveryFieldError() {
	_, err := s.calc.Calculate(Inputs{})
	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Len(verr.Errors, 3)
	s.Contains(err.Error(), "amount: is required")
}

func (s *PipelineSuite) TestValidateAgreesWithCalculate() {
	inputs := []Inputs{
		{"amount": 10000, "rate": 5, "time": 1},
		{"amount": -1, "rate": 5, "time": 1},
		{"amount": "abc"},
		{},
		{"amount": 1, "rate": 0, "time": 0.5},
	}
	for _, in := range inputs {
		outcome := s.calc.Validate(in)
		res, err := s.calc.Calculate(in)
		if outcome.Valid {
			s.NoError(err, "inputs %v", in)
			s.NotNil(res)
		} else {
			s.ErrorIs(err, ErrInvalidInput, "inputs %v", in)
			s.Nil(res)
		}
	}
}

func (s *PipelineSuite) TestCalculateIsDeterministic() {
	in := Inputs{"amount": 12345.67, "rate": 3.3, "time": 7}
	first, err := s.calc.Calculate(in)
	s.Require().NoError(err)
	for i := 0; i < 20; i++ {
		again, err := s.calc.Calculate(in)
		s.Require().NoError(err)
		s.Equal(math.Float64bits(first.Value), math.Float64bits(again.Value))
		s.Equal(first.Analysis, again.Analysis)
	}
}

func (s *PipelineSuite) TestAdvise() {
	s.Nil(s.calc.Advise(Inputs{"amount": 0}))
	s.Equal([]Warning{{Field: "rate", Message: "unusually high rate"}},
		s.calc.Advise(Inputs{"amount": 100, "rate": 40, "time": 1}))

	res, err := s.calc.Calculate(Inputs{"amount": 100, "rate": 40, "time": 1})
	s.Require().NoError(err)
	s.Len(res.Warnings, 1)
}

func (s *PipelineSuite) TestDescriptorIsImmutable() {
	def := interestDefinition()
	def.Fields = []Field{{Name: "amount", Label: "Amount", Required: true}}
	calc := New(def)

	d := calc.Descriptor()
	d.Fields[0].Name = "mutated"
	s.Equal("amount", calc.Descriptor().Fields[0].Name)
}

func TestComputationInvariantViolation(t *testing.T) {
	def := interestDefinition()
	def.Compute = func(in loanInput) Computation {
		return Computation{Value: 1, Breakdown: []Figure{{Name: "ratio", Value: in.Rate / (in.Rate - in.Rate)}}}
	}
	calc := New(def)

	res, err := calc.Calculate(Inputs{"amount": 1, "rate": 0, "time": 1})
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrComputationInvariant)

	var iv *InvariantViolation
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, "ratio", iv.Figure)
	assert.Equal(t, RiskHigh, iv.Fallback.RiskLevel)
}

func TestMetricSelectsClassifiedValue(t *testing.T) {
	def := interestDefinition()
	def.Metric = func(in loanInput, _ Computation) float64 { return in.Rate * 1000 }
	calc := New(def)

	res, err := calc.Calculate(Inputs{"amount": 1, "rate": 6, "time": 1})
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, res.Analysis.RiskLevel)
}

func TestRecommendOverridesAdvice(t *testing.T) {
	def := interestDefinition()
	def.Advice = nil
	def.Recommend = func(in loanInput, c Computation, level RiskLevel) string {
		return string(level) + " for " + formatNumber(in.Amount)
	}
	calc := New(def)

	res, err := calc.Calculate(Inputs{"amount": 100, "rate": 1, "time": 1})
	require.NoError(t, err)
	assert.Equal(t, "Low for 100", res.Analysis.Recommendation)
}

func TestNewPanicsOnMalformedDefinition(t *testing.T) {
	cases := map[string]func(d *Definition[loanInput]){
		"upper-case id":     func(d *Definition[loanInput]) { d.ID = "Test-Interest" },
		"empty id":          func(d *Definition[loanInput]) { d.ID = "" },
		"missing compute":   func(d *Definition[loanInput]) { d.Compute = nil },
		"incomplete advice": func(d *Definition[loanInput]) { delete(d.Advice, RiskMedium) },
		"inverted scale":    func(d *Definition[loanInput]) { d.Scale = Scale{Lower: 2, Upper: 1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			def := interestDefinition()
			mutate(&def)
			assert.Panics(t, func() { New(def) })
		})
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("loan-payment"))
	assert.True(t, ValidID("bmi"))
	assert.True(t, ValidID("rule-of-72"))
	assert.False(t, ValidID("Loan-Payment"))
	assert.False(t, ValidID(" bmi"))
	assert.False(t, ValidID("loan--payment"))
	assert.False(t, ValidID("loan_payment"))
	assert.False(t, ValidID(""))
}
