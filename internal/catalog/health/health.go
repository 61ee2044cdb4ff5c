// Package health holds body-metric calculators. Lengths are centimetres and
// masses kilograms unless a units field says otherwise.
package health

import (
	"fmt"
	"math"

	"abacus/internal/calculator"
)

const category = "health"

// Calculators returns the health module in registration order.
func Calculators() []calculator.Calculator {
	return []calculator.Calculator{
		BMI(),
		BodyFatNavy(),
		DailyWaterIntake(),
	}
}

// Register adds every health calculator to r.
func Register(r calculator.Registrar) error {
	return calculator.RegisterAll(r, Calculators()...)
}

const (
	unitsMetric   = "metric"
	unitsImperial = "imperial"
)

type bmiInput struct {
	Units          string
	Weight, Height float64
}

// bmiDeviation is the distance from the 18.5-25 healthy band, or -1 inside it.
func bmiDeviation(bmi float64) float64 {
	switch {
	case bmi < 18.5:
		return 18.5 - bmi
	case bmi >= 25:
		return bmi - 25
	default:
		return -1
	}
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "a healthy weight"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// BMI computes body mass index. The tier is driven by distance from the
// healthy band so both underweight and overweight results escalate: inside the
// band Low, within 5 points of it Medium, further out High.
func BMI() *calculator.Pipeline[bmiInput] {
	return calculator.New(calculator.Definition[bmiInput]{
		ID:          "bmi",
		Name:        "Body Mass Index",
		Description: "Weight relative to height squared.",
		Category:    category,
		Unit:        "kg/m²",
		Fields: []calculator.Field{
			{Name: "weight", Label: "Weight", Unit: "kg or lb", Required: true},
			{Name: "height", Label: "Height", Unit: "cm or in", Required: true},
			{Name: "units", Label: "Units", Choices: []string{unitsMetric, unitsImperial}},
		},
		Bind: func(b *calculator.Binder) bmiInput {
			in := bmiInput{Units: b.OptionalChoice("units", unitsMetric, unitsMetric, unitsImperial)}
			if in.Units == unitsImperial {
				in.Weight = b.Number("weight", calculator.Between(2, 1400))
				in.Height = b.Number("height", calculator.Between(20, 108))
			} else {
				in.Weight = b.Number("weight", calculator.Between(1, 635))
				in.Height = b.Number("height", calculator.Between(50, 272))
			}
			return in
		},
		Compute: func(in bmiInput) calculator.Computation {
			var bmi float64
			if in.Units == unitsImperial {
				bmi = 703 * in.Weight / (in.Height * in.Height)
			} else {
				m := in.Height / 100
				bmi = in.Weight / (m * m)
			}
			return calculator.Computation{
				Value:     bmi,
				Breakdown: []calculator.Figure{{Name: "bmi", Value: bmi}},
			}
		},
		Metric: func(_ bmiInput, c calculator.Computation) float64 {
			return bmiDeviation(c.Value)
		},
		Scale: calculator.Scale{Lower: 0, Upper: 5},
		Recommend: func(_ bmiInput, c calculator.Computation, level calculator.RiskLevel) string {
			cat := bmiCategory(c.Value)
			switch level {
			case calculator.RiskLow:
				return "A BMI of " + format(c.Value) + " is " + cat + "."
			case calculator.RiskMedium:
				return "A BMI of " + format(c.Value) + " is " + cat + "; small changes in diet and activity help."
			default:
				return "A BMI of " + format(c.Value) + " is " + cat + "; talk to a clinician about a plan."
			}
		},
	})
}

func format(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

const (
	sexMale   = "male"
	sexFemale = "female"
)

type bodyFatInput struct {
	Sex                      string
	Height, Waist, Neck, Hip float64
}

// femaleOffset maps female body fat onto the male-equivalent scale.
const femaleOffset = 7

// BodyFatNavy estimates body fat with the US Navy circumference method. The
// tier uses male thresholds (18% and 25%); female results are shifted down by
// seven points before classification.
func BodyFatNavy() *calculator.Pipeline[bodyFatInput] {
	return calculator.New(calculator.Definition[bodyFatInput]{
		ID:          "body-fat-navy",
		Name:        "Body Fat (US Navy)",
		Description: "Body fat percentage from height, neck, waist and hip circumferences.",
		Category:    category,
		Unit:        "%",
		Fields: []calculator.Field{
			{Name: "sex", Label: "Sex", Required: true, Choices: []string{sexMale, sexFemale}},
			{Name: "height", Label: "Height", Unit: "cm", Required: true},
			{Name: "waist", Label: "Waist", Unit: "cm", Required: true},
			{Name: "neck", Label: "Neck", Unit: "cm", Required: true},
			{Name: "hip", Label: "Hip", Unit: "cm"},
		},
		Bind: func(b *calculator.Binder) bodyFatInput {
			in := bodyFatInput{
				Sex:    b.Choice("sex", sexMale, sexFemale),
				Height: b.Number("height", calculator.Between(50, 272)),
				Waist:  b.Number("waist", calculator.Between(20, 300)),
				Neck:   b.Number("neck", calculator.Between(10, 100)),
			}
			if in.Sex == sexFemale {
				in.Hip = b.Number("hip", calculator.Between(20, 300))
			} else {
				in.Hip = b.OptionalNumber("hip", 0, calculator.Between(20, 300))
			}
			if b.OK("sex", "waist", "neck", "hip") {
				span := in.Waist - in.Neck
				if in.Sex == sexFemale {
					span += in.Hip
				}
				b.Check("waist", span > 0, "must be greater than neck")
			}
			return in
		},
		Compute: func(in bodyFatInput) calculator.Computation {
			var pct float64
			if in.Sex == sexFemale {
				pct = 495/(1.29579-0.35004*math.Log10(in.Waist+in.Hip-in.Neck)+0.22100*math.Log10(in.Height)) - 450
			} else {
				pct = 495/(1.0324-0.19077*math.Log10(in.Waist-in.Neck)+0.15456*math.Log10(in.Height)) - 450
			}
			return calculator.Computation{
				Value:     pct,
				Breakdown: []calculator.Figure{{Name: "body_fat_percent", Value: pct}},
			}
		},
		Metric: func(in bodyFatInput, c calculator.Computation) float64 {
			if in.Sex == sexFemale {
				return c.Value - femaleOffset
			}
			return c.Value
		},
		Scale: calculator.Scale{Lower: 18, Upper: 25},
		Advice: calculator.Advice{
			calculator.RiskLow:    "Body fat is in a fit range.",
			calculator.RiskMedium: "Body fat is average; regular strength training keeps it in check.",
			calculator.RiskHigh:   "Body fat is above the recommended range.",
		},
		Warn: func(in bodyFatInput) []calculator.Warning {
			if in.Sex == sexMale && in.Hip > 0 {
				return []calculator.Warning{{Field: "hip", Message: "hip is ignored for male estimates"}}
			}
			return nil
		},
	})
}

const (
	climateTemperate = "temperate"
	climateHot       = "hot"
)

type waterInput struct {
	Weight, Activity float64
	Climate          string
}

// DailyWaterIntake estimates litres per day: 33 ml per kg, plus 350 ml per
// 30 minutes of exercise, plus half a litre in hot climates. The tier reflects
// how demanding the target is: <2.5 l Low, <3.7 l Medium, else High.
func DailyWaterIntake() *calculator.Pipeline[waterInput] {
	return calculator.New(calculator.Definition[waterInput]{
		ID:          "daily-water-intake",
		Name:        "Daily Water Intake",
		Description: "Recommended daily water intake from body weight and activity.",
		Category:    category,
		Unit:        "l",
		Fields: []calculator.Field{
			{Name: "weight", Label: "Weight", Unit: "kg", Required: true},
			{Name: "activity_minutes", Label: "Exercise per day", Unit: "min"},
			{Name: "climate", Label: "Climate", Choices: []string{climateTemperate, climateHot}},
		},
		Bind: func(b *calculator.Binder) waterInput {
			return waterInput{
				Weight:   b.Number("weight", calculator.Between(1, 635)),
				Activity: b.OptionalNumber("activity_minutes", 0, calculator.Between(0, 1440)),
				Climate:  b.OptionalChoice("climate", climateTemperate, climateTemperate, climateHot),
			}
		},
		Compute: func(in waterInput) calculator.Computation {
			base := in.Weight * 0.033
			activity := in.Activity / 30 * 0.35
			var climate float64
			if in.Climate == climateHot {
				climate = 0.5
			}
			total := base + activity + climate
			return calculator.Computation{
				Value: total,
				Breakdown: []calculator.Figure{
					{Name: "base", Value: base},
					{Name: "activity", Value: activity},
					{Name: "climate", Value: climate},
				},
			}
		},
		Scale: calculator.Scale{Lower: 2.5, Upper: 3.7},
		Advice: calculator.Advice{
			calculator.RiskLow:    "A glass of water with each meal and between meals covers this.",
			calculator.RiskMedium: "Carry a bottle; this is more than most people drink without planning.",
			calculator.RiskHigh:   "This is a high intake target; spread it through the day and watch for signs of dehydration.",
		},
		Warn: func(in waterInput) []calculator.Warning {
			if in.Activity > 240 {
				return []calculator.Warning{{Field: "activity_minutes", Message: "long sessions also need electrolytes"}}
			}
			return nil
		},
	})
}
