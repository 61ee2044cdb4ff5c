package calculator

import (
	"fmt"
	"math"
)

// Scale partitions the real line into three half-open risk bands at Lower and
// Upper. Ascending (the default) treats larger results as riskier:
//
//	x < Lower          -> Low
//	Lower <= x < Upper -> Medium
//	x >= Upper         -> High
//
// Descending mirrors it for results where larger is safer (x < Lower is High,
// x >= Upper is Low). Every finite x lands in exactly one band; NaN is High.
type Scale struct {
	Lower      float64
	Upper      float64
	Descending bool
}

// Classify maps x to its tier.
func (s Scale) Classify(x float64) RiskLevel {
	if math.IsNaN(x) {
		return RiskHigh
	}
	band := 1
	switch {
	case x < s.Lower:
		band = 0
	case x >= s.Upper:
		band = 2
	}
	if s.Descending {
		band = 2 - band
	}
	return [...]RiskLevel{RiskLow, RiskMedium, RiskHigh}[band]
}

// Validate rejects scales whose bounds are non-finite or inverted.
func (s Scale) Validate() error {
	if math.IsNaN(s.Lower) || math.IsInf(s.Lower, 0) || math.IsNaN(s.Upper) || math.IsInf(s.Upper, 0) {
		return fmt.Errorf("scale bounds must be finite, got [%v, %v)", s.Lower, s.Upper)
	}
	if s.Lower > s.Upper {
		return fmt.Errorf("scale lower bound %v exceeds upper bound %v", s.Lower, s.Upper)
	}
	return nil
}

// Advice holds the recommendation text for each tier.
type Advice map[RiskLevel]string

func (a Advice) complete() bool {
	return a[RiskLow] != "" && a[RiskMedium] != "" && a[RiskHigh] != ""
}
