package e2e

import (
	"github.com/cucumber/godog"

	"abacus/e2e/steps/calculator"
	"abacus/e2e/steps/common"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (server availability, status and field assertions)
	common.RegisterSteps(ctx, tc)

	// Register calculator-specific steps
	calculator.RegisterSteps(ctx, tc)
}
