package engine

import (
	"fmt"

	"github.com/piwi3910/BarCut/internal/model"
)

// ComparisonScenario defines a named stock configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.StockConfig
}

// ComparisonResult holds the plan and headline figures for one scenario.
// Err is set when the scenario's configuration was rejected.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Plan          model.Plan
	BarsUsed      int
	BarsPurchased int
	Efficiency    float64
	WastePercent  float64
	Err           error
}

// CompareScenarios optimizes the same cut list under each scenario, returning
// results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, demand []model.DemandRow, inventory []model.InventoryRow) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		plan, err := New(scenario.Config).Optimize(demand, inventory)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Plan:          plan,
			BarsUsed:      plan.TotalBins,
			BarsPurchased: plan.PurchasedBins(),
			Efficiency:    plan.EfficiencyValue,
			WastePercent:  100.0 - plan.EfficiencyValue,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if variants of the current config:
// a thinner blade, a finer length grid, a lower minimum length and a single
// fixed maximum length.
func BuildDefaultScenarios(base model.StockConfig, demand []model.DemandRow) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Config: base,
		},
	}

	// Thinner blade
	if base.Kerf > 1.0 {
		c := base
		c.Kerf = base.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Kerf %.1fmm (half)", c.Kerf),
			Config: c,
		})
	}

	// Finer search grid
	if base.StepSize >= 2 {
		c := base
		c.StepSize = base.StepSize / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Step %smm", model.FormatLength(c.StepSize)),
			Config: c,
		})
	}

	// Shorter bars allowed, but never below the longest piece
	var longestPiece float64
	for _, r := range demand {
		if r.Length > longestPiece {
			longestPiece = r.Length
		}
	}
	lowered := base.MinLength / 2
	if lowered < longestPiece {
		lowered = longestPiece
	}
	if lowered < base.MinLength {
		c := base
		c.MinLength = lowered
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Min length %smm", model.FormatLength(lowered)),
			Config: c,
		})
	}

	// Only full-length bars
	if base.MinLength < base.MaxLength {
		c := base
		c.MinLength = base.MaxLength
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Fixed %smm bars", model.FormatLength(base.MaxLength)),
			Config: c,
		})
	}

	return scenarios
}
