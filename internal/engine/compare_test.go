package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	cfg := model.DefaultStockConfig()
	rows := demand(2000, 4, 1200, 3)

	scenarios := BuildDefaultScenarios(cfg, rows)

	require.Len(t, scenarios, 5)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, cfg, scenarios[0].Config)
	assert.Equal(t, 2.5, scenarios[1].Config.Kerf)
	assert.Equal(t, 50.0, scenarios[2].Config.StepSize)
	assert.Equal(t, 2000.0, scenarios[3].Config.MinLength, "lowered minimum is clamped to the longest piece")
	assert.Equal(t, cfg.MaxLength, scenarios[4].Config.MinLength)
}

func TestBuildDefaultScenarios_SkipsPointlessVariants(t *testing.T) {
	cfg := model.StockConfig{Kerf: 1, MinLength: 1000, MaxLength: 1000, StepSize: 1, MaxWasteThreshold: 0}

	scenarios := BuildDefaultScenarios(cfg, demand(1000, 1))

	require.Len(t, scenarios, 1)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
}

func TestCompareScenarios(t *testing.T) {
	rows := demand(2000, 4, 1200, 3)
	bad := model.DefaultStockConfig()
	bad.MinLength = 7000
	scenarios := append(BuildDefaultScenarios(model.DefaultStockConfig(), rows),
		ComparisonScenario{Name: "Broken", Config: bad})

	results := CompareScenarios(scenarios, rows, nil)

	require.Len(t, results, len(scenarios))
	for _, r := range results[:len(results)-1] {
		require.NoError(t, r.Err, r.Scenario.Name)
		assert.Equal(t, 7, r.Plan.CutCount(), r.Scenario.Name)
		assert.Equal(t, r.Plan.TotalBins, r.BarsUsed)
		assert.InDelta(t, 100.0, r.Efficiency+r.WastePercent, 1e-9)
	}
	assert.ErrorIs(t, results[len(results)-1].Err, ErrInvalidRange)
}
