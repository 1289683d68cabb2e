package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestExpandDemand(t *testing.T) {
	pieces := ExpandDemand(demand(1200, 2, 800, 3))
	assert.Equal(t, []float64{1200, 1200, 800, 800, 800}, pieces)
	assert.Empty(t, ExpandDemand(nil))
}

func TestPackFFD_KerfOnlyBetweenCuts(t *testing.T) {
	bins := PackFFD([]float64{2000, 1500, 1000}, 6000, 4)

	require.Len(t, bins, 1)
	assert.Equal(t, []float64{2000, 1500, 1000}, bins[0].Cuts)
	assert.Equal(t, 1492.0, bins[0].Remaining)
}

func TestPackFFD_FirstFitPrefersEarliestBin(t *testing.T) {
	bins := PackFFD([]float64{4000, 3000, 2000, 1000}, 5000, 0)

	require.Len(t, bins, 2)
	assert.Equal(t, []float64{4000, 1000}, bins[0].Cuts)
	assert.Equal(t, []float64{3000, 2000}, bins[1].Cuts)
	assert.Equal(t, 0.0, bins[0].Remaining)
	assert.Equal(t, 0.0, bins[1].Remaining)
}

func TestPackFFD_SingleLengthAt6000(t *testing.T) {
	pieces := ExpandDemand(demand(5800, 10, 1000, 1))
	bins := PackFFD(pieces, 6000, 4)

	require.Len(t, bins, 11)
	for _, b := range bins[:10] {
		assert.Equal(t, []float64{5800}, b.Cuts)
		assert.Equal(t, 200.0, b.Remaining)
	}
	assert.Equal(t, []float64{1000}, bins[10].Cuts)
	assert.Equal(t, 5000.0, bins[10].Remaining)

	plan := Aggregate(nil, bins, len(pieces), model.ResolvedLength{Value: 6000})
	warnings := Diagnose(plan, defaultTestConfig())
	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityError, warnings[0].Severity)
	assert.Contains(t, warnings[0].Message, "CRITICAL")
	assert.Contains(t, warnings[0].Message, "Bar #11 (6000mm)")
	assert.Contains(t, warnings[0].Message, "83.3%")
}

func TestAllocateInventory_SinglePassPerBar(t *testing.T) {
	pieces := []float64{2500, 1500, 1000, 400}
	inventory := []model.InventoryRow{
		model.NewInventoryRow(2000, 1),
		model.NewInventoryRow(3000, 1),
	}

	alloc := AllocateInventory(pieces, inventory, 5)

	require.Len(t, alloc.UsedBins, 2)
	assert.Equal(t, 3000.0, alloc.UsedBins[0].Length, "longest bar is used first")
	assert.Equal(t, []float64{2500, 400}, alloc.UsedBins[0].Cuts)
	assert.Equal(t, 95.0, alloc.UsedBins[0].Remaining)
	assert.Equal(t, []float64{1500}, alloc.UsedBins[1].Cuts)
	assert.Equal(t, []float64{1000}, alloc.RemainingPieces)
	for _, b := range alloc.UsedBins {
		assert.Equal(t, model.OriginInventory, b.Origin)
	}

	assert.Equal(t, []float64{2500, 1500, 1000, 400}, pieces, "input must not be modified")
}

func TestAllocateInventory_UnusedBarsDropped(t *testing.T) {
	alloc := AllocateInventory([]float64{1000}, []model.InventoryRow{model.NewInventoryRow(500, 2)}, 0)

	assert.Empty(t, alloc.UsedBins)
	assert.Equal(t, []float64{1000}, alloc.RemainingPieces)
}

func TestAllocateInventory_NoInventory(t *testing.T) {
	alloc := AllocateInventory([]float64{1000, 800}, nil, 5)

	assert.Empty(t, alloc.UsedBins)
	assert.Equal(t, []float64{1000, 800}, alloc.RemainingPieces)
}
