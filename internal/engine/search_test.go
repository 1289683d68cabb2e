package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestCandidateLengths(t *testing.T) {
	cfg := model.StockConfig{MinLength: 3500, MaxLength: 3750, StepSize: 100}

	assert.Equal(t, []float64{3500, 3600, 3700, 3750}, CandidateLengths(cfg, 0))
	assert.Equal(t, []float64{3700, 3750}, CandidateLengths(cfg, 3650))
	assert.Empty(t, CandidateLengths(cfg, 3800))

	single := model.StockConfig{MinLength: 1000, MaxLength: 1000, StepSize: 100}
	assert.Equal(t, []float64{1000}, CandidateLengths(single, 1000))
}

func TestSearchResult_Beats(t *testing.T) {
	bins := func(n int) []model.Bin { return make([]model.Bin, n) }
	best := SearchResult{Efficiency: 90, Bins: bins(4)}

	assert.True(t, SearchResult{Efficiency: 91, Bins: bins(10)}.beats(best), "higher efficiency wins")
	assert.False(t, SearchResult{Efficiency: 89, Bins: bins(1)}.beats(best), "lower efficiency loses")
	assert.True(t, SearchResult{Efficiency: 90.005, Bins: bins(3)}.beats(best), "near tie, fewer bars wins")
	assert.False(t, SearchResult{Efficiency: 90.005, Bins: bins(5)}.beats(best), "near tie, more bars loses")
	assert.False(t, SearchResult{Efficiency: 89.995, Bins: bins(4)}.beats(best), "full tie keeps the earlier candidate")
}

func TestSearchLength_TiePrefersFewerBars(t *testing.T) {
	cfg := model.StockConfig{Kerf: 0, MinLength: 1000, MaxLength: 2000, StepSize: 1000}

	res, ok := SearchLength([]float64{1000, 1000}, cfg, 0)
	require.True(t, ok)
	assert.Equal(t, 2000.0, res.Length)
	assert.Len(t, res.Bins, 1)
	assert.Equal(t, 100.0, res.Efficiency)
}

func TestSearchLength_NeverBelowLongestPiece(t *testing.T) {
	res, ok := SearchLength([]float64{1200, 3700}, defaultTestConfig(), 0)
	require.True(t, ok)
	assert.GreaterOrEqual(t, res.Length, 3700.0)
	for _, b := range res.Bins {
		assert.Equal(t, res.Length, b.Length)
	}
}

func TestSearchLength_NothingToPack(t *testing.T) {
	_, ok := SearchLength(nil, defaultTestConfig(), 0)
	assert.False(t, ok)

	_, ok = SearchLength([]float64{7000}, defaultTestConfig(), 0)
	assert.False(t, ok)
}

func TestSearchLength_ParallelMatchesSequential(t *testing.T) {
	pieces := ExpandDemand(demand(2400, 7, 1800, 5, 950, 12))

	seq, ok := SearchLength(pieces, defaultTestConfig(), 1)
	require.True(t, ok)
	par, ok := SearchLength(pieces, defaultTestConfig(), 8)
	require.True(t, ok)
	assert.Equal(t, seq, par)
}

func TestRefine_IterationCapCommitsRemainder(t *testing.T) {
	cfg := model.StockConfig{Kerf: 0, MinLength: 600, MaxLength: 1000, StepSize: 100, MaxWasteThreshold: 0}

	ref := Refine([]float64{600, 700, 800, 900, 1000}, cfg, 0, zerolog.Nop())

	assert.Equal(t, TerminationIterationCap, ref.Termination)
	assert.Equal(t, MaxRefineIterations, ref.Searches)
	require.Len(t, ref.Bins, 5)
	for i, want := range []float64{1000, 900, 800, 700, 600} {
		assert.Equal(t, want, ref.Bins[i].Length)
		assert.Equal(t, []float64{want}, ref.Bins[i].Cuts)
	}
	assert.True(t, resolvedLength(ref.Bins).Mixed)
}

func TestRefine_Exhausted(t *testing.T) {
	cfg := model.StockConfig{Kerf: 0, MinLength: 1000, MaxLength: 1000, StepSize: 100, MaxWasteThreshold: 0}

	ref := Refine([]float64{1000, 1000}, cfg, 0, zerolog.Nop())

	assert.Equal(t, TerminationExhausted, ref.Termination)
	assert.Equal(t, 1, ref.Searches)
	assert.Len(t, ref.Bins, 2)
	assert.Equal(t, model.ResolvedLength{Value: 1000}, resolvedLength(ref.Bins))
}

func TestRefine_AcceptableBandFallback(t *testing.T) {
	cfg := model.StockConfig{Kerf: 0, MinLength: 1000, MaxLength: 1000, StepSize: 100, MaxWasteThreshold: 0}

	ref := Refine([]float64{990}, cfg, 0, zerolog.Nop())

	assert.Equal(t, TerminationExhausted, ref.Termination)
	require.Len(t, ref.Bins, 1)
	assert.Equal(t, 10.0, ref.Bins[0].Remaining)
}

func TestRefine_AcceptsWholePassWhenNothingIsGood(t *testing.T) {
	cfg := model.StockConfig{Kerf: 0, MinLength: 1000, MaxLength: 1000, StepSize: 100, MaxWasteThreshold: 0}

	ref := Refine([]float64{500}, cfg, 0, zerolog.Nop())

	assert.Equal(t, TerminationAcceptedAll, ref.Termination)
	assert.Equal(t, 1, ref.Searches)
	require.Len(t, ref.Bins, 1)
	assert.Equal(t, 500.0, ref.Bins[0].Remaining)
}

func TestRefine_NothingPending(t *testing.T) {
	ref := Refine(nil, defaultTestConfig(), 0, zerolog.Nop())

	assert.Equal(t, 0, ref.Searches)
	assert.Empty(t, ref.Bins)
	assert.False(t, resolvedLength(ref.Bins).IsSet())
}

func TestRefine_SearchesAreBounded(t *testing.T) {
	for _, tc := range propertyCases {
		pieces := ExpandDemand(tc.demand)
		ref := Refine(pieces, defaultTestConfig(), 0, zerolog.Nop())
		assert.LessOrEqual(t, ref.Searches, MaxRefineIterations, tc.name)
	}
}
