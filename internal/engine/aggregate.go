package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BarCut/internal/model"
)

// Aggregate merges inventory bars and purchased bars into one Plan. Totals are
// recomputed from the bars themselves. Warnings are left empty; see Diagnose.
func Aggregate(inventoryBins, purchasedBins []model.Bin, totalPieces int, resolved model.ResolvedLength) model.Plan {
	bins := make([]model.Bin, 0, len(inventoryBins)+len(purchasedBins))
	bins = append(bins, inventoryBins...)
	bins = append(bins, purchasedBins...)

	plan := model.Plan{
		Bins:           bins,
		TotalBins:      len(bins),
		TotalPieces:    totalPieces,
		ResolvedLength: resolved,
		Warnings:       []model.Warning{},
	}
	for _, b := range bins {
		plan.TotalUsed += b.CutTotal()
		plan.TotalLength += b.Length
		plan.TotalWaste += b.Remaining
	}
	if plan.TotalLength > 0 {
		plan.EfficiencyValue = (plan.TotalLength - plan.TotalWaste) / plan.TotalLength * 100
	}
	plan.Efficiency = decimal.NewFromFloat(plan.EfficiencyValue).StringFixed(2)
	plan.Summary = summarize(bins)
	return plan
}

// summarize counts bars per length, longest first. Each entry takes its
// origin from the first bar of that length, so inventory bars tag a length
// they share with purchased ones.
func summarize(bins []model.Bin) []model.SummaryEntry {
	index := make(map[float64]int)
	summary := []model.SummaryEntry{}
	for _, b := range bins {
		if i, ok := index[b.Length]; ok {
			summary[i].Quantity++
			continue
		}
		index[b.Length] = len(summary)
		summary = append(summary, model.SummaryEntry{Length: b.Length, Quantity: 1, Origin: b.Origin})
	}
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Length > summary[j].Length
	})
	return summary
}
