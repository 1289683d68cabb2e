package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

const (
	lowEfficiencyPercent = 80.0
	criticalWastePercent = 70.0
	highWastePercent     = 50.0

	// nearMinimumMargin is the distance above MinLength within which a
	// purchased bar counts as close to the minimum.
	nearMinimumMargin = 500.0
)

// binGroup collects the 1-based indices of bars that share a signature.
type binGroup struct {
	length  float64
	cuts    []float64
	waste   float64
	indices []int
}

func addToGroup(groups []binGroup, idx int, b model.Bin) []binGroup {
	for i := range groups {
		g := &groups[i]
		if g.length == b.Length && g.waste == b.Remaining && slices.Equal(g.cuts, b.Cuts) {
			g.indices = append(g.indices, idx)
			return groups
		}
	}
	return append(groups, binGroup{length: b.Length, cuts: b.Cuts, waste: b.Remaining, indices: []int{idx}})
}

type minHintKey struct {
	used      float64
	suggested float64
}

type minHint struct {
	minHintKey
	indices []int
}

// Diagnose derives advisory warnings from a plan. It never modifies the plan.
func Diagnose(plan model.Plan, cfg model.StockConfig) []model.Warning {
	warnings := []model.Warning{}

	if plan.TotalLength > 0 && plan.EfficiencyValue < lowEfficiencyPercent {
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityWarning,
			Message: fmt.Sprintf("Efficiency is only %.1f%%; the plan may not be optimal. Try widening the length range or lowering the step size.",
				plan.EfficiencyValue),
		})
	}

	var critical, high, overThreshold []binGroup
	var hints []minHint
	nearMin := 0

	for i, b := range plan.Bins {
		idx := i + 1
		ratio := b.WasteRatio() * 100
		switch {
		case ratio > criticalWastePercent:
			critical = addToGroup(critical, idx, b)
		case ratio > highWastePercent:
			high = addToGroup(high, idx, b)
		case b.Remaining > cfg.MaxWasteThreshold:
			overThreshold = addToGroup(overThreshold, idx, b)
		}

		if b.Origin != model.OriginPurchased {
			continue
		}
		if b.Length < cfg.MinLength+nearMinimumMargin {
			nearMin++
		}
		if b.Length == cfg.MinLength && cfg.StepSize > 0 {
			used := b.UsedLength()
			suggested := math.Ceil(used/cfg.StepSize) * cfg.StepSize
			if suggested < cfg.MinLength {
				hints = addHint(hints, minHintKey{used: used, suggested: suggested}, idx)
			}
		}
	}

	for _, g := range critical {
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityError,
			Message: fmt.Sprintf("CRITICAL: %s (%smm) cut %smm, waste %smm (%.1f%%). Combine with other bars or order a custom length.",
				barRefs(g.indices), model.FormatLength(g.length), joinCuts(g.cuts), formatWaste(g.waste), g.waste/g.length*100),
		})
	}
	for _, g := range high {
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityWarning,
			Message: fmt.Sprintf("WARNING: %s (%smm) has %.1f%% waste. Consider re-optimizing or using inventory bars.",
				barRefs(g.indices), model.FormatLength(g.length), g.waste/g.length*100),
		})
	}
	for _, g := range overThreshold {
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityWarning,
			Message: fmt.Sprintf("%s (%smm) leaves %smm, above the %smm waste threshold.",
				barRefs(g.indices), model.FormatLength(g.length), formatWaste(g.waste), model.FormatLength(cfg.MaxWasteThreshold)),
		})
	}
	for _, h := range hints {
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityInfo,
			Message: fmt.Sprintf("%s (%smm) used only %smm. A minimum length of %smm would be enough.",
				barRefs(h.indices), model.FormatLength(cfg.MinLength), formatWaste(h.used), model.FormatLength(h.suggested)),
		})
	}
	if nearMin > 0 {
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityInfo,
			Message: fmt.Sprintf("%d purchased bar(s) are close to the minimum length. Lowering the minimum may improve the plan.",
				nearMin),
		})
	}

	return warnings
}

func addHint(hints []minHint, key minHintKey, idx int) []minHint {
	for i := range hints {
		if hints[i].minHintKey == key {
			hints[i].indices = append(hints[i].indices, idx)
			return hints
		}
	}
	return append(hints, minHint{minHintKey: key, indices: []int{idx}})
}

func barRefs(indices []int) string {
	if len(indices) == 1 {
		return "Bar " + formatIndexRanges(indices)
	}
	return "Bars " + formatIndexRanges(indices)
}

// formatIndexRanges collapses ascending indices into ranges: [3 5 6 7] becomes
// "#3, #5-#7".
func formatIndexRanges(indices []int) string {
	var parts []string
	for i := 0; i < len(indices); {
		j := i
		for j+1 < len(indices) && indices[j+1] == indices[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, fmt.Sprintf("#%d", indices[i]))
		} else {
			parts = append(parts, fmt.Sprintf("#%d-#%d", indices[i], indices[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}

func joinCuts(cuts []float64) string {
	parts := make([]string, len(cuts))
	for i, c := range cuts {
		parts[i] = model.FormatLength(c)
	}
	return strings.Join(parts, "+")
}

func formatWaste(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
