package engine

import (
	"sort"

	"github.com/piwi3910/BarCut/internal/model"
)

// ExpandDemand turns demand rows into one entry per required piece, in row order.
func ExpandDemand(rows []model.DemandRow) []float64 {
	var pieces []float64
	for _, r := range rows {
		for i := 0; i < r.Quantity; i++ {
			pieces = append(pieces, r.Length)
		}
	}
	return pieces
}

// ExpandInventory turns inventory rows into one entry per owned bar.
func ExpandInventory(rows []model.InventoryRow) []float64 {
	var bars []float64
	for _, r := range rows {
		for i := 0; i < r.Quantity; i++ {
			bars = append(bars, r.Length)
		}
	}
	return bars
}

// sortDescending orders lengths longest first. Equal lengths are
// indistinguishable, so a stable sort keeps the result deterministic.
func sortDescending(lengths []float64) {
	sort.SliceStable(lengths, func(i, j int) bool {
		return lengths[i] > lengths[j]
	})
}

// longest returns the largest value, or 0 for an empty slice.
func longest(lengths []float64) float64 {
	var m float64
	for _, l := range lengths {
		if l > m {
			m = l
		}
	}
	return m
}
