package engine

import "github.com/piwi3910/BarCut/internal/model"

// PackFFD packs pieces into bars of one length using First-Fit-Decreasing.
// Pieces must already be sorted longest first and none may exceed stockLength.
// Each piece goes into the earliest opened bar with room for it (kerf included
// when the bar already holds a cut); otherwise a new bar is opened.
func PackFFD(pieces []float64, stockLength, kerf float64) []model.Bin {
	var bins []model.Bin
	for _, p := range pieces {
		placed := false
		for i := range bins {
			if bins[i].Fits(p, kerf) {
				bins[i].Place(p, kerf)
				placed = true
				break
			}
		}
		if !placed {
			bin := model.NewBin(stockLength, model.OriginPurchased)
			bin.Place(p, kerf)
			bins = append(bins, bin)
		}
	}
	return bins
}
