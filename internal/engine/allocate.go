package engine

import "github.com/piwi3910/BarCut/internal/model"

// Allocation is the outcome of cutting demand from owned bars.
type Allocation struct {
	UsedBins        []model.Bin
	RemainingPieces []float64
}

// AllocateInventory satisfies pieces from owned bars before anything is bought.
// Bars are used longest first. Each bar gets one first-fit pass over the
// pieces still pending; every piece that fits is cut from the bar in the order
// it is encountered. Bars that receive no cut are not reported.
func AllocateInventory(pieces []float64, inventory []model.InventoryRow, kerf float64) Allocation {
	pending := append([]float64(nil), pieces...)
	bars := ExpandInventory(inventory)
	sortDescending(bars)

	var used []model.Bin
	for _, length := range bars {
		if len(pending) == 0 {
			break
		}
		bin := model.NewBin(length, model.OriginInventory)
		left := make([]float64, 0, len(pending))
		for _, p := range pending {
			if bin.Fits(p, kerf) {
				bin.Place(p, kerf)
			} else {
				left = append(left, p)
			}
		}
		pending = left
		if len(bin.Cuts) > 0 {
			used = append(used, bin)
		}
	}

	return Allocation{UsedBins: used, RemainingPieces: pending}
}
