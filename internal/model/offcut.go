package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is a usable remnant of a bar left over after cutting.
type Offcut struct {
	ID           string  `json:"id"`
	BinIndex     int     `json:"bin_index"`     // 1-based bar number in the plan
	SourceLength float64 `json:"source_length"` // Length of the bar it came from
	Length       float64 `json:"length"`        // Usable length (mm)
	Origin       Origin  `json:"origin"`
}

// MinOffcutLength is the minimum remnant length (in mm) worth keeping.
// Shorter remnants are scrap.
const MinOffcutLength = 300.0

// DetectOffcuts returns the remnants of a plan that are at least minLength long.
// The saw needs one more kerf to separate the remnant from the last piece, so
// that kerf is subtracted from the remaining length. Offcuts are sorted
// longest first; equal lengths keep plan order.
func DetectOffcuts(p Plan, kerf, minLength float64) []Offcut {
	if minLength <= 0 {
		minLength = MinOffcutLength
	}
	var offcuts []Offcut
	for i, b := range p.Bins {
		usable := b.Remaining
		if len(b.Cuts) > 0 {
			usable -= kerf
		}
		if usable < minLength {
			continue
		}
		offcuts = append(offcuts, Offcut{
			ID:           uuid.New().String()[:8],
			BinIndex:     i + 1,
			SourceLength: b.Length,
			Length:       usable,
			Origin:       b.Origin,
		})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})
	return offcuts
}

// OffcutsToInventory groups offcuts of equal length into inventory rows.
func OffcutsToInventory(offcuts []Offcut) []InventoryRow {
	var rows []InventoryRow
	for _, o := range offcuts {
		rows = MergeInventory(rows, []InventoryRow{{Label: "Offcut", Length: o.Length, Quantity: 1}})
	}
	return rows
}

// TotalOffcutLength returns the combined length of all offcuts in mm.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
