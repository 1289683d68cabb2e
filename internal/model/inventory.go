package model

import "github.com/google/uuid"

// MergeDemand adds incoming rows to existing ones. A row whose length is
// already present increases that row's quantity; a new length is appended.
// It returns the merged rows plus how many rows were added and updated.
func MergeDemand(existing, incoming []DemandRow) (merged []DemandRow, added, updated int) {
	merged = append([]DemandRow(nil), existing...)
	for _, in := range incoming {
		found := false
		for i := range merged {
			if merged[i].Length == in.Length {
				merged[i].Quantity += in.Quantity
				updated++
				found = true
				break
			}
		}
		if !found {
			if in.ID == "" {
				in.ID = uuid.New().String()[:8]
			}
			merged = append(merged, in)
			added++
		}
	}
	return merged, added, updated
}

// MergeInventory is the inventory counterpart of MergeDemand.
func MergeInventory(existing, incoming []InventoryRow) []InventoryRow {
	merged := append([]InventoryRow(nil), existing...)
	for _, in := range incoming {
		found := false
		for i := range merged {
			if merged[i].Length == in.Length {
				merged[i].Quantity += in.Quantity
				found = true
				break
			}
		}
		if !found {
			if in.ID == "" {
				in.ID = uuid.New().String()[:8]
			}
			merged = append(merged, in)
		}
	}
	return merged
}

// TotalBars returns the number of owned bars.
func TotalBars(rows []InventoryRow) int {
	n := 0
	for _, r := range rows {
		n += r.Quantity
	}
	return n
}

// TotalPieces returns the number of pieces in a cut list.
func TotalPieces(rows []DemandRow) int {
	n := 0
	for _, r := range rows {
		n += r.Quantity
	}
	return n
}

// ConsumeInventory removes the inventory bars that a plan cut from.
// Rows that run out are dropped; the order of the remaining rows is kept.
func ConsumeInventory(rows []InventoryRow, p Plan) []InventoryRow {
	used := make(map[float64]int)
	for _, b := range p.Bins {
		if b.Origin == OriginInventory {
			used[b.Length]++
		}
	}

	out := make([]InventoryRow, 0, len(rows))
	for _, r := range rows {
		if n := used[r.Length]; n > 0 {
			take := n
			if take > r.Quantity {
				take = r.Quantity
			}
			r.Quantity -= take
			used[r.Length] -= take
		}
		if r.Quantity > 0 {
			out = append(out, r)
		}
	}
	return out
}
