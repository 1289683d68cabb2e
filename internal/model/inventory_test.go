package model

import "testing"

func TestMergeDemandAddsAndUpdates(t *testing.T) {
	existing := []DemandRow{{ID: "a", Length: 1200, Quantity: 2}}
	incoming := []DemandRow{
		{Length: 1200, Quantity: 3},
		{Length: 800, Quantity: 1},
	}

	merged, added, updated := MergeDemand(existing, incoming)

	if added != 1 || updated != 1 {
		t.Errorf("expected 1 added and 1 updated, got %d and %d", added, updated)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(merged))
	}
	if merged[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", merged[0].Quantity)
	}
	if merged[1].ID == "" {
		t.Error("appended row should get an ID")
	}
	if existing[0].Quantity != 2 {
		t.Error("MergeDemand must not modify the existing slice")
	}
}

func TestMergeInventory(t *testing.T) {
	merged := MergeInventory(
		[]InventoryRow{{Length: 6000, Quantity: 1}},
		[]InventoryRow{{Length: 6000, Quantity: 2}, {Length: 4000, Quantity: 1}},
	)
	if len(merged) != 2 || merged[0].Quantity != 3 {
		t.Errorf("unexpected merge result %+v", merged)
	}
	if TotalBars(merged) != 4 {
		t.Errorf("expected 4 bars, got %d", TotalBars(merged))
	}
}

func TestConsumeInventory(t *testing.T) {
	rows := []InventoryRow{
		{ID: "x", Length: 6000, Quantity: 2},
		{ID: "y", Length: 4000, Quantity: 1},
	}
	p := Plan{Bins: []Bin{
		{Length: 6000, Origin: OriginInventory},
		{Length: 4000, Origin: OriginInventory},
		{Length: 4000, Origin: OriginPurchased},
	}}

	left := ConsumeInventory(rows, p)

	if len(left) != 1 {
		t.Fatalf("expected 1 row left, got %+v", left)
	}
	if left[0].ID != "x" || left[0].Quantity != 1 {
		t.Errorf("expected one 6000 bar left, got %+v", left[0])
	}
}

func TestTotalPieces(t *testing.T) {
	if n := TotalPieces([]DemandRow{{Quantity: 2}, {Quantity: 5}}); n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
}
