package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestBinPlaceChargesKerfAfterFirstCut(t *testing.T) {
	b := NewBin(6000, OriginPurchased)
	if !b.Fits(6000, 4) {
		t.Fatal("an empty bar should fit a piece of its own length")
	}
	b.Place(2000, 4)
	b.Place(1500, 4)
	b.Place(1000, 4)

	// 6000 - 4500 - 2*4
	if b.Remaining != 1492 {
		t.Errorf("expected remaining 1492, got %.2f", b.Remaining)
	}
	if b.KerfLoss(4) != 8 {
		t.Errorf("expected kerf loss 8, got %.2f", b.KerfLoss(4))
	}
	if b.CutTotal() != 4500 {
		t.Errorf("expected cut total 4500, got %.2f", b.CutTotal())
	}
	if b.UsedLength() != 4508 {
		t.Errorf("expected used length 4508, got %.2f", b.UsedLength())
	}
}

func TestBinFitsRejectsKerfOverflow(t *testing.T) {
	b := NewBin(1000, OriginPurchased)
	b.Place(500, 5)
	if b.Fits(500, 5) {
		t.Error("second 500 piece needs 505 and must not fit into 500")
	}
	if !b.Fits(495, 5) {
		t.Error("495 piece needs exactly 500 and should fit")
	}
}

func TestBinWasteRatio(t *testing.T) {
	b := Bin{Length: 4000, Remaining: 1000}
	if math.Abs(b.WasteRatio()-0.25) > 1e-9 {
		t.Errorf("expected 0.25, got %f", b.WasteRatio())
	}
	if (Bin{}).WasteRatio() != 0 {
		t.Error("zero-length bin should report zero waste ratio")
	}
}

func TestResolvedLengthJSON(t *testing.T) {
	cases := []struct {
		in   ResolvedLength
		want string
	}{
		{ResolvedLength{Value: 6000}, "6000"},
		{ResolvedLength{Mixed: true}, `"mixed"`},
		{ResolvedLength{}, "null"},
	}
	for _, c := range cases {
		data, err := json.Marshal(c.in)
		if err != nil {
			t.Fatalf("marshal %v: %v", c.in, err)
		}
		if string(data) != c.want {
			t.Errorf("expected %s, got %s", c.want, data)
		}
		var back ResolvedLength
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != c.in {
			t.Errorf("round trip of %s gave %+v", data, back)
		}
	}
}

func TestResolvedLengthString(t *testing.T) {
	if s := (ResolvedLength{Value: 5800}).String(); s != "5800" {
		t.Errorf("expected 5800, got %s", s)
	}
	if s := (ResolvedLength{Mixed: true}).String(); s != "mixed" {
		t.Errorf("expected mixed, got %s", s)
	}
	if (ResolvedLength{}).IsSet() {
		t.Error("zero value should not be set")
	}
}

func TestPlanCounters(t *testing.T) {
	p := Plan{
		Bins: []Bin{
			{Length: 6000, Cuts: []float64{5800}, Remaining: 200, Origin: OriginInventory},
			{Length: 6000, Cuts: []float64{3000, 2000}, Remaining: 995, Origin: OriginPurchased},
		},
		Warnings: []Warning{{Severity: SeverityInfo}, {Severity: SeverityError}},
	}
	if p.PurchasedBins() != 1 {
		t.Errorf("expected 1 purchased bin, got %d", p.PurchasedBins())
	}
	if p.CutCount() != 3 {
		t.Errorf("expected 3 cuts, got %d", p.CutCount())
	}
	if !p.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
}

func TestNewDemandRowGeneratesID(t *testing.T) {
	a := NewDemandRow(1200, 3)
	b := NewDemandRow(1200, 3)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Length != 1200 || a.Quantity != 3 {
		t.Errorf("unexpected row %+v", a)
	}
}

func TestFormatLength(t *testing.T) {
	if FormatLength(6000) != "6000" {
		t.Errorf("got %s", FormatLength(6000))
	}
	if FormatLength(1234.5) != "1234.5" {
		t.Errorf("got %s", FormatLength(1234.5))
	}
}
