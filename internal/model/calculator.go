package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PurchaseLine is the order quantity for one purchased bar length.
type PurchaseLine struct {
	Length   float64         `json:"length"`   // mm
	Quantity int             `json:"quantity"` // bars
	Metres   decimal.Decimal `json:"metres"`
	Cost     decimal.Decimal `json:"cost"`
}

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	Lines         []PurchaseLine  `json:"lines"`
	TotalBars     int             `json:"total_bars"`
	TotalMetres   decimal.Decimal `json:"total_metres"`
	PricePerMetre decimal.Decimal `json:"price_per_metre"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

var mmPerMetre = decimal.NewFromInt(1000)

// CalculatePurchaseEstimate computes the bars to order for a plan and their
// cost at the given price per metre. Inventory bars are free and excluded.
func CalculatePurchaseEstimate(p Plan, pricePerMetre float64) PurchaseEstimate {
	price := decimal.NewFromFloat(pricePerMetre)

	counts := make(map[float64]int)
	for _, b := range p.Bins {
		if b.Origin == OriginPurchased {
			counts[b.Length]++
		}
	}

	est := PurchaseEstimate{
		PricePerMetre: price,
		TotalMetres:   decimal.Zero,
		EstimatedCost: decimal.Zero,
	}
	for length, qty := range counts {
		metres := decimal.NewFromFloat(length).Mul(decimal.NewFromInt(int64(qty))).Div(mmPerMetre)
		cost := metres.Mul(price).Round(2)
		est.Lines = append(est.Lines, PurchaseLine{
			Length:   length,
			Quantity: qty,
			Metres:   metres,
			Cost:     cost,
		})
		est.TotalBars += qty
		est.TotalMetres = est.TotalMetres.Add(metres)
		est.EstimatedCost = est.EstimatedCost.Add(cost)
	}

	sort.Slice(est.Lines, func(i, j int) bool {
		return est.Lines[i].Length > est.Lines[j].Length
	})
	return est
}

// HasPricing reports whether a price was supplied.
func (e PurchaseEstimate) HasPricing() bool {
	return e.PricePerMetre.IsPositive()
}
