package model

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// Origin tells where a bar in a plan comes from.
type Origin string

const (
	OriginInventory Origin = "inventory" // Bar already owned
	OriginPurchased Origin = "purchased" // Bar that has to be ordered
)

func (o Origin) String() string {
	switch o {
	case OriginInventory:
		return "Inventory"
	case OriginPurchased:
		return "Purchased"
	default:
		return "Unknown"
	}
}

// DemandRow is one line of the cut list: a piece length and how many are needed.
type DemandRow struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Length   float64 `json:"length" validate:"gt=0"`   // mm
	Quantity int     `json:"quantity" validate:"gt=0"` // pieces
}

func NewDemandRow(length float64, qty int) DemandRow {
	return DemandRow{
		ID:       uuid.New().String()[:8],
		Length:   length,
		Quantity: qty,
	}
}

// InventoryRow describes bars already owned. It has the same shape as DemandRow.
type InventoryRow struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Length   float64 `json:"length" validate:"gt=0"`   // mm
	Quantity int     `json:"quantity" validate:"gt=0"` // bars
}

func NewInventoryRow(length float64, qty int) InventoryRow {
	return InventoryRow{
		ID:       uuid.New().String()[:8],
		Length:   length,
		Quantity: qty,
	}
}

// StockConfig holds the saw and purchasing parameters for one optimization.
type StockConfig struct {
	Kerf              float64 `json:"kerf" validate:"gte=0"`                // Blade width lost per cut (mm)
	MinLength         float64 `json:"min_length" validate:"gt=0"`           // Shortest purchasable bar (mm)
	MaxLength         float64 `json:"max_length" validate:"gt=0"`           // Longest purchasable bar (mm)
	StepSize          float64 `json:"step_size" validate:"gt=0"`            // Length increment between candidates (mm)
	MaxWasteThreshold float64 `json:"max_waste_threshold" validate:"gte=0"` // Acceptable leftover per bar (mm)
}

// DefaultStockConfig returns the settings a new workspace starts with.
func DefaultStockConfig() StockConfig {
	return StockConfig{
		Kerf:              5,
		MinLength:         3500,
		MaxLength:         6000,
		StepSize:          100,
		MaxWasteThreshold: 500,
	}
}

// Bin is one physical bar with the pieces cut from it, in cut order.
type Bin struct {
	Length    float64   `json:"length"`
	Cuts      []float64 `json:"cuts"`
	Remaining float64   `json:"remaining"` // Leftover after cuts and kerf losses
	Origin    Origin    `json:"origin"`
}

// NewBin returns an empty bar of the given length.
func NewBin(length float64, origin Origin) Bin {
	return Bin{Length: length, Remaining: length, Origin: origin}
}

// Required returns the space a piece consumes in this bin. The kerf is only
// charged once the bin already holds a cut.
func (b Bin) Required(piece, kerf float64) float64 {
	if len(b.Cuts) > 0 {
		return piece + kerf
	}
	return piece
}

// Fits reports whether the piece can be cut from what is left of the bin.
func (b Bin) Fits(piece, kerf float64) bool {
	return b.Remaining >= b.Required(piece, kerf)
}

// Place cuts the piece from the bin. The caller must check Fits first.
func (b *Bin) Place(piece, kerf float64) {
	b.Remaining -= b.Required(piece, kerf)
	b.Cuts = append(b.Cuts, piece)
}

// CutTotal returns the summed length of all pieces, kerf excluded.
func (b Bin) CutTotal() float64 {
	var total float64
	for _, c := range b.Cuts {
		total += c
	}
	return total
}

// KerfLoss returns the material lost to the saw between cuts.
func (b Bin) KerfLoss(kerf float64) float64 {
	if len(b.Cuts) < 2 {
		return 0
	}
	return kerf * float64(len(b.Cuts)-1)
}

// UsedLength returns the consumed length including kerf losses.
func (b Bin) UsedLength() float64 {
	return b.Length - b.Remaining
}

// WasteRatio returns the leftover as a fraction of the bar length.
func (b Bin) WasteRatio() float64 {
	if b.Length == 0 {
		return 0
	}
	return b.Remaining / b.Length
}

// Severity classifies a diagnostic warning.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning is an advisory message derived from a plan.
type Warning struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// SummaryEntry counts the bars of one length and origin in a plan.
type SummaryEntry struct {
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
	Origin   Origin  `json:"origin"`
}

// ResolvedLength is the purchased bar length chosen by the optimizer. It is
// either a single length, Mixed when several lengths were combined, or unset
// when nothing had to be purchased.
type ResolvedLength struct {
	Value float64
	Mixed bool
}

// IsSet reports whether any purchased length was resolved.
func (r ResolvedLength) IsSet() bool {
	return r.Mixed || r.Value > 0
}

func (r ResolvedLength) String() string {
	switch {
	case r.Mixed:
		return "mixed"
	case r.Value > 0:
		return FormatLength(r.Value)
	default:
		return "n/a"
	}
}

// MarshalJSON encodes a number, the string "mixed", or null.
func (r ResolvedLength) MarshalJSON() ([]byte, error) {
	switch {
	case r.Mixed:
		return []byte(`"mixed"`), nil
	case r.Value > 0:
		return json.Marshal(r.Value)
	default:
		return []byte("null"), nil
	}
}

func (r *ResolvedLength) UnmarshalJSON(data []byte) error {
	*r = ResolvedLength{}
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Mixed = s == "mixed"
		return nil
	}
	return json.Unmarshal(data, &r.Value)
}

// Plan is the full cutting plan returned by the optimizer.
type Plan struct {
	Bins            []Bin          `json:"bins"`
	Summary         []SummaryEntry `json:"summary"`
	Efficiency      string         `json:"efficiency"` // Two-decimal percentage
	EfficiencyValue float64        `json:"-"`
	TotalUsed       float64        `json:"total_used"`
	TotalLength     float64        `json:"total_length"`
	TotalWaste      float64        `json:"total_waste"`
	TotalBins       int            `json:"total_bins"`
	TotalPieces     int            `json:"total_pieces"`
	ResolvedLength  ResolvedLength `json:"resolved_length"`
	Warnings        []Warning      `json:"warnings"`
}

// PurchasedBins returns the number of bars that have to be ordered.
func (p Plan) PurchasedBins() int {
	n := 0
	for _, b := range p.Bins {
		if b.Origin == OriginPurchased {
			n++
		}
	}
	return n
}

// CutCount returns the number of pieces cut across all bars.
func (p Plan) CutCount() int {
	n := 0
	for _, b := range p.Bins {
		n += len(b.Cuts)
	}
	return n
}

// HasErrors reports whether any diagnostic has error severity.
func (p Plan) HasErrors() bool {
	for _, w := range p.Warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Workspace is the user's working set: the cut list, owned bars, settings and
// a short history of past results.
type Workspace struct {
	Demand    []DemandRow    `json:"demand"`
	Inventory []InventoryRow `json:"inventory"`
	Config    StockConfig    `json:"config"`
	History   []HistoryEntry `json:"history"`
}

func NewWorkspace() Workspace {
	return Workspace{
		Demand:    []DemandRow{},
		Inventory: []InventoryRow{},
		Config:    DefaultStockConfig(),
		History:   []HistoryEntry{},
	}
}

// FormatLength renders a length in mm without trailing zeros.
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
