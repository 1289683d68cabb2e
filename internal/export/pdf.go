// Package export writes cutting plans to Excel workbooks, PDF reports and
// QR-coded label sheets.
package export

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BarCut/internal/model"
)

// pieceColor represents an RGB fill for one piece length.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	barCaptionHeight = 5.0
	barHeight        = 9.0
	barSpacing       = 5.0
	barRowHeight     = barCaptionHeight + barHeight + barSpacing
)

// barGroup is a run of consecutive bars with the same length, origin and cuts.
// They are drawn once with a count.
type barGroup struct {
	First int // 1-based index of the first bar
	Count int
	Bin   model.Bin
}

// groupBars collapses consecutive identical bars.
func groupBars(bins []model.Bin) []barGroup {
	var groups []barGroup
	for i, b := range bins {
		if n := len(groups); n > 0 {
			g := &groups[n-1]
			if g.Bin.Length == b.Length && g.Bin.Origin == b.Origin && slices.Equal(g.Bin.Cuts, b.Cuts) {
				g.Count++
				continue
			}
		}
		groups = append(groups, barGroup{First: i + 1, Count: 1, Bin: b})
	}
	return groups
}

func (g barGroup) title() string {
	if g.Count == 1 {
		return fmt.Sprintf("Bar #%d", g.First)
	}
	return fmt.Sprintf("Bars #%d-#%d (%d bars)", g.First, g.First+g.Count-1, g.Count)
}

// colorIndex assigns each distinct piece length a palette slot, longest first.
func colorIndex(bins []model.Bin) map[float64]int {
	seen := make(map[float64]bool)
	var lengths []float64
	for _, b := range bins {
		for _, c := range b.Cuts {
			if !seen[c] {
				seen[c] = true
				lengths = append(lengths, c)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(lengths)))
	idx := make(map[float64]int, len(lengths))
	for i, l := range lengths {
		idx[l] = i % len(pieceColors)
	}
	return idx
}

// ExportPDF writes a cutting report: bar diagrams, several per page, followed
// by a summary page with totals, the order list and the diagnostics. The
// estimate section is included when the estimate carries a price.
func ExportPDF(path string, plan model.Plan, cfg model.StockConfig, estimate model.PurchaseEstimate) error {
	if len(plan.Bins) == 0 {
		return fmt.Errorf("no bars to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	groups := groupBars(plan.Bins)
	colors := colorIndex(plan.Bins)

	var longest float64
	for _, b := range plan.Bins {
		longest = math.Max(longest, b.Length)
	}
	scale := (pageWidth - marginLeft - marginRight) / longest

	perPage := barsPerPage()
	pages := (len(groups) + perPage - 1) / perPage
	for p := 0; p < pages; p++ {
		pdf.AddPage()
		renderPageHeader(pdf, plan, p+1, pages)

		end := min((p+1)*perPage, len(groups))
		y := drawAreaTop
		for _, g := range groups[p*perPage : end] {
			renderBar(pdf, g, cfg.Kerf, scale, colors, y)
			y += barRowHeight
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, cfg, estimate)

	return pdf.OutputFileAndClose(path)
}

// barsPerPage returns how many bar rows fit below the page header.
func barsPerPage() int {
	drawHeight := pageHeight - drawAreaTop - marginBottom
	return max(1, int(math.Floor(drawHeight/barRowHeight)))
}

func renderPageHeader(pdf *fpdf.Fpdf, plan model.Plan, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting Plan (%d/%d)", page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Bars: %d | Pieces: %d | Efficiency: %s%% | Waste: %s mm | Stock length: %s",
		plan.TotalBins, plan.TotalPieces, plan.Efficiency, model.FormatLength(plan.TotalWaste), plan.ResolvedLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderBar draws one bar diagram: pieces in colour, kerf gaps dark and the
// leftover hatched.
func renderBar(pdf *fpdf.Fpdf, g barGroup, kerf, scale float64, colors map[float64]int, y float64) {
	b := g.Bin

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	caption := fmt.Sprintf("%s: %s mm, %s, waste %s mm (%.1f%%)",
		g.title(), model.FormatLength(b.Length), b.Origin, model.FormatLength(b.Remaining), b.WasteRatio()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, barCaptionHeight, caption, "", 0, "L", false, 0, "")

	top := y + barCaptionHeight
	x := marginLeft

	// Bar outline
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.SetFillColor(230, 230, 230)
	pdf.Rect(x, top, b.Length*scale, barHeight, "FD")

	for i, c := range b.Cuts {
		if i > 0 && kerf > 0 {
			pdf.SetFillColor(40, 40, 40)
			pdf.Rect(x, top, kerf*scale, barHeight, "F")
			x += kerf * scale
		}

		col := pieceColors[colors[c]]
		w := c * scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, top, w, barHeight, "FD")

		label := model.FormatLength(c)
		pdf.SetFont("Helvetica", "", labelFontSize(w))
		if lw := pdf.GetStringWidth(label); lw < w-1 {
			pdf.SetXY(x+(w-lw)/2, top+(barHeight-4)/2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
		x += w
	}

	if b.Remaining > 0 {
		drawHatchPattern(pdf, x, top, b.Remaining*scale, barHeight)
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark scrap.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.15)

	spacing := 2.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.Plan, cfg model.StockConfig, estimate model.PurchaseEstimate) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	y = renderKeyValues(pdf, "Overall Statistics", y, [][2]string{
		{"Total Bars", fmt.Sprintf("%d", plan.TotalBins)},
		{"Purchased Bars", fmt.Sprintf("%d", plan.PurchasedBins())},
		{"Total Pieces", fmt.Sprintf("%d", plan.TotalPieces)},
		{"Efficiency", plan.Efficiency + "%"},
		{"Material Used", model.FormatLength(plan.TotalUsed) + " mm"},
		{"Total Waste", model.FormatLength(plan.TotalWaste) + " mm"},
		{"Stock Length", plan.ResolvedLength.String()},
	})

	// Order summary table
	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Order Summary", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{40, 30, 40, 40}
	headers := []string{"Length", "Quantity", "Origin", "Total Length"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range plan.Summary {
		row := []string{
			model.FormatLength(s.Length) + " mm",
			fmt.Sprintf("%d", s.Quantity),
			s.Origin.String(),
			model.FormatLength(s.Length*float64(s.Quantity)) + " mm",
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if estimate.HasPricing() {
		y += 5
		y = renderKeyValues(pdf, "Purchase Estimate", y, [][2]string{
			{"Bars to Order", fmt.Sprintf("%d", estimate.TotalBars)},
			{"Metres", estimate.TotalMetres.StringFixed(2) + " m"},
			{"Price per Metre", estimate.PricePerMetre.StringFixed(2)},
			{"Estimated Cost", estimate.EstimatedCost.StringFixed(2)},
		})
	}

	// Settings block on the right-hand column
	renderKeyValues(pdf, "Stock Settings", marginTop+18, [][2]string{
		{"Kerf", model.FormatLength(cfg.Kerf) + " mm"},
		{"Min Length", model.FormatLength(cfg.MinLength) + " mm"},
		{"Max Length", model.FormatLength(cfg.MaxLength) + " mm"},
		{"Step", model.FormatLength(cfg.StepSize) + " mm"},
		{"Max Waste", model.FormatLength(cfg.MaxWasteThreshold) + " mm"},
	}, 160)

	if len(plan.Warnings) > 0 {
		y += 5
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Warnings", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 8)
		for _, w := range plan.Warnings {
			if y > pageHeight-marginBottom-8 {
				break
			}
			switch w.Severity {
			case model.SeverityError:
				pdf.SetTextColor(200, 0, 0)
			case model.SeverityWarning:
				pdf.SetTextColor(180, 110, 0)
			default:
				pdf.SetTextColor(60, 60, 160)
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.MultiCell(pageWidth-marginLeft-marginRight-5, 4, "- "+w.Message, "", "L", false)
			y = pdf.GetY() + 1
		}
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BarCut - Bar Cutting Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderKeyValues draws a titled list of label/value pairs and returns the
// y position below it. An optional x offset places it in another column.
func renderKeyValues(pdf *fpdf.Fpdf, title string, y float64, items [][2]string, x ...float64) float64 {
	left := marginLeft
	if len(x) > 0 {
		left = x[0]
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(left, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	for _, item := range items {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(left+5, y)
		pdf.CellFormat(45, 6, item[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, item[1], "", 0, "L", false, 0, "")
		y += 7
	}
	pdf.SetFont("Helvetica", "", 10)
	return y
}

// labelFontSize returns a font size that fits a piece of the given drawn width.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 8
	case w > 20:
		return 7
	default:
		return 6
	}
}
