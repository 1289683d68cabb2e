package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/BarCut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	Bar       int          `json:"bar"`
	BarLength float64      `json:"bar_length_mm"`
	Origin    model.Origin `json:"origin"`
	Position  int          `json:"position"` // 1-based cut order on the bar
	Length    float64      `json:"length_mm"`
	Offset    float64      `json:"offset_mm"` // Distance from the bar start to the piece start
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos lists one label per cut piece, in bar and cut order.
// Offsets include the kerf lost before each piece.
func CollectLabelInfos(plan model.Plan, kerf float64) []LabelInfo {
	var labels []LabelInfo
	for i, b := range plan.Bins {
		offset := 0.0
		for j, c := range b.Cuts {
			if j > 0 {
				offset += kerf
			}
			labels = append(labels, LabelInfo{
				Bar:       i + 1,
				BarLength: b.Length,
				Origin:    b.Origin,
				Position:  j + 1,
				Length:    c,
				Offset:    offset,
			})
			offset += c
		}
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per cut piece. Labels
// are laid out on a standard label sheet (Avery 5160, 3 x 10 on US Letter).
func ExportLabels(path string, plan model.Plan, kerf float64) error {
	labels := CollectLabelInfos(plan, kerf)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for bar %d piece %d: %w", label.Bar, label.Position, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.Bar, info.Position)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Piece length (bold, larger)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5.5, model.FormatLength(info.Length)+" mm", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+7)
	barInfo := fmt.Sprintf("Bar #%d (%s mm) piece %d", info.Bar, model.FormatLength(info.BarLength), info.Position)
	pdf.CellFormat(textW, 3.5, barInfo, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+11)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ %s mm", model.FormatLength(info.Offset)), "", 1, "L", false, 0, "")

	if info.Origin == model.OriginInventory {
		pdf.SetXY(textX, y+labelPadding+14.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "From inventory", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
