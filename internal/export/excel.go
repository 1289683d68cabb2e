package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BarCut/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetSummary    = "Order Summary"
	SheetPlan       = "Cutting Plan"
	SheetStatistics = "Statistics"
)

// ExportExcel writes the plan to a workbook with an order summary, the
// per-bar cutting plan and the overall statistics.
func ExportExcel(path string, plan model.Plan, estimate model.PurchaseEstimate) error {
	if len(plan.Bins) == 0 {
		return fmt.Errorf("no bars to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetPlan, SheetStatistics} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRows(f, SheetSummary, headerStyle, summaryRows(plan)); err != nil {
		return err
	}
	if err := writeRows(f, SheetPlan, headerStyle, planRows(plan)); err != nil {
		return err
	}
	if err := writeRows(f, SheetStatistics, headerStyle, statisticsRows(plan, estimate)); err != nil {
		return err
	}

	widths := []struct {
		sheet, from, to string
		width           float64
	}{
		{SheetSummary, "A", "D", 16},
		{SheetPlan, "A", "B", 14},
		{SheetPlan, "C", "C", 48},
		{SheetPlan, "D", "E", 14},
		{SheetStatistics, "A", "A", 28},
		{SheetStatistics, "B", "B", 80},
	}
	for _, w := range widths {
		if err := f.SetColWidth(w.sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("failed to set column width on %s: %w", w.sheet, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func summaryRows(plan model.Plan) [][]interface{} {
	rows := [][]interface{}{{"Length (mm)", "Quantity", "Origin", "Total (mm)"}}
	for _, s := range plan.Summary {
		rows = append(rows, []interface{}{s.Length, s.Quantity, s.Origin.String(), s.Length * float64(s.Quantity)})
	}
	return rows
}

func planRows(plan model.Plan) [][]interface{} {
	rows := [][]interface{}{{"Bar", "Stock (mm)", "Cuts (mm)", "Waste (mm)", "Origin"}}
	for i, b := range plan.Bins {
		cuts := make([]string, len(b.Cuts))
		for j, c := range b.Cuts {
			cuts[j] = model.FormatLength(c)
		}
		rows = append(rows, []interface{}{i + 1, b.Length, strings.Join(cuts, " + "), b.Remaining, b.Origin.String()})
	}
	return rows
}

func statisticsRows(plan model.Plan, estimate model.PurchaseEstimate) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Efficiency (%)", plan.Efficiency},
		{"Total bars", plan.TotalBins},
		{"Purchased bars", plan.PurchasedBins()},
		{"Total pieces", plan.TotalPieces},
		{"Material used (mm)", plan.TotalUsed},
		{"Total stock length (mm)", plan.TotalLength},
		{"Total waste (mm)", plan.TotalWaste},
		{"Stock length", plan.ResolvedLength.String()},
	}
	if estimate.HasPricing() {
		rows = append(rows,
			[]interface{}{"Metres to order", estimate.TotalMetres.StringFixed(2)},
			[]interface{}{"Estimated cost", estimate.EstimatedCost.StringFixed(2)},
		)
	}
	for _, w := range plan.Warnings {
		rows = append(rows, []interface{}{"Warning (" + string(w.Severity) + ")", w.Message})
	}
	return rows
}

// writeRows fills a sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, headerStyle int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	return nil
}
