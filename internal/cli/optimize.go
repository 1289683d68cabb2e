package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/export"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

var (
	optInventoryFile string
	optKerf          float64
	optMin           float64
	optMax           float64
	optStep          float64
	optMaxWaste      float64
	optTimeout       time.Duration
	optWorkers       int
	optXLSX          string
	optPDF           string
	optLabels        string
	optPrice         float64
	optNoHistory     bool
	optConsume       bool
)

// optimizeReport is the JSON shape of an optimize run.
type optimizeReport struct {
	Config   model.StockConfig       `json:"config"`
	Plan     model.Plan              `json:"plan"`
	Purchase *model.PurchaseEstimate `json:"purchase,omitempty"`
	Offcuts  []model.Offcut          `json:"offcuts"`
}

// optimizeCmd computes a cutting plan.
var optimizeCmd = &cobra.Command{
	Use:   "optimize [file]",
	Short: "Compute a cutting plan",
	Long: `Compute a cutting plan for the workspace cut list, or for the cut list in
file (CSV, Excel, DXF or pasted text) when one is given.

Bars from the inventory are used first. The remaining pieces are packed on
purchasable lengths between --min and --max in steps of --step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}

		demand := s.ws.Demand
		if len(args) == 1 {
			res, err := importRows(args[0])
			if err != nil {
				return err
			}
			demand = res.Rows
		}

		inventory := s.ws.Inventory
		if optInventoryFile != "" {
			if optConsume {
				return fmt.Errorf("--consume only works with the workspace inventory")
			}
			res, err := importRows(optInventoryFile)
			if err != nil {
				return err
			}
			inventory = res.InventoryRows()
		}

		cfg := s.ws.Config
		applyConfigOverrides(cmd, &cfg)

		timeout := optTimeout
		if !cmd.Flags().Changed("timeout") {
			timeout = time.Duration(s.app.TimeoutSeconds) * time.Second
		}

		plan, err := runOptimize(cmd.Context(), cfg, demand, inventory, timeout)
		if err != nil {
			return err
		}

		price := s.app.PricePerMetre
		if cmd.Flags().Changed("price") {
			price = optPrice
		}
		estimate := model.CalculatePurchaseEstimate(plan, price)

		if err := writeExports(plan, cfg, estimate); err != nil {
			return err
		}

		offcuts := model.DetectOffcuts(plan, cfg.Kerf, model.MinOffcutLength)
		if optConsume {
			s.ws.Inventory = model.ConsumeInventory(s.ws.Inventory, plan)
			s.ws.Inventory = model.MergeInventory(s.ws.Inventory, model.OffcutsToInventory(offcuts))
			if err := s.saveWorkspace(); err != nil {
				return err
			}
			logger.Info().Int("bars_left", model.TotalBars(s.ws.Inventory)).Msg("inventory updated")
		}

		if !optNoHistory {
			if _, err := project.RecordHistory(s.workspacePath, plan, time.Now(), s.app.HistoryLimit, s.ws.Config); err != nil {
				return err
			}
		}

		if jsonOutput {
			report := optimizeReport{Config: cfg, Plan: plan, Offcuts: offcuts}
			if estimate.HasPricing() {
				report.Purchase = &estimate
			}
			if report.Offcuts == nil {
				report.Offcuts = []model.Offcut{}
			}
			return outputJSON(report)
		}

		printPlan(plan, cfg.Kerf, estimate, s.app.Currency)
		if len(offcuts) > 0 {
			PrintInfo(fmt.Sprintf("\n%s worth keeping (%s total).",
				PrintCount(len(offcuts), "offcut", "offcuts"), mm(model.TotalOffcutLength(offcuts))))
		}
		return nil
	},
}

// applyConfigOverrides copies explicitly set flags over cfg.
func applyConfigOverrides(cmd *cobra.Command, cfg *model.StockConfig) {
	flags := cmd.Flags()
	if flags.Changed("kerf") {
		cfg.Kerf = optKerf
	}
	if flags.Changed("min") {
		cfg.MinLength = optMin
	}
	if flags.Changed("max") {
		cfg.MaxLength = optMax
	}
	if flags.Changed("step") {
		cfg.StepSize = optStep
	}
	if flags.Changed("max-waste") {
		cfg.MaxWasteThreshold = optMaxWaste
	}
}

// runOptimize runs the engine with an optional deadline.
func runOptimize(ctx context.Context, cfg model.StockConfig, demand []model.DemandRow, inventory []model.InventoryRow, timeout time.Duration) (model.Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	workers := optWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	opt := engine.New(cfg, engine.WithLogger(logger), engine.WithWorkers(workers))

	start := time.Now()
	plan, err := opt.OptimizeContext(ctx, demand, inventory)
	if errors.Is(err, context.DeadlineExceeded) {
		return model.Plan{}, fmt.Errorf("optimization timed out after %s", timeout)
	}
	if err != nil {
		return model.Plan{}, err
	}
	logger.Debug().Dur("took", time.Since(start)).Msg("optimization finished")
	return plan, nil
}

func writeExports(plan model.Plan, cfg model.StockConfig, estimate model.PurchaseEstimate) error {
	if optXLSX != "" {
		if err := export.ExportExcel(optXLSX, plan, estimate); err != nil {
			return fmt.Errorf("excel export failed: %w", err)
		}
		logger.Info().Str("file", optXLSX).Msg("workbook written")
	}
	if optPDF != "" {
		if err := export.ExportPDF(optPDF, plan, cfg, estimate); err != nil {
			return fmt.Errorf("pdf export failed: %w", err)
		}
		logger.Info().Str("file", optPDF).Msg("report written")
	}
	if optLabels != "" {
		if err := export.ExportLabels(optLabels, plan, cfg.Kerf); err != nil {
			return fmt.Errorf("label export failed: %w", err)
		}
		logger.Info().Str("file", optLabels).Msg("labels written")
	}
	return nil
}

func printPlan(plan model.Plan, kerf float64, estimate model.PurchaseEstimate, currency string) {
	PrintSection("Cutting Plan")
	rows := make([][]string, 0, len(plan.Bins))
	for i, b := range plan.Bins {
		cuts := make([]string, len(b.Cuts))
		for j, c := range b.Cuts {
			cuts[j] = model.FormatLength(c)
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", i+1),
			model.FormatLength(b.Length),
			strings.Join(cuts, " + "),
			model.FormatLength(b.Remaining),
			b.Origin.String(),
		})
	}
	PrintTable([]string{"Bar", "Length", "Cuts", "Waste", "Origin"}, rows)

	PrintSection("Order Summary")
	summary := make([][]string, 0, len(plan.Summary))
	for _, e := range plan.Summary {
		summary = append(summary, []string{
			model.FormatLength(e.Length),
			fmt.Sprintf("%d", e.Quantity),
			e.Origin.String(),
		})
	}
	PrintTable([]string{"Length", "Qty", "Origin"}, summary)

	PrintSection("Statistics")
	PrintLabelValue("Efficiency", plan.Efficiency+"%")
	PrintLabelValue("Bars", fmt.Sprintf("%d (%d to buy)", plan.TotalBins, plan.PurchasedBins()))
	PrintLabelValue("Pieces", fmt.Sprintf("%d of %d cut", plan.CutCount(), plan.TotalPieces))
	PrintLabelValue("Material", mm(plan.TotalLength))
	PrintLabelValue("Waste", mm(plan.TotalWaste))
	var kerfLoss float64
	for _, b := range plan.Bins {
		kerfLoss += b.KerfLoss(kerf)
	}
	PrintLabelValue("Lost to kerf", mm(kerfLoss))
	if plan.ResolvedLength.IsSet() {
		PrintLabelValue("Resolved length", plan.ResolvedLength.String())
	} else {
		PrintLabelValue("Resolved length", "nothing to buy")
	}
	if estimate.HasPricing() {
		PrintLabelValue("Estimated cost", fmt.Sprintf("%s %s (%s m)",
			estimate.EstimatedCost.StringFixed(2), currency, estimate.TotalMetres.StringFixed(2)))
	}

	if len(plan.Warnings) > 0 {
		PrintSection("Diagnostics")
		PrintDiagnostics(plan.Warnings)
	}
	if plan.HasErrors() {
		fmt.Fprintln(stdout)
		PrintWarning("Some bars waste most of their length; review the diagnostics before ordering.")
	}
}

// addStockFlags registers the per-run stock overrides on cmd.
func addStockFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&optKerf, "kerf", 0, "Blade width lost per cut in mm")
	cmd.Flags().Float64Var(&optMin, "min", 0, "Shortest purchasable bar in mm")
	cmd.Flags().Float64Var(&optMax, "max", 0, "Longest purchasable bar in mm")
	cmd.Flags().Float64Var(&optStep, "step", 0, "Step between purchasable lengths in mm")
	cmd.Flags().Float64Var(&optMaxWaste, "max-waste", 0, "Acceptable leftover per bar in mm")
}

func init() {
	addStockFlags(optimizeCmd)
	optimizeCmd.Flags().StringVar(&optInventoryFile, "inventory", "", "Read owned bars from this file instead of the workspace")
	optimizeCmd.Flags().DurationVar(&optTimeout, "timeout", 0, "Give up after this long (default from config)")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", 0, "Goroutines used to evaluate candidate lengths (default: CPU count)")
	optimizeCmd.Flags().StringVar(&optXLSX, "xlsx", "", "Write the plan to an Excel workbook")
	optimizeCmd.Flags().StringVar(&optPDF, "pdf", "", "Write a PDF cutting report")
	optimizeCmd.Flags().StringVar(&optLabels, "labels", "", "Write a PDF sheet of QR piece labels")
	optimizeCmd.Flags().Float64Var(&optPrice, "price", 0, "Price per metre for the cost estimate")
	optimizeCmd.Flags().BoolVar(&optNoHistory, "no-history", false, "Do not record this run in the history")
	optimizeCmd.Flags().BoolVar(&optConsume, "consume", false, "Remove used bars from the inventory and add usable offcuts")
}
