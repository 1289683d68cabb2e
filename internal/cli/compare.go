package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/engine"
)

// comparisonRow is the JSON shape of one compared scenario.
type comparisonRow struct {
	Name          string  `json:"name"`
	BarsUsed      int     `json:"bars_used"`
	BarsPurchased int     `json:"bars_purchased"`
	Efficiency    float64 `json:"efficiency"`
	WastePercent  float64 `json:"waste_percent"`
	Error         string  `json:"error,omitempty"`
}

// compareCmd runs the cut list under a few stock variations.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the plan under alternative stock settings",
	Long: `Optimize the workspace cut list under the current settings and a few
variations (thinner blade, finer length steps, shorter bars, fixed-length
bars) and show the results side by side.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		cfg := s.ws.Config
		applyConfigOverrides(cmd, &cfg)

		scenarios := engine.BuildDefaultScenarios(cfg, s.ws.Demand)
		results := engine.CompareScenarios(scenarios, s.ws.Demand, s.ws.Inventory)

		out := make([]comparisonRow, len(results))
		for i, r := range results {
			out[i] = comparisonRow{
				Name:          r.Scenario.Name,
				BarsUsed:      r.BarsUsed,
				BarsPurchased: r.BarsPurchased,
				Efficiency:    r.Efficiency,
				WastePercent:  r.WastePercent,
			}
			if r.Err != nil {
				out[i].Error = r.Err.Error()
			}
		}
		if jsonOutput {
			return outputJSON(out)
		}

		PrintSection("Scenario Comparison")
		rows := make([][]string, 0, len(out))
		for _, r := range out {
			if r.Error != "" {
				rows = append(rows, []string{r.Name, "-", "-", "-", r.Error})
				continue
			}
			rows = append(rows, []string{
				r.Name,
				strconv.Itoa(r.BarsUsed),
				strconv.Itoa(r.BarsPurchased),
				fmt.Sprintf("%.2f%%", r.Efficiency),
				fmt.Sprintf("%.2f%%", r.WastePercent),
			})
		}
		PrintTable([]string{"Scenario", "Bars", "To buy", "Efficiency", "Waste"}, rows)
		return nil
	},
}

func init() {
	addStockFlags(compareCmd)
}
