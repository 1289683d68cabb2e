package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/model"
)

var historyClear bool

// historyCmd shows the headline figures of past runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent optimization results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if historyClear {
			s.ws.History = []model.HistoryEntry{}
			if err := s.saveWorkspace(); err != nil {
				return err
			}
			PrintSuccess("History cleared")
			return nil
		}
		if jsonOutput {
			return outputJSON(s.ws.History)
		}

		PrintSection("History")
		if len(s.ws.History) == 0 {
			PrintEmptyState("No results yet.")
			return nil
		}
		rows := make([][]string, len(s.ws.History))
		for i, h := range s.ws.History {
			rows[i] = []string{
				h.Timestamp.Local().Format(time.DateTime),
				h.Efficiency + "%",
				strconv.Itoa(h.TotalBins),
				h.ResolvedLength.String(),
				model.FormatLength(h.TotalWaste),
			}
		}
		PrintTable([]string{"When", "Efficiency", "Bars", "Length", "Waste"}, rows)
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all history entries")
}
