package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/model"
)

// parseRowArgs reads "<length> <quantity> [label...]" command arguments.
func parseRowArgs(args []string) (length float64, qty int, label string, err error) {
	length, err = strconv.ParseFloat(args[0], 64)
	if err != nil || length <= 0 {
		return 0, 0, "", fmt.Errorf("invalid length %q: must be a positive number of mm", args[0])
	}
	qty, err = strconv.Atoi(args[1])
	if err != nil || qty <= 0 {
		return 0, 0, "", fmt.Errorf("invalid quantity %q: must be a positive whole number", args[1])
	}
	return length, qty, strings.Join(args[2:], " "), nil
}

// demandCmd groups the cut list commands.
var demandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Manage the pieces to cut",
}

var demandListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the cut list",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(s.ws.Demand)
		}
		PrintSection("Cut List")
		if len(s.ws.Demand) == 0 {
			PrintEmptyState("No pieces yet. Add some with 'barcut demand add' or 'barcut import'.")
			return nil
		}
		rows := make([][]string, len(s.ws.Demand))
		for i, d := range s.ws.Demand {
			rows[i] = []string{d.ID, model.FormatLength(d.Length), strconv.Itoa(d.Quantity), d.Label}
		}
		PrintTable([]string{"ID", "Length", "Qty", "Label"}, rows)
		PrintInfo(fmt.Sprintf("\n%s in total", PrintCount(model.TotalPieces(s.ws.Demand), "piece", "pieces")))
		return nil
	},
}

var demandAddCmd = &cobra.Command{
	Use:   "add <length> <quantity> [label]",
	Short: "Add pieces to the cut list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		length, qty, label, err := parseRowArgs(args)
		if err != nil {
			return err
		}
		s, err := loadState()
		if err != nil {
			return err
		}
		row := model.NewDemandRow(length, qty)
		row.Label = label
		s.ws.Demand, _, _ = model.MergeDemand(s.ws.Demand, []model.DemandRow{row})
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Added %d x %s", qty, mm(length)))
		return nil
	},
}

var demandRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a row from the cut list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		kept := s.ws.Demand[:0]
		for _, d := range s.ws.Demand {
			if d.ID != args[0] {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(s.ws.Demand) {
			return fmt.Errorf("no cut list row with id %q", args[0])
		}
		s.ws.Demand = kept
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess("Removed row " + args[0])
		return nil
	},
}

var demandClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all pieces from the cut list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		s.ws.Demand = []model.DemandRow{}
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess("Cut list cleared")
		return nil
	},
}

// stockCmd groups the inventory commands.
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage the bars you already own",
}

var stockListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List owned bars",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(s.ws.Inventory)
		}
		PrintSection("Inventory")
		if len(s.ws.Inventory) == 0 {
			PrintEmptyState("No bars in stock. Every bar will be purchased.")
			return nil
		}
		rows := make([][]string, len(s.ws.Inventory))
		for i, r := range s.ws.Inventory {
			rows[i] = []string{r.ID, model.FormatLength(r.Length), strconv.Itoa(r.Quantity), r.Label}
		}
		PrintTable([]string{"ID", "Length", "Qty", "Label"}, rows)
		PrintInfo(fmt.Sprintf("\n%s in stock", PrintCount(model.TotalBars(s.ws.Inventory), "bar", "bars")))
		return nil
	},
}

var stockAddCmd = &cobra.Command{
	Use:   "add <length> <quantity> [label]",
	Short: "Add owned bars",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		length, qty, label, err := parseRowArgs(args)
		if err != nil {
			return err
		}
		s, err := loadState()
		if err != nil {
			return err
		}
		row := model.NewInventoryRow(length, qty)
		row.Label = label
		s.ws.Inventory = model.MergeInventory(s.ws.Inventory, []model.InventoryRow{row})
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Added %d x %s to stock", qty, mm(length)))
		return nil
	},
}

var stockRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a row from the inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		kept := s.ws.Inventory[:0]
		for _, r := range s.ws.Inventory {
			if r.ID != args[0] {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(s.ws.Inventory) {
			return fmt.Errorf("no inventory row with id %q", args[0])
		}
		s.ws.Inventory = kept
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess("Removed row " + args[0])
		return nil
	},
}

var stockClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all owned bars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		s.ws.Inventory = []model.InventoryRow{}
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess("Inventory cleared")
		return nil
	},
}

func init() {
	demandCmd.AddCommand(demandListCmd, demandAddCmd, demandRmCmd, demandClearCmd)
	stockCmd.AddCommand(stockListCmd, stockAddCmd, stockRmCmd, stockClearCmd)
}
