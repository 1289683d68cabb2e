package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
)

var (
	importAsInventory bool
	importReplace     bool
)

// importCmd loads a cut list or stock list from a file into the workspace.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a cut list from CSV, Excel, DXF or text",
	Long: `Import rows of length and quantity into the workspace.

Rows with a length already in the list add to its quantity; new lengths are
appended. Use --replace to start from an empty list and --inventory to import
bars you own instead of pieces you need.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		res, err := importRows(args[0])
		if err != nil {
			return err
		}
		if err := applyImport(s, res); err != nil {
			return err
		}
		s.app.AddRecentFile(args[0], 10)
		return s.saveConfig()
	},
}

// pasteCmd reads pasted spreadsheet text from stdin.
var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Import rows pasted on stdin",
	Long: `Read lines of text from stdin. The first two numbers on each line are the
length and the quantity; tabs, commas, semicolons, pipes and spaces all
separate values.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res := importer.ParsePaste(string(data))
		for _, w := range res.Warnings {
			logger.Warn().Msg(w)
		}
		for _, e := range res.Errors {
			logger.Error().Msg(e)
		}
		if len(res.Rows) == 0 {
			return fmt.Errorf("no valid rows found in pasted text")
		}
		return applyImport(s, res)
	},
}

// applyImport merges or replaces the workspace rows and saves the workspace.
func applyImport(s *state, res importer.ImportResult) error {
	if importAsInventory {
		rows := res.InventoryRows()
		if importReplace {
			s.ws.Inventory = rows
		} else {
			s.ws.Inventory = model.MergeInventory(s.ws.Inventory, rows)
		}
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(s.ws.Inventory)
		}
		PrintSuccess(fmt.Sprintf("Imported %s; inventory now holds %s",
			PrintCount(len(rows), "row", "rows"), PrintCount(model.TotalBars(s.ws.Inventory), "bar", "bars")))
		return nil
	}

	added, updated := len(res.Rows), 0
	if importReplace {
		s.ws.Demand = res.Rows
	} else {
		s.ws.Demand, added, updated = model.MergeDemand(s.ws.Demand, res.Rows)
	}
	if err := s.saveWorkspace(); err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(s.ws.Demand)
	}
	PrintSuccess(fmt.Sprintf("Imported %s (%d added, %d updated); cut list now has %s",
		PrintCount(len(res.Rows), "row", "rows"), added, updated,
		PrintCount(model.TotalPieces(s.ws.Demand), "piece", "pieces")))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{importCmd, pasteCmd} {
		c.Flags().BoolVar(&importAsInventory, "inventory", false, "Import owned bars instead of required pieces")
		c.Flags().BoolVar(&importReplace, "replace", false, "Replace the list instead of merging into it")
	}
}
