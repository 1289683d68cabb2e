package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

var templateDescription string

// templateCmd groups the saved job commands.
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Save and reuse cut lists",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the cut list and stock settings as a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		store, err := project.LoadTemplates(s.templatesPath)
		if err != nil {
			return err
		}
		store.Put(model.NewJobTemplate(args[0], templateDescription, s.ws))
		if err := project.SaveTemplates(s.templatesPath, store); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Saved template %q (%s)", args[0],
			PrintCount(model.TotalPieces(s.ws.Demand), "piece", "pieces")))
		return nil
	},
}

var templateLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Replace the cut list and stock settings with a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		store, err := project.LoadTemplates(s.templatesPath)
		if err != nil {
			return err
		}
		t := store.FindByName(args[0])
		if t == nil {
			return fmt.Errorf("no template named %q", args[0])
		}
		t.ApplyTo(&s.ws)
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Loaded template %q", args[0]))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved templates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		store, err := project.LoadTemplates(s.templatesPath)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(store.Templates)
		}
		PrintSection("Templates")
		if len(store.Templates) == 0 {
			PrintEmptyState("No templates saved.")
			return nil
		}
		rows := make([][]string, len(store.Templates))
		for i, t := range store.Templates {
			rows[i] = []string{t.Name, fmt.Sprintf("%d", model.TotalPieces(t.Demand)), t.UpdatedAt, t.Description}
		}
		PrintTable([]string{"Name", "Pieces", "Updated", "Description"}, rows)
		return nil
	},
}

var templateRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		store, err := project.LoadTemplates(s.templatesPath)
		if err != nil {
			return err
		}
		if !store.Remove(args[0]) {
			return fmt.Errorf("no template named %q", args[0])
		}
		if err := project.SaveTemplates(s.templatesPath, store); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Deleted template %q", args[0]))
		return nil
	},
}

func init() {
	templateSaveCmd.Flags().StringVarP(&templateDescription, "description", "d", "", "Short note stored with the template")
	templateCmd.AddCommand(templateSaveCmd, templateLoadCmd, templateListCmd, templateRmCmd)
}
