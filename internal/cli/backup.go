package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/project"
)

// backupCmd groups the backup commands.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore all settings and the workspace",
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write settings and workspace to a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if err := project.ExportAllData(args[0], s.app, s.ws); err != nil {
			return err
		}
		PrintSuccess("Backup written to " + args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore settings and workspace from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		backup, err := project.ImportAllData(args[0])
		if err != nil {
			return err
		}
		s.app, s.ws = backup.Config, backup.Workspace
		if err := s.saveConfig(); err != nil {
			return err
		}
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Restored backup from %s (version %s, created %s)", args[0], backup.Version, backup.CreatedAt))
		return nil
	},
}

// resetCmd deletes the saved workspace.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the workspace: cut list, inventory, settings and history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if err := project.ClearWorkspace(s.workspacePath); err != nil {
			return err
		}
		PrintSuccess("Workspace cleared")
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
}
