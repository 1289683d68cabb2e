package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/BarCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Workspace model.Workspace `json:"workspace"`
}

// ExportAllData writes the application config and the workspace to a single
// JSON file at exportPath.
func ExportAllData(exportPath string, config model.AppConfig, ws model.Workspace) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Workspace: ws,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config and workspace.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentFiles == nil {
		backup.Config.RecentFiles = []string{}
	}
	if backup.Workspace.Demand == nil {
		backup.Workspace.Demand = []model.DemandRow{}
	}
	if backup.Workspace.Inventory == nil {
		backup.Workspace.Inventory = []model.InventoryRow{}
	}
	if backup.Workspace.History == nil {
		backup.Workspace.History = []model.HistoryEntry{}
	}
	if backup.Workspace.Config == (model.StockConfig{}) {
		backup.Workspace.Config = backup.Config.StockConfig()
	}
	return backup, nil
}
