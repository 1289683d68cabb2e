package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BarCut/internal/model"
)

// DefaultWorkspacePath returns the location of the saved workspace,
// ~/.barcut/workspace.json.
func DefaultWorkspacePath() string {
	return filepath.Join(DefaultConfigDir(), "workspace.json")
}

// SaveWorkspace writes the workspace snapshot to path.
func SaveWorkspace(path string, ws model.Workspace) error {
	if err := writeJSON(path, ws); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

// LoadWorkspace reads the workspace at path. When the file does not exist a
// new workspace using defaults is returned. Slices are never nil.
func LoadWorkspace(path string, defaults model.StockConfig) (model.Workspace, error) {
	ws := model.NewWorkspace()
	ws.Config = defaults

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ws, nil
		}
		return model.Workspace{}, fmt.Errorf("failed to read workspace: %w", err)
	}
	if err := json.Unmarshal(data, &ws); err != nil {
		return model.Workspace{}, fmt.Errorf("failed to parse workspace: %w", err)
	}

	if ws.Demand == nil {
		ws.Demand = []model.DemandRow{}
	}
	if ws.Inventory == nil {
		ws.Inventory = []model.InventoryRow{}
	}
	if ws.History == nil {
		ws.History = []model.HistoryEntry{}
	}
	return ws, nil
}

// ClearWorkspace deletes the saved workspace. A missing file is not an error.
func ClearWorkspace(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear workspace: %w", err)
	}
	return nil
}

// RecordHistory adds the plan's headline figures to the saved workspace
// history, keeping at most limit entries. defaults is used when no workspace
// has been saved yet.
func RecordHistory(path string, plan model.Plan, at time.Time, limit int, defaults model.StockConfig) (model.HistoryEntry, error) {
	ws, err := LoadWorkspace(path, defaults)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	entry := model.NewHistoryEntry(plan, at)
	ws.History = model.PushHistory(ws.History, entry, limit)
	if err := SaveWorkspace(path, ws); err != nil {
		return model.HistoryEntry{}, err
	}
	return entry, nil
}
