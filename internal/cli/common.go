package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

// state is the persisted data most commands work on.
type state struct {
	configPath    string
	workspacePath string
	templatesPath string
	app           model.AppConfig
	ws            model.Workspace
}

// loadState reads the app config and the workspace. A missing workspace
// starts from the configured default stock settings.
func loadState() (*state, error) {
	s := &state{
		configPath:    configFile,
		workspacePath: workspaceFile,
	}
	if s.configPath == "" {
		s.configPath = project.DefaultConfigPath()
	}
	if s.workspacePath == "" {
		s.workspacePath = project.DefaultWorkspacePath()
	}
	s.templatesPath = filepath.Join(filepath.Dir(s.configPath), "templates.json")

	app, err := project.LoadAppConfig(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	ws, err := project.LoadWorkspace(s.workspacePath, app.StockConfig())
	if err != nil {
		return nil, err
	}
	s.app, s.ws = app, ws
	return s, nil
}

func (s *state) saveWorkspace() error {
	return project.SaveWorkspace(s.workspacePath, s.ws)
}

func (s *state) saveConfig() error {
	if err := project.SaveAppConfig(s.configPath, s.app); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// importRows reads a cut list file and reports its problems. It fails only
// when nothing usable was found.
func importRows(path string) (importer.ImportResult, error) {
	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		logger.Warn().Str("file", path).Msg(w)
	}
	for _, e := range res.Errors {
		logger.Error().Str("file", path).Msg(e)
	}
	if len(res.Rows) == 0 {
		if len(res.Errors) > 0 {
			return res, fmt.Errorf("%s: %s", path, res.Errors[0])
		}
		return res, fmt.Errorf("%s: no rows found", path)
	}
	return res, nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
