package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

// testEnv points the CLI at files inside a temp dir.
type testEnv struct {
	workspace string
	config    string
}

func newTestEnv(t *testing.T) testEnv {
	dir := t.TempDir()
	return testEnv{
		workspace: filepath.Join(dir, "workspace.json"),
		config:    filepath.Join(dir, "config.json"),
	}
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes barcut with args and returns what it printed.
func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append(args, "--workspace", e.workspace, "--config", e.config))
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

// plainOutput turns off colors so printed text can be matched directly.
func plainOutput(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("barcut %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e testEnv) workspaceState(t *testing.T) model.Workspace {
	t.Helper()
	ws, err := project.LoadWorkspace(e.workspace, model.DefaultStockConfig())
	if err != nil {
		t.Fatalf("LoadWorkspace: %v", err)
	}
	return ws
}

func TestDemandAddMergesSameLength(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "4", "top", "rail")
	env.mustRun(t, "demand", "add", "2400", "1")
	env.mustRun(t, "demand", "add", "950", "2")

	out := env.mustRun(t, "demand", "list", "--json")
	var rows []model.DemandRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("expected JSON rows, got %q: %v", out, err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Length != 2400 || rows[0].Quantity != 5 {
		t.Errorf("expected 2400 x 5, got %v x %d", rows[0].Length, rows[0].Quantity)
	}
	if rows[0].Label != "top rail" {
		t.Errorf("expected label 'top rail', got %q", rows[0].Label)
	}
}

func TestDemandAddRejectsBadNumbers(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "", "demand", "add", "-5", "1"); err == nil {
		t.Error("expected error for negative length")
	}
	if _, err := env.run(t, "", "demand", "add", "100", "1.5"); err == nil {
		t.Error("expected error for fractional quantity")
	}
}

func TestDemandRemoveAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "4")
	env.mustRun(t, "demand", "add", "1000", "1")

	id := env.workspaceState(t).Demand[0].ID
	env.mustRun(t, "demand", "rm", id)
	if ws := env.workspaceState(t); len(ws.Demand) != 1 || ws.Demand[0].Length != 1000 {
		t.Fatalf("unexpected demand after rm: %+v", ws.Demand)
	}
	if _, err := env.run(t, "", "demand", "rm", "missing"); err == nil {
		t.Error("expected error for unknown id")
	}

	env.mustRun(t, "demand", "clear")
	if ws := env.workspaceState(t); len(ws.Demand) != 0 {
		t.Errorf("expected empty cut list, got %d rows", len(ws.Demand))
	}
}

func TestPasteReadsStdin(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "2400\t4\n1000, 1\nnot a row\n", "paste"); err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	ws := env.workspaceState(t)
	if len(ws.Demand) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ws.Demand))
	}
	if model.TotalPieces(ws.Demand) != 5 {
		t.Errorf("expected 5 pieces, got %d", model.TotalPieces(ws.Demand))
	}

	if _, err := env.run(t, "6000 2\n", "paste", "--inventory"); err != nil {
		t.Fatalf("paste --inventory failed: %v", err)
	}
	if ws := env.workspaceState(t); model.TotalBars(ws.Inventory) != 2 {
		t.Errorf("expected 2 owned bars, got %d", model.TotalBars(ws.Inventory))
	}
}

func TestPasteWithoutRowsFails(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "hello\n", "paste"); err == nil {
		t.Fatal("expected error when nothing could be parsed")
	}
}

func TestOptimizeEmptyDemandIsValidationError(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "optimize")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, engine.ErrEmptyDemand) {
		t.Errorf("expected ErrEmptyDemand, got %v", err)
	}
}

func TestOptimizeJSONRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "2")

	out := env.mustRun(t, "optimize", "--json", "--workers", "1")
	var report struct {
		Config model.StockConfig `json:"config"`
		Plan   model.Plan        `json:"plan"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("expected JSON report, got %q: %v", out, err)
	}
	if report.Plan.TotalPieces != 2 || report.Plan.CutCount() != 2 {
		t.Errorf("expected 2 pieces placed, got %d/%d", report.Plan.TotalPieces, report.Plan.CutCount())
	}
	if report.Config != model.DefaultStockConfig() {
		t.Errorf("expected default config, got %+v", report.Config)
	}

	ws := env.workspaceState(t)
	if len(ws.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(ws.History))
	}
	if ws.History[0].Efficiency != report.Plan.Efficiency {
		t.Errorf("history efficiency %s does not match plan %s", ws.History[0].Efficiency, report.Plan.Efficiency)
	}

	env.mustRun(t, "optimize", "--no-history")
	if ws := env.workspaceState(t); len(ws.History) != 1 {
		t.Errorf("--no-history should not record, got %d entries", len(ws.History))
	}
}

func TestOptimizeFlagsOverrideWorkspaceConfig(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "2")

	_, err := env.run(t, "", "optimize", "--min", "7000", "--max", "6000")
	if !errors.Is(err, engine.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	out := env.mustRun(t, "optimize", "--json", "--kerf", "0", "--min", "4800", "--max", "4800")
	var report struct {
		Plan model.Plan `json:"plan"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Plan.Bins) != 1 || report.Plan.Bins[0].Remaining != 0 {
		t.Errorf("expected one exact 4800 bar, got %+v", report.Plan.Bins)
	}
	if ws := env.workspaceState(t); ws.Config != model.DefaultStockConfig() {
		t.Errorf("flags must not change the saved config, got %+v", ws.Config)
	}
}

func TestOptimizeConsumeKeepsOffcuts(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "stock", "add", "6000", "1")
	env.mustRun(t, "demand", "add", "2400", "2")

	env.mustRun(t, "optimize", "--consume")

	ws := env.workspaceState(t)
	if len(ws.Inventory) != 1 {
		t.Fatalf("expected only the offcut left in stock, got %+v", ws.Inventory)
	}
	// 6000 - 2400 - 5 - 2400 leaves 1195, one more kerf to separate it
	if ws.Inventory[0].Length != 1190 || ws.Inventory[0].Quantity != 1 {
		t.Errorf("expected a 1190 offcut, got %v x %d", ws.Inventory[0].Length, ws.Inventory[0].Quantity)
	}
}

func TestOptimizeReportsKerfAndInventoryOnlyPlan(t *testing.T) {
	plainOutput(t)
	env := newTestEnv(t)
	env.mustRun(t, "stock", "add", "6000", "1")
	env.mustRun(t, "demand", "add", "2400", "2")

	out := env.mustRun(t, "optimize", "--no-history")
	for _, want := range []string{"2 of 2 cut", "Lost to kerf: 5 mm", "Resolved length: nothing to buy"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "review the diagnostics before ordering") {
		t.Errorf("no critical waste expected:\n%s", out)
	}
}

func TestOptimizeFlagsCriticalWaste(t *testing.T) {
	plainOutput(t)
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "1000", "1")

	out := env.mustRun(t, "optimize", "--no-history", "--kerf", "0", "--min", "4800", "--max", "4800")
	if !strings.Contains(out, "CRITICAL") {
		t.Fatalf("expected a critical diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "review the diagnostics before ordering") {
		t.Errorf("expected the critical waste banner:\n%s", out)
	}
	if !strings.Contains(out, "Resolved length: 4800") {
		t.Errorf("expected resolved length 4800:\n%s", out)
	}
}

func TestOptimizeWritesExports(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "3")

	dir := filepath.Dir(env.workspace)
	xlsx := filepath.Join(dir, "plan.xlsx")
	pdf := filepath.Join(dir, "plan.pdf")
	labels := filepath.Join(dir, "labels.pdf")
	env.mustRun(t, "optimize", "--xlsx", xlsx, "--pdf", pdf, "--labels", labels, "--price", "4.5")

	for _, p := range []string{xlsx, pdf, labels} {
		if !fileExists(p) {
			t.Errorf("expected %s to be written", p)
		}
	}
}

func TestConfigSetAndReset(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "config", "set", "kerf", "3")
	env.mustRun(t, "config", "set", "price", "2.75")

	out := env.mustRun(t, "config", "show", "--json")
	var shown struct {
		Stock model.StockConfig `json:"stock"`
		App   model.AppConfig   `json:"app"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatal(err)
	}
	if shown.Stock.Kerf != 3 {
		t.Errorf("expected kerf 3, got %v", shown.Stock.Kerf)
	}
	if shown.App.PricePerMetre != 2.75 {
		t.Errorf("expected price 2.75, got %v", shown.App.PricePerMetre)
	}
	if shown.App.DefaultKerf != 5 {
		t.Errorf("without --default the app default should stay 5, got %v", shown.App.DefaultKerf)
	}

	if _, err := env.run(t, "", "config", "set", "step", "0"); err == nil {
		t.Error("expected error for a zero step")
	}
	if _, err := env.run(t, "", "config", "set", "colour", "red"); err == nil {
		t.Error("expected error for an unknown key")
	}

	env.mustRun(t, "config", "reset")
	if ws := env.workspaceState(t); ws.Config.Kerf != 5 {
		t.Errorf("expected kerf back to 5, got %v", ws.Config.Kerf)
	}
}

func TestTemplateSaveAndLoad(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "4")
	env.mustRun(t, "template", "save", "frame", "-d", "gate frame")
	env.mustRun(t, "demand", "clear")

	env.mustRun(t, "template", "load", "frame")
	if ws := env.workspaceState(t); model.TotalPieces(ws.Demand) != 4 {
		t.Errorf("expected 4 pieces after loading, got %d", model.TotalPieces(ws.Demand))
	}

	if _, err := env.run(t, "", "template", "load", "nope"); err == nil {
		t.Error("expected error for unknown template")
	}
	env.mustRun(t, "template", "rm", "frame")
	if _, err := env.run(t, "", "template", "rm", "frame"); err == nil {
		t.Error("expected error removing a template twice")
	}
}

func TestBackupRoundTripAndReset(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "1500", "2")
	backup := filepath.Join(filepath.Dir(env.workspace), "backup.json")
	env.mustRun(t, "backup", "export", backup)

	env.mustRun(t, "reset")
	if fileExists(env.workspace) {
		t.Fatal("reset should delete the workspace file")
	}

	env.mustRun(t, "backup", "import", backup)
	if ws := env.workspaceState(t); len(ws.Demand) != 1 || ws.Demand[0].Length != 1500 {
		t.Errorf("expected restored demand, got %+v", ws.Demand)
	}
}

func TestCompareJSON(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "5")

	out := env.mustRun(t, "compare", "--json")
	var rows []comparisonRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("expected JSON, got %q: %v", out, err)
	}
	if len(rows) < 2 {
		t.Fatalf("expected several scenarios, got %d", len(rows))
	}
	if rows[0].Name != "Current Settings" || rows[0].Error != "" {
		t.Errorf("unexpected first scenario %+v", rows[0])
	}
}

func TestHistoryClear(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "demand", "add", "2400", "2")
	env.mustRun(t, "optimize")
	env.mustRun(t, "history", "--clear")
	if ws := env.workspaceState(t); len(ws.History) != 0 {
		t.Errorf("expected no history, got %d", len(ws.History))
	}
}
