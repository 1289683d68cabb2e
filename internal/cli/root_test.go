package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "barcut") {
		t.Error("expected help to contain 'barcut'")
	}
	if !strings.Contains(output, "optimize") {
		t.Error("expected help to list the optimize command")
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"invalid-command"})
	var buf bytes.Buffer
	rootCmd.SetErr(&buf)

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	SetVersion("")
	if rootCmd.Version != original {
		t.Errorf("empty version should be ignored, got %q", rootCmd.Version)
	}
	SetVersion("1.2.3")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("expected 1.2.3, got %q", rootCmd.Version)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
