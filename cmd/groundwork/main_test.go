package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/groundwork-cli/groundwork/internal/claude"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	rootCmd := newRootCommand()

	for _, name := range []string{"setup", "patterns", "docs", "status", "init"} {
		sub, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Expected %s command to exist, got error: %v", name, err)
		}
		if sub == nil || sub.Name() != name {
			t.Errorf("Expected %s command to exist", name)
		}
	}
}

func TestSetupRequiresTargetArgument(t *testing.T) {
	t.Parallel()

	rootCmd := newRootCommand()
	rootCmd.SetArgs([]string{"setup"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Expected error when target argument is missing")
	}
	if !strings.Contains(err.Error(), "arg") {
		t.Errorf("Expected argument error, got: %v", err)
	}
}

func TestPatternsRequiresTargetArgument(t *testing.T) {
	t.Parallel()

	rootCmd := newRootCommand()
	rootCmd.SetArgs([]string{"patterns"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("Expected error when target argument is missing")
	}
}

func TestSetupFailsBeforeStepsWhenClaudeMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "groundwork.yml")
	missing := filepath.Join(dir, "missing-claude")
	configContent := "claude_binary: " + missing + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatal(err)
	}

	rootCmd := newRootCommand()
	rootCmd.SetArgs([]string{"setup", filepath.Join(dir, "target"), "-c", configPath})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Expected error when Claude binary is missing")
	}
	if !claude.IsNotFound(err) {
		t.Errorf("Expected NotFoundError before any step runs, got: %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "target")); !os.IsNotExist(statErr) {
		t.Error("Target directory should not be created when preflight fails")
	}
}

func TestSetupDryRunPrintsPlanWithoutClaude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := &bytes.Buffer{}

	rootCmd := newRootCommand()
	rootCmd.SetArgs([]string{
		"setup", filepath.Join(dir, "target"), "--dry-run",
		"-c", filepath.Join(dir, "groundwork.yml"),
	})
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Dry run failed: %v", err)
	}

	output := out.String()
	for _, name := range []string{"01-monorepo", "02-backend", "03-frontend", "04-shared-packages", "05-tooling"} {
		if !strings.Contains(output, name) {
			t.Errorf("Plan missing step %s: %s", name, output)
		}
	}
}

func TestSetupRejectsInvalidFromFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	rootCmd := newRootCommand()
	rootCmd.SetArgs([]string{
		"setup", filepath.Join(dir, "target"), "--from", "9",
		"-c", filepath.Join(dir, "groundwork.yml"),
	})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid --from") {
		t.Errorf("Expected invalid --from error, got: %v", err)
	}
}

func TestResolveTargetMakesAbsolute(t *testing.T) {
	t.Parallel()

	target := resolveTarget("some/relative/dir")
	if !filepath.IsAbs(target) {
		t.Errorf("Expected absolute path, got %s", target)
	}
}
