package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/groundwork-cli/groundwork/internal/claude"
	"github.com/groundwork-cli/groundwork/internal/claude/settings"
	"github.com/groundwork-cli/groundwork/internal/journal"
	"github.com/groundwork-cli/groundwork/internal/storage"
)

// newStatusCommand creates the status command.
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report Claude discovery, settings state, and the last run",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFromCommand(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fs := afero.NewOsFs()

	launcher := claude.NewLauncher(cfg.ClaudeBinary)
	if path, err := launcher.Path(); err != nil {
		_, _ = fmt.Fprintf(out, "Claude binary: %s\n", color.RedString("not found"))
	} else {
		_, _ = fmt.Fprintf(out, "Claude binary: %s\n", color.GreenString(path))
	}

	reportSettings(out, fs)
	reportLastRun(cmd, fs)

	return nil
}

func reportSettings(out io.Writer, fs afero.Fs) {
	settingsPath, err := settings.DefaultPath()
	if err != nil {
		_, _ = fmt.Fprintf(out, "Settings: %v\n", err)
		return
	}

	if !settings.Exists(fs, settingsPath) {
		_, _ = fmt.Fprintf(out, "Settings: %s (absent; created on first setup)\n", settingsPath)
		return
	}

	loaded, err := settings.Load(fs, settingsPath)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Settings: %s (%v)\n", settingsPath, err)
		return
	}

	dirs := loaded.AdditionalDirectories()
	_, _ = fmt.Fprintf(out, "Settings: %s (%d additional directories)\n", settingsPath, len(dirs))
	for _, dir := range dirs {
		_, _ = fmt.Fprintf(out, "  - %s\n", dir)
	}
}

func reportLastRun(cmd *cobra.Command, fs afero.Fs) {
	out := cmd.OutOrStdout()

	journalPath, err := storage.New(fs).GetJournalPath()
	if err != nil {
		_, _ = fmt.Fprintf(out, "Last run: journal unavailable (%v)\n", err)
		return
	}

	jnl, err := journal.Open(journalPath)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Last run: journal unavailable (%v)\n", err)
		return
	}
	defer func() { _ = jnl.Close() }()

	run, steps, err := jnl.LastRun(cmd.Context())
	if err != nil {
		_, _ = fmt.Fprintf(out, "Last run: %v\n", err)
		return
	}
	if run == nil {
		_, _ = fmt.Fprintln(out, "Last run: none")
		return
	}

	_, _ = fmt.Fprintf(out, "Last run: %s of %s (%s, started %s)\n",
		run.Kind, run.Target, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
	for _, step := range steps {
		marker := color.GreenString("ok")
		if step.Status != journal.StepOK {
			marker = color.RedString("exit %d", step.ExitCode)
		}
		_, _ = fmt.Fprintf(out, "  %d. %-22s %s (%s)\n", step.Ordinal, step.Name, marker, step.Duration)
	}
}
