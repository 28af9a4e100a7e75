package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/groundwork-cli/groundwork/internal/claude"
	"github.com/groundwork-cli/groundwork/internal/claude/settings"
	"github.com/groundwork-cli/groundwork/internal/config"
	"github.com/groundwork-cli/groundwork/internal/docs"
	"github.com/groundwork-cli/groundwork/internal/journal"
	"github.com/groundwork-cli/groundwork/internal/logging"
	"github.com/groundwork-cli/groundwork/internal/prompt"
	"github.com/groundwork-cli/groundwork/internal/runner"
	"github.com/groundwork-cli/groundwork/internal/storage"
)

// newSetupCommand creates the setup command.
func newSetupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup <target-directory>",
		Short: "Generate a full-stack monorepo scaffold in the target directory",
		Long: "Generate a full-stack monorepo scaffold by running the setup instruction\n" +
			"documents against the target directory in fixed order, then running the\n" +
			"configured build command.",
		Args: cobra.ExactArgs(1),
		RunE: runSetup,
	}

	cmd.Flags().Bool("dry-run", false, "Print the step plan without invoking Claude")
	cmd.Flags().Int("from", 1, "First setup step to run (1-based)")
	cmd.Flags().Bool("skip-build", false, "Skip the post-scaffold build command")

	return cmd
}

func runSetup(cmd *cobra.Command, args []string) error {
	target := resolveTarget(args[0])

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	fromStep, err := cmd.Flags().GetInt("from")
	if err != nil {
		return fmt.Errorf("failed to get from flag: %w", err)
	}
	skipBuild, err := cmd.Flags().GetBool("skip-build")
	if err != nil {
		return fmt.Errorf("failed to get skip-build flag: %w", err)
	}

	cfg, err := loadConfigFromCommand(cmd)
	if err != nil {
		return err
	}

	steps := stepsFromDocuments(docs.SetupSteps())
	if fromStep < 1 || fromStep > len(steps) {
		return fmt.Errorf("invalid --from value %d: setup has %d steps", fromStep, len(steps))
	}

	opts := runner.Options{
		Target:       target,
		Kind:         "setup",
		Shared:       docs.Shared(),
		BuildCommand: cfg.BuildCommand,
		ClaudeArgs:   cfg.ClaudeArgs,
		FromStep:     fromStep,
		SkipBuild:    skipBuild || cfg.SkipBuild,
		DryRun:       dryRun,
	}

	return executeRun(cmd, cfg, steps, opts)
}

// executeRun wires the launcher, settings bootstrap, journal, and runner for
// both setup and patterns. The Claude binary is located before anything else
// runs so a missing installation fails the command up front.
func executeRun(cmd *cobra.Command, cfg *config.Config, steps []runner.Step, opts runner.Options) error {
	fs := afero.NewOsFs()
	out := cmd.OutOrStdout()

	launcher := claude.NewLauncher(cfg.ClaudeBinary)

	if opts.DryRun {
		r := runner.New(launcher, nil, nil, out)
		return r.Run(cmd.Context(), steps, opts)
	}

	if _, err := launcher.Path(); err != nil {
		return err
	}

	ctx, err := loggingContext(cmd.Context(), fs, cfg, opts.Target)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(opts.Target, 0o755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	if err := bootstrapSettings(ctx, fs, out, opts.Target); err != nil {
		return err
	}

	jnl := openJournal(ctx, fs)
	if jnl != nil {
		defer func() { _ = jnl.Close() }()
	}

	prompter := prompt.NewLinerPrompter()
	defer func() { _ = prompter.Close() }()

	r := runner.New(launcher, prompter, recorderFor(jnl), out)
	if err := r.Run(ctx, steps, opts); err != nil {
		return fmt.Errorf("%s run failed: %w", opts.Kind, err)
	}
	return nil
}

// bootstrapSettings ensures the target directory is on the Claude
// additional-directories allow-list.
func bootstrapSettings(ctx context.Context, fs afero.Fs, out io.Writer, target string) error {
	settingsPath, err := settings.DefaultPath()
	if err != nil {
		return err
	}

	_, changed, err := settings.Bootstrap(fs, settingsPath, target)
	if err != nil {
		return fmt.Errorf("failed to update Claude settings: %w", err)
	}
	if changed {
		_, _ = fmt.Fprintf(out, "Added %s to Claude additional directories (%s)\n", target, settingsPath)
		logging.Get(ctx).Info().Str("settings", settingsPath).Msg("Settings updated")
	}
	return nil
}

// openJournal opens the run journal, degrading to no journaling on failure.
func openJournal(ctx context.Context, fs afero.Fs) *journal.Journal {
	journalPath, err := storage.New(fs).GetJournalPath()
	if err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("Journal unavailable")
		return nil
	}

	jnl, err := journal.Open(journalPath)
	if err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("Journal unavailable")
		return nil
	}
	return jnl
}

// recorderFor avoids handing the runner a non-nil interface wrapping a nil
// journal.
func recorderFor(jnl *journal.Journal) runner.Recorder {
	if jnl == nil {
		return nil
	}
	return jnl
}

// resolveTarget makes the target absolute, falling back to the raw argument
// when the working directory cannot be resolved.
func resolveTarget(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	return abs
}

func stepsFromDocuments(documents []docs.Document) []runner.Step {
	steps := make([]runner.Step, 0, len(documents))
	for _, doc := range documents {
		steps = append(steps, runner.Step{Name: doc.Name, Title: doc.Title, Body: doc.Body})
	}
	return steps
}
