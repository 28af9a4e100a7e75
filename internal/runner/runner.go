// Package runner executes an ordered sequence of instruction documents
// against a target directory by invoking Claude once per document.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/groundwork-cli/groundwork/internal/journal"
	"github.com/groundwork-cli/groundwork/internal/logging"
	"github.com/groundwork-cli/groundwork/internal/prompt"
)

// ClaudeRunner abstracts Claude execution for testability.
type ClaudeRunner interface {
	Run(ctx context.Context, out io.Writer, args ...string) (int, error)
}

// Recorder persists run and step outcomes. *journal.Journal satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, kind, target string) (int64, error)
	RecordStep(ctx context.Context, rec journal.StepRecord) error
	FinishRun(ctx context.Context, runID int64, status string) error
}

// Step is one instruction document to execute.
type Step struct {
	Name  string
	Title string
	Body  string
}

// Options control a single run.
type Options struct {
	Target       string
	Kind         string
	Shared       string
	BuildCommand string
	ClaudeArgs   []string
	FromStep     int
	SkipBuild    bool
	DryRun       bool
}

// StepError reports a run aborted after a step failed.
type StepError struct {
	Name     string
	Ordinal  int
	ExitCode int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed with exit code %d", e.Ordinal, e.Name, e.ExitCode)
}

// Runner drives the sequential execution of steps.
type Runner struct {
	claude   ClaudeRunner
	prompter prompt.Prompter
	recorder Recorder
	out      io.Writer
	shell    func(ctx context.Context, dir, command string, out io.Writer) (int, error)
}

// New creates a Runner. recorder may be nil, in which case outcomes are not
// journaled.
func New(claude ClaudeRunner, prompter prompt.Prompter, recorder Recorder, out io.Writer) *Runner {
	return &Runner{
		claude:   claude,
		prompter: prompter,
		recorder: recorder,
		out:      out,
		shell:    runShell,
	}
}

// Run executes steps strictly in order. Each step fully completes, including
// any operator prompt after a failure, before the next begins. After the last
// step the configured build command runs unless skipped.
func (r *Runner) Run(ctx context.Context, steps []Step, opts Options) error {
	if opts.DryRun {
		r.printPlan(steps, opts)
		return nil
	}

	runID := r.beginRun(ctx, opts)

	for i, step := range steps {
		ordinal := i + 1
		if opts.FromStep > ordinal {
			_, _ = fmt.Fprintf(r.out, "%s step %d/%d: %s\n",
				color.New(color.Faint).Sprint("skipping"), ordinal, len(steps), step.Name)
			continue
		}

		if err := r.runStep(ctx, runID, ordinal, len(steps), step, opts); err != nil {
			return err
		}
	}

	if err := r.runBuild(ctx, runID, opts); err != nil {
		return err
	}

	r.finishRun(ctx, runID, journal.StatusCompleted)
	_, _ = fmt.Fprintln(r.out, color.GreenString("All steps completed."))
	return nil
}

func (r *Runner) runStep(ctx context.Context, runID int64, ordinal, total int, step Step, opts Options) error {
	_, _ = fmt.Fprintf(r.out, "%s %s\n",
		color.CyanString("step %d/%d:", ordinal, total), step.Title)

	args := make([]string, 0, 4+len(opts.ClaudeArgs))
	args = append(args, "-p", BuildPrompt(opts.Shared, step, opts.Target))
	args = append(args, "--add-dir", opts.Target)
	args = append(args, opts.ClaudeArgs...)

	start := time.Now()
	code, err := r.claude.Run(ctx, r.out, args...)
	elapsed := time.Since(start)

	if err != nil {
		r.finishRun(ctx, runID, journal.StatusFailed)
		return fmt.Errorf("step %d (%s): %w", ordinal, step.Name, err)
	}

	status := journal.StepOK
	if code != 0 {
		status = journal.StepFailed
	}
	r.recordStep(ctx, journal.StepRecord{
		RunID:    runID,
		Ordinal:  ordinal,
		Name:     step.Name,
		Status:   status,
		ExitCode: code,
		Duration: elapsed,
	})

	logging.Get(ctx).Info().
		Str("step", step.Name).
		Int("ordinal", ordinal).
		Int("exit_code", code).
		Dur("duration", elapsed).
		Msg("Step finished")

	if code == 0 {
		return nil
	}

	cont, promptErr := prompt.Confirm(r.prompter,
		fmt.Sprintf("Step %d (%s) exited with code %d. Continue with the remaining steps?", ordinal, step.Name, code))
	if promptErr != nil || !cont {
		r.finishRun(ctx, runID, journal.StatusAborted)
		return &StepError{Name: step.Name, Ordinal: ordinal, ExitCode: code}
	}
	return nil
}

// runBuild runs the post-scaffold build command, pausing for the operator to
// fix things whenever it fails.
func (r *Runner) runBuild(ctx context.Context, runID int64, opts Options) error {
	if opts.SkipBuild || opts.BuildCommand == "" {
		return nil
	}

	for {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", color.CyanString("build:"), opts.BuildCommand)

		code, err := r.shell(ctx, opts.Target, opts.BuildCommand, r.out)
		if err != nil {
			r.finishRun(ctx, runID, journal.StatusFailed)
			return fmt.Errorf("build command: %w", err)
		}
		if code == 0 {
			return nil
		}

		logging.Get(ctx).Warn().
			Int("exit_code", code).
			Str("command", opts.BuildCommand).
			Msg("Build command failed")

		if err := prompt.PressEnter(r.prompter,
			fmt.Sprintf("Build command failed (exit %d). Fix the issue, then press Enter to retry.", code)); err != nil {
			r.finishRun(ctx, runID, journal.StatusAborted)
			return fmt.Errorf("build failed with exit code %d: %w", code, err)
		}
	}
}

func (r *Runner) printPlan(steps []Step, opts Options) {
	_, _ = fmt.Fprintf(r.out, "Plan for %s against %s:\n", opts.Kind, opts.Target)
	for i, step := range steps {
		marker := " "
		if opts.FromStep > i+1 {
			marker = color.New(color.Faint).Sprint("skip")
		}
		_, _ = fmt.Fprintf(r.out, "  %d. %-22s %s %s\n", i+1, step.Name, step.Title, marker)
	}
	if !opts.SkipBuild && opts.BuildCommand != "" {
		_, _ = fmt.Fprintf(r.out, "  then: %s\n", opts.BuildCommand)
	}
}

func (r *Runner) beginRun(ctx context.Context, opts Options) int64 {
	if r.recorder == nil {
		return 0
	}
	runID, err := r.recorder.BeginRun(ctx, opts.Kind, opts.Target)
	if err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("Failed to journal run start")
		r.recorder = nil
		return 0
	}
	return runID
}

func (r *Runner) recordStep(ctx context.Context, rec journal.StepRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordStep(ctx, rec); err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("Failed to journal step")
	}
}

func (r *Runner) finishRun(ctx context.Context, runID int64, status string) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.FinishRun(ctx, runID, status); err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("Failed to journal run finish")
	}
}

// BuildPrompt assembles the prompt for one step: the shared preamble, the
// document itself, and the target directory.
func BuildPrompt(shared string, step Step, target string) string {
	var b strings.Builder
	if shared != "" {
		b.WriteString(strings.TrimSpace(shared))
		b.WriteString("\n\n---\n\n")
	}
	b.WriteString(strings.TrimSpace(step.Body))
	b.WriteString("\n\n---\n\nTarget directory: ")
	b.WriteString(target)
	b.WriteString("\n")
	return b.String()
}

// runShell executes command with sh -c in dir, streaming output to out.
func runShell(ctx context.Context, dir, command string, out io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed to run command: %w", err)
	}
	return 0, nil
}
