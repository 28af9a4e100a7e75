package runner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/groundwork-cli/groundwork/internal/journal"
)

type fakeClaude struct {
	err       error
	calls     [][]string
	exitCodes []int
}

func (f *fakeClaude) Run(_ context.Context, _ io.Writer, args ...string) (int, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return 0, f.err
	}
	call := len(f.calls) - 1
	if call < len(f.exitCodes) {
		return f.exitCodes[call], nil
	}
	return 0, nil
}

type scriptedPrompter struct {
	answers []string
	prompts []string
}

func (p *scriptedPrompter) Prompt(msg string) (string, error) {
	p.prompts = append(p.prompts, msg)
	if len(p.answers) == 0 {
		return "", nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (*scriptedPrompter) Close() error { return nil }

type fakeRecorder struct {
	finalStatus string
	steps       []journal.StepRecord
	began       int
}

func (r *fakeRecorder) BeginRun(_ context.Context, _, _ string) (int64, error) {
	r.began++
	return 42, nil
}

func (r *fakeRecorder) RecordStep(_ context.Context, rec journal.StepRecord) error {
	r.steps = append(r.steps, rec)
	return nil
}

func (r *fakeRecorder) FinishRun(_ context.Context, _ int64, status string) error {
	r.finalStatus = status
	return nil
}

func fiveSteps() []Step {
	return []Step{
		{Name: "01-monorepo", Title: "Step 1", Body: "# one"},
		{Name: "02-backend", Title: "Step 2", Body: "# two"},
		{Name: "03-frontend", Title: "Step 3", Body: "# three"},
		{Name: "04-shared-packages", Title: "Step 4", Body: "# four"},
		{Name: "05-tooling", Title: "Step 5", Body: "# five"},
	}
}

func newTestRunner(claude *fakeClaude, prompter *scriptedPrompter, rec Recorder) (*Runner, *strings.Builder) {
	out := &strings.Builder{}
	r := New(claude, prompter, rec, out)
	r.shell = func(_ context.Context, _, _ string, _ io.Writer) (int, error) {
		return 0, nil
	}
	return r, out
}

func TestRunExecutesStepsInFixedOrder(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{}
	rec := &fakeRecorder{}
	r, _ := newTestRunner(claude, &scriptedPrompter{}, rec)

	steps := fiveSteps()
	err := r.Run(context.Background(), steps, Options{Target: "/tmp/app", Kind: "setup", FromStep: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claude.calls) != len(steps) {
		t.Fatalf("Expected %d Claude invocations, got %d", len(steps), len(claude.calls))
	}

	for i, step := range steps {
		prompt := claude.calls[i][1] // args are ["-p", prompt, "--add-dir", target, ...]
		if !strings.Contains(prompt, step.Body) {
			t.Errorf("Invocation %d does not carry document %s", i+1, step.Name)
		}
	}

	for i, recStep := range rec.steps {
		if recStep.Ordinal != i+1 {
			t.Errorf("Recorded ordinal %d at position %d", recStep.Ordinal, i)
		}
		if recStep.Status != journal.StepOK {
			t.Errorf("Step %s recorded as %s", recStep.Name, recStep.Status)
		}
	}

	if rec.finalStatus != journal.StatusCompleted {
		t.Errorf("Run finished as %q, want %q", rec.finalStatus, journal.StatusCompleted)
	}
}

func TestRunPassesTargetToClaude(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{}
	r, _ := newTestRunner(claude, &scriptedPrompter{}, nil)

	err := r.Run(context.Background(), fiveSteps()[:1], Options{Target: "/projects/app"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	args := claude.calls[0]
	found := false
	for i, arg := range args {
		if arg == "--add-dir" && i+1 < len(args) && args[i+1] == "/projects/app" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected --add-dir /projects/app in args, got %v", args)
	}
}

func TestStepFailureAbortsWhenOperatorDeclines(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{exitCodes: []int{0, 3}}
	prompter := &scriptedPrompter{answers: []string{"n"}}
	rec := &fakeRecorder{}
	r, _ := newTestRunner(claude, prompter, rec)

	err := r.Run(context.Background(), fiveSteps(), Options{Target: "/tmp/app"})

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Expected StepError, got %v", err)
	}
	if stepErr.Ordinal != 2 || stepErr.ExitCode != 3 {
		t.Errorf("Unexpected StepError: %+v", stepErr)
	}

	if len(claude.calls) != 2 {
		t.Errorf("Expected execution to stop after step 2, got %d invocations", len(claude.calls))
	}
	if rec.finalStatus != journal.StatusAborted {
		t.Errorf("Run finished as %q, want %q", rec.finalStatus, journal.StatusAborted)
	}
}

func TestStepFailureContinuesWhenOperatorConfirms(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{exitCodes: []int{0, 3}}
	prompter := &scriptedPrompter{answers: []string{"y"}}
	rec := &fakeRecorder{}
	r, _ := newTestRunner(claude, prompter, rec)

	err := r.Run(context.Background(), fiveSteps(), Options{Target: "/tmp/app"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claude.calls) != 5 {
		t.Errorf("Expected all 5 steps to run, got %d invocations", len(claude.calls))
	}
	if rec.steps[1].Status != journal.StepFailed {
		t.Errorf("Step 2 recorded as %s, want %s", rec.steps[1].Status, journal.StepFailed)
	}
	if rec.finalStatus != journal.StatusCompleted {
		t.Errorf("Run finished as %q, want %q", rec.finalStatus, journal.StatusCompleted)
	}
}

func TestClaudeStartFailureFailsRun(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{err: errors.New("binary vanished")}
	rec := &fakeRecorder{}
	r, _ := newTestRunner(claude, &scriptedPrompter{}, rec)

	err := r.Run(context.Background(), fiveSteps(), Options{Target: "/tmp/app"})
	if err == nil {
		t.Fatal("Expected error when Claude cannot start")
	}
	if rec.finalStatus != journal.StatusFailed {
		t.Errorf("Run finished as %q, want %q", rec.finalStatus, journal.StatusFailed)
	}
}

func TestBuildRetriesAfterOperatorFix(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{}
	prompter := &scriptedPrompter{answers: []string{""}}
	r, _ := newTestRunner(claude, prompter, nil)

	buildCalls := 0
	r.shell = func(_ context.Context, dir, command string, _ io.Writer) (int, error) {
		buildCalls++
		if dir != "/tmp/app" {
			t.Errorf("Build ran in %s, want /tmp/app", dir)
		}
		if command != "pnpm build" {
			t.Errorf("Build command %q, want 'pnpm build'", command)
		}
		if buildCalls == 1 {
			return 1, nil
		}
		return 0, nil
	}

	err := r.Run(context.Background(), fiveSteps()[:1], Options{
		Target:       "/tmp/app",
		BuildCommand: "pnpm build",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if buildCalls != 2 {
		t.Errorf("Expected build to retry once after fix, ran %d times", buildCalls)
	}
	if len(prompter.prompts) != 1 {
		t.Errorf("Expected one fix-and-press-Enter prompt, got %d", len(prompter.prompts))
	}
}

func TestSkipBuild(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(&fakeClaude{}, &scriptedPrompter{}, nil)

	buildCalls := 0
	r.shell = func(_ context.Context, _, _ string, _ io.Writer) (int, error) {
		buildCalls++
		return 0, nil
	}

	err := r.Run(context.Background(), fiveSteps()[:1], Options{
		Target:       "/tmp/app",
		BuildCommand: "pnpm build",
		SkipBuild:    true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if buildCalls != 0 {
		t.Errorf("Expected no build with SkipBuild, ran %d times", buildCalls)
	}
}

func TestDryRunInvokesNothing(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{}
	rec := &fakeRecorder{}
	r, out := newTestRunner(claude, &scriptedPrompter{}, rec)

	err := r.Run(context.Background(), fiveSteps(), Options{
		Target:       "/tmp/app",
		Kind:         "setup",
		BuildCommand: "pnpm build",
		DryRun:       true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claude.calls) != 0 {
		t.Errorf("Dry run invoked Claude %d times", len(claude.calls))
	}
	if rec.began != 0 {
		t.Error("Dry run recorded a run")
	}
	if !strings.Contains(out.String(), "01-monorepo") {
		t.Errorf("Dry run plan missing step names: %s", out.String())
	}
	if !strings.Contains(out.String(), "pnpm build") {
		t.Errorf("Dry run plan missing build command: %s", out.String())
	}
}

func TestFromStepSkipsEarlierSteps(t *testing.T) {
	t.Parallel()

	claude := &fakeClaude{}
	r, out := newTestRunner(claude, &scriptedPrompter{}, nil)

	err := r.Run(context.Background(), fiveSteps(), Options{Target: "/tmp/app", FromStep: 3})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claude.calls) != 3 {
		t.Errorf("Expected steps 3-5 only, got %d invocations", len(claude.calls))
	}
	if !strings.Contains(claude.calls[0][1], "# three") {
		t.Errorf("First invocation should be step 3, prompt: %s", claude.calls[0][1])
	}
	if !strings.Contains(out.String(), "skipping") {
		t.Errorf("Expected skip notices in output: %s", out.String())
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	step := Step{Name: "02-backend", Title: "Backend", Body: "# Step 2\n\nDo backend things.\n"}
	prompt := BuildPrompt("# Shared rules\n", step, "/projects/app")

	if !strings.HasPrefix(prompt, "# Shared rules") {
		t.Errorf("Prompt should start with shared preamble: %q", prompt)
	}
	if !strings.Contains(prompt, "Do backend things.") {
		t.Errorf("Prompt missing document body: %q", prompt)
	}
	if !strings.Contains(prompt, "Target directory: /projects/app") {
		t.Errorf("Prompt missing target directory: %q", prompt)
	}
}

func TestBuildPromptWithoutShared(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt("", Step{Body: "# Doc"}, "/app")
	if strings.HasPrefix(prompt, "\n") || strings.Contains(prompt, "---\n\n# Doc\n\n---") {
		// Exactly one separator: between document and target.
		t.Errorf("Unexpected prompt layout without shared preamble: %q", prompt)
	}
	if !strings.HasPrefix(prompt, "# Doc") {
		t.Errorf("Prompt should start with the document: %q", prompt)
	}
}
