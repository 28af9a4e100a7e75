// Package prompt provides interactive operator input for run-time decisions.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrCancelled is returned when the operator aborts input (Ctrl+C or EOF).
var ErrCancelled = errors.New("cancelled by operator")

// Prompter interface wraps basic prompting functionality for testability
type Prompter interface {
	Prompt(string) (string, error)
	Close() error
}

// LinerPrompter wraps liner.State to implement Prompter interface
type LinerPrompter struct {
	*liner.State
}

// NewLinerPrompter creates a new liner-based prompter
func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// Confirm asks a yes/no question and returns the operator's answer. Empty
// input means no.
func Confirm(prompter Prompter, question string) (bool, error) {
	coloredPrompt := color.YellowString(question + " [y/N] ")

	answer, err := prompter.Prompt(coloredPrompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm prompt failed: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// PressEnter blocks until the operator presses Enter.
func PressEnter(prompter Prompter, message string) error {
	coloredPrompt := color.YellowString(message + " ")

	_, err := prompter.Prompt(coloredPrompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return ErrCancelled
		}
		return fmt.Errorf("press-enter prompt failed: %w", err)
	}

	return nil
}
