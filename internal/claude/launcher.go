// Package claude handles discovery and execution of the Claude Code binary.
package claude

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/groundwork-cli/groundwork/internal/logging"
)

// Launcher handles Claude binary discovery and execution
type Launcher struct {
	// binary is an optional explicit path from configuration. When set it
	// is the only location tried.
	binary string
}

// NewLauncher creates a new Claude launcher. binaryOverride may be empty, in
// which case the binary is discovered.
func NewLauncher(binaryOverride string) *Launcher {
	return &Launcher{binary: binaryOverride}
}

// Common Claude installation locations to check as fallback
var commonLocations = []string{
	"/opt/homebrew/bin/claude", // macOS Homebrew
	"/usr/local/bin/claude",    // Unix standard location
}

// Path returns the path to the Claude binary.
func (l *Launcher) Path() (string, error) {
	attemptedPaths := make([]string, 0, 4)

	// 1. Explicit override from configuration
	if l.binary != "" {
		attemptedPaths = append(attemptedPaths, fmt.Sprintf("configured: %s", l.binary))
		if err := validateBinary(l.binary); err == nil {
			return l.binary, nil
		}
		// An invalid override fails instead of falling back to discovery.
		return "", &NotFoundError{AttemptedPaths: attemptedPaths}
	}

	// 2. Check local Claude installation
	homeDir, err := os.UserHomeDir()
	if err == nil {
		localPath := filepath.Join(homeDir, ".claude", "local", "claude")
		attemptedPaths = append(attemptedPaths, fmt.Sprintf("local: %s", localPath))

		if err := validateBinary(localPath); err == nil {
			return localPath, nil
		}
	}

	// 3. Check system PATH
	if pathBinary, err := exec.LookPath("claude"); err == nil {
		attemptedPaths = append(attemptedPaths, fmt.Sprintf("PATH: %s", pathBinary))

		if err := validateBinary(pathBinary); err == nil {
			return pathBinary, nil
		}
	} else {
		attemptedPaths = append(attemptedPaths, "PATH: not found")
	}

	// 4. Check common installation locations
	for _, location := range commonLocations {
		attemptedPaths = append(attemptedPaths, fmt.Sprintf("common: %s", location))

		if err := validateBinary(location); err == nil {
			return location, nil
		}
	}

	return "", &NotFoundError{AttemptedPaths: attemptedPaths}
}

// Run executes Claude with the given arguments, streaming combined output to
// out. It returns the process exit code: a non-zero code with a nil error
// means Claude ran and failed, which callers handle themselves. A non-nil
// error means the process could not be run at all.
func (l *Launcher) Run(ctx context.Context, out io.Writer, args ...string) (int, error) {
	claudePath, err := l.Path()
	if err != nil {
		return 0, fmt.Errorf("failed to locate Claude binary: %w", err)
	}

	// #nosec G204 -- claudePath is validated before use
	cmd := exec.CommandContext(ctx, claudePath, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	logging.Get(ctx).Debug().
		Str("claude_path", claudePath).
		Strs("args", args).
		Msg("Executing Claude command")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logging.Get(ctx).Error().
				Str("claude_path", claudePath).
				Int("exit_code", exitErr.ExitCode()).
				Msg("Claude command exited non-zero")
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed to execute Claude: %w", err)
	}

	logging.Get(ctx).Debug().
		Str("claude_path", claudePath).
		Msg("Claude command succeeded")

	return 0, nil
}

// validateBinary checks if the given path is a valid, executable file
func validateBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("file does not exist")
		}
		return fmt.Errorf("cannot stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return errors.New("not a regular file")
	}

	if info.Mode().Perm()&0o111 == 0 {
		return errors.New("file is not executable")
	}

	return nil
}

// NotFoundError provides detailed information when Claude cannot be located
type NotFoundError struct {
	AttemptedPaths []string
}

func (e *NotFoundError) Error() string {
	var msg strings.Builder
	_, _ = msg.WriteString("Claude binary not found. Attempted locations:\n")

	for _, path := range e.AttemptedPaths {
		_, _ = msg.WriteString(fmt.Sprintf("  - %s\n", path))
	}

	_, _ = msg.WriteString("\nTo resolve this issue:\n")
	_, _ = msg.WriteString("  1. Install Claude Code from https://claude.ai/code\n")
	_, _ = msg.WriteString("  2. Ensure claude is in your PATH\n")
	_, _ = msg.WriteString("  3. Or specify the path in groundwork.yml: claude_binary: \"/path/to/claude\"\n")

	return msg.String()
}

// IsNotFound returns true if the error is a NotFoundError
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
