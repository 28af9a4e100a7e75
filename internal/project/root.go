// Package project provides utilities for detecting project root directories.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scaffold targets are JS monorepos, so workspace manifests count as roots
// alongside the usual markers.
var markers = []string{".git", "pnpm-workspace.yaml", "turbo.json", "package.json", "go.mod"}

// FindRoot finds the project root directory.
func FindRoot() (string, error) {
	if root, found := checkClaudeProjectDir(); found {
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	if root, found := findProjectMarker(cwd); found {
		return root, nil
	}

	// Fall back to current working directory
	return cwd, nil
}

// FindMarkerFrom finds the project root directory starting from the given
// directory. Useful for tests that should not depend on the working directory.
func FindMarkerFrom(startDir string) (string, bool) {
	return findProjectMarker(startDir)
}

// checkClaudeProjectDir checks if CLAUDE_PROJECT_DIR environment variable is set and valid
func checkClaudeProjectDir() (string, bool) {
	claudeDir := os.Getenv("CLAUDE_PROJECT_DIR")
	if claudeDir == "" {
		return "", false
	}

	abs, err := filepath.Abs(claudeDir)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", false
	}

	return abs, true
}

// findProjectMarker searches for project root markers starting from the given directory
func findProjectMarker(startDir string) (string, bool) {
	currentDir := startDir

	for {
		if hasProjectMarker(currentDir) {
			return currentDir, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}

		currentDir = parentDir
	}

	return "", false
}

// hasProjectMarker checks if any of the known markers exist in the directory
func hasProjectMarker(dir string) bool {
	for _, marker := range markers {
		markerPath := filepath.Join(dir, marker)
		if _, err := os.Stat(markerPath); err == nil {
			return true
		}
	}
	return false
}
