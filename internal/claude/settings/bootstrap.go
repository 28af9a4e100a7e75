package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// ClaudeDir is the Claude configuration directory name.
	ClaudeDir = ".claude"

	// SettingsFilename is the settings file groundwork modifies.
	SettingsFilename = "settings.json"
)

// DefaultPath returns the user-scope Claude settings path,
// ~/.claude/settings.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ClaudeDir, SettingsFilename), nil
}

// Bootstrap ensures the settings file at path exists and that target appears
// in its permissions.additionalDirectories list. The file is read if present,
// merged, and written back; the list is never duplicated. It returns the
// resulting settings and whether the file was modified.
//
// A malformed existing file is backed up to <path>.bak and replaced rather
// than aborting the run.
func Bootstrap(fs afero.Fs, path, target string) (*Settings, bool, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		// Path resolution needs the working directory; without it the
		// raw argument is the best available value.
		abs = target
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, false, fmt.Errorf("failed to create settings directory: %w", err)
	}

	current := &Settings{}
	if Exists(fs, path) {
		if loaded, err := Load(fs, path); err != nil {
			// Keep the broken file around instead of destroying it.
			if _, backupErr := CreateBackup(fs, path); backupErr != nil {
				return nil, false, fmt.Errorf("settings file unreadable and backup failed: %w", backupErr)
			}
		} else {
			current = loaded
		}
	}

	changed := current.AddAdditionalDirectory(abs)
	if !changed && Exists(fs, path) {
		return current, false, nil
	}

	if err := Save(fs, current, path); err != nil {
		return nil, false, err
	}

	return current, changed, nil
}
