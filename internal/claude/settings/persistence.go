package settings

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// Load loads Claude settings from a JSON file.
func Load(fs afero.Fs, filename string) (*Settings, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", filename, err)
	}

	var settings Settings
	err = json.Unmarshal(data, &settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON from %s: %w", filename, err)
	}

	return &settings, nil
}

// Save saves Claude settings to a JSON file.
func Save(fs afero.Fs, settings *Settings, filename string) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings to JSON: %w", err)
	}

	err = afero.WriteFile(fs, filename, append(data, '\n'), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write settings to file %s: %w", filename, err)
	}
	return nil
}

// CreateBackup creates a simple .bak backup of the settings file.
func CreateBackup(fs afero.Fs, filename string) (string, error) {
	backupPath := GetBackupPath(filename)

	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return "", fmt.Errorf("failed to read original file: %w", err)
	}

	err = afero.WriteFile(fs, backupPath, data, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return backupPath, nil
}

// HasBackup checks if a .bak backup exists for the given settings file.
func HasBackup(fs afero.Fs, filename string) bool {
	_, err := fs.Stat(GetBackupPath(filename))
	return err == nil
}

// GetBackupPath returns the backup file path for the given settings file.
func GetBackupPath(filename string) string {
	return filename + ".bak"
}

// RestoreFromBackup restores settings from a backup file.
func RestoreFromBackup(fs afero.Fs, backupPath, targetPath string) error {
	data, err := afero.ReadFile(fs, backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	err = afero.WriteFile(fs, targetPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write target file: %w", err)
	}

	return nil
}

// Exists reports whether the settings file is present.
func Exists(fs afero.Fs, filename string) bool {
	info, err := fs.Stat(filename)
	return err == nil && !info.IsDir()
}
