package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/groundwork-cli/groundwork/internal/config"
)

// newInitCommand creates the init command.
func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default groundwork.yml in the current directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			return writeDefaultConfig(afero.NewOsFs(), cmd, configPath)
		},
	}
}

func writeDefaultConfig(fs afero.Fs, cmd *cobra.Command, configPath string) error {
	if _, err := fs.Stat(configPath); err == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", configPath)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	data, err := config.DefaultYAML()
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	return nil
}
