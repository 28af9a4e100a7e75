package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/groundwork-cli/groundwork/internal/config"
	"github.com/groundwork-cli/groundwork/internal/logging"
	"github.com/groundwork-cli/groundwork/internal/project"
)

const defaultConfigName = "groundwork.yml"

// newRootCommand creates the main root command that shows help by default.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "groundwork",
		Short: "AI-assisted full-stack monorepo scaffolder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Show help when run without subcommands
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigName, "Path to config file")

	rootCmd.AddCommand(
		newSetupCommand(),
		newPatternsCommand(),
		newDocsCommand(),
		newStatusCommand(),
		newInitCommand(),
	)

	return rootCmd
}

// loadConfigFromCommand extracts the config flag and loads the configuration.
func loadConfigFromCommand(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath falls back to the project root when the default config
// name is not present in the working directory.
func resolveConfigPath(configPath string) string {
	if configPath != defaultConfigName {
		return configPath
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	root, err := project.FindRoot()
	if err != nil {
		return configPath
	}
	return filepath.Join(root, defaultConfigName)
}

// loggingContext builds a context carrying the configured logger.
func loggingContext(parent context.Context, fs afero.Fs, cfg *config.Config, target string) (context.Context, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	ctx, err := logging.New(parent, fs, logging.Config{Level: level, Target: target})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return ctx, nil
}
