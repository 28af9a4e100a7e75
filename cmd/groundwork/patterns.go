package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groundwork-cli/groundwork/internal/docs"
	"github.com/groundwork-cli/groundwork/internal/runner"
)

// newPatternsCommand creates the patterns command.
func newPatternsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns <target-directory> [pattern ...]",
		Short: "Install application patterns into an existing scaffold",
		Long: "Run pattern instruction documents against an existing scaffold. With no\n" +
			"pattern names, every pattern is installed in catalog order.",
		Args: cobra.MinimumNArgs(1),
		RunE: runPatterns,
	}

	cmd.Flags().Bool("dry-run", false, "Print the step plan without invoking Claude")

	return cmd
}

func runPatterns(cmd *cobra.Command, args []string) error {
	target := resolveTarget(args[0])

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	cfg, err := loadConfigFromCommand(cmd)
	if err != nil {
		return err
	}

	selected, err := selectPatterns(args[1:])
	if err != nil {
		return err
	}

	opts := runner.Options{
		Target:     target,
		Kind:       "patterns",
		Shared:     docs.Shared(),
		ClaudeArgs: cfg.ClaudeArgs,
		// Patterns extend a scaffold that already builds; the setup
		// command owns the build step.
		SkipBuild: true,
		DryRun:    dryRun,
	}

	return executeRun(cmd, cfg, stepsFromDocuments(selected), opts)
}

// selectPatterns resolves the requested pattern names, defaulting to the full
// catalog.
func selectPatterns(names []string) ([]docs.Document, error) {
	catalog := docs.Patterns()
	if len(names) == 0 {
		return catalog, nil
	}

	available := make([]string, 0, len(catalog))
	byName := make(map[string]docs.Document, len(catalog))
	for _, doc := range catalog {
		available = append(available, doc.Name)
		byName[doc.Name] = doc
	}

	selected := make([]docs.Document, 0, len(names))
	for _, name := range names {
		doc, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown pattern %q (available: %s)", name, strings.Join(available, ", "))
		}
		selected = append(selected, doc)
	}
	return selected, nil
}
