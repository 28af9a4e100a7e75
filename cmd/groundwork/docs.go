package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/groundwork-cli/groundwork/internal/docs"
)

// newDocsCommand creates the docs command.
func newDocsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs [name]",
		Short: "List or print the embedded instruction documents",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDocs,
	}

	cmd.Flags().String("export", "", "Write every document to the given directory")

	return cmd
}

func runDocs(cmd *cobra.Command, args []string) error {
	exportDir, err := cmd.Flags().GetString("export")
	if err != nil {
		return fmt.Errorf("failed to get export flag: %w", err)
	}

	if exportDir != "" {
		return exportDocuments(afero.NewOsFs(), cmd, exportDir)
	}

	if len(args) == 1 {
		doc, ok := docs.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown document %q", args[0])
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), doc.Body)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Setup steps (in order):")
	for i, doc := range docs.SetupSteps() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d. %-22s %s\n", i+1, doc.Name, doc.Title)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Patterns:")
	for _, doc := range docs.Patterns() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "     %-22s %s\n", doc.Name, doc.Title)
	}
	return nil
}

// exportDocuments writes the whole corpus under dir, preserving layout.
func exportDocuments(fs afero.Fs, cmd *cobra.Command, dir string) error {
	for _, doc := range docs.All() {
		path := filepath.Join(dir, doc.Path)

		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
		if err := afero.WriteFile(fs, path, []byte(doc.Body), 0o644); err != nil {
			return fmt.Errorf("failed to export %s: %w", doc.Name, err)
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d documents to %s\n", len(docs.All()), dir)
	return nil
}
