package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nissyi-gh/prio/internal/importer"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import tasks from a YAML file",
		Long: `Import tasks from a YAML file.

Example file:
  tasks:
    - name: Write report
      deadline: 2026-10-20T17:00:00Z
      importance: 8
      effort: 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			repo, err := rootOpts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := importer.Import(cmd.Context(), repo, f)
			if err != nil {
				return fmt.Errorf("imported %d task(s) before failing: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s)\n", n)
			return nil
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "export",
		Short:         "Write all tasks as YAML to stdout",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := rootOpts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			tasks, err := repo.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			return importer.Export(cmd.OutOrStdout(), tasks)
		},
	}
}
