package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nissyi-gh/prio/internal/logger"
	"github.com/nissyi-gh/prio/internal/ui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tui",
		Short:         "Open the interactive task list",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rootOpts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *RootOptions) error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	if opts.cfg.LogFile != "" {
		f, err := os.OpenFile(opts.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.Setup(f, opts.LogLevel, opts.LogJSON)
	} else {
		logger.Discard()
	}

	ctx := cmd.Context()
	repo, err := opts.openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	p := tea.NewProgram(ui.NewModel(ctx, repo), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
