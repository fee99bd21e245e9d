package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nissyi-gh/prio/internal/api"
	"github.com/nissyi-gh/prio/internal/config"
	"github.com/nissyi-gh/prio/internal/logger"
	"github.com/nissyi-gh/prio/internal/store"
)

// Version is set at build time.
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath   string
	Remote   string
	LogLevel string
	LogJSON  bool

	cfg        *config.Config
	remoteFlag bool
}

// NewRootCommand creates the root command. Running it without a
// subcommand starts the TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "prio",
		Short: "prio - deadline-aware task prioritisation",
		Long: `prio keeps a task list and ranks it by a priority score that blends
importance, deadline urgency and effort.

Tasks live in a local SQLite database, or on a prio server when --remote is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.load(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (default $XDG_DATA_HOME/prio/prio.db)")
	cmd.PersistentFlags().StringVar(&opts.Remote, "remote", "", "base URL of a prio server to use instead of the local database")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.LogJSON, "log-json", false, "log as JSON")

	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDoneCommand(opts))
	cmd.AddCommand(NewRmCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	cmd.Version = Version
	return cmd
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// load merges environment configuration under the flags that were set.
func (o *RootOptions) load(cmd *cobra.Command) {
	o.cfg = config.Load()
	flags := cmd.Flags()

	if !flags.Changed("db") {
		o.DBPath = o.cfg.DBPath
	}
	o.remoteFlag = flags.Changed("remote")
	if !o.remoteFlag {
		o.Remote = o.cfg.Remote
	}
	if !flags.Changed("log-level") {
		o.LogLevel = o.cfg.LogLevel
	}
	if !flags.Changed("log-json") {
		o.LogJSON = o.cfg.LogJSON
	}

	logger.Init(o.LogLevel, o.LogJSON)
}

// openRepo returns the repository the task commands operate on.
func (o *RootOptions) openRepo() (store.Repository, error) {
	if o.Remote != "" {
		logger.Debug("using remote repository", "url", o.Remote)
		return api.NewClient(o.Remote), nil
	}
	s, err := o.openLocal()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (o *RootOptions) openLocal() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(o.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
