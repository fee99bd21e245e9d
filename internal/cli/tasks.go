package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nissyi-gh/prio/internal/api"
	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/rank"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Sort string
	JSON bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "Print tasks ranked by priority",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", "score", "sort key (score|deadline)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	key, err := rank.ParseSortKey(opts.Sort)
	if err != nil {
		return err
	}

	repo, err := opts.openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	tasks, err := repo.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	now := time.Now()
	ranked := rank.Rank(tasks, now, key)
	out := cmd.OutOrStdout()

	if opts.JSON {
		items := make([]api.TaskJSON, len(ranked))
		for i, r := range ranked {
			items[i] = api.NewTaskJSON(r, now)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(ranked) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}
	fmt.Fprintln(out, renderTable(ranked, now))
	return nil
}

func renderTable(ranked []rank.Ranked, now time.Time) string {
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		status := r.TimeRemaining(now)
		if r.Completed {
			status = "done"
		}
		rows[i] = []string{
			r.ID,
			strconv.Itoa(r.Score),
			r.Name,
			r.Deadline.In(now.Location()).Format("2006-01-02 15:04"),
			status,
			strconv.Itoa(r.Importance),
			strconv.FormatFloat(r.Effort, 'f', -1, 64),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "SCORE", "NAME", "DEADLINE", "REMAINING", "IMPORTANCE", "EFFORT").
		Rows(rows...).
		String()
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Deadline   string
	Importance int
	Effort     float64
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Long: `Add a task.

The deadline accepts RFC 3339, "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in local
time. A bare date means the end of that day.

Example:
  prio add "Write report" --deadline "2026-10-20 17:00" --importance 8 --effort 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "deadline (required)")
	cmd.Flags().IntVar(&opts.Importance, "importance", model.DefaultImportance, "importance 1-10")
	cmd.Flags().Float64Var(&opts.Effort, "effort", model.DefaultEffort, "estimated effort in hours")
	_ = cmd.MarkFlagRequired("deadline")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions, name string) error {
	deadline, err := parseDeadline(opts.Deadline, time.Local)
	if err != nil {
		return err
	}

	repo, err := opts.openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	n := model.NewTask{Name: name, Deadline: deadline}
	if cmd.Flags().Changed("importance") {
		n.Importance = &opts.Importance
	}
	if cmd.Flags().Changed("effort") {
		n.Effort = &opts.Effort
	}

	task, err := repo.Add(cmd.Context(), n)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (score %d)\n", task.ID, rank.Score(task, time.Now()))
	return nil
}

// parseDeadline accepts RFC 3339 or a local date with optional time.
func parseDeadline(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t.Add(23*time.Hour + 59*time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q: want RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD", s)
}

// NewDoneCommand creates the done command.
func NewDoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "done <id>",
		Short:         "Toggle a task's completion",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := rootOpts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			task, err := repo.ToggleComplete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("toggle task: %w", err)
			}
			state := "reopened"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", task.Name, state)
			return nil
		},
	}
}

// NewRmCommand creates the rm command.
func NewRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a task",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := rootOpts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
