package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/basedata"
)

// TaskCard is one task on the board.
type TaskCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Day      string `json:"day,omitempty"`
	Sprint   string `json:"sprint,omitempty"`
	Priority string `json:"priority,omitempty"`
	Percent  int    `json:"percent"`
}

// TaskColumn is one status column of the board.
type TaskColumn struct {
	Status string     `json:"status"`
	Tasks  []TaskCard `json:"tasks"`
}

// NewTasksCommand creates the tasks command.
func NewTasksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Show the task board",
		Long: `Show the base dataset's tasks grouped by status: Not started,
In progress, Blocked and Done.

Tasks are guidance only. Progress is tracked by the day checklists.

Examples:
  hq tasks
  hq tasks --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(rootOpts, cmd)
		},
	}
}

func runTasks(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	board := buildTaskBoard(sess.base)
	return sess.out.Render(board, func(w io.Writer) {
		for i, col := range board {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%s)\n", col.Status, sess.out.Count(len(col.Tasks)))
			for _, t := range col.Tasks {
				fmt.Fprintf(w, "  %s  %s\n", t.ID, t.Title)
				day := "-"
				if t.Day != "" {
					day = dayHeading(sess.base, t.Day)
				}
				priority := t.Priority
				if priority == "" {
					priority = "-"
				}
				fmt.Fprintf(w, "      %s · %s · %d%%\n", day, priority, t.Percent)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Guidance only. Progress is tracked by day checklists.")
	})
}

func buildTaskBoard(base *basedata.Dataset) []TaskColumn {
	var board []TaskColumn
	for _, col := range base.TaskBoard() {
		out := TaskColumn{Status: col.Status, Tasks: []TaskCard{}}
		for _, t := range col.Tasks {
			card := TaskCard{
				ID:       t.ID,
				Title:    t.Title,
				Day:      t.Day,
				Priority: t.Priority,
				Percent:  t.Percent,
			}
			if sp, ok := base.Sprint(t.Day); ok {
				card.Sprint = sp.Title
			}
			out.Tasks = append(out.Tasks, card)
		}
		board = append(board, out)
	}
	return board
}
