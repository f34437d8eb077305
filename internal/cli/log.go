package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/overlay"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Limit int
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity",
		Long: `Show the most recent activity entries, newest first. The log keeps
the last 300 entries and is for diagnostics only.

Examples:
  hq log
  hq log -n 50 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of entries to show (0 for all)")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "limit must not be negative")
	}

	sess, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	entries := recentActivity(sess.store.Overlay().ActivityLog, opts.Limit)
	return sess.out.Render(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No activity yet.")
		}
		for _, a := range entries {
			fmt.Fprintf(w, "%s  %-14s %s\n", a.Timestamp.Local().Format(time.DateTime), a.Kind, a.Detail)
		}
	})
}

// recentActivity returns up to limit entries, newest first.
func recentActivity(log []overlay.Activity, limit int) []overlay.Activity {
	out := slices.Clone(log)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []overlay.Activity{}
	}
	return out
}
