package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/progress"
)

// DayStatus summarizes one day.
type DayStatus struct {
	Day      string `json:"day"`
	Ticked   int    `json:"ticked"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
	Complete bool   `json:"complete"`
}

// StatusResult is the dashboard summary.
type StatusResult struct {
	Overall     int         `json:"overall"`
	Streak      int         `json:"streak"`
	Days        []DayStatus `json:"days"`
	OpenBugs    int         `json:"open_bugs"`
	Ideas       int         `json:"ideas"`
	Decisions   int         `json:"decisions"`
	Activity    int         `json:"activity"`
	Milestones  []int       `json:"milestones_reached"`
	LastSavedAt *time.Time  `json:"last_saved_at,omitempty"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show overall progress",
		Long: `Show overall completion, the current streak and per-day progress.

Overall completion is the mean of the daily percentages; every day counts
the same whatever its number of items.

Examples:
  hq status
  hq status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	o := sess.store.Overlay()
	result := StatusResult{
		Overall:     progress.Round(progress.OverallCompletionPercent(o, sess.base)),
		Streak:      progress.CurrentStreak(o),
		Days:        make([]DayStatus, 0, len(overlay.DayIDs())),
		Ideas:       len(sess.base.Parking) + len(o.UserEntries.Ideas),
		Decisions:   len(sess.base.Decisions) + len(o.UserEntries.Decisions),
		Activity:    len(o.ActivityLog),
		Milestones:  []int{},
		LastSavedAt: o.LastSavedAt,
	}
	for _, m := range progress.DefaultMilestones {
		if o.MilestoneNotified(m) {
			result.Milestones = append(result.Milestones, m)
		}
	}
	for _, b := range slices.Concat(sess.base.Bugs, o.UserEntries.Bugs) {
		if b.Status != overlay.StatusDone {
			result.OpenBugs++
		}
	}
	for _, day := range overlay.DayIDs() {
		result.Days = append(result.Days, dayStatus(o, sess.base, day))
	}

	return sess.out.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "Overall: %s   Streak: %d day(s)\n", sess.out.Percent(progress.OverallCompletionPercent(o, sess.base)), result.Streak)
		fmt.Fprintln(w)
		for _, d := range result.Days {
			mark := " "
			if d.Complete {
				mark = "✓"
			}
			fmt.Fprintf(w, "  %-4s %s %2d/%-2d %5s\n", d.Day, mark, d.Ticked, d.Total, sess.out.Percent(progress.DayCompletionPercent(o, sess.base, d.Day)))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Open bugs: %s   Ideas: %s   Decisions: %s   Activity: %s entries\n",
			sess.out.Count(result.OpenBugs), sess.out.Count(result.Ideas), sess.out.Count(result.Decisions), sess.out.Count(result.Activity))
		for _, m := range result.Milestones {
			fmt.Fprintf(w, "Milestone reached: %d%%\n", m)
		}
		if o.LastSavedAt != nil {
			fmt.Fprintf(w, "Last saved locally: %s\n", o.LastSavedAt.Local().Format(time.DateTime))
		} else {
			fmt.Fprintln(w, "Not saved yet")
		}
	})
}

func dayStatus(o *overlay.Overlay, c progress.Checklist, day string) DayStatus {
	items := c.ItemIDs(day)
	dp := o.Day(day)
	ticked := 0
	for _, id := range items {
		if slices.Contains(dp.TickedItemIDs, id) {
			ticked++
		}
	}
	return DayStatus{
		Day:      day,
		Ticked:   ticked,
		Total:    len(items),
		Percent:  progress.Round(progress.DayCompletionPercent(o, c, day)),
		Complete: dp.Complete,
	}
}
