package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/progress"
	"github.com/roach88/hq/internal/store"
)

// TickOptions holds flags for the tick command.
type TickOptions struct {
	*RootOptions
	Undo bool
}

// TickResult reports the new state of a day after ticking.
type TickResult struct {
	Day        string   `json:"day"`
	Items      []string `json:"items"`
	Ticked     bool     `json:"ticked"`
	Percent    int      `json:"percent"`
	Milestones []int    `json:"milestones"`
}

// NewTickCommand creates the tick command.
func NewTickCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TickOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tick <day> <item>...",
		Short: "Tick checklist items of a day",
		Long: `Mark checklist items of a day as done, or not done with --undo.

Crossing an overall milestone (25%, 50%, 75%, 100%) for the first time
is announced once.

Examples:
  hq tick D2 d2-setup d2-plan
  hq tick D2 d2-plan --undo`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTick(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Undo, "undo", false, "untick the items instead")

	return cmd
}

func runTick(opts *TickOptions, day string, items []string, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts.RootOptions, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := TickResult{Day: day, Items: items, Ticked: !opts.Undo, Milestones: []int{}}
	for _, item := range items {
		crossed, err := sess.store.Tick(sess.ctx, day, item, !opts.Undo)
		result.Milestones = append(result.Milestones, crossed...)
		if err != nil {
			return storeError("failed to tick "+item, err)
		}
	}
	o := sess.store.Overlay()
	result.Percent = progress.Round(progress.DayCompletionPercent(o, sess.base, day))

	return sess.out.Render(result, func(w io.Writer) {
		verb := "Ticked"
		if opts.Undo {
			verb = "Unticked"
		}
		for _, item := range items {
			fmt.Fprintf(w, "%s %s:%s\n", verb, day, item)
		}
		fmt.Fprintf(w, "%s is %s done\n", day, sess.out.Percent(progress.DayCompletionPercent(o, sess.base, day)))
		for _, m := range result.Milestones {
			fmt.Fprintf(w, "Milestone reached: %d%% overall\n", m)
		}
	})
}

// CompleteOptions holds flags for the complete command.
type CompleteOptions struct {
	*RootOptions
	Undo bool
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "complete <day>",
		Short: "Mark a day complete",
		Long: `Mark a day complete, or reopen it with --undo.

Consecutive complete days from D1 make up the streak.

Examples:
  hq complete D1
  hq complete D1 --undo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Undo, "undo", false, "reopen the day instead")

	return cmd
}

func runComplete(opts *CompleteOptions, day string, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.store.SetComplete(sess.ctx, day, !opts.Undo); err != nil {
		return storeError("failed to update "+day, err)
	}

	streak := progress.CurrentStreak(sess.store.Overlay())
	return sess.out.Render(map[string]any{"day": day, "complete": !opts.Undo, "streak": streak}, func(w io.Writer) {
		if opts.Undo {
			fmt.Fprintf(w, "%s reopened\n", day)
		} else {
			fmt.Fprintf(w, "%s complete\n", day)
		}
		fmt.Fprintf(w, "Streak: %d day(s)\n", streak)
	})
}

// NoteOptions holds flags for the note command.
type NoteOptions struct {
	*RootOptions
	Start     string
	End       string
	Intention string
}

// NewNoteCommand creates the note command.
func NewNoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "note <day>",
		Short: "Set a day's notes",
		Long: `Set the start note, end note or intention of a day. Only the flags
given are changed; pass an empty value to clear a note.

Examples:
  hq note D3 --intention "ship the migrator"
  hq note D3 --start "fresh" --end "tired but done"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNote(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "start-of-day note")
	cmd.Flags().StringVar(&opts.End, "end", "", "end-of-day note")
	cmd.Flags().StringVar(&opts.Intention, "intention", "", "intention for the day")

	return cmd
}

func runNote(opts *NoteOptions, day string, cmd *cobra.Command) error {
	fields := []struct {
		flag  string
		field store.NoteField
		value string
	}{
		{"start", store.NoteStart, opts.Start},
		{"end", store.NoteEnd, opts.End},
		{"intention", store.NoteIntention, opts.Intention},
	}

	changed := false
	for _, f := range fields {
		changed = changed || cmd.Flags().Changed(f.flag)
	}
	if !changed {
		return NewExitError(ExitCommandError, "nothing to set: use --start, --end or --intention")
	}

	sess, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	var updated []string
	for _, f := range fields {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		if err := sess.store.SetNote(sess.ctx, day, f.field, f.value); err != nil {
			return storeError("failed to set note", err)
		}
		updated = append(updated, f.flag)
	}

	return sess.out.Render(map[string]any{"day": day, "updated": updated}, func(w io.Writer) {
		fmt.Fprintf(w, "Updated %s notes: %v\n", day, updated)
	})
}
